// Package manifest reads and mutates the declared-dependency field of a
// DESCRIPTION-style manifest.
//
// The format uses column-0 "FieldName:" markers; a field's value continues
// on indented lines until the next column-0 field. Dependency entries are
// comma separated with optional parenthetical version constraints, e.g.
//
//	Imports:
//	    dplyr (>= 1.0),
//	    ggplot2
//
// Reads strip version constraints. Writes are format preserving: the file
// is split into preamble, declared block, and postamble, only the block is
// mutated, and untouched lines stay byte-identical. All mutation goes
// through an atomic scratch-file swap so the original survives any failure.
package manifest

import (
	"os"
	"regexp"
	"strings"
)

// DefaultField is the declared-dependency field mutated by the editor.
const DefaultField = "Imports"

// File is a handle on a manifest file. The zero Field means DefaultField.
type File struct {
	Path  string
	Field string
}

// New returns a handle on the manifest at path using the default field.
func New(path string) *File {
	return &File{Path: path, Field: DefaultField}
}

func (f *File) field() string {
	if f.Field == "" {
		return DefaultField
	}
	return f.Field
}

var constraintRE = regexp.MustCompile(`\s*\([^)]*\)\s*$`)

// ProjectName returns the value of the manifest's "Package" field, used
// to exclude the project's own name from its dependency set. Missing
// file or field is a soft miss yielding the empty string.
func (f *File) ProjectName() string {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return ""
	}
	lines := splitLines(string(data))
	start, _, ok := findBlock(lines, "Package")
	if !ok {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(lines[start], "Package:"))
}

// Parse returns the declared package names in declaration order with
// version constraints stripped. A missing file or missing field is a soft
// miss: Parse returns an empty set and no error.
func (f *File) Parse() ([]string, error) {
	data, err := os.ReadFile(f.Path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	lines := splitLines(string(data))
	start, end, ok := findBlock(lines, f.field())
	if !ok {
		return nil, nil
	}
	return blockEntries(lines[start:end], f.field()), nil
}

// splitLines splits content into lines without their terminators,
// remembering nothing about the final newline; writers re-add it.
func splitLines(content string) []string {
	lines := strings.Split(content, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}

// findBlock locates the field's line range [start, end) in lines.
// start is the field-marker line; continuation lines are those indented
// with a space or tab up to the next column-0 field or end of file.
func findBlock(lines []string, field string) (start, end int, ok bool) {
	marker := field + ":"
	for i, line := range lines {
		if !strings.HasPrefix(line, marker) {
			continue
		}
		end = i + 1
		for end < len(lines) {
			l := lines[end]
			if l == "" || (l[0] != ' ' && l[0] != '\t') {
				break
			}
			end++
		}
		return i, end, true
	}
	return 0, 0, false
}

// blockEntries extracts entry names from the block's lines, stripping
// constraints and trailing commas.
func blockEntries(block []string, field string) []string {
	var parts []string
	for i, line := range block {
		if i == 0 {
			line = strings.TrimPrefix(line, field+":")
		}
		parts = append(parts, line)
	}

	var names []string
	for _, raw := range strings.Split(strings.Join(parts, "\n"), ",") {
		if name := entryName(raw); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// entryName reduces a raw entry ("dplyr (>= 1.0)," with whitespace) to
// its bare package name.
func entryName(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(s, ",")
	s = constraintRE.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
