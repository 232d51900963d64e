package manifest

import (
	"os"
	"strings"

	"github.com/packdrift/packdrift/pkg/errors"
	pkgio "github.com/packdrift/packdrift/pkg/io"
)

const defaultIndent = "    "

// AddDeclaration declares name in the manifest's dependency field. It is
// an idempotent no-op when the name is already declared. New entries
// preserve the block's indentation and trailing-comma convention; when the
// field is wholly absent the block is created at end of file, and a
// missing manifest is created outright. The rewrite goes through a scratch
// copy swapped in atomically, so the original file survives any failure.
func (f *File) AddDeclaration(name string) error {
	data, err := os.ReadFile(f.Path)
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeWriteManifest, err, "cannot read manifest %s", f.Path)
	}

	lines := splitLines(string(data))
	start, end, ok := findBlock(lines, f.field())

	switch {
	case !ok:
		lines = append(lines, f.field()+":", defaultIndent+name)

	default:
		for _, existing := range blockEntries(lines[start:end], f.field()) {
			if existing == name {
				return nil
			}
		}
		lines = f.insertEntry(lines, start, end, name)
	}

	return f.write(lines, name, finalNewline(data))
}

// insertEntry appends name as the block's new last entry.
func (f *File) insertEntry(lines []string, start, end int, name string) []string {
	last := lastEntryLine(lines, start, end, f.field())
	indent := blockIndent(lines, start, end)

	if last < 0 {
		// Bare field marker with no entries yet.
		return insertLine(lines, start+1, indent+name)
	}

	trimmed := strings.TrimRight(lines[last], " \t")
	if !strings.HasSuffix(trimmed, ",") {
		trimmed += ","
	}
	lines[last] = trimmed
	return insertLine(lines, last+1, indent+name)
}

// RemoveDeclarations batch-removes the given names from the dependency
// block, skipping any name the isProtected callback accepts. Lines that do
// not mention a removed name stay byte-identical. Returns the names
// actually removed. A missing file or field is a soft miss.
func (f *File) RemoveDeclarations(names []string, isProtected func(string) bool) ([]string, error) {
	data, err := os.ReadFile(f.Path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeWriteManifest, err, "cannot read manifest %s", f.Path)
	}

	target := make(map[string]bool, len(names))
	for _, n := range names {
		if isProtected == nil || !isProtected(n) {
			target[n] = true
		}
	}
	if len(target) == 0 {
		return nil, nil
	}

	lines := splitLines(string(data))
	start, end, ok := findBlock(lines, f.field())
	if !ok {
		return nil, nil
	}

	newBlock, removed := filterBlock(lines[start:end], f.field(), target)
	if len(removed) == 0 {
		return nil, nil
	}

	out := make([]string, 0, len(lines))
	out = append(out, lines[:start]...)
	out = append(out, newBlock...)
	out = append(out, lines[end:]...)

	if err := f.write(out, strings.Join(removed, ", "), finalNewline(data)); err != nil {
		return nil, err
	}
	return removed, nil
}

// filterBlock drops entries named in target from the block's lines.
// Untouched lines are preserved verbatim; a line whose entries are all
// removed disappears, and the block itself disappears when no entries
// remain. The new last entry loses any dangling trailing comma.
func filterBlock(block []string, field string, target map[string]bool) (kept []string, removed []string) {
	marker := field + ":"

	for i, line := range block {
		prefix := ""
		content := line
		if i == 0 {
			prefix = marker
			content = strings.TrimPrefix(line, marker)
		}

		segments := strings.Split(content, ",")
		hadTrailing := strings.TrimSpace(segments[len(segments)-1]) == ""
		if hadTrailing {
			segments = segments[:len(segments)-1]
		}

		var keptSegs []string
		changed := false
		for _, seg := range segments {
			name := entryName(seg)
			switch {
			case name == "":
				keptSegs = append(keptSegs, seg)
			case target[name]:
				removed = append(removed, name)
				changed = true
			default:
				keptSegs = append(keptSegs, seg)
			}
		}

		switch {
		case !changed:
			kept = append(kept, line)
		case len(keptSegs) > 0:
			rebuilt := prefix + strings.Join(keptSegs, ",")
			if hadTrailing {
				rebuilt += ","
			}
			kept = append(kept, rebuilt)
		case i == 0:
			// Field line with all inline entries removed: keep the bare
			// marker; dropped later if the whole block emptied out.
			kept = append(kept, marker)
		}
	}

	if blockEntryCount(kept, field) == 0 {
		return nil, removed
	}
	return fixTrailingComma(kept, field), removed
}

// fixTrailingComma strips a dangling comma from the block's last entry.
func fixTrailingComma(block []string, field string) []string {
	for i := len(block) - 1; i >= 0; i-- {
		content := block[i]
		if i == 0 {
			content = strings.TrimPrefix(content, field+":")
		}
		if strings.TrimSpace(content) == "" {
			continue
		}
		trimmed := strings.TrimRight(block[i], " \t")
		block[i] = strings.TrimSuffix(trimmed, ",")
		break
	}
	return block
}

// lastEntryLine finds the last line in [start, end) carrying an entry,
// or -1 when the block holds none.
func lastEntryLine(lines []string, start, end int, field string) int {
	for i := end - 1; i >= start; i-- {
		content := lines[i]
		if i == start {
			content = strings.TrimPrefix(content, field+":")
		}
		if strings.TrimSpace(content) != "" {
			return i
		}
	}
	return -1
}

// blockIndent detects the indentation of continuation lines.
func blockIndent(lines []string, start, end int) string {
	for i := start + 1; i < end; i++ {
		if strings.TrimSpace(lines[i]) == "" {
			continue
		}
		trimmed := strings.TrimLeft(lines[i], " \t")
		return lines[i][:len(lines[i])-len(trimmed)]
	}
	return defaultIndent
}

func blockEntryCount(block []string, field string) int {
	if len(block) == 0 {
		return 0
	}
	return len(blockEntries(block, field))
}

func insertLine(lines []string, at int, line string) []string {
	out := make([]string, 0, len(lines)+1)
	out = append(out, lines[:at]...)
	out = append(out, line)
	out = append(out, lines[at:]...)
	return out
}

// finalNewline reports whether the original content ended with a
// newline, so the rewrite can preserve that state. A new file gets one.
func finalNewline(data []byte) bool {
	return len(data) == 0 || data[len(data)-1] == '\n'
}

// write serializes lines and swaps them into place atomically. The
// subject is included in failure messages so the user knows which
// package the mutation was for.
func (f *File) write(lines []string, subject string, trailingNewline bool) error {
	content := strings.Join(lines, "\n")
	if trailingNewline {
		content += "\n"
	}
	if err := pkgio.WriteFileAtomic(f.Path, []byte(content), 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeWriteManifest, err, "cannot rewrite %s for %s", f.Path, subject).
			WithRemediation("check permissions on %s and add %s to the %s field by hand", f.Path, subject, f.field())
	}
	return nil
}
