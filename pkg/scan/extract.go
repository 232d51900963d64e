package scan

import (
	"bufio"
	"io"
	"regexp"
	"strings"
)

// Extraction patterns for R dependency usage. Candidates come from
// load calls, namespace-qualified calls, and roxygen import annotations.
var (
	loadCallRE   = regexp.MustCompile(`\b(?:library|require)\s*\(\s*["']?([A-Za-z][A-Za-z0-9.]*)["']?\s*[),]`)
	requireNsRE  = regexp.MustCompile(`\brequireNamespace\s*\(\s*["']([A-Za-z][A-Za-z0-9.]*)["']`)
	nsCallRE     = regexp.MustCompile(`\b([A-Za-z][A-Za-z0-9.]*):{2,3}[A-Za-z._]`)
	importFromRE = regexp.MustCompile(`^#'\s*@importFrom\s+(\S+)`)
	importRE     = regexp.MustCompile(`^#'\s*@import\s+(.+)$`)
)

// extractReader scans R source line by line and returns raw candidate
// tokens in first-seen order. Plain comment lines are ignored; roxygen
// lines ("#'") are consulted only for @import/@importFrom annotations.
// Tokens are not validated or filtered here.
func extractReader(r io.Reader) ([]string, error) {
	var tokens []string
	seen := make(map[string]bool)
	add := func(tok string) {
		if tok != "" && !seen[tok] {
			seen[tok] = true
			tokens = append(tokens, tok)
		}
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(line, "#'") {
			if m := importFromRE.FindStringSubmatch(line); len(m) > 1 {
				add(m[1])
			}
			if m := importRE.FindStringSubmatch(line); len(m) > 1 {
				for _, tok := range strings.Fields(m[1]) {
					add(tok)
				}
			}
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}

		for _, m := range loadCallRE.FindAllStringSubmatch(line, -1) {
			add(m[1])
		}
		for _, m := range requireNsRE.FindAllStringSubmatch(line, -1) {
			add(m[1])
		}
		for _, m := range nsCallRE.FindAllStringSubmatch(line, -1) {
			add(m[1])
		}
	}
	return tokens, scanner.Err()
}
