// Package rpkg defines R package name validation and the configurable
// filter sets (base packages, placeholders, protected names) applied
// during reconciliation.
package rpkg

// MinNameLen is the shortest accepted package name.
const MinNameLen = 3

// IsValidName reports whether name is a well-formed R package name:
// it starts with a letter, contains only letters, digits, and dots,
// does not end with a dot, and is at least MinNameLen characters long.
// Names are case-sensitive and never normalized.
func IsValidName(name string) bool {
	if len(name) < MinNameLen {
		return false
	}
	if !isLetter(rune(name[0])) {
		return false
	}
	if name[len(name)-1] == '.' {
		return false
	}
	for _, r := range name {
		if !isLetter(r) && !isDigit(r) && r != '.' {
			return false
		}
	}
	return true
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
