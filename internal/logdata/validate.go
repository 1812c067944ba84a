package logdata

import (
	"os"
	"strings"
)

// IsValid reports whether name is a well-formed log file in the store directory.
// It never returns an error: anything unreadable or malformed is simply invalid.
func (s *Store) IsValid(name string) bool {
	if !isBaseName(name) {
		return false
	}
	path := s.Path(name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	if !strings.HasSuffix(name, fileExt) {
		return false
	}
	lines, err := readLines(path)
	if err != nil {
		return false
	}
	return validLines(lines)
}

func validLines(lines []string) bool {
	if len(lines) < 2 {
		return false
	}
	if _, err := parseHeader(lines[0]); err != nil {
		return false
	}
	for _, tok := range strings.Split(lines[1], fieldSeparator) {
		if _, err := parseSample(tok); err != nil {
			return false
		}
	}
	return true
}
