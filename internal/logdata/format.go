// Package logdata reads, validates and writes sampled current/voltage log files.
//
// A log file has two meaningful lines:
//
//	<VALUE_TYPE>,<INTERVAL_MS>
//	<v1>,<v2>,...,<vn>
package logdata

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	fileExt        = ".txt"
	fieldSeparator = ","
)

var (
	errMissingInterval = errors.New("missing interval field")
	errBadInterval     = errors.New("interval is not an integer")
	errBadSample       = errors.New("sample is not a number")
	errTooFewLines     = errors.New("expected at least 2 lines")
	errNotUTF8         = errors.New("content is not valid UTF-8")
)

// header is the decoded first line of a log file.
type header struct {
	label      string
	intervalMs int
}

// readLines reads path fully and splits it into lines. Each line keeps no terminator.
// A final unterminated segment counts as a line, a trailing newline does not start one.
func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(data) {
		return nil, errNotUTF8
	}
	return splitLines(string(data)), nil
}

func splitLines(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func parseHeader(line string) (header, error) {
	fields := strings.Split(line, fieldSeparator)
	if len(fields) < 2 {
		return header{}, errMissingInterval
	}
	interval, err := parseInterval(fields[1])
	if err != nil {
		return header{}, err
	}
	return header{label: fields[0], intervalMs: interval}, nil
}

// parseInterval accepts an unsigned base-10 integer surrounded by optional whitespace.
func parseInterval(field string) (int, error) {
	s := strings.TrimSpace(field)
	if s == "" {
		return 0, errBadInterval
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, errBadInterval
		}
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", errBadInterval, err)
	}
	return v, nil
}

// parseSample accepts a decimal float literal surrounded by optional whitespace.
func parseSample(token string) (float64, error) {
	s := strings.TrimSpace(token)
	if s == "" || strings.ContainsAny(s, "xX_") {
		return 0, errBadSample
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errBadSample
	}
	return v, nil
}

// parseSamples returns the samples of line 2, or the failing field index with its error.
func parseSamples(line string) ([]float64, int, error) {
	tokens := strings.Split(line, fieldSeparator)
	values := make([]float64, 0, len(tokens))
	for i, tok := range tokens {
		v, err := parseSample(tok)
		if err != nil {
			return nil, i, err
		}
		values = append(values, v)
	}
	return values, -1, nil
}

func isBaseName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}
