package logdata

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptySeries is returned when a statistic is requested on a data set without samples.
	ErrEmptySeries = errors.New("series has no samples")
	// ErrZeroAverage is returned when a runtime estimate would divide by a zero average.
	ErrZeroAverage = errors.New("average value is zero")
)

// ParseError reports a malformed field while loading a log file.
type ParseError struct {
	File  string
	Line  int
	Field int
	Err   error
}

func (e *ParseError) Error() string {
	if e.Line <= 0 {
		return fmt.Sprintf("%s: %v", e.File, e.Err)
	}
	if e.Field >= 0 {
		return fmt.Sprintf("%s: line %d field %d: %v", e.File, e.Line, e.Field+1, e.Err)
	}
	return fmt.Sprintf("%s: line %d: %v", e.File, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// StorageError reports that the data directory cannot be created or read.
type StorageError struct {
	Op  string
	Dir string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage unavailable: failed to %s %s: %v", e.Op, e.Dir, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
