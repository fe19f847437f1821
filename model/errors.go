package model

import (
	"errors"
	"fmt"
	"io/fs"
)

var (
	// ErrMissingFile indicates a required bundle file does not exist or
	// cannot be read.
	ErrMissingFile = errors.New("missing model file")

	// ErrCorruptFormat indicates a bundle file that cannot be parsed or
	// whose content is inconsistent.
	ErrCorruptFormat = errors.New("corrupt model file")

	// ErrVersionMismatch indicates a bundle written for another format version.
	ErrVersionMismatch = errors.New("model version mismatch")
)

// corrupt reports a malformed line of a text table.
func corrupt(name string, line int, format string, args ...any) error {
	return fmt.Errorf("%w: %s:%d: %s", ErrCorruptFormat, name, line, fmt.Sprintf(format, args...))
}

// unreadable reports a bundle file that could not be opened or read.
func unreadable(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrMissingFile, path)
	}
	return fmt.Errorf("%w: %s: %w", ErrMissingFile, path, err)
}

// isClassified reports whether err already carries one of the load kinds.
func isClassified(err error) bool {
	return errors.Is(err, ErrMissingFile) ||
		errors.Is(err, ErrCorruptFormat) ||
		errors.Is(err, ErrVersionMismatch)
}
