package milkcat

import (
	"errors"

	"github.com/jamesainslie/go-milkcat/model"
)

// Sentinel errors for conditions callers may need to handle differently.
var (
	// ErrModelLoad indicates the model bundle could not be loaded. It is
	// always joined with one of ErrMissingFile, ErrCorruptFormat or
	// ErrVersionMismatch.
	ErrModelLoad = errors.New("milkcat: model load failed")

	// ErrMissingFile indicates a required bundle file does not exist.
	ErrMissingFile = model.ErrMissingFile

	// ErrCorruptFormat indicates a bundle file exists but is malformed.
	ErrCorruptFormat = model.ErrCorruptFormat

	// ErrVersionMismatch indicates a bundle of an unsupported format version.
	ErrVersionMismatch = model.ErrVersionMismatch

	// ErrProcessing indicates the input could not be processed. The
	// processor stays usable.
	ErrProcessing = errors.New("milkcat: processing failed")

	// ErrInvalidEncoding indicates input that is not valid UTF-8.
	ErrInvalidEncoding = errors.New("milkcat: invalid UTF-8 input")

	// ErrInputTooLarge indicates input above the configured size limit.
	ErrInputTooLarge = errors.New("milkcat: input too large")

	// ErrState indicates an accessor called without a current token.
	ErrState = errors.New("milkcat: no current token")

	// ErrUnknownProcessorType indicates a processor type outside the enum.
	ErrUnknownProcessorType = errors.New("milkcat: unknown processor type")

	// ErrClosed indicates use of a closed processor.
	ErrClosed = errors.New("milkcat: processor is closed")
)
