package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/DataDog/zstd"
)

// Compile converts every table of the bundle at src into the binary
// encoding and writes a new bundle to dst. With compress set the tables are
// written zstd-compressed as <stem>.bin.zst. Absent optional tables are
// skipped. It returns the stems written.
func Compile(src, dst string, compress bool) ([]string, error) {
	if _, err := Open(src); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dst, err)
	}
	if err := os.WriteFile(filepath.Join(dst, VersionFile), []byte(Version+"\n"), 0o644); err != nil {
		return nil, fmt.Errorf("write version: %w", err)
	}

	var written []string
	for _, stem := range Stems {
		if _, err := locate(src, stem); err != nil {
			continue
		}

		data, err := encodeStem(src, stem)
		if err != nil {
			return written, err
		}

		name := stem + ".bin"
		if compress {
			data, err = zstd.CompressLevel(nil, data, zstd.DefaultCompression)
			if err != nil {
				return written, fmt.Errorf("compress %s: %w", stem, err)
			}
			name += ".zst"
		}
		if err := os.WriteFile(filepath.Join(dst, name), data, 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", name, err)
		}
		written = append(written, stem)
	}
	return written, nil
}

func encodeStem(dir, stem string) ([]byte, error) {
	switch stem {
	case StemDict:
		return recode(dir, stem, dictCodec)
	case StemBigram:
		return recode(dir, stem, bigramCodec)
	case StemCRFSegment, StemCRFPOS:
		return recode(dir, stem, crfCodec(stem))
	case StemHMMSegment, StemHMMPOS:
		return recode(dir, stem, hmmCodec(stem))
	case StemOOVProperty:
		return recode(dir, stem, propertyCodec)
	case StemDefaultTag:
		return recode(dir, stem, defaultTagCodec)
	}
	return nil, fmt.Errorf("unknown table %q", stem)
}

func recode[T any](dir, stem string, c codec[T]) ([]byte, error) {
	t, err := readTable(dir, stem, c)
	if err != nil {
		return nil, err
	}
	return c.encode(t), nil
}
