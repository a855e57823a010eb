// Package pawnfile handles Windows-1251 encoded source file I/O for the
// legacy Pawn toolchain.
package pawnfile

import (
	"fmt"
	"os"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// ReadFile reads a Windows-1251 encoded source file and returns its
// content as UTF-8. Bytes without a mapping decode to the replacement
// rune; the read itself never fails on content.
func ReadFile(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read source file: %w", err)
	}

	decoded, err := charmap.Windows1251.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("decode cp1251: %w", err)
	}

	return string(decoded), nil
}

// WriteFile writes UTF-8 text back out as Windows-1251. Runes with no
// cp1251 mapping are replaced instead of failing the write.
func WriteFile(path, text string) error {
	enc := encoding.ReplaceUnsupported(charmap.Windows1251.NewEncoder())
	out, err := enc.Bytes([]byte(text))
	if err != nil {
		return fmt.Errorf("encode cp1251: %w", err)
	}

	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("write output file: %w", err)
	}
	return nil
}

// Backup copies the input file byte for byte to path+".bak" before any
// processing touches it.
func Backup(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read for backup: %w", err)
	}

	bakPath := path + ".bak"
	if err := os.WriteFile(bakPath, raw, 0644); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}

	return bakPath, nil
}
