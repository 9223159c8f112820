// Package dumputil provides output helpers for the docxdump debug tool. It
// operates on opened document packages and parsed documents and produces part
// listings, style reports, structure trees and media archives.
package dumputil

import (
	"archive/zip"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"

	"dxc/docx"
)

// DumpPartsTxt writes the package part inventory to <stem>-parts.txt.
func DumpPartsTxt(c *docx.Container, inPath, outDir string, overwrite bool) error {
	var sb strings.Builder
	names := c.PartNames()
	fmt.Fprintf(&sb, "%d part(s)\n\n", len(names))
	for _, name := range names {
		data, err := c.Part(name)
		if err != nil {
			return fmt.Errorf("read part %s: %w", name, err)
		}
		fmt.Fprintf(&sb, "%10d  %s\n", len(data), name)
	}
	return WriteOutput(inPath, outDir, "-parts.txt", []byte(sb.String()), overwrite)
}

// DumpMediaZip extracts every word/media part into <stem>-media.zip. Parts
// without a usable extension get one detected from magic bytes.
func DumpMediaZip(c *docx.Container, inPath, outDir string, overwrite bool) (retErr error) {
	names := c.MediaNames()
	if len(names) == 0 {
		fmt.Fprintln(os.Stderr, "media: package has no media parts")
		return nil
	}

	base := filepath.Base(inPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	dir := filepath.Dir(inPath)
	if outDir != "" {
		dir = outDir
	}
	outPath := filepath.Join(dir, stem+"-media.zip")
	if _, err := os.Stat(outPath); err == nil {
		if !overwrite {
			return fmt.Errorf("output file already exists: %s (use -overwrite)", outPath)
		}
		if err := os.Remove(outPath); err != nil {
			return err
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer func() { retErr = errors.Join(retErr, f.Close()) }()

	zw := zip.NewWriter(f)
	defer func() { retErr = errors.Join(retErr, zw.Close()) }()

	written := 0
	for _, name := range names {
		data, err := c.Part(name)
		if err != nil {
			return fmt.Errorf("read part %s: %w", name, err)
		}
		entryName := SanitizeFileComponent(path.Base(name))
		if path.Ext(entryName) == "" {
			entryName += ExtFromFiletype(data)
		}
		w, err := zw.Create(entryName)
		if err != nil {
			return err
		}
		if _, err := w.Write(data); err != nil {
			return err
		}
		written++
	}

	_, _ = fmt.Fprintf(os.Stderr, "media: wrote %d file(s) into %s\n", written, outPath)
	return nil
}

// WriteOutput writes data to <stem><suffix> in either the input file's directory or outDir.
func WriteOutput(inPath, outDir, suffix string, data []byte, overwrite bool) error {
	base := filepath.Base(inPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	dir := filepath.Dir(inPath)
	if outDir != "" {
		dir = outDir
	}
	outPath := filepath.Join(dir, stem+suffix)

	if _, err := os.Stat(outPath); err == nil {
		if !overwrite {
			return fmt.Errorf("output file already exists: %s (use -overwrite)", outPath)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "wrote %s\n", outPath)
	return nil
}

// ExtFromFiletype detects the file extension from magic bytes.
func ExtFromFiletype(b []byte) string {
	kind, err := filetype.Match(b)
	if err == nil && kind != filetype.Unknown && kind.Extension != "" {
		return "." + kind.Extension
	}
	return ".bin"
}

// SanitizeFileComponent cleans a string for use in a filename.
func SanitizeFileComponent(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "unknown"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		default:
			return '_'
		}
	}, s)
}
