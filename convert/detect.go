package convert

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"

	"dxc/docx"
)

// Detection never reads more than this from the head of a file. The zip
// signature sits in the first four bytes, the rest is slack for filetype's
// matchers.
const sniffLen = 512

func readSniff(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(file, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, err
	}
	return buf[:n], nil
}

// isArchiveFile reports whether path is a batch archive of documents.
// Documents are zip containers themselves, so the extension decides between
// the two: ".docx" is a document, ".zip" is an archive to look into.
func isArchiveFile(path string) (bool, error) {
	if !strings.EqualFold(filepath.Ext(path), ".zip") {
		return false, nil
	}
	sniff, err := readSniff(path)
	if err != nil {
		return false, err
	}
	return filetype.Is(sniff, "zip"), nil
}

// isDocumentFile reports whether path is a Word document: a zip container
// carrying the word/document.xml part. Only the central directory is
// consulted, entry contents are not read.
func isDocumentFile(path string) (bool, error) {
	if !strings.EqualFold(filepath.Ext(path), ".docx") {
		return false, nil
	}
	sniff, err := readSniff(path)
	if err != nil {
		return false, err
	}
	if !filetype.Is(sniff, "zip") {
		return false, nil
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		// zip signature but unreadable container
		return false, nil
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name == docx.PartDocument {
			return true, nil
		}
	}
	return false, nil
}

// isDocumentInArchive reports whether an archive entry looks like a Word
// document. The nested container cannot be opened without decompressing the
// whole entry, so only the extension and the zip signature are checked here;
// the real validation happens when the document is opened.
func isDocumentInArchive(f *zip.File) (bool, error) {
	if !strings.EqualFold(filepath.Ext(f.Name), ".docx") {
		return false, nil
	}

	r, err := f.Open()
	if err != nil {
		return false, err
	}
	defer r.Close()

	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return false, err
	}
	return filetype.Is(buf[:n], "zip"), nil
}
