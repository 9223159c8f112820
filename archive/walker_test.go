package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeZip(t *testing.T, entries map[string]string) string {
	t.Helper()

	zipPath := filepath.Join(t.TempDir(), "test.zip")
	zipFile, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}
	defer zipFile.Close()

	w := zip.NewWriter(zipFile)
	for name, content := range entries {
		fw, err := w.Create(name)
		if err != nil {
			t.Fatalf("Failed to create file %s in zip: %v", name, err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatalf("Failed to write content for %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to finish zip: %v", err)
	}
	return zipPath
}

func TestWalk(t *testing.T) {
	zipPath := writeZip(t, map[string]string{
		"reports/q1.docx":  "q1 content",
		"reports/q2.docx":  "q2 content",
		"drafts/plan.docx": "plan content",
		"drafts/notes.txt": "notes content",
		"readme.txt":       "readme content",
	})

	t.Run("walk with reports prefix", func(t *testing.T) {
		var visited []string
		err := Walk(zipPath, "reports/", func(archive string, file *zip.File) error {
			if archive != zipPath {
				t.Errorf("archive = %s, want %s", archive, zipPath)
			}
			visited = append(visited, file.Name)
			return nil
		})

		if err != nil {
			t.Errorf("Walk() error = %v", err)
		}

		expected := map[string]bool{
			"reports/q1.docx": true,
			"reports/q2.docx": true,
		}
		if len(visited) != len(expected) {
			t.Errorf("visited %d files, want %d", len(visited), len(expected))
		}
		for _, name := range visited {
			if !expected[name] {
				t.Errorf("unexpected file visited: %s", name)
			}
		}
	})

	t.Run("walk with no matching prefix", func(t *testing.T) {
		var visited int
		err := Walk(zipPath, "nonexistent/", func(archive string, file *zip.File) error {
			visited++
			return nil
		})

		if err != nil {
			t.Errorf("Walk() error = %v", err)
		}
		if visited != 0 {
			t.Errorf("visited %d files, want 0", visited)
		}
	})

	t.Run("walk with empty prefix", func(t *testing.T) {
		var visited int
		err := Walk(zipPath, "", func(archive string, file *zip.File) error {
			visited++
			return nil
		})

		if err != nil {
			t.Errorf("Walk() error = %v", err)
		}
		if visited != 5 {
			t.Errorf("visited %d files, want 5", visited)
		}
	})

	t.Run("walkFn returns error", func(t *testing.T) {
		expectedErr := errors.New("test error")
		err := Walk(zipPath, "reports/", func(archive string, file *zip.File) error {
			return expectedErr
		})

		if err != expectedErr {
			t.Errorf("Walk() error = %v, want %v", err, expectedErr)
		}
	})

	t.Run("prefix matching is case sensitive", func(t *testing.T) {
		var visited int
		err := Walk(zipPath, "Reports/", func(archive string, file *zip.File) error {
			visited++
			return nil
		})

		if err != nil {
			t.Errorf("Walk() error = %v", err)
		}
		if visited != 0 {
			t.Errorf("visited %d files with 'Reports/', want 0", visited)
		}
	})
}

func TestWalk_InvalidArchive(t *testing.T) {
	t.Run("nonexistent file", func(t *testing.T) {
		err := Walk("/nonexistent/file.zip", "", func(archive string, file *zip.File) error {
			return nil
		})

		if err == nil {
			t.Error("Expected error for nonexistent file")
		}
	})

	t.Run("invalid zip file", func(t *testing.T) {
		invalidZip := filepath.Join(t.TempDir(), "invalid.zip")
		if err := os.WriteFile(invalidZip, []byte("not a zip file"), 0644); err != nil {
			t.Fatalf("Failed to create invalid zip: %v", err)
		}

		err := Walk(invalidZip, "", func(archive string, file *zip.File) error {
			return nil
		})

		if err == nil {
			t.Error("Expected error for invalid zip file")
		}
	})
}

func TestWalk_WithDirectories(t *testing.T) {
	zipPath := filepath.Join(t.TempDir(), "test.zip")
	zipFile, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}

	w := zip.NewWriter(zipFile)

	dirHeader := &zip.FileHeader{
		Name: "books/",
	}
	dirHeader.SetMode(os.ModeDir | 0755)
	if _, err := w.CreateHeader(dirHeader); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}

	fw, err := w.Create("books/report.docx")
	if err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}
	fw.Write([]byte("content"))

	w.Close()
	zipFile.Close()

	// Walk should not call walkFn for directories
	var visited []string
	err = Walk(zipPath, "books/", func(archive string, file *zip.File) error {
		visited = append(visited, file.Name)
		return nil
	})

	if err != nil {
		t.Errorf("Walk() error = %v", err)
	}
	if len(visited) != 1 || visited[0] != "books/report.docx" {
		t.Errorf("visited %v, want the file only", visited)
	}
}

func TestWalk_UnsafePaths(t *testing.T) {
	zipPath := filepath.Join(t.TempDir(), "evil.zip")
	zipFile, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}

	w := zip.NewWriter(zipFile)
	fw, err := w.CreateHeader(&zip.FileHeader{Name: "../escape.docx"})
	if err != nil {
		t.Fatalf("Failed to create entry: %v", err)
	}
	fw.Write([]byte("payload"))
	w.Close()
	zipFile.Close()

	err = Walk(zipPath, "", func(archive string, file *zip.File) error {
		t.Errorf("walkFn must not be called for unsafe entry %s", file.Name)
		return nil
	})
	if err == nil {
		t.Error("Expected error for path traversal entry")
	}
}

func TestReadAll(t *testing.T) {
	content := []byte("document payload")
	zipPath := writeZip(t, map[string]string{"report.docx": string(content)})

	err := Walk(zipPath, "", func(archive string, file *zip.File) error {
		data, err := ReadAll(file)
		if err != nil {
			return err
		}
		if !bytes.Equal(data, content) {
			t.Errorf("content = %s, want %s", data, content)
		}
		return nil
	})

	if err != nil {
		t.Errorf("Walk() error = %v", err)
	}
}

func TestIsSafePath(t *testing.T) {
	cases := []struct {
		name string
		safe bool
	}{
		{"word/document.xml", true},
		{"a/b/c.docx", true},
		{"/etc/passwd", false},
		{`\windows\system32`, false},
		{"../outside.docx", false},
		{"a/../../outside.docx", false},
		{"a/..b/fine.docx", true},
	}
	for _, tc := range cases {
		if got := isSafePath(tc.name); got != tc.safe {
			t.Errorf("isSafePath(%q) = %v, want %v", tc.name, got, tc.safe)
		}
	}
}
