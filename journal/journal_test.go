package journal

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestJournal(t *testing.T) (*Journal, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "journal.db")
	j, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = j.Close() })
	return j, path
}

func TestJournalRoundTrip(t *testing.T) {
	j, path := openTestJournal(t)

	size, sha := Fingerprint([]byte("document content"))
	err := j.Record(Entry{
		Src:      "books/report.docx",
		Size:     size,
		SHA256:   sha,
		Format:   "html",
		Output:   "out/report.html",
		Status:   StatusOK,
		Duration: 120 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	ok, err := j.HasSucceeded(size, sha, "html")
	if err != nil {
		t.Fatalf("HasSucceeded() error = %v", err)
	}
	if !ok {
		t.Error("HasSucceeded() = false for recorded conversion")
	}

	// Different format is a different conversion.
	ok, err = j.HasSucceeded(size, sha, "txt")
	if err != nil {
		t.Fatalf("HasSucceeded() error = %v", err)
	}
	if ok {
		t.Error("HasSucceeded() = true for format never converted")
	}

	// Different content is a different document.
	otherSize, otherSHA := Fingerprint([]byte("other content"))
	ok, err = j.HasSucceeded(otherSize, otherSHA, "html")
	if err != nil {
		t.Fatalf("HasSucceeded() error = %v", err)
	}
	if ok {
		t.Error("HasSucceeded() = true for unknown fingerprint")
	}

	// Journal persists across open/close.
	if err := j.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	j2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer j2.Close()

	ok, err = j2.HasSucceeded(size, sha, "html")
	if err != nil {
		t.Fatalf("HasSucceeded() after reopen error = %v", err)
	}
	if !ok {
		t.Error("recorded conversion lost after reopen")
	}
}

func TestJournalFailedConversionIsNotSkipped(t *testing.T) {
	j, _ := openTestJournal(t)

	size, sha := Fingerprint([]byte("broken document"))
	err := j.Record(Entry{
		Src:    "bad.docx",
		Size:   size,
		SHA256: sha,
		Format: "html",
		Status: StatusFailed,
	})
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	ok, err := j.HasSucceeded(size, sha, "html")
	if err != nil {
		t.Fatalf("HasSucceeded() error = %v", err)
	}
	if ok {
		t.Error("HasSucceeded() = true for failed conversion")
	}

	count, err := j.Count()
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 1 {
		t.Errorf("Count() = %d, want 1", count)
	}
}

func TestJournalRenamedSourceStillMatches(t *testing.T) {
	j, _ := openTestJournal(t)

	size, sha := Fingerprint([]byte("same bytes"))
	if err := j.Record(Entry{Src: "a.docx", Size: size, SHA256: sha, Format: "txt", Status: StatusOK}); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	// Match is on content, not on source path.
	ok, err := j.HasSucceeded(size, sha, "txt")
	if err != nil {
		t.Fatalf("HasSucceeded() error = %v", err)
	}
	if !ok {
		t.Error("HasSucceeded() = false for same content under different name")
	}
}

func TestFingerprint(t *testing.T) {
	size, sha := Fingerprint([]byte("hello"))
	if size != 5 {
		t.Errorf("Fingerprint() size = %d, want 5", size)
	}
	const want = "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	if sha != want {
		t.Errorf("Fingerprint() sha = %s, want %s", sha, want)
	}
}

func TestJournalClose_Nil(t *testing.T) {
	var j *Journal
	if err := j.Close(); err != nil {
		t.Errorf("Close() on nil journal error = %v", err)
	}

	// Double close is harmless too.
	j2, _ := openTestJournal(t)
	if err := j2.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := j2.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestOpenBadPath(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "no", "such", "dir", "journal.db"))
	if err == nil {
		t.Error("Open() in missing directory succeeded")
	}
}
