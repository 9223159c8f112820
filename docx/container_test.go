package docx

import (
	"archive/zip"
	"bytes"
	"testing"

	"go.uber.org/zap"
)

func buildPackage(t *testing.T, parts map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range parts {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

const minimalDocument = `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
	<w:body><w:p><w:r><w:t>hello</w:t></w:r></w:p></w:body>
</w:document>`

func TestContainerReadDocument(t *testing.T) {
	data := buildPackage(t, map[string]string{
		PartDocument: minimalDocument,
		PartStyles: `<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
			<w:style w:type="paragraph" w:styleId="Normal" w:default="1"><w:name w:val="Normal"/></w:style>
		</w:styles>`,
		PartDocRels: `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
			<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="media/image1.png"/>
		</Relationships>`,
		"word/media/image1.png": "not really a png",
	})

	c, err := OpenBytes(data)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if !c.HasPart(PartDocument) || !c.HasPart(PartStyles) {
		t.Fatalf("parts missing: %v", c.PartNames())
	}
	if media := c.MediaNames(); len(media) != 1 || media[0] != "word/media/image1.png" {
		t.Fatalf("media names: %v", media)
	}

	doc, err := ReadDocument(c, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Blocks) != 1 {
		t.Fatalf("blocks: %d", len(doc.Blocks))
	}
	if doc.Styles == nil || len(doc.Styles.Styles) != 1 {
		t.Fatalf("styles not loaded: %+v", doc.Styles)
	}
	if doc.Rels.TargetOf("rId1") != "media/image1.png" {
		t.Fatalf("rels not loaded: %+v", doc.Rels)
	}

	payload, err := c.Part("word/media/image1.png")
	if err != nil {
		t.Fatal(err)
	}
	if string(payload) != "not really a png" {
		t.Fatalf("part payload: %q", payload)
	}
}

func TestContainerMissingOptionalParts(t *testing.T) {
	data := buildPackage(t, map[string]string{PartDocument: minimalDocument})

	c, err := OpenBytes(data)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	doc, err := ReadDocument(c, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if doc.Styles != nil || doc.Numbering != nil || doc.Rels != nil {
		t.Fatalf("optional parts should stay nil: %+v", doc)
	}

	// A resolver over a nil sheet still answers queries from empty defaults.
	r := NewStyleResolver(doc.Styles, nil)
	if props := r.ResolveParagraphProperties(""); props == nil {
		t.Fatal("expected an empty bag, got nil")
	}
}

func TestContainerRejectsNonDocument(t *testing.T) {
	data := buildPackage(t, map[string]string{"mimetype": "application/epub+zip"})
	if _, err := OpenBytes(data); err == nil {
		t.Fatal("expected error for zip without word/document.xml")
	}

	if _, err := OpenBytes([]byte("PK garbage")); err == nil {
		t.Fatal("expected error for corrupt zip")
	}
}
