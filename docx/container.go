package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
)

// Package part names the converters read.
const (
	PartDocument   = "word/document.xml"
	PartStyles     = "word/styles.xml"
	PartNumbering  = "word/numbering.xml"
	PartCoreProps  = "docProps/core.xml"
	PartDocRels    = "word/_rels/document.xml.rels"
	PartMediaDir   = "word/media/"
	PartContentTyp = "[Content_Types].xml"
)

// Container is an opened OPC package (the zip a .docx really is). Parts are
// read on demand; the container has to stay open while they are.
type Container struct {
	zr     *zip.Reader
	closer io.Closer
	parts  map[string]*zip.File
}

// Open opens a document package from a file path.
func Open(path string) (*Container, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open document: %w", err)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("unable to stat document: %w", err)
	}
	c, err := OpenReader(f, fi.Size())
	if err != nil {
		f.Close()
		return nil, err
	}
	c.closer = f
	return c, nil
}

// OpenReader opens a document package from any random access reader, a file
// inside an archive for example.
func OpenReader(r io.ReaderAt, size int64) (*Container, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("not a document package: %w", err)
	}
	c := &Container{zr: zr, parts: make(map[string]*zip.File, len(zr.File))}
	for _, file := range zr.File {
		c.parts[file.Name] = file
	}
	if !c.HasPart(PartDocument) {
		return nil, fmt.Errorf("package has no %s part", PartDocument)
	}
	return c, nil
}

// OpenBytes opens a document package held in memory.
func OpenBytes(data []byte) (*Container, error) {
	return OpenReader(bytes.NewReader(data), int64(len(data)))
}

// Close releases the underlying file when the container owns one.
func (c *Container) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}

// HasPart reports whether a part exists in the package.
func (c *Container) HasPart(name string) bool {
	_, ok := c.parts[name]
	return ok
}

// Part reads a whole part into memory.
func (c *Container) Part(name string) ([]byte, error) {
	file, ok := c.parts[name]
	if !ok {
		return nil, fmt.Errorf("package has no %s part", name)
	}
	r, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("unable to open part %s: %w", name, err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("unable to read part %s: %w", name, err)
	}
	return data, nil
}

// PartNames returns all part names in the package, sorted.
func (c *Container) PartNames() []string {
	names := make([]string, 0, len(c.parts))
	for name := range c.parts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MediaNames returns the part names under word/media, sorted.
func (c *Container) MediaNames() []string {
	var names []string
	for name := range c.parts {
		if strings.HasPrefix(name, PartMediaDir) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// partXML parses a part into an etree document with the lenient settings
// real-world files need: encoding labels are honored and minor
// well-formedness violations are tolerated.
func (c *Container) partXML(name string) (*etree.Document, error) {
	data, err := c.Part(name)
	if err != nil {
		return nil, err
	}
	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		CharsetReader: charset.NewReaderLabel,
		ValidateInput: false,
		Permissive:    true,
	}
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("unable to parse part %s: %w", name, err)
	}
	return doc, nil
}

// ReadDocument parses every part the converters consume out of an opened
// container. Only the body part is mandatory: files without styles,
// numbering, relationships or core properties are perfectly valid and those
// fields come back usable but empty.
func ReadDocument(c *Container, log *zap.Logger) (*Document, error) {
	docXML, err := c.partXML(PartDocument)
	if err != nil {
		return nil, err
	}
	blocks, err := ParseDocumentXML(docXML, log)
	if err != nil {
		return nil, fmt.Errorf("unable to parse document body: %w", err)
	}
	d := &Document{Blocks: blocks}

	if c.HasPart(PartStyles) {
		stylesXML, err := c.partXML(PartStyles)
		if err != nil {
			return nil, err
		}
		if d.Styles, err = ParseStylesXML(stylesXML, log); err != nil {
			return nil, fmt.Errorf("unable to parse styles: %w", err)
		}
	}
	if c.HasPart(PartNumbering) {
		numberingXML, err := c.partXML(PartNumbering)
		if err != nil {
			return nil, err
		}
		if d.Numbering, err = ParseNumberingXML(numberingXML, log); err != nil {
			return nil, fmt.Errorf("unable to parse numbering: %w", err)
		}
	}
	if c.HasPart(PartCoreProps) {
		coreXML, err := c.partXML(PartCoreProps)
		if err != nil {
			return nil, err
		}
		if d.Core, err = ParseCorePropertiesXML(coreXML, log); err != nil {
			return nil, fmt.Errorf("unable to parse core properties: %w", err)
		}
	}
	if c.HasPart(PartDocRels) {
		relsXML, err := c.partXML(PartDocRels)
		if err != nil {
			return nil, err
		}
		if d.Rels, err = ParseRelationshipsXML(relsXML); err != nil {
			return nil, fmt.Errorf("unable to parse relationships: %w", err)
		}
	}
	return d, nil
}
