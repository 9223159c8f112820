package docx

import "time"

// Type definitions for the parsed WordprocessingML document model. The
// parser keeps formatting as raw property bags - resolution against styles
// happens later - but lifts the handful of attributes the converters branch
// on (style references, merge markers, spans) into typed fields.

// Style is a single entry from styles.xml. Loaded once, immutable afterwards.
type Style struct {
	ID      string // w:styleId
	Type    string // paragraph, character, table or numbering
	Name    string
	BasedOn string // parent style id, may dangle or cycle in malformed files
	Default bool

	ParaProps  Properties // w:pPr
	RunProps   Properties // w:rPr
	TableProps Properties // w:tblPr
}

// Style types as they appear in the w:type attribute.
const (
	StyleTypeParagraph = "paragraph"
	StyleTypeCharacter = "character"
	StyleTypeTable     = "table"
	StyleTypeNumbering = "numbering"
)

// StyleSheet is the parsed styles.xml part: the style table plus document
// defaults, which sit below every named style in precedence.
type StyleSheet struct {
	Styles       []*Style
	ParaDefaults Properties // docDefaults/pPrDefault/pPr
	RunDefaults  Properties // docDefaults/rPrDefault/rPr
}

// Block is one body-level element: a *Paragraph or a *Table.
type Block interface {
	block()
}

func (*Paragraph) block() {}
func (*Table) block()     {}

// Paragraph is a w:p element.
type Paragraph struct {
	StyleID   string        // pPr/pStyle
	Props     Properties    // full pPr bag (direct formatting)
	NumPr     *NumberingRef // pPr/numPr, nil when the paragraph is not in a list
	Bookmarks []string      // bookmarkStart names anchored in this paragraph
	Runs      []Run
}

// NumberingRef ties a paragraph to a numbering definition and level.
type NumberingRef struct {
	NumID string
	Level int
}

// Run is a w:r element. Text carries the concatenated w:t content with tabs
// as \t and line breaks as \n.
type Run struct {
	StyleID string     // rPr/rStyle
	Props   Properties // full rPr bag (direct formatting)
	Text    string
	Link    *LinkRef   // set on runs wrapped in a w:hyperlink
	Images  []ImageRef // inline drawings anchored in this run
}

// LinkRef is a hyperlink target: either an external one addressed through
// the document relationships or an internal bookmark anchor.
type LinkRef struct {
	RelID  string // r:id of an external target
	Anchor string // bookmark name of an internal target
}

// ImageRef points at a media part through the document relationships.
type ImageRef struct {
	RelID     string
	Name      string // descriptive name from the drawing, may be empty
	WidthEMU  int64
	HeightEMU int64
}

// Table is a w:tbl element. Cells may nest further blocks, tables included.
type Table struct {
	StyleID string     // tblPr/tblStyle
	Props   Properties // full tblPr bag (direct formatting)
	Grid    []int      // tblGrid column widths in twips, empty when no grid is declared
	Rows    []TableRow
}

// TableRow is a w:tr element.
type TableRow struct {
	Props Properties // trPr
	Cells []TableCell
}

// Vertical merge marker values. A bare <w:vMerge/> comes through as an
// empty string, which reads as a continuation just like an explicit
// "continue".
const (
	VMergeRestart  = "restart"
	VMergeContinue = "continue"
)

// TableCell is a w:tc element.
type TableCell struct {
	Props    Properties // full tcPr bag
	GridSpan int        // tcPr/gridSpan, 0 or 1 both mean a single column
	VMerge   *string    // tcPr/vMerge value, nil when the marker is absent
	Width    int        // tcPr/tcW in twips when the type is dxa, else 0
	Blocks   []Block
}

// Span returns the cell's horizontal span, never less than 1.
func (c *TableCell) Span() int {
	if c.GridSpan < 1 {
		return 1
	}
	return c.GridSpan
}

// MergeRestart reports whether the cell anchors a vertical merge group.
func (c *TableCell) MergeRestart() bool {
	return c.VMerge != nil && *c.VMerge == VMergeRestart
}

// MergeContinuation reports whether the cell belongs to a vertical merge
// group without anchoring it. Such cells are not rendered independently.
// Any present marker value other than "restart" counts, not just "continue".
func (c *TableCell) MergeContinuation() bool {
	return c.VMerge != nil && *c.VMerge != VMergeRestart
}

// CoreProperties is the docProps/core.xml part.
type CoreProperties struct {
	Title          string
	Subject        string
	Creator        string
	Keywords       string
	Description    string
	LastModifiedBy string
	Revision       string
	Language       string
	Created        time.Time
	Modified       time.Time
}

// Relationships maps relationship ids from word/_rels/document.xml.rels to
// their targets, image parts being the ones the converters care about.
type Relationships map[string]Relationship

// Relationship is a single entry of a .rels part.
type Relationship struct {
	ID     string
	Type   string
	Target string
}

// TargetOf resolves a relationship id to its target path, "" when unknown.
func (r Relationships) TargetOf(relID string) string {
	return r[relID].Target
}

// Document is the fully parsed package: body content plus the companion
// parts resolution and rendering need.
type Document struct {
	Blocks    []Block
	Styles    *StyleSheet
	Numbering *Numbering
	Core      *CoreProperties
	Rels      Relationships
}

// Paragraphs returns the document's top-level paragraphs, tables excluded.
func (d *Document) Paragraphs() []*Paragraph {
	var paras []*Paragraph
	for _, b := range d.Blocks {
		if p, ok := b.(*Paragraph); ok {
			paras = append(paras, p)
		}
	}
	return paras
}

// Tables returns the document's top-level tables.
func (d *Document) Tables() []*Table {
	var tables []*Table
	for _, b := range d.Blocks {
		if t, ok := b.(*Table); ok {
			tables = append(tables, t)
		}
	}
	return tables
}
