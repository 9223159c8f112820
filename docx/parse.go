package docx

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"
)

// XML parsing for the word/document.xml part. Formatting elements are kept
// as raw bags (see properties.go), content is lifted into the typed model.
// Unknown tags are reported and skipped so damaged or exotic files still
// convert with whatever could be understood.

// ParseDocumentXML walks the etree DOM of a document part and returns the
// body blocks in document order.
func ParseDocumentXML(doc *etree.Document, log *zap.Logger) ([]Block, error) {
	if doc == nil {
		return nil, fmt.Errorf("nil document")
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("document has no root element")
	}
	if root.Tag != "document" {
		return nil, fmt.Errorf("unexpected root element %q", root.Tag)
	}

	var blocks []Block
	for _, child := range root.ChildElements() {
		switch child.Tag {
		case "body":
			blocks = append(blocks, parseBlocks(child, log)...)
		case "background":
			// Page background, nothing to convert.
		default:
			log.Warn("Unexpected tag in document, ignoring", zap.String("tag", child.Tag))
		}
	}
	return blocks, nil
}

func parseBlocks(parent *etree.Element, log *zap.Logger) []Block {
	var blocks []Block
	for _, child := range parent.ChildElements() {
		switch child.Tag {
		case "p":
			blocks = append(blocks, parseParagraph(child, log))
		case "tbl":
			blocks = append(blocks, parseTable(child, log))
		case "sectPr":
			// Section layout (page size, margins) is not rendered.
		case "sdt":
			// Content controls are transparent, their content renders as-is.
			if content := child.SelectElement("sdtContent"); content != nil {
				blocks = append(blocks, parseBlocks(content, log)...)
			}
		case "bookmarkStart", "bookmarkEnd", "proofErr":
		default:
			log.Warn("Unexpected tag in body, ignoring", zap.String("parent", parent.Tag), zap.String("tag", child.Tag))
		}
	}
	return blocks
}

func parseParagraph(el *etree.Element, log *zap.Logger) *Paragraph {
	para := &Paragraph{}
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "pPr":
			para.Props = propertiesFromElement(child)
			para.StyleID = para.Props.Val("pStyle")
			para.NumPr = numberingRefFrom(para.Props)
		case "r":
			para.Runs = append(para.Runs, parseRun(child, log))
		case "hyperlink":
			link := &LinkRef{
				RelID:  attrLocal(child, "id"),
				Anchor: attrLocal(child, "anchor"),
			}
			if link.RelID == "" && link.Anchor == "" {
				link = nil
			}
			for _, sub := range child.ChildElements() {
				if sub.Tag == "r" {
					run := parseRun(sub, log)
					run.Link = link
					para.Runs = append(para.Runs, run)
				}
			}
		case "smartTag":
			// Keep the wrapped runs, drop the wrapper.
			for _, sub := range child.ChildElements() {
				if sub.Tag == "r" {
					para.Runs = append(para.Runs, parseRun(sub, log))
				}
			}
		case "sdt":
			if content := child.SelectElement("sdtContent"); content != nil {
				for _, sub := range content.ChildElements() {
					if sub.Tag == "r" {
						para.Runs = append(para.Runs, parseRun(sub, log))
					}
				}
			}
		case "bookmarkStart":
			// _GoBack is the editor's own cursor bookmark, not content.
			if name := attrLocal(child, "name"); name != "" && name != "_GoBack" {
				para.Bookmarks = append(para.Bookmarks, name)
			}
		case "bookmarkEnd", "proofErr", "commentRangeStart", "commentRangeEnd":
		case "fldSimple":
			// Field result text is stored in nested runs.
			for _, sub := range child.ChildElements() {
				if sub.Tag == "r" {
					para.Runs = append(para.Runs, parseRun(sub, log))
				}
			}
		default:
			log.Warn("Unexpected tag in paragraph, ignoring", zap.String("tag", child.Tag))
		}
	}
	return para
}

func numberingRefFrom(props Properties) *NumberingRef {
	numPr := props.Bag("numPr")
	if numPr == nil {
		return nil
	}
	ref := &NumberingRef{NumID: numPr.Val("numId")}
	if ref.NumID == "" {
		return nil
	}
	if lvl, ok := numPr.Int("ilvl"); ok {
		ref.Level = lvl
	}
	return ref
}

func parseRun(el *etree.Element, log *zap.Logger) Run {
	run := Run{}
	var text strings.Builder
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "rPr":
			run.Props = propertiesFromElement(child)
			run.StyleID = run.Props.Val("rStyle")
		case "t":
			text.WriteString(child.Text())
		case "tab":
			text.WriteByte('\t')
		case "br", "cr":
			text.WriteByte('\n')
		case "noBreakHyphen":
			text.WriteRune('‑')
		case "softHyphen":
			text.WriteRune('­')
		case "drawing", "pict", "object":
			if ref, ok := parseImageRef(child); ok {
				run.Images = append(run.Images, ref)
			}
		case "lastRenderedPageBreak", "fldChar", "instrText", "sym":
			// Pagination hints and field machinery carry no renderable text.
		default:
			log.Warn("Unexpected tag in run, ignoring", zap.String("tag", child.Tag))
		}
	}
	run.Text = text.String()
	return run
}

// parseImageRef digs the relationship id and extent out of a drawing. Both
// DrawingML (a:blip with r:embed) and legacy VML (v:imagedata with r:id)
// shapes are understood.
func parseImageRef(el *etree.Element) (ImageRef, bool) {
	ref := ImageRef{}
	if blip := findByTag(el, "blip"); blip != nil {
		ref.RelID = attrLocal(blip, "embed")
		if ref.RelID == "" {
			ref.RelID = attrLocal(blip, "link")
		}
	}
	if ref.RelID == "" {
		if data := findByTag(el, "imagedata"); data != nil {
			ref.RelID = attrLocal(data, "id")
		}
	}
	if ref.RelID == "" {
		return ref, false
	}
	if ext := findByTag(el, "extent"); ext != nil {
		if cx, err := strconv.ParseInt(attrLocal(ext, "cx"), 10, 64); err == nil {
			ref.WidthEMU = cx
		}
		if cy, err := strconv.ParseInt(attrLocal(ext, "cy"), 10, 64); err == nil {
			ref.HeightEMU = cy
		}
	}
	if docPr := findByTag(el, "docPr"); docPr != nil {
		ref.Name = attrLocal(docPr, "name")
	}
	return ref, true
}

// attrLocal returns an attribute value matched by local name only. OOXML
// files bind relationship attributes to varying prefixes, the local name is
// what identifies them.
func attrLocal(el *etree.Element, key string) string {
	for _, a := range el.Attr {
		if a.Key == key {
			return a.Value
		}
	}
	return ""
}

// findByTag returns the first descendant with the given local tag name,
// depth first. Drawing markup nests deeply and mixes namespaces, chasing
// exact paths there buys nothing.
func findByTag(el *etree.Element, tag string) *etree.Element {
	for _, child := range el.ChildElements() {
		if child.Tag == tag {
			return child
		}
		if found := findByTag(child, tag); found != nil {
			return found
		}
	}
	return nil
}

func parseTable(el *etree.Element, log *zap.Logger) *Table {
	tbl := &Table{}
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "tblPr":
			tbl.Props = propertiesFromElement(child)
			tbl.StyleID = tbl.Props.Val("tblStyle")
		case "tblGrid":
			for _, col := range child.ChildElements() {
				if col.Tag != "gridCol" {
					continue
				}
				w, _ := strconv.Atoi(attrLocal(col, "w"))
				tbl.Grid = append(tbl.Grid, w)
			}
		case "tr":
			tbl.Rows = append(tbl.Rows, parseTableRow(child, log))
		case "bookmarkStart", "bookmarkEnd":
		default:
			log.Warn("Unexpected tag in table, ignoring", zap.String("tag", child.Tag))
		}
	}
	return tbl
}

func parseTableRow(el *etree.Element, log *zap.Logger) TableRow {
	row := TableRow{}
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "trPr":
			row.Props = propertiesFromElement(child)
		case "tblPrEx":
			// Row-level table property exceptions, rare and not modeled.
		case "tc":
			row.Cells = append(row.Cells, parseTableCell(child, log))
		case "bookmarkStart", "bookmarkEnd":
		default:
			log.Warn("Unexpected tag in table row, ignoring", zap.String("tag", child.Tag))
		}
	}
	return row
}

func parseTableCell(el *etree.Element, log *zap.Logger) TableCell {
	cell := TableCell{}
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "tcPr":
			cell.Props = propertiesFromElement(child)
			if span, ok := cell.Props.Int("gridSpan"); ok {
				cell.GridSpan = span
			}
			if v, ok := cell.Props["vMerge"]; ok {
				val := ""
				if bag := asBag(v); bag != nil {
					val = bag.Str("val")
				}
				cell.VMerge = &val
			}
			if w := cell.Props.Bag("tcW"); w != nil && w.Str("type") == "dxa" {
				if n, err := strconv.Atoi(w.Str("w")); err == nil {
					cell.Width = n
				}
			}
		case "p":
			cell.Blocks = append(cell.Blocks, parseParagraph(child, log))
		case "tbl":
			cell.Blocks = append(cell.Blocks, parseTable(child, log))
		case "sdt":
			if content := child.SelectElement("sdtContent"); content != nil {
				cell.Blocks = append(cell.Blocks, parseBlocks(content, log)...)
			}
		case "bookmarkStart", "bookmarkEnd", "proofErr":
		default:
			log.Warn("Unexpected tag in table cell, ignoring", zap.String("tag", child.Tag))
		}
	}
	return cell
}
