package dumputil

import (
	"fmt"

	"dxc/docx"
	"dxc/utils/debug"
)

// DumpTreeTxt writes the parsed document structure to <stem>-tree.txt.
func DumpTreeTxt(doc *docx.Document, inPath, outDir string, overwrite bool) error {
	tw := debug.NewTreeWriter()

	if doc.Core != nil {
		tw.Line(0, "Core properties:")
		tw.TextBlock(1, "Title", doc.Core.Title)
		tw.TextBlock(1, "Creator", doc.Core.Creator)
		tw.TextBlock(1, "Subject", doc.Core.Subject)
		tw.TextBlock(1, "Keywords", doc.Core.Keywords)
		tw.TextBlock(1, "Language", doc.Core.Language)
		if !doc.Core.Created.IsZero() {
			tw.Line(1, "Created: %s", doc.Core.Created.Format("2006-01-02"))
		}
	}

	tw.Line(0, "Body: %d block(s)", len(doc.Blocks))
	formatBlocks(tw, 1, doc.Blocks)

	return WriteOutput(inPath, outDir, "-tree.txt", []byte(tw.String()), overwrite)
}

func formatBlocks(tw *debug.TreeWriter, depth int, blocks []docx.Block) {
	for i, b := range blocks {
		switch blk := b.(type) {
		case *docx.Paragraph:
			formatParagraph(tw, depth, i, blk)
		case *docx.Table:
			formatTable(tw, depth, i, blk)
		}
	}
}

func formatParagraph(tw *debug.TreeWriter, depth, idx int, p *docx.Paragraph) {
	desc := fmt.Sprintf("[%d] Paragraph style[%q] runs[%d]", idx, p.StyleID, len(p.Runs))
	if p.NumPr != nil {
		desc += fmt.Sprintf(" list[%s:%d]", p.NumPr.NumID, p.NumPr.Level)
	}
	tw.Line(depth, "%s", desc)
	for _, name := range p.Bookmarks {
		tw.Line(depth+1, "Bookmark[%q]", name)
	}
	for _, r := range p.Runs {
		formatRun(tw, depth+1, r)
	}
}

func formatRun(tw *debug.TreeWriter, depth int, r docx.Run) {
	desc := "Run"
	if r.StyleID != "" {
		desc += fmt.Sprintf(" style[%q]", r.StyleID)
	}
	if r.Link != nil {
		if r.Link.Anchor != "" {
			desc += fmt.Sprintf(" link[anchor %q]", r.Link.Anchor)
		} else {
			desc += fmt.Sprintf(" link[rel %q]", r.Link.RelID)
		}
	}
	tw.Line(depth, "%s", desc)
	if r.Text != "" {
		tw.TextBlock(depth+1, "Text", truncateText(r.Text, 80))
	}
	for _, img := range r.Images {
		tw.Line(depth+1, "Image rel[%q] name[%q] extent[%dx%d EMU]",
			img.RelID, img.Name, img.WidthEMU, img.HeightEMU)
	}
}

func formatTable(tw *debug.TreeWriter, depth, idx int, t *docx.Table) {
	tw.Line(depth, "[%d] Table style[%q] rows[%d] grid[%d column(s)]",
		idx, t.StyleID, len(t.Rows), len(t.Grid))
	for ri, row := range t.Rows {
		tw.Line(depth+1, "Row[%d] cells[%d]", ri, len(row.Cells))
		for ci, cell := range row.Cells {
			desc := fmt.Sprintf("Cell[%d] span[%d]", ci, cell.Span())
			switch {
			case cell.MergeRestart():
				desc += " vmerge[restart]"
			case cell.MergeContinuation():
				desc += " vmerge[continue]"
			}
			if cell.Width > 0 {
				desc += fmt.Sprintf(" width[%d twips]", cell.Width)
			}
			tw.Line(depth+2, "%s", desc)
			formatBlocks(tw, depth+3, cell.Blocks)
		}
	}
}

func truncateText(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
