// Package text renders prepared document content as plain text.
package text

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"dxc/config"
	"dxc/content"
	"dxc/docx"
)

// Generate renders the prepared content to outputPath according to the text
// section of the configuration.
func Generate(ctx context.Context, c *content.Content, outputPath string, cfg *config.DocumentConfig, log *zap.Logger) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	log.Info("Generating text", zap.String("output", outputPath))

	g := &generator{c: c, cfg: &cfg.Text}

	var blocks []string
	for _, block := range c.Doc.Blocks {
		if text := g.renderBlock(block); text != "" {
			blocks = append(blocks, text)
		}
	}

	out := strings.Join(blocks, "\n\n")
	if out != "" {
		out += "\n"
	}
	if err := os.WriteFile(outputPath, []byte(out), 0644); err != nil {
		return fmt.Errorf("unable to write output file: %w", err)
	}
	return nil
}

type generator struct {
	c   *content.Content
	cfg *config.TextConfig
}

func (g *generator) renderBlock(block docx.Block) string {
	switch b := block.(type) {
	case *docx.Paragraph:
		return g.renderParagraph(b)
	case *docx.Table:
		return g.renderTable(b)
	}
	return ""
}

func (g *generator) renderParagraph(para *docx.Paragraph) string {
	var b strings.Builder
	if para.NumPr != nil {
		if label := g.c.Numbering.Advance(para.NumPr.NumID, para.NumPr.Level); label != "" {
			b.WriteString(label)
			b.WriteString(" ")
		}
	}
	for i := range para.Runs {
		b.WriteString(para.Runs[i].Text)
	}

	text := b.String()
	if g.cfg.SentencePerLine && g.c.Splitter != nil {
		text = strings.Join(g.c.Splitter.Split(text), "\n")
	}
	if g.cfg.LineWidth > 0 {
		text = wrapText(text, g.cfg.LineWidth)
	}
	return text
}

// wrapText greedily wraps every line of text at the given width, breaking on
// spaces only. Words longer than the width stay on a line of their own.
func wrapText(text string, width int) string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		words := strings.Fields(line)
		if len(words) == 0 {
			out = append(out, line)
			continue
		}
		current := words[0]
		for _, word := range words[1:] {
			if len(current)+1+len(word) > width {
				out = append(out, current)
				current = word
				continue
			}
			current += " " + word
		}
		out = append(out, current)
	}
	return strings.Join(out, "\n")
}

// cellText flattens a cell to a single string, one line per paragraph.
// Nested tables degrade to their plain rendering.
func (g *generator) cellText(cell *docx.TableCell) string {
	var parts []string
	for _, block := range cell.Blocks {
		switch b := block.(type) {
		case *docx.Paragraph:
			if text := g.renderParagraph(b); text != "" {
				parts = append(parts, text)
			}
		case *docx.Table:
			if text := g.renderRows(b, "  "); text != "" {
				parts = append(parts, text)
			}
		}
	}
	return strings.Join(parts, "\n")
}

// detectBorders reports the table's visible border edges: the style-resolved
// table declaration when it draws anything, else a scan of cell-level
// declarations mapped back onto table edges.
func (g *generator) detectBorders(tbl *docx.Table) docx.TableBorders {
	resolved := g.c.Resolver.ResolveTableProperties(tbl.StyleID)
	merged := docx.MergeProperties(resolved, tbl.Props, true)
	borders := docx.BordersFromTable(merged)
	if borders.HasAny() {
		return borders
	}

	visible := &docx.Border{Val: "single"}
	lastRow := len(tbl.Rows) - 1
	for ri := range tbl.Rows {
		cells := tbl.Rows[ri].Cells
		lastCol := len(cells) - 1
		for ci := range cells {
			cb := docx.BordersFromCell(cells[ci].Props)
			if ri == 0 && cb.Top.Visible() {
				borders.Top = visible
			}
			if ri == lastRow && cb.Bottom.Visible() {
				borders.Bottom = visible
			}
			if ci == 0 && cb.Left.Visible() {
				borders.Left = visible
			}
			if ci == lastCol && cb.Right.Visible() {
				borders.Right = visible
			}
			if (ri < lastRow && cb.Bottom.Visible()) || (ri > 0 && cb.Top.Visible()) {
				borders.InsideH = visible
			}
			if (ci < lastCol && cb.Right.Visible()) || (ci > 0 && cb.Left.Visible()) {
				borders.InsideV = visible
			}
		}
	}
	return borders
}

func (g *generator) renderTable(tbl *docx.Table) string {
	if len(tbl.Rows) == 0 {
		return ""
	}

	switch g.cfg.TableFormat {
	case config.TableTxtModeAscii:
		// explicit ascii draws the full grid no matter what the document says
		full := &docx.Border{Val: "single"}
		return g.renderASCII(tbl, docx.TableBorders{
			Top: full, Bottom: full, Left: full, Right: full, InsideH: full, InsideV: full,
		})
	case config.TableTxtModeTabs:
		return g.renderRows(tbl, "\t")
	case config.TableTxtModePlain:
		return g.renderRows(tbl, "  ")
	default: // auto
		if borders := g.detectBorders(tbl); borders.HasAny() {
			return g.renderASCII(tbl, borders)
		}
		return g.renderRows(tbl, "\t")
	}
}

func (g *generator) renderRows(tbl *docx.Table, separator string) string {
	lines := make([]string, 0, len(tbl.Rows))
	for ri := range tbl.Rows {
		cells := make([]string, 0, len(tbl.Rows[ri].Cells))
		for ci := range tbl.Rows[ri].Cells {
			cells = append(cells, g.cellText(&tbl.Rows[ri].Cells[ci]))
		}
		lines = append(lines, strings.Join(cells, separator))
	}
	return strings.Join(lines, "\n")
}

// renderASCII draws the table as a character grid, honoring which edges are
// actually bordered: missing perimeter edges leave the grid open on that
// side, missing inside edges drop the gridlines between rows or columns.
func (g *generator) renderASCII(tbl *docx.Table, borders docx.TableBorders) string {
	rows := make([][]string, 0, len(tbl.Rows))
	cols := 0
	for ri := range tbl.Rows {
		cells := make([]string, 0, len(tbl.Rows[ri].Cells))
		for ci := range tbl.Rows[ri].Cells {
			// multi-line cells collapse to one line in the grid
			cells = append(cells, strings.ReplaceAll(g.cellText(&tbl.Rows[ri].Cells[ci]), "\n", " "))
		}
		rows = append(rows, cells)
		cols = max(cols, len(cells))
	}
	for ri := range rows {
		for len(rows[ri]) < cols {
			rows[ri] = append(rows[ri], "")
		}
	}

	widths := make([]int, cols)
	for ci := range widths {
		widths[ci] = 1
		for ri := range rows {
			widths[ci] = max(widths[ci], len([]rune(rows[ri][ci])))
		}
	}

	left := borders.Left.Visible()
	right := borders.Right.Visible()
	insideV := borders.InsideV.Visible()

	hLine := func() string {
		var inner string
		if insideV {
			parts := make([]string, cols)
			for ci, w := range widths {
				parts[ci] = strings.Repeat("-", w+2)
			}
			inner = strings.Join(parts, "+")
		} else {
			total := 2
			for _, w := range widths {
				total += w
			}
			inner = strings.Repeat("-", total+3*(cols-1))
		}
		edge := func(on bool) string {
			if on {
				return "+"
			}
			return "-"
		}
		return edge(left) + inner + edge(right)
	}

	dataLine := func(cells []string) string {
		parts := make([]string, cols)
		for ci, cell := range cells {
			parts[ci] = " " + cell + strings.Repeat(" ", widths[ci]-len([]rune(cell))) + " "
		}
		sep := " "
		if insideV {
			sep = "|"
		}
		edge := func(on bool) string {
			if on {
				return "|"
			}
			return " "
		}
		return edge(left) + strings.Join(parts, sep) + edge(right)
	}

	var lines []string
	if borders.Top.Visible() {
		lines = append(lines, hLine())
	}
	for ri, cells := range rows {
		lines = append(lines, dataLine(cells))
		if ri < len(rows)-1 && borders.InsideH.Visible() {
			lines = append(lines, hLine())
		}
	}
	if borders.Bottom.Visible() {
		lines = append(lines, hLine())
	}
	return strings.Join(lines, "\n")
}
