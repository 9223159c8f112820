package docx

import "strconv"

// Table layout resolution: effective column counts, rowspans from vertical
// merge markers, and border precedence per cell edge. Everything here is
// pure computation over the parsed model, safe to run per table in parallel.

// CellPos addresses a cell by row index and grid column index.
type CellPos struct {
	Row int
	Col int
}

// Border is one edge of a border set. A nil *Border means the edge was not
// specified at all, which is different from an explicit "none".
type Border struct {
	Val   string // line style: single, dashed, none, nil, ...
	Sz    int    // line width in eighths of a point
	Color string // hex RGB or "auto"
}

// Visible reports whether the border draws anything. Absent borders and the
// explicit "none"/"nil" values do not.
func (b *Border) Visible() bool {
	return b != nil && b.Val != "" && b.Val != "none" && b.Val != "nil"
}

// BorderSet holds the four edges of a single cell.
type BorderSet struct {
	Top    *Border
	Bottom *Border
	Left   *Border
	Right  *Border
}

// TableBorders holds a table-level border declaration: the outer perimeter
// edges plus the two inside gridline kinds.
type TableBorders struct {
	Top     *Border
	Bottom  *Border
	Left    *Border
	Right   *Border
	InsideH *Border
	InsideV *Border
}

// HasAny reports whether any of the six entries draws a visible line.
func (t TableBorders) HasAny() bool {
	return t.Top.Visible() || t.Bottom.Visible() || t.Left.Visible() || t.Right.Visible() ||
		t.InsideH.Visible() || t.InsideV.Visible()
}

// borderFrom builds a Border out of a bag value. A bare toggle element maps
// to a present border with no line style.
func borderFrom(v any) *Border {
	switch val := v.(type) {
	case nil:
		return nil
	case bool:
		if val {
			return &Border{}
		}
		return nil
	}
	bag := asBag(v)
	if bag == nil {
		return nil
	}
	b := &Border{Val: bag.Str("val"), Color: bag.Str("color")}
	if sz, err := strconv.Atoi(bag.Str("sz")); err == nil {
		b.Sz = sz
	}
	return b
}

// BorderFromValue builds a Border out of a raw bag value, the paragraph
// border shape (pBdr children) included.
func BorderFromValue(v any) *Border {
	return borderFrom(v)
}

// BordersFromTable extracts the tblBorders declaration out of a table
// properties bag, usually the style-resolved one.
func BordersFromTable(tblProps Properties) TableBorders {
	borders := tblProps.Bag("tblBorders")
	return TableBorders{
		Top:     borderFrom(borders["top"]),
		Bottom:  borderFrom(borders["bottom"]),
		Left:    borderFrom(borders["left"]),
		Right:   borderFrom(borders["right"]),
		InsideH: borderFrom(borders["insideH"]),
		InsideV: borderFrom(borders["insideV"]),
	}
}

// BordersFromCell extracts the tcBorders declaration out of a cell
// properties bag.
func BordersFromCell(cellProps Properties) BorderSet {
	borders := cellProps.Bag("tcBorders")
	return BorderSet{
		Top:    borderFrom(borders["top"]),
		Bottom: borderFrom(borders["bottom"]),
		Left:   borderFrom(borders["left"]),
		Right:  borderFrom(borders["right"]),
	}
}

// ColumnCount returns the table's effective column count. An explicit grid
// is authoritative; without one the span sum of the first row decides, and
// later rows with a different span sum do not change it.
func ColumnCount(tbl *Table) int {
	if len(tbl.Grid) > 0 {
		return len(tbl.Grid)
	}
	if len(tbl.Rows) == 0 {
		return 0
	}
	count := 0
	for i := range tbl.Rows[0].Cells {
		count += tbl.Rows[0].Cells[i].Span()
	}
	return count
}

// ComputeRowspans maps every vertical merge anchor to its span length.
// Only "restart" cells get entries; continuation cells never do - they are
// skipped entirely during rendering, not spanned over. Cells without any
// merge marker have no entry either and default to a span of 1.
func ComputeRowspans(tbl *Table) map[CellPos]int {
	spans := make(map[CellPos]int)
	for ri := range tbl.Rows {
		col := 0
		for ci := range tbl.Rows[ri].Cells {
			cell := &tbl.Rows[ri].Cells[ci]
			if cell.MergeRestart() {
				span := 1
				for below := ri + 1; below < len(tbl.Rows); below++ {
					next := cellAtColumn(&tbl.Rows[below], col)
					if next == nil || !next.MergeContinuation() {
						break
					}
					span++
				}
				spans[CellPos{Row: ri, Col: col}] = span
			}
			col += cell.Span()
		}
	}
	return spans
}

// cellAtColumn finds the cell occupying a grid column in a row, walking cell
// spans left to right. Returns nil when the row does not reach that column.
func cellAtColumn(row *TableRow, col int) *TableCell {
	pos := 0
	for i := range row.Cells {
		cell := &row.Cells[i]
		if col >= pos && col < pos+cell.Span() {
			return cell
		}
		pos += cell.Span()
	}
	return nil
}

// ResolveCellBorders decides which border each edge of a cell gets. The
// cell's own declaration wins outright, an explicit "none" included. Edges
// the cell leaves open fall back to the table declaration: outer borders on
// perimeter edges, inside borders facing inward - insideH as the bottom of
// cells whose span stops before the last row, insideV as the right of cells
// stopping before the last column. Top and left edges never take inside
// borders; the neighbor above or to the left already drew that line. A
// table entry that is absent (as opposed to "none") contributes nothing.
func ResolveCellBorders(own BorderSet, tbl TableBorders, row, col, vspan, hspan, totalRows, totalCols int) BorderSet {
	out := own
	if out.Top == nil && row == 0 {
		out.Top = tbl.Top
	}
	if out.Bottom == nil {
		if row+vspan == totalRows {
			out.Bottom = tbl.Bottom
		} else if row+vspan < totalRows {
			out.Bottom = tbl.InsideH
		}
	}
	if out.Left == nil && col == 0 {
		out.Left = tbl.Left
	}
	if out.Right == nil {
		if col+hspan == totalCols {
			out.Right = tbl.Right
		} else if col+hspan < totalCols {
			out.Right = tbl.InsideV
		}
	}
	return out
}

// TableGeometry bundles the two-phase layout computation: spans and counts
// are computed once up front, then consulted per cell while rendering.
type TableGeometry struct {
	rows    int
	cols    int
	spans   map[CellPos]int
	borders TableBorders
}

// NewTableGeometry computes the layout of a table. The border declaration
// is passed in separately because it usually comes out of the style-resolved
// table properties, not the raw element.
func NewTableGeometry(tbl *Table, borders TableBorders) *TableGeometry {
	return &TableGeometry{
		rows:    len(tbl.Rows),
		cols:    ColumnCount(tbl),
		spans:   ComputeRowspans(tbl),
		borders: borders,
	}
}

// RowCount returns the number of rows.
func (g *TableGeometry) RowCount() int { return g.rows }

// ColumnCount returns the effective column count.
func (g *TableGeometry) ColumnCount() int { return g.cols }

// Rowspans exposes the raw anchor-to-span map.
func (g *TableGeometry) Rowspans() map[CellPos]int { return g.spans }

// Rowspan returns the vertical span of the cell anchored at (row, col),
// 1 for cells outside any merge group.
func (g *TableGeometry) Rowspan(row, col int) int {
	if span, ok := g.spans[CellPos{Row: row, Col: col}]; ok {
		return span
	}
	return 1
}

// CellBorders resolves border precedence for the cell at (row, col).
func (g *TableGeometry) CellBorders(row, col int, cell *TableCell) BorderSet {
	return ResolveCellBorders(
		BordersFromCell(cell.Props), g.borders,
		row, col, g.Rowspan(row, col), cell.Span(), g.rows, g.cols)
}
