package html

import (
	"fmt"
	"strings"

	"dxc/docx"
)

// Mapping of resolved WordprocessingML property bags to CSS declarations.
// Only properties with a sensible CSS counterpart are mapped, the rest of
// the bag is ignored. Declarations keep insertion order so generated sheets
// are stable between runs.

// decls is an ordered CSS declaration list.
type decls struct {
	names  []string
	values map[string]string
}

func newDecls() *decls {
	return &decls{values: make(map[string]string)}
}

// add sets a declaration, keeping the position of the first write.
func (d *decls) add(name, value string) {
	if value == "" {
		return
	}
	if _, seen := d.values[name]; !seen {
		d.names = append(d.names, name)
	}
	d.values[name] = value
}

// merge appends another declaration list, overriding on name clashes.
func (d *decls) merge(other *decls) {
	for _, name := range other.names {
		d.add(name, other.values[name])
	}
}

func (d *decls) empty() bool {
	return len(d.names) == 0
}

// inline renders the declarations for a style attribute.
func (d *decls) inline() string {
	parts := make([]string, 0, len(d.names))
	for _, name := range d.names {
		parts = append(parts, name+": "+d.values[name])
	}
	return strings.Join(parts, "; ")
}

// block renders the declarations as an indented rule body.
func (d *decls) block(indent string) string {
	var b strings.Builder
	for _, name := range d.names {
		b.WriteString(indent)
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(d.values[name])
		b.WriteString(";\n")
	}
	return b.String()
}

func pt(v float64) string {
	return strings.TrimSuffix(fmt.Sprintf("%.2f", v), ".00") + "pt"
}

// cssColor maps an ST_HexColor value. "auto" means "whatever the renderer
// would use anyway" and maps to nothing.
func cssColor(val string) string {
	if val == "" || val == "auto" {
		return ""
	}
	if strings.HasPrefix(val, "#") {
		return val
	}
	return "#" + val
}

// runCSS maps a resolved run bag to CSS declarations.
func runCSS(props docx.Properties) *decls {
	d := newDecls()
	if props == nil {
		return d
	}

	if props.Has("b") || props.Has("bCs") {
		if props.Flag("b") || props.Flag("bCs") {
			d.add("font-weight", "bold")
		} else {
			d.add("font-weight", "normal")
		}
	}
	if props.Has("i") || props.Has("iCs") {
		if props.Flag("i") || props.Flag("iCs") {
			d.add("font-style", "italic")
		} else {
			d.add("font-style", "normal")
		}
	}

	var deco []string
	if props.Has("u") {
		if val := props.Val("u"); val != "" && val != "none" {
			deco = append(deco, "underline")
		}
	}
	if props.Flag("strike") || props.Flag("dstrike") {
		deco = append(deco, "line-through")
	}
	if len(deco) > 0 {
		d.add("text-decoration", strings.Join(deco, " "))
	} else if props.Has("u") || props.Has("strike") {
		// explicitly switched off along the chain
		d.add("text-decoration", "none")
	}

	if sz := props.Val("sz"); sz != "" {
		if v, ok := docx.HalfPointsToPoints(sz); ok {
			d.add("font-size", pt(v))
		}
	}
	if fonts := props.Bag("rFonts"); fonts != nil {
		family := fonts.Str("ascii")
		if family == "" {
			family = fonts.Str("hAnsi")
		}
		if family != "" {
			if strings.ContainsAny(family, " \t") {
				family = `"` + family + `"`
			}
			d.add("font-family", family)
		}
	}
	d.add("color", cssColor(props.Val("color")))
	if hl := props.Val("highlight"); hl != "" && hl != "none" {
		d.add("background-color", hl)
	}
	if shd := props.Bag("shd"); shd != nil {
		d.add("background-color", cssColor(shd.Str("fill")))
	}

	switch props.Val("vertAlign") {
	case "superscript":
		d.add("vertical-align", "super")
		d.add("font-size", "smaller")
	case "subscript":
		d.add("vertical-align", "sub")
		d.add("font-size", "smaller")
	}

	if props.Flag("caps") {
		d.add("text-transform", "uppercase")
	}
	if props.Flag("smallCaps") {
		d.add("font-variant", "small-caps")
	}
	if sp := props.Val("spacing"); sp != "" {
		if v, ok := docx.TwipsToPoints(sp); ok && v != 0 {
			d.add("letter-spacing", pt(v))
		}
	}
	if props.Flag("vanish") {
		d.add("display", "none")
	}
	return d
}

// paragraphCSS maps a resolved paragraph bag to CSS declarations. The nested
// "rPr" bag is not consumed here, callers extract it separately.
func paragraphCSS(props docx.Properties) *decls {
	d := newDecls()
	if props == nil {
		return d
	}

	switch props.Val("jc") {
	case "left", "start":
		d.add("text-align", "left")
	case "center":
		d.add("text-align", "center")
	case "right", "end":
		d.add("text-align", "right")
	case "both", "distribute":
		d.add("text-align", "justify")
	}

	if spacing := props.Bag("spacing"); spacing != nil {
		if v, ok := docx.TwipsToPoints(spacing.Str("before")); ok {
			d.add("margin-top", pt(v))
		}
		if v, ok := docx.TwipsToPoints(spacing.Str("after")); ok {
			d.add("margin-bottom", pt(v))
		}
		if line := spacing.Str("line"); line != "" {
			switch spacing.Str("lineRule") {
			case "exact", "atLeast":
				if v, ok := docx.TwipsToPoints(line); ok {
					d.add("line-height", pt(v))
				}
			default:
				// auto: the value counts in 240ths of a line
				if v, ok := docx.TwipsToPoints(line); ok {
					d.add("line-height", strings.TrimSuffix(fmt.Sprintf("%.2f", v/12), "0"))
				}
			}
		}
	}

	if ind := props.Bag("ind"); ind != nil {
		left := ind.Str("left")
		if left == "" {
			left = ind.Str("start")
		}
		if v, ok := docx.TwipsToPoints(left); ok {
			d.add("margin-left", pt(v))
		}
		right := ind.Str("right")
		if right == "" {
			right = ind.Str("end")
		}
		if v, ok := docx.TwipsToPoints(right); ok {
			d.add("margin-right", pt(v))
		}
		if v, ok := docx.TwipsToPoints(ind.Str("firstLine")); ok {
			d.add("text-indent", pt(v))
		}
		if v, ok := docx.TwipsToPoints(ind.Str("hanging")); ok {
			d.add("text-indent", pt(-v))
		}
	}

	if shd := props.Bag("shd"); shd != nil {
		d.add("background-color", cssColor(shd.Str("fill")))
	}

	if pBdr := props.Bag("pBdr"); pBdr != nil {
		for _, edge := range []string{"top", "bottom", "left", "right"} {
			if b := docx.BorderFromValue(pBdr[edge]); b != nil {
				d.add("border-"+edge, borderCSS(b))
			}
		}
	}
	return d
}

// borderCSS renders a single resolved border edge.
func borderCSS(b *docx.Border) string {
	if !b.Visible() {
		return "none"
	}
	width := "1px"
	if b.Sz > 0 {
		width = pt(float64(b.Sz) / 8)
	}
	style := "solid"
	switch b.Val {
	case "dashed", "dashSmallGap", "dashDotStroked":
		style = "dashed"
	case "dotted", "dotDash", "dotDotDash":
		style = "dotted"
	case "double", "doubleWave", "triple":
		style = "double"
	}
	if color := cssColor(b.Color); color != "" {
		return width + " " + style + " " + color
	}
	return width + " " + style
}

// tableCSS maps a resolved table bag to CSS declarations.
func tableCSS(props docx.Properties) *decls {
	d := newDecls()
	d.add("border-collapse", "collapse")
	if props == nil {
		return d
	}

	if w := props.Bag("tblW"); w != nil {
		switch w.Str("type") {
		case "dxa":
			if v, ok := docx.TwipsToPoints(w.Str("w")); ok {
				d.add("width", pt(v))
			}
		case "pct":
			if v, ok := docx.PctToPercent(w.Str("w")); ok {
				d.add("width", strings.TrimSuffix(fmt.Sprintf("%.2f", v), ".00")+"%")
			}
		}
	}
	if props.Val("jc") == "center" {
		d.add("margin-left", "auto")
		d.add("margin-right", "auto")
	}
	if ind := props.Bag("tblInd"); ind != nil && ind.Str("type") == "dxa" {
		if v, ok := docx.TwipsToPoints(ind.Str("w")); ok {
			d.add("margin-left", pt(v))
		}
	}
	if shd := props.Bag("shd"); shd != nil {
		d.add("background-color", cssColor(shd.Str("fill")))
	}
	return d
}

// cellCSS maps a cell bag plus its resolved borders to CSS declarations.
// Border edges the geometry left absent stay absent, the output sheet paints
// no borders by default.
func cellCSS(props docx.Properties, borders docx.BorderSet) *decls {
	d := newDecls()

	if b := borders.Top; b != nil {
		d.add("border-top", borderCSS(b))
	}
	if b := borders.Bottom; b != nil {
		d.add("border-bottom", borderCSS(b))
	}
	if b := borders.Left; b != nil {
		d.add("border-left", borderCSS(b))
	}
	if b := borders.Right; b != nil {
		d.add("border-right", borderCSS(b))
	}

	if props != nil {
		if w := props.Bag("tcW"); w != nil && w.Str("type") == "dxa" {
			if v, ok := docx.TwipsToPoints(w.Str("w")); ok {
				d.add("width", pt(v))
			}
		}
		switch props.Val("vAlign") {
		case "center":
			d.add("vertical-align", "middle")
		case "bottom":
			d.add("vertical-align", "bottom")
		case "top":
			d.add("vertical-align", "top")
		}
		if shd := props.Bag("shd"); shd != nil {
			d.add("background-color", cssColor(shd.Str("fill")))
		}
	}
	return d
}
