// Package html renders prepared document content as a standalone HTML file,
// a file with an images directory, or a zipped bundle.
package html

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"dxc/config"
	"dxc/content"
	"dxc/css"
	"dxc/docx"
	"dxc/state"
)

const imagesDir = "images"

type generator struct {
	c     *content.Content
	cfg   *config.DocumentConfig
	log   *zap.Logger
	embed bool

	// style ids actually referenced by the body, per property kind, in
	// first-use order. Their class rules are emitted once into the sheet.
	paraStyles  []string
	runStyles   []string
	tableStyles []string
	seen        map[string]bool
}

// Generate renders the prepared content to outputPath according to the HTML
// section of the configuration.
func Generate(ctx context.Context, c *content.Content, outputPath string, cfg *config.DocumentConfig, log *zap.Logger) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	env := state.EnvFromContext(ctx)

	log.Info("Generating HTML", zap.String("output", outputPath))

	g := &generator{
		c:     c,
		cfg:   cfg,
		log:   log,
		embed: cfg.Images.Embed,
		seen:  make(map[string]bool),
	}

	doc, head, body := createDocument(c.Meta)
	for _, block := range c.Doc.Blocks {
		g.appendBlock(body, block)
	}

	// The sheet is assembled after the body walk so only referenced styles
	// get class rules. User CSS goes last and wins cascade ties.
	style := head.CreateElement("style")
	style.SetText("\n" + g.buildStylesheet(env.DefaultStyle))

	if cfg.HTML.Bundle {
		return writeBundle(doc, c, outputPath, cfg, g.embed)
	}
	return writePlain(doc, c, outputPath, g.embed)
}

// createDocument builds the fixed HTML skeleton: doctype, head with charset
// and title from document metadata, empty body.
func createDocument(meta content.Meta) (*etree.Document, *etree.Element, *etree.Element) {
	doc := etree.NewDocument()
	doc.CreateDirective("DOCTYPE html")

	root := doc.CreateElement("html")
	if meta.Language != "" {
		root.CreateAttr("lang", meta.Language)
	}

	head := root.CreateElement("head")
	head.CreateElement("meta").CreateAttr("charset", "utf-8")
	title := head.CreateElement("title")
	if meta.Title != "" {
		title.SetText(meta.Title)
	} else {
		title.SetText("Converted document")
	}

	body := root.CreateElement("body")
	return doc, head, body
}

// styleClass derives a CSS class name from a style id.
func styleClass(styleID string) string {
	return "st-" + slug.Make(styleID)
}

func (g *generator) useStyle(list *[]string, kind, styleID string) {
	key := kind + ":" + styleID
	if !g.seen[key] {
		g.seen[key] = true
		*list = append(*list, styleID)
	}
}

func (g *generator) appendBlock(parent *etree.Element, block docx.Block) {
	switch b := block.(type) {
	case *docx.Paragraph:
		g.appendParagraph(parent, b)
	case *docx.Table:
		g.appendTable(parent, b)
	}
}

// paragraphTag picks the HTML element for a paragraph: the resolved outline
// level promotes it to a heading, everything else is a plain p.
func (g *generator) paragraphTag(para *docx.Paragraph) string {
	props := g.c.Resolver.ResolveWithDirect(para.StyleID, para.Props)
	if lvl, ok := props.Int("outlineLvl"); ok && lvl >= 0 && lvl < 6 {
		return "h" + strconv.Itoa(lvl+1)
	}
	return "p"
}

func (g *generator) appendParagraph(parent *etree.Element, para *docx.Paragraph) {
	el := parent.CreateElement(g.paragraphTag(para))

	if para.StyleID != "" {
		el.CreateAttr("class", styleClass(para.StyleID))
		g.useStyle(&g.paraStyles, "p", para.StyleID)
	}
	if d := paragraphCSS(docx.StripNulls(para.Props)); !d.empty() {
		el.CreateAttr("style", d.inline())
	}

	for _, name := range para.Bookmarks {
		anchor := el.CreateElement("a")
		anchor.CreateAttr("id", name)
	}

	if para.NumPr != nil {
		label := g.c.Numbering.Advance(para.NumPr.NumID, para.NumPr.Level)
		if label != "" {
			span := el.CreateElement("span")
			span.CreateAttr("class", "list-label")
			span.SetText(label + " ")
		}
	}

	for i := range para.Runs {
		g.appendRun(el, &para.Runs[i])
	}
}

func (g *generator) appendRun(parent *etree.Element, run *docx.Run) {
	target := parent
	if run.Link != nil {
		if href := g.linkTarget(run.Link); href != "" {
			a := parent.CreateElement("a")
			a.CreateAttr("href", href)
			target = a
		}
	}

	class := ""
	if run.StyleID != "" {
		class = styleClass(run.StyleID)
		g.useStyle(&g.runStyles, "r", run.StyleID)
	}
	inline := runCSS(docx.StripNulls(run.Props))

	if class != "" || !inline.empty() {
		span := target.CreateElement("span")
		if class != "" {
			span.CreateAttr("class", class)
		}
		if !inline.empty() {
			span.CreateAttr("style", inline.inline())
		}
		target = span
	}

	appendText(target, run.Text)
	for i := range run.Images {
		g.appendImage(target, &run.Images[i])
	}
}

func (g *generator) linkTarget(link *docx.LinkRef) string {
	if link.Anchor != "" {
		return "#" + link.Anchor
	}
	if target := g.c.Doc.Rels.TargetOf(link.RelID); target != "" {
		return target
	}
	g.log.Warn("Hyperlink relationship not found", zap.String("rel_id", link.RelID))
	return ""
}

// appendText writes run text, turning line breaks into br elements.
func appendText(parent *etree.Element, text string) {
	if text == "" {
		return
	}
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			parent.CreateElement("br")
		}
		if line != "" {
			parent.CreateCharData(line)
		}
	}
}

func (g *generator) appendImage(parent *etree.Element, ref *docx.ImageRef) {
	img := g.c.Images[ref.RelID]
	if img == nil {
		g.log.Warn("Image relationship has no processed media", zap.String("rel_id", ref.RelID))
		return
	}

	el := parent.CreateElement("img")
	if g.embed {
		el.CreateAttr("src", "data:"+img.MimeType+";base64,"+base64.StdEncoding.EncodeToString(img.Data))
	} else {
		el.CreateAttr("src", path.Join(imagesDir, img.Filename))
	}
	if ref.Name != "" {
		el.CreateAttr("alt", ref.Name)
	} else {
		el.CreateAttr("alt", img.Filename)
	}

	// Drawing extents override intrinsic pixel size when present.
	w, h := img.Dim.Width, img.Dim.Height
	if ref.WidthEMU > 0 && ref.HeightEMU > 0 {
		w, h = docx.EMUToPixels(ref.WidthEMU), docx.EMUToPixels(ref.HeightEMU)
	}
	if w > 0 && h > 0 {
		el.CreateAttr("width", strconv.Itoa(w))
		el.CreateAttr("height", strconv.Itoa(h))
	}
}

func (g *generator) appendTable(parent *etree.Element, tbl *docx.Table) {
	// Direct table formatting overlays the style-resolved bag; this is the
	// one path where explicit nulls in direct formatting may knock out an
	// inherited setting.
	resolved := g.c.Resolver.ResolveTableProperties(tbl.StyleID)
	merged := docx.MergeProperties(resolved, tbl.Props, true)
	geometry := docx.NewTableGeometry(tbl, docx.BordersFromTable(merged))

	el := parent.CreateElement("table")
	if tbl.StyleID != "" {
		el.CreateAttr("class", styleClass(tbl.StyleID))
		g.useStyle(&g.tableStyles, "t", tbl.StyleID)
	}
	if d := tableCSS(docx.StripNulls(tbl.Props)); !d.empty() {
		el.CreateAttr("style", d.inline())
	}

	for ri := range tbl.Rows {
		tr := el.CreateElement("tr")
		col := 0
		for ci := range tbl.Rows[ri].Cells {
			cell := &tbl.Rows[ri].Cells[ci]
			if cell.MergeContinuation() {
				col += cell.Span()
				continue
			}

			td := tr.CreateElement("td")
			if span := cell.Span(); span > 1 {
				td.CreateAttr("colspan", strconv.Itoa(span))
			}
			if span := geometry.Rowspan(ri, col); span > 1 {
				td.CreateAttr("rowspan", strconv.Itoa(span))
			}
			if d := cellCSS(cell.Props, geometry.CellBorders(ri, col, cell)); !d.empty() {
				td.CreateAttr("style", d.inline())
			}

			for _, block := range cell.Blocks {
				g.appendBlock(td, block)
			}
			col += cell.Span()
		}
	}
}

// buildStylesheet assembles the style block: generated rules for document
// defaults and every referenced named style first, then the user sheet
// parsed and re-rendered through the css package.
func (g *generator) buildStylesheet(userCSS []byte) string {
	var b strings.Builder

	resolver := g.c.Resolver

	if d := runCSS(resolver.ResolveRunProperties("")); !d.empty() {
		b.WriteString("body {\n" + d.block("  ") + "}\n")
	}
	if def := resolver.DefaultParagraphStyle(); def != nil {
		pPr, rPr := resolver.ResolveParagraphStyleFull(def.ID)
		d := paragraphCSS(pPr)
		d.merge(runCSS(rPr))
		if !d.empty() {
			b.WriteString("p {\n" + d.block("  ") + "}\n")
		}
	}

	for _, id := range g.paraStyles {
		pPr, rPr := resolver.ResolveParagraphStyleFull(id)
		d := paragraphCSS(pPr)
		d.merge(runCSS(rPr))
		if !d.empty() {
			b.WriteString("." + styleClass(id) + " {\n" + d.block("  ") + "}\n")
		}
	}
	for _, id := range g.runStyles {
		if d := runCSS(resolver.ResolveRunProperties(id)); !d.empty() {
			b.WriteString("." + styleClass(id) + " {\n" + d.block("  ") + "}\n")
		}
	}
	for _, id := range g.tableStyles {
		if d := tableCSS(resolver.ResolveTableProperties(id)); !d.empty() {
			b.WriteString("table." + styleClass(id) + " {\n" + d.block("  ") + "}\n")
		}
	}

	if len(userCSS) > 0 {
		sheet := css.NewParser(g.log).Parse(userCSS, "user stylesheet")
		for _, warning := range sheet.Warnings {
			g.log.Debug("User stylesheet", zap.String("warning", warning))
		}
		b.WriteString(sheet.String())
	}
	return b.String()
}

// writePlain writes the document to outputPath, with referenced media in an
// images directory next to it unless images are embedded.
func writePlain(doc *etree.Document, c *content.Content, outputPath string, embed bool) error {
	if !embed && len(c.Images) > 0 {
		dir := filepath.Join(filepath.Dir(outputPath), imagesDir)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("unable to create images directory: %w", err)
		}
		for _, img := range c.Images {
			if err := os.WriteFile(filepath.Join(dir, img.Filename), img.Data, 0644); err != nil {
				return fmt.Errorf("unable to write image %s: %w", img.Filename, err)
			}
		}
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("unable to create output file: %w", err)
	}
	defer f.Close()

	if _, err := doc.WriteTo(f); err != nil {
		return fmt.Errorf("unable to write output file: %w", err)
	}
	return f.Close()
}
