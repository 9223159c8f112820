package docx

import (
	"strings"
	"testing"

	"github.com/beevik/etree"
	"go.uber.org/zap"
)

const wordNS = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"`

func parseDoc(t *testing.T, xml string) *etree.Document {
	t.Helper()
	doc := etree.NewDocument()
	if err := doc.ReadFromString(xml); err != nil {
		t.Fatalf("bad test xml: %v", err)
	}
	return doc
}

func TestParseDocumentXMLBasic(t *testing.T) {
	doc := parseDoc(t, `<w:document `+wordNS+`><w:body>
		<w:p>
			<w:pPr><w:pStyle w:val="Heading1"/><w:jc w:val="center"/></w:pPr>
			<w:r><w:rPr><w:b/></w:rPr><w:t>Hello</w:t></w:r>
			<w:r><w:t xml:space="preserve"> world</w:t></w:r>
		</w:p>
		<w:p/>
		<w:sectPr/>
	</w:body></w:document>`)

	blocks, err := ParseDocumentXML(doc, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}

	para, ok := blocks[0].(*Paragraph)
	if !ok {
		t.Fatalf("first block is %T", blocks[0])
	}
	if para.StyleID != "Heading1" {
		t.Fatalf("style id: %q", para.StyleID)
	}
	if got := para.Props.Val("jc"); got != "center" {
		t.Fatalf("direct formatting lost: %v", para.Props)
	}
	if len(para.Runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(para.Runs))
	}
	if !para.Runs[0].Props.Flag("b") || para.Runs[0].Text != "Hello" {
		t.Fatalf("first run wrong: %+v", para.Runs[0])
	}
	if para.Runs[1].Text != " world" {
		t.Fatalf("preserved space lost: %q", para.Runs[1].Text)
	}

	if empty, ok := blocks[1].(*Paragraph); !ok || len(empty.Runs) != 0 {
		t.Fatalf("empty paragraph wrong: %+v", blocks[1])
	}
}

func TestParseRunSpecialContent(t *testing.T) {
	doc := parseDoc(t, `<w:document `+wordNS+`><w:body><w:p>
		<w:r><w:t>a</w:t><w:tab/><w:t>b</w:t><w:br/><w:t>c</w:t></w:r>
	</w:p></w:body></w:document>`)

	blocks, err := ParseDocumentXML(doc, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	run := blocks[0].(*Paragraph).Runs[0]
	if run.Text != "a\tb\nc" {
		t.Fatalf("tabs and breaks wrong: %q", run.Text)
	}
}

func TestParseHyperlinkRunsAreKept(t *testing.T) {
	doc := parseDoc(t, `<w:document `+wordNS+`><w:body><w:p>
		<w:hyperlink r:id="rId4" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
			<w:r><w:t>linked text</w:t></w:r>
		</w:hyperlink>
	</w:p></w:body></w:document>`)

	blocks, err := ParseDocumentXML(doc, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	para := blocks[0].(*Paragraph)
	if len(para.Runs) != 1 || para.Runs[0].Text != "linked text" {
		t.Fatalf("hyperlink content lost: %+v", para.Runs)
	}
	if para.Runs[0].Link == nil || para.Runs[0].Link.RelID != "rId4" {
		t.Fatalf("hyperlink target lost: %+v", para.Runs[0].Link)
	}
}

func TestParseInternalLinkAndBookmark(t *testing.T) {
	doc := parseDoc(t, `<w:document `+wordNS+`><w:body>
		<w:p>
			<w:bookmarkStart w:id="0" w:name="chapter2"/>
			<w:bookmarkStart w:id="1" w:name="_GoBack"/>
			<w:r><w:t>Chapter 2</w:t></w:r>
			<w:bookmarkEnd w:id="0"/>
		</w:p>
		<w:p>
			<w:hyperlink w:anchor="chapter2"><w:r><w:t>see chapter 2</w:t></w:r></w:hyperlink>
		</w:p>
	</w:body></w:document>`)

	blocks, err := ParseDocumentXML(doc, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	target := blocks[0].(*Paragraph)
	if len(target.Bookmarks) != 1 || target.Bookmarks[0] != "chapter2" {
		t.Fatalf("bookmarks wrong: %v", target.Bookmarks)
	}
	link := blocks[1].(*Paragraph).Runs[0].Link
	if link == nil || link.Anchor != "chapter2" || link.RelID != "" {
		t.Fatalf("internal link wrong: %+v", link)
	}
}

func TestParseNumberingRef(t *testing.T) {
	doc := parseDoc(t, `<w:document `+wordNS+`><w:body><w:p>
		<w:pPr><w:numPr><w:ilvl w:val="1"/><w:numId w:val="3"/></w:numPr></w:pPr>
		<w:r><w:t>item</w:t></w:r>
	</w:p></w:body></w:document>`)

	blocks, err := ParseDocumentXML(doc, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	ref := blocks[0].(*Paragraph).NumPr
	if ref == nil || ref.NumID != "3" || ref.Level != 1 {
		t.Fatalf("numbering reference wrong: %+v", ref)
	}
}

func TestParseTable(t *testing.T) {
	doc := parseDoc(t, `<w:document `+wordNS+`><w:body>
	<w:tbl>
		<w:tblPr>
			<w:tblStyle w:val="TableGrid"/>
			<w:tblBorders><w:insideV w:val="single" w:sz="4"/></w:tblBorders>
		</w:tblPr>
		<w:tblGrid><w:gridCol w:w="2000"/><w:gridCol w:w="3000"/></w:tblGrid>
		<w:tr>
			<w:tc>
				<w:tcPr><w:tcW w:w="2000" w:type="dxa"/><w:gridSpan w:val="2"/><w:vMerge w:val="restart"/></w:tcPr>
				<w:p><w:r><w:t>cell</w:t></w:r></w:p>
			</w:tc>
		</w:tr>
		<w:tr>
			<w:tc>
				<w:tcPr><w:gridSpan w:val="2"/><w:vMerge/></w:tcPr>
				<w:p/>
			</w:tc>
		</w:tr>
	</w:tbl>
	</w:body></w:document>`)

	blocks, err := ParseDocumentXML(doc, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	tbl, ok := blocks[0].(*Table)
	if !ok {
		t.Fatalf("expected table, got %T", blocks[0])
	}
	if tbl.StyleID != "TableGrid" {
		t.Fatalf("table style: %q", tbl.StyleID)
	}
	if len(tbl.Grid) != 2 || tbl.Grid[1] != 3000 {
		t.Fatalf("grid: %v", tbl.Grid)
	}
	if len(tbl.Rows) != 2 {
		t.Fatalf("rows: %d", len(tbl.Rows))
	}

	anchor := tbl.Rows[0].Cells[0]
	if anchor.GridSpan != 2 || !anchor.MergeRestart() || anchor.Width != 2000 {
		t.Fatalf("anchor cell wrong: %+v", anchor)
	}
	if len(anchor.Blocks) != 1 {
		t.Fatalf("cell content missing: %+v", anchor.Blocks)
	}

	cont := tbl.Rows[1].Cells[0]
	if !cont.MergeContinuation() {
		t.Fatalf("bare vMerge must continue: %+v", cont)
	}

	// The parsed model feeds straight into geometry.
	spans := ComputeRowspans(tbl)
	if spans[CellPos{Row: 0, Col: 0}] != 2 {
		t.Fatalf("span map: %v", spans)
	}
}

func TestParseDrawingImageRef(t *testing.T) {
	doc := parseDoc(t, `<w:document `+wordNS+`
		xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
		xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"
		xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture"
		xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
	<w:body><w:p><w:r><w:drawing>
		<wp:inline>
			<wp:extent cx="914400" cy="457200"/>
			<wp:docPr id="1" name="Picture 1"/>
			<a:graphic><a:graphicData>
				<pic:pic><pic:blipFill><a:blip r:embed="rId5"/></pic:blipFill></pic:pic>
			</a:graphicData></a:graphic>
		</wp:inline>
	</w:drawing></w:r></w:p></w:body></w:document>`)

	blocks, err := ParseDocumentXML(doc, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	run := blocks[0].(*Paragraph).Runs[0]
	if len(run.Images) != 1 {
		t.Fatalf("image not picked up: %+v", run)
	}
	img := run.Images[0]
	if img.RelID != "rId5" || img.Name != "Picture 1" {
		t.Fatalf("image ref wrong: %+v", img)
	}
	if img.WidthEMU != 914400 || img.HeightEMU != 457200 {
		t.Fatalf("extent wrong: %+v", img)
	}
	if EMUToPixels(img.WidthEMU) != 96 {
		t.Fatalf("a one inch drawing is 96 px, got %d", EMUToPixels(img.WidthEMU))
	}
}

func TestParseDocumentXMLRejectsWrongRoot(t *testing.T) {
	doc := parseDoc(t, `<w:styles `+wordNS+`/>`)
	if _, err := ParseDocumentXML(doc, zap.NewNop()); err == nil {
		t.Fatal("expected error for wrong root")
	}
	if _, err := ParseDocumentXML(nil, zap.NewNop()); err == nil {
		t.Fatal("expected error for nil document")
	}
}

func TestParseStylesXML(t *testing.T) {
	doc := parseDoc(t, `<w:styles `+wordNS+`>
		<w:docDefaults>
			<w:rPrDefault><w:rPr><w:sz w:val="22"/></w:rPr></w:rPrDefault>
			<w:pPrDefault><w:pPr><w:spacing w:after="160"/></w:pPr></w:pPrDefault>
		</w:docDefaults>
		<w:latentStyles w:count="300"/>
		<w:style w:type="paragraph" w:default="1" w:styleId="Normal">
			<w:name w:val="Normal"/>
			<w:qFormat/>
		</w:style>
		<w:style w:type="paragraph" w:styleId="Heading1">
			<w:name w:val="heading 1"/>
			<w:basedOn w:val="Normal"/>
			<w:pPr><w:keepNext/><w:outlineLvl w:val="0"/></w:pPr>
			<w:rPr><w:b/><w:sz w:val="32"/></w:rPr>
		</w:style>
		<w:style w:type="table" w:styleId="TableGrid">
			<w:name w:val="Table Grid"/>
			<w:tblPr><w:tblBorders><w:top w:val="single" w:sz="4"/></w:tblBorders></w:tblPr>
		</w:style>
	</w:styles>`)

	sheet, err := ParseStylesXML(doc, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if got := sheet.RunDefaults.Val("sz"); got != "22" {
		t.Fatalf("run defaults: %v", sheet.RunDefaults)
	}
	if got := sheet.ParaDefaults.Bag("spacing").Str("after"); got != "160" {
		t.Fatalf("paragraph defaults: %v", sheet.ParaDefaults)
	}
	if len(sheet.Styles) != 3 {
		t.Fatalf("styles: %d", len(sheet.Styles))
	}

	normal := sheet.Styles[0]
	if normal.ID != "Normal" || !normal.Default || normal.Type != StyleTypeParagraph {
		t.Fatalf("normal style wrong: %+v", normal)
	}
	heading := sheet.Styles[1]
	if heading.BasedOn != "Normal" || heading.Name != "heading 1" {
		t.Fatalf("heading style wrong: %+v", heading)
	}
	if !heading.ParaProps.Has("keepNext") || heading.RunProps.Val("sz") != "32" {
		t.Fatalf("heading bags wrong: %v %v", heading.ParaProps, heading.RunProps)
	}
	grid := sheet.Styles[2]
	if grid.Type != StyleTypeTable || grid.TableProps.Bag("tblBorders") == nil {
		t.Fatalf("table style wrong: %+v", grid)
	}

	// Parsed sheet drives the resolver end to end.
	r := NewStyleResolver(sheet, nil)
	props := r.ResolveParagraphProperties("Heading1")
	if got := props.Bag("spacing").Str("after"); got != "160" {
		t.Fatalf("document defaults not folded in: %v", props)
	}
	if got := props.Bag("rPr").Val("sz"); got != "32" {
		t.Fatalf("run bag not attached: %v", props)
	}
}

func TestParseStylesSkipsStyleWithoutID(t *testing.T) {
	doc := parseDoc(t, `<w:styles `+wordNS+`>
		<w:style w:type="paragraph"><w:name w:val="ghost"/></w:style>
	</w:styles>`)
	sheet, err := ParseStylesXML(doc, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if len(sheet.Styles) != 0 {
		t.Fatalf("id-less style kept: %+v", sheet.Styles)
	}
}

func TestParseRelationships(t *testing.T) {
	doc := parseDoc(t, `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
		<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>
		<Relationship Id="rId5" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="media/image1.png"/>
	</Relationships>`)

	rels, err := ParseRelationshipsXML(doc)
	if err != nil {
		t.Fatal(err)
	}
	if rels.TargetOf("rId5") != "media/image1.png" {
		t.Fatalf("target: %q", rels.TargetOf("rId5"))
	}
	if got := ResolvePartPath(PartDocument, rels.TargetOf("rId5")); got != "word/media/image1.png" {
		t.Fatalf("resolved part path: %q", got)
	}
	if got := ResolvePartPath(PartDocument, "/word/media/x.png"); got != "word/media/x.png" {
		t.Fatalf("absolute target: %q", got)
	}
}

func TestParseCoreProperties(t *testing.T) {
	doc := parseDoc(t, `<cp:coreProperties
		xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
		xmlns:dc="http://purl.org/dc/elements/1.1/"
		xmlns:dcterms="http://purl.org/dc/terms/"
		xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
		<dc:title>Report</dc:title>
		<dc:creator>Somebody</dc:creator>
		<cp:lastModifiedBy>Somebody Else</cp:lastModifiedBy>
		<dcterms:created xsi:type="dcterms:W3CDTF">2024-03-01T10:30:00Z</dcterms:created>
		<dcterms:modified xsi:type="dcterms:W3CDTF">2024-03-02T08:00:00Z</dcterms:modified>
	</cp:coreProperties>`)

	core, err := ParseCorePropertiesXML(doc, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if core.Title != "Report" || core.Creator != "Somebody" {
		t.Fatalf("core props wrong: %+v", core)
	}
	if core.Created.IsZero() || core.Created.Day() != 1 {
		t.Fatalf("created: %v", core.Created)
	}
}

func TestNumberingTrackerDecimal(t *testing.T) {
	doc := parseDoc(t, `<w:numbering `+wordNS+`>
		<w:abstractNum w:abstractNumId="0">
			<w:lvl w:ilvl="0"><w:start w:val="1"/><w:numFmt w:val="decimal"/><w:lvlText w:val="%1."/></w:lvl>
			<w:lvl w:ilvl="1"><w:start w:val="1"/><w:numFmt w:val="decimal"/><w:lvlText w:val="%1.%2."/></w:lvl>
		</w:abstractNum>
		<w:num w:numId="1"><w:abstractNumId w:val="0"/></w:num>
	</w:numbering>`)

	defs, err := ParseNumberingXML(doc, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	tracker := NewNumberingTracker(defs)

	got := []string{
		tracker.Advance("1", 0), // 1.
		tracker.Advance("1", 1), // 1.1.
		tracker.Advance("1", 1), // 1.2.
		tracker.Advance("1", 0), // 2.
		tracker.Advance("1", 1), // 2.1. - deeper counter must have reset
	}
	want := []string{"1.", "1.1.", "1.2.", "2.", "2.1."}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("step %d: expected %q, got %q (all: %v)", i, want[i], got[i], got)
		}
	}
}

func TestNumberingTrackerFormats(t *testing.T) {
	doc := parseDoc(t, `<w:numbering `+wordNS+`>
		<w:abstractNum w:abstractNumId="7">
			<w:lvl w:ilvl="0"><w:start w:val="1"/><w:numFmt w:val="upperRoman"/><w:lvlText w:val="%1."/></w:lvl>
			<w:lvl w:ilvl="1"><w:start w:val="1"/><w:numFmt w:val="lowerLetter"/><w:lvlText w:val="%2)"/></w:lvl>
			<w:lvl w:ilvl="2"><w:numFmt w:val="bullet"/><w:lvlText w:val="&#xF0B7;"/></w:lvl>
		</w:abstractNum>
		<w:num w:numId="4"><w:abstractNumId w:val="7"/></w:num>
	</w:numbering>`)

	defs, err := ParseNumberingXML(doc, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	tracker := NewNumberingTracker(defs)

	if got := tracker.Advance("4", 0); got != "I." {
		t.Fatalf("upper roman: %q", got)
	}
	for i := 0; i < 3; i++ {
		tracker.Advance("4", 0)
	}
	if got := tracker.Advance("4", 0); got != "V." {
		t.Fatalf("roman five: %q", got)
	}
	if got := tracker.Advance("4", 1); got != "a)" {
		t.Fatalf("lower letter: %q", got)
	}
	if got := tracker.Advance("4", 2); got != "•" {
		t.Fatalf("private use bullet must collapse: %q", got)
	}
	if got := tracker.Advance("9", 0); got != "•" {
		t.Fatalf("unknown list falls back to bullet: %q", got)
	}
}

func TestCounterFormats(t *testing.T) {
	cases := []struct {
		n      int
		format string
		want   string
	}{
		{1, "decimal", "1"},
		{3, "decimalZero", "03"},
		{4, "lowerRoman", "iv"},
		{1999, "upperRoman", "MCMXCIX"},
		{2, "lowerLetter", "b"},
		{27, "lowerLetter", "aa"},
		{28, "upperLetter", "BB"},
		{5, "none", ""},
		{5, "weird", "5"},
	}
	for _, tc := range cases {
		if got := formatCounter(tc.n, tc.format); got != tc.want {
			t.Fatalf("formatCounter(%d, %s): expected %q, got %q", tc.n, tc.format, tc.want, got)
		}
	}
}

func TestDocumentAccessors(t *testing.T) {
	d := &Document{Blocks: []Block{&Paragraph{}, &Table{}, &Paragraph{}}}
	if len(d.Paragraphs()) != 2 || len(d.Tables()) != 1 {
		t.Fatalf("accessors wrong: %d paragraphs, %d tables", len(d.Paragraphs()), len(d.Tables()))
	}
}

func TestParseDocumentIgnoresUnknownTags(t *testing.T) {
	// The walk keeps going and keeps whatever it understood.
	doc := parseDoc(t, `<w:document `+wordNS+`><w:body>
		<w:customXml><w:p><w:r><w:t>hidden</w:t></w:r></w:p></w:customXml>
		<w:p><w:r><w:t>visible</w:t></w:r></w:p>
	</w:body></w:document>`)

	blocks, err := ParseDocumentXML(doc, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if len(blocks) != 1 {
		t.Fatalf("expected unknown wrapper skipped, got %d blocks", len(blocks))
	}
	var text strings.Builder
	for _, r := range blocks[0].(*Paragraph).Runs {
		text.WriteString(r.Text)
	}
	if text.String() != "visible" {
		t.Fatalf("wrong content: %q", text.String())
	}
}
