package dumputil

import (
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"

	"github.com/maruel/natural"

	"dxc/docx"
	"dxc/utils/debug"
)

// DumpStylesTxt writes style definitions, inheritance chains and fully
// resolved property bags to <stem>-styles.txt.
func DumpStylesTxt(doc *docx.Document, inPath, outDir string, overwrite bool) error {
	tw := debug.NewTreeWriter()

	if doc.Styles == nil || len(doc.Styles.Styles) == 0 {
		tw.Line(0, "document has no styles part")
		return WriteOutput(inPath, outDir, "-styles.txt", []byte(tw.String()), overwrite)
	}

	obs := &collectingObserver{}
	resolver := docx.NewStyleResolver(doc.Styles, obs)

	byType := map[string]int{}
	for _, s := range doc.Styles.Styles {
		byType[s.Type]++
	}
	tw.Line(0, "%d style(s): %d paragraph, %d character, %d table, %d numbering",
		len(doc.Styles.Styles),
		byType[docx.StyleTypeParagraph], byType[docx.StyleTypeCharacter],
		byType[docx.StyleTypeTable], byType[docx.StyleTypeNumbering])

	if len(doc.Styles.ParaDefaults) > 0 {
		tw.Line(0, "Document paragraph defaults:")
		formatProperties(tw, 1, doc.Styles.ParaDefaults)
	}
	if len(doc.Styles.RunDefaults) > 0 {
		tw.Line(0, "Document run defaults:")
		formatProperties(tw, 1, doc.Styles.RunDefaults)
	}

	styles := make([]*docx.Style, len(doc.Styles.Styles))
	copy(styles, doc.Styles.Styles)
	sort.Slice(styles, func(i, j int) bool {
		return natural.Less(styles[i].ID, styles[j].ID)
	})

	for _, s := range styles {
		tw.Line(0, "")
		tw.Line(0, "Style[%q] type[%s] name[%q] default[%t]", s.ID, s.Type, s.Name, s.Default)
		tw.Line(1, "chain: %s", formatChain(doc.Styles, s))

		switch s.Type {
		case docx.StyleTypeParagraph:
			pPr, rPr := resolver.ResolveParagraphStyleFull(s.ID)
			dumpBag(tw, "resolved pPr", pPr)
			dumpBag(tw, "resolved rPr", rPr)
		case docx.StyleTypeCharacter:
			dumpBag(tw, "resolved rPr", resolver.ResolveRunProperties(s.ID))
		case docx.StyleTypeTable:
			dumpBag(tw, "resolved tblPr", resolver.ResolveTableProperties(s.ID))
			dumpBag(tw, "resolved pPr", resolver.ResolveParagraphProperties(s.ID))
		default:
			dumpBag(tw, "pPr", s.ParaProps)
			dumpBag(tw, "rPr", s.RunProps)
		}
	}

	if len(obs.anomalies) > 0 {
		tw.Line(0, "")
		tw.Line(0, "Resolution anomalies:")
		for _, a := range obs.anomalies {
			tw.Line(1, "%s", a)
		}
	}

	return WriteOutput(inPath, outDir, "-styles.txt", []byte(tw.String()), overwrite)
}

// collectingObserver gathers resolution anomalies for the report footer
// instead of logging them.
type collectingObserver struct {
	anomalies []string
}

func (o *collectingObserver) StyleCycle(styleID string) {
	o.anomalies = append(o.anomalies, fmt.Sprintf("basedOn cycle at style %q", styleID))
}

func (o *collectingObserver) MissingBasedOn(styleID, parentID string) {
	o.anomalies = append(o.anomalies, fmt.Sprintf("style %q based on unknown style %q", styleID, parentID))
}

func (o *collectingObserver) UnknownStyle(styleID string) {
	o.anomalies = append(o.anomalies, fmt.Sprintf("reference to unknown style %q", styleID))
}

// DumpNumberingTxt writes the numbering definitions to <stem>-numbering.txt.
func DumpNumberingTxt(doc *docx.Document, inPath, outDir string, overwrite bool) error {
	tw := debug.NewTreeWriter()

	ids := doc.Numbering.NumIDs()
	if len(ids) == 0 {
		tw.Line(0, "document has no numbering definitions")
		return WriteOutput(inPath, outDir, "-numbering.txt", []byte(tw.String()), overwrite)
	}

	tw.Line(0, "%d list definition(s)", len(ids))
	for _, id := range ids {
		abstract := doc.Numbering.Definition(id)
		if abstract == nil {
			tw.Line(0, "List[%q] dangling abstract reference", id)
			continue
		}
		tw.Line(0, "List[%q] abstract[%q]", id, abstract.ID)
		levels := slices.Sorted(maps.Keys(abstract.Levels))
		for _, lvl := range levels {
			def := abstract.Levels[lvl]
			tw.Line(1, "Level[%d] format[%q] text[%q] start[%d]", def.Level, def.Format, def.Text, def.Start)
		}
	}

	return WriteOutput(inPath, outDir, "-numbering.txt", []byte(tw.String()), overwrite)
}

// formatChain renders the basedOn chain from a style to its root, flagging
// dangling parents and cycles the way malformed files produce them.
func formatChain(sheet *docx.StyleSheet, s *docx.Style) string {
	index := make(map[string]*docx.Style, len(sheet.Styles))
	for _, st := range sheet.Styles {
		index[st.ID] = st
	}

	var parts []string
	seen := map[string]bool{}
	for cur := s; cur != nil; {
		if seen[cur.ID] {
			parts = append(parts, cur.ID+" (cycle)")
			break
		}
		seen[cur.ID] = true
		parts = append(parts, cur.ID)
		if cur.BasedOn == "" {
			break
		}
		parent, ok := index[cur.BasedOn]
		if !ok {
			parts = append(parts, cur.BasedOn+" (dangling)")
			break
		}
		cur = parent
	}
	return strings.Join(parts, " -> ")
}

func dumpBag(tw *debug.TreeWriter, label string, props docx.Properties) {
	if len(props) == 0 {
		return
	}
	tw.Line(1, "%s:", label)
	formatProperties(tw, 2, props)
}

// formatProperties renders a property bag recursively with sorted keys.
func formatProperties(tw *debug.TreeWriter, depth int, props docx.Properties) {
	keys := slices.Sorted(maps.Keys(props))
	for _, key := range keys {
		formatPropertyValue(tw, depth, key, props[key])
	}
}

func formatPropertyValue(tw *debug.TreeWriter, depth int, key string, v any) {
	switch val := v.(type) {
	case docx.Properties:
		tw.Line(depth, "%s:", key)
		formatProperties(tw, depth+1, val)
	case map[string]any:
		tw.Line(depth, "%s:", key)
		formatProperties(tw, depth+1, docx.Properties(val))
	case []any:
		for i, item := range val {
			formatPropertyValue(tw, depth, fmt.Sprintf("%s[%d]", key, i), item)
		}
	case string:
		tw.Line(depth, "%s = %q", key, val)
	default:
		tw.Line(depth, "%s = %v", key, val)
	}
}
