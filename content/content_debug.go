package content

import (
	"maps"
	"slices"
	"sort"

	"github.com/maruel/natural"

	"dxc/docx"
	"dxc/utils/debug"
)

// String returns a readable tree of the whole Content starting with document
// metadata. It exists solely for manual inspection during debugging.
func (c *Content) String() string {
	if c == nil {
		return "<nil Content>"
	}

	tw := debug.NewTreeWriter()

	tw.Line(0, "Document[%q] conversion[%s] format[%s]", c.SrcName, c.ID, c.OutputFormat)
	tw.TextBlock(1, "Title", c.Meta.Title)
	tw.TextBlock(1, "Creator", c.Meta.Creator)
	tw.TextBlock(1, "Subject", c.Meta.Subject)
	tw.TextBlock(1, "Keywords", c.Meta.Keywords)
	tw.TextBlock(1, "Language", c.Meta.Language)
	if !c.Meta.Created.IsZero() {
		tw.Line(1, "Created: %s", c.Meta.Created.Format("2006-01-02"))
	}

	tw.Line(0, "Body: %d blocks (%d paragraphs, %d tables)",
		len(c.Doc.Blocks), len(c.Doc.Paragraphs()), len(c.Doc.Tables()))

	if c.Doc.Styles != nil {
		tw.Line(0, "Styles: %d", len(c.Doc.Styles.Styles))
		styles := make([]*docx.Style, len(c.Doc.Styles.Styles))
		copy(styles, c.Doc.Styles.Styles)
		sort.Slice(styles, func(i, j int) bool {
			return natural.Less(styles[i].ID, styles[j].ID)
		})
		for _, s := range styles {
			tw.Line(1, "Style[%q] type[%s] basedOn[%q] default[%t]", s.ID, s.Type, s.BasedOn, s.Default)
		}
	}

	if ids := c.Doc.Numbering.NumIDs(); len(ids) > 0 {
		tw.Line(0, "Numbering: %d lists", len(ids))
		for _, id := range ids {
			abstract := c.Doc.Numbering.Definition(id)
			if abstract == nil {
				tw.Line(1, "List[%q] dangling abstract reference", id)
				continue
			}
			tw.Line(1, "List[%q] abstract[%q] levels[%d]", id, abstract.ID, len(abstract.Levels))
			levels := slices.Sorted(maps.Keys(abstract.Levels))
			for _, lvl := range levels {
				def := abstract.Levels[lvl]
				tw.Line(2, "Level[%d] format[%q] text[%q] start[%d]", def.Level, def.Format, def.Text, def.Start)
			}
		}
	}

	if len(c.Images) > 0 {
		tw.Line(0, "Images index: %d", len(c.Images))
		keys := slices.Collect(maps.Keys(c.Images))
		sort.Sort(natural.StringSlice(keys))
		for _, k := range keys {
			img := c.Images[k]
			tw.Line(1, "Image[%q] part[%q] file[%q] mime[%q] size[%d] dim[%dx%d]",
				k, img.PartName, img.Filename, img.MimeType, len(img.Data), img.Dim.Width, img.Dim.Height)
		}
	}

	return tw.String()
}
