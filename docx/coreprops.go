package docx

import (
	"fmt"
	"time"

	"github.com/beevik/etree"
	"go.uber.org/zap"
)

// ParseCorePropertiesXML walks the etree DOM of a docProps/core.xml part.
// Everything is optional there; unparsable dates are reported and left zero.
func ParseCorePropertiesXML(doc *etree.Document, log *zap.Logger) (*CoreProperties, error) {
	if doc == nil {
		return nil, fmt.Errorf("nil document")
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("document has no root element")
	}
	if root.Tag != "coreProperties" {
		return nil, fmt.Errorf("unexpected root element %q", root.Tag)
	}

	core := &CoreProperties{}
	for _, child := range root.ChildElements() {
		switch child.Tag {
		case "title":
			core.Title = child.Text()
		case "subject":
			core.Subject = child.Text()
		case "creator":
			core.Creator = child.Text()
		case "keywords":
			core.Keywords = child.Text()
		case "description":
			core.Description = child.Text()
		case "lastModifiedBy":
			core.LastModifiedBy = child.Text()
		case "revision":
			core.Revision = child.Text()
		case "language":
			core.Language = child.Text()
		case "created":
			core.Created = parseDCDate(child.Text(), log)
		case "modified":
			core.Modified = parseDCDate(child.Text(), log)
		case "category", "contentStatus", "identifier", "lastPrinted", "version":
		default:
			log.Warn("Unexpected tag in core properties, ignoring", zap.String("tag", child.Tag))
		}
	}
	return core, nil
}

// parseDCDate reads the W3CDTF timestamps dcterms elements carry. Word
// writes full RFC3339, other producers truncate.
func parseDCDate(val string, log *zap.Logger) time.Time {
	if val == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02", "2006-01", "2006"} {
		if ts, err := time.Parse(layout, val); err == nil {
			return ts
		}
	}
	log.Warn("Unparsable timestamp in core properties", zap.String("value", val))
	return time.Time{}
}
