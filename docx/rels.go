package docx

import (
	"fmt"
	"path"
	"strings"

	"github.com/beevik/etree"
)

// ParseRelationshipsXML walks the etree DOM of a .rels part and returns the
// id-to-target table.
func ParseRelationshipsXML(doc *etree.Document) (Relationships, error) {
	if doc == nil {
		return nil, fmt.Errorf("nil document")
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("document has no root element")
	}
	if root.Tag != "Relationships" {
		return nil, fmt.Errorf("unexpected root element %q", root.Tag)
	}

	rels := make(Relationships)
	for _, child := range root.ChildElements() {
		if child.Tag != "Relationship" {
			continue
		}
		rel := Relationship{
			ID:     attrLocal(child, "Id"),
			Type:   attrLocal(child, "Type"),
			Target: attrLocal(child, "Target"),
		}
		if rel.ID == "" {
			continue
		}
		rels[rel.ID] = rel
	}
	return rels, nil
}

// ResolvePartPath turns a relationship target into a package part name.
// Relative targets resolve against the source part's directory, absolute
// ones ("/word/media/x.png") drop the leading slash.
func ResolvePartPath(sourcePart, target string) string {
	if after, ok := strings.CutPrefix(target, "/"); ok {
		return after
	}
	return path.Join(path.Dir(sourcePart), target)
}
