package docx

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"
)

// Numbering holds the parsed numbering part: concrete list instances (num)
// pointing at shared abstract definitions (abstractNum) with per-level
// format and label templates.
type Numbering struct {
	nums      map[string]string // numId -> abstractNumId
	abstracts map[string]*AbstractNum
}

// AbstractNum is one abstractNum definition.
type AbstractNum struct {
	ID     string
	Levels map[int]*NumberingLevel
}

// NumberingLevel is one lvl definition inside an abstract numbering.
type NumberingLevel struct {
	Level    int
	Start    int
	Format   string     // numFmt: decimal, lowerRoman, bullet, ...
	Text     string     // lvlText template, counters referenced as %1..%9
	Props    Properties // lvl/pPr, indentation mostly
	RunProps Properties // lvl/rPr
}

// Level resolves a concrete list id and level to its definition, nil when
// either is unknown.
func (n *Numbering) Level(numID string, level int) *NumberingLevel {
	if n == nil {
		return nil
	}
	abstract := n.abstracts[n.nums[numID]]
	if abstract == nil {
		return nil
	}
	return abstract.Levels[level]
}

// NumIDs returns the concrete list ids, sorted.
func (n *Numbering) NumIDs() []string {
	if n == nil {
		return nil
	}
	ids := make([]string, 0, len(n.nums))
	for id := range n.nums {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Definition returns the abstract definition behind a concrete list id, nil
// when the id is unknown.
func (n *Numbering) Definition(numID string) *AbstractNum {
	if n == nil {
		return nil
	}
	return n.abstracts[n.nums[numID]]
}

// ParseNumberingXML walks the etree DOM of a numbering part.
func ParseNumberingXML(doc *etree.Document, log *zap.Logger) (*Numbering, error) {
	if doc == nil {
		return nil, fmt.Errorf("nil document")
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("document has no root element")
	}
	if root.Tag != "numbering" {
		return nil, fmt.Errorf("unexpected root element %q", root.Tag)
	}

	numbering := &Numbering{
		nums:      make(map[string]string),
		abstracts: make(map[string]*AbstractNum),
	}
	for _, child := range root.ChildElements() {
		switch child.Tag {
		case "abstractNum":
			abstract := parseAbstractNum(child, log)
			numbering.abstracts[abstract.ID] = abstract
		case "num":
			numID := attrLocal(child, "numId")
			if ref := child.SelectElement("abstractNumId"); ref != nil && numID != "" {
				numbering.nums[numID] = attrLocal(ref, "val")
			}
		case "numPicBullet", "numIdMacAtCleanup":
			// Picture bullets and cleanup hints are not rendered.
		default:
			log.Warn("Unexpected tag in numbering, ignoring", zap.String("tag", child.Tag))
		}
	}
	return numbering, nil
}

func parseAbstractNum(el *etree.Element, log *zap.Logger) *AbstractNum {
	abstract := &AbstractNum{
		ID:     attrLocal(el, "abstractNumId"),
		Levels: make(map[int]*NumberingLevel),
	}
	for _, child := range el.ChildElements() {
		if child.Tag != "lvl" {
			continue
		}
		lvl := &NumberingLevel{Start: 1}
		if n, err := strconv.Atoi(attrLocal(child, "ilvl")); err == nil {
			lvl.Level = n
		}
		for _, sub := range child.ChildElements() {
			switch sub.Tag {
			case "start":
				if n, err := strconv.Atoi(attrLocal(sub, "val")); err == nil {
					lvl.Start = n
				}
			case "numFmt":
				lvl.Format = attrLocal(sub, "val")
			case "lvlText":
				lvl.Text = attrLocal(sub, "val")
			case "pPr":
				lvl.Props = propertiesFromElement(sub)
			case "rPr":
				lvl.RunProps = propertiesFromElement(sub)
			case "lvlJc", "suff", "isLgl", "pStyle", "legacy", "lvlRestart", "lvlPicBulletId":
			default:
				log.Warn("Unexpected tag in numbering level, ignoring", zap.String("tag", sub.Tag))
			}
		}
		abstract.Levels[lvl.Level] = lvl
	}
	return abstract
}

// NumberingTracker keeps the running counters of every list in a document
// while blocks are walked in order. One tracker lives per conversion; it is
// not safe for concurrent use.
type NumberingTracker struct {
	defs     *Numbering
	counters map[string]map[int]int // numId -> level -> current value
}

// NewNumberingTracker starts tracking against a set of definitions, which
// may be nil for documents without a numbering part.
func NewNumberingTracker(defs *Numbering) *NumberingTracker {
	return &NumberingTracker{
		defs:     defs,
		counters: make(map[string]map[int]int),
	}
}

// Advance registers one list paragraph and returns its rendered label, e.g.
// "3." or "2.1.4" or a bullet. The level's counter is incremented and all
// deeper counters reset, so the next deeper item starts over from its start
// value. Unknown lists fall back to a plain bullet.
func (t *NumberingTracker) Advance(numID string, level int) string {
	def := t.defs.Level(numID, level)
	if def == nil {
		return "•"
	}

	counters := t.counters[numID]
	if counters == nil {
		counters = make(map[int]int)
		t.counters[numID] = counters
	}
	if _, seen := counters[level]; seen {
		counters[level]++
	} else {
		counters[level] = def.Start
	}
	for deeper := range counters {
		if deeper > level {
			delete(counters, deeper)
		}
	}

	if def.Format == "bullet" {
		return bulletGlyph(def.Text)
	}
	return t.expandLevelText(numID, def, counters)
}

// expandLevelText substitutes %N placeholders with the current counter of
// level N-1, formatted per that level's numFmt. A referenced level that has
// not fired yet shows its start value, same as the reference renderer.
func (t *NumberingTracker) expandLevelText(numID string, def *NumberingLevel, counters map[int]int) string {
	var out strings.Builder
	text := def.Text
	for i := 0; i < len(text); i++ {
		if text[i] != '%' || i+1 >= len(text) {
			out.WriteByte(text[i])
			continue
		}
		n := int(text[i+1] - '0')
		if n < 1 || n > 9 {
			out.WriteByte(text[i])
			continue
		}
		i++
		refLevel := n - 1
		refDef := t.defs.Level(numID, refLevel)
		value, seen := counters[refLevel]
		if !seen {
			value = 1
			if refDef != nil {
				value = refDef.Start
			}
		}
		format := "decimal"
		if refDef != nil && refDef.Format != "" {
			format = refDef.Format
		}
		out.WriteString(formatCounter(value, format))
	}
	return out.String()
}

// formatCounter renders a single counter value in the requested numbering
// format. Unknown formats fall back to decimal.
func formatCounter(n int, format string) string {
	if n < 1 {
		n = 1
	}
	switch format {
	case "decimal":
		return strconv.Itoa(n)
	case "decimalZero":
		return fmt.Sprintf("%02d", n)
	case "lowerRoman":
		return toRoman(n)
	case "upperRoman":
		return strings.ToUpper(toRoman(n))
	case "lowerLetter":
		return toLetter(n)
	case "upperLetter":
		return strings.ToUpper(toLetter(n))
	case "none":
		return ""
	}
	return strconv.Itoa(n)
}

var romanValues = []struct {
	value int
	digit string
}{
	{1000, "m"}, {900, "cm"}, {500, "d"}, {400, "cd"},
	{100, "c"}, {90, "xc"}, {50, "l"}, {40, "xl"},
	{10, "x"}, {9, "ix"}, {5, "v"}, {4, "iv"}, {1, "i"},
}

func toRoman(n int) string {
	var out strings.Builder
	for _, rv := range romanValues {
		for n >= rv.value {
			out.WriteString(rv.digit)
			n -= rv.value
		}
	}
	return out.String()
}

// toLetter renders 1..26 as a..z, then repeats the letter the way word
// processors do: 27 is "aa", 28 is "bb".
func toLetter(n int) string {
	letter := byte('a' + (n-1)%26)
	return strings.Repeat(string(letter), (n-1)/26+1)
}

// bulletGlyph maps a bullet lvlText to something renderable. Symbol-font
// bullets live in the private use area and mean nothing outside Word, so
// they collapse to a plain bullet.
func bulletGlyph(text string) string {
	if text == "" {
		return "•"
	}
	for _, r := range text {
		if r >= 0xE000 && r <= 0xF8FF {
			return "•"
		}
	}
	return text
}
