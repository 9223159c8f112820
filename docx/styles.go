package docx

import (
	"fmt"

	"github.com/beevik/etree"
	"go.uber.org/zap"
)

// ParseStylesXML walks the etree DOM of a styles part and returns the style
// table plus document defaults.
func ParseStylesXML(doc *etree.Document, log *zap.Logger) (*StyleSheet, error) {
	if doc == nil {
		return nil, fmt.Errorf("nil document")
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("document has no root element")
	}
	if root.Tag != "styles" {
		return nil, fmt.Errorf("unexpected root element %q", root.Tag)
	}

	sheet := &StyleSheet{}
	for _, child := range root.ChildElements() {
		switch child.Tag {
		case "docDefaults":
			parseDocDefaults(child, sheet)
		case "style":
			if style := parseStyle(child, log); style != nil {
				sheet.Styles = append(sheet.Styles, style)
			}
		case "latentStyles":
			// Editor UI bookkeeping, irrelevant for rendering.
		default:
			log.Warn("Unexpected tag in styles, ignoring", zap.String("tag", child.Tag))
		}
	}
	return sheet, nil
}

func parseDocDefaults(el *etree.Element, sheet *StyleSheet) {
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "pPrDefault":
			if p := child.SelectElement("pPr"); p != nil {
				sheet.ParaDefaults = propertiesFromElement(p)
			}
		case "rPrDefault":
			if r := child.SelectElement("rPr"); r != nil {
				sheet.RunDefaults = propertiesFromElement(r)
			}
		}
	}
}

func parseStyle(el *etree.Element, log *zap.Logger) *Style {
	style := &Style{
		ID:      attrLocal(el, "styleId"),
		Type:    attrLocal(el, "type"),
		Default: onOffAttr(attrLocal(el, "default")),
	}
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "name":
			style.Name = attrLocal(child, "val")
		case "basedOn":
			style.BasedOn = attrLocal(child, "val")
		case "pPr":
			style.ParaProps = propertiesFromElement(child)
		case "rPr":
			style.RunProps = propertiesFromElement(child)
		case "tblPr":
			style.TableProps = propertiesFromElement(child)
		case "tblStylePr":
			// Conditional table formatting (first row, banding) is not modeled.
		case "next", "link", "aliases", "uiPriority", "qFormat", "semiHidden",
			"unhideWhenUsed", "rsid", "autoRedefine", "hidden", "locked", "personal",
			"personalCompose", "personalReply", "trPr", "tcPr":
			// Style metadata the converters never consult.
		default:
			log.Warn("Unexpected tag in style, ignoring", zap.String("style", style.ID), zap.String("tag", child.Tag))
		}
	}
	if style.ID == "" {
		log.Warn("Style without styleId, skipping", zap.String("name", style.Name))
		return nil
	}
	return style
}

// onOffAttr reads optional boolean attributes like w:default. An absent
// attribute is off, a present one follows ST_OnOff.
func onOffAttr(val string) bool {
	if val == "" {
		return false
	}
	return onOff(val)
}
