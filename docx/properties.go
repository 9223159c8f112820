package docx

import (
	"strconv"

	"github.com/beevik/etree"
)

// Properties is a bag of formatting attributes extracted from OOXML property
// elements (pPr, rPr, tblPr, trPr, tcPr and their children). Values are
// strings (attribute values), booleans (toggle elements like <w:b/>), nested
// Properties (child elements carrying attributes or children of their own) or
// []any when the same child tag repeats. Bags are treated as immutable by the
// resolution code - merging always produces a new bag.
type Properties map[string]any

// propertiesFromElement flattens a formatting element into a bag. Attribute
// namespaces are dropped - OOXML formatting attributes do not collide on
// local names. A child element with neither attributes nor children is a
// toggle and becomes true, everything else recurses into a nested bag.
func propertiesFromElement(el *etree.Element) Properties {
	if el == nil {
		return nil
	}
	props := Properties{}
	for _, a := range el.Attr {
		props[a.Key] = a.Value
	}
	for _, child := range el.ChildElements() {
		var val any
		if len(child.Attr) == 0 && len(child.ChildElements()) == 0 {
			val = true
		} else {
			val = propertiesFromElement(child)
		}
		if prev, exists := props[child.Tag]; exists {
			// Repeated tags (tab stops, alternate content) accumulate into a list.
			if list, ok := prev.([]any); ok {
				props[child.Tag] = append(list, val)
			} else {
				props[child.Tag] = []any{prev, val}
			}
			continue
		}
		props[child.Tag] = val
	}
	return props
}

// isBag reports whether a value participates in recursive merging. Arrays and
// primitives never merge element-wise, they are replaced outright.
func isBag(v any) bool {
	switch v.(type) {
	case Properties:
		return true
	case map[string]any:
		return true
	}
	return false
}

func asBag(v any) Properties {
	switch b := v.(type) {
	case Properties:
		return b
	case map[string]any:
		return Properties(b)
	}
	return nil
}

// CloneProperties returns a deep copy of a bag. Nested bags are cloned
// recursively and lists are copied, so mutating the result never affects the
// source. Cloning nil yields nil.
func CloneProperties(props Properties) Properties {
	if props == nil {
		return nil
	}
	clone := make(Properties, len(props))
	for key, val := range props {
		clone[key] = cloneValue(val)
	}
	return clone
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case Properties:
		return CloneProperties(val)
	case map[string]any:
		return CloneProperties(Properties(val))
	case []any:
		list := make([]any, len(val))
		for i := range val {
			list[i] = cloneValue(val[i])
		}
		return list
	}
	return v
}

// Str returns the string value stored under key, or "" when the key is absent
// or holds something other than a string. Safe on a nil bag.
func (p Properties) Str(key string) string {
	if s, ok := p[key].(string); ok {
		return s
	}
	return ""
}

// Bag returns the nested bag stored under key, or nil. Safe on a nil bag,
// so lookups chain: p.Bag("spacing").Str("after").
func (p Properties) Bag(key string) Properties {
	if v, ok := p[key]; ok {
		return asBag(v)
	}
	return nil
}

// Has reports whether key is present, regardless of its value.
func (p Properties) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// Val returns the "val" attribute of the nested bag under key. Covers the
// common single-attribute shape <w:jc w:val="center"/>.
func (p Properties) Val(key string) string {
	return p.Bag(key).Str("val")
}

// Flag interprets key as an OOXML toggle property. A bare element (stored as
// true) switches the toggle on, an element with a val attribute follows the
// ST_OnOff rules: "0", "false", "none" and "off" disable it.
func (p Properties) Flag(key string) bool {
	v, ok := p[key]
	if !ok {
		return false
	}
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return onOff(val)
	default:
		if bag := asBag(v); bag != nil {
			if s, has := bag["val"].(string); has {
				return onOff(s)
			}
			return true
		}
	}
	return false
}

// Int parses the value under key as a decimal integer. Works for both a bare
// string value and the single-attribute {"val": "N"} shape.
func (p Properties) Int(key string) (int, bool) {
	switch v := p[key].(type) {
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n, true
		}
	default:
		if bag := asBag(v); bag != nil {
			if s, has := bag["val"].(string); has {
				if n, err := strconv.Atoi(s); err == nil {
					return n, true
				}
			}
		}
	}
	return 0, false
}

func onOff(val string) bool {
	switch val {
	case "0", "false", "none", "off":
		return false
	}
	return true
}
