// Package css parses user-supplied stylesheets into a structure the HTML
// generator can merge with the rules it derives from document styles, and
// writes the combined sheet back out.
package css

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// Value is a parsed CSS property value. Either the numeric part or the
// keyword part is meaningful, Raw always preserves the original text.
type Value struct {
	Raw     string  // original value text, e.g. "1.2em", "bold", "#ff0000"
	Number  float64 // numeric component when present
	Unit    string  // "em", "px", "%", "pt" and the like
	Keyword string  // "bold", "italic", "center" and the like
}

// IsNumeric reports whether the value carries a numeric component, explicit
// zeroes like "0" or "0px" included.
func (v Value) IsNumeric() bool {
	if v.Unit != "" {
		return true
	}
	if v.Number != 0 && v.Keyword == "" {
		return true
	}
	if v.Raw != "" && v.Keyword == "" {
		first := rune(v.Raw[0])
		return unicode.IsDigit(first) || first == '.' || first == '-' || first == '+'
	}
	return false
}

// IsKeyword reports whether the value is a bare keyword.
func (v Value) IsKeyword() bool {
	return v.Keyword != "" && v.Unit == ""
}

// Rule is one ruleset: selectors plus declarations.
type Rule struct {
	Selectors  []string
	Properties map[string]Value
}

// Property returns a declaration by name.
func (r Rule) Property(name string) (Value, bool) {
	v, ok := r.Properties[name]
	return v, ok
}

// FontFace is a parsed @font-face block.
type FontFace struct {
	Family     string
	Src        string
	Style      string
	Weight     string
	Properties map[string]Value // everything else verbatim
}

// MediaBlock is an @media block kept verbatim by query: the HTML generator
// does not evaluate queries, it passes them through to the output sheet.
type MediaBlock struct {
	Query string
	Rules []Rule
}

// Item is one top-level stylesheet entry in source order. Exactly one field
// is set.
type Item struct {
	Import     *string
	Rule       *Rule
	FontFace   *FontFace
	MediaBlock *MediaBlock
}

// Stylesheet is a parsed CSS file. Items preserves source order so the sheet
// round-trips; Warnings collects constructs the parser skipped.
type Stylesheet struct {
	Items    []Item
	Warnings []string
}

// Imports returns all @import targets in source order.
func (s *Stylesheet) Imports() []string {
	var out []string
	for i := range s.Items {
		if s.Items[i].Import != nil {
			out = append(out, *s.Items[i].Import)
		}
	}
	return out
}

// FontFaces returns all @font-face blocks carrying a family name.
func (s *Stylesheet) FontFaces() []FontFace {
	var out []FontFace
	for i := range s.Items {
		if ff := s.Items[i].FontFace; ff != nil && ff.Family != "" {
			out = append(out, *ff)
		}
	}
	return out
}

// RulesFor returns every top-level rule that lists selector, later rules
// last so the caller can apply them in cascade order.
func (s *Stylesheet) RulesFor(selector string) []Rule {
	var out []Rule
	for i := range s.Items {
		rule := s.Items[i].Rule
		if rule == nil {
			continue
		}
		for _, sel := range rule.Selectors {
			if sel == selector {
				out = append(out, *rule)
				break
			}
		}
	}
	return out
}

// Append adds every item of other after the items of s, which makes other's
// declarations win any cascade tie.
func (s *Stylesheet) Append(other *Stylesheet) {
	if other == nil {
		return
	}
	s.Items = append(s.Items, other.Items...)
	s.Warnings = append(s.Warnings, other.Warnings...)
}

var urlPattern = regexp.MustCompile(`url\(\s*['"]?([^'")]+)['"]?\s*\)`)

// RewriteURLs maps every url(...) reference through fn, in font faces and
// declarations alike. Used to repoint resources when output is bundled.
func (s *Stylesheet) RewriteURLs(fn func(string) string) {
	for i := range s.Items {
		switch {
		case s.Items[i].Rule != nil:
			rewriteURLs(s.Items[i].Rule.Properties, fn)
		case s.Items[i].FontFace != nil:
			ff := s.Items[i].FontFace
			ff.Src = rewriteURLsIn(ff.Src, fn)
			rewriteURLs(ff.Properties, fn)
		case s.Items[i].MediaBlock != nil:
			for j := range s.Items[i].MediaBlock.Rules {
				rewriteURLs(s.Items[i].MediaBlock.Rules[j].Properties, fn)
			}
		}
	}
}

func rewriteURLs(props map[string]Value, fn func(string) string) {
	for name, v := range props {
		if rewritten := rewriteURLsIn(v.Raw, fn); rewritten != v.Raw {
			v.Raw = rewritten
			props[name] = v
		}
	}
}

func rewriteURLsIn(value string, fn func(string) string) string {
	return urlPattern.ReplaceAllStringFunc(value, func(match string) string {
		sub := urlPattern.FindStringSubmatch(match)
		if len(sub) != 2 {
			return match
		}
		return fmt.Sprintf("url(%q)", fn(sub[1]))
	})
}

// WriteTo renders the sheet as CSS text. Declarations are written sorted by
// property name so output is deterministic.
func (s *Stylesheet) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for i := range s.Items {
		var (
			n   int
			err error
		)
		switch {
		case s.Items[i].Import != nil:
			n, err = fmt.Fprintf(w, "@import %q;\n", *s.Items[i].Import)
		case s.Items[i].Rule != nil:
			n, err = writeRule(w, s.Items[i].Rule, "")
		case s.Items[i].FontFace != nil:
			n, err = writeFontFace(w, s.Items[i].FontFace)
		case s.Items[i].MediaBlock != nil:
			n, err = writeMediaBlock(w, s.Items[i].MediaBlock)
		}
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// String renders the sheet as CSS text.
func (s *Stylesheet) String() string {
	var b strings.Builder
	_, _ = s.WriteTo(&b)
	return b.String()
}

func writeRule(w io.Writer, rule *Rule, indent string) (int, error) {
	total, err := fmt.Fprintf(w, "%s%s {\n", indent, strings.Join(rule.Selectors, ", "))
	if err != nil {
		return total, err
	}
	n, err := writeProperties(w, rule.Properties, indent+"  ")
	total += n
	if err != nil {
		return total, err
	}
	n, err = fmt.Fprintf(w, "%s}\n", indent)
	return total + n, err
}

func writeProperties(w io.Writer, props map[string]Value, indent string) (int, error) {
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	var total int
	for _, name := range names {
		n, err := fmt.Fprintf(w, "%s%s: %s;\n", indent, name, props[name].Raw)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func writeFontFace(w io.Writer, ff *FontFace) (int, error) {
	total, err := io.WriteString(w, "@font-face {\n")
	if err != nil {
		return total, err
	}
	named := map[string]string{
		"font-family": quoteFamily(ff.Family),
		"src":         ff.Src,
		"font-style":  ff.Style,
		"font-weight": ff.Weight,
	}
	for _, name := range []string{"font-family", "src", "font-style", "font-weight"} {
		if named[name] == "" {
			continue
		}
		n, err := fmt.Fprintf(w, "  %s: %s;\n", name, named[name])
		total += n
		if err != nil {
			return total, err
		}
	}
	n, err := writeProperties(w, ff.Properties, "  ")
	total += n
	if err != nil {
		return total, err
	}
	n, err = io.WriteString(w, "}\n")
	return total + n, err
}

func writeMediaBlock(w io.Writer, mb *MediaBlock) (int, error) {
	total, err := fmt.Fprintf(w, "@media %s {\n", mb.Query)
	if err != nil {
		return total, err
	}
	for i := range mb.Rules {
		n, err := writeRule(w, &mb.Rules[i], "  ")
		total += n
		if err != nil {
			return total, err
		}
	}
	n, err := io.WriteString(w, "}\n")
	return total + n, err
}

// quoteFamily quotes a font family name when it contains spaces and is not
// already quoted.
func quoteFamily(family string) string {
	if family == "" || strings.HasPrefix(family, `"`) || strings.HasPrefix(family, "'") {
		return family
	}
	if strings.ContainsAny(family, " \t") {
		return `"` + family + `"`
	}
	return family
}
