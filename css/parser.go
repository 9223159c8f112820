package css

import (
	"bytes"
	"strconv"
	"strings"
	"unicode"

	parse "github.com/tdewolff/parse/v2"
	cssparse "github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Parser parses CSS text into a Stylesheet.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a parser. A nil logger silences diagnostics.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css")}
}

// Parse parses CSS text. The optional source identifies what is being parsed
// in debug logs. Parsing never fails: unsupported constructs are skipped and
// noted in the sheet's warnings.
func (p *Parser) Parse(data []byte, source ...string) *Stylesheet {
	sheet := &Stylesheet{}

	if len(source) > 0 && source[0] != "" {
		p.log.Debug("Parsing CSS", zap.String("source", source[0]), zap.Int("bytes", len(data)))
	}

	input := parse.NewInput(bytes.NewReader(data))
	parser := cssparse.NewParser(input, false)

	for {
		gt, _, data := parser.Next()

		switch gt {
		case cssparse.ErrorGrammar:
			if err := parser.Err(); err != nil && err.Error() != "EOF" {
				p.log.Debug("CSS parse error", zap.Error(err))
			}
			return sheet

		case cssparse.BeginAtRuleGrammar:
			switch atRule := string(data); atRule {
			case "@media":
				query := tokensText(parser.Values())
				rules := p.parseMediaRules(parser)
				sheet.Items = append(sheet.Items, Item{
					MediaBlock: &MediaBlock{Query: query, Rules: rules},
				})
			case "@font-face":
				ff := p.parseFontFace(parser)
				sheet.Items = append(sheet.Items, Item{FontFace: &ff})
			default:
				p.skipBlock(parser)
				sheet.Warnings = append(sheet.Warnings, "skipped at-rule: "+atRule)
				p.log.Debug("Skipping at-rule", zap.String("rule", atRule))
			}

		case cssparse.AtRuleGrammar:
			if atRule := string(data); atRule == "@import" {
				if url := extractImportURL(parser.Values()); url != "" {
					sheet.Items = append(sheet.Items, Item{Import: &url})
				}
			} else {
				sheet.Warnings = append(sheet.Warnings, "skipped at-rule: "+atRule)
			}

		case cssparse.BeginRulesetGrammar, cssparse.QualifiedRuleGrammar:
			selectors := splitSelectors(data, parser.Values())
			props := p.parseDeclarations(parser)
			if len(selectors) > 0 && len(props) > 0 {
				sheet.Items = append(sheet.Items, Item{
					Rule: &Rule{Selectors: selectors, Properties: props},
				})
			}
		}
	}
}

// parseDeclarations reads property declarations until the ruleset ends.
func (p *Parser) parseDeclarations(parser *cssparse.Parser) map[string]Value {
	props := make(map[string]Value)
	for {
		gt, _, data := parser.Next()
		switch gt {
		case cssparse.ErrorGrammar, cssparse.EndRulesetGrammar:
			return props
		case cssparse.DeclarationGrammar:
			if values := parser.Values(); len(values) > 0 {
				props[string(data)] = parseValue(values)
			}
		case cssparse.CustomPropertyGrammar:
			// custom properties have no place in generated output
			continue
		}
	}
}

// parseMediaRules reads rulesets until the enclosing @media block ends.
func (p *Parser) parseMediaRules(parser *cssparse.Parser) []Rule {
	var rules []Rule
	for {
		gt, _, data := parser.Next()
		switch gt {
		case cssparse.ErrorGrammar, cssparse.EndAtRuleGrammar:
			return rules
		case cssparse.BeginRulesetGrammar:
			selectors := splitSelectors(data, parser.Values())
			props := p.parseDeclarations(parser)
			if len(selectors) > 0 && len(props) > 0 {
				rules = append(rules, Rule{Selectors: selectors, Properties: props})
			}
		}
	}
}

// parseFontFace reads declarations of an @font-face block, lifting the
// well-known ones into named fields.
func (p *Parser) parseFontFace(parser *cssparse.Parser) FontFace {
	ff := FontFace{Properties: make(map[string]Value)}
	for {
		gt, _, data := parser.Next()
		switch gt {
		case cssparse.ErrorGrammar, cssparse.EndAtRuleGrammar:
			return ff
		case cssparse.DeclarationGrammar:
			value := parseValue(parser.Values())
			switch name := string(data); name {
			case "font-family":
				ff.Family = strings.Trim(value.Raw, `"'`)
			case "src":
				ff.Src = value.Raw
			case "font-style":
				ff.Style = value.Raw
			case "font-weight":
				ff.Weight = value.Raw
			default:
				ff.Properties[name] = value
			}
		}
	}
}

// skipBlock consumes tokens until the current at-rule block closes.
func (p *Parser) skipBlock(parser *cssparse.Parser) {
	depth := 1
	for depth > 0 {
		gt, _, _ := parser.Next()
		switch gt {
		case cssparse.ErrorGrammar:
			return
		case cssparse.BeginAtRuleGrammar, cssparse.BeginRulesetGrammar:
			depth++
		case cssparse.EndAtRuleGrammar, cssparse.EndRulesetGrammar:
			depth--
		}
	}
}

// extractImportURL pulls the target out of @import tokens, covering both the
// string and the url(...) forms.
func extractImportURL(tokens []cssparse.Token) string {
	for _, t := range tokens {
		switch t.TokenType {
		case cssparse.StringToken:
			return unquote(string(t.Data))
		case cssparse.URLToken:
			s := strings.TrimSuffix(strings.TrimPrefix(string(t.Data), "url("), ")")
			return unquote(strings.TrimSpace(s))
		}
	}
	return ""
}

// splitSelectors rebuilds the selector text from grammar data plus value
// tokens and splits selector groups on commas.
func splitSelectors(data []byte, values []cssparse.Token) []string {
	var sb strings.Builder
	sb.Write(data)
	for _, v := range values {
		sb.Write(v.Data)
	}

	var selectors []string
	for _, s := range strings.Split(sb.String(), ",") {
		if s = strings.TrimSpace(s); s != "" {
			selectors = append(selectors, s)
		}
	}
	return selectors
}

// tokensText joins token data into a single trimmed string, collapsing
// whitespace runs to one space.
func tokensText(tokens []cssparse.Token) string {
	var parts []string
	for _, t := range tokens {
		if t.TokenType != cssparse.WhitespaceToken {
			parts = append(parts, string(t.Data))
		} else if len(parts) > 0 && parts[len(parts)-1] != " " {
			parts = append(parts, " ")
		}
	}
	return strings.TrimSpace(strings.Join(parts, ""))
}

// parseValue converts declaration tokens to a Value. Single tokens are
// classified; anything longer keeps the joined text as a keyword.
func parseValue(tokens []cssparse.Token) Value {
	if len(tokens) == 0 {
		return Value{}
	}

	raw := tokensText(tokens)
	val := Value{Raw: raw}

	if len(tokens) == 1 || (len(tokens) == 2 && tokens[1].TokenType == cssparse.WhitespaceToken) {
		t := tokens[0]
		switch t.TokenType {
		case cssparse.DimensionToken:
			val.Number, val.Unit = parseDimension(string(t.Data))
		case cssparse.PercentageToken:
			val.Number, _ = strconv.ParseFloat(strings.TrimSuffix(string(t.Data), "%"), 64)
			val.Unit = "%"
		case cssparse.NumberToken:
			val.Number, _ = strconv.ParseFloat(string(t.Data), 64)
		case cssparse.IdentToken:
			val.Keyword = strings.ToLower(string(t.Data))
		case cssparse.StringToken:
			val.Keyword = unquote(string(t.Data))
		case cssparse.HashToken:
			val.Keyword = string(t.Data)
		default:
			val.Keyword = raw
		}
		return val
	}

	val.Keyword = raw
	return val
}

// parseDimension splits a dimension token like "1.5em" into number and unit.
func parseDimension(s string) (float64, string) {
	numEnd := 0
	for i, r := range s {
		if unicode.IsDigit(r) || r == '.' || r == '-' || r == '+' {
			numEnd = i + 1
		} else {
			break
		}
	}
	if numEnd == 0 {
		return 0, ""
	}
	num, _ := strconv.ParseFloat(s[:numEnd], 64)
	return num, strings.ToLower(s[numEnd:])
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
