package convert

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	sprig "github.com/go-task/slim-sprig/v3"
	"go.uber.org/zap"

	"dxc/config"
	"dxc/content"
)

// Values is a struct that holds variables we make available for template expansion
type Values struct {
	Context      string
	Title        string
	Creator      string
	Subject      string
	Keywords     []string
	Language     string
	Created      string
	Format       string
	SourceFile   string
	ConversionID string
}

// buildKeywords splits the docProps keyword string into separate terms. Both
// comma and semicolon separated lists are found in the wild.
func buildKeywords(keywords string) []string {
	parts := strings.FieldsFunc(keywords, func(r rune) bool {
		return r == ',' || r == ';'
	})
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}

func buildDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func expandTemplate(c *content.Content, name config.TemplateFieldName, field string, format config.OutputFmt) (string, error) {
	funcMap := sprig.FuncMap()

	tmpl, err := template.New(string(name)).Funcs(funcMap).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	values := Values{
		Context:      string(name),
		Title:        c.Meta.Title,
		Creator:      c.Meta.Creator,
		Subject:      c.Meta.Subject,
		Keywords:     buildKeywords(c.Meta.Keywords),
		Language:     c.Meta.Language,
		Created:      buildDate(c.Meta.Created),
		Format:       format.String(),
		SourceFile:   strings.TrimSuffix(filepath.Base(c.SrcName), filepath.Ext(c.SrcName)),
		ConversionID: c.ID,
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// applyMetaTemplates rewrites document metadata according to configuration
// before any generator sees it: title and creator templates are expanded and
// the results optionally transliterated. Failed expansions keep the original
// value.
func applyMetaTemplates(c *content.Content, cfg *config.MetainformationConfig, log *zap.Logger) {
	if cfg.TitleTemplate != "" {
		expanded, err := expandTemplate(c, config.MetaTitleTemplateFieldName, cfg.TitleTemplate, c.OutputFormat)
		if err != nil {
			log.Warn("Unable to prepare document title", zap.Error(err))
		} else {
			c.Meta.Title = strings.TrimSpace(expanded)
		}
	}
	if cfg.CreatorNameTemplate != "" {
		expanded, err := expandTemplate(c, config.MetaCreatorNameTemplateFieldName, cfg.CreatorNameTemplate, c.OutputFormat)
		if err != nil {
			log.Warn("Unable to prepare creator name", zap.Error(err))
		} else {
			c.Meta.Creator = strings.TrimSpace(expanded)
		}
	}
	if cfg.Transliterate {
		c.Meta.Title = content.Transliterate(c.Meta.Title)
		c.Meta.Creator = content.Transliterate(c.Meta.Creator)
	}
}
