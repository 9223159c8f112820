package convert

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"dxc/config"
	"dxc/content"
	"dxc/convert/html"
	"dxc/convert/text"
)

// writeTo generates output in the requested format and writes it to the
// destination path.
func writeTo(ctx context.Context, c *content.Content, format config.OutputFmt, outputPath string, cfg *config.DocumentConfig, log *zap.Logger) error {
	switch format {
	case config.OutputFmtHtml:
		return html.Generate(ctx, c, outputPath, cfg, log)
	case config.OutputFmtTxt:
		return text.Generate(ctx, c, outputPath, cfg, log)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}
