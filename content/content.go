package content

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"dxc/config"
	"dxc/content/text"
	"dxc/docx"
	"dxc/misc"
	"dxc/state"
)

// Meta is the document description lifted from docProps/core.xml, used for
// output naming and output metadata.
type Meta struct {
	Title    string
	Creator  string
	Subject  string
	Keywords string
	Language string
	Created  time.Time
}

// Content encapsulates the opened document package and everything derived
// from it that the generators need: the parsed body, the style resolver, the
// list numbering tracker and the processed image index.
type Content struct {
	SrcName      string
	OutputFormat config.OutputFmt

	Pkg       *docx.Container
	Doc       *docx.Document
	Resolver  *docx.StyleResolver
	Numbering *docx.NumberingTracker
	Meta      Meta
	ID        string

	Images   ImageIndex
	Splitter *text.Splitter
	WorkDir  string
}

// Prepare opens, parses, and prepares DOCX content for conversion.
func Prepare(ctx context.Context, data []byte, srcName string, outputFormat config.OutputFmt, log *zap.Logger) (*Content, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	env := state.EnvFromContext(ctx)

	pkg, err := docx.OpenBytes(data)
	if err != nil {
		return nil, fmt.Errorf("unable to open document package: %w", err)
	}

	doc, err := docx.ReadDocument(pkg, log)
	if err != nil {
		return nil, fmt.Errorf("unable to parse document: %w", err)
	}

	// Every conversion gets its own reference ID, DOCX has nothing usable.
	refID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("unable to generate conversion UUID: %w", err)
	}

	tmpDir, err := os.MkdirTemp("", misc.GetAppName()+"-")
	if err != nil {
		return nil, fmt.Errorf("unable to create temporary directory: %w", err)
	}
	env.Rpt.Store(fmt.Sprintf("%s-%s", misc.GetAppName(), refID.String()), tmpDir)

	baseSrcName := filepath.Base(srcName)

	// Save source parts to files for debugging
	if env.Rpt != nil {
		if err := storePartForDebug(pkg, docx.PartDocument, filepath.Join(tmpDir, baseSrcName+"_document.xml")); err != nil {
			return nil, err
		}
		if pkg.HasPart(docx.PartStyles) {
			if err := storePartForDebug(pkg, docx.PartStyles, filepath.Join(tmpDir, baseSrcName+"_styles.xml")); err != nil {
				return nil, err
			}
		}
	}

	c := &Content{
		SrcName:      srcName,
		OutputFormat: outputFormat,
		Pkg:          pkg,
		Doc:          doc,
		Resolver:     docx.NewStyleResolver(doc.Styles, docx.NewLogObserver(log)),
		Numbering:    docx.NewNumberingTracker(doc.Numbering),
		Meta:         buildMeta(doc.Core),
		ID:           refID.String(),
		WorkDir:      tmpDir,
	}

	// Process referenced media creating actual images and reference index
	c.Images = prepareImages(pkg, doc, &env.Cfg.Document.Images, log)

	if outputFormat == config.OutputFmtTxt && env.Cfg.Document.Text.SentencePerLine {
		c.Splitter = text.NewSplitter(c.Meta.Language, log)
	}

	// Save prepared document to file for debugging
	if env.Rpt != nil {
		if err := os.WriteFile(filepath.Join(tmpDir, baseSrcName+"_prepared"), []byte(c.String()), 0644); err != nil {
			return nil, fmt.Errorf("unable to write prepared doc for debugging: %w", err)
		}
	}

	return c, nil
}

// Close releases the underlying document package.
func (c *Content) Close() error {
	if c == nil || c.Pkg == nil {
		return nil
	}
	return c.Pkg.Close()
}

func buildMeta(core *docx.CoreProperties) Meta {
	if core == nil {
		return Meta{}
	}
	return Meta{
		Title:    core.Title,
		Creator:  core.Creator,
		Subject:  core.Subject,
		Keywords: core.Keywords,
		Language: core.Language,
		Created:  core.Created,
	}
}

func storePartForDebug(pkg *docx.Container, part, path string) error {
	data, err := pkg.Part(part)
	if err != nil {
		return fmt.Errorf("unable to read part for debugging: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("unable to write part for debugging: %w", err)
	}
	return nil
}
