// docxdump opens a Word document package and dumps its internals: the part
// inventory, style definitions with inheritance chains and fully resolved
// property bags, the parsed body structure, numbering definitions and the
// embedded media.
//
// It exists to answer "what is actually inside this file" questions when the
// converter's output looks wrong.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"dxc/cmd/debug/internal/dumputil"
	"dxc/docx"
)

func main() {
	all := flag.Bool("all", false, "enable all dump flags (-parts, -styles, -tree, -numbering, -media)")
	parts := flag.Bool("parts", false, "list package parts with sizes into <file>-parts.txt")
	styles := flag.Bool("styles", false, "dump style definitions, chains and resolved bags into <file>-styles.txt")
	tree := flag.Bool("tree", false, "dump parsed document structure into <file>-tree.txt")
	numbering := flag.Bool("numbering", false, "dump numbering definitions into <file>-numbering.txt")
	media := flag.Bool("media", false, "extract media parts into <file>-media.zip")
	overwrite := flag.Bool("overwrite", false, "overwrite existing output")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: docxdump [-all] [-parts] [-styles] [-tree] [-numbering] [-media] [-overwrite] <file.docx> [outdir]\n\n")
		fmt.Fprintf(os.Stderr, "Opens a Word document package and dumps the requested internals next to\n")
		fmt.Fprintf(os.Stderr, "the input file, or into outdir when given.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 || flag.NArg() > 2 {
		flag.Usage()
		os.Exit(2)
	}

	if *all {
		*parts = true
		*styles = true
		*tree = true
		*numbering = true
		*media = true
	}

	if !*parts && !*styles && !*tree && !*numbering && !*media {
		flag.Usage()
		os.Exit(2)
	}

	defer func(startedAt time.Time) {
		fmt.Fprintf(os.Stderr, "\nExecution time: %s\n", time.Since(startedAt))
	}(time.Now())

	inPath := flag.Arg(0)
	outDir := ""
	if flag.NArg() == 2 {
		outDir = flag.Arg(1)
	}

	c, err := docx.Open(inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open %s: %v\n", inPath, err)
		os.Exit(1)
	}
	defer c.Close()

	if *parts {
		if err := dumputil.DumpPartsTxt(c, inPath, outDir, *overwrite); err != nil {
			fmt.Fprintf(os.Stderr, "dump parts: %v\n", err)
			os.Exit(1)
		}
	}

	if *media {
		if err := dumputil.DumpMediaZip(c, inPath, outDir, *overwrite); err != nil {
			fmt.Fprintf(os.Stderr, "dump media: %v\n", err)
			os.Exit(1)
		}
	}

	// Parsing is only paid for when a mode needs the document model. Parse
	// warnings go straight to the console, that is what this tool is for.
	if *styles || *tree || *numbering {
		log, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "create logger: %v\n", err)
			os.Exit(1)
		}
		defer log.Sync() //nolint:errcheck

		doc, err := docx.ReadDocument(c, log)
		if err != nil {
			fmt.Fprintf(os.Stderr, "parse %s: %v\n", inPath, err)
			os.Exit(1)
		}

		if *styles {
			if err := dumputil.DumpStylesTxt(doc, inPath, outDir, *overwrite); err != nil {
				fmt.Fprintf(os.Stderr, "dump styles: %v\n", err)
				os.Exit(1)
			}
		}

		if *tree {
			if err := dumputil.DumpTreeTxt(doc, inPath, outDir, *overwrite); err != nil {
				fmt.Fprintf(os.Stderr, "dump tree: %v\n", err)
				os.Exit(1)
			}
		}

		if *numbering {
			if err := dumputil.DumpNumberingTxt(doc, inPath, outDir, *overwrite); err != nil {
				fmt.Fprintf(os.Stderr, "dump numbering: %v\n", err)
				os.Exit(1)
			}
		}
	}
}
