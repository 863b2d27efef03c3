// Command pdfshuffle splits, merges, extracts, reorders and removes PDF pages from the command line.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"

	"pdf_shuffle/pdf"
)

// CLI defines the command-line interface for pdfshuffle.
var CLI struct {
	Verbose  bool `short:"v" help:"Log debug output to stderr"`
	Optimize bool `help:"Optimize written PDFs" env:"PDF_OPTIMIZE"`

	SplitRange   SplitRangeCmd   `cmd:"" help:"Write pages START..END to a new PDF"`
	SplitEvery   SplitEveryCmd   `cmd:"" help:"Split into parts of N pages"`
	SplitSingles SplitSinglesCmd `cmd:"" help:"Split into one PDF per page"`
	Extract      ExtractCmd      `cmd:"" help:"Extract pages in the given order"`
	Reorder      ReorderCmd      `cmd:"" help:"Write all pages in a new order"`
	Merge        MergeCmd        `cmd:"" help:"Merge PDFs in the given order"`
	Remove       RemoveCmd       `cmd:"" help:"Remove pages"`
	Parse        ParseCmd        `cmd:"" help:"Print the pages a page specification names"`
}

// SplitRangeCmd writes a page range to a new PDF.
type SplitRangeCmd struct {
	Input string `arg:"" help:"Source PDF" type:"path"`
	Start int    `arg:"" help:"First page (1-based)"`
	End   int    `arg:"" help:"Last page (inclusive)"`
	Out   string `short:"o" help:"Output PDF (default: <input>_pages<START>-<END>.pdf)" type:"path"`
}

func (c *SplitRangeCmd) Run(a *pdf.Assembler, stdout io.Writer) error {
	out := c.Out
	if out == "" {
		out = pdf.DefaultRangeName(c.Input, c.Start, c.End)
	}
	path, err := a.SplitByRange(c.Input, out, c.Start, c.End)
	if err != nil {
		return err
	}
	return printPaths(stdout, path)
}

// SplitEveryCmd splits a PDF into parts of N pages.
type SplitEveryCmd struct {
	Input string `arg:"" help:"Source PDF" type:"path"`
	N     int    `arg:"" help:"Pages per part"`
	Dir   string `short:"d" help:"Output directory (default: directory of input)" type:"path"`
}

func (c *SplitEveryCmd) Run(a *pdf.Assembler, stdout io.Writer) error {
	paths, err := a.SplitEveryN(c.Input, outDir(c.Dir, c.Input), c.N)
	if perr := printPaths(stdout, paths...); perr != nil {
		return perr
	}
	return err
}

// SplitSinglesCmd writes one PDF per page.
type SplitSinglesCmd struct {
	Input string `arg:"" help:"Source PDF" type:"path"`
	Dir   string `short:"d" help:"Output directory (default: directory of input)" type:"path"`
}

func (c *SplitSinglesCmd) Run(a *pdf.Assembler, stdout io.Writer) error {
	paths, err := a.SplitIntoSinglePages(c.Input, outDir(c.Dir, c.Input))
	if perr := printPaths(stdout, paths...); perr != nil {
		return perr
	}
	return err
}

// ExtractCmd extracts pages in the given order.
type ExtractCmd struct {
	Input string `arg:"" help:"Source PDF" type:"path"`
	Pages string `arg:"" help:"Page specification, e.g. \"1, 3, 5-10\""`
	Out   string `short:"o" help:"Output PDF (default: <input>_extracted.pdf)" type:"path"`
}

func (c *ExtractCmd) Run(a *pdf.Assembler, stdout io.Writer) error {
	pages, err := pdf.ParsePageSpecifier(c.Pages)
	if err != nil {
		return err
	}
	out := c.Out
	if out == "" {
		out = pdf.DefaultExtractName(c.Input)
	}
	path, err := a.ExtractSpecificPages(c.Input, out, pages)
	if err != nil {
		return err
	}
	return printPaths(stdout, path)
}

// ReorderCmd writes pages in a new order.
type ReorderCmd struct {
	Input   string `arg:"" help:"Source PDF" type:"path"`
	Order   string `arg:"" optional:"" help:"New page order as a page specification"`
	Reverse bool   `help:"Reverse the page order"`
	Strict  bool   `help:"Require every page exactly once"`
	Out     string `short:"o" help:"Output PDF (default: <input>_reordered.pdf)" type:"path"`
}

func (c *ReorderCmd) Run(a *pdf.Assembler, stdout io.Writer) error {
	var order []int
	if c.Reverse || c.Strict {
		pageCount, err := a.PageCount(c.Input)
		if err != nil {
			return err
		}
		if c.Reverse {
			order = pdf.ReversePages(pageCount)
		} else if order, err = pdf.ParsePageSpecifier(c.Order); err != nil {
			return err
		}
		if c.Strict {
			if err := pdf.ValidatePermutation(order, pageCount); err != nil {
				return err
			}
		}
	} else {
		var err error
		if order, err = pdf.ParsePageSpecifier(c.Order); err != nil {
			return err
		}
	}

	out := c.Out
	if out == "" {
		out = pdf.DefaultReorderName(c.Input)
	}
	path, err := a.ReorderPages(c.Input, out, order)
	if err != nil {
		return err
	}
	return printPaths(stdout, path)
}

// MergeCmd merges PDFs in order.
type MergeCmd struct {
	Inputs []string `arg:"" optional:"" help:"Source PDFs, in order" type:"path"`
	Out    string   `short:"o" help:"Output PDF (default: merged.pdf next to the first input)" type:"path"`
}

func (c *MergeCmd) Run(a *pdf.Assembler, stdout io.Writer) error {
	out := c.Out
	if out == "" {
		out = pdf.DefaultMergeName(c.Inputs)
	}
	path, err := a.MergePDFs(c.Inputs, out)
	if err != nil {
		return err
	}
	return printPaths(stdout, path)
}

// RemoveCmd removes pages.
type RemoveCmd struct {
	Input string `arg:"" help:"Source PDF" type:"path"`
	Pages string `arg:"" help:"Pages to remove, as a page specification"`
	Out   string `short:"o" help:"Output PDF (default: <input>_pages_removed.pdf)" type:"path"`
}

func (c *RemoveCmd) Run(a *pdf.Assembler, stdout io.Writer) error {
	pages, err := pdf.ParsePageSpecifier(c.Pages)
	if err != nil {
		return err
	}
	out := c.Out
	if out == "" {
		out = pdf.DefaultRemoveName(c.Input)
	}
	path, err := a.RemovePages(c.Input, out, pages)
	if err != nil {
		return err
	}
	return printPaths(stdout, path)
}

// ParseCmd prints the pages named by a page specification.
type ParseCmd struct {
	Spec string `arg:"" help:"Page specification, e.g. \"1, 3, 5-10\""`
}

func (c *ParseCmd) Run(stdout io.Writer) error {
	pages, err := pdf.ParsePageSpecifier(c.Spec)
	if err != nil {
		return err
	}
	for i, page := range pages {
		if i > 0 {
			fmt.Fprint(stdout, " ")
		}
		fmt.Fprint(stdout, page)
	}
	_, err = fmt.Fprintln(stdout)
	return err
}

func outDir(dir, input string) string {
	if dir != "" {
		return dir
	}
	return filepath.Dir(input)
}

func printPaths(w io.Writer, paths ...string) error {
	for _, path := range paths {
		if _, err := fmt.Fprintln(w, path); err != nil {
			return err
		}
	}
	return nil
}

// exitCode maps an error kind to a process exit status.
func exitCode(err error) int {
	switch pdf.ErrorKind(err) {
	case pdf.KindInvalidPDF:
		return 3
	case pdf.KindInvalidPageRange:
		return 4
	case pdf.KindSaveFailed:
		return 5
	case pdf.KindNoPages:
		return 6
	default:
		return 1
	}
}

func newAssembler(verbose, optimize bool) *pdf.Assembler {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.SetLevel(logrus.WarnLevel)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	return pdf.NewAssembler(pdf.NewPdfcpuBackend(nil, pdf.WithOptimize(optimize)), pdf.WithLogger(logger))
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("pdfshuffle"),
		kong.Description("Split, merge, extract and reorder PDF pages"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.BindTo(os.Stdout, (*io.Writer)(nil)),
	)

	err := ctx.Run(newAssembler(CLI.Verbose, CLI.Optimize))
	if err != nil {
		fmt.Fprintf(os.Stderr, "pdfshuffle: %s: %v\n", pdf.ErrorKind(err), err)
		os.Exit(exitCode(err))
	}
}
