package pdf

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// Assembler builds new PDF documents out of pages of existing ones.
// It holds no state between calls; every operation opens its sources afresh.
type Assembler struct {
	backend Backend
	logger  logrus.FieldLogger
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithLogger sets the logger used for debug traces. Failures are returned, not logged.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(a *Assembler) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewAssembler returns an Assembler that reads and writes documents through backend.
func NewAssembler(backend Backend, opts ...Option) *Assembler {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	a := &Assembler{backend: backend, logger: discard}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SplitByRange writes pages start..end (1-based, inclusive) of input to output.
func (a *Assembler) SplitByRange(input, output string, start, end int) (string, error) {
	src, err := a.open(input)
	if err != nil {
		return "", err
	}

	pageCount := src.PageCount()
	if start < 1 || end > pageCount || start > end {
		return "", fmt.Errorf("%w: %d-%d for a %d page document", ErrInvalidPageRange, start, end, pageCount)
	}

	doc, err := a.copySelectedPages(src, PageRange(start, end))
	if err != nil {
		return "", err
	}
	return a.save(doc, output)
}

// SplitEveryN writes consecutive chunks of n pages of input into outDir, one file per
// chunk named <base>_part<N>.pdf. Paths are returned in chunk order. When a part
// fails to save, the parts already written stay on disk and are returned with the error.
func (a *Assembler) SplitEveryN(input, outDir string, n int) ([]string, error) {
	return a.splitChunks(input, outDir, n, func(base string, part int, _ []int) string {
		return fmt.Sprintf(PartNameFormat, base, part)
	})
}

// SplitIntoSinglePages writes every page of input into outDir as <base>_page<N>.pdf.
// Partial output is handled as in SplitEveryN.
func (a *Assembler) SplitIntoSinglePages(input, outDir string) ([]string, error) {
	return a.splitChunks(input, outDir, 1, func(base string, _ int, pages []int) string {
		return fmt.Sprintf(SinglePageNameFormat, base, pages[0])
	})
}

// ExtractSpecificPages writes the listed pages of input to output in the given order.
// Pages may repeat.
func (a *Assembler) ExtractSpecificPages(input, output string, pages []int) (string, error) {
	return a.writeSelection(input, output, pages)
}

// ReorderPages writes the pages of input to output in the given order.
// Any sequence of in-range pages is accepted; use ValidatePermutation beforehand
// to require each page exactly once.
func (a *Assembler) ReorderPages(input, output string, order []int) (string, error) {
	return a.writeSelection(input, output, order)
}

// RemovePages writes every page of input not listed in pages to output, keeping
// the original order.
func (a *Assembler) RemovePages(input, output string, pages []int) (string, error) {
	src, err := a.open(input)
	if err != nil {
		return "", err
	}

	if len(pages) == 0 {
		return "", fmt.Errorf("%w: no pages to remove", ErrInvalidPageRange)
	}
	if err := ValidatePageNumbers(pages, src.PageCount()); err != nil {
		return "", err
	}

	keep := ComplementPages(pages, src.PageCount())
	if len(keep) == 0 {
		return "", fmt.Errorf("%w: removing every page of %s", ErrNoPages, input)
	}

	doc, err := a.copySelectedPages(src, keep)
	if err != nil {
		return "", err
	}
	return a.save(doc, output)
}

// MergePDFs appends every page of each input, in order, to one document written to
// output. Nothing is written if any input cannot be opened.
func (a *Assembler) MergePDFs(inputs []string, output string) (string, error) {
	if len(inputs) == 0 {
		return "", fmt.Errorf("%w: no input documents", ErrNoPages)
	}

	merged := a.backend.New()
	for _, input := range inputs {
		src, err := a.open(input)
		if err != nil {
			return "", err
		}

		a.logger.WithFields(logrus.Fields{
			"input": input,
			"pages": src.PageCount(),
		}).Debug("Appending document")

		for i := 0; i < src.PageCount(); i++ {
			page, ok := src.Page(i)
			if !ok {
				continue
			}
			if err := merged.AppendPage(page); err != nil {
				return "", fmt.Errorf("failed to append page %d of %s: %w", i+1, input, err)
			}
		}
	}

	if merged.PageCount() == 0 {
		return "", fmt.Errorf("%w: all inputs are empty", ErrNoPages)
	}
	return a.save(merged, output)
}

// copySelectedPages validates every number in selection against src before building
// a new document holding page n-1 of src for each n, in selection order.
func (a *Assembler) copySelectedPages(src Document, selection []int) (Document, error) {
	if err := ValidatePageNumbers(selection, src.PageCount()); err != nil {
		return nil, err
	}

	doc := a.backend.New()
	for _, pageNum := range selection {
		page, ok := src.Page(pageNum - 1)
		if !ok {
			return nil, fmt.Errorf("%w: page %d not available", ErrInvalidPageRange, pageNum)
		}
		if err := doc.AppendPage(page); err != nil {
			return nil, fmt.Errorf("failed to append page %d: %w", pageNum, err)
		}
	}
	return doc, nil
}

func (a *Assembler) writeSelection(input, output string, selection []int) (string, error) {
	src, err := a.open(input)
	if err != nil {
		return "", err
	}

	doc, err := a.copySelectedPages(src, selection)
	if err != nil {
		return "", err
	}
	if doc.PageCount() == 0 {
		return "", fmt.Errorf("%w: empty page selection", ErrNoPages)
	}
	return a.save(doc, output)
}

// splitChunks writes one file per chunk of n pages, named by name.
func (a *Assembler) splitChunks(input, outDir string, n int, name func(base string, part int, pages []int) string) ([]string, error) {
	src, err := a.open(input)
	if err != nil {
		return nil, err
	}

	chunks, err := ChunkPages(src.PageCount(), n)
	if err != nil {
		return nil, err
	}

	base := BaseName(input)
	outputs := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		doc, err := a.copySelectedPages(src, chunk)
		if err != nil {
			return outputs, err
		}

		path, err := a.save(doc, filepath.Join(outDir, name(base, i+1, chunk)))
		if err != nil {
			return outputs, fmt.Errorf("part %d of %d: %w", i+1, len(chunks), err)
		}
		outputs = append(outputs, path)
	}
	return outputs, nil
}

func (a *Assembler) open(path string) (Document, error) {
	doc, err := a.backend.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidPDF, path, err)
	}

	a.logger.WithFields(logrus.Fields{
		"path":  path,
		"pages": doc.PageCount(),
	}).Debug("Opened PDF")
	return doc, nil
}

func (a *Assembler) save(doc Document, output string) (string, error) {
	path, err := filepath.Abs(output)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrSaveFailed, output, err)
	}

	if err := doc.Write(path); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrSaveFailed, path, err)
	}

	a.logger.WithFields(logrus.Fields{
		"path":  path,
		"pages": doc.PageCount(),
	}).Debug("Wrote PDF")
	return path, nil
}

// BaseName returns the file name of path without directory and extension.
func BaseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// DefaultRangeName suggests an output path next to input for SplitByRange.
func DefaultRangeName(input string, start, end int) string {
	return filepath.Join(filepath.Dir(input), fmt.Sprintf(RangeNameFormat, BaseName(input), start, end))
}

// DefaultExtractName suggests an output path next to input for ExtractSpecificPages.
func DefaultExtractName(input string) string {
	return filepath.Join(filepath.Dir(input), BaseName(input)+ExtractSuffix+".pdf")
}

// DefaultReorderName suggests an output path next to input for ReorderPages.
func DefaultReorderName(input string) string {
	return filepath.Join(filepath.Dir(input), BaseName(input)+ReorderSuffix+".pdf")
}

// DefaultRemoveName suggests an output path next to input for RemovePages.
func DefaultRemoveName(input string) string {
	return filepath.Join(filepath.Dir(input), BaseName(input)+RemoveSuffix+".pdf")
}

// DefaultMergeName suggests an output path in the directory of the first input.
func DefaultMergeName(inputs []string) string {
	if len(inputs) == 0 {
		return MergeName
	}
	return filepath.Join(filepath.Dir(inputs[0]), MergeName)
}
