package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PdfcpuBackend implements Backend with the pdfcpu library.
//
// A page is a reference to a page number of a validated source context. Pages are
// materialised as single-page PDFs only when a document is written, and the
// resulting pages are merged into the output in memory before anything touches disk.
type PdfcpuBackend struct {
	conf     *model.Configuration
	optimize bool
}

// PdfcpuOption configures a PdfcpuBackend.
type PdfcpuOption func(*PdfcpuBackend)

// WithOptimize runs pdfcpu's optimizer over every assembled document before it is written.
func WithOptimize(optimize bool) PdfcpuOption {
	return func(b *PdfcpuBackend) {
		b.optimize = optimize
	}
}

// NewPdfcpuBackend returns a backend using conf, or pdfcpu's default configuration when conf is nil.
func NewPdfcpuBackend(conf *model.Configuration, opts ...PdfcpuOption) *PdfcpuBackend {
	if conf == nil {
		conf = model.NewDefaultConfiguration()
	}
	b := &PdfcpuBackend{conf: conf}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// config returns a private copy of the configuration; pdfcpu records the running
// command on it, so concurrent operations must not share one.
func (b *PdfcpuBackend) config() *model.Configuration {
	c := *b.conf
	return &c
}

// Open reads and validates the PDF at path.
func (b *PdfcpuBackend) Open(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ctx, err := api.ReadValidateAndOptimize(f, b.config())
	if err != nil {
		return nil, err
	}

	doc := &pdfcpuDocument{backend: b, pages: make([]pdfcpuPage, 0, ctx.PageCount)}
	for nr := 1; nr <= ctx.PageCount; nr++ {
		doc.pages = append(doc.pages, pdfcpuPage{src: ctx, nr: nr})
	}
	return doc, nil
}

// New returns an empty document.
func (b *PdfcpuBackend) New() Document {
	return &pdfcpuDocument{backend: b}
}

// pdfcpuPage refers to page nr (1-based) of a source context.
type pdfcpuPage struct {
	src *model.Context
	nr  int
}

type pdfcpuDocument struct {
	backend *PdfcpuBackend
	pages   []pdfcpuPage
}

func (d *pdfcpuDocument) PageCount() int {
	return len(d.pages)
}

func (d *pdfcpuDocument) Page(index int) (Page, bool) {
	if index < 0 || index >= len(d.pages) {
		return nil, false
	}
	return d.pages[index], true
}

func (d *pdfcpuDocument) AppendPage(page Page) error {
	p, ok := page.(pdfcpuPage)
	if !ok {
		return fmt.Errorf("page of type %T does not belong to the pdfcpu backend", page)
	}
	d.pages = append(d.pages, p)
	return nil
}

func (d *pdfcpuDocument) Write(path string) error {
	data, err := d.render()
	if err != nil {
		return err
	}

	if d.backend.optimize {
		if data, err = resave(data, d.backend.config()); err != nil {
			return err
		}
	}

	return writeFileAtomic(path, data, OutputFilePermissions)
}

// render assembles the document in memory.
func (d *pdfcpuDocument) render() ([]byte, error) {
	if len(d.pages) == 0 {
		return nil, errors.New("document has no pages")
	}

	// Repeated pages are extracted once.
	extracted := make(map[pdfcpuPage][]byte)
	readers := make([]io.ReadSeeker, 0, len(d.pages))
	for _, p := range d.pages {
		data, ok := extracted[p]
		if !ok {
			r, err := api.ExtractPage(p.src, p.nr)
			if err != nil {
				return nil, fmt.Errorf("failed to extract page %d: %w", p.nr, err)
			}
			if data, err = io.ReadAll(r); err != nil {
				return nil, fmt.Errorf("failed to read page %d: %w", p.nr, err)
			}
			extracted[p] = data
		}
		readers = append(readers, bytes.NewReader(data))
	}

	if len(readers) == 1 {
		return extracted[d.pages[0]], nil
	}

	var buf bytes.Buffer
	if err := api.MergeRaw(readers, &buf, false, d.backend.config()); err != nil {
		return nil, fmt.Errorf("failed to assemble %d pages: %w", len(readers), err)
	}
	return buf.Bytes(), nil
}

// writeFileAtomic writes data to a temporary file next to path and renames it into
// place, so path either keeps its previous content or holds all of data.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
