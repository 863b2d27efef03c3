package pdf

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeTestPDF writes a PDF whose page i has a MediaBox width of widths[i], so pages
// can be told apart after they have been moved between documents.
func writeTestPDF(t *testing.T, path string, widths ...int) {
	t.Helper()

	var buf bytes.Buffer
	var offsets []int
	object := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")
	object("<< /Type /Catalog /Pages 2 0 R >>")

	kids := ""
	for i := range widths {
		kids += fmt.Sprintf("%d 0 R ", 3+2*i)
	}
	object(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, len(widths)))

	for i, w := range widths {
		content := fmt.Sprintf("0 0 m %d 100 l S", w)
		object(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %d 200] /Contents %d 0 R /Resources << >> >>", w, 4+2*i))
		object(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)

	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
}

// memBackend is an in-memory Backend. Documents are lists of page labels; written
// documents are stored as JSON so tests can read them back from disk.
type memBackend struct {
	docs      map[string][]string
	failWrite map[string]bool
	opened    []string
}

func newMemBackend() *memBackend {
	return &memBackend{docs: map[string][]string{}, failWrite: map[string]bool{}}
}

// add registers a document at path with pages labelled <name>1..<name>n.
func (b *memBackend) add(path, name string, n int) {
	pages := make([]string, n)
	for i := range pages {
		pages[i] = fmt.Sprintf("%s%d", name, i+1)
	}
	b.docs[path] = pages
}

func (b *memBackend) Open(path string) (Document, error) {
	b.opened = append(b.opened, path)
	pages, ok := b.docs[path]
	if !ok {
		return nil, errors.New("not a PDF")
	}
	return &memDocument{backend: b, pages: append([]string(nil), pages...)}, nil
}

func (b *memBackend) New() Document {
	return &memDocument{backend: b}
}

type memDocument struct {
	backend *memBackend
	pages   []string
}

func (d *memDocument) PageCount() int { return len(d.pages) }

func (d *memDocument) Page(index int) (Page, bool) {
	if index < 0 || index >= len(d.pages) {
		return nil, false
	}
	return d.pages[index], true
}

func (d *memDocument) AppendPage(page Page) error {
	label, ok := page.(string)
	if !ok {
		return fmt.Errorf("unexpected page type %T", page)
	}
	d.pages = append(d.pages, label)
	return nil
}

func (d *memDocument) Write(path string) error {
	if d.backend.failWrite[filepath.Base(path)] {
		return errors.New("disk full")
	}
	data, err := json.Marshal(d.pages)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// readMemPDF returns the page labels written by memDocument.Write.
func readMemPDF(t *testing.T, path string) []string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var pages []string
	require.NoError(t, json.Unmarshal(data, &pages))
	return pages
}
