package pdf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pageWidths reads back the MediaBox width of every page in the PDF at path.
func pageWidths(t *testing.T, path string) []int {
	t.Helper()

	dims, err := api.PageDimsFile(path)
	require.NoError(t, err)

	widths := make([]int, len(dims))
	for i, d := range dims {
		widths[i] = int(d.Width + 0.5)
	}
	return widths
}

func newPdfcpuAssembler(t *testing.T) (*Assembler, string) {
	t.Helper()
	return NewAssembler(NewPdfcpuBackend(nil)), t.TempDir()
}

func TestPdfcpuOpen(t *testing.T) {
	_, dir := newPdfcpuAssembler(t)
	input := filepath.Join(dir, "in.pdf")
	writeTestPDF(t, input, 101, 102, 103)

	doc, err := NewPdfcpuBackend(nil).Open(input)
	require.NoError(t, err)
	assert.Equal(t, 3, doc.PageCount())

	_, ok := doc.Page(2)
	assert.True(t, ok)
	_, ok = doc.Page(3)
	assert.False(t, ok)
	_, ok = doc.Page(-1)
	assert.False(t, ok)
}

func TestPdfcpuOpenInvalid(t *testing.T) {
	a, dir := newPdfcpuAssembler(t)

	notPDF := filepath.Join(dir, "note.pdf")
	require.NoError(t, os.WriteFile(notPDF, []byte("This is not a PDF"), 0644))
	empty := filepath.Join(dir, "empty.pdf")
	require.NoError(t, os.WriteFile(empty, nil, 0644))

	for _, input := range []string{notPDF, empty, filepath.Join(dir, "missing.pdf")} {
		_, err := a.SplitByRange(input, filepath.Join(dir, "out.pdf"), 1, 1)
		assert.ErrorIs(t, err, ErrInvalidPDF, input)
	}
	assert.NoFileExists(t, filepath.Join(dir, "out.pdf"))
}

func TestPdfcpuSplitByRange(t *testing.T) {
	a, dir := newPdfcpuAssembler(t)
	input := filepath.Join(dir, "in.pdf")
	writeTestPDF(t, input, 101, 102, 103, 104, 105)

	path, err := a.SplitByRange(input, filepath.Join(dir, "range.pdf"), 2, 4)
	require.NoError(t, err)
	assert.Equal(t, []int{102, 103, 104}, pageWidths(t, path))

	// Running twice gives the same pages.
	again, err := a.SplitByRange(input, filepath.Join(dir, "range.pdf"), 2, 4)
	require.NoError(t, err)
	assert.Equal(t, path, again)
	assert.Equal(t, []int{102, 103, 104}, pageWidths(t, again))

	_, err = a.SplitByRange(input, filepath.Join(dir, "bad.pdf"), 4, 6)
	assert.ErrorIs(t, err, ErrInvalidPageRange)
	assert.NoFileExists(t, filepath.Join(dir, "bad.pdf"))
}

func TestPdfcpuSplitEveryN(t *testing.T) {
	a, dir := newPdfcpuAssembler(t)
	input := filepath.Join(dir, "book.pdf")
	writeTestPDF(t, input, 101, 102, 103, 104, 105)

	outDir := filepath.Join(dir, "parts")
	require.NoError(t, os.Mkdir(outDir, 0755))

	paths, err := a.SplitEveryN(input, outDir, 2)
	require.NoError(t, err)
	require.Len(t, paths, 3)
	assert.Equal(t, filepath.Join(outDir, "book_part1.pdf"), paths[0])
	assert.Equal(t, []int{101, 102}, pageWidths(t, paths[0]))
	assert.Equal(t, []int{103, 104}, pageWidths(t, paths[1]))
	assert.Equal(t, []int{105}, pageWidths(t, paths[2]))
}

func TestPdfcpuSplitIntoSinglePages(t *testing.T) {
	a, dir := newPdfcpuAssembler(t)
	input := filepath.Join(dir, "book.pdf")
	writeTestPDF(t, input, 101, 102, 103)

	paths, err := a.SplitIntoSinglePages(input, dir)
	require.NoError(t, err)
	require.Len(t, paths, 3)
	for i, path := range paths {
		assert.Equal(t, []int{101 + i}, pageWidths(t, path))
	}
	assert.Equal(t, filepath.Join(dir, "book_page3.pdf"), paths[2])
}

func TestPdfcpuSplitMissingOutputDir(t *testing.T) {
	a, dir := newPdfcpuAssembler(t)
	input := filepath.Join(dir, "book.pdf")
	writeTestPDF(t, input, 101, 102)

	paths, err := a.SplitIntoSinglePages(input, filepath.Join(dir, "nope"))
	assert.ErrorIs(t, err, ErrSaveFailed)
	assert.Empty(t, paths)
}

func TestPdfcpuExtractSpecificPages(t *testing.T) {
	a, dir := newPdfcpuAssembler(t)
	input := filepath.Join(dir, "in.pdf")
	writeTestPDF(t, input, 101, 102, 103)

	path, err := a.ExtractSpecificPages(input, filepath.Join(dir, "extract.pdf"), []int{3, 1, 1})
	require.NoError(t, err)
	assert.Equal(t, []int{103, 101, 101}, pageWidths(t, path))

	_, err = a.ExtractSpecificPages(input, filepath.Join(dir, "bad.pdf"), []int{1, 4})
	assert.ErrorIs(t, err, ErrInvalidPageRange)
	assert.NoFileExists(t, filepath.Join(dir, "bad.pdf"))
}

func TestPdfcpuReorderPages(t *testing.T) {
	a, dir := newPdfcpuAssembler(t)
	input := filepath.Join(dir, "in.pdf")
	writeTestPDF(t, input, 101, 102, 103, 104)

	path, err := a.ReorderPages(input, filepath.Join(dir, "reordered.pdf"), []int{2, 4, 1, 3})
	require.NoError(t, err)
	assert.Equal(t, []int{102, 104, 101, 103}, pageWidths(t, path))
}

func TestPdfcpuRemovePages(t *testing.T) {
	a, dir := newPdfcpuAssembler(t)
	input := filepath.Join(dir, "in.pdf")
	writeTestPDF(t, input, 101, 102, 103, 104)

	path, err := a.RemovePages(input, filepath.Join(dir, "removed.pdf"), []int{1, 3})
	require.NoError(t, err)
	assert.Equal(t, []int{102, 104}, pageWidths(t, path))
}

func TestPdfcpuMergePDFs(t *testing.T) {
	a, dir := newPdfcpuAssembler(t)
	first := filepath.Join(dir, "a.pdf")
	second := filepath.Join(dir, "b.pdf")
	writeTestPDF(t, first, 101, 102)
	writeTestPDF(t, second, 201, 202, 203)

	path, err := a.MergePDFs([]string{first, second}, filepath.Join(dir, "merged.pdf"))
	require.NoError(t, err)
	assert.Equal(t, []int{101, 102, 201, 202, 203}, pageWidths(t, path))

	bad := filepath.Join(dir, "bad.pdf")
	require.NoError(t, os.WriteFile(bad, []byte("%PDF-garbage"), 0644))
	_, err = a.MergePDFs([]string{first, bad}, filepath.Join(dir, "merged2.pdf"))
	assert.ErrorIs(t, err, ErrInvalidPDF)
	assert.NoFileExists(t, filepath.Join(dir, "merged2.pdf"))
}

func TestPdfcpuOptimizedOutput(t *testing.T) {
	a := NewAssembler(NewPdfcpuBackend(nil, WithOptimize(true)))
	dir := t.TempDir()
	input := filepath.Join(dir, "in.pdf")
	writeTestPDF(t, input, 101, 102, 103)

	path, err := a.ExtractSpecificPages(input, filepath.Join(dir, "out.pdf"), []int{2, 3})
	require.NoError(t, err)
	assert.Equal(t, []int{102, 103}, pageWidths(t, path))
}

func TestWriteFileAtomicLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.pdf")

	require.NoError(t, writeFileAtomic(path, []byte("one"), OutputFilePermissions))
	require.NoError(t, writeFileAtomic(path, []byte("two"), OutputFilePermissions))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	assert.Error(t, writeFileAtomic(filepath.Join(dir, "missing", "out.pdf"), []byte("x"), OutputFilePermissions))
}

func TestAppendForeignPage(t *testing.T) {
	doc := NewPdfcpuBackend(nil).New()
	assert.Error(t, doc.AppendPage("not a pdfcpu page"))
	assert.Equal(t, 0, doc.PageCount())
	assert.Error(t, doc.Write(filepath.Join(t.TempDir(), "empty.pdf")))
}

func TestDescribe(t *testing.T) {
	a, dir := newPdfcpuAssembler(t)
	input := filepath.Join(dir, "in.pdf")
	writeTestPDF(t, input, 101, 102, 103)

	count, err := a.PageCount(input)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	paths, err := a.SplitEveryN(input, dir, 2)
	require.NoError(t, err)

	artifacts, err := a.DescribeAll(paths)
	require.NoError(t, err)
	require.Len(t, artifacts, 2)
	assert.Equal(t, 2, artifacts[0].Pages)
	assert.Equal(t, 1, artifacts[1].Pages)
	assert.Len(t, artifacts[0].BLAKE3, 64)
	assert.Positive(t, artifacts[0].Size)
	assert.NotEqual(t, artifacts[0].BLAKE3, artifacts[1].BLAKE3)

	_, err = a.Describe(filepath.Join(dir, "missing.pdf"))
	assert.Error(t, err)
}
