package api

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	pdfPkg "pdf_shuffle/pdf"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/zeebo/blake3"
)

// KindInvalidRequest is reported for requests rejected before any PDF is touched.
const KindInvalidRequest = "invalid_request"

// SplitRangeRequest is the body of POST /split-range.
type SplitRangeRequest struct {
	Input  string `json:"input" binding:"required"`
	Output string `json:"output"`
	Start  int    `json:"start"`
	End    int    `json:"end"`
}

// SplitRequest is the body of POST /split-every and POST /split-singles.
// N is ignored by split-singles.
type SplitRequest struct {
	Input     string `json:"input" binding:"required"`
	OutputDir string `json:"output_dir"`
	N         int    `json:"n"`
}

// PagesRequest is the body of POST /extract and POST /remove-pages. Spec, when set,
// is parsed as a page specification and takes precedence over Pages.
type PagesRequest struct {
	Input  string `json:"input" binding:"required"`
	Output string `json:"output"`
	Pages  []int  `json:"pages"`
	Spec   string `json:"spec"`
}

// ReorderRequest is the body of POST /reorder. Reverse ignores Order and Spec.
// Strict rejects orders that are not a permutation of every page.
type ReorderRequest struct {
	Input   string `json:"input" binding:"required"`
	Output  string `json:"output"`
	Order   []int  `json:"order"`
	Spec    string `json:"spec"`
	Reverse bool   `json:"reverse"`
	Strict  bool   `json:"strict"`
}

// MergeRequest is the body of POST /merge.
type MergeRequest struct {
	Inputs []string `json:"inputs"`
	Output string   `json:"output"`
}

// ParsePagesRequest is the body of POST /parse-pages.
type ParsePagesRequest struct {
	Spec string `json:"spec"`
}

func HandleUpload(c *gin.Context, svc *Service) {
	file, header, err := c.Request.FormFile("pdf")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded", "kind": KindInvalidRequest})
		return
	}
	defer file.Close()

	// Validate PDF file
	if err := validatePDFFile(file, header, svc.Config.MaxFileSize); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": pdfPkg.KindInvalidPDF})
		return
	}

	if err := ensureTempDir(svc.Config.TempDir); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create temp directory", "kind": pdfPkg.KindInternal})
		return
	}

	// Sanitize filename to prevent path traversal
	safeFilename := sanitizeFilename(header.Filename)
	filename, err := filepath.Abs(filepath.Join(svc.Config.TempDir, uuid.New().String()+"_"+safeFilename))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file", "kind": pdfPkg.KindInternal})
		return
	}

	out, err := os.Create(filename)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file", "kind": pdfPkg.KindInternal})
		return
	}

	_, err = out.ReadFrom(file)
	out.Close()
	if err != nil {
		os.Remove(filename) // Clean up on error
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file", "kind": pdfPkg.KindInternal})
		return
	}

	pages, err := svc.Assembler.PageCount(filename)
	if err != nil {
		os.Remove(filename)
		respondError(c, svc, err, nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{"filename": header.Filename, "path": filename, "pages": pages})
}

func HandleInfo(c *gin.Context, svc *Service) {
	path := c.Query("path")
	if !checkPaths(c, path) {
		return
	}

	pages, err := svc.Assembler.PageCount(path)
	if err != nil {
		respondError(c, svc, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": path, "pages": pages})
}

func HandleParsePages(c *gin.Context, svc *Service) {
	var req ParsePagesRequest
	if !bindJSON(c, &req) {
		return
	}

	pages, err := pdfPkg.ParsePageSpecifier(req.Spec)
	if err != nil {
		respondError(c, svc, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pages": pages})
}

func HandleSplitRange(c *gin.Context, svc *Service) {
	var req SplitRangeRequest
	if !bindJSON(c, &req) {
		return
	}

	output := req.Output
	if output == "" {
		output = pdfPkg.DefaultRangeName(req.Input, req.Start, req.End)
	}
	if !checkPaths(c, req.Input, output) {
		return
	}

	runLocked(c, svc, output, func() ([]string, error) {
		return single(svc.Assembler.SplitByRange(req.Input, output, req.Start, req.End))
	})
}

func HandleSplitEvery(c *gin.Context, svc *Service) {
	var req SplitRequest
	if !bindJSON(c, &req) {
		return
	}

	outDir := outputDir(req)
	if !checkPaths(c, req.Input, outDir) {
		return
	}

	runLocked(c, svc, outDir, func() ([]string, error) {
		return svc.Assembler.SplitEveryN(req.Input, outDir, req.N)
	})
}

func HandleSplitSingles(c *gin.Context, svc *Service) {
	var req SplitRequest
	if !bindJSON(c, &req) {
		return
	}

	outDir := outputDir(req)
	if !checkPaths(c, req.Input, outDir) {
		return
	}

	runLocked(c, svc, outDir, func() ([]string, error) {
		return svc.Assembler.SplitIntoSinglePages(req.Input, outDir)
	})
}

func HandleExtract(c *gin.Context, svc *Service) {
	var req PagesRequest
	if !bindJSON(c, &req) {
		return
	}

	output := req.Output
	if output == "" {
		output = pdfPkg.DefaultExtractName(req.Input)
	}
	if !checkPaths(c, req.Input, output) {
		return
	}

	pages, err := resolvePages(req.Pages, req.Spec)
	if err != nil {
		respondError(c, svc, err, nil)
		return
	}

	runLocked(c, svc, output, func() ([]string, error) {
		return single(svc.Assembler.ExtractSpecificPages(req.Input, output, pages))
	})
}

func HandleRemovePages(c *gin.Context, svc *Service) {
	var req PagesRequest
	if !bindJSON(c, &req) {
		return
	}

	output := req.Output
	if output == "" {
		output = pdfPkg.DefaultRemoveName(req.Input)
	}
	if !checkPaths(c, req.Input, output) {
		return
	}

	pages, err := resolvePages(req.Pages, req.Spec)
	if err != nil {
		respondError(c, svc, err, nil)
		return
	}

	runLocked(c, svc, output, func() ([]string, error) {
		return single(svc.Assembler.RemovePages(req.Input, output, pages))
	})
}

func HandleReorder(c *gin.Context, svc *Service) {
	var req ReorderRequest
	if !bindJSON(c, &req) {
		return
	}

	output := req.Output
	if output == "" {
		output = pdfPkg.DefaultReorderName(req.Input)
	}
	if !checkPaths(c, req.Input, output) {
		return
	}

	runLocked(c, svc, output, func() ([]string, error) {
		order, err := resolvePages(req.Order, req.Spec)
		if req.Reverse || req.Strict {
			pageCount, countErr := svc.Assembler.PageCount(req.Input)
			if countErr != nil {
				return nil, countErr
			}
			if req.Reverse {
				order, err = pdfPkg.ReversePages(pageCount), nil
			}
			if err == nil && req.Strict {
				err = pdfPkg.ValidatePermutation(order, pageCount)
			}
		}
		if err != nil {
			return nil, err
		}
		return single(svc.Assembler.ReorderPages(req.Input, output, order))
	})
}

func HandleMerge(c *gin.Context, svc *Service) {
	var req MergeRequest
	if !bindJSON(c, &req) {
		return
	}

	output := req.Output
	if output == "" {
		output = pdfPkg.DefaultMergeName(req.Inputs)
	}
	// With no inputs the assembler reports no_pages before touching output.
	if len(req.Inputs) > 0 && !checkPaths(c, append([]string{output}, req.Inputs...)...) {
		return
	}

	runLocked(c, svc, output, func() ([]string, error) {
		return single(svc.Assembler.MergePDFs(req.Inputs, output))
	})
}

// runLocked runs operation while holding the lock for target, then reports the
// written artifacts or the failure.
func runLocked(c *gin.Context, svc *Service, target string, operation func() ([]string, error)) {
	unlock, err := lockOutput(svc, target)
	if err != nil {
		svc.Logger.WithError(err).Error("Failed to lock output")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to lock output", "kind": pdfPkg.KindInternal})
		return
	}
	defer unlock()

	outputs, err := operation()
	if err != nil {
		respondError(c, svc, err, outputs)
		return
	}

	artifacts, err := svc.Assembler.DescribeAll(outputs)
	if err != nil {
		svc.Logger.WithError(err).Error("Failed to describe written PDFs")
		c.JSON(http.StatusInternalServerError, gin.H{"error": truncateError(err), "kind": pdfPkg.KindInternal, "written": outputs})
		return
	}

	svc.Logger.WithField("outputs", outputs).Info("PDF operation completed")
	c.JSON(http.StatusOK, gin.H{"outputs": artifacts})
}

// lockOutput takes an exclusive advisory lock keyed by the absolute target path,
// so reruns against the same output are serialised.
func lockOutput(svc *Service, target string) (func(), error) {
	abs, err := filepath.Abs(target)
	if err != nil {
		return nil, err
	}

	lockDir := filepath.Join(svc.Config.TempDir, LockDirName)
	if err := ensureTempDir(lockDir); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	sum := blake3.Sum256([]byte(abs))
	fileLock := flock.New(filepath.Join(lockDir, hex.EncodeToString(sum[:8])+".lock"))
	if err := fileLock.Lock(); err != nil {
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}

	return func() {
		if err := fileLock.Unlock(); err != nil {
			svc.Logger.WithError(err).Warn("Failed to release output lock")
		}
	}, nil
}

// respondError maps err to a status code and a JSON body carrying its kind.
// Parts already written by a failed multi-file operation are listed under "written".
func respondError(c *gin.Context, svc *Service, err error, written []string) {
	kind := pdfPkg.ErrorKind(err)

	status := http.StatusBadRequest
	switch kind {
	case pdfPkg.KindSaveFailed, pdfPkg.KindInternal:
		status = http.StatusInternalServerError
	}

	svc.Logger.WithError(err).WithField("kind", kind).Warn("PDF operation failed")

	body := gin.H{"error": truncateError(err), "kind": kind}
	if len(written) > 0 {
		body["written"] = written
	}
	c.JSON(status, body)
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": truncateError(err), "kind": KindInvalidRequest})
		return false
	}
	return true
}

// checkPaths rejects empty and relative paths; the service does not guess a working directory.
func checkPaths(c *gin.Context, paths ...string) bool {
	for _, path := range paths {
		if path == "" || !filepath.IsAbs(path) {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("path must be absolute: %q", path), "kind": KindInvalidRequest})
			return false
		}
	}
	return true
}

func resolvePages(pages []int, spec string) ([]int, error) {
	if strings.TrimSpace(spec) != "" {
		return pdfPkg.ParsePageSpecifier(spec)
	}
	return pages, nil
}

func outputDir(req SplitRequest) string {
	if req.OutputDir != "" {
		return req.OutputDir
	}
	return filepath.Dir(req.Input)
}

func single(path string, err error) ([]string, error) {
	if err != nil {
		return nil, err
	}
	return []string{path}, nil
}

func truncateError(err error) string {
	msg := err.Error()
	if len(msg) > MaxErrorMessageLength {
		return msg[:MaxErrorMessageLength] + "..."
	}
	return msg
}

// ensureTempDir creates the temp directory if it doesn't exist
func ensureTempDir(tempDir string) error {
	return os.MkdirAll(tempDir, DefaultFilePermissions)
}

// sanitizeFilename removes path traversal attempts and dangerous characters
func sanitizeFilename(filename string) string {
	// Remove directory separators and path traversal attempts
	filename = strings.ReplaceAll(filename, "..", "")
	filename = strings.ReplaceAll(filename, "/", "_")
	filename = strings.ReplaceAll(filename, "\\", "_")

	filename = strings.TrimSpace(filepath.Base(filename))

	if filename == "" || filename == "." {
		filename = "document.pdf"
	}

	return filename
}

// validatePDFFile checks the upload size and the PDF header
func validatePDFFile(file multipart.File, header *multipart.FileHeader, maxSize int64) error {
	if header.Size > maxSize {
		return fmt.Errorf("file size %d exceeds maximum allowed %d bytes", header.Size, maxSize)
	}

	// Read first 4 bytes to check PDF header
	buffer := make([]byte, 4)
	n, err := io.ReadFull(file, buffer)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to read file header: %w", err)
	}

	if n < 4 || string(buffer) != "%PDF" {
		return fmt.Errorf("invalid PDF file: header does not match")
	}

	// Seek back to beginning for subsequent reads
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("failed to reset file position: %w", err)
	}

	return nil
}
