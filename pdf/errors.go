package pdf

import "errors"

// Sentinel errors returned by page operations. Callers match them with errors.Is;
// operations wrap them with the path or page number that caused the failure.
var (
	// ErrInvalidPDF is returned when a source path cannot be opened as a PDF document.
	ErrInvalidPDF = errors.New("invalid PDF file")

	// ErrInvalidPageRange is returned when a page number, range boundary or chunk size
	// is out of range or malformed.
	ErrInvalidPageRange = errors.New("invalid page range")

	// ErrSaveFailed is returned when an assembled document cannot be written.
	ErrSaveFailed = errors.New("failed to save PDF")

	// ErrNoPages is returned when an operation would produce a document without pages.
	ErrNoPages = errors.New("no pages to process")
)

// Error kinds reported to callers that cannot use errors.Is (JSON clients, exit codes).
const (
	KindInvalidPDF       = "invalid_pdf"
	KindInvalidPageRange = "invalid_page_range"
	KindSaveFailed       = "save_failed"
	KindNoPages          = "no_pages"
	KindInternal         = "internal"
)

// ErrorKind maps err to one of the Kind constants.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidPDF):
		return KindInvalidPDF
	case errors.Is(err, ErrInvalidPageRange):
		return KindInvalidPageRange
	case errors.Is(err, ErrSaveFailed):
		return KindSaveFailed
	case errors.Is(err, ErrNoPages):
		return KindNoPages
	default:
		return KindInternal
	}
}
