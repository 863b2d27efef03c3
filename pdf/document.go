package pdf

// Page is an opaque page handle owned by a Backend. The assembler only moves pages
// between documents of the same backend and never looks inside them.
type Page interface{}

// Document is an opened or newly created PDF document.
type Document interface {
	// PageCount returns the number of pages in the document.
	PageCount() int

	// Page returns the page at the zero-based index, or false when there is none.
	Page(index int) (Page, bool)

	// AppendPage adds page after the last page of the document.
	AppendPage(page Page) error

	// Write serialises the document to path. Implementations must not leave a
	// partially written file at path when they fail.
	Write(path string) error
}

// Backend is the PDF library capability the assembler is built on.
// Documents are opened read-only; sources are never modified.
type Backend interface {
	// Open reads the PDF file at path.
	Open(path string) (Document, error)

	// New returns an empty document that pages can be appended to.
	New() Document
}
