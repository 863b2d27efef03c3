package pdf

import "os"

const (
	// PartNameFormat names the outputs of an every-N split: <base>_part<N>.pdf
	PartNameFormat = "%s_part%d.pdf"

	// SinglePageNameFormat names the outputs of a single-page split: <base>_page<N>.pdf
	SinglePageNameFormat = "%s_page%d.pdf"

	// RangeNameFormat is the suggested name for a range split: <base>_pages<start>-<end>.pdf
	RangeNameFormat = "%s_pages%d-%d.pdf"

	// ExtractSuffix is appended to the base name of extracted documents
	ExtractSuffix = "_extracted"

	// ReorderSuffix is appended to the base name of reordered documents
	ReorderSuffix = "_reordered"

	// RemoveSuffix is appended to the base name of documents with pages removed
	RemoveSuffix = "_pages_removed"

	// MergeName is the suggested name for merged documents
	MergeName = "merged.pdf"

	// OutputFilePermissions for written PDF files
	OutputFilePermissions os.FileMode = 0644
)
