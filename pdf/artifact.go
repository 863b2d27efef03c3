package pdf

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/zeebo/blake3"
)

// Artifact describes a written output PDF.
type Artifact struct {
	Path   string `json:"path"`
	Pages  int    `json:"pages"`
	Size   int64  `json:"size"`
	BLAKE3 string `json:"blake3"`
}

// PageCount opens the PDF at path and returns its number of pages.
func (a *Assembler) PageCount(path string) (int, error) {
	doc, err := a.open(path)
	if err != nil {
		return 0, err
	}
	return doc.PageCount(), nil
}

// Describe reads back a written PDF and reports its page count, size and BLAKE3 digest.
func (a *Assembler) Describe(path string) (Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to read artifact: %w", err)
	}

	pages, err := a.PageCount(path)
	if err != nil {
		return Artifact{}, err
	}

	sum := blake3.Sum256(data)
	return Artifact{
		Path:   path,
		Pages:  pages,
		Size:   int64(len(data)),
		BLAKE3: hex.EncodeToString(sum[:]),
	}, nil
}

// DescribeAll describes every path in order.
func (a *Assembler) DescribeAll(paths []string) ([]Artifact, error) {
	artifacts := make([]Artifact, 0, len(paths))
	for _, path := range paths {
		artifact, err := a.Describe(path)
		if err != nil {
			return artifacts, err
		}
		artifacts = append(artifacts, artifact)
	}
	return artifacts, nil
}
