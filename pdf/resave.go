package pdf

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// resave optimizes and compresses an assembled PDF held in memory.
func resave(data []byte, conf *model.Configuration) ([]byte, error) {
	var out bytes.Buffer
	if err := api.Optimize(bytes.NewReader(data), &out, conf); err != nil {
		return nil, fmt.Errorf("pdfcpu optimize failed: %w", err)
	}
	return out.Bytes(), nil
}
