// Package pdftext extracts plain text from uploaded PDF documents so the
// classification operation can work on requirement specs delivered as PDFs.
package pdftext

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrEmptyDocument indicates the PDF contained no extractable text, for
// example a scanned document without a text layer.
var ErrEmptyDocument = errors.New("pdf contains no extractable text")

// Extract reads every page of the document and returns its plain text.
func Extract(r io.ReaderAt, size int64) (string, error) {
	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	textReader, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}

	raw, err := io.ReadAll(textReader)
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}

	text := strings.TrimSpace(string(raw))
	if text == "" {
		return "", ErrEmptyDocument
	}
	return text, nil
}
