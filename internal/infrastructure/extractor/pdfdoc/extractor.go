package pdfdoc

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/rfp-optimize/platform/internal/core/ports"
)

// Extractor pulls plain text out of stored RFP attachments. PDFs go through
// the pdf reader; anything else is accepted as-is when it is valid UTF-8.
type Extractor struct {
	storage ports.ObjectStorage
}

func NewExtractor(storage ports.ObjectStorage) *Extractor {
	return &Extractor{storage: storage}
}

func (e *Extractor) Extract(ctx context.Context, storagePath string) (string, error) {
	reader, err := e.storage.Open(ctx, storagePath)
	if err != nil {
		return "", fmt.Errorf("open attachment: %w", err)
	}
	defer reader.Close()

	raw, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read attachment: %w", err)
	}

	if strings.EqualFold(path.Ext(storagePath), ".pdf") {
		return extractPDF(raw)
	}

	if !utf8.Valid(raw) {
		return "", fmt.Errorf("unsupported binary attachment: %s", path.Base(storagePath))
	}
	return strings.TrimSpace(string(raw)), nil
}

func extractPDF(raw []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", fmt.Errorf("parse pdf: %w", err)
	}

	textReader, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(textReader); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}
