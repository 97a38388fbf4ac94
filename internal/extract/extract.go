// Package extract turns an uploaded file into plain text. Images go
// through an OCR engine; PDFs get a fixed advisory string (a known
// capability gap, kept deliberately); anything else is rejected before
// dispatch. Engine faults are absorbed into a placeholder string so
// downstream conversation logic only ever sees text on this path.
package extract

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
)

// MaxFileSize is the upload ceiling enforced at the boundary.
const MaxFileSize = 10 << 20 // 10 MB

// Typed rejections, reported to the caller as 4xx-style errors.
var (
	ErrNoFile              = errors.New("no file provided")
	ErrEmptyFile           = errors.New("file is empty")
	ErrFileTooLarge        = errors.New("file size exceeds 10MB limit")
	ErrUnsupportedFileType = errors.New("unsupported file type. Please upload a PDF or image file.")
)

// PDFAdvisory is returned for PDF uploads instead of real parsing.
const PDFAdvisory = "PDF parsing is currently limited in the server environment. For best results, please extract the text from the PDF and paste it directly, or upload an image of the content."

// OCRFailurePlaceholder replaces the output when the engine faults.
const OCRFailurePlaceholder = "Error extracting text from image. Please try again with a clearer image."

// Engine recognizes text in raw image bytes.
type Engine interface {
	Recognize(ctx context.Context, data []byte) (string, error)
}

var imageExtensions = map[string]bool{
	"jpg": true, "jpeg": true, "png": true, "gif": true, "bmp": true, "webp": true,
}

// Pipeline dispatches uploads by extension to the OCR engine or the PDF
// stub.
type Pipeline struct {
	Engine Engine
	Logger *slog.Logger
}

// ExtractText produces plain text for the named file, or a typed error for
// input rejected before dispatch. Once dispatched to the engine it always
// returns text: recognition faults degrade to a placeholder string.
func (p *Pipeline) ExtractText(ctx context.Context, filename string, data []byte) (string, error) {
	if filename == "" {
		return "", ErrNoFile
	}
	if len(data) == 0 {
		return "", ErrEmptyFile
	}
	if len(data) > MaxFileSize {
		return "", ErrFileTooLarge
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	switch {
	case ext == "pdf":
		return PDFAdvisory, nil
	case imageExtensions[ext]:
		text, err := p.Engine.Recognize(ctx, data)
		if err != nil {
			p.logger().Warn("OCR engine failed", "file", filename, "error", err)
			return OCRFailurePlaceholder, nil
		}
		return strings.TrimSpace(text), nil
	default:
		return "", ErrUnsupportedFileType
	}
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}
