package extract

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// TesseractEngine runs OCR through the system Tesseract installation.
type TesseractEngine struct {
	// Language is the trained-data language code, e.g. "eng".
	Language string
}

func (e *TesseractEngine) Recognize(ctx context.Context, data []byte) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	lang := e.Language
	if lang == "" {
		lang = "eng"
	}
	if err := client.SetLanguage(lang); err != nil {
		return "", fmt.Errorf("set language: %w", err)
	}
	if err := client.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("recognize: %w", err)
	}
	return text, nil
}
