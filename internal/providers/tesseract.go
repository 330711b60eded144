package providers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/otiai10/gosseract/v2"
)

const TesseractName = "tesseract"

// TesseractConfig holds configuration for the local Tesseract provider.
type TesseractConfig struct {
	Languages string // Comma-separated language codes (default: "eng")
}

// TesseractProvider implements OCRProvider using a local Tesseract engine.
// It runs offline and is the default path for pre-submission checks where
// cloud OCR cost is not justified.
type TesseractProvider struct {
	languages string
}

// withDefaults fills zero fields with the provider defaults.
func (cfg TesseractConfig) withDefaults() TesseractConfig {
	if cfg.Languages == "" {
		cfg.Languages = "eng"
	}
	return cfg
}

// NewTesseractProvider creates a new local Tesseract provider.
func NewTesseractProvider(cfg TesseractConfig) *TesseractProvider {
	return &TesseractProvider{languages: cfg.withDefaults().Languages}
}

// Name returns the provider identifier.
func (t *TesseractProvider) Name() string {
	return TesseractName
}

// RequestsPerSecond is effectively unbounded for a local engine.
func (t *TesseractProvider) RequestsPerSecond() float64 {
	return 1000.0
}

// MaxRetries returns 1: a local engine failure is not transient.
func (t *TesseractProvider) MaxRetries() int {
	return 1
}

// RetryDelayBase returns the base delay between retries.
func (t *TesseractProvider) RetryDelayBase() time.Duration {
	return 0
}

// ExtractText runs Tesseract over one image and returns the full text plus
// word-level bounding boxes.
func (t *TesseractProvider) ExtractText(ctx context.Context, image []byte, imageIndex int) (*OCRResult, error) {
	start := time.Now()

	if err := ctx.Err(); err != nil {
		return &OCRResult{
			Success:       false,
			ErrorMessage:  err.Error(),
			ExecutionTime: time.Since(start),
		}, err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(strings.Split(t.languages, ",")...); err != nil {
		err = fmt.Errorf("failed to set tesseract language: %w", err)
		return &OCRResult{
			Success:       false,
			ErrorMessage:  err.Error(),
			ExecutionTime: time.Since(start),
		}, err
	}

	if err := client.SetImageFromBytes(image); err != nil {
		err = fmt.Errorf("failed to set image: %w", err)
		return &OCRResult{
			Success:       false,
			ErrorMessage:  err.Error(),
			ExecutionTime: time.Since(start),
		}, err
	}

	text, err := client.Text()
	if err != nil {
		err = fmt.Errorf("tesseract OCR failed: %w", err)
		return &OCRResult{
			Success:       false,
			ErrorMessage:  err.Error(),
			ExecutionTime: time.Since(start),
		}, err
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		err = fmt.Errorf("tesseract bounding boxes failed: %w", err)
		return &OCRResult{
			Success:       false,
			ErrorMessage:  err.Error(),
			ExecutionTime: time.Since(start),
		}, err
	}

	words := make([]OCRWord, 0, len(boxes))
	for _, box := range boxes {
		word := strings.TrimSpace(box.Word)
		if word == "" {
			continue
		}
		words = append(words, OCRWord{
			Text: word,
			Box: Rect{
				X:      box.Box.Min.X,
				Y:      box.Box.Min.Y,
				Width:  box.Box.Dx(),
				Height: box.Box.Dy(),
			},
			// Tesseract reports confidence as 0-100
			Confidence: box.Confidence / 100.0,
			ImageIndex: imageIndex,
		})
	}

	return &OCRResult{
		Success:       true,
		FullText:      text,
		Words:         words,
		ExecutionTime: time.Since(start),
	}, nil
}

// Verify interface
var _ OCRProvider = (*TesseractProvider)(nil)
