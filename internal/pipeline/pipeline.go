// Package pipeline orchestrates label processing end to end: OCR fan-out
// over the submitted images, text assembly, field classification (rule-based
// or LLM), and bounding-box merge. A run either produces a complete result
// or fails; stage timings are recorded either way.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/colaops/labelcheck/internal/catalog"
	"github.com/colaops/labelcheck/internal/classify"
	"github.com/colaops/labelcheck/internal/fieldprompt"
	"github.com/colaops/labelcheck/internal/providers"
)

// Metrics captures per-stage timings and provider usage for one run.
type Metrics struct {
	OCRTimeMs            int64 `json:"ocr_time_ms"`
	ClassificationTimeMs int64 `json:"classification_time_ms"`
	MergeTimeMs          int64 `json:"merge_time_ms"`
	TotalTimeMs          int64 `json:"total_time_ms"`

	InputTokens  int `json:"input_tokens,omitempty"`
	OutputTokens int `json:"output_tokens,omitempty"`
	TotalTokens  int `json:"total_tokens,omitempty"`

	ImageCount int `json:"image_count"`
	WordCount  int `json:"word_count"`
}

// Result is the complete outcome of one pipeline run. ModelUsed identifies
// the model that served a submission-mode run and is empty in local mode.
type Result struct {
	Classification *classify.ClassificationResult `json:"classification"`
	ModelUsed      string                         `json:"model_used,omitempty"`
	ImageTexts     []string                       `json:"image_texts"`
	FullText       string                         `json:"full_text"`
	Words          [][]providers.OCRWord          `json:"words"`
	Metrics        Metrics                        `json:"metrics"`
}

// Orchestrator runs the extraction pipeline against configured providers.
type Orchestrator struct {
	ocr     providers.OCRProvider
	llm     providers.LLMClient
	cat     *catalog.Catalog
	limiter *providers.RateLimiter
	logger  *slog.Logger
}

// New creates an orchestrator. llm may be nil when only local extraction is
// used.
func New(ocr providers.OCRProvider, llm providers.LLMClient, cat *catalog.Catalog, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	rpm := int(ocr.RequestsPerSecond() * 60)
	return &Orchestrator{
		ocr:     ocr,
		llm:     llm,
		cat:     cat,
		limiter: providers.NewRateLimiter(rpm),
		logger:  logger,
	}
}

// ExtractLocal runs OCR plus the rule-based classifier. When declared is
// non-empty the classifier verifies the declared values; otherwise it
// extracts every applicable field.
func (o *Orchestrator) ExtractLocal(ctx context.Context, images [][]byte, bt catalog.BeverageType, declared map[string]string) (*Result, error) {
	start := time.Now()

	res, err := o.runOCR(ctx, images)
	if err != nil {
		res.Metrics.TotalTimeMs = time.Since(start).Milliseconds()
		return res, err
	}

	classifyStart := time.Now()
	classifier := classify.New(o.cat, o.logger)
	cr := classifier.Classify(res.FullText, bt, declared)
	cr.ImageRoles = make([]classify.ImageRole, len(images))
	for i := range cr.ImageRoles {
		cr.ImageRoles[i] = classify.ImageRoleUnknown
	}
	res.Classification = &cr
	res.Metrics.ClassificationTimeMs = time.Since(classifyStart).Milliseconds()

	o.mergeBoundingBoxes(res)
	res.Metrics.TotalTimeMs = time.Since(start).Milliseconds()

	o.logger.Info("local extraction complete",
		"images", res.Metrics.ImageCount,
		"words", res.Metrics.WordCount,
		"ocr_ms", res.Metrics.OCRTimeMs,
		"classify_ms", res.Metrics.ClassificationTimeMs,
		"total_ms", res.Metrics.TotalTimeMs)

	return res, nil
}

// ExtractForSubmission runs OCR plus the LLM classifier. Any provider
// failure or response contract violation fails the whole run.
func (o *Orchestrator) ExtractForSubmission(ctx context.Context, images [][]byte, bt catalog.BeverageType) (*Result, error) {
	start := time.Now()

	if o.llm == nil {
		return &Result{}, fmt.Errorf("no LLM client configured")
	}

	res, err := o.runOCR(ctx, images)
	if err != nil {
		res.Metrics.TotalTimeMs = time.Since(start).Milliseconds()
		return res, err
	}

	classifyStart := time.Now()
	cr, usage, err := fieldprompt.Extract(ctx, o.llm, o.cat, res.FullText, bt)
	res.Metrics.ClassificationTimeMs = time.Since(classifyStart).Milliseconds()
	res.Metrics.InputTokens = usage.Input
	res.Metrics.OutputTokens = usage.Output
	res.Metrics.TotalTokens = usage.Total
	res.ModelUsed = usage.Model
	if err != nil {
		res.Metrics.TotalTimeMs = time.Since(start).Milliseconds()
		return res, fmt.Errorf("llm classification failed: %w", err)
	}
	res.Classification = cr

	// The model's image role list is advisory; reconcile it with the actual
	// image count so every submitted image has exactly one role.
	for len(cr.ImageRoles) < len(images) {
		cr.ImageRoles = append(cr.ImageRoles, classify.ImageRoleUnknown)
	}
	cr.ImageRoles = cr.ImageRoles[:len(images)]

	o.mergeBoundingBoxes(res)
	res.Metrics.TotalTimeMs = time.Since(start).Milliseconds()

	o.logger.Info("submission extraction complete",
		"images", res.Metrics.ImageCount,
		"words", res.Metrics.WordCount,
		"tokens", res.Metrics.TotalTokens,
		"ocr_ms", res.Metrics.OCRTimeMs,
		"classify_ms", res.Metrics.ClassificationTimeMs,
		"total_ms", res.Metrics.TotalTimeMs)

	return res, nil
}

// runOCR fans out one OCR call per image and assembles the combined text.
// The returned Result always carries OCR metrics, even on failure.
func (o *Orchestrator) runOCR(ctx context.Context, images [][]byte) (*Result, error) {
	ocrStart := time.Now()

	res := &Result{
		ImageTexts: make([]string, len(images)),
		Words:      make([][]providers.OCRWord, len(images)),
	}
	res.Metrics.ImageCount = len(images)

	if len(images) == 0 {
		res.Metrics.OCRTimeMs = time.Since(ocrStart).Milliseconds()
		return res, fmt.Errorf("no images submitted")
	}

	var wg sync.WaitGroup
	errs := make([]error, len(images))
	for i, img := range images {
		wg.Add(1)
		go func(i int, img []byte) {
			defer wg.Done()

			if err := o.limiter.Wait(ctx); err != nil {
				errs[i] = err
				return
			}

			ocrRes, err := o.ocr.ExtractText(ctx, img, i)
			if err != nil {
				errs[i] = fmt.Errorf("ocr failed for image %d: %w", i, err)
				return
			}
			res.ImageTexts[i] = ocrRes.FullText
			res.Words[i] = ocrRes.Words
		}(i, img)
	}
	wg.Wait()

	res.Metrics.OCRTimeMs = time.Since(ocrStart).Milliseconds()
	for _, words := range res.Words {
		res.Metrics.WordCount += len(words)
	}

	for _, err := range errs {
		if err != nil {
			return res, err
		}
	}

	res.FullText = classify.JoinImageTexts(res.ImageTexts)
	return res, nil
}
