package providers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
)

const (
	VisionOCRName    = "vision"
	VisionOCRBaseURL = "https://vision.googleapis.com/v1"
)

// VisionOCRConfig holds configuration for the Google Cloud Vision OCR client.
type VisionOCRConfig struct {
	APIKey    string
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64 // Requests per second (default: 10.0)
}

// VisionOCRClient implements OCRProvider using the Cloud Vision
// images:annotate endpoint with DOCUMENT_TEXT_DETECTION. It returns word
// level bounding boxes in image pixel coordinates.
type VisionOCRClient struct {
	apiKey    string
	baseURL   string
	rateLimit float64
	client    *http.Client
}

// withDefaults fills zero fields with the client defaults.
func (cfg VisionOCRConfig) withDefaults() VisionOCRConfig {
	if cfg.BaseURL == "" {
		cfg.BaseURL = VisionOCRBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = 10.0
	}
	return cfg
}

// NewVisionOCRClient creates a new Cloud Vision OCR client.
func NewVisionOCRClient(cfg VisionOCRConfig) *VisionOCRClient {
	cfg = cfg.withDefaults()

	return &VisionOCRClient{
		apiKey:    cfg.APIKey,
		baseURL:   cfg.BaseURL,
		rateLimit: cfg.RateLimit,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Name returns the provider identifier.
func (c *VisionOCRClient) Name() string {
	return VisionOCRName
}

// RequestsPerSecond returns the rate limit for Cloud Vision.
func (c *VisionOCRClient) RequestsPerSecond() float64 {
	return c.rateLimit
}

// MaxRetries returns the maximum retry attempts.
func (c *VisionOCRClient) MaxRetries() int {
	return 3
}

// RetryDelayBase returns the base delay for exponential backoff.
func (c *VisionOCRClient) RetryDelayBase() time.Duration {
	return 2 * time.Second
}

// ExtractText runs document text detection on a single label image.
func (c *VisionOCRClient) ExtractText(ctx context.Context, image []byte, imageIndex int) (*OCRResult, error) {
	start := time.Now()

	reqBody := visionAnnotateRequest{
		Requests: []visionImageRequest{
			{
				Image: visionImage{Content: base64.StdEncoding.EncodeToString(image)},
				Features: []visionFeature{
					{Type: "DOCUMENT_TEXT_DETECTION"},
				},
			},
		},
	}

	resp, err := c.doRequest(ctx, reqBody)
	if err != nil {
		return &OCRResult{
			Success:       false,
			ErrorMessage:  err.Error(),
			ExecutionTime: time.Since(start),
		}, err
	}

	if len(resp.Responses) == 0 {
		err := fmt.Errorf("no responses in annotate result")
		return &OCRResult{
			Success:       false,
			ErrorMessage:  err.Error(),
			ExecutionTime: time.Since(start),
		}, err
	}

	annotation := resp.Responses[0]
	if annotation.Error != nil && annotation.Error.Message != "" {
		err := fmt.Errorf("Vision OCR error (code %d): %s", annotation.Error.Code, annotation.Error.Message)
		return &OCRResult{
			Success:       false,
			ErrorMessage:  err.Error(),
			ExecutionTime: time.Since(start),
		}, err
	}

	var fullText string
	var words []OCRWord
	if annotation.FullTextAnnotation != nil {
		fullText = annotation.FullTextAnnotation.Text
		words = collectVisionWords(annotation.FullTextAnnotation, imageIndex)
	}

	return &OCRResult{
		Success:       true,
		FullText:      fullText,
		Words:         words,
		ExecutionTime: time.Since(start),
	}, nil
}

// doRequest makes the annotate call with transport-level retries.
func (c *VisionOCRClient) doRequest(ctx context.Context, body visionAnnotateRequest) (*visionAnnotateResponse, error) {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var annotateResp visionAnnotateResponse
	err = retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/images:annotate?key="+c.apiKey, bytes.NewReader(bodyBytes))
			if err != nil {
				return retry.Unrecoverable(fmt.Errorf("failed to create request: %w", err))
			}
			req.Header.Set("Content-Type", "application/json")

			resp, err := c.client.Do(req)
			if err != nil {
				return fmt.Errorf("request failed: %w", err)
			}
			defer resp.Body.Close()

			respBody, err := io.ReadAll(resp.Body)
			if err != nil {
				return fmt.Errorf("failed to read response: %w", err)
			}

			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				return fmt.Errorf("Vision OCR error (status %d): %s", resp.StatusCode, string(respBody))
			}
			if resp.StatusCode != http.StatusOK {
				return retry.Unrecoverable(fmt.Errorf("Vision OCR error (status %d): %s", resp.StatusCode, string(respBody)))
			}

			if err := json.Unmarshal(respBody, &annotateResp); err != nil {
				return retry.Unrecoverable(fmt.Errorf("failed to unmarshal response: %w", err))
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(c.MaxRetries())),
		retry.Delay(c.RetryDelayBase()),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, err
	}
	return &annotateResp, nil
}

// collectVisionWords flattens the page/block/paragraph/word hierarchy into a
// word list with pixel rectangles.
func collectVisionWords(fta *visionFullTextAnnotation, imageIndex int) []OCRWord {
	var words []OCRWord
	for _, page := range fta.Pages {
		for _, block := range page.Blocks {
			for _, para := range block.Paragraphs {
				for _, word := range para.Words {
					var sb strings.Builder
					for _, sym := range word.Symbols {
						sb.WriteString(sym.Text)
					}
					text := sb.String()
					if text == "" {
						continue
					}
					words = append(words, OCRWord{
						Text:       text,
						Box:        boundingPolyToRect(word.BoundingBox),
						Confidence: word.Confidence,
						ImageIndex: imageIndex,
					})
				}
			}
		}
	}
	return words
}

// boundingPolyToRect converts a four-vertex polygon into an axis-aligned
// rectangle covering all vertices.
func boundingPolyToRect(poly visionBoundingPoly) Rect {
	if len(poly.Vertices) == 0 {
		return Rect{}
	}
	minX, minY := poly.Vertices[0].X, poly.Vertices[0].Y
	maxX, maxY := minX, minY
	for _, v := range poly.Vertices[1:] {
		if v.X < minX {
			minX = v.X
		}
		if v.Y < minY {
			minY = v.Y
		}
		if v.X > maxX {
			maxX = v.X
		}
		if v.Y > maxY {
			maxY = v.Y
		}
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Cloud Vision API types

type visionAnnotateRequest struct {
	Requests []visionImageRequest `json:"requests"`
}

type visionImageRequest struct {
	Image    visionImage     `json:"image"`
	Features []visionFeature `json:"features"`
}

type visionImage struct {
	Content string `json:"content"`
}

type visionFeature struct {
	Type       string `json:"type"`
	MaxResults int    `json:"maxResults,omitempty"`
}

type visionAnnotateResponse struct {
	Responses []visionImageResponse `json:"responses"`
}

type visionImageResponse struct {
	FullTextAnnotation *visionFullTextAnnotation `json:"fullTextAnnotation,omitempty"`
	Error              *visionStatus             `json:"error,omitempty"`
}

type visionStatus struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type visionFullTextAnnotation struct {
	Pages []visionPage `json:"pages"`
	Text  string       `json:"text"`
}

type visionPage struct {
	Blocks []visionBlock `json:"blocks"`
	Width  int           `json:"width"`
	Height int           `json:"height"`
}

type visionBlock struct {
	Paragraphs []visionParagraph `json:"paragraphs"`
}

type visionParagraph struct {
	Words []visionWord `json:"words"`
}

type visionWord struct {
	Symbols     []visionSymbol     `json:"symbols"`
	BoundingBox visionBoundingPoly `json:"boundingBox"`
	Confidence  float64            `json:"confidence"`
}

type visionSymbol struct {
	Text string `json:"text"`
}

type visionBoundingPoly struct {
	Vertices []visionVertex `json:"vertices"`
}

type visionVertex struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Verify interface
var _ OCRProvider = (*VisionOCRClient)(nil)
