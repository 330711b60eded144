package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func visionWordJSON(text string, x, y, w, h int, conf float64) map[string]any {
	symbols := make([]map[string]any, 0, len(text))
	for _, r := range text {
		symbols = append(symbols, map[string]any{"text": string(r)})
	}
	return map[string]any{
		"symbols":    symbols,
		"confidence": conf,
		"boundingBox": map[string]any{
			"vertices": []map[string]int{
				{"x": x, "y": y},
				{"x": x + w, "y": y},
				{"x": x + w, "y": y + h},
				{"x": x, "y": y + h},
			},
		},
	}
}

func TestVisionOCRClient_ExtractText(t *testing.T) {
	t.Run("extracts text and word boxes", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/images:annotate" {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}
			if key := r.URL.Query().Get("key"); key != "test-key" {
				t.Errorf("unexpected key: %s", key)
			}

			var req visionAnnotateRequest
			json.NewDecoder(r.Body).Decode(&req)
			if len(req.Requests) != 1 || req.Requests[0].Features[0].Type != "DOCUMENT_TEXT_DETECTION" {
				t.Errorf("unexpected request features: %+v", req)
			}

			resp := map[string]any{
				"responses": []map[string]any{
					{
						"fullTextAnnotation": map[string]any{
							"text": "BULLEIT BOURBON",
							"pages": []map[string]any{
								{
									"width":  800,
									"height": 600,
									"blocks": []map[string]any{
										{
											"paragraphs": []map[string]any{
												{
													"words": []map[string]any{
														visionWordJSON("BULLEIT", 100, 50, 200, 40, 0.98),
														visionWordJSON("BOURBON", 320, 50, 210, 40, 0.97),
													},
												},
											},
										},
									},
								},
							},
						},
					},
				},
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(resp)
		}))
		defer server.Close()

		client := NewVisionOCRClient(VisionOCRConfig{
			APIKey:  "test-key",
			BaseURL: server.URL,
		})

		result, err := client.ExtractText(context.Background(), []byte("fake-image"), 2)
		if err != nil {
			t.Fatalf("ExtractText() error = %v", err)
		}
		if !result.Success {
			t.Error("expected Success = true")
		}
		if result.FullText != "BULLEIT BOURBON" {
			t.Errorf("FullText = %q", result.FullText)
		}
		if len(result.Words) != 2 {
			t.Fatalf("Words = %d, want 2", len(result.Words))
		}
		if result.Words[0].Text != "BULLEIT" {
			t.Errorf("Words[0].Text = %q", result.Words[0].Text)
		}
		if result.Words[0].Box != (Rect{X: 100, Y: 50, Width: 200, Height: 40}) {
			t.Errorf("Words[0].Box = %+v", result.Words[0].Box)
		}
		if result.Words[0].ImageIndex != 2 || result.Words[1].ImageIndex != 2 {
			t.Error("words must carry the submitted image index")
		}
	})

	t.Run("surfaces annotation error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			resp := map[string]any{
				"responses": []map[string]any{
					{"error": map[string]any{"code": 3, "message": "bad image"}},
				},
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(resp)
		}))
		defer server.Close()

		client := NewVisionOCRClient(VisionOCRConfig{APIKey: "k", BaseURL: server.URL})

		result, err := client.ExtractText(context.Background(), []byte("x"), 0)
		if err == nil {
			t.Fatal("expected error")
		}
		if result.Success {
			t.Error("expected Success = false")
		}
	})

	t.Run("retries on 429 then succeeds", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			resp := map[string]any{
				"responses": []map[string]any{
					{"fullTextAnnotation": map[string]any{"text": "ok"}},
				},
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(resp)
		}))
		defer server.Close()

		client := NewVisionOCRClient(VisionOCRConfig{APIKey: "k", BaseURL: server.URL})
		// Shrink retry delay by using a context deadline well above total time.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		result, err := client.ExtractText(ctx, []byte("x"), 0)
		if err != nil {
			t.Fatalf("ExtractText() error = %v", err)
		}
		if result.FullText != "ok" {
			t.Errorf("FullText = %q", result.FullText)
		}
		if got := calls.Load(); got != 2 {
			t.Errorf("server calls = %d, want 2", got)
		}
	})

	t.Run("does not retry 400", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":{"message":"invalid"}}`))
		}))
		defer server.Close()

		client := NewVisionOCRClient(VisionOCRConfig{APIKey: "k", BaseURL: server.URL})

		_, err := client.ExtractText(context.Background(), []byte("x"), 0)
		if err == nil {
			t.Fatal("expected error")
		}
		if got := calls.Load(); got != 1 {
			t.Errorf("server calls = %d, want 1", got)
		}
	})
}

func TestBoundingPolyToRect(t *testing.T) {
	poly := visionBoundingPoly{Vertices: []visionVertex{
		{X: 10, Y: 20}, {X: 110, Y: 18}, {X: 112, Y: 60}, {X: 9, Y: 62},
	}}
	rect := boundingPolyToRect(poly)
	want := Rect{X: 9, Y: 18, Width: 103, Height: 44}
	if rect != want {
		t.Errorf("boundingPolyToRect() = %+v, want %+v", rect, want)
	}

	if got := boundingPolyToRect(visionBoundingPoly{}); got != (Rect{}) {
		t.Errorf("empty poly = %+v, want zero rect", got)
	}
}
