package pipeline

import (
	"strings"
	"time"

	"github.com/colaops/labelcheck/internal/classify"
	"github.com/colaops/labelcheck/internal/normalize"
	"github.com/colaops/labelcheck/internal/providers"
)

// mergeBoundingBoxes locates each found field value in the per-image word
// lists and attaches the covering rectangle plus word indices. Fields whose
// value cannot be located keep a nil bounding box; location is best effort
// and never fails the run.
func (o *Orchestrator) mergeBoundingBoxes(res *Result) {
	if res.Classification == nil {
		return
	}
	start := time.Now()

	normalized := make([][]string, len(res.Words))
	for i, words := range res.Words {
		normalized[i] = make([]string, len(words))
		for j, w := range words {
			normalized[i][j] = normalize.CollapseSpaces(normalize.Comparable(w.Text))
		}
	}

	for i := range res.Classification.Fields {
		field := &res.Classification.Fields[i]
		if !field.Found() {
			continue
		}

		target := normalize.CollapseSpaces(normalize.Comparable(*field.Value))
		if target == "" {
			continue
		}

		for img := range res.Words {
			if box, indices := locateRun(res.Words[img], normalized[img], target, img); box != nil {
				field.BoundingBox = box
				field.WordIndices = indices
				break
			}
		}
	}

	res.Metrics.MergeTimeMs = time.Since(start).Milliseconds()
}

// locateRun finds the first consecutive run of words whose concatenated
// normalized text equals target, and returns the union rectangle plus the
// word indices of the run.
func locateRun(words []providers.OCRWord, normalized []string, target string, imageIndex int) (*classify.BoundingBox, []int) {
	for startIdx := range words {
		if normalized[startIdx] == "" {
			continue
		}
		if !strings.HasPrefix(target, normalized[startIdx]) {
			continue
		}

		var b strings.Builder
		var indices []int
		for end := startIdx; end < len(words); end++ {
			if normalized[end] == "" {
				continue
			}
			b.WriteString(normalized[end])
			indices = append(indices, end)

			concat := b.String()
			if len(concat) > len(target) {
				break
			}
			if concat == target {
				return &classify.BoundingBox{
					ImageIndex: imageIndex,
					Rect:       unionRect(words, indices),
				}, indices
			}
			if !strings.HasPrefix(target, concat) {
				break
			}
		}
	}
	return nil, nil
}

// unionRect returns the smallest rectangle covering the boxes of the given
// word indices.
func unionRect(words []providers.OCRWord, indices []int) classify.Rect {
	first := words[indices[0]].Box
	minX, minY := first.X, first.Y
	maxX, maxY := first.X+first.Width, first.Y+first.Height

	for _, idx := range indices[1:] {
		box := words[idx].Box
		if box.X < minX {
			minX = box.X
		}
		if box.Y < minY {
			minY = box.Y
		}
		if box.X+box.Width > maxX {
			maxX = box.X + box.Width
		}
		if box.Y+box.Height > maxY {
			maxY = box.Y + box.Height
		}
	}

	return classify.Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
