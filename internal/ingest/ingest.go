// Package ingest loads label submissions from disk. A submission is an
// ordered set of label images; PDF label sheets are rendered to one image
// per page.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Request contains the parameters for loading a label submission.
type Request struct {
	Paths  []string     // Image or PDF file paths, in submission order
	Logger *slog.Logger // Optional logger for progress updates
}

// Submission is an ordered set of label images ready for the pipeline.
type Submission struct {
	Images  [][]byte // Raw image bytes, one entry per label image
	Sources []string // Originating path per image (PDFs repeat per page)
}

// Load reads each path into image buffers. PDFs are rendered page by page;
// other files are read as-is. Order follows the input paths, with PDF pages
// expanded in page order.
func Load(ctx context.Context, req Request) (*Submission, error) {
	log := req.Logger
	if log == nil {
		log = slog.Default()
	}

	if len(req.Paths) == 0 {
		return nil, fmt.Errorf("no input paths provided")
	}

	for _, p := range req.Paths {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("input not found: %s", p)
		}
	}

	sub := &Submission{}
	for _, p := range req.Paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		switch strings.ToLower(filepath.Ext(p)) {
		case ".pdf":
			pages, err := renderPDF(ctx, p)
			if err != nil {
				return nil, fmt.Errorf("failed to render %s: %w", p, err)
			}
			log.Debug("rendered label sheet", "file", filepath.Base(p), "pages", len(pages))
			for _, page := range pages {
				sub.Images = append(sub.Images, page)
				sub.Sources = append(sub.Sources, p)
			}
		case ".png", ".jpg", ".jpeg", ".tif", ".tiff", ".bmp":
			data, err := os.ReadFile(p)
			if err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", p, err)
			}
			sub.Images = append(sub.Images, data)
			sub.Sources = append(sub.Sources, p)
		default:
			return nil, fmt.Errorf("unsupported file type: %s", p)
		}
	}

	if len(sub.Images) == 0 {
		return nil, fmt.Errorf("no label images loaded")
	}

	log.Info("submission loaded", "files", len(req.Paths), "images", len(sub.Images))
	return sub, nil
}

// renderPDF renders every page of a PDF to PNG bytes, in page order.
func renderPDF(ctx context.Context, pdfPath string) ([][]byte, error) {
	f, err := os.Open(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	pageCount, err := api.PageCount(f, nil)
	f.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to get page count: %w", err)
	}
	if pageCount == 0 {
		return nil, fmt.Errorf("PDF has no pages")
	}

	maxWorkers := runtime.NumCPU()

	type result struct {
		pageNum int
		data    []byte
		err     error
	}

	results := make(chan result, pageCount)
	sem := make(chan struct{}, maxWorkers)

	for page := 1; page <= pageCount; page++ {
		sem <- struct{}{} // acquire
		go func(pageNum int) {
			defer func() { <-sem }() // release

			data, err := renderPage(ctx, pdfPath, pageNum)
			results <- result{pageNum: pageNum, data: data, err: err}
		}(page)
	}

	pages := make([][]byte, pageCount)
	for i := 0; i < pageCount; i++ {
		r := <-results
		if r.err != nil {
			return nil, fmt.Errorf("failed to render page %d: %w", r.pageNum, r.err)
		}
		pages[r.pageNum-1] = r.data
	}

	return pages, nil
}

// renderPage renders a single PDF page to PNG using pdftoppm (poppler-utils).
func renderPage(ctx context.Context, pdfPath string, pageNum int) ([]byte, error) {
	tmpDir, err := os.MkdirTemp("", "labelcheck-page-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	outputPrefix := filepath.Join(tmpDir, "page")

	// -png: output PNG format
	// -f/-l N: page range
	// -r 300: resolution in DPI
	// -singlefile: don't add page number suffix
	pageStr := fmt.Sprintf("%d", pageNum)
	cmd := exec.CommandContext(ctx, "pdftoppm",
		"-png",
		"-f", pageStr,
		"-l", pageStr,
		"-r", "300",
		"-singlefile",
		pdfPath,
		outputPrefix,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("pdftoppm failed: %w (output: %s)", err, string(output))
	}

	data, err := os.ReadFile(outputPrefix + ".png")
	if err != nil {
		return nil, fmt.Errorf("pdftoppm did not create expected output: %w", err)
	}
	return data, nil
}
