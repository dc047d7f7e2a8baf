package service

import (
	"fmt"
	"time"

	"github.com/gen2brain/go-fitz"
	"github.com/tagteam/analysis-api/internal/metrics"
	"github.com/tagteam/analysis-api/internal/models"
)

const pdfRenderDPI = 150

// preprocessUpload normalizes an upload into something the vision model
// accepts. Images pass through untouched; a PDF gets its first page
// rendered to PNG. Anything else was already rejected by validation.
func preprocessUpload(req *models.AnalyzeRequest) ([]byte, string, error) {
	if req.MediaType != models.MediaTypePDF {
		metrics.UploadPreprocess("ok", req.MediaType)
		return req.Image, req.MediaType, nil
	}

	start := time.Now()
	img, err := renderPDFFirstPage(req.Image)
	if err != nil {
		metrics.UploadPreprocess("error", req.MediaType)
		return nil, "", fmt.Errorf("failed to convert pdf: %w", err)
	}

	metrics.UploadPreprocess("ok", req.MediaType)
	metrics.UploadPreprocessDuration(req.MediaType, time.Since(start))
	return img, "image/png", nil
}

func renderPDFFirstPage(data []byte) ([]byte, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}
	defer doc.Close()

	if doc.NumPage() == 0 {
		return nil, fmt.Errorf("pdf has no pages")
	}

	img, err := doc.ImagePNG(0, pdfRenderDPI)
	if err != nil {
		return nil, fmt.Errorf("failed to render pdf page: %w", err)
	}
	return img, nil
}
