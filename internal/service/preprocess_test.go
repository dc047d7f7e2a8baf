package service

import (
	"bytes"
	"testing"

	"github.com/tagteam/analysis-api/internal/models"
)

// Minimal single-page document, enough for the renderer to open.
var minimalPDF = []byte(`%PDF-1.4
1 0 obj
<</Type /Catalog /Pages 2 0 R>>
endobj
2 0 obj
<</Type /Pages /Kids [3 0 R] /Count 1>>
endobj
3 0 obj
<</Type /Page /Parent 2 0 R /MediaBox [0 0 72 72]>>
endobj
trailer
<</Size 4 /Root 1 0 R>>
%%EOF
`)

var pngMagic = []byte{0x89, 0x50, 0x4e, 0x47}

func TestPreprocessImagePassthrough(t *testing.T) {
	req := &models.AnalyzeRequest{
		Image:     []byte("raw image bytes"),
		MediaType: "image/jpeg",
		FileName:  "photo.jpg",
	}

	image, mediaType, err := preprocessUpload(req)
	if err != nil {
		t.Fatalf("preprocessUpload failed: %v", err)
	}
	if !bytes.Equal(image, req.Image) {
		t.Error("image uploads must pass through unchanged")
	}
	if mediaType != "image/jpeg" {
		t.Errorf("unexpected media type: %q", mediaType)
	}
}

func TestPreprocessPDF(t *testing.T) {
	req := &models.AnalyzeRequest{
		Image:     minimalPDF,
		MediaType: models.MediaTypePDF,
		FileName:  "doc.pdf",
	}

	image, mediaType, err := preprocessUpload(req)
	if err != nil {
		t.Fatalf("preprocessUpload failed: %v", err)
	}
	if mediaType != "image/png" {
		t.Errorf("expected a PNG render, got %q", mediaType)
	}
	if !bytes.HasPrefix(image, pngMagic) {
		t.Error("rendered page is not a PNG")
	}
}

func TestPreprocessBrokenPDF(t *testing.T) {
	req := &models.AnalyzeRequest{
		Image:     []byte("not a pdf at all"),
		MediaType: models.MediaTypePDF,
		FileName:  "doc.pdf",
	}

	if _, _, err := preprocessUpload(req); err == nil {
		t.Fatal("expected an error for an unreadable pdf")
	}
}
