package models

import (
	"fmt"
	"strings"
)

const MediaTypePDF = "application/pdf"

// AnalyzeRequest holds one uploaded file plus an optional question,
// extracted from the multipart form. It lives for a single request.
type AnalyzeRequest struct {
	Image     []byte
	MediaType string
	FileName  string
	Question  string
}

func (r AnalyzeRequest) Validate() error {
	if len(r.Image) == 0 {
		return fmt.Errorf("uploaded file is empty")
	}
	if !strings.HasPrefix(r.MediaType, "image/") && r.MediaType != MediaTypePDF {
		return fmt.Errorf("unsupported media type {%s}, expected an image or a PDF", r.MediaType)
	}
	return nil
}

// AnalysisResponse is the terminal output of the two-stage pipeline:
// what the vision model saw and what the reasoning model made of it.
type AnalysisResponse struct {
	VisionOutput string `json:"vision_output" example:"a red bicycle leaning against a brick wall"`
	FinalAnswer  string `json:"final_answer" example:"The image shows a bicycle parked outdoors."`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Stage string `json:"stage,omitempty" example:"vision"`
}

// StreamChunk is one SSE frame of the streaming endpoint. The first
// frame carries the vision caption, the following ones reasoning
// deltas, the last one Done with the assembled answer.
type StreamChunk struct {
	VisionOutput string `json:"vision_output,omitempty"`
	Delta        string `json:"delta,omitempty"`
	FinalAnswer  string `json:"final_answer,omitempty"`
	Done         bool   `json:"done,omitempty"`
	Err          error  `json:"-"`
}
