package models

import (
	"context"
	"errors"
	"testing"
)

func TestAnalyzeRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     AnalyzeRequest
		wantErr bool
	}{
		{
			name: "png",
			req:  AnalyzeRequest{Image: []byte("img"), MediaType: "image/png"},
		},
		{
			name: "jpeg",
			req:  AnalyzeRequest{Image: []byte("img"), MediaType: "image/jpeg"},
		},
		{
			name: "pdf",
			req:  AnalyzeRequest{Image: []byte("%PDF"), MediaType: MediaTypePDF},
		},
		{
			name:    "empty file",
			req:     AnalyzeRequest{MediaType: "image/png"},
			wantErr: true,
		},
		{
			name:    "text upload",
			req:     AnalyzeRequest{Image: []byte("hello"), MediaType: "text/plain"},
			wantErr: true,
		},
		{
			name:    "no media type",
			req:     AnalyzeRequest{Image: []byte("hello")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestStageErrorUnwrap(t *testing.T) {
	err := NewTimeoutError(StageVision, context.DeadlineExceeded)

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("StageError must unwrap to its cause")
	}

	var stageErr *StageError
	if !errors.As(err, &stageErr) {
		t.Fatal("errors.As must match *StageError")
	}
	if stageErr.Stage != StageVision || stageErr.Kind != KindTimeout {
		t.Errorf("unexpected classification: %s/%s", stageErr.Stage, stageErr.Kind)
	}
}

func TestStageErrorMessages(t *testing.T) {
	withStage := NewUpstreamError(StageReasoning, errors.New("bad payload"))
	if got := withStage.Error(); got != "reasoning stage upstream error: bad payload" {
		t.Errorf("unexpected message: %q", got)
	}

	withoutStage := NewValidationError(errors.New("uploaded file is empty"))
	if got := withoutStage.Error(); got != "validation error: uploaded file is empty" {
		t.Errorf("unexpected message: %q", got)
	}
}
