package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/tagteam/analysis-api/internal/models"
)

type analyzeService interface {
	Analyze(ctx context.Context, req *models.AnalyzeRequest) (*models.AnalysisResponse, error)
	AnalyzeStream(ctx context.Context, req *models.AnalyzeRequest) (<-chan models.StreamChunk, error)
}

type AnalyzeHandler struct {
	service        analyzeService
	maxUploadBytes int64
}

func NewAnalyzeHandler(service analyzeService, maxUploadBytes int64) *AnalyzeHandler {
	return &AnalyzeHandler{
		service:        service,
		maxUploadBytes: maxUploadBytes,
	}
}

// Analyze godoc
// @Summary Analyze an uploaded image
// @Description Caption the image with a vision model, then answer the question (or summarize) with a reasoning model.
// @Tags analyze
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image (or PDF) to analyze"
// @Param question formData string false "Question about the image"
// @Success 200 {object} models.AnalysisResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Failure 504 {object} models.ErrorResponse
// @Router /analyze [post]
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	req, err := h.parseRequest(w, r)
	if err != nil {
		writeError(w, models.NewValidationError(err))
		return
	}

	resp, err := h.service.Analyze(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err = sonic.ConfigDefault.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, fmt.Sprintf("failed to encode: %s", err), http.StatusInternalServerError)
	}
}

// AnalyzeStream godoc
// @Summary Analyze an uploaded image, streaming the answer
// @Description Caption the image, then stream reasoning tokens as SSE. The first frame carries the vision caption.
// @Tags analyze
// @Accept multipart/form-data
// @Produce text/event-stream
// @Param file formData file true "Image (or PDF) to analyze"
// @Param question formData string false "Question about the image"
// @Success 200 {object} models.StreamChunk "Stream of tokens (SSE)"
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Failure 504 {object} models.ErrorResponse
// @Router /analyze/stream [post]
func (h *AnalyzeHandler) AnalyzeStream(w http.ResponseWriter, r *http.Request) {
	req, err := h.parseRequest(w, r)
	if err != nil {
		writeError(w, models.NewValidationError(err))
		return
	}

	stream, err := h.service.AnalyzeStream(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher := http.NewResponseController(w)

	for chunk := range stream {
		if chunk.Err != nil {
			fmt.Fprintf(w, "event: error\ndata: %v\n\n", chunk.Err)
			flusher.Flush()
			return
		}

		data, err := sonic.Marshal(chunk)
		if err != nil {
			fmt.Fprintf(w, "event: error\ndata: marshal error %v\n\n", err)
			flusher.Flush()
			return
		}

		fmt.Fprintf(w, "event: message\ndata: %s\n\n", data)
		flusher.Flush()

		if chunk.Done {
			fmt.Fprintf(w, "event: done\ndata: {}\n\n")
			flusher.Flush()
			return
		}
	}
}

func (h *AnalyzeHandler) parseRequest(w http.ResponseWriter, r *http.Request) (*models.AnalyzeRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("missing file field: %w", err)
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	mediaType := header.Header.Get("Content-Type")
	if mediaType == "" || mediaType == "application/octet-stream" {
		mediaType = http.DetectContentType(image)
	}

	return &models.AnalyzeRequest{
		Image:     image,
		MediaType: mediaType,
		FileName:  header.Filename,
		Question:  strings.TrimSpace(r.FormValue("question")),
	}, nil
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	resp := models.ErrorResponse{Error: err.Error()}

	var stageErr *models.StageError
	if errors.As(err, &stageErr) {
		resp.Stage = string(stageErr.Stage)
		switch stageErr.Kind {
		case models.KindValidation:
			status = http.StatusBadRequest
		case models.KindTimeout:
			status = http.StatusGatewayTimeout
		case models.KindUpstream:
			status = http.StatusBadGateway
		case models.KindConfig:
			status = http.StatusInternalServerError
			resp.Error = "service misconfigured"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(resp)
}
