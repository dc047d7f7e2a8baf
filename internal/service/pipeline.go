package service

import (
	"context"
	"fmt"
	"log"

	"github.com/tagteam/analysis-api/internal/models"
)

type captioner interface {
	Describe(ctx context.Context, image []byte, mediaType string) (string, error)
}

type reasoner interface {
	Answer(ctx context.Context, caption, question string) (string, error)
	AnswerStream(ctx context.Context, caption, question string) <-chan models.StreamChunk
}

// Pipeline chains the vision stage into the reasoning stage. It is the
// only workflow logic in the service: strictly sequential, fail fast,
// no retries. A vision failure never reaches the reasoning stage.
type Pipeline struct {
	logger    *log.Logger
	vision    captioner
	reasoning reasoner
	apiKeySet bool
}

func NewPipeline(logger *log.Logger, vision captioner, reasoning reasoner, apiKeySet bool) *Pipeline {
	return &Pipeline{
		logger:    logger,
		vision:    vision,
		reasoning: reasoning,
		apiKeySet: apiKeySet,
	}
}

// Analyze runs the two stages in order and assembles the response.
func (p *Pipeline) Analyze(ctx context.Context, req *models.AnalyzeRequest) (*models.AnalysisResponse, error) {
	caption, err := p.runVision(ctx, req)
	if err != nil {
		return nil, err
	}

	answer, err := p.reasoning.Answer(ctx, caption, req.Question)
	if err != nil {
		p.logger.Printf("reasoning stage failed: %v\n", err)
		return nil, err
	}

	return &models.AnalysisResponse{
		VisionOutput: caption,
		FinalAnswer:  answer,
	}, nil
}

// AnalyzeStream runs the vision stage blocking, then streams reasoning
// tokens. The first chunk carries the vision caption.
func (p *Pipeline) AnalyzeStream(ctx context.Context, req *models.AnalyzeRequest) (<-chan models.StreamChunk, error) {
	caption, err := p.runVision(ctx, req)
	if err != nil {
		return nil, err
	}

	ch := make(chan models.StreamChunk, 1)
	go func() {
		defer close(ch)

		select {
		case ch <- models.StreamChunk{VisionOutput: caption}:
		case <-ctx.Done():
			return
		}

		for chunk := range p.reasoning.AnswerStream(ctx, caption, req.Question) {
			select {
			case ch <- chunk:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}

func (p *Pipeline) runVision(ctx context.Context, req *models.AnalyzeRequest) (string, error) {
	if !p.apiKeySet {
		return "", models.NewConfigError(fmt.Errorf("inference API key is not configured"))
	}

	if err := req.Validate(); err != nil {
		return "", models.NewValidationError(err)
	}

	image, mediaType, err := preprocessUpload(req)
	if err != nil {
		return "", models.NewValidationError(err)
	}

	caption, err := p.vision.Describe(ctx, image, mediaType)
	if err != nil {
		p.logger.Printf("vision stage failed: %v\n", err)
		return "", err
	}

	p.logger.Printf("vision model output: %s\n", caption)
	return caption, nil
}
