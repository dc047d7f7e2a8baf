package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/shared"
	"github.com/tagteam/analysis-api/internal/config"
	"github.com/tagteam/analysis-api/internal/metrics"
	"github.com/tagteam/analysis-api/internal/models"
)

// ReasoningService is the brain of the pipeline: it grounds an
// instruction-following model on the vision caption and asks it the
// user's question, or a default one when none was given.
type ReasoningService struct {
	logger       *log.Logger
	openaiClient openai.Client
	modelName    string
	timeout      time.Duration
	maxTokens    int64
	temperature  float64
}

func NewReasoningService(logger *log.Logger, openaiClient openai.Client, cfg config.InferenceConfig) *ReasoningService {
	return &ReasoningService{
		logger:       logger,
		openaiClient: openaiClient,
		modelName:    cfg.ReasoningModel,
		timeout:      cfg.Timeout,
		maxTokens:    cfg.MaxTokens,
		temperature:  cfg.Temperature,
	}
}

// Answer builds the grounded prompt from the caption and question and
// performs a single completion call.
func (s *ReasoningService) Answer(ctx context.Context, caption, question string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	s.logger.Printf("sending prompt to reasoning model: %s\n", s.modelName)

	start := time.Now()
	resp, err := s.openaiClient.Chat.Completions.New(ctx, s.buildParams(caption, question))
	if err != nil {
		metrics.InferenceStage(string(models.StageReasoning), "error", time.Since(start))
		if errors.Is(err, context.DeadlineExceeded) {
			return "", models.NewTimeoutError(models.StageReasoning, err)
		}
		return "", models.NewUpstreamError(models.StageReasoning, err)
	}

	answer := completionText(resp)
	if answer == "" {
		metrics.InferenceStage(string(models.StageReasoning), "error", time.Since(start))
		return "", models.NewUpstreamError(models.StageReasoning, fmt.Errorf("reasoning model returned an empty answer"))
	}

	metrics.InferenceStage(string(models.StageReasoning), "ok", time.Since(start))
	return answer, nil
}

// AnswerStream is the streaming variant of Answer. Reasoning tokens are
// delivered as they arrive; the final chunk carries Done and the
// assembled answer.
func (s *ReasoningService) AnswerStream(ctx context.Context, caption, question string) <-chan models.StreamChunk {
	ch := make(chan models.StreamChunk, 1)

	go func() {
		defer close(ch)

		sendOrStop := func(msg models.StreamChunk) bool {
			select {
			case ch <- msg:
				return true
			case <-ctx.Done():
				return false
			}
		}

		ctx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		stream := s.openaiClient.Chat.Completions.NewStreaming(ctx, s.buildParams(caption, question))
		defer stream.Close()

		var builder strings.Builder

		start := time.Now()
		for stream.Next() {
			chunk := stream.Current()
			if len(chunk.Choices) == 0 {
				continue
			}

			delta := chunk.Choices[0].Delta.Content
			if delta == "" {
				continue
			}

			builder.WriteString(delta)
			if !sendOrStop(models.StreamChunk{Delta: delta}) {
				return
			}
		}

		if err := stream.Err(); err != nil {
			metrics.InferenceStage(string(models.StageReasoning), "error", time.Since(start))
			if errors.Is(err, context.DeadlineExceeded) {
				err = models.NewTimeoutError(models.StageReasoning, err)
			} else {
				err = models.NewUpstreamError(models.StageReasoning, err)
			}
			sendOrStop(models.StreamChunk{Err: err})
			return
		}

		metrics.InferenceStage(string(models.StageReasoning), "ok", time.Since(start))
		sendOrStop(models.StreamChunk{Done: true, FinalAnswer: builder.String()})
	}()

	return ch
}

func (s *ReasoningService) buildParams(caption, question string) openai.ChatCompletionNewParams {
	return openai.ChatCompletionNewParams{
		Model: shared.ChatModel(s.modelName),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(reasoningSystemPrompt),
			openai.UserMessage(BuildReasoningPrompt(caption, question)),
		},
		MaxCompletionTokens: openai.Int(s.maxTokens),
		Temperature:         openai.Float(s.temperature),
	}
}

// BuildReasoningPrompt embeds the vision caption verbatim and always
// follows it with an explicit instruction: the user's question when
// supplied, a summarize-the-image default otherwise.
func BuildReasoningPrompt(caption, question string) string {
	if question == "" {
		question = defaultQuestion
	}
	return fmt.Sprintf("%s\nRequest: %s", fmt.Sprintf(reasoningPromptTemplate, caption), question)
}
