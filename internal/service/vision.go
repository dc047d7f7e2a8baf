package service

import (
	"context"
	"encoding/base64"
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

// VisionService is the eye of the pipeline: one hosted captioning call
// per image, no retries, any failure propagates to the caller.
type VisionService struct {
	logger       *log.Logger
	openaiClient openai.Client
	modelName    string
	timeout      time.Duration
}

func NewVisionService(logger *log.Logger, openaiClient openai.Client, cfg config.InferenceConfig) *VisionService {
	return &VisionService{
		logger:       logger,
		openaiClient: openaiClient,
		modelName:    cfg.VisionModel,
		timeout:      cfg.Timeout,
	}
}

// Describe sends the image to the captioning model and returns its
// textual description.
func (v *VisionService) Describe(ctx context.Context, image []byte, mediaType string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	v.logger.Printf("sending image to vision model: %s\n", v.modelName)

	start := time.Now()
	resp, err := v.openaiClient.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(v.modelName),
		Messages: buildVisionMessages(image, mediaType),
	})
	if err != nil {
		metrics.InferenceStage(string(models.StageVision), "error", time.Since(start))
		if errors.Is(err, context.DeadlineExceeded) {
			return "", models.NewTimeoutError(models.StageVision, err)
		}
		return "", models.NewUpstreamError(models.StageVision, err)
	}

	caption := completionText(resp)
	if caption == "" {
		metrics.InferenceStage(string(models.StageVision), "error", time.Since(start))
		return "", models.NewUpstreamError(models.StageVision, fmt.Errorf("vision model returned an empty description"))
	}

	metrics.InferenceStage(string(models.StageVision), "ok", time.Since(start))
	return caption, nil
}

func buildVisionMessages(image []byte, mediaType string) []openai.ChatCompletionMessageParamUnion {
	imageData := fmt.Sprintf("data:%s;base64,%s", mediaType, base64.StdEncoding.EncodeToString(image))

	return []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(visionSystemPrompt),
		openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
			openai.TextContentPart(visionUserPrompt),
			openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
				URL: imageData,
			}),
		}),
	}
}

func completionText(resp *openai.ChatCompletion) string {
	if resp == nil || len(resp.Choices) == 0 {
		return ""
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content)
}
