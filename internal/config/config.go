package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Server    ServerConfig
	Inference InferenceConfig
}

type ServerConfig struct {
	Port            string        `env:"SERVER_PORT" envDefault:"8080"`
	Timeout         time.Duration `env:"SERVER_TIMEOUT" envDefault:"2m"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	ThrottleLimit   int           `env:"SERVER_THROTTLE_LIMIT" envDefault:"50"`
	MaxUploadBytes  int64         `env:"SERVER_MAX_UPLOAD_BYTES" envDefault:"10485760"`
}

// InferenceConfig covers both hosted model calls. A single bearer token
// authenticates against one OpenAI-compatible endpoint; the vision and
// reasoning stages differ only in model name.
type InferenceConfig struct {
	APIKey         string        `env:"INFERENCE_API_KEY"`
	BaseURL        string        `env:"INFERENCE_BASE_URL" envDefault:"https://router.huggingface.co/v1"`
	VisionModel    string        `env:"VISION_MODEL" envDefault:"microsoft/Florence-2-large"`
	ReasoningModel string        `env:"REASONING_MODEL" envDefault:"Qwen/Qwen2.5-3B-Instruct"`
	Timeout        time.Duration `env:"INFERENCE_TIMEOUT" envDefault:"60s"`
	MaxTokens      int64         `env:"INFERENCE_MAX_TOKENS" envDefault:"500"`
	Temperature    float64       `env:"INFERENCE_TEMPERATURE" envDefault:"0.7"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
