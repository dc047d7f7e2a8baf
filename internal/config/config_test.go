package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("unexpected default port: %q", cfg.Server.Port)
	}
	if cfg.Inference.VisionModel != "microsoft/Florence-2-large" {
		t.Errorf("unexpected default vision model: %q", cfg.Inference.VisionModel)
	}
	if cfg.Inference.ReasoningModel != "Qwen/Qwen2.5-3B-Instruct" {
		t.Errorf("unexpected default reasoning model: %q", cfg.Inference.ReasoningModel)
	}
	if cfg.Inference.Timeout != 60*time.Second {
		t.Errorf("unexpected default inference timeout: %v", cfg.Inference.Timeout)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("INFERENCE_API_KEY", "hf_test")
	t.Setenv("VISION_MODEL", "vision-x")
	t.Setenv("REASONING_MODEL", "reason-y")
	t.Setenv("INFERENCE_TIMEOUT", "5s")
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Inference.APIKey != "hf_test" {
		t.Errorf("unexpected api key: %q", cfg.Inference.APIKey)
	}
	if cfg.Inference.VisionModel != "vision-x" || cfg.Inference.ReasoningModel != "reason-y" {
		t.Errorf("model overrides not applied: %+v", cfg.Inference)
	}
	if cfg.Inference.Timeout != 5*time.Second {
		t.Errorf("timeout override not applied: %v", cfg.Inference.Timeout)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("port override not applied: %q", cfg.Server.Port)
	}
}
