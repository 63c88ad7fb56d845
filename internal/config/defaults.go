package config

const (
	defaultOpenRouterModel   = "z-ai/glm-4.5-air:free"
	defaultOpenRouterBaseURL = "https://openrouter.ai"
	defaultOpenAIModel       = "gpt-4o-mini"
	defaultOpenAIBaseURL     = "https://api.openai.com/v1"
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Clip: Clip{
			MinSeconds: 15,
			MaxSeconds: 45,
			BufferIn:   0.25,
			BufferOut:  0.35,
		},
		Scoring: Scoring{
			MaxClips:          5,
			WindowSec:         10,
			StrideSec:         5,
			Mode:              ModeLocal,
			IoUThresh:         0.3,
			MaxGapSec:         0.6,
			MaxSentenceSec:    20,
			MergeCliffhangers: true,
		},
		Audio: Audio{
			Enabled:       true,
			PeakZScore:    1.2,
			PeakRadiusSec: 2.0,
			PeakBonus:     0.5,
			SampleRate:    16000,
		},
		Reorder: Reorder{
			Provider:       ProviderOpenRouter,
			Model:          defaultOpenRouterModel,
			BaseURL:        defaultOpenRouterBaseURL,
			TimeoutSeconds: 60,
		},
		Tools: Tools{
			FFmpeg:       "ffmpeg",
			FFprobe:      "ffprobe",
			WhisperBin:   ".cache/bin/whisper.cpp",
			WhisperModel: ".cache/models/ggml-base.bin",
		},
		Logging: Logging{
			Level:  "info",
			Format: "console",
		},
	}
}
