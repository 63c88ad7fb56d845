package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	ModeLocal  = "local"
	ModeHybrid = "hybrid"
	ModeGPT    = "gpt"

	ProviderOpenRouter = "openrouter"
	ProviderOpenAI     = "openai"
)

// Clip bounds the emitted highlight durations and the render padding.
type Clip struct {
	MinSeconds float64 `yaml:"min_seconds" toml:"min_seconds"`
	MaxSeconds float64 `yaml:"max_seconds" toml:"max_seconds"`
	BufferIn   float64 `yaml:"buffer_in" toml:"buffer_in"`
	BufferOut  float64 `yaml:"buffer_out" toml:"buffer_out"`
}

// Scoring configures windowing, selection and sentence reconstruction.
type Scoring struct {
	MaxClips          int     `yaml:"max_clips" toml:"max_clips"`
	WindowSec         float64 `yaml:"window_sec" toml:"window_sec"`
	StrideSec         float64 `yaml:"stride_sec" toml:"stride_sec"`
	Mode              string  `yaml:"mode" toml:"mode"`
	IoUThresh         float64 `yaml:"iou_thresh" toml:"iou_thresh"`
	MaxGapSec         float64 `yaml:"max_gap_sec" toml:"max_gap_sec"`
	MaxSentenceSec    float64 `yaml:"max_sentence_sec" toml:"max_sentence_sec"`
	MergeCliffhangers bool    `yaml:"merge_cliffhangers" toml:"merge_cliffhangers"`
}

// Audio configures loudness peak detection.
type Audio struct {
	Enabled       bool    `yaml:"enabled" toml:"enabled"`
	PeakZScore    float64 `yaml:"peak_zscore" toml:"peak_zscore"`
	PeakRadiusSec float64 `yaml:"peak_radius_sec" toml:"peak_radius_sec"`
	PeakBonus     float64 `yaml:"peak_bonus" toml:"peak_bonus"`
	SampleRate    int     `yaml:"sample_rate" toml:"sample_rate"`
}

// Reorder configures the optional external reordering service.
type Reorder struct {
	Provider       string   `yaml:"provider" toml:"provider"`
	Model          string   `yaml:"model" toml:"model"`
	BaseURL        string   `yaml:"base_url" toml:"base_url"`
	AllowedHosts   []string `yaml:"allowed_hosts" toml:"allowed_hosts"`
	TimeoutSeconds int      `yaml:"timeout_seconds" toml:"timeout_seconds"`
}

// Tools locates the external binaries used for media input.
type Tools struct {
	FFmpeg       string `yaml:"ffmpeg" toml:"ffmpeg"`
	FFprobe      string `yaml:"ffprobe" toml:"ffprobe"`
	WhisperBin   string `yaml:"whisper_bin" toml:"whisper_bin"`
	WhisperModel string `yaml:"whisper_model" toml:"whisper_model"`
}

type Logging struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// Config is the full application configuration. Every field has a default.
type Config struct {
	Clip    Clip    `yaml:"clip" toml:"clip"`
	Scoring Scoring `yaml:"scoring" toml:"scoring"`
	Audio   Audio   `yaml:"audio" toml:"audio"`
	Reorder Reorder `yaml:"reorder" toml:"reorder"`
	Tools   Tools   `yaml:"tools" toml:"tools"`
	Logging Logging `yaml:"logging" toml:"logging"`
}

// Load reads the YAML or TOML file at path over the defaults. An empty path
// returns the defaults.
func Load(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		cfg := Default()
		return &cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f, formatOf(path))
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes r in the given format ("yaml" or "toml") over the
// defaults, then normalizes and validates the result.
func LoadFromReader(r io.Reader, format string) (*Config, error) {
	cfg := Default()
	switch format {
	case "yaml":
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	case "toml":
		if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&cfg); err != nil {
			return nil, fmt.Errorf("decode toml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", format)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func formatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	default:
		return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}
}

// ApplyEnv overrides reorder settings from the environment.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if c.Reorder.Provider != ProviderOpenRouter {
		return
	}
	if v := strings.TrimSpace(getenv("OPENROUTER_MODEL")); v != "" {
		c.Reorder.Model = v
	}
	if v := strings.TrimSpace(getenv("OPENROUTER_BASE_URL")); v != "" {
		c.Reorder.BaseURL = v
	}
}

// APIKey returns the key for the configured reorder provider, or "".
func (c *Config) APIKey(getenv func(string) string) string {
	if getenv == nil {
		getenv = os.Getenv
	}
	switch c.Reorder.Provider {
	case ProviderOpenAI:
		return strings.TrimSpace(getenv("OPENAI_API_KEY"))
	default:
		return strings.TrimSpace(getenv("OPENROUTER_API_KEY"))
	}
}
