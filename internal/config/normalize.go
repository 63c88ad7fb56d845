package config

import "strings"

// Normalize trims string values and replaces out-of-range numbers with their
// defaults. It never fails.
func (c *Config) Normalize() {
	def := Default()
	c.normalizeClip(def.Clip)
	c.normalizeScoring(def.Scoring)
	c.normalizeAudio(def.Audio)
	c.normalizeReorder()
	c.normalizeTools(def.Tools)
	c.normalizeLogging(def.Logging)
}

func (c *Config) normalizeClip(def Clip) {
	if c.Clip.MinSeconds <= 0 {
		c.Clip.MinSeconds = def.MinSeconds
	}
	if c.Clip.MaxSeconds <= 0 {
		c.Clip.MaxSeconds = def.MaxSeconds
	}
	if c.Clip.BufferIn < 0 {
		c.Clip.BufferIn = def.BufferIn
	}
	if c.Clip.BufferOut < 0 {
		c.Clip.BufferOut = def.BufferOut
	}
}

func (c *Config) normalizeScoring(def Scoring) {
	s := &c.Scoring
	if s.MaxClips <= 0 {
		s.MaxClips = def.MaxClips
	}
	if s.WindowSec <= 0 {
		s.WindowSec = def.WindowSec
	}
	if s.StrideSec <= 0 {
		s.StrideSec = def.StrideSec
	}
	switch mode := strings.ToLower(strings.TrimSpace(s.Mode)); mode {
	case ModeLocal, ModeHybrid, ModeGPT:
		s.Mode = mode
	default:
		s.Mode = def.Mode
	}
	if s.IoUThresh < 0 || s.IoUThresh > 1 {
		s.IoUThresh = def.IoUThresh
	}
	if s.MaxGapSec <= 0 {
		s.MaxGapSec = def.MaxGapSec
	}
	if s.MaxSentenceSec <= 0 {
		s.MaxSentenceSec = def.MaxSentenceSec
	}
}

func (c *Config) normalizeAudio(def Audio) {
	a := &c.Audio
	if a.PeakZScore <= 0 {
		a.PeakZScore = def.PeakZScore
	}
	if a.PeakRadiusSec < 0 {
		a.PeakRadiusSec = def.PeakRadiusSec
	}
	if a.PeakBonus < 0 {
		a.PeakBonus = def.PeakBonus
	}
	if a.SampleRate <= 0 {
		a.SampleRate = def.SampleRate
	}
}

func (c *Config) normalizeReorder() {
	r := &c.Reorder
	r.Provider = strings.ToLower(strings.TrimSpace(r.Provider))
	switch r.Provider {
	case ProviderOpenAI:
		if strings.TrimSpace(r.Model) == "" || r.Model == defaultOpenRouterModel {
			r.Model = defaultOpenAIModel
		}
		if strings.TrimSpace(r.BaseURL) == "" || r.BaseURL == defaultOpenRouterBaseURL {
			r.BaseURL = defaultOpenAIBaseURL
		}
	default:
		r.Provider = ProviderOpenRouter
		if strings.TrimSpace(r.Model) == "" {
			r.Model = defaultOpenRouterModel
		}
		if strings.TrimSpace(r.BaseURL) == "" {
			r.BaseURL = defaultOpenRouterBaseURL
		}
	}
	r.Model = strings.TrimSpace(r.Model)
	r.BaseURL = strings.TrimSpace(r.BaseURL)
	if r.TimeoutSeconds <= 0 {
		r.TimeoutSeconds = Default().Reorder.TimeoutSeconds
	}
	hosts := r.AllowedHosts[:0]
	for _, h := range r.AllowedHosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			hosts = append(hosts, h)
		}
	}
	r.AllowedHosts = hosts
}

func (c *Config) normalizeTools(def Tools) {
	t := &c.Tools
	if strings.TrimSpace(t.FFmpeg) == "" {
		t.FFmpeg = def.FFmpeg
	}
	if strings.TrimSpace(t.FFprobe) == "" {
		t.FFprobe = def.FFprobe
	}
	if strings.TrimSpace(t.WhisperBin) == "" {
		t.WhisperBin = def.WhisperBin
	}
	if strings.TrimSpace(t.WhisperModel) == "" {
		t.WhisperModel = def.WhisperModel
	}
}

func (c *Config) normalizeLogging(def Logging) {
	switch level := strings.ToLower(strings.TrimSpace(c.Logging.Level)); level {
	case "debug", "info", "warn", "error":
		c.Logging.Level = level
	default:
		c.Logging.Level = def.Level
	}
	switch format := strings.ToLower(strings.TrimSpace(c.Logging.Format)); format {
	case "console", "json":
		c.Logging.Format = format
	default:
		c.Logging.Format = def.Format
	}
}
