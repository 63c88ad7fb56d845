package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/forPelevin/hookcut/internal/config"
	"github.com/forPelevin/hookcut/internal/logging"
	"github.com/forPelevin/hookcut/internal/observe"
	"github.com/forPelevin/hookcut/internal/pipeline"
)

const runTimeout = 3 * time.Hour

// settings is everything a command needs after flags, env and config file
// are merged.
type settings struct {
	app     config.Config
	apiKey  string
	log     *slog.Logger
	metrics *observe.Metrics
	stats   *observe.Stats
}

func run(cmd *cobra.Command, input string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	absIn, err := filepath.Abs(input)
	if err != nil {
		return err
	}
	cfg := s.pipelineConfig(cmd, absIn)
	if media, _ := cmd.Flags().GetString("media"); media != "" {
		if cfg.MediaPath, err = filepath.Abs(media); err != nil {
			return err
		}
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), runTimeout)
	defer cancel()

	rep, err := pipeline.Run(ctx, cfg)
	if err != nil {
		return err
	}
	if err := printReports(cmd.OutOrStdout(), []pipeline.Report{rep}); err != nil {
		return err
	}
	return s.finish(ctx, cmd)
}

func loadSettings(cmd *cobra.Command) (*settings, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.Getenv)
	if err := applyFlags(cmd, cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	log, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	s := &settings{app: *cfg, apiKey: cfg.APIKey(os.Getenv), log: log, metrics: observe.Global()}
	if withStats, _ := cmd.Flags().GetBool("stats"); withStats {
		st, err := observe.NewStats()
		if err != nil {
			return nil, fmt.Errorf("init stats: %w", err)
		}
		s.stats = st
		s.metrics = st.Metrics
	}
	return s, nil
}

// applyFlags overrides config values with explicitly set flags.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	fs := cmd.Flags()
	if fs.Changed("clips") {
		n, _ := fs.GetInt("clips")
		if n <= 0 {
			return fmt.Errorf("clips must be > 0")
		}
		cfg.Scoring.MaxClips = n
	}
	if fs.Changed("mode") {
		mode, _ := fs.GetString("mode")
		switch mode {
		case config.ModeLocal, config.ModeHybrid, config.ModeGPT:
			cfg.Scoring.Mode = mode
		default:
			return fmt.Errorf("mode must be one of %s, %s, %s; got %q", config.ModeLocal, config.ModeHybrid, config.ModeGPT, mode)
		}
	}
	if fs.Changed("audio") {
		cfg.Audio.Enabled, _ = fs.GetBool("audio")
	}
	return nil
}

func (s *settings) pipelineConfig(cmd *cobra.Command, input string) pipeline.Config {
	outDir, _ := cmd.Flags().GetString("out")
	cacheDir, _ := cmd.Flags().GetString("cache")
	render, _ := cmd.Flags().GetBool("render")
	return pipeline.Config{
		Input:    input,
		OutDir:   outDir,
		CacheDir: cacheDir,
		Render:   render,
		App:      s.app,
		APIKey:   s.apiKey,
		Log:      s.log,
		Metrics:  s.metrics,
	}
}

// finish prints collected stats when --stats is set.
func (s *settings) finish(ctx context.Context, cmd *cobra.Command) error {
	if s.stats == nil {
		return nil
	}
	defer func() { _ = s.stats.Shutdown(context.WithoutCancel(ctx)) }()
	sum, err := s.stats.Collect(context.WithoutCancel(ctx))
	if err != nil {
		return fmt.Errorf("collect stats: %w", err)
	}
	_, err = fmt.Fprintln(cmd.ErrOrStderr(), renderStats(sum))
	return err
}
