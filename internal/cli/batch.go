package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"

	"github.com/forPelevin/hookcut/internal/pipeline"
	"github.com/forPelevin/hookcut/internal/watch"
)

func newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <input>...",
		Short: "Process several independent inputs in parallel",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, args)
		},
	}
	cmd.Flags().Int("jobs", 2, "Inputs processed concurrently")
	return cmd
}

func runBatch(cmd *cobra.Command, inputs []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	jobs, _ := cmd.Flags().GetInt("jobs")
	abs := make([]string, len(inputs))
	for i, in := range inputs {
		if abs[i], err = filepath.Abs(in); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), runTimeout)
	defer cancel()

	reps, runErr := pipeline.RunBatch(ctx, s.pipelineConfig(cmd, ""), abs, jobs)
	done := make([]pipeline.Report, 0, len(reps))
	for _, r := range reps {
		if r.RunID != "" {
			done = append(done, r)
		}
	}
	if err := printReports(cmd.OutOrStdout(), done); err != nil {
		return err
	}
	return errors.Join(runErr, s.finish(ctx, cmd))
}

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Process every new transcript or media file dropped into a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args[0])
		},
	}
	cmd.Flags().Int("jobs", 2, "Inputs processed concurrently")
	return cmd
}

func runWatch(cmd *cobra.Command, dir string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	jobs, _ := cmd.Flags().GetInt("jobs")
	base := s.pipelineConfig(cmd, "")

	var mu sync.Mutex
	w, err := watch.New(dir, func(ctx context.Context, path string) error {
		c := base
		c.Input = path
		rep, err := pipeline.Run(ctx, c)
		if err != nil {
			return err
		}
		mu.Lock()
		defer mu.Unlock()
		return printReports(cmd.OutOrStdout(), []pipeline.Report{rep})
	}, watch.Options{MaxConcurrent: jobs, Log: s.log})
	if err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	defer w.Close()

	err = w.Start(cmd.Context())
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	return errors.Join(err, s.finish(cmd.Context(), cmd))
}
