package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd()
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "hookcut <input>",
		Short:         "Find highlight spans in a transcript or media file",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0])
		},
	}

	pf := root.PersistentFlags()
	pf.String("config", "", "Config file (.yaml, .yml or .toml)")
	pf.String("out", "out", "Output directory")
	pf.String("cache", ".cache", "Cache directory")
	pf.Int("clips", 0, "Number of highlights (overrides scoring.max_clips)")
	pf.String("mode", "", "Ranking mode: local, hybrid or gpt")
	pf.Bool("audio", true, "Boost highlights near loudness peaks")
	pf.Bool("render", false, "Cut each highlight into clips/NNN.mp4")
	pf.Bool("stats", false, "Print stage timings and counters at exit")

	root.Flags().String("media", "", "Media file paired with a transcript input")

	root.AddCommand(newBatchCmd(), newWatchCmd())
	return root
}
