// Package cli provides the command-line interface for dedup.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/raphaelgruber/dedup-go/internal/config"
	"github.com/raphaelgruber/dedup-go/internal/engine"
	"github.com/raphaelgruber/dedup-go/internal/fileio"
	"github.com/raphaelgruber/dedup-go/internal/metrics"
	"github.com/raphaelgruber/dedup-go/internal/models"
	"github.com/raphaelgruber/dedup-go/internal/service"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Scan and engine flags
	recursive      bool
	shortHashBytes int64
	hashWidth      int
	strategy       string

	// Action flags
	listFlag      bool
	summarizeFlag bool
	deleteFlag    bool
	hardlinkFlag  bool
	symlinkFlag   bool

	// Output flags
	format     string
	dryRun     bool
	showStats  bool
	noProgress bool
	verbose    bool

	// Global config and logger
	cfg       config.Config
	logger    *slog.Logger
	closeLogs func() error
)

// rootCmd is the dedup command.
var rootCmd = &cobra.Command{
	Use:   "dedup [flags] PATH...",
	Short: "Find and remove duplicate files",
	Long: `Dedup finds files with identical content below the given paths.

Candidates are narrowed by size, then by a hash of their first bytes, then
by a hash of their whole content; every match is confirmed byte by byte.
Without an action flag you are asked which copies to keep for every set of
duplicates. Automatic modes keep the copy found under the earliest given
path, and among those the oldest.

Examples:
  dedup -r ~/Pictures
  dedup -r -l ~/Music /mnt/backup/Music
  dedup -r -s --format json ~/Downloads
  dedup -r -k --dry-run ~/Photos /mnt/archive/Photos`,
	Version:       Version,
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		applyFlags(cmd)
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		level, stderrLevel := cfg.LogLevel, slog.LevelWarn
		if verbose {
			level, stderrLevel = slog.LevelDebug, slog.LevelDebug
		}
		logger, closeLogs = config.SetupLogger(cfg.LogFile, level, stderrLevel)
		slog.SetDefault(logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if closeLogs != nil {
			if err := closeLogs(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
			}
		}
	},
	RunE: runDedup,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.Flags()
	flags.BoolVarP(&recursive, "recursive", "r", false, "descend into subdirectories")
	flags.Int64VarP(&shortHashBytes, "bytes", "b", engine.DefaultShortHashBytes, "bytes hashed before full comparison (0 hashes whole files)")
	flags.IntVarP(&hashWidth, "hash-width", "a", int(fileio.DefaultHashWidth), "hash width in bytes: 1, 2, 4 or 8")
	flags.StringVar(&strategy, "strategy", string(engine.StrategyTiered), "candidate strategy: tiered or sorted")

	flags.BoolVarP(&listFlag, "list", "l", false, "list duplicate sets")
	flags.BoolVarP(&summarizeFlag, "summarize", "s", false, "only print totals")
	flags.BoolVarP(&deleteFlag, "delete", "d", false, "delete duplicates without asking")
	flags.BoolVarP(&hardlinkFlag, "hardlink", "k", false, "replace duplicates with hard links")
	flags.BoolVarP(&symlinkFlag, "symlink", "y", false, "replace duplicates with symbolic links")
	rootCmd.MarkFlagsMutuallyExclusive("list", "summarize", "delete", "hardlink", "symlink")

	flags.StringVar(&format, "format", formatText, "output format for list and summary: text, json or yaml")
	flags.BoolVar(&dryRun, "dry-run", false, "report what would change without touching files")
	flags.BoolVar(&showStats, "stats", false, "print operation statistics")
	flags.BoolVar(&noProgress, "no-progress", false, "disable the progress display")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// applyFlags overrides configuration with explicitly set flags.
func applyFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("bytes") {
		cfg.ShortHashBytes = shortHashBytes
	}
	if flags.Changed("hash-width") {
		cfg.HashWidth = hashWidth
	}
	if flags.Changed("strategy") {
		cfg.Strategy = strategy
	}
}

// selectedAction maps the action flags onto an Action.
func selectedAction() models.Action {
	switch {
	case listFlag:
		return models.ActionList
	case summarizeFlag:
		return models.ActionSummarize
	case deleteFlag:
		return models.ActionNoPromptDelete
	case hardlinkFlag:
		return models.ActionHardLink
	case symlinkFlag:
		return models.ActionSymLink
	default:
		return models.ActionPromptDelete
	}
}

func runDedup(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := validateFormat(format); err != nil {
		return err
	}
	roots, err := resolveRoots(args, logger)
	if err != nil {
		return err
	}

	width, err := fileio.ParseHashWidth(cfg.HashWidth)
	if err != nil {
		return err
	}
	strat, err := engine.ParseStrategy(cfg.Strategy)
	if err != nil {
		return err
	}

	act := selectedAction()
	out := cmd.OutOrStdout()
	opts := service.Options{
		Roots:           roots,
		Recursive:       recursive,
		ShortHashBytes:  cfg.ShortHashBytes,
		HashWidth:       width,
		Strategy:        strat,
		ProgressPercent: cfg.ProgressPercent,
		Action:          act,
		DryRun:          dryRun,
	}
	if act == models.ActionPromptDelete {
		opts.Prompter = newPrompter(os.Stdin, out)
	}

	collector := metrics.NewCollector()
	svc := service.NewDedupService(logger, collector)

	found, err := find(ctx, svc, opts)
	if err != nil {
		return err
	}

	structured := format != formatText
	if !structured {
		printScanStats(out, found)
	}

	switch {
	case act == models.ActionList:
		if err := printGroups(out, format, found.Groups, found.Summary); err != nil {
			return err
		}
	case act == models.ActionSummarize:
		if err := printSummary(out, format, found.Summary); err != nil {
			return err
		}
	case len(found.Groups) == 0:
		fmt.Fprintln(out, summaryLine(found.Summary))
	default:
		fmt.Fprintln(out, summaryLine(found.Summary))
		report, err := svc.Apply(ctx, opts, found.Groups)
		if report != nil {
			printReport(out, report, dryRun)
		}
		if err != nil {
			return err
		}
	}

	if showStats {
		printStats(cmd.ErrOrStderr(), collector.Snapshot())
	}
	return nil
}

// find runs the scan and deduplication phases, with the progress UI when
// stdout is a terminal.
func find(ctx context.Context, svc *service.DedupService, opts service.Options) (*service.FindResult, error) {
	switch {
	case noProgress || format != formatText:
		return svc.Find(ctx, opts, nil)
	case term.IsTerminal(int(os.Stdout.Fd())):
		return runFindProgress(ctx, svc, opts)
	case term.IsTerminal(int(os.Stderr.Fd())):
		opts.Progress = plainProgress(os.Stderr)
		return svc.Find(ctx, opts, nil)
	default:
		return svc.Find(ctx, opts, nil)
	}
}
