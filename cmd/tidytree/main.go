package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/fenilsonani/tidytree/internal/cleaner"
	"github.com/fenilsonani/tidytree/internal/config"
	"github.com/fenilsonani/tidytree/internal/history"
	"github.com/fenilsonani/tidytree/internal/logging"
	"github.com/fenilsonani/tidytree/internal/notify"
	"github.com/fenilsonani/tidytree/internal/platform"
	"github.com/fenilsonani/tidytree/internal/progress"
	"github.com/fenilsonani/tidytree/internal/reporter"
	"github.com/fenilsonani/tidytree/internal/scanner"
	"github.com/fenilsonani/tidytree/internal/security"
	"github.com/fenilsonani/tidytree/internal/selection"
	"github.com/fenilsonani/tidytree/internal/tree"
	"github.com/fenilsonani/tidytree/internal/ui"
	"github.com/fenilsonani/tidytree/pkg/utils"
	"github.com/spf13/cobra"
)

var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

var (
	configPath string
	verbose    bool

	months     int
	fileMB     float64
	dirMB      float64
	noFiles    bool
	topPct     float64
	weightAge  float64
	weightSize float64
	workers    int

	depth      int
	minSize    string
	outputFmt  string
	outputFile string
	permanent  bool
	assumeYes  bool
	dryRun     bool
	limit      int
	initConfig bool
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, ui.ErrorStyle.Render("Error: ")+err.Error())
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tidytree",
	Short: "Find and remove stale, oversized files and folders",
	Long: `tidytree scans directories, ranks their contents by age and size, and
proposes the best cleanup candidates. Candidates go to the trash by default.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
	SilenceUsage:  true,
	SilenceErrors: true,
}

var scanCmd = &cobra.Command{
	Use:   "scan [dirs...]",
	Short: "Scan directories and print what was found",
	Long:  `Scans each directory one level deep (or --depth levels) and prints the tree with sizes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		defer logger.Close()

		roots, err := scanRoots(cfg, logger, args)
		if err != nil {
			return err
		}

		for _, root := range roots {
			ui.PrintTree(os.Stdout, root, depth)
			fmt.Println()
		}
		return nil
	},
}

var suggestCmd = &cobra.Command{
	Use:   "suggest [dirs...]",
	Short: "Rank scanned entries and propose cleanup candidates",
	Long:  `Scans, scores every entry by age and size, and reports the top share without deleting anything.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		defer logger.Close()

		format, err := reporter.ParseFormat(outputFmt)
		if err != nil {
			return err
		}

		items, err := suggest(cfg, logger, args)
		if err != nil {
			return err
		}

		if outputFile != "" {
			if err := reporter.SaveToFile(items, outputFile, format); err != nil {
				return fmt.Errorf("failed to save report: %w", err)
			}
			fmt.Printf("Report saved to: %s\n", outputFile)
			return nil
		}

		if err := reporter.New(os.Stdout, format).ReportSelection(items); err != nil {
			return fmt.Errorf("failed to generate report: %w", err)
		}
		return nil
	},
}

var cleanCmd = &cobra.Command{
	Use:   "clean [dirs...]",
	Short: "Delete the proposed cleanup candidates",
	Long: `Runs suggest, asks for confirmation and moves the proposed entries to the
trash (or deletes them with --permanent). Every deletion is recorded in history.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		defer logger.Close()

		format, err := reporter.ParseFormat(outputFmt)
		if err != nil {
			return err
		}

		items, err := suggest(cfg, logger, args)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Println(ui.SuccessStyle.Render("✨ Nothing to clean."))
			return nil
		}

		printCandidates(items)

		mode := cleaner.ModeTrash
		if permanent {
			mode = cleaner.ModePermanent
		}

		if dryRun {
			fmt.Println(ui.WarningStyle.Render("\n[DRY RUN] No files will be deleted."))
			return nil
		}

		if !assumeYes {
			question := fmt.Sprintf("\nMove %d items to the trash?", len(items))
			if mode == cleaner.ModePermanent {
				question = fmt.Sprintf("\nPermanently delete %d items?", len(items))
			}
			if !ui.Confirm(os.Stdin, os.Stdout, question) {
				fmt.Println("Cleanup cancelled")
				return nil
			}
		}

		opts := []cleaner.Option{cleaner.WithLogger(logger)}
		if cfg.History.Enabled {
			store, err := history.Open(config.ExpandHome(cfg.History.Path), logger)
			if err != nil {
				// Deletion still works without a history store
				logger.Warn("history disabled: %v", err)
			} else {
				defer store.Close()
				opts = append(opts, cleaner.WithHistory(store))
			}
		}

		rep := progress.NewReporter()
		opts = append(opts, cleaner.WithProgressReporter(rep))

		live := ui.NewLiveProgress(os.Stderr)
		stopWatch := live.Watch(rep)

		deleter := cleaner.New(cfg, opts...)
		set := cleaner.NewItemList(nodesOf(items)...)

		var result *cleaner.DeleteResult
		if mode == cleaner.ModePermanent {
			result, err = deleter.DeletePermanently(cmd.Context(), set, nil)
		} else {
			result, err = deleter.MoveToTrash(cmd.Context(), set, nil)
		}
		stopWatch()
		live.Finish()

		if err != nil {
			if errors.Is(err, context.Canceled) {
				return fmt.Errorf("cleanup interrupted, %d items left untouched", set.Len())
			}
			return fmt.Errorf("clean failed: %w", err)
		}

		if err := reporter.New(os.Stdout, format).ReportResult(result); err != nil {
			return err
		}
		printFailures(result)

		// Delivery errors are already logged by the notifier
		_ = notify.New(cfg.Notify, logger).CleanupFinished(cmd.Context(), mode, result)
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent deletions",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		defer logger.Close()

		format, err := reporter.ParseFormat(outputFmt)
		if err != nil {
			return err
		}

		store, err := history.Open(config.ExpandHome(cfg.History.Path), logger)
		if err != nil {
			return fmt.Errorf("failed to open history: %w", err)
		}
		defer store.Close()

		entries, err := store.Recent(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("failed to read history: %w", err)
		}

		if err := reporter.New(os.Stdout, format).ReportHistory(entries); err != nil {
			return err
		}

		if format == reporter.FormatSummary || format == reporter.FormatTable {
			stats, err := store.Stats(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to read history stats: %w", err)
			}
			fmt.Println(ui.DimStyle.Render(fmt.Sprintf("All time: %d deletions, %s freed",
				stats.Count, utils.FormatBytes(stats.TotalBytes))))
		}
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Display or create the configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfgPath, err := resolveConfigPath()
		if err != nil {
			return err
		}

		fmt.Printf("Config file: %s\n", cfgPath)

		_, statErr := os.Stat(cfgPath)
		exists := statErr == nil

		if initConfig {
			if exists {
				fmt.Println("Config file already exists, leaving it unchanged.")
				return nil
			}
			if configPath == "" {
				_, err = config.EnsureConfigExists()
			} else {
				err = config.Save(config.GetDefault(), cfgPath)
			}
			if err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}
			fmt.Println(ui.SuccessStyle.Render("✅ Default configuration written."))
			return nil
		}

		if !exists {
			fmt.Println("Config file does not exist. Using default configuration.")
			fmt.Println("Run 'tidytree config --init' to create one. Example:")
			fmt.Println()
			fmt.Print(config.GetExampleConfig())
		}
		return nil
	},
}

func init() {
	// Global flags
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "config file path")
	pf.BoolVar(&verbose, "verbose", false, "verbose output")
	pf.StringVar(&outputFmt, "output", "summary", "output format (summary, table, json, yaml)")

	// Scan options shared by scan, suggest and clean
	for _, cmd := range []*cobra.Command{scanCmd, suggestCmd, cleanCmd} {
		f := cmd.Flags()
		f.IntVar(&months, "months", 0, "only entries not modified for this many months")
		f.Float64Var(&fileMB, "file-mb", 0, "only files larger than this many MB")
		f.Float64Var(&dirMB, "dir-mb", 0, "only directories larger than this many MB")
		f.BoolVar(&noFiles, "no-files", false, "scan directories only")
		f.IntVar(&workers, "workers", 0, "parallel scan workers (0 = number of CPUs)")
		f.IntVar(&depth, "depth", 1, "levels to load below each root")
	}

	// Scoring flags
	for _, cmd := range []*cobra.Command{suggestCmd, cleanCmd} {
		f := cmd.Flags()
		f.Float64Var(&topPct, "top", config.DefaultTopPercentage, "share of ranked entries to propose (0-1)")
		f.Float64Var(&weightAge, "weight-age", config.DefaultWeightAge, "weight of the age score")
		f.Float64Var(&weightSize, "weight-size", config.DefaultWeightSize, "weight of the size score")
		f.StringVar(&minSize, "min-size", "", "drop candidates smaller than this (e.g. 10MB, 1.5GiB)")
	}

	suggestCmd.Flags().StringVar(&outputFile, "file", "", "save report to file")

	cleanCmd.Flags().BoolVar(&permanent, "permanent", false, "delete permanently instead of using the trash")
	cleanCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "skip the confirmation prompt")
	cleanCmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be deleted without deleting")

	historyCmd.Flags().IntVar(&limit, "limit", 20, "number of entries to show (0 = all)")

	configCmd.Flags().BoolVar(&initConfig, "init", false, "write the default configuration if none exists")

	// Add commands
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
}

func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.GetConfigPath()
}

func loadConfig() (*config.Config, error) {
	cfgPath, err := resolveConfigPath()
	if err != nil {
		return nil, err
	}
	return config.Load(cfgPath)
}

// setup loads the config, applies flag overrides and opens the logger
func setup(cmd *cobra.Command) (*config.Config, *logging.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid options: %w", err)
	}

	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	logger, err := logging.NewFile(config.ExpandHome(cfg.Log.File), level)
	if err != nil {
		return nil, nil, err
	}

	return cfg, logger, nil
}

// applyFlags overrides config values with the flags the user set
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	if flags.Changed("months") {
		cfg.Scan.Age.UseModified = months > 0
		cfg.Scan.Age.ModifiedMonths = months
		cfg.Scan.Age.ModifiedBefore = nil
	}
	if flags.Changed("file-mb") {
		cfg.Scan.FileSize.Enabled = fileMB > 0
		cfg.Scan.FileSize.ThresholdMB = fileMB
	}
	if flags.Changed("dir-mb") {
		cfg.Scan.DirectorySize.Enabled = dirMB > 0
		cfg.Scan.DirectorySize.ThresholdMB = dirMB
	}
	if flags.Changed("no-files") {
		cfg.Scan.IncludeFiles = !noFiles
	}
	if flags.Changed("workers") {
		cfg.Scan.Workers = workers
	}
	if flags.Changed("top") {
		cfg.Scorer.TopPercentage = topPct
	}
	if flags.Changed("weight-age") {
		cfg.Scorer.WeightAge = weightAge
	}
	if flags.Changed("weight-size") {
		cfg.Scorer.WeightSize = weightSize
	}
}

// scanDirectories picks the roots to scan: arguments win over the config,
// and the downloads folder is the last resort.
func scanDirectories(cfg *config.Config, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if len(cfg.Scan.Directories) > 0 {
		return cfg.Scan.Directories, nil
	}

	info, err := platform.GetInfo()
	if err != nil {
		return nil, fmt.Errorf("failed to get platform info: %w", err)
	}
	if info.DownloadsDir == "" {
		return nil, fmt.Errorf("no directories to scan; pass them as arguments or set scan.directories")
	}
	return []string{info.DownloadsDir}, nil
}

// scanRoots creates a root node per directory and loads depth levels
// below each. Directories that cannot be opened are reported and skipped.
func scanRoots(cfg *config.Config, logger *logging.Logger, args []string) ([]*tree.Node, error) {
	dirs, err := scanDirectories(cfg, args)
	if err != nil {
		return nil, err
	}

	rep := progress.NewReporter()
	live := ui.NewLiveProgress(os.Stderr)
	stopWatch := live.Watch(rep)
	defer func() {
		stopWatch()
		live.Finish()
	}()

	scnr := scanner.New(
		scanner.WithWorkers(cfg.Scan.Workers),
		scanner.WithLogger(logger),
		scanner.WithProgressReporter(rep),
	)

	var roots []*tree.Node
	for _, dir := range dirs {
		root, err := scnr.StatRoot(config.ExpandHome(dir))
		if err != nil {
			fmt.Fprintln(os.Stderr, ui.WarningStyle.Render("⚠️  ")+err.Error())
			continue
		}
		roots = append(roots, root)
	}
	if len(roots) == 0 {
		return nil, fmt.Errorf("no readable directories to scan")
	}

	scnr.LoadChildrenForRoots(roots, &cfg.Scan)

	if depth > 1 {
		for _, root := range roots {
			if err := scnr.Expand(root, &cfg.Scan, depth); err != nil {
				logger.Warn("failed to expand %s: %v", root.Path, err)
			}
		}
	}

	logger.Debug("scanned %d roots, %d cached directory sizes", len(roots), scnr.SizeCache().Len())
	return roots, nil
}

func suggest(cfg *config.Config, logger *logging.Logger, args []string) ([]selection.ScoredNode, error) {
	roots, err := scanRoots(cfg, logger, args)
	if err != nil {
		return nil, err
	}

	// Protected folders would only be refused at deletion time
	var engineOpts []selection.EngineOption
	if info, err := platform.GetInfo(); err != nil {
		logger.Warn("protected folders not filtered: %v", err)
	} else {
		engineOpts = append(engineOpts, selection.WithExclude(security.NewPathValidator(info).IsProtectedPath))
	}

	engine := selection.NewEngine(selection.NewScorer(), engineOpts...)
	items := engine.SelectAllScored(roots, &cfg.Scan, cfg.Scorer)

	if minSize == "" {
		return items, nil
	}
	threshold, err := utils.ParseSize(minSize)
	if err != nil {
		return nil, fmt.Errorf("invalid --min-size: %w", err)
	}

	kept := items[:0]
	for _, item := range items {
		if item.Node.Size >= threshold {
			kept = append(kept, item)
		}
	}
	return kept, nil
}

func printCandidates(items []selection.ScoredNode) {
	paths := make([]string, len(items))
	sizes := make([]int64, len(items))
	var total int64
	for i, item := range items {
		paths[i] = ui.TruncateMiddle(item.Node.Path, 70)
		sizes[i] = item.Node.Size
		total += item.Node.Size
	}

	title := fmt.Sprintf("Cleanup candidates (%d items, %s)", len(items), utils.FormatBytes(total))
	fmt.Println(ui.SelectionList(title, paths, sizes))
}

// printFailures lists each failed item in verbose mode and hints at
// elevation when only permissions stood in the way
func printFailures(result *cleaner.DeleteResult) {
	if len(result.Errors) == 0 {
		return
	}

	needsElevation := false
	for _, e := range result.Errors {
		if e.NeedsElevation {
			needsElevation = true
		}
		if verbose {
			fmt.Fprintln(os.Stderr, ui.ErrorStyle.Render(e.UserMessage()))
		}
	}

	if needsElevation && !cleaner.NewPermissionManager().IsRunningAsRoot() {
		fmt.Fprintln(os.Stderr, ui.WarningStyle.Render(
			"🔐 Some items need elevated permissions. Re-run as an administrator to remove them."))
	}
}

func nodesOf(items []selection.ScoredNode) []*tree.Node {
	nodes := make([]*tree.Node, len(items))
	for i, item := range items {
		nodes[i] = item.Node
	}
	return nodes
}
