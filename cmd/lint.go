package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/getlawrence/useserver/internal/config"
	"github.com/getlawrence/useserver/internal/detector"
	"github.com/getlawrence/useserver/internal/domain"
	"github.com/getlawrence/useserver/internal/linter"
	"github.com/getlawrence/useserver/internal/logger"
	"github.com/getlawrence/useserver/internal/ui"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// ErrLintFailed is returned when at least one error-severity problem remains.
var ErrLintFailed = errors.New("lint failed")

// lintCmd represents the lint command
var lintCmd = &cobra.Command{
	Use:   "lint [paths...]",
	Short: "Report Server Actions that are not async",
	Long: `Lint walks the given files and directories (or the current directory)
and reports every function whose body starts with the "use server" directive
but which is not declared async.

Example usage:
  useserver lint                          # Lint current directory
  useserver lint app lib/actions.ts       # Lint specific paths
  useserver lint --output json            # Output results as JSON
  useserver lint --apply-suggestions      # Add the missing async keywords`,
	RunE: runLint,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().StringP("config", "c", "", "config file (default: .useserver.yaml in the current or home directory)")
	lintCmd.Flags().StringP("output", "o", "", "output format (text, json, yaml)")
	lintCmd.Flags().Bool("apply-suggestions", false, "apply the first suggestion of every problem and rewrite files")
	lintCmd.Flags().Int("workers", 0, "number of files linted in parallel (default: GOMAXPROCS)")
	lintCmd.Flags().Bool("no-spinner", false, "disable the progress spinner")
	lintCmd.Flags().Bool("no-color", false, "disable colored output")
}

// lintReport is the machine-readable output of a lint run
type lintReport struct {
	Summary     lintSummary         `json:"summary" yaml:"summary"`
	Diagnostics []domain.Diagnostic `json:"diagnostics" yaml:"diagnostics"`
	Fixes       *linter.FixResult   `json:"fixes,omitempty" yaml:"fixes,omitempty"`
}

type lintSummary struct {
	Files    int `json:"files" yaml:"files"`
	Problems int `json:"problems" yaml:"problems"`
	Errors   int `json:"errors" yaml:"errors"`
	Warnings int `json:"warnings" yaml:"warnings"`
	Infos    int `json:"infos" yaml:"infos"`
}

func runLint(cmd *cobra.Command, args []string) error {
	log := loggerFrom(cmd)

	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("output") {
		cfg.Output.Format, _ = cmd.Flags().GetString("output")
	}
	if cmd.Flags().Changed("workers") {
		cfg.Analysis.Workers, _ = cmd.Flags().GetInt("workers")
	}
	if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
		cfg.Output.Color = false
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}

	ctx := cmd.Context()
	files, err := collectSources(cmd, paths, cfg)
	if err != nil {
		return err
	}
	log.Debug("discovered sources", "files", len(files))

	noSpinner, _ := cmd.Flags().GetBool("no-spinner")
	useSpinner := !noSpinner && cfg.Output.Format == config.FormatText && logger.IsInteractive()

	opts := linter.Options{
		Severities: cfg.Severities(),
		Workers:    cfg.Analysis.Workers,
		Logger:     log,
	}
	if useSpinner {
		opts.Logger = ui.StatusLogger{Out: cmd.ErrOrStderr()}
	}
	l := linter.New(linter.DefaultRules(), opts)
	log.Debug("rules enabled", "rules", l.Rules())

	var result *linter.Result
	run := func() error {
		var e error
		result, e = l.LintFiles(ctx, files)
		return e
	}
	if useSpinner {
		err = ui.RunSpinner(ctx, cmd.ErrOrStderr(), fmt.Sprintf("Linting %d file(s)...", len(files)), run)
	} else {
		err = run()
	}
	if err != nil {
		return err
	}

	var fixes *linter.FixResult
	if apply, _ := cmd.Flags().GetBool("apply-suggestions"); apply {
		fixes, err = linter.ApplySuggestions(result.Diagnostics, result.Checksums)
		if err != nil {
			return err
		}
		for _, s := range fixes.Skipped {
			log.Warn("suggestion skipped", "file", s.File, "line", s.Line, "reason", s.Reason)
		}
		// Fixed problems no longer count against the exit status
		result = remaining(result, fixes)
	}

	if err := writeReport(cmd.OutOrStdout(), cfg, paths, result, fixes); err != nil {
		return err
	}
	if result.Count(domain.SeverityError) > 0 {
		return ErrLintFailed
	}
	return nil
}

// collectSources discovers lintable files under every path, dropping
// duplicates when paths overlap.
func collectSources(cmd *cobra.Command, paths []string, cfg *config.Config) ([]domain.SourceFile, error) {
	seen := make(map[string]bool)
	var files []domain.SourceFile
	for _, p := range paths {
		absPath, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve path: %w", err)
		}
		if _, statErr := os.Stat(absPath); os.IsNotExist(statErr) {
			return nil, fmt.Errorf("path does not exist: %s", absPath)
		}
		found, err := detector.DiscoverSources(cmd.Context(), absPath, detector.Options{
			ExcludePaths: cfg.Analysis.ExcludePaths,
			Extensions:   cfg.Analysis.Extensions,
		})
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			if !seen[f.Path] {
				seen[f.Path] = true
				files = append(files, f)
			}
		}
	}
	return files, nil
}

// remaining drops diagnostics whose suggestion was applied.
func remaining(result *linter.Result, fixes *linter.FixResult) *linter.Result {
	type key struct {
		file string
		line int
		desc string
	}
	applied := make(map[key]int)
	for _, a := range fixes.Applied {
		applied[key{a.File, a.Line, a.Description}]++
	}
	out := &linter.Result{Files: result.Files}
	for _, d := range result.Diagnostics {
		if len(d.Suggestions) > 0 {
			k := key{d.File, d.Range.Start.Line, d.Suggestions[0].Description}
			if applied[k] > 0 {
				applied[k]--
				continue
			}
		}
		out.Diagnostics = append(out.Diagnostics, d)
	}
	return out
}

func writeReport(w io.Writer, cfg *config.Config, paths []string, result *linter.Result, fixes *linter.FixResult) error {
	switch cfg.Output.Format {
	case config.FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(newLintReport(result, fixes))
	case config.FormatYAML:
		encoder := yaml.NewEncoder(w)
		defer encoder.Close()
		return encoder.Encode(newLintReport(result, fixes))
	default:
		opts := ui.ReportOptions{Color: cfg.Output.Color && logger.IsInteractive()}
		if len(paths) == 1 {
			if root, err := filepath.Abs(paths[0]); err == nil {
				if info, statErr := os.Stat(root); statErr == nil && info.IsDir() {
					opts.Root = root
				}
			}
		}
		_, err := fmt.Fprint(w, ui.RenderReport(result, fixes, opts))
		return err
	}
}

func newLintReport(result *linter.Result, fixes *linter.FixResult) lintReport {
	diagnostics := result.Diagnostics
	if diagnostics == nil {
		diagnostics = []domain.Diagnostic{}
	}
	return lintReport{
		Summary: lintSummary{
			Files:    result.Files,
			Problems: len(result.Diagnostics),
			Errors:   result.Count(domain.SeverityError),
			Warnings: result.Count(domain.SeverityWarning),
			Infos:    result.Count(domain.SeverityInfo),
		},
		Diagnostics: diagnostics,
		Fixes:       fixes,
	}
}
