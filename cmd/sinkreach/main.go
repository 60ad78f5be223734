// Package main implements the CLI driver for the sinkreach analyzer.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/715d/sinkreach/internal/catalog"
	"github.com/715d/sinkreach/pkg/sinkreach"
)

// Config holds all command-line configuration options for the sinkreach analyzer.
type Config struct {
	ProjectFile string // path to the YAML project bundle to analyze
	Verbose     bool   // enables detailed output and statistics
	JSON        bool   // enables JSON output format
	CatalogFile string // optional YAML file with extra sink entries
	Profile     bool   // enables CPU and memory profiling
}

const (
	exitUncoveredFound = 1
	exitError          = 2
)

var (
	// Set via ldflags during build.
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

var cfg Config

func main() {
	var rootCmd = &cobra.Command{
		Use:   "sinkreach <project-bundle.yaml>",
		Short: "Report sink calls unreached or untested by fuzzers",
		Long: `sinkreach scans fuzzing introspection data for calls to security-sensitive
sink functions (process spawning, code evaluation, I/O redirection).

For every sink occurrence it reports:
- The call site that invokes the sink (source file, caller, line)
- Whether the call site is statically reachable from a fuzz entry point
- Which fuzzers, if any, dynamically covered the calling line`,
		Example: `  sinkreach project.yaml                    # Analyze a project bundle
  sinkreach -v project.yaml                # Verbose output
  sinkreach -json project.yaml > out.json  # JSON output to file
  sinkreach --catalog extra.yaml project.yaml  # Extend the sink table`,
		Args:               cobra.ExactArgs(1),
		RunE:               runCommand,
		PersistentPreRunE:  setup,
		PersistentPostRunE: teardown,
		SilenceUsage:       true,
		SilenceErrors:      true,
		Version:            version,
	}

	// Set custom version template to include build info.
	rootCmd.SetVersionTemplate(fmt.Sprintf("sinkreach version %s\n  commit: %s\n  built:  %s\n", version, gitCommit, buildTime))

	// Define flags.
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&cfg.JSON, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&cfg.CatalogFile, "catalog", "", "YAML file with additional sink entries per language")
	rootCmd.PersistentFlags().BoolVar(&cfg.Profile, "profile", false, "Enable CPU and memory profiling (writes cpu.prof and mem.prof to current directory)")

	if err := rootCmd.Execute(); err != nil {
		_ = teardown(nil, nil)
		if err.Error() != "" {
			fmt.Fprintln(os.Stderr, err.Error())
		}
		var cErr codedError
		if errors.As(err, &cErr) {
			os.Exit(cErr.code)
		}
		os.Exit(exitError)
	}
}

func runCommand(cmd *cobra.Command, args []string) error {
	cfg.ProjectFile = args[0]

	slog.Info("starting sink coverage analysis", "project", cfg.ProjectFile)

	result, err := runAnalysis(&cfg)
	if err != nil {
		return errWithCode(fmt.Errorf("analyze: %w", err), exitError)
	}

	if err := writeResults(result, &cfg); err != nil {
		return errWithCode(fmt.Errorf("format results: %w", err), exitError)
	}

	if result.Stats.UncoveredOccurrences > 0 {
		return errWithCode(nil, exitUncoveredFound)
	}
	return nil
}

// Result represents the analysis output for a single project bundle
// including all sink occurrences and execution statistics.
type Result struct {
	Occurrences []sinkreach.Occurrence `json:"occurrences"`
	Stats       struct {
		TotalOccurrences     int           `json:"total_occurrences"`
		ReachableOccurrences int           `json:"reachable_occurrences"`
		CoveredOccurrences   int           `json:"covered_occurrences"`
		UncoveredOccurrences int           `json:"uncovered_occurrences"`
		AnalysisDuration     time.Duration `json:"analysis_duration"`
	} `json:"stats"`
}

func runAnalysis(cfg *Config) (*Result, error) {
	start := time.Now()

	slog.Info("loading project bundle", "path", cfg.ProjectFile)
	project, err := sinkreach.LoadProject(cfg.ProjectFile)
	if err != nil {
		return nil, fmt.Errorf("loading project: %w", err)
	}
	slog.Info("loaded project", "lang", project.TargetLang, "profiles", len(project.Profiles))

	sinkTable := catalog.Default()
	if cfg.CatalogFile != "" {
		slog.Info("loading catalog extensions", "path", cfg.CatalogFile)
		if err := sinkTable.Load(cfg.CatalogFile); err != nil {
			return nil, fmt.Errorf("loading catalog: %w", err)
		}
	}

	slog.Info("running analysis")
	analyzer := sinkreach.NewAnalyzer(sinkreach.AnalyzerOptions{
		Catalog: sinkTable,
	})
	occurrences, err := analyzer.Analyze(project)
	if err != nil {
		return nil, fmt.Errorf("analyze project: %w", err)
	}
	duration := time.Since(start)
	slog.Info("analysis completed", "dur", duration)

	return convertToResult(occurrences, duration), nil
}

func convertToResult(occurrences []sinkreach.Occurrence, dur time.Duration) *Result {
	var r Result
	r.Occurrences = occurrences
	r.Stats.AnalysisDuration = dur

	for _, o := range occurrences {
		r.Stats.TotalOccurrences++
		if o.StaticallyReachable {
			r.Stats.ReachableOccurrences++
		}
		if o.Covered() {
			r.Stats.CoveredOccurrences++
		} else {
			r.Stats.UncoveredOccurrences++
		}
	}

	return &r
}

func writeResults(result *Result, cfg *Config) error {
	var output string
	var err error

	if cfg.JSON {
		output, err = formatJSONOutput(result)
	} else {
		output = formatTextOutput(result, cfg)
	}

	if err != nil {
		return err
	}

	fmt.Print(output)
	return nil
}

func formatJSONOutput(result *Result) (string, error) {
	data, err := json.MarshalIndent(jOutput{
		Occurrences: result.Occurrences,
		Stats:       result.Stats,
		Version:     version,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling json output: %w", err)
	}
	return string(data), nil
}

func formatTextOutput(result *Result, cfg *Config) string {
	var output strings.Builder

	if cfg.Verbose {
		slog.Info("",
			"total_occurrences", result.Stats.TotalOccurrences,
			"reachable_occurrences", result.Stats.ReachableOccurrences,
			"covered_occurrences", result.Stats.CoveredOccurrences,
			"analysis_duration", result.Stats.AnalysisDuration.String())
	}

	if len(result.Occurrences) == 0 {
		slog.Info("no sink occurrences found")
		return output.String()
	}

	for _, o := range result.Occurrences {
		covered := "none"
		if o.Covered() {
			covered = strings.Join(o.CoveredBy, ",")
		}
		// Format: callsite sinkName reachable=bool covered-by=fuzzers
		output.WriteString(fmt.Sprintf("%s %s reachable=%t covered-by=%s\n",
			o.Callsite, o.Sink, o.StaticallyReachable, covered))
	}

	return output.String()
}

type jOutput struct {
	Occurrences []sinkreach.Occurrence `json:"occurrences"`
	Stats       any                    `json:"stats"`
	Version     string                 `json:"version"`
	Timestamp   string                 `json:"timestamp"`
}

var cpuProfile *os.File

func setup(_ *cobra.Command, _ []string) error {
	// Disable logger unless verbose flag is set.
	slog.SetDefault(slog.New(slog.DiscardHandler))
	if cfg.Verbose {
		opts := &slog.HandlerOptions{Level: slog.LevelDebug}
		var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
		if cfg.JSON {
			handler = slog.NewJSONHandler(os.Stderr, opts)
		}
		logger := slog.New(handler)
		slog.SetDefault(logger)
	}

	if !cfg.Profile {
		return nil
	}

	// Start CPU profiling.
	var err error
	cpuProfile, err = os.Create("cpu.prof")
	if err != nil {
		return fmt.Errorf("creating cpu.prof: %w", err)
	}
	if err := pprof.StartCPUProfile(cpuProfile); err != nil {
		_ = cpuProfile.Close()
		return fmt.Errorf("starting CPU profile: %w", err)
	}
	slog.Info("cpu profiling started", "file", "cpu.prof")
	return nil
}

func teardown(_ *cobra.Command, _ []string) error {
	if !cfg.Profile || cpuProfile == nil {
		return nil
	}

	// Stop CPU profiling and close file.
	pprof.StopCPUProfile()
	defer cpuProfile.Close()
	slog.Info("cpu profiling stopped", "file", "cpu.prof")

	// Write memory profile.
	memFile, err := os.Create("mem.prof")
	if err != nil {
		return fmt.Errorf("creating mem.prof: %w", err)
	}
	defer memFile.Close()
	runtime.GC() // Get up-to-date statistics
	if err := pprof.WriteHeapProfile(memFile); err != nil {
		return fmt.Errorf("writing memory profile: %w", err)
	}
	slog.Info("memory profiling completed", "file", "mem.prof")
	return nil
}

func errWithCode(err error, code int) error {
	return &codedError{err: err, code: code}
}

type codedError struct {
	err  error
	code int
}

func (e codedError) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return ""
}
