package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/1cbyc/view0x/internal/cache"
	"github.com/1cbyc/view0x/internal/config"
	"github.com/1cbyc/view0x/internal/engine"
	"github.com/1cbyc/view0x/internal/fp"
	"github.com/1cbyc/view0x/internal/ingest"
	"github.com/1cbyc/view0x/internal/model"
	"github.com/1cbyc/view0x/internal/report"
	"github.com/1cbyc/view0x/internal/scanners"
	"github.com/1cbyc/view0x/internal/tui"
)

func AddCommands(root *cobra.Command) {
	root.AddCommand(newAnalyzeCmd())
	root.AddCommand(newDepsCmd())
	root.AddCommand(newFPCmd())
	root.AddCommand(newInitCmd())
}

func newLogger(verbose bool) hclog.Logger {
	level := hclog.Info
	if verbose {
		level = hclog.Debug
	}
	return hclog.New(&hclog.LoggerOptions{Name: "view0x", Output: os.Stderr, Level: level})
}

func newAnalyzeCmd() *cobra.Command {
	var (
		oldFile     string
		findings    []string
		format      string
		outputFile  string
		fpDataFile  string
		redisURL    string
		useTUI      bool
		verbose     bool
		skipBuiltin bool
	)
	cmd := &cobra.Command{
		Use:   "analyze <file> [sibling files...]",
		Short: "Analyze a unit, merging cached results and external findings",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(verbose)

			content, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			unit := filepath.Base(args[0])

			units := map[string]string{}
			for _, sibling := range args[1:] {
				b, err := os.ReadFile(sibling)
				if err != nil {
					return err
				}
				units[filepath.Base(sibling)] = string(b)
			}

			var prior string
			if oldFile != "" {
				b, err := os.ReadFile(oldFile)
				if err != nil {
					return err
				}
				prior = string(b)
			}

			cfg, _, err := config.Load(filepath.Dir(args[0]))
			if err != nil {
				return err
			}
			if redisURL != "" {
				cfg.RedisURL = redisURL
			}

			raw, tools, err := loadFindings(findings)
			if err != nil {
				return err
			}
			if !skipBuiltin {
				reg := scanners.NewRegistry()
				reg.RegisterBuiltin()
				raw = append(raw, reg.Run(cmd.Context(), unit, string(content))...)
				tools = append(tools, "builtin")
			}

			store, err := buildStore(cfg)
			if err != nil {
				return err
			}
			fps := fp.New(fp.Options{
				LocationTolerance:   cfg.LocationTolerance,
				MinVerifiedReports:  cfg.MinVerifiedReports,
				ConfidenceThreshold: cfg.ConfidenceThreshold,
			}, logger)
			if fpDataFile != "" {
				if err := importFPData(fps, fpDataFile); err != nil {
					return err
				}
			}

			eng := engine.New(cfg, store, fps, logger)
			result, err := eng.Analyze(cmd.Context(), engine.Request{
				Unit:         unit,
				Content:      string(content),
				PriorContent: prior,
				Units:        units,
				Findings:     raw,
				Tools:        tools,
			})
			if err != nil {
				return err
			}

			if useTUI {
				return tui.Run(result)
			}
			return writeReport(cmd, result, format, outputFile)
		},
	}
	cmd.Flags().StringVar(&oldFile, "old", "", "Prior revision of the unit for incremental analysis")
	cmd.Flags().StringArrayVar(&findings, "findings", nil, "External findings as tool:path (slither, mythril, or plain issue JSON)")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table|json|sarif")
	cmd.Flags().StringVarP(&outputFile, "out", "o", "", "Write report to file instead of stdout")
	cmd.Flags().StringVar(&fpDataFile, "fp-data", "", "False positive dataset to load for suppression")
	cmd.Flags().StringVar(&redisURL, "redis", "", "Redis URL for a shared analysis cache")
	cmd.Flags().BoolVar(&useTUI, "tui", false, "Render interactive TUI output")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
	cmd.Flags().BoolVar(&skipBuiltin, "no-builtin", false, "Skip the built-in heuristic detectors")
	return cmd
}

// loadFindings reads each tool:path pair and normalizes it into issues. A
// bare path is decoded as a plain issue array.
func loadFindings(specs []string) ([]model.Issue, []string, error) {
	var issues []model.Issue
	var tools []string
	for _, spec := range specs {
		tool, path := "generic", spec
		if i := strings.IndexByte(spec, ':'); i > 0 {
			tool, path = spec[:i], spec[i+1:]
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, err
		}
		normalized, err := ingest.Normalize(tool, raw)
		if err != nil {
			return nil, nil, err
		}
		issues = append(issues, normalized...)
		tools = append(tools, tool)
	}
	return issues, tools, nil
}

func buildStore(cfg config.Config) (cache.Store, error) {
	ttl := time.Duration(cfg.CacheTTLHours) * time.Hour
	if cfg.RedisURL == "" {
		return cache.NewMemory(ttl), nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return cache.NewRedis(redis.NewClient(opts), ttl), nil
}

func writeReport(cmd *cobra.Command, result *model.Report, format, outputFile string) error {
	out := cmd.OutOrStdout()
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case "sarif":
		return report.WriteSARIF(result, out)
	default:
		s := result.Summary
		fmt.Fprintf(out, "Issues: %d (high=%d medium=%d low=%d) score=%d risk=%s\n",
			s.TotalIssues, s.HighSeverity, s.MediumSeverity, s.LowSeverity, s.OverallScore, s.RiskLevel)
		if result.Metadata.Incremental && result.Metadata.ChangeSet != nil {
			c := result.Metadata.ChangeSet
			fmt.Fprintf(out, "Incremental: +%d ~%d -%d lines\n", c.Added, c.Modified, c.Removed)
		}
		for _, issue := range result.AllIssues() {
			line := 0
			if issue.Location != nil {
				line = issue.Location.Line
			}
			suffix := ""
			if issue.Suppressed {
				suffix = " [suppressed]"
			}
			fmt.Fprintf(out, "- %s [%s] line %d: %s%s\n", issue.Type, issue.Severity, line, issue.Description, suffix)
		}
		return nil
	}
}
