package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/BlueVenn6/image-quality-checker/internal/config"
	"github.com/BlueVenn6/image-quality-checker/internal/inspect"
	"github.com/BlueVenn6/image-quality-checker/internal/report"
	"github.com/BlueVenn6/image-quality-checker/internal/tui"
)

var (
	checkMinResolution string
	checkMinQuality    float64
	checkRecursive     bool
	checkFormat        string
	checkOutput        string
	checkLang          string
	checkNoReport      bool
	checkWorkers       int
)

var checkCmd = &cobra.Command{
	Use:   "check [path]",
	Short: "Audit a folder or file of images against quality thresholds",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "."
		if len(args) == 1 {
			path = args[0]
		}

		// Flags override the config file only when actually set.
		if cmd.Flags().Changed("min-resolution") {
			w, h, err := config.ParseResolution(checkMinResolution)
			if err != nil {
				return err
			}
			cfg.Thresholds.MinWidth, cfg.Thresholds.MinHeight = w, h
		}
		if cmd.Flags().Changed("min-jpeg-quality") {
			cfg.Thresholds.MinJPEGQuality = checkMinQuality
		}
		if cmd.Flags().Changed("recursive") {
			cfg.Scan.Recursive = checkRecursive
		}
		if cmd.Flags().Changed("workers") {
			cfg.Scan.Workers = checkWorkers
		}
		if cmd.Flags().Changed("lang") {
			cfg.Report.Language = checkLang
		}
		if checkNoReport {
			cfg.Report.WriteFile = false
		}
		if err := config.Validate(cfg); err != nil {
			return err
		}

		format := strings.ToLower(checkFormat)
		switch format {
		case "human", "json", "csv", "sarif":
		default:
			return fmt.Errorf("unknown format %q: expected human, json, csv or sarif", checkFormat)
		}

		catalog := report.Resolve(cfg.Report.Language)

		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("%s: %s", catalog.Get("error_path_not_found"), path)
		}

		opts := inspect.Options{
			Recursive: cfg.Scan.Recursive,
			Workers:   cfg.Scan.Workers,
			Thresholds: inspect.Thresholds{
				MinWidth:       cfg.Thresholds.MinWidth,
				MinHeight:      cfg.Thresholds.MinHeight,
				MinJPEGQuality: cfg.Thresholds.MinJPEGQuality,
			},
			Logger: log,
		}
		log.Debug("starting check",
			"path", path,
			"recursive", opts.Recursive,
			"min_width", opts.Thresholds.MinWidth,
			"min_height", opts.Thresholds.MinHeight,
			"min_jpeg_quality", opts.Thresholds.MinJPEGQuality)

		var (
			summary inspect.RunSummary
			results []inspect.FileResult
		)
		if format == "human" {
			// Live progress only for human output; machine formats must
			// leave stdout byte-stable.
			updates := make(chan inspect.ProgressUpdate, 64)
			program := tea.NewProgram(tui.NewModel(updates))

			uiDone := make(chan struct{})
			go func() {
				_, _ = program.Run()
				close(uiDone)
			}()

			summary, results, err = inspect.Run(context.Background(), path, opts, updates)
			close(updates)
			<-uiDone
		} else {
			summary, results, err = inspect.Run(context.Background(), path, opts, nil)
		}
		if err != nil {
			return err
		}

		if info.IsDir() && len(results) == 0 {
			return fmt.Errorf("%s %s", catalog.Get("error_no_images"), path)
		}

		payload := report.Build(path, summary, results)

		var out io.Writer = os.Stdout
		if checkOutput != "" {
			f, err := os.Create(checkOutput)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer f.Close()
			out = f
		}

		switch format {
		case "json":
			if err := report.WriteJSON(out, payload); err != nil {
				return err
			}
		case "csv":
			if err := report.WriteCSV(out, payload); err != nil {
				return err
			}
		case "sarif":
			if err := report.WriteSARIF(out, payload); err != nil {
				return err
			}
		default:
			report.Render(out, payload, catalog)
			if cfg.Report.WriteFile {
				if reportPath, werr := report.WriteReportFile(reportDir(path, info.IsDir()), payload, catalog); werr == nil {
					fmt.Fprintf(out, "\n%s %s\n", catalog.Get("report_saved"), reportPath)
				} else {
					log.Warn("report file not written", "error", werr)
					fmt.Fprintf(out, "\n%s: %v\n", catalog.Get("report_save_failed"), werr)
				}
			}
		}

		exitCode = summary.Status.ExitCode()
		return nil
	},
}

// reportDir is where quality_report.txt lands: the scanned folder, or the
// parent folder when a single file was named.
func reportDir(path string, isDir bool) string {
	if isDir {
		return path
	}
	if abs, err := filepath.Abs(path); err == nil {
		return filepath.Dir(abs)
	}
	return filepath.Dir(path)
}

func init() {
	checkCmd.Flags().StringVar(&checkMinResolution, "min-resolution", "1600x1600", "minimum acceptable resolution as WIDTHxHEIGHT")
	checkCmd.Flags().Float64Var(&checkMinQuality, "min-jpeg-quality", 60, "minimum acceptable estimated JPEG quality, 0 disables the check")
	checkCmd.Flags().BoolVarP(&checkRecursive, "recursive", "r", false, "descend into subdirectories")
	checkCmd.Flags().StringVar(&checkFormat, "format", "human", "report format: human, json, csv or sarif")
	checkCmd.Flags().StringVarP(&checkOutput, "output", "o", "", "write the report to a file instead of stdout")
	checkCmd.Flags().StringVar(&checkLang, "lang", "", "report language: en or zh (default IMGCHECK_LANG, then en)")
	checkCmd.Flags().BoolVar(&checkNoReport, "no-report", false, "skip writing quality_report.txt into the scanned folder")
	checkCmd.Flags().IntVar(&checkWorkers, "workers", 0, "concurrent workers, 0 means one per CPU")

	rootCmd.AddCommand(checkCmd)
}
