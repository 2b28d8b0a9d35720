package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"probate-records/lib/browser"
	"probate-records/lib/records"
	"probate-records/lib/scrapers/probate"
	"probate-records/lib/timezone"
	"time"

	"github.com/spf13/cobra"
)

var (
	scrapeDate    *string
	scrapeApiKey  *string
	scrapeOut     *string
	scrapeHeadful *bool
)

func init() {
	scrapeDate = scrapeCmd.Flags().String("date", "", "The filing date to search for (YYYY-MM-DD), prompted for when empty.")
	scrapeApiKey = scrapeCmd.Flags().String("api-key", "", "The Anti-Captcha API key, prompted for when not configured.")
	scrapeOut = scrapeCmd.Flags().String("out", ".", "The directory the CSV file is written to.")
	scrapeHeadful = scrapeCmd.Flags().Bool("headful", false, "Show the browser window while scraping.")
	rootCmd.AddCommand(scrapeCmd)
}

type scrapeOptions struct {
	request    probate.SearchRequest
	outputDir  string
	headless   bool
	chromePath string
}

func resolveScrapeOptions(cmd *cobra.Command, cfg Config) (scrapeOptions, error) {
	opts := scrapeOptions{
		request:    probate.SearchRequest{ApiKey: cfg.ApiKey},
		outputDir:  cfg.OutputDir,
		headless:   !cfg.Headful,
		chromePath: cfg.ChromePath,
	}
	if cmd.Flags().Changed("api-key") {
		opts.request.ApiKey = *scrapeApiKey
	}
	if cmd.Flags().Changed("out") || opts.outputDir == "" {
		opts.outputDir = *scrapeOut
	}
	if cmd.Flags().Changed("headful") {
		opts.headless = !*scrapeHeadful
	}

	var err error
	if *scrapeDate != "" {
		opts.request.Date, err = timezone.ParseDate(*scrapeDate)
	} else {
		opts.request.Date, err = promptDate(stdin, timezone.Today())
	}
	if err != nil {
		return opts, fmt.Errorf("invalid date: %w", err)
	}
	if opts.request.ApiKey == "" {
		opts.request.ApiKey, err = promptApiKey()
		if err != nil {
			return opts, fmt.Errorf("failed to read api key: %w", err)
		}
	}

	err = opts.request.Validate(timezone.Today())
	return opts, err
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--date YYYY-MM-DD] [--api-key KEY] [--out DIR] [--headful]",
	Short: "Searches the probate court for cases filed on a day and writes them to a CSV file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := readConfig()
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}
		opts, err := resolveScrapeOptions(cmd, cfg)
		if err != nil {
			return err
		}

		solver, err := newSolver(opts.request.ApiKey)
		if err != nil {
			return err
		}

		printInfo("Starting browser...")
		b, err := browser.Launch(ctx, browser.Options{
			Headless: opts.headless,
			ExecPath: opts.chromePath,
		})
		if err != nil {
			return fmt.Errorf("failed to start browser: %w", err)
		}
		defer b.Close()

		start := time.Now()
		navigator := probate.NewNavigator(b.Page(), solver, statusReporter{}, probate.Options{})
		result, err := navigator.Run(ctx, opts.request.Date)
		if err != nil {
			return err
		}
		slog.DebugContext(ctx, "scrape finished", "cases", result.Len(), "seconds", time.Since(start).Seconds())

		if result.Len() == 0 {
			printInfo(fmt.Sprintf("No cases were filed on %s, nothing was written.", opts.request.Date.Format(time.DateOnly)))
			return nil
		}

		resultTable(result).Render()

		path, err := writeResult(opts.outputDir, opts.request.Date, result)
		if err != nil {
			return err
		}
		printSuccess(fmt.Sprintf("Wrote %d cases to %s", result.Len(), path))
		return nil
	},
}

func writeResult(dir string, date time.Time, result records.ResultSet) (string, error) {
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, records.Filename(date))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	err = result.WriteCSV(f)
	if err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
