// Command nezamcrawler scrapes the Medical Council member directory for one
// province and specialty and exports the doctors found.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lazuli-inc/nezamcrawler"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

const (
	defaultProvince  = "مازندران"
	defaultSpecialty = "تخصص تصویربرداری (رادیولوژی)"
)

type scrapeOptions struct {
	Province  string
	Specialty string
	Output    string
	Format    string
	Adapter   string
	Browser   string
	Headless  bool
	// HeadlessSet is true when --headless was given; otherwise NEZAM_HEADLESS applies.
	HeadlessSet bool
	NavTimeout  time.Duration
	NoPersist   bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "nezamcrawler",
		Short:         "Medical Council member directory crawler",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(newScrapeCmd())
	return rootCmd
}

func newScrapeCmd() *cobra.Command {
	opts := &scrapeOptions{}

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape every doctor of a specialty in a province",
		Example: `  # All radiologists in Mazandaran, exported to DoctorsList.xlsx
  nezamcrawler scrape

  # Another province, csv output through rod
  nezamcrawler scrape --province=تهران --format=csv --out=tehran.csv --adapter=rod`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			opts.HeadlessSet = cmd.Flags().Changed("headless")
			return runScrape(ctx, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Province, "province", defaultProvince, "province name as listed in the directory")
	cmd.Flags().StringVar(&opts.Specialty, "specialty", defaultSpecialty, "specialty name as listed in the directory")
	cmd.Flags().StringVar(&opts.Output, "out", "DoctorsList.xlsx", "export file path")
	cmd.Flags().StringVar(&opts.Format, "format", nezamcrawler.FormatXLSX, "export format: xlsx or csv")
	cmd.Flags().StringVar(&opts.Adapter, "adapter", "", "browser adapter: playwright, rod or chromedp")
	cmd.Flags().StringVar(&opts.Browser, "browser", "", "playwright browser: chromium, firefox or webkit")
	cmd.Flags().BoolVar(&opts.Headless, "headless", true, "run the browser headless")
	cmd.Flags().DurationVar(&opts.NavTimeout, "nav-timeout", 0, "wait bound for pagination controls (default 15s)")
	cmd.Flags().BoolVar(&opts.NoPersist, "no-persist", false, "skip the configured store and BigQuery sinks")
	return cmd
}

// engine leaves unset flags empty so configuration can fill them.
func (o *scrapeOptions) engine() nezamcrawler.Engine {
	eng := nezamcrawler.Engine{
		Adapter:           o.Adapter,
		BrowserType:       o.Browser,
		NavigationTimeout: o.NavTimeout,
	}
	if o.HeadlessSet {
		eng.Headless = nezamcrawler.Bool(o.Headless)
	}
	return eng
}

func runScrape(ctx context.Context, opts *scrapeOptions) error {
	crawler := nezamcrawler.NewCrawler(opts.engine())
	if opts.NoPersist {
		crawler.SkipSinks()
	}

	var bar *progressbar.ProgressBar
	crawler.OnProgress(func(p nezamcrawler.Progress) {
		if bar == nil {
			bar = progressbar.NewOptions(p.Total,
				progressbar.OptionSetDescription("Processing cities"),
				progressbar.OptionShowCount(),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "=",
					SaucerHead:    ">",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
			)
		}
		bar.Describe(fmt.Sprintf("%s (%d doctors)", p.City, p.Records))
		_ = bar.Set(p.Index)
	})

	return crawler.Handle(ctx, func(c *nezamcrawler.Crawler) error {
		startedAt := time.Now()
		doctors, err := c.Scrape(ctx, opts.Province, opts.Specialty)
		if bar != nil {
			_ = bar.Finish()
			fmt.Println()
		}
		if err != nil {
			return err
		}

		unique := nezamcrawler.DedupeByNezam(doctors)
		path, err := c.Export(ctx, opts.Output, opts.Format, unique)
		if err != nil {
			return err
		}
		fmt.Printf("Saved %d doctors (%d before dedupe) to %s\n", len(unique), len(doctors), path)

		if opts.NoPersist {
			return nil
		}
		if err := c.Persist(ctx, unique); err != nil {
			return err
		}
		return c.RecordRun(ctx, nezamcrawler.RunSummary{
			Province:  opts.Province,
			Specialty: opts.Specialty,
			Doctors:   len(unique),
			StartedAt: startedAt,
			EndedAt:   time.Now(),
		})
	})
}
