package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/sokinpui/commafix/internal/logging"
	"github.com/sokinpui/commafix/internal/ui"
	"github.com/sokinpui/commafix/internal/verify"
)

const defaultBaseURL = "http://localhost:2945"

func main() {
	os.Exit(run())
}

func run() int {
	// A missing .env is fine; flags and the environment still apply.
	_ = godotenv.Load()

	var (
		baseURL     = envOr("SETTINGS_URL", defaultBaseURL)
		bin         = os.Getenv("BROWSER_BIN")
		shots       string
		headful     bool
		navTimeout  time.Duration
		elemTimeout time.Duration
		verbose     bool
	)
	flags := pflag.NewFlagSet("verify-settings", pflag.ContinueOnError)
	flags.StringVar(&baseURL, "url", baseURL, "Base URL of the running app ($SETTINGS_URL).")
	flags.StringVar(&bin, "bin", bin, "Browser binary ($BROWSER_BIN, default: auto-detect or download).")
	flags.StringVar(&shots, "screenshots", "verification", "Directory for screenshots; empty disables them.")
	flags.BoolVar(&headful, "headful", false, "Show the browser window.")
	flags.DurationVar(&navTimeout, "timeout", 30*time.Second, "Page load timeout.")
	flags.DurationVar(&elemTimeout, "element-timeout", 5*time.Second, "How long to wait for each element.")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Write debug logs to stderr.")
	flags.Usage = func() {
		fmt.Println("Usage: verify-settings [flags]")
		fmt.Println("\nCheck the /settings page of a running app in a headless browser.")
		fmt.Println("\nFlags:")
		flags.PrintDefaults()
	}
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	logger, err := logging.New(verbose, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	printer := ui.New(nil, nil)
	url := strings.TrimRight(baseURL, "/") + "/settings"

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	printer.Header("--- Verifying %s ---", url)
	checker := verify.New(verify.Config{
		URL:            url,
		Headless:       !headful,
		Bin:            bin,
		ScreenshotDir:  shots,
		NavTimeout:     navTimeout,
		ElementTimeout: elemTimeout,
	}, logger)

	report, err := checker.Run(ctx, verify.SettingsChecks())
	if report != nil {
		printReport(printer, report)
	}
	if err != nil {
		logger.Error("Verification failed", zap.Error(err))
		printer.Error("Error: %v", err)
		return 1
	}
	printer.Success("\nAll checks passed.")
	return 0
}

func printReport(p *ui.Printer, report *verify.Report) {
	if report.Title != "" {
		p.Info("Page title: %s", report.Title)
	}
	for _, res := range report.Results {
		if res.Err != nil {
			p.Error("  FAIL %s: %v", res.Check, res.Err)
			continue
		}
		p.Success("  ok   %s", res.Check)
	}
	for _, s := range report.Screenshots {
		p.Path("Screenshot saved to %s", s)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
