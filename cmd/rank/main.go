// Package main provides the rank command, which turns a survey export into
// a weighted product leaderboard.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"surveyrank/internal/config"
	"surveyrank/internal/formatter"
	"surveyrank/internal/loader"
	"surveyrank/internal/logger"
	"surveyrank/internal/normalizer"
	"surveyrank/internal/ranking"
	"surveyrank/internal/validator"
	"surveyrank/pkg/metadata"
)

const version = "1.0.0"

const (
	exitOK          = 0
	exitError       = 1
	exitCheckFailed = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)

	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("rank", flag.ContinueOnError)
	fs.SetOutput(stderr)

	configPath := fs.String("config", "", "Path to YAML config file")
	envFile := fs.String("env-file", ".env", "Dotenv file loaded before reading SURVEYRANK_* variables")
	input := fs.String("input", "", "Path to the survey export (.csv or .xlsx, '-' for stdin)")
	url := fs.String("url", "", "URL of the survey export")
	sheet := fs.String("sheet", "", "Workbook sheet to read (default: first sheet)")
	delimiter := fs.String("delimiter", "", "Field delimiter for delimited input (default ';')")
	rankMin := fs.Int("rank-min", 0, "Smallest rank value")
	rankMax := fs.Int("rank-max", 0, "Largest rank value")
	includeLastRow := fs.Bool("include-last-row", false, "Rank the final data row too")
	duplicates := fs.String("duplicates", "", "Duplicate identifier policy: reject or merge")
	allowUnicode := fs.Bool("unicode", false, "Keep non-ASCII letters in product identifiers")
	format := fs.String("format", "", "Output format: markdown, json or csv")
	output := fs.String("output", "", "Output file (default: stdout)")
	top := fs.Int("top", 0, "Only render the first N products")
	sign := fs.Bool("sign", false, "Append a signed metadata block to markdown output")
	check := fs.Bool("check", false, "Validate every row before ranking; exit 2 on problems")
	logLevel := fs.String("log-level", "", "Log level: debug, info, warn, error")
	saveConfig := fs.String("save-config", "", "Write the effective configuration to this YAML file and exit")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}

		return exitError
	}

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(stderr, "❌ Failed to load %s: %v\n", *envFile, err)
		return exitError
	}

	cfg := config.Default()

	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "❌ %v\n", err)
			return exitError
		}

		cfg = loaded
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		fmt.Fprintf(stderr, "❌ Invalid environment: %v\n", err)
		return exitError
	}

	// Explicit flags win over file and environment.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			cfg.Input.Path = *input
		case "url":
			cfg.Input.URL = *url
		case "sheet":
			cfg.Input.Sheet = *sheet
		case "delimiter":
			cfg.Input.Delimiter = *delimiter
		case "include-last-row":
			cfg.Input.IncludeLastRow = *includeLastRow
		case "rank-min":
			cfg.Ranking.RankMin = *rankMin
		case "rank-max":
			cfg.Ranking.RankMax = *rankMax
		case "duplicates":
			cfg.Ranking.Duplicates = *duplicates
		case "unicode":
			cfg.Ranking.AllowUnicode = *allowUnicode
		case "format":
			cfg.Output.Format = *format
		case "output":
			cfg.Output.Path = *output
		case "top":
			cfg.Output.Top = *top
		case "sign":
			cfg.Output.Sign = *sign
		case "log-level":
			cfg.Logging.Level = *logLevel
		}
	})

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "❌ Invalid configuration: %v\n", err)
		return exitError
	}

	if *saveConfig != "" {
		if err := cfg.SaveConfig(*saveConfig); err != nil {
			fmt.Fprintf(stderr, "❌ %v\n", err)
			return exitError
		}

		fmt.Fprintf(stderr, "✅ Configuration written to %s\n", *saveConfig)

		return exitOK
	}

	if err := cfg.RequireInput(); err != nil {
		fmt.Fprintf(stderr, "❌ %v\n", err)
		fs.PrintDefaults()

		return exitError
	}

	log := logger.New(logger.Options{
		Output: stderr,
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	return rank(ctx, cfg, *check, stdout, stderr, log)
}

func rank(ctx context.Context, cfg *config.Config, check bool, stdout, stderr io.Writer, log *logger.Logger) int {
	start := time.Now()

	log.Info("Starting ranking run", "config", cfg.String())

	delim, _ := cfg.DelimiterRune()

	policy, err := normalizer.ParseDuplicatePolicy(cfg.Ranking.Duplicates)
	if err != nil {
		log.Error("Invalid duplicate policy", "error", err)
		return exitError
	}

	ld := loader.New(loader.NewFetcherWithConfig(cfg.Retry, log), log)

	table, err := ld.Load(ctx, loader.Source{
		Path:      cfg.Input.Path,
		URL:       cfg.Input.URL,
		Delimiter: delim,
		Sheet:     cfg.Input.Sheet,
	})
	if err != nil {
		log.Error("Load failed", "error", err)
		return exitError
	}

	validated := false

	if check {
		slug := normalizer.Slugify
		if cfg.Ranking.AllowUnicode {
			slug = normalizer.SlugifyUnicode
		}

		result := validator.NewTableValidator(validator.Options{
			Domain:         cfg.Domain(),
			IncludeLastRow: cfg.Input.IncludeLastRow,
			Policy:         policy,
			Slug:           slug,
		}).Validate(table)

		fmt.Fprintln(stderr, result.String())
		result.PrintWarnings(stderr)
		result.PrintErrors(stderr)

		if !result.IsValid {
			return exitCheckFailed
		}

		validated = true
	}

	engine, err := ranking.NewWithOptions(cfg.Domain(), ranking.Options{
		Logger:         log,
		Duplicates:     policy,
		IncludeLastRow: cfg.Input.IncludeLastRow,
		AllowUnicode:   cfg.Ranking.AllowUnicode,
	})
	if err != nil {
		log.Error("Invalid rank domain", "error", err)
		return exitError
	}

	lb, err := engine.BuildProductRankings(table)
	if err != nil {
		log.Error("Ranking failed", "error", err)
		return exitError
	}

	format, err := formatter.ParseFormat(cfg.Output.Format)
	if err != nil {
		log.Error("Invalid output format", "error", err)
		return exitError
	}

	report, err := formatter.Render(lb, formatter.Options{
		Format:    format,
		Top:       cfg.Output.Top,
		Pretty:    cfg.Output.PrettyPrint,
		Delimiter: delim,
	})
	if err != nil {
		log.Error("Render failed", "error", err)
		return exitError
	}

	if cfg.Output.Sign {
		if format == formatter.Markdown {
			report = metadata.Sign(report, metadata.SignOptions{
				Validated:   validated,
				Version:     version,
				RunID:       lb.RunID,
				Respondents: lb.Respondents,
			}) + "\n"
		} else {
			log.Warn("Signing only applies to markdown output", "format", format)
		}
	}

	if err := write(cfg.Output.Path, report, stdout); err != nil {
		log.Error("Write failed", "error", err)
		return exitError
	}

	log.Info("Ranking complete",
		"run_id", lb.RunID,
		"products", len(lb.Scores),
		"respondents", lb.Respondents,
		"duration", time.Since(start),
	)

	return exitOK
}

func write(path, report string, stdout io.Writer) error {
	if path == "" {
		_, err := io.WriteString(stdout, report)
		return err
	}

	if err := os.WriteFile(path, []byte(report), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}
