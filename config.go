package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/dnldd/marketpulse/shared"
	"github.com/joho/godotenv"
)

// defaultTickers are the tickers analyzed when none are configured.
var defaultTickers = []string{"AAPL", "TSLA", "GOOGL", "MSFT", "NVDA"}

const (
	// defaultLookbackDays is the analysis period length when no start date
	// is configured.
	defaultLookbackDays = 365
)

// Config is the configuration struct for the service.
type Config struct {
	// Tickers represents the analyzed tickers.
	Tickers []string
	// Start is the analysis period start date (YYYY-MM-DD).
	Start string
	// End is the analysis period end date (YYYY-MM-DD).
	End string
	// FMPAPIKey is the FMP service API Key.
	FMPAPIKey string
	// HistoricDataDir is the directory holding per-ticker historic data
	// files, used instead of the FMP service when set.
	HistoricDataDir string
	// OutputDir is the directory chart artifacts are written to.
	OutputDir string
	// WatchMinutes re-runs the analysis at the provided interval when set.
	WatchMinutes int

	registeredFlags map[string]bool
}

// Validate asserts the config sane inputs.
func (cfg *Config) Validate() error {
	var errs error

	if cfg.FMPAPIKey == "" && cfg.HistoricDataDir == "" {
		errs = errors.Join(errs, fmt.Errorf("either an fmp api key or a historic data directory is required"))
	}
	if cfg.WatchMinutes < 0 {
		errs = errors.Join(errs, fmt.Errorf("watch interval cannot be negative"))
	}

	_, _, err := cfg.DateRange()
	if err != nil {
		errs = errors.Join(errs, err)
	}

	return errs
}

// DateRange resolves the configured analysis period, defaulting to the
// trailing year ending today.
func (cfg *Config) DateRange() (time.Time, time.Time, error) {
	end := time.Now().UTC().Truncate(time.Hour * 24)
	if cfg.End != "" {
		parsed, err := time.Parse(shared.DateLayout, cfg.End)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("parsing end date: %w", err)
		}
		end = parsed
	}

	start := end.AddDate(0, 0, -defaultLookbackDays)
	if cfg.Start != "" {
		parsed, err := time.Parse(shared.DateLayout, cfg.Start)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("parsing start date: %w", err)
		}
		start = parsed
	}

	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid date range: start %s is after end %s",
			start.Format(shared.DateLayout), end.Format(shared.DateLayout))
	}

	return start, end, nil
}

// registerFlag registers command line arguments of any type and tracks them to avoid reregistration.
func (cfg *Config) registerFlag(name string, value interface{}, usage string) error {
	if cfg.registeredFlags == nil {
		cfg.registeredFlags = make(map[string]bool)
	}

	if cfg.registeredFlags[name] {
		return nil
	}

	cfg.registeredFlags[name] = true

	defValue := os.Getenv(name)
	val := reflect.ValueOf(value)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return fmt.Errorf("%s: value must be a non-nil pointer", name)
	}

	switch val.Elem().Kind() {
	case reflect.String:
		flag.StringVar(value.(*string), name, defValue, usage)
	case reflect.Bool:
		var def bool
		if defValue != "" {
			def, _ = strconv.ParseBool(defValue)
		}
		flag.BoolVar(value.(*bool), name, def, usage)
	case reflect.Int:
		var def int
		if defValue != "" {
			def, _ = strconv.Atoi(defValue)
		}
		flag.IntVar(value.(*int), name, def, usage)
	case reflect.Slice:
		// Only handle []string
		if val.Elem().Type().Elem().Kind() == reflect.String {
			var def []string
			if defValue != "" {
				def = strings.Split(defValue, ",")
			}
			flag.Func(name, usage, func(s string) error {
				*value.(*[]string) = strings.Split(s, ",")
				return nil
			})
			// Set default if not provided via flag
			if len(def) > 0 {
				*value.(*[]string) = def
			}
		} else {
			return fmt.Errorf("%s: unsupported slice type", name)
		}
	default:
		return fmt.Errorf("%s: unsupported type", name)
	}

	return nil
}

// loadConfig loads the configuration from environment variables and command line flags.
func loadConfig(cfg *Config, path string) error {
	if path == "" {
		path = ".env"
	}

	// Check if the expected .env file exists before loading it.
	_, err := os.Stat(path)
	if err == nil {
		err := godotenv.Load(path)
		if err != nil {
			return fmt.Errorf("loading .env file: %w", err)
		}
	}

	// Register command line arguments using loaded environment variables as defaults.
	err = cfg.registerFlag("tickers", &cfg.Tickers, "the analyzed tickers")
	if err != nil {
		return err
	}
	err = cfg.registerFlag("start", &cfg.Start, "the analysis period start date (YYYY-MM-DD)")
	if err != nil {
		return err
	}
	err = cfg.registerFlag("end", &cfg.End, "the analysis period end date (YYYY-MM-DD)")
	if err != nil {
		return err
	}
	err = cfg.registerFlag("fmpapikey", &cfg.FMPAPIKey, "the FMP api key")
	if err != nil {
		return err
	}
	err = cfg.registerFlag("historicdatadir", &cfg.HistoricDataDir, "the historic data directory")
	if err != nil {
		return err
	}
	err = cfg.registerFlag("outputdir", &cfg.OutputDir, "the chart output directory")
	if err != nil {
		return err
	}
	err = cfg.registerFlag("watchminutes", &cfg.WatchMinutes, "the analysis refresh interval in minutes")
	if err != nil {
		return err
	}

	// Parse command-line flags.
	flag.Parse()

	if len(cfg.Tickers) == 0 {
		cfg.Tickers = defaultTickers
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}

	return cfg.Validate()
}
