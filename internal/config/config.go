// Package config holds the single configuration structure handed to the fetch
// and consolidate entry points.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"highwatch/internal/components/configutil"
	"highwatch/internal/components/telemetry"

	"dario.cat/mergo"
)

// FileName is the configuration file searched for when no explicit path is given.
const FileName = "highwatch.json5"

var (
	ErrConfigNotSet  = errors.New("data endpoint is not configured, set fetch.endpoint in highwatch.json5 or pass --endpoint")
	ErrConfigInvalid = errors.New("invalid config")
)

// Duration is a time.Duration that unmarshals from either a duration string ("1.5s")
// or a plain number of seconds.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(data []byte) error {
	text := strings.Trim(strings.TrimSpace(string(data)), `"'`)
	if text == "" || text == "null" {
		return nil
	}
	seconds, err := strconv.ParseFloat(text, 64)
	if err == nil {
		*d = Duration(seconds * float64(time.Second))
		return nil
	}
	parsed, err := time.ParseDuration(text)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

type BrowserWarmup struct {
	Enabled  bool   `json:"enabled"`
	Headless bool   `json:"headless"`
	Bin      string `json:"bin"`
	// NoSandbox is usually required when running as root inside containers.
	NoSandbox bool `json:"no_sandbox"`
}

type Fetch struct {
	Endpoint string `json:"endpoint"`
	// WarmupUrls are requested in order before the first attempt and before every retry.
	WarmupUrls []string `json:"warmup_urls"`
	// RetryReferer replaces the Referer after a 401/403.
	RetryReferer string `json:"retry_referer"`
	Referer      string `json:"referer"`

	MaxAttempts    int      `json:"max_attempts"`
	RequestTimeout Duration `json:"request_timeout"`
	WarmupDelay    Duration `json:"warmup_delay"`
	BackoffBase    Duration `json:"backoff_base"`
	RejectionDelay Duration `json:"rejection_delay"`
	// MaxElapsed bounds the wall-clock time spent retrying.
	MaxElapsed Duration `json:"max_elapsed"`

	RecordKeys []string `json:"record_keys"`

	UserAgent        string `json:"user_agent"`
	AcceptLanguage   string `json:"accept_language"`
	RandomUserAgent  bool   `json:"random_user_agent"`
	FetchMetadata    bool   `json:"fetch_metadata"`
	CloudflareBypass bool   `json:"cloudflare_bypass"`

	BrowserWarmup BrowserWarmup `json:"browser_warmup"`

	OutputDir  string `json:"output_dir"`
	FilePrefix string `json:"file_prefix"`
}

type Consolidate struct {
	DailyDir   string `json:"daily_dir"`
	WeeklyDir  string `json:"weekly_dir"`
	FilePrefix string `json:"file_prefix"`
	// Days restricts the inputs to files dated within the last N days, 0 takes every file.
	Days int `json:"days"`
}

type Config struct {
	Timezone    string           `json:"timezone"`
	Fetch       Fetch            `json:"fetch"`
	Consolidate Consolidate      `json:"consolidate"`
	Telemetry   telemetry.Config `json:"telemetry"`
}

const (
	DefaultHomepage   = "https://www.nseindia.com"
	DefaultFilePrefix = "52week_high"
	DefaultUserAgent  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"
)

// DefaultRecordKeys are the conventional keys a record list is found under, in priority order.
var DefaultRecordKeys = []string{"data", "result", "rows", "items", "records"}

func Defaults() Config {
	return Config{
		Fetch: Fetch{
			WarmupUrls: []string{
				DefaultHomepage,
				DefaultHomepage + "/market-data/live-equity-market",
				DefaultHomepage + "/market-data/52-week-high-equity-market",
			},
			Referer:        DefaultHomepage,
			RetryReferer:   DefaultHomepage + "/market-data/52-week-high-equity-market",
			MaxAttempts:    3,
			RequestTimeout: Duration(20 * time.Second),
			WarmupDelay:    Duration(800 * time.Millisecond),
			BackoffBase:    Duration(2 * time.Second),
			RejectionDelay: Duration(2 * time.Second),
			MaxElapsed:     Duration(2 * time.Minute),
			RecordKeys:     append([]string(nil), DefaultRecordKeys...),
			UserAgent:      DefaultUserAgent,
			AcceptLanguage: "en-US,en;q=0.9",
			FetchMetadata:  true,
			BrowserWarmup: BrowserWarmup{
				Headless: true,
			},
			OutputDir:  "data",
			FilePrefix: DefaultFilePrefix,
		},
		Consolidate: Consolidate{
			DailyDir:   "data",
			WeeklyDir:  "weekly",
			FilePrefix: DefaultFilePrefix,
		},
	}
}

// Override returns f with every non-zero field of `o` applied on top, used for
// command line flags.
func (f Fetch) Override(o Fetch) (Fetch, error) {
	err := mergo.Merge(&f, o, mergo.WithOverride)
	if err != nil {
		return f, err
	}
	return f, nil
}

// Load reads the configuration at `path`, or searches for FileName upwards from
// the working directory when `path` is empty. The file is decoded on top of
// Defaults, so a field set to zero in the file stays zero. A missing file is only
// an error when `path` was given.
func Load(path string) (Config, error) {
	var (
		cfg Config
		err error
	)
	if path != "" {
		cfg, err = configutil.ReadConfig(path, Defaults())
	} else {
		cfg, err = configutil.ReadRecursively(".", FileName, Defaults())
	}
	if os.IsNotExist(err) && path == "" {
		return Defaults(), nil
	}
	if os.IsNotExist(err) {
		return Config{}, fmt.Errorf("read config: %s: %w", path, err)
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return cfg, nil
}

// Validate checks the fields the fetcher cannot run without.
func (f Fetch) Validate() error {
	if strings.TrimSpace(f.Endpoint) == "" {
		return ErrConfigNotSet
	}
	if f.MaxAttempts < 1 {
		return fmt.Errorf("%w: fetch.max_attempts must be at least 1, got %d", ErrConfigInvalid, f.MaxAttempts)
	}
	if f.FilePrefix == "" {
		return fmt.Errorf("%w: fetch.file_prefix must not be empty", ErrConfigInvalid)
	}
	return nil
}

func (c Consolidate) Validate() error {
	if c.DailyDir == "" || c.WeeklyDir == "" {
		return fmt.Errorf("%w: consolidate.daily_dir and consolidate.weekly_dir must be set", ErrConfigInvalid)
	}
	if c.Days < 0 {
		return fmt.Errorf("%w: consolidate.days must not be negative, got %d", ErrConfigInvalid, c.Days)
	}
	return nil
}
