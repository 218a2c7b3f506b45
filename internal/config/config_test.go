package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDurationUnmarshal(t *testing.T) {
	cases := []struct {
		input    string
		expected time.Duration
	}{
		{input: `"1.5s"`, expected: 1500 * time.Millisecond},
		{input: `'250ms'`, expected: 250 * time.Millisecond},
		{input: `3`, expected: 3 * time.Second},
		{input: `0.5`, expected: 500 * time.Millisecond},
	}

	for _, test := range cases {
		var d Duration
		require.NoError(t, d.UnmarshalJSON([]byte(test.input)))
		require.Equal(t, test.expected, d.Std())
	}

	var d Duration
	require.Error(t, d.UnmarshalJSON([]byte(`"soon"`)))
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	err := os.WriteFile(path, []byte(`{
		fetch: {
			endpoint: "https://example.com/api/highs",
			max_attempts: 5,
			warmup_delay: "10ms",
		},
		consolidate: { weekly_dir: "out" },
	}`), 0600)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "https://example.com/api/highs", cfg.Fetch.Endpoint)
	require.Equal(t, 5, cfg.Fetch.MaxAttempts)
	require.Equal(t, 10*time.Millisecond, cfg.Fetch.WarmupDelay.Std())
	require.Equal(t, 2*time.Second, cfg.Fetch.BackoffBase.Std())
	require.Equal(t, DefaultRecordKeys, cfg.Fetch.RecordKeys)
	require.Equal(t, DefaultFilePrefix, cfg.Fetch.FilePrefix)
	require.Equal(t, "out", cfg.Consolidate.WeeklyDir)
	require.Equal(t, "data", cfg.Consolidate.DailyDir)
	require.NoError(t, cfg.Fetch.Validate())
}

func TestLoadKeepsZeroValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	err := os.WriteFile(path, []byte(`{
		fetch: {
			endpoint: "https://example.com/api/highs",
			max_elapsed: 0,
			warmup_delay: "0s",
			rejection_delay: 0,
			fetch_metadata: false,
			record_keys: ["rows"],
			browser_warmup: { headless: false },
		},
	}`), 0600)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Zero(t, cfg.Fetch.MaxElapsed.Std())
	require.Zero(t, cfg.Fetch.WarmupDelay.Std())
	require.Zero(t, cfg.Fetch.RejectionDelay.Std())
	require.False(t, cfg.Fetch.FetchMetadata)
	require.False(t, cfg.Fetch.BrowserWarmup.Headless)
	require.Equal(t, []string{"rows"}, cfg.Fetch.RecordKeys)

	// untouched fields keep their defaults
	require.Equal(t, 2*time.Second, cfg.Fetch.BackoffBase.Std())
	require.Equal(t, 3, cfg.Fetch.MaxAttempts)

	// decoding must not leak into later defaults
	require.Equal(t, []string{"data", "result", "rows", "items", "records"}, DefaultRecordKeys)
	require.Equal(t, 2*time.Minute, Defaults().Fetch.MaxElapsed.Std())
}

func TestLoadWithoutFileIsDefaults(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { os.Chdir(wd) })

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Defaults(), cfg)
}

func TestFetchOverride(t *testing.T) {
	base := Defaults().Fetch
	out, err := base.Override(Fetch{
		Endpoint:      "https://example.com/api",
		MaxAttempts:   7,
		BrowserWarmup: BrowserWarmup{Enabled: true},
	})
	require.NoError(t, err)

	require.Equal(t, "https://example.com/api", out.Endpoint)
	require.Equal(t, 7, out.MaxAttempts)
	require.True(t, out.BrowserWarmup.Enabled)
	require.True(t, out.BrowserWarmup.Headless)
	require.Equal(t, base.OutputDir, out.OutputDir)
	require.Equal(t, base.MaxElapsed, out.MaxElapsed)
}

func TestLoadExplicitMissingPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json5"))
	require.Error(t, err)
}

func TestValidateEndpointNotSet(t *testing.T) {
	cfg := Defaults()

	err := cfg.Fetch.Validate()
	require.True(t, errors.Is(err, ErrConfigNotSet))
	require.NoError(t, cfg.Consolidate.Validate())
}

func TestValidateInvalid(t *testing.T) {
	cfg := Defaults()

	cfg.Consolidate.Days = -3
	require.ErrorIs(t, cfg.Consolidate.Validate(), ErrConfigInvalid)

	cfg.Fetch.Endpoint = "https://example.com/api"
	cfg.Fetch.FilePrefix = ""
	require.ErrorIs(t, cfg.Fetch.Validate(), ErrConfigInvalid)
}
