package fetcher

import (
	"testing"

	"highwatch/internal/config"

	"github.com/stretchr/testify/require"
)

func TestRequestContextIsImmutable(t *testing.T) {
	cfg := config.Defaults().Fetch
	base := NewRequestContext(cfg, "test-agent")

	deeper := base.WithReferer("https://example.com/deeper")
	nav := base.ForNavigation()

	require.Equal(t, cfg.Referer, base.Get("Referer"))
	require.Equal(t, "https://example.com/deeper", deeper.Get("Referer"))
	require.Equal(t, acceptJSON, base.Get("Accept"))
	require.Equal(t, acceptHTML, nav.Get("Accept"))
	require.Equal(t, "cors", base.Get("Sec-Fetch-Mode"))
	require.Equal(t, "navigate", nav.Get("Sec-Fetch-Mode"))

	h := base.Header()
	h.Set("User-Agent", "changed")
	require.Equal(t, "test-agent", base.Get("User-Agent"))

	require.Equal(t, base, base.WithReferer(""))
}

func TestRequestContextWithoutFetchMetadata(t *testing.T) {
	cfg := config.Defaults().Fetch
	cfg.FetchMetadata = false
	rc := NewRequestContext(cfg, "test-agent")

	require.Empty(t, rc.Get("Sec-Fetch-Mode"))
	require.Empty(t, rc.ForNavigation().Get("Sec-Fetch-Mode"))
}
