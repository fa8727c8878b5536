package commands

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"akinator-client/internal/akinator/region"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func parseFlags(t testing.TB, args ...string) *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	bindFlags(flags)
	require.NoError(t, flags.Parse(args))
	return flags
}

func TestResolveConfigDefaults(t *testing.T) {
	cfg, err := resolveConfig(parseFlags(t))
	require.NoError(t, err)
	require.Equal(t, defaultConfig, cfg)
	require.Equal(t, 300*time.Millisecond, cfg.Delay())
	require.Equal(t, time.Duration(0), cfg.Timeout())
}

func TestResolveConfigLayers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "akinator.json5")
	err := os.WriteFile(path, []byte(`{
		region: "de",
		child_mode: true,
		delay_ms: 50,
		timeout_seconds: 5,
		headers: { "x-a": "1" },
	}`), 0644)
	require.NoError(t, err)

	cfg, err := resolveConfig(parseFlags(t,
		"--config", path,
		"--region", "fr_animals",
		"--header", "x-b=2",
		"--db", "games.db",
	))
	require.NoError(t, err)

	expected := Config{
		Region:         "fr_animals",
		ChildMode:      true,
		TimeoutSeconds: 5,
		DelayMs:        50,
		Headers:        map[string]string{"x-a": "1", "x-b": "2"},
		DB:             "games.db",
	}
	if diff := cmp.Diff(expected, cfg); diff != "" {
		t.Fatal(diff)
	}
}

func TestResolveConfigErrors(t *testing.T) {
	_, err := resolveConfig(parseFlags(t, "--config", filepath.Join(t.TempDir(), "missing.json5")))
	require.Error(t, err)

	_, err = resolveConfig(parseFlags(t, "--region", "xx"))
	require.ErrorIs(t, err, region.ErrInvalidRegion)
}
