package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"akinator-client/internal/akinator/region"
	"akinator-client/lib/configutil"

	"dario.cat/mergo"
	"github.com/spf13/pflag"
)

type Config struct {
	Region         string            `json:"region"`
	ChildMode      bool              `json:"child_mode"`
	BaseURL        string            `json:"base_url"`
	TimeoutSeconds int               `json:"timeout_seconds"`
	DelayMs        int               `json:"delay_ms"`
	Headers        map[string]string `json:"headers"`
	DB             string            `json:"db"`
	DumpHTTP       string            `json:"dump_http"`
	Verbose        bool              `json:"verbose"`
}

func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Delay is the pause between two requests of the same game.
func (c Config) Delay() time.Duration {
	return time.Duration(c.DelayMs) * time.Millisecond
}

var defaultConfig = Config{
	Region:  "en",
	DelayMs: 300,
}

func bindFlags(flags *pflag.FlagSet) {
	flags.String("config", "akinator.json5", "The config file to read, a missing file is ignored.")
	flags.StringP("region", "r", defaultConfig.Region, "The region to play in, see the regions command.")
	flags.Bool("child-mode", false, "Ask the service to stay child friendly.")
	flags.String("base-url", "", "Talk to this origin instead of the region's.")
	flags.Int("timeout", 0, "Request timeout in seconds, 0 uses the transport default.")
	flags.Int("delay", defaultConfig.DelayMs, "Milliseconds to wait between requests.")
	flags.StringToString("header", nil, "Extra request headers (key=value).")
	flags.String("db", "", "Record finished games to this sqlite database.")
	flags.String("dump-http", "", "Write every HTTP exchange to files in this directory.")
	flags.BoolP("verbose", "v", false, "Log debug information to stderr.")
}

// resolveConfig layers the defaults, the config file and the flags that
// were explicitly set, in that order.
func resolveConfig(flags *pflag.FlagSet) (Config, error) {
	out := defaultConfig

	path, err := flags.GetString("config")
	if err != nil {
		return Config{}, err
	}
	file, err := configutil.ReadConfig[Config](path)
	switch {
	case err == nil:
		err = mergo.Merge(&out, file, mergo.WithOverride)
		if err != nil {
			return Config{}, err
		}
	case errors.Is(err, fs.ErrNotExist) && !flags.Changed("config"):
	default:
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	if flags.Changed("region") {
		out.Region, _ = flags.GetString("region")
	}
	if flags.Changed("child-mode") {
		out.ChildMode, _ = flags.GetBool("child-mode")
	}
	if flags.Changed("base-url") {
		out.BaseURL, _ = flags.GetString("base-url")
	}
	if flags.Changed("timeout") {
		out.TimeoutSeconds, _ = flags.GetInt("timeout")
	}
	if flags.Changed("delay") {
		out.DelayMs, _ = flags.GetInt("delay")
	}
	if flags.Changed("header") {
		headers, _ := flags.GetStringToString("header")
		if out.Headers == nil {
			out.Headers = map[string]string{}
		}
		for k, v := range headers {
			out.Headers[k] = v
		}
	}
	if flags.Changed("db") {
		out.DB, _ = flags.GetString("db")
	}
	if flags.Changed("dump-http") {
		out.DumpHTTP, _ = flags.GetString("dump-http")
	}
	if flags.Changed("verbose") {
		out.Verbose, _ = flags.GetBool("verbose")
	}

	_, err = region.Parse(out.Region)
	if err != nil {
		return Config{}, err
	}
	if out.TimeoutSeconds < 0 || out.DelayMs < 0 {
		return Config{}, fmt.Errorf("timeout and delay cannot be negative")
	}
	return out, nil
}
