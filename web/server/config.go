package server

import (
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

// Config holds the web server settings, readable from a TOML file.
type Config struct {
	// Address the HTTP listener binds to, e.g. ":8080".
	ListenAddress string `toml:"listen-address"`

	// Directory served at /, holding the preview page.
	StaticDir string `toml:"static-dir"`

	// Caps on what a single render request may ask for.
	MaxWidth   int `toml:"max-width"`
	MaxSamples int `toml:"max-samples"`
	MaxPasses  int `toml:"max-passes"`

	// RenderLimiter bounds how often renders may start. The zero value
	// imposes no limit.
	RenderLimiter Limiter `toml:"render-limiter"`
}

// Limiter configures a token-bucket rate limit, e.g. burst 4 refilled
// every 10s.
type Limiter struct {
	Every duration `toml:"every"`
	Burst int      `toml:"burst"`
}

// Limiter converts the settings into a ready golang.org/x/time/rate limiter.
func (l *Limiter) Limiter() *rate.Limiter {
	return rate.NewLimiter(rate.Every(l.Every.Duration), l.Burst)
}

// duration wraps time.Duration so TOML values like "10s" parse directly.
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) (err error) {
	d.Duration, err = time.ParseDuration(string(text))
	return
}

// DefaultConfig returns the settings used when no config file is given.
func DefaultConfig() Config {
	return Config{
		ListenAddress: ":8080",
		StaticDir:     "web/static",
		MaxWidth:      2000,
		MaxSamples:    10000,
		MaxPasses:     1000,
		RenderLimiter: Limiter{Every: duration{10 * time.Second}, Burst: 6},
	}
}

// LoadConfig reads a TOML config file over the defaults. Keys the config
// does not know are an error rather than silently ignored.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	meta, err := toml.DecodeFile(path, &c)
	if err != nil {
		return Config{}, errors.Wrapf(err, "reading server config %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		var unknown errUnknownConfig
		for _, key := range undecoded {
			unknown = append(unknown, key.String())
		}
		return Config{}, unknown
	}
	return c, nil
}

// errUnknownConfig lists config keys that matched nothing, usually typos.
type errUnknownConfig []string

func (e errUnknownConfig) Error() string {
	return "unknown config keys: [" + strings.Join(e, ", ") + "]"
}
