package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// AppName names the XDG directories and the env prefix.
const AppName = "calpad"

// applyDefaults seeds Viper with defaults defined in GetConfigOptions.
func applyDefaults(v *viper.Viper) {
	for _, o := range GetConfigOptions() {
		v.SetDefault(o.Key, o.Default)
	}
}

// Load resolves configuration with precedence: defaults < file < env.
// The provided Viper instance is mutated with defaults, file contents, and env.
func Load(ctx context.Context, v *viper.Viper) error {
	if v.ConfigFileUsed() == "" {
		v.SetConfigName("config")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, AppName))
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", AppName))
		}
		v.AddConfigPath(".")
	}

	applyDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	// Environment variables: CALPAD_* (highest among these sources)
	v.SetEnvPrefix(AppName)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if strings.TrimSpace(v.GetString("data_dir")) == "" {
		v.Set("data_dir", defaultDataDir())
	}
	return nil
}

// defaultDataDir resolves $XDG_DATA_HOME/calpad or ~/.local/share/calpad.
func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", AppName)
}

// DefaultConfigPath resolves the standard config.toml location.
func DefaultConfigPath() string {
	xdg := os.Getenv("XDG_CONFIG_HOME")
	if xdg == "" {
		home, _ := os.UserHomeDir()
		xdg = filepath.Join(home, ".config")
	}
	return filepath.Join(xdg, AppName, "config.toml")
}

type ConfigOption struct {
	Key     string
	Default any
	Comment string
}

// GetConfigOptions returns the default configuration options and their meanings.
// This is the single source of truth for default values and generator output.
func GetConfigOptions() []ConfigOption {
	return []ConfigOption{
		{Key: "data_dir", Default: defaultDataDir(), Comment: "Directory for local state; the default store is data_dir/calpad.db"},

		{Key: "storage.url", Default: "", Comment: "Key-value store: sqlite://<path>, a bare path, or mem:// (empty uses data_dir/calpad.db)"},
		{Key: "storage.events_key", Default: "events", Comment: "Key holding the serialized event list"},
		{Key: "storage.view_key", Default: "calendarView", Comment: "Key holding the last selected view"},

		{Key: "notice.duration", Default: "3s", Comment: "How long validation notices stay visible"},

		{Key: "popover.width", Default: 44, Comment: "Edit popover width in cells"},
		{Key: "popover.height", Default: 16, Comment: "Edit popover height in cells"},
		{Key: "popover.offset", Default: 1, Comment: "Distance from the selected cell to the popover corner"},
		{Key: "popover.inset", Default: 1, Comment: "Minimum distance kept between the popover and the screen edge"},

		{Key: "calendar.week_start", Default: "sunday", Comment: "First day of the week in month and week views"},
		{Key: "agenda.days", Default: 30, Comment: "Number of days listed by the agenda view"},

		{Key: "log.file", Default: "", Comment: "Log file used while the calendar UI is open (empty discards logs)"},
	}
}

// ResolveStorageURL returns storage.url, or a sqlite URL under data_dir.
func ResolveStorageURL(v *viper.Viper) string {
	if u := strings.TrimSpace(v.GetString("storage.url")); u != "" {
		return u
	}
	return "sqlite://" + filepath.Join(expandHome(v.GetString("data_dir")), AppName+".db")
}

func expandHome(dir string) string {
	if dir == "" {
		dir = defaultDataDir()
	}
	if strings.HasPrefix(dir, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, dir[1:])
		}
	}
	return dir
}

// ParseWeekday accepts English day names and three-letter abbreviations.
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || s == name[:3] {
			return d, nil
		}
	}
	return time.Sunday, fmt.Errorf("unknown weekday %q", s)
}

// WeekStart reads calendar.week_start, falling back to Sunday.
func WeekStart(v *viper.Viper) time.Weekday {
	d, err := ParseWeekday(v.GetString("calendar.week_start"))
	if err != nil {
		return time.Sunday
	}
	return d
}
