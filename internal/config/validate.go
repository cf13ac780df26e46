package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// CheckConfigValidity reports every invalid setting in one joined error.
func CheckConfigValidity(v *viper.Viper) error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if strings.TrimSpace(v.GetString("data_dir")) == "" {
		add("data_dir is required")
	}
	if u := strings.TrimSpace(v.GetString("storage.url")); u != "" {
		if scheme, _, ok := strings.Cut(u, "://"); ok && scheme != "mem" && scheme != "sqlite" {
			add("storage.url has unsupported scheme %q", scheme)
		}
	}
	eventsKey := strings.TrimSpace(v.GetString("storage.events_key"))
	viewKey := strings.TrimSpace(v.GetString("storage.view_key"))
	if eventsKey == "" {
		add("storage.events_key is required")
	}
	if viewKey == "" {
		add("storage.view_key is required")
	}
	if eventsKey != "" && eventsKey == viewKey {
		add("storage.events_key and storage.view_key must differ")
	}

	if d, err := cast.ToDurationE(v.Get("notice.duration")); err != nil {
		add("notice.duration is not a duration: %v", err)
	} else if d <= 0 {
		add("notice.duration must be greater than 0")
	}

	for _, k := range []string{"popover.width", "popover.height"} {
		if v.GetInt(k) <= 0 {
			add("%s must be greater than 0", k)
		}
	}
	for _, k := range []string{"popover.offset", "popover.inset"} {
		if v.GetInt(k) < 0 {
			add("%s must not be negative", k)
		}
	}

	if _, err := ParseWeekday(v.GetString("calendar.week_start")); err != nil {
		add("calendar.week_start: %v", err)
	}
	if n := v.GetInt("agenda.days"); n < 1 || n > 366 {
		add("agenda.days must be between 1 and 366")
	}
	return errors.Join(errs...)
}
