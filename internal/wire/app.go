package wire

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/mithrel/calpad/internal/calendar"
	"github.com/mithrel/calpad/internal/config"
	"github.com/mithrel/calpad/internal/db"
	"github.com/mithrel/calpad/internal/eventstore"
)

// App aggregates the major services for easy injection.
type App struct {
	Cfg      *viper.Viper
	Log      *log.Logger
	KV       db.KV
	Store    *eventstore.Store
	Calendar *calendar.Controller
}

type buildOpts struct {
	scheduler calendar.Scheduler
	now       func() time.Time
	location  *time.Location
}

// Option customizes BuildApp.
type Option func(*buildOpts)

// WithScheduler sets the timer source for calendar notices.
func WithScheduler(s calendar.Scheduler) Option {
	return func(o *buildOpts) { o.scheduler = s }
}

// WithNow overrides the calendar clock.
func WithNow(now func() time.Time) Option {
	return func(o *buildOpts) { o.now = now }
}

// WithLocation sets the zone events are displayed and edited in.
func WithLocation(loc *time.Location) Option {
	return func(o *buildOpts) { o.location = loc }
}

// BuildApp wires dependencies with the provided config.
func BuildApp(ctx context.Context, v *viper.Viper, opts ...Option) (*App, error) {
	bo := buildOpts{location: time.Local}
	for _, o := range opts {
		o(&bo)
	}
	logger := log.New(os.Stderr, "calpad ", log.LstdFlags)

	url := config.ResolveStorageURL(v)
	kv, err := db.Open(ctx, url)
	if err != nil {
		return nil, err
	}
	store := eventstore.New(kv,
		eventstore.WithKey(v.GetString("storage.events_key")),
		eventstore.WithLogger(logger),
		eventstore.WithLocation(bo.location),
	)
	ctrl := calendar.New(ctx, store, kv, calendar.Options{
		Now:       bo.now,
		Scheduler: bo.scheduler,
		NoticeTTL: v.GetDuration("notice.duration"),
		Geometry: calendar.Geometry{
			Popover: calendar.Size{W: v.GetInt("popover.width"), H: v.GetInt("popover.height")},
			Offset:  v.GetInt("popover.offset"),
			Inset:   v.GetInt("popover.inset"),
		},
		WeekStart:  config.WeekStart(v),
		AgendaDays: v.GetInt("agenda.days"),
		ViewKey:    v.GetString("storage.view_key"),
		Location:   bo.location,
		Logger:     logger,
	})
	return &App{
		Cfg:      v,
		Log:      logger,
		KV:       kv,
		Store:    store,
		Calendar: ctrl,
	}, nil
}

// Close stops calendar timers and releases the store.
func (a *App) Close() error {
	a.Calendar.Close()
	return a.KV.Close()
}
