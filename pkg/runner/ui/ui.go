// Package ui runs the interactive schedule view: the input reader, the master
// scheduler and the dispatch loop joined by two queues.
package ui

import (
	"context"
	"os"
	"sync"
	"time"

	"tableflip.dev/todor/pkg/bus"
	"tableflip.dev/todor/pkg/config"
	"tableflip.dev/todor/pkg/display"
	"tableflip.dev/todor/pkg/events"
	"tableflip.dev/todor/pkg/executor"
	"tableflip.dev/todor/pkg/input"
	"tableflip.dev/todor/pkg/logging"
	"tableflip.dev/todor/pkg/registry"
	"tableflip.dev/todor/pkg/schedule"
	"tableflip.dev/todor/pkg/scheduler"
	"tableflip.dev/todor/pkg/term"
)

// Watcher calls changed whenever a backend's data changes outside todor.
type Watcher func(ctx context.Context, changed func()) error

// Session is everything a run needs, already built.
type Session struct {
	Backends       []schedule.Backend
	DefaultBackend string
	Keys           input.KeySource
	Screen         Renderer
	Watchers       []Watcher

	Interval time.Duration
	ToastTTL time.Duration
	MaxWidth int
	Now      func() time.Time
}

// UI opens the terminal and runs a Session built from Config.
type UI struct {
	Config *config.Config
	In     *os.File
	Out    *os.File
}

func (u *UI) Do(ctx context.Context) error {
	cfg := u.Config
	if err := logging.Configure(cfg.LogFile); err != nil {
		return err
	}
	defer logging.Close()
	logging.SetTraceEnabled(cfg.Trace)

	reg, err := registry.Build(ctx, cfg)
	if err != nil {
		return err
	}
	defer reg.Close()
	def, err := reg.DefaultBackend(cfg.DefaultBackend)
	if err != nil {
		return err
	}

	in, out := u.In, u.Out
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	screen, err := term.Open(in, out)
	if err != nil {
		return err
	}
	defer screen.Close()

	s := Session{
		Backends:       reg.Backends,
		DefaultBackend: def,
		Keys:           screen.Keys(),
		Screen:         screen,
		Interval:       cfg.RefreshInterval,
		ToastTTL:       cfg.ToastTTL,
		MaxWidth:       cfg.MaxWidth,
	}
	for _, j := range reg.Journals {
		store := j.Store()
		s.Watchers = append(s.Watchers, func(ctx context.Context, changed func()) error {
			return store.Watch(ctx, 0, changed)
		})
	}
	return s.Run(ctx)
}

// Run starts the reader and the master, then serves the UI queue until Exit.
// The key reader is not waited for; it may be blocked on a read.
func (s Session) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if s.Now == nil {
		s.Now = time.Now
	}
	uiQ := bus.New[events.UICommand]()
	schedQ := bus.New[events.ScheduleCommand]()
	defer uiQ.Close()
	defer schedQ.Close()

	opts := display.Options{MaxWidth: s.MaxWidth, Now: s.Now}
	stack := display.NewWindowStack(display.NewPrompt(uiQ, opts), display.Factories(uiQ, opts))
	stack.PushNamed(display.PanelList)

	loop := &Loop{Inbox: uiQ, Sched: schedQ, Stack: stack, Screen: s.Screen}
	loop.Exec = executor.New(loop, schedQ, s.DefaultBackend,
		executor.WithToastTTL(s.ToastTTL),
		executor.WithClock(s.Now))
	master := scheduler.New(s.Backends, schedQ, uiQ, scheduler.Config{
		Interval: s.Interval,
		ToastTTL: s.ToastTTL,
		Now:      s.Now,
	})
	reader := input.NewReader(s.Keys, uiQ)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := master.Run(ctx); err != nil && ctx.Err() == nil {
			logging.Errorf("scheduler: %v", err)
		}
	}()
	go func() {
		if err := reader.Run(ctx); err != nil {
			logging.Error(err)
		}
	}()

	refresh := func() { schedQ.Send(events.Refresh{}) }
	for _, w := range s.Watchers {
		if err := w(ctx, refresh); err != nil {
			logging.Errorf("watch: %v", err)
		}
	}

	err := loop.Run(ctx)

	cancel()
	uiQ.Close()
	schedQ.Close()
	wg.Wait()
	return err
}
