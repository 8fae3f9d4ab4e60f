package main

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"

	"github.com/hammamikhairi/countdown/internal/audio"
	"github.com/hammamikhairi/countdown/internal/config"
	"github.com/hammamikhairi/countdown/internal/domain"
	"github.com/hammamikhairi/countdown/internal/logger"
	"github.com/hammamikhairi/countdown/internal/notify"
	"github.com/hammamikhairi/countdown/internal/timer"
)

// options holds the command-line flags. Set flags win over the config
// file and the environment.
type options struct {
	configPath string
	verbose    bool
	quiet      bool
	logFile    string
	noSound    bool
	noNotify   bool
	soundFile  string
	exitOnDone bool
}

// runtime is the wired set of collaborators shared by both modes.
type runtime struct {
	cfg     *config.Config
	log     *logger.Logger
	cue     domain.CuePlayer
	clock   domain.Clock // nil means the system clock
	machine *timer.Machine
	closers []func()
}

func (o *options) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFromFile(o.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if o.verbose {
		cfg.Log.Level = logger.LevelVerbose.String()
	}
	if o.quiet {
		cfg.Log.Level = logger.LevelOff.String()
	}
	if o.logFile != "" {
		cfg.Log.File = o.logFile
	}
	if o.noSound {
		cfg.Sound.Enabled = false
	}
	if o.soundFile != "" {
		cfg.Sound.File = o.soundFile
	}
	if o.noNotify {
		cfg.Notify.Enabled = false
	}
	return cfg, nil
}

func setup(opts *options) (*runtime, error) {
	cfg, err := opts.loadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	rt := &runtime{cfg: cfg}

	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v (using info)\n", err)
	}

	// Logs go to a file by default so the screen stays clean.
	var logOut io.Writer = os.Stderr
	if cfg.Log.File != "" && cfg.Log.File != "stderr" {
		if dir := filepath.Dir(cfg.Log.File); dir != "" && dir != "." {
			_ = os.MkdirAll(dir, 0o755)
		}
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", cfg.Log.File, err)
		} else {
			logOut = f
			rt.closers = append(rt.closers, func() { f.Close() })
		}
	}

	// Third-party libraries that use the default log package (the audio
	// backend among them) write to the same place.
	stdlog.SetOutput(logOut)
	stdlog.SetFlags(stdlog.Ltime)

	rt.log = logger.New(level, logOut)
	rt.closers = append(rt.closers, func() { _ = rt.log.Sync() })

	rt.cue = rt.buildCue()
	rt.log.Debug("config: tick=%s urgent=%s sound=%t notify=%t",
		cfg.Timer.Tick, cfg.Timer.UrgentThreshold, cfg.Sound.Enabled, cfg.Notify.Enabled)
	return rt, nil
}

// buildCue picks the completion cue. An unreadable sound file falls back
// to the built-in bell; an unavailable audio device falls back to the
// terminal bell.
func (rt *runtime) buildCue() domain.CuePlayer {
	log := rt.log.Named("audio")
	if !rt.cfg.Sound.Enabled {
		log.Info("sound disabled")
		return audio.NewNoOp(log)
	}

	sound, err := audio.LoadSound(rt.cfg.Sound.File)
	if err != nil {
		log.Warn("%v, using built-in bell", err)
		sound = audio.SynthBell()
	}

	cue, err := audio.NewCue(sound, log)
	if err != nil {
		log.Warn("audio player init failed, using terminal bell: %v", err)
		return audio.NewBellCue(os.Stdout, log)
	}
	rt.closers = append(rt.closers, func() { _ = cue.Close() })
	return cue
}

// newMachine wires the timer with the configured tick, the cue and, when
// notifications are enabled, a scheduler posting through poster.
func (rt *runtime) newMachine(poster notify.Poster) *timer.Machine {
	opts := []timer.Option{
		timer.WithTickInterval(rt.cfg.Timer.Tick.Duration),
		timer.WithCuePlayer(rt.cue),
	}
	notifyOpts := []notify.Option{notify.WithTitle(rt.cfg.Notify.Title)}
	if rt.clock != nil {
		opts = append(opts, timer.WithClock(rt.clock))
		notifyOpts = append(notifyOpts, notify.WithClock(rt.clock))
	}
	if rt.cfg.Notify.Enabled {
		sched := notify.NewScheduler(poster, rt.log.Named("notify"), notifyOpts...)
		opts = append(opts, timer.WithNotifier(sched))
	} else {
		rt.log.Info("notifications disabled")
	}

	rt.machine = timer.New(rt.log.Named("timer"), opts...)
	return rt.machine
}

// waitCue lets a completion sound that is still playing run to its end.
func (rt *runtime) waitCue() {
	if w, ok := rt.cue.(interface{ Wait() }); ok {
		w.Wait()
	}
}

// close tears down in reverse order of construction. The machine goes
// first so no cue fires into a closed player.
func (rt *runtime) close() {
	if rt.machine != nil {
		_ = rt.machine.Close()
	}
	for i := len(rt.closers) - 1; i >= 0; i-- {
		rt.closers[i]()
	}
}
