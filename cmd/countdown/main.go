// Countdown is a single-screen terminal countdown timer.
//
// Usage:
//
//	countdown [duration] [--verbose] [--quiet] [--no-sound] [--no-notify]
//	countdown plain [duration] [--exit-on-done]
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/hammamikhairi/countdown/internal/command"
	"github.com/hammamikhairi/countdown/internal/display"
	"github.com/hammamikhairi/countdown/internal/notify"
	"github.com/hammamikhairi/countdown/internal/timer"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "countdown [duration]",
		Short: "A terminal countdown timer",
		Long: `Pick hours, minutes and seconds, start the countdown and get a sound
plus a desktop notification at zero.

A duration argument (5m, 1:30:00, 90, "1 2 3") preselects and starts the timer.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal(os.Stdout) {
				return runPlain(cmd, opts, args)
			}
			return runTUI(cmd, opts, args)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "path to a config.toml (default: $XDG_CONFIG_HOME/countdown/config.toml)")
	pf.BoolVar(&opts.verbose, "verbose", false, "enable verbose/debug logging")
	pf.BoolVar(&opts.quiet, "quiet", false, "disable all logging")
	pf.StringVar(&opts.logFile, "log-file", "", "file to write logs to (use \"stderr\" to log to console)")
	pf.BoolVar(&opts.noSound, "no-sound", false, "disable the completion sound")
	pf.BoolVar(&opts.noNotify, "no-notify", false, "disable the desktop notification")
	pf.StringVar(&opts.soundFile, "sound-file", "", "16-bit PCM WAV to play at completion")

	plain := &cobra.Command{
		Use:   "plain [duration]",
		Short: "Line-oriented mode for pipes and dumb terminals",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlain(cmd, opts, args)
		},
	}
	plain.Flags().BoolVar(&opts.exitOnDone, "exit-on-done", false, "exit once the countdown completes")

	root.AddCommand(plain)
	return root
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// preselection parses an optional duration argument. The returned func
// selects it and starts the countdown; it is a no-op without an argument.
func preselection(args []string) (func(*timer.Machine), error) {
	if len(args) == 0 {
		return func(*timer.Machine) {}, nil
	}
	h, mi, s, err := command.ParseSelection(args[0])
	if err != nil {
		return nil, err
	}
	return func(m *timer.Machine) {
		m.Select(h, mi, s)
		m.Start()
	}, nil
}

func runTUI(cmd *cobra.Command, opts *options, args []string) error {
	start, err := preselection(args)
	if err != nil {
		return err
	}
	rt, err := setup(opts)
	if err != nil {
		return err
	}
	defer rt.close()

	// The UI is built after the machine, so the posters are filled in
	// once it exists. Nothing posts before the first start, which waits
	// for the UI to be ready.
	var posters notify.Fanout
	machine := rt.newMachine(&posters)
	ui := display.NewUI(machine, display.Options{
		UrgentThreshold: rt.cfg.Timer.UrgentThreshold.Duration,
		MaxHours:        rt.cfg.Timer.MaxHours,
	})
	posters = notify.Fanout{
		// Escape sequences go through Bubble Tea so they never land mid-frame.
		notify.NewTerminalPoster(ui.Writer(os.Stdout), rt.cfg.Notify.Bell),
		notify.NewPrintPoster(rt.log.Named("notify"), ui.Printf),
	}
	unsubscribe := machine.Subscribe(ui.HandleEvent)
	defer unsubscribe()

	fmt.Println(display.RenderBanner("Pick a duration, press enter to start, ? for help."))

	go func() {
		ui.WaitReady()
		start(machine)
	}()

	go func() {
		select {
		case <-cmd.Context().Done():
			ui.Quit()
		case <-ui.QuitChan():
		}
	}()

	// Bubble Tea owns the terminal until quit.
	if err := ui.Run(); err != nil {
		rt.log.Error("display: %v", err)
		return err
	}
	return nil
}

func runPlain(cmd *cobra.Command, opts *options, args []string) error {
	start, err := preselection(args)
	if err != nil {
		return err
	}
	rt, err := setup(opts)
	if err != nil {
		return err
	}
	defer rt.close()

	return rt.runPlain(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), opts.exitOnDone, start)
}
