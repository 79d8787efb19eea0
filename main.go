package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"calselect/internal/config"
	"calselect/internal/eventbus"
	"calselect/internal/logging"
	"calselect/internal/selector"
	"calselect/internal/ui"
)

// e2eEnv makes the UI print ui.ReadyMarker for the pty test driver
const e2eEnv = "CALSELECT_E2E_TEST"

type rootOptions struct {
	configPath string
	date       string
	logFile    string
	logLevel   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "calselect",
		Short: "Select non-overlapping time ranges on a weekly calendar grid",
		Example: `
calselect
calselect --date 2024-03-04
calselect config init
`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUI(cmd.Context(), opts)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default "+config.DefaultPath()+")")
	cmd.Flags().StringVarP(&opts.date, "date", "d", "", "show the week containing this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.logFile, "log-file", "", "log file, overrides [logging] file")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "DEBUG, INFO, WARN or ERROR, overrides [logging] level")

	cmd.AddCommand(newConfigCmd(opts))
	return cmd
}

// parseDate reads --date in local time; empty means now
func parseDate(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return now, nil
	}
	d, err := time.ParseInLocation("2006-01-02", s, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q: %w", s, err)
	}
	return d, nil
}

func runUI(parent context.Context, opts *rootOptions) error {
	if fd := os.Stdout.Fd(); !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return errors.New("calselect needs an interactive terminal; try 'calselect config show'")
	}

	display, err := parseDate(opts.date, time.Now())
	if err != nil {
		return err
	}

	configSvc := config.NewConfigService(opts.configPath)
	cfg, err := configSvc.Load()
	if err != nil {
		return err
	}
	if opts.logFile != "" {
		cfg.Logging.File = opts.logFile
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}

	logger, closeLog, err := logging.Setup(logging.Options{Level: cfg.Logging.Level, File: cfg.Logging.File})
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()
	logger.Info("starting", "config", configSvc.Path(), "week_of", display.Format("2006-01-02"))

	// Create context for graceful shutdown
	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	bus := eventbus.NewWithLogger(logger)
	sel := selector.New(bus,
		selector.WithLogger(logger),
		selector.WithMaxIDRetries(cfg.Selection.MaxIDRetries))

	var uiOpts []ui.Option
	if os.Getenv(e2eEnv) != "" {
		uiOpts = append(uiOpts, ui.WithReadyMarker())
	}
	model, err := ui.NewModel(bus, cfg, sel, display, uiOpts...)
	if err != nil {
		return err
	}
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	model.SetProgram(p)

	// Events published off the UI goroutine reach the model through p.Send
	eventChan := make(chan eventbus.DomainEvent, 100)
	forwardEvent := func(e eventbus.DomainEvent) {
		select {
		case eventChan <- e:
		default:
			logger.Warn("event channel full, dropping event", "type", e.Type())
		}
	}
	bus.Subscribe(eventbus.EventConfigChanged, forwardEvent)
	bus.Subscribe(eventbus.EventError, forwardEvent)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case e := <-eventChan:
				p.Send(ui.EventMsg{Event: e})
			}
		}
	}()

	// Live reload only makes sense for a file that exists
	if _, err := os.Stat(configSvc.Path()); err == nil {
		watchSvc := config.NewConfigServiceWithBus(configSvc.Path(), bus)
		if err := watchSvc.Watch(ctx); err != nil {
			logger.Warn("config watch disabled", "error", err)
		}
	}

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		logger.Error("error running program", "error", err)
		return fmt.Errorf("error running program: %w", err)
	}
	slog.Info("UI exited normally", "selections", sel.Len())
	return nil
}
