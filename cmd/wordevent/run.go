package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/dshills/wordevent/internal/action"
	"github.com/dshills/wordevent/internal/config"
	"github.com/dshills/wordevent/internal/input/key"
	"github.com/dshills/wordevent/internal/input/source"
	"github.com/dshills/wordevent/internal/word"
)

const statusInterval = 100 * time.Millisecond

var runNoWatch bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Listen to the terminal and run bound actions",
	Long: `Run takes over the terminal, turns keystrokes into words and runs the
action bound to each completed word. Action output is shown on screen.

The configuration file is watched; binding changes apply without a restart.
Engine settings are fixed for the life of the process.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("creating screen: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return runSession(ctx, cfg, screen, newDisplay(screen), !runNoWatch)
	},
}

// session holds the running engine and the current action set.
type session struct {
	cfg  *config.Config
	eng  *word.Engine
	disp *display

	mu  sync.Mutex
	set *action.Set
}

// runSession initializes screen and runs until ctx is done or the user quits.
func runSession(ctx context.Context, cfg *config.Config, screen tcell.Screen, disp *display, watch bool) error {
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer screen.Fini()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	term := source.NewTerminal(screen, source.WithLogger(logger))

	ecfg, err := cfg.EngineConfig(term)
	if err != nil {
		return err
	}
	eng, err := word.New(ecfg,
		word.WithLogger(logger),
		word.WithCompletionHook(func(c word.Completion) {
			if !c.Matched {
				logger.Debug("no binding", "word", c.Word)
			}
		}),
	)
	if err != nil {
		return err
	}

	set, err := action.Bind(eng.Dictionary(), cfg.Words,
		action.WithOutput(disp), action.WithLogger(logger))
	if err != nil {
		return err
	}
	s := &session{cfg: cfg, eng: eng, disp: disp, set: set}
	defer s.close()

	if _, err := term.Subscribe(key.TypePressed, func(evt key.Event) {
		if evt.IsEscape() || evt.IsInterrupt() {
			cancel()
		}
	}); err != nil {
		return err
	}

	if err := eng.Activate(); err != nil {
		return err
	}
	defer func() { _ = eng.Deactivate() }()

	var wg sync.WaitGroup
	if watch && cfg.Path != "" {
		wg.Go(func() { s.watch(ctx) })
	}
	wg.Go(func() { s.refreshStatus(ctx) })

	logger.Info("listening", "bindings", set.Len(), "event", ecfg.EventType)
	fmt.Fprintf(disp, "%d bindings loaded\n", set.Len())

	err = term.Run(ctx)
	cancel()
	wg.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// watch rebinds actions whenever the configuration file changes.
func (s *session) watch(ctx context.Context) {
	err := config.Watch(ctx, s.cfg.Path, s.reload, nil)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Warn("config watch stopped", "path", s.cfg.Path, "error", err)
	}
}

func (s *session) reload(cfg *config.Config, err error) {
	if err != nil {
		logger.Warn("config reload failed", "error", err)
		fmt.Fprintf(s.disp, "reload failed: %v\n", err)
		return
	}
	if cfg.Engine != s.cfg.Engine {
		logger.Warn("engine settings changed; restart to apply them")
	}

	set, err := action.Bind(s.eng.Dictionary(), cfg.Words,
		action.WithOutput(s.disp), action.WithLogger(logger))
	if err != nil {
		logger.Warn("config reload failed", "error", err)
		fmt.Fprintf(s.disp, "reload failed: %v\n", err)
		return
	}

	s.mu.Lock()
	old := s.set
	s.set = set
	s.mu.Unlock()

	if err := old.Close(); err != nil {
		logger.Warn("closing previous actions", "error", err)
	}
	logger.Info("config reloaded", "bindings", set.Len())
	fmt.Fprintf(s.disp, "reloaded: %d bindings\n", set.Len())
}

func (s *session) refreshStatus(ctx context.Context) {
	ticker := time.NewTicker(statusInterval)
	defer ticker.Stop()

	for {
		s.disp.SetStatus(statusLine(s.eng))
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func statusLine(eng *word.Engine) string {
	st := eng.Stats()
	return fmt.Sprintf(" %s %q | words %d | matched %d | unmatched %d",
		eng.State(), eng.Pending(), st.Words, st.Matches, st.Misses)
}

func (s *session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.set.Close(); err != nil {
		logger.Warn("closing actions", "error", err)
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVar(&runNoWatch, "no-watch", false, "Do not reload the configuration when it changes")
}
