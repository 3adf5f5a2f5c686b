package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/wordevent/internal/action"
	"github.com/dshills/wordevent/internal/clock"
	"github.com/dshills/wordevent/internal/config"
	"github.com/dshills/wordevent/internal/input/key"
	"github.com/dshills/wordevent/internal/input/source"
	"github.com/dshills/wordevent/internal/word"
	"github.com/dshills/wordevent/internal/word/dictionary"
)

// pauseToken in --keys stands for a pause longer than the digit interval.
const pauseToken = "|"

var (
	checkWord string
	checkKeys string
	checkGap  time.Duration
	checkExec bool
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configuration and try words against it",
	Long: `Check loads and validates the configuration, then lists the bindings.

--word resolves a single word against the bindings.
--keys simulates typing a key sequence. Keys are separated by spaces and use
the same notation as key bindings ("a", "S-Tab", "<C-c>"); a lone "|" is a
pause that ends the current word. Time is simulated, so nothing waits.`,
	Example: `  wordevent check -c wordevent.toml
  wordevent check --word hello
  wordevent check --keys "h e l l o | w o r l d" --exec`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		describeConfig(out, cfg)

		if checkWord != "" {
			if err := resolveWord(out, cfg, checkWord); err != nil {
				return err
			}
		}
		if checkKeys != "" {
			if err := simulate(out, cfg, checkKeys, checkGap, checkExec); err != nil {
				return err
			}
		}
		return nil
	},
}

func describeConfig(out io.Writer, cfg *config.Config) {
	path := cfg.Path
	if path == "" {
		path = "<defaults>"
	}
	fmt.Fprintf(out, "config: %s\n", path)

	accept := cfg.Engine.Accept
	if cfg.Engine.AcceptChars != "" {
		accept += fmt.Sprintf(" + %q", cfg.Engine.AcceptChars)
	}
	fmt.Fprintf(out, "engine: interval=%s event=%q accept=%s\n",
		cfg.Engine.DigitInterval, cfg.Engine.EventType, accept)

	fmt.Fprintf(out, "bindings: %d\n", len(cfg.Words))
	for _, b := range cfg.Words {
		fmt.Fprintf(out, "  %s -> %s\n", b, b.Action)
	}
}

// bindingIndex maps matcher keys to their binding.
func bindingIndex(cfg *config.Config) (map[string]config.Binding, error) {
	idx := make(map[string]config.Binding, len(cfg.Words))
	for _, b := range cfg.Words {
		m, err := b.Matcher()
		if err != nil {
			return nil, err
		}
		idx[m.Key()] = b
	}
	return idx, nil
}

func resolveWord(out io.Writer, cfg *config.Config, text string) error {
	dict := dictionary.New[config.Binding]()
	for _, b := range cfg.Words {
		m, err := b.Matcher()
		if err != nil {
			return err
		}
		dict.Add(m, b)
	}

	m, b, ok := dict.Lookup(text)
	if !ok {
		fmt.Fprintf(out, "word %q: no match\n", text)
		return nil
	}
	fmt.Fprintf(out, "word %q -> %s (%s)\n", text, m, b.Action)
	return nil
}

// simulate types spec into an engine driven by a fake clock.
func simulate(out io.Writer, cfg *config.Config, spec string, gap time.Duration, exec bool) error {
	hub := source.NewHub(source.WithLogger(logger))
	clk := clock.NewFake(time.Unix(0, 0))

	idx, err := bindingIndex(cfg)
	if err != nil {
		return err
	}

	ecfg, err := cfg.EngineConfig(hub)
	if err != nil {
		return err
	}
	eng, err := word.New(ecfg,
		word.WithClock(clk),
		word.WithLogger(logger),
		word.WithCompletionHook(func(c word.Completion) {
			if !c.Matched {
				fmt.Fprintf(out, "typed %q: no match\n", c.Word)
				return
			}
			fmt.Fprintf(out, "typed %q -> %s (%s)\n", c.Word, c.Matcher, idx[c.Matcher.Key()].Action)
		}),
	)
	if err != nil {
		return err
	}

	if exec {
		set, err := action.Bind(eng.Dictionary(), cfg.Words,
			action.WithOutput(out), action.WithLogger(logger))
		if err != nil {
			return err
		}
		defer set.Close()
	} else {
		for _, b := range cfg.Words {
			m, err := b.Matcher()
			if err != nil {
				return err
			}
			if err := eng.Listen(m, func(word.Match) {}); err != nil {
				return err
			}
		}
	}

	events, err := parseKeys(spec)
	if err != nil {
		return err
	}

	if err := eng.Activate(); err != nil {
		return err
	}
	defer func() { _ = eng.Deactivate() }()

	interval := eng.Config().DigitInterval
	eventType := eng.Config().EventType
	for i, evt := range events {
		if evt == nil {
			clk.Advance(interval + time.Millisecond)
			continue
		}
		if i > 0 && events[i-1] != nil {
			clk.Advance(gap)
		}
		hub.Publish(evt.As(eventType).At(clk.Now()))
	}
	clk.Advance(interval)

	stats := eng.Stats()
	fmt.Fprintf(out, "events: %d accepted, %d rejected; words: %d matched, %d unmatched\n",
		stats.Accepted, stats.Rejected, stats.Matches, stats.Misses)
	return nil
}

// parseKeys parses a --keys spec. A nil entry marks a pause.
func parseKeys(spec string) ([]*key.Event, error) {
	fields := strings.Fields(spec)
	if len(fields) == 0 {
		return nil, key.ErrEmptySpec
	}

	events := make([]*key.Event, 0, len(fields))
	for _, f := range fields {
		if f == pauseToken {
			events = append(events, nil)
			continue
		}
		evt, err := key.Parse(f)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", f, err)
		}
		events = append(events, &evt)
	}
	return events, nil
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVar(&checkWord, "word", "", "Resolve a word against the bindings")
	checkCmd.Flags().StringVar(&checkKeys, "keys", "", "Simulate typing a space-separated key sequence")
	checkCmd.Flags().DurationVar(&checkGap, "gap", 50*time.Millisecond, "Simulated time between keys")
	checkCmd.Flags().BoolVar(&checkExec, "exec", false, "Run the bound actions during --keys")
}
