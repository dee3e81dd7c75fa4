package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// conwayRule is the default rule, Conway's Life.
const conwayRule = "B3/S23"

// Config represents the command-line parameters for the application.
type Config struct {
	Width           int
	Height          int
	Title           string
	Rate            uint
	Zoom            int
	Rule            string
	Params          string
	KernelDir       string
	ValidateKernels bool
	Software        bool
	Profile         bool
	VSync           bool
	FrameLimit      float64
	LogLevel        string
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Width:    1280,
		Height:   720,
		Title:    "Automata",
		Rate:     1,
		Zoom:     1,
		Rule:     conwayRule,
		VSync:    true,
		LogLevel: "info",
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.IntVar(&c.Width, "width", c.Width, "window width in pixels")
	fs.IntVar(&c.Height, "height", c.Height, "window height in pixels")
	fs.StringVar(&c.Title, "title", c.Title, "window title")
	fs.UintVar(&c.Rate, "rate", c.Rate, "generations simulated per frame")
	fs.IntVar(&c.Zoom, "zoom", c.Zoom, "pixels per cell, 1 to 4")
	fs.StringVar(&c.Rule, "rule", c.Rule, "rule in B/S or B/S/C notation, e.g. B3/S23 or B2/S/C3")
	fs.StringVar(&c.Params, "params", c.Params, "raw parameter table as comma-separated int16 values, overrides -rule")
	fs.StringVar(&c.KernelDir, "kernels", c.KernelDir, "directory with randomize.wgsl, simulate.wgsl or finalize.wgsl overrides")
	fs.BoolVar(&c.ValidateKernels, "validate-kernels", c.ValidateKernels, "compile kernels offline before creating GPU objects")
	fs.BoolVar(&c.Software, "software", c.Software, "force the fallback software adapter")
	fs.BoolVar(&c.Profile, "profile", c.Profile, "log frame rate and generations per second")
	fs.BoolVar(&c.VSync, "vsync", c.VSync, "wait for vertical blank when presenting")
	fs.Float64Var(&c.FrameLimit, "fps", c.FrameLimit, "frame rate cap, 0 for none")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "debug, info, warn or error")
}

// Parameters returns the initial parameter table: -params when set, otherwise -rule.
func (c *Config) Parameters() ([]int16, error) {
	if strings.TrimSpace(c.Params) != "" {
		return ParseParameters(c.Params)
	}
	return ParseRule(c.Rule)
}

// ParseParameters parses a comma-separated list of int16 values.
func ParseParameters(s string) ([]int16, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out []int16
	for i, field := range strings.Split(s, ",") {
		v, err := strconv.ParseInt(strings.TrimSpace(field), 10, 16)
		if err != nil {
			return nil, fmt.Errorf("params: value %d: %w", i, err)
		}
		out = append(out, int16(v))
	}
	return out, nil
}

// ParseRule converts B/S notation into a parameter table: [0] the number of states, [1..9]
// birth flags and [10..18] survival flags by neighbour count. A third C<n> (or bare <n>)
// component selects a Generations rule with n states.
func ParseRule(rule string) ([]int16, error) {
	parts := strings.Split(strings.ToUpper(strings.TrimSpace(rule)), "/")
	if len(parts) < 2 || len(parts) > 3 {
		return nil, fmt.Errorf("rule %q: want B<digits>/S<digits>[/C<states>]", rule)
	}

	table := make([]int16, 19)
	table[0] = 2
	if err := ruleCounts(parts[0], "B", table[1:10]); err != nil {
		return nil, fmt.Errorf("rule %q: %w", rule, err)
	}
	if err := ruleCounts(parts[1], "S", table[10:19]); err != nil {
		return nil, fmt.Errorf("rule %q: %w", rule, err)
	}
	if len(parts) == 3 {
		states, err := strconv.ParseInt(strings.TrimPrefix(parts[2], "C"), 10, 16)
		if err != nil || states < 2 {
			return nil, fmt.Errorf("rule %q: states must be an integer of at least 2", rule)
		}
		table[0] = int16(states)
	}
	return table, nil
}

func ruleCounts(part, prefix string, flags []int16) error {
	digits, ok := strings.CutPrefix(part, prefix)
	if !ok {
		return fmt.Errorf("missing %s section", prefix)
	}
	for _, r := range digits {
		if r < '0' || r > '8' {
			return fmt.Errorf("neighbour count %q out of range 0..8", r)
		}
		flags[r-'0'] = 1
	}
	return nil
}

// ParseLevel maps a level name onto a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, errors.New("log-level: want debug, info, warn or error")
	}
	return level, nil
}
