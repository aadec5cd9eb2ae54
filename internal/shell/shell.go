// Package shell is the line-oriented interactive front end: a numbered menu
// read from an io.Reader, with results rendered as text to an io.Writer.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kalviumcommunity/S56-Shreyas-OOP-Home-Automation-System/internal/automation"
	"github.com/kalviumcommunity/S56-Shreyas-OOP-Home-Automation-System/internal/device"
)

// Messages printed by the shell.
const (
	msgInvalidChoice = "Invalid choice. Please try again."
	msgExiting       = "Exiting..."
	defaultPrompt    = "Choose an option:"
)

// Logger defines the logging interface used by the shell.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}

// Shell drives a device registry and routine engine from text input.
type Shell struct {
	registry    *device.Registry
	engine      *automation.Engine
	history     automation.History
	in          *bufio.Scanner
	out         io.Writer
	prompt      string
	recentLimit int
	logger      Logger
}

// Option configures a Shell.
type Option func(*Shell)

// WithPrompt sets the heading printed above the menu.
func WithPrompt(prompt string) Option {
	return func(s *Shell) {
		if prompt != "" {
			s.prompt = prompt
		}
	}
}

// WithRecentLimit sets how many executions "Show recent routine runs" prints.
func WithRecentLimit(n int) Option {
	return func(s *Shell) {
		if n > 0 {
			s.recentLimit = n
		}
	}
}

// WithLogger sets the shell's logger.
func WithLogger(logger Logger) Option {
	return func(s *Shell) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a shell. history may be nil, in which case recent runs are
// reported as unavailable.
func New(registry *device.Registry, engine *automation.Engine, history automation.History, in io.Reader, out io.Writer, opts ...Option) *Shell {
	s := &Shell{
		registry:    registry,
		engine:      engine,
		history:     history,
		in:          bufio.NewScanner(in),
		out:         out,
		prompt:      defaultPrompt,
		recentLimit: 10,
		logger:      noopLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// action is one menu entry.
type action struct {
	label string
	run   func(ctx context.Context) error
}

// errExit ends the loop normally.
var errExit = errors.New("exit")

// menu builds the entries: one per routine in definition order, then the
// fixed device and history operations, then Exit.
func (s *Shell) menu() []action {
	routines := s.engine.Routines()
	actions := make([]action, 0, len(routines)+7)

	for _, name := range routines {
		actions = append(actions, action{
			label: fmt.Sprintf("Execute %s routine", name),
			run:   func(ctx context.Context) error { return s.runRoutine(ctx, name) },
		})
	}

	return append(actions,
		action{"Show device summary", s.showSummary},
		action{"List devices", s.listDevices},
		action{"Turn a device on", func(context.Context) error { return s.setPower(device.On) }},
		action{"Turn a device off", func(context.Context) error { return s.setPower(device.Off) }},
		action{"Dim a light", s.dimLight},
		action{"Show recent routine runs", s.showRecent},
		action{"Exit", func(context.Context) error { return errExit }},
	)
}

// Run reads selections until Exit, end of input, or ctx is cancelled.
// Operation errors are printed and the loop continues; only input errors
// are returned.
func (s *Shell) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			s.println(msgExiting)
			return nil //nolint:nilerr // cancellation is a normal way to leave the shell
		}

		actions := s.menu()
		s.printf("\n%s\n", s.prompt)
		for i, a := range actions {
			s.printf("%d. %s\n", i+1, a.label)
		}

		line, ok, err := s.readLine()
		if err != nil {
			return err
		}
		if !ok {
			s.println(msgExiting)
			return nil
		}

		choice, convErr := strconv.Atoi(line)
		if convErr != nil || choice < 1 || choice > len(actions) {
			s.logger.Debug("invalid menu choice", "input", line)
			s.println(msgInvalidChoice)
			continue
		}

		err = actions[choice-1].run(ctx)
		switch {
		case errors.Is(err, errExit):
			s.println(msgExiting)
			return nil
		case errors.Is(err, io.EOF):
			s.println(msgExiting)
			return nil
		case err != nil:
			s.logger.Warn("shell operation failed", "operation", actions[choice-1].label, "error", err)
			s.printf("Error: %v\n", err)
		}
	}
}

func (s *Shell) runRoutine(ctx context.Context, name string) error {
	s.printf("Executing %s routine...\n", name)
	statuses, err := s.engine.Run(ctx, name, s.registry)
	if err != nil {
		return err
	}
	for _, st := range statuses {
		s.println(st.String())
	}
	return nil
}

func (s *Shell) showSummary(context.Context) error {
	sum := s.registry.Summary()
	s.printf("Total devices: %d\n", sum.TotalDevices)
	s.printf("Devices on: %d\n", sum.DevicesOn)

	stats := s.registry.Stats()
	for _, k := range device.AllKinds() {
		if st, ok := stats[k]; ok {
			s.printf("  %s: %d (%d on)\n", k.DisplayName(), st.Total, st.On)
		}
	}
	return nil
}

func (s *Shell) listDevices(context.Context) error {
	devices := s.registry.ListDevices()
	if len(devices) == 0 {
		s.println("No devices registered.")
		return nil
	}
	for i, d := range devices {
		s.printf("%d. %s\n", i+1, d)
	}
	return nil
}

func (s *Shell) setPower(p device.Power) error {
	id, err := s.ask("Device ID: ")
	if err != nil {
		return err
	}

	var changed bool
	if p == device.On {
		changed, err = s.registry.TurnOn(id)
	} else {
		changed, err = s.registry.TurnOff(id)
	}
	if err != nil {
		return err
	}

	state := strings.ToUpper(p.String())
	if changed {
		s.printf("%s is now %s.\n", id, state)
	} else {
		s.printf("%s is already %s.\n", id, state)
	}
	return nil
}

func (s *Shell) dimLight(context.Context) error {
	id, err := s.ask("Device ID: ")
	if err != nil {
		return err
	}
	if _, err := s.registry.Get(id); err != nil {
		return err
	}

	raw, err := s.ask("Brightness (0-100): ")
	if err != nil {
		return err
	}
	level, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("%w: brightness must be a whole number, got %q", device.ErrOutOfRange, raw)
	}

	st, err := s.registry.Dim(id, level)
	if err != nil {
		return err
	}
	s.println(st.String())
	return nil
}

func (s *Shell) showRecent(ctx context.Context) error {
	if s.history == nil {
		s.println("Routine history is disabled.")
		return nil
	}

	runs, err := s.history.Recent(ctx, "", s.recentLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		s.println("No routine runs recorded.")
		return nil
	}
	for _, e := range runs {
		s.printf("%s  %-14s devices=%d transitions=%d statuses=%d\n",
			e.StartedAt.Local().Format("2006-01-02 15:04:05"),
			e.Routine,
			e.DevicesMatched,
			e.Transitions,
			len(e.Statuses),
		)
	}
	return nil
}

// ask prints a prompt and reads one trimmed line. End of input is io.EOF.
func (s *Shell) ask(prompt string) (string, error) {
	s.printf("%s", prompt)
	line, ok, err := s.readLine()
	if err != nil {
		return "", err
	}
	if !ok {
		return "", io.EOF
	}
	return line, nil
}

func (s *Shell) readLine() (string, bool, error) {
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", false, fmt.Errorf("reading input: %w", err)
		}
		return "", false, nil
	}
	return strings.TrimSpace(s.in.Text()), true, nil
}

func (s *Shell) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...) //nolint:errcheck // terminal output
}

func (s *Shell) println(line string) {
	fmt.Fprintln(s.out, line) //nolint:errcheck // terminal output
}
