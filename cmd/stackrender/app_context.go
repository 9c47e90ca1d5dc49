package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/alexisbeaulieu97/stackrender/internal/app/rendering"
	"github.com/alexisbeaulieu97/stackrender/internal/config"
	"github.com/alexisbeaulieu97/stackrender/internal/infrastructure/events"
	"github.com/alexisbeaulieu97/stackrender/internal/logger"
	"github.com/alexisbeaulieu97/stackrender/internal/ports"
	"github.com/alexisbeaulieu97/stackrender/internal/render"
)

// AppContext bundles the services a command needs for its lifetime.
type AppContext struct {
	Config  *config.Config
	Logger  ports.Logger
	Service *rendering.Service
	Events  *events.Publisher
	closeFn func() error
	buffer  *logger.Buffer
	direct  ports.Logger
}

// Close flushes buffered logs and releases the style store.
func (a *AppContext) Close() error {
	if a == nil {
		return nil
	}
	if a.buffer != nil {
		a.buffer.Flush(a.direct)
	}
	if a.closeFn == nil {
		return nil
	}
	return a.closeFn()
}

// newAppContext loads the configuration named by the root flags and wires
// the rendering service. It returns a context carrying a fresh correlation ID.
func newAppContext(cmd *cobra.Command, root *rootFlags, command string) (context.Context, *AppContext, error) {
	return loadApp(cmd, root, command, nil)
}

// newBufferedAppContext is newAppContext for full screen commands: logs are
// held in memory and written out by Close.
func newBufferedAppContext(cmd *cobra.Command, root *rootFlags, command string) (context.Context, *AppContext, error) {
	return loadApp(cmd, root, command, logger.NewBuffer(0))
}

func loadApp(cmd *cobra.Command, root *rootFlags, command string, buffer *logger.Buffer) (context.Context, *AppContext, error) {
	cfg, err := config.ParseConfig(root.configPath)
	if err != nil {
		return nil, nil, err
	}

	level := cfg.Logging.Level
	if root.logLevel != "" {
		level = root.logLevel
	}
	log, err := logger.New(logger.Options{
		Level:         level,
		HumanReadable: !root.jsonLogs,
		Writer:        cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = ports.WithCorrelationID(ctx, ports.GenerateCorrelationID())
	direct := log.With("command", command)
	cmdLog := direct
	if buffer != nil {
		cmdLog = logger.NewBuffered(buffer).With("command", command)
	}

	svc, publisher, closeFn, err := rendering.NewFromConfig(ctx, cfg, cmdLog, nil)
	if err != nil {
		if closeFn != nil {
			_ = closeFn()
		}
		if buffer != nil {
			buffer.Flush(direct)
		}
		return nil, nil, err
	}

	return ctx, &AppContext{
		Config:  cfg,
		Logger:  cmdLog,
		Service: svc,
		Events:  publisher,
		closeFn: closeFn,
		buffer:  buffer,
		direct:  direct,
	}, nil
}

var (
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true)
)

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// printWarnings writes the result's warnings to w, styled when w is a TTY.
func printWarnings(w io.Writer, label string, res render.Result) {
	styled := isTerminal(w)
	for _, d := range res.Warnings() {
		line := "warning: " + d.String()
		if label != "" {
			line = label + ": " + line
		}
		if styled {
			line = warningStyle.Render(line)
		}
		fmt.Fprintln(w, line)
	}
}

func printError(w io.Writer, label string, err error) {
	line := fmt.Sprintf("%s: %v", label, err)
	if isTerminal(w) {
		line = errorStyle.Render(line)
	}
	fmt.Fprintln(w, line)
}

func printHeader(w io.Writer, text string) {
	if isTerminal(w) {
		text = headerStyle.Render(text)
	}
	fmt.Fprintln(w, text)
}

func modeNames() string {
	modes := render.Modes()
	names := make([]string, 0, len(modes))
	for _, m := range modes {
		names = append(names, m.Name)
	}
	return strings.Join(names, "|")
}
