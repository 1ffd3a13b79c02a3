package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yuanying/glyphigo/internal/fontdriver"
	"github.com/yuanying/glyphigo/internal/ucd"
)

// Process exit codes.
const (
	exitOK              = 0
	exitInvalidArgument = 1
	exitMissingGlyphs   = 2
	exitCommandFailed   = 4
	exitLookupFailed    = 8
)

const (
	defaultLogLevel  = "info"
	defaultLogFormat = "text"
)

// exitError carries the exit code of a failed command. A nil err means
// the failure has already been reported.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func withCode(code int, err error) error {
	return &exitError{code: code, err: err}
}

// exitCode maps err to the process exit code. Errors not raised by a
// command, such as flag parsing errors, are invalid arguments.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitInvalidArgument
}

// app holds the collaborators shared by all commands.
type app struct {
	driver   fontdriver.Driver
	db       ucd.Database
	openREPL func(prompt string) (lineReader, error)
}

func newApp() *app {
	return &app{
		db:       ucd.Default,
		openREPL: openReadline,
	}
}

func (a *app) fontDriver(logger *slog.Logger) fontdriver.Driver {
	if a.driver != nil {
		return a.driver
	}
	return fontdriver.SFNT{Logger: logger}
}

func newRootCmd() *cobra.Command {
	return newApp().rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "glyphigo",
		Short: "Check, minimize and inspect fonts against the characters of ebooks",
		Long: `glyphigo lists the Unicode characters of fonts, glyph lists, ranges,
EPUB ebooks and plain text files, checks whether a font can display an
ebook, minimizes fonts to the characters an ebook needs, looks up Unicode
character information and handles obfuscated EPUB fonts.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	flags := cmd.PersistentFlags()
	flags.String("log-level", defaultLogLevel, "Log level: debug, info, warn, error")
	flags.String("log-format", defaultLogFormat, "Log format: text, json")
	flags.BoolP("verbose", "v", false, "Verbose output (names and codepoints, debug logging)")
	flags.BoolP("quiet", "q", false, "Suppress status messages")

	cmd.AddCommand(
		a.listCmd(),
		a.countCmd(),
		a.checkCmd(),
		a.minimizeCmd(),
		a.convertCmd(),
		a.lookupCmd(),
		a.blocksCmd(),
		a.obfuscateCmd(),
		a.extractFontsCmd(),
	)
	return cmd
}

// globalOptions are the options shared by every command.
type globalOptions struct {
	Verbose bool
	Logger  *slog.Logger
	Console *console
}

func readGlobalOptions(cmd *cobra.Command) (globalOptions, error) {
	logLevel, err := flagValue(cmd, "log-level")
	if err != nil {
		return globalOptions{}, err
	}
	logFormat, err := flagValue(cmd, "log-format")
	if err != nil {
		return globalOptions{}, err
	}
	verbose, err := boolFlag(cmd, "verbose")
	if err != nil {
		return globalOptions{}, err
	}
	quiet, err := boolFlag(cmd, "quiet")
	if err != nil {
		return globalOptions{}, err
	}

	if _, err := parseLogLevel(logLevel); err != nil {
		return globalOptions{}, err
	}
	if err := validateLogFormat(logFormat); err != nil {
		return globalOptions{}, err
	}
	if verbose {
		logLevel = "debug"
	}

	return globalOptions{
		Verbose: verbose,
		Logger:  buildLogger(cmd.ErrOrStderr(), logLevel, logFormat),
		Console: newConsole(cmd.ErrOrStderr(), quiet),
	}, nil
}

// flagValue returns the value of the named flag, looking up the
// persistent flags inherited from the parent commands as well.
func flagValue(cmd *cobra.Command, name string) (string, error) {
	f := cmd.Flag(name)
	if f == nil {
		return "", fmt.Errorf("flag --%s is not defined", name)
	}
	return f.Value.String(), nil
}

func boolFlag(cmd *cobra.Command, name string) (bool, error) {
	v, err := flagValue(cmd, name)
	if err != nil {
		return false, err
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid --%s %q: %w", name, v, err)
	}
	return b, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid --log-level %q: must be one of debug, info, warn, error", s)
	}
}

func validateLogFormat(s string) error {
	switch strings.ToLower(s) {
	case "text", "json":
		return nil
	default:
		return fmt.Errorf("invalid --log-format %q: must be text or json", s)
	}
}

// buildLogger returns a logger writing to w. Unknown levels fall back to
// info and unknown formats to text.
func buildLogger(w io.Writer, level, format string) *slog.Logger {
	lvl, err := parseLogLevel(level)
	if err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// console prints status messages.
type console struct {
	w     io.Writer
	quiet bool
}

func newConsole(w io.Writer, quiet bool) *console {
	return &console{w: w, quiet: quiet}
}

func (c *console) print(p pterm.PrefixPrinter, format string, args ...any) {
	if c.quiet {
		return
	}
	fmt.Fprintln(c.w, p.Sprintf(format, args...))
}

func (c *console) Info(format string, args ...any) { c.print(pterm.Info, format, args...) }
func (c *console) Success(format string, args ...any) { c.print(pterm.Success, format, args...) }
func (c *console) Warning(format string, args ...any) { c.print(pterm.Warning, format, args...) }

// step prints "<msg>..." and returns a function printing "<msg>... Done".
func (c *console) step(format string, args ...any) func() {
	msg := fmt.Sprintf(format, args...)
	c.Info("%s...", msg)
	return func() { c.Info("%s... Done", msg) }
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// run executes the command line args and returns the exit code.
func run(a *app, args []string, stdout, stderr io.Writer) int {
	if !isTerminal(stdout) {
		pterm.DisableStyling()
	}

	cmd := a.rootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	var ee *exitError
	if err != nil && (!errors.As(err, &ee) || ee.err != nil) {
		fmt.Fprintln(stderr, pterm.Error.Sprint(err.Error()))
	}
	return exitCode(err)
}

func main() {
	os.Exit(run(newApp(), os.Args[1:], os.Stdout, os.Stderr))
}
