package main

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// runForTest runs args against a fresh app and returns stdout, stderr and
// the exit code.
func runForTest(t *testing.T, a *app, args ...string) (string, string, int) {
	t.Helper()
	if a == nil {
		a = newApp()
	}
	var stdout, stderr bytes.Buffer
	code := run(a, args, &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return p
}

func TestReadGlobalOptions_Defaults(t *testing.T) {
	cmd := newRootCmd()
	opts, err := readGlobalOptions(cmd)
	if err != nil {
		t.Fatalf("readGlobalOptions() error = %v", err)
	}
	if opts.Verbose {
		t.Fatal("Verbose = true, want false")
	}
	if opts.Logger == nil {
		t.Fatal("Logger is nil, want non-nil")
	}
	if !opts.Logger.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatal("Logger should be enabled at INFO level by default")
	}
	if opts.Logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("Logger should not be enabled at DEBUG level by default")
	}
	if opts.Console == nil || opts.Console.quiet {
		t.Fatal("Console should print status messages by default")
	}
}

func TestReadGlobalOptions_CustomFlags(t *testing.T) {
	cmd := newRootCmd()
	if err := cmd.ParseFlags([]string{"--log-level", "error", "--verbose", "--quiet"}); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}
	opts, err := readGlobalOptions(cmd)
	if err != nil {
		t.Fatalf("readGlobalOptions() error = %v", err)
	}
	// --verbose overrides log-level to debug
	if !opts.Logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("Logger should be enabled at DEBUG level when --verbose is set")
	}
	if !opts.Verbose {
		t.Fatal("Verbose = false, want true")
	}
	if !opts.Console.quiet {
		t.Fatal("Console should be quiet with --quiet")
	}
}

func TestReadGlobalOptions_InheritedFromRoot(t *testing.T) {
	root := newRootCmd()
	for _, sub := range root.Commands() {
		opts, err := readGlobalOptions(sub)
		if err != nil {
			t.Fatalf("readGlobalOptions(%s) error = %v", sub.Name(), err)
		}
		if opts.Verbose || opts.Console.quiet {
			t.Fatalf("readGlobalOptions(%s) = %+v, want defaults", sub.Name(), opts)
		}
		if !opts.Logger.Enabled(context.Background(), slog.LevelInfo) {
			t.Fatalf("%s: logger should be enabled at INFO level by default", sub.Name())
		}
	}
}

func TestReadGlobalOptions_SubcommandFlags(t *testing.T) {
	stdout, stderr, code := runForTest(t, nil, "blocks", "--log-level", "trace")
	if code != exitInvalidArgument {
		t.Fatalf("exit code = %d, stdout = %s", code, stdout)
	}
	if !strings.Contains(stderr, "--log-level") {
		t.Fatalf("stderr = %s", stderr)
	}
}

func TestReadGlobalOptions_Invalid(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{args: []string{"--log-level", "trace"}, want: "--log-level"},
		{args: []string{"--log-format", "yaml"}, want: "--log-format"},
	}
	for _, tt := range tests {
		cmd := newRootCmd()
		if err := cmd.ParseFlags(tt.args); err != nil {
			t.Fatalf("ParseFlags(%v) error = %v", tt.args, err)
		}
		_, err := readGlobalOptions(cmd)
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Fatalf("readGlobalOptions(%v) error = %v, want %s validation error", tt.args, err, tt.want)
		}
	}
}

func TestBuildLogger_FormatNormalization(t *testing.T) {
	var buf bytes.Buffer
	logger := buildLogger(&buf, "info", "JSON")
	logger.Info("test message")
	// JSON format should produce JSON output (starts with '{')
	output := buf.String()
	if len(output) == 0 || output[0] != '{' {
		t.Fatalf("expected JSON output for format 'JSON', got: %s", output)
	}
}

func TestBuildLogger_InvalidLevelFallsBackToInfo(t *testing.T) {
	logger := buildLogger(&bytes.Buffer{}, "loud", "text")
	if !logger.Enabled(context.Background(), slog.LevelInfo) || logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("expected INFO level for an unknown level name")
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: exitOK},
		{name: "plain error", err: errors.New("bad flag"), want: exitInvalidArgument},
		{name: "missing glyphs", err: withCode(exitMissingGlyphs, nil), want: exitMissingGlyphs},
		{name: "wrapped", err: errors.Join(errors.New("x"), withCode(exitLookupFailed, nil)), want: exitLookupFailed},
		{name: "command failed", err: withCode(exitCommandFailed, errors.New("boom")), want: exitCommandFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Fatalf("exitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	_, stderr, code := runForTest(t, nil, "frobnicate")
	if code != exitInvalidArgument {
		t.Fatalf("exit code = %d, want %d", code, exitInvalidArgument)
	}
	if !strings.Contains(stderr, "frobnicate") {
		t.Fatalf("stderr should name the unknown command, got: %s", stderr)
	}
}

func TestConsole_Quiet(t *testing.T) {
	var buf bytes.Buffer
	c := newConsole(&buf, true)
	c.Info("hello")
	c.step("working")()
	if buf.Len() != 0 {
		t.Fatalf("quiet console printed %q", buf.String())
	}

	c = newConsole(&buf, false)
	c.step("Reading '%s'", "x")()
	out := buf.String()
	if !strings.Contains(out, "Reading 'x'...") || !strings.Contains(out, "Reading 'x'... Done") {
		t.Fatalf("unexpected step output: %q", out)
	}
}
