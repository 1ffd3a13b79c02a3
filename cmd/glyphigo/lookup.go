package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/yuanying/glyphigo/internal/lookup"
)

const replPrompt = "lookup > "

// lineReader reads interactive input one line at a time.
type lineReader interface {
	Readline() (string, error)
	Close() error
}

func openReadline(prompt string) (lineReader, error) {
	return readline.New(prompt)
}

type lookupOptions struct {
	globalOptions
	Queries     []string
	Heuristic   bool
	Compact     bool
	Interactive bool
	Workers     int
}

func (a *app) lookupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup [query...]",
		Short: "Look up Unicode information for characters",
		Long: `Look up Unicode information for each query. A query is a single
character, a codepoint ("x203d", "0x203d", "d8253" or "8253") or an exact
character name. With --heuristic the query is a list of words which must
all appear in the name of a matching character.`,
		Example: `  glyphigo lookup x203d
  glyphigo lookup INTERROBANG
  glyphigo lookup --heuristic "GREEK OMEGA OXIA"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := readLookupOptions(cmd, args)
			if err != nil {
				return err
			}
			return a.runLookup(cmd, opts)
		},
	}
	cmd.Flags().BoolP("heuristic", "H", false, "Match every character whose name contains all query words (slow)")
	cmd.Flags().BoolP("compact", "c", false, "Print only the character and its name")
	cmd.Flags().BoolP("interactive", "i", false, "Read queries interactively until EOF")
	cmd.Flags().Int("workers", 0, "Parallel workers for --heuristic (default: number of CPUs)")
	return cmd
}

func readLookupOptions(cmd *cobra.Command, args []string) (lookupOptions, error) {
	g, err := readGlobalOptions(cmd)
	if err != nil {
		return lookupOptions{}, err
	}
	heuristic, _ := cmd.Flags().GetBool("heuristic")
	compact, _ := cmd.Flags().GetBool("compact")
	interactive, _ := cmd.Flags().GetBool("interactive")
	workers, _ := cmd.Flags().GetInt("workers")

	if workers < 0 {
		return lookupOptions{}, fmt.Errorf("invalid --workers %d: must be >= 0", workers)
	}
	if len(args) == 0 && !interactive {
		return lookupOptions{}, errors.New("a query is required unless --interactive is set")
	}

	return lookupOptions{
		globalOptions: g,
		Queries:       args,
		Heuristic:     heuristic,
		Compact:       compact,
		Interactive:   interactive,
		Workers:       workers,
	}, nil
}

func (a *app) runLookup(cmd *cobra.Command, opts lookupOptions) error {
	finder := &lookup.Finder{DB: a.db, Workers: opts.Workers}
	w := cmd.OutOrStdout()

	failed := false
	for _, q := range opts.Queries {
		ok, err := a.lookupOne(w, opts, finder, q)
		if err != nil {
			return withCode(exitCommandFailed, err)
		}
		if !ok {
			failed = true
		}
	}

	if opts.Interactive {
		if err := a.lookupREPL(w, opts, finder); err != nil {
			return withCode(exitCommandFailed, err)
		}
	}
	if failed {
		return withCode(exitLookupFailed, nil)
	}
	return nil
}

// lookupOne prints the matches of query and reports whether there were
// any.
func (a *app) lookupOne(w io.Writer, opts lookupOptions, finder *lookup.Finder, query string) (bool, error) {
	var results []rune
	if opts.Heuristic {
		results = finder.Heuristic(query)
	} else {
		results = finder.Exact(query)
	}
	opts.Logger.Debug("lookup", "query", query, "heuristic", opts.Heuristic, "matches", len(results))
	if len(results) == 0 {
		opts.Console.Warning("Lookup for '%s' failed", query)
		return false, nil
	}

	if opts.Compact {
		for _, r := range results {
			if err := lookup.WriteCompact(w, lookup.Describe(a.db, r)); err != nil {
				return true, err
			}
		}
		return true, nil
	}

	opts.Console.Info("Lookup results for query '%s'", query)
	for _, r := range results {
		opts.Console.Info("Matched Unicode character '%s'", string(r))
		if err := lookup.WriteFull(w, lookup.Describe(a.db, r)); err != nil {
			return true, err
		}
		opts.Console.Info("=== === === === === ===")
	}
	return true, nil
}

func (a *app) lookupREPL(w io.Writer, opts lookupOptions, finder *lookup.Finder) error {
	rl, err := a.openREPL(replPrompt)
	if err != nil {
		return fmt.Errorf("failed to start interactive mode: %w", err)
	}
	defer rl.Close()

	opts.Console.Info("Quit with <ctrl>D")
	for {
		line, err := rl.Readline()
		if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
			return nil
		}
		if err != nil {
			return err
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		if _, err := a.lookupOne(w, opts, finder, line); err != nil {
			return err
		}
	}
}
