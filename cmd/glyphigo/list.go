package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yuanying/glyphigo/internal/charset"
	"github.com/yuanying/glyphigo/internal/epubgen"
	"github.com/yuanying/glyphigo/internal/source"
	"github.com/yuanying/glyphigo/internal/ucd"
)

type listOptions struct {
	globalOptions
	Source   sourceRef
	Loader   *source.Loader
	Order    charset.Order
	EPUBPath string // empty when no ebook is requested
}

func (a *app) listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the Unicode characters of a font, glyph list, range, ebook or plain text file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.readListOptions(cmd)
			if err != nil {
				return err
			}
			return a.runList(cmd, opts)
		},
	}
	addSourceFlags(cmd, kindFont, kindGlyphs, kindRange, kindEbook, kindPlain)
	markExclusive(cmd, kindFont, kindGlyphs, kindRange, kindEbook, kindPlain)
	cmd.Flags().BoolP("sort", "s", false, "Sort by descending count instead of codepoint")
	cmd.Flags().BoolP("epub", "u", false, "Also write <input>.epub listing the characters")
	return cmd
}

func (a *app) readListOptions(cmd *cobra.Command) (listOptions, error) {
	g, err := readGlobalOptions(cmd)
	if err != nil {
		return listOptions{}, err
	}
	ref, err := readSourceRef(cmd, kindFont, kindGlyphs, kindRange, kindEbook, kindPlain)
	if err != nil {
		return listOptions{}, err
	}
	loader, err := readLoader(cmd, a.fontDriver(g.Logger), g.Logger)
	if err != nil {
		return listOptions{}, err
	}

	opts := listOptions{
		globalOptions: g,
		Source:        ref,
		Loader:        loader,
		Order:         readOrder(cmd),
	}
	if withEPUB, _ := cmd.Flags().GetBool("epub"); withEPUB {
		opts.EPUBPath = ref.Path + ".epub"
	}
	return opts, nil
}

func (a *app) runList(cmd *cobra.Command, opts listOptions) error {
	cs, err := load(opts.Loader, opts.Console, opts.Source)
	if err != nil {
		return err
	}

	if opts.EPUBPath != "" {
		title := fmt.Sprintf("List of Unicode characters in %s", opts.Source.Path)
		if err := writeEPUB(opts.globalOptions, a.db, cs.Runes(), title, opts.EPUBPath); err != nil {
			return err
		}
	}

	if opts.Source.Kind.hasCounts() {
		cs = cs.Sorted(opts.Order)
	}
	opts.Console.Info("BEGIN %s '%s' contains the following Unicode characters", opts.Source.label(), opts.Source.Path)
	if err := writeCharList(cmd.OutOrStdout(), a.db, cs, opts.Verbose, opts.Source.Kind.hasCounts()); err != nil {
		return withCode(exitCommandFailed, err)
	}
	opts.Console.Info("END")
	return nil
}

type countOptions struct {
	globalOptions
	Source sourceRef
	Loader *source.Loader
}

func (a *app) countCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "count",
		Short: "Print the number of characters in the text of an ebook or plain text file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.readCountOptions(cmd)
			if err != nil {
				return err
			}
			cs, err := load(opts.Loader, opts.Console, opts.Source)
			if err != nil {
				return err
			}
			done := opts.Console.step("Number of characters appearing in '%s'", opts.Source.Path)
			fmt.Fprintln(cmd.OutOrStdout(), cs.Total())
			done()
			return nil
		},
	}
	addSourceFlags(cmd, textSide...)
	markExclusive(cmd, textSide...)
	return cmd
}

func (a *app) readCountOptions(cmd *cobra.Command) (countOptions, error) {
	g, err := readGlobalOptions(cmd)
	if err != nil {
		return countOptions{}, err
	}
	ref, err := readSourceRef(cmd, textSide...)
	if err != nil {
		return countOptions{}, err
	}
	loader, err := readLoader(cmd, nil, g.Logger)
	if err != nil {
		return countOptions{}, err
	}
	return countOptions{globalOptions: g, Source: ref, Loader: loader}, nil
}

// writeEPUB writes a character list book to path.
func writeEPUB(g globalOptions, db ucd.Database, chars []rune, title, path string) error {
	done := g.Console.step("Creating '%s'", path)
	b := &epubgen.Builder{DB: db, Logger: g.Logger}
	if err := b.Build(chars, title, path); err != nil {
		return withCode(exitCommandFailed, fmt.Errorf("failed to create '%s': %w", path, err))
	}
	done()
	return nil
}

