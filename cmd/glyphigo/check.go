package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yuanying/glyphigo/internal/charset"
	"github.com/yuanying/glyphigo/internal/coverage"
	"github.com/yuanying/glyphigo/internal/fontdriver"
	"github.com/yuanying/glyphigo/internal/source"
)

const missingEPUBPath = "missing.epub"

var errNoOutput = errors.New("output was not created")

type checkOptions struct {
	globalOptions
	Font     sourceRef
	Text     sourceRef
	Loader   *source.Loader
	Order    charset.Order
	EPUBPath string
}

func (a *app) checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check whether a font contains all the glyphs needed to display an ebook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.readCheckOptions(cmd)
			if err != nil {
				return err
			}
			return a.runCheck(cmd, opts)
		},
	}
	addSourceFlags(cmd, kindFont, kindGlyphs, kindRange, kindEbook, kindPlain)
	markExclusive(cmd, fontSide...)
	markExclusive(cmd, textSide...)
	cmd.Flags().BoolP("sort", "s", false, "Sort missing characters by descending count instead of codepoint")
	cmd.Flags().BoolP("epub", "u", false, "Also write "+missingEPUBPath+" listing the missing characters")
	return cmd
}

func (a *app) readCheckOptions(cmd *cobra.Command) (checkOptions, error) {
	g, err := readGlobalOptions(cmd)
	if err != nil {
		return checkOptions{}, err
	}
	font, err := readSourceRef(cmd, fontSide...)
	if err != nil {
		return checkOptions{}, err
	}
	text, err := readSourceRef(cmd, textSide...)
	if err != nil {
		return checkOptions{}, err
	}
	loader, err := readLoader(cmd, a.fontDriver(g.Logger), g.Logger)
	if err != nil {
		return checkOptions{}, err
	}

	opts := checkOptions{
		globalOptions: g,
		Font:          font,
		Text:          text,
		Loader:        loader,
		Order:         readOrder(cmd),
	}
	if withEPUB, _ := cmd.Flags().GetBool("epub"); withEPUB {
		opts.EPUBPath = missingEPUBPath
	}
	return opts, nil
}

func (a *app) runCheck(cmd *cobra.Command, opts checkOptions) error {
	fontChars, err := load(opts.Loader, opts.Console, opts.Font)
	if err != nil {
		return err
	}
	textChars, err := load(opts.Loader, opts.Console, opts.Text)
	if err != nil {
		return err
	}
	report := coverage.Check(fontChars, textChars)
	return a.reportCoverage(cmd, opts.globalOptions, opts.Font, opts.Text, report, opts.Order, opts.EPUBPath)
}

// reportCoverage prints the outcome of a coverage check. Missing
// characters turn into exitMissingGlyphs.
func (a *app) reportCoverage(cmd *cobra.Command, g globalOptions, font, text sourceRef, report coverage.Report, order charset.Order, epubPath string) error {
	document := "ebook"
	if text.Kind == kindPlain {
		document = "file"
	}
	if report.Complete() {
		g.Console.Success("Your font '%s' contains all the glyphs required to display your %s '%s'", font.Path, document, text.Path)
		return nil
	}

	g.Console.Warning("Your font '%s' does not contain all the glyphs required to display your %s '%s'", font.Path, document, text.Path)
	g.Console.Info("BEGIN Missing glyphs")
	if err := writeCharList(cmd.OutOrStdout(), a.db, report.Missing.Sorted(order), g.Verbose, true); err != nil {
		return withCode(exitCommandFailed, err)
	}
	g.Console.Info("END")

	if epubPath != "" {
		title := fmt.Sprintf("List of Unicode characters of %s missing in %s", text.Path, font.Path)
		if err := writeEPUB(g, a.db, report.Missing.Runes(), title, epubPath); err != nil {
			return err
		}
	}
	return withCode(exitMissingGlyphs, nil)
}

type minimizeOptions struct {
	globalOptions
	FontPath string
	Text     sourceRef
	Loader   *source.Loader
	Driver   fontdriver.Driver
	Output   string
	Order    charset.Order
	EPUB     bool
}

func (a *app) minimizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "minimize",
		Short: "Retain only the glyphs of a font that appear in an ebook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.readMinimizeOptions(cmd)
			if err != nil {
				return err
			}
			return a.runMinimize(cmd, opts)
		},
	}
	addSourceFlags(cmd, kindFont, kindEbook, kindPlain)
	_ = cmd.MarkFlagRequired(sourceFlag[kindFont])
	markExclusive(cmd, textSide...)
	cmd.Flags().StringP("output", "o", "", "Minimized font path (default: new.<font> next to the font)")
	cmd.Flags().BoolP("sort", "s", false, "Sort missing characters by descending count instead of codepoint")
	cmd.Flags().BoolP("epub", "u", false, "Also write <output>.epub listing the retained characters")
	return cmd
}

// defaultMinimizedPath returns new.<name> in the directory of fontPath.
func defaultMinimizedPath(fontPath string) string {
	return filepath.Join(filepath.Dir(fontPath), "new."+filepath.Base(fontPath))
}

func (a *app) readMinimizeOptions(cmd *cobra.Command) (minimizeOptions, error) {
	g, err := readGlobalOptions(cmd)
	if err != nil {
		return minimizeOptions{}, err
	}
	fontPath, _ := cmd.Flags().GetString("font")
	if fontPath == "" {
		return minimizeOptions{}, errors.New("--font is required")
	}
	text, err := readSourceRef(cmd, textSide...)
	if err != nil {
		return minimizeOptions{}, err
	}
	driver := a.fontDriver(g.Logger)
	loader, err := readLoader(cmd, driver, g.Logger)
	if err != nil {
		return minimizeOptions{}, err
	}
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = defaultMinimizedPath(fontPath)
	}
	withEPUB, _ := cmd.Flags().GetBool("epub")

	return minimizeOptions{
		globalOptions: g,
		FontPath:      fontPath,
		Text:          text,
		Loader:        loader,
		Driver:        driver,
		Output:        output,
		Order:         readOrder(cmd),
		EPUB:          withEPUB,
	}, nil
}

func (a *app) runMinimize(cmd *cobra.Command, opts minimizeOptions) error {
	target, err := load(opts.Loader, opts.Console, opts.Text)
	if err != nil {
		return err
	}

	f, fontChars, err := openFont(opts.Driver, opts.Console, opts.FontPath)
	if err != nil {
		return err
	}
	defer f.Close()

	done := opts.Console.step("Minimizing font '%s' according to the characters appearing in '%s'", opts.FontPath, opts.Text.Path)
	retained, err := coverage.Minimize(f, target, opts.Output)
	if err == nil && !fileExists(opts.Output) {
		err = errNoOutput
	}
	if err != nil {
		return withCode(exitCommandFailed, fmt.Errorf("failed to minimize '%s' into '%s': %w", opts.FontPath, opts.Output, err))
	}
	done()
	opts.Console.Success("Successfully created minimized font '%s'", opts.Output)
	opts.Console.Info("Retained %d of the %d characters of '%s'", len(retained), len(fontChars), opts.FontPath)

	if opts.EPUB {
		title := fmt.Sprintf("List of Unicode characters in %s", opts.Output)
		if err := writeEPUB(opts.globalOptions, a.db, retained, title, opts.Output+".epub"); err != nil {
			return err
		}
	}

	font := sourceRef{Kind: kindFont, Path: opts.FontPath}
	return a.reportCoverage(cmd, opts.globalOptions, font, opts.Text, coverage.Check(fontChars, target), opts.Order, "")
}

// openFont opens the font at path and reads its characters.
func openFont(driver fontdriver.Driver, con *console, path string) (fontdriver.Font, charset.CharSet, error) {
	done := con.step("Reading glyphs contained in '%s'", path)
	f, err := driver.Open(path)
	if err != nil {
		return nil, nil, withCode(exitInvalidArgument,
			fmt.Errorf("font file '%s' does not exist or it cannot be read: %w", path, err))
	}
	cs := source.FontGlyphs(f)
	done()
	return f, cs, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

type convertOptions struct {
	globalOptions
	FontPath string
	Output   string
	Driver   fontdriver.Driver
}

func (a *app) convertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Write a font with all its glyphs to a new file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.readConvertOptions(cmd)
			if err != nil {
				return err
			}
			return runConvert(opts)
		},
	}
	addSourceFlags(cmd, kindFont)
	cmd.Flags().StringP("output", "o", "", "Output font path")
	_ = cmd.MarkFlagRequired("font")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func (a *app) readConvertOptions(cmd *cobra.Command) (convertOptions, error) {
	g, err := readGlobalOptions(cmd)
	if err != nil {
		return convertOptions{}, err
	}
	fontPath, _ := cmd.Flags().GetString("font")
	output, _ := cmd.Flags().GetString("output")
	if fontPath == "" || output == "" {
		return convertOptions{}, errors.New("--font and --output are required")
	}
	return convertOptions{
		globalOptions: g,
		FontPath:      fontPath,
		Output:        output,
		Driver:        a.fontDriver(g.Logger),
	}, nil
}

func runConvert(opts convertOptions) error {
	f, _, err := openFont(opts.Driver, opts.Console, opts.FontPath)
	if err != nil {
		return err
	}
	defer f.Close()

	done := opts.Console.step("Converting font '%s' into '%s'", opts.FontPath, opts.Output)
	err = coverage.Convert(f, opts.Output)
	if err == nil && !fileExists(opts.Output) {
		err = errNoOutput
	}
	if err != nil {
		return withCode(exitCommandFailed, fmt.Errorf("failed to convert '%s' into '%s': %w", opts.FontPath, opts.Output, err))
	}
	done()
	return nil
}
