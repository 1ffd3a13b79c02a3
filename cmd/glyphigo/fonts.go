package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yuanying/glyphigo/internal/epub"
	"github.com/yuanying/glyphigo/internal/obfuscate"
)

type obfuscateOptions struct {
	globalOptions
	Input      string
	Output     string
	Identifier string
	Algorithm  obfuscate.Algorithm
}

func (a *app) obfuscateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "obfuscate",
		Aliases: []string{"deobfuscate"},
		Short:   "Obfuscate or restore an EPUB font with the IDPF or Adobe algorithm",
		Long: `Obfuscate or restore a font file. Both algorithms XOR the start of the
font with a key derived from the publication identifier, so running the
command on an obfuscated font restores it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := readObfuscateOptions(cmd)
			if err != nil {
				return err
			}
			return runObfuscate(opts)
		},
	}
	cmd.Flags().StringP("font", "f", "", "Input font file")
	cmd.Flags().StringP("output", "o", "", "Output font file")
	cmd.Flags().String("id", "", "Publication unique identifier")
	cmd.Flags().String("algorithm", "idpf", "Algorithm: idpf, adobe")
	_ = cmd.MarkFlagRequired("font")
	_ = cmd.MarkFlagRequired("output")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func readObfuscateOptions(cmd *cobra.Command) (obfuscateOptions, error) {
	g, err := readGlobalOptions(cmd)
	if err != nil {
		return obfuscateOptions{}, err
	}
	input, _ := cmd.Flags().GetString("font")
	output, _ := cmd.Flags().GetString("output")
	id, _ := cmd.Flags().GetString("id")
	algName, _ := cmd.Flags().GetString("algorithm")

	alg, err := obfuscate.ParseAlgorithm(algName)
	if err != nil {
		return obfuscateOptions{}, fmt.Errorf("invalid --algorithm: %w", err)
	}
	if _, err := obfuscate.DeriveKey(id, alg); err != nil {
		return obfuscateOptions{}, fmt.Errorf("invalid --id %q: %w", id, err)
	}
	if input == "" || output == "" {
		return obfuscateOptions{}, errors.New("--font and --output are required")
	}

	return obfuscateOptions{
		globalOptions: g,
		Input:         input,
		Output:        output,
		Identifier:    id,
		Algorithm:     alg,
	}, nil
}

func runObfuscate(opts obfuscateOptions) error {
	done := opts.Console.step("Transforming font '%s' into '%s' (%s)", opts.Input, opts.Output, opts.Algorithm)
	if err := obfuscate.TransformFile(opts.Input, opts.Output, opts.Identifier, opts.Algorithm); err != nil {
		if errors.Is(err, obfuscate.ErrInvalidKey) {
			return withCode(exitInvalidArgument, err)
		}
		return withCode(exitCommandFailed, fmt.Errorf("failed to transform '%s' into '%s': %w", opts.Input, opts.Output, err))
	}
	done()
	return nil
}

type extractOptions struct {
	globalOptions
	Input     string
	OutputDir string
}

func (a *app) extractFontsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract-fonts <ebook.epub>",
		Short: "Extract the embedded fonts of an EPUB, removing font obfuscation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := readExtractOptions(cmd, args)
			if err != nil {
				return err
			}
			return runExtractFonts(opts)
		},
	}
	cmd.Flags().StringP("output", "o", ".", "Output directory")
	return cmd
}

func readExtractOptions(cmd *cobra.Command, args []string) (extractOptions, error) {
	g, err := readGlobalOptions(cmd)
	if err != nil {
		return extractOptions{}, err
	}
	outDir, _ := cmd.Flags().GetString("output")
	if outDir == "" {
		outDir = "."
	}
	return extractOptions{globalOptions: g, Input: args[0], OutputDir: outDir}, nil
}

func runExtractFonts(opts extractOptions) error {
	book, err := epub.Open(opts.Input)
	if err != nil {
		return withCode(exitInvalidArgument,
			fmt.Errorf("ebook file '%s' does not exist or it cannot be read: %w", opts.Input, err))
	}
	defer book.Close()

	pkg, err := book.Package()
	if err != nil {
		return withCode(exitInvalidArgument, err)
	}
	enc, err := book.Encryption()
	if err != nil {
		return withCode(exitInvalidArgument, err)
	}

	fonts := pkg.Fonts()
	if len(fonts) == 0 {
		opts.Console.Warning("Ebook file '%s' does not embed any font", opts.Input)
		return nil
	}
	for _, item := range fonts {
		if !filepath.IsLocal(filepath.FromSlash(item.Href)) {
			return withCode(exitCommandFailed,
				fmt.Errorf("font '%s' would be extracted outside '%s'", item.Href, opts.OutputDir))
		}
	}
	for _, item := range fonts {
		if err := extractFont(opts, book, enc, pkg.Metadata.Identifier, item); err != nil {
			return withCode(exitCommandFailed, err)
		}
	}
	return nil
}

// extractFont writes one manifest font below the output directory,
// keeping its path inside the archive.
func extractFont(opts extractOptions, book *epub.Archive, enc *epub.Encryption, identifier string, item epub.ManifestItem) error {
	output := filepath.Join(opts.OutputDir, filepath.FromSlash(item.Href))
	done := opts.Console.step("Extracting '%s' into '%s'", item.Href, output)

	data, err := book.ReadFile(item.Href)
	if err != nil {
		return fmt.Errorf("failed to read '%s': %w", item.Href, err)
	}
	if uri, ok := enc.Algorithm(item.Href); ok {
		alg, err := obfuscate.AlgorithmFromURI(uri)
		if err != nil {
			return fmt.Errorf("font '%s': %w", item.Href, err)
		}
		key, err := obfuscate.DeriveKey(identifier, alg)
		if err != nil {
			return fmt.Errorf("font '%s': %w", item.Href, err)
		}
		if data, err = obfuscate.Transform(data, key, alg); err != nil {
			return fmt.Errorf("font '%s': %w", item.Href, err)
		}
		opts.Logger.Debug("removed font obfuscation", "font", item.Href, "algorithm", alg.String())
	}

	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return err
	}
	done()
	return nil
}
