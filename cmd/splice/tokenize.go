package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"splice/internal/diagfmt"
	"splice/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.rs",
	Short: "Dump the tokens of a Rust source file",
	Long:  `Tokenize lexes a file and prints its tokens, or with --tree the delimiter-nested token tree the expander works on`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	tokenizeCmd.Flags().Bool("tree", false, "print the nested token tree instead of the flat token list")
	tokenizeCmd.Flags().Bool("doc-comments", true, "lex doc comments as #[doc] attributes")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	tree, err := cmd.Flags().GetBool("tree")
	if err != nil {
		return fmt.Errorf("failed to get tree flag: %w", err)
	}
	docComments, err := cmd.Flags().GetBool("doc-comments")
	if err != nil {
		return fmt.Errorf("failed to get doc-comments flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	result, err := driver.Tokenize(args[0], maxDiagnostics, docComments)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	// Выводим диагностику в stderr, если есть
	if result.Bag.Len() > 0 {
		diagfmt.Pretty(os.Stderr, result.Bag, result.FileSet, diagfmt.PrettyOpts{
			Color:     useColor(cmd, os.Stderr),
			Context:   2,
			ShowNotes: true,
		})
	}

	out := cmd.OutOrStdout()
	switch {
	case format == "pretty" && tree:
		err = diagfmt.FormatTreePretty(out, result.Tree, result.FileSet)
	case format == "pretty":
		err = diagfmt.FormatTokensPretty(out, result.Tokens, result.FileSet)
	case format == "json" && tree:
		err = diagfmt.FormatTreeJSON(out, result.Tree)
	case format == "json":
		err = diagfmt.FormatTokensJSON(out, result.Tokens)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	if err != nil {
		return err
	}
	if result.Bag.HasErrors() {
		return errReported
	}
	return nil
}
