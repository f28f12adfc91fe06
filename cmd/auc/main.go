// auc is the command-line front end for the Austral compiler core:
// lex/parse/check/inspect over .aui (interface) and .aum (body) files.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	auc "github.com/austral-lang/auc"
	"github.com/austral-lang/auc/internal/lowering"
)

var verbose bool

func main() {
	root := &cobra.Command{
		Use:   "auc",
		Short: "Austral front-end compiler: lex, parse, resolve, and linearity-check modules",
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline stage transitions")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		level := zerolog.WarnLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
	}

	root.AddCommand(lexCmd(), parseCmd(), checkCmd(), inspectCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func readFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func lexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lex <file>",
		Short: "Tokenize a module and print its token stream",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			src, err := readFile(path)
			if err != nil {
				return err
			}
			log.Debug().Str("stage", "lex").Str("file", path).Msg("starting")
			toks, err := auc.Lex(path, src)
			if err != nil {
				return auc.WrapStage("lex", err)
			}
			for _, t := range toks {
				fmt.Printf("%-20s %-12s %q\n", t.Span.String(), t.Kind.String(), t.Text)
			}
			log.Debug().Int("tokens", len(toks)).Msg("done")
			return nil
		},
	}
}

func parseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a module and report success or the first syntax error",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			src, err := readFile(path)
			if err != nil {
				return err
			}
			log.Debug().Str("stage", "parse").Str("file", path).Msg("starting")
			toks, err := auc.Lex(path, src)
			if err != nil {
				return auc.WrapStage("lex", err)
			}
			mod, err := auc.ParseModule(toks)
			if err != nil {
				return auc.WrapStage("parse", err)
			}
			fmt.Printf("%s: module %s (%d item(s))\n", path, mod.Name, len(mod.Items))
			return nil
		},
	}
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>",
		Short: "Run the full pipeline (lex, parse, resolve, linearity-check)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			src, err := readFile(path)
			if err != nil {
				return err
			}
			log.Debug().Str("stage", "check").Str("file", path).Msg("starting")
			result, err := auc.Check(path, src)
			if err != nil {
				if d, ok := auc.IsDiagnostic(err); ok {
					fmt.Fprintf(os.Stderr, "%s: %v\n", d.Span().String(), err)
				} else {
					fmt.Fprintf(os.Stderr, "%v\n", err)
				}
				return fmt.Errorf("check failed")
			}
			n := lowering.CountFunctions(result.Typed)
			fmt.Printf("%s: ok — module %s, %d export(s), would lower %d function(s)\n", path, result.Typed.Name, len(result.Typed.Exports), n)
			return nil
		},
	}
}

func inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file>",
		Short: "Parse a module and print its untyped tree as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			src, err := readFile(path)
			if err != nil {
				return err
			}
			toks, err := auc.Lex(path, src)
			if err != nil {
				return auc.WrapStage("lex", err)
			}
			mod, err := auc.ParseModule(toks)
			if err != nil {
				return auc.WrapStage("parse", err)
			}
			out, err := json.MarshalIndent(mod, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
}
