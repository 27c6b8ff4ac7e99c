package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/translay/translay/internal/config"
	"github.com/translay/translay/internal/core"
	"github.com/translay/translay/internal/observability"
	"github.com/translay/translay/internal/output"
)

var (
	sourceLang   string
	targetLang   string
	outputFormat string
	egressURL    string
)

var translateCmd = &cobra.Command{
	Use:   "translate <text>",
	Short: "Translate a piece of text",
	Long: `Translate text through the relay pipeline from the command line.

The full pipeline runs exactly as it does behind the HTTP server: rate
limiting, egress selection, retries. Multiple arguments are joined with
spaces.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		observability.InitCLILogger("translay", verbose)

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		format, err := output.ParseFormat(outputFormat)
		if err != nil {
			return err
		}

		orchestrator, st, err := buildPipeline(cmd.Context(), cfg, observability.CLILogger)
		if err != nil {
			return err
		}
		defer st.Close() // nolint:errcheck // best-effort cleanup

		result := orchestrator.Translate(cmd.Context(), core.TranslateRequest{
			Text:       strings.Join(args, " "),
			SourceLang: sourceLang,
			TargetLang: targetLang,
		}, core.CallContext{
			ClientIdentity: "cli",
			EgressOverride: egressURL,
		})

		rendered, err := output.NewFormatter(format).FormatResult(result)
		if err != nil {
			return err
		}
		fmt.Println(rendered)

		if result.TranslatedText == nil {
			return fmt.Errorf("translation failed with status %d", result.HTTPStatus)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().StringVarP(&sourceLang, "source", "s", "auto", "source language (name, ISO code, or auto)")
	translateCmd.Flags().StringVarP(&targetLang, "target", "t", "en", "target language (name or ISO code)")
	translateCmd.Flags().StringVarP(&outputFormat, "output", "o", "table", "output format (table, json)")
	translateCmd.Flags().StringVar(&egressURL, "egress", "", "force a specific egress endpoint URL")
}
