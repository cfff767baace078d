package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sozercan/impact-analyzer/apimodels"
	"github.com/sozercan/impact-analyzer/internal/analyzer"
	"github.com/sozercan/impact-analyzer/internal/config"
	"github.com/sozercan/impact-analyzer/internal/llm"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [situation...]",
	Short: "Analyze one situation and print its cause and effect",
	Long: `Analyze one business situation. The situation is taken from the arguments,
or from standard input when no arguments are given.

Output formats:
  text  "Cause: ...\n\nEffect: ..." (default)
  json  the API response document
  yaml  the API response document as YAML`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringP("output", "o", "text", "output format: text, json, yaml")
	analyzeCmd.Flags().String("variant", "", "parameter selection: fixed or adaptive (default from config)")
	analyzeCmd.Flags().String("assembly", "", "sentence assembly: join-all or first-only (default from config)")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	variant, _ := cmd.Flags().GetString("variant")
	assembly, _ := cmd.Flags().GetString("assembly")

	if err := validateOutput(output); err != nil {
		return err
	}
	if variant != "" {
		if err := config.ValidateVariant(variant); err != nil {
			return err
		}
	}
	if assembly != "" {
		if err := config.ValidateAssembly(assembly); err != nil {
			return err
		}
	}

	situation, err := readSituation(args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	model, err := llm.Open(&cfg.LLM)
	if err != nil {
		return err
	}
	defer func() {
		if err := model.Close(); err != nil {
			slog.Error("failed to close model", "error", err)
		}
	}()

	a := analyzer.New(model, model, analyzer.OptionsFromConfig(cfg.Analysis))
	result, err := a.Analyze(cmd.Context(), analyzer.Request{
		Situation: situation,
		Variant:   variant,
		Assembly:  assembly,
	})
	if err != nil {
		if output == "text" {
			fmt.Fprintln(cmd.ErrOrStderr(), analyzer.DisplayMessage(err))
		} else if werr := writeResponse(cmd.OutOrStdout(), output, apimodels.FromError(err)); werr != nil {
			return werr
		}
		return errAnalysisFailed
	}

	return writeResponse(cmd.OutOrStdout(), output, apimodels.FromResult(result))
}

func validateOutput(output string) error {
	switch output {
	case "text", "json", "yaml":
		return nil
	}
	return fmt.Errorf("unknown output format %q (want text, json or yaml)", output)
}

// readSituation joins the arguments, or reads all of r when there are none.
func readSituation(args []string, r io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read situation from stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func writeResponse(w io.Writer, output string, resp *apimodels.AnalysisResponse) error {
	switch output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(resp); err != nil {
			return err
		}
		return enc.Close()
	default:
		if resp.Result == nil {
			return fmt.Errorf("no result to print")
		}
		_, err := fmt.Fprintln(w, resp.Result.Text)
		return err
	}
}
