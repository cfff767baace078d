package main

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sozercan/impact-analyzer/internal/analyzer"
	"github.com/sozercan/impact-analyzer/internal/llm"
	"github.com/sozercan/impact-analyzer/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the web form and the JSON API",
	Long: `Open the model once and serve the analysis form on / and the JSON API on
/api/v1 until SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("host", "", "address to listen on (default 0.0.0.0)")
	serveCmd.Flags().String("port", "", "port to listen on (default 8000)")
	_ = viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	_ = viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
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

	srv := server.New(*cfg, a)
	slog.Info("starting server", "host", cfg.Server.Host, "port", cfg.Server.Port)
	return srv.Run()
}
