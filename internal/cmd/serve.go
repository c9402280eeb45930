package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zxfpro/primalstep/internal/config"
	"github.com/zxfpro/primalstep/internal/decompose"
	"github.com/zxfpro/primalstep/internal/llm"
	"github.com/zxfpro/primalstep/internal/logging"
	"github.com/zxfpro/primalstep/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the decomposition HTTP server",
	Long: `Run the HTTP server exposing POST /decompose.

In the dev environment the server uses the mock LLM and debug logging on
port 8108. In prod it uses the OpenAI backend (OPENAI_API_KEY required) and
info logging on port 8008.`,
	RunE: runServe,
}

var (
	servePort int
	serveEnv  string
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (default: 8108 dev, 8008 prod)")
	serveCmd.Flags().StringVar(&serveEnv, "env", "dev", "Environment: dev or prod")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.Default()
	}

	switch serveEnv {
	case "dev":
		cfg.LLM.Provider = config.ProviderMock
		cfg.Logging.Level = "debug"
		cfg.Server.Port = config.DevPort
	case "prod":
		cfg.LLM.Provider = config.ProviderOpenAI
		cfg.Logging.Level = "info"
		cfg.Server.Port = config.DefaultPort
	default:
		return fmt.Errorf("invalid environment %q: must be dev or prod", serveEnv)
	}
	if servePort != 0 {
		cfg.Server.Port = servePort
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return config.ValidationErrors(errs)
	}

	logger, err := logging.NewLogger(cfg.Logging.Dir, cfg.Logging.Level, logging.RotationConfig{
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		Compress:   cfg.Logging.Compress,
	})
	if err != nil {
		return err
	}
	defer logger.Close()

	client, err := llm.NewFromConfig(cfg.LLM)
	if err != nil {
		return err
	}

	decomposer := decompose.NewDecomposer(client, logger)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := server.New(addr, decomposer, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.WithComponent("cli").Info("starting server", "addr", addr, "env", serveEnv)
	return srv.Run(ctx)
}
