package main

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/veloagent/agentwire"
	"github.com/veloagent/agentwire/cmd/internal/bootstrap"
	"github.com/veloagent/agentwire/config"
)

var rootCmd = &cobra.Command{
	Use:   "test_handshake",
	Short: "Connect to an agent and perform the handshake only",
	RunE:  run,
}

var cfg *config.Config

func init() {
	bootstrap.InitLogging()
	cfg = config.RegisterFlags(rootCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("test_handshake failed")
		os.Exit(agentwire.Code(err))
	}
}

func run(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	c, err := bootstrap.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer c.Session().Close()

	log.Info().Str("agent", cfg.AgentAddr).Msg("handshake established")
	return nil
}
