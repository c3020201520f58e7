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
	Use:   "status_close",
	Short: "Handshake, issue STATUS_GET, then CLOSE",
	RunE:  run,
}

var cfg *config.Config

func init() {
	bootstrap.InitLogging()
	cfg = config.RegisterFlags(rootCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("status_close failed")
		os.Exit(agentwire.Code(err))
	}
}

func run(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	c, err := bootstrap.Connect(ctx, cfg)
	if err != nil {
		return err
	}

	status, err := c.Status(ctx)
	if err != nil {
		c.Session().Close()
		return err
	}
	log.Info().Uint32("status", status).Msg("agent status")

	if err := c.Close(ctx); err != nil {
		return err
	}
	log.Info().Msg("session closed")
	return nil
}
