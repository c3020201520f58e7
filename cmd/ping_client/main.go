package main

import (
	"bytes"
	"context"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/veloagent/agentwire"
	"github.com/veloagent/agentwire/cmd/internal/bootstrap"
	"github.com/veloagent/agentwire/config"
)

var rootCmd = &cobra.Command{
	Use:   "ping_client",
	Short: "Enable the extended API and send one ping to a sentinel",
	RunE:  run,
}

var cfg *config.Config

func init() {
	bootstrap.InitLogging()
	cfg = config.RegisterFlags(rootCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("ping_client failed")
		os.Exit(agentwire.Code(err))
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg.LoadPingEnv()
	if cfg.RecipientID == "" {
		return agentwire.NewCodedError(agentwire.CodeSendRecvReq, "--recipient is required")
	}
	recipient, err := uuid.Parse(cfg.RecipientID)
	if err != nil {
		return agentwire.WrapCodedError(agentwire.CodeSendRecvReq, "parse --recipient", err)
	}

	ctx := context.Background()
	c, err := bootstrap.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer c.Session().Close()

	if err := c.EnableExtendedAPI(ctx); err != nil {
		return err
	}

	payload := bytes.Repeat([]byte{0x01}, cfg.PingClientPayloadSize)
	reply, err := c.SendRecv(ctx, recipient, config.PingVerbID, payload)
	if err != nil {
		return err
	}

	log.Info().Int("size", len(reply)).Msg("ping round trip succeeded")
	return nil
}
