package main

import (
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
	Use:   "ping_sentinel",
	Short: "Enable the extended API and answer every ping verb it receives",
	RunE:  run,
}

var cfg *config.Config

func init() {
	bootstrap.InitLogging()
	cfg = config.RegisterFlags(rootCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("ping_sentinel failed")
		os.Exit(agentwire.Code(err))
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg.LoadPingEnv()

	ctx := context.Background()
	c, err := bootstrap.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer c.Session().Close()

	if err := c.EnableExtendedAPI(ctx); err != nil {
		return err
	}
	log.Info().Msg("extended API enabled, serving ping verb")

	return c.Serve(ctx, func(ctx context.Context, clientID, verbID uuid.UUID, payload []byte) ([]byte, error) {
		if verbID != config.PingVerbID {
			return nil, agentwire.NewCodedError(agentwire.CodePingPayloadMismatch, "unrecognized verb id")
		}
		if len(payload) != cfg.PingSentinelPayloadSize {
			log.Warn().
				Int("got", len(payload)).
				Int("want", cfg.PingSentinelPayloadSize).
				Msg("ping payload size mismatch")
		}
		log.Info().Str("client", clientID.String()).Int("size", len(payload)).Msg("ping received")
		return make([]byte, cfg.PingSentinelPayloadSize), nil
	})
}
