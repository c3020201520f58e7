package main

import (
	"context"
	"crypto/rand"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/veloagent/agentwire"
	"github.com/veloagent/agentwire/client"
	"github.com/veloagent/agentwire/cmd/internal/bootstrap"
	"github.com/veloagent/agentwire/config"
	"github.com/veloagent/agentwire/wire"
)

var rootCmd = &cobra.Command{
	Use:   "submit_txn_and_read_block",
	Short: "Submit one transaction and verify its canonized topology",
	RunE:  run,
}

var cfg *config.Config

func init() {
	bootstrap.InitLogging()
	cfg = config.RegisterFlags(rootCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("submit_txn_and_read_block failed")
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

	txnID := uuid.New()
	artifactID := uuid.New()
	txnCert := randomCert(256)

	if err := c.SubmitAndVerifyTxn(ctx, txnID, artifactID, txnCert); err != nil {
		return err
	}
	log.Info().Str("txn", txnID.String()).Msg("submitted")

	// The agent canonizes submissions asynchronously; give it time to
	// mint a block before navigating.
	time.Sleep(5 * time.Second)

	return verifyTopology(ctx, c, txnID, txnCert)
}

func verifyTopology(ctx context.Context, c *client.Client, txnID uuid.UUID, txnCert wire.TxnCert) error {
	txn, err := c.TxnByID(ctx, txnID)
	if err != nil {
		return err
	}
	log.Info().
		Str("prev", txn.PrevTxnID.String()).
		Str("next", txn.NextTxnID.String()).
		Str("block", txn.BlockID.String()).
		Msg("transaction canonized")

	block, err := c.BlockByID(ctx, txn.BlockID)
	if err != nil {
		return err
	}
	if !client.FindTransactionInBlock(block.Cert, txnCert) {
		return agentwire.NewCodedError(agentwire.CodeTxnSearchFailed, "submitted transaction not found in its reported block")
	}
	log.Info().Msg("transaction verified in block certificate")
	return nil
}

func randomCert(size int) wire.TxnCert {
	buf := make([]byte, size)
	_, _ = rand.Read(buf)
	return wire.TxnCert(buf)
}
