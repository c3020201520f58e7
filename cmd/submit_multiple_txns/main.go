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
	"github.com/veloagent/agentwire/cmd/internal/bootstrap"
	"github.com/veloagent/agentwire/config"
	"github.com/veloagent/agentwire/wire"
)

var rootCmd = &cobra.Command{
	Use:   "submit_multiple_txns",
	Short: "Submit three chained transactions and verify forward/back links and a shared block id",
	RunE:  run,
}

var cfg *config.Config

func init() {
	bootstrap.InitLogging()
	cfg = config.RegisterFlags(rootCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("submit_multiple_txns failed")
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

	artifactID := uuid.New()
	txnIDs := [3]uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	for i, txnID := range txnIDs {
		cert := make([]byte, 256)
		_, _ = rand.Read(cert)
		if err := c.SubmitAndVerifyTxn(ctx, txnID, artifactID, wire.TxnCert(cert)); err != nil {
			return agentwire.WrapCodedError(agentwire.Code(err), "submit txn", err)
		}
		log.Info().Int("index", i).Str("txn", txnID.String()).Msg("submitted")
	}

	time.Sleep(5 * time.Second)

	txns := make([]struct {
		prev, next, block uuid.UUID
	}, 3)
	for i, txnID := range txnIDs {
		txn, err := c.TxnByID(ctx, txnID)
		if err != nil {
			return err
		}
		txns[i].prev, txns[i].next, txns[i].block = txn.PrevTxnID, txn.NextTxnID, txn.BlockID
	}

	if txns[0].next != txnIDs[1] {
		return agentwire.NewCodedError(agentwire.CodeTxn1NextIDMismatch, "txn 1 does not link forward to txn 2")
	}
	if txns[1].prev != txnIDs[0] {
		return agentwire.NewCodedError(agentwire.CodeTxn2PrevIDMismatch, "txn 2 does not link back to txn 1")
	}
	if txns[1].next != txnIDs[2] {
		return agentwire.NewCodedError(agentwire.CodeTxn2NextIDMismatch, "txn 2 does not link forward to txn 3")
	}
	if txns[2].prev != txnIDs[1] {
		return agentwire.NewCodedError(agentwire.CodeTxn3PrevIDMismatch, "txn 3 does not link back to txn 2")
	}
	if txns[0].block != txns[1].block || txns[1].block != txns[2].block {
		return agentwire.NewCodedError(agentwire.CodeTxn1BlockIDMismatch, "chained transactions were not canonized into the same block")
	}

	log.Info().Str("block", txns[0].block.String()).Msg("three-transaction chain verified")
	return nil
}
