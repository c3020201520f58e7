// Package bootstrap is the dial+handshake boilerplate shared by the
// cmd/* example programs: load certs, connect, run the handshake, and
// hand back a ready client.Client. Not part of the library surface.
package bootstrap

import (
	"context"
	"fmt"
	"net"

	"github.com/veloagent/agentwire/cert"
	"github.com/veloagent/agentwire/client"
	"github.com/veloagent/agentwire/config"
	"github.com/veloagent/agentwire/cryptosuite"
	"github.com/veloagent/agentwire/handshake"
)

// Connect loads cfg's certificates, dials cfg.AgentAddr, and runs the
// handshake, returning an established Client.
func Connect(ctx context.Context, cfg *config.Config) (*client.Client, error) {
	suite := cryptosuite.NewVeloV1()

	clientEnt, err := cert.LoadPrivateCert(cfg.ClientCertPath, suite)
	if err != nil {
		return nil, fmt.Errorf("load client cert: %w", err)
	}
	defer clientEnt.Zero()
	agentPub, err := cert.LoadPublicCert(cfg.AgentCertPath, suite)
	if err != nil {
		return nil, fmt.Errorf("load agent cert: %w", err)
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", cfg.AgentAddr)
	if err != nil {
		return nil, fmt.Errorf("dial agent: %w", err)
	}

	sess, err := handshake.New(suite).Run(ctx, conn, clientEnt, agentPub)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("handshake: %w", err)
	}
	return client.New(sess), nil
}
