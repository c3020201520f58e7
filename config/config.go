// Package config holds the flag/env surface shared by the cmd/* example
// programs: agent address, certificate paths, and the two ping payload
// size knobs. Grounded on cmd/test-client-v2/main.go's flag.StringVar
// style; no environment-parsing library appears anywhere in the pack, so
// the env vars are read with plain os.Getenv/strconv.Atoi.
package config

import (
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// Config is the flag/env surface every cmd/* program reads from.
type Config struct {
	AgentAddr      string
	ClientCertPath string
	AgentCertPath  string

	PingClientPayloadSize   int
	PingSentinelPayloadSize int

	RecipientID string
}

// PingVerbID is the extended-API verb the ping example programs agree on
// out of band (a real deployment would register this with the agent's
// verb directory; these examples just fix a constant).
var PingVerbID = uuid.MustParse("505e8a20-0a66-4b6e-9c2a-3b9c9a7d1e40")

const (
	defaultAgentAddr               = "127.0.0.1:4931"
	defaultClientCertPath          = "handshake.priv"
	defaultAgentCertPath           = "agentd.pub"
	defaultPingClientPayloadSize   = 1
	defaultPingSentinelPayloadSize = 1
)

// RegisterFlags adds the shared connection/cert flags to cmd's persistent
// flag set and returns the Config those flags populate once cmd runs.
func RegisterFlags(cmd *cobra.Command) *Config {
	cfg := &Config{}
	flags := cmd.PersistentFlags()
	flags.StringVar(&cfg.AgentAddr, "agent", defaultAgentAddr, "agent host:port to dial")
	flags.StringVar(&cfg.ClientCertPath, "client-cert", defaultClientCertPath, "path to this client's private certificate")
	flags.StringVar(&cfg.AgentCertPath, "agent-cert", defaultAgentCertPath, "path to the agent's pinned public certificate")
	flags.StringVar(&cfg.RecipientID, "recipient", "", "artifact id of the extended-API sentinel to address (ping_client and multi_ping_client only)")
	return cfg
}

// LoadPingEnv fills in the ping payload size knobs from
// PING_CLIENT_PAYLOAD_SIZE/PING_SENTINEL_PAYLOAD_SIZE, falling back to
// defaultPingClientPayloadSize/defaultPingSentinelPayloadSize bytes when
// unset or unparsable.
func (c *Config) LoadPingEnv() {
	c.PingClientPayloadSize = envInt("PING_CLIENT_PAYLOAD_SIZE", defaultPingClientPayloadSize)
	c.PingSentinelPayloadSize = envInt("PING_SENTINEL_PAYLOAD_SIZE", defaultPingSentinelPayloadSize)
}

func envInt(name string, fallback int) int {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
