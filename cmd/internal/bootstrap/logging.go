package bootstrap

import (
	"time"

	"github.com/mattn/go-colorable"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogging switches the package-level zerolog logger to a colorized
// console writer, matching cmd/demo-app and cmd/relay-server's
// ConsoleWriter setup but routed through go-colorable so color survives
// on Windows terminals too.
func InitLogging() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: colorable.NewColorableStdout(), TimeFormat: time.RFC3339})
}
