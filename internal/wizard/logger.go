package wizard

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// wizardLog is the wizard sub-logger, with module=wizard on every entry.
// It is derived on each call so it follows the global logger set up in main.
func wizardLog() *zerolog.Logger {
	l := log.With().Str("module", "wizard").Logger()
	return &l
}
