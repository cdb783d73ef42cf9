package app

import (
	"github.com/rs/zerolog"

	"sessionkit/internal/store"
)

// Config holds runtime wiring options for building the app.
type Config struct {
	Home            string         // key directory, e.g. $HOME/.sessionkit
	KDF             store.KDF      // KDF for newly written key files
	CompactionLimit int            // jobqueue window size; 0 keeps the default
	Logger          zerolog.Logger // optional; the zero value discards output
}
