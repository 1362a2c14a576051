package config

import (
	"log"
	"os"
	"sync"
)

// SessionConfig holds the shared static secret candidates present to open an
// assessment session. Compatibility behavior, not a security boundary.
type SessionConfig struct {
	Secret string
}

var (
	sessionConfig *SessionConfig
	sessionOnce   sync.Once
)

func LoadSessionConfig() *SessionConfig {
	sessionOnce.Do(func() {
		secret := os.Getenv("GAUNTLET_SESSION_SECRET")
		if secret == "" {
			secret = "letmein"
			log.Println("Warning: GAUNTLET_SESSION_SECRET not set, using default")
		}
		sessionConfig = &SessionConfig{Secret: secret}
	})
	return sessionConfig
}
