package config

import "fmt"

// Validate reports the first required setting that is missing.
func (c Config) Validate() error {
	switch {
	case c.DatabaseURL == "":
		return fmt.Errorf("missing required env DATABASE_URL")
	case len(c.JWTAccessSecret) == 0:
		return fmt.Errorf("missing required env JWT_SECRET")
	case len(c.JWTRefreshSecret) == 0:
		return fmt.Errorf("missing required env JWT_REFRESH_SECRET")
	case c.ServerPort <= 0 || c.ServerPort > 65535:
		return fmt.Errorf("invalid SERVER_PORT %d", c.ServerPort)
	}
	return nil
}
