package config

import "github.com/urfave/cli/v3"

// Server holds server configuration
type Server struct {
	Addr      string
	JWTSecret string `masq:"secret"`
}

// Flags returns CLI flags for server configuration
func (c *Server) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Server address",
			Value:       "localhost:8080",
			Destination: &c.Addr,
			Sources:     cli.EnvVars("TXCLEANUP_ADDR"),
		},
		&cli.StringFlag{
			Name:        "jwt-secret",
			Usage:       "HS256 secret for bearer tokens on /api routes; empty disables authentication",
			Destination: &c.JWTSecret,
			Sources:     cli.EnvVars("TXCLEANUP_JWT_SECRET"),
		},
	}
}
