package config

import "github.com/urfave/cli/v3"

// Server holds server configuration
type Server struct {
	Addr          string
	TriggerSecret string `masq:"secret"`
	WebhookSecret string `masq:"secret"`
}

// Flags returns CLI flags for server configuration
func (c *Server) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Server address",
			Value:       "localhost:8080",
			Destination: &c.Addr,
			Sources:     cli.EnvVars("SEMREL_ADDR"),
		},
		&cli.StringFlag{
			Name:        "trigger-secret",
			Usage:       "Secret release triggers are signed with (HMAC-SHA256, X-Semrel-Signature header)",
			Destination: &c.TriggerSecret,
			Sources:     cli.EnvVars("SEMREL_TRIGGER_SECRET"),
		},
		&cli.StringFlag{
			Name:        "github-webhook-secret",
			Usage:       "GitHub webhook secret; enables releases on push to the base branch (POST /hooks/github)",
			Destination: &c.WebhookSecret,
			Sources:     cli.EnvVars("SEMREL_GITHUB_WEBHOOK_SECRET"),
		},
	}
}
