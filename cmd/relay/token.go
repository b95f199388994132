package main

import (
	"fmt"
	"time"

	jwtinfra "github.com/go-push-relay/internal/infrastructure/jwt"
	"github.com/spf13/cobra"
)

var (
	tokenRole string
	tokenTTL  time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token for the database webhook's Authorization header",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := jwtinfra.NewProvider(cfg.WebhookJWTSecret)
		if err != nil {
			return fmt.Errorf("WEBHOOK_JWT_SECRET must be set: %w", err)
		}
		tok, err := p.Sign("db-webhook", tokenRole, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenRole, "role", "service_role", "role claim to embed")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "token lifetime; 0 means no expiry")
}
