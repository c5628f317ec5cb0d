package bootstrap

import (
	"context"
	"fmt"

	"github.com/ilewa/ilewa-backend/config"
	"github.com/ilewa/ilewa-backend/internal/auth"
)

// NewVerifier picks the token verifier for cfg.Mode.
func NewVerifier(ctx context.Context, cfg *config.AuthConfig) (auth.Verifier, error) {
	switch cfg.Mode {
	case config.AuthModeJWT:
		if cfg.JWTSecret == "" {
			return nil, fmt.Errorf("JWT_SECRET is required when AUTH_MODE=jwt")
		}
		return auth.NewJWTVerifier(cfg.JWTSecret, cfg.JWTIssuer), nil
	case config.AuthModeFirebase:
		client, err := auth.InitializeFirebase(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return auth.NewFirebaseVerifier(client), nil
	default:
		return nil, fmt.Errorf("unknown AUTH_MODE %q", cfg.Mode)
	}
}
