package bootstrap

import (
	"context"

	"github.com/ilewa/ilewa-backend/config"
	"github.com/ilewa/ilewa-backend/internal/mailer"
)

func NewMailer(ctx context.Context, cfg config.MailConfig) (mailer.Mailer, error) {
	if !cfg.Enabled {
		return mailer.Noop{}, nil
	}
	client, err := mailer.LoadSESClient(ctx, cfg.Region)
	if err != nil {
		return nil, err
	}
	return mailer.NewSESMailer(client, cfg.From), nil
}
