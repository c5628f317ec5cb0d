package auth

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"

	"github.com/ilewa/ilewa-backend/config"
	"github.com/ilewa/ilewa-backend/internal/auth/domain"
)

// InitializeFirebase initializes the Firebase Admin SDK and returns an Auth client.
// Inline JSON credentials take precedence over a credentials file.
func InitializeFirebase(ctx context.Context, cfg *config.AuthConfig) (*fbauth.Client, error) {
	var opt option.ClientOption
	switch {
	case cfg.FirebaseCredsJSON != "":
		creds, err := google.CredentialsFromJSON(ctx, []byte(cfg.FirebaseCredsJSON),
			"https://www.googleapis.com/auth/cloud-platform",
			"https://www.googleapis.com/auth/userinfo.email",
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse FIREBASE_CREDENTIALS_JSON: %w", err)
		}
		opt = option.WithCredentials(creds)
	case cfg.FirebaseCredentials != "":
		opt = option.WithCredentialsFile(cfg.FirebaseCredentials)
	default:
		return nil, fmt.Errorf("FIREBASE_CREDENTIALS_PATH or FIREBASE_CREDENTIALS_JSON is required")
	}

	var fbCfg *firebase.Config
	if cfg.FirebaseProjectID != "" {
		fbCfg = &firebase.Config{ProjectID: cfg.FirebaseProjectID}
	}

	app, err := firebase.NewApp(ctx, fbCfg, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Auth client: %w", err)
	}

	return authClient, nil
}

// TokenVerifier is the part of the Firebase Auth client we use.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// FirebaseVerifier checks Firebase ID tokens.
type FirebaseVerifier struct {
	client TokenVerifier
}

func NewFirebaseVerifier(client TokenVerifier) *FirebaseVerifier {
	return &FirebaseVerifier{client: client}
}

func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (*domain.Identity, error) {
	decoded, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, err
	}

	id := &domain.Identity{UID: decoded.UID}
	if email, ok := decoded.Claims["email"].(string); ok {
		id.Email = email
	}
	if name, ok := decoded.Claims["name"].(string); ok {
		id.Name = name
	}
	if picture, ok := decoded.Claims["picture"].(string); ok {
		id.Picture = picture
	}
	return id, nil
}
