// Package platform initializes the Firebase Admin SDK the function runs
// alongside.
package platform

import (
	"context"

	firebase "firebase.google.com/go/v4"
	"github.com/awantoch/sitefn/config"
	"github.com/awantoch/sitefn/utils"
	"google.golang.org/api/option"
)

// Initializer creates the platform SDK handle. core.Bootstrap calls it once
// per runtime; tests substitute their own.
type Initializer func(ctx context.Context, cfg config.PlatformConfig) (*firebase.App, error)

// Init initializes the Firebase Admin SDK. An all-empty config leaves project
// resolution to the SDK (FIREBASE_CONFIG and application default credentials).
func Init(ctx context.Context, cfg config.PlatformConfig) (*firebase.App, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	app, err := firebase.NewApp(ctx, firebaseConfig(cfg), opts...)
	if err != nil {
		return nil, utils.Errorf("initialize firebase app: %w", err)
	}
	utils.Debug("firebase app initialized (project=%q)", cfg.ProjectID)
	return app, nil
}

func firebaseConfig(cfg config.PlatformConfig) *firebase.Config {
	if cfg.ProjectID == "" && cfg.DatabaseURL == "" && cfg.StorageBucket == "" && cfg.ServiceAccountID == "" {
		return nil
	}
	return &firebase.Config{
		ProjectID:        cfg.ProjectID,
		DatabaseURL:      cfg.DatabaseURL,
		StorageBucket:    cfg.StorageBucket,
		ServiceAccountID: cfg.ServiceAccountID,
	}
}
