package services

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// IdentityProvider is the external identity store. The moderation resolver
// uses it to purge a banned user's account alongside the local records.
type IdentityProvider interface {
	LookupUID(ctx context.Context, email string) (string, error)
	DeleteUser(ctx context.Context, uid string) error
}

// FirebaseIdentity adapts the Firebase Admin auth client.
type FirebaseIdentity struct {
	client *fbauth.Client
}

type FirebaseConfig struct {
	ProjectID       string
	CredentialsJSON string
}

func NewFirebaseIdentity(ctx context.Context, cfg FirebaseConfig) (*FirebaseIdentity, error) {
	opts := []option.ClientOption{}
	if cfg.CredentialsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("identity: firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("identity: auth client: %w", err)
	}
	return &FirebaseIdentity{client: client}, nil
}

func (f *FirebaseIdentity) LookupUID(ctx context.Context, email string) (string, error) {
	rec, err := f.client.GetUserByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	return rec.UID, nil
}

func (f *FirebaseIdentity) DeleteUser(ctx context.Context, uid string) error {
	return f.client.DeleteUser(ctx, uid)
}
