package infra

import (
	"context"
	"fmt"
	"os"
	"sync"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/folio-track/folio_api/internal/config"
)

type appFactory func(ctx context.Context, cfg *firebase.Config, opts ...option.ClientOption) (*firebase.App, error)

// Firebase holds the process-wide Firebase app and the clients derived from
// it. Each handle is created at most once; concurrent first callers are
// serialized and later calls return the cached handle.
type Firebase struct {
	credentialsFile string
	projectID       string
	newApp          appFactory

	mu    sync.Mutex
	app   *firebase.App
	auth  *auth.Client
	store *firestore.Client
}

// NewFirebase prepares a lazily-initialized Firebase handle. Nothing is read
// or dialed until the first call to App, Auth or Firestore.
func NewFirebase(credentialsFile, projectID string) *Firebase {
	return &Firebase{credentialsFile: credentialsFile, projectID: projectID, newApp: firebase.NewApp}
}

// App returns the shared Firebase app, initializing it on first use.
func (f *Firebase) App(ctx context.Context) (*firebase.App, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.appLocked(ctx)
}

func (f *Firebase) appLocked(ctx context.Context) (*firebase.App, error) {
	if f.app != nil {
		return f.app, nil
	}
	if f.credentialsFile == "" {
		return nil, fmt.Errorf("%w: no service account path configured", config.ErrCredentials)
	}
	if _, err := os.Stat(f.credentialsFile); err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrCredentials, err)
	}

	var cfg *firebase.Config
	if f.projectID != "" {
		cfg = &firebase.Config{ProjectID: f.projectID}
	}
	app, err := f.newApp(ctx, cfg, option.WithCredentialsFile(f.credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	f.app = app
	return app, nil
}

// Auth returns the shared Firebase Authentication client.
func (f *Firebase) Auth(ctx context.Context) (*auth.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.auth != nil {
		return f.auth, nil
	}
	app, err := f.appLocked(ctx)
	if err != nil {
		return nil, err
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase auth: %w", err)
	}
	f.auth = client
	return client, nil
}

// Firestore returns the shared Firestore client.
func (f *Firebase) Firestore(ctx context.Context) (*firestore.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.store != nil {
		return f.store, nil
	}
	app, err := f.appLocked(ctx)
	if err != nil {
		return nil, err
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firestore: %w", err)
	}
	f.store = client
	return client, nil
}

// Close releases the Firestore client if one was created.
func (f *Firebase) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.store == nil {
		return nil
	}
	err := f.store.Close()
	f.store = nil
	return err
}
