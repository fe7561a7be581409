package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// DefaultCredentialsFile is used when GOOGLE_APPLICATION_CREDENTIALS is unset.
const DefaultCredentialsFile = "credentials.json"

// ErrNotServiceAccount is returned for key files of any other credential type.
var ErrNotServiceAccount = errors.New("credentials are not a service account key")

// ServiceAccount is the identifying part of a service-account key file.
type ServiceAccount struct {
	Type        string `json:"type"`
	ProjectID   string `json:"project_id"`
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
}

// Credentials is a loaded service-account key.
type Credentials struct {
	Account ServiceAccount
	data    []byte
}

// LoadCredentials reads and validates a service-account key file.
func LoadCredentials(path string) (*Credentials, error) {
	if path == "" {
		path = DefaultCredentialsFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file %s: %w", path, err)
	}

	return ParseCredentials(data)
}

// ParseCredentials validates raw service-account key JSON.
func ParseCredentials(data []byte) (*Credentials, error) {
	var sa ServiceAccount
	if err := json.Unmarshal(data, &sa); err != nil {
		return nil, fmt.Errorf("failed to parse credentials: %w", err)
	}
	if sa.Type != "service_account" {
		return nil, fmt.Errorf("%w: type %q", ErrNotServiceAccount, sa.Type)
	}
	if sa.ClientEmail == "" || sa.PrivateKey == "" {
		return nil, fmt.Errorf("%w: client_email and private_key are required", ErrNotServiceAccount)
	}

	return &Credentials{Account: sa, data: data}, nil
}

// Email returns the service account's email address, which documents must be
// shared with.
func (c *Credentials) Email() string {
	return c.Account.ClientEmail
}

// TokenSource returns a token source for the given scopes, or DefaultScopes
// when none are given.
func (c *Credentials) TokenSource(ctx context.Context, scopes ...string) (oauth2.TokenSource, error) {
	if len(scopes) == 0 {
		scopes = DefaultScopes
	}

	conf, err := google.JWTConfigFromJSON(c.data, scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to build JWT config: %w", err)
	}
	return conf.TokenSource(ctx), nil
}

// HTTPClient returns an authenticated HTTP client.
// The client is configured to use HTTP/1.1 to avoid HTTP/2 protocol errors.
func (c *Credentials) HTTPClient(ctx context.Context, scopes ...string) (*http.Client, error) {
	ts, err := c.TokenSource(ctx, scopes...)
	if err != nil {
		return nil, err
	}

	client := oauth2.NewClient(ctx, ts)

	// Force HTTP/1.1 by disabling HTTP/2
	transport := client.Transport.(*oauth2.Transport)
	transport.Base = &http.Transport{
		Proxy:             http.ProxyFromEnvironment,
		ForceAttemptHTTP2: false,
	}

	return client, nil
}
