package provider

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/tacogips/rcsync/internal/debug"
)

// Scopes requested for the service account.
var Scopes = []string{
	"https://www.googleapis.com/auth/firebase.remoteconfig",
	"https://www.googleapis.com/auth/cloud-platform",
}

// AccessTokenEnv names an environment variable holding a pre-issued OAuth2
// access token. When set it takes the place of a credentials file.
const AccessTokenEnv = "RCSYNC_ACCESS_TOKEN"

// ProviderOptions configures NewProvider.
type ProviderOptions struct {
	// CredentialsFile is the path to a service account JSON file.
	CredentialsFile string
	// ProjectID overrides the project_id found in the credentials file.
	ProjectID string
	// Timeout bounds each HTTP request. Zero means DefaultTimeout.
	Timeout time.Duration
	// BaseURL overrides DefaultBaseURL.
	BaseURL string
	// AccessToken skips credentials file handling when non-empty.
	AccessToken string
}

// NewProvider builds an authenticated Firebase provider.
func NewProvider(ctx context.Context, opts ProviderOptions) (*FirebaseProvider, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	token := opts.AccessToken
	if token == "" {
		token = strings.TrimSpace(os.Getenv(AccessTokenEnv))
	}

	var (
		source    oauth2.TokenSource
		projectID = opts.ProjectID
	)
	if token != "" {
		debug.Debug("[provider] Using static access token from %s", AccessTokenEnv)
		source = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	} else {
		if opts.CredentialsFile == "" {
			return nil, NewProviderError(ProviderInvalidCredentials, "firebase", projectID,
				"no credentials file configured (use --credentials or set GOOGLE_APPLICATION_CREDENTIALS)", nil)
		}
		data, err := os.ReadFile(opts.CredentialsFile)
		if err != nil {
			return nil, NewProviderError(ProviderInvalidCredentials, "firebase", projectID,
				"failed to read credentials file "+opts.CredentialsFile, err)
		}
		creds, err := google.CredentialsFromJSON(ctx, data, Scopes...)
		if err != nil {
			return nil, NewProviderError(ProviderInvalidCredentials, "firebase", projectID,
				"failed to parse credentials file "+opts.CredentialsFile, err)
		}
		if projectID == "" {
			projectID = creds.ProjectID
		}
		source = creds.TokenSource
		debug.Debug("[provider] Loaded credentials from %s", opts.CredentialsFile)
	}

	if projectID == "" {
		return nil, NewProviderError(ProviderInvalidCredentials, "firebase", "",
			"project id is unknown (use --project or a credentials file with project_id)", nil)
	}

	// The base transport carries the timeout so token refreshes honour it too.
	base := &http.Client{Timeout: timeout}
	client := oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, base), source)
	client.Timeout = timeout

	p := NewFirebaseProvider(client, projectID)
	if opts.BaseURL != "" {
		p.BaseURL = opts.BaseURL
	}
	debug.Debug("[provider] Firebase provider ready: project=%s base=%s timeout=%s", projectID, p.BaseURL, timeout)
	return p, nil
}
