package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tacogips/rcsync/internal/debug"
	"github.com/tacogips/rcsync/internal/template/model"
)

// DefaultBaseURL is the Remote Config REST endpoint.
const DefaultBaseURL = "https://firebaseremoteconfig.googleapis.com/v1"

// DefaultTimeout is the HTTP timeout of a single request.
const DefaultTimeout = 30 * time.Second

// maxResponseSize bounds a single response body.
const maxResponseSize = 16 << 20

// FirebaseProvider implements Provider against the Remote Config REST API.
type FirebaseProvider struct {
	// HTTPClient must attach credentials to every request.
	HTTPClient *http.Client
	// BaseURL is the API root (DefaultBaseURL unless testing).
	BaseURL string
	// ProjectID is the Firebase project.
	ProjectID string
}

// NewFirebaseProvider creates a provider using an authenticated HTTP client.
func NewFirebaseProvider(client *http.Client, projectID string) *FirebaseProvider {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &FirebaseProvider{
		HTTPClient: client,
		BaseURL:    DefaultBaseURL,
		ProjectID:  projectID,
	}
}

// Name returns the provider name.
func (p *FirebaseProvider) Name() string {
	return "firebase"
}

// Fetch returns the current template.
func (p *FirebaseProvider) Fetch(ctx context.Context) (*model.Template, error) {
	debug.Debug("[provider] Fetching template for project %s", p.ProjectID)

	resp, body, err := p.do(ctx, http.MethodGet, p.templateURL(nil), nil, nil)
	if err != nil {
		return nil, NewProviderError(ProviderFetchFailed, p.Name(), p.ProjectID, "failed to fetch template", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, p.statusError(resp, body, "", ProviderFetchFailed)
	}

	tmpl, err := p.decodeTemplate(resp, body)
	if err != nil {
		return nil, err
	}
	debug.Debug("[provider] Fetched %s", tmpl)
	return tmpl, nil
}

// Validate checks tmpl remotely without publishing it.
func (p *FirebaseProvider) Validate(ctx context.Context, tmpl *model.Template) (*model.Template, error) {
	debug.Debug("[provider] Validating template for project %s (etag %s)", p.ProjectID, tmpl.ETag)
	return p.put(ctx, tmpl, true)
}

// Publish replaces the remote template using tmpl.ETag for concurrency control.
func (p *FirebaseProvider) Publish(ctx context.Context, tmpl *model.Template) (*model.Template, error) {
	debug.Debug("[provider] Publishing template for project %s (etag %s)", p.ProjectID, tmpl.ETag)
	return p.put(ctx, tmpl, false)
}

// DownloadDefaults returns the static defaults export.
func (p *FirebaseProvider) DownloadDefaults(ctx context.Context, format DefaultsFormat) ([]byte, error) {
	debug.Debug("[provider] Downloading %s defaults for project %s", format, p.ProjectID)

	u := p.projectURL() + "/remoteConfig:downloadDefaults?" + url.Values{"format": {string(format)}}.Encode()
	resp, body, err := p.do(ctx, http.MethodGet, u, nil, nil)
	if err != nil {
		return nil, NewProviderError(ProviderFetchFailed, p.Name(), p.ProjectID,
			fmt.Sprintf("failed to download %s defaults", format), err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, p.statusError(resp, body, "", ProviderFetchFailed)
	}
	return body, nil
}

// publishBody is what the store accepts on PUT. Output-only version fields
// are not sent back; only the description is editable.
type publishBody struct {
	Conditions      json.RawMessage                  `json:"conditions,omitempty"`
	Parameters      map[string]*model.Parameter      `json:"parameters"`
	ParameterGroups map[string]*model.ParameterGroup `json:"parameterGroups"`
	Version         *publishVersion                  `json:"version,omitempty"`
}

type publishVersion struct {
	Description string `json:"description,omitempty"`
}

func newPublishBody(tmpl *model.Template) publishBody {
	body := publishBody{
		Conditions:      tmpl.Conditions,
		Parameters:      tmpl.Parameters,
		ParameterGroups: tmpl.ParameterGroups,
	}
	if body.Parameters == nil {
		body.Parameters = map[string]*model.Parameter{}
	}
	if body.ParameterGroups == nil {
		body.ParameterGroups = map[string]*model.ParameterGroup{}
	}
	if tmpl.Version != nil && tmpl.Version.Description != "" {
		body.Version = &publishVersion{Description: tmpl.Version.Description}
	}
	return body
}

func (p *FirebaseProvider) put(ctx context.Context, tmpl *model.Template, validateOnly bool) (*model.Template, error) {
	if tmpl == nil {
		return nil, fmt.Errorf("template cannot be nil")
	}

	failure := ProviderPublishFailed
	var query url.Values
	if validateOnly {
		query = url.Values{"validate_only": {"true"}}
		failure = ProviderFetchFailed
	}

	payload, err := json.Marshal(newPublishBody(tmpl))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal template: %w", err)
	}

	etag := tmpl.ETag
	if etag == "" {
		// Without a token the store would overwrite blindly.
		return nil, &ConcurrencyConflictError{Message: "no etag captured at fetch time"}
	}
	headers := map[string]string{
		"Content-Type": "application/json; charset=utf-8",
		"If-Match":     etag,
	}

	resp, body, err := p.do(ctx, http.MethodPut, p.templateURL(query), payload, headers)
	if err != nil {
		return nil, NewProviderError(failure, p.Name(), p.ProjectID, "request failed", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, p.statusError(resp, body, etag, failure)
	}

	result, err := p.decodeTemplate(resp, body)
	if err != nil {
		return nil, err
	}
	if validateOnly && result.ETag == "" {
		result.ETag = etag
	}
	return result, nil
}

func (p *FirebaseProvider) decodeTemplate(resp *http.Response, body []byte) (*model.Template, error) {
	var tmpl model.Template
	if err := json.Unmarshal(body, &tmpl); err != nil {
		return nil, NewProviderError(ProviderInvalidResponse, p.Name(), p.ProjectID, "failed to parse template", err)
	}
	tmpl.ETag = resp.Header.Get("ETag")
	if tmpl.Parameters == nil {
		tmpl.Parameters = map[string]*model.Parameter{}
	}
	if tmpl.ParameterGroups == nil {
		tmpl.ParameterGroups = map[string]*model.ParameterGroup{}
	}
	return &tmpl, nil
}

// apiError is the error envelope of Google APIs.
type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func (p *FirebaseProvider) statusError(resp *http.Response, body []byte, etag string, fallback ProviderErrorType) error {
	message := strings.TrimSpace(string(body))
	status := ""
	var envelope apiError
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		message = envelope.Error.Message
		status = envelope.Error.Status
	}
	debug.Debug("[provider] Request failed: status=%d (%s) message=%s", resp.StatusCode, status, message)

	switch {
	case resp.StatusCode == http.StatusPreconditionFailed, resp.StatusCode == http.StatusConflict,
		status == "FAILED_PRECONDITION" && etag != "":
		return &ConcurrencyConflictError{ETag: etag, Status: resp.StatusCode, Message: message}
	case resp.StatusCode == http.StatusBadRequest:
		return &SchemaValidationError{Status: resp.StatusCode, Message: message}
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return NewProviderError(ProviderAuthFailed, p.Name(), p.ProjectID, message, nil)
	case resp.StatusCode == http.StatusNotFound:
		return NewProviderError(ProviderNotFound, p.Name(), p.ProjectID, message, nil)
	default:
		return NewProviderError(fallback, p.Name(), p.ProjectID,
			fmt.Sprintf("unexpected status code %d: %s", resp.StatusCode, message), nil)
	}
}

func (p *FirebaseProvider) do(ctx context.Context, method, u string, payload []byte, headers map[string]string) (*http.Response, []byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	debug.Debug("[provider] %s %s", method, u)
	resp, err := p.HTTPClient.Do(req)
	if err != nil {
		var timeout interface{ Timeout() bool }
		if errors.As(err, &timeout) && timeout.Timeout() {
			return nil, nil, NewProviderError(ProviderTimeout, p.Name(), p.ProjectID, "operation timed out", err)
		}
		return nil, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, nil, err
	}
	return resp, body, nil
}

func (p *FirebaseProvider) projectURL() string {
	base := strings.TrimRight(p.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	return base + "/projects/" + url.PathEscape(p.ProjectID)
}

func (p *FirebaseProvider) templateURL(query url.Values) string {
	u := p.projectURL() + "/remoteConfig"
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}
