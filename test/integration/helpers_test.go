package integration

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/tacogips/rcsync/internal/template/provider"
)

// loadFixture returns a fixture template file.
func loadFixture(t *testing.T, name string) []byte {
	t.Helper()

	path, err := filepath.Abs(filepath.Join("../fixtures/templates", name))
	if err != nil {
		t.Fatalf("failed to get fixture path: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read fixture: %v", err)
	}
	return data
}

// fakeRemoteConfig emulates the Remote Config REST API for one project.
type fakeRemoteConfig struct {
	mu       sync.Mutex
	template map[string]json.RawMessage
	version  int
	puts     []string
	auth     []string
}

func newFakeRemoteConfig(t *testing.T, fixture []byte) *fakeRemoteConfig {
	t.Helper()

	f := &fakeRemoteConfig{}
	if err := json.Unmarshal(fixture, &f.template); err != nil {
		t.Fatalf("invalid fixture: %v", err)
	}
	var version struct {
		VersionNumber string `json:"versionNumber"`
	}
	if err := json.Unmarshal(f.template["version"], &version); err != nil {
		t.Fatalf("fixture has no version: %v", err)
	}
	f.version, _ = strconv.Atoi(version.VersionNumber)
	return f
}

func (f *fakeRemoteConfig) etag() string {
	return "etag-" + strconv.Itoa(f.version)
}

func (f *fakeRemoteConfig) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.auth = append(f.auth, r.Header.Get("Authorization"))

	switch {
	case strings.HasSuffix(r.URL.Path, "/remoteConfig:downloadDefaults"):
		switch r.URL.Query().Get("format") {
		case "XML":
			_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><defaultsMap/>`)
		case "PLIST":
			_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><plist version="1.0"><dict/></plist>`)
		default:
			writeAPIError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "unknown format")
		}

	case strings.HasSuffix(r.URL.Path, "/remoteConfig") && r.Method == http.MethodGet:
		w.Header().Set("ETag", f.etag())
		_ = json.NewEncoder(w).Encode(f.template)

	case strings.HasSuffix(r.URL.Path, "/remoteConfig") && r.Method == http.MethodPut:
		if r.Header.Get("If-Match") != f.etag() {
			writeAPIError(w, http.StatusPreconditionFailed, "FAILED_PRECONDITION", "etag mismatch")
			return
		}
		var body map[string]json.RawMessage
		data, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(data, &body); err != nil {
			writeAPIError(w, http.StatusBadRequest, "INVALID_ARGUMENT", err.Error())
			return
		}
		if strings.Contains(string(data), `\n`) {
			writeAPIError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "JSON values must be minified")
			return
		}
		if r.URL.Query().Get("validate_only") == "true" {
			w.Header().Set("ETag", f.etag())
			_, _ = w.Write(data)
			return
		}

		f.puts = append(f.puts, string(data))
		f.version++
		body["version"] = json.RawMessage(`{"versionNumber":"` + strconv.Itoa(f.version) + `"}`)
		f.template = body
		w.Header().Set("ETag", f.etag())
		_ = json.NewEncoder(w).Encode(body)

	default:
		writeAPIError(w, http.StatusNotFound, "NOT_FOUND", "no route")
	}
}

// bump simulates a concurrent edit by another client.
func (f *fakeRemoteConfig) bump() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.version++
}

func (f *fakeRemoteConfig) published() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.puts...)
}

func writeAPIError(w http.ResponseWriter, code int, status, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"code": code, "message": message, "status": status},
	})
}

// startRemote serves fixture and returns a provider authenticated with a static token.
func startRemote(t *testing.T, fixture string) (*fakeRemoteConfig, provider.Provider) {
	t.Helper()

	remote := newFakeRemoteConfig(t, loadFixture(t, fixture))
	server := httptest.NewServer(remote)
	t.Cleanup(server.Close)

	p, err := provider.NewProvider(context.Background(), provider.ProviderOptions{
		AccessToken: "test-token",
		ProjectID:   "demo-project",
		BaseURL:     server.URL + "/v1",
	})
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	return remote, p
}
