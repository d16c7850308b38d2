// Package source produces importable record sets from external data
// sources: local CSV files and paginated JSON record APIs.
//
// API sources return typed records, so their field types are declared
// rather than inferred; CSV sources return untyped rows that go through
// the importer's schema inference.
package source

import (
	"net/http"
	"os"
	"time"

	"github.com/cmsbridge/importer/internal/importer"
)

// Session carries everything needed to call a remote records API. It is
// constructed once at startup and passed explicitly into every call;
// there is no package-level token state.
type Session struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

// NewSession creates a session with a default HTTP client.
func NewSession(baseURL, token string) *Session {
	return &Session{
		BaseURL: baseURL,
		Token:   token,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// ReadCSVFile reads and parses a CSV file from disk.
func ReadCSVFile(path string, opts importer.ParseOptions) (*importer.RecordSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return importer.ParseCSVWith(string(data), opts)
}
