package wsdlcache

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/wsforge/fabric/obslog"
)

// HTTPClient is the collaborator ReadWSDLFile uses to fetch a remote
// WSDL/XSD document; *http.Client satisfies it directly.
type HTTPClient interface {
	Get(url string) (*http.Response, error)
}

var defaultHTTPClient HTTPClient = &http.Client{Timeout: 15 * time.Second}

// ReadWSDLFile loads the bytes at location, which is either a local
// filesystem path or an http(s):// URL, using client for the remote
// case (nil uses a package-default client with a fixed timeout).
// Imported WSDL/XSD documents can reference each other; callers doing
// recursive import resolution are responsible for tracking visited
// locations themselves to stay cycle-safe — ReadWSDLFile itself only
// fetches one document.
func ReadWSDLFile(location string, client HTTPClient) ([]byte, error) {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		if client == nil {
			client = defaultHTTPClient
		}
		resp, err := client.Get(location)
		if err != nil {
			return nil, fmt.Errorf("wsdlcache: fetching %s: %w", location, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("wsdlcache: fetching %s: status %s", location, resp.Status)
		}
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("wsdlcache: reading %s: %w", location, err)
		}
		obslog.For("wsdlcache").Debug().Str("url", location).Int("bytes", len(body)).Msg("fetched remote document")
		return body, nil
	}

	body, err := os.ReadFile(location)
	if err != nil {
		return nil, fmt.Errorf("wsdlcache: reading %s: %w", location, err)
	}
	return body, nil
}

// ImportSet tracks locations already visited while resolving a WSDL's
// wsdl:import/xsd:import chain, so a cyclic reference terminates
// instead of recursing forever.
type ImportSet struct {
	seen map[string]bool
}

// NewImportSet returns an empty visited-set.
func NewImportSet() *ImportSet {
	return &ImportSet{seen: make(map[string]bool)}
}

// Visit records location as seen and reports whether it had already
// been visited (true means the caller must not recurse into it again).
func (s *ImportSet) Visit(location string) bool {
	if s.seen[location] {
		return true
	}
	s.seen[location] = true
	return false
}
