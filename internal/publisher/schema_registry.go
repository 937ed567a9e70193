package publisher

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
)

const (
	registryContentType = "application/vnd.schemaregistry.v1+json"
	registryTimeout     = 10 * time.Second
)

var errSubjectNotFound = errors.New("schema subject not found")

// SchemaRegistryClient resolves the schema id stamped into each event frame.
// Subjects are created on first use with schemaType JSON.
type SchemaRegistryClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewSchemaRegistryClient targets the registry at baseURL.
func NewSchemaRegistryClient(baseURL string) *SchemaRegistryClient {
	return &SchemaRegistryClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: registryTimeout},
	}
}

// EnsureSchema looks up the newest version under subject and falls back to
// registering schema when the subject does not exist yet. Any other registry
// failure is returned as is.
func (c *SchemaRegistryClient) EnsureSchema(ctx context.Context, subject string, schema string) (int, error) {
	versions := "/subjects/" + url.PathEscape(subject) + "/versions"

	id, err := c.schemaID(ctx, http.MethodGet, versions+"/latest", nil)
	if !errors.Is(err, errSubjectNotFound) {
		return id, err
	}

	body, err := json.Marshal(struct {
		SchemaType string `json:"schemaType"`
		Schema     string `json:"schema"`
	}{SchemaType: "JSON", Schema: schema})
	if err != nil {
		return 0, err
	}
	return c.schemaID(ctx, http.MethodPost, versions, body)
}

// schemaID sends one registry call and reads the id field of its reply.
func (c *SchemaRegistryClient) schemaID(ctx context.Context, method, path string, body []byte) (int, error) {
	var payload io.Reader
	if body != nil {
		payload = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", registryContentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound && method == http.MethodGet:
		return 0, errSubjectNotFound
	case resp.StatusCode >= http.StatusMultipleChoices:
		detail, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("schema registry %s %s: %d %s", method, path, resp.StatusCode, bytes.TrimSpace(detail))
	}

	var reply struct {
		ID int `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return 0, fmt.Errorf("decode schema registry reply: %w", err)
	}
	return reply.ID, nil
}
