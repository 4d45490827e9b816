package testutil

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Capture is one request received by a MockVendorServer.
type Capture struct {
	Method      string
	Path        string
	Query       map[string][]string
	Headers     http.Header
	Body        []byte
	ContentType string
	Timestamp   time.Time
}

// AssertPath verifies the request path.
func (c *Capture) AssertPath(t *testing.T, expected string) {
	t.Helper()
	assert.Equal(t, expected, c.Path, "unexpected path")
}

// AssertMethod verifies the HTTP method.
func (c *Capture) AssertMethod(t *testing.T, expected string) {
	t.Helper()
	assert.Equal(t, expected, c.Method, "unexpected method")
}

// AssertContentType verifies the Content-Type header contains expected.
func (c *Capture) AssertContentType(t *testing.T, expected string) {
	t.Helper()
	assert.Contains(t, c.ContentType, expected, "unexpected content-type")
}

// AssertHeader verifies a specific header value.
func (c *Capture) AssertHeader(t *testing.T, key, expected string) {
	t.Helper()
	assert.Equal(t, expected, c.Headers.Get(key), "unexpected header: "+key)
}

// AssertVendorHeaders verifies the headers every vendor call carries: the
// API key, the API version and a correlation ID.
func (c *Capture) AssertVendorHeaders(t *testing.T, apiKey, version string) {
	t.Helper()
	c.AssertHeader(t, "x-api-key", apiKey)
	c.AssertHeader(t, "X-API-Version", version)
	assert.NotEmpty(t, c.Headers.Get("X-Request-ID"), "missing X-Request-ID")
}

// AssertQuery verifies the first value of a query parameter.
func (c *Capture) AssertQuery(t *testing.T, key, expected string) {
	t.Helper()
	values := c.Query[key]
	if len(values) == 0 {
		t.Errorf("query parameter %q not found", key)
		return
	}
	assert.Equal(t, expected, values[0], "unexpected query parameter: "+key)
}

// AssertNoQuery verifies a query parameter was not sent.
func (c *Capture) AssertNoQuery(t *testing.T, key string) {
	t.Helper()
	assert.NotContains(t, c.Query, key, "query parameter should be absent: "+key)
}

// BodyMap decodes the JSON body into a map.
func (c *Capture) BodyMap(t *testing.T) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(c.Body, &m), "failed to decode JSON body")
	return m
}

// AssertJSONField verifies a top-level field of the JSON body.
func (c *Capture) AssertJSONField(t *testing.T, field string, expected any) {
	t.Helper()
	assert.Equal(t, expected, c.BodyMap(t)[field], "unexpected value for field: "+field)
}

// AssertJSONFieldAbsent verifies an omitempty field was left out.
func (c *Capture) AssertJSONFieldAbsent(t *testing.T, field string) {
	t.Helper()
	assert.NotContains(t, c.BodyMap(t), field, "field should be absent: "+field)
}
