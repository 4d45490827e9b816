package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/prilive-com/onboardiq/internal/testutil"
)

type vendors struct {
	foxit  *testutil.MockVendorServer
	vonage *testutil.MockVendorServer
	config string
}

func newVendors(t *testing.T) vendors {
	t.Helper()

	v := vendors{foxit: testutil.NewMockServer(t), vonage: testutil.NewMockServer(t)}
	v.foxit.OnMethod("GET", "/templates", func(w http.ResponseWriter, r *http.Request) {
		testutil.ReplyJSON(w, map[string]any{
			"success":   true,
			"templates": []any{testutil.TestTemplate("welcome_packet", "Welcome Packet")},
		})
	})

	v.config = filepath.Join(t.TempDir(), "onboardiq.yaml")
	content := fmt.Sprintf(`
foxit:
  base_url: %s
  api_key: %s
vonage:
  base_url: %s
  api_key: %s
  api_secret: %s
gateways:
  foxit:
    max_attempts: 1
  vonage:
    max_attempts: 1
log:
  level: error
`, v.foxit.BaseURL(), testutil.TestAPIKey, v.vonage.BaseURL(), testutil.TestAPIKey, testutil.TestAPISecret)
	require.NoError(t, os.WriteFile(v.config, []byte(content), 0o600))
	return v
}

func run(t *testing.T, v vendors, args ...string) (string, error) {
	t.Helper()

	cmd, a := newRootCmd()
	t.Cleanup(func() { _ = a.close() })
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", v.config, "--env-file", ""}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func TestSmoke(t *testing.T) {
	v := newVendors(t)
	dir := t.TempDir()

	out, err := run(t, v, "smoke", "--report", dir)

	require.NoError(t, err)
	assert.Contains(t, out, "Status: PASSED")
	assert.Contains(t, out, "1 cache hit(s)")
	assert.Equal(t, 1, v.foxit.CountPath("/templates"), "second read is served from the cache")
	assert.Equal(t, 2, v.foxit.CountPath("/health"), "ping bypasses the cache")

	files, err := filepath.Glob(filepath.Join(dir, "smoke-*.json"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	var report Report
	require.NoError(t, json.Unmarshal(data, &report))
	assert.True(t, report.Success)
	assert.Len(t, report.Steps, 6)
	assert.True(t, report.Steps[3].Cached)
}

func TestSmoke_FailureReturnsError(t *testing.T) {
	v := newVendors(t)
	v.vonage.On("/account/balance", func(w http.ResponseWriter, r *http.Request) {
		testutil.ReplyUnauthorized(w)
	})

	out, err := run(t, v, "smoke")

	require.Error(t, err)
	assert.Contains(t, out, "Status: FAILED")
	assert.Contains(t, out, "auth")
}

func TestStatus_YAML(t *testing.T) {
	v := newVendors(t)

	out, err := run(t, v, "status")

	require.NoError(t, err)
	var status []map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &status))
	require.Len(t, status, 2)
	assert.Equal(t, "foxit", status[0]["name"])
	breaker := status[0]["breaker"].(map[string]any)
	assert.Equal(t, "closed", breaker["state"])
}

func TestStatus_JSON(t *testing.T) {
	v := newVendors(t)

	out, err := run(t, v, "status", "-o", "json")

	require.NoError(t, err)
	var status []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.Equal(t, "vonage", status[1]["name"])
}

func TestStatus_UnknownFormat(t *testing.T) {
	v := newVendors(t)

	_, err := run(t, v, "status", "-o", "xml")

	assert.ErrorContains(t, err, "unknown output format")
}

func TestVerifyStartAndCheck(t *testing.T) {
	v := newVendors(t)
	v.vonage.OnMethod("POST", "/verify/start", func(w http.ResponseWriter, r *http.Request) {
		testutil.ReplyJSON(w, map[string]any{"success": true, "requestId": testutil.TestRequestID, "status": "0"})
	})
	v.vonage.OnMethod("POST", "/verify/check", func(w http.ResponseWriter, r *http.Request) {
		testutil.ReplyJSON(w, map[string]any{"success": true, "requestId": testutil.TestRequestID, "status": "0"})
	})

	out, err := run(t, v, "verify", "start", testutil.TestPhone, "--brand", "Acme")
	require.NoError(t, err)
	assert.Contains(t, out, "request_id: "+testutil.TestRequestID)
	v.vonage.LastCapture().AssertJSONField(t, "brand", "Acme")

	out, err = run(t, v, "verify", "check", testutil.TestRequestID, "123456")
	require.NoError(t, err)
	assert.Contains(t, out, "status: 0")
}

func TestGenerate(t *testing.T) {
	v := newVendors(t)
	v.foxit.OnMethod("POST", "/generate-document", func(w http.ResponseWriter, r *http.Request) {
		testutil.ReplyJSON(w, map[string]any{"success": true, "document_id": testutil.TestDocumentID})
	})

	out, err := run(t, v, "generate", testutil.TestTemplateID, "-f", "customer_name=Ada Lovelace", "-f", "plan=pro")

	require.NoError(t, err)
	assert.Contains(t, out, "document_id: "+testutil.TestDocumentID)
	data := v.foxit.LastCapture().BodyMap(t)["data"]
	assert.Equal(t, map[string]any{"customer_name": "Ada Lovelace", "plan": "pro"}, data)
}

func TestGenerate_BadField(t *testing.T) {
	v := newVendors(t)

	_, err := run(t, v, "generate", testutil.TestTemplateID, "-f", "novalue")

	assert.ErrorContains(t, err, "key=value")
}

func TestSMS(t *testing.T) {
	v := newVendors(t)
	v.vonage.OnMethod("POST", "/sms/send", func(w http.ResponseWriter, r *http.Request) {
		testutil.ReplyJSON(w, map[string]any{"success": true, "messageId": "msg_1", "to": testutil.TestPhone})
	})

	out, err := run(t, v, "sms", testutil.TestPhone, "Welcome aboard", "--from", "Acme")

	require.NoError(t, err)
	assert.Contains(t, out, "message_id: msg_1")
	v.vonage.LastCapture().AssertJSONField(t, "from", "Acme")
}

func TestInvalidLogLevelFlag(t *testing.T) {
	v := newVendors(t)

	_, err := run(t, v, "status", "--log-level", "chatty")

	assert.Error(t, err)
}

func TestParseFields(t *testing.T) {
	data, err := parseFields([]string{"a=1", " b =x=y", "c="})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": "1", "b": "x=y", "c": ""}, data)

	_, err = parseFields([]string{"=1"})
	assert.Error(t, err)
}
