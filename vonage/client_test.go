package vonage_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prilive-com/onboardiq/gateway"
	"github.com/prilive-com/onboardiq/internal/testutil"
	"github.com/prilive-com/onboardiq/internal/validate"
	"github.com/prilive-com/onboardiq/vonage"
)

func newTestClient(t *testing.T, server *testutil.MockVendorServer, mutate ...func(*vonage.Config)) (*vonage.Client, *testutil.FakeSleeper) {
	t.Helper()

	sleeper := &testutil.FakeSleeper{}
	gw := testutil.NewRetryTestGateway(t, sleeper)
	return newClientWithGateway(t, server, gw, sleeper, mutate...), sleeper
}

func newClientWithGateway(t *testing.T, server *testutil.MockVendorServer, gw *gateway.Gateway, sleeper *testutil.FakeSleeper, mutate ...func(*vonage.Config)) *vonage.Client {
	t.Helper()

	cfg := vonage.DefaultConfig()
	cfg.BaseURL = server.BaseURL()
	cfg.APIKey = testutil.TestAPIKey
	cfg.APISecret = testutil.TestAPISecret
	cfg.PollInterval = time.Second
	for _, m := range mutate {
		m(&cfg)
	}

	client, err := vonage.New(cfg, gw, vonage.WithSleeper(sleeper))
	require.NoError(t, err)
	return client
}

func TestNew_RequiresGateway(t *testing.T) {
	_, err := vonage.New(vonage.DefaultConfig(), nil)
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*vonage.Config)
	}{
		{"bad url", func(c *vonage.Config) { c.BaseURL = "ftp://example.com" }},
		{"empty brand", func(c *vonage.Config) { c.Brand = "" }},
		{"long brand", func(c *vonage.Config) { c.Brand = "OnboardIQ Platform Services" }},
		{"empty sender", func(c *vonage.Config) { c.SMSFrom = "" }},
		{"zero poll attempts", func(c *vonage.Config) { c.PollMaxAttempts = 0 }},
		{"zero poll interval", func(c *vonage.Config) { c.PollInterval = 0 }},
		{"bulk concurrency too high", func(c *vonage.Config) { c.BulkConcurrency = 1000 }},
	}

	require.NoError(t, vonage.DefaultConfig().Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := vonage.DefaultConfig()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), validate.ErrInvalid)
		})
	}
}

func TestClient_SendsCredentials(t *testing.T) {
	server := testutil.NewMockServer(t)
	client, _ := newTestClient(t, server)

	_, err := client.Health(context.Background())
	require.NoError(t, err)

	cap := server.LastCapture()
	require.NotNil(t, cap)
	cap.AssertPath(t, "/health")
	cap.AssertVendorHeaders(t, testutil.TestAPIKey, vonage.APIVersion)
	cap.AssertHeader(t, "x-api-secret", testutil.TestAPISecret)
}

func TestClient_ScrubsSecretsFromErrors(t *testing.T) {
	server := testutil.NewMockServer(t)
	server.On("/account/balance", func(w http.ResponseWriter, r *http.Request) {
		testutil.ReplyError(w, http.StatusUnauthorized, "bad credentials "+testutil.TestAPIKey+":"+testutil.TestAPISecret)
	})
	client, _ := newTestClient(t, server)

	_, err := client.AccountBalance(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, gateway.ErrAuth)
	assert.NotContains(t, err.Error(), testutil.TestAPIKey)
	assert.NotContains(t, err.Error(), testutil.TestAPISecret)
}

func TestHealth_Cached(t *testing.T) {
	server := testutil.NewMockServer(t)
	server.OnMethod("GET", "/health", func(w http.ResponseWriter, r *http.Request) {
		testutil.ReplyJSON(w, map[string]any{"status": "healthy", "version": "2.0.0"})
	})
	client, _ := newTestClient(t, server)

	for range 3 {
		h, err := client.Health(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "healthy", h.Status)
	}

	assert.Equal(t, 1, server.CountPath("/health"))
}

func TestAccountBalance_Cached(t *testing.T) {
	server := testutil.NewMockServer(t)
	server.OnMethod("GET", "/account/balance", func(w http.ResponseWriter, r *http.Request) {
		testutil.ReplyJSON(w, map[string]any{"balance": "42.17", "currency": "EUR", "autoReload": true})
	})
	client, _ := newTestClient(t, server)

	for range 2 {
		b, err := client.AccountBalance(context.Background())
		require.NoError(t, err)
		assert.Equal(t, vonage.Balance{Balance: "42.17", Currency: "EUR", AutoReload: true}, b)
	}

	assert.Equal(t, 1, server.CountPath("/account/balance"))
	assert.Contains(t, client.Gateway().CacheStats().Keys, "balance")
}

func TestMockMode_Balance(t *testing.T) {
	server := testutil.NewMockServer(t)
	server.On("/account/balance", func(w http.ResponseWriter, r *http.Request) {
		testutil.ReplyServerError(w, 502, "bad gateway")
	})
	client, _ := newTestClient(t, server, func(c *vonage.Config) { c.APIKey = "" })
	require.True(t, client.MockEnabled())

	b, err := client.AccountBalance(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "100.00", b.Balance)
	assert.Equal(t, "USD", b.Currency)
	assert.Equal(t, 3, server.CountPath("/account/balance"))
}

func TestMessageHistory(t *testing.T) {
	server := testutil.NewMockServer(t)
	server.OnMethod("GET", "/messages/history", func(w http.ResponseWriter, r *http.Request) {
		testutil.ReplyJSON(w, map[string]any{
			"messages": []map[string]any{{"messageId": "msg_1", "to": testutil.TestPhone, "status": "delivered"}},
			"count":    1,
		})
	})
	client, _ := newTestClient(t, server)
	filter := vonage.HistoryFilter{To: testutil.TestPhone, Limit: 10}

	h, err := client.MessageHistory(context.Background(), filter)
	require.NoError(t, err)
	_, err = client.MessageHistory(context.Background(), filter)
	require.NoError(t, err)

	assert.Equal(t, 1, h.Count)
	assert.Equal(t, "msg_1", h.Messages[0].MessageID)
	assert.Equal(t, 1, server.CountPath("/messages/history"))

	cap := server.LastCapture()
	cap.AssertQuery(t, "to", testutil.TestPhone)
	cap.AssertQuery(t, "limit", "10")
	cap.AssertNoQuery(t, "date")
}

func TestAnalytics(t *testing.T) {
	server := testutil.NewMockServer(t)
	server.OnMethod("GET", "/analytics", func(w http.ResponseWriter, r *http.Request) {
		testutil.ReplyJSON(w, map[string]any{"period": r.URL.Query().Get("period"), "totalMessages": 1250})
	})
	client, _ := newTestClient(t, server)

	a, err := client.Analytics(context.Background(), "")

	require.NoError(t, err)
	assert.Equal(t, vonage.DefaultAnalyticsPeriod, a.Period)
	assert.Equal(t, 1250, a.TotalMessages)
	assert.Contains(t, client.Gateway().CacheStats().Keys, "analytics_last_30_days")
}

func TestMockMode_Analytics(t *testing.T) {
	server := testutil.NewMockServer(t)
	server.On("/analytics", func(w http.ResponseWriter, r *http.Request) {
		testutil.ReplyServerError(w, 500, "down")
	})
	client, _ := newTestClient(t, server, func(c *vonage.Config) { c.MockMode = true })

	a, err := client.Analytics(context.Background(), "last_7_days")

	require.NoError(t, err)
	assert.Equal(t, "last_7_days", a.Period)
	assert.Equal(t, a.TotalMessages, a.SuccessfulMessages+a.FailedMessages)
	assert.Empty(t, client.Gateway().CacheStats().Keys)
}
