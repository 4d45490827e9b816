// Package testutil provides testing utilities for onboardiq.
//
// This package is intended for internal testing only and should not be imported
// by external packages.
//
// # Mock Vendor Server
//
// MockVendorServer provides a mock vendor REST API for testing:
//
//	server := testutil.NewMockServer(t)
//	server.OnMethod("GET", "/templates", func(w http.ResponseWriter, r *http.Request) {
//	    testutil.ReplyJSON(w, []any{testutil.TestTemplate("tpl_1", "Welcome")})
//	})
//	// Use server.BaseURL() as the API base URL
//
// # Request Capture
//
// All requests are automatically captured and can be inspected:
//
//	cap := server.LastCapture()
//	cap.AssertMethod(t, "POST")
//	cap.AssertHeader(t, "x-api-key", testutil.TestAPIKey)
//
// # Fake Sleeper
//
// FakeSleeper records backoff waits without actually sleeping:
//
//	sleeper := &testutil.FakeSleeper{}
//	g := testutil.NewRetryTestGateway(t, sleeper)
//	assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}, sleeper.Calls())
//
// # Gateways
//
// NewRetryTestGateway, NewBreakerTestGateway and NewTestGateway build gateways
// tuned for retry, breaker and plain tests and close them on cleanup.
package testutil
