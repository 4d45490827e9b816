// Package onboardiq wires the vendor clients used during customer
// onboarding behind resilient call gateways.
//
// # Quick Start
//
//	svc, err := onboardiq.New(onboardiq.DefaultConfig(),
//	    onboardiq.WithLogger(logger),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer svc.Close()
//
//	templates, err := svc.Foxit().Templates(ctx)
//	v, err := svc.Vonage().StartVerification(ctx, vonage.VerifyRequest{PhoneNumber: phone})
//
// # Packages
//
// The gateway package holds the resilience machinery (cache, in-flight
// de-duplication, retries, circuit breaker, per-attempt timeouts) and can be
// used on its own:
//
//	import "github.com/prilive-com/onboardiq/gateway"
//	gw, _ := gateway.New(gateway.DefaultConfig("billing"))
//
// The foxit and vonage packages are the vendor clients. Each gets its own
// gateway, so an outage of one vendor opens only that vendor's breaker.
//
// # Features
//
//   - TTL response cache with per-call lifetimes (jellydator/ttlcache)
//   - Concurrent identical calls share one request (x/sync/singleflight)
//   - Retry with exponential backoff, crypto jitter and Retry-After support
//   - Circuit breaker with sony/gobreaker
//   - Per-attempt timeouts and per-recipient rate limiting
//   - Mock-mode fallbacks with deterministic fake data (gofakeit)
//   - Credential redaction in errors
//   - Structured logging with slog
package onboardiq
