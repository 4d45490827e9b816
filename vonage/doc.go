// Package vonage is a client for the communications API used during
// onboarding: phone verification, SIM swap and number insights, SMS, and
// account reporting.
//
// Every call goes through a gateway.Gateway, so identical lookups share one
// request, reads are cached per endpoint, and transient failures are retried
// behind the gateway's circuit breaker:
//
//	gw, _ := gateway.New(gateway.DefaultConfig("vonage"))
//	client, err := vonage.New(cfg, gw)
//	if err != nil {
//	    return err
//	}
//	v, err := client.StartVerification(ctx, vonage.VerifyRequest{PhoneNumber: "+14155550123"})
//
// Phone numbers are normalized and must be E.164. When Config.MockEnabled
// reports true, endpoints with a mock counterpart answer with generated data
// once the live call has failed; cancellation and status lookups always
// report the real error.
package vonage
