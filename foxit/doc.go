// Package foxit is a client for the Foxit document generation and PDF
// processing API.
//
// Every call goes through a gateway.Gateway, so the client inherits caching,
// de-duplication, retries and the circuit breaker:
//
//	gw, _ := gateway.New(gateway.DefaultConfig("foxit"))
//	client, err := foxit.New(foxit.Config{BaseURL: url, APIKey: key}, gw)
//
//	templates, err := client.Templates(ctx) // cached for 10 minutes
//	doc, err := client.GenerateDocument(ctx, foxit.GenerateRequest{
//	    TemplateID: "welcome_packet",
//	    Data:       map[string]any{"customer_name": "Ada"},
//	})
//
// In mock mode (no API key, or Config.MockMode) health, templates, generation,
// workflows and analytics fall back to generated data when the API fails.
package foxit
