// Package scrub provides security helpers for removing sensitive data from errors.
package scrub

import "strings"

// SecretFromError removes API keys and secrets from error messages.
// Go's http.Client.Do() includes the request URL (which may carry credentials
// as query parameters) in error strings.
// Preserves the error chain for errors.Is/As via Unwrap().
func SecretFromError(err error, secrets ...string) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	scrubbed := msg
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		scrubbed = strings.ReplaceAll(scrubbed, secret, "[REDACTED]")
	}
	if scrubbed == msg {
		return err
	}
	return &scrubbedError{msg: scrubbed, err: err}
}

type scrubbedError struct {
	msg string
	err error
}

func (e *scrubbedError) Error() string { return e.msg }
func (e *scrubbedError) Unwrap() error { return e.err }
