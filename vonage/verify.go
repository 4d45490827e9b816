package vonage

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/prilive-com/onboardiq/gateway"
	"github.com/prilive-com/onboardiq/internal/validate"
)

// Verification defaults applied to zero fields of VerifyRequest.
const (
	DefaultCodeLength    = 6
	DefaultWorkflowID    = 6
	DefaultLanguage      = "en-us"
	DefaultPinExpiry     = 300
	DefaultNextEventWait = 60
)

// StartVerification sends a one-time code to req.PhoneNumber.
func (c *Client) StartVerification(ctx context.Context, req VerifyRequest) (Verification, error) {
	number := validate.NormalizePhone(req.PhoneNumber)
	if err := validate.PhoneNumber("phone_number", number); err != nil {
		return Verification{}, err
	}

	payload := verifyPayload{
		Number:        number,
		Brand:         or(req.Brand, c.config.Brand),
		CodeLength:    or(req.CodeLength, DefaultCodeLength),
		WorkflowID:    or(req.WorkflowID, DefaultWorkflowID),
		Language:      or(req.Language, DefaultLanguage),
		PinExpiry:     or(req.PinExpiry, DefaultPinExpiry),
		NextEventWait: or(req.NextEventWait, DefaultNextEventWait),
	}
	if err := validate.InRange("code_length", payload.CodeLength, 4, 10); err != nil {
		return Verification{}, err
	}

	return call(ctx, c, "", func(ctx context.Context) (Verification, error) {
		return post(ctx, c, "/verify/start", payload, func(v Verification) (bool, string) {
			return v.Success, v.ErrorText
		})
	}, c.mockVerification, gateway.WithRateLimitKey(number))
}

// CheckVerification submits the code the user received.
func (c *Client) CheckVerification(ctx context.Context, requestID, code string) (VerifyCheck, error) {
	if err := validate.Required("request_id", requestID); err != nil {
		return VerifyCheck{}, err
	}
	if err := validate.VerificationCode(code); err != nil {
		return VerifyCheck{}, err
	}
	payload := checkPayload{RequestID: requestID, Code: code}

	return call(ctx, c, "", func(ctx context.Context) (VerifyCheck, error) {
		return post(ctx, c, "/verify/check", payload, func(v VerifyCheck) (bool, string) {
			return v.Success, v.ErrorText
		})
	}, func() VerifyCheck { return c.mockCheck(requestID) })
}

// CancelVerification cancels a pending verification. It is attempted once.
func (c *Client) CancelVerification(ctx context.Context, requestID string) (CancelResult, error) {
	if err := validate.Required("request_id", requestID); err != nil {
		return CancelResult{}, err
	}
	payload := cancelPayload{RequestID: requestID}

	return gateway.Execute(ctx, c.gw, "", func(ctx context.Context) (CancelResult, error) {
		return post(ctx, c, "/verify/cancel", payload, func(r CancelResult) (bool, string) {
			return r.Success, r.ErrorText
		})
	}, gateway.WithoutRetry())
}

// VerificationStatus returns the state of a verification. Concurrent
// requests for the same verification share one call.
func (c *Client) VerificationStatus(ctx context.Context, requestID string) (VerifyCheck, error) {
	if err := validate.Required("request_id", requestID); err != nil {
		return VerifyCheck{}, err
	}
	path := "/verify/status/" + url.PathEscape(requestID)

	return gateway.Execute(ctx, c.gw, "verify_status_"+requestID, func(ctx context.Context) (VerifyCheck, error) {
		var s VerifyCheck
		err := c.do(ctx, http.MethodGet, path, nil, &s)
		return s, err
	})
}

// PollVerification polls VerificationStatus until it completes or fails,
// calling onProgress (if non-nil) with every status. Failed polls are logged
// and count as an attempt. It gives up with ErrPollTimeout after
// Config.PollMaxAttempts polls, or returns early when ctx ends.
func (c *Client) PollVerification(ctx context.Context, requestID string, onProgress func(VerifyCheck)) (VerifyCheck, error) {
	var lastErr error
	for attempt := 1; attempt <= c.config.PollMaxAttempts; attempt++ {
		status, err := c.VerificationStatus(ctx, requestID)
		switch {
		case ctx.Err() != nil:
			return VerifyCheck{}, ctx.Err()
		case err != nil:
			lastErr = err
			c.logger.Warn("verification poll failed",
				"request_id", requestID,
				"poll", attempt,
				"error", err,
			)
		default:
			if onProgress != nil {
				onProgress(status)
			}
			if status.Done() {
				return status, nil
			}
		}

		if attempt < c.config.PollMaxAttempts {
			if err := c.sleeper.Sleep(ctx, c.config.PollInterval); err != nil {
				return VerifyCheck{}, err
			}
		}
	}

	if lastErr != nil {
		return VerifyCheck{}, fmt.Errorf("%w: %s after %d polls (last error: %w)", ErrPollTimeout, requestID, c.config.PollMaxAttempts, lastErr)
	}
	return VerifyCheck{}, fmt.Errorf("%w: %s after %d polls", ErrPollTimeout, requestID, c.config.PollMaxAttempts)
}

// SimSwap reports whether the SIM behind number changed recently. An empty
// country means US.
func (c *Client) SimSwap(ctx context.Context, number, country string) (SimSwap, error) {
	number = validate.NormalizePhone(number)
	if err := validate.PhoneNumber("phone_number", number); err != nil {
		return SimSwap{}, err
	}
	payload := simSwapPayload{Number: number, Country: or(country, "US")}

	return call(ctx, c, "simswap_"+number, func(ctx context.Context) (SimSwap, error) {
		return post(ctx, c, "/sim-swap", payload, func(s SimSwap) (bool, string) {
			return s.Success, s.ErrorText
		})
	}, c.mockSimSwap)
}

// PhoneInsights looks up carrier and reachability for number. An empty level
// means LevelStandard. Concurrent lookups of the same number and level share
// one call.
func (c *Client) PhoneInsights(ctx context.Context, number, level string) (Insights, error) {
	number = validate.NormalizePhone(number)
	if err := validate.PhoneNumber("phone_number", number); err != nil {
		return Insights{}, err
	}
	level = or(level, LevelStandard)
	if err := validate.OneOf("level", level, LevelBasic, LevelStandard, LevelAdvanced); err != nil {
		return Insights{}, err
	}
	payload := insightsPayload{Number: number, Level: level}

	return call(ctx, c, "insights_"+level+"_"+number, func(ctx context.Context) (Insights, error) {
		return post(ctx, c, "/insights", payload, func(i Insights) (bool, string) {
			return i.Success, i.ErrorText
		})
	}, func() Insights { return c.mockInsights(number) })
}

// ValidatePhoneNumber checks the format locally and, when it parses, asks
// for basic insights. A malformed number is reported as invalid without a
// remote call.
func (c *Client) ValidatePhoneNumber(ctx context.Context, number string) (PhoneCheck, error) {
	formatted := validate.NormalizePhone(number)
	if err := validate.PhoneNumber("phone_number", formatted); err != nil {
		return PhoneCheck{
			Formatted:   formatted,
			Country:     "Unknown",
			Carrier:     "Unknown",
			Type:        "Unknown",
			Suggestions: []string{"Check phone number format", "Verify country code"},
		}, nil
	}

	insights, err := c.PhoneInsights(ctx, formatted, LevelBasic)
	if err != nil {
		return PhoneCheck{}, err
	}

	check := PhoneCheck{
		Valid:     insights.Valid,
		Formatted: formatted,
		Country:   or(insights.Country, "Unknown"),
		Carrier:   or(insights.Carrier, "Unknown"),
		Type:      or(insights.Type, "Unknown"),
	}
	if !check.Valid {
		check.Suggestions = []string{"Check phone number format", "Verify country code"}
	}
	return check, nil
}

func or[T comparable](v, fallback T) T {
	var zero T
	if v == zero {
		return fallback
	}
	return v
}

