package vonage

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/prilive-com/onboardiq/gateway"
	"github.com/prilive-com/onboardiq/internal/validate"
)

// Cache lifetimes per endpoint.
const (
	HealthTTL    = 30 * time.Second
	BalanceTTL   = 5 * time.Minute
	HistoryTTL   = 10 * time.Minute
	AnalyticsTTL = 15 * time.Minute
)

// DefaultSMSTTL is the delivery window used when SMSRequest.TTL is zero.
const DefaultSMSTTL = 259200

// MaxSMSLength is the longest text accepted by SendSMS.
const MaxSMSLength = 1600

// DefaultAnalyticsPeriod is used when Analytics is called without a period.
const DefaultAnalyticsPeriod = "last_30_days"

// Health returns the API health report. Cached for HealthTTL.
func (c *Client) Health(ctx context.Context) (Health, error) {
	return call(ctx, c, "health", func(ctx context.Context) (Health, error) {
		var h Health
		err := c.do(ctx, http.MethodGet, "/health", nil, &h)
		return h, err
	}, c.mockHealth, gateway.WithCache(HealthTTL))
}

// SendSMS sends one text message. Sends to the same recipient are spaced by
// the gateway's per-key rate limit.
func (c *Client) SendSMS(ctx context.Context, req SMSRequest) (SMSResult, error) {
	return c.sendSMS(ctx, req)
}

func (c *Client) sendSMS(ctx context.Context, req SMSRequest, opts ...gateway.CallOption) (SMSResult, error) {
	to := validate.NormalizePhone(req.To)
	if err := validate.PhoneNumber("to", to); err != nil {
		return SMSResult{}, err
	}
	if err := validate.Required("text", req.Text); err != nil {
		return SMSResult{}, err
	}
	if err := validate.MaxLength("text", req.Text, MaxSMSLength); err != nil {
		return SMSResult{}, err
	}
	if req.CallbackURL != "" {
		if err := validate.URL("callback_url", req.CallbackURL); err != nil {
			return SMSResult{}, err
		}
	}

	payload := smsPayload{
		To:              to,
		From:            or(req.From, c.config.SMSFrom),
		Text:            req.Text,
		TTL:             or(req.TTL, DefaultSMSTTL),
		DeliveryReceipt: req.DeliveryReceipt,
		CallbackURL:     req.CallbackURL,
	}

	return call(ctx, c, "", func(ctx context.Context) (SMSResult, error) {
		return post(ctx, c, "/sms/send", payload, func(r SMSResult) (bool, string) {
			return r.Success, r.ErrorText
		})
	}, func() SMSResult { return c.mockSMS(payload.To, payload.From) }, append(opts, gateway.WithRateLimitKey(to))...)
}

// SendBulkSMS sends text to every recipient, at most Config.BulkConcurrency
// at a time. A failed recipient is reported in its result slot; the returned
// error is only set when ctx ends. A recipient whose per-key rate limit is
// exhausted, such as a repeated number, fails with ErrRateLimited instead of
// holding up the batch.
func (c *Client) SendBulkSMS(ctx context.Context, recipients []string, from, text string) (BulkResult, error) {
	results := make([]SMSResult, len(recipients))
	failed := make([]bool, len(recipients))
	from = or(from, c.config.SMSFrom)

	g := new(errgroup.Group)
	g.SetLimit(c.config.BulkConcurrency)

	for i, to := range recipients {
		g.Go(func() error {
			res, err := c.sendSMS(ctx, SMSRequest{To: to, From: from, Text: text}, gateway.WithRateLimitNoWait())
			if err != nil {
				res = SMSResult{
					Status:           "failed",
					To:               to,
					From:             from,
					RemainingBalance: "0",
					MessagePrice:     "0",
					Network:          "unknown",
					ErrorText:        err.Error(),
				}
				failed[i] = true
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return BulkResult{Results: results}, err
	}

	out := BulkResult{Total: len(recipients), Results: results}
	for _, f := range failed {
		if f {
			out.Failed++
		} else {
			out.Successful++
		}
	}
	out.Success = out.Failed == 0

	c.logger.Info("bulk sms finished",
		"total", out.Total,
		"successful", out.Successful,
		"failed", out.Failed,
	)
	return out, nil
}

// AccountBalance returns the account balance. Cached for BalanceTTL.
func (c *Client) AccountBalance(ctx context.Context) (Balance, error) {
	return call(ctx, c, "balance", func(ctx context.Context) (Balance, error) {
		var b Balance
		err := c.do(ctx, http.MethodGet, "/account/balance", nil, &b)
		return b, err
	}, c.mockBalance, gateway.WithCache(BalanceTTL))
}

// MessageHistory returns sent messages matching f. Cached for HistoryTTL
// per filter.
func (c *Client) MessageHistory(ctx context.Context, f HistoryFilter) (History, error) {
	params := url.Values{}
	if f.Date != "" {
		params.Set("date", f.Date)
	}
	if f.To != "" {
		params.Set("to", f.To)
	}
	if f.From != "" {
		params.Set("from", f.From)
	}
	if f.Limit > 0 {
		params.Set("limit", strconv.Itoa(f.Limit))
	}
	query := params.Encode()

	return gateway.Execute(ctx, c.gw, "history_"+query, func(ctx context.Context) (History, error) {
		var h History
		err := c.do(ctx, http.MethodGet, "/messages/history?"+query, nil, &h)
		return h, err
	}, gateway.WithCache(HistoryTTL))
}

// Analytics returns usage statistics for period (DefaultAnalyticsPeriod when
// empty). Cached for AnalyticsTTL per period.
func (c *Client) Analytics(ctx context.Context, period string) (Analytics, error) {
	period = or(period, DefaultAnalyticsPeriod)
	path := "/analytics?period=" + url.QueryEscape(period)

	return call(ctx, c, "analytics_"+period, func(ctx context.Context) (Analytics, error) {
		var a Analytics
		err := c.do(ctx, http.MethodGet, path, nil, &a)
		return a, err
	}, func() Analytics { return c.mockAnalytics(period) }, gateway.WithCache(AnalyticsTTL))
}
