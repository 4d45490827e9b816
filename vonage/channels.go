package vonage

import (
	"context"
	"slices"
	"time"

	"github.com/prilive-com/onboardiq/gateway"
	"github.com/prilive-com/onboardiq/internal/validate"
)

// Voice and video defaults.
const (
	DefaultVoiceName     = "Amy"
	DefaultVoiceLanguage = "en-US"
	DefaultVideoTokenTTL = 24 * time.Hour
	DefaultRetryAttempts = 3
)

// MakeVoiceCall places a text-to-speech call. A call is never retried: a
// lost response could otherwise ring the recipient twice.
func (c *Client) MakeVoiceCall(ctx context.Context, req VoiceRequest) (VoiceCall, error) {
	to := validate.NormalizePhone(req.To)
	if err := validate.PhoneNumber("to", to); err != nil {
		return VoiceCall{}, err
	}
	from := validate.NormalizePhone(req.From)
	if err := validate.PhoneNumber("from", from); err != nil {
		return VoiceCall{}, err
	}
	if err := validate.Required("text", req.Text); err != nil {
		return VoiceCall{}, err
	}
	if req.Level < -1 || req.Level > 1 {
		return VoiceCall{}, validate.Newf("level", "must be between -1 and 1, got %g", req.Level)
	}

	payload := voicePayload{
		To:   []voiceEndpoint{{Type: "phone", Number: to}},
		From: voiceEndpoint{Type: "phone", Number: from},
		NCCO: []talkAction{{
			Action:    "talk",
			Text:      req.Text,
			VoiceName: or(req.VoiceName, DefaultVoiceName),
			Language:  or(req.Language, DefaultVoiceLanguage),
			Speed:     or(req.Speed, 1.0),
			Level:     req.Level,
			Loop:      or(req.Loop, 1),
		}},
	}

	return call(ctx, c, "", func(ctx context.Context) (VoiceCall, error) {
		return post(ctx, c, "/voice/call", payload, func(v VoiceCall) (bool, string) {
			return v.Success, v.ErrorText
		})
	}, c.mockVoiceCall, gateway.WithoutRetry(), gateway.WithRateLimitKey(to))
}

// CreateVideoSession creates a video session for an onboarding call.
func (c *Client) CreateVideoSession(ctx context.Context, req VideoSessionRequest) (VideoSession, error) {
	payload := videoSessionPayload{
		MediaMode:   or(req.MediaMode, MediaRouted),
		ArchiveMode: or(req.ArchiveMode, ArchiveManual),
		Location:    or(req.Location, "auto"),
		P2P:         req.P2P,
		Recording:   req.Recording,
	}
	if err := validate.OneOf("media_mode", payload.MediaMode, MediaRouted, MediaRelayed); err != nil {
		return VideoSession{}, err
	}
	if err := validate.OneOf("archive_mode", payload.ArchiveMode, ArchiveManual, ArchiveAlways); err != nil {
		return VideoSession{}, err
	}
	if payload.P2P && payload.MediaMode == MediaRouted {
		return VideoSession{}, validate.New("p2p", "requires relayed media mode")
	}

	return call(ctx, c, "", func(ctx context.Context) (VideoSession, error) {
		return post(ctx, c, "/video/session", payload, func(s VideoSession) (bool, string) {
			return s.Success, s.ErrorText
		})
	}, func() VideoSession { return c.mockVideoSession(payload) })
}

// GenerateVideoToken issues a token for joining a video session.
func (c *Client) GenerateVideoToken(ctx context.Context, req VideoTokenRequest) (VideoToken, error) {
	if err := validate.Required("session_id", req.SessionID); err != nil {
		return VideoToken{}, err
	}
	role := or(req.Role, RolePublisher)
	if err := validate.OneOf("role", role, RolePublisher, RoleSubscriber, RoleModerator); err != nil {
		return VideoToken{}, err
	}

	now := c.now()
	expire := req.ExpireTime
	if expire.IsZero() {
		expire = now.Add(DefaultVideoTokenTTL)
	}
	if !expire.After(now) {
		return VideoToken{}, validate.New("expire_time", "must be in the future")
	}

	payload := videoTokenPayload{
		SessionID:  req.SessionID,
		Role:       role,
		Data:       req.Data,
		ExpireTime: expire.Unix(),
	}

	return call(ctx, c, "", func(ctx context.Context) (VideoToken, error) {
		return post(ctx, c, "/video/token", payload, func(t VideoToken) (bool, string) {
			return t.Success, t.ErrorText
		})
	}, func() VideoToken { return c.mockVideoToken(payload) })
}

// SendWhatsApp sends one WhatsApp message. Sends to the same recipient share
// a rate limit bucket separate from SMS.
func (c *Client) SendWhatsApp(ctx context.Context, req WhatsAppRequest) (WhatsAppResult, error) {
	to := validate.NormalizePhone(req.To)
	if err := validate.PhoneNumber("to", to); err != nil {
		return WhatsAppResult{}, err
	}
	if err := validate.Required("text", req.Text); err != nil {
		return WhatsAppResult{}, err
	}
	if err := validate.MaxLength("text", req.Text, MaxSMSLength); err != nil {
		return WhatsAppResult{}, err
	}

	payload := smsPayload{
		To:              to,
		From:            or(req.From, c.config.SMSFrom),
		Text:            req.Text,
		TTL:             or(req.TTL, DefaultSMSTTL),
		DeliveryReceipt: req.DeliveryReceipt,
	}

	return call(ctx, c, "", func(ctx context.Context) (WhatsAppResult, error) {
		return post(ctx, c, "/whatsapp/send", payload, func(r WhatsAppResult) (bool, string) {
			return r.Success, r.ErrorText
		})
	}, func() WhatsAppResult { return c.mockWhatsApp(payload.To, payload.From) },
		gateway.WithRateLimitKey(ChannelWhatsApp+":"+to))
}

// SendMultiChannel delivers one message over several channels in a single
// request. Phone channels need Recipient.Phone; email needs Recipient.Email.
func (c *Client) SendMultiChannel(ctx context.Context, req MultiChannelRequest) (MultiChannelResult, error) {
	if len(req.Channels) == 0 {
		return MultiChannelResult{}, validate.New("channels", "at least one channel is required")
	}
	if err := validate.Required("message", req.Message); err != nil {
		return MultiChannelResult{}, err
	}

	channels := slices.Clone(req.Channels)
	slices.Sort(channels)
	channels = slices.Compact(channels)

	recipient := req.Recipient
	for _, ch := range channels {
		if err := validate.OneOf("channels", ch, ChannelSMS, ChannelWhatsApp, ChannelVoice, ChannelEmail); err != nil {
			return MultiChannelResult{}, err
		}
	}
	if slices.ContainsFunc(channels, isPhoneChannel) {
		recipient.Phone = validate.NormalizePhone(recipient.Phone)
		if err := validate.PhoneNumber("recipient.phone", recipient.Phone); err != nil {
			return MultiChannelResult{}, err
		}
	}
	if slices.Contains(channels, ChannelEmail) {
		if err := validate.Required("recipient.email", recipient.Email); err != nil {
			return MultiChannelResult{}, err
		}
	}

	priority := or(req.Priority, "normal")
	if err := validate.OneOf("priority", priority, "low", "normal", "high"); err != nil {
		return MultiChannelResult{}, err
	}
	if err := validate.InRange("retry_attempts", or(req.RetryAttempts, DefaultRetryAttempts), 1, 10); err != nil {
		return MultiChannelResult{}, err
	}

	payload := multiChannelPayload{
		Recipient:     recipient,
		Channels:      channels,
		Message:       req.Message,
		From:          or(req.From, c.config.SMSFrom),
		Priority:      priority,
		RetryAttempts: or(req.RetryAttempts, DefaultRetryAttempts),
	}

	res, err := call(ctx, c, "", func(ctx context.Context) (MultiChannelResult, error) {
		return post(ctx, c, "/multi-channel/send", payload, func(r MultiChannelResult) (bool, string) {
			return r.Success, r.ErrorText
		})
	}, func() MultiChannelResult { return c.mockMultiChannel(payload) })
	if err != nil {
		return res, err
	}

	c.logger.Info("multi-channel message sent",
		"channels", len(channels),
		"successful", res.Successful,
		"failed", res.Failed,
	)
	return res, nil
}

func isPhoneChannel(ch string) bool {
	return ch == ChannelSMS || ch == ChannelWhatsApp || ch == ChannelVoice
}
