package vonage

import (
	"fmt"
	"time"
)

func (c *Client) mockHealth() Health {
	return Health{
		Status:    "healthy",
		Version:   "2.0.0",
		Features:  []string{"verify", "sim_swap", "insights", "sms", "voice", "video", "whatsapp", "multi_channel"},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func (c *Client) mockVerification() Verification {
	return Verification{
		Success:           true,
		RequestID:         c.mock.ID("verify"),
		Status:            "0",
		EstimatedCost:     "0.05",
		RemainingAttempts: 3,
	}
}

func (c *Client) mockCheck(requestID string) VerifyCheck {
	return VerifyCheck{
		Success:   true,
		Status:    "0",
		RequestID: requestID,
		EventID:   c.mock.ID("event"),
		Price:     "0.05",
		Currency:  "USD",
	}
}

func (c *Client) mockSimSwap() SimSwap {
	return SimSwap{
		Success:   true,
		RequestID: c.mock.ID("simswap"),
		Status:    "0",
	}
}

func (c *Client) mockInsights(number string) Insights {
	return Insights{
		Success:     true,
		RequestID:   c.mock.ID("insights"),
		Status:      "0",
		PhoneNumber: number,
		Country:     "US",
		Carrier:     c.mock.Pick("Verizon", "AT&T", "T-Mobile"),
		Type:        "mobile",
		Valid:       true,
		Reachable:   true,
	}
}

func (c *Client) mockSMS(to, from string) SMSResult {
	return SMSResult{
		Success:          true,
		MessageID:        c.mock.ID("msg"),
		Status:           "0",
		To:               to,
		From:             from,
		RemainingBalance: "100.00",
		MessagePrice:     "0.01",
		Network:          "US",
	}
}

func (c *Client) mockBalance() Balance {
	return Balance{Balance: "100.00", Currency: "USD"}
}

func (c *Client) mockAnalytics(period string) Analytics {
	messages := c.mock.IntRange(1000, 1500)
	calls := c.mock.IntRange(200, 400)
	verifications := c.mock.IntRange(400, 600)
	failedMessages := messages / 25
	failedCalls := calls / 20
	failedVerifications := verifications / 33

	return Analytics{
		Period:                  period,
		TotalMessages:           messages,
		SuccessfulMessages:      messages - failedMessages,
		FailedMessages:          failedMessages,
		TotalCalls:              calls,
		SuccessfulCalls:         calls - failedCalls,
		FailedCalls:             failedCalls,
		TotalVerifications:      verifications,
		SuccessfulVerifications: verifications - failedVerifications,
		FailedVerifications:     failedVerifications,
		AverageResponseTime:     fmt.Sprintf("%.1fs", c.mock.Amount(0.8, 1.6)),
		CostPerMessage:          "0.01",
		CostPerCall:             "0.05",
		CostPerVerification:     "0.05",
	}
}

func (c *Client) mockVoiceCall() VoiceCall {
	return VoiceCall{
		Success:   true,
		UUID:      c.mock.ID("call"),
		Status:    "started",
		Direction: "outbound",
		Rate:      "0.01",
	}
}

func (c *Client) mockVideoSession(p videoSessionPayload) VideoSession {
	return VideoSession{
		Success:     true,
		SessionID:   c.mock.ID("session"),
		MediaMode:   p.MediaMode,
		ArchiveMode: p.ArchiveMode,
		Location:    p.Location,
	}
}

func (c *Client) mockVideoToken(p videoTokenPayload) VideoToken {
	return VideoToken{
		Success:    true,
		Token:      c.mock.ID("token"),
		SessionID:  p.SessionID,
		Role:       p.Role,
		ExpireTime: p.ExpireTime,
	}
}

func (c *Client) mockWhatsApp(to, from string) WhatsAppResult {
	return WhatsAppResult{
		Success:     true,
		MessageUUID: c.mock.ID("whatsapp"),
		To:          to,
		From:        from,
		Status:      "sent",
	}
}

func (c *Client) mockMultiChannel(p multiChannelPayload) MultiChannelResult {
	res := MultiChannelResult{
		Success:   true,
		Recipient: p.Recipient,
		Channels:  p.Channels,
		Results:   make(map[string]ChannelResult, len(p.Channels)),
	}
	for _, ch := range p.Channels {
		r := ChannelResult{Success: true}
		switch ch {
		case ChannelWhatsApp:
			r.MessageUUID = c.mock.ID("whatsapp")
		case ChannelVoice:
			r.MessageID = c.mock.ID("call")
		default:
			r.MessageID = c.mock.ID("msg")
		}
		res.Results[ch] = r
		res.Successful++
	}
	return res
}
