package vonage

import "time"

// Health is the API health report.
type Health struct {
	Status    string   `json:"status"`
	Version   string   `json:"version"`
	Features  []string `json:"features"`
	Timestamp string   `json:"timestamp"`
}

// VerifyRequest starts a phone verification. Zero values use API defaults.
type VerifyRequest struct {
	PhoneNumber   string
	Brand         string
	CodeLength    int
	WorkflowID    int
	Language      string
	PinExpiry     int // seconds
	NextEventWait int // seconds
}

type verifyPayload struct {
	Number        string `json:"number"`
	Brand         string `json:"brand"`
	CodeLength    int    `json:"codeLength"`
	WorkflowID    int    `json:"workflowId"`
	Language      string `json:"language"`
	PinExpiry     int    `json:"pinExpiry"`
	NextEventWait int    `json:"nextEventWait"`
}

// Verification is a started verification.
type Verification struct {
	Success           bool   `json:"success"`
	RequestID         string `json:"requestId"`
	Status            string `json:"status"`
	ErrorText         string `json:"errorText,omitempty"`
	EstimatedCost     string `json:"estimatedCost,omitempty"`
	RemainingAttempts int    `json:"remainingAttempts,omitempty"`
}

type checkPayload struct {
	RequestID string `json:"request_id"`
	Code      string `json:"code"`
}

// VerifyCheck is the outcome of submitting a code. Status is also used by
// VerificationStatus, where it reaches "completed" or "failed".
type VerifyCheck struct {
	Success   bool   `json:"success"`
	Status    string `json:"status"`
	ErrorText string `json:"errorText,omitempty"`
	RequestID string `json:"requestId"`
	EventID   string `json:"eventId,omitempty"`
	Price     string `json:"price,omitempty"`
	Currency  string `json:"currency,omitempty"`
}

// Verification states reported by VerificationStatus.
const (
	VerifyCompleted = "completed"
	VerifyFailed    = "failed"
)

// Done reports whether the verification reached a final state.
func (v VerifyCheck) Done() bool {
	return v.Status == VerifyCompleted || v.Status == VerifyFailed
}

type cancelPayload struct {
	RequestID string `json:"request_id"`
}

// CancelResult confirms a cancelled verification.
type CancelResult struct {
	Success   bool   `json:"success"`
	RequestID string `json:"requestId"`
	Status    string `json:"status"`
	ErrorText string `json:"errorText,omitempty"`
}

type simSwapPayload struct {
	Number  string `json:"number"`
	Country string `json:"country"`
}

// SimSwap reports whether a number's SIM was recently swapped.
type SimSwap struct {
	Success   bool   `json:"success"`
	RequestID string `json:"requestId"`
	Status    string `json:"status"`
	Swapped   bool   `json:"swapped"`
	SwappedAt string `json:"swappedAt,omitempty"`
	ErrorText string `json:"errorText,omitempty"`
}

// Insight levels.
const (
	LevelBasic    = "basic"
	LevelStandard = "standard"
	LevelAdvanced = "advanced"
)

type insightsPayload struct {
	Number string `json:"number"`
	Level  string `json:"level"`
}

// Insights describes a phone number.
type Insights struct {
	Success     bool   `json:"success"`
	RequestID   string `json:"requestId"`
	Status      string `json:"status"`
	PhoneNumber string `json:"phoneNumber"`
	Country     string `json:"country,omitempty"`
	Carrier     string `json:"carrier,omitempty"`
	Type        string `json:"type,omitempty"`
	Valid       bool   `json:"valid"`
	Reachable   bool   `json:"reachable"`
	Ported      bool   `json:"ported"`
	Roaming     bool   `json:"roaming"`
	ErrorText   string `json:"errorText,omitempty"`
}

// PhoneCheck is the result of ValidatePhoneNumber.
type PhoneCheck struct {
	Valid       bool     `json:"valid"`
	Formatted   string   `json:"formatted"`
	Country     string   `json:"country"`
	Carrier     string   `json:"carrier"`
	Type        string   `json:"type"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// SMSRequest is a single text message. An empty From uses Config.SMSFrom.
type SMSRequest struct {
	To              string
	From            string
	Text            string
	TTL             int // seconds; zero means 72h
	DeliveryReceipt bool
	CallbackURL     string
}

type smsPayload struct {
	To              string `json:"to"`
	From            string `json:"from"`
	Text            string `json:"text"`
	TTL             int    `json:"ttl"`
	DeliveryReceipt bool   `json:"delivery_receipt"`
	CallbackURL     string `json:"callback_url,omitempty"`
}

// SMSResult is the outcome of sending one message.
type SMSResult struct {
	Success          bool   `json:"success"`
	MessageID        string `json:"messageId"`
	Status           string `json:"status"`
	To               string `json:"to"`
	From             string `json:"from"`
	RemainingBalance string `json:"remainingBalance"`
	MessagePrice     string `json:"messagePrice"`
	Network          string `json:"network"`
	ErrorText        string `json:"errorText,omitempty"`
}

// BulkResult holds per-recipient outcomes in recipient order.
type BulkResult struct {
	Success    bool
	Total      int
	Successful int
	Failed     int
	Results    []SMSResult
}

// Balance is the account balance.
type Balance struct {
	Balance    string `json:"balance" yaml:"balance"`
	Currency   string `json:"currency" yaml:"currency"`
	AutoReload bool   `json:"autoReload" yaml:"auto_reload"`
}

// HistoryFilter narrows MessageHistory. Zero fields are not sent.
type HistoryFilter struct {
	Date  string
	To    string
	From  string
	Limit int
}

// Message is one entry in the message history.
type Message struct {
	MessageID string `json:"messageId"`
	To        string `json:"to"`
	From      string `json:"from"`
	Text      string `json:"text"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// History is a page of sent messages.
type History struct {
	Messages []Message `json:"messages"`
	Count    int       `json:"count"`
}

// Analytics summarises API usage over a period.
type Analytics struct {
	Period                  string `json:"period"`
	TotalMessages           int    `json:"totalMessages"`
	SuccessfulMessages      int    `json:"successfulMessages"`
	FailedMessages          int    `json:"failedMessages"`
	TotalCalls              int    `json:"totalCalls"`
	SuccessfulCalls         int    `json:"successfulCalls"`
	FailedCalls             int    `json:"failedCalls"`
	TotalVerifications      int    `json:"totalVerifications"`
	SuccessfulVerifications int    `json:"successfulVerifications"`
	FailedVerifications     int    `json:"failedVerifications"`
	AverageResponseTime     string `json:"averageResponseTime"`
	CostPerMessage          string `json:"costPerMessage"`
	CostPerCall             string `json:"costPerCall"`
	CostPerVerification     string `json:"costPerVerification"`
}

// VoiceRequest places a text-to-speech call. Zero values use API defaults.
type VoiceRequest struct {
	To        string
	From      string
	Text      string
	VoiceName string  // default Amy
	Language  string  // default en-US
	Speed     float64 // default 1.0
	Level     float64 // volume, -1..1
	Loop      int     // default 1
}

type voiceEndpoint struct {
	Type   string `json:"type"`
	Number string `json:"number"`
}

type talkAction struct {
	Action    string  `json:"action"`
	Text      string  `json:"text"`
	VoiceName string  `json:"voiceName"`
	Language  string  `json:"language"`
	Speed     float64 `json:"speed"`
	Level     float64 `json:"level"`
	Loop      int     `json:"loop"`
}

type voicePayload struct {
	To   []voiceEndpoint `json:"to"`
	From voiceEndpoint   `json:"from"`
	NCCO []talkAction    `json:"ncco"`
}

// VoiceCall is a placed call.
type VoiceCall struct {
	Success   bool   `json:"success"`
	UUID      string `json:"uuid"`
	Status    string `json:"status"`
	Direction string `json:"direction"`
	Rate      string `json:"rate"`
	ErrorText string `json:"errorText,omitempty"`
}

// Video session media and archive modes.
const (
	MediaRouted   = "routed"
	MediaRelayed  = "relayed"
	ArchiveManual = "manual"
	ArchiveAlways = "always"
)

// VideoSessionRequest creates a video session. Zero values mean routed media,
// manual archiving and automatic location.
type VideoSessionRequest struct {
	MediaMode   string
	ArchiveMode string
	Location    string
	P2P         bool
	Recording   bool
}

type videoSessionPayload struct {
	MediaMode   string `json:"mediaMode"`
	ArchiveMode string `json:"archiveMode"`
	Location    string `json:"location"`
	P2P         bool   `json:"p2p"`
	Recording   bool   `json:"recording"`
}

// VideoSession is a created session.
type VideoSession struct {
	Success     bool   `json:"success"`
	SessionID   string `json:"sessionId"`
	MediaMode   string `json:"mediaMode"`
	ArchiveMode string `json:"archiveMode"`
	Location    string `json:"location"`
	ErrorText   string `json:"errorText,omitempty"`
}

// Video token roles.
const (
	RolePublisher  = "publisher"
	RoleSubscriber = "subscriber"
	RoleModerator  = "moderator"
)

// VideoTokenRequest asks for a token to join SessionID. A zero ExpireTime
// means DefaultVideoTokenTTL from now.
type VideoTokenRequest struct {
	SessionID  string
	Role       string // default publisher
	Data       string
	ExpireTime time.Time
}

type videoTokenPayload struct {
	SessionID  string `json:"sessionId"`
	Role       string `json:"role"`
	Data       string `json:"data"`
	ExpireTime int64  `json:"expireTime"`
}

// VideoToken grants access to a session until ExpireTime (Unix seconds).
type VideoToken struct {
	Success    bool   `json:"success"`
	Token      string `json:"token"`
	SessionID  string `json:"sessionId"`
	Role       string `json:"role"`
	ExpireTime int64  `json:"expireTime"`
	ErrorText  string `json:"errorText,omitempty"`
}

// WhatsAppRequest sends one WhatsApp message.
type WhatsAppRequest struct {
	To              string
	From            string
	Text            string
	TTL             int // seconds; zero means 72h
	DeliveryReceipt bool
}

// WhatsAppResult is the outcome of sending one WhatsApp message.
type WhatsAppResult struct {
	Success     bool   `json:"success"`
	MessageUUID string `json:"messageUuid"`
	To          string `json:"to"`
	From        string `json:"from"`
	Status      string `json:"status"`
	ErrorText   string `json:"errorText,omitempty"`
}

// Multi-channel delivery channels.
const (
	ChannelSMS      = "sms"
	ChannelWhatsApp = "whatsapp"
	ChannelVoice    = "voice"
	ChannelEmail    = "email"
)

// Recipient is reachable by phone, email or both.
type Recipient struct {
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// MultiChannelRequest delivers Message over every channel in Channels.
type MultiChannelRequest struct {
	Recipient     Recipient
	Channels      []string
	Message       string
	From          string
	Priority      string // low, normal or high; default normal
	RetryAttempts int    // default 3
}

type multiChannelPayload struct {
	Recipient     Recipient `json:"recipient"`
	Channels      []string  `json:"channels"`
	Message       string    `json:"message"`
	From          string    `json:"from"`
	Priority      string    `json:"priority"`
	RetryAttempts int       `json:"retry_attempts"`
}

// ChannelResult is the outcome on one channel.
type ChannelResult struct {
	Success     bool   `json:"success"`
	MessageID   string `json:"messageId,omitempty"`
	MessageUUID string `json:"messageUuid,omitempty"`
	ErrorText   string `json:"errorText,omitempty"`
}

// MultiChannelResult reports per-channel outcomes.
type MultiChannelResult struct {
	Success    bool                     `json:"success"`
	Recipient  Recipient                `json:"recipient"`
	Channels   []string                 `json:"channels"`
	Results    map[string]ChannelResult `json:"results"`
	Successful int                      `json:"successful"`
	Failed     int                      `json:"failed"`
	ErrorText  string                   `json:"errorText,omitempty"`
}
