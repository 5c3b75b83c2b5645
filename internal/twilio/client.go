// Package twilio is a thin REST client for the messaging/voice provider.
package twilio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/example/oncall-dispatch/internal/metrics"
)

var (
	// ErrNotFound is returned when the provider reports an unknown resource.
	ErrNotFound = errors.New("twilio: not found")
	// ErrUnauthorized is returned when the provider rejects the credentials.
	ErrUnauthorized = errors.New("twilio: unauthorized")
)

// Message is an SMS/MMS record as returned by the provider.
type Message struct {
	SID       string `json:"sid"`
	From      string `json:"from"`
	To        string `json:"to"`
	Body      string `json:"body"`
	Status    string `json:"status"`
	Direction string `json:"direction"`
	DateSent  string `json:"date_sent"`
	NumMedia  string `json:"num_media"`
}

// Call is a voice call record as returned by the provider.
type Call struct {
	SID       string `json:"sid"`
	From      string `json:"from"`
	To        string `json:"to"`
	Status    string `json:"status"`
	Direction string `json:"direction"`
	StartTime string `json:"start_time"`
	Duration  string `json:"duration"`
}

// Media describes one attachment of an MMS message.
type Media struct {
	SID         string `json:"sid"`
	ContentType string `json:"content_type"`
	URI         string `json:"uri"`
}

// IncomingPhoneNumber is a number provisioned on the provider account.
type IncomingPhoneNumber struct {
	PhoneNumber  string `json:"phone_number"`
	FriendlyName string `json:"friendly_name"`
}

// Filter narrows message or call listings by counterpart number.
type Filter struct {
	To   string
	From string
}

// Config wires a Client.
type Config struct {
	BaseURL    string
	AccountSID string
	KeySID     string
	KeySecret  string
	HTTPClient *http.Client
	Metrics    metrics.Sink
	CacheTTL   time.Duration
	CacheSize  int
}

// Client calls the provider's REST API. Phone-number and media lookups are
// memoised in a TTL-bounded LRU because they change rarely but are requested
// on every settings-page load.
type Client struct {
	baseURL    string
	accountSID string
	keySID     string
	keySecret  string
	httpClient *http.Client
	metrics    metrics.Sink
	numbers    *expirable.LRU[string, []IncomingPhoneNumber]
	media      *expirable.LRU[string, []Media]
}

const numbersCacheKey = "incoming_phone_numbers"

// NewClient constructs a provider client from cfg.
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	sink := cfg.Metrics
	if sink == nil {
		sink = metrics.NewNoopSink()
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	size := cfg.CacheSize
	if size <= 0 {
		size = 128
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		accountSID: cfg.AccountSID,
		keySID:     cfg.KeySID,
		keySecret:  cfg.KeySecret,
		httpClient: httpClient,
		metrics:    sink,
		numbers:    expirable.NewLRU[string, []IncomingPhoneNumber](size, nil, ttl),
		media:      expirable.NewLRU[string, []Media](size, nil, ttl),
	}
}

// ListMessages returns messages matching the filter.
func (c *Client) ListMessages(ctx context.Context, filter Filter) ([]Message, error) {
	query := url.Values{}
	if filter.To != "" {
		query.Set("To", filter.To)
	}
	if filter.From != "" {
		query.Set("From", filter.From)
	}

	var payload struct {
		Messages []Message `json:"messages"`
	}
	if err := c.get(ctx, "messages.list", c.accountPath("Messages.json"), query, &payload); err != nil {
		return nil, err
	}
	return payload.Messages, nil
}

// GetMessage returns one message by SID.
func (c *Client) GetMessage(ctx context.Context, sid string) (Message, error) {
	var message Message
	if err := c.get(ctx, "messages.get", c.accountPath("Messages/"+sid+".json"), nil, &message); err != nil {
		return Message{}, err
	}
	return message, nil
}

// SendMessage submits an outbound SMS and returns the created message.
func (c *Client) SendMessage(ctx context.Context, to, from, body string) (Message, error) {
	form := url.Values{}
	form.Set("To", to)
	form.Set("From", from)
	form.Set("Body", body)

	var message Message
	if err := c.postForm(ctx, "messages.send", c.accountPath("Messages.json"), form, &message); err != nil {
		return Message{}, err
	}
	return message, nil
}

// ListMedia returns the attachments of a message. Results are cached per SID
// because media lists are immutable once the message exists.
func (c *Client) ListMedia(ctx context.Context, messageSID string) ([]Media, error) {
	if cached, ok := c.media.Get(messageSID); ok {
		return cached, nil
	}

	var payload struct {
		MediaList []Media `json:"media_list"`
	}
	if err := c.get(ctx, "media.list", c.accountPath("Messages/"+messageSID+"/Media.json"), nil, &payload); err != nil {
		return nil, err
	}
	c.media.Add(messageSID, payload.MediaList)
	return payload.MediaList, nil
}

// ListCalls returns calls matching the filter.
func (c *Client) ListCalls(ctx context.Context, filter Filter) ([]Call, error) {
	query := url.Values{}
	if filter.To != "" {
		query.Set("To", filter.To)
	}
	if filter.From != "" {
		query.Set("From", filter.From)
	}

	var payload struct {
		Calls []Call `json:"calls"`
	}
	if err := c.get(ctx, "calls.list", c.accountPath("Calls.json"), query, &payload); err != nil {
		return nil, err
	}
	return payload.Calls, nil
}

// GetCall returns one call by SID.
func (c *Client) GetCall(ctx context.Context, sid string) (Call, error) {
	var call Call
	if err := c.get(ctx, "calls.get", c.accountPath("Calls/"+sid+".json"), nil, &call); err != nil {
		return Call{}, err
	}
	return call, nil
}

// ListIncomingPhoneNumbers returns the account's provisioned numbers, cached
// for the configured TTL.
func (c *Client) ListIncomingPhoneNumbers(ctx context.Context) ([]IncomingPhoneNumber, error) {
	if cached, ok := c.numbers.Get(numbersCacheKey); ok {
		return cached, nil
	}

	var payload struct {
		IncomingPhoneNumbers []IncomingPhoneNumber `json:"incoming_phone_numbers"`
	}
	if err := c.get(ctx, "numbers.list", c.accountPath("IncomingPhoneNumbers.json"), nil, &payload); err != nil {
		return nil, err
	}
	c.numbers.Add(numbersCacheKey, payload.IncomingPhoneNumbers)
	return payload.IncomingPhoneNumbers, nil
}

// InvalidatePhoneNumbers drops the cached number list. Called when the
// dashboard configuration changes so the settings page reflects reality.
func (c *Client) InvalidatePhoneNumbers() {
	c.numbers.Remove(numbersCacheKey)
}

func (c *Client) accountPath(suffix string) string {
	return "/2010-04-01/Accounts/" + c.accountSID + "/" + suffix
}

func (c *Client) get(ctx context.Context, kind, path string, query url.Values, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("twilio: build request: %w", err)
	}
	return c.do(kind, req, out)
}

func (c *Client) postForm(ctx context.Context, kind, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("twilio: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(kind, req, out)
}

func (c *Client) do(kind string, req *http.Request, out any) error {
	req.SetBasicAuth(c.keySID, c.keySecret)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ProviderRequest(kind, metrics.ClassifyStatus(0, err), time.Since(start))
		return fmt.Errorf("twilio: %s: %w", kind, err)
	}
	defer resp.Body.Close()
	c.metrics.ProviderRequest(kind, metrics.ClassifyStatus(resp.StatusCode, nil), time.Since(start))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("twilio: %s: unexpected status %d: %s", kind, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("twilio: %s: decode response: %w", kind, err)
	}
	return nil
}
