// Package chat wraps the Twilio messaging API behind the one
// primitive the notifier needs: send one text block to the family
// channel. Delivery is best effort; callers never roll back on a
// failed send.
package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/homeboardhq/homeboard-backend/internal/pkg/ctxutil"
	"github.com/homeboardhq/homeboard-backend/internal/pkg/envutil"
	"github.com/homeboardhq/homeboard-backend/internal/pkg/httpx"
	"github.com/homeboardhq/homeboard-backend/internal/pkg/logger"
)

type Client interface {
	// Send posts body to the given chat destination. Empty "to"
	// falls back to the configured family channel.
	Send(ctx context.Context, to string, body string) error
}

type Config struct {
	AccountSID    string
	AuthToken     string
	BaseURL       string
	FromNumber    string
	FamilyChannel string
	Timeout       time.Duration
	MaxRetries    int
}

func ConfigFromEnv() Config {
	return Config{
		AccountSID:    strings.TrimSpace(os.Getenv("TWILIO_ACCOUNT_SID")),
		AuthToken:     strings.TrimSpace(os.Getenv("TWILIO_AUTH_TOKEN")),
		BaseURL:       strings.TrimSpace(os.Getenv("TWILIO_BASE_URL")),
		FromNumber:    strings.TrimSpace(os.Getenv("TWILIO_FROM_NUMBER")),
		FamilyChannel: strings.TrimSpace(os.Getenv("FAMILY_CHAT_CHANNEL")),
		Timeout:       time.Duration(envutil.Int("TWILIO_TIMEOUT_SECONDS", 30)) * time.Second,
		MaxRetries:    envutil.Int("TWILIO_MAX_RETRIES", 3),
	}
}

func NewFromEnv(log *logger.Logger) (Client, error) {
	return New(log, ConfigFromEnv())
}

func New(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.AccountSID == "" {
		return nil, fmt.Errorf("missing TWILIO_ACCOUNT_SID")
	}
	if cfg.AuthToken == "" {
		return nil, fmt.Errorf("missing TWILIO_AUTH_TOKEN")
	}
	if cfg.FromNumber == "" {
		return nil, fmt.Errorf("missing TWILIO_FROM_NUMBER")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.twilio.com/2010-04-01"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	return &client{
		log:        log.With("client", "ChatClient"),
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type client struct {
	log        *logger.Logger
	cfg        Config
	httpClient *http.Client
}

type message struct {
	SID          string  `json:"sid,omitempty"`
	Status       string  `json:"status,omitempty"`
	ErrorCode    *int    `json:"error_code,omitempty"`
	ErrorMessage *string `json:"error_message,omitempty"`
}

func (c *client) Send(ctx context.Context, to string, body string) error {
	if c == nil || c.httpClient == nil {
		return fmt.Errorf("chat client unavailable")
	}
	to = strings.TrimSpace(to)
	if to == "" {
		to = c.cfg.FamilyChannel
	}
	if to == "" {
		return fmt.Errorf("chat: destination required")
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return fmt.Errorf("chat: body required")
	}

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", c.cfg.FromNumber)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", c.cfg.BaseURL, c.cfg.AccountSID)
	msg, err := c.doForm(ctx, endpoint, form)
	if err != nil {
		return err
	}
	c.log.Debug("chat message sent", "sid", msg.SID, "status", msg.Status)
	return nil
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

type HTTPError struct {
	StatusCode int
	Body       string
	APIError   *apiError
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "chat: <nil error>"
	}
	if e.APIError != nil && strings.TrimSpace(e.APIError.Message) != "" {
		return fmt.Sprintf("chat http %d: %s (code=%d)", e.StatusCode, e.APIError.Message, e.APIError.Code)
	}
	msg := strings.TrimSpace(e.Body)
	if msg == "" {
		msg = "<empty body>"
	}
	return fmt.Sprintf("chat http %d: %s", e.StatusCode, msg)
}

func (e *HTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

func (c *client) doForm(ctx context.Context, urlStr string, form url.Values) (*message, error) {
	backoff := 1 * time.Second

	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		out, resp, err := c.doFormOnce(ctx, urlStr, form)
		if err == nil {
			return out, nil
		}
		if !httpx.IsRetryableError(err) || attempt == c.cfg.MaxRetries {
			return nil, err
		}

		sleepFor := httpx.JitterSleep(httpx.RetryAfterDuration(resp, backoff, 10*time.Second))
		c.log.Warn("chat request retrying",
			"attempt", attempt+1,
			"max_retries", c.cfg.MaxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)
		time.Sleep(sleepFor)
		backoff *= 2
	}
	return nil, fmt.Errorf("unreachable retry loop")
}

func (c *client) doFormOnce(ctx context.Context, urlStr string, form url.Values) (*message, *http.Response, error) {
	req, err := http.NewRequestWithContext(ctxutil.Default(ctx), http.MethodPost, urlStr, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(c.cfg.AccountSID, c.cfg.AuthToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, resp, err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, resp, readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var ae apiError
		if json.Unmarshal(raw, &ae) == nil && strings.TrimSpace(ae.Message) != "" {
			return nil, resp, &HTTPError{StatusCode: resp.StatusCode, Body: string(raw), APIError: &ae}
		}
		return nil, resp, &HTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var out message
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, resp, fmt.Errorf("chat decode error: %w", err)
		}
	}
	return &out, resp, nil
}
