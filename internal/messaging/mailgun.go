package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const mailgunTimeout = 10 * time.Second

// mailgunEmailClient sends email through the Mailgun HTTP API: one
// authenticated form POST to {base_url}/messages, basic auth with the fixed
// username "api".
type mailgunEmailClient struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	fromEmail  string
	fromName   string
}

func newMailgunEmailClient(cfg Config) (EmailClient, error) {
	return &mailgunEmailClient{
		httpClient: &http.Client{Timeout: mailgunTimeout},
		apiKey:     cfg.Mailgun.APIKey,
		baseURL:    strings.TrimRight(cfg.Mailgun.BaseURL, "/"),
		fromEmail:  cfg.FromEmail,
		fromName:   cfg.FromName,
	}, nil
}

func (c *mailgunEmailClient) Send(ctx context.Context, req EmailRequest) (Receipt, error) {
	form := url.Values{}
	form.Set("from", fmt.Sprintf("%s <%s>", c.fromName, c.fromEmail))
	for _, rcpt := range trimRecipients(req.Recipients) {
		form.Add("to", rcpt)
	}
	form.Set("subject", req.Subject)
	form.Set("text", req.Message)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", strings.NewReader(form.Encode()))
	if err != nil {
		return Receipt{}, &TransportError{Provider: ProviderMailgun, Err: err}
	}
	httpReq.SetBasicAuth("api", c.apiKey)
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Receipt{}, &TransportError{Provider: ProviderMailgun, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Receipt{}, &TransportError{Provider: ProviderMailgun, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode >= 400 {
		return Receipt{}, &TransportError{
			Provider: ProviderMailgun,
			Err:      fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	receipt := Receipt{Provider: ProviderMailgun, StatusCode: resp.StatusCode}

	var parsed struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		receipt.MessageID = parsed.ID
	}

	return receipt, nil
}
