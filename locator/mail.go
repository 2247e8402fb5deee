package locator

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

const defaultSendGridURL = "https://api.sendgrid.com"

type sendGridAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendGridPersonalization struct {
	To      []sendGridAddress `json:"to"`
	Subject string            `json:"subject"`
}

type sendGridContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sendGridRequest struct {
	Personalizations []sendGridPersonalization `json:"personalizations"`
	Content          []sendGridContent         `json:"content"`
	From             sendGridAddress           `json:"from"`
}

// SendGrid sends challenge mails through the SendGrid v3 API.
type SendGrid struct {
	c      *client
	apiKey string
}

var _ Mailer = (*SendGrid)(nil)

// NewSendGrid returns a mailer authenticated with a SendGrid API key.
func NewSendGrid(apiKey string, opts ...Option) *SendGrid {
	return &SendGrid{c: newClient(defaultSendGridURL, opts...), apiKey: apiKey}
}

// Send implements Mailer.
func (s *SendGrid) Send(ctx context.Context, m Mail) error {
	if m.To == "" {
		return errors.New("sendgrid: missing recipient")
	}

	body := sendGridRequest{
		Personalizations: []sendGridPersonalization{{To: []sendGridAddress{{Email: m.To}}, Subject: m.Subject}},
		Content:          []sendGridContent{{Type: "text/plain", Value: m.Body}},
		From:             sendGridAddress{Email: m.From, Name: m.FromName},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(err, "sendgrid: failed to marshal mail")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.c.baseURL+"/v3/mail/send", bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "sendgrid: failed to create request")
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "sendgrid: could not send mail")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return errors.Errorf("sendgrid: returned status %s: %s", resp.Status, string(msg))
	}

	return nil
}
