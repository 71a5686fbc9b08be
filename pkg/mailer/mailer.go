// Package mailer sends email through an HTTP mail relay.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/template"
	"time"

	"github.com/abrezinsky/hackjudge/internal/logger"
)

// Message is one outgoing email
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Sender defines the interface for delivering email
type Sender interface {
	// Send delivers one message
	Send(ctx context.Context, msg Message) error
}

// relayRequest is the JSON body posted to the relay
type relayRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// relayResponse is the relay's reply; Error is set on rejection
type relayResponse struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// HTTPClient posts messages to a mail relay's /send endpoint
type HTTPClient struct {
	baseURL    string
	from       string
	httpClient *http.Client
	log        logger.Logger
}

// NewHTTPClient creates a relay client with a 30 second timeout
func NewHTTPClient(baseURL, from string, log logger.Logger) *HTTPClient {
	return NewHTTPClientWithHTTPClient(baseURL, from, &http.Client{Timeout: 30 * time.Second}, log)
}

// NewHTTPClientWithHTTPClient creates a relay client with a custom http.Client
func NewHTTPClientWithHTTPClient(baseURL, from string, httpClient *http.Client, log logger.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		from:       from,
		httpClient: httpClient,
		log:        log,
	}
}

// Send posts msg to the relay
func (c *HTTPClient) Send(ctx context.Context, msg Message) error {
	if strings.TrimSpace(msg.To) == "" {
		return fmt.Errorf("recipient is required")
	}

	payload, err := json.Marshal(relayRequest{From: c.from, To: msg.To, Subject: msg.Subject, Body: msg.Body})
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	apiURL := c.baseURL + "/send"
	c.log.Debug("Mail relay request", "url", apiURL, "to", msg.To, "subject", msg.Subject)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to mail relay: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	c.log.Debug("Mail relay response", "status", resp.StatusCode, "body", string(body))

	var reply relayResponse
	_ = json.Unmarshal(body, &reply) // relay may answer with an empty body

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if reply.Error != "" {
			return fmt.Errorf("mail relay returned status %d: %s", resp.StatusCode, reply.Error)
		}
		return fmt.Errorf("mail relay returned status %d", resp.StatusCode)
	}
	if reply.Error != "" {
		return fmt.Errorf("mail relay error: %s", reply.Error)
	}
	return nil
}

// LogSender writes messages to the log instead of sending them. It is used
// when no relay URL is configured.
type LogSender struct {
	Log logger.Logger
}

// Send logs msg and always succeeds
func (s LogSender) Send(_ context.Context, msg Message) error {
	s.Log.Info("Email (not sent, no relay configured)", "to", msg.To, "subject", msg.Subject)
	return nil
}

// Template names
const (
	TemplateTeamApproved = "team_approved"
	TemplateJudgeAccess  = "judge_access"
	TemplateAnnouncement = "announcement"
)

type mailTemplate struct {
	subject *template.Template
	body    *template.Template
}

var templates = map[string]mailTemplate{
	TemplateTeamApproved: {
		subject: template.Must(template.New("s").Parse(`Team {{.TeamName}} approved`)),
		body: template.Must(template.New("b").Parse(`Hi {{.TeamName}},

Your team registration has been approved. See you at the hackathon!
`)),
	},
	TemplateJudgeAccess: {
		subject: template.Must(template.New("s").Parse(`Judging access for {{.EventName}}`)),
		body: template.Must(template.New("b").Parse(`Hi {{.JudgeName}},

You are judging {{.EventName}}. Sign in with this link:

{{.URL}}

Access code: {{.AccessCode}}
`)),
	},
	TemplateAnnouncement: {
		subject: template.Must(template.New("s").Parse(`{{.Title}}`)),
		body:    template.Must(template.New("b").Parse(`{{.Body}}`)),
	},
}

// Render builds a message for to from a named template
func Render(name, to string, data any) (Message, error) {
	tmpl, ok := templates[name]
	if !ok {
		return Message{}, fmt.Errorf("unknown mail template %q", name)
	}

	var subject, body bytes.Buffer
	if err := tmpl.subject.Execute(&subject, data); err != nil {
		return Message{}, fmt.Errorf("render subject: %w", err)
	}
	if err := tmpl.body.Execute(&body, data); err != nil {
		return Message{}, fmt.Errorf("render body: %w", err)
	}
	return Message{To: to, Subject: subject.String(), Body: body.String()}, nil
}

var (
	_ Sender = (*HTTPClient)(nil)
	_ Sender = LogSender{}
)
