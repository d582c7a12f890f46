package emails

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const brevoAPI = "https://api.brevo.com/v3/smtp/email"

// BrevoSendRequest matches Brevo API v3 send transactional email body.
type BrevoSendRequest struct {
	Sender      BrevoSender   `json:"sender"`
	To          []BrevoTo     `json:"to"`
	Subject     string        `json:"subject"`
	HTMLContent string        `json:"htmlContent"`
	ReplyTo     *BrevoReplyTo `json:"replyTo,omitempty"`
}

type BrevoSender struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type BrevoTo struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type BrevoReplyTo struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Sender sends transactional emails (welcome, investor update, pending payment). Nil = no-op.
type Sender interface {
	SendWelcome(ctx context.Context, toEmail, firstName string) error
	SendInvestorUpdate(ctx context.Context, toEmail, startupName, title string) error
	SendPaymentPending(ctx context.Context, toEmail, amount, reference string) error
}

// BrevoClient sends emails via Brevo (Sendinblue) API. Env: SENDINBLUE_API_KEY, MAIL_FROM.
type BrevoClient struct {
	APIKey   string
	MailFrom string
	Client   *http.Client
}

func (c *BrevoClient) from() string {
	if c.MailFrom != "" {
		return c.MailFrom
	}
	return "noreply@seedlink.app"
}

// send sends one email via Brevo API.
func (c *BrevoClient) send(ctx context.Context, toEmail, subject, html string) error {
	if c.APIKey == "" {
		return nil
	}
	body := BrevoSendRequest{
		Sender:      BrevoSender{Email: c.from(), Name: "Seedlink"},
		To:          []BrevoTo{{Email: toEmail}},
		Subject:     subject,
		HTMLContent: html,
		ReplyTo:     &BrevoReplyTo{Email: "support@seedlink.app", Name: "Seedlink Support"},
	}
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, brevoAPI, bytes.NewReader(bodyBytes))
	if err != nil {
		return err
	}
	req.Header.Set("api-key", c.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.Client == nil {
		c.Client = &http.Client{Timeout: 15 * time.Second}
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("brevo send failed: status %d", resp.StatusCode)
	}
	return nil
}

// SendWelcome sends the welcome email after registration.
func (c *BrevoClient) SendWelcome(ctx context.Context, toEmail, firstName string) error {
	if c.APIKey == "" {
		return nil
	}
	if firstName == "" {
		firstName = "there"
	}
	return c.send(ctx, toEmail, "Welcome to Seedlink!", EmailLayout(welcomeContent(firstName)))
}

// SendInvestorUpdate notifies an investor that a startup they backed posted an update.
func (c *BrevoClient) SendInvestorUpdate(ctx context.Context, toEmail, startupName, title string) error {
	if c.APIKey == "" {
		return nil
	}
	subject := fmt.Sprintf("New update from %s", startupName)
	return c.send(ctx, toEmail, subject, EmailLayout(investorUpdateContent(startupName, title)))
}

// SendPaymentPending notifies a startup owner that a bank transfer is waiting for verification.
func (c *BrevoClient) SendPaymentPending(ctx context.Context, toEmail, amount, reference string) error {
	if c.APIKey == "" {
		return nil
	}
	return c.send(ctx, toEmail, "A bank transfer is waiting for your verification", EmailLayout(paymentPendingContent(amount, reference)))
}

func welcomeContent(userName string) string {
	dashboardURL := "https://seedlink.app/"
	return fmt.Sprintf(`
    <h1>Welcome aboard, %s!</h1>
    <p>Thank you for joining <strong>Seedlink</strong>. Your account has been created — you can now browse campaigns, back the startups you believe in, or set up your own raise.</p>
    <center>
      <a href="%s" class="sl-button">Explore Campaigns</a>
    </center>
    <p style="margin-top: 20px; font-size: 14px; color: #666;">
      If you did not sign up for this account, please contact our support team immediately.
    </p>
    <p>— The Seedlink Team</p>
`, EscapeHTML(userName), dashboardURL)
}

func investorUpdateContent(startupName, title string) string {
	return fmt.Sprintf(`
    <h1>%s posted an update</h1>
    <p><strong>%s</strong></p>
    <p>Log in to read the full update from a startup you backed.</p>
    <center>
      <a href="https://seedlink.app/" class="sl-button">Read the Update</a>
    </center>
    <p>— The Seedlink Team</p>
`, EscapeHTML(startupName), EscapeHTML(title))
}

func paymentPendingContent(amount, reference string) string {
	return fmt.Sprintf(`
    <h1>Bank transfer awaiting verification</h1>
    <p>An investor reported a bank transfer of <strong>%s</strong> with reference <strong>%s</strong>.</p>
    <p>Check your bank statement and approve or reject the payment from your dashboard. Funds only count toward your raise once you approve.</p>
    <center>
      <a href="https://seedlink.app/" class="sl-button">Review Payment</a>
    </center>
    <p>— The Seedlink Team</p>
`, EscapeHTML(amount), EscapeHTML(reference))
}
