// Package notify delivers the out-of-band approval request to the
// administrator. The only contract the protocol relies on is "the approver
// receives a bounded-lifetime approval link"; delivery runs over SMTP.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"gopkg.in/gomail.v2"

	"medgate/internal/authgate/models"
	dErrors "medgate/pkg/domain-errors"
)

// Notifier dispatches an approval request for a verified identity.
type Notifier interface {
	NotifyApprovalRequest(ctx context.Context, identity models.VerifiedIdentity, approvalURL string, ttl time.Duration) error
}

var bodyTemplate = template.Must(template.New("approval_email").Parse(`<html>
<body style="font-family: sans-serif;">
  <h2>Access request</h2>
  <p><strong>{{.Name}}</strong> ({{.Email}}) is requesting access to the clinical application.</p>
  <p><a href="{{.ApprovalURL}}">Approve this request</a></p>
  <p>The link expires in {{.Expiration}}. If you do not recognize this request, ignore this email.</p>
</body>
</html>
`))

// SMTPConfig holds the delivery settings for the approval email.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPNotifier emails approval links to a fixed administrator address.
type SMTPNotifier struct {
	cfg        SMTPConfig
	adminEmail string
	send       func(m *gomail.Message) error
}

// SMTPOption configures an SMTPNotifier.
type SMTPOption func(*SMTPNotifier)

// WithSendFunc replaces the SMTP dial-and-send step, used in tests.
func WithSendFunc(fn func(m *gomail.Message) error) SMTPOption {
	return func(n *SMTPNotifier) {
		if fn != nil {
			n.send = fn
		}
	}
}

// NewSMTPNotifier constructs a notifier for the given administrator address.
func NewSMTPNotifier(cfg SMTPConfig, adminEmail string, opts ...SMTPOption) (*SMTPNotifier, error) {
	if adminEmail == "" {
		return nil, dErrors.New(dErrors.CodeServerMisconfigured, "administrator notification address is not configured")
	}
	if cfg.From == "" {
		return nil, dErrors.New(dErrors.CodeServerMisconfigured, "smtp from address is not configured")
	}
	n := &SMTPNotifier{cfg: cfg, adminEmail: adminEmail}
	n.send = func(m *gomail.Message) error {
		d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
		return d.DialAndSend(m)
	}
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

// NotifyApprovalRequest emails the administrator an approval link with
// human-readable claims. Delivery failure is recoverable by retrying sign-in
// and is reported as notification_failed.
func (n *SMTPNotifier) NotifyApprovalRequest(ctx context.Context, identity models.VerifiedIdentity, approvalURL string, ttl time.Duration) error {
	var body bytes.Buffer
	err := bodyTemplate.Execute(&body, map[string]any{
		"Name":        identity.Name,
		"Email":       identity.Email,
		"ApprovalURL": approvalURL,
		"Expiration":  ttl,
	})
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to render approval email")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.From)
	m.SetHeader("To", n.adminEmail)
	m.SetHeader("Subject", fmt.Sprintf("Access request from %s", identity.Email))
	m.SetBody("text/html", body.String())

	if err := n.send(m); err != nil {
		return dErrors.Wrap(err, dErrors.CodeNotificationFailed, "failed to deliver approval request email")
	}
	return nil
}
