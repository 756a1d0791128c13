// Package email sends transactional mail through the Mailgun HTTP API.
// All sends are fire-and-forget from the caller's perspective: failures are
// logged, never retried.
package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/yoonic/atlas/config"
)

// Template identifies a transactional email template.
type Template struct {
	ID       string
	FileName string
	Subject  string
}

var (
	TemplateOrderCreated = Template{
		ID:       "order.created",
		FileName: "orderCreated.html",
		Subject:  "Obrigado pela sua encomenda!",
	}
	TemplateOrderPendingPayment = Template{
		ID:       "order.pendingPayment",
		FileName: "orderPendingPayment.html",
		Subject:  "Encomenda a aguardar pagamento",
	}
	TemplateOrderPaid = Template{
		ID:       "order.paid",
		FileName: "orderPaid.html",
		Subject:  "Confirmação de Pagamento",
	}
	TemplateAccountConfirmation = Template{
		ID:       "account.confirmation",
		FileName: "accountConfirmation.html",
		Subject:  "Confirme a sua conta",
	}
)

// ValidTemplate reports whether id names a known order template.
func ValidTemplate(id string) (Template, bool) {
	for _, t := range []Template{TemplateOrderCreated, TemplateOrderPendingPayment, TemplateOrderPaid} {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

// SanitizeAddress normalizes an email address for storage and comparison.
func SanitizeAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// Sender delivers a rendered template to a recipient.
type Sender interface {
	SendTemplate(t Template, to string, data map[string]any, subject string) error
}

// Mailgun is the production Sender.
type Mailgun struct {
	cfg          config.MailgunConfig
	templatesDir string
	client       *http.Client
}

func NewMailgun(cfg config.MailgunConfig, templatesDir string) *Mailgun {
	return &Mailgun{cfg: cfg, templatesDir: templatesDir, client: &http.Client{}}
}

func (m *Mailgun) SendTemplate(t Template, to string, data map[string]any, subject string) error {
	tmpl, err := template.ParseFiles(filepath.Join(m.templatesDir, t.FileName))
	if err != nil {
		return fmt.Errorf("email: unable to load template %q: %w", t.ID, err)
	}
	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("email: unable to render template %q: %w", t.ID, err)
	}

	if subject == "" {
		subject = t.Subject
	}
	form := url.Values{}
	form.Set("from", fmt.Sprintf("%s <%s>", m.cfg.FromName, m.cfg.FromEmail))
	form.Set("to", to)
	form.Set("subject", subject)
	form.Set("html", body.String())

	endpoint := fmt.Sprintf("https://api.mailgun.net/v3/%s/messages", m.cfg.Domain)
	req, err := http.NewRequest(http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth("api", m.cfg.APIKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("email: unable to reach mailgun: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("email: mailgun returned %d", resp.StatusCode)
	}
	return nil
}
