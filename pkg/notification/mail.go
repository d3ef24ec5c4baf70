// Package notification provides core.Notifier implementations besides the chat router
package notification

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/raykavin/tradectl/pkg/core"
	"github.com/raykavin/tradectl/pkg/logger"
)

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Mail handles email notifications for the application
type Mail struct {
	auth              smtp.Auth
	smtpServerPort    int
	smtpServerAddress string
	to                []string
	from              string
	log               logger.Logger
	sendMail          sendMailFunc
}

// MailParams contains all parameters needed to initialize a Mail instance
type MailParams struct {
	SMTPServerPort    int
	SMTPServerAddress string
	To                []string
	From              string
	Password          string
}

// NewMail creates a new Mail instance with the provided parameters
func NewMail(params MailParams, log logger.Logger) *Mail {
	return &Mail{
		from:              params.From,
		to:                params.To,
		smtpServerPort:    params.SMTPServerPort,
		smtpServerAddress: params.SMTPServerAddress,
		auth: smtp.PlainAuth(
			"",
			params.From,
			params.Password,
			params.SMTPServerAddress,
		),
		log:      log.WithField("component", "mail"),
		sendMail: smtp.SendMail,
	}
}

// Notify sends an email notification with the given text
func (m *Mail) Notify(text string) {
	m.send("tradectl notification", text)
}

// OnTrade sends a trade notification
func (m *Mail) OnTrade(trade core.Trade) {
	title := fmt.Sprintf("🆕 TRADE OPENED - %s", trade.Pair)
	if !trade.IsOpen {
		title = fmt.Sprintf("✅ TRADE CLOSED - %s (%.2f%%)", trade.Pair, trade.CloseProfit*100)
	}
	m.send(title, trade.String())
}

// OnError sends an error notification
func (m *Mail) OnError(err error) {
	m.send("🛑 ERROR", fmt.Sprintf("Error %s", err))
}

func (m *Mail) send(subject, body string) {
	serverAddress := fmt.Sprintf("%s:%d", m.smtpServerAddress, m.smtpServerPort)

	if err := m.sendMail(serverAddress, m.auth, m.from, m.to, m.message(subject, body)); err != nil {
		m.log.WithError(err).WithField("subject", subject).Error("failed to send email")
	}
}

func (m *Mail) message(subject, body string) []byte {
	recipients := make([]string, 0, len(m.to))
	for _, to := range m.to {
		recipients = append(recipients, fmt.Sprintf("<%s>", to))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "To: %s\r\n", strings.Join(recipients, ", "))
	fmt.Fprintf(&sb, "From: \"tradectl\" <%s>\r\n", m.from)
	fmt.Fprintf(&sb, "Subject: %s\r\n", subject)
	sb.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	sb.WriteString(body)
	return []byte(sb.String())
}
