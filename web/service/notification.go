package service

import (
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"blogapi/config"

	"github.com/google/uuid"
)

// Mailer sends a single plain-text message. The SMTP implementation below is
// the production transport; tests substitute a recording fake.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer delivers mail through a plain SMTP relay.
type SMTPMailer struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

func NewSMTPMailer(settings *config.Settings) *SMTPMailer {
	return &SMTPMailer{
		Host: settings.SMTPHost,
		Port: settings.SMTPPort,
		User: settings.SMTPUser,
		Pass: settings.SMTPPass,
		From: settings.MailFrom,
	}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	var auth smtp.Auth
	if m.User != "" {
		auth = smtp.PlainAuth("", m.User, m.Pass, m.Host)
	}

	domain := m.From
	if i := strings.LastIndex(m.From, "@"); i >= 0 {
		domain = m.From[i+1:]
	}
	headers := []string{
		"From: " + m.From,
		"To: " + to,
		"Subject: " + subject,
		fmt.Sprintf("Message-ID: <%s@%s>", uuid.NewString(), domain),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
	}
	msg := strings.Join(headers, "\r\n") + "\r\n\r\n" + body + "\r\n"

	addr := net.JoinHostPort(m.Host, strconv.Itoa(m.Port))
	return smtp.SendMail(addr, auth, m.From, []string{to}, []byte(msg))
}

// NotificationService sends the verification workflow mails.
type NotificationService struct {
	mailer Mailer
}

func NewNotificationService(mailer Mailer) *NotificationService {
	return &NotificationService{mailer: mailer}
}

func (s *NotificationService) SendVerificationRequestApprovalMail(emailAddress string) error {
	return s.mailer.Send(
		emailAddress,
		"You have been verified!",
		"Congratulations! You can now proceed to write your first blog with us.",
	)
}

func (s *NotificationService) SendVerificationRequestRejectionMail(emailAddress, reason string) error {
	return s.mailer.Send(
		emailAddress,
		"Your verification request has been declined",
		declinationText(reason),
	)
}

func declinationText(reason string) string {
	if reason == "" {
		return "We are sorry to inform you that your verification request has been declined."
	}
	return fmt.Sprintf(
		"We are sorry to inform you that your verification request has been declined for the following reason: %s",
		reason,
	)
}
