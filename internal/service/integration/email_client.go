package integration

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

type EmailClient interface {
	SendPasswordResetEmail(ctx context.Context, toEmail, userName, resetLink string) error
}

type smtpEmailClient struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
	logger      zerolog.Logger
}

func NewSMTPEmailClient(host string, port int, username, password, senderEmail, senderName string, logger zerolog.Logger) EmailClient {
	return &smtpEmailClient{
		dialer:      gomail.NewDialer(host, port, username, password),
		senderEmail: senderEmail,
		senderName:  senderName,
		logger:      logger,
	}
}

// SendPasswordResetEmail отправляет письмо в отдельной горутине, чтобы
// зависший SMTP не держал запрос дольше дедлайна ctx.
func (c *smtpEmailClient) SendPasswordResetEmail(ctx context.Context, toEmail, userName, resetLink string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", c.senderEmail, c.senderName)
	m.SetAddressHeader("To", toEmail, userName)
	m.SetHeader("Subject", "EduSync - Password Reset Request")
	m.SetBody("text/plain", fmt.Sprintf(
		"Hi %s,\n\nPlease reset your password by clicking the following link or pasting it into your browser: %s\n\nThis password reset link will expire in 1 hour.\n\nIf you did not request a password reset, please ignore this email.\n\nThanks,\nThe EduSync Team",
		userName, resetLink,
	))

	done := make(chan error, 1)
	go func() {
		done <- c.dialer.DialAndSend(m)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
		c.logger.Info().Str("to", toEmail).Msg("Password reset email sent")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("email send timed out: %w", ctx.Err())
	}
}
