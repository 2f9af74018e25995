package email

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/jordan-wright/email"
	"github.com/phase2/todo-api/internal/config"
	"github.com/phase2/todo-api/internal/models"
	"github.com/sirupsen/logrus"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

// SendOpenTaskDigest mails a user a plain-text list of their incomplete tasks
func (s *Sender) SendOpenTaskDigest(user *models.User, tasks []*models.Task) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{user.Email}
	e.Subject = fmt.Sprintf("You have %d open task(s)", len(tasks))

	name := user.Name
	if name == "" {
		name = user.Email
	}

	var body strings.Builder
	fmt.Fprintf(&body, "Hi %s,\n\nThese tasks are still open:\n\n", name)
	for _, task := range tasks {
		fmt.Fprintf(&body, "- %s\n", task.Title)
	}
	body.WriteString("\nBest regards,\nTodo Service")
	e.Text = []byte(body.String())

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send digest to %s: %v", user.Email, err)
		return fmt.Errorf("failed to send digest: %w", err)
	}

	s.logger.Infof("Digest sent to %s: %s", user.Email, e.Subject)
	return nil
}
