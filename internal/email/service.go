package email

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/WinsonMARS/hospitalmanagement/pkg/logger"
)

// Service sends transactional mail to doctors and patients. Callers treat
// failures as non-fatal: a lost email never rolls back an approval or a
// discharge.
type Service interface {
	SendApprovalNotice(to, name, role string) error
	SendRejectionNotice(to, name, role string) error
	SendDischargeSummary(to, name string, total int) error
	SendAppointmentNotice(to, name, counterpart string) error
}

type Config struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	Enabled  bool   `mapstructure:"enabled"`
}

type smtpService struct {
	cfg    Config
	dialer *gomail.Dialer
	logger *logger.Logger
}

// NewService returns an SMTP-backed sender, or a no-op sender when mail
// is disabled in config.
func NewService(cfg Config, logger *logger.Logger) Service {
	if !cfg.Enabled {
		return &noopService{logger: logger}
	}
	return &smtpService{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		logger: logger,
	}
}

func (s *smtpService) SendApprovalNotice(to, name, role string) error {
	subject := "Your account has been approved"
	body := fmt.Sprintf("Hello %s,\n\nYour %s account has been approved. You can now sign in.\n", name, role)
	return s.send(to, subject, body)
}

func (s *smtpService) SendRejectionNotice(to, name, role string) error {
	subject := "Your registration was not approved"
	body := fmt.Sprintf("Hello %s,\n\nYour %s registration was not approved and has been removed.\n", name, role)
	return s.send(to, subject, body)
}

func (s *smtpService) SendDischargeSummary(to, name string, total int) error {
	subject := "Your discharge summary"
	body := fmt.Sprintf("Hello %s,\n\nYou have been discharged. Your total bill is %d. The full invoice is available from your account.\n", name, total)
	return s.send(to, subject, body)
}

func (s *smtpService) SendAppointmentNotice(to, name, counterpart string) error {
	subject := "New appointment"
	body := fmt.Sprintf("Hello %s,\n\nA new appointment with %s has been recorded.\n", name, counterpart)
	return s.send(to, subject, body)
}

func (s *smtpService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		s.logger.Error(err, "failed to send email", "to", to)
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

type noopService struct {
	logger *logger.Logger
}

func (s *noopService) SendApprovalNotice(to, name, role string) error {
	s.logger.Debug("email disabled, skipping approval notice", "to", to)
	return nil
}

func (s *noopService) SendRejectionNotice(to, name, role string) error {
	s.logger.Debug("email disabled, skipping rejection notice", "to", to)
	return nil
}

func (s *noopService) SendDischargeSummary(to, name string, total int) error {
	s.logger.Debug("email disabled, skipping discharge summary", "to", to)
	return nil
}

func (s *noopService) SendAppointmentNotice(to, name, counterpart string) error {
	s.logger.Debug("email disabled, skipping appointment notice", "to", to)
	return nil
}
