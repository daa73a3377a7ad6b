// Package mail versendet Belege per SMTP.
package mail

import (
	"bytes"
	"fmt"
	"io"

	gomail "gopkg.in/gomail.v2"

	"github.com/fakturahaus/faktura-api/internal/domain"
	"github.com/fakturahaus/faktura-api/internal/domain/entity"
	"github.com/fakturahaus/faktura-api/pkg/logger"
)

// Config sind die SMTP-Zugangsdaten.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string // Absenderadresse, z. B. "rechnung@example.de"
}

// Sender verschickt Rechnungs-PDFs an Kunden.
type Sender struct {
	cfg  Config
	dial func(m *gomail.Message) error
	log  *logger.Logger
}

// NewSender baut den Sender. Der Dialer wird je Versand aufgebaut; SMTP-
// Verbindungen werden nicht offen gehalten.
func NewSender(cfg Config, log *logger.Logger) *Sender {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return &Sender{
		cfg:  cfg,
		dial: func(m *gomail.Message) error { return d.DialAndSend(m) },
		log:  log,
	}
}

// SendInvoice schickt das Rechnungs-PDF an die E-Mail-Adresse des Kunden.
func (s *Sender) SendInvoice(inv *entity.Invoice, customer *entity.Customer, pdfBytes []byte) error {
	if customer.Email == "" {
		return fmt.Errorf("Kunde %d ohne E-Mail-Adresse: %w", customer.ID, domain.ErrInvalidInput)
	}

	_, _, gross := inv.Totals()
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", customer.Email)
	m.SetHeader("Subject", fmt.Sprintf("Rechnung %s", inv.Number))
	m.SetBody("text/plain", fmt.Sprintf(
		"Sehr geehrte Damen und Herren,\n\n"+
			"anbei erhalten Sie die Rechnung %s über %s EUR, fällig am %s.\n\n"+
			"Mit freundlichen Grüßen",
		inv.Number, gross.StringFixed(2), inv.DueDate.Format("02.01.2006"),
	))
	m.Attach(
		fmt.Sprintf("%s.pdf", inv.Number),
		gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := io.Copy(w, bytes.NewReader(pdfBytes))
			return err
		}),
	)

	if err := s.dial(m); err != nil {
		return fmt.Errorf("Rechnung %s versenden: %w", inv.Number, err)
	}
	s.log.Info().
		Str("number", inv.Number).
		Str("to", customer.Email).
		Msg("Rechnung versendet")
	return nil
}
