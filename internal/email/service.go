package email

import (
	"fmt"
	"log/slog"
	"net/smtp"
)

// Service sends order confirmation mail over SMTP. With no SMTP address
// configured it degrades to logging the mail, which is what local
// development and tests want.
type Service struct {
	addr string
	from string
	log  *slog.Logger
}

func NewService(addr, from string, log *slog.Logger) *Service {
	return &Service{addr: addr, from: from, log: log}
}

// SendOrderConfirmation mails the order summary to the customer.
func (s *Service) SendOrderConfirmation(to, orderID string, total int64, items []OrderLine) error {
	subject := fmt.Sprintf("Order confirmation %s", shortID(orderID))
	body := BuildOrderConfirmationBody(orderID, total, items)

	if s.addr == "" {
		s.log.Info("order confirmation (smtp disabled)",
			"to", to, "order_id", orderID, "total", total)
		return nil
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s",
		s.from, to, subject, body)
	return smtp.SendMail(s.addr, nil, s.from, []string{to}, []byte(msg))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
