// Package notify sends admin email notifications for the review queue.
package notify

import (
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"

	"catalog-service/internal/models"
)

// Mailer notifies admins when a batch lands in the review queue. A nil
// *SMTPMailer is a valid no-op, so the service runs without SMTP configured.
type Mailer interface {
	NotifyBatchUploaded(batch *models.UploadBatch, stagedCount int) error
}

// SMTPMailer sends plain-text notifications over SMTP.
type SMTPMailer struct {
	host     string
	port     int
	user     string
	password string
	from     string
	adminTo  string
}

func NewSMTPMailer(host string, port int, user, password, from, adminTo string) *SMTPMailer {
	return &SMTPMailer{
		host:     host,
		port:     port,
		user:     user,
		password: password,
		from:     from,
		adminTo:  adminTo,
	}
}

// NotifyBatchUploaded tells the admin inbox a batch is waiting for review.
func (m *SMTPMailer) NotifyBatchUploaded(batch *models.UploadBatch, stagedCount int) error {
	if m == nil || m.adminTo == "" {
		return nil
	}

	e := email.NewEmail()
	e.From = m.from
	e.To = []string{m.adminTo}
	e.Subject = fmt.Sprintf("New catalog upload from %s awaiting review", batch.SupplierID)
	e.Text = []byte(fmt.Sprintf(
		"Supplier %s uploaded %s with %d staged products.\n\nBatch ID: %s\nNotes: %s\n",
		batch.SupplierID, batch.FileName, stagedCount, batch.ID, batch.Notes,
	))

	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	if err := e.Send(fmt.Sprintf("%s:%d", m.host, m.port), auth); err != nil {
		return fmt.Errorf("mailer: send upload notification: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"batchId":  batch.ID,
		"supplier": batch.SupplierID,
	}).Info("Sent upload notification email")
	return nil
}
