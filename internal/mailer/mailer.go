package mailer

import "embed"

const (
	FromName               = "Paygate"
	maxRetries             = 3
	PaymentReceiptTemplate = "payment_receipt.tmpl"
)

//go:embed "templates"
var FS embed.FS

type Client interface {
	Send(templateFile, toName, toEmail string, data any) (int, error)
}
