// Package queue defines message payloads exchanged over the message broker
// together with the publisher and the background consumers.
package queue

import "github.com/iliyamo/ecommerce-backend/internal/mailer"

// Queue names. Both are durable.
const (
	SaleCreatedQueue = "sale.created"
	MailQueue        = "mail.outbound"
)

// SaleCreatedEvent is published after a sale is stored. It carries enough
// for downstream consumers to log or notify without reading the database.
type SaleCreatedEvent struct {
	SaleID           string  `json:"sale_id"`
	PublicationID    string  `json:"pub_id"`
	PublicationTitle string  `json:"pub_title"`
	UserID           string  `json:"usr_id"`
	InvoiceAmount    float64 `json:"sale_invoice_amount"`
	DeliveryDate     string  `json:"sale_delivery_date"`
	PurchasedAt      string  `json:"sale_purchase_date"`
}

// MailMessage is the queued form of a mail handed to the mail consumer.
type MailMessage = mailer.Message
