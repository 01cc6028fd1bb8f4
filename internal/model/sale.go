package model

import "time"

// Sale records the purchase of a publication by a user.
type Sale struct {
	ID            string    `json:"_id" bson:"_id"`
	PublicationID string    `json:"pub_id" bson:"pub_id"`
	UserID        string    `json:"usr_id" bson:"usr_id"`
	DeliveryDate  time.Time `json:"sale_delivery_date" bson:"sale_delivery_date"`
	PurchaseDate  time.Time `json:"sale_purchase_date" bson:"sale_purchase_date"`
	InvoiceAmount float64   `json:"sale_invoice_amount" bson:"sale_invoice_amount"`
}

// Contact is a write-only message left through the contact form.
type Contact struct {
	Name     string    `json:"cont_name" bson:"cont_name"`
	Email    string    `json:"cont_email" bson:"cont_email"`
	Comments string    `json:"cont_comments" bson:"cont_comments"`
	Date     time.Time `json:"cont_date" bson:"cont_date"`
}

// Configuration is the single row of storefront settings.
type Configuration struct {
	DeliveryTimeFrom int    `json:"conf_delivery_time_from" bson:"conf_delivery_time_from"`
	DeliveryTimeTo   int    `json:"conf_delivery_time_to" bson:"conf_delivery_time_to"`
	PathImageProduct string `json:"conf_path_image_prod" bson:"conf_path_image_prod"`
	DefaultImageName string `json:"conf_name_image_prod_default" bson:"conf_name_image_prod_default"`
}
