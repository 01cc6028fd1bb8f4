package model

import "time"

// Publication is a time-bounded sales listing bundling one or more
// products. Products and Category are snapshots captured when the
// publication is written; they are not re-validated on read.
//
// A publication is listable while DueDate is nil or strictly after the
// current time.
type Publication struct {
	ID           string     `json:"_id" bson:"_id"`
	Title        string     `json:"pub_title" bson:"pub_title"`
	Description  string     `json:"pub_description" bson:"pub_description"`
	Category     Category   `json:"category" bson:"category"`
	Price        float64    `json:"pub_price" bson:"pub_price"`
	ShippingCost float64    `json:"pub_shipping_cost" bson:"pub_shipping_cost"`
	CreateDate   time.Time  `json:"pub_create_date" bson:"pub_create_date"`
	DueDate      *time.Time `json:"pub_due_date" bson:"pub_due_date"`
	Products     []Product  `json:"products" bson:"products"`
}

// ProductIDs returns the ids of the embedded products in order.
func (p Publication) ProductIDs() []string {
	ids := make([]string, 0, len(p.Products))
	for _, pr := range p.Products {
		ids = append(ids, pr.ID)
	}
	return ids
}

// Active reports whether the publication is listable at now. The boundary
// is strict: a due date equal to now is already over.
func (p Publication) Active(now time.Time) bool {
	return p.DueDate == nil || p.DueDate.After(now)
}
