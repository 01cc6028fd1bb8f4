package model

// State owns its cities; a City never exists outside exactly one State.
type State struct {
	ID          string `json:"_id" bson:"_id"`
	Description string `json:"state_description" bson:"state_description"`
	Cities      []City `json:"cities" bson:"cities"`
}

type City struct {
	ID           string  `json:"_id" bson:"_id"`
	Description  string  `json:"city_description" bson:"city_description"`
	DeliveryDays int     `json:"city_delivery_days" bson:"city_delivery_days"`
	ShippingCost float64 `json:"city_shipping_cost" bson:"city_shipping_cost"`
}

// Shipping is the delivery data derived from a user's state and city.
type Shipping struct {
	StateID      string  `json:"state_id"`
	CityID       string  `json:"city_id"`
	DeliveryDays int     `json:"city_delivery_days"`
	ShippingCost float64 `json:"city_shipping_cost"`
}
