package model

// Category groups products and publications. FlagSingle marks categories
// that hold exactly one kind of product.
type Category struct {
	ID          string `json:"_id" bson:"_id"`
	FlagSingle  bool   `json:"cat_flag_single" bson:"cat_flag_single"`
	Description string `json:"cat_description" bson:"cat_description"`
}

// Image is the metadata of one product picture stored on disk as
// <Filename>.<Extension> under the configured images directory.
type Image struct {
	ID        string `json:"_id,omitempty" bson:"_id,omitempty"`
	FlagMain  bool   `json:"img_flag_main" bson:"img_flag_main"`
	Filename  string `json:"img_filename" bson:"img_filename"`
	Extension string `json:"img_extension" bson:"img_extension"`
}

// Product is a catalog item. Category is an embedded snapshot, not a live
// reference, and Images keeps insertion order.
type Product struct {
	ID          string   `json:"_id" bson:"_id"`
	Title       string   `json:"prod_title" bson:"prod_title"`
	Description string   `json:"prod_description" bson:"prod_description"`
	Price       float64  `json:"prod_price" bson:"prod_price"`
	Category    Category `json:"category" bson:"category"`
	Images      []Image  `json:"images" bson:"images"`
}
