// Package reconstruct folds flat SQL join rows back into nested aggregates.
//
// Every function here assumes its input is sorted so that all rows of one
// parent are contiguous. That precondition is not checked: unsorted input
// silently yields duplicate parents. The queries that feed these functions
// order by the grouping key with id tie-breakers.
package reconstruct

import (
	"database/sql"
	"time"

	"github.com/iliyamo/ecommerce-backend/internal/model"
)

// Group splits rows into runs of consecutive rows that share the same key.
// Run order and the order of rows inside each run are preserved. An empty
// input yields an empty (non-nil) result.
func Group[R any, K comparable](rows []R, key func(R) K) [][]R {
	out := make([][]R, 0)
	start := 0
	for i := 1; i <= len(rows); i++ {
		if i == len(rows) || key(rows[i]) != key(rows[start]) {
			out = append(out, rows[start:i])
			start = i
		}
	}
	return out
}

// StateCityRow is one row of states JOIN cities.
type StateCityRow struct {
	StateID          string
	StateDescription string
	CityID           string
	CityDescription  string
	CityDeliveryDays int
	CityShippingCost float64
}

// ProductRow is one row of products LEFT JOIN categories LEFT JOIN images.
// Category and image columns are nullable because of the outer joins.
type ProductRow struct {
	ProductID           string
	Title               string
	Description         string
	Price               float64
	CategoryID          sql.NullString
	CategoryFlagSingle  sql.NullBool
	CategoryDescription sql.NullString
	ImageID             sql.NullString
	ImageFlagMain       sql.NullBool
	ImageFilename       sql.NullString
	ImageExtension      sql.NullString
}

// PublicationRow is one row of the publication join: the publication
// columns repeated for every (product, image) pair it contains.
type PublicationRow struct {
	PublicationID       string
	Title               string
	Description         string
	Price               float64
	ShippingCost        float64
	DueDate             sql.NullTime
	CreateDate          time.Time
	CategoryID          sql.NullString
	CategoryFlagSingle  sql.NullBool
	CategoryDescription sql.NullString
	Product             ProductRow
}

// States builds states with their cities.
func States(rows []StateCityRow) []model.State {
	groups := Group(rows, func(r StateCityRow) string { return r.StateID })
	out := make([]model.State, 0, len(groups))
	for _, g := range groups {
		st := model.State{
			ID:          g[0].StateID,
			Description: g[0].StateDescription,
			Cities:      make([]model.City, 0, len(g)),
		}
		for _, r := range g {
			st.Cities = append(st.Cities, model.City{
				ID:           r.CityID,
				Description:  r.CityDescription,
				DeliveryDays: r.CityDeliveryDays,
				ShippingCost: r.CityShippingCost,
			})
		}
		out = append(out, st)
	}
	return out
}

// Products builds products with their category and images. A row with a
// NULL image id belongs to a product without images and adds no image.
func Products(rows []ProductRow) []model.Product {
	groups := Group(rows, func(r ProductRow) string { return r.ProductID })
	out := make([]model.Product, 0, len(groups))
	for _, g := range groups {
		first := g[0]
		p := model.Product{
			ID:          first.ProductID,
			Title:       first.Title,
			Description: first.Description,
			Price:       first.Price,
			Category:    category(first.CategoryID, first.CategoryFlagSingle, first.CategoryDescription),
			Images:      make([]model.Image, 0),
		}
		for _, r := range g {
			if !r.ImageID.Valid {
				continue
			}
			p.Images = append(p.Images, model.Image{
				ID:        r.ImageID.String,
				FlagMain:  r.ImageFlagMain.Bool,
				Filename:  r.ImageFilename.String,
				Extension: r.ImageExtension.String,
			})
		}
		out = append(out, p)
	}
	return out
}

// Publications builds publications, reusing Products for the rows of each
// publication.
func Publications(rows []PublicationRow) []model.Publication {
	groups := Group(rows, func(r PublicationRow) string { return r.PublicationID })
	out := make([]model.Publication, 0, len(groups))
	for _, g := range groups {
		first := g[0]
		inner := make([]ProductRow, 0, len(g))
		for _, r := range g {
			inner = append(inner, r.Product)
		}
		pub := model.Publication{
			ID:           first.PublicationID,
			Title:        first.Title,
			Description:  first.Description,
			Category:     category(first.CategoryID, first.CategoryFlagSingle, first.CategoryDescription),
			Price:        first.Price,
			ShippingCost: first.ShippingCost,
			CreateDate:   first.CreateDate,
			Products:     Products(inner),
		}
		if first.DueDate.Valid {
			due := first.DueDate.Time
			pub.DueDate = &due
		}
		out = append(out, pub)
	}
	return out
}

func category(id sql.NullString, single sql.NullBool, desc sql.NullString) model.Category {
	return model.Category{ID: id.String, FlagSingle: single.Bool, Description: desc.String}
}
