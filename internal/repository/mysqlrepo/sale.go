package mysqlrepo

import (
	"context"
	"database/sql"

	"github.com/iliyamo/ecommerce-backend/internal/database"
	"github.com/iliyamo/ecommerce-backend/internal/model"
	"github.com/iliyamo/ecommerce-backend/internal/repository"
)

type SaleRepo struct{ DB *sql.DB }

func NewSaleRepo(db *sql.DB) *SaleRepo { return &SaleRepo{DB: db} }

func (r *SaleRepo) Create(ctx context.Context, s model.Sale) (string, error) {
	id, err := database.Create(ctx, database.NewExecutor(r.DB),
		"INSERT INTO sales (pub_id, usr_id, sale_delivery_date, sale_purchase_date, sale_invoice_amount) VALUES (?, ?, ?, ?, ?)",
		s.PublicationID, s.UserID, s.DeliveryDate.UTC(), s.PurchaseDate.UTC(), s.InvoiceAmount)
	if err != nil {
		return "", mapErr(err)
	}
	return id, nil
}

type ContactRepo struct{ DB *sql.DB }

func NewContactRepo(db *sql.DB) *ContactRepo { return &ContactRepo{DB: db} }

func (r *ContactRepo) Create(ctx context.Context, c model.Contact) (string, error) {
	return database.Create(ctx, database.NewExecutor(r.DB),
		"INSERT INTO contacts (cont_name, cont_email, cont_comments, cont_date) VALUES (?, ?, ?, ?)",
		c.Name, c.Email, c.Comments, c.Date.UTC())
}

type ConfigurationRepo struct{ DB *sql.DB }

func NewConfigurationRepo(db *sql.DB) *ConfigurationRepo { return &ConfigurationRepo{DB: db} }

func (r *ConfigurationRepo) Get(ctx context.Context) (model.Configuration, error) {
	c, found, err := database.FindOne(ctx, database.NewExecutor(r.DB),
		"SELECT conf_delivery_time_from, conf_delivery_time_to, conf_path_image_prod, conf_name_image_prod_default FROM configurations LIMIT 1",
		func(s database.Scanner) (model.Configuration, error) {
			var c model.Configuration
			err := s.Scan(&c.DeliveryTimeFrom, &c.DeliveryTimeTo, &c.PathImageProduct, &c.DefaultImageName)
			return c, err
		})
	if err != nil {
		return model.Configuration{}, err
	}
	if !found {
		return model.Configuration{}, repository.ErrNotFound
	}
	return c, nil
}
