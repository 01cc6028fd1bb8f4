package mysqlrepo

import (
	"context"
	"database/sql"

	"github.com/iliyamo/ecommerce-backend/internal/database"
	"github.com/iliyamo/ecommerce-backend/internal/model"
	"github.com/iliyamo/ecommerce-backend/internal/reconstruct"
	"github.com/iliyamo/ecommerce-backend/internal/repository"
)

// ----- categories -----

type CategoryRepo struct{ DB *sql.DB }

func NewCategoryRepo(db *sql.DB) *CategoryRepo { return &CategoryRepo{DB: db} }

func scanCategory(s database.Scanner) (model.Category, error) {
	var c model.Category
	err := s.Scan(&c.ID, &c.FlagSingle, &c.Description)
	return c, err
}

func (r *CategoryRepo) List(ctx context.Context) ([]model.Category, error) {
	return database.Find(ctx, database.NewExecutor(r.DB),
		"SELECT _id, cat_flag_single, cat_description FROM categories ORDER BY cat_description, _id",
		scanCategory)
}

func (r *CategoryRepo) FindByID(ctx context.Context, id string) (model.Category, error) {
	c, found, err := database.FindOne(ctx, database.NewExecutor(r.DB),
		"SELECT _id, cat_flag_single, cat_description FROM categories WHERE _id = ?",
		scanCategory, id)
	if err != nil {
		return model.Category{}, err
	}
	if !found {
		return model.Category{}, repository.ErrNotFound
	}
	return c, nil
}

// ----- products -----

const productSelect = `SELECT p._id, p.prod_title, p.prod_description, p.prod_price,
	c._id, c.cat_flag_single, c.cat_description,
	i._id, i.img_flag_main, i.img_filename, i.img_extension
FROM products AS p
LEFT JOIN categories AS c ON c._id = p.cat_id
LEFT JOIN images AS i ON i.prod_id = p._id`

type ProductRepo struct{ DB *sql.DB }

func NewProductRepo(db *sql.DB) *ProductRepo { return &ProductRepo{DB: db} }

// productDest lists scan targets for the product part of a join row, in
// the column order of productSelect.
func productDest(r *reconstruct.ProductRow) []any {
	return []any{
		&r.ProductID, &r.Title, &r.Description, &r.Price,
		&r.CategoryID, &r.CategoryFlagSingle, &r.CategoryDescription,
		&r.ImageID, &r.ImageFlagMain, &r.ImageFilename, &r.ImageExtension,
	}
}

func scanProductRow(s database.Scanner) (reconstruct.ProductRow, error) {
	var r reconstruct.ProductRow
	err := s.Scan(productDest(&r)...)
	return r, err
}

func (r *ProductRepo) List(ctx context.Context) ([]model.Product, error) {
	rows, err := database.Find(ctx, database.NewExecutor(r.DB),
		productSelect+" ORDER BY p.prod_title, p._id, i._id", scanProductRow)
	if err != nil {
		return nil, err
	}
	return reconstruct.Products(rows), nil
}

func (r *ProductRepo) FindByID(ctx context.Context, id string) (model.Product, error) {
	rows, err := database.FindSome(ctx, database.NewExecutor(r.DB),
		productSelect+" WHERE p._id = ? ORDER BY p._id, i._id", scanProductRow, id)
	if err != nil {
		return model.Product{}, err
	}
	products := reconstruct.Products(rows)
	if len(products) == 0 {
		return model.Product{}, repository.ErrNotFound
	}
	return products[0], nil
}

// ----- images -----

type ImageRepo struct{ DB *sql.DB }

func NewImageRepo(db *sql.DB) *ImageRepo { return &ImageRepo{DB: db} }

// Add inserts the image row and returns its id. A missing product
// surfaces as ErrNotFound through the foreign key.
func (r *ImageRepo) Add(ctx context.Context, productID string, img model.Image) (string, bool, error) {
	id, err := database.Create(ctx, database.NewExecutor(r.DB),
		"INSERT INTO images (prod_id, img_flag_main, img_filename, img_extension) VALUES (?, ?, ?, ?)",
		productID, img.FlagMain, img.Filename, img.Extension)
	if err != nil {
		return "", false, mapErr(err)
	}
	return id, true, nil
}

func (r *ImageRepo) Remove(ctx context.Context, productID, filename string) (bool, error) {
	return database.DeleteOne(ctx, database.NewExecutor(r.DB),
		"DELETE FROM images WHERE prod_id = ? AND img_filename = ?", productID, filename)
}
