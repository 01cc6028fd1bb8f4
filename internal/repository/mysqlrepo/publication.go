package mysqlrepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/ecommerce-backend/internal/database"
	"github.com/iliyamo/ecommerce-backend/internal/model"
	"github.com/iliyamo/ecommerce-backend/internal/reconstruct"
	"github.com/iliyamo/ecommerce-backend/internal/repository"
)

const publicationColumns = `SELECT p._id, p.pub_title, p.pub_description, p.pub_price, p.pub_shipping_cost,
	p.pub_due_date, p.pub_create_date,
	cat._id, cat.cat_flag_single, cat.cat_description,
	pr._id, pr.prod_title, pr.prod_description, pr.prod_price,
	c._id, c.cat_flag_single, c.cat_description,
	i._id, i.img_flag_main, i.img_filename, i.img_extension`

const publicationJoins = `
JOIN publish_products AS pp ON pp.pub_id = p._id
JOIN products AS pr ON pr._id = pp.prod_id
LEFT JOIN categories AS cat ON cat._id = p.cat_id
LEFT JOIN categories AS c ON c._id = pr.cat_id
LEFT JOIN images AS i ON i.prod_id = pr._id`

// activeFilter keeps publications whose due date is absent or strictly
// after the bound timestamp.
const activeFilter = "(pub_due_date IS NULL OR pub_due_date > ?)"

// pagedPublicationQuery selects one page of publication ids in a derived
// table (MySQL rejects LIMIT inside IN subqueries) and joins the full rows
// onto it. extra is a fixed predicate with its own placeholders.
func pagedPublicationQuery(extra string) string {
	where := activeFilter
	if extra != "" {
		where += " AND " + extra
	}
	return publicationColumns + `
FROM (
	SELECT _id, pub_create_date FROM publications
	WHERE ` + where + `
	ORDER BY pub_create_date DESC, _id DESC
	LIMIT ? OFFSET ?
) AS pg
JOIN publications AS p ON p._id = pg._id` + publicationJoins + `
ORDER BY p.pub_create_date DESC, p._id DESC, pr._id, i._id`
}

func countPublicationQuery(extra string) string {
	q := "SELECT COUNT(*) FROM publications WHERE " + activeFilter
	if extra != "" {
		q += " AND " + extra
	}
	return q
}

const (
	byCategory = "cat_id = ?"
	byTitle    = "LOWER(pub_title) LIKE ?"
)

type PublicationRepo struct{ DB *sql.DB }

func NewPublicationRepo(db *sql.DB) *PublicationRepo { return &PublicationRepo{DB: db} }

func scanPublicationRow(s database.Scanner) (reconstruct.PublicationRow, error) {
	var r reconstruct.PublicationRow
	dest := []any{
		&r.PublicationID, &r.Title, &r.Description, &r.Price, &r.ShippingCost,
		&r.DueDate, &r.CreateDate,
		&r.CategoryID, &r.CategoryFlagSingle, &r.CategoryDescription,
	}
	dest = append(dest, productDest(&r.Product)...)
	err := s.Scan(dest...)
	return r, err
}

func (r *PublicationRepo) page(ctx context.Context, extra string, args []any, page model.PageOptions) ([]model.Publication, error) {
	args = append(args, page.Limit, page.Offset())
	rows, err := database.FindSome(ctx, database.NewExecutor(r.DB), pagedPublicationQuery(extra), scanPublicationRow, args...)
	if err != nil {
		return nil, err
	}
	return reconstruct.Publications(rows), nil
}

func (r *PublicationRepo) List(ctx context.Context, now time.Time, page model.PageOptions) ([]model.Publication, error) {
	return r.page(ctx, "", []any{now.UTC()}, page)
}

func (r *PublicationRepo) Count(ctx context.Context, now time.Time) (int64, error) {
	return database.Count(ctx, database.NewExecutor(r.DB), countPublicationQuery(""), now.UTC())
}

func (r *PublicationRepo) ListByCategory(ctx context.Context, categoryID string, now time.Time, page model.PageOptions) ([]model.Publication, error) {
	return r.page(ctx, byCategory, []any{now.UTC(), categoryID}, page)
}

func (r *PublicationRepo) CountByCategory(ctx context.Context, categoryID string, now time.Time) (int64, error) {
	return database.Count(ctx, database.NewExecutor(r.DB), countPublicationQuery(byCategory), now.UTC(), categoryID)
}

func (r *PublicationRepo) ListByTitle(ctx context.Context, title string, now time.Time, page model.PageOptions) ([]model.Publication, error) {
	return r.page(ctx, byTitle, []any{now.UTC(), containsPattern(title)}, page)
}

func (r *PublicationRepo) CountByTitle(ctx context.Context, title string, now time.Time) (int64, error) {
	return database.Count(ctx, database.NewExecutor(r.DB), countPublicationQuery(byTitle), now.UTC(), containsPattern(title))
}

func (r *PublicationRepo) FindByID(ctx context.Context, id string) (model.Publication, error) {
	q := publicationColumns + "\nFROM publications AS p" + publicationJoins + "\nWHERE p._id = ?\nORDER BY pr._id, i._id"
	rows, err := database.FindSome(ctx, database.NewExecutor(r.DB), q, scanPublicationRow, id)
	if err != nil {
		return model.Publication{}, err
	}
	pubs := reconstruct.Publications(rows)
	if len(pubs) == 0 {
		return model.Publication{}, repository.ErrNotFound
	}
	return pubs[0], nil
}

// Create inserts the publication and its product associations in one
// transaction.
func (r *PublicationRepo) Create(ctx context.Context, p model.Publication) (string, error) {
	ex := database.NewExecutor(r.DB)
	var id string
	err := database.WithTx(ctx, ex, func() error {
		var err error
		id, err = database.Create(ctx, ex,
			`INSERT INTO publications (pub_title, pub_description, cat_id, pub_price, pub_shipping_cost, pub_due_date, pub_create_date)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			p.Title, p.Description, nullableString(p.Category.ID), p.Price, p.ShippingCost, nullableTime(p.DueDate), p.CreateDate.UTC())
		if err != nil {
			return err
		}
		return linkProducts(ctx, ex, id, p.ProductIDs())
	})
	if err != nil {
		return "", mapErr(err)
	}
	return id, nil
}

// Update rewrites the publication row and replaces every product
// association in one transaction.
func (r *PublicationRepo) Update(ctx context.Context, p model.Publication) (bool, error) {
	ex := database.NewExecutor(r.DB)
	err := database.WithTx(ctx, ex, func() error {
		if _, err := database.UpdateOne(ctx, ex,
			`UPDATE publications SET pub_title = ?, pub_description = ?, cat_id = ?, pub_price = ?, pub_shipping_cost = ?, pub_due_date = ?
			WHERE _id = ?`,
			p.Title, p.Description, nullableString(p.Category.ID), p.Price, p.ShippingCost, nullableTime(p.DueDate), p.ID); err != nil {
			return err
		}
		if _, err := database.DeleteSome(ctx, ex, "DELETE FROM publish_products WHERE pub_id = ?", p.ID); err != nil {
			return err
		}
		return linkProducts(ctx, ex, p.ID, p.ProductIDs())
	})
	if err != nil {
		return false, mapErr(err)
	}
	return true, nil
}

func linkProducts(ctx context.Context, ex *database.Executor, pubID string, productIDs []string) error {
	for _, prodID := range productIDs {
		if _, err := database.Create(ctx, ex,
			"INSERT INTO publish_products (pub_id, prod_id) VALUES (?, ?)", pubID, prodID); err != nil {
			return err
		}
	}
	return nil
}
