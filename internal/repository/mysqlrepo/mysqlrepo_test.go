package mysqlrepo

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/ecommerce-backend/internal/model"
	"github.com/iliyamo/ecommerce-backend/internal/repository"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

var publicationCols = []string{
	"p._id", "pub_title", "pub_description", "pub_price", "pub_shipping_cost",
	"pub_due_date", "pub_create_date",
	"cat._id", "cat.cat_flag_single", "cat.cat_description",
	"pr._id", "prod_title", "prod_description", "prod_price",
	"c._id", "c.cat_flag_single", "c.cat_description",
	"i._id", "img_flag_main", "img_filename", "img_extension",
}

// =============================================================================
// Publications
// =============================================================================

func TestPublicationListBindsPaging(t *testing.T) {
	db, mock := newMockDB(t)
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	rows := sqlmock.NewRows(publicationCols).
		AddRow("100", "Bundle", "d", 10.0, 2.0, nil, created, "5", false, "Home",
			"1", "Mug", "m", 3.0, "5", false, "Home", nil, nil, nil, nil).
		AddRow("100", "Bundle", "d", 10.0, 2.0, nil, created, "5", false, "Home",
			"2", "Lamp", "l", 7.0, "5", false, "Home", "7", true, "2_a", "png").
		AddRow("100", "Bundle", "d", 10.0, 2.0, nil, created, "5", false, "Home",
			"2", "Lamp", "l", 7.0, "5", false, "Home", "8", false, "2_b", "jpg")

	mock.ExpectQuery("FROM publications").
		WithArgs(sqlmock.AnyArg(), 10, 20).
		WillReturnRows(rows)

	repo := NewPublicationRepo(db)
	pubs, err := repo.List(context.Background(), time.Now(), model.PageOptions{Page: 3, Limit: 10})
	require.NoError(t, err)
	require.Len(t, pubs, 1)
	require.Len(t, pubs[0].Products, 2)
	assert.Empty(t, pubs[0].Products[0].Images)
	assert.Len(t, pubs[0].Products[1].Images, 2)
	assert.Nil(t, pubs[0].DueDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPublicationListByTitleEscapesWildcards(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("LOWER").
		WithArgs(sqlmock.AnyArg(), `%50\% off%`, 10, 0).
		WillReturnRows(sqlmock.NewRows(publicationCols))

	repo := NewPublicationRepo(db)
	pubs, err := repo.ListByTitle(context.Background(), "50% OFF", time.Now(), model.PageOptions{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, pubs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPublicationCountByCategory(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT COUNT").
		WithArgs(sqlmock.AnyArg(), "5").
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(12))

	n, err := NewPublicationRepo(db).CountByCategory(context.Background(), "5", time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(12), n)
}

func TestPublicationFindByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("WHERE p._id").WithArgs("404").WillReturnRows(sqlmock.NewRows(publicationCols))

	_, err := NewPublicationRepo(db).FindByID(context.Background(), "404")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPublicationCreateIsTransactional(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO publications").WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec("INSERT INTO publish_products").WithArgs("7", "1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO publish_products").WithArgs("7", "2").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	id, err := NewPublicationRepo(db).Create(context.Background(), model.Publication{
		Title:      "Bundle",
		CreateDate: time.Now(),
		Products:   []model.Product{{ID: "1"}, {ID: "2"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "7", id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPublicationCreateRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO publications").WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec("INSERT INTO publish_products").WillReturnError(errors.New("fk violation"))
	mock.ExpectRollback()

	_, err := NewPublicationRepo(db).Create(context.Background(), model.Publication{
		Title:    "Bundle",
		Products: []model.Product{{ID: "1"}},
	})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPublicationUpdateReplacesAssociations(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE publications").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM publish_products").WithArgs("100").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("INSERT INTO publish_products").WithArgs("100", "9").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	ok, err := NewPublicationRepo(db).Update(context.Background(), model.Publication{
		ID:       "100",
		Products: []model.Product{{ID: "9"}},
	})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPublicationUpdateMissingRow(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE publications").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	ok, err := NewPublicationRepo(db).Update(context.Background(), model.Publication{ID: "404"})
	assert.False(t, ok)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// =============================================================================
// Users, tokens, products
// =============================================================================

func TestUserCreateDuplicate(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry 'ana' for key 'usr_username'"})

	_, err := NewUserRepo(db).Create(context.Background(), model.User{Username: "ana", Email: "ana@example.com"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestUserFindByEmailNormalizes(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("WHERE usr_email").
		WithArgs("ana@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"_id", "usr_name", "usr_email", "usr_street_address", "state_id", "city_id",
			"usr_zip", "usr_phone_number", "usr_username", "usr_password", "rol_id"}).
			AddRow("1", "Ana", "ana@example.com", "Main 1", nil, nil, "1000", "555", "ana", "$2a$hash", "2"))

	u, err := NewUserRepo(db).FindByEmail(context.Background(), "  Ana@Example.com ")
	require.NoError(t, err)
	assert.Equal(t, "1", u.ID)
	assert.Equal(t, "", u.StateID)
	assert.Equal(t, "$2a$hash", u.PasswordHash)
}

func TestUserUpdatePasswordMissingUser(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec("UPDATE users SET usr_password").WithArgs("hash", "9").WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := NewUserRepo(db).UpdatePassword(context.Background(), "9", "hash")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTokenFindByUserNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("FROM tokens").WithArgs("1").
		WillReturnRows(sqlmock.NewRows([]string{"usr_id", "tok_generated", "tok_expiration"}))

	_, err := NewTokenRepo(db).FindByUser(context.Background(), "1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProductFindByIDWithoutImages(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("FROM products").WithArgs("1").
		WillReturnRows(sqlmock.NewRows([]string{"_id", "prod_title", "prod_description", "prod_price",
			"c._id", "cat_flag_single", "cat_description", "i._id", "img_flag_main", "img_filename", "img_extension"}).
			AddRow("1", "Mug", "m", 3.0, nil, nil, nil, nil, nil, nil, nil))

	p, err := NewProductRepo(db).FindByID(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "Mug", p.Title)
	assert.NotNil(t, p.Images)
	assert.Empty(t, p.Images)
}

func TestImageAddMissingProduct(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec("INSERT INTO images").
		WillReturnError(&mysqldriver.MySQLError{Number: 1452, Message: "Cannot add or update a child row"})

	id, ok, err := NewImageRepo(db).Add(context.Background(), "404", model.Image{Filename: "x", Extension: "png"})
	assert.False(t, ok)
	assert.Empty(t, id)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestImageAddReturnsInsertID(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec("INSERT INTO images").
		WithArgs("5", true, "5_a", "png").
		WillReturnResult(sqlmock.NewResult(17, 1))

	id, ok, err := NewImageRepo(db).Add(context.Background(), "5", model.Image{FlagMain: true, Filename: "5_a", Extension: "png"})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "17", id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStateFindCityNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("FROM cities").WithArgs("1", "99").
		WillReturnRows(sqlmock.NewRows([]string{"s._id", "state_description", "c._id", "city_description", "city_delivery_days", "city_shipping_cost"}))

	_, err := NewStateRepo(db).FindCity(context.Background(), "1", "99")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `a\%b\_c\\d`, escapeLike(`a%b_c\d`))
	assert.Equal(t, "%lamp%", containsPattern("LAMP"))
}
