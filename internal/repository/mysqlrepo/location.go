package mysqlrepo

import (
	"context"
	"database/sql"

	"github.com/iliyamo/ecommerce-backend/internal/database"
	"github.com/iliyamo/ecommerce-backend/internal/model"
	"github.com/iliyamo/ecommerce-backend/internal/reconstruct"
	"github.com/iliyamo/ecommerce-backend/internal/repository"
)

const stateSelect = `SELECT s._id, s.state_description, c._id, c.city_description, c.city_delivery_days, c.city_shipping_cost
FROM cities AS c
JOIN states AS s ON c.state_id = s._id`

type StateRepo struct{ DB *sql.DB }

func NewStateRepo(db *sql.DB) *StateRepo { return &StateRepo{DB: db} }

func scanStateCity(s database.Scanner) (reconstruct.StateCityRow, error) {
	var r reconstruct.StateCityRow
	err := s.Scan(&r.StateID, &r.StateDescription, &r.CityID, &r.CityDescription, &r.CityDeliveryDays, &r.CityShippingCost)
	return r, err
}

func (r *StateRepo) List(ctx context.Context) ([]model.State, error) {
	rows, err := database.Find(ctx, database.NewExecutor(r.DB),
		stateSelect+" ORDER BY s.state_description, s._id, c._id", scanStateCity)
	if err != nil {
		return nil, err
	}
	return reconstruct.States(rows), nil
}

func (r *StateRepo) FindCity(ctx context.Context, stateID, cityID string) (model.State, error) {
	rows, err := database.FindSome(ctx, database.NewExecutor(r.DB),
		stateSelect+" WHERE s._id = ? AND c._id = ?", scanStateCity, stateID, cityID)
	if err != nil {
		return model.State{}, err
	}
	states := reconstruct.States(rows)
	if len(states) == 0 {
		return model.State{}, repository.ErrNotFound
	}
	return states[0], nil
}
