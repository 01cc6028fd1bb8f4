package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/ecommerce-backend/internal/handler"
	"github.com/iliyamo/ecommerce-backend/internal/model"
	"github.com/iliyamo/ecommerce-backend/internal/utils"
)

const secret = "router-secret"

func newTestEcho() *echo.Echo {
	e := echo.New()
	RegisterRoutes(e, Handlers{
		Health:       handler.Health(nil),
		Catalog:      &handler.CatalogHandler{},
		Publications: &handler.PublicationHandler{},
		Users:        &handler.UserHandler{},
		Sales:        &handler.SaleHandler{},
		Images:       &handler.ImageHandler{},
	}, secret)
	return e
}

func TestRoutesRegistered(t *testing.T) {
	e := newTestEcho()
	have := map[string]bool{}
	for _, r := range e.Routes() {
		have[r.Method+" "+r.Path] = true
	}
	for _, want := range []string{
		"GET /healthz",
		"GET /v1/products/:id",
		"GET /v1/categories",
		"GET /v1/states",
		"GET /v1/roles/standard",
		"GET /v1/configuration",
		"POST /v1/contacts",
		"GET /v1/publications",
		"GET /v1/publications/total",
		"GET /v1/publications/title/total",
		"GET /v1/publications/category/total/:id",
		"PUT /v1/publications/:id",
		"PUT /v1/users/resetpassword/:id",
		"GET /v1/users/shipping/:id",
		"POST /v1/sales",
		"POST /v1/images/upload",
		"DELETE /v1/images/:id",
	} {
		assert.True(t, have[want], "missing route %s", want)
	}
}

func TestProtectedRoutes(t *testing.T) {
	e := newTestEcho()
	token := func(uid, role string) string {
		tok, err := utils.NewAccessToken(secret, uid, role, 5)
		assert.NoError(t, err)
		return "Bearer " + tok.Token
	}

	cases := []struct {
		name   string
		method string
		path   string
		auth   string
		status int
	}{
		{"publication create anonymous", http.MethodPost, "/v1/publications", "", http.StatusUnauthorized},
		{"publication create standard", http.MethodPost, "/v1/publications", token("1", model.RoleStandard), http.StatusForbidden},
		{"user list standard", http.MethodGet, "/v1/users", token("1", model.RoleStandard), http.StatusForbidden},
		{"other user record", http.MethodGet, "/v1/users/2", token("1", model.RoleStandard), http.StatusForbidden},
		{"sale by admin", http.MethodPost, "/v1/sales", token("1", model.RoleAdmin), http.StatusForbidden},
		{"images standard", http.MethodGet, "/v1/images/products", token("1", model.RoleStandard), http.StatusForbidden},
		{"health", http.MethodGet, "/healthz", "", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			if tc.auth != "" {
				req.Header.Set("Authorization", tc.auth)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}
