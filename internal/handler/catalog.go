package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ecommerce-backend/internal/model"
	"github.com/iliyamo/ecommerce-backend/internal/service"
)

// CatalogHandler serves the read-only storefront data and the contact form.
type CatalogHandler struct {
	Products      service.ProductService
	Categories    service.CategoryService
	States        service.StateService
	Roles         service.RoleService
	Configuration service.ConfigurationService
	Contacts      service.ContactService
}

func (h *CatalogHandler) ListProducts(c echo.Context) error {
	ctx, cancel := requestCtx(c)
	defer cancel()
	out, err := h.Products.List(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) GetProduct(c echo.Context) error {
	ctx, cancel := requestCtx(c)
	defer cancel()
	p, err := h.Products.Get(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *CatalogHandler) ListCategories(c echo.Context) error {
	ctx, cancel := requestCtx(c)
	defer cancel()
	out, err := h.Categories.List(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) GetCategory(c echo.Context) error {
	ctx, cancel := requestCtx(c)
	defer cancel()
	cat, err := h.Categories.Get(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *CatalogHandler) ListStates(c echo.Context) error {
	ctx, cancel := requestCtx(c)
	defer cancel()
	out, err := h.States.List(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) StandardRole(c echo.Context) error {
	ctx, cancel := requestCtx(c)
	defer cancel()
	r, err := h.Roles.Standard(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, r)
}

func (h *CatalogHandler) GetConfiguration(c echo.Context) error {
	ctx, cancel := requestCtx(c)
	defer cancel()
	conf, err := h.Configuration.Get(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, conf)
}

type contactReq struct {
	Name     string `json:"cont_name" validate:"required"`
	Email    string `json:"cont_email" validate:"required"`
	Comments string `json:"cont_comments" validate:"required"`
}

func (h *CatalogHandler) CreateContact(c echo.Context) error {
	var req contactReq
	if err := bindValid(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestCtx(c)
	defer cancel()
	id, err := h.Contacts.Create(ctx, model.Contact{Name: req.Name, Email: req.Email, Comments: req.Comments})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"_id": id})
}
