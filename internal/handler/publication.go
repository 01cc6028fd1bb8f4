package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ecommerce-backend/internal/service"
)

type PublicationHandler struct {
	Publications service.PublicationService
}

func (h *PublicationHandler) List(c echo.Context) error {
	page, err := pageOptions(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestCtx(c)
	defer cancel()
	out, err := h.Publications.List(ctx, page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *PublicationHandler) Total(c echo.Context) error {
	ctx, cancel := requestCtx(c)
	defer cancel()
	n, err := h.Publications.Total(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"total": n})
}

func (h *PublicationHandler) ListByTitle(c echo.Context) error {
	page, err := pageOptions(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestCtx(c)
	defer cancel()
	out, err := h.Publications.ListByTitle(ctx, c.QueryParam("title"), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *PublicationHandler) TotalByTitle(c echo.Context) error {
	ctx, cancel := requestCtx(c)
	defer cancel()
	n, err := h.Publications.TotalByTitle(ctx, c.QueryParam("title"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"total": n})
}

func (h *PublicationHandler) ListByCategory(c echo.Context) error {
	page, err := pageOptions(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestCtx(c)
	defer cancel()
	out, err := h.Publications.ListByCategory(ctx, c.Param("id"), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *PublicationHandler) TotalByCategory(c echo.Context) error {
	ctx, cancel := requestCtx(c)
	defer cancel()
	n, err := h.Publications.TotalByCategory(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"total": n})
}

func (h *PublicationHandler) Get(c echo.Context) error {
	page, err := pageOptions(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestCtx(c)
	defer cancel()
	p, err := h.Publications.Get(ctx, c.Param("id"), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *PublicationHandler) Create(c echo.Context) error {
	var req service.PublicationInput
	if err := bindValid(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestCtx(c)
	defer cancel()
	p, err := h.Publications.Create(ctx, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *PublicationHandler) Update(c echo.Context) error {
	var req service.PublicationInput
	if err := bindValid(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestCtx(c)
	defer cancel()
	p, err := h.Publications.Update(ctx, c.Param("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}
