package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ecommerce-backend/internal/middleware"
	"github.com/iliyamo/ecommerce-backend/internal/model"
	"github.com/iliyamo/ecommerce-backend/internal/service"
)

type SaleHandler struct {
	Sales service.SaleService
}

type saleReq struct {
	PublicationID string    `json:"pub_id" validate:"required"`
	DeliveryDate  time.Time `json:"sale_delivery_date" validate:"required"`
	InvoiceAmount float64   `json:"sale_invoice_amount" validate:"gte=0"`
}

// Create records a sale for the authenticated user.
func (h *SaleHandler) Create(c echo.Context) error {
	var req saleReq
	if err := bindValid(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestCtx(c)
	defer cancel()
	s, err := h.Sales.Create(ctx, model.Sale{
		PublicationID: req.PublicationID,
		UserID:        middleware.UserID(c),
		DeliveryDate:  req.DeliveryDate,
		InvoiceAmount: req.InvoiceAmount,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, s)
}
