package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ecommerce-backend/internal/apperror"
	"github.com/iliyamo/ecommerce-backend/internal/service"
)

// maxImageBytes caps a single upload.
const maxImageBytes = 5 << 20

type ImageHandler struct {
	Images   service.ImageService
	Products service.ProductService
}

func (h *ImageHandler) ListProducts(c echo.Context) error {
	ctx, cancel := requestCtx(c)
	defer cancel()
	out, err := h.Products.List(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ImageHandler) GetProduct(c echo.Context) error {
	ctx, cancel := requestCtx(c)
	defer cancel()
	p, err := h.Products.Get(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// Upload expects multipart fields product_id, image and optionally
// img_flag_main.
func (h *ImageHandler) Upload(c echo.Context) error {
	fh, err := c.FormFile("image")
	if err != nil {
		return apperror.Standard("image is required", map[string]any{"field": "image"})
	}
	if fh.Size > maxImageBytes {
		return apperror.Standard("image is too large", map[string]any{"max_bytes": maxImageBytes})
	}
	main, _ := strconv.ParseBool(c.FormValue("img_flag_main"))

	f, err := fh.Open()
	if err != nil {
		return apperror.Internal("could not read upload", err, nil)
	}
	defer f.Close()

	ctx, cancel := requestCtx(c)
	defer cancel()
	img, err := h.Images.Upload(ctx, c.FormValue("product_id"), fh.Filename, main, f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, img)
}

func (h *ImageHandler) Delete(c echo.Context) error {
	ctx, cancel := requestCtx(c)
	defer cancel()
	err := h.Images.Delete(ctx, c.Param("id"), c.QueryParam("filename"), c.QueryParam("extension"))
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
