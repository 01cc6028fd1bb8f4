package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ecommerce-backend/internal/handler"
	"github.com/iliyamo/ecommerce-backend/internal/middleware"
	"github.com/iliyamo/ecommerce-backend/internal/model"
)

// Handlers groups everything the routes dispatch to.
type Handlers struct {
	Health       echo.HandlerFunc
	Catalog      *handler.CatalogHandler
	Publications *handler.PublicationHandler
	Users        *handler.UserHandler
	Sales        *handler.SaleHandler
	Images       *handler.ImageHandler
}

// RegisterRoutes mounts the health check at /healthz and the API under /v1.
func RegisterRoutes(e *echo.Echo, h Handlers, jwtSecret string) {
	e.GET("/healthz", h.Health)

	v1 := e.Group("/v1")
	auth := middleware.JWTAuth(jwtSecret)
	admin := middleware.RequireRole(model.RoleAdmin)

	registerCatalog(v1, h.Catalog)
	registerPublications(v1, h.Publications, auth, admin)
	registerUsers(v1, h.Users, auth, admin)

	// Sales are made by shoppers; admins manage the catalog instead.
	v1.POST("/sales", h.Sales.Create, auth, middleware.RequireRole(model.RoleStandard))

	img := v1.Group("/images", auth, admin)
	img.GET("/products", h.Images.ListProducts)
	img.GET("/products/:id", h.Images.GetProduct)
	img.POST("/upload", h.Images.Upload)
	img.DELETE("/:id", h.Images.Delete)
}

func registerCatalog(g *echo.Group, h *handler.CatalogHandler) {
	g.GET("/products", h.ListProducts)
	g.GET("/products/:id", h.GetProduct)
	g.GET("/categories", h.ListCategories)
	g.GET("/categories/:id", h.GetCategory)
	g.GET("/states", h.ListStates)
	g.GET("/roles/standard", h.StandardRole)
	g.GET("/configuration", h.GetConfiguration)
	g.POST("/contacts", h.CreateContact)
}

func registerPublications(g *echo.Group, h *handler.PublicationHandler, auth, admin echo.MiddlewareFunc) {
	p := g.Group("/publications")
	p.GET("", h.List)
	p.GET("/total", h.Total)
	p.GET("/title", h.ListByTitle)
	p.GET("/title/total", h.TotalByTitle)
	p.GET("/category/total/:id", h.TotalByCategory)
	p.GET("/category/:id", h.ListByCategory)
	p.GET("/:id", h.Get)
	p.POST("", h.Create, auth, admin)
	p.PUT("/:id", h.Update, auth, admin)
}

func registerUsers(g *echo.Group, h *handler.UserHandler, auth, admin echo.MiddlewareFunc) {
	u := g.Group("/users")
	u.POST("/register", h.Register)
	u.POST("/login", h.Login)
	u.POST("/forgotpassword", h.ForgotPassword)
	u.PUT("/resetpassword/:id", h.ResetPassword)

	u.GET("", h.List, auth, admin)
	u.GET("/shipping/:id", h.Shipping, auth, middleware.RequireSelfOrRole("id", model.RoleAdmin))
	u.GET("/:id", h.Get, auth, middleware.RequireSelfOrRole("id", model.RoleAdmin))
	u.PUT("/:id", h.Update, auth, middleware.RequireSelfOrRole("id", model.RoleAdmin))
}
