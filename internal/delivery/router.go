package delivery

import (
	"net/http"

	"storefront_service/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"
)

type RouterDeps struct {
	Categories *CategoryHandler
	Products   *ProductHandler
	Purchases  *PurchaseHandler
	Auth       *AuthHandler
	Uploads    *UploadHandler
	Admin      *AdminHandler

	Verifier middleware.TokenVerifier
	Store    sessions.Store
	// MediaDir is served under /media when set (local storage).
	MediaDir string
	Log      *logrus.Logger
}

func NewRouter(d RouterDeps) *gin.Engine {
	router := gin.New()
	router.SetHTMLTemplate(loginPage)
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(d.Log))
	router.Use(middleware.Authenticate(d.Verifier, d.Store, d.Log))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if d.MediaDir != "" {
		router.Static("/media", d.MediaDir)
	}

	d.Categories.RegisterRoutes(router)
	d.Products.RegisterRoutes(router)
	d.Auth.RegisterRoutes(router)

	protected := router.Group("/")
	protected.Use(middleware.AuthGuard(d.Store, d.Log))
	d.Purchases.RegisterRoutes(protected)

	admin := router.Group("/admin")
	admin.Use(middleware.AuthGuard(d.Store, d.Log))
	{
		admin.GET("", d.Admin.Summary)
		d.Categories.RegisterAdminRoutes(admin)
		d.Products.RegisterAdminRoutes(admin)
		d.Uploads.RegisterAdminRoutes(admin)
		d.Purchases.RegisterAdminRoutes(admin)
	}
	return router
}
