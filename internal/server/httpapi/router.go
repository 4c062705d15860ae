package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/linkgate/internal/logging"
	"github.com/dmitrijs2005/linkgate/internal/server/metrics"
)

// Deps bundles what the router wires into handlers.
type Deps struct {
	Users       UserService
	Connections ConnectionService
	Links       LinkService
	Unlock      UnlockService
	Files       FileService

	Logger  logging.Logger
	Metrics *metrics.Metrics

	CookieSecure   bool
	MaxUploadBytes int64
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func NewRouter(d Deps) *gin.Engine {
	l := d.Logger
	if l == nil {
		l = logging.Nop{}
	}

	router := gin.New()
	router.Use(Recovery(l))
	router.Use(RequestLogger(l, d.Metrics))

	router.GET("/health", HealthCheck)
	router.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	session := RequireSession(d.Users, l)

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", Register(d.Users, l))
			auth.POST("/login", Login(d.Users, l, d.CookieSecure))
			auth.POST("/logout", Logout(d.Users, l, d.CookieSecure))
			auth.GET("/me", session, Me(d.Users, l))
		}

		account := api.Group("/account", session)
		{
			account.PUT("/profile", UpdateProfile(d.Users, l))
			account.PUT("/security/password", ChangePassword(d.Users, l))
			account.DELETE("", DeleteAccount(d.Users, l, d.CookieSecure))
		}

		connections := api.Group("/connections", session)
		{
			connections.GET("", ListConnections(d.Connections, l))
			connections.POST("", CreateConnection(d.Connections, l))
			connections.PUT("/:id", UpdateConnection(d.Connections, l))
			connections.DELETE("/:id", DeleteConnection(d.Connections, l))
		}

		links := api.Group("/links")
		{
			links.GET("", session, ListLinks(d.Links, l))
			links.POST("", session, CreateLink(d.Links, l))
			links.GET("/:code", GetLinkByCode(d.Links, l))
		}

		unlock := api.Group("/unlock")
		{
			unlock.POST("", StartUnlock(d.Unlock, l))
			unlock.PATCH("/:id", RecordCompletion(d.Unlock, l))
		}

		files := api.Group("/files")
		{
			files.GET("/download/:id", DownloadFile(d.Files, l))
			files.GET("/:linkId", ListFiles(d.Files, l))
			files.POST("/:linkId", session, UploadFile(d.Files, l, d.MaxUploadBytes))
		}
	}

	return router
}
