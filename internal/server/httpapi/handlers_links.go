package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/linkgate/internal/logging"
	"github.com/dmitrijs2005/linkgate/internal/server/models"
)

type connectionRequest struct {
	URL string `json:"url" binding:"required"`
}

func ListConnections(svc ConnectionService, l logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svc.List(c.Request.Context(), currentUserID(c))
		if err != nil {
			writeError(c, l, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// CreateConnection stores a connection. Any platform sent by the client is
// ignored; it is derived from the url.
func CreateConnection(svc ConnectionService, l logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req connectionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		conn, err := svc.Create(c.Request.Context(), currentUserID(c), req.URL)
		if err != nil {
			writeError(c, l, err)
			return
		}
		c.JSON(http.StatusCreated, conn)
	}
}

func UpdateConnection(svc ConnectionService, l logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		var req connectionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		conn, err := svc.Update(c.Request.Context(), currentUserID(c), id, req.URL)
		if err != nil {
			writeError(c, l, err)
			return
		}
		c.JSON(http.StatusOK, conn)
	}
}

func DeleteConnection(svc ConnectionService, l logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		if err := svc.Delete(c.Request.Context(), currentUserID(c), id); err != nil {
			writeError(c, l, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func ListLinks(svc LinkService, l logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svc.ListByOwner(c.Request.Context(), currentUserID(c))
		if err != nil {
			writeError(c, l, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func CreateLink(svc LinkService, l logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in models.LinkCreate
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, err.Error())
			return
		}

		link, err := svc.Create(c.Request.Context(), currentUserID(c), in)
		if err != nil {
			writeError(c, l, err)
			return
		}
		c.JSON(http.StatusCreated, link)
	}
}

// GetLinkByCode is public: it is what an unlock page loads.
func GetLinkByCode(svc LinkService, l logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		link, err := svc.GetByCode(c.Request.Context(), c.Param("code"))
		if err != nil {
			writeError(c, l, err)
			return
		}
		c.JSON(http.StatusOK, link)
	}
}
