package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/linkgate/internal/logging"
)

type startUnlockRequest struct {
	LinkID int64 `json:"linkId" binding:"required,gt=0"`
}

// Fields other than completedActions (unlocked, unlockedAt) are not bound;
// the server derives them.
type completionRequest struct {
	CompletedActions []string `json:"completedActions"`
}

func StartUnlock(svc UnlockService, l logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req startUnlockRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		st, err := svc.GetOrCreate(c.Request.Context(), req.LinkID)
		if err != nil {
			writeError(c, l, err)
			return
		}
		c.JSON(http.StatusOK, st)
	}
}

func RecordCompletion(svc UnlockService, l logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		var req completionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		st, err := svc.RecordCompletion(c.Request.Context(), id, req.CompletedActions)
		if err != nil {
			writeError(c, l, err)
			return
		}
		c.JSON(http.StatusOK, st)
	}
}

func ListFiles(svc FileService, l logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		linkID, ok := paramID(c, "linkId")
		if !ok {
			return
		}
		list, err := svc.List(c.Request.Context(), linkID)
		if err != nil {
			writeError(c, l, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// UploadFile accepts multipart field "file". Bodies over maxBytes get 413.
func UploadFile(svc FileService, l logging.Logger, maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		linkID, ok := paramID(c, "linkId")
		if !ok {
			return
		}
		if maxBytes > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		fh, err := c.FormFile("file")
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
				return
			}
			badRequest(c, "file is required")
			return
		}
		f, err := fh.Open()
		if err != nil {
			writeError(c, l, err)
			return
		}
		defer f.Close()

		att, err := svc.Upload(c.Request.Context(), currentUserID(c), linkID, fh.Filename, fh.Header.Get("Content-Type"), fh.Size, f)
		if err != nil {
			writeError(c, l, err)
			return
		}
		c.JSON(http.StatusCreated, att)
	}
}

func DownloadFile(svc FileService, l logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		u, err := svc.ResolveDownloadURL(c.Request.Context(), id)
		if err != nil {
			writeError(c, l, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"downloadUrl": u})
	}
}
