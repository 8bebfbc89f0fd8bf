package handler

import (
	"log"
	"strconv"

	"roomchat/backend/internal/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// respondError writes err as {"error": kind, "message": text} with the
// status of its kind. Internal details never reach the client.
func respondError(c *gin.Context, err error) {
	appErr := apperrors.From(err)
	message := appErr.Message
	switch appErr.Kind {
	case apperrors.KindInternal, apperrors.KindConflict:
		log.Printf("ERROR: %s %s: %v", c.Request.Method, c.FullPath(), err)
	case apperrors.KindUnavailable:
		log.Printf("WARNING: %s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	if appErr.Kind == apperrors.KindInternal {
		message = "internal error"
	}
	c.AbortWithStatusJSON(apperrors.HTTPStatus(err), gin.H{
		"error":   appErr.Kind,
		"message": message,
	})
}

func roomIDParam(c *gin.Context) (string, bool) {
	id, err := uuid.Parse(c.Param("roomID"))
	if err != nil {
		respondError(c, apperrors.InvalidInput("invalid room id"))
		return "", false
	}
	return id.String(), true
}

func int64Param(c *gin.Context, name string) (int64, bool) {
	v, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || v <= 0 {
		respondError(c, apperrors.InvalidInput("invalid "+name))
		return 0, false
	}
	return v, true
}

func intQuery(c *gin.Context, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		respondError(c, apperrors.InvalidInput("invalid "+name))
		return 0, false
	}
	return v, true
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, apperrors.InvalidInput("malformed request body"))
		return false
	}
	return true
}
