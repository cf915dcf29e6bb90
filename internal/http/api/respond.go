package api

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/radahn42/chronicles/internal/domain/models"
)

var ErrBadRequest = errors.New("request body must be a JSON object")

// HandlerFunc produces the JSON payload of a response.
type HandlerFunc func(c *gin.Context) (any, error)

func (h *Handlers) respond(fn HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := fn(c)
		if err != nil {
			h.writeError(c, err)
			return
		}

		c.JSON(http.StatusOK, payload)
	}
}

func (h *Handlers) writeError(c *gin.Context, err error) {
	_ = c.Error(err)

	switch {
	case errors.Is(err, ErrBadRequest):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": ErrBadRequest.Error()})
	default:
		h.log.ErrorContext(c.Request.Context(), "request failed",
			slog.String("route", c.FullPath()),
			slog.Any("error", err),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"message": http.StatusText(http.StatusInternalServerError),
		})
	}
}

// bindDocument decodes the request body as a JSON object. An empty body is
// an empty object.
func bindDocument(c *gin.Context) (models.Document, error) {
	body, err := c.GetRawData()
	if err != nil {
		return nil, errors.Join(ErrBadRequest, err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return models.Document{}, nil
	}

	var doc models.Document
	if err := binding.JSON.BindBody(body, &doc); err != nil {
		return nil, errors.Join(ErrBadRequest, err)
	}
	if doc == nil {
		return nil, ErrBadRequest
	}

	return doc, nil
}
