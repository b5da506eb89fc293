package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"anime-ringtone/application/conversion"
	"anime-ringtone/domain/preview"
	"anime-ringtone/infrastructure/logger"
)

// Converter runs a conversion request
type Converter interface {
	Convert(ctx context.Context, input conversion.Input) (*conversion.Result, error)
}

// PreviewGetter resolves a preview handle
type PreviewGetter interface {
	Get(ctx context.Context, handle string) (preview.Blob, error)
}

type convertRequest struct {
	YoutubeURL any `json:"youtubeUrl"`
}

// sourceURL reads youtubeUrl the way a loosely typed client sends it.
// Falsy values (absent, null, false, 0, "") count as missing; any other
// non-string is kept in printed form so it fails URL validation.
func (r convertRequest) sourceURL() string {
	switch v := r.YoutubeURL.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if !v {
			return ""
		}
	case float64:
		if v == 0 {
			return ""
		}
	}
	return fmt.Sprint(r.YoutubeURL)
}

type convertResponse struct {
	Success    bool   `json:"success"`
	PreviewURL string `json:"previewUrl"`
	Title      string `json:"title"`
}

// Handlers serves the conversion and preview endpoints
type Handlers struct {
	conversions Converter
	previews    PreviewGetter
	log         logger.Logger
}

// NewHandlers creates the API handlers
func NewHandlers(conversions Converter, previews PreviewGetter, log logger.Logger) *Handlers {
	if log == nil {
		log = logger.NewNop()
	}
	return &Handlers{conversions: conversions, previews: previews, log: log}
}

// Convert handles POST /api/convert.
// A body that does not decode is treated like one without youtubeUrl.
// A youtubeUrl that is not a string is rejected as an invalid URL.
func (h *Handlers) Convert(c *gin.Context) {
	var req convertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		LoggerFrom(c, h.log).Debug("Unreadable conversion body", logger.Error(err))
		req = convertRequest{}
	}

	result, err := h.conversions.Convert(c.Request.Context(), conversion.Input{SourceURL: req.sourceURL()})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, convertResponse{
		Success:    true,
		PreviewURL: result.PreviewURL,
		Title:      result.Title,
	})
}

// Preview handles GET /api/preview/:id
func (h *Handlers) Preview(c *gin.Context) {
	blob, err := h.previews.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Length", strconv.Itoa(blob.Size()))
	c.Header("Cache-Control", preview.CacheControl)
	c.Data(http.StatusOK, blob.ContentType, blob.Data)
}
