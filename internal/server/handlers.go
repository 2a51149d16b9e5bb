package server

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ByLCY/carousel/fonts"
	"github.com/ByLCY/carousel/internal/pipeline"
	"github.com/ByLCY/carousel/style"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type renderResponse struct {
	Success      bool       `json:"success"`
	ImageBase64  string     `json:"image_base64"`
	Format       string     `json:"format"`
	Dimensions   dimensions `json:"dimensions"`
	RenderTimeMS int64      `json:"render_time_ms"`
	Cached       bool       `json:"cached"`
}

func fail(c *gin.Context, status int, msg, details string) {
	c.AbortWithStatusJSON(status, errorResponse{Success: false, Error: msg, Details: details})
}

func (s *Server) renderSlide(c *gin.Context) {
	var req pipeline.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			fail(c, http.StatusRequestEntityTooLarge, "Request too large", err.Error())
			return
		}
		fail(c, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}

	res, err := s.renderer.Render(c.Request.Context(), &req)
	switch {
	case err == nil:
	case errors.Is(err, pipeline.ErrMissingFields):
		fail(c, http.StatusBadRequest, "Missing required fields", "Required: slide_number, slide_type, title, brand")
		return
	case errors.Is(err, pipeline.ErrInvalidSlideType):
		fail(c, http.StatusBadRequest, "Invalid slide type", err.Error())
		return
	case errors.Is(err, pipeline.ErrInvalidOutput):
		fail(c, http.StatusBadRequest, "Invalid output options", err.Error())
		return
	default:
		s.logger.Error("render failed", "request_id", c.GetString(requestIDKey), "slide", req.SlideNumber, "err", err)
		fail(c, http.StatusInternalServerError, "Render failed", err.Error())
		return
	}

	// ?raw=true 直接返回图片字节
	if raw, _ := strconv.ParseBool(c.Query("raw")); raw {
		c.Data(http.StatusOK, res.Format.ContentType(), res.Data)
		return
	}
	c.JSON(http.StatusOK, renderResponse{
		Success:      true,
		ImageBase64:  base64.StdEncoding.EncodeToString(res.Data),
		Format:       string(res.Format),
		Dimensions:   dimensions{Width: res.Width, Height: res.Height},
		RenderTimeMS: res.Duration.Milliseconds(),
		Cached:       res.Cached,
	})
}

func (s *Server) listTemplates(c *gin.Context) {
	names := make([]string, 0, len(style.Templates()))
	for _, t := range style.Templates() {
		names = append(names, t.String())
	}
	c.JSON(http.StatusOK, gin.H{"templates": names, "fonts": fonts.Families()})
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func methodNotAllowed(c *gin.Context) {
	fail(c, http.StatusMethodNotAllowed, "Method not allowed", "")
}

func notFound(c *gin.Context) {
	fail(c, http.StatusNotFound, "Not found", "")
}
