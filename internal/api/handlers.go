package api

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/youruser/idcards/internal/batch"
	imagepkg "github.com/youruser/idcards/internal/image"
	"github.com/youruser/idcards/internal/roster"
)

// maxQRSize bounds the preview endpoint's size parameter.
const maxQRSize = 2048

type Handler struct {
	svc    *batch.Service
	logger *slog.Logger
}

func NewHandler(svc *batch.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// health
func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexPage)
}

// generate takes a multipart "file" roster and answers with the card archive.
func (h *Handler) generate(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "upload a CSV file in the 'file' field"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()

	var buf bytes.Buffer
	sum, err := h.svc.Run(c.Request.Context(), f, &buf)
	if err != nil {
		status := statusFor(err)
		h.logger.Error("card generation failed", "file", fh.Filename, "status", status, "error", err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, sum.ArchiveName))
	c.Header("X-Cards-Rows", strconv.Itoa(sum.Rows))
	c.Header("X-Cards-Overwritten", strconv.Itoa(sum.Overwritten))
	c.Data(http.StatusOK, "application/zip", buf.Bytes())
}

// qr returns a PNG of the profile QR for the "username" query param
func (h *Handler) qr(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username is required"})
		return
	}
	size := 400
	if sizeStr := c.Query("size"); sizeStr != "" {
		v, err := strconv.Atoi(sizeStr)
		if err != nil || v <= 0 || v > maxQRSize {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("size must be between 1 and %d", maxQRSize)})
			return
		}
		size = v
	}
	b, err := imagepkg.GenerateQRPNG(h.svc.ProfileURL(username), size)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", b)
}

func statusFor(err error) int {
	var rowErr *batch.RowError
	switch {
	case errors.Is(err, roster.ErrSchema):
		return http.StatusBadRequest
	case errors.Is(err, roster.ErrInvalidRecord), errors.As(err, &rowErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
