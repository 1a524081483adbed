package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/NancyCima/Azure-Dashboard/internal/shared/apperr"
	"github.com/NancyCima/Azure-Dashboard/internal/shared/server/respond"
	"github.com/NancyCima/Azure-Dashboard/internal/shared/util"
)

const (
	defaultMaxImages     = 5
	defaultMaxImageBytes = 5 << 20
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Handler wires HTTP handlers to the analysis service.
type Handler struct {
	Svc           *Service
	MaxImages     int
	MaxImageBytes int64
}

// NewHandler constructs a Handler with upload limits. Non-positive limits
// fall back to 5 images of 5MB each.
func NewHandler(svc *Service, maxImages int, maxImageBytes int64) *Handler {
	if maxImages <= 0 {
		maxImages = defaultMaxImages
	}
	if maxImageBytes <= 0 {
		maxImageBytes = defaultMaxImageBytes
	}
	return &Handler{Svc: svc, MaxImages: maxImages, MaxImageBytes: maxImageBytes}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyze-ticket", h.analyze)
}

func (h *Handler) analyze(c *gin.Context) {
	limit := int64(h.MaxImages)*h.MaxImageBytes + 1<<20
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

	form, err := c.MultipartForm()
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		respond.AppError(c, apperr.Input("unable to read form", err.Error()))
		return
	}

	raw := c.PostForm("ticket")
	if strings.TrimSpace(raw) == "" {
		respond.Error(c, http.StatusBadRequest, apperr.CodeValidation, "ticket is required", nil)
		return
	}
	var ticket Ticket
	if err := json.Unmarshal([]byte(raw), &ticket); err != nil {
		respond.Error(c, http.StatusBadRequest, apperr.CodeValidation, "invalid ticket JSON", err.Error())
		return
	}
	if link := strings.TrimSpace(c.PostForm("figma_link")); link != "" {
		ticket.FigmaLink = link
	}
	if ticket.ID != 0 {
		c.Set("workItemId", ticket.ID)
	}

	uploads, err := h.readUploads(form)
	if err != nil {
		respond.AppError(c, err)
		return
	}

	result, err := h.Svc.Analyze(c.Request.Context(), ticket, uploads)
	if err != nil {
		respond.AppError(c, err)
		return
	}
	c.Set("analysisLanguage", string(result.Language))
	respond.OK(c, gin.H{"status": "success", "criteria": result})
}

func (h *Handler) readUploads(form *multipart.Form) ([]Upload, error) {
	if form == nil {
		return nil, nil
	}
	files := form.File["files"]
	if len(files) > h.MaxImages {
		return nil, apperr.Input(fmt.Sprintf("at most %d images are allowed", h.MaxImages), "")
	}
	uploads := make([]Upload, 0, len(files))
	for i, fh := range files {
		if fh.Size > h.MaxImageBytes {
			return nil, apperr.Input("image too large", fmt.Sprintf("%s exceeds %d bytes", fh.Filename, h.MaxImageBytes))
		}
		data, err := readFile(fh, h.MaxImageBytes)
		if err != nil {
			return nil, apperr.Input("unable to read image", err.Error())
		}
		contentType := http.DetectContentType(data)
		if !allowedImageTypes[contentType] {
			return nil, apperr.Input("unsupported image type", contentType)
		}
		name, err := util.SanitizeFileName(fh.Filename)
		if err != nil {
			name = fmt.Sprintf("image-%d", i+1)
		}
		uploads = append(uploads, Upload{Filename: name, ContentType: contentType, Data: data})
	}
	return uploads, nil
}

func readFile(fh *multipart.FileHeader, max int64) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, max+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > max {
		return nil, fmt.Errorf("%s exceeds %d bytes", fh.Filename, max)
	}
	return data, nil
}
