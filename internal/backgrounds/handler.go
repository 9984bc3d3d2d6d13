package backgrounds

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"focus-backend/internal/shared/server/respond"
	"focus-backend/internal/shared/storage/object"
)

// DefaultMaxUploadBytes caps a single create or update request.
const DefaultMaxUploadBytes = 100 << 20 // 100MB

const multipartMemory = 32 << 20

// allowedContentTypes is matched against the part's declared media type.
// The file name is not consulted.
var allowedContentTypes = map[string]struct{}{
	"image/jpg":       {},
	"image/jpeg":      {},
	"image/png":       {},
	"image/gif":       {},
	"video/mp4":       {},
	"video/webm":      {},
	"video/avi":       {},
	"video/mov":       {},
	"video/x-msvideo": {},
	"video/quicktime": {},
}

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
}

// NewHandler constructs a Handler. A non-positive maxUploadBytes uses the default.
func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches background routes to the router group.
func (h *Handler) RegisterRoutes(rg gin.IRoutes) {
	rg.GET("/background", h.list)
	rg.POST("/background", h.create)
	rg.PUT("/background/:id", h.update)
	rg.PATCH("/background/:id", h.update)
	rg.DELETE("/background/:id", h.remove)
}

func (h *Handler) list(c *gin.Context) {
	list, err := h.Svc.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.OK(c, toResponses(list))
}

func (h *Handler) create(c *gin.Context) {
	form, ok := h.readForm(c)
	if !ok {
		return
	}
	defer form.close()

	bg, err := h.Svc.Create(c.Request.Context(), form.body.createInput(), form.primary, form.thumbnail)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Set("backgroundId", bg.ID)
	respond.JSON(c, http.StatusCreated, toResponse(bg))
}

func (h *Handler) update(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	c.Set("backgroundId", id)

	form, ok := h.readForm(c)
	if !ok {
		return
	}
	defer form.close()

	bg, err := h.Svc.Update(c.Request.Context(), id, form.body.patch(), form.primary, form.thumbnail)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.OK(c, toResponse(bg))
}

func (h *Handler) remove(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	c.Set("backgroundId", id)

	res, err := h.Svc.Remove(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond.OK(c, RemoveResponse{Deleted: res.Deleted, Message: res.Message})
}

func (h *Handler) fail(c *gin.Context, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		respond.Error(c, http.StatusBadRequest, "validation_error", verr.Message, nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "background not found", nil)
	case errors.Is(err, ErrUpload):
		respond.Error(c, http.StatusBadGateway, "upload_failed", "asset upload failed", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "background operation failed", nil)
	}
}

// writeForm is a decoded create or update request.
type writeForm struct {
	body      writeRequest
	primary   *object.Binary
	thumbnail *object.Binary
	closers   []io.Closer
}

func (f *writeForm) close() {
	for _, cl := range f.closers {
		_ = cl.Close()
	}
}

// readForm decodes a multipart or JSON body. It writes the error response
// itself and returns ok=false when the request is rejected.
func (h *Handler) readForm(c *gin.Context) (*writeForm, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)
	form := &writeForm{}

	mediaType, _, _ := mime.ParseMediaType(c.GetHeader("Content-Type"))
	if mediaType != "multipart/form-data" {
		if c.Request.ContentLength == 0 {
			return form, true
		}
		if err := c.ShouldBindJSON(&form.body); err != nil {
			if tooLarge(err) {
				respond.Error(c, http.StatusRequestEntityTooLarge, "payload_too_large", "request exceeds upload limit", nil)
				return nil, false
			}
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
			return nil, false
		}
		return form, true
	}

	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil {
		if tooLarge(err) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "payload_too_large", "request exceeds upload limit", nil)
			return nil, false
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid multipart body", nil)
		return nil, false
	}
	mf := c.Request.MultipartForm
	form.body = writeRequest{
		Name:      formValue(mf, "name"),
		Type:      formValue(mf, "type"),
		Style:     formValue(mf, "style"),
		Src:       formValue(mf, "src"),
		Thumbnail: formValue(mf, "thumbnail"),
	}

	var err error
	if fh := formFile(mf, "primary", "src"); fh != nil {
		if form.primary, err = form.open(fh); err != nil {
			form.close()
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return nil, false
		}
	}
	if fh := formFile(mf, "thumbnail"); fh != nil {
		if form.thumbnail, err = form.open(fh); err != nil {
			form.close()
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return nil, false
		}
	}
	return form, true
}

func (f *writeForm) open(fh *multipart.FileHeader) (*object.Binary, error) {
	contentType := strings.TrimSpace(fh.Header.Get("Content-Type"))
	if !allowedFile(contentType) {
		return nil, fmt.Errorf("file type not allowed: %s", fh.Filename)
	}
	file, err := fh.Open()
	if err != nil {
		return nil, errors.New("unable to read file")
	}
	f.closers = append(f.closers, file)
	return &object.Binary{
		FileName:    fh.Filename,
		ContentType: contentType,
		Size:        fh.Size,
		Reader:      file,
	}, nil
}

func allowedFile(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	_, ok := allowedContentTypes[strings.ToLower(mediaType)]
	return ok
}

func formValue(mf *multipart.Form, key string) *string {
	vals, ok := mf.Value[key]
	if !ok || len(vals) == 0 {
		return nil
	}
	v := vals[0]
	return &v
}

func formFile(mf *multipart.Form, keys ...string) *multipart.FileHeader {
	for _, key := range keys {
		if files := mf.File[key]; len(files) > 0 {
			return files[0]
		}
	}
	return nil
}

func tooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
