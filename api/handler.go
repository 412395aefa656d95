package api

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/soundguard/analysis"
	"github.com/kbukum/soundguard/errors"
	"github.com/kbukum/soundguard/logger"
	"github.com/kbukum/soundguard/server"
)

// UploadPath is the upload route.
const UploadPath = "/upload_audio"

// FileField is the multipart field carrying the clip.
const FileField = "file"

// Handler serves uploads.
type Handler struct {
	pipeline *analysis.Pipeline
	log      *logger.Logger
}

// NewHandler creates a Handler running uploads through p.
func NewHandler(p *analysis.Pipeline, log *logger.Logger) *Handler {
	return &Handler{pipeline: p, log: log.WithComponent("api")}
}

// Register mounts the upload route on r. Extra middleware such as auth or
// rate limiting applies to this route only.
func (h *Handler) Register(r gin.IRouter, mw ...gin.HandlerFunc) {
	r.POST(UploadPath, append(mw, h.Upload)...)
}

// Upload runs the pipeline on the uploaded file. A client that goes away
// cancels the request context, which stops the run before its next stage.
func (h *Handler) Upload(c *gin.Context) {
	fh, err := c.FormFile(FileField)
	if err != nil {
		server.RespondWithError(c, formError(err))
		return
	}
	f, err := fh.Open()
	if err != nil {
		server.RespondWithError(c, errors.Internal(err))
		return
	}
	defer f.Close()

	h.log.WithContext(c.Request.Context()).Debug("upload received", logger.Fields(
		"filename", fh.Filename,
		"size", fh.Size,
	))

	res := h.pipeline.Run(c.Request.Context(), analysis.Clip{Filename: fh.Filename, Body: f})
	c.JSON(res.HTTPStatus(), res.Response())
}

// formError maps a multipart parse failure to the error the client sees.
func formError(err error) *errors.AppError {
	var tooLarge *http.MaxBytesError
	switch {
	case stderrors.As(err, &tooLarge):
		return errors.PayloadTooLarge(tooLarge.Limit)
	case stderrors.Is(err, http.ErrMissingFile), stderrors.Is(err, http.ErrNotMultipart):
		return errors.MissingField(FileField)
	default:
		return errors.InvalidInput(FileField, err.Error())
	}
}
