package handlers

import (
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/SscSPs/vidtube_backend/internal/apperrors"
	"github.com/SscSPs/vidtube_backend/internal/core/domain"
	"github.com/SscSPs/vidtube_backend/internal/dto"
	"github.com/SscSPs/vidtube_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// respondOK writes the success envelope.
func respondOK(c *gin.Context, status int, data any, message string) {
	c.JSON(status, dto.NewAPIResponse(status, data, message))
}

// respondError renders err as the failure envelope. Server errors are logged
// with their cause; client errors at debug level only.
func respondError(c *gin.Context, err error) {
	appErr := apperrors.FromError(err)
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if appErr.Code >= http.StatusInternalServerError {
		logger.Error("Request failed", slog.Int("status", appErr.Code), slog.String("error", err.Error()))
	} else {
		logger.Debug("Request rejected", slog.Int("status", appErr.Code), slog.String("error", err.Error()))
	}
	c.JSON(appErr.Code, dto.NewAPIErrorResponse(appErr.Code, appErr.Message, appErr.Errors))
}

// formMedia reads an optional multipart file. It returns a nil file when the
// field is absent; the returned closer is always safe to call.
func formMedia(c *gin.Context, field string, maxBytes int64) (*domain.MediaFile, func(), error) {
	noop := func() {}
	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, noop, nil
		}
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, noop, apperrors.NewBadRequestError("Uploaded file is too large").WithCause(err)
		}
		// A non-multipart body simply has no files.
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, noop, nil
		}
		return nil, noop, apperrors.NewBadRequestError("Invalid multipart form").WithCause(err)
	}
	if maxBytes > 0 && header.Size > maxBytes {
		return nil, noop, apperrors.NewBadRequestError(field + " exceeds the maximum upload size")
	}
	return openMedia(header)
}

func openMedia(header *multipart.FileHeader) (*domain.MediaFile, func(), error) {
	f, err := header.Open()
	if err != nil {
		return nil, func() {}, apperrors.NewBadRequestError("Could not read uploaded file").WithCause(err)
	}
	return &domain.MediaFile{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        f,
	}, func() { _ = f.Close() }, nil
}

// multipartOverhead leaves room for the text fields and part headers of a form.
const multipartOverhead = 1 << 20

// limitBody caps the request body; reads past n fail with *http.MaxBytesError.
func limitBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if n > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		}
		c.Next()
	}
}

func badRequest(msg string, err error) error {
	return apperrors.NewBadRequestError(msg).WithCause(err)
}

func unauthorized() error {
	return apperrors.NewUnauthorizedError("Unauthorized request")
}
