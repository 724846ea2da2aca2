package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "aibox/internal/errors"
	"aibox/internal/services"
)

// CleanHandler handles upload, download, and share requests around the
// cleaning pipelines.
type CleanHandler struct {
	service    CleanServiceInterface
	logger     *slog.Logger
	maxUpload  int64
	shareLimit int
}

// NewCleanHandler creates a clean handler.
func NewCleanHandler(service CleanServiceInterface, logger *slog.Logger, maxUpload int64, shareLimit int) *CleanHandler {
	return &CleanHandler{
		service:    service,
		logger:     logger.With(slog.String("handler", "clean")),
		maxUpload:  maxUpload,
		shareLimit: shareLimit,
	}
}

// APIRoutes returns the /api routes.
func (h *CleanHandler) APIRoutes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Post("/clean", h.CleanInvoices)
	r.Post("/stock/clean", h.CleanStock)
	r.Get("/download/{token}", h.Download)
	return r
}

// CleanInvoices handles POST /api/clean.
func (h *CleanHandler) CleanInvoices(w http.ResponseWriter, r *http.Request) {
	filename, data, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	req := services.DefaultInvoiceRequest()
	req.Format = formValue(r, "fmt", req.Format)
	req.FuzzyThreshold = intValue(r, "fuzzy", req.FuzzyThreshold)
	req.DropDuplicates = boolValue(r, "drop_dupes", req.DropDuplicates)
	req.DropNegativeQty = boolValue(r, "drop_negative_qty", req.DropNegativeQty)
	req.FlagDueBeforeIssue = boolValue(r, "flag_due_issue", req.FlagDueBeforeIssue)

	resp, err := h.service.CleanInvoices(r.Context(), filename, data, req)
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}
	render.JSON(w, r, resp)
}

// CleanStock handles POST /api/stock/clean.
func (h *CleanHandler) CleanStock(w http.ResponseWriter, r *http.Request) {
	filename, data, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	req := services.DefaultStockRequest()
	req.Format = formValue(r, "fmt", req.Format)
	req.DaysExpiring = intValue(r, "days_expiring", req.DaysExpiring)
	req.DropNegativeQty = boolValue(r, "drop_negative_qty", req.DropNegativeQty)

	resp, err := h.service.CleanStock(r.Context(), filename, data, req)
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}
	render.JSON(w, r, resp)
}

// Download handles GET /api/download/{token}.
func (h *CleanHandler) Download(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	entry, err := h.service.Resolve(token)
	if err != nil {
		render.Render(w, r, apierrors.ErrTokenNotFound)
		return
	}

	format := formValue(r, "fmt", "csv")
	mime := "text/csv"
	if format == "xlsx" {
		mime = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}

	file, err := os.Open(entry.Path)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to open stored file",
			slog.String("token", token),
			slog.String("error", err.Error()))
		render.Render(w, r, apierrors.FileSystemError(err))
		return
	}
	defer file.Close()

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="cleaned.%s"`, format))
	if _, err := io.Copy(w, file); err != nil {
		h.logger.WarnContext(r.Context(), "download interrupted",
			slog.String("token", token),
			slog.String("error", err.Error()))
	}
}

// SharePage handles GET /share/{token}.
func (h *CleanHandler) SharePage(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	page, err := h.service.RenderShare(token, h.shareLimit)
	if err != nil {
		if errors.Is(err, services.ErrTokenNotFound) {
			render.Render(w, r, apierrors.ErrTokenNotFound)
			return
		}
		h.logger.ErrorContext(r.Context(), "failed to render share page",
			slog.String("token", token),
			slog.String("error", err.Error()))
		render.Render(w, r, apierrors.ErrInternalServer)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

// readUpload enforces the size cap and extracts the multipart file.
func (h *CleanHandler) readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			render.Render(w, r, apierrors.ErrPayloadTooLarge)
		} else {
			render.Render(w, r, apierrors.InvalidRequestWithError(err))
		}
		return "", nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		render.Render(w, r, apierrors.InvalidRequestWithError(err))
		return "", nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			render.Render(w, r, apierrors.ErrPayloadTooLarge)
		} else {
			render.Render(w, r, apierrors.InvalidRequestWithError(err))
		}
		return "", nil, false
	}
	return header.Filename, data, true
}

func (h *CleanHandler) renderServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrUnsupportedFileType):
		render.Render(w, r, apierrors.ErrUnsupportedFileType)
	case errors.Is(err, services.ErrUnreadableFile):
		render.Render(w, r, apierrors.NewWithDetails(http.StatusBadRequest, "UNREADABLE_FILE", "Failed to read uploaded file", err.Error()))
	case errors.Is(err, services.ErrEmptyTable):
		render.Render(w, r, apierrors.ErrEmptyTable)
	default:
		h.logger.ErrorContext(r.Context(), "cleaning failed",
			slog.String("error", err.Error()))
		render.Render(w, r, apierrors.NewWithDetails(http.StatusBadRequest, "CLEANING_FAILED", "Could not process file", err.Error()))
	}
}

func formValue(r *http.Request, key, fallback string) string {
	if v := r.FormValue(key); v != "" {
		return v
	}
	return fallback
}

func intValue(r *http.Request, key string, fallback int) int {
	if v := r.FormValue(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func boolValue(r *http.Request, key string, fallback bool) bool {
	if v := r.FormValue(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
