package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"aibox/internal/cleaning"
	"aibox/internal/exporter"
	"aibox/internal/share"
	"aibox/internal/tabular"
)

// InvoiceRequest carries the caller-supplied invoice cleaning options.
type InvoiceRequest struct {
	Format             string `json:"fmt" validate:"oneof=csv xlsx"`
	FuzzyThreshold     int    `json:"fuzzy" validate:"min=0,max=100"`
	DropDuplicates     bool   `json:"drop_dupes"`
	DropNegativeQty    bool   `json:"drop_negative_qty"`
	FlagDueBeforeIssue bool   `json:"flag_due_issue"`
}

// DefaultInvoiceRequest mirrors the pipeline defaults.
func DefaultInvoiceRequest() InvoiceRequest {
	return InvoiceRequest{
		Format:             "csv",
		FuzzyThreshold:     90,
		DropDuplicates:     true,
		FlagDueBeforeIssue: true,
	}
}

// StockRequest carries the caller-supplied stock cleaning options.
type StockRequest struct {
	Format          string `json:"fmt" validate:"oneof=csv xlsx"`
	DaysExpiring    int    `json:"days_expiring" validate:"min=0,max=3650"`
	DropNegativeQty bool   `json:"drop_negative_qty"`
}

// DefaultStockRequest mirrors the pipeline defaults.
func DefaultStockRequest() StockRequest {
	return StockRequest{Format: "csv", DaysExpiring: 30}
}

// InvoiceResponse is the invoice cleaning result plus the artifact
// handles, the cleaned table itself stays on disk.
type InvoiceResponse struct {
	*cleaning.Result
	DownloadToken string `json:"download_token"`
	ShareURL      string `json:"share_url"`
}

// StockResponse is the stock analog of InvoiceResponse.
type StockResponse struct {
	*cleaning.StockResult
	DownloadToken string `json:"download_token"`
	ShareURL      string `json:"share_url"`
}

// CleanService wires the cleaning pipelines to the exporter and the
// token store. One instance serves concurrent requests; each request
// owns its table, so the only shared state is the store.
type CleanService struct {
	logger    *slog.Logger
	store     share.Store
	outputDir string
	validate  *validator.Validate
}

// NewCleanService creates a clean service writing artifacts to outputDir.
func NewCleanService(logger *slog.Logger, store share.Store, outputDir string) *CleanService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CleanService{
		logger:    logger.With(slog.String("component", "clean_service")),
		store:     store,
		outputDir: outputDir,
		validate:  validator.New(),
	}
}

// CleanInvoices parses the uploaded bytes, runs the invoice pipeline,
// persists the cleaned table, and registers it for download/share.
func (s *CleanService) CleanInvoices(ctx context.Context, filename string, data []byte, req InvoiceRequest) (*InvoiceResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	table, err := s.parseUpload(ctx, filename, data)
	if err != nil {
		return nil, err
	}

	result := cleaning.CleanInvoices(table, cleaning.Config{
		FuzzyThreshold:     req.FuzzyThreshold,
		DropDuplicates:     req.DropDuplicates,
		DropNegativeQty:    req.DropNegativeQty,
		FlagDueBeforeIssue: req.FlagDueBeforeIssue,
	})

	token, shareURL, err := s.persist(result.Clean, req.Format, "aibox_inv", share.KindInvoices)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "invoices cleaned",
		slog.String("file", filename),
		slog.Int("rows_in", result.Profile.RowsIn),
		slog.Int("rows_out", result.Profile.RowsOut),
		slog.Int("duplicates_removed", result.Profile.DuplicatesRemoved))

	return &InvoiceResponse{Result: result, DownloadToken: token, ShareURL: shareURL}, nil
}

// CleanStock parses the uploaded bytes, runs the stock pipeline,
// persists the cleaned table, and registers it for download/share.
func (s *CleanService) CleanStock(ctx context.Context, filename string, data []byte, req StockRequest) (*StockResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	table, err := s.parseUpload(ctx, filename, data)
	if err != nil {
		return nil, err
	}

	result := cleaning.CleanStock(table, cleaning.StockOptions{
		DaysExpiring:    req.DaysExpiring,
		DropNegativeQty: req.DropNegativeQty,
	})

	token, shareURL, err := s.persist(result.Clean, req.Format, "aibox_stock", share.KindStock)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "stock cleaned",
		slog.String("file", filename),
		slog.Int("rows_in", result.Profile.RowsIn),
		slog.Int("rows_out", result.Profile.RowsOut))

	return &StockResponse{StockResult: result, DownloadToken: token, ShareURL: shareURL}, nil
}

// Resolve looks a token up in the store, checking the file still exists.
func (s *CleanService) Resolve(token string) (share.Entry, error) {
	entry, ok := s.store.Get(token)
	if !ok {
		return share.Entry{}, ErrTokenNotFound
	}
	if _, err := os.Stat(entry.Path); err != nil {
		return share.Entry{}, ErrTokenNotFound
	}
	return entry, nil
}

// RenderShare renders the public HTML preview for a token.
func (s *CleanService) RenderShare(token string, limit int) ([]byte, error) {
	entry, err := s.Resolve(token)
	if err != nil {
		return nil, err
	}
	return share.RenderPage(entry.Path, entry.Kind, limit)
}

func (s *CleanService) parseUpload(ctx context.Context, filename string, data []byte) (*tabular.Table, error) {
	low := strings.ToLower(filename)
	if !strings.HasSuffix(low, ".csv") && !strings.HasSuffix(low, ".xlsx") {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFileType, filename)
	}
	table, err := tabular.ReadFile(filename, data)
	if err != nil {
		s.logger.WarnContext(ctx, "unreadable upload",
			slog.String("file", filename),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	if table.Len() == 0 {
		return nil, ErrEmptyTable
	}
	return table, nil
}

func (s *CleanService) persist(t *tabular.Table, format, prefix, kind string) (token, shareURL string, err error) {
	path := filepath.Join(s.outputDir, fmt.Sprintf("%s_%s.%s", prefix, uuid.New().String(), format))

	if format == "xlsx" {
		err = exporter.WriteXLSX(path, t)
	} else {
		err = exporter.WriteCSV(path, t, exporter.CSVOptions{})
	}
	if err != nil {
		return "", "", fmt.Errorf("failed to write cleaned file: %w", err)
	}

	token = s.store.Put(path, kind)
	return token, "/share/" + token, nil
}
