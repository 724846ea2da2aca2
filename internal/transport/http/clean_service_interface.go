package http

import (
	"context"

	"aibox/internal/services"
	"aibox/internal/share"
)

// CleanServiceInterface defines what the clean handler needs from the
// service layer, kept narrow for testability.
type CleanServiceInterface interface {
	CleanInvoices(ctx context.Context, filename string, data []byte, req services.InvoiceRequest) (*services.InvoiceResponse, error)
	CleanStock(ctx context.Context, filename string, data []byte, req services.StockRequest) (*services.StockResponse, error)
	Resolve(token string) (share.Entry, error)
	RenderShare(token string, limit int) ([]byte, error)
}
