package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aibox/internal/cleaning"
	"aibox/internal/services"
	"aibox/internal/share"
)

// stubCleanService records calls and returns canned responses.
type stubCleanService struct {
	invoiceReq  services.InvoiceRequest
	stockReq    services.StockRequest
	invoiceErr  error
	stockErr    error
	resolveErr  error
	entry       share.Entry
	sharePage   []byte
	shareErr    error
	gotFilename string
}

func (s *stubCleanService) CleanInvoices(_ context.Context, filename string, _ []byte, req services.InvoiceRequest) (*services.InvoiceResponse, error) {
	s.gotFilename = filename
	s.invoiceReq = req
	if s.invoiceErr != nil {
		return nil, s.invoiceErr
	}
	return &services.InvoiceResponse{
		Result:        &cleaning.Result{Profile: cleaning.Profile{RowsIn: 4, RowsOut: 3}},
		DownloadToken: "tok-inv",
		ShareURL:      "/share/tok-inv",
	}, nil
}

func (s *stubCleanService) CleanStock(_ context.Context, filename string, _ []byte, req services.StockRequest) (*services.StockResponse, error) {
	s.gotFilename = filename
	s.stockReq = req
	if s.stockErr != nil {
		return nil, s.stockErr
	}
	return &services.StockResponse{
		StockResult:   &cleaning.StockResult{Profile: cleaning.StockProfile{RowsIn: 2, RowsOut: 2}},
		DownloadToken: "tok-stock",
		ShareURL:      "/share/tok-stock",
	}, nil
}

func (s *stubCleanService) Resolve(string) (share.Entry, error) {
	if s.resolveErr != nil {
		return share.Entry{}, s.resolveErr
	}
	return s.entry, nil
}

func (s *stubCleanService) RenderShare(string, int) ([]byte, error) {
	if s.shareErr != nil {
		return nil, s.shareErr
	}
	return s.sharePage, nil
}

func newTestRouter(stub *stubCleanService, maxUpload int64) chi.Router {
	h := NewCleanHandler(stub, slog.New(slog.NewTextHandler(io.Discard, nil)), maxUpload, 200)
	r := chi.NewRouter()
	r.Mount("/api", h.APIRoutes())
	r.Get("/share/{token}", h.SharePage)
	return r
}

func multipartUpload(t *testing.T, filename, content string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func TestCleanInvoicesEndpoint(t *testing.T) {
	stub := &stubCleanService{}
	router := newTestRouter(stub, 1<<20)

	body, contentType := multipartUpload(t, "invoices.csv", "Invoice No,Total\nINV-1,100\n", map[string]string{
		"fuzzy":      "80",
		"drop_dupes": "false",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/clean", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "invoices.csv", stub.gotFilename)
	assert.Equal(t, 80, stub.invoiceReq.FuzzyThreshold)
	assert.False(t, stub.invoiceReq.DropDuplicates)
	assert.True(t, stub.invoiceReq.FlagDueBeforeIssue, "unset options keep their defaults")

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "tok-inv", resp["download_token"])
	assert.Equal(t, "/share/tok-inv", resp["share_url"])
	profile, ok := resp["profile"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(4), profile["rows_in"])
}

func TestCleanStockEndpoint(t *testing.T) {
	stub := &stubCleanService{}
	router := newTestRouter(stub, 1<<20)

	body, contentType := multipartUpload(t, "stock.csv", "SKU,Qty\nA,5\n", map[string]string{
		"days_expiring":     "45",
		"drop_negative_qty": "true",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/stock/clean", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 45, stub.stockReq.DaysExpiring)
	assert.True(t, stub.stockReq.DropNegativeQty)
}

func TestCleanInvoicesUnsupportedFileType(t *testing.T) {
	stub := &stubCleanService{invoiceErr: fmt.Errorf("%w: report.pdf", services.ErrUnsupportedFileType)}
	router := newTestRouter(stub, 1<<20)

	body, contentType := multipartUpload(t, "report.pdf", "%PDF", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/clean", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "UNSUPPORTED_FILE_TYPE", resp["error_code"])
}

func TestCleanInvoicesEmptyTable(t *testing.T) {
	stub := &stubCleanService{invoiceErr: services.ErrEmptyTable}
	router := newTestRouter(stub, 1<<20)

	body, contentType := multipartUpload(t, "empty.csv", "a,b\n", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/clean", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "EMPTY_TABLE", resp["error_code"])
}

func TestCleanInvoicesMissingFilePart(t *testing.T) {
	stub := &stubCleanService{}
	router := newTestRouter(stub, 1<<20)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("fuzzy", "90"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/clean", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_REQUEST", resp["error_code"])
}

func TestCleanInvoicesPayloadTooLarge(t *testing.T) {
	stub := &stubCleanService{}
	router := newTestRouter(stub, 64)

	body, contentType := multipartUpload(t, "big.csv", string(bytes.Repeat([]byte("x"), 4096)), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/clean", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestDownloadServesStoredFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cleaned.csv")
	require.NoError(t, os.WriteFile(path, []byte("invoice_id,total_amount\nINV-1,120\n"), 0644))

	stub := &stubCleanService{entry: share.Entry{Path: path, Kind: share.KindInvoices}}
	router := newTestRouter(stub, 1<<20)

	req := httptest.NewRequest(http.MethodGet, "/api/download/tok-inv", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="cleaned.csv"`)
	assert.Contains(t, rec.Body.String(), "INV-1,120")
}

func TestDownloadUnknownToken(t *testing.T) {
	stub := &stubCleanService{resolveErr: services.ErrTokenNotFound}
	router := newTestRouter(stub, 1<<20)

	req := httptest.NewRequest(http.MethodGet, "/api/download/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "TOKEN_NOT_FOUND", resp["error_code"])
}

func TestSharePage(t *testing.T) {
	stub := &stubCleanService{sharePage: []byte("<html><body>preview</body></html>")}
	router := newTestRouter(stub, 1<<20)

	req := httptest.NewRequest(http.MethodGet, "/share/tok-inv", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "preview")
}

func TestSharePageUnknownToken(t *testing.T) {
	stub := &stubCleanService{shareErr: services.ErrTokenNotFound}
	router := newTestRouter(stub, 1<<20)

	req := httptest.NewRequest(http.MethodGet, "/share/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
