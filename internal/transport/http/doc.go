// Package http provides the chi HTTP handlers for the cleaning API:
// multipart CSV/XLSX uploads into the invoice and stock pipelines,
// token-based downloads of cleaned files, the public read-only share
// page, and health endpoints. Handlers depend on narrow service
// interfaces and render structured errors through chi/render.
package http
