// Package api is the HTTP client for the fichas processing service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/datanaut/fichas/internal/config"
)

// StatusFetcher probes API liveness. It is implemented by *Client and can be
// replaced in tests.
type StatusFetcher interface {
	Info(ctx context.Context) (*InfoResponse, error)
	Health(ctx context.Context) (*HealthResponse, error)
}

// Processor submits PDF batches for conversion into a spreadsheet.
type Processor interface {
	ProcessPDFs(ctx context.Context, docs []Document) ([]byte, error)
}

// Document is a single file to upload.
type Document interface {
	FileName() string
	Open() (io.ReadCloser, error)
}

var (
	_ StatusFetcher = (*Client)(nil)
	_ Processor     = (*Client)(nil)
)

// Client talks to the fichas processing API.
type Client struct {
	baseURL   *url.URL
	endpoints config.Endpoints
	http      *http.Client
	userAgent string
	logger    *slog.Logger
}

const (
	defaultUserAgent = "fichas/0.1"
	pdfContentType   = "application/pdf"
	filesField       = "files"
	requestIDHeader  = "X-Request-ID"
)

// NewClient builds a Client from cfg. A nil logger discards client logs.
func NewClient(cfg config.Config, logger *slog.Logger) (*Client, error) {
	base, err := parseBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.RequestTimeout
	}
	endpoints := cfg.Endpoints
	if endpoints == (config.Endpoints{}) {
		endpoints = config.DefaultEndpoints()
	}
	return &Client{
		baseURL:   base,
		endpoints: endpoints,
		http: &http.Client{
			Timeout: timeout,
		},
		userAgent: defaultUserAgent,
		logger:    logger,
	}, nil
}

// BaseURL reports the API root the client talks to.
func (c *Client) BaseURL() string {
	if c == nil || c.baseURL == nil {
		return ""
	}
	return c.baseURL.String()
}

// Info calls the root endpoint, which doubles as a liveness probe.
func (c *Client) Info(ctx context.Context) (*InfoResponse, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload InfoResponse
	if err := c.getJSON(ctx, c.endpoints.Root, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Health calls the health endpoint.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload HealthResponse
	if err := c.getJSON(ctx, c.endpoints.Health, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// ProcessPDFs uploads docs as repeated "files" parts and returns the
// generated spreadsheet. Failures carry the server detail via *Error.
func (c *Client) ProcessPDFs(ctx context.Context, docs []Document) ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("no documents to upload")
	}

	body, contentType, err := encodeMultipart(docs)
	if err != nil {
		return nil, err
	}

	rel := &url.URL{Path: c.endpoints.ProcessPDFs}
	req, err := c.newRequest(ctx, http.MethodPost, rel, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/octet-stream, application/json")

	c.logger.Info("submitting pdfs",
		"files", len(docs),
		"bytes", body.Len(),
		"request_id", req.Header.Get(requestIDHeader),
	)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return nil, newError(rel.Path, resp)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	c.logger.Info("pdfs processed",
		"bytes", len(data),
		"request_id", req.Header.Get(requestIDHeader),
	)
	return data, nil
}

func (c *Client) getJSON(ctx context.Context, path string, dest any) error {
	rel := &url.URL{Path: path}
	req, err := c.newRequest(ctx, http.MethodGet, rel, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return newError(rel.Path, resp)
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method string, rel *url.URL, body io.Reader) (*http.Request, error) {
	reqURL := *c.baseURL
	reqURL.Path = c.baseURL.Path + rel.Path
	reqURL.RawPath = ""
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(requestIDHeader, uuid.NewString())
	return req, nil
}

func encodeMultipart(docs []Document) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, doc := range docs {
		if err := writePart(writer, doc); err != nil {
			return nil, "", err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return &buf, writer.FormDataContentType(), nil
}

func writePart(writer *multipart.Writer, doc Document) error {
	name := doc.FileName()
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, filesField, escapeQuotes(name)))
	header.Set("Content-Type", pdfContentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return fmt.Errorf("create part %s: %w", name, err)
	}
	src, err := doc.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	defer func() { _ = src.Close() }()
	if _, err := io.Copy(part, src); err != nil {
		return fmt.Errorf("copy %s: %w", name, err)
	}
	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("api base url is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse base url %q: missing host", raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
