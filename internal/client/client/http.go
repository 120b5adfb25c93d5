package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/dmitrijs2005/notetake/internal/api"
	"github.com/dmitrijs2005/notetake/internal/client/models"
	"github.com/dmitrijs2005/notetake/internal/netx"
)

// HTTPClient speaks the collaborator HTTP API.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient targets baseURL, e.g. "http://localhost:3001". A nil hc
// uses a client without timeouts.
func NewHTTPClient(baseURL string, hc *http.Client) *HTTPClient {
	if hc == nil {
		hc = &http.Client{}
	}
	return &HTTPClient{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) Upload(ctx context.Context, name string, r io.Reader) (models.Image, error) {
	contentType, r := sniffContentType(name, r)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, api.UploadField, name))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return models.Image{}, err
	}
	if _, err := io.Copy(part, r); err != nil {
		return models.Image{}, fmt.Errorf("read %s: %w", name, err)
	}
	if err := mw.Close(); err != nil {
		return models.Image{}, err
	}

	var out api.UploadResponse
	if err := c.do(ctx, http.MethodPost, api.PathUpload, mw.FormDataContentType(), &body, &out); err != nil {
		return models.Image{}, err
	}
	return models.Image{URL: out.URL, PublicID: out.PublicID}, nil
}

func (c *HTTPClient) DeleteImage(ctx context.Context, publicID string) error {
	var out api.DeleteImageResponse
	return c.doJSON(ctx, http.MethodDelete, api.PathDeleteImage, api.DeleteImageRequest{PublicID: publicID}, &out)
}

func (c *HTTPClient) ExportPDF(ctx context.Context, html string) ([]byte, error) {
	payload, err := json.Marshal(api.ExportPDFRequest{HTML: html})
	if err != nil {
		return nil, err
	}
	resp, err := c.send(ctx, http.MethodPost, api.PathExportPDF, "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

func (c *HTTPClient) Chat(ctx context.Context, messages []models.ChatMessage, notes []models.Note) (string, error) {
	var out api.ChatResponse
	if err := c.doJSON(ctx, http.MethodPost, api.PathChat, toChatRequest(messages, notes), &out); err != nil {
		return "", err
	}
	return out.Reply, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	var out api.HealthResponse
	if err := c.do(ctx, http.MethodGet, api.PathHealth, "", nil, &out); err != nil {
		return err
	}
	if out.Status != "ok" {
		return fmt.Errorf("%w: health status %q", ErrUnavailable, out.Status)
	}
	return nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return c.do(ctx, method, path, "application/json", bytes.NewReader(payload), out)
}

func (c *HTTPClient) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	resp, err := c.send(ctx, method, path, contentType, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// send performs the request and returns the response only for 2xx codes.
func (c *HTTPClient) send(ctx context.Context, method, path, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := netx.CheckResponse(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp, nil
}
