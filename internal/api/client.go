// internal/api/client.go
// Package api is the HTTP client for the malaria analysis backend. It injects
// the session's bearer token on every request, translates FastAPI error
// bodies into typed errors, and tears the session down on a 401.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/mus-ta-fah/Projet-Detection-Paludisme/internal/appconfig"
	"github.com/mus-ta-fah/Projet-Detection-Paludisme/internal/logging"
	"github.com/mus-ta-fah/Projet-Detection-Paludisme/internal/session"
	"github.com/mus-ta-fah/Projet-Detection-Paludisme/internal/util"
)

// ErrUnauthorized is returned when the backend rejects the session token.
// The client invalidates the session before returning it, so the caller only
// has to ask the user to sign in again.
var ErrUnauthorized = errors.New("palu-api: not authenticated")

// HTTPError is a non-401 error response from the backend.
type HTTPError struct {
	Status int
	Detail string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("palu-api: backend returned %d: %s", e.Status, e.Detail)
}

// Client talks to one analysis backend on behalf of one session.
type Client struct {
	http    *http.Client
	sess    *session.Session
	base    string
	timeout time.Duration
	debug   bool
}

// New builds a client from the application configuration and session.
func New(cfg appconfig.Config, sess *session.Session) *Client {
	return &Client{
		http:    &http.Client{},
		sess:    sess,
		base:    cfg.APIBase(),
		timeout: cfg.RequestTimeout(),
		debug:   cfg.Debug,
	}
}

// Session exposes the session the client authenticates with.
func (c *Client) Session() *session.Session {
	return c.sess
}

// BaseURL returns the versioned API prefix the client targets.
func (c *Client) BaseURL() string {
	return c.base
}

// do performs one request against the backend and decodes the JSON response
// into out (which may be nil for calls whose body is ignored).
func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return fmt.Errorf("palu-api: building %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.sess.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("palu-api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("palu-api: reading %s response: %w", path, err)
	}
	if c.debug {
		logging.LogRequest("API->PALU", c.base, path, util.TruncateRunes(string(data), 2000))
	}

	if resp.StatusCode == http.StatusUnauthorized {
		_ = c.sess.Invalidate()
		return fmt.Errorf("%s: %w", path, ErrUnauthorized)
	}
	if resp.StatusCode >= 400 {
		return &HTTPError{Status: resp.StatusCode, Detail: errorDetail(data, resp.Status)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("palu-api: decoding %s response: %w", path, err)
	}
	return nil
}

func (c *Client) logOutgoing(path string) {
	logging.LogRequest("PALU->API", c.base, path, nil)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	if c.debug {
		c.logOutgoing(path)
	}
	return c.do(ctx, http.MethodGet, path, "", nil, out)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("palu-api: encoding %s request: %w", path, err)
	}
	if c.debug {
		logging.LogRequest("PALU->API", c.base, path, data)
	}
	return c.do(ctx, http.MethodPost, path, "application/json", bytes.NewReader(data), out)
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values, out any) error {
	if c.debug {
		logging.LogRequest("PALU->API", c.base, path, redactForm(form))
	}
	return c.do(ctx, http.MethodPost, path, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()), out)
}

// FilePart is one file attached to a multipart request.
type FilePart struct {
	Field    string
	Filename string
	Data     []byte
}

func (c *Client) postMultipart(ctx context.Context, path string, files []FilePart, fields map[string]string, out any) error {
	body, contentType, err := multipartBody(files, fields)
	if err != nil {
		return fmt.Errorf("palu-api: building %s request: %w", path, err)
	}
	if c.debug {
		logging.LogRequest("PALU->API", c.base, path, multipartSummary(files, fields))
	}
	return c.do(ctx, http.MethodPost, path, contentType, body, out)
}

func multipartBody(files []FilePart, fields map[string]string) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range files {
		part, err := w.CreateFormFile(f.Field, f.Filename)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, "", err
		}
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if fields[k] == "" {
			continue
		}
		if err := w.WriteField(k, fields[k]); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func multipartSummary(files []FilePart, fields map[string]string) string {
	parts := make([]string, 0, len(files)+len(fields))
	for _, f := range files {
		parts = append(parts, fmt.Sprintf("%s=%s(%dB)", f.Field, f.Filename, len(f.Data)))
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if fields[k] != "" {
			parts = append(parts, fmt.Sprintf("%s=%s", k, fields[k]))
		}
	}
	return strings.Join(parts, " ")
}

func redactForm(form url.Values) string {
	clone := url.Values{}
	for k, vs := range form {
		if k == "password" {
			clone.Set(k, "********")
			continue
		}
		for _, v := range vs {
			clone.Add(k, v)
		}
	}
	return clone.Encode()
}

// errorDetail extracts the human-readable message from a FastAPI error body,
// falling back to the raw body or status line.
func errorDetail(body []byte, status string) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Detail != "" {
		return payload.Detail
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return util.TruncateRunes(text, 200)
	}
	return status
}
