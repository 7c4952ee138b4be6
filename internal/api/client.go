// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package api is the HTTP client for the remote catalog REST API. Every
// entity kind exposes the same list/create/update/delete shape; responses
// are either JSON documents or plain-text messages.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTimeout bounds a single request to the remote API.
const DefaultTimeout = 30 * time.Second

// maxResponseSize caps how much of a response body is read.
const maxResponseSize = 10 << 20

// Client talks to the remote catalog API.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log.With().Str("component", "api").Logger(),
	}
}

// Result is the body of a successful mutation. The API answers either with
// the stored entity as JSON or with a plain confirmation message.
type Result struct {
	Message string
	Body    []byte
	JSON    bool
}

// Decode unmarshals a JSON result into v. It returns false when the
// response was a plain message.
func (r Result) Decode(v any) (bool, error) {
	if !r.JSON {
		return false, nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return false, fmt.Errorf("api decode result: %w", err)
	}
	return true, nil
}

// do performs one request. body, when non-nil, is sent as JSON.
func (c *Client) do(ctx context.Context, op, method, path string, body any) (Result, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return Result{}, fmt.Errorf("api %s marshal: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return Result{}, fmt.Errorf("api %s request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json, text/plain")

	return c.send(op, req)
}

// send executes req and classifies the response.
func (c *Client) send(op string, req *http.Request) (Result, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, &Error{Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return Result{}, &Error{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	c.log.Debug().
		Str("op", op).
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("api call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result{}, &Error{Op: op, Status: resp.StatusCode, Message: errorMessage(respBody)}
	}

	res := Result{Body: respBody}
	trimmed := bytes.TrimSpace(respBody)
	if isJSON(resp.Header.Get("Content-Type"), trimmed) {
		res.JSON = true
		var msg struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(trimmed, &msg) == nil {
			res.Message = msg.Message
		}
	} else {
		res.Message = string(trimmed)
	}
	return res, nil
}

// isJSON decides whether a body is JSON. Some endpoints answer JSON
// documents with a text/plain content type, so the body is sniffed too.
func isJSON(contentType string, body []byte) bool {
	if len(body) == 0 {
		return false
	}
	if strings.Contains(contentType, "json") {
		return true
	}
	return (body[0] == '{' || body[0] == '[') && json.Valid(body)
}

// errorMessage extracts a human readable message from an error body.
func errorMessage(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	var doc struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(trimmed, &doc) == nil {
		if doc.Message != "" {
			return doc.Message
		}
		if doc.Error != "" {
			return doc.Error
		}
	}
	const maxLen = 300
	msg := string(trimmed)
	if len(msg) > maxLen {
		msg = msg[:maxLen]
	}
	return msg
}
