// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
)

// Upload sends a file to the API's upload endpoint and returns the URL
// under which the API stored it.
func (c *Client) Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, key))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return "", fmt.Errorf("api upload part: %w", err)
	}
	if _, err := io.Copy(part, body); err != nil {
		return "", fmt.Errorf("api upload copy: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("api upload close: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/uploads", &buf)
	if err != nil {
		return "", fmt.Errorf("api upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	res, err := c.send("upload", req)
	if err != nil {
		return "", err
	}

	// The API answers {"url": "..."} or the bare URL as text.
	if res.JSON {
		var doc struct {
			URL string `json:"url"`
		}
		if err := json.Unmarshal(res.Body, &doc); err != nil {
			return "", fmt.Errorf("api upload decode: %w", err)
		}
		if doc.URL == "" {
			return "", &Error{Op: "upload", Status: http.StatusOK, Message: "response has no url"}
		}
		return doc.URL, nil
	}
	if res.Message == "" {
		return "", &Error{Op: "upload", Status: http.StatusOK, Message: "empty response"}
	}
	return res.Message, nil
}

// DeleteUpload removes a previously uploaded file by its URL.
func (c *Client) DeleteUpload(ctx context.Context, fileURL string) error {
	_, err := c.do(ctx, "delete upload", http.MethodDelete, "/uploads?url="+url.QueryEscape(fileURL), nil)
	return err
}
