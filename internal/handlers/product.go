// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/rs/zerolog"

	"catalogadmin/internal/catalog"
	"catalogadmin/internal/models"
	"catalogadmin/internal/mutation"
)

// maxProductRequest bounds a product form: both attachments at their size
// limit plus room for the form fields.
const maxProductRequest = 2*catalog.MaxAttachmentSize + 1<<20

// CreateProduct creates a product. A JSON body creates it without files; a
// multipart body carries the product as JSON in the "product" field and
// optional "image" and "document" files, which are uploaded first.
func (a *Admin) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var (
		in    models.ProductInput
		files []catalog.Attachment
	)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		r.Body = http.MaxBytesReader(w, r.Body, maxProductRequest)
		if err := r.ParseMultipartForm(catalog.MaxAttachmentSize); err != nil {
			writeError(w, http.StatusRequestEntityTooLarge, "Files too large. Maximum size is 20 MB each.")
			return
		}
		defer r.MultipartForm.RemoveAll()

		if err := json.Unmarshal([]byte(r.FormValue("product")), &in); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid product data.")
			return
		}

		var err error
		files, err = attachments(r.MultipartForm)
		defer func() {
			for _, f := range files {
				if c, ok := f.Body.(io.Closer); ok {
					c.Close()
				}
			}
		}()
		if err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Msg("read product attachments failed")
			writeError(w, http.StatusBadRequest, "Failed to read file.")
			return
		}
	} else if !decodeJSON(w, r, &in) {
		return
	}

	a.mutate(w, r, "products/create", true, false, func(dlg *mutation.Dialog, n mutation.Notifier) error {
		return a.catalog.CreateProduct(r.Context(), dlg, n, in, files)
	})
}

// attachments opens the image and document files of a product form. The
// content type comes from the part header, or is sniffed from the first
// 512 bytes when the browser sent none.
func attachments(form *multipart.Form) ([]catalog.Attachment, error) {
	var out []catalog.Attachment
	for field, headers := range form.File {
		for _, fh := range headers {
			f, err := fh.Open()
			if err != nil {
				return out, err
			}
			contentType := fh.Header.Get("Content-Type")
			if contentType == "" || contentType == "application/octet-stream" {
				if contentType, err = sniff(f); err != nil {
					f.Close()
					return out, err
				}
			}
			out = append(out, catalog.Attachment{
				Kind:        catalog.AttachmentKind(field),
				Filename:    fh.Filename,
				ContentType: contentType,
				Size:        fh.Size,
				Body:        f,
			})
		}
	}
	return out, nil
}

func sniff(f multipart.File) (string, error) {
	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return "", err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return http.DetectContentType(buf[:n]), nil
}
