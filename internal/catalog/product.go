// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"catalogadmin/internal/imaging"
	"catalogadmin/internal/models"
	"catalogadmin/internal/mutation"
)

// MaxAttachmentSize is the largest file accepted for a product image or
// document.
const MaxAttachmentSize = 20 << 20

// Uploader stores product files and deletes them again by URL. Both the
// catalog API client and the S3 storage client satisfy it.
type Uploader interface {
	Upload(ctx context.Context, name, contentType string, body io.Reader, size int64) (string, error)
	DeleteUpload(ctx context.Context, fileURL string) error
}

// AttachmentKind says which product field an upload fills in.
type AttachmentKind string

const (
	AttachmentImage    AttachmentKind = "image"
	AttachmentDocument AttachmentKind = "document"
)

// Attachment is a file submitted with the product form.
type Attachment struct {
	Kind        AttachmentKind
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

func checkAttachments(files []Attachment) error {
	seen := make(map[AttachmentKind]bool, len(files))
	for i, f := range files {
		field := string(f.Kind)
		switch f.Kind {
		case AttachmentImage:
			if !strings.HasPrefix(f.ContentType, "image/") {
				return &models.ValidationError{Field: field, Reason: "must be an image"}
			}
		case AttachmentDocument:
		default:
			return &models.ValidationError{Field: field, Reason: "is not a known attachment"}
		}
		if seen[f.Kind] {
			return &models.ValidationError{Field: field, Reason: "was submitted more than once"}
		}
		seen[f.Kind] = true
		if f.Size <= 0 {
			return &models.ValidationError{Field: field, Reason: "is empty"}
		}
		if f.Size > MaxAttachmentSize {
			return &models.ValidationError{Field: field, Reason: fmt.Sprintf("is larger than %d MB", MaxAttachmentSize>>20)}
		}
		if rs, ok := f.Body.(io.ReadSeeker); ok && f.Kind == AttachmentImage {
			info, err := imaging.Inspect(rs)
			if err != nil {
				if errors.Is(err, imaging.ErrTooLarge) {
					return &models.ValidationError{Field: field, Reason: "has too many pixels"}
				}
				return &models.ValidationError{Field: field, Reason: "could not be read as an image"}
			}
			// Stored with the type of its content, not the one the browser claimed.
			files[i].ContentType = info.ContentType()
		}
	}
	return nil
}

// CreateProduct uploads the product's files and then creates the product
// with their URLs. If the create call fails the uploads are deleted again;
// uploads that cannot be deleted are journaled as orphaned. Notices go to n
// when it is non-nil.
func (s *Service) CreateProduct(ctx context.Context, dlg *mutation.Dialog, n mutation.Notifier, in models.ProductInput, files []Attachment) error {
	saga := mutation.NewSaga("create-product", s.journal, s.log)

	for i := range files {
		f := &files[i]
		saga.Add(mutation.Step{
			Name: "upload-" + string(f.Kind),
			Do: func(ctx context.Context) (string, error) {
				if s.uploader == nil {
					return "", fmt.Errorf("no uploader configured")
				}
				fileURL, err := s.uploader.Upload(ctx, f.Filename, f.ContentType, f.Body, f.Size)
				if err != nil {
					return "", err
				}
				switch f.Kind {
				case AttachmentImage:
					in.ImageURL = fileURL
				case AttachmentDocument:
					in.DocumentURL = fileURL
				}
				return fileURL, nil
			},
			Compensate: func(ctx context.Context, fileURL string) error {
				return s.uploader.DeleteUpload(ctx, fileURL)
			},
		})
	}

	return s.Products.Ops.WithNotifier(n).CreateSaga(ctx, dlg, saga, &in, func() error {
		return checkAttachments(files)
	})
}
