// Package document holds the metadata of files a customer or employee uploads for an order.
// The bytes live in a blob store under StorageKey; a verified document can no longer change.
package document

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"compliance/internal/core/domain/model/kernel"
	"compliance/internal/pkg/errs"
)

const (
	DefaultContentType = "application/octet-stream"
	maxFileNameLength  = 255
)

var ErrDocumentIsNotConstructed = errors.New("Document must be created via NewDocument constructor")

// File describes uploaded bytes before they are attached to a document.
type File struct {
	Name        string
	SizeBytes   int64
	ContentType string
}

// Normalize reduces Name to its base name and fills in the default content type.
func (f File) Normalize() (File, error) {
	name := strings.TrimSpace(strings.ReplaceAll(f.Name, "\\", "/"))
	name = filepath.Base(name)
	if name == "" || name == "." || name == "/" || name == ".." {
		return File{}, errs.NewValueIsRequiredError("fileName")
	}
	if len(name) > maxFileNameLength {
		return File{}, errs.NewValueIsOutOfRangeError("fileName length", len(name), 1, maxFileNameLength)
	}
	if f.SizeBytes <= 0 {
		return File{}, errs.NewValueIsInvalidErrorWithCause("file", fmt.Errorf("size %d is not greater than 0", f.SizeBytes))
	}

	contentType := strings.TrimSpace(f.ContentType)
	if contentType == "" {
		contentType = DefaultContentType
	}
	return File{Name: name, SizeBytes: f.SizeBytes, ContentType: contentType}, nil
}

// Document is the registry entry for one uploaded file.
type Document struct {
	id      kernel.UUID
	orderID kernel.UUID

	file       File
	storageKey string

	verified   bool
	verifiedBy string
	verifiedAt *time.Time

	uploadedBy string
	uploadedAt time.Time

	isConstructed bool
}

func NewDocument(
	id, orderID kernel.UUID,
	file File,
	storageKey string,
	uploadedBy string,
	at time.Time,
) (*Document, error) {
	if err := errors.Join(id.Validate(), orderID.Validate()); err != nil {
		return nil, err
	}
	normalized, err := file.Normalize()
	if err != nil {
		return nil, err
	}
	if storageKey == "" {
		return nil, errs.NewValueIsRequiredError("storageKey")
	}

	return &Document{
		id:            id,
		orderID:       orderID,
		file:          normalized,
		storageKey:    storageKey,
		uploadedBy:    uploadedBy,
		uploadedAt:    at.UTC(),
		isConstructed: true,
	}, nil
}

// RestoreDocument rebuilds a document from persisted state.
func RestoreDocument(
	id, orderID kernel.UUID,
	file File,
	storageKey string,
	verified bool,
	verifiedBy string,
	verifiedAt *time.Time,
	uploadedBy string,
	uploadedAt time.Time,
) *Document {
	return &Document{
		id:            id,
		orderID:       orderID,
		file:          file,
		storageKey:    storageKey,
		verified:      verified,
		verifiedBy:    verifiedBy,
		verifiedAt:    verifiedAt,
		uploadedBy:    uploadedBy,
		uploadedAt:    uploadedAt,
		isConstructed: true,
	}
}

func (d *Document) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDocumentIsNotConstructed
	}
	return nil
}

func (d *Document) ID() kernel.UUID              { return d.id }
func (d *Document) OrderID() kernel.UUID         { return d.orderID }
func (d *Document) FileName() string             { return d.file.Name }
func (d *Document) SizeBytes() int64             { return d.file.SizeBytes }
func (d *Document) ContentType() string          { return d.file.ContentType }
func (d *Document) StorageKey() string           { return d.storageKey }
func (d *Document) IsVerified() bool             { return d.verified }
func (d *Document) VerifiedBy() string           { return d.verifiedBy }
func (d *Document) VerifiedAt() *time.Time       { return d.verifiedAt }
func (d *Document) UploadedBy() string           { return d.uploadedBy }
func (d *Document) UploadedAt() time.Time        { return d.uploadedAt }
func (d *Document) BelongsTo(o kernel.UUID) bool { return d.orderID.IsEqual(o) }

// EnsureMutable returns AlreadyVerifiedError once the document is verified.
func (d *Document) EnsureMutable() error {
	if d.verified {
		return errs.NewAlreadyVerifiedError(d.id.String())
	}
	return nil
}

// Replace swaps the file behind the document and returns the storage key of the old bytes.
// The id is kept; the upload timestamp and uploader are refreshed.
func (d *Document) Replace(file File, storageKey, uploadedBy string, at time.Time) (string, error) {
	if err := d.EnsureMutable(); err != nil {
		return "", err
	}
	normalized, err := file.Normalize()
	if err != nil {
		return "", err
	}
	if storageKey == "" {
		return "", errs.NewValueIsRequiredError("storageKey")
	}

	previousKey := d.storageKey
	d.file = normalized
	d.storageKey = storageKey
	d.uploadedBy = uploadedBy
	d.uploadedAt = at.UTC()
	return previousKey, nil
}

// Verify marks the document verified. It reports false when it already was.
func (d *Document) Verify(by string, at time.Time) bool {
	if d.verified {
		return false
	}
	verifiedAt := at.UTC()
	d.verified = true
	d.verifiedBy = by
	d.verifiedAt = &verifiedAt
	return true
}

// Summarize reports whether any documents exist and whether all of them are verified.
func Summarize(docs []*Document) (uploaded bool, allVerified bool) {
	if len(docs) == 0 {
		return false, false
	}
	for _, d := range docs {
		if !d.verified {
			return true, false
		}
	}
	return true, true
}
