package commands

import (
	"errors"
	"io"

	"compliance/internal/core/domain/model/document"
	"compliance/internal/core/domain/model/kernel"
	"compliance/internal/pkg/errs"
	"compliance/internal/pkg/guard"
)

var ErrUploadDocumentCommandIsNotConstructed = errors.New(
	"UploadDocumentCommand must be created via NewUploadDocumentCommand constructor",
)

// UploadDocumentCommand attaches a new file to an order. The same command shape serves
// replacements, see NewReplaceDocumentCommand.
type UploadDocumentCommand struct { //nolint:recvcheck //using for validation
	actor      kernel.Actor
	orderID    kernel.UUID
	documentID kernel.UUID
	file       document.File
	content    io.Reader

	guard guard.ConstructorGuard
}

// NewUploadDocumentCommand validates the request. SizeBytes of file is advisory; the stored
// size is the number of bytes actually read from content.
func NewUploadDocumentCommand(
	actor kernel.Actor,
	orderID kernel.UUID,
	file document.File,
	content io.Reader,
) (UploadDocumentCommand, error) {
	return newDocumentFileCommand(actor, orderID, kernel.NewUUID(), file, content)
}

func newDocumentFileCommand(
	actor kernel.Actor,
	orderID, documentID kernel.UUID,
	file document.File,
	content io.Reader,
) (UploadDocumentCommand, error) {
	if err := errors.Join(actor.Validate(), orderID.Validate(), documentID.Validate()); err != nil {
		return UploadDocumentCommand{}, err
	}
	if content == nil {
		return UploadDocumentCommand{}, errs.NewValueIsRequiredError("file")
	}
	// size is checked against the bytes written
	probe := file
	probe.SizeBytes = 1
	if _, err := probe.Normalize(); err != nil {
		return UploadDocumentCommand{}, err
	}

	return UploadDocumentCommand{
		actor:      actor,
		orderID:    orderID,
		documentID: documentID,
		file:       file,
		content:    content,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c UploadDocumentCommand) Validate() error {
	return c.guard.Validate(ErrUploadDocumentCommandIsNotConstructed)
}

func (c UploadDocumentCommand) Actor() kernel.Actor     { return c.actor }
func (c UploadDocumentCommand) OrderID() kernel.UUID    { return c.orderID }
func (c UploadDocumentCommand) DocumentID() kernel.UUID { return c.documentID }
func (c UploadDocumentCommand) File() document.File     { return c.file }
func (c UploadDocumentCommand) Content() io.Reader      { return c.content }
