package commands

import (
	"io"

	"compliance/internal/core/domain/model/document"
	"compliance/internal/core/domain/model/kernel"
)

// ReplaceDocumentCommand swaps the bytes and metadata of an existing, unverified document.
// It shares UploadDocumentCommand's shape; the document id is the one being replaced.
type ReplaceDocumentCommand struct {
	UploadDocumentCommand
}

func NewReplaceDocumentCommand(
	actor kernel.Actor,
	orderID, documentID kernel.UUID,
	file document.File,
	content io.Reader,
) (ReplaceDocumentCommand, error) {
	cmd, err := newDocumentFileCommand(actor, orderID, documentID, file, content)
	if err != nil {
		return ReplaceDocumentCommand{}, err
	}
	return ReplaceDocumentCommand{UploadDocumentCommand: cmd}, nil
}
