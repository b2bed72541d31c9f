package commands

import "compliance/internal/core/domain/model/kernel"

// VerifyDocumentCommand marks a document verified. Only staff may issue it.
type VerifyDocumentCommand struct {
	documentRef
}

func NewVerifyDocumentCommand(actor kernel.Actor, orderID, documentID kernel.UUID) (VerifyDocumentCommand, error) {
	ref, err := newDocumentRef(actor, orderID, documentID)
	if err != nil {
		return VerifyDocumentCommand{}, err
	}
	return VerifyDocumentCommand{documentRef: ref}, nil
}
