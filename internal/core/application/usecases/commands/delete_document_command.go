package commands

import (
	"errors"

	"compliance/internal/core/domain/model/kernel"
	"compliance/internal/pkg/guard"
)

var ErrDocumentCommandIsNotConstructed = errors.New(
	"document command must be created via its constructor",
)

// documentRef addresses one document of one order on behalf of an actor.
type documentRef struct { //nolint:recvcheck //using for validation
	actor      kernel.Actor
	orderID    kernel.UUID
	documentID kernel.UUID

	guard guard.ConstructorGuard
}

func newDocumentRef(actor kernel.Actor, orderID, documentID kernel.UUID) (documentRef, error) {
	if err := errors.Join(actor.Validate(), orderID.Validate(), documentID.Validate()); err != nil {
		return documentRef{}, err
	}
	return documentRef{
		actor:      actor,
		orderID:    orderID,
		documentID: documentID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (r documentRef) Validate() error {
	return r.guard.Validate(ErrDocumentCommandIsNotConstructed)
}

func (r documentRef) Actor() kernel.Actor     { return r.actor }
func (r documentRef) OrderID() kernel.UUID    { return r.orderID }
func (r documentRef) DocumentID() kernel.UUID { return r.documentID }

// DeleteDocumentCommand removes an unverified document.
type DeleteDocumentCommand struct {
	documentRef
}

func NewDeleteDocumentCommand(actor kernel.Actor, orderID, documentID kernel.UUID) (DeleteDocumentCommand, error) {
	ref, err := newDocumentRef(actor, orderID, documentID)
	if err != nil {
		return DeleteDocumentCommand{}, err
	}
	return DeleteDocumentCommand{documentRef: ref}, nil
}
