// Package workflow provides the fixed eight-stage fulfillment pipeline that runs after an order
// is paid, and the append-only WorkflowEvent audit log.
//
// Stages run strictly in order:
//
//	APP_REC -> DOC_VER -> PROC -> DRAFT -> FILING -> GOVT_REV -> APPR -> DEL
//
// A stage is PENDING, IN_PROGRESS or COMPLETED. Stage N can only be IN_PROGRESS or COMPLETED
// once stage N-1 is COMPLETED, so the sequence of stages ever marked IN_PROGRESS is strictly
// increasing and no stage is revisited.
package workflow
