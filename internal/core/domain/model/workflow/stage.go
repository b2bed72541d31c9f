package workflow

import (
	"fmt"
	"strings"

	"compliance/internal/pkg/errs"
)

// Stage is one step of the pipeline. Its numeric value is its 1-based sequence.
type Stage int

const (
	StageUnknown Stage = iota
	ApplicationReceived
	DocumentVerification
	Processing
	Drafting
	Filing
	GovernmentReview
	Approval
	Delivery
)

// StageCount is the length of the pipeline.
const StageCount = int(Delivery)

type stageInfo struct {
	code  string
	label string
}

func getStageInfo() map[Stage]stageInfo {
	return map[Stage]stageInfo{
		ApplicationReceived:  {"APP_REC", "Application Received"},
		DocumentVerification: {"DOC_VER", "Document Verification"},
		Processing:           {"PROC", "Processing"},
		Drafting:             {"DRAFT", "Drafting"},
		Filing:               {"FILING", "Filing"},
		GovernmentReview:     {"GOVT_REV", "Government Review"},
		Approval:             {"APPR", "Approval"},
		Delivery:             {"DEL", "Delivery"},
	}
}

// AllStages returns the pipeline in order.
func AllStages() []Stage {
	stages := make([]Stage, 0, StageCount)
	for s := ApplicationReceived; s <= Delivery; s++ {
		stages = append(stages, s)
	}
	return stages
}

// ParseStage accepts a stage code such as "PROC".
func ParseStage(code string) (Stage, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return StageUnknown, errs.NewValueIsRequiredError("stage")
	}
	for stage, info := range getStageInfo() {
		if info.code == code {
			return stage, nil
		}
	}
	return StageUnknown, errs.NewValueIsInvalidErrorWithCause("stage", fmt.Errorf("%q is not a known stage", code))
}

func (s Stage) Validate() error {
	if s < ApplicationReceived || s > Delivery {
		return errs.NewValueIsInvalidErrorWithCause("stage", fmt.Errorf("%d is not a known stage", s))
	}
	return nil
}

// String returns the stage code.
func (s Stage) String() string {
	if info, ok := getStageInfo()[s]; ok {
		return info.code
	}
	return "UNKNOWN"
}

func (s Stage) Label() string {
	return getStageInfo()[s].label
}

func (s Stage) Sequence() int {
	return int(s)
}

// Next returns the direct successor, or StageUnknown after the last stage.
func (s Stage) Next() Stage {
	if s < ApplicationReceived || s >= Delivery {
		return StageUnknown
	}
	return s + 1
}

// Previous returns the direct predecessor, or StageUnknown for the first stage.
func (s Stage) Previous() Stage {
	if s <= ApplicationReceived || s > Delivery {
		return StageUnknown
	}
	return s - 1
}

// StageStatus is the per-order state of a stage.
type StageStatus int

const (
	StageStatusUnknown StageStatus = iota
	StagePending
	StageInProgress
	StageCompleted
)

func (s StageStatus) String() string {
	switch s {
	case StagePending:
		return "PENDING"
	case StageInProgress:
		return "IN_PROGRESS"
	case StageCompleted:
		return "COMPLETED"
	default:
		return "UNKNOWN"
	}
}

func ParseStageStatus(s string) (StageStatus, error) {
	switch s {
	case "PENDING":
		return StagePending, nil
	case "IN_PROGRESS":
		return StageInProgress, nil
	case "COMPLETED":
		return StageCompleted, nil
	default:
		return StageStatusUnknown, errs.NewValueIsInvalidErrorWithCause("stage status", fmt.Errorf("%q is not valid", s))
	}
}
