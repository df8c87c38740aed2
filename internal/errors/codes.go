// Package errors provides structured error handling with machine-readable codes.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Branch errors
	CodeBranchNameEmpty             Code = "BRANCH_NAME_EMPTY"
	CodeBranchExists                Code = "BRANCH_EXISTS"
	CodeBranchUnknown               Code = "BRANCH_UNKNOWN"
	CodeBranchUnknownParent         Code = "BRANCH_UNKNOWN_PARENT"
	CodeBranchCycle                 Code = "BRANCH_CYCLE"
	CodeBranchDivergenceUnreachable Code = "BRANCH_DIVERGENCE_UNREACHABLE"

	// Fact errors
	CodeFactPathEmpty    Code = "FACT_PATH_EMPTY"
	CodeFactPathInvalid  Code = "FACT_PATH_INVALID"
	CodeFactTimeNegative Code = "FACT_TIME_NEGATIVE"

	// Keyframe errors
	CodeKeyframeTimeNegative Code = "KEYFRAME_TIME_NEGATIVE"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)
