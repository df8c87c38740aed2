package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorIs_MatchesByCode(t *testing.T) {
	err := New(CodeBranchExists, "branch trunk already exists")
	if !stderrors.Is(err, New(CodeBranchExists, "different message")) {
		t.Error("expected errors with the same code to match")
	}
	if stderrors.Is(err, New(CodeBranchUnknown, "branch trunk already exists")) {
		t.Error("expected errors with different codes not to match")
	}
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrap(CodeNotFound, "load keyframe", cause)
	if !stderrors.Is(err, cause) {
		t.Error("expected wrapped cause to be traversable")
	}
	if err.Error() != "load keyframe" {
		t.Errorf("Error() = %q, want %q", err.Error(), "load keyframe")
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"domain error", New(CodeBranchCycle, "cycle"), CodeBranchCycle},
		{"wrapped domain error", fmt.Errorf("create: %w", New(CodeBranchExists, "exists")), CodeBranchExists},
		{"plain error", stderrors.New("plain"), CodeUnknown},
		{"nil", nil, CodeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.want {
				t.Errorf("GetCode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWithMetadata(t *testing.T) {
	err := WithMetadata(CodeBranchDivergenceUnreachable, "divergence beyond parent end", map[string]string{
		"branch": "what-if",
		"turn":   "9",
	})
	if err.Metadata["branch"] != "what-if" {
		t.Errorf("Metadata[branch] = %q, want %q", err.Metadata["branch"], "what-if")
	}
}
