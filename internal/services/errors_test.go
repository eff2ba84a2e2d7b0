package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/SAP-F-2025/mentorship-service/internal/validator"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{name: "nil", err: nil, want: ""},
		{name: "permission error", err: NewPermissionError("u1", 1, "connection", "respond", "not the mentor"), want: KindPermissionDenied},
		{name: "wrapped not found", err: fmt.Errorf("load: %w", ErrConnectionNotFound), want: KindNotFound},
		{name: "invalid state", err: ErrConnectionNotActive, want: KindInvalidState},
		{name: "conflict", err: ErrDuplicateConnection, want: KindConflict},
		{name: "validation", err: invalidArgument(validator.ValidationErrors{{Field: "rating"}}), want: KindInvalidArgument},
		{name: "bare validation", err: validator.ValidationErrors{{Field: "rating"}}, want: KindInvalidArgument},
		{name: "unknown", err: errors.New("disk on fire"), want: KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestInvalidArgumentKeepsValidationDetails(t *testing.T) {
	err := invalidArgument(validator.ValidationErrors{{Field: "duration_minutes", Rule: "session_duration"}})

	var details ValidationErrors
	if !errors.As(err, &details) {
		t.Fatal("expected ValidationErrors to be reachable through errors.As")
	}
	if details[0].Field != "duration_minutes" {
		t.Errorf("Field = %s", details[0].Field)
	}
}
