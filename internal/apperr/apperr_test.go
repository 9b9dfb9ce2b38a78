package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	base := errors.New("duplicate key")

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "nil", err: nil, want: Internal},
		{name: "plain error", err: base, want: Internal},
		{name: "not found", err: NotFoundf("category %q does not exist", "go"), want: NotFound},
		{name: "validation", err: Validationf("title cannot be empty"), want: Validation},
		{name: "conflict wrapped", err: Wrap(Conflict, base, "create tag"), want: Conflict},
		{name: "wrapped twice", err: fmt.Errorf("service: %w", Conflictf("slug taken")), want: Conflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorMessageAndUnwrap(t *testing.T) {
	base := errors.New("pq: unique violation")
	err := Wrap(Conflict, base, "create category")

	if err.Error() != "create category: pq: unique violation" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, base) {
		t.Error("expected wrapped error to be reachable with errors.Is")
	}
	if !Is(err, Conflict) {
		t.Error("expected Is(err, Conflict)")
	}
	if Is(nil, Internal) {
		t.Error("nil error must not match any kind")
	}
}

func TestKindString(t *testing.T) {
	for kind, want := range map[Kind]string{
		Internal:   "internal",
		NotFound:   "not_found",
		Validation: "validation",
		Conflict:   "conflict",
	} {
		if got := kind.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", kind, got, want)
		}
	}
}
