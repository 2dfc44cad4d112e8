package domain_test

import (
	"testing"

	"github.com/ferrowork/recordstate/internal/domain"
)

func TestTransitionError_Error(t *testing.T) {
	err := &domain.TransitionError{
		Type: domain.TypeDeal,
		From: domain.DealLead,
		To:   domain.DealContract,
	}
	// This exact message reaches API callers.
	want := "Cannot transition from lead to contract"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestUnknownResourceTypeError_Error(t *testing.T) {
	err := &domain.UnknownResourceTypeError{Type: "invoice"}
	want := `unknown resource type "invoice"`
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
