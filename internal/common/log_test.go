package common

import (
	"errors"
	"testing"
)

func TestWrapNilIsNil(t *testing.T) {
	if err := Wrap("component", nil); err != nil {
		t.Errorf("Wrap(nil) = %v, want nil", err)
	}
}

func TestWrapPreservesErrorsIs(t *testing.T) {
	sentinel := errors.New("boom")
	wrapped := Wrap("component", sentinel)
	if !errors.Is(wrapped, sentinel) {
		t.Errorf("Wrap() broke errors.Is chain: %v", wrapped)
	}
}
