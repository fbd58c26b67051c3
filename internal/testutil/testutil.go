// Package testutil provides shared test utilities and fixtures.
//
// This package centralises common test helpers to reduce code duplication
// across test files and improve test maintainability.
package testutil

import (
	"math"
	"testing"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertFloatEqual fails the test if got and want differ by more than tol,
// for comparisons where exact floating-point equality is not expected.
func AssertFloatEqual(t *testing.T, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("value = %v, want %v (tol %v)", got, want, tol)
	}
}

// AssertPtrFloatEqual fails the test if got is nil, or differs from want by
// more than tol, for nullable *float64 values such as metrics.
func AssertPtrFloatEqual(t *testing.T, got *float64, want, tol float64) {
	t.Helper()
	if got == nil {
		t.Fatalf("value = nil, want %v", want)
	}
	AssertFloatEqual(t, *got, want, tol)
}

// AssertNil fails the test if got is not nil.
func AssertNil(t *testing.T, got *float64) {
	t.Helper()
	if got != nil {
		t.Errorf("value = %v, want nil", *got)
	}
}
