package testutil

import (
	"errors"
	"os"
	"os/exec"
	"testing"
)

func TestAssertNoError(t *testing.T) {
	t.Parallel()

	// Verify nil error doesn't cause issues
	AssertNoError(t, nil)
}

func TestAssertNoError_FailurePath(t *testing.T) {
	t.Parallel()

	if os.Getenv("TESTUTIL_ASSERT_NO_ERROR_FAIL") == "1" {
		AssertNoError(t, errors.New("boom"))
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestAssertNoError_FailurePath$")
	cmd.Env = append(os.Environ(), "TESTUTIL_ASSERT_NO_ERROR_FAIL=1")
	err := cmd.Run()
	if err == nil {
		t.Fatal("expected subprocess to fail when error is non-nil")
	}
}

func TestAssertError(t *testing.T) {
	t.Parallel()

	// Verify non-nil error is handled correctly
	AssertError(t, errors.New("test error"))
}

func TestAssertError_FailurePath(t *testing.T) {
	t.Parallel()

	if os.Getenv("TESTUTIL_ASSERT_ERROR_FAIL") == "1" {
		AssertError(t, nil)
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestAssertError_FailurePath$")
	cmd.Env = append(os.Environ(), "TESTUTIL_ASSERT_ERROR_FAIL=1")
	err := cmd.Run()
	if err == nil {
		t.Fatal("expected subprocess to fail when error is nil")
	}
}

func TestAssertFloatEqual(t *testing.T) {
	t.Parallel()

	AssertFloatEqual(t, 1.0001, 1.0, 0.001)
}

func TestAssertFloatEqual_FailurePath(t *testing.T) {
	t.Parallel()

	if os.Getenv("TESTUTIL_ASSERT_FLOAT_FAIL") == "1" {
		AssertFloatEqual(t, 1.5, 1.0, 0.001)
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestAssertFloatEqual_FailurePath$")
	cmd.Env = append(os.Environ(), "TESTUTIL_ASSERT_FLOAT_FAIL=1")
	err := cmd.Run()
	if err == nil {
		t.Fatal("expected subprocess to fail when values differ beyond tolerance")
	}
}

func TestAssertPtrFloatEqual(t *testing.T) {
	t.Parallel()

	v := 2.5
	AssertPtrFloatEqual(t, &v, 2.5, 1e-9)
}

func TestAssertPtrFloatEqual_NilFailurePath(t *testing.T) {
	t.Parallel()

	if os.Getenv("TESTUTIL_ASSERT_PTR_NIL_FAIL") == "1" {
		AssertPtrFloatEqual(t, nil, 2.5, 1e-9)
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestAssertPtrFloatEqual_NilFailurePath$")
	cmd.Env = append(os.Environ(), "TESTUTIL_ASSERT_PTR_NIL_FAIL=1")
	err := cmd.Run()
	if err == nil {
		t.Fatal("expected subprocess to fail when pointer is nil")
	}
}

func TestAssertNil(t *testing.T) {
	t.Parallel()

	AssertNil(t, nil)
}

func TestAssertNil_FailurePath(t *testing.T) {
	t.Parallel()

	if os.Getenv("TESTUTIL_ASSERT_NIL_FAIL") == "1" {
		v := 1.0
		AssertNil(t, &v)
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestAssertNil_FailurePath$")
	cmd.Env = append(os.Environ(), "TESTUTIL_ASSERT_NIL_FAIL=1")
	err := cmd.Run()
	if err == nil {
		t.Fatal("expected subprocess to fail when value is non-nil")
	}
}
