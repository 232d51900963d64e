package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidPackage, "invalid package name: %s", "x")

	if err.Code != ErrCodeInvalidPackage {
		t.Errorf("Code = %q, want %q", err.Code, ErrCodeInvalidPackage)
	}
	if err.Message != "invalid package name: x" {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Cause != nil {
		t.Errorf("Cause = %v, want nil", err.Cause)
	}
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(ErrCodeNetwork, cause, "failed to probe %s", "cran")

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match cause via errors.Is")
	}
}

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "without cause",
			err:  New(ErrCodeNotFound, "package missing"),
			want: "NOT_FOUND: package missing",
		},
		{
			name: "with cause",
			err:  Wrap(ErrCodeNetwork, stderrors.New("timeout"), "probe failed"),
			want: "NETWORK_ERROR: probe failed: timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeWriteManifest, "cannot rewrite DESCRIPTION")

	if !Is(err, ErrCodeWriteManifest) {
		t.Error("Is() should match the error's own code")
	}
	if Is(err, ErrCodeNetwork) {
		t.Error("Is() should not match a different code")
	}
	if Is(stderrors.New("plain"), ErrCodeNetwork) {
		t.Error("Is() should not match plain errors")
	}
}

func TestIsWrappedChain(t *testing.T) {
	inner := New(ErrCodePackageNotFound, "no such package")
	outer := fmt.Errorf("resolve: %w", inner)

	if !Is(outer, ErrCodePackageNotFound) {
		t.Error("Is() should unwrap fmt.Errorf chains")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeTimeout, "slow")); got != ErrCodeTimeout {
		t.Errorf("GetCode() = %q, want %q", got, ErrCodeTimeout)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode() = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidManifest, "Imports field is malformed")
	if got := UserMessage(err); got != "Imports field is malformed" {
		t.Errorf("UserMessage() = %q", got)
	}
	plain := stderrors.New("boom")
	if got := UserMessage(plain); got != "boom" {
		t.Errorf("UserMessage() = %q", got)
	}
}

func TestWithRemediation(t *testing.T) {
	base := New(ErrCodePackageNotFound, "localtool not found in any registry")
	err := base.WithRemediation("install manually: remotes::install_local(%q)", "localtool")

	if base.Remediation != "" {
		t.Error("WithRemediation() must not mutate the receiver")
	}
	want := `install manually: remotes::install_local("localtool")`
	if err.Remediation != want {
		t.Errorf("Remediation = %q, want %q", err.Remediation, want)
	}
	if got := Remediation(err); got != want {
		t.Errorf("Remediation() = %q, want %q", got, want)
	}
	if got := Remediation(stderrors.New("plain")); got != "" {
		t.Errorf("Remediation() on plain error = %q, want empty", got)
	}
}
