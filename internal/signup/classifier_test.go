package signup

import (
	"errors"
	"strings"
	"testing"

	"github.com/hub-provision/hps/internal/hub"
	"github.com/hub-provision/hps/internal/messages"
)

func TestClassifyRemoteErrorMostSpecificWins(t *testing.T) {
	o := newTestOrchestrator()

	tests := []struct {
		name         string
		err          error
		expectedCode string
	}{
		{
			"structured missing fields",
			hub.NormalizeFailure("REQUIRED_FIELD_MISSING", []string{"Username", "SignupEmail"}, "fields missing", nil),
			messages.SignupFieldsMissing,
		},
		{
			"structured code but empty field list degrades to message",
			hub.NormalizeFailure("REQUIRED_FIELD_MISSING", nil, "fields missing", nil),
			messages.SignupFailed,
		},
		{
			"message only",
			hub.NormalizeFailure("", nil, "MyError", nil),
			messages.SignupFailed,
		},
		{
			"empty failure",
			hub.NormalizeFailure("", nil, "", nil),
			messages.SignupFailedUnknown,
		},
		{
			"plain error",
			errors.New("connection refused"),
			messages.SignupFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signupErr := o.ClassifyRemoteError(tt.err)
			if signupErr.Code != tt.expectedCode {
				t.Errorf("ClassifyRemoteError() code = %q, want %q", signupErr.Code, tt.expectedCode)
			}
		})
	}
}

func TestClassifyPreservesFieldOrder(t *testing.T) {
	o := newTestOrchestrator()

	signupErr := o.ClassifyRemoteError(
		hub.NormalizeFailure("REQUIRED_FIELD_MISSING", []string{"SignupEmail", "Username"}, "missing", nil))

	if !strings.Contains(signupErr.Message, "SignupEmail,Username") {
		t.Errorf("Field order not preserved in message: %q", signupErr.Message)
	}
}

func TestClassifyRetainsCause(t *testing.T) {
	o := newTestOrchestrator()
	failure := hub.NormalizeFailure("", nil, "MyError", nil)

	signupErr := o.ClassifyRemoteError(failure)
	if !errors.Is(signupErr, failure) {
		t.Error("Classified error should unwrap to the raw remote failure")
	}
	if signupErr.ExitCode != ExitCodeRemoteFailure {
		t.Errorf("Remote failure exit code = %d, want %d", signupErr.ExitCode, ExitCodeRemoteFailure)
	}
}
