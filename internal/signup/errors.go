package signup

import (
	"fmt"
	"strings"

	"github.com/hub-provision/hps/internal/messages"
)

// Exit-code classification for signup errors. Callers use these to
// distinguish user-fixable input errors from already-exists conflicts from
// opaque remote failures.
const (
	ExitCodeRemoteFailure = 1
	ExitCodeBadRequest    = 2
	ExitCodeConflict      = 3
)

// SignupError is the classified, user-facing form of every failure the
// pipeline raises. Code is a message catalog id.
type SignupError struct {
	Code     string
	Message  string
	Actions  []string
	ExitCode int
	Cause    error
}

func (e *SignupError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *SignupError) Unwrap() error {
	return e.Cause
}

// SuggestedActions returns remediation hints for the user.
func (e *SignupError) SuggestedActions() []string {
	return e.Actions
}

// NewUsernameExistsError reports an identity collision for username.
func NewUsernameExistsError(catalog *messages.Catalog, username string) *SignupError {
	return &SignupError{
		Code:     messages.UsernameExists,
		Message:  catalog.Render(messages.UsernameExists, username),
		Actions:  []string{"Specify a username not associated with an existing authorization."},
		ExitCode: ExitCodeConflict,
	}
}

// NewFieldsMissingError reports a structured remote rejection naming the
// missing fields. The field order reported by the platform is preserved.
func NewFieldsMissingError(catalog *messages.Catalog, fields []string) *SignupError {
	return &SignupError{
		Code:     messages.SignupFieldsMissing,
		Message:  catalog.Render(messages.SignupFieldsMissing, strings.Join(fields, ",")),
		Actions:  []string{"Add the missing fields to the scratch org definition and retry."},
		ExitCode: ExitCodeBadRequest,
	}
}

// NewDuplicateSettingsError reports a request carrying both settings and
// orgPreferences.
func NewDuplicateSettingsError(catalog *messages.Catalog) *SignupError {
	return &SignupError{
		Code:     messages.SignupDuplicateSettingsSpecified,
		Message:  catalog.Render(messages.SignupDuplicateSettingsSpecified),
		Actions:  []string{"Remove either the settings or the orgPreferences section."},
		ExitCode: ExitCodeBadRequest,
	}
}

// NewDeprecatedPrefFormatError reports a request carrying only the legacy
// orgPreferences shape.
func NewDeprecatedPrefFormatError(catalog *messages.Catalog) *SignupError {
	return &SignupError{
		Code:     messages.DeprecatedPrefFormat,
		Message:  catalog.Render(messages.DeprecatedPrefFormat),
		Actions:  []string{"Convert orgPreferences to the settings format."},
		ExitCode: ExitCodeBadRequest,
	}
}

// NewCreationFailedError reports a remote rejection, preserving the original
// message verbatim.
func NewCreationFailedError(catalog *messages.Catalog, message string, cause error) *SignupError {
	return &SignupError{
		Code:     messages.SignupFailed,
		Message:  catalog.Render(messages.SignupFailed, message),
		ExitCode: ExitCodeRemoteFailure,
		Cause:    cause,
	}
}

// NewUnknownCreationError reports a remote rejection carrying no usable
// detail.
func NewUnknownCreationError(catalog *messages.Catalog, cause error) *SignupError {
	return &SignupError{
		Code:     messages.SignupFailedUnknown,
		Message:  catalog.Render(messages.SignupFailedUnknown),
		ExitCode: ExitCodeRemoteFailure,
		Cause:    cause,
	}
}
