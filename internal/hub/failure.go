// Table-driven normalization of platform rejections.
//
// The platform reports signup failures in inconsistent shapes: sometimes a
// structured errorCode plus offending field names, sometimes a bare message.
// NormalizeFailure maps whatever arrived into a RemoteFailure with a
// canonical error code (or none), so callers classify over a closed set of
// variants instead of probing raw payloads.
package hub

import (
	"errors"
	"fmt"
	"strings"
)

// Canonical machine error codes carried by RemoteFailure.
const (
	CodeRequiredFieldMissing = "REQUIRED_FIELD_MISSING"
)

// requiredFieldTokens are the platform spellings that normalize to
// CodeRequiredFieldMissing. Unknown codes normalize to the empty string.
var requiredFieldTokens = []string{
	"REQUIRED_FIELD_MISSING",
	"REQUIRED_FIELDS_MISSING",
	"MISSING_REQUIRED_FIELD",
}

// ErrNamedOrgNotFound indicates an authorization lookup found no record for
// the requested username. This is the expected miss signal for the identity
// pre-check.
var ErrNamedOrgNotFound = errors.New("NAMED_ORG_NOT_FOUND")

// RemoteFailure is the normalized view of an error returned by the platform.
// ErrorCode is a canonical code or empty when the rejection was unstructured.
// Fields preserves the order reported by the platform.
type RemoteFailure struct {
	ErrorCode string
	Fields    []string
	Message   string
	Original  error
}

func (f *RemoteFailure) Error() string {
	if f.ErrorCode != "" {
		return fmt.Sprintf("%s: %s", f.ErrorCode, f.Message)
	}
	if f.Message != "" {
		return f.Message
	}
	return "remote signup failure"
}

func (f *RemoteFailure) Unwrap() error {
	return f.Original
}

// NormalizeFailure builds a RemoteFailure from a raw platform rejection.
// rawCode is matched against the token tables; codes with no match carry no
// canonical code and classify by message alone.
func NormalizeFailure(rawCode string, fields []string, message string, original error) *RemoteFailure {
	return &RemoteFailure{
		ErrorCode: canonicalCode(rawCode),
		Fields:    fields,
		Message:   message,
		Original:  original,
	}
}

func canonicalCode(rawCode string) string {
	if rawCode == "" {
		return ""
	}
	upper := strings.ToUpper(rawCode)
	for _, token := range requiredFieldTokens {
		if upper == token {
			return CodeRequiredFieldMissing
		}
	}
	return ""
}
