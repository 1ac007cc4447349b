package signup

import (
	"errors"

	"github.com/hub-provision/hps/internal/hub"
)

// ClassifyRemoteError maps one raw remote failure to exactly one taxonomy
// entry, most specific rule first:
//
//   - required-field code with a non-empty field list -> signupFieldsMissing
//   - any failure with message text -> generic creation-failed, message
//     preserved verbatim
//   - anything else -> generic creation-failed with the fallback message
//
// Raw failures are never surfaced to the caller unclassified.
func (o *Orchestrator) ClassifyRemoteError(err error) *SignupError {
	var failure *hub.RemoteFailure
	if errors.As(err, &failure) {
		if failure.ErrorCode == hub.CodeRequiredFieldMissing && len(failure.Fields) > 0 {
			return NewFieldsMissingError(o.catalog, failure.Fields)
		}
		if failure.Message != "" {
			return NewCreationFailedError(o.catalog, failure.Message, err)
		}
		return NewUnknownCreationError(o.catalog, err)
	}

	if err != nil && err.Error() != "" {
		return NewCreationFailedError(o.catalog, err.Error(), err)
	}
	return NewUnknownCreationError(o.catalog, err)
}
