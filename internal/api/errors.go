package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hub-provision/hps/internal/signup"
)

// ToAPIError converts an error to an HTTP status code and JSON body.
// Signup errors map by their exit-code classification; anything else is an
// internal error with the original text preserved in details.
func ToAPIError(err error) (int, []byte) {
	if err == nil {
		return http.StatusOK, nil
	}

	var signupErr *signup.SignupError
	if errors.As(err, &signupErr) {
		statusCode := statusForSignupError(signupErr)
		return statusCode, marshalErrorResponse(signupErr.Code, signupErr.Message, errorDetails(signupErr))
	}

	return http.StatusInternalServerError, marshalErrorResponse("INTERNAL", "Internal server error", map[string]any{
		"original": err.Error(),
	})
}

func statusForSignupError(signupErr *signup.SignupError) int {
	switch signupErr.ExitCode {
	case signup.ExitCodeConflict:
		return http.StatusConflict
	case signup.ExitCodeBadRequest:
		return http.StatusBadRequest
	case signup.ExitCodeRemoteFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func errorDetails(signupErr *signup.SignupError) any {
	if len(signupErr.Actions) == 0 {
		return nil
	}
	return map[string]any{
		"actions": signupErr.Actions,
	}
}

// marshalErrorResponse creates a JSON error response with correlation ID.
func marshalErrorResponse(code, message string, details any) []byte {
	jsonBytes, err := json.Marshal(ErrorResponse(code, message, details))
	if err != nil {
		fallback := map[string]any{
			"result":  "error",
			"code":    "INTERNAL",
			"message": "Failed to marshal error response",
		}
		jsonBytes, _ := json.Marshal(fallback)
		return jsonBytes
	}
	return jsonBytes
}
