package settings

import (
	"errors"
	"testing"

	"github.com/hub-provision/hps/internal/messages"
	"github.com/hub-provision/hps/internal/signup"
)

func newGenerator() *Generator {
	return NewGenerator(messages.Default())
}

func TestExtractPlainRequest(t *testing.T) {
	extracted, err := newGenerator().Extract(&signup.ScratchOrgRequest{
		SignupUsername: "new@example.org",
	})
	if err != nil {
		t.Fatalf("Extract() failed: %v", err)
	}
	if extracted != nil {
		t.Errorf("Request without settings should extract nil, got %v", extracted)
	}
}

func TestExtractNewStyleSettings(t *testing.T) {
	req := &signup.ScratchOrgRequest{
		Settings: map[string]any{
			"orgPreferenceSettings": map[string]any{"s1DesktopEnabled": true},
		},
	}

	extracted, err := newGenerator().Extract(req)
	if err != nil {
		t.Fatalf("Extract() failed: %v", err)
	}
	if _, ok := extracted["orgPreferenceSettings"]; !ok {
		t.Errorf("Settings not extracted: %v", extracted)
	}

	// The extracted map must not alias the caller's map.
	extracted["injected"] = true
	if _, ok := req.Settings["injected"]; ok {
		t.Error("Extract must copy, not alias, the request settings")
	}
}

func TestExtractDuplicateShapes(t *testing.T) {
	req := &signup.ScratchOrgRequest{
		Settings:       map[string]any{"a": 1},
		OrgPreferences: map[string]bool{"ChatterEnabled": true},
	}

	_, err := newGenerator().Extract(req)
	var signupErr *signup.SignupError
	if !errors.As(err, &signupErr) {
		t.Fatalf("Expected *signup.SignupError, got %T", err)
	}
	if signupErr.Code != messages.SignupDuplicateSettingsSpecified {
		t.Errorf("Expected duplicate-settings code, got %q", signupErr.Code)
	}
	if signupErr.ExitCode != signup.ExitCodeBadRequest {
		t.Errorf("Duplicate settings should classify as bad request, got %d", signupErr.ExitCode)
	}
}

func TestExtractDeprecatedFormat(t *testing.T) {
	req := &signup.ScratchOrgRequest{
		OrgPreferences: map[string]bool{"ChatterEnabled": true},
	}

	_, err := newGenerator().Extract(req)
	var signupErr *signup.SignupError
	if !errors.As(err, &signupErr) {
		t.Fatalf("Expected *signup.SignupError, got %T", err)
	}
	if signupErr.Code != messages.DeprecatedPrefFormat {
		t.Errorf("Expected deprecated-format code, got %q", signupErr.Code)
	}
}
