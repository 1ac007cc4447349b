package hub

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCreateScratchOrgInfoSuccess(t *testing.T) {
	var gotAuth string
	var gotRecord ScratchOrgInfoRecord

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/services/data/v1/sobjects/ScratchOrgInfo" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotRecord); err != nil {
			t.Errorf("Failed to decode record: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(CreateResult{ID: "2SR000000000001", Success: true})
	}))
	defer server.Close()

	conn := NewRestConnection(server.URL, "v1", "token-abc")
	result, err := conn.CreateScratchOrgInfo(context.Background(), &ScratchOrgInfoRecord{
		SignupUsername: "new@example.org",
		SignupEmail:    "admin@example.org",
	})
	if err != nil {
		t.Fatalf("CreateScratchOrgInfo() failed: %v", err)
	}

	if !result.Success || result.ID != "2SR000000000001" {
		t.Errorf("Unexpected result: %+v", result)
	}
	if gotAuth != "Bearer token-abc" {
		t.Errorf("Missing bearer token, got %q", gotAuth)
	}
	if gotRecord.SignupUsername != "new@example.org" {
		t.Errorf("Record not submitted, got %+v", gotRecord)
	}
}

func TestCreateScratchOrgInfoStructuredRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`[{"message":"Required fields are missing","errorCode":"REQUIRED_FIELD_MISSING","fields":["SignupEmail","Username"]}]`))
	}))
	defer server.Close()

	conn := NewRestConnection(server.URL, "v1", "token")
	_, err := conn.CreateScratchOrgInfo(context.Background(), &ScratchOrgInfoRecord{})
	if err == nil {
		t.Fatal("Expected error for rejected creation")
	}

	var failure *RemoteFailure
	if !errors.As(err, &failure) {
		t.Fatalf("Expected *RemoteFailure, got %T", err)
	}
	if failure.ErrorCode != CodeRequiredFieldMissing {
		t.Errorf("Expected canonical code, got %q", failure.ErrorCode)
	}
	if len(failure.Fields) != 2 || failure.Fields[0] != "SignupEmail" || failure.Fields[1] != "Username" {
		t.Errorf("Field list not preserved: %v", failure.Fields)
	}
}

func TestCreateScratchOrgInfoUnstructuredRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("MyError"))
	}))
	defer server.Close()

	conn := NewRestConnection(server.URL, "v1", "token")
	_, err := conn.CreateScratchOrgInfo(context.Background(), &ScratchOrgInfoRecord{})

	var failure *RemoteFailure
	if !errors.As(err, &failure) {
		t.Fatalf("Expected *RemoteFailure, got %T", err)
	}
	if failure.ErrorCode != "" {
		t.Errorf("Unstructured rejection should carry no code, got %q", failure.ErrorCode)
	}
	if failure.Message != "MyError" {
		t.Errorf("Message not preserved verbatim: %q", failure.Message)
	}
}

func TestResolveAuthorizationFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/services/data/v1/authorizations/known@example.org" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Authorization{
			Username: "known@example.org",
			OrgID:    "00D000000000001",
		})
	}))
	defer server.Close()

	conn := NewRestConnection(server.URL, "v1", "token")
	auth, err := conn.ResolveAuthorization(context.Background(), "known@example.org")
	if err != nil {
		t.Fatalf("ResolveAuthorization() failed: %v", err)
	}
	if auth.OrgID != "00D000000000001" {
		t.Errorf("Unexpected authorization: %+v", auth)
	}
}

func TestResolveAuthorizationNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	conn := NewRestConnection(server.URL, "v1", "token")
	_, err := conn.ResolveAuthorization(context.Background(), "absent@example.org")
	if !errors.Is(err, ErrNamedOrgNotFound) {
		t.Errorf("Expected ErrNamedOrgNotFound, got %v", err)
	}
}

func TestResolveAuthorizationServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream unavailable"))
	}))
	defer server.Close()

	conn := NewRestConnection(server.URL, "v1", "token")
	_, err := conn.ResolveAuthorization(context.Background(), "user@example.org")
	if err == nil {
		t.Fatal("Expected error for server failure")
	}
	if errors.Is(err, ErrNamedOrgNotFound) {
		t.Error("Server failure must not be reported as not-found")
	}
}
