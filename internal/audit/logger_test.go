package audit

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/hub-provision/hps/internal/auth"
)

func readEntries(t *testing.T, path string) []Entry {
	t.Helper()
	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open audit log: %v", err)
	}
	defer file.Close()

	var entries []Entry
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var entry Entry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			t.Fatalf("Malformed audit line %q: %v", scanner.Text(), err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestLogActionWritesJSONL(t *testing.T) {
	logger, err := NewLogger(t.TempDir())
	if err != nil {
		t.Fatalf("NewLogger() failed: %v", err)
	}
	defer logger.Close()

	logger.LogAction(context.Background(), "identityPrecheck", "new@example.org", "NOT_FOUND", 12*time.Millisecond)

	entries := readEntries(t, logger.GetFilePath())
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry.Action != "identityPrecheck" || entry.Username != "new@example.org" || entry.Outcome != "NOT_FOUND" {
		t.Errorf("Unexpected entry: %+v", entry)
	}
	if entry.User != "unknown" {
		t.Errorf("Unauthenticated flow should log user=unknown, got %q", entry.User)
	}
}

func TestLogProvisionActionCarriesUserFromContext(t *testing.T) {
	logger, err := NewLogger(t.TempDir())
	if err != nil {
		t.Fatalf("NewLogger() failed: %v", err)
	}
	defer logger.Close()

	ctx := context.WithValue(context.Background(), auth.ClaimsKey, &auth.Claims{Subject: "operator@example.org"})
	logger.LogProvisionAction(ctx, "devhub", "new@example.org", map[string]any{"snapshot": "base"}, "SUCCESS", 40*time.Millisecond)

	entries := readEntries(t, logger.GetFilePath())
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry.User != "operator@example.org" || entry.HubAlias != "devhub" || entry.Action != "createScratchOrg" {
		t.Errorf("Unexpected entry: %+v", entry)
	}
}

func TestRotate(t *testing.T) {
	logger, err := NewLogger(t.TempDir())
	if err != nil {
		t.Fatalf("NewLogger() failed: %v", err)
	}
	defer logger.Close()

	logger.LogAction(context.Background(), "identityPrecheck", "u@example.org", "SUCCESS", 0)
	if err := logger.Rotate(); err != nil {
		t.Fatalf("Rotate() failed: %v", err)
	}
	logger.LogAction(context.Background(), "identityPrecheck", "u@example.org", "SUCCESS", 0)

	entries := readEntries(t, logger.GetFilePath())
	if len(entries) != 1 {
		t.Errorf("Fresh file after rotate should have 1 entry, got %d", len(entries))
	}
}

func TestWriteAfterCloseIsNoop(t *testing.T) {
	logger, err := NewLogger(t.TempDir())
	if err != nil {
		t.Fatalf("NewLogger() failed: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	// Must not panic or recreate the file handle.
	logger.LogAction(context.Background(), "identityPrecheck", "u@example.org", "SUCCESS", 0)
	if err := logger.Close(); err != nil {
		t.Errorf("Second Close() failed: %v", err)
	}
}
