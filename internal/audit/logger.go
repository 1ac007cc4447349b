// Package audit writes an append-only JSONL record of provisioning actions.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/hub-provision/hps/internal/auth"
)

// Entry represents a single audit log entry.
type Entry struct {
	Timestamp time.Time      `json:"ts"`
	User      string         `json:"user"`
	HubAlias  string         `json:"hub"`
	Username  string         `json:"username"`
	Action    string         `json:"action"`
	Params    map[string]any `json:"params,omitempty"`
	Outcome   string         `json:"outcome"`
	LatencyMs int64          `json:"latencyMs"`
}

// Logger implements the audit logging functionality.
type Logger struct {
	mu       sync.Mutex
	filePath string
	file     *os.File
}

// NewLogger creates a new audit logger writing to audit.jsonl under logDir.
func NewLogger(logDir string) (*Logger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	filePath := filepath.Join(logDir, "audit.jsonl")
	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log file: %w", err)
	}

	return &Logger{
		filePath: filePath,
		file:     file,
	}, nil
}

// LogAction logs an audit record for a signup pipeline action.
func (l *Logger) LogAction(ctx context.Context, action, username, result string, latency time.Duration) {
	l.writeEntry(Entry{
		Timestamp: time.Now().UTC(),
		User:      userFromContext(ctx),
		Username:  username,
		Action:    action,
		Outcome:   result,
		LatencyMs: latency.Milliseconds(),
	})
}

// LogProvisionAction logs a provisioning attempt with its request parameters.
func (l *Logger) LogProvisionAction(ctx context.Context, hubAlias, username string, params map[string]any, outcome string, latency time.Duration) {
	l.writeEntry(Entry{
		Timestamp: time.Now().UTC(),
		User:      userFromContext(ctx),
		HubAlias:  hubAlias,
		Username:  username,
		Action:    "createScratchOrg",
		Params:    params,
		Outcome:   outcome,
		LatencyMs: latency.Milliseconds(),
	})
}

// writeEntry writes an audit entry to the log file.
func (l *Logger) writeEntry(entry Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return
	}

	jsonData, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to marshal audit entry: %v\n", err)
		return
	}

	if _, err := l.file.Write(append(jsonData, '\n')); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write audit entry: %v\n", err)
		return
	}

	if err := l.file.Sync(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to sync audit log: %v\n", err)
	}
}

// userFromContext extracts the authenticated subject, populated by the auth
// middleware. Falls back to "unknown" for unauthenticated flows.
func userFromContext(ctx context.Context) string {
	if claims, ok := ctx.Value(auth.ClaimsKey).(*auth.Claims); ok && claims.Subject != "" {
		return claims.Subject
	}
	return "unknown"
}

// Close closes the audit logger and its file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// GetFilePath returns the path to the audit log file.
func (l *Logger) GetFilePath() string {
	return l.filePath
}

// Rotate renames the current log file with a timestamp suffix and opens a
// fresh one.
func (l *Logger) Rotate() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		if err := l.file.Close(); err != nil {
			return fmt.Errorf("failed to close current log file: %w", err)
		}
	}

	timestamp := time.Now().Format("20060102-150405")
	if err := os.Rename(l.filePath, fmt.Sprintf("%s.%s", l.filePath, timestamp)); err != nil {
		return fmt.Errorf("failed to rename log file: %w", err)
	}

	file, err := os.OpenFile(l.filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open new log file: %w", err)
	}

	l.file = file
	return nil
}
