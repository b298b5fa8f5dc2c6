package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

type Auditor struct {
	AuditDir string
}

func NewAuditor(auditDir string) *Auditor {
	return &Auditor{
		AuditDir: auditDir,
	}
}

// SaveJSON saves the provided data as an indented JSON report. Filenames
// carry a timestamp so reports list chronologically, plus a UUID4 so two
// runs in the same second never collide.
func (a *Auditor) SaveJSON(data any) (string, error) {
	// Ensure audit directory exists
	if err := a.ensureAuditDir(); err != nil {
		return "", fmt.Errorf("failed to ensure audit directory: %w", err)
	}

	filename := fmt.Sprintf("%s-%s.json", time.Now().Format("20060102T150405"), uuid.New().String())
	path := filepath.Join(a.AuditDir, filename)

	// Marshal data to JSON
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal data to JSON: %w", err)
	}

	// Write JSON to file
	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return "", fmt.Errorf("failed to write audit file: %w", err)
	}

	return filename, nil
}

// ensureAuditDir creates the audit directory if it doesn't exist
func (a *Auditor) ensureAuditDir() error {
	if _, err := os.Stat(a.AuditDir); os.IsNotExist(err) {
		if err := os.MkdirAll(a.AuditDir, 0755); err != nil {
			return fmt.Errorf("failed to create audit directory: %w", err)
		}
	}
	return nil
}
