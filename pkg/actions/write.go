package actions

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/deckhand/pkg/domain"
)

// WriteFile writes content to path, creating parent directories and replacing any
// existing content.
func WriteFile(path, content string) domain.WriteReport {
	abs, err := filepath.Abs(path)
	if err == nil {
		err = os.MkdirAll(filepath.Dir(abs), 0o755)
	}
	if err == nil {
		err = os.WriteFile(abs, []byte(content), 0o644)
	}
	if err != nil {
		msg := fmt.Sprintf("Failed to write %s: %v", path, err)
		return domain.WriteReport{Error: &msg}
	}
	msg := fmt.Sprintf("Wrote %d bytes to %s", len(content), abs)
	return domain.WriteReport{Success: &msg}
}
