package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/deckhand/internal/config"
	"github.com/aretw0/deckhand/pkg/actions"
	"github.com/aretw0/deckhand/pkg/domain"
	"github.com/aretw0/deckhand/pkg/registry"
)

// VerifyLog is written to the working directory when the connectivity probe fails.
const VerifyLog = "error.log"

// VerifyPrompt is sent by Verify.
const VerifyPrompt = "Hello, are you ready?"

// Verify sends one probe request with the full catalog and reports the outcome on w.
// On failure the reply is also written to VerifyLog.
func Verify(ctx context.Context, cfg *config.Config, w io.Writer) error {
	if err := cfg.RequireCredential(); err != nil {
		return err
	}

	fmt.Fprintln(w, actions.SystemInfo())
	fmt.Fprintf(w, "Model: %s\n", cfg.Provider.Model)
	fmt.Fprintln(w, "Testing API connection...")

	assistant := NewAssistant(cfg, CreateLogger(false, cfg.Log.Level), nil)
	reply := assistant.Client().Ask(ctx, VerifyPrompt, registry.Builtins())

	data, _ := json.MarshalIndent(reply, "", "  ")
	if reply.Kind == domain.ReplyError {
		if err := os.WriteFile(VerifyLog, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", VerifyLog, err)
		}
		fmt.Fprintf(w, "FAILED: See %s\n", VerifyLog)
		return ErrActionsFailed
	}

	fmt.Fprintln(w, "SUCCESS: Connection established.")
	fmt.Fprintln(w, string(data))
	return nil
}
