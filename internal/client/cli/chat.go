package cli

import (
	"context"
	"os"

	"dermascan/internal/client/api"
	"dermascan/internal/client/models"
)

// Chat runs a follow-up conversation about the last diagnosis. An empty line
// ends the conversation. Failed completions show the fallback message and
// keep the loop alive.
func (a *App) Chat(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Log in first.")
		return nil
	}

	diagnosis := a.lastDiagnosis
	if diagnosis == "" {
		// Fall back on the most recent saved analysis.
		records, err := a.history.ListFor(ctx, a.owner(), true)
		if err == nil && len(records) > 0 {
			diagnosis = records[0].Disease
		}
	}
	if diagnosis == "" {
		printlnFn("Run 'analyze' first so the assistant knows your diagnosis.")
		return nil
	}

	printlnFn("Chatting about:", diagnosis, "(empty line to stop)")

	var turns []models.ChatMessage
	for {
		question, err := GetSimpleText(a.reader, "You:", os.Stdout)
		if err != nil || question == "" {
			return nil
		}

		reply, err := a.chat.Complete(ctx, diagnosis, turns, question)
		if err != nil {
			printlnFn("Assistant:", api.FallbackReply)
			continue
		}

		turns = append(turns,
			models.ChatMessage{Role: models.RoleUser, Content: question},
			models.ChatMessage{Role: models.RoleAssistant, Content: reply},
		)
		printlnFn("Assistant:", reply)
	}
}
