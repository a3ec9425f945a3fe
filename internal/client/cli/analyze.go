package cli

import (
	"context"
	"errors"
	"fmt"

	"dermascan/internal/client/api"
	"dermascan/internal/client/models"
)

// Analyze submits the image to the inference endpoint and, on success,
// appends the result to the current user's history.
func (a *App) Analyze(ctx context.Context, imagePath string) error {
	owner := a.owner()
	if owner == "" {
		printlnFn("Log in before analyzing images.")
		return nil
	}

	printlnFn("Analyzing", imagePath, "...")

	result, err := a.inference.Analyze(ctx, imagePath)
	if err != nil {
		switch {
		case errors.Is(err, api.ErrTimeout):
			printlnFn("The analysis timed out. Try again.")
		case errors.Is(err, api.ErrUnreachable):
			printlnFn("Could not reach the analysis server.")
		case errors.Is(err, api.ErrAnalysisFailed):
			printlnFn("The image could not be analyzed.")
		default:
			printlnFn("error:", err.Error())
		}
		return err
	}

	rec := models.AnalysisRecord{
		Disease:    result.Disease,
		Confidence: result.Confidence,
		ImageURI:   imagePath,
	}
	if _, err := a.history.Append(ctx, rec, owner); err != nil {
		printlnFn("Result:", result.Disease, "(could not be saved to history)")
		return err
	}

	a.lastDiagnosis = result.Disease

	if result.Confidence != nil {
		printlnFn(fmt.Sprintf("Result: %s (confidence %.0f%%)", result.Disease, *result.Confidence*100))
	} else {
		printlnFn("Result:", result.Disease)
	}
	printlnFn("Saved to history. Type 'chat' to ask follow-up questions.")
	return nil
}
