// Package assistant defines the capability contract for the AI-assisted
// software-engineering operations and the fault taxonomy shared by the
// upstream client variants.
package assistant

import (
	"context"

	"smartsdlc/internal/models"
)

// Generator is the seam between the operation layer and an upstream model
// client. Both client variants (direct REST and oauth2-based) implement it.
type Generator interface {
	// GenerateText submits one generation request and returns the raw model
	// text. Transport, auth, and upstream failures come back as *Fault.
	GenerateText(ctx context.Context, req models.GenerationRequest) (string, error)
}

// Assistant is the operation contract the presentation layer consumes.
// Implementations never propagate transport faults as errors: each operation
// returns a user-facing string (or tagged classification) even on failure.
type Assistant interface {
	GenerateCode(ctx context.Context, requirements, language string) string
	GenerateTests(ctx context.Context, code, framework string) string
	FixBugs(ctx context.Context, code, errorDescription string) string
	SummarizeCode(ctx context.Context, code string) string
	ClassifyRequirements(ctx context.Context, requirements string) models.Classification
	Chat(ctx context.Context, query, historyContext string) string
}
