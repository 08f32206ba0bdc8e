// Package dispatch is the operation facade: it renders the prompt template
// for each assistant operation, applies the temperature rule, performs the
// upstream call, and converts faults into user-facing result strings so the
// presentation layer never handles a raised transport error.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"smartsdlc/internal/assistant"
	"smartsdlc/internal/config"
	"smartsdlc/internal/metrics"
	"smartsdlc/internal/models"
	"smartsdlc/internal/prompt"
)

// Service implements assistant.Assistant over any Generator.
type Service struct {
	gen      assistant.Generator
	defaults models.Parameters
}

// New constructs the facade with the configured default decoding parameters.
func New(gen assistant.Generator, genCfg config.GenerationConfig) *Service {
	return &Service{
		gen: gen,
		defaults: models.Parameters{
			DecodingMethod: "greedy",
			MaxNewTokens:   genCfg.MaxNewTokens,
			MinNewTokens:   genCfg.MinNewTokens,
			Temperature:    genCfg.Temperature,
			TopK:           genCfg.TopK,
			TopP:           genCfg.TopP,
			StopSequences:  genCfg.StopSequences,
		},
	}
}

func (s *Service) GenerateCode(ctx context.Context, requirements, language string) string {
	return s.generate(ctx, models.KindCode, prompt.CodeArgs{
		Requirements: requirements,
		Language:     language,
	})
}

func (s *Service) GenerateTests(ctx context.Context, code, framework string) string {
	return s.generate(ctx, models.KindTest, prompt.TestArgs{
		Code:      code,
		Framework: framework,
	})
}

func (s *Service) FixBugs(ctx context.Context, code, errorDescription string) string {
	return s.generate(ctx, models.KindFix, prompt.FixArgs{
		Code:             code,
		ErrorDescription: errorDescription,
	})
}

func (s *Service) SummarizeCode(ctx context.Context, code string) string {
	return s.generate(ctx, models.KindSummarize, prompt.SummarizeArgs{Code: code})
}

func (s *Service) ClassifyRequirements(ctx context.Context, requirements string) models.Classification {
	text, fault := s.generateChecked(ctx, models.KindClassify, prompt.ClassifyArgs{Requirements: requirements})
	if fault != "" {
		return models.Classification{Error: fault}
	}

	result := ExtractClassification(text)
	if !result.OK() {
		metrics.ClassificationParseFailures.Inc()
	}
	return result
}

func (s *Service) Chat(ctx context.Context, query, historyContext string) string {
	reply := s.generate(ctx, models.KindChat, prompt.ChatArgs{
		Query:   query,
		Context: historyContext,
	})
	return strings.TrimSpace(reply)
}

// generate runs one operation end to end and always returns displayable text.
func (s *Service) generate(ctx context.Context, kind models.Kind, args any) string {
	text, fault := s.generateChecked(ctx, kind, args)
	if fault != "" {
		return fault
	}
	return text
}

// generateChecked returns the model text, or a non-empty user-facing fault
// message when the call failed.
func (s *Service) generateChecked(ctx context.Context, kind models.Kind, args any) (string, string) {
	input, err := prompt.Render(kind, args)
	if err != nil {
		slog.Error("prompt render failed", "operation", kind, "err", err)
		metrics.GenerationsTotal.WithLabelValues(string(kind), "render_error").Inc()
		return "", fmt.Sprintf("Error: could not build the request prompt: %v", err)
	}

	req := models.GenerationRequest{
		Input:      input,
		Kind:       kind,
		Parameters: s.parameters(kind),
	}

	text, err := s.gen.GenerateText(ctx, req)
	if err != nil {
		if fault, ok := assistant.AsFault(err); ok {
			slog.Warn("generation failed", "operation", kind, "fault", fault.Kind)
			metrics.GenerationsTotal.WithLabelValues(string(kind), string(fault.Kind)).Inc()
			return "", fault.Message
		}
		slog.Error("generation failed", "operation", kind, "err", err)
		metrics.GenerationsTotal.WithLabelValues(string(kind), "error").Inc()
		return "", fmt.Sprintf("Unexpected error during API call: %v", err)
	}

	metrics.GenerationsTotal.WithLabelValues(string(kind), metrics.OutcomeOK).Inc()
	return text, ""
}

func (s *Service) parameters(kind models.Kind) models.Parameters {
	params := s.defaults
	params.Temperature = prompt.Temperature(kind, s.defaults.Temperature)
	return params
}

var _ assistant.Assistant = (*Service)(nil)
