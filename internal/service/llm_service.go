package service

import (
	"context"
	"fmt"
	"strings"

	"fincompare/pkg/config"

	"github.com/Role1776/gigago"
	"go.uber.org/zap"
)

type LLMService struct {
	client *gigago.Client
	model  *gigago.GenerativeModel
	logger *zap.Logger
}

// buildSystemInstruction returns the standing instruction for the assistant.
func buildSystemInstruction() string {
	return `You are a professional AI financial advisor for a bank and FX comparison platform.

You answer questions about banks, financial products, fees, exchange rates and
currency conversion. The user's message may be preceded by a context block with
their accounts, banks, currencies and recent conversation - use it to
personalize the answer instead of asking for the same information again.

Guidelines:
- Format answers with Markdown: headers, bullet points, tables for tabular data
- Present monetary amounts with their currency codes (e.g. 1,234.56 JOD)
- Be concrete and practical; add short insights and recommendations
- Be conversational and personable
- Never invent balances or rates that are not present in the context`
}

func NewLLMService(cfg *config.GigaChatConfig, logger *zap.Logger) (*LLMService, error) {
	ctx := context.Background()

	opts := []gigago.Option{
		gigago.WithCustomScope(cfg.Scope),
	}
	if cfg.InsecureSkipVerify {
		opts = append(opts, gigago.WithCustomInsecureSkipVerify(true))
		logger.Warn("GigaChat TLS certificate verification is disabled")
	}

	client, err := gigago.NewClient(ctx, cfg.APIKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GigaChat client: %w", err)
	}

	model := client.GenerativeModel(cfg.Model)
	model.SystemInstruction = buildSystemInstruction()
	model.Temperature = 0.75

	return &LLMService{
		client: client,
		model:  model,
		logger: logger,
	}, nil
}

// Complete sends a single prompt to the model and returns the reply text.
// Conversation history and user context are expected to be folded into the
// prompt by the caller.
func (s *LLMService) Complete(ctx context.Context, prompt string) (string, error) {
	messages := []gigago.Message{
		{Role: gigago.RoleUser, Content: prompt},
	}

	resp, err := s.model.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("failed to generate response: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from LLM")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (s *LLMService) Close() error {
	if s.client != nil {
		s.client.Close()
	}
	return nil
}
