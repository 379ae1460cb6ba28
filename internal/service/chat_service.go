package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fincompare/internal/dto"
	"fincompare/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrEmptyMessage = errors.New("message is empty")

// maxSuggestions caps the suggestion list returned to the client.
const maxSuggestions = 12

type completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type messageStore interface {
	Create(ctx context.Context, msg *models.ChatMessage) error
	Recent(ctx context.Context, userID uuid.UUID, sessionID string, limit uint64) ([]*models.ChatMessage, error)
	List(ctx context.Context, userID uuid.UUID, sessionID string, limit uint64) ([]*models.ChatMessage, error)
	ClearSession(ctx context.Context, userID uuid.UUID, sessionID string) error
}

type accountLister interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Account, error)
}

type chatUserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type ChatService struct {
	llm           completer
	messages      messageStore
	accounts      accountLister
	users         chatUserStore
	historyWindow int
	logger        *zap.Logger
}

func NewChatService(llm completer, messages messageStore, accounts accountLister, users chatUserStore, historyWindow int, logger *zap.Logger) *ChatService {
	return &ChatService{
		llm:           llm,
		messages:      messages,
		accounts:      accounts,
		users:         users,
		historyWindow: historyWindow,
		logger:        logger,
	}
}

// Send forwards a user message to the assistant and persists the exchange.
// Plain greetings are answered locally without an LLM round trip.
func (s *ChatService) Send(ctx context.Context, userID uuid.UUID, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	accounts, err := s.accounts.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Plain greetings are answered immediately and never enter session memory.
	if isGreeting(message) {
		now := time.Now()
		return &dto.ChatResponse{
			Response:  personalizedGreeting(user, accounts, now),
			SessionID: sessionID,
			Timestamp: now.Format(time.RFC3339),
		}, nil
	}

	history, err := s.loadHistory(ctx, userID, sessionID)
	if err != nil {
		// History is best effort; an empty window still produces a valid prompt.
		s.logger.Warn("Failed to load chat history", zap.Error(err))
	}

	prompt := buildPrompt(buildUserContext(user, accounts), history, message)
	reply, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("assistant request failed: %w", err)
	}

	now := time.Now()
	if err := s.saveExchange(ctx, userID, sessionID, message, reply, now); err != nil {
		// The reply was produced; losing memory should not fail the request.
		s.logger.Error("Failed to save chat exchange", zap.Error(err))
	}

	return &dto.ChatResponse{
		Response:  reply,
		SessionID: sessionID,
		Timestamp: now.Format(time.RFC3339),
	}, nil
}

// History returns a session's messages in chronological order.
func (s *ChatService) History(ctx context.Context, userID uuid.UUID, sessionID string, limit int) ([]dto.ChatMessageResponse, error) {
	if limit < 0 {
		limit = 0
	}

	messages, err := s.messages.List(ctx, userID, sessionID, uint64(limit))
	if err != nil {
		return nil, err
	}

	out := make([]dto.ChatMessageResponse, 0, len(messages))
	for _, msg := range messages {
		out = append(out, dto.ChatMessageResponse{
			Role:      string(msg.Role),
			Content:   msg.Content,
			Timestamp: msg.CreatedAt.Format(time.RFC3339),
		})
	}

	return out, nil
}

func (s *ChatService) ClearHistory(ctx context.Context, userID uuid.UUID, sessionID string) error {
	return s.messages.ClearSession(ctx, userID, sessionID)
}

// Suggestions returns a deterministic, personalized list of example queries.
func (s *ChatService) Suggestions(ctx context.Context, userID uuid.UUID) (*dto.SuggestionsResponse, error) {
	accounts, err := s.accounts.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &dto.SuggestionsResponse{Suggestions: buildSuggestions(accounts)}, nil
}

// Welcome returns a personalized greeting without requiring a chat message.
func (s *ChatService) Welcome(ctx context.Context, userID uuid.UUID) (*dto.WelcomeResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	accounts, err := s.accounts.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &dto.WelcomeResponse{
		Message:      personalizedGreeting(user, accounts, time.Now()),
		UserName:     user.DisplayName(),
		UserFullName: user.FullName(),
	}, nil
}

// loadHistory returns the last exchanges of the session in chronological
// order. The window is counted in exchanges, so twice as many rows.
func (s *ChatService) loadHistory(ctx context.Context, userID uuid.UUID, sessionID string) ([]*models.ChatMessage, error) {
	recent, err := s.messages.Recent(ctx, userID, sessionID, uint64(s.historyWindow*2))
	if err != nil {
		return nil, err
	}

	// Newest first in storage order; reverse to chronological.
	for i, j := 0, len(recent)-1; i < j; i, j = i+1, j-1 {
		recent[i], recent[j] = recent[j], recent[i]
	}

	return recent, nil
}

func (s *ChatService) saveExchange(ctx context.Context, userID uuid.UUID, sessionID, message, reply string, now time.Time) error {
	userMsg := &models.ChatMessage{
		ID:        uuid.New(),
		UserID:    userID,
		SessionID: sessionID,
		Role:      models.ChatRoleUser,
		Content:   message,
		CreatedAt: now,
	}
	if err := s.messages.Create(ctx, userMsg); err != nil {
		return err
	}

	assistantMsg := &models.ChatMessage{
		ID:        uuid.New(),
		UserID:    userID,
		SessionID: sessionID,
		Role:      models.ChatRoleAssistant,
		Content:   reply,
		// Nudged forward so the pair sorts deterministically by creation time.
		CreatedAt: now.Add(time.Millisecond),
	}
	return s.messages.Create(ctx, assistantMsg)
}

var greetingWords = []string{"hello", "hi", "hey", "good morning", "good afternoon", "good evening"}

// isGreeting reports whether the message is a plain greeting.
func isGreeting(message string) bool {
	lower := strings.ToLower(strings.TrimSpace(message))

	for _, word := range greetingWords {
		if lower == word || strings.HasPrefix(lower, word) {
			return true
		}
	}

	if len(strings.Fields(lower)) <= 3 {
		for _, word := range greetingWords {
			if strings.Contains(lower, word) {
				return true
			}
		}
	}

	return false
}

func timeGreeting(hour int) string {
	switch {
	case hour < 12:
		return "Good morning"
	case hour < 17:
		return "Good afternoon"
	default:
		return "Good evening"
	}
}

// personalizedGreeting builds the deterministic greeting used for plain
// greetings and the welcome endpoint.
func personalizedGreeting(user *models.User, accounts []*models.Account, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s, %s!\n\n", timeGreeting(now.Hour()), user.DisplayName())

	switch len(accounts) {
	case 0:
		b.WriteString("Welcome! I'm here to help you get started with connecting your bank accounts and managing your finances.\n\n")
	case 1:
		fmt.Fprintf(&b, "I see you have an account with %s. I can help you check balances, compare rates, and more!\n\n", accounts[0].InstitutionName)
	default:
		banks := distinctBanks(accounts)
		fmt.Fprintf(&b, "Great to see you managing accounts across %d banks! I can help you with balances, conversions, and comparisons.\n\n", len(banks))
	}

	b.WriteString("What would you like to know about your finances today?")
	return b.String()
}

// buildUserContext renders the caller's financial footprint for the prompt.
func buildUserContext(user *models.User, accounts []*models.Account) string {
	var b strings.Builder
	fmt.Fprintf(&b, "User: %s", user.DisplayName())
	if full := user.FullName(); full != "" && full != user.DisplayName() {
		fmt.Fprintf(&b, " (%s)", full)
	}
	b.WriteString("\n")

	if len(accounts) == 0 {
		b.WriteString("The user has no linked bank accounts.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "Linked accounts: %d\n", len(accounts))
	for _, ac := range accounts {
		fmt.Fprintf(&b, "- %s, account %s, %s, status %s", ac.InstitutionName, ac.AccountNumber, ac.Currency, ac.Status)
		if ac.AvailableBalance.Valid {
			fmt.Fprintf(&b, ", balance %s %s", ac.AvailableBalance.Decimal.StringFixed(2), ac.Currency)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// buildPrompt folds the user context and recent conversation into a single
// prompt for the model.
func buildPrompt(userContext string, history []*models.ChatMessage, message string) string {
	var b strings.Builder

	b.WriteString("Context about the user:\n")
	b.WriteString(userContext)
	b.WriteString("\n")

	if len(history) > 0 {
		b.WriteString("Recent conversation:\n")
		for _, msg := range history {
			role := "User"
			if msg.Role == models.ChatRoleAssistant {
				role = "Assistant"
			}
			fmt.Fprintf(&b, "%s: %s\n", role, msg.Content)
		}
		b.WriteString("\n")
	}

	b.WriteString("User message:\n")
	b.WriteString(message)

	return b.String()
}

func buildSuggestions(accounts []*models.Account) []string {
	suggestions := []string{
		"Hello! Give me a personalized greeting",
		"Show me my profile information",
		"Give me my financial overview",
	}

	banks := distinctBanks(accounts)
	currencies := distinctCurrencies(accounts)

	if len(accounts) > 0 {
		suggestions = append(suggestions,
			"Show me my account balances",
			"What's my total balance?",
			"Give me a balance summary",
			"Show me my account summary with insights",
		)
		if len(banks) > 0 {
			suggestions = append(suggestions, fmt.Sprintf("Check my balance at %s", banks[0]))
			if len(banks) > 1 {
				suggestions = append(suggestions, fmt.Sprintf("Compare my accounts across %d banks", len(banks)))
			}
		}
	}

	switch {
	case len(currencies) > 1:
		suggestions = append(suggestions,
			fmt.Sprintf("Convert between my currencies (%s)", strings.Join(currencies[:2], ", ")),
			"Compare rates for my currencies",
		)
	case len(currencies) == 1:
		if currencies[0] != "USD" {
			suggestions = append(suggestions, fmt.Sprintf("Convert %s to USD", currencies[0]))
		}
		if currencies[0] != "EUR" {
			suggestions = append(suggestions, fmt.Sprintf("Convert %s to EUR", currencies[0]))
		}
	}

	suggestions = append(suggestions,
		"What are the best USD to EUR exchange rates today?",
		"Compare exchange rates across all banks",
		"Convert 1000 USD to JOD",
		"Show me information about Arab Bank",
		"What currencies are available for exchange?",
		"What are the popular currency pairs?",
		"Which bank offers the best rates for USD/EUR?",
	)

	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}

	return suggestions
}

func distinctBanks(accounts []*models.Account) []string {
	seen := make(map[string]struct{})
	var banks []string
	for _, ac := range accounts {
		if _, ok := seen[ac.InstitutionName]; ok {
			continue
		}
		seen[ac.InstitutionName] = struct{}{}
		banks = append(banks, ac.InstitutionName)
	}
	return banks
}

func distinctCurrencies(accounts []*models.Account) []string {
	seen := make(map[string]struct{})
	var currencies []string
	for _, ac := range accounts {
		if _, ok := seen[ac.Currency]; ok {
			continue
		}
		seen[ac.Currency] = struct{}{}
		currencies = append(currencies, ac.Currency)
	}
	return currencies
}
