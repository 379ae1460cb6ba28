package service

import (
	"context"
	"strings"
	"testing"

	"fincompare/internal/dto"
	"fincompare/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCompleter struct {
	reply      string
	err        error
	lastPrompt string
	calls      int
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	f.calls++
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type fakeMessageStore struct {
	messages []*models.ChatMessage
}

func (f *fakeMessageStore) Create(_ context.Context, msg *models.ChatMessage) error {
	f.messages = append(f.messages, msg)
	return nil
}

func (f *fakeMessageStore) Recent(_ context.Context, userID uuid.UUID, sessionID string, limit uint64) ([]*models.ChatMessage, error) {
	matched := f.forSession(userID, sessionID)
	// Newest first, as the repository returns them.
	var out []*models.ChatMessage
	for i := len(matched) - 1; i >= 0; i-- {
		out = append(out, matched[i])
		if limit > 0 && uint64(len(out)) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeMessageStore) List(_ context.Context, userID uuid.UUID, sessionID string, limit uint64) ([]*models.ChatMessage, error) {
	matched := f.forSession(userID, sessionID)
	if limit > 0 && uint64(len(matched)) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (f *fakeMessageStore) ClearSession(_ context.Context, userID uuid.UUID, sessionID string) error {
	var kept []*models.ChatMessage
	for _, msg := range f.messages {
		if msg.UserID == userID && (sessionID == "" || msg.SessionID == sessionID) {
			continue
		}
		kept = append(kept, msg)
	}
	f.messages = kept
	return nil
}

func (f *fakeMessageStore) forSession(userID uuid.UUID, sessionID string) []*models.ChatMessage {
	var out []*models.ChatMessage
	for _, msg := range f.messages {
		if msg.UserID == userID && (sessionID == "" || msg.SessionID == sessionID) {
			out = append(out, msg)
		}
	}
	return out
}

type fakeAccountLister struct {
	accounts []*models.Account
}

func (f *fakeAccountLister) ListByUser(_ context.Context, _ uuid.UUID) ([]*models.Account, error) {
	return f.accounts, nil
}

func testAccount(institution, currency, balance string) *models.Account {
	ac := &models.Account{
		ID:              uuid.New(),
		AccountNumber:   "JO0001",
		Status:          models.AccountStatusActive,
		Currency:        currency,
		InstitutionName: institution,
	}
	if balance != "" {
		ac.AvailableBalance = decimal.NewNullDecimal(decimal.RequireFromString(balance))
	}
	return ac
}

func newChatFixture(accounts ...*models.Account) (*ChatService, *fakeCompleter, *fakeMessageStore, uuid.UUID) {
	user := &models.User{
		ID:        uuid.New(),
		Username:  "jdoe",
		Email:     "jdoe@example.com",
		FirstName: "John",
		LastName:  "Doe",
	}
	users := newFakeUserStore()
	users.byID[user.ID] = user
	users.byEmail[user.Email] = user

	llm := &fakeCompleter{reply: "Here is your answer."}
	messages := &fakeMessageStore{}
	svc := NewChatService(llm, messages, &fakeAccountLister{accounts: accounts}, users, 5, zap.NewNop())

	return svc, llm, messages, user.ID
}

func TestSendPersistsExchange(t *testing.T) {
	svc, llm, messages, userID := newChatFixture(testAccount("Arab Bank", "JOD", "1500.00"))

	resp, err := svc.Send(context.Background(), userID, &dto.ChatRequest{Message: "What is my balance?"})
	require.NoError(t, err)
	assert.Equal(t, "Here is your answer.", resp.Response)
	assert.NotEmpty(t, resp.SessionID, "a session id is minted when the client sends none")
	assert.Equal(t, 1, llm.calls)

	require.Len(t, messages.messages, 2)
	assert.Equal(t, models.ChatRoleUser, messages.messages[0].Role)
	assert.Equal(t, "What is my balance?", messages.messages[0].Content)
	assert.Equal(t, models.ChatRoleAssistant, messages.messages[1].Role)
	assert.True(t, messages.messages[1].CreatedAt.After(messages.messages[0].CreatedAt))
}

func TestSendEmptyMessage(t *testing.T) {
	svc, _, _, userID := newChatFixture()

	_, err := svc.Send(context.Background(), userID, &dto.ChatRequest{Message: "   "})
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestSendGreetingSkipsLLM(t *testing.T) {
	svc, llm, messages, userID := newChatFixture(testAccount("Arab Bank", "JOD", ""))

	resp, err := svc.Send(context.Background(), userID, &dto.ChatRequest{Message: "Hello!"})
	require.NoError(t, err)
	assert.Zero(t, llm.calls, "greetings are answered locally")
	assert.Contains(t, resp.Response, "John")
	assert.Contains(t, resp.Response, "Arab Bank")
	assert.Empty(t, messages.messages, "greetings stay out of session memory")
}

func TestSendIncludesHistoryInPrompt(t *testing.T) {
	svc, llm, _, userID := newChatFixture()

	first, err := svc.Send(context.Background(), userID, &dto.ChatRequest{Message: "Convert 100 USD to JOD"})
	require.NoError(t, err)

	_, err = svc.Send(context.Background(), userID, &dto.ChatRequest{
		Message:   "And to EUR?",
		SessionID: first.SessionID,
	})
	require.NoError(t, err)

	assert.Contains(t, llm.lastPrompt, "Recent conversation:")
	assert.Contains(t, llm.lastPrompt, "User: Convert 100 USD to JOD")
	assert.Contains(t, llm.lastPrompt, "Assistant: Here is your answer.")
	assert.Contains(t, llm.lastPrompt, "And to EUR?")

	// History must read in chronological order.
	userIdx := strings.Index(llm.lastPrompt, "User: Convert 100 USD to JOD")
	assistantIdx := strings.Index(llm.lastPrompt, "Assistant: Here is your answer.")
	assert.Less(t, userIdx, assistantIdx)
}

func TestSendPromptCarriesUserContext(t *testing.T) {
	svc, llm, _, userID := newChatFixture(testAccount("Arab Bank", "JOD", "1500.00"))

	_, err := svc.Send(context.Background(), userID, &dto.ChatRequest{Message: "What can I afford?"})
	require.NoError(t, err)

	assert.Contains(t, llm.lastPrompt, "User: John (John Doe)")
	assert.Contains(t, llm.lastPrompt, "Arab Bank")
	assert.Contains(t, llm.lastPrompt, "balance 1500.00 JOD")
}

func TestHistoryAndClear(t *testing.T) {
	svc, _, _, userID := newChatFixture()

	first, err := svc.Send(context.Background(), userID, &dto.ChatRequest{Message: "First question"})
	require.NoError(t, err)

	history, err := svc.History(context.Background(), userID, first.SessionID, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "First question", history[0].Content)
	assert.Equal(t, "assistant", history[1].Role)

	require.NoError(t, svc.ClearHistory(context.Background(), userID, first.SessionID))

	history, err = svc.History(context.Background(), userID, first.SessionID, 0)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestWelcome(t *testing.T) {
	svc, _, _, userID := newChatFixture(
		testAccount("Arab Bank", "JOD", ""),
		testAccount("Housing Bank", "USD", ""),
	)

	resp, err := svc.Welcome(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "John", resp.UserName)
	assert.Equal(t, "John Doe", resp.UserFullName)
	assert.Contains(t, resp.Message, "2 banks")
}

func TestSuggestionsPersonalized(t *testing.T) {
	svc, _, _, userID := newChatFixture(
		testAccount("Arab Bank", "JOD", ""),
		testAccount("Housing Bank", "USD", ""),
	)

	resp, err := svc.Suggestions(context.Background(), userID)
	require.NoError(t, err)
	require.NotEmpty(t, resp.Suggestions)
	assert.LessOrEqual(t, len(resp.Suggestions), 12)
	assert.Contains(t, resp.Suggestions, "Show me my account summary with insights")
	assert.Contains(t, resp.Suggestions, "Check my balance at Arab Bank")
	assert.Contains(t, resp.Suggestions, "Compare my accounts across 2 banks")
}

func TestSuggestionsNoAccounts(t *testing.T) {
	svc, _, _, userID := newChatFixture()

	resp, err := svc.Suggestions(context.Background(), userID)
	require.NoError(t, err)
	require.NotEmpty(t, resp.Suggestions)
	assert.NotContains(t, resp.Suggestions, "Show me my account balances")
	assert.Contains(t, resp.Suggestions, "Show me information about Arab Bank")
	assert.Contains(t, resp.Suggestions, "What are the popular currency pairs?")
}

func TestIsGreeting(t *testing.T) {
	assert.True(t, isGreeting("hello"))
	assert.True(t, isGreeting("Hi there!"))
	assert.True(t, isGreeting("Good morning"))
	assert.True(t, isGreeting("oh hi"))
	assert.False(t, isGreeting("What is the USD/JOD rate?"))
	assert.False(t, isGreeting("tell me about the high interest savings account"))
}

func TestTimeGreeting(t *testing.T) {
	assert.Equal(t, "Good morning", timeGreeting(9))
	assert.Equal(t, "Good afternoon", timeGreeting(13))
	assert.Equal(t, "Good evening", timeGreeting(20))
}
