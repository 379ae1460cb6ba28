package dto

type ChatRequest struct {
	Message   string `json:"message" validate:"required"`
	SessionID string `json:"session_id"`
}

type ChatResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
	Timestamp string `json:"timestamp"`
}

type ChatMessageResponse struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

type SuggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}

type WelcomeResponse struct {
	Message      string `json:"message"`
	UserName     string `json:"user_name"`
	UserFullName string `json:"user_full_name,omitempty"`
}
