package oracle

// Role is the author of a chat message.
type Role string

// Chat roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single chat message.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the body POSTed to the completion endpoint.
type chatRequest struct {
	Model       string    `json:"model"`
	Temperature float64   `json:"temperature"`
	Messages    []Message `json:"messages"`
}

// chatResponse is the subset of the completion response the client reads.
type chatResponse struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Choices []choice `json:"choices"`
}

type choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// PageCandidate is the oracle's answer to "where is the download page of
// this component". SiteURL is empty when Available is false.
type PageCandidate struct {
	ComponentName string `json:"component_name"`
	Available     bool   `json:"available"`
	SiteURL       string `json:"site_url,omitempty"`
}
