package conversation

import "github.com/janhq/leads-api/internal/domain/query"

const (
	// UnknownPhoneNumber is reported for sessions whose contact has no phone number.
	UnknownPhoneNumber = "Unknown"
	// VaultCategory labels every knowledge vault item; the store has no category column.
	VaultCategory = "Info"
)

// Role identifies who authored a message.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// RoleFromSender maps the stored sender code (0 user, 1 agent) to a Role.
func RoleFromSender(sender int) Role {
	if sender == 0 {
		return RoleUser
	}
	return RoleAgent
}

// Session is one conversational interaction, flattened with its contact.
type Session struct {
	ID           string          `json:"id"`
	PhoneNumber  string          `json:"phoneNumber"`
	Email        *string         `json:"email,omitempty"`
	Name         *string         `json:"name,omitempty"`
	StartedAt    query.Timestamp `json:"startedAt"`
	MessageCount int64           `json:"messageCount"`
	Transferred  bool            `json:"transferred"`
	Status       *int            `json:"status,omitempty"`
}

// Message is a single stored conversation turn.
type Message struct {
	ID        string          `json:"id"`
	SessionID string          `json:"sessionId"`
	Role      Role            `json:"role"`
	Content   string          `json:"content"`
	Timestamp query.Timestamp `json:"timestamp"`
}

// KnowledgeVaultItem is a key/value fact extracted from a session.
type KnowledgeVaultItem struct {
	ID        string `json:"id"`
	SessionID string `json:"sessionId"`
	Category  string `json:"category"`
	Key       string `json:"key"`
	Value     string `json:"value"`
}

// Detail is a session with its ordered transcript and vault items.
type Detail struct {
	Session        Session              `json:"session"`
	Messages       []Message            `json:"messages"`
	KnowledgeVault []KnowledgeVaultItem `json:"knowledgeVault"`
}
