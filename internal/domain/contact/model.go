package contact

import (
	"github.com/janhq/leads-api/internal/domain/conversation"
	"github.com/janhq/leads-api/internal/domain/query"
)

// Contact is a person aggregated over every session they own.
type Contact struct {
	ID                string          `json:"id"`
	Name              *string         `json:"name,omitempty"`
	PhoneNumber       string          `json:"phoneNumber"`
	Email             *string         `json:"email,omitempty"`
	SessionCount      int64           `json:"sessionCount"`
	TotalMessageCount int64           `json:"totalMessageCount"`
	Transferred       bool            `json:"transferred"`
	LastActivityAt    query.Timestamp `json:"lastActivityAt"`
	CRMID             *string         `json:"crmId,omitempty"`
}

// SessionMetadata summarizes one of the contact's sessions.
type SessionMetadata struct {
	ID           string          `json:"id"`
	CreatedAt    query.Timestamp `json:"createdAt"`
	Transferred  bool            `json:"transferred"`
	MessageCount int64           `json:"messageCount"`
}

// Document is an attachment captured during a session.
type Document struct {
	ID        string  `json:"id"`
	SessionID string  `json:"sessionId"`
	Category  *string `json:"category,omitempty"`
	ImageID   string  `json:"imageId"`
	Link      string  `json:"link"`
}

// Detail is the composite view of a contact across all of their sessions.
// Every slice is ordered by session creation time, then by item.
type Detail struct {
	Contact        Contact                           `json:"contact"`
	Sessions       []SessionMetadata                 `json:"sessions"`
	Messages       []conversation.Message            `json:"messages"`
	KnowledgeVault []conversation.KnowledgeVaultItem `json:"knowledgeVault"`
	Documents      []Document                        `json:"documents"`
}
