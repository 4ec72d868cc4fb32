//go:build integration

package databasetest

import (
	"time"

	"github.com/google/uuid"

	"github.com/janhq/leads-api/internal/infrastructure/database/entities"
)

// Contact returns an unsaved contact with a fresh id.
func Contact(name, email string, phone int64) *entities.Contact {
	c := &entities.Contact{ID: uuid.NewString(), CreatedAt: time.Now().UTC()}
	if name != "" {
		c.Name = &name
	}
	if email != "" {
		c.Email = &email
	}
	if phone != 0 {
		c.PhoneNumber = &phone
	}
	return c
}

// Session returns an unsaved session owned by contact, created at createdAt.
func Session(contact *entities.Contact, createdAt time.Time) *entities.Session {
	return &entities.Session{ID: uuid.NewString(), ContactID: contact.ID, Status: 1, CreatedAt: createdAt}
}

// Messages returns count alternating user/agent messages in session, one second apart.
func Messages(session *entities.Session, count int) []any {
	records := make([]any, 0, count)
	for i := 0; i < count; i++ {
		records = append(records, &entities.Conversation{
			ContactID: session.ContactID,
			SessionID: session.ID,
			Sender:    i % 2,
			Content:   "message",
			CreatedAt: session.CreatedAt.Add(time.Duration(i) * time.Second),
		})
	}
	return records
}

// Lead returns an unsaved transferred lead for session.
func Lead(session *entities.Session, summary string) *entities.TransferredLead {
	return &entities.TransferredLead{
		ContactID:           session.ContactID,
		SessionID:           session.ID,
		QualificationStatus: 1,
		Summary:             summary,
		CreatedAt:           session.CreatedAt.Add(time.Hour),
	}
}
