package entities

import "time"

// The ingestion pipeline owns the schema; these models only mirror the columns this service
// touches. Column names are explicit because the schema predates gorm naming rules.

// Contact mirrors the contacts table.
type Contact struct {
	ID          string    `gorm:"column:id;type:uuid;primaryKey"`
	Name        *string   `gorm:"column:name"`
	PhoneNumber *int64    `gorm:"column:phone_number"`
	Email       *string   `gorm:"column:email"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (Contact) TableName() string {
	return "contacts"
}

// Session mirrors the sessions table.
type Session struct {
	ID        string    `gorm:"column:id;type:uuid;primaryKey"`
	ContactID string    `gorm:"column:contact_id;type:uuid"`
	Status    int       `gorm:"column:status"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (Session) TableName() string {
	return "sessions"
}

// Conversation mirrors one stored message. Sender is 0 for the user and 1 for the agent.
type Conversation struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	ContactID string    `gorm:"column:contact_id;type:uuid"`
	SessionID string    `gorm:"column:session_id;type:uuid"`
	Sender    int       `gorm:"column:sender"`
	Content   string    `gorm:"column:content"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (Conversation) TableName() string {
	return "conversations"
}

// KnowledgeVault mirrors the knowledge_vault table.
type KnowledgeVault struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	ContactID string    `gorm:"column:contact_id;type:uuid"`
	SessionID string    `gorm:"column:session_id;type:uuid"`
	Key       string    `gorm:"column:key"`
	Value     string    `gorm:"column:value"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (KnowledgeVault) TableName() string {
	return "knowledge_vault"
}

// SessionDocument mirrors the session_documents table.
type SessionDocument struct {
	ID        int64   `gorm:"column:id;primaryKey;autoIncrement"`
	SessionID string  `gorm:"column:session_id;type:uuid"`
	Category  *string `gorm:"column:category"`
	ImageID   string  `gorm:"column:image_id"`
	Link      string  `gorm:"column:link"`
}

func (SessionDocument) TableName() string {
	return "session_documents"
}

// TransferredLead mirrors the transferred_leads table. The electrical panel photo column name
// is misspelled in the schema and must stay that way.
type TransferredLead struct {
	ID                     int64     `gorm:"column:id;primaryKey;autoIncrement"`
	ContactID              string    `gorm:"column:contact_id;type:uuid"`
	SessionID              string    `gorm:"column:session_id;type:uuid"`
	QualificationStatus    int       `gorm:"column:qualification_status"`
	Summary                string    `gorm:"column:summary"`
	ServiceType            *string   `gorm:"column:service_type"`
	LocalType              *string   `gorm:"column:local_type"`
	Address                *string   `gorm:"column:address"`
	EnergyPower            *string   `gorm:"column:energy_power"`
	ElectricalPanelPhotos  *string   `gorm:"column:electrical_panel_phtos"`
	InstallationSitePhotos *string   `gorm:"column:installation_site_photos"`
	Documents              *string   `gorm:"column:documents"`
	CableMeters            *string   `gorm:"column:cable_meters"`
	CRMEntrance            bool      `gorm:"column:crm_entrance;default:false"`
	CRMID                  *string   `gorm:"column:crm_id"`
	CreatedAt              time.Time `gorm:"column:created_at"`
}

func (TransferredLead) TableName() string {
	return "transferred_leads"
}
