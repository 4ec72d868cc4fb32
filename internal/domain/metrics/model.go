package metrics

// Summary is the dashboard headline: volume, conversion and engagement.
type Summary struct {
	TotalConversations    int64   `json:"totalConversations"`
	TransferredLeads      int64   `json:"transferredLeads"`
	QualificationRate     float64 `json:"qualificationRate"`
	AvgMessagesPerSession float64 `json:"avgMessagesPerSession"`
}

// TimelinePoint is one calendar month of session volume and conversion.
type TimelinePoint struct {
	Month              string  `json:"month"`
	TotalConversations int64   `json:"totalConversations"`
	TransferredLeads   int64   `json:"transferredLeads"`
	QualificationRate  float64 `json:"qualificationRate"`
}

// Totals are the raw aggregates behind Summary.
type Totals struct {
	Sessions         int64
	TransferredLeads int64
	// AvgMessagesPerSession averages over sessions with at least one message.
	AvgMessagesPerSession float64
}

// MonthlyCount is the raw aggregate behind a TimelinePoint.
type MonthlyCount struct {
	Month       string `db:"month"`
	Sessions    int64  `db:"total_conversations"`
	Transferred int64  `db:"transferred_leads"`
}
