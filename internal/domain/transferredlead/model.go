package transferredlead

import "github.com/janhq/leads-api/internal/domain/query"

// Lead is a session escalated to human follow-up, with the qualification data gathered by the
// agent and the CRM link status.
type Lead struct {
	ID                     string          `json:"id"`
	ContactID              string          `json:"contactId"`
	SessionID              string          `json:"sessionId"`
	ContactName            *string         `json:"contactName,omitempty"`
	PhoneNumber            string          `json:"phoneNumber"`
	Email                  *string         `json:"email,omitempty"`
	QualificationStatus    int             `json:"qualificationStatus"`
	Summary                string          `json:"summary"`
	ServiceType            *string         `json:"serviceType,omitempty"`
	LocalType              *string         `json:"localType,omitempty"`
	Address                *string         `json:"address,omitempty"`
	EnergyPower            *string         `json:"energyPower,omitempty"`
	ElectricalPanelPhotos  *string         `json:"electricalPanelPhotos,omitempty"`
	InstallationSitePhotos *string         `json:"installationSitePhotos,omitempty"`
	Documents              *string         `json:"documents,omitempty"`
	CableMeters            *string         `json:"cableMeters,omitempty"`
	CRMEntrance            bool            `json:"crmEntrance"`
	CRMID                  *string         `json:"crmId,omitempty"`
	CreatedAt              query.Timestamp `json:"createdAt"`
	LastActivityAt         query.Timestamp `json:"lastActivityAt"`
}

// CRMUpdateStatus discriminates the outcome of a CRM id assignment.
type CRMUpdateStatus string

const (
	CRMUpdateApplied  CRMUpdateStatus = "updated"
	CRMUpdateNotFound CRMUpdateStatus = "not_found"
)

// CRMUpdateResult carries the updated lead when Status is CRMUpdateApplied.
type CRMUpdateResult struct {
	Status CRMUpdateStatus
	Lead   *Lead
}

// Found reports whether the lead existed.
func (r *CRMUpdateResult) Found() bool {
	return r != nil && r.Status == CRMUpdateApplied
}
