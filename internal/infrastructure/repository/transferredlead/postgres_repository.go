package transferredlead

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/huandu/go-sqlbuilder"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/janhq/leads-api/internal/domain/conversation"
	"github.com/janhq/leads-api/internal/domain/query"
	domain "github.com/janhq/leads-api/internal/domain/transferredlead"
	"github.com/janhq/leads-api/internal/infrastructure/database"
	"github.com/janhq/leads-api/internal/infrastructure/database/entities"
	"github.com/janhq/leads-api/internal/infrastructure/metrics"
	"github.com/janhq/leads-api/internal/utils/platformerrors"
)

// PostgresRepository reads transferred leads with sqlx and records CRM links through gorm.
type PostgresRepository struct {
	pool  *database.Pool
	pager database.Pager[leadRow, domain.Lead]
	log   zerolog.Logger
}

// NewPostgresRepository creates a repository backed by the provided pool.
func NewPostgresRepository(pool *database.Pool, log zerolog.Logger) *PostgresRepository {
	return &PostgresRepository{
		pool: pool,
		pager: database.Pager[leadRow, domain.Lead]{
			Count: func() *sqlbuilder.SelectBuilder {
				sb := database.NewSelect()
				sb.Select("COUNT(*)").From("transferred_leads tl").
					JoinWithOption(sqlbuilder.LeftJoin, "contacts c", "tl.contact_id = c.id")
				return sb
			},
			Select: func() *sqlbuilder.SelectBuilder {
				sb := database.NewSelect()
				sb.Select(leadColumns...).From(leadTables...)
				for _, join := range leadJoins {
					sb.JoinWithOption(sqlbuilder.LeftJoin, join[0], join[1])
				}
				return sb
			},
			Search: func(sb *sqlbuilder.SelectBuilder, pattern string) string {
				return sb.Or(
					sb.ILike("c.phone_number::text", pattern),
					sb.ILike("c.email", pattern),
					sb.ILike("c.name", pattern),
					sb.ILike("tl.summary", pattern),
				)
			},
			OrderBy: []string{"tl.created_at DESC", "tl.id DESC"},
			Map:     leadRow.toDomain,
		},
		log: log.With().Str("component", "transferred-lead-repository").Logger(),
	}
}

var (
	leadColumns = []string{
		"tl.id::text AS id",
		"tl.contact_id::text AS contact_id",
		"tl.session_id::text AS session_id",
		"c.name AS contact_name",
		"c.phone_number::text AS phone_number",
		"c.email",
		"tl.qualification_status",
		"tl.summary",
		"tl.service_type",
		"tl.local_type",
		"tl.address",
		"tl.energy_power",
		"tl.electrical_panel_phtos",
		"tl.installation_site_photos",
		"tl.documents",
		"tl.cable_meters",
		"COALESCE(tl.crm_entrance, FALSE) AS crm_entrance",
		"tl.crm_id",
		"tl.created_at",
		"COALESCE(s.created_at, tl.created_at) AS last_activity_at",
	}
	leadTables = []string{"transferred_leads tl"}
	leadJoins  = [][2]string{
		{"contacts c", "tl.contact_id = c.id"},
		{"sessions s", "tl.session_id = s.id"},
	}
)

type leadRow struct {
	ID                     string         `db:"id"`
	ContactID              sql.NullString `db:"contact_id"`
	SessionID              sql.NullString `db:"session_id"`
	ContactName            sql.NullString `db:"contact_name"`
	PhoneNumber            sql.NullString `db:"phone_number"`
	Email                  sql.NullString `db:"email"`
	QualificationStatus    sql.NullInt64  `db:"qualification_status"`
	Summary                sql.NullString `db:"summary"`
	ServiceType            sql.NullString `db:"service_type"`
	LocalType              sql.NullString `db:"local_type"`
	Address                sql.NullString `db:"address"`
	EnergyPower            sql.NullString `db:"energy_power"`
	ElectricalPanelPhotos  sql.NullString `db:"electrical_panel_phtos"`
	InstallationSitePhotos sql.NullString `db:"installation_site_photos"`
	Documents              sql.NullString `db:"documents"`
	CableMeters            sql.NullString `db:"cable_meters"`
	CRMEntrance            bool           `db:"crm_entrance"`
	CRMID                  sql.NullString `db:"crm_id"`
	CreatedAt              time.Time      `db:"created_at"`
	LastActivityAt         time.Time      `db:"last_activity_at"`
}

func (r leadRow) toDomain() domain.Lead {
	lead := domain.Lead{
		ID:                     r.ID,
		ContactID:              r.ContactID.String,
		SessionID:              r.SessionID.String,
		ContactName:            query.NullableString(r.ContactName),
		PhoneNumber:            conversation.UnknownPhoneNumber,
		Email:                  query.NullableString(r.Email),
		QualificationStatus:    int(r.QualificationStatus.Int64),
		Summary:                r.Summary.String,
		ServiceType:            query.NullableString(r.ServiceType),
		LocalType:              query.NullableString(r.LocalType),
		Address:                query.NullableString(r.Address),
		EnergyPower:            query.NullableString(r.EnergyPower),
		ElectricalPanelPhotos:  query.NullableString(r.ElectricalPanelPhotos),
		InstallationSitePhotos: query.NullableString(r.InstallationSitePhotos),
		Documents:              query.NullableString(r.Documents),
		CableMeters:            query.NullableString(r.CableMeters),
		CRMEntrance:            r.CRMEntrance,
		CRMID:                  query.NullableString(r.CRMID),
		CreatedAt:              query.NewTimestamp(r.CreatedAt),
		LastActivityAt:         query.NewTimestamp(r.LastActivityAt),
	}
	if r.PhoneNumber.Valid && r.PhoneNumber.String != "" {
		lead.PhoneNumber = r.PhoneNumber.String
	}
	return lead
}

// List returns a page of leads; see domain.Repository.
func (r *PostgresRepository) List(ctx context.Context, filter query.Filter) (*query.Page[domain.Lead], error) {
	operation := "transferred_lead.list"
	if filter.IsSearch() {
		operation = "transferred_lead.search"
	}

	var page *query.Page[domain.Lead]
	err := r.pool.WithConn(ctx, operation, func(ctx context.Context, conn *sqlx.Conn) error {
		var err error
		page, err = r.pager.Fetch(ctx, conn, filter)
		return err
	})
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to list transferred leads", err)
	}
	return page, nil
}

// PendingCount counts leads whose crm_id is NULL or empty. A failed read is logged and
// reported as zero so the dashboard badge never breaks the page.
func (r *PostgresRepository) PendingCount(ctx context.Context) int64 {
	var count int64
	err := r.pool.WithORM(ctx, "transferred_lead.pending_count", func(tx *gorm.DB) error {
		return tx.Model(&entities.TransferredLead{}).
			Where("crm_id IS NULL OR crm_id = ''").
			Count(&count).Error
	})
	if err != nil {
		r.log.Error().Err(err).Msg("pending lead count unavailable, reporting zero")
		metrics.RecordPendingCountFallback()
		return 0
	}
	return count
}

// UpdateCRMID sets crm_id and crm_entrance in one statement, then re-reads the joined lead on
// the same connection.
func (r *PostgresRepository) UpdateCRMID(ctx context.Context, id int64, crmID string) (*domain.CRMUpdateResult, error) {
	result := &domain.CRMUpdateResult{Status: domain.CRMUpdateNotFound}

	err := r.pool.WithORM(ctx, "transferred_lead.update_crm_id", func(tx *gorm.DB) error {
		res := tx.Model(&entities.TransferredLead{}).
			Where("id = ?", id).
			Updates(map[string]any{
				"crm_id":       crmID,
				"crm_entrance": true,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		lead, err := r.readLead(tx, id)
		if err != nil {
			return err
		}
		if lead != nil {
			result.Status = domain.CRMUpdateApplied
			result.Lead = lead
		}
		return nil
	})
	if err != nil {
		metrics.RecordCRMUpdate("error")
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError, "failed to update crm id", err)
	}

	metrics.RecordCRMUpdate(string(result.Status))
	return result, nil
}

func (r *PostgresRepository) readLead(tx *gorm.DB, id int64) (*domain.Lead, error) {
	q := tx.Table(strings.Join(leadTables, ", ")).
		Select(strings.Join(leadColumns, ", "))
	for _, join := range leadJoins {
		q = q.Joins("LEFT JOIN " + join[0] + " ON " + join[1])
	}

	rows, err := q.Where("tl.id = ?", id).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var found []leadRow
	if err := sqlx.StructScan(rows, &found); err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, nil
	}
	lead := found[0].toDomain()
	return &lead, nil
}
