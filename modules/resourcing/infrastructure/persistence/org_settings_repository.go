package persistence

import (
	"context"
	"errors"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/adeel99sa/ZephixPlatform-sub006/modules/resourcing/domain/governance"
	"github.com/adeel99sa/ZephixPlatform-sub006/pkg/composables"
)

// PgOrgSettingsRepository reads the organization's raw JSON settings blob.
// A missing row is not an error: the resolver falls back to defaults.
type PgOrgSettingsRepository struct{}

func NewOrgSettingsRepository() governance.ConfigStore {
	return &PgOrgSettingsRepository{}
}

func (r *PgOrgSettingsRepository) OrgSettings(ctx context.Context, organizationID uuid.UUID) ([]byte, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	var blob []byte
	err = tx.QueryRow(ctx,
		`SELECT settings FROM organization_settings WHERE organization_id = $1`,
		pgUUIDFromUUID(organizationID),
	).Scan(&blob)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, gerrors.Wrap(err, "failed to load organization settings")
	}
	return blob, nil
}
