package persistence

import (
	"context"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/adeel99sa/ZephixPlatform-sub006/modules/resourcing/services"
	"github.com/adeel99sa/ZephixPlatform-sub006/pkg/composables"
)

// PgWorkspaceDirectory resolves which resources a workspace exposes: every
// resource with at least one allocation to a project in the workspace. Stands
// in for the platform's access-control resolver, which owns the richer
// membership rules.
type PgWorkspaceDirectory struct{}

func NewWorkspaceDirectory() services.WorkspaceDirectory {
	return &PgWorkspaceDirectory{}
}

func (d *PgWorkspaceDirectory) AccessibleResourceIDs(ctx context.Context, workspaceID uuid.UUID) ([]uuid.UUID, error) {
	_, pgTenantID, err := tenantIDs(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
		SELECT DISTINCT a.resource_id
		FROM allocations a
		JOIN projects p ON p.id = a.project_id
		WHERE a.organization_id = $1 AND p.workspace_id = $2`,
		pgTenantID, pgUUIDFromUUID(workspaceID),
	)
	if err != nil {
		return nil, gerrors.Wrap(err, "failed to query workspace resources")
	}
	defer rows.Close()

	var out []uuid.UUID
	for rows.Next() {
		var id pgtype.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, uuidFromPg(id))
	}
	return out, rows.Err()
}
