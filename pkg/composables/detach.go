package composables

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/adeel99sa/ZephixPlatform-sub006/pkg/constants"
)

// Detach returns a fresh background context carrying the pool, tenant and
// logger of the given context but not its transaction or deadline. Used by
// fire-and-forget work (read-model refreshes) and fan-out workers that must
// open their own transactions instead of sharing the caller's. When the
// context carries no pool the transaction is kept, so mock-backed tests work
// without a database.
func Detach(ctx context.Context) context.Context {
	out := context.Background()
	if pool, err := UsePool(ctx); err == nil {
		out = WithPool(out, pool)
	} else if tx, ok := ctx.Value(constants.TxKey).(pgx.Tx); ok && tx != nil {
		out = WithTx(out, tx)
	}
	if tenantID, err := UseTenantID(ctx); err == nil {
		out = WithTenantID(out, tenantID)
	}
	return WithLogger(out, UseLogger(ctx))
}
