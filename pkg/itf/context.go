package itf

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/adeel99sa/ZephixPlatform-sub006/pkg/composables"
)

// TestContext builds contexts for service-level tests that run against mock
// repositories: it carries a tenant, a discarding logger and a no-op
// transaction so InTenantTx passes straight through without a database.
type TestContext struct {
	ctx      context.Context
	tenantID uuid.UUID
}

func NewTestContext() *TestContext {
	return &TestContext{
		ctx:      context.Background(),
		tenantID: uuid.New(),
	}
}

func (tc *TestContext) WithTenantID(tenantID uuid.UUID) *TestContext {
	tc.tenantID = tenantID
	return tc
}

func (tc *TestContext) TenantID() uuid.UUID {
	return tc.tenantID
}

func (tc *TestContext) Build(tb testing.TB) context.Context {
	tb.Helper()
	logger, _ := test.NewNullLogger()
	ctx := composables.WithTenantID(tc.ctx, tc.tenantID)
	ctx = composables.WithLogger(ctx, logrus.NewEntry(logger))
	return composables.WithTx(ctx, NopTx{})
}

// NopTx satisfies pgx.Tx for tests that never reach a real database.
type NopTx struct{}

func (NopTx) Begin(ctx context.Context) (pgx.Tx, error) { return NopTx{}, nil }
func (NopTx) Commit(ctx context.Context) error          { return nil }
func (NopTx) Rollback(ctx context.Context) error        { return nil }
func (NopTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (NopTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (NopTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (NopTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (NopTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (NopTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (NopTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (NopTx) Conn() *pgx.Conn                                               { return nil }
