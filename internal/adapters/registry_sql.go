package adapters

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"sideload-watch/internal/ports"
	"sideload-watch/internal/types"
)

// registryEntryModel is one member of a persisted set.
type registryEntryModel struct {
	bun.BaseModel `bun:"table:registry_entries"`

	Namespace string `bun:"namespace,pk"`
	SetKey    string `bun:"set_key,pk"`
	PackageID string `bun:"package_id,pk"`
}

// RegistrySQLAdapter stores registry sets in a relational database through
// bun. Every write runs in its own transaction.
type RegistrySQLAdapter struct {
	DB        *bun.DB
	Namespace string
}

// OpenRegistrySQLAdapter connects to the database for backend, creating the
// registry table when it does not exist yet.
func OpenRegistrySQLAdapter(ctx context.Context, backend types.RegistryBackend, dsn string, namespace string) (*RegistrySQLAdapter, error) {
	driverName, err := sqlDriverName(backend)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(dsn) == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("registry dsn is required for %s backend", backend))
	}
	start := time.Now()
	sqlDB, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to open registry database").
			WithCause(err)
	}
	// Each connection to an in-memory SQLite database sees its own database.
	if backend == types.RegistryBackendSQLite && strings.Contains(dsn, ":memory:") {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	}
	adapter := NewRegistrySQLAdapter(newBunDB(sqlDB, backend), namespace)
	if err := adapter.Migrate(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	log.Ctx(ctx).Debug().
		Str("backend", string(backend)).
		Dur("elapsed", time.Since(start)).
		Msg("registry database ready")
	return adapter, nil
}

func NewRegistrySQLAdapter(db *bun.DB, namespace string) *RegistrySQLAdapter {
	if strings.TrimSpace(namespace) == "" {
		namespace = types.RegistryNamespace
	}
	return &RegistrySQLAdapter{DB: db, Namespace: namespace}
}

func (a *RegistrySQLAdapter) Migrate(ctx context.Context) error {
	_, err := a.DB.NewCreateTable().
		Model((*registryEntryModel)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create registry table").
			WithCause(err)
	}
	return nil
}

func (a *RegistrySQLAdapter) LoadSet(ctx context.Context, key string) ([]string, error) {
	var rows []registryEntryModel
	err := a.DB.NewSelect().
		Model(&rows).
		Where("namespace = ?", a.Namespace).
		Where("set_key = ?", key).
		Order("package_id ASC").
		Scan(ctx)
	if err != nil && err != sql.ErrNoRows {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to load registry set").
			WithCause(err)
	}
	values := make([]string, 0, len(rows))
	for _, row := range rows {
		values = append(values, row.PackageID)
	}
	return values, nil
}

func (a *RegistrySQLAdapter) SaveSet(ctx context.Context, key string, values []string) error {
	rows := make([]registryEntryModel, 0, len(values))
	for _, value := range uniqueStrings(values) {
		rows = append(rows, registryEntryModel{
			Namespace: a.Namespace,
			SetKey:    key,
			PackageID: value,
		})
	}
	err := a.DB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := a.deleteSet(ctx, tx, key); err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		_, err := tx.NewInsert().Model(&rows).Exec(ctx)
		return err
	})
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to save registry set").
			WithCause(err)
	}
	return nil
}

func (a *RegistrySQLAdapter) RemoveSet(ctx context.Context, key string) error {
	err := a.DB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return a.deleteSet(ctx, tx, key)
	})
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to remove registry set").
			WithCause(err)
	}
	return nil
}

func (a *RegistrySQLAdapter) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func (a *RegistrySQLAdapter) deleteSet(ctx context.Context, tx bun.Tx, key string) error {
	_, err := tx.NewDelete().
		Model((*registryEntryModel)(nil)).
		Where("namespace = ?", a.Namespace).
		Where("set_key = ?", key).
		Exec(ctx)
	return err
}

func sqlDriverName(backend types.RegistryBackend) (string, error) {
	switch backend {
	case types.RegistryBackendSQLite:
		return "sqlite", nil
	case types.RegistryBackendPostgres:
		// pgx registers its database/sql driver as "pgx".
		return "pgx", nil
	case types.RegistryBackendMySQL:
		return "mysql", nil
	default:
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported sql registry backend %q", backend))
	}
}

func newBunDB(sqlDB *sql.DB, backend types.RegistryBackend) *bun.DB {
	switch backend {
	case types.RegistryBackendPostgres:
		return bun.NewDB(sqlDB, pgdialect.New())
	case types.RegistryBackendMySQL:
		return bun.NewDB(sqlDB, mysqldialect.New())
	default:
		return bun.NewDB(sqlDB, sqlitedialect.New())
	}
}

var _ ports.RegistryStorePort = (*RegistrySQLAdapter)(nil)
