package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/mioding/catalog-search/model"
)

// Table is the product table every SQL adapter reads from.
const Table = "product_info"

// Driver names accepted by NewSQL.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// SQL serves predicates from a product_info table through sqlx.
type SQL struct {
	db     *sqlx.DB
	driver string
}

// NewSQL connects to the database. driver is DriverSQLite or DriverPostgres.
func NewSQL(ctx context.Context, driver, dsn string) (*SQL, error) {
	var sqlDriver string
	switch driver {
	case DriverSQLite:
		sqlDriver = "sqlite3"
	case DriverPostgres:
		sqlDriver = "postgres"
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}
	if dsn == "" {
		return nil, fmt.Errorf("database dsn not set")
	}

	db, err := sqlx.ConnectContext(ctx, sqlDriver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == DriverSQLite {
		// sqlite needs to have a single writer, and :memory: is per connection
		db.SetMaxOpenConns(1)
	}
	return &SQL{db: db, driver: driver}, nil
}

// NewSQLFromDB wraps an existing handle.
func NewSQLFromDB(db *sqlx.DB, driver string) *SQL {
	return &SQL{db: db, driver: driver}
}

var columns = func() []string {
	out := make([]string, 0, len(model.TextFields)+1)
	for _, f := range model.TextFields {
		out = append(out, string(f))
	}
	return append(out, "price")
}()

func selectList() string {
	parts := make([]string, 0, len(columns))
	for _, c := range columns {
		if c == "price" {
			parts = append(parts, c)
			continue
		}
		parts = append(parts, fmt.Sprintf("COALESCE(%s, '') AS %s", c, c))
	}
	return strings.Join(parts, ", ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// where renders pred as a SQL condition with '?' placeholders.
func where(pred model.Predicate) (string, []interface{}, error) {
	switch pred.Op {
	case model.OpMatchAll:
		return "1=1", nil, nil
	case model.OpMatchNone:
		return "1=0", nil, nil
	case model.OpContains, model.OpEquals:
		if !pred.Field.IsValid() {
			return "", nil, fmt.Errorf("unknown field %q", pred.Field)
		}
		if pred.Op == model.OpEquals {
			return fmt.Sprintf("COALESCE(%s, '') = ?", pred.Field), []interface{}{pred.Value}, nil
		}
		pattern := "%" + likeEscaper.Replace(strings.ToLower(pred.Value)) + "%"
		return fmt.Sprintf(`LOWER(COALESCE(%s, '')) LIKE ? ESCAPE '\'`, pred.Field), []interface{}{pattern}, nil
	case model.OpAnd, model.OpOr:
		parts := make([]string, 0, len(pred.Children))
		var args []interface{}
		for _, c := range pred.Children {
			cond, a, err := where(c)
			if err != nil {
				return "", nil, err
			}
			parts = append(parts, cond)
			args = append(args, a...)
		}
		sep := " AND "
		if pred.Op == model.OpOr {
			sep = " OR "
		}
		return "(" + strings.Join(parts, sep) + ")", args, nil
	}
	return "", nil, fmt.Errorf("unsupported predicate op %d", pred.Op)
}

func (s *SQL) Count(ctx context.Context, pred model.Predicate) (int, error) {
	cond, args, err := where(pred)
	if err != nil {
		return 0, err
	}
	var n int
	q := s.db.Rebind("SELECT COUNT(*) FROM " + Table + " WHERE " + cond)
	if err := s.db.GetContext(ctx, &n, q, args...); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *SQL) Find(ctx context.Context, pred model.Predicate, offset, limit int) ([]model.Product, error) {
	cond, args, err := where(pred)
	if err != nil {
		return nil, err
	}
	q := "SELECT " + selectList() + " FROM " + Table + " WHERE " + cond + " ORDER BY id"
	switch {
	case limit > 0:
		q += " LIMIT ? OFFSET ?"
		args = append(args, limit, max(offset, 0))
	case offset > 0 && s.driver == DriverSQLite:
		q += " LIMIT -1 OFFSET ?"
		args = append(args, offset)
	case offset > 0:
		q += " OFFSET ?"
		args = append(args, offset)
	}

	products := []model.Product{}
	if err := s.db.SelectContext(ctx, &products, s.db.Rebind(q), args...); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *SQL) DistinctValues(ctx context.Context, field model.Field) ([]model.ValueCount, error) {
	if !field.IsValid() {
		return nil, fmt.Errorf("unknown field %q", field)
	}
	q := fmt.Sprintf("SELECT %[1]s AS value, COUNT(*) AS n FROM %[2]s WHERE %[1]s IS NOT NULL AND %[1]s <> '' GROUP BY %[1]s", field, Table)

	var rows []model.ValueCount
	if err := s.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, err
	}
	// Collations differ between databases; order in Go for a stable result.
	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.Value] = r.Count
	}
	return sortValueCounts(counts), nil
}

func (s *SQL) Close() error {
	return s.db.Close()
}

// EnsureSchema creates product_info when missing. It exists for local bootstrapping and tests.
func (s *SQL) EnsureSchema(ctx context.Context) error {
	defs := make([]string, 0, len(columns))
	for _, c := range columns {
		if c == "id" {
			defs = append(defs, "id TEXT NOT NULL PRIMARY KEY")
			continue
		}
		defs = append(defs, c+" TEXT")
	}
	schema := []string{
		"CREATE TABLE IF NOT EXISTS " + Table + " (\n" + strings.Join(defs, ",\n") + ");",
		"CREATE INDEX IF NOT EXISTS " + Table + "_brand_idx ON " + Table + " (brand);",
	}
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

// Load creates the table when missing and upserts products. Rows absent from products are kept.
func (s *SQL) Load(ctx context.Context, products []model.Product) error {
	if err := s.EnsureSchema(ctx); err != nil {
		return err
	}
	return s.Insert(ctx, products)
}

// Insert upserts products in one transaction.
func (s *SQL) Insert(ctx context.Context, products []model.Product) error {
	names := make([]string, len(columns))
	updates := make([]string, 0, len(columns)-1)
	for i, c := range columns {
		names[i] = ":" + c
		if c != "id" {
			updates = append(updates, c+" = excluded."+c)
		}
	}
	stmt := "INSERT INTO " + Table + " (" + strings.Join(columns, ", ") + ") VALUES (" +
		strings.Join(names, ", ") + ") ON CONFLICT (id) DO UPDATE SET " + strings.Join(updates, ", ")

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	for i := range products {
		if _, err := tx.NamedExecContext(ctx, stmt, &products[i]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert product %s: %w", products[i].ID, err)
		}
	}
	return tx.Commit()
}
