package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/ferrowork/recordstate/internal/domain"

	_ "modernc.org/sqlite" // Register SQLite driver.
)

//go:embed migrations/*.sql
var migrations embed.FS

// Compile-time check: RecordRepository implements domain.RecordRepository.
var _ domain.RecordRepository = (*RecordRepository)(nil)

// RecordRepository implements domain.RecordRepository using SQLite. All
// records share a single table; lifecycle stamps and resource-specific
// attributes are stored as JSON columns.
type RecordRepository struct {
	db *sql.DB
}

// New opens a SQLite database, runs migrations, and returns a ready repository.
func New(dataSourceName string) (*RecordRepository, error) {
	db, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	// Enable foreign keys (off by default in SQLite).
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	return NewFromDB(db)
}

// NewFromDB wraps an existing database connection, runs migrations, and returns a ready repository.
// Use this when the *sql.DB has been pre-configured (e.g., with otelsql instrumentation).
func NewFromDB(db *sql.DB) (*RecordRepository, error) {
	if err := runMigrations(db); err != nil {
		return nil, err
	}

	return &RecordRepository{db: db}, nil
}

// Close closes the underlying database connection.
func (r *RecordRepository) Close() error {
	return r.db.Close()
}

// DB returns the underlying database connection for use by other adapters (e.g., river).
func (r *RecordRepository) DB() *sql.DB {
	return r.db
}

func runMigrations(db *sql.DB) error {
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	return nil
}

const timeFormat = time.RFC3339Nano

const recordColumns = `id, store_id, resource_type, status,
	asking_price, offer_price, final_price,
	commission_rate, agent_share_rate,
	commission_amount, agent_share_amount, company_share_amount,
	stamps, attributes, created_at, updated_at`

func (r *RecordRepository) Create(ctx context.Context, rec domain.Record) error {
	stamps, attrs, err := encodeJSONColumns(rec)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO records (`+recordColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.StoreID, string(rec.Type), string(rec.Status),
		nullable(rec.AskingPrice), nullable(rec.OfferPrice), nullable(rec.FinalPrice),
		nullable(rec.CommissionRate), nullable(rec.AgentShareRate),
		nullable(rec.CommissionAmount), nullable(rec.AgentShareAmount), nullable(rec.CompanyShareAmount),
		stamps, attrs,
		rec.CreatedAt.UTC().Format(timeFormat),
		rec.UpdatedAt.UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("inserting record: %w", err)
	}
	return nil
}

func (r *RecordRepository) GetByID(ctx context.Context, storeID, id string) (domain.Record, error) {
	return scanRecord(r.db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM records WHERE store_id = ? AND id = ?`,
		storeID, id,
	))
}

func (r *RecordRepository) List(ctx context.Context, storeID string, filter domain.ListFilter) ([]domain.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records WHERE store_id = ?`
	args := []any{storeID}

	if filter.Type != "" {
		query += ` AND resource_type = ?`
		args = append(args, string(filter.Type))
	}

	if filter.Status != nil {
		query += ` AND status = ?`
		args = append(args, string(*filter.Status))
	}

	query += ` ORDER BY created_at DESC`

	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	defer rows.Close()

	var records []domain.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// Update writes the full record row in a single statement. The caller has
// already merged the write-set into the record; there is no conditional
// (compare-and-swap) clause, so concurrent writers race and the last write
// wins.
func (r *RecordRepository) Update(ctx context.Context, rec domain.Record) error {
	stamps, attrs, err := encodeJSONColumns(rec)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE records SET status = ?,
			asking_price = ?, offer_price = ?, final_price = ?,
			commission_rate = ?, agent_share_rate = ?,
			commission_amount = ?, agent_share_amount = ?, company_share_amount = ?,
			stamps = ?, attributes = ?, updated_at = ?
		 WHERE store_id = ? AND id = ?`,
		string(rec.Status),
		nullable(rec.AskingPrice), nullable(rec.OfferPrice), nullable(rec.FinalPrice),
		nullable(rec.CommissionRate), nullable(rec.AgentShareRate),
		nullable(rec.CommissionAmount), nullable(rec.AgentShareAmount), nullable(rec.CompanyShareAmount),
		stamps, attrs,
		rec.UpdatedAt.UTC().Format(timeFormat),
		rec.StoreID, rec.ID,
	)
	if err != nil {
		return fmt.Errorf("updating record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (domain.Record, error) {
	var rec domain.Record
	var resourceType, status, stamps, attrs, createdAt, updatedAt string
	var asking, offer, final, rate, agentRate, amount, agentAmount, companyAmount sql.NullFloat64

	err := row.Scan(&rec.ID, &rec.StoreID, &resourceType, &status,
		&asking, &offer, &final, &rate, &agentRate,
		&amount, &agentAmount, &companyAmount,
		&stamps, &attrs, &createdAt, &updatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Record{}, domain.ErrRecordNotFound
		}
		return domain.Record{}, fmt.Errorf("scanning record: %w", err)
	}

	rec.Type = domain.ResourceType(resourceType)
	rec.Status = domain.Status(status)
	rec.AskingPrice = fromNull(asking)
	rec.OfferPrice = fromNull(offer)
	rec.FinalPrice = fromNull(final)
	rec.CommissionRate = fromNull(rate)
	rec.AgentShareRate = fromNull(agentRate)
	rec.CommissionAmount = fromNull(amount)
	rec.AgentShareAmount = fromNull(agentAmount)
	rec.CompanyShareAmount = fromNull(companyAmount)

	if err := json.Unmarshal([]byte(stamps), &rec.Stamps); err != nil {
		return domain.Record{}, fmt.Errorf("decoding stamps: %w", err)
	}
	if err := json.Unmarshal([]byte(attrs), &rec.Attributes); err != nil {
		return domain.Record{}, fmt.Errorf("decoding attributes: %w", err)
	}
	if rec.Stamps == nil {
		rec.Stamps = make(map[string]time.Time)
	}
	if rec.Attributes == nil {
		rec.Attributes = make(map[string]any)
	}

	rec.CreatedAt, _ = time.Parse(timeFormat, createdAt)
	rec.UpdatedAt, _ = time.Parse(timeFormat, updatedAt)

	return rec, nil
}

func encodeJSONColumns(rec domain.Record) (stamps, attrs string, err error) {
	s, err := json.Marshal(rec.Stamps)
	if err != nil {
		return "", "", fmt.Errorf("encoding stamps: %w", err)
	}
	a, err := json.Marshal(rec.Attributes)
	if err != nil {
		return "", "", fmt.Errorf("encoding attributes: %w", err)
	}
	return string(s), string(a), nil
}

func nullable(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func fromNull(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
