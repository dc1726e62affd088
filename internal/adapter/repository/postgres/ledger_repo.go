package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/rahulpatwa/paisavest-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// ledgerRepository implements domain.LedgerRepository
type ledgerRepository struct {
	db *DB
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *DB) domain.LedgerRepository {
	return &ledgerRepository{db: db}
}

// Append creates a new ledger entry. Entries are validated before insert
// and never updated afterwards.
func (r *ledgerRepository) Append(ctx context.Context, entry *domain.LedgerEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO ledger_entries (id, user_id, kind, amount, investment_id, description, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	var investmentID interface{}
	if entry.InvestmentID != nil {
		investmentID = *entry.InvestmentID
	}

	_, err := r.db.conn(ctx).ExecContext(ctx, query,
		entry.ID,
		entry.UserID,
		string(entry.Kind),
		entry.Amount.String(),
		investmentID,
		entry.Description,
		string(entry.Status),
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append ledger entry: %w", err)
	}

	return nil
}

// ListByUser retrieves a page of the user's entries, newest first.
// A non-positive limit returns everything.
func (r *ledgerRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.LedgerEntry, error) {
	query := `
		SELECT id, user_id, kind, amount, investment_id, description, status, created_at
		FROM ledger_entries
		WHERE user_id = $1
		ORDER BY created_at DESC, id
	`

	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT $2 OFFSET $3`
		args = append(args, limit, offset)
	}

	rows, err := r.db.conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []*domain.LedgerEntry
	for rows.Next() {
		entry, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledger entries: %w", err)
	}

	return entries, nil
}

// CountByUser returns the total number of the user's entries
func (r *ledgerRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM ledger_entries WHERE user_id = $1`

	var count int
	if err := r.db.conn(ctx).QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count ledger entries: %w", err)
	}

	return count, nil
}

func scanLedgerEntry(rows *sql.Rows) (*domain.LedgerEntry, error) {
	var entry domain.LedgerEntry
	var kind, status string
	var amountStr string
	var investmentID sql.NullString

	err := rows.Scan(
		&entry.ID,
		&entry.UserID,
		&kind,
		&amountStr,
		&investmentID,
		&entry.Description,
		&status,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
	}

	entry.Kind = domain.EntryKind(kind)
	entry.Status = domain.EntryStatus(status)

	if entry.Amount, err = decimal.NewFromString(amountStr); err != nil {
		return nil, fmt.Errorf("failed to parse amount: %w", err)
	}

	if investmentID.Valid {
		parsed, err := uuid.Parse(investmentID.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse investment_id: %w", err)
		}
		entry.InvestmentID = &parsed
	}

	return &entry, nil
}
