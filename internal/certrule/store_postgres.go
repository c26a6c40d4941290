package certrule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	id "certtrack/pkg/domain"
	"certtrack/pkg/platform/sentinel"
)

// Schema creates the certification rule table.
const Schema = `
CREATE TABLE IF NOT EXISTS certification_rules (
    id UUID PRIMARY KEY,
    certification_code TEXT NOT NULL,
    level INT,
    sub_field_code TEXT NOT NULL DEFAULT '',
    label TEXT NOT NULL DEFAULT '',
    validity_months INT NOT NULL DEFAULT 0,
    reminder_months INT NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    UNIQUE (certification_code, level, sub_field_code)
);
`

const ruleColumns = "id, certification_code, level, sub_field_code, label, validity_months, reminder_months, created_at, updated_at"

const uniqueViolation = "23505"

// PostgresStore persists certification rules in PostgreSQL through
// database/sql with the pq driver.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, rule Rule) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO certification_rules (`+ruleColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rule.ID.String(), rule.CertificationCode, nullInt(rule.Level), rule.SubFieldCode,
		rule.Label, rule.ValidityMonths, rule.ReminderMonths, rule.CreatedAt, rule.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create rule: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, rule Rule) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE certification_rules
		SET certification_code = $2, level = $3, sub_field_code = $4, label = $5,
		    validity_months = $6, reminder_months = $7, updated_at = $8
		WHERE id = $1`,
		rule.ID.String(), rule.CertificationCode, nullInt(rule.Level), rule.SubFieldCode,
		rule.Label, rule.ValidityMonths, rule.ReminderMonths, rule.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("update rule: %w", err)
	}
	return rowsAffectedOrNotFound(result)
}

func (s *PostgresStore) Get(ctx context.Context, ruleID id.RuleID) (Rule, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+ruleColumns+" FROM certification_rules WHERE id = $1", ruleID.String())
	return scanRule(row)
}

func (s *PostgresStore) List(ctx context.Context) ([]Rule, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+ruleColumns+`
		FROM certification_rules
		ORDER BY certification_code, level NULLS FIRST, sub_field_code, id`)
	if err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}
	defer rows.Close()

	var rules []Rule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}
	return rules, nil
}

func (s *PostgresStore) Delete(ctx context.Context, ruleID id.RuleID) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM certification_rules WHERE id = $1", ruleID.String())
	if err != nil {
		return fmt.Errorf("delete rule: %w", err)
	}
	return rowsAffectedOrNotFound(result)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRule(row rowScanner) (Rule, error) {
	var rule Rule
	var rawID string
	var level sql.NullInt64

	err := row.Scan(&rawID, &rule.CertificationCode, &level, &rule.SubFieldCode,
		&rule.Label, &rule.ValidityMonths, &rule.ReminderMonths, &rule.CreatedAt, &rule.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Rule{}, sentinel.ErrNotFound
		}
		return Rule{}, fmt.Errorf("scan rule: %w", err)
	}

	rule.ID, err = id.ParseRuleID(rawID)
	if err != nil {
		return Rule{}, fmt.Errorf("scan rule id: %w", err)
	}
	if level.Valid {
		value := int(level.Int64)
		rule.Level = &value
	}
	return rule, nil
}

func nullInt(value *int) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*value), Valid: true}
}

func rowsAffectedOrNotFound(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
