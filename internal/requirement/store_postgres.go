package requirement

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"certtrack/internal/eligibility"
	"certtrack/internal/platform/postgres"
	id "certtrack/pkg/domain"
	"certtrack/pkg/platform/sentinel"
)

// Schema is the DDL for the requirements table. Applied by deployments'
// migration tooling and by integration tests.
const Schema = `
CREATE TABLE IF NOT EXISTS certification_requirements (
	id                  UUID PRIMARY KEY,
	employee_id         UUID NOT NULL,
	rule_id             UUID NOT NULL,
	employee_name       TEXT NOT NULL,
	employee_nip        TEXT NOT NULL DEFAULT '',
	regional_id         BIGINT NOT NULL DEFAULT 0,
	division_id         BIGINT NOT NULL DEFAULT 0,
	unit_id             BIGINT NOT NULL DEFAULT 0,
	certification_code  TEXT NOT NULL DEFAULT '',
	certification_level INT,
	sub_field_code      TEXT NOT NULL DEFAULT '',
	rule_label          TEXT NOT NULL DEFAULT '',
	cert_number         TEXT NOT NULL DEFAULT '',
	cert_date           TIMESTAMPTZ,
	valid_until         TIMESTAMPTZ,
	pending_validation  BOOLEAN NOT NULL DEFAULT FALSE,
	due_date            TIMESTAMPTZ,
	reminder_date       TIMESTAMPTZ,
	effective_date      TIMESTAMPTZ,
	status              TEXT NOT NULL,
	updated_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (employee_id, rule_id)
);
CREATE INDEX IF NOT EXISTS idx_cert_requirements_scope
	ON certification_requirements (regional_id, division_id, unit_id);
CREATE INDEX IF NOT EXISTS idx_cert_requirements_status
	ON certification_requirements (status);
`

// requirementColumns is the column list for every SELECT, kept in one place so
// scans stay aligned with queries.
const requirementColumns = `id, employee_id, rule_id, employee_name, employee_nip,
	regional_id, division_id, unit_id,
	certification_code, certification_level, sub_field_code, rule_label,
	cert_number, cert_date, valid_until, pending_validation,
	due_date, reminder_date, effective_date, status, updated_at`

// PostgresStore persists requirements in PostgreSQL via pgx.
type PostgresStore struct {
	pool *postgres.Pool
}

func NewPostgresStore(pool *postgres.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Upsert(ctx context.Context, record Record) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO certification_requirements (
			id, employee_id, rule_id, employee_name, employee_nip,
			regional_id, division_id, unit_id,
			certification_code, certification_level, sub_field_code, rule_label,
			cert_number, cert_date, valid_until, pending_validation,
			due_date, reminder_date, effective_date, status, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,now())
		ON CONFLICT (employee_id, rule_id) DO UPDATE SET
			employee_name = EXCLUDED.employee_name,
			employee_nip = EXCLUDED.employee_nip,
			regional_id = EXCLUDED.regional_id,
			division_id = EXCLUDED.division_id,
			unit_id = EXCLUDED.unit_id,
			certification_code = EXCLUDED.certification_code,
			certification_level = EXCLUDED.certification_level,
			sub_field_code = EXCLUDED.sub_field_code,
			rule_label = EXCLUDED.rule_label,
			cert_number = EXCLUDED.cert_number,
			cert_date = EXCLUDED.cert_date,
			valid_until = EXCLUDED.valid_until,
			pending_validation = EXCLUDED.pending_validation,
			due_date = EXCLUDED.due_date,
			reminder_date = EXCLUDED.reminder_date,
			effective_date = EXCLUDED.effective_date,
			status = EXCLUDED.status,
			updated_at = now()`,
		record.ID.String(), record.EmployeeID.String(), record.RuleID.String(),
		record.EmployeeName, record.EmployeeNIP,
		record.RegionalID, record.DivisionID, record.UnitID,
		record.CertificationCode, record.CertificationLevel, record.SubFieldCode, record.RuleLabel,
		record.CertNumber, record.CertDate, record.ValidUntil, record.PendingValidation,
		record.DueDate, record.ReminderDate, record.EffectiveDate, string(record.Status),
	)
	if err != nil {
		return fmt.Errorf("upsert requirement: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, requirementID id.RequirementID) (Record, error) {
	query := fmt.Sprintf(`SELECT %s FROM certification_requirements WHERE id = $1`, requirementColumns)
	record, err := scanRecord(s.pool.QueryRow(ctx, query, requirementID.String()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, sentinel.ErrNotFound
		}
		return Record{}, fmt.Errorf("get requirement: %w", err)
	}
	return record, nil
}

func (s *PostgresStore) GetByEmployeeRule(ctx context.Context, employeeID id.EmployeeID, ruleID id.RuleID) (Record, error) {
	query := fmt.Sprintf(`SELECT %s FROM certification_requirements WHERE employee_id = $1 AND rule_id = $2`, requirementColumns)
	record, err := scanRecord(s.pool.QueryRow(ctx, query, employeeID.String(), ruleID.String()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, sentinel.ErrNotFound
		}
		return Record{}, fmt.Errorf("get requirement by employee and rule: %w", err)
	}
	return record, nil
}

func (s *PostgresStore) Delete(ctx context.Context, requirementID id.RequirementID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM certification_requirements WHERE id = $1`, requirementID.String())
	if err != nil {
		return fmt.Errorf("delete requirement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Query(ctx context.Context, filter ScopeFilter, page, size int) (Page, error) {
	where, args := buildWhere(filter)

	var total int
	countQuery := `SELECT COUNT(*) FROM certification_requirements ` + where
	if err := s.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return Page{}, fmt.Errorf("count requirements: %w", err)
	}

	offset := (page - 1) * size
	dataQuery := fmt.Sprintf(
		`SELECT %s FROM certification_requirements %s ORDER BY employee_name, id LIMIT $%d OFFSET $%d`,
		requirementColumns, where, len(args)+1, len(args)+2,
	)
	args = append(args, size, offset)

	rows, err := s.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return Page{}, fmt.Errorf("query requirements: %w", err)
	}
	defer rows.Close()

	var content []Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return Page{}, fmt.Errorf("scan requirement: %w", err)
		}
		content = append(content, record)
	}
	if err := rows.Err(); err != nil {
		return Page{}, fmt.Errorf("iterate requirements: %w", err)
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + size - 1) / size
	}
	return Page{Content: content, TotalPages: totalPages, TotalElements: total}, nil
}

func (s *PostgresStore) CountByStatus(ctx context.Context, filter ScopeFilter) (map[eligibility.Status]int, error) {
	where, args := buildWhere(filter)
	query := `SELECT status, COUNT(*) FROM certification_requirements ` + where + ` GROUP BY status`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[eligibility.Status]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		counts[eligibility.Status(status)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status counts: %w", err)
	}
	return counts, nil
}

func (s *PostgresStore) Candidates(ctx context.Context, now time.Time) ([]Record, error) {
	query := fmt.Sprintf(`SELECT %s FROM certification_requirements
		WHERE reminder_date <= $1 OR due_date <= $1 OR valid_until <= $1
		ORDER BY employee_name, id`, requirementColumns)

	rows, err := s.pool.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candidates: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) UpdateStatus(ctx context.Context, requirementID id.RequirementID, status eligibility.Status) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE certification_requirements SET status = $1, updated_at = now() WHERE id = $2`,
		string(status), requirementID.String(),
	)
	if err != nil {
		return fmt.Errorf("update requirement status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// buildWhere translates a ScopeFilter into a WHERE clause with positional
// args. Statuses become an ANY match; everything else is equality.
func buildWhere(filter ScopeFilter) (string, []any) {
	var conditions []string
	var args []any

	add := func(column string, value any) {
		args = append(args, value)
		conditions = append(conditions, column+" = $"+strconv.Itoa(len(args)))
	}

	if filter.RegionalID != nil {
		add("regional_id", *filter.RegionalID)
	}
	if filter.DivisionID != nil {
		add("division_id", *filter.DivisionID)
	}
	if filter.UnitID != nil {
		add("unit_id", *filter.UnitID)
	}
	if filter.CertificationCode != nil {
		add("certification_code", *filter.CertificationCode)
	}
	if filter.Level != nil {
		add("certification_level", *filter.Level)
	}
	if filter.SubFieldCode != nil {
		add("sub_field_code", *filter.SubFieldCode)
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, string(s))
		}
		args = append(args, statuses)
		conditions = append(conditions, "status = ANY($"+strconv.Itoa(len(args))+")")
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

func scanRecord(row pgx.Row) (Record, error) {
	var record Record
	var idRaw, employeeRaw, ruleRaw, status string
	err := row.Scan(
		&idRaw, &employeeRaw, &ruleRaw, &record.EmployeeName, &record.EmployeeNIP,
		&record.RegionalID, &record.DivisionID, &record.UnitID,
		&record.CertificationCode, &record.CertificationLevel, &record.SubFieldCode, &record.RuleLabel,
		&record.CertNumber, &record.CertDate, &record.ValidUntil, &record.PendingValidation,
		&record.DueDate, &record.ReminderDate, &record.EffectiveDate, &status, &record.UpdatedAt,
	)
	if err != nil {
		return Record{}, err
	}

	if record.ID, err = id.ParseRequirementID(idRaw); err != nil {
		return Record{}, err
	}
	if record.EmployeeID, err = id.ParseEmployeeID(employeeRaw); err != nil {
		return Record{}, err
	}
	if record.RuleID, err = id.ParseRuleID(ruleRaw); err != nil {
		return Record{}, err
	}
	record.Status = eligibility.Status(status)
	return record, nil
}
