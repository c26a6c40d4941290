package employee

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	id "certtrack/pkg/domain"
	"certtrack/pkg/platform/sentinel"
)

// Schema creates the employee registry table.
const Schema = `
CREATE TABLE IF NOT EXISTS employees (
    id UUID PRIMARY KEY,
    nip TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    email TEXT NOT NULL DEFAULT '',
    position TEXT NOT NULL DEFAULT '',
    regional_id BIGINT NOT NULL DEFAULT 0,
    division_id BIGINT NOT NULL DEFAULT 0,
    unit_id BIGINT NOT NULL DEFAULT 0,
    active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_employees_scope ON employees (regional_id, division_id, unit_id);
`

const employeeColumns = "id, nip, name, email, position, regional_id, division_id, unit_id, active, created_at, updated_at"

const uniqueViolation = "23505"

// PostgresStore persists the employee registry in PostgreSQL through
// database/sql with the pq driver.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, e Employee) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO employees (`+employeeColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		e.ID.String(), e.NIP, e.Name, e.Email, e.Position,
		e.RegionalID, e.DivisionID, e.UnitID, e.Active, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create employee: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, e Employee) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE employees
		SET nip = $2, name = $3, email = $4, position = $5,
		    regional_id = $6, division_id = $7, unit_id = $8,
		    active = $9, updated_at = $10
		WHERE id = $1`,
		e.ID.String(), e.NIP, e.Name, e.Email, e.Position,
		e.RegionalID, e.DivisionID, e.UnitID, e.Active, e.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("update employee: %w", err)
	}
	return rowsAffectedOrNotFound(result)
}

func (s *PostgresStore) Get(ctx context.Context, employeeID id.EmployeeID) (Employee, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+employeeColumns+" FROM employees WHERE id = $1", employeeID.String())
	return scanEmployee(row)
}

func (s *PostgresStore) GetByNIP(ctx context.Context, nip string) (Employee, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+employeeColumns+" FROM employees WHERE nip = $1", nip)
	return scanEmployee(row)
}

func (s *PostgresStore) List(ctx context.Context, filter ScopeFilter, page, size int) (Page, error) {
	where, args := buildEmployeeWhere(filter)

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM employees"+where, args...).Scan(&total); err != nil {
		return Page{}, fmt.Errorf("count employees: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT %s FROM employees%s ORDER BY name, id LIMIT $%d OFFSET $%d",
		employeeColumns, where, len(args)+1, len(args)+2)
	args = append(args, size, (page-1)*size)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return Page{}, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return Page{}, err
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return Page{}, fmt.Errorf("list employees: %w", err)
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + size - 1) / size
	}
	return Page{Content: employees, TotalPages: totalPages, TotalElements: total}, nil
}

func (s *PostgresStore) Deactivate(ctx context.Context, employeeID id.EmployeeID) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE employees SET active = FALSE, updated_at = now() WHERE id = $1", employeeID.String())
	if err != nil {
		return fmt.Errorf("deactivate employee: %w", err)
	}
	return rowsAffectedOrNotFound(result)
}

func buildEmployeeWhere(filter ScopeFilter) (string, []any) {
	var clauses []string
	var args []any

	add := func(column string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf("%s = $%d", column, len(args)))
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
	if filter.ActiveOnly {
		clauses = append(clauses, "active")
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row rowScanner) (Employee, error) {
	var e Employee
	var rawID string

	err := row.Scan(&rawID, &e.NIP, &e.Name, &e.Email, &e.Position,
		&e.RegionalID, &e.DivisionID, &e.UnitID, &e.Active, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Employee{}, sentinel.ErrNotFound
		}
		return Employee{}, fmt.Errorf("scan employee: %w", err)
	}

	e.ID, err = id.ParseEmployeeID(rawID)
	if err != nil {
		return Employee{}, fmt.Errorf("scan employee id: %w", err)
	}
	return e, nil
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
