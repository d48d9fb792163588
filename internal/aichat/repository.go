package aichat

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Executor runs a validated chat query and returns raw, unredacted rows
// plus the total row count before any ceiling is applied.
type Executor interface {
	Execute(ctx context.Context, req QueryRequest, limit int) ([]map[string]any, int, error)
}

// categoryTables maps each data category to the table it reads. Acting as
// an allowlist keeps category names out of SQL entirely.
var categoryTables = map[DataCategory]string{
	CategoryVehicles:           "vehicles",
	CategoryDrivers:            "drivers",
	CategoryVehicleAssignments: "vehicle_assignments",
	CategoryVehicleIssues:      "vehicle_issues",
	CategoryAccounting:         "accounting_entries",
	CategoryReceipts:           "receipts",
	CategoryRefunds:            "refunds",
	CategoryDeductions:         "deductions",
	CategoryFleet:              "vehicles",
	CategoryUsers:              "users",
	CategoryOrganization:       "organizations",
}

// PGExecutor reads category data straight from Postgres.
type PGExecutor struct {
	pool *pgxpool.Pool
}

// NewPGExecutor constructs a PGExecutor.
func NewPGExecutor(pool *pgxpool.Pool) *PGExecutor {
	return &PGExecutor{pool: pool}
}

// tableFor resolves a category to its table through the allowlist.
func tableFor(req QueryRequest) (string, error) {
	category := req.Category
	if category == CategoryAllOrganizations {
		category = CategoryOrganization
	}
	table, ok := categoryTables[category]
	if !ok {
		return "", fmt.Errorf("no table for data category %q", req.Category)
	}
	return table, nil
}

// buildDataQuery returns the row query for a validated request. Every
// category is scoped to the request's organization: the organizations
// table keys tenants by id, everything else by organization_id. Only
// all_organizations (saas_admin) reads unscoped.
func buildDataQuery(req QueryRequest, limit int) (string, []any, error) {
	table, err := tableFor(req)
	if err != nil {
		return "", nil, err
	}
	switch {
	case req.Category == CategoryAllOrganizations:
		return `SELECT * FROM organizations ORDER BY created_at DESC LIMIT $1`, []any{limit}, nil
	case table == "organizations":
		return `SELECT * FROM organizations WHERE id = $1 ORDER BY created_at DESC LIMIT $2`,
			[]any{req.OrganizationID, limit}, nil
	default:
		return fmt.Sprintf(`SELECT * FROM %s WHERE organization_id = $1 ORDER BY created_at DESC LIMIT $2`, table),
			[]any{req.OrganizationID, limit}, nil
	}
}

// buildCountQuery returns the matching-row count query with the same
// scoping as buildDataQuery.
func buildCountQuery(req QueryRequest) (string, []any, error) {
	table, err := tableFor(req)
	if err != nil {
		return "", nil, err
	}
	switch {
	case req.Category == CategoryAllOrganizations:
		return `SELECT COUNT(*) FROM organizations`, nil, nil
	case table == "organizations":
		return `SELECT COUNT(*) FROM organizations WHERE id = $1`, []any{req.OrganizationID}, nil
	default:
		return fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE organization_id = $1`, table),
			[]any{req.OrganizationID}, nil
	}
}

// Execute fetches up to limit+1 rows from the category's table, scoped to
// the request's organization. The extra row detects truncation; only then
// is a count query issued for the true total.
func (e *PGExecutor) Execute(ctx context.Context, req QueryRequest, limit int) ([]map[string]any, int, error) {
	query, args, err := buildDataQuery(req, limit+1)
	if err != nil {
		return nil, 0, err
	}
	table, err := tableFor(req)
	if err != nil {
		return nil, 0, err
	}

	rows, err := e.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	var records []map[string]any
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, 0, fmt.Errorf("scan %s: %w", table, err)
		}
		record := make(map[string]any, len(fields))
		for i, fd := range fields {
			record[string(fd.Name)] = values[i]
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate %s: %w", table, err)
	}

	total := len(records)
	if total > limit {
		countQuery, countArgs, err := buildCountQuery(req)
		if err != nil {
			return nil, 0, err
		}
		if err := e.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("count %s: %w", table, err)
		}
	}

	return records, total, nil
}
