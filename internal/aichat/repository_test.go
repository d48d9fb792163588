package aichat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildDataQueryScopesOrganizationCategory(t *testing.T) {
	// An org-scoped caller asking about their own organization must only
	// ever see their own row, keyed by the organizations table's id.
	query, args, err := buildDataQuery(QueryRequest{
		Category:       CategoryOrganization,
		QueryType:      "summary",
		OrganizationID: "org-1",
	}, 25)
	require.NoError(t, err)
	require.Equal(t, `SELECT * FROM organizations WHERE id = $1 ORDER BY created_at DESC LIMIT $2`, query)
	require.Equal(t, []any{"org-1", 25}, args)
}

func TestBuildDataQueryAllOrganizationsUnscoped(t *testing.T) {
	query, args, err := buildDataQuery(QueryRequest{
		Category:  CategoryAllOrganizations,
		QueryType: "summary",
	}, 25)
	require.NoError(t, err)
	require.Equal(t, `SELECT * FROM organizations ORDER BY created_at DESC LIMIT $1`, query)
	require.Equal(t, []any{25}, args)
}

func TestBuildDataQueryScopesByOrganizationID(t *testing.T) {
	query, args, err := buildDataQuery(QueryRequest{
		Category:       CategoryVehicles,
		QueryType:      "list",
		OrganizationID: "org-1",
	}, 10)
	require.NoError(t, err)
	require.Equal(t, `SELECT * FROM vehicles WHERE organization_id = $1 ORDER BY created_at DESC LIMIT $2`, query)
	require.Equal(t, []any{"org-1", 10}, args)
}

func TestBuildDataQueryUnknownCategory(t *testing.T) {
	_, _, err := buildDataQuery(QueryRequest{Category: "payroll"}, 10)
	require.Error(t, err)

	_, _, err = buildCountQuery(QueryRequest{Category: "payroll"})
	require.Error(t, err)
}

func TestBuildCountQueryMatchesDataScoping(t *testing.T) {
	query, args, err := buildCountQuery(QueryRequest{
		Category:       CategoryOrganization,
		OrganizationID: "org-1",
	})
	require.NoError(t, err)
	require.Equal(t, `SELECT COUNT(*) FROM organizations WHERE id = $1`, query)
	require.Equal(t, []any{"org-1"}, args)

	query, args, err = buildCountQuery(QueryRequest{Category: CategoryAllOrganizations})
	require.NoError(t, err)
	require.Equal(t, `SELECT COUNT(*) FROM organizations`, query)
	require.Nil(t, args)

	query, args, err = buildCountQuery(QueryRequest{
		Category:       CategoryDrivers,
		OrganizationID: "org-2",
	})
	require.NoError(t, err)
	require.Equal(t, `SELECT COUNT(*) FROM drivers WHERE organization_id = $1`, query)
	require.Equal(t, []any{"org-2"}, args)
}
