// Package aichat decides what the AI assistant may show each role:
// which data categories and query types are reachable, how many rows a
// query may return, and which sensitive fields get redacted.
package aichat

import "github.com/royalcarriage/platform/internal/rbac"

// DataCategory names a queryable slice of platform data.
type DataCategory string

// Queryable data categories.
const (
	CategoryVehicles           DataCategory = "vehicles"
	CategoryDrivers            DataCategory = "drivers"
	CategoryVehicleAssignments DataCategory = "vehicle_assignments"
	CategoryVehicleIssues      DataCategory = "vehicle_issues"
	CategoryAccounting         DataCategory = "accounting"
	CategoryReceipts           DataCategory = "receipts"
	CategoryRefunds            DataCategory = "refunds"
	CategoryDeductions         DataCategory = "deductions"
	CategoryFleet              DataCategory = "fleet"
	CategoryUsers              DataCategory = "users"
	CategoryOrganization       DataCategory = "organization"
	CategoryAllOrganizations   DataCategory = "all_organizations"
)

// SensitiveFieldCategory groups redactable fields by sensitivity.
type SensitiveFieldCategory string

// Sensitivity groups.
const (
	SensitiveFinancial      SensitiveFieldCategory = "financial"
	SensitivePersonal       SensitiveFieldCategory = "personal"
	SensitiveInternal       SensitiveFieldCategory = "internal"
	SensitiveAdministrative SensitiveFieldCategory = "administrative"
)

// sensitiveCategoryOrder fixes iteration order so redaction lists are
// deterministic.
var sensitiveCategoryOrder = []SensitiveFieldCategory{
	SensitiveFinancial,
	SensitivePersonal,
	SensitiveInternal,
	SensitiveAdministrative,
}

// SensitiveFields lists the field names redacted per sensitivity group.
var SensitiveFields = map[SensitiveFieldCategory][]string{
	SensitiveFinancial: {
		"salary",
		"bankAccount",
		"accountNumber",
		"routingNumber",
		"ssn",
		"taxId",
		"payRate",
		"commission",
		"bonus",
		"deductionAmount",
		"totalEarnings",
		"netPay",
	},
	SensitivePersonal: {
		"dateOfBirth",
		"socialSecurityNumber",
		"driverLicense",
		"homeAddress",
		"personalPhone",
		"emergencyContact",
		"medicalInfo",
	},
	SensitiveInternal: {
		"internalNotes",
		"performanceScore",
		"disciplinaryActions",
		"warnings",
		"terminationReason",
	},
	SensitiveAdministrative: {
		"apiKeys",
		"secretKeys",
		"passwords",
		"tokens",
		"adminNotes",
		"systemConfig",
	},
}

// AccessConfig bounds what one role can do through the chat surface.
type AccessConfig struct {
	AllowedDataCategories  []DataCategory
	CanViewSensitiveData   bool
	SensitiveFieldsAllowed []SensitiveFieldCategory
	CanQueryCrossOrg       bool
	MaxResultsPerQuery     int
	AllowedQueryTypes      []string
}

// AccessConfigByRole is the per-role chat access table.
var AccessConfigByRole = map[rbac.Role]AccessConfig{
	rbac.RoleDispatcher: {
		AllowedDataCategories: []DataCategory{
			CategoryVehicles,
			CategoryDrivers,
			CategoryVehicleAssignments,
			CategoryVehicleIssues,
		},
		CanViewSensitiveData:   false,
		SensitiveFieldsAllowed: nil,
		CanQueryCrossOrg:       false,
		MaxResultsPerQuery:     50,
		AllowedQueryTypes:      []string{"list", "search", "status", "availability"},
	},

	rbac.RoleAccountant: {
		AllowedDataCategories: []DataCategory{
			CategoryDrivers,
			CategoryAccounting,
			CategoryReceipts,
			CategoryRefunds,
		},
		CanViewSensitiveData:   true,
		SensitiveFieldsAllowed: []SensitiveFieldCategory{SensitiveFinancial},
		CanQueryCrossOrg:       false,
		MaxResultsPerQuery:     100,
		AllowedQueryTypes:      []string{"list", "search", "aggregate", "report", "export"},
	},

	rbac.RoleFleetManager: {
		AllowedDataCategories: []DataCategory{
			CategoryVehicles,
			CategoryDrivers,
			CategoryVehicleAssignments,
			CategoryVehicleIssues,
			CategoryFleet,
			CategoryDeductions,
		},
		CanViewSensitiveData:   true,
		SensitiveFieldsAllowed: []SensitiveFieldCategory{SensitivePersonal, SensitiveInternal},
		CanQueryCrossOrg:       false,
		MaxResultsPerQuery:     100,
		AllowedQueryTypes:      []string{"list", "search", "status", "report", "analytics"},
	},

	rbac.RoleAdmin: {
		AllowedDataCategories: []DataCategory{
			CategoryVehicles,
			CategoryDrivers,
			CategoryVehicleAssignments,
			CategoryVehicleIssues,
			CategoryAccounting,
			CategoryReceipts,
			CategoryRefunds,
			CategoryDeductions,
			CategoryFleet,
			CategoryUsers,
			CategoryOrganization,
		},
		CanViewSensitiveData: true,
		SensitiveFieldsAllowed: []SensitiveFieldCategory{
			SensitiveFinancial, SensitivePersonal, SensitiveInternal, SensitiveAdministrative,
		},
		CanQueryCrossOrg:   false,
		MaxResultsPerQuery: 500,
		AllowedQueryTypes:  []string{"list", "search", "aggregate", "report", "analytics", "export", "audit"},
	},

	rbac.RoleSaasAdmin: {
		AllowedDataCategories: []DataCategory{
			CategoryVehicles,
			CategoryDrivers,
			CategoryVehicleAssignments,
			CategoryVehicleIssues,
			CategoryAccounting,
			CategoryReceipts,
			CategoryRefunds,
			CategoryDeductions,
			CategoryFleet,
			CategoryUsers,
			CategoryOrganization,
			CategoryAllOrganizations,
		},
		CanViewSensitiveData: true,
		SensitiveFieldsAllowed: []SensitiveFieldCategory{
			SensitiveFinancial, SensitivePersonal, SensitiveInternal, SensitiveAdministrative,
		},
		CanQueryCrossOrg:   true,
		MaxResultsPerQuery: 1000,
		AllowedQueryTypes:  []string{"list", "search", "aggregate", "report", "analytics", "export", "audit", "system"},
	},
}

// ConfigForRole returns the access config for a role. Unknown roles get a
// zero config: no categories, no query types, ceiling zero.
func ConfigForRole(role rbac.Role) AccessConfig {
	return AccessConfigByRole[role]
}
