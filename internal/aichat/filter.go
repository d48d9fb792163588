package aichat

import (
	"fmt"
	"strings"

	"github.com/royalcarriage/platform/internal/rbac"
	"github.com/royalcarriage/platform/internal/shared"
)

// RedactedMarker replaces the value of any field the viewer may not see.
const RedactedMarker = "[REDACTED]"

// CanAccessChat reports whether the identity may use the chat surface at all.
func CanAccessChat(id *shared.Identity) bool {
	return rbac.HasPermission(id, rbac.PermAIChatAccess)
}

// CanAccessCategory reports whether the identity may query a data category.
func CanAccessCategory(id *shared.Identity, category DataCategory) bool {
	if id == nil {
		return false
	}
	cfg := ConfigForRole(rbac.Role(id.Role))
	for _, c := range cfg.AllowedDataCategories {
		if c == category {
			return true
		}
	}
	return false
}

// CanPerformQueryType reports whether the identity may run a query verb.
func CanPerformQueryType(id *shared.Identity, queryType string) bool {
	if id == nil {
		return false
	}
	cfg := ConfigForRole(rbac.Role(id.Role))
	for _, q := range cfg.AllowedQueryTypes {
		if q == queryType {
			return true
		}
	}
	return false
}

// FieldsToRedact returns every sensitive field the identity may NOT see,
// in a deterministic order.
func FieldsToRedact(id *shared.Identity) []string {
	var cfg AccessConfig
	if id != nil {
		cfg = ConfigForRole(rbac.Role(id.Role))
	}
	allowed := make(map[SensitiveFieldCategory]struct{}, len(cfg.SensitiveFieldsAllowed))
	for _, c := range cfg.SensitiveFieldsAllowed {
		allowed[c] = struct{}{}
	}
	var fields []string
	for _, category := range sensitiveCategoryOrder {
		if _, ok := allowed[category]; ok {
			continue
		}
		fields = append(fields, SensitiveFields[category]...)
	}
	return fields
}

// Redact returns a copy of record with every disallowed field's value
// replaced by RedactedMarker. Keys are never added or removed, so
// redacting an already-redacted record is a no-op.
func Redact(id *shared.Identity, record map[string]any) map[string]any {
	redacted := make(map[string]any, len(record))
	for k, v := range record {
		redacted[k] = v
	}
	for _, field := range FieldsToRedact(id) {
		if _, ok := redacted[field]; ok {
			redacted[field] = RedactedMarker
		}
	}
	return redacted
}

// RedactAll redacts each record in a result set.
func RedactAll(id *shared.Identity, records []map[string]any) []map[string]any {
	out := make([]map[string]any, len(records))
	for i, rec := range records {
		out[i] = Redact(id, rec)
	}
	return out
}

// QueryResult is a filtered result set plus the visibility report.
type QueryResult struct {
	Data           []map[string]any `json:"data"`
	TotalCount     int              `json:"totalCount"`
	Truncated      bool             `json:"truncated"`
	AllowedFields  []string         `json:"allowedFields"`
	RedactedFields []string         `json:"redactedFields"`
}

// FilterQueryResults truncates results to the role's ceiling, redacts each
// record, and reports which fields survived and which were hidden.
func FilterQueryResults(id *shared.Identity, results []map[string]any, totalCount int) QueryResult {
	var cfg AccessConfig
	if id != nil {
		cfg = ConfigForRole(rbac.Role(id.Role))
	}
	toRedact := FieldsToRedact(id)

	truncated := len(results) > cfg.MaxResultsPerQuery
	limited := results
	if truncated {
		limited = results[:cfg.MaxResultsPerQuery]
	}

	redactSet := make(map[string]struct{}, len(toRedact))
	for _, f := range toRedact {
		redactSet[f] = struct{}{}
	}
	var allFields []string
	if len(limited) > 0 {
		for k := range limited[0] {
			allFields = append(allFields, k)
		}
	}
	var allowedFields, redactedFields []string
	for _, f := range allFields {
		if _, ok := redactSet[f]; ok {
			redactedFields = append(redactedFields, f)
		} else {
			allowedFields = append(allowedFields, f)
		}
	}

	return QueryResult{
		Data:           RedactAll(id, limited),
		TotalCount:     totalCount,
		Truncated:      truncated,
		AllowedFields:  allowedFields,
		RedactedFields: redactedFields,
	}
}

// QueryRequest is a chat data query before validation.
type QueryRequest struct {
	Category       DataCategory   `json:"category" validate:"required"`
	QueryType      string         `json:"queryType" validate:"required"`
	OrganizationID string         `json:"organizationId,omitempty"`
	Filters        map[string]any `json:"filters,omitempty"`
}

// ValidationResult reports whether a query may run, with hard errors,
// soft warnings, and the rewritten request on success.
type ValidationResult struct {
	Valid           bool          `json:"valid"`
	Errors          []string      `json:"errors"`
	Warnings        []string      `json:"warnings"`
	ModifiedRequest *QueryRequest `json:"modifiedRequest,omitempty"`
}

// ValidateQueryRequest composes chat-access, category, verb, and
// organization checks. On success the returned request is rewritten to the
// caller's own organization unless the role may query across organizations.
func ValidateQueryRequest(id *shared.Identity, req QueryRequest) ValidationResult {
	var errs, warnings []string
	var cfg AccessConfig
	if id != nil {
		cfg = ConfigForRole(rbac.Role(id.Role))
	}

	if !CanAccessChat(id) {
		errs = append(errs, "user does not have AI chat access")
		return ValidationResult{Valid: false, Errors: errs, Warnings: warnings}
	}

	if !CanAccessCategory(id, req.Category) {
		errs = append(errs, fmt.Sprintf("user cannot access data category: %s", req.Category))
	}
	if !CanPerformQueryType(id, req.QueryType) {
		errs = append(errs, fmt.Sprintf("user cannot perform query type: %s", req.QueryType))
	}
	if req.OrganizationID != "" && !cfg.CanQueryCrossOrg && req.OrganizationID != id.OrganizationID {
		errs = append(errs, "user cannot query data from other organizations")
	}

	if len(errs) > 0 {
		return ValidationResult{Valid: false, Errors: errs, Warnings: warnings}
	}

	modified := req
	if !cfg.CanQueryCrossOrg || modified.OrganizationID == "" {
		modified.OrganizationID = id.OrganizationID
	}

	if req.QueryType == "export" && !cfg.CanViewSensitiveData {
		warnings = append(warnings, "some sensitive fields will be redacted from export")
	}

	return ValidationResult{Valid: true, Errors: errs, Warnings: warnings, ModifiedRequest: &modified}
}

// SystemPromptForRole renders the data-access restrictions as a prompt
// preamble for the model.
func SystemPromptForRole(id *shared.Identity) string {
	cfg := ConfigForRole(rbac.Role(id.Role))
	toRedact := FieldsToRedact(id)

	var b strings.Builder
	fmt.Fprintf(&b, "User Role: %s\n", id.Role)
	fmt.Fprintf(&b, "Organization ID: %s\n\n", id.OrganizationID)

	b.WriteString("DATA ACCESS RESTRICTIONS:\n")
	fmt.Fprintf(&b, "- Allowed data categories: %s\n", joinCategories(cfg.AllowedDataCategories))
	fmt.Fprintf(&b, "- Allowed query types: %s\n", strings.Join(cfg.AllowedQueryTypes, ", "))
	fmt.Fprintf(&b, "- Maximum results per query: %d\n", cfg.MaxResultsPerQuery)
	crossOrg := "NOT ALLOWED"
	if cfg.CanQueryCrossOrg {
		crossOrg = "ALLOWED"
	}
	fmt.Fprintf(&b, "- Cross-organization queries: %s\n", crossOrg)

	if len(toRedact) > 0 {
		b.WriteString("\nREDACTED FIELDS (do not display or discuss):\n")
		for _, f := range toRedact {
			fmt.Fprintf(&b, "- %s\n", f)
		}
	}

	b.WriteString("\nIMPORTANT: Only provide information that the user is authorized to access based on their role.")
	return b.String()
}

func joinCategories(categories []DataCategory) string {
	parts := make([]string, len(categories))
	for i, c := range categories {
		parts[i] = string(c)
	}
	return strings.Join(parts, ", ")
}
