package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// ProjectSortFields contains allowed sort fields for projects
var ProjectSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"name":         true,
	"status":       true,
	"priority":     true,
	"category":     true,
	"due_date":     true,
	"completed_at": true,
	"progress":     true,
	"budget":       true,
}

// TaskSortFields contains allowed sort fields for tasks
var TaskSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"title":          true,
	"status":         true,
	"priority":       true,
	"category":       true,
	"due_date":       true,
	"completed_date": true,
	"progress":       true,
}

// PrintJobSortFields contains allowed sort fields for print jobs
var PrintJobSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"job_number": true,
	"status":     true,
	"priority":   true,
	"machine":    true,
	"progress":   true,
	"total_cost": true,
}

// QualityCheckSortFields contains allowed sort fields for quality checks
var QualityCheckSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"check_type":     true,
	"overall_status": true,
	"pass_rate":      true,
	"defect_count":   true,
}

// InvoiceSortFields contains allowed sort fields for invoices
var InvoiceSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"invoice_number": true,
	"status":         true,
	"type":           true,
	"total":          true,
	"issued_date":    true,
	"due_date":       true,
	"paid_at":        true,
}

// FileSortFields contains allowed sort fields for files
var FileSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"original_name":  true,
	"category":       true,
	"version_number": true,
	"size_bytes":     true,
	"access_level":   true,
}
