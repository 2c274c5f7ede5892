package services

import (
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/ksivaceg/product-management-portal-backend/models"
)

// RowReport is the outcome of validating one CSV file against the attribute
// schema. Per-row data-quality problems live in ValidationErrors; they demote
// the final status but never abort processing.
type RowReport struct {
	Headers          []string
	OriginalHeaders  []string
	IgnoredHeaders   []string
	Products         []map[string]interface{}
	ValidationErrors []string
	TotalRows        int
	Message          string
	Status           string
}

// RowProcessor validates CSV content cell by cell against attribute
// definitions.
type RowProcessor struct {
	validator *CellValidator
}

// NewRowProcessor creates a processor using the given cell validator.
func NewRowProcessor(validator *CellValidator) *RowProcessor {
	return &RowProcessor{validator: validator}
}

// Process parses and validates the CSV content. Headers that match a defined
// attribute name exactly are validated; the rest are recorded as ignored and
// excluded from row data. Rows are numbered 1-based over data rows. A
// returned error means the file itself is unreadable; everything else is
// reported in the RowReport.
func (p *RowProcessor) Process(content string, attributes map[string]*models.AttributeDefinition) (*RowReport, error) {
	report := &RowReport{
		Headers:          []string{},
		OriginalHeaders:  []string{},
		IgnoredHeaders:   []string{},
		Products:         []map[string]interface{}{},
		ValidationErrors: []string{},
		Status:           models.JobStatusCompletedWithIssues,
	}

	reader := csv.NewReader(strings.NewReader(content))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}

	if len(records) == 0 || len(records[0]) == 0 || (len(records[0]) == 1 && strings.TrimSpace(records[0][0]) == "") {
		report.Message = "CSV file is empty or has no headers."
		return report, nil
	}

	report.OriginalHeaders = records[0]
	headerIndex := map[string]int{}
	for i, header := range records[0] {
		if _, defined := attributes[header]; defined {
			report.Headers = append(report.Headers, header)
			headerIndex[header] = i
		} else {
			report.IgnoredHeaders = append(report.IgnoredHeaders, header)
		}
	}

	if len(report.Headers) == 0 {
		report.Message = "No columns in the CSV match defined attributes."
		return report, nil
	}

	for i, record := range records[1:] {
		rowNumber := i + 1
		report.TotalRows++

		rowData := map[string]interface{}{}
		rowValid := true
		var rowErrors []string

		for _, header := range report.Headers {
			raw := ""
			if idx := headerIndex[header]; idx < len(record) {
				raw = record[idx]
			}

			attr := attributes[header]
			valid, value, errMsg := p.validator.ValidateCell(raw, attr, rowNumber)
			if !valid {
				rowValid = false
			}
			if errMsg != "" {
				rowErrors = append(rowErrors, errMsg)
			}
			rowData[header] = value.Value()
		}

		// A required column can end up empty after cleaning even when the
		// cell validator accepted it; catch that here without duplicating an
		// already reported required-value message for the same column.
		for _, header := range report.Headers {
			attr := attributes[header]
			if !attr.IsRequired {
				continue
			}
			if !valuePresent(rowData[header]) {
				rowValid = false
				if !hasRequiredError(rowErrors, header) {
					rowErrors = append(rowErrors, fmt.Sprintf("Row %d, Column '%s': Value is required but is missing or empty.", rowNumber, header))
				}
			}
		}

		if rowValid {
			report.Products = append(report.Products, rowData)
		} else {
			report.ValidationErrors = append(report.ValidationErrors, rowErrors...)
		}
	}

	report.Message = fmt.Sprintf("Processed %d rows. Found %d valid products and %d validation issues.",
		report.TotalRows, len(report.Products), len(report.ValidationErrors))

	if len(report.ValidationErrors) == 0 && len(report.IgnoredHeaders) == 0 &&
		report.TotalRows > 0 && len(report.Products) == report.TotalRows {
		report.Status = models.JobStatusCompleted
	}
	return report, nil
}

func valuePresent(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(val) != ""
	case []string:
		return len(val) > 0
	}
	return true
}

func hasRequiredError(errors []string, header string) bool {
	needle := fmt.Sprintf("Column '%s'", header)
	for _, e := range errors {
		if strings.Contains(e, needle) && strings.Contains(e, "Value is required") {
			return true
		}
	}
	return false
}
