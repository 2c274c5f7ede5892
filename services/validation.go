package services

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ksivaceg/product-management-portal-backend/models"
)

// DefaultShortTextMaxLength bounds short_text cells unless overridden.
const DefaultShortTextMaxLength = 50

// CellKind tags the validated representation of a CSV cell.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellString
	CellNumber
	CellStringList
)

// CellValue is the typed result of validating one CSV cell. Exactly one of
// the payload fields is meaningful, selected by Kind.
type CellValue struct {
	Kind    CellKind
	Str     string
	Num     float64
	IsInt   bool
	Entries []string
}

// Value returns the natural Go value for the cell, suitable for JSON and
// BSON encoding. Empty cells encode as null, whole numbers as int64.
func (cv CellValue) Value() interface{} {
	switch cv.Kind {
	case CellString:
		return cv.Str
	case CellNumber:
		if cv.IsInt {
			return int64(cv.Num)
		}
		return cv.Num
	case CellStringList:
		return cv.Entries
	default:
		return nil
	}
}

// IsEmpty reports whether the cell carries no usable value.
func (cv CellValue) IsEmpty() bool {
	switch cv.Kind {
	case CellEmpty:
		return true
	case CellString:
		return strings.TrimSpace(cv.Str) == ""
	case CellStringList:
		return len(cv.Entries) == 0
	}
	return false
}

func stringCell(s string) CellValue  { return CellValue{Kind: CellString, Str: s} }
func emptyCell() CellValue           { return CellValue{Kind: CellEmpty} }
func listCell(vs []string) CellValue { return CellValue{Kind: CellStringList, Entries: vs} }
func numberCell(f float64) CellValue {
	return CellValue{Kind: CellNumber, Num: f, IsInt: f == float64(int64(f))}
}

// CellValidator validates CSV cells against attribute definitions. Row
// numbers in produced messages are 1-based over data rows.
type CellValidator struct {
	ShortTextMaxLength int
}

// NewCellValidator creates a validator with the given short_text bound, or
// the default when maxLen is not positive.
func NewCellValidator(maxLen int) *CellValidator {
	if maxLen <= 0 {
		maxLen = DefaultShortTextMaxLength
	}
	return &CellValidator{ShortTextMaxLength: maxLen}
}

// ValidateCell checks one cell against its attribute definition. It returns
// whether the cell is valid, the typed value to carry forward, and a
// human-readable issue message when something is wrong. An invalid cell can
// still carry a value so the preview shows what was rejected.
func (v *CellValidator) ValidateCell(raw string, attr *models.AttributeDefinition, rowNumber int) (bool, CellValue, string) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		if attr.IsRequired {
			return false, emptyCell(), fmt.Sprintf("Row %d, Column '%s': Value is required but is empty.", rowNumber, attr.Name)
		}
		return true, emptyCell(), ""
	}

	switch attr.Type {
	case models.TypeShortText:
		// length is in characters, not bytes
		if utf8.RuneCountInString(cleaned) > v.ShortTextMaxLength {
			return false, stringCell(cleaned), fmt.Sprintf("Row %d, Column '%s': Value exceeds max length of %d.", rowNumber, attr.Name, v.ShortTextMaxLength)
		}
		return true, stringCell(cleaned), ""

	case models.TypeLongText, models.TypeRichText:
		return true, stringCell(cleaned), ""

	case models.TypeNumber:
		num, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return false, stringCell(cleaned), fmt.Sprintf("Row %d, Column '%s': Value '%s' is not a valid number.", rowNumber, attr.Name, cleaned)
		}
		return true, numberCell(num), ""

	case models.TypeSingleSelect:
		if len(attr.Options) == 0 {
			return false, stringCell(cleaned), fmt.Sprintf("Row %d, Column '%s': No options defined.", rowNumber, attr.Name)
		}
		if !containsString(attr.Options, cleaned) {
			return false, stringCell(cleaned), fmt.Sprintf("Row %d, Column '%s': Value '%s' not in allowed options: %s.", rowNumber, attr.Name, cleaned, formatOptions(attr.Options))
		}
		return true, stringCell(cleaned), ""

	case models.TypeMultipleSelect:
		if len(attr.Options) == 0 {
			return false, stringCell(cleaned), fmt.Sprintf("Row %d, Column '%s': No options defined.", rowNumber, attr.Name)
		}
		selected := splitSelections(cleaned)
		if len(selected) == 0 && attr.IsRequired {
			return false, stringCell(cleaned), fmt.Sprintf("Row %d, Column '%s': Value is required.", rowNumber, attr.Name)
		}
		var invalid []string
		for _, s := range selected {
			if !containsString(attr.Options, s) {
				invalid = append(invalid, s)
			}
		}
		if len(invalid) > 0 {
			return false, listCell(selected), fmt.Sprintf("Row %d, Column '%s': Values %s are not in allowed options: %s.", rowNumber, attr.Name, formatOptions(invalid), formatOptions(attr.Options))
		}
		return true, listCell(selected), ""

	case models.TypeMeasure:
		return true, stringCell(cleaned), ""
	}

	return true, stringCell(cleaned), ""
}

// splitSelections splits a multi-select cell on semicolons, trimming each
// entry and dropping blanks.
func splitSelections(cell string) []string {
	parts := strings.Split(cell, ";")
	selected := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			selected = append(selected, trimmed)
		}
	}
	return selected
}

func containsString(haystack []string, needle string) bool {
	for _, h := range haystack {
		if h == needle {
			return true
		}
	}
	return false
}

func formatOptions(options []string) string {
	quoted := make([]string, len(options))
	for i, o := range options {
		quoted[i] = "'" + o + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
