// Package table resolves values inside table-section attributes.
//
// A table section is a custom attribute whose value is a list of rows
// sharing the same logical columns. The platform builds row columns in
// the order attributes were added by the tenant, so column position is
// never a stable identifier; every lookup goes through the column's
// customAttributeId.
package table

import (
	"github.com/toddminertech/apptivo-go/internal/label"
	"github.com/toddminertech/apptivo-go/internal/layout"
	"github.com/toddminertech/apptivo-go/internal/record"
	"github.com/toddminertech/apptivo-go/internal/reserr"
)

// SectionID resolves a table-section label to the custom attribute id
// records key the section's rows by. The match is against section
// definitions, not attribute definitions; first match wins.
func SectionID(sectionLabel string, doc *layout.Document) (string, error) {
	section, err := layout.FindSection(sectionLabel, doc)
	if err != nil {
		return "", err
	}
	return string(section.ID), nil
}

// Rows returns the row list of the record's table section with the
// given id. A record that has rows but no entry for the section id at
// all is a structural failure, not an empty success.
func Rows(sectionID string, rec *record.Record) ([]record.TableRow, error) {
	attr, _, err := rec.FindCustomAttribute(sectionID)
	if err != nil {
		return nil, err
	}
	if attr == nil {
		return nil, reserr.New(reserr.CodeTableSectionNotFound,
			"record has no table section with id %q", sectionID)
	}
	return attr.Rows, nil
}

// RowsBySectionLabel combines SectionID and Rows.
func RowsBySectionLabel(sectionLabel string, rec *record.Record, doc *layout.Document) ([]record.TableRow, error) {
	id, err := SectionID(sectionLabel, doc)
	if err != nil {
		return nil, err
	}
	return Rows(id, rec)
}

// ColumnIndex reports the position of the column with the given
// attribute id within a row, or -1 when the row has no such column.
// The index is informational only; lookups never use it.
func ColumnIndex(attributeID string, row record.TableRow) int {
	for i, col := range row.Columns {
		if label.Equal(col.CustomAttributeID, attributeID) {
			return i
		}
	}
	return -1
}

// CellValue resolves a column label within the named table section and
// extracts that cell's value from the row, scanning columns by
// attribute id. Cells store either a scalar customAttributeValue or a
// single-entry attributeValues list; a row without the column yields an
// empty value.
func CellValue(p label.Path, row record.TableRow, doc *layout.Document) (string, error) {
	def, err := layout.FindAttribute(p, doc)
	if err != nil {
		return "", err
	}
	id := string(def.AttributeID)
	for _, col := range row.Columns {
		if col.CustomAttributeID != id {
			continue
		}
		if col.CustomAttributeValue != "" {
			return col.CustomAttributeValue, nil
		}
		if len(col.AttributeValues) > 0 {
			return col.AttributeValues[0].AttributeValue, nil
		}
	}
	return "", nil
}
