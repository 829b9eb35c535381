// Package report summarises the spreadsheet returned by the processing API.
package report

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/xuri/excelize/v2"
)

// recalcSheet is the template sheet that receives the employee header.
const recalcSheet = "Recalculo"

// Summary describes a generated workbook.
type Summary struct {
	Sheets []string
	// Years lists sheets named after a competence year, in workbook order.
	Years    []string
	Employee Employee
}

// Employee holds the header fields copied into the Recalculo sheet.
type Employee struct {
	Name      string
	CPF       string
	Admission string
}

// Empty reports whether no employee field was found.
func (e Employee) Empty() bool {
	return e.Name == "" && e.CPF == "" && e.Admission == ""
}

// Inspect opens data as an xlsx workbook and extracts a Summary.
func Inspect(data []byte) (Summary, error) {
	wb, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return Summary{}, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = wb.Close() }()

	summary := Summary{Sheets: wb.GetSheetList()}
	for _, name := range summary.Sheets {
		if isYear(name) {
			summary.Years = append(summary.Years, name)
		}
	}

	if slices.Contains(summary.Sheets, recalcSheet) {
		employee, err := readEmployee(wb)
		if err != nil {
			return Summary{}, err
		}
		summary.Employee = employee
	}
	return summary, nil
}

func readEmployee(wb *excelize.File) (Employee, error) {
	var e Employee
	fields := []struct {
		axis string
		dest *string
	}{
		{"C2", &e.Name},
		{"C3", &e.CPF},
		{"C4", &e.Admission},
	}
	for _, f := range fields {
		value, err := wb.GetCellValue(recalcSheet, f.axis)
		if err != nil {
			return Employee{}, fmt.Errorf("read %s!%s: %w", recalcSheet, f.axis, err)
		}
		*f.dest = strings.TrimSpace(value)
	}
	return e, nil
}

func isYear(name string) bool {
	if len(name) != 4 {
		return false
	}
	for _, r := range name {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
