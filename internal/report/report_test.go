package report

import (
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, withRecalc bool) []byte {
	t.Helper()
	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })

	if withRecalc {
		if err := f.SetSheetName("Sheet1", recalcSheet); err != nil {
			t.Fatalf("SetSheetName: %v", err)
		}
		for axis, value := range map[string]string{"C2": " MARIA DA SILVA ", "C3": "123.456.789-00", "C4": "01/02/2010"} {
			if err := f.SetCellValue(recalcSheet, axis, value); err != nil {
				t.Fatalf("SetCellValue: %v", err)
			}
		}
	}
	for _, year := range []string{"2019", "2020"} {
		if _, err := f.NewSheet(year); err != nil {
			t.Fatalf("NewSheet: %v", err)
		}
		if err := f.SetSheetRow(year, "A1", &[]string{"PROVENTOS/DESCONTO", "Janeiro"}); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}
	return buf.Bytes()
}

func TestInspect_ReadsYearsAndEmployee(t *testing.T) {
	summary, err := Inspect(buildWorkbook(t, true))
	if err != nil {
		t.Fatalf("Inspect returned error: %v", err)
	}
	if !reflect.DeepEqual(summary.Sheets, []string{recalcSheet, "2019", "2020"}) {
		t.Fatalf("Sheets = %v", summary.Sheets)
	}
	if !reflect.DeepEqual(summary.Years, []string{"2019", "2020"}) {
		t.Fatalf("Years = %v", summary.Years)
	}
	want := Employee{Name: "MARIA DA SILVA", CPF: "123.456.789-00", Admission: "01/02/2010"}
	if summary.Employee != want {
		t.Fatalf("Employee = %#v, want %#v", summary.Employee, want)
	}
}

func TestInspect_WithoutRecalculo(t *testing.T) {
	summary, err := Inspect(buildWorkbook(t, false))
	if err != nil {
		t.Fatalf("Inspect returned error: %v", err)
	}
	if !summary.Employee.Empty() {
		t.Fatalf("Employee = %#v, want empty", summary.Employee)
	}
	if len(summary.Years) != 2 {
		t.Fatalf("Years = %v, want 2 entries", summary.Years)
	}
}

func TestInspect_RejectsGarbage(t *testing.T) {
	if _, err := Inspect([]byte("definitely not a zip")); err == nil {
		t.Fatalf("Inspect returned nil error for garbage input")
	}
}

func TestIsYear(t *testing.T) {
	for name, want := range map[string]bool{"2019": true, "Recalculo": false, "20a1": false, "201": false} {
		if got := isYear(name); got != want {
			t.Fatalf("isYear(%q) = %v, want %v", name, got, want)
		}
	}
}
