package loader

import (
	"testing"

	"github.com/xuri/excelize/v2"
)

// newWorkbook cria um workbook com uma única aba preenchida linha a linha.
func newWorkbook(t *testing.T, aba string, linhas [][]any) *excelize.File {
	t.Helper()

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", aba); err != nil {
		t.Fatalf("renomear aba: %v", err)
	}
	for i, linha := range linhas {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("célula: %v", err)
		}
		if err := f.SetSheetRow(aba, cell, &linha); err != nil {
			t.Fatalf("linha %d: %v", i+1, err)
		}
	}
	return f
}
