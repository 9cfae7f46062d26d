package infra

// excel.go — exportação da lista de materiais em XLSX com excelize.
// O layout espelha o PDF: uma aba com a tabela agregada e os avisos ao final.

import (
	"fmt"
	"os"
	"path/filepath"

	"panifpro/internal/dto"

	"github.com/xuri/excelize/v2"
)

// GerarMateriaisXLSX writes the aggregated material list of a production
// order as an Excel workbook. Returns the absolute path of the written file.
func GerarMateriaisXLSX(res *dto.MateriaisResponse, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("xlsx: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath, fmt.Sprintf("materiais_%s.xlsx", res.Numero))

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Materiais"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"EBEBEB"}},
	})
	if err != nil {
		return "", fmt.Errorf("xlsx: header style: %w", err)
	}

	f.SetCellValue(sheet, "A1", "Ordem")
	f.SetCellValue(sheet, "B1", res.Numero)

	f.SetCellValue(sheet, "A3", "Matéria-prima")
	f.SetCellValue(sheet, "B3", "Quantidade")
	f.SetCellValue(sheet, "C3", "Unidade")
	f.SetCellStyle(sheet, "A3", "C3", headerStyle)

	row := 4
	for _, m := range res.Materiais {
		qtd, _ := m.Quantidade.Float64()
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), m.Nome)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), qtd)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), m.Unidade)
		row++
	}

	if len(res.Avisos) > 0 {
		row++
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Avisos")
		f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), headerStyle)
		for _, a := range res.Avisos {
			row++
			f.SetCellValue(sheet, fmt.Sprintf("A%d", row), a)
		}
	}

	f.SetColWidth(sheet, "A", "A", 40)
	f.SetColWidth(sheet, "B", "C", 14)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("xlsx: write file: %w", err)
	}
	return filePath, nil
}
