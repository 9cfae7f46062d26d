package infra

// pdf.go — geração dos documentos de produção com go-pdf/fpdf.
// Dois layouts A4:
//   - Lista de materiais: tabela agregada de matérias-primas da ordem
//   - Pré-pesagem: blocos por receita/lote com as linhas de pesagem

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"panifpro/internal/dto"

	"github.com/go-pdf/fpdf"
)

const pdfMargin = 15.0

// GerarMateriaisPDF renders the aggregated material list of a production
// order as an A4 document. Returns the absolute path of the written file.
func GerarMateriaisPDF(res *dto.MateriaisResponse, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath, fmt.Sprintf("materiais_%s.pdf", res.Numero))

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 2*pdfMargin

	escreverCabecalho(pdf, contentW, "Lista de Materiais", res.Numero)

	// ── Tabela de materiais ──────────────────────────────────────────────────
	col1 := contentW * 0.58 // produto
	col2 := contentW * 0.26 // quantidade
	col3 := contentW * 0.16 // unidade

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(col1, 7, "Matéria-prima", "1", 0, "L", true, 0, "")
	pdf.CellFormat(col2, 7, "Quantidade", "1", 0, "R", true, 0, "")
	pdf.CellFormat(col3, 7, "Un", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, m := range res.Materiais {
		pdf.CellFormat(col1, 6, m.Nome, "1", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 6, m.Quantidade.StringFixed(3), "1", 0, "R", false, 0, "")
		pdf.CellFormat(col3, 6, m.Unidade, "1", 1, "C", false, 0, "")
	}

	escreverAvisos(pdf, contentW, res.Avisos)

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}

// GerarPrePesagemPDF renders the pre-weighing sheet: one block per batch
// or final recipe, in the order the kitchen must produce them.
func GerarPrePesagemPDF(res *dto.PrePesagemResponse, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath, fmt.Sprintf("pre_pesagem_%s.pdf", res.Numero))

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.AddPage()

	pageW, pageH := pdf.GetPageSize()
	contentW := pageW - 2*pdfMargin

	escreverCabecalho(pdf, contentW, "Pré-pesagem", res.Numero)

	col1 := contentW * 0.18 // etapa
	col2 := contentW * 0.46 // ingrediente
	col3 := contentW * 0.22 // quantidade
	col4 := contentW * 0.14 // unidade

	for _, lote := range res.Lotes {
		// Keep the block header together with at least a couple of rows
		if pdf.GetY() > pageH-50 {
			pdf.AddPage()
		}

		titulo := fmt.Sprintf("%s (%s)", lote.Nome, lote.Codigo)
		if lote.SubReceita {
			titulo = "Lote: " + titulo
		}
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(contentW*0.7, 7, titulo, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(contentW*0.3, 7, fmt.Sprintf("Alvo: %s Kg", lote.AlvoKg.StringFixed(3)), "", 1, "R", false, 0, "")

		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetFillColor(235, 235, 235)
		pdf.CellFormat(col1, 6, "Etapa", "1", 0, "L", true, 0, "")
		pdf.CellFormat(col2, 6, "Ingrediente", "1", 0, "L", true, 0, "")
		pdf.CellFormat(col3, 6, "Quantidade", "1", 0, "R", true, 0, "")
		pdf.CellFormat(col4, 6, "Un", "1", 1, "C", true, 0, "")

		pdf.SetFont("Helvetica", "", 8)
		for _, linha := range lote.Linhas {
			nome := linha.Nome
			if linha.SubReceita {
				nome += " (lote)"
			}
			pdf.CellFormat(col1, 5.5, linha.Etapa, "1", 0, "L", false, 0, "")
			pdf.CellFormat(col2, 5.5, nome, "1", 0, "L", false, 0, "")
			pdf.CellFormat(col3, 5.5, linha.Quantidade.StringFixed(3), "1", 0, "R", false, 0, "")
			pdf.CellFormat(col4, 5.5, linha.Unidade, "1", 1, "C", false, 0, "")
		}
		pdf.Ln(4)
	}

	escreverAvisos(pdf, contentW, res.Avisos)

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}

func escreverCabecalho(pdf *fpdf.Fpdf, contentW float64, titulo, numero string) {
	pdf.SetFont("Helvetica", "B", 15)
	pdf.CellFormat(contentW, 8, "PanifPro", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(contentW, 6, titulo, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW*0.5, 5, "Ordem "+numero, "", 0, "L", false, 0, "")
	pdf.CellFormat(contentW*0.5, 5, time.Now().Format("02/01/2006 15:04"), "", 1, "R", false, 0, "")
	pdf.Ln(3)

	pdf.Line(pdfMargin, pdf.GetY(), pdfMargin+contentW, pdf.GetY())
	pdf.Ln(3)
}

func escreverAvisos(pdf *fpdf.Fpdf, contentW float64, avisos []string) {
	if len(avisos) == 0 {
		return
	}
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, "Avisos", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "I", 8)
	for _, a := range avisos {
		pdf.MultiCell(contentW, 4.5, "- "+a, "", "L", false)
	}
}
