// Package export gera a planilha XLSX com as tabelas agregadas do dia.
package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ControladoriaGen/analitico-cdi/internal/model"
)

// Exporter gera o relatório do dia em XLSX
type Exporter struct{}

// NewExporter cria o exportador
func NewExporter() *Exporter {
	return &Exporter{}
}

// Input tabelas já agregadas da seleção corrente
type Input struct {
	Data     time.Time
	Unidade  string
	Totais   model.Totals
	Unidades []model.GroupRow
	Placas   []model.PlateRow
	Rel      []model.GroupRow
	Custos   []model.CostRow
}

// Export monta o workbook com uma aba por tabela
func (e *Exporter) Export(in Input) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := e.fillResumo(f, in); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := e.fillGrupo(f, "Unidades", in.Unidades); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := e.fillPlacas(f, in.Placas); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := e.fillGrupo(f, "Relacionamentos", in.Rel); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := e.fillCustos(f, in.Custos); err != nil {
		_ = f.Close()
		return nil, err
	}

	f.SetActiveSheet(0)
	return f, nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func (e *Exporter) fillResumo(f *excelize.File, in Input) error {
	const sheet = "Resumo"
	// a primeira aba do workbook novo chama "Sheet1"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("falha ao renomear aba: %w", err)
	}

	rows := [][]any{
		{"Dia", in.Data.Format("02/01/2006")},
		{"Unidade", in.Unidade},
		{},
		{"Receita", in.Totais.Receita},
		{"Custo", in.Totais.Custo},
		{"Entregas", in.Totais.Entregas},
		{"Coletas", in.Totais.Coletas},
		{"CTRCs", in.Totais.CTRCs},
		{"Peso (kg)", in.Totais.Peso},
	}
	for i, r := range rows {
		if len(r) == 0 {
			continue
		}
		if err := setRow(f, sheet, i+1, r); err != nil {
			return fmt.Errorf("falha ao preencher resumo: %w", err)
		}
	}
	return nil
}

func (e *Exporter) fillGrupo(f *excelize.File, sheet string, rows []model.GroupRow) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("falha ao criar aba %s: %w", sheet, err)
	}
	if err := setRow(f, sheet, 1, []any{"Nome", "Receita", "Custo", "Entregas", "Coletas", "CTRCs", "Peso"}); err != nil {
		return err
	}
	for i, r := range rows {
		values := []any{r.Nome, r.Receita, r.Custo, r.Entregas, r.Coletas, r.CTRCs, r.Peso}
		if err := setRow(f, sheet, i+2, values); err != nil {
			return fmt.Errorf("falha ao preencher %s: %w", sheet, err)
		}
	}
	return nil
}

func (e *Exporter) fillPlacas(f *excelize.File, rows []model.PlateRow) error {
	const sheet = "Placas"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("falha ao criar aba %s: %w", sheet, err)
	}
	header := []any{"Placa", "Unidade", "Tipo", "Relacionamento", "Receita", "Custo", "Retorno", "Entregas", "Coletas", "CTRCs", "Peso"}
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}
	for i, r := range rows {
		values := []any{r.Placa, r.Unidade, r.Tipo, r.Rel, r.Receita, r.Custo, r.Retorno, r.Entregas, r.Coletas, r.CTRCs, r.Peso}
		if err := setRow(f, sheet, i+2, values); err != nil {
			return fmt.Errorf("falha ao preencher placas: %w", err)
		}
	}
	return nil
}

func (e *Exporter) fillCustos(f *excelize.File, rows []model.CostRow) error {
	const sheet = "Custos"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("falha ao criar aba %s: %w", sheet, err)
	}
	header := []any{"Tipo de custo", "Coluna", "Valor", "% do custo total", "CTRCs", "Coletas", "Entregas", "Peso"}
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}
	for i, r := range rows {
		values := []any{r.Nome, r.Coluna, r.Valor, r.Pct, r.CTRCs, r.Coletas, r.Entregas, r.Peso}
		if err := setRow(f, sheet, i+2, values); err != nil {
			return fmt.Errorf("falha ao preencher custos: %w", err)
		}
	}
	return nil
}
