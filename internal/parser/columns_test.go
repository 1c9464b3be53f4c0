package parser

import (
	"reflect"
	"testing"
)

// cabeçalhos típicos de um export real do CDI
var cabecalhos = []string{
	"Data_Base",
	"Unidade",
	"Tipo de Veículo",
	"Relacionamento",
	"Placa",
	"SumReceita_Líquida",
	"SumDiária_Total",
	"SumRetorno",
	"SumEntregas",
	"SumEntregas_Agendadas",
	"SumColetas",
	"SumCTRCs",
	"SumPeso",
	"SumAjudante",
	"SumDiária_Fixa",
	"SumCDI",
	"Observação",
}

func TestResolveColumns_PapeisBasicos(t *testing.T) {
	t.Parallel()

	rm := ResolveColumns(cabecalhos)

	if rm.Date != "Data_Base" {
		t.Fatalf("Date = %q", rm.Date)
	}
	if rm.Unit != "Unidade" {
		t.Fatalf("Unit = %q", rm.Unit)
	}
	if rm.Type != "Tipo de Veículo" {
		t.Fatalf("Type = %q", rm.Type)
	}
	if rm.Rel != "Relacionamento" {
		t.Fatalf("Rel = %q", rm.Rel)
	}
	if rm.Plate != "Placa" {
		t.Fatalf("Plate = %q", rm.Plate)
	}
	if rm.Revenue != "SumReceita_Líquida" {
		t.Fatalf("Revenue = %q", rm.Revenue)
	}
	if rm.TotalCost != "SumDiária_Total" {
		t.Fatalf("TotalCost = %q", rm.TotalCost)
	}
	if rm.Return != "SumRetorno" {
		t.Fatalf("Return = %q", rm.Return)
	}
}

func TestResolveColumns_MetricasMultiColuna(t *testing.T) {
	t.Parallel()

	rm := ResolveColumns(cabecalhos)

	// todas as colunas que contêm "entrega" contam juntas
	wantEntregas := []string{"SumEntregas", "SumEntregas_Agendadas"}
	if !reflect.DeepEqual(rm.Deliveries, wantEntregas) {
		t.Fatalf("Deliveries = %v", rm.Deliveries)
	}
	if !reflect.DeepEqual(rm.Pickups, []string{"SumColetas"}) {
		t.Fatalf("Pickups = %v", rm.Pickups)
	}
	if !reflect.DeepEqual(rm.Waybills, []string{"SumCTRCs"}) {
		t.Fatalf("Waybills = %v", rm.Waybills)
	}
	if !reflect.DeepEqual(rm.Weights, []string{"SumPeso"}) {
		t.Fatalf("Weights = %v", rm.Weights)
	}
}

func TestResolveColumns_ComponentesDeCusto(t *testing.T) {
	t.Parallel()

	rm := ResolveColumns(cabecalhos)

	// receita, diária total, retorno e o marcador CDI ficam de fora;
	// SumEntregas/SumColetas/SumCTRCs/SumPeso são Sum* e entram — o
	// consumidor usa só os componentes com valor monetário, mas a
	// resolução é puramente sintática
	want := []string{"SumEntregas", "SumEntregas_Agendadas", "SumColetas", "SumCTRCs", "SumPeso", "SumAjudante", "SumDiária_Fixa"}
	if !reflect.DeepEqual(rm.CostComponents, want) {
		t.Fatalf("CostComponents = %v", rm.CostComponents)
	}
}

func TestResolveColumns_Idempotente(t *testing.T) {
	t.Parallel()

	a := ResolveColumns(cabecalhos)
	b := ResolveColumns(cabecalhos)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("resolução não determinística")
	}
}

func TestResolveColumns_PapelAusente(t *testing.T) {
	t.Parallel()

	rm := ResolveColumns([]string{"Placa", "SumReceita_Líquida"})
	if rm.Date != "" || rm.Unit != "" {
		t.Fatalf("papéis sem coluna deveriam ficar vazios: %+v", rm)
	}
}

func TestCostLabel(t *testing.T) {
	t.Parallel()

	if got := CostLabel("SumAjudante"); got != "Custo de Ajudantes" {
		t.Fatalf("SumAjudante = %q", got)
	}
	if got := CostLabel("SumSal___Enc___Frota"); got != "Custo de MO: Frota" {
		t.Fatalf("SumSal___Enc___Frota = %q", got)
	}
	// componente desconhecido cai no cabeçalho sem o prefixo
	if got := CostLabel("SumPedagio"); got != "Pedagio" {
		t.Fatalf("SumPedagio = %q", got)
	}
}
