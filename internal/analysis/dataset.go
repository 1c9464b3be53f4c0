package analysis

import (
	"sort"
	"time"

	"github.com/ControladoriaGen/analitico-cdi/internal/model"
	"github.com/ControladoriaGen/analitico-cdi/internal/parser"
)

// FilterAll é o valor de filtro que não restringe nada.
const FilterAll = "(todos)"

// Filter é a seleção ativa dos três filtros da tela. Vazio ou "(todos)"
// significa sem restrição; a ausência da coluna correspondente no arquivo
// torna o filtro inócuo.
type Filter struct {
	Unidade string
	Tipo    string
	Rel     string
}

func wantsAll(v string) bool { return v == "" || v == FilterAll }

// Dataset é o conjunto carregado do dia, imutável após a construção. Toda
// agregação é recomputada sobre ele a cada mudança de filtro.
type Dataset struct {
	Records []model.Record
	Roles   parser.RoleMap

	// Current é o maior dia presente no arquivo; Previous o maior dia
	// estritamente anterior (só para o delta de tendência). Zero se ausente.
	Current  time.Time
	Previous time.Time
}

// NewDataset indexa os registros por dia e resolve o dia corrente e o
// anterior.
func NewDataset(records []model.Record, roles parser.RoleMap) *Dataset {
	d := &Dataset{Records: records, Roles: roles}

	for i := range records {
		dt := records[i].Date
		if dt == nil {
			continue
		}
		if d.Current.IsZero() || dt.After(d.Current) {
			d.Current = *dt
		}
	}
	if !d.Current.IsZero() {
		for i := range records {
			dt := records[i].Date
			if dt == nil || !dt.Before(d.Current) {
				continue
			}
			if d.Previous.IsZero() || dt.After(d.Previous) {
				d.Previous = *dt
			}
		}
	}

	return d
}

// CurrentDay devolve os registros do dia corrente sob o filtro ativo.
// A ordem de entrada é preservada (desempates downstream dependem dela).
func (d *Dataset) CurrentDay(f Filter) []model.Record {
	return d.selectDay(d.Current, f)
}

// PreviousDay devolve os registros do dia anterior sob o mesmo filtro,
// usados apenas no delta de tendência.
func (d *Dataset) PreviousDay(f Filter) []model.Record {
	return d.selectDay(d.Previous, f)
}

func (d *Dataset) selectDay(day time.Time, f Filter) []model.Record {
	if day.IsZero() {
		return nil
	}
	var out []model.Record
	for i := range d.Records {
		r := &d.Records[i]
		if !r.SameDay(day) {
			continue
		}
		// ordem fixa: unidade, tipo, relacionamento; sem coluna, sem filtro
		if !wantsAll(f.Unidade) && d.Roles.Unit != "" && r.Unidade != f.Unidade {
			continue
		}
		if !wantsAll(f.Tipo) && d.Roles.Type != "" && r.Tipo != f.Tipo {
			continue
		}
		if !wantsAll(f.Rel) && d.Roles.Rel != "" && r.Rel != f.Rel {
			continue
		}
		out = append(out, *r)
	}
	return out
}

// FilterOptions são as opções distintas dos três dropdowns, ordenadas.
type FilterOptions struct {
	Unidades []string `json:"unidades"`
	Tipos    []string `json:"tipos"`
	Rels     []string `json:"rels"`
}

// Options percorre todo o conjunto (não só o dia corrente) e devolve os
// valores distintos de cada dimensão.
func (d *Dataset) Options() FilterOptions {
	return FilterOptions{
		Unidades: d.distinct(func(r *model.Record) string { return r.Unidade }, d.Roles.Unit),
		Tipos:    d.distinct(func(r *model.Record) string { return r.Tipo }, d.Roles.Type),
		Rels:     d.distinct(func(r *model.Record) string { return r.Rel }, d.Roles.Rel),
	}
}

func (d *Dataset) distinct(get func(*model.Record) string, role string) []string {
	if role == "" {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for i := range d.Records {
		v := get(&d.Records[i])
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
