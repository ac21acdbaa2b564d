package bne

import (
	"strings"

	"jobmatch-engine/internal/filter"
	"jobmatch-engine/internal/query"
	"jobmatch-engine/internal/textutil"
)

// Classification is what the classifier reads out of an offering's text.
type Classification struct {
	Industry string
	Subarea  string
	Modality string
}

// Classifier assigns industry and subarea to offerings, which the API does
// not categorize in the catalog's terms. The prompt parser runs first; the
// keyword tables fill whatever it leaves empty.
type Classifier struct {
	Parser *query.Parser
}

func NewClassifier(t query.Taxonomy) Classifier {
	return Classifier{Parser: query.NewParser(t)}
}

type keywordRule struct {
	label    string
	keywords []string
}

// Order matters: the first industry with a hit wins.
var industryRules = []keywordRule{
	{"Gastronomía", []string{"cocina", "chef", "restaurante", "gastronomia", "alimentos", "comida", "manipulador", "manipuladora", "ayudante de cocina", "cocinero", "cocinera", "pastelero", "pastelera"}},
	{"Salud", []string{"salud", "medico", "hospital", "clinica", "enfermeria", "enfermero", "enfermera", "paramedico"}},
	{"Construcción", []string{"construccion", "obra", "arquitectura", "edificacion", "maestro", "obrero", "albanil"}},
	{"Transporte", []string{"transporte", "logistica", "conductor", "chofer", "vehiculos", "repartidor", "delivery"}},
	{"Turismo", []string{"turismo", "hotel", "hoteleria", "recepcion", "viajes", "guia", "tour"}},
	{"Finanzas", []string{"finanzas", "financiero", "contabilidad", "contador", "auditoria", "banco", "bancario"}},
	{"Recursos Humanos", []string{"recursos humanos", "rrhh", "reclutamiento", "seleccion", "talento humano"}},
	{"Tecnología", []string{"tecnologia", "tech", "informatica", "software", "sistemas", "programador", "desarrollador", "developer", "ingeniero de sistemas"}},
	{"Educación", []string{"educacion", "docente", "profesor", "profesora", "maestra", "ensenanza", "pedagogia"}},
	{"Diseño", []string{"diseno", "disenador", "ux", "ui", "grafico", "designer"}},
	{"Ventas", []string{"ventas", "vendedor", "vendedora", "comercial", "retail", "tienda", "atencion al cliente"}},
	{"Operario", []string{"operario", "operadora", "operador", "produccion", "manufactura", "fabrica", "ensamblador"}},
	{"Servicios Generales", []string{"servicios", "mantenimiento", "limpieza", "aseo", "seguridad", "vigilante", "portero", "porteria"}},
}

type subareaRules struct {
	rules    []keywordRule
	fallback string
}

var subareasByIndustry = map[string]subareaRules{
	"Gastronomía": {
		rules: []keywordRule{
			{"Cocina", []string{"chef", "cocinero", "cocinera"}},
			{"Repostería", []string{"pastelero", "pastelera", "reposteria"}},
			{"Servicio", []string{"bar", "bartender", "mesero", "mesera"}},
		},
		fallback: "Ayudante de Cocina",
	},
	"Tecnología": {
		rules: []keywordRule{
			{"Desarrollo", []string{"desarrollador", "developer", "programador"}},
			{"Infraestructura", []string{"sistemas", "infraestructura", "devops"}},
			{"Diseño", []string{"diseno", "ux", "ui"}},
		},
		fallback: "Sistemas",
	},
	"Salud": {
		rules: []keywordRule{
			{"Enfermería", []string{"enfermeria", "enfermero", "enfermera"}},
			{"Medicina", []string{"medico", "doctor"}},
		},
		fallback: "Atención de Salud",
	},
	"Operario": {
		rules: []keywordRule{
			{"Producción", []string{"produccion"}},
			{"Ensamblaje", []string{"ensamblaje", "ensamblador"}},
		},
		fallback: "Operaciones",
	},
}

// Classify reads title, description and the occupational category.
func (c Classifier) Classify(title, description, category string) Classification {
	raw := strings.TrimSpace(title + " " + description + " " + category)
	if raw == "" {
		return Classification{}
	}
	words := strings.Join(textutil.Words(raw), " ")

	var out Classification
	if c.Parser != nil {
		parsed := c.Parser.Parse(raw)
		out.Industry = first(parsed.Include, filter.Industry)
		out.Subarea = first(parsed.Include, filter.Area)
		out.Modality = first(parsed.Include, filter.Modality)
	}

	if out.Industry == "" {
		out.Industry = match(industryRules, words)
	}
	if out.Subarea == "" {
		if sr, ok := subareasByIndustry[out.Industry]; ok {
			out.Subarea = match(sr.rules, words)
			if out.Subarea == "" {
				out.Subarea = sr.fallback
			}
		}
	}
	return out
}

func match(rules []keywordRule, words string) string {
	for _, r := range rules {
		for _, k := range r.keywords {
			if textutil.ContainsPhrase(words, k) {
				return r.label
			}
		}
	}
	return ""
}

func first(s filter.Set, a filter.Attribute) string {
	for _, v := range s.Values(a) {
		if str, ok := v.Str(); ok {
			return str
		}
	}
	return ""
}
