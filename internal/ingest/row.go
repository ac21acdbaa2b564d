package ingest

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"jobmatch-engine/internal/textutil"
)

// Row is one line of a portal export. Keys follow the scrapers' Spanish
// naming.
type Row struct {
	Title           string     `json:"titulo"`
	Company         string     `json:"empresa"`
	Location        string     `json:"ubicacion"`
	URL             string     `json:"url"`
	SourceJobID     flexString `json:"id_oferta"`
	Hash            string     `json:"hash"`
	PublishedDate   string     `json:"fecha_publicacion"`
	Description     string     `json:"descripcion"`
	Modality        string     `json:"modalidad_trabajo"`
	ContractType    string     `json:"tipo_contrato"`
	Workday         string     `json:"jornada"`
	Salary          string     `json:"salario"`
	Accessibility   flexBool   `json:"accesibilidad_mencionada"`
	Transport       flexBool   `json:"transporte_mencionado"`
	Disability      flexBool   `json:"apto_discapacidad"`
	MultipleVacancy flexBool   `json:"multiple_vacantes"`
	Industry        string     `json:"industria"`
	Area            string     `json:"area"`
	Subarea         string     `json:"subarea"`
	MinExperience   string     `json:"experiencia_min"`
	MinEducation    string     `json:"educacion_min"`
	CompanyVerified flexBool   `json:"empresa_verificada"`
	CompanyRating   flexFloat  `json:"rating_empresa"`
	AccessTags      flexList   `json:"tags_accesibilidad"`
	TransportTags   flexList   `json:"tags_transporte"`
	Benefits        flexList   `json:"beneficios"`
}

// flexBool accepts true/false, 0/1 and the usual yes/no strings.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*b = false
		return nil
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case bool:
		*b = flexBool(x)
	case float64:
		*b = x != 0
	case string:
		switch textutil.Fold(x) {
		case "true", "1", "si", "yes", "s", "y":
			*b = true
		default:
			*b = false
		}
	default:
		*b = false
	}
	return nil
}

// flexFloat is a number that may arrive quoted, possibly with a decimal comma.
// Unparseable input leaves it unset.
type flexFloat struct {
	Value float64
	Valid bool
}

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		*f = flexFloat{}
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		*f = flexFloat{}
		return nil
	}
	*f = flexFloat{Value: v, Valid: true}
	return nil
}

// flexString takes ids that some exports write as numbers.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	*s = flexString(data)
	return nil
}

// flexList takes "kw1;kw2" strings as well as JSON arrays of strings or
// numbers. Blank entries are dropped.
type flexList []string

func (l *flexList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	var out []string
	switch {
	case bytes.Equal(data, []byte("null")):
	case len(data) > 0 && data[0] == '[':
		var items []flexString
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		for _, it := range items {
			out = append(out, string(it))
		}
	default:
		var v flexString
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		out = strings.Split(string(v), ";")
	}

	*l = (*l)[:0]
	for _, s := range out {
		if s = textutil.CleanText(s); s != "" {
			*l = append(*l, s)
		}
	}
	return nil
}
