package query

type synonym struct {
	canonical string
	phrases   []string
}

var modalitySynonyms = []synonym{
	{"Remoto", []string{"remoto", "teletrabajo", "desde casa", "remote", "home office"}},
	{"Híbrido", []string{"hibrido", "mixto", "hybrid"}},
	{"Presencial", []string{"presencial", "en oficina", "on site"}},
}

var senioritySynonyms = []synonym{
	{"Junior", []string{"jr", "junior", "entry", "trainee"}},
	{"Semi", []string{"semi", "ssr", "semi-senior", "semisenior"}},
	{"Senior", []string{"sr", "senior", "experto"}},
}

var areaSynonyms = []synonym{
	{"Datos", []string{"datos", "data", "analítica", "analytics"}},
	{"Desarrollo", []string{"desarrollo", "dev", "programación", "software"}},
	{"Infraestructura", []string{"infraestructura", "devops", "ops"}},
	{"Calidad", []string{"qa", "calidad", "testing"}},
	{"Soporte", []string{"soporte", "helpdesk", "mesa de ayuda"}},
	{"Diseño", []string{"ux", "ui", "diseño", "ux/ui"}},
	{"Docencia", []string{"docencia", "profesor", "enseñanza"}},
}

var roleSynonyms = []synonym{
	{"Data Analyst", []string{"analista de datos", "data analyst", "analista datos"}},
	{"Data Engineer", []string{"data engineer", "ingeniero de datos"}},
	{"Backend Developer", []string{"backend developer", "desarrollador backend"}},
	{"Full Stack Dev", []string{"full stack", "fullstack", "desarrollador full stack"}},
	{"QA Analyst", []string{"analista qa", "tester"}},
	{"DevOps Engineer", []string{"devops", "devops engineer"}},
	{"UX/UI Designer", []string{"ux/ui", "ux ui", "diseñador ux", "diseñador ui", "ux designer", "ui designer"}},
}

// Accessibility and transport only ever produce a true include.
var (
	accessibilityPhrases = []string{"accesible", "accesibilidad", "inclusivo", "inclusiva", "inclusion laboral", "discapacidad"}
	transportPhrases     = []string{"transporte", "movilizacion", "locomocion", "bus de acercamiento"}
)

var (
	negators     = map[string]bool{"no": true, "sin": true, "ni": true}
	conjunctions = map[string]bool{"y": true, "e": true, "o": true, "u": true, "pero": true}
)

var (
	usdMarkers = []string{"usd", "dolar", "dolares"}
	clpMarkers = []string{"clp", "peso", "pesos"}
)
