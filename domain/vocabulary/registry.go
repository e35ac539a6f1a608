// Package vocabulary holds the closed value sets the classifier may emit and the
// defaults substituted whenever a value is missing or rejected.
package vocabulary

// Internal field names used by the classification capability.
const (
	KeyJurisdiccion = "JURISDICCION"
	KeyCalificacion = "CALIFICACION LEGAL"
	KeyModalidad    = "MODALIDAD"
	KeyArma         = "ARMA"
	KeyLesionada    = "LESIONADA"
	KeyVictima      = "VICTIMA"
	KeyImputado     = "IMPUTADO"
	KeyMayorMenor   = "MAYOR O MENOR"
	KeyLugar        = "LUGAR"
	KeyTentativa    = "TENTATIVA"
	KeyObservacion  = "OBSERVACION"
	KeyFrecuencia   = "FRECUENCIA"
)

// Sentinel values shared by several fields.
const (
	NoEspecificado   = "NO ESPECIFICADO"
	NingunoDeInteres = "NINGUNO DE INTERÉS"
	Si               = "SI"
	No               = "NO"
)

// Registry is the immutable vocabulary: admissible values per internal key and the
// default record per display key. Safe for concurrent use once built.
type Registry struct {
	order      []string
	admissible map[string][]string
	members    map[string]map[string]struct{}
	defaults   map[string]string
}

// Field pairs an internal key with its ordered admissible values.
type Field struct {
	Key    string
	Values []string
}

// NewRegistry builds a registry from ordered fields and a default record keyed by
// display key. Inputs are copied.
func NewRegistry(fields []Field, defaults map[string]string) *Registry {
	r := &Registry{
		order:      make([]string, 0, len(fields)),
		admissible: make(map[string][]string, len(fields)),
		members:    make(map[string]map[string]struct{}, len(fields)),
		defaults:   make(map[string]string, len(defaults)),
	}
	for _, f := range fields {
		values := append([]string(nil), f.Values...)
		set := make(map[string]struct{}, len(values))
		for _, v := range values {
			set[v] = struct{}{}
		}
		if _, seen := r.admissible[f.Key]; !seen {
			r.order = append(r.order, f.Key)
		}
		r.admissible[f.Key] = values
		r.members[f.Key] = set
	}
	for k, v := range defaults {
		r.defaults[k] = v
	}
	return r
}

// AdmissibleValues returns a copy of the ordered admissible values for an internal
// key. An empty result means the key is unconstrained or unknown.
func (r *Registry) AdmissibleValues(internalKey string) []string {
	return append([]string(nil), r.admissible[internalKey]...)
}

// IsAdmissible reports exact membership; no case or accent folding is applied.
func (r *Registry) IsAdmissible(internalKey, value string) bool {
	_, ok := r.members[internalKey][value]
	return ok
}

// DefaultFor returns the default for a display key, or "" when none is defined.
func (r *Registry) DefaultFor(displayKey string) string {
	return r.defaults[displayKey]
}

// Fields returns internal keys in registration order.
func (r *Registry) Fields() []string {
	return append([]string(nil), r.order...)
}

// Snapshot copies every admissible list keyed by internal key.
func (r *Registry) Snapshot() map[string][]string {
	out := make(map[string][]string, len(r.admissible))
	for k, v := range r.admissible {
		out[k] = append([]string(nil), v...)
	}
	return out
}

var defaultRegistry = NewRegistry(defaultFields(), defaultRecord())

// Default returns the process-wide registry.
func Default() *Registry {
	return defaultRegistry
}

func defaultFields() []Field {
	return []Field{
		{Key: KeyCalificacion, Values: []string{
			"ROBO", "HURTO", "LESIONES", "HOMICIDIO", "USURPACION", "ABUSO SEXUAL", "LEY 23737",
			"ABIGEATO", "ESTAFAS", "ABUSO DE ARMAS", "TENENCIA DE ARMAS", "PORTACION DE ARMAS",
			"ENCUBRIMIENTO", NingunoDeInteres, "OTROS",
		}},
		{Key: KeyModalidad, Values: []string{
			"ASALTO", "MOTOCHORRO", "ENTRADERA", "VIOLENCIA DE GÉNERO", "HOMICIDIO SIMPLE", "FEMICIDIO",
			"INTRAFAMILIAR", "EN RIÑA", "EN OCASIÓN DE ROBO", "AJUSTE DE CUENTAS", "ENFRENTAMIENTO ARMADO",
			"SUSTRACCION AUTOMOTOR", "SUSTRACCION MOTOVEHICULO", "ABUSO SEXUAL SIMPLE",
			"ABUSO SEXUAL CON ACCESO CARNAL", "TENENCIA", "CONSUMO", "COMERCIALIZACION", "SIEMBRA",
			"ABIGEATO", "ESTAFA MARKETPLACE", "ESTAFA WHATSAPP", "ESTAFA CUENTO DEL TIO", "ESTAFA OTROS",
			"ABUSO DE ARMAS", "TENENCIA DE ARMAS", "PORTACION DE ARMAS", "ENCUBRIMIENTO", NoEspecificado,
		}},
		{Key: KeyArma, Values: []string{"FUEGO", "BLANCA", "IMPROPIA", NoEspecificado}},
		{Key: KeyLesionada, Values: []string{Si, No}},
		{Key: KeyVictima, Values: []string{"MASCULINO", "FEMENINO", "AMBOS", NoEspecificado}},
		{Key: KeyImputado, Values: []string{"MASCULINO", "FEMENINO", "AMBOS", NoEspecificado}},
		{Key: KeyMayorMenor, Values: []string{"MAYOR", "MENOR", "AMBOS", NoEspecificado}},
		{Key: KeyJurisdiccion, Values: []string{
			"JOSÉ C. PAZ", "SAN MIGUEL", "MALVINAS ARGENTINAS", "PILAR", "TRES DE FEBRERO", "MORENO",
			"RODRIGUEZ", "GENERAL PAZ", "NAVARRO", "MERCEDES", "SUIPACHA", "LUJAN", "GENERAL LAS HERAS",
			"MARCOS PAZ", "GENERAL RODRÍGUEZ", "EXALTACIÓN DE LA CRUZ", "CAMPANA", "ZÁRATE", "ESCOBAR",
			"TIGRE", "SAN FERNANDO", "VICENTE LÓPEZ", "SAN ISIDRO", "SAN MARTIN", "HURLINGHAM",
			"ITUZAINGÓ", "MERLO", "MORÓN", "LA MATANZA", "EZEIZA", "ESTEBAN ECHEVERRÍA", "LANÚS",
			"LOMAS DE ZAMORA", "AVELLANEDA", "QUILMES", "BERAZATEGUI", "FLORENCIO VARELA", "LA PLATA",
			"ENSENADA", "BERISSO", "BRANDSEN", "PRESIDENTE PERÓN", "SAN VICENTE", "CAÑUELAS",
			"GENERAL ALVEAR", "OLAVARRÍA", "AZUL", "TANDIL", "GENERAL PUEYRREDÓN", "MIRAMAR", "NECOCHEA",
			"BALCARCE", "OTRO", NoEspecificado,
		}},
		{Key: KeyLugar, Values: []string{
			"FINCA", "VÍA PÚBLICA", "COMERCIO", "ESTABLECIMIENTO EDUCATIVO", "TRANSPORTE PÚBLICO", "BANCO",
			"HOSPITAL", "OTRO", NoEspecificado,
		}},
		{Key: KeyTentativa, Values: []string{Si, No}},
		{Key: KeyObservacion, Values: []string{NoEspecificado}},
		{Key: KeyFrecuencia, Values: []string{"DIARIA", "SEMANAL", "MENSUAL", "OCASIONAL", NoEspecificado}},
	}
}

func defaultRecord() map[string]string {
	rec := make(map[string]string, len(OutputHeaders)+1)
	for _, h := range OutputHeaders {
		rec[h] = ""
	}
	rec["JURISDICCIÓN"] = NoEspecificado
	rec["CALIFICACIÓN"] = NingunoDeInteres
	rec["MODALIDAD"] = NoEspecificado
	rec["ARMAS"] = NoEspecificado
	rec[KeyLesionada] = No
	rec["VICTIMA/S"] = NoEspecificado
	rec["IMPUTADOS"] = NoEspecificado
	rec["MENOR/MAYOR"] = NoEspecificado
	rec["LUGAR"] = NoEspecificado
	rec["TENTATIVA"] = No
	rec["OBSERVACIÓN"] = NoEspecificado
	rec["FRECUENCIA"] = NoEspecificado
	return rec
}
