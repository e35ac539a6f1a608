package vocabulary

// NarrativeHeader is the output column that carries the incident narrative.
const NarrativeHeader = "relato"

// NarrativeAliases are the input headers probed, in order, for the narrative.
var NarrativeAliases = []string{"relato", "RELATO", "RELATO ORIGINAL"}

// ClassificationKeys are the display keys filled by the classifier, in output order.
var ClassificationKeys = []string{
	"JURISDICCIÓN",
	"CALIFICACIÓN",
	"MODALIDAD",
	"VICTIMA/S",
	"IMPUTADOS",
	"MENOR/MAYOR",
	"ARMAS",
	"LUGAR",
	"TENTATIVA",
	"OBSERVACIÓN",
	"FRECUENCIA",
}

// OutputHeaders is the fixed column sequence of the output sheet.
var OutputHeaders = []string{
	"id_hecho", "nro_registro", "ipp", "fecha_carga", "hora_carga", "dependencia",
	"fecha_inicio_hecho", "hora_inicio_hecho", "partido_hecho", "localidad_hecho",
	"latitud", "calle", "longitud", "altura", "entre", "calificaciones", NarrativeHeader,
	"JURISDICCIÓN", "CALIFICACIÓN", "MODALIDAD", "VICTIMA/S", "NO", "IMPUTADOS",
	"MENOR/MAYOR", "ARMAS", "LUGAR", "TENTATIVA", "OBSERVACIÓN", "FRECUENCIA",
}

// FieldMap translates output display keys into internal vocabulary keys.
type FieldMap struct {
	toInternal map[string]string
}

// NewFieldMap builds the map from display → internal pairs.
func NewFieldMap(pairs map[string]string) FieldMap {
	fm := FieldMap{toInternal: make(map[string]string, len(pairs))}
	for display, internal := range pairs {
		fm.toInternal[display] = internal
	}
	return fm
}

// InternalKeyFor maps a display key; unmapped keys pass through unchanged.
func (fm FieldMap) InternalKeyFor(displayKey string) string {
	if k, ok := fm.toInternal[displayKey]; ok {
		return k
	}
	return displayKey
}

var defaultFieldMap = NewFieldMap(map[string]string{
	"JURISDICCIÓN": KeyJurisdiccion,
	"CALIFICACIÓN": KeyCalificacion,
	"MODALIDAD":    KeyModalidad,
	"VICTIMA/S":    KeyVictima,
	"IMPUTADOS":    KeyImputado,
	"MENOR/MAYOR":  KeyMayorMenor,
	"ARMAS":        KeyArma,
	"LUGAR":        KeyLugar,
	"TENTATIVA":    KeyTentativa,
	"OBSERVACIÓN":  KeyObservacion,
	"FRECUENCIA":   KeyFrecuencia,
})

// DefaultFieldMap returns the display/internal mapping used by the output sheet.
func DefaultFieldMap() FieldMap {
	return defaultFieldMap
}

// NarrativeKeywords detect additional narrative columns by accent and case
// insensitive substring match on the header text.
var NarrativeKeywords = []string{"relato"}
