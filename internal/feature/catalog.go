package feature

import "fmt"

// TypeMeta is one static catalog entry of the machining feature taxonomy.
type TypeMeta struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	Group       string `json:"group"`
	TimeBearing bool   `json:"time_bearing"`
	Description string `json:"description"`
	Example     string `json:"example"`
}

// UnknownTypeError reports a feature type the catalog does not know. Unknown
// types are rejected, never coerced into an "other" bucket, so no machining
// time is lost silently.
type UnknownTypeError struct {
	Key string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown feature type %q", e.Key)
}

// Group names used for presentation. Informational entries never contribute
// machining time but stay on the record for documentation.
const (
	GroupDrilling  = "Taladrado"
	GroupMilling   = "Fresado"
	GroupTurning   = "Torneado"
	GroupThreading = "Roscado"
	GroupFinishing = "Acabado"
	GroupInfo      = "Informativo"
)

var defaultTypes = []TypeMeta{
	{Key: "drilled_hole", Label: "Agujero taladrado", Group: GroupDrilling, TimeBearing: true,
		Description: "Agujero pasante o ciego hecho con broca", Example: "4x Ø8.5 pasante"},
	{Key: "reamed_hole", Label: "Agujero rimado", Group: GroupDrilling, TimeBearing: true,
		Description: "Agujero con tolerancia ajustada terminado con rima", Example: "2x Ø10 H7"},
	{Key: "tapped_hole", Label: "Agujero roscado", Group: GroupThreading, TimeBearing: true,
		Description: "Agujero con rosca interior hecha con machuelo", Example: "6x M6x1.0"},
	{Key: "counterbore", Label: "Caja para tornillo", Group: GroupDrilling, TimeBearing: true,
		Description: "Alojamiento cilíndrico para cabeza de tornillo", Example: "Ø11 x 6.5 prof."},
	{Key: "countersink", Label: "Avellanado", Group: GroupDrilling, TimeBearing: true,
		Description: "Chaflán cónico para tornillo de cabeza plana", Example: "Ø10 x 90°"},
	{Key: "pocket", Label: "Bolsillo fresado", Group: GroupMilling, TimeBearing: true,
		Description: "Cavidad cerrada vaciada con fresa", Example: "40x25x12 prof."},
	{Key: "slot", Label: "Ranura", Group: GroupMilling, TimeBearing: true,
		Description: "Canal recto abierto o cerrado", Example: "8 ancho x 30 largo"},
	{Key: "face_mill", Label: "Careado", Group: GroupMilling, TimeBearing: true,
		Description: "Planeado de una cara completa", Example: "cara superior 120x80"},
	{Key: "contour", Label: "Contorneado", Group: GroupMilling, TimeBearing: true,
		Description: "Perfil exterior recorrido con fresa", Example: "perímetro completo"},
	{Key: "chamfer", Label: "Chaflán", Group: GroupFinishing, TimeBearing: true,
		Description: "Rotura de arista a 45°", Example: "0.5x45° todas las aristas"},
	{Key: "fillet", Label: "Radio", Group: GroupFinishing, TimeBearing: true,
		Description: "Redondeo interior o exterior", Example: "R3 en esquinas"},
	{Key: "external_thread", Label: "Rosca exterior", Group: GroupThreading, TimeBearing: true,
		Description: "Rosca tallada sobre diámetro exterior", Example: "M12x1.75 x 20"},
	{Key: "turned_diameter", Label: "Diámetro torneado", Group: GroupTurning, TimeBearing: true,
		Description: "Cilindrado exterior en torno", Example: "Ø25 h8 x 60"},
	{Key: "groove", Label: "Canal torneado", Group: GroupTurning, TimeBearing: true,
		Description: "Ranura radial para anillo o salida de rosca", Example: "2.1 ancho DIN 471"},
	{Key: "bore", Label: "Mandrinado", Group: GroupTurning, TimeBearing: true,
		Description: "Interior cilindrado a medida", Example: "Ø20 H7 x 35"},
	{Key: "engraving", Label: "Grabado", Group: GroupFinishing, TimeBearing: true,
		Description: "Texto o marca grabada", Example: "número de parte 5 mm"},
	{Key: "deburr", Label: "Desbarbado", Group: GroupFinishing, TimeBearing: true,
		Description: "Eliminación manual de rebabas", Example: "todas las aristas"},
	{Key: "surface_finish", Label: "Acabado superficial", Group: GroupInfo, TimeBearing: false,
		Description: "Requisito de rugosidad; ya cubierto por las pasadas de acabado", Example: "Ra 1.6"},
	{Key: "tolerance_note", Label: "Nota de tolerancia", Group: GroupInfo, TimeBearing: false,
		Description: "Tolerancia general o geométrica del plano", Example: "ISO 2768-mK"},
	{Key: "datum_reference", Label: "Referencia datum", Group: GroupInfo, TimeBearing: false,
		Description: "Datum de referencia para medición", Example: "datum A cara inferior"},
	{Key: "general_note", Label: "Nota general", Group: GroupInfo, TimeBearing: false,
		Description: "Observación del plano sin tiempo propio", Example: "material según lista"},
}

// Catalog is the immutable feature taxonomy, keyed by type.
type Catalog struct {
	types []TypeMeta
	index map[string]int
}

// DefaultCatalog builds the compiled-in taxonomy.
func DefaultCatalog() Catalog {
	index := make(map[string]int, len(defaultTypes))
	for i, tm := range defaultTypes {
		index[tm.Key] = i
	}
	return Catalog{types: defaultTypes, index: index}
}

// Lookup returns the metadata for key or an *UnknownTypeError.
func (c Catalog) Lookup(key string) (TypeMeta, error) {
	i, ok := c.index[key]
	if !ok {
		return TypeMeta{}, &UnknownTypeError{Key: key}
	}
	return c.types[i], nil
}

// TypeGroup pairs a group name with its catalog entries, in catalog order.
type TypeGroup struct {
	Name  string     `json:"name"`
	Types []TypeMeta `json:"types"`
}

// Groups returns the taxonomy grouped for presentation.
func (c Catalog) Groups() []TypeGroup {
	order := []string{GroupDrilling, GroupMilling, GroupTurning, GroupThreading, GroupFinishing, GroupInfo}
	byName := make(map[string][]TypeMeta)
	for _, tm := range c.types {
		byName[tm.Group] = append(byName[tm.Group], tm)
	}

	groups := make([]TypeGroup, 0, len(order))
	for _, name := range order {
		if types, ok := byName[name]; ok {
			groups = append(groups, TypeGroup{Name: name, Types: types})
		}
	}
	return groups
}

// Len reports the number of catalog entries.
func (c Catalog) Len() int {
	return len(c.types)
}
