package domain

import "strings"

// SanitizeFieldName converts a display field name ("Inlet Node Name") into
// the name used for field access ("Inlet_Node_Name").
func SanitizeFieldName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, " ", "_")
	return strings.ReplaceAll(name, "-", "_")
}

var sideQualifiers = strings.NewReplacer(
	"Condenser Side", "Cond_Supply",
	"Plant Side", "Supply",
	"Demand Side", "Demand",
)

// SimplifyFieldName derives the short label used when generating a loop's own
// field values: side qualifiers are shortened, the trailing "Name" is dropped,
// " Node" is removed and " List" becomes a plural.
//
//	"Plant Side Inlet Node Name"  -> "Supply Inlet"
//	"Plant Side Branch List Name" -> "Supply Branchs"
func SimplifyFieldName(field string) string {
	f := sideQualifiers.Replace(field)
	if i := strings.Index(f, "Name"); i > 0 {
		f = f[:i-1]
	}
	f = strings.ReplaceAll(f, " Node", "")
	return strings.ReplaceAll(f, " List", "s")
}
