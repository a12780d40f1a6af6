package budget

// Canonical keys for the five spending categories tracked per fiscal period.
const (
	CategoryPersonnel = "personnel"
	CategoryMaterial  = "material"
	CategoryActivity  = "activity"
	CategoryStipend   = "stipend"
	CategoryIndirect  = "indirect"
)

// CategoryLabels maps canonical keys to the display names used on generated
// records and reports.
var CategoryLabels = map[string]string{
	CategoryPersonnel: "인건비",
	CategoryMaterial:  "재료비",
	CategoryActivity:  "연구활동비",
	CategoryStipend:   "연구수당",
	CategoryIndirect:  "간접비",
}

var labelKeys = func() map[string]string {
	m := make(map[string]string, len(CategoryLabels))
	for k, label := range CategoryLabels {
		m[label] = k
	}
	return m
}()

// NormalizeCategory resolves a request-supplied category name, which may be
// either a canonical key or a display label, to its canonical key.
func NormalizeCategory(name string) (string, bool) {
	if _, ok := CategoryLabels[name]; ok {
		return name, true
	}
	if key, ok := labelKeys[name]; ok {
		return key, true
	}
	return "", false
}
