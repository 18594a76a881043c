package catalog

import "strings"

// Slugify turns a display name into its deterministic URL identifier:
// lower-cased, alphanumerics kept, everything else collapsed to single
// hyphens. The same name always yields the same slug.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// VariantSKU derives the unique variant identifier from the family slug and
// the attribute tuple.
func VariantSKU(familySlug, model, controller, condition, memory string) string {
	parts := []string{familySlug}
	for _, p := range []string{model, controller, condition, memory} {
		if s := Slugify(p); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "-")
}
