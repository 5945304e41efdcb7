package shopping

import "strings"

const keySeparator = "|"

// Normalize canonicalises an ingredient name for comparison: lower-cased,
// trimmed, with internal whitespace collapsed to single spaces. It is total;
// symbol-only input comes back lower-cased unchanged.
func Normalize(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// AggregationKey derives the key two ingredient lines must share before their
// quantities may be summed. Unit is part of the key so "2 cups flour" and
// "200 g flour" stay distinct rather than being summed across units.
func AggregationKey(name, unit string) string {
	return Normalize(name) + keySeparator + Normalize(unit)
}
