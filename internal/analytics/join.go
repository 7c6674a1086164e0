package analytics

// InferJoin finds the first column present in both schemas with the same key
// and the same raw type. Primary columns are scanned in declaration order, and
// for each one the secondary columns in declaration order, so the result is
// stable for identical inputs. It reports false when no pair matches.
func InferJoin(primary, secondary TableSchema) (string, bool) {
	for _, p := range primary.Columns {
		for _, s := range secondary.Columns {
			if p.Key == s.Key && p.Type == s.Type {
				return p.Key, true
			}
		}
	}
	return "", false
}
