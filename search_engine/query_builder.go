package search_engine

// Query is a built engine query body, ready for serialization.
type Query map[string]any

// FuzzinessAuto widens match tolerance with term length: short terms stay
// exact, longer terms absorb one or two edits.
const FuzzinessAuto = "AUTO"

// RangeBounds carries any subset of numeric/date bounds for a range filter.
// Nil members are omitted.
type RangeBounds struct {
	GTE any
	LTE any
	GT  any
	LT  any
}

// QueryBuilder accumulates relevance clauses, filters, highlighting and sort
// keys, and finalizes them into the engine's bool-query shape. It is pure
// data assembly and has no failure modes.
type QueryBuilder struct {
	must      []map[string]any
	filter    []map[string]any
	highlight map[string]any
	sort      []map[string]any
}

func NewQueryBuilder() *QueryBuilder {
	return &QueryBuilder{}
}

// AddMultiMatch appends a relevance clause scored across fields. Fields may
// carry "^boost" suffixes to weight them relative to each other.
func (b *QueryBuilder) AddMultiMatch(text string, fields []string, fuzziness string) *QueryBuilder {
	clause := map[string]any{
		"query":  text,
		"fields": fields,
	}
	if fuzziness != "" {
		clause["fuzziness"] = fuzziness
	}
	b.must = append(b.must, map[string]any{"multi_match": clause})
	return b
}

// AddFilter appends an exact-match constraint on a literal (keyword) field.
func (b *QueryBuilder) AddFilter(field string, value any) *QueryBuilder {
	b.filter = append(b.filter, map[string]any{
		"term": map[string]any{field: value},
	})
	return b
}

// AddMatchFilter appends an analyzed-text constraint, for fields that are
// tokenized rather than kept literal.
func (b *QueryBuilder) AddMatchFilter(field, text string) *QueryBuilder {
	b.filter = append(b.filter, map[string]any{
		"match": map[string]any{field: text},
	})
	return b
}

// AddRangeFilter appends a numeric/date bound from any subset of the four
// comparators.
func (b *QueryBuilder) AddRangeFilter(field string, bounds RangeBounds) *QueryBuilder {
	r := map[string]any{}
	if bounds.GTE != nil {
		r["gte"] = bounds.GTE
	}
	if bounds.LTE != nil {
		r["lte"] = bounds.LTE
	}
	if bounds.GT != nil {
		r["gt"] = bounds.GT
	}
	if bounds.LT != nil {
		r["lt"] = bounds.LT
	}
	if len(r) == 0 {
		return b
	}
	b.filter = append(b.filter, map[string]any{
		"range": map[string]any{field: r},
	})
	return b
}

// AddHighlight requests excerpted snippets with <mark> tags around matches.
func (b *QueryBuilder) AddHighlight(fields []string, fragmentSize, fragmentCount int) *QueryBuilder {
	highlightFields := map[string]any{}
	for _, f := range fields {
		highlightFields[f] = map[string]any{}
	}
	b.highlight = map[string]any{
		"pre_tags":            []string{"<mark>"},
		"post_tags":           []string{"</mark>"},
		"fields":              highlightFields,
		"fragment_size":       fragmentSize,
		"number_of_fragments": fragmentCount,
	}
	return b
}

// AddSort appends a sort key; order is "asc" or "desc".
func (b *QueryBuilder) AddSort(field, order string) *QueryBuilder {
	b.sort = append(b.sort, map[string]any{
		field: map[string]any{"order": order},
	})
	return b
}

// Build finalizes the query. Without a relevance clause a match-everything
// clause is substituted so filter-only queries still match; an empty filter
// list is omitted entirely rather than sent as a vacuous constraint.
func (b *QueryBuilder) Build() Query {
	must := b.must
	if len(must) == 0 {
		must = []map[string]any{{"match_all": map[string]any{}}}
	}

	boolQuery := map[string]any{"must": must}
	if len(b.filter) > 0 {
		boolQuery["filter"] = b.filter
	}

	q := Query{
		"query": map[string]any{"bool": boolQuery},
	}
	if b.highlight != nil {
		q["highlight"] = b.highlight
	}
	if len(b.sort) > 0 {
		q["sort"] = b.sort
	}
	return q
}
