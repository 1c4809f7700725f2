package repos

import "strings"

// predicate accumulates WHERE fragments and their args for hand-built
// filtered queries.
type predicate struct {
	clauses []string
	args    []any
}

func (p *predicate) add(clause string, args ...any) {
	p.clauses = append(p.clauses, clause)
	p.args = append(p.args, args...)
}

func (p *predicate) where() string {
	if len(p.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(p.clauses, " AND ")
}
