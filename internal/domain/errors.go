package domain

import (
	"fmt"
	"strings"
)

// NotFoundError reports a missing resource: the source CSV at load time, or
// a node name that matched nothing at diagnosis time. It is always surfaced
// to the caller, never retried internally.
type NotFoundError struct {
	// What names the missing thing, e.g. `source CSV "data/raw/x.csv"` or
	// `node "FOO 400"`.
	What string
	// Hint, when non-empty, tells the caller how to recover, e.g. pointing
	// at the fetch step.
	Hint string
}

func (e *NotFoundError) Error() string {
	if e.Hint == "" {
		return fmt.Sprintf("%s not found", e.What)
	}
	return fmt.Sprintf("%s not found: %s", e.What, e.Hint)
}

// AmbiguousMatchError reports a node-name query that resolved to several
// candidates. The caller must re-query with a more specific name; the
// diagnostic builder never guesses.
type AmbiguousMatchError struct {
	Query      string
	Candidates []string
}

func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("query %q matches %d nodes: %s",
		e.Query, len(e.Candidates), strings.Join(e.Candidates, ", "))
}
