// Package confirm carries the "are you sure?" step of destructive actions.
package confirm

import "context"

type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// Func adapts a plain function to Confirmer.
type Func func(ctx context.Context, prompt string) bool

func (f Func) Confirm(ctx context.Context, prompt string) bool {
	return f(ctx, prompt)
}

// Answer is a confirmation given up front, e.g. a ?confirm=true flag.
type Answer bool

func (a Answer) Confirm(context.Context, string) bool {
	return bool(a)
}
