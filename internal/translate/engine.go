package translate

import "context"

// Engine translates a single text fragment between the configured language
// pair.
type Engine interface {
	Translate(ctx context.Context, text string) (string, error)
}
