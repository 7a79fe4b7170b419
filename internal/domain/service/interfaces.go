package service

import "context"

// TextCompleter turns a prompt into generated text. Implementations handle
// their own retry policy; a returned error is final.
type TextCompleter interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
