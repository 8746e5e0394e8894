package recordbook

import "context"

// Interpreter turns command text into a module and entities.
// Implementations must be safe for concurrent use.
type Interpreter interface {
	Classify(ctx context.Context, text string) (Classification, error)
}

// InterpreterFunc adapts a function to the Interpreter interface.
type InterpreterFunc func(ctx context.Context, text string) (Classification, error)

// Classify calls f.
func (f InterpreterFunc) Classify(ctx context.Context, text string) (Classification, error) {
	return f(ctx, text)
}
