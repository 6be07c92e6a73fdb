package llm

import "context"

// FuncClient adapts a function to the Client interface.
type FuncClient struct {
	ModelName string
	Fn        func(ctx context.Context, prompt string) (string, error)
}

// Generate calls Fn.
func (f *FuncClient) Generate(ctx context.Context, prompt string) (string, error) {
	return f.Fn(ctx, prompt)
}

// Model returns ModelName.
func (f *FuncClient) Model() string {
	return f.ModelName
}

// Close does nothing.
func (f *FuncClient) Close() error {
	return nil
}
