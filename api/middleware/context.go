package middleware

import "context"

type contextKey string

const ctxOperatorEmail contextKey = "operator_email"

func OperatorFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxOperatorEmail).(string); ok {
		return v
	}
	return ""
}

// WithOperator injects the operator email into the context for downstream handlers.
func WithOperator(ctx context.Context, email string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxOperatorEmail, email)
}
