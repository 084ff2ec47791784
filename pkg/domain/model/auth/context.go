package auth

import "context"

type ctxTokenKey struct{}

// ContextWithToken embeds the session token into the request context
func ContextWithToken(ctx context.Context, token *Token) context.Context {
	return context.WithValue(ctx, ctxTokenKey{}, token)
}

// TokenFromContext retrieves the session token from the context. Returns
// nil when the request is unauthenticated.
func TokenFromContext(ctx context.Context) *Token {
	token, ok := ctx.Value(ctxTokenKey{}).(*Token)
	if !ok {
		return nil
	}
	return token
}
