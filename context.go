package adminauth

import "context"

type clientAddressContextKey struct{}

// WithClientAddress attaches the caller's network address to ctx. The
// Authority uses it for per-address rate limiting and audit logging.
// An explicit ClientAddress on LoginInput takes precedence.
func WithClientAddress(ctx context.Context, addr string) context.Context {
	return context.WithValue(ctx, clientAddressContextKey{}, addr)
}

func clientAddressFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	addr, _ := ctx.Value(clientAddressContextKey{}).(string)
	return addr
}
