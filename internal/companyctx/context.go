package companyctx

import "context"

type companyIDKey struct{}

// WithCompanyID annotates the context with the acting company.
func WithCompanyID(ctx context.Context, companyID int64) context.Context {
	return context.WithValue(ctx, companyIDKey{}, companyID)
}

// CompanyIDFromContext returns the acting company id, if present.
func CompanyIDFromContext(ctx context.Context) (int64, bool) {
	companyID, ok := ctx.Value(companyIDKey{}).(int64)
	return companyID, ok
}
