package tenancy

import "context"

type ctxKey string

const businessKey ctxKey = "autowhapp.business_id"

// WithBusinessID stores the business id in context.
func WithBusinessID(ctx context.Context, businessID int64) context.Context {
	return context.WithValue(ctx, businessKey, businessID)
}

// BusinessIDFromContext extracts the business id if present.
func BusinessIDFromContext(ctx context.Context) (int64, bool) {
	val := ctx.Value(businessKey)
	if val == nil {
		return 0, false
	}
	businessID, ok := val.(int64)
	return businessID, ok && businessID > 0
}
