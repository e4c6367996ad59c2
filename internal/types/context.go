package types

import "context"

type ContextKey string

const (
	CtxRequestID ContextKey = "ctx_request_id"
	CtxTenantID  ContextKey = "ctx_tenant_id"
	CtxUserID    ContextKey = "ctx_user_id"
	CtxUserRole  ContextKey = "ctx_user_role"
)

// DefaultUserID is used for system-initiated writes where no acting user is
// present in the context (migrations, seeds, background jobs).
const DefaultUserID = "system"

func GetRequestID(ctx context.Context) string {
	return getString(ctx, CtxRequestID)
}

// GetTenantID returns the company scope of the acting user.
func GetTenantID(ctx context.Context) string {
	return getString(ctx, CtxTenantID)
}

func GetUserID(ctx context.Context) string {
	if id := getString(ctx, CtxUserID); id != "" {
		return id
	}
	return DefaultUserID
}

func GetUserRole(ctx context.Context) UserRole {
	if role, ok := ctx.Value(CtxUserRole).(UserRole); ok {
		return role
	}
	return UserRoleUnknown
}

func SetRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, CtxRequestID, requestID)
}

func SetTenantID(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, CtxTenantID, tenantID)
}

func SetUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, CtxUserID, userID)
}

func SetUserRole(ctx context.Context, role UserRole) context.Context {
	return context.WithValue(ctx, CtxUserRole, role)
}

func getString(ctx context.Context, key ContextKey) string {
	if value, ok := ctx.Value(key).(string); ok {
		return value
	}
	return ""
}
