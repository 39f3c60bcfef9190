package errors

// Error code constants returned in API error responses.
// Format: CATEGORY_SPECIFIC_DETAIL. The storefront maps these codes to
// user-facing messages.

const (
	// ==================== Auth (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"

	// ==================== Catalog (PRODUCT_) ====================
	ProductNotFound    = "PRODUCT_NOT_FOUND"
	ProductUnavailable = "PRODUCT_UNAVAILABLE"

	// ==================== Cart (CART_) ====================
	CartItemNotFound = "CART_ITEM_NOT_FOUND"
	CartEmpty        = "CART_EMPTY"

	// ==================== Plans & scheduling (PLAN_) ====================
	PlanUnrecognized    = "PLAN_UNRECOGNIZED"
	PlanWindowInvalid   = "PLAN_WINDOW_INVALID"
	PlanPriceUnresolved = "PLAN_PRICE_UNRESOLVED"

	// ==================== Orders (ORDER_) ====================
	OrderNotFound      = "ORDER_NOT_FOUND"
	OrderInvalidStatus = "ORDER_INVALID_STATUS"

	// ==================== Back office (BANNER_/LEAD_) ====================
	BannerNotFound = "BANNER_NOT_FOUND"
	LeadNotFound   = "LEAD_NOT_FOUND"

	// ==================== Generic (RESOURCE_/INTERNAL_) ====================
	ResourceNotFound    = "RESOURCE_NOT_FOUND"
	ResourceDuplicate   = "RESOURCE_DUPLICATE"
	ResourceConstraint  = "RESOURCE_CONSTRAINT"
	InternalServerError = "INTERNAL_SERVER_ERROR"
	InternalExternalAPI = "INTERNAL_EXTERNAL_API"
)
