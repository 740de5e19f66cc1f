package errors

// Error code constants, format CATEGORY_SPECIFIC_DETAIL. Frontends map
// these codes to localized messages.

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
	AuthzAdminOnly    = "AUTHZ_ADMIN_ONLY"
	AuthzOwnerOnly    = "AUTHZ_OWNER_ONLY"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput    = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID       = "VALIDATION_INVALID_ID"
	ValidationInvalidDocument = "VALIDATION_INVALID_DOCUMENT"
	ValidationInvalidPhone    = "VALIDATION_INVALID_PHONE"
	ValidationInvalidPrice    = "VALIDATION_INVALID_PRICE"
	ValidationInvalidStock    = "VALIDATION_INVALID_STOCK"

	// ==================== Resource (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"

	// ==================== Product (PRODUCT_) ====================
	ProductNotFound     = "PRODUCT_NOT_FOUND"
	ProductNoncompliant = "PRODUCT_NONCOMPLIANT"

	// ==================== Store (STORE_) ====================
	StoreNotFound       = "STORE_NOT_FOUND"
	StoreInactive       = "STORE_INACTIVE"
	StoreMarginUnsafe   = "MARGIN_UNSAFE"
	StoreSlugExists     = "STORE_SLUG_EXISTS"
	StoreProductPresent = "STORE_PRODUCT_PRESENT"

	// ==================== Order (ORDER_) ====================
	OrderNotFound          = "ORDER_NOT_FOUND"
	OrderEmptyCart         = "ORDER_EMPTY_CART"
	OrderInvalidTransition = "ORDER_INVALID_TRANSITION"
	OrderUnknownStatus     = "ORDER_UNKNOWN_STATUS"
	OrderUnknownPayment    = "ORDER_UNKNOWN_PAYMENT"
	OrderPaymentNotOffered = "ORDER_PAYMENT_NOT_OFFERED"

	// ==================== Supplier (SUPPLIER_) ====================
	SupplierNotFound        = "SUPPLIER_NOT_FOUND"
	SupplierNotVerified     = "SUPPLIER_NOT_VERIFIED"
	SupplierAlreadyReviewed = "SUPPLIER_ALREADY_REVIEWED"
	SupplierInvalidDecision = "SUPPLIER_INVALID_DECISION"

	// ==================== Payout (PAYOUT_) ====================
	PayoutNotFound           = "PAYOUT_NOT_FOUND"
	PayoutInvalidProgression = "PAYOUT_INVALID_PROGRESSION"

	// ==================== Plan (PLAN_) ====================
	PlanLimitStores   = "PLAN_LIMIT_STORES"
	PlanLimitProducts = "PLAN_LIMIT_PRODUCTS"
	PlanLimitOrders   = "PLAN_LIMIT_ORDERS"

	// ==================== Upload (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"
	UploadFailed          = "UPLOAD_FAILED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
)
