package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo pairs a code with its user-facing message.
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError maps database and infrastructure errors to a code and a safe
// Spanish message. context names the entity the caller was working with
// ("producto", "pedido", "tienda", "proveedor", "liquidación").
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: "Ocurrió un error en el servidor"}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Code: ResourceNotFound, Message: getNotFoundMessage(context)}
	}

	// Postgres constraint violations.
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStr)
	}
	if strings.Contains(errStrLower, "foreign key constraint") {
		return ErrorInfo{Code: ValidationInvalidID, Message: "Hace referencia a un registro que no existe"}
	}
	if strings.Contains(errStrLower, "null value") && strings.Contains(errStrLower, "violates not-null constraint") {
		return ErrorInfo{Code: ValidationInvalidInput, Message: "Faltan campos obligatorios"}
	}

	// Connectivity.
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "No se pudo conectar con un servicio externo. Intente de nuevo más tarde",
		}
	}

	return ErrorInfo{Code: InternalServerError, Message: getDefaultErrorMessage(context)}
}

func parseDuplicateKeyError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "slug") || strings.Contains(errLower, "idx_stores_slug") {
		return ErrorInfo{Code: StoreSlugExists, Message: "Ese subdominio de tienda ya está en uso"}
	}
	if strings.Contains(errLower, "email") || strings.Contains(errLower, "idx_users_email") {
		return ErrorInfo{Code: AuthEmailAlreadyExists, Message: "Ese correo ya está registrado"}
	}
	if strings.Contains(errLower, "idx_store_product") {
		return ErrorInfo{Code: StoreProductPresent, Message: "El producto ya está en la tienda"}
	}
	if strings.Contains(errLower, "idx_payout_supplier_period") {
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "Ya existe una liquidación para ese período"}
	}
	return ErrorInfo{Code: ResourceAlreadyExists, Message: "El registro ya existe"}
}

func getNotFoundMessage(context string) string {
	switch context {
	case "producto":
		return "Producto no encontrado"
	case "pedido":
		return "Pedido no encontrado"
	case "tienda":
		return "Tienda no encontrada"
	case "proveedor":
		return "Proveedor no encontrado"
	case "liquidación":
		return "Liquidación no encontrada"
	default:
		return "Registro no encontrado"
	}
}

func getDefaultErrorMessage(context string) string {
	if context == "" {
		return "Ocurrió un error en el servidor"
	}
	return "Ocurrió un error procesando " + context
}

// ParseAndRespond parses the error and writes the standard error body.
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}
