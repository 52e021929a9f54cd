package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidQuantity  ErrorCode = "INVALID_QUANTITY"
	ErrCodeInvalidAmount    ErrorCode = "INVALID_AMOUNT"
	ErrCodeInvalidDate      ErrorCode = "INVALID_DATE"
	ErrCodeInvalidRequest   ErrorCode = "INVALID_REQUEST"

	ErrCodeNegativeStock      ErrorCode = "NEGATIVE_STOCK"
	ErrCodeInsufficientStock  ErrorCode = "INSUFFICIENT_STOCK"
	ErrCodeSameWarehouse      ErrorCode = "SAME_WAREHOUSE"
	ErrCodeWarehouseRequired  ErrorCode = "WAREHOUSE_REQUIRED"
	ErrCodeCategoryRequired   ErrorCode = "CATEGORY_REQUIRED"
	ErrCodeInvalidStockLevels ErrorCode = "INVALID_STOCK_LEVELS"
	ErrCodeProductHasHistory  ErrorCode = "PRODUCT_HAS_HISTORY"
	ErrCodeSalesNotAllowed    ErrorCode = "SALES_NOT_ALLOWED"
	ErrCodeInsufficientPoints ErrorCode = "INSUFFICIENT_LOYALTY_POINTS"
	ErrCodeInvalidPIN         ErrorCode = "INVALID_PIN"

	ErrCodeProductNotFound   ErrorCode = "PRODUCT_NOT_FOUND"
	ErrCodeWarehouseNotFound ErrorCode = "WAREHOUSE_NOT_FOUND"
	ErrCodeEmployeeNotFound  ErrorCode = "EMPLOYEE_NOT_FOUND"
	ErrCodeInventoryNotFound ErrorCode = "INVENTORY_NOT_FOUND"
	ErrCodeRoleNotFound      ErrorCode = "ROLE_NOT_FOUND"
	ErrCodeCategoryNotFound  ErrorCode = "CATEGORY_NOT_FOUND"
	ErrCodeCustomerNotFound  ErrorCode = "CUSTOMER_NOT_FOUND"
	ErrCodeSaleNotFound      ErrorCode = "SALE_NOT_FOUND"
	ErrCodeExpenseNotFound   ErrorCode = "EXPENSE_NOT_FOUND"
	ErrCodeAlertNotFound     ErrorCode = "ALERT_NOT_FOUND"

	ErrCodeDuplicateSKU       ErrorCode = "DUPLICATE_SKU"
	ErrCodeDuplicateBarcode   ErrorCode = "DUPLICATE_BARCODE"
	ErrCodeDuplicatePhone     ErrorCode = "DUPLICATE_PHONE"
	ErrCodeDuplicateCode      ErrorCode = "DUPLICATE_CODE"
	ErrCodeDuplicateName      ErrorCode = "DUPLICATE_NAME"
	ErrCodeRoleHierarchy      ErrorCode = "ROLE_HIERARCHY_VIOLATION"
	ErrCodeWarehouseScope     ErrorCode = "WAREHOUSE_SCOPE_VIOLATION"
	ErrCodeUnauthorizedAccess ErrorCode = "UNAUTHORIZED_ACCESS"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeUserInactive       ErrorCode = "USER_INACTIVE"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			messages := make([]string, len(validationErrors.Errors))
			for i, err := range validationErrors.Errors {
				messages[i] = err.Message
			}
			return strings.Join(messages, "; ")
		}
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

// Sentinel values are shared; never call WithCause or WithDetails on them.
var (
	ErrInvalidCredentials = NewUnauthorizedError("Invalid phone or credential", ErrCodeInvalidCredentials)
	ErrUserInactive       = NewForbiddenError("Employee account is inactive", ErrCodeUserInactive)
	ErrInvalidToken       = NewUnauthorizedError("Invalid token", ErrCodeInvalidToken)
	ErrTokenExpired       = NewUnauthorizedError("Token has expired", ErrCodeTokenExpired)
)

// IsAppError reports whether err is, or wraps, an *AppError.
func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasType reports whether err carries an AppError of the given type.
func HasType(err error, t ErrorType) bool {
	appErr, ok := IsAppError(err)
	return ok && appErr.Type == t
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
