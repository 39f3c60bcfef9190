package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// ErrorInfo is a parsed, user-presentable view of a lower-layer error.
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError maps repository/database errors to response codes without
// leaking driver internals. Postgres errors are matched on SQLSTATE via
// pq.Error when available, with a string fallback for other drivers
// (the sqlite test database reports constraint text, not SQLSTATE).
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: "Something went wrong"}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: fmt.Sprintf("%s not found", contextLabel(context)),
		}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505": // unique_violation
			return ErrorInfo{
				Code:    ResourceDuplicate,
				Message: fmt.Sprintf("%s already exists", contextLabel(context)),
			}
		case "23503": // foreign_key_violation
			return ErrorInfo{
				Code:    ResourceConstraint,
				Message: fmt.Sprintf("%s references a missing record", contextLabel(context)),
			}
		case "23502": // not_null_violation
			return ErrorInfo{
				Code:    ValidationInvalidInput,
				Message: fmt.Sprintf("%s is missing a required field", contextLabel(context)),
			}
		case "23514": // check_violation
			return ErrorInfo{
				Code:    ValidationInvalidInput,
				Message: fmt.Sprintf("%s failed a data constraint", contextLabel(context)),
			}
		}
	}

	errStr := strings.ToLower(err.Error())

	if strings.Contains(errStr, "duplicate key") || strings.Contains(errStr, "unique constraint") {
		return ErrorInfo{
			Code:    ResourceDuplicate,
			Message: fmt.Sprintf("%s already exists", contextLabel(context)),
		}
	}
	if strings.Contains(errStr, "foreign key constraint") {
		return ErrorInfo{
			Code:    ResourceConstraint,
			Message: fmt.Sprintf("%s references a missing record", contextLabel(context)),
		}
	}
	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "External service is unreachable. Please try again later",
		}
	}

	return ErrorInfo{Code: InternalServerError, Message: "Something went wrong"}
}

func contextLabel(context string) string {
	if context == "" {
		return "Resource"
	}
	return context
}
