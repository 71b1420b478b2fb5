package response

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Response is the JSON error envelope returned on every failed request:
// {"message": "...", "errors": ["...", ...]}.
type Response struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

const (
	MsgRequestError = "Request error"
	MsgServerError  = "Server error"
)

func Error(msg string) Response {
	return Response{
		Message: msg,
	}
}

// RequestError wraps field-level detail under the generic "Request error"
// message, matching the shape the frontend already parses.
func RequestError(details ...string) Response {
	return Response{
		Message: MsgRequestError,
		Errors:  details,
	}
}

func ServerError(details ...string) Response {
	return Response{
		Message: MsgServerError,
		Errors:  details,
	}
}

func DocumentNotFound(id string) Response {
	return RequestError(fmt.Sprintf("Document with id '%s' not found", id))
}

func FieldNotFound(field string) Response {
	return Error(fmt.Sprintf("Field '%s' not found in request body", field))
}

func ValidationError(errs validator.ValidationErrors) Response {
	var details []string

	for _, err := range errs {
		field := jsonFieldName(err)

		switch err.ActualTag() {
		case "required":
			details = append(details, fmt.Sprintf("'%s' is required", field))
		case "email":
			details = append(details, fmt.Sprintf("'%s' must be a valid email", field))
		case "numeric":
			details = append(details, fmt.Sprintf("'%s' must be a number", field))
		default:
			details = append(details, fmt.Sprintf("'%s' is not valid", field))
		}
	}

	return RequestError(details...)
}

// jsonFieldName reports the field name the client sent, not the Go name.
func jsonFieldName(err validator.FieldError) string {
	parts := strings.Split(err.Namespace(), ".")

	return toSnake(parts[len(parts)-1])
}

func toSnake(name string) string {
	var sb strings.Builder

	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				sb.WriteByte('_')
			}
			sb.WriteRune(r + ('a' - 'A'))
		} else {
			sb.WriteRune(r)
		}
	}

	return sb.String()
}
