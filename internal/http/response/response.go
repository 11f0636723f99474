// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков. Успешные ответы несут
// success=true и данные, ошибки — success=false и сообщение; ошибки валидации
// дополнительно несут карту поле→сообщение.
package response

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator"
)

// Response описывает стандартную структуру JSON‑ответа сервера.
type Response struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Data    any               `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// ErrorResponse — структура ошибки для Swagger-документации.
// Используется в аннотациях @Failure как возвращаемый тип ошибки.
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"invalid request body"`
}

// OK возвращает успешный Response с переданными данными.
func OK(data any) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

// OKWithMessage возвращает успешный Response с данными и сообщением.
func OKWithMessage(data any, msg string) Response {
	return Response{
		Success: true,
		Data:    data,
		Message: msg,
	}
}

// Error возвращает Response с ошибкой и переданным сообщением.
func Error(msg string) Response {
	return Response{
		Success: false,
		Message: msg,
	}
}

// ValidationError формирует Response со статусом ошибки на основе ошибок валидации.
// Для каждого нарушения в карту errors помещается человеко‑читаемый текст.
func ValidationError(errs validator.ValidationErrors) Response {
	errsMap := make(map[string]string, len(errs))

	for _, err := range errs {
		field := strings.ToLower(err.Field())
		switch err.ActualTag() {
		case "required":
			errsMap[field] = fmt.Sprintf("field %s is a required field", field)
		case "url":
			errsMap[field] = fmt.Sprintf("field %s must be a valid URL", field)
		case "email":
			errsMap[field] = fmt.Sprintf("field %s must be a valid email", field)
		case "alphanum":
			errsMap[field] = fmt.Sprintf("field %s can contain only numbers and letters", field)
		case "min":
			errsMap[field] = fmt.Sprintf("field %s is too short", field)
		case "max":
			errsMap[field] = fmt.Sprintf("field %s is too long", field)
		case "oneof":
			errsMap[field] = fmt.Sprintf("field %s has an unsupported value", field)
		case "fqdn":
			errsMap[field] = fmt.Sprintf("field %s must be a valid domain name", field)
		default:
			errsMap[field] = fmt.Sprintf("field %s is not valid", field)
		}
	}
	return Response{
		Success: false,
		Message: "invalid input",
		Errors:  errsMap,
	}
}
