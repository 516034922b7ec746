package response

import "github.com/gofiber/fiber/v3"

// HeaderRequestID must match the header the access log middleware sets.
const HeaderRequestID = "X-Request-ID"

// SemanticResponse is the envelope of every JSON answer. Error envelopes
// echo the request id so clients can quote it.
type SemanticResponse struct {
	Status    int    `json:"status"`
	Message   string `json:"message"`
	Data      any    `json:"data"`
	RequestID string `json:"request_id,omitempty"`
}

const (
	MessageOK                  = "ok"
	MessageBadRequest          = "bad request"
	MessageUnauthorized        = "unauthorized"
	MessageForbidden           = "forbidden"
	MessageNotFound            = "not found"
	MessageConflict            = "conflict"
	MessageUnprocessableEntity = "unprocessable entity"
	MessageServiceUnavailable  = "service unavailable"
	MessageInternalServerError = "internal server error"
	MessageError               = "error"
)

func Success(c fiber.Ctx, status int, message string, data any) error {
	return write(c, status, message, data, false)
}

func Error(c fiber.Ctx, status int, message string, data any) error {
	return write(c, status, message, data, true)
}

func write(c fiber.Ctx, status int, message string, data any, withRequestID bool) error {
	if status < 100 || status > 599 {
		status = fiber.StatusInternalServerError
	}
	if message == "" {
		message = DefaultMessage(status)
	}

	body := SemanticResponse{Status: status, Message: message, Data: data}
	if withRequestID {
		body.RequestID = c.GetRespHeader(HeaderRequestID)
	}
	return c.Status(status).JSON(body)
}

// DefaultMessage is the envelope message used when a caller supplies none.
func DefaultMessage(status int) string {
	switch status {
	case fiber.StatusOK, fiber.StatusCreated:
		return MessageOK
	case fiber.StatusBadRequest:
		return MessageBadRequest
	case fiber.StatusUnauthorized:
		return MessageUnauthorized
	case fiber.StatusForbidden:
		return MessageForbidden
	case fiber.StatusNotFound:
		return MessageNotFound
	case fiber.StatusConflict:
		return MessageConflict
	case fiber.StatusUnprocessableEntity:
		return MessageUnprocessableEntity
	case fiber.StatusServiceUnavailable:
		return MessageServiceUnavailable
	default:
		if status >= 500 {
			return MessageInternalServerError
		}
		return MessageError
	}
}
