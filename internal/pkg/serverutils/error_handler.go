package serverutils

import (
	"errors"
	"sync"

	"github.com/gofiber/fiber/v2"
)

var (
	statusMu  sync.RWMutex
	statusMap = map[error]int{}
)

// RegisterErrorStatus maps a sentinel error to an HTTP status. Services
// register their sentinels at wiring time.
func RegisterErrorStatus(err error, status int) {
	statusMu.Lock()
	defer statusMu.Unlock()
	statusMap[err] = status
}

// StatusFor resolves the HTTP status for err, following wrapped errors.
func StatusFor(err error) int {
	var fErr *fiber.Error
	if errors.As(err, &fErr) {
		return fErr.Code
	}
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return fiber.StatusBadRequest
	}

	statusMu.RLock()
	defer statusMu.RUnlock()
	for sentinel, status := range statusMap {
		if errors.Is(err, sentinel) {
			return status
		}
	}
	return fiber.StatusInternalServerError
}

// ErrorHandlerMiddleware converts handler errors into the common response shape.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		status := StatusFor(err)
		message := err.Error()
		if status == fiber.StatusInternalServerError {
			message = "internal server error"
		}
		return ctx.Status(status).JSON(ErrorResponse(status, message))
	}
}
