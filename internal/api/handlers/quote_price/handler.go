package quote_price

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-ConsoleRental/internal/api/handlers"
	"github.com/m04kA/SMC-ConsoleRental/internal/api/middleware"
	quotePrice "github.com/m04kA/SMC-ConsoleRental/internal/usecase/quote_price"
)

const (
	msgInvalidHours    = "некорректное количество часов"
	msgConsoleNotFound = "консоль не найдена"
)

type Handler struct {
	useCase QuotePriceUseCase
	logger  Logger
}

func NewHandler(useCase QuotePriceUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/consoles/{consoleId}/quote?hours=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	consoleID := handlers.PathString(r, "consoleId")

	hours, err := strconv.Atoi(r.URL.Query().Get("hours"))
	if err != nil {
		h.logger.Warn("GET /consoles/{id}/quote - Invalid hours: %v", err)
		handlers.RespondBadRequest(w, msgInvalidHours)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &quotePrice.Request{
		ConsoleID: consoleID,
		Hours:     hours,
		UserID:    middleware.OptionalUserID(r.Context()),
	})
	if err != nil {
		switch {
		case errors.Is(err, quotePrice.ErrConsoleNotFound):
			h.logger.Warn("GET /consoles/{id}/quote - Console not found: console_id=%s", consoleID)
			handlers.RespondNotFound(w, msgConsoleNotFound)

		case errors.Is(err, quotePrice.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidHours)

		default:
			h.logger.Error("GET /consoles/{id}/quote - Failed to quote: console_id=%s, error=%v", consoleID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
