package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/avelinsk/txmon/internal/errors"
	"github.com/avelinsk/txmon/internal/generator"
	"github.com/avelinsk/txmon/internal/usecases/dtos"
	"github.com/avelinsk/txmon/pkg/log"
	"github.com/rs/zerolog"
)

type generatorAction struct {
	Action string `json:"action"`
}

type GeneratorHandler struct {
	generator *generator.Generator
	logger    *zerolog.Logger
}

func NewGeneratorHandler(generator *generator.Generator) *GeneratorHandler {
	logger := log.GetLogger()
	return &GeneratorHandler{generator: generator, logger: &logger}
}

// Control handles POST /transaction/generator. Start and stop are both
// idempotent; repeating an action reports the current state instead of
// failing.
func (h *GeneratorHandler) Control(w http.ResponseWriter, r *http.Request) {
	var body generatorAction
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.logger.Error().Err(err).Msg(errors.ErrFailedDecodeRequestBody)
		errors.HandleHTTPError(w, errors.NewValidationError(errors.ErrInvalidRequestBody))
		return
	}

	var message string
	switch body.Action {
	case "start":
		if h.generator.Start() {
			message = "Generator started"
		} else {
			message = "Generator is already running"
		}
	case "stop":
		if h.generator.Stop() {
			message = "Generator stopped"
		} else {
			message = "Generator is not running"
		}
	default:
		errors.HandleHTTPError(w, errors.NewValidationError(errors.ErrInvalidGeneratorAction))
		return
	}

	writeJSON(w, http.StatusOK, dtos.MessageDTO{Message: message})
}
