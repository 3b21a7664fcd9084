package handlers

import (
	"errors"
	"net/http"

	"github.com/gadgetry-io/gadgetry/internal/database"
	"github.com/gadgetry-io/gadgetry/internal/devices"
	"github.com/gadgetry-io/gadgetry/internal/models"
	"github.com/gin-gonic/gin"
)

// sendApiError translates a devices error to its transport shape. Anything
// outside the taxonomy is a 500 with an opaque body; the detail only goes
// to the log.
func (api *API) sendApiError(c *gin.Context, err error) {
	var validationErr devices.ValidationError
	var conflictErr devices.ConflictError
	var unprocessableErr devices.UnprocessableError
	switch {
	case errors.Is(err, devices.ErrNotFound):
		c.JSON(http.StatusNotFound, models.NewNotFoundError("device"))
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, models.NewFieldValidationError(validationErr.Field, validationErr.Reason))
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusConflict, models.NewConflictError(conflictErr.Reason))
	case errors.As(err, &unprocessableErr):
		c.JSON(http.StatusUnprocessableEntity, models.NewUnprocessableError(unprocessableErr.Reason))
	case database.IsDuplicateError(err):
		c.JSON(http.StatusConflict, models.NewConflictError("device already exists"))
	default:
		api.sendInternalServerError(c, err)
	}
}
