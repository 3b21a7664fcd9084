package handlers

import (
	"net/http"
	"strconv"

	"github.com/gadgetry-io/gadgetry/internal/devices"
	"github.com/gadgetry-io/gadgetry/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// CreateDevice creates a new device
// @Summary      Add Devices
// @Description  Adds a new device
// @Id           CreateDevice
// @Tags         Devices
// @Accept       json
// @Produce      json
// @Param        Device  body     models.AddDevice  true  "Add Device"
// @Success      201  {object}  models.Device
// @Failure      400  {object}  models.ValidationError
// @Failure      409  {object}  models.ConflictError
// @Failure      500  {object}  models.InternalServerError "Internal Server Error"
// @Router       /api/devices [post]
func (api *API) CreateDevice(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "CreateDevice")
	defer span.End()

	var request models.AddDevice
	if err := c.BindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, models.NewBadPayloadError())
		return
	}

	device, err := api.devices.Create(ctx, request)
	if err != nil {
		api.sendApiError(c, err)
		return
	}

	span.SetAttributes(attribute.String("id", device.ID.String()))
	c.JSON(http.StatusCreated, device)
}

// GetDevice gets a device by ID
// @Summary      Get Devices
// @Description  Gets a device by ID
// @Id           GetDevice
// @Tags         Devices
// @Accept       json
// @Produce      json
// @Param        id   path      string  true "Device ID"
// @Success      200  {object}  models.Device
// @Failure      400  {object}  models.ValidationError
// @Failure      404  {object}  models.NotFoundError
// @Failure      500  {object}  models.InternalServerError "Internal Server Error"
// @Router       /api/devices/{id} [get]
func (api *API) GetDevice(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "GetDevice",
		trace.WithAttributes(
			attribute.String("id", c.Param("id")),
		))
	defer span.End()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewBadPathParameterError("id"))
		return
	}

	device, err := api.devices.Get(ctx, id)
	if err != nil {
		api.sendApiError(c, err)
		return
	}

	c.JSON(http.StatusOK, device)
}

// Query are the filter, paging and sorting parameters of a device listing.
type Query struct {
	Name  string `form:"name"`
	Brand string `form:"brand"`
	State string `form:"state"`
	Page  *int   `form:"page"`
	Size  *int   `form:"size"`
	Sort  string `form:"sort"`
}

// ListDevices lists devices
// @Summary      List Devices
// @Description  Lists devices matching the optional name/brand/state
// @Description  criteria. Name and brand match by equality on the
// @Description  normalized (trimmed, lower-cased) value, not by substring.
// @Id           ListDevices
// @Tags         Devices
// @Accept       json
// @Produce      json
// @Param        name   query  string  false "device name"
// @Param        brand  query  string  false "device brand"
// @Param        state  query  string  false "device state"
// @Param        page   query  int     false "page number"
// @Param        size   query  int     false "page size"
// @Param        sort   query  string  false "sort as field,direction"
// @Success      200  {object}  models.DevicePage
// @Failure      400  {object}  models.ValidationError
// @Failure      500  {object}  models.InternalServerError "Internal Server Error"
// @Router       /api/devices [get]
func (api *API) ListDevices(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "ListDevices")
	defer span.End()

	var query Query
	if err := c.BindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, models.NewApiError(err))
		return
	}

	state := models.DeviceState(query.State)
	if query.State != "" && !state.Valid() {
		c.JSON(http.StatusBadRequest, models.NewFieldValidationError("state", "unknown state"))
		return
	}

	pageNumber := 0
	if query.Page != nil {
		pageNumber = *query.Page
	}
	pageSize := devices.DefaultPageSize
	if query.Size != nil {
		pageSize = *query.Size
	}
	page, err := devices.NewPage(pageNumber, pageSize, query.Sort)
	if err != nil {
		api.sendApiError(c, err)
		return
	}

	devicePage, err := api.devices.List(ctx, devices.NewFilter(query.Name, query.Brand, state), page)
	if err != nil {
		api.sendApiError(c, err)
		return
	}

	// For pagination
	c.Header("Access-Control-Expose-Headers", TotalCountHeader)
	c.Header(TotalCountHeader, strconv.FormatInt(devicePage.TotalElements, 10))
	c.JSON(http.StatusOK, devicePage)
}

// UpdateDevice updates a device
// @Summary      Update Devices
// @Description  Partially updates a device by ID
// @Id           UpdateDevice
// @Tags         Devices
// @Accept       json
// @Produce      json
// @Param        id      path   string               true "Device ID"
// @Param        update  body   models.UpdateDevice  true "Device Update"
// @Success      200  {object}  models.Device
// @Failure      400  {object}  models.ValidationError
// @Failure      404  {object}  models.NotFoundError
// @Failure      409  {object}  models.ConflictError
// @Failure      422  {object}  models.UnprocessableError
// @Failure      500  {object}  models.InternalServerError "Internal Server Error"
// @Router       /api/devices/{id} [patch]
func (api *API) UpdateDevice(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "UpdateDevice",
		trace.WithAttributes(
			attribute.String("id", c.Param("id")),
		))
	defer span.End()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewBadPathParameterError("id"))
		return
	}

	var request models.UpdateDevice
	if err := c.BindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, models.NewBadPayloadError())
		return
	}

	device, err := api.devices.Update(ctx, id, request)
	if err != nil {
		api.sendApiError(c, err)
		return
	}

	c.JSON(http.StatusOK, device)
}

// DeleteDevice deletes a device
// @Summary      Delete Device
// @Description  Soft-deletes a device by ID. Devices that are IN_USE
// @Description  cannot be deleted.
// @Id           DeleteDevice
// @Tags         Devices
// @Accept       json
// @Produce      json
// @Param        id   path      string  true "Device ID"
// @Success      204
// @Failure      400  {object}  models.ValidationError
// @Failure      404  {object}  models.NotFoundError
// @Failure      409  {object}  models.ConflictError
// @Failure      500  {object}  models.InternalServerError "Internal Server Error"
// @Router       /api/devices/{id} [delete]
func (api *API) DeleteDevice(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "DeleteDevice",
		trace.WithAttributes(
			attribute.String("id", c.Param("id")),
		))
	defer span.End()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewBadPathParameterError("id"))
		return
	}

	if err := api.devices.Delete(ctx, id); err != nil {
		api.sendApiError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
