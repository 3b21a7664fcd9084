package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gadgetry-io/gadgetry/internal/models"
)

func (suite *HandlerTestSuite) createDevice(name, brand string, state models.DeviceState) models.Device {
	require := suite.Require()

	add := models.AddDevice{
		DisplayName:  name,
		DisplayBrand: brand,
	}
	if state != "" {
		add.State = &state
	}
	reqBody, err := json.Marshal(add)
	require.NoError(err)

	_, res, err := suite.ServeRequest(
		http.MethodPost, "/", "/",
		suite.api.CreateDevice, bytes.NewBuffer(reqBody),
	)
	require.NoError(err)

	body, err := io.ReadAll(res.Body)
	require.NoError(err)
	require.Equal(http.StatusCreated, res.Code, "HTTP error: %s", string(body))

	var device models.Device
	require.NoError(json.Unmarshal(body, &device))
	return device
}

func (suite *HandlerTestSuite) TestCreateGetDevice() {
	require := suite.Require()
	assert := suite.Assert()

	actual := suite.createDevice("  iPhone 15 ", "Apple", "")
	require.Equal("iPhone 15", actual.DisplayName)
	require.Equal("iphone 15", actual.Name)
	require.Equal("apple", actual.Brand)
	require.Equal(models.DeviceStateAvailable, actual.State)
	require.Equal(uint64(0), actual.Version)

	_, res, err := suite.ServeRequest(
		http.MethodGet, "/:id", fmt.Sprintf("/%s", actual.ID),
		suite.api.GetDevice, nil,
	)
	require.NoError(err)

	body, err := io.ReadAll(res.Body)
	require.NoError(err)
	require.Equal(http.StatusOK, res.Code, "HTTP error: %s", string(body))

	var device models.Device
	require.NoError(json.Unmarshal(body, &device))
	assert.Equal(actual, device)
}

func (suite *HandlerTestSuite) TestCreateDeviceBlankName() {
	require := suite.Require()

	reqBody, err := json.Marshal(models.AddDevice{
		DisplayName:  "   ",
		DisplayBrand: "Apple",
	})
	require.NoError(err)

	_, res, err := suite.ServeRequest(
		http.MethodPost, "/", "/",
		suite.api.CreateDevice, bytes.NewBuffer(reqBody),
	)
	require.NoError(err)
	require.Equal(http.StatusBadRequest, res.Code)

	var apiError models.ValidationError
	require.NoError(json.Unmarshal(res.Body.Bytes(), &apiError))
	require.Equal("display_name", apiError.Field)
}

func (suite *HandlerTestSuite) TestCreateDeviceBadPayload() {
	require := suite.Require()

	_, res, err := suite.ServeRequest(
		http.MethodPost, "/", "/",
		suite.api.CreateDevice, bytes.NewBufferString("{not json"),
	)
	require.NoError(err)
	require.Equal(http.StatusBadRequest, res.Code)
}

func (suite *HandlerTestSuite) TestGetDeviceBadID() {
	require := suite.Require()

	_, res, err := suite.ServeRequest(
		http.MethodGet, "/:id", "/not-a-uuid",
		suite.api.GetDevice, nil,
	)
	require.NoError(err)
	require.Equal(http.StatusBadRequest, res.Code)
}

func (suite *HandlerTestSuite) TestGetDeviceNotFound() {
	require := suite.Require()

	_, res, err := suite.ServeRequest(
		http.MethodGet, "/:id", "/3883d057-1ba6-4874-a9ba-c8be88013944",
		suite.api.GetDevice, nil,
	)
	require.NoError(err)
	require.Equal(http.StatusNotFound, res.Code)

	var apiError models.NotFoundError
	require.NoError(json.Unmarshal(res.Body.Bytes(), &apiError))
	require.Equal("device", apiError.Resource)
}

func (suite *HandlerTestSuite) TestListDevicesPagination() {
	require := suite.Require()

	for _, name := range []string{"iPhone 15", "iPhone 14", "Galaxy S24", "Galaxy S23", "Pixel 8"} {
		suite.createDevice(name, "Acme", "")
	}

	_, res, err := suite.ServeRequest(
		http.MethodGet, "/", "/?size=2&sort=name,asc",
		suite.api.ListDevices, nil,
	)
	require.NoError(err)
	require.Equal(http.StatusOK, res.Code)
	require.Equal("5", res.Header().Get(TotalCountHeader))

	var page models.DevicePage
	require.NoError(json.Unmarshal(res.Body.Bytes(), &page))
	require.Equal(int64(5), page.TotalElements)
	require.Equal(3, page.TotalPages)
	require.Equal(0, page.PageNumber)
	require.Equal(2, page.PageSize)
	require.False(page.Last)
	require.Len(page.Content, 2)
	require.Equal("galaxy s23", page.Content[0].Name)
	require.Equal("galaxy s24", page.Content[1].Name)

	_, res, err = suite.ServeRequest(
		http.MethodGet, "/", "/?page=2&size=2&sort=name,asc",
		suite.api.ListDevices, nil,
	)
	require.NoError(err)
	require.Equal(http.StatusOK, res.Code)

	require.NoError(json.Unmarshal(res.Body.Bytes(), &page))
	require.True(page.Last)
	require.Len(page.Content, 1)
	require.Equal("pixel 8", page.Content[0].Name)
}

func (suite *HandlerTestSuite) TestListDevicesBrandIsNormalized() {
	require := suite.Require()

	suite.createDevice("iPhone 15", "Apple", "")
	suite.createDevice("Galaxy S24", "Samsung", "")

	for _, uri := range []string{"/?brand=apple", "/?brand=APPLE", "/?brand=%20Apple%20"} {
		_, res, err := suite.ServeRequest(
			http.MethodGet, "/", uri,
			suite.api.ListDevices, nil,
		)
		require.NoError(err)
		require.Equal(http.StatusOK, res.Code)

		var page models.DevicePage
		require.NoError(json.Unmarshal(res.Body.Bytes(), &page))
		require.Equal(int64(1), page.TotalElements, "uri %s", uri)
		require.Equal("iphone 15", page.Content[0].Name)
	}
}

func (suite *HandlerTestSuite) TestListDevicesBadSort() {
	require := suite.Require()

	_, res, err := suite.ServeRequest(
		http.MethodGet, "/", "/?sort=displayName,asc",
		suite.api.ListDevices, nil,
	)
	require.NoError(err)
	require.Equal(http.StatusBadRequest, res.Code)

	var apiError models.ValidationError
	require.NoError(json.Unmarshal(res.Body.Bytes(), &apiError))
	require.Equal("sort", apiError.Field)
}

func (suite *HandlerTestSuite) TestListDevicesBadState() {
	require := suite.Require()

	_, res, err := suite.ServeRequest(
		http.MethodGet, "/", "/?state=BROKEN",
		suite.api.ListDevices, nil,
	)
	require.NoError(err)
	require.Equal(http.StatusBadRequest, res.Code)
}

func (suite *HandlerTestSuite) TestListDevicesBadSize() {
	require := suite.Require()

	for _, uri := range []string{"/?size=0", "/?size=51", "/?page=-1"} {
		_, res, err := suite.ServeRequest(
			http.MethodGet, "/", uri,
			suite.api.ListDevices, nil,
		)
		require.NoError(err)
		require.Equal(http.StatusBadRequest, res.Code, "uri %s", uri)
	}
}

func (suite *HandlerTestSuite) TestUpdateDevice() {
	require := suite.Require()
	device := suite.createDevice("iPhone 15", "Apple", "")

	name := "iPhone 15 Pro"
	reqBody, err := json.Marshal(models.UpdateDevice{DisplayName: &name})
	require.NoError(err)

	_, res, err := suite.ServeRequest(
		http.MethodPatch, "/:id", fmt.Sprintf("/%s", device.ID),
		suite.api.UpdateDevice, bytes.NewBuffer(reqBody),
	)
	require.NoError(err)

	body, err := io.ReadAll(res.Body)
	require.NoError(err)
	require.Equal(http.StatusOK, res.Code, "HTTP error: %s", string(body))

	var updated models.Device
	require.NoError(json.Unmarshal(body, &updated))
	require.Equal("iPhone 15 Pro", updated.DisplayName)
	require.Equal("iphone 15 pro", updated.Name)
	require.Equal(uint64(1), updated.Version)
}

func (suite *HandlerTestSuite) TestUpdateDeviceInUseGuard() {
	require := suite.Require()
	device := suite.createDevice("iPhone 15", "Apple", models.DeviceStateInUse)

	name := "Galaxy S24"
	reqBody, err := json.Marshal(models.UpdateDevice{DisplayName: &name})
	require.NoError(err)

	_, res, err := suite.ServeRequest(
		http.MethodPatch, "/:id", fmt.Sprintf("/%s", device.ID),
		suite.api.UpdateDevice, bytes.NewBuffer(reqBody),
	)
	require.NoError(err)
	require.Equal(http.StatusConflict, res.Code)

	var apiError models.ConflictError
	require.NoError(json.Unmarshal(res.Body.Bytes(), &apiError))
	require.Equal("Cannot update name of device in use", apiError.Error)
}

func (suite *HandlerTestSuite) TestUpdateDeviceNoop() {
	require := suite.Require()
	device := suite.createDevice("iPhone 15", "Apple", "")

	reqBody, err := json.Marshal(models.UpdateDevice{})
	require.NoError(err)

	_, res, err := suite.ServeRequest(
		http.MethodPatch, "/:id", fmt.Sprintf("/%s", device.ID),
		suite.api.UpdateDevice, bytes.NewBuffer(reqBody),
	)
	require.NoError(err)
	require.Equal(http.StatusOK, res.Code)

	var updated models.Device
	require.NoError(json.Unmarshal(res.Body.Bytes(), &updated))
	require.Equal(uint64(0), updated.Version)
}

func (suite *HandlerTestSuite) TestDeleteDevice() {
	require := suite.Require()
	device := suite.createDevice("iPhone 15", "Apple", "")

	_, res, err := suite.ServeRequest(
		http.MethodDelete, "/:id", fmt.Sprintf("/%s", device.ID),
		suite.api.DeleteDevice, nil,
	)
	require.NoError(err)
	require.Equal(http.StatusNoContent, res.Code)

	_, res, err = suite.ServeRequest(
		http.MethodGet, "/:id", fmt.Sprintf("/%s", device.ID),
		suite.api.GetDevice, nil,
	)
	require.NoError(err)
	require.Equal(http.StatusNotFound, res.Code)
}

func (suite *HandlerTestSuite) TestDeleteDeviceInUseGuard() {
	require := suite.Require()
	device := suite.createDevice("iPhone 15", "Apple", models.DeviceStateInUse)

	_, res, err := suite.ServeRequest(
		http.MethodDelete, "/:id", fmt.Sprintf("/%s", device.ID),
		suite.api.DeleteDevice, nil,
	)
	require.NoError(err)
	require.Equal(http.StatusConflict, res.Code)

	var apiError models.ConflictError
	require.NoError(json.Unmarshal(res.Body.Bytes(), &apiError))
	require.Equal("Cannot delete device in use", apiError.Error)
}
