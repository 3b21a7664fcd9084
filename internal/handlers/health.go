package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Live checks if the service is live
// @Summary      Checks if the service is live
// @Description  Checks if the service is live
// @Id           Live
// @Tags         Private
// @Accept       json
// @Produce      json
// @Success      200
// @Failure      500  {object}  models.InternalServerError "Internal Server Error"
// @Router       /healthz [get]
func (api *API) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "UP",
	})
}

// Ready checks if the service is ready to accept requests
// @Summary      Checks if the service is ready to accept requests
// @Description  Checks if the service is ready to accept requests
// @Id           Ready
// @Tags         Private
// @Accept       json
// @Produce      json
// @Success      200
// @Failure      500  {object}  models.InternalServerError "Internal Server Error"
// @Router       /readyz [get]
func (api *API) Ready(c *gin.Context) {
	if err := api.db.WithContext(c.Request.Context()).Exec("SELECT 1").Error; err != nil {
		api.sendInternalServerError(c, err)
		return
	}
	api.Live(c)
}
