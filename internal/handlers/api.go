package handlers

import (
	"context"
	"net/http"

	"github.com/gadgetry-io/gadgetry/internal/database"
	"github.com/gadgetry-io/gadgetry/internal/devices"
	"github.com/gadgetry-io/gadgetry/internal/models"
	"github.com/gadgetry-io/gadgetry/internal/util"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var tracer trace.Tracer

func init() {
	tracer = otel.Tracer("github.com/gadgetry-io/gadgetry/internal/handlers")
}

const (
	TotalCountHeader = "X-Total-Count"
)

type API struct {
	logger      *zap.SugaredLogger
	db          *gorm.DB
	devices     *devices.Service
	transaction database.TransactionFunc
	dialect     database.Dialect
}

func NewAPI(
	parent context.Context,
	logger *zap.SugaredLogger,
	db *gorm.DB,
) (*API, error) {
	ctx, span := tracer.Start(parent, "NewAPI")
	defer span.End()

	transactionFunc, dialect, err := database.GetTransactionFunc(db.WithContext(ctx))
	if err != nil {
		return nil, err
	}

	store := database.NewDeviceStore(db, transactionFunc)

	return &API{
		logger:      logger,
		db:          db,
		devices:     devices.NewService(logger, store),
		transaction: transactionFunc,
		dialect:     dialect,
	}, nil
}

func (api *API) Logger(ctx context.Context) *zap.SugaredLogger {
	return util.WithTrace(ctx, api.logger)
}

func (api *API) sendInternalServerError(c *gin.Context, err error) {
	ctx := c.Request.Context()
	util.WithTrace(ctx, api.logger).Errorw("internal server error", "error", err)

	result := models.InternalServerError{
		BaseError: models.BaseError{
			Error: "internal server error",
		},
	}
	sc := trace.SpanFromContext(ctx).SpanContext()
	if sc.HasTraceID() {
		result.TraceId = sc.TraceID().String()
	}
	c.JSON(http.StatusInternalServerError, result)
}
