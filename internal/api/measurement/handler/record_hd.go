package measurementHandler

import (
	"BodyMeasure/internal/api/measurement"
	contextPkg "BodyMeasure/pkg/context"
	"BodyMeasure/pkg/handlerUtil"
	jwtPkg "BodyMeasure/pkg/jwt"
	"BodyMeasure/pkg/log"
	"errors"

	"github.com/gofiber/fiber/v2"
)

func (h *MeasurementHandler) CreateRecord(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := contextPkg.WithTimeout(ctx, h.timeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	var req measurement.CreateRecordRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	record, err := h.measurementService.CreateRecord(c, userData.ID, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "create_record")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusCreated, record)
	}
}

func (h *MeasurementHandler) GetRecord(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := contextPkg.WithTimeout(ctx, h.timeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	id := ctx.Params("id")
	if id == "" {
		return errHandler.HandleValidationError(ctx, requestID, errors.New("record ID is required"), ctx.Path())
	}

	record, err := h.measurementService.GetRecord(c, id)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_record")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, record)
	}
}

func (h *MeasurementHandler) GetCustomerRecords(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := contextPkg.WithTimeout(ctx, h.timeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	customerID := ctx.Query("customer_id")
	if customerID == "" {
		return errHandler.HandleValidationError(ctx, requestID, errors.New("customer_id query parameter is required"), ctx.Path())
	}

	records, err := h.measurementService.GetCustomerRecords(c, customerID)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_customer_records")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, measurement.RecordListResponse{
			CustomerID: customerID,
			Records:    records,
		})
	}
}

func (h *MeasurementHandler) SaveAIResult(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := contextPkg.WithTimeout(ctx, h.timeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	userData, err := jwtPkg.GetUserLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized")
	}

	var req measurement.SaveAIResultRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
		}
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"result_id":  ctx.Params("id"),
		"designer":   userData.ID,
	}).Debug("Saving staged AI result")

	result, err := h.measurementService.SaveAIResult(c, userData.ID, ctx.Params("id"), req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "save_ai_result")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusCreated, result)
	}
}

func (h *MeasurementHandler) ValidateRecord(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := contextPkg.WithTimeout(ctx, h.timeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	result, err := h.measurementService.ValidateRecord(c, ctx.Params("id"))
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "validate_record")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, result)
	}
}
