package measurementHandler

import (
	"BodyMeasure/internal/api/measurement"
	contextPkg "BodyMeasure/pkg/context"
	"BodyMeasure/pkg/handlerUtil"
	"BodyMeasure/pkg/log"
	"errors"
	"io"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

func (h *MeasurementHandler) Extract(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := contextPkg.WithTimeout(ctx, h.timeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing measurement extraction request")

	var req measurement.ExtractRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	result, err := h.measurementService.ExtractBase64(c, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "extract_measurements")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, result)
	}
}

func (h *MeasurementHandler) ExtractFile(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := contextPkg.WithTimeout(ctx, h.timeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	file, err := ctx.FormFile("image")
	if err != nil {
		return errHandler.Handle(ctx, requestID, measurement.ErrNoImageUploaded, ctx.Path(), "read_form_file")
	}

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
		"file_name":  file.Filename,
		"file_size":  file.Size,
	}).Debug("Processing file upload")

	var referenceHeight *float64
	if raw := ctx.FormValue("reference_height"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v <= 0 {
			return errHandler.HandleValidationError(ctx, requestID,
				errors.New("reference_height must be a positive number"), ctx.Path())
		}
		referenceHeight = &v
	}

	archive, _ := strconv.ParseBool(ctx.FormValue("archive"))

	src, err := file.Open()
	if err != nil {
		return errHandler.Handle(ctx, requestID, measurement.ErrInvalidImageData, ctx.Path(), "open_file")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return errHandler.Handle(ctx, requestID, measurement.ErrInvalidImageData, ctx.Path(), "read_file")
	}

	result, err := h.measurementService.ExtractImage(c, measurement.ImageInput{
		Data:            data,
		ContentType:     file.Header.Get(fiber.HeaderContentType),
		Filename:        file.Filename,
		CustomerID:      ctx.FormValue("customer_id"),
		ReferenceHeight: referenceHeight,
		Archive:         archive,
		Stage:           true,
	})
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "extract_measurements_file")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, result)
	}
}

func (h *MeasurementHandler) ExtractBatch(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := contextPkg.WithTimeout(ctx, h.timeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req measurement.BatchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"images":     len(req.Images),
	}).Info("Processing batch extraction")

	result, err := h.measurementService.ExtractBatch(c, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "extract_batch")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, result)
	}
}

func (h *MeasurementHandler) Validate(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := contextPkg.WithTimeout(ctx, h.timeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req measurement.ValidateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	result := h.measurementService.Validate(c, req)

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, result)
}

func (h *MeasurementHandler) Test(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{
		"status":  "operational",
		"service": "body-measurement-service",
		"message": "Service is running and ready to process images",
		"endpoints": fiber.Map{
			"extract":      "POST /api/v1/measurements/extract - Extract measurements from base64 image",
			"extract_file": "POST /api/v1/measurements/extract-file - Extract measurements from uploaded file",
			"batch":        "POST /api/v1/measurements/batch - Batch process multiple images",
			"validate":     "POST /api/v1/measurements/validate - Compare two measurement sets",
			"stream":       "GET /api/v1/measurements/ws - Stream frames over websocket",
			"test":         "GET /api/v1/measurements/test - Test service availability",
		},
		"requirements": h.requirements,
	})
}

func (h *MeasurementHandler) ModelInfo(ctx *fiber.Ctx) error {
	return ctx.JSON(h.measurementService.ModelInfo())
}
