package measurement

import (
	"BodyMeasure/pkg/response"
	"net/http"
)

var (
	ErrUnsupportedImageType    = response.NewCodedError(http.StatusBadRequest, "UNSUPPORTED_IMAGE_TYPE", "unsupported image type")
	ErrFileTooLarge            = response.NewCodedError(http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file too large")
	ErrInvalidImageData        = response.NewCodedError(http.StatusBadRequest, "INVALID_IMAGE_DATA", "invalid image data")
	ErrNoImageUploaded         = response.NewCodedError(http.StatusBadRequest, "NO_IMAGE", "no image uploaded")
	ErrBatchTooLarge           = response.NewCodedError(http.StatusBadRequest, "BATCH_TOO_LARGE", "batch size too large")
	ErrResultNotFound          = response.NewCodedError(http.StatusNotFound, "RESULT_NOT_FOUND", "measurement result not found or expired")
	ErrRecordNotFound          = response.NewCodedError(http.StatusNotFound, "RECORD_NOT_FOUND", "measurement record not found")
	ErrCustomerRequired        = response.NewCodedError(http.StatusBadRequest, "CUSTOMER_REQUIRED", "customer id is required")
	ErrInvalidRecord           = response.NewCodedError(http.StatusBadRequest, "INVALID_RECORD", "invalid measurement record")
	ErrNoApplicableMeasurement = response.NewCodedError(http.StatusUnprocessableEntity, "NO_APPLICABLE_MEASUREMENTS", "no measurements had sufficient confidence to apply")
	ErrStagingUnavailable      = response.NewCodedError(http.StatusServiceUnavailable, "STAGING_UNAVAILABLE", "result staging is not configured")
	ErrInternalServerError     = response.NewCodedError(http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
)
