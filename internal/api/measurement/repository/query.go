package measurementRepository

const (
	measurementColumns = `
			id,
			customer_id,
			designer_id,
			bust,
			waist,
			hips,
			chest,
			shoulder_width,
			arm_length,
			inseam,
			height,
			notes,
			measurement_type,
			photo_url,
			is_active,
			created_at,
			updated_at
	`

	queryCreateMeasurement = `
		INSERT INTO measurements (` + measurementColumns + `) VALUES (
			:id,
			:customer_id,
			:designer_id,
			:bust,
			:waist,
			:hips,
			:chest,
			:shoulder_width,
			:arm_length,
			:inseam,
			:height,
			:notes,
			:measurement_type,
			:photo_url,
			:is_active,
			:created_at,
			:updated_at
		)
	`

	queryGetMeasurementByID = `
		SELECT ` + measurementColumns + `
		FROM measurements
		WHERE id = :id
	`

	queryGetActiveMeasurementsByCustomer = `
		SELECT ` + measurementColumns + `
		FROM measurements
		WHERE customer_id = :customer_id
			AND is_active = TRUE
		ORDER BY created_at DESC
	`

	queryGetLatestActiveMeasurement = `
		SELECT ` + measurementColumns + `
		FROM measurements
		WHERE customer_id = :customer_id
			AND measurement_type = :measurement_type
			AND is_active = TRUE
			AND id <> :exclude_id
		ORDER BY created_at DESC
		LIMIT 1
	`

	queryDeactivateMeasurements = `
		UPDATE measurements
		SET is_active = FALSE,
			updated_at = :updated_at
		WHERE customer_id = :customer_id
			AND designer_id = :designer_id
			AND measurement_type = :measurement_type
			AND is_active = TRUE
	`
)
