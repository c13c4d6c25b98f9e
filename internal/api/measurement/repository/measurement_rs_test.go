package measurementRepository

import (
	"BodyMeasure/internal/entity"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func TestMakeMeasurementRecord_KeepsUnmeasuredFieldsNil(t *testing.T) {
	r := &measurementRepository{}
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	record := r.makeMeasurementRecord(MeasurementDB{
		ID:              sql.NullString{String: "01HREC", Valid: true},
		CustomerID:      sql.NullString{String: "cust-1", Valid: true},
		DesignerID:      sql.NullString{String: "designer-1", Valid: true},
		Waist:           sql.NullFloat64{Float64: 72.5, Valid: true},
		Height:          sql.NullFloat64{Float64: 168, Valid: true},
		MeasurementType: sql.NullString{String: "ai_generated", Valid: true},
		IsActive:        sql.NullBool{Bool: true, Valid: true},
		CreatedAt:       now,
		UpdatedAt:       now,
	})

	require.Equal(t, "01HREC", record.ID)
	require.Equal(t, entity.MeasurementTypeAIGenerated, record.MeasurementType)
	require.True(t, record.IsActive)
	require.Nil(t, record.Bust)
	require.Nil(t, record.Inseam)
	require.Equal(t, 72.5, *record.Waist)
	require.Equal(t, map[string]float64{"waist": 72.5, "height": 168}, record.Values())
	require.Empty(t, record.Notes)
}

func TestNullHelpers(t *testing.T) {
	require.False(t, nullFloat(nil).Valid)

	v := 0.0
	require.Equal(t, sql.NullFloat64{Float64: 0, Valid: true}, nullFloat(&v))

	require.Nil(t, floatPtr(sql.NullFloat64{}))
	require.False(t, nullString("").Valid)
	require.True(t, nullString("note").Valid)
}

func TestNamedQueriesBind(t *testing.T) {
	query, args, err := sqlx.Named(queryGetLatestActiveMeasurement, map[string]interface{}{
		"customer_id":      "cust-1",
		"measurement_type": "manual",
		"exclude_id":       "01HREC",
	})
	require.NoError(t, err)
	require.Equal(t, []interface{}{"cust-1", "manual", "01HREC"}, args)

	query = sqlx.Rebind(sqlx.DOLLAR, query)
	require.True(t, strings.Contains(query, "customer_id = $1"))
	require.True(t, strings.Contains(query, "id <> $3"))

	_, args, err = sqlx.Named(queryCreateMeasurement, map[string]interface{}{
		"id": "x", "customer_id": "c", "designer_id": "d",
		"bust": nil, "waist": nil, "hips": nil, "chest": nil,
		"shoulder_width": nil, "arm_length": nil, "inseam": nil, "height": nil,
		"notes": nil, "measurement_type": "manual", "photo_url": nil,
		"is_active": true, "created_at": time.Now(), "updated_at": time.Now(),
	})
	require.NoError(t, err)
	require.Len(t, args, 17)
}
