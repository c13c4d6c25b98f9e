package measurementRepository

import (
	"BodyMeasure/internal/entity"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type SQLExecutor interface {
	sqlx.ExtContext
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
	Rebind(query string) string
}

func New(db *sqlx.DB, log *logrus.Logger) Repository {
	return &repository{
		DB:  db,
		log: log,
	}
}

type repository struct {
	DB  *sqlx.DB
	log *logrus.Logger
}

type Repository interface {
	NewClient(tx bool) (Client, error)
}

func (r *repository) NewClient(tx bool) (Client, error) {
	var sqlExecutor SQLExecutor
	var commitFunc, rollbackFunc func() error

	sqlExecutor = r.DB

	if tx {
		txx, err := r.DB.Beginx()
		if err != nil {
			return Client{}, err
		}

		sqlExecutor = txx
		commitFunc = txx.Commit
		rollbackFunc = txx.Rollback
	} else {
		commitFunc = func() error { return nil }
		rollbackFunc = func() error { return nil }
	}

	return Client{
		Measurement: &measurementRepository{q: sqlExecutor, log: r.log},
		Commit:      commitFunc,
		Rollback:    rollbackFunc,
	}, nil
}

type MeasurementStore interface {
	CreateMeasurement(c context.Context, record entity.MeasurementRecord) error
	GetMeasurementByID(c context.Context, id string) (entity.MeasurementRecord, error)
	GetActiveMeasurementsByCustomer(c context.Context, customerID string) ([]entity.MeasurementRecord, error)
	GetLatestActiveMeasurement(c context.Context, customerID string, measurementType entity.MeasurementType, excludeID string) (entity.MeasurementRecord, error)
	DeactivateMeasurements(c context.Context, customerID string, designerID string, measurementType entity.MeasurementType) (int64, error)
}

type Client struct {
	Measurement MeasurementStore

	Commit   func() error
	Rollback func() error
}

type measurementRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}
