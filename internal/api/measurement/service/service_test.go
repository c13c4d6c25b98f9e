package measurementService

import (
	"BodyMeasure/internal/api/measurement"
	measurementRepository "BodyMeasure/internal/api/measurement/repository"
	"BodyMeasure/internal/entity"
	"BodyMeasure/pkg/bodymetrics"
	"BodyMeasure/pkg/redis"
	"BodyMeasure/pkg/stats"
	"BodyMeasure/pkg/utils"
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/context"
)

const (
	testWidth  = 400
	testHeight = 600
)

func ptr(v float64) *float64 { return &v }

// standingPose is a full-body figure in normalized coordinates for a
// testWidth x testHeight image. Nose to left ankle is 460px.
func standingPose() []entity.Landmark {
	vis := ptr(1.0)
	lms := make([]entity.Landmark, entity.LandmarkCount)
	set := func(i entity.LandmarkIndex, x, y float64) {
		lms[i] = entity.Landmark{X: x / testWidth, Y: y / testHeight, Visibility: vis}
	}
	for i := range lms {
		set(entity.LandmarkIndex(i), 200, 100)
	}
	set(entity.Nose, 170, 70)
	set(entity.LeftShoulder, 150, 140)
	set(entity.RightShoulder, 250, 140)
	set(entity.LeftElbow, 130, 200)
	set(entity.LeftWrist, 150, 260)
	set(entity.RightWrist, 280, 260)
	set(entity.LeftHip, 150, 300)
	set(entity.RightHip, 250, 300)
	set(entity.LeftKnee, 160, 420)
	set(entity.RightKnee, 240, 420)
	set(entity.LeftAnkle, 170, 530)
	set(entity.RightAnkle, 230, 530)
	return lms
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

type fakePose struct {
	detection *entity.PoseDetection
	err       error
	calls     int
	mu        sync.Mutex
}

func (f *fakePose) Detect(ctx context.Context, image []byte) (*entity.PoseDetection, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.detection, f.err
}

func (f *fakePose) IsConnected() bool { return f.err == nil }
func (f *fakePose) Reconnect() error  { return nil }
func (f *fakePose) Close()            {}

type fakeRedis struct {
	mu      sync.Mutex
	entries map[string][]byte
	ttls    map[string]time.Duration
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{entries: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Ping(ctx context.Context) error { return nil }

func (f *fakeRedis) StageResult(ctx context.Context, id string, payload interface{}, ttl time.Duration) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[id] = data
	f.ttls[id] = ttl
	return nil
}

func (f *fakeRedis) GetStagedResult(ctx context.Context, id string, dest interface{}) error {
	f.mu.Lock()
	data, ok := f.entries[id]
	f.mu.Unlock()
	if !ok {
		return redis.ErrNotFound
	}
	return json.Unmarshal(data, dest)
}

func (f *fakeRedis) DeleteStagedResult(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, id)
	return nil
}

type fakeS3 struct {
	err      error
	uploaded []string
}

func (f *fakeS3) UploadImage(data []byte, fileName string, contentType string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.uploaded = append(f.uploaded, fileName)
	return "https://bucket.s3.amazonaws.com/measurement-photos/" + fileName, nil
}

type fakeStore struct {
	mu      sync.Mutex
	records []entity.MeasurementRecord
}

func (f *fakeStore) CreateMeasurement(c context.Context, record entity.MeasurementRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, record)
	return nil
}

func (f *fakeStore) GetMeasurementByID(c context.Context, id string) (entity.MeasurementRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if r.ID == id {
			return r, nil
		}
	}
	return entity.MeasurementRecord{}, measurement.ErrRecordNotFound
}

func (f *fakeStore) GetActiveMeasurementsByCustomer(c context.Context, customerID string) ([]entity.MeasurementRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.MeasurementRecord
	for _, r := range f.records {
		if r.CustomerID == customerID && r.IsActive {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) GetLatestActiveMeasurement(c context.Context, customerID string, measurementType entity.MeasurementType, excludeID string) (entity.MeasurementRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.records) - 1; i >= 0; i-- {
		r := f.records[i]
		if r.CustomerID == customerID && r.MeasurementType == measurementType && r.IsActive && r.ID != excludeID {
			return r, nil
		}
	}
	return entity.MeasurementRecord{}, measurement.ErrRecordNotFound
}

func (f *fakeStore) DeactivateMeasurements(c context.Context, customerID string, designerID string, measurementType entity.MeasurementType) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for i := range f.records {
		r := &f.records[i]
		if r.CustomerID == customerID && r.DesignerID == designerID && r.MeasurementType == measurementType && r.IsActive {
			r.IsActive = false
			n++
		}
	}
	return n, nil
}

type fakeRepository struct {
	store     *fakeStore
	commits   int
	rollbacks int
	clientErr error
}

func (f *fakeRepository) NewClient(tx bool) (measurementRepository.Client, error) {
	if f.clientErr != nil {
		return measurementRepository.Client{}, f.clientErr
	}
	return measurementRepository.Client{
		Measurement: f.store,
		Commit: func() error {
			f.commits++
			return nil
		},
		Rollback: func() error {
			f.rollbacks++
			return nil
		},
	}, nil
}

type testEnv struct {
	svc   IMeasurementService
	pose  *fakePose
	redis *fakeRedis
	s3    *fakeS3
	repo  *fakeRepository
	stats *stats.Aggregator
}

func newTestEnv(t *testing.T, mutate func(*Options)) *testEnv {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	opts := DefaultOptions()
	if mutate != nil {
		mutate(&opts)
	}

	env := &testEnv{
		pose:  &fakePose{detection: &entity.PoseDetection{Landmarks: standingPose()}},
		redis: newFakeRedis(),
		s3:    &fakeS3{},
		repo:  &fakeRepository{store: &fakeStore{}},
		stats: stats.New(),
	}
	env.svc = NewMeasurementService(
		log,
		env.repo,
		env.redis,
		env.s3,
		env.pose,
		bodymetrics.NewEngine(bodymetrics.DefaultConfig()),
		bodymetrics.NewValidator(bodymetrics.DefaultValidationConfig()),
		env.stats,
		utils.NewWithMaxFileSize(opts.MaxFileSize),
		opts,
	)
	return env
}

func (e *testEnv) extract(t *testing.T, customerID string) measurement.ExtractResponse {
	t.Helper()
	resp, err := e.svc.ExtractBase64(context.Background(), measurement.ExtractRequest{
		ImageData:       base64.StdEncoding.EncodeToString(encodePNG(t, testWidth, testHeight)),
		ImageType:       "image/png",
		CustomerID:      customerID,
		ReferenceHeight: ptr(184),
	})
	require.NoError(t, err)
	require.True(t, resp.Success)
	return resp
}

func TestExtractBase64_Success(t *testing.T) {
	env := newTestEnv(t, nil)

	resp := env.extract(t, "cust-1")

	require.Len(t, resp.Measurements, 7)
	require.Equal(t, testWidth, resp.ImageWidth)
	require.Equal(t, testHeight, resp.ImageHeight)
	require.InDelta(t, 184.0, resp.Measurements[0].Value, 1e-6)
	require.Greater(t, resp.ProcessingTime, 0.0)
	require.NotEmpty(t, resp.ResultID)
	require.Equal(t, 24*time.Hour, env.redis.ttls[resp.ResultID])

	snapshot := env.stats.Snapshot()
	require.EqualValues(t, 1, snapshot.TotalRequests)
	require.EqualValues(t, 1, snapshot.SuccessfulRequests)
}

func TestExtractBase64_RejectsUnsupportedType(t *testing.T) {
	env := newTestEnv(t, nil)

	_, err := env.svc.ExtractBase64(context.Background(), measurement.ExtractRequest{
		ImageData: base64.StdEncoding.EncodeToString(encodePNG(t, 10, 10)),
		ImageType: "image/gif",
	})
	require.ErrorIs(t, err, measurement.ErrUnsupportedImageType)
	require.Zero(t, env.pose.calls)
	require.EqualValues(t, 1, env.stats.Snapshot().FailedRequests)
}

func TestExtractBase64_RejectsInvalidBase64(t *testing.T) {
	env := newTestEnv(t, nil)

	_, err := env.svc.ExtractBase64(context.Background(), measurement.ExtractRequest{
		ImageData: "invalid_base64_data!!",
		ImageType: "image/jpeg",
	})
	require.ErrorIs(t, err, measurement.ErrInvalidImageData)
	require.Zero(t, env.pose.calls)
}

func TestExtractBase64_RejectsOversizedImage(t *testing.T) {
	env := newTestEnv(t, func(o *Options) { o.MaxFileSize = 16 })

	_, err := env.svc.ExtractBase64(context.Background(), measurement.ExtractRequest{
		ImageData: base64.StdEncoding.EncodeToString(encodePNG(t, 10, 10)),
		ImageType: "image/png",
	})
	require.ErrorIs(t, err, measurement.ErrFileTooLarge)
	require.Zero(t, env.pose.calls)
}

func TestExtractImage_RejectsOversizedImage(t *testing.T) {
	env := newTestEnv(t, func(o *Options) { o.MaxFileSize = 16 })

	_, err := env.svc.ExtractImage(context.Background(), measurement.ImageInput{
		Data:        encodePNG(t, 10, 10),
		ContentType: "image/png",
	})
	require.ErrorIs(t, err, measurement.ErrFileTooLarge)
}

func TestExtractImage_RejectsUndecodableImage(t *testing.T) {
	env := newTestEnv(t, nil)

	_, err := env.svc.ExtractImage(context.Background(), measurement.ImageInput{
		Data:        []byte("definitely not a png"),
		ContentType: "image/png",
	})
	require.ErrorIs(t, err, measurement.ErrInvalidImageData)
}

func TestExtractImage_NoPoseDetected(t *testing.T) {
	env := newTestEnv(t, nil)
	env.pose.detection = &entity.PoseDetection{}

	resp, err := env.svc.ExtractImage(context.Background(), measurement.ImageInput{
		Data:        encodePNG(t, testWidth, testHeight),
		ContentType: "image/png",
		Stage:       true,
	})
	require.NoError(t, err)
	require.False(t, resp.Success)
	require.Equal(t, []string{bodymetrics.NoPoseDetectedMessage}, resp.Errors)
	require.Empty(t, resp.ResultID)
	require.EqualValues(t, 1, env.stats.Snapshot().FailedRequests)
}

func TestExtractImage_PoseServiceError(t *testing.T) {
	env := newTestEnv(t, nil)
	env.pose.err = errors.New("connection refused")

	resp, err := env.svc.ExtractImage(context.Background(), measurement.ImageInput{
		Data:        encodePNG(t, testWidth, testHeight),
		ContentType: "image/png",
	})
	require.NoError(t, err)
	require.False(t, resp.Success)
	require.Equal(t, []string{"Pose estimation error: connection refused"}, resp.Errors)
}

func TestExtractImage_ArchivesPhoto(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, err := env.svc.ExtractImage(context.Background(), measurement.ImageInput{
		Data:        encodePNG(t, testWidth, testHeight),
		ContentType: "image/png",
		Filename:    "front.png",
		Archive:     true,
	})
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.Equal(t, []string{"front.png"}, env.s3.uploaded)
	require.Contains(t, resp.PhotoURL, "front.png")
}

func TestExtractImage_ArchiveFailureIsAWarning(t *testing.T) {
	env := newTestEnv(t, nil)
	env.s3.err = errors.New("access denied")

	resp, err := env.svc.ExtractImage(context.Background(), measurement.ImageInput{
		Data:        encodePNG(t, testWidth, testHeight),
		ContentType: "image/png",
		Archive:     true,
	})
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.Empty(t, resp.PhotoURL)
	require.Contains(t, resp.Warnings, "Photo archive failed: access denied")
}

func TestProcessFrame(t *testing.T) {
	env := newTestEnv(t, nil)

	set := env.svc.ProcessFrame(context.Background(), encodePNG(t, testWidth, testHeight), nil)
	require.True(t, set.Success)
	require.InDelta(t, 170.0, set.Measurements[0].Value, 1e-6)

	set = env.svc.ProcessFrame(context.Background(), []byte{0x01, 0x02}, nil)
	require.False(t, set.Success)
	require.NotEmpty(t, set.Errors)
}

func TestProcessFrame_RejectsOversizedFrame(t *testing.T) {
	env := newTestEnv(t, func(o *Options) { o.MaxFileSize = 64 })

	frame := encodePNG(t, testWidth, testHeight)
	require.Greater(t, len(frame), 64)

	set := env.svc.ProcessFrame(context.Background(), frame, nil)
	require.False(t, set.Success)
	require.Equal(t, []string{"Image exceeds maximum file size"}, set.Errors)
	require.Zero(t, env.pose.calls)
	require.EqualValues(t, 1, env.stats.Snapshot().FailedRequests)
}

func TestExtractBatch_PreservesOrderAndCounts(t *testing.T) {
	env := newTestEnv(t, func(o *Options) { o.BatchConcurrency = 2 })
	good := base64.StdEncoding.EncodeToString(encodePNG(t, testWidth, testHeight))

	resp, err := env.svc.ExtractBatch(context.Background(), measurement.BatchRequest{
		Images: []measurement.ExtractRequest{
			{ImageData: good, ImageType: "image/png"},
			{ImageData: "invalid_base64_data!!", ImageType: "image/png"},
			{ImageData: good, ImageType: "image/png"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 3, resp.TotalImages)
	require.Equal(t, 2, resp.SuccessfulExtractions)
	require.Equal(t, 1, resp.FailedExtractions)
	require.Len(t, resp.Results, 3)
	require.True(t, resp.Results[0].Success)
	require.False(t, resp.Results[1].Success)
	require.Equal(t, []string{"Processing error: invalid image data"}, resp.Results[1].Errors)
	require.True(t, resp.Results[2].Success)
	require.GreaterOrEqual(t, resp.BatchProcessingTime, 0.0)
}

func TestExtractBatch_TooLarge(t *testing.T) {
	env := newTestEnv(t, func(o *Options) { o.MaxBatchSize = 1 })

	_, err := env.svc.ExtractBatch(context.Background(), measurement.BatchRequest{
		Images: []measurement.ExtractRequest{{ImageData: "a"}, {ImageData: "b"}},
	})
	require.ErrorIs(t, err, measurement.ErrBatchTooLarge)
	require.Zero(t, env.pose.calls)
}

func TestValidate(t *testing.T) {
	env := newTestEnv(t, nil)

	result := env.svc.Validate(context.Background(), measurement.ValidateRequest{
		AIMeasurements:        map[string]float64{"waist": 105, "hips": 95},
		ReferenceMeasurements: map[string]float64{"waist": 100, "hips": 100},
	})
	require.Equal(t, 2, result.ComparedFields)
	require.Equal(t, 2, result.AcceptableMeasurements)
	require.True(t, result.Passed)
}

func TestModelInfo(t *testing.T) {
	env := newTestEnv(t, nil)

	info := env.svc.ModelInfo()
	require.Equal(t, entity.LandmarkCount, info.PoseModel.SupportedLandmarks)
	require.Len(t, info.PoseModel.Landmarks, entity.LandmarkCount)
	require.Equal(t, bodymetrics.CatalogNames(), info.MeasurementCapabilities.SupportedMeasurements)
}

func TestCreateRecord_DeactivatesPreviousManualRecord(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	first, err := env.svc.CreateRecord(ctx, "designer-1", measurement.CreateRecordRequest{
		CustomerID: "cust-1",
		Waist:      ptr(80),
	})
	require.NoError(t, err)
	require.Equal(t, entity.MeasurementTypeManual, first.MeasurementType)

	second, err := env.svc.CreateRecord(ctx, "designer-1", measurement.CreateRecordRequest{
		CustomerID: "cust-1",
		Waist:      ptr(82),
	})
	require.NoError(t, err)

	records, err := env.svc.GetCustomerRecords(ctx, "cust-1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, second.ID, records[0].ID)
	require.Equal(t, 2, env.repo.commits)
}

func TestCreateRecord_RejectsOutOfRangeValue(t *testing.T) {
	env := newTestEnv(t, nil)

	_, err := env.svc.CreateRecord(context.Background(), "designer-1", measurement.CreateRecordRequest{
		CustomerID: "cust-1",
		Height:     ptr(450),
	})
	require.ErrorIs(t, err, measurement.ErrInvalidRecord)
	require.Contains(t, err.Error(), "height must be between 0 and 300")
	require.Empty(t, env.repo.store.records)
}

func TestGetRecord(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	_, err := env.svc.GetRecord(ctx, "missing")
	require.ErrorIs(t, err, measurement.ErrRecordNotFound)

	created, err := env.svc.CreateRecord(ctx, "designer-1", measurement.CreateRecordRequest{CustomerID: "cust-1"})
	require.NoError(t, err)

	got, err := env.svc.GetRecord(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, got.ID)
}

func TestGetRecord_RepositoryUnavailable(t *testing.T) {
	env := newTestEnv(t, nil)
	env.repo.clientErr = errors.New("connection reset")

	_, err := env.svc.GetRecord(context.Background(), "any")
	require.ErrorIs(t, err, measurement.ErrInternalServerError)
}

func TestGetCustomerRecords_RequiresCustomer(t *testing.T) {
	env := newTestEnv(t, nil)

	_, err := env.svc.GetCustomerRecords(context.Background(), "")
	require.ErrorIs(t, err, measurement.ErrCustomerRequired)
}

func TestSaveAIResult_WithoutManualRecord(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	staged := env.extract(t, "cust-1")

	resp, err := env.svc.SaveAIResult(ctx, "designer-1", staged.ResultID, measurement.SaveAIResultRequest{Notes: "front pose"})
	require.NoError(t, err)

	require.Equal(t, []string{"height", "shoulder_width", "arm_length", "waist", "hips", "inseam"}, resp.AppliedMeasurements)
	require.Equal(t, entity.MeasurementTypeAIGenerated, resp.Record.MeasurementType)
	require.Equal(t, "cust-1", resp.Record.CustomerID)
	require.NotNil(t, resp.Record.Height)
	require.InDelta(t, 184.0, *resp.Record.Height, 1e-6)
	require.Nil(t, resp.Record.Bust)
	require.Contains(t, resp.Record.Notes, "AI-generated measurements. Confidence:")
	require.Contains(t, resp.Record.Notes, "Measurements applied: 6/7")
	require.Contains(t, resp.Record.Notes, "front pose")

	require.False(t, resp.Validation.Available)
	require.Equal(t, NoManualMeasurementsMessage, resp.Validation.Message)

	_, err = env.svc.SaveAIResult(ctx, "designer-1", staged.ResultID, measurement.SaveAIResultRequest{})
	require.ErrorIs(t, err, measurement.ErrResultNotFound)
}

func TestSaveAIResult_ValidatesAgainstManualRecord(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	_, err := env.svc.CreateRecord(ctx, "designer-1", measurement.CreateRecordRequest{
		CustomerID: "cust-1",
		Height:     ptr(180),
		Hips:       ptr(60),
	})
	require.NoError(t, err)

	staged := env.extract(t, "cust-1")
	resp, err := env.svc.SaveAIResult(ctx, "designer-1", staged.ResultID, measurement.SaveAIResultRequest{})
	require.NoError(t, err)

	require.True(t, resp.Validation.Available)
	require.Equal(t, 2, resp.Validation.ComparedFields)

	records, err := env.svc.GetCustomerRecords(ctx, "cust-1")
	require.NoError(t, err)
	require.Len(t, records, 2)

	validation, err := env.svc.ValidateRecord(ctx, resp.Record.ID)
	require.NoError(t, err)
	require.Equal(t, resp.Record.ID, validation.RecordID)
	require.Equal(t, resp.Validation.ComparedFields, validation.Validation.ComparedFields)
}

func TestSaveAIResult_RequiresCustomer(t *testing.T) {
	env := newTestEnv(t, nil)
	staged := env.extract(t, "")

	_, err := env.svc.SaveAIResult(context.Background(), "designer-1", staged.ResultID, measurement.SaveAIResultRequest{})
	require.ErrorIs(t, err, measurement.ErrCustomerRequired)

	resp, err := env.svc.SaveAIResult(context.Background(), "designer-1", staged.ResultID, measurement.SaveAIResultRequest{CustomerID: "cust-9"})
	require.NoError(t, err)
	require.Equal(t, "cust-9", resp.Record.CustomerID)
}

func TestSaveAIResult_StagingUnavailable(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	svc := NewMeasurementService(log, &fakeRepository{store: &fakeStore{}}, nil, nil, &fakePose{},
		bodymetrics.NewEngine(bodymetrics.DefaultConfig()),
		bodymetrics.NewValidator(bodymetrics.DefaultValidationConfig()),
		stats.New(), utils.New(), DefaultOptions())

	_, err := svc.SaveAIResult(context.Background(), "designer-1", "any", measurement.SaveAIResultRequest{})
	require.ErrorIs(t, err, measurement.ErrStagingUnavailable)
}

func TestApplyMeasurements_SkipsLowConfidenceAndUnknownFields(t *testing.T) {
	var record entity.MeasurementRecord

	applied := applyMeasurements(&record, []entity.MeasurementResult{
		{Name: entity.MeasurementHeight, Value: 170, Confidence: 0.9},
		{Name: entity.MeasurementWaist, Value: 70, Confidence: 0.4},
		{Name: entity.MeasurementTorsoLength, Value: 50, Confidence: 0.8},
		{Name: entity.MeasurementHips, Value: 90, Confidence: 0.5},
	})

	require.Equal(t, []string{"height", "hips"}, applied)
	require.Nil(t, record.Waist)
	require.InDelta(t, 90.0, *record.Hips, 1e-9)
}

func TestAIRecordNotes_CapsRecommendations(t *testing.T) {
	notes := aiRecordNotes(entity.MeasurementSet{
		OverallAccuracy: 0.856,
		ProcessingTime:  1.234,
		PoseConfidence:  0.9,
		Measurements:    make([]entity.MeasurementResult, 7),
		Recommendations: []string{"a", "b", "c", "d"},
	}, 6, "")

	require.Contains(t, notes, "Confidence: 0.86")
	require.Contains(t, notes, "- Processing time: 1.23s")
	require.Contains(t, notes, "\n- c")
	require.NotContains(t, notes, "\n- d")
}
