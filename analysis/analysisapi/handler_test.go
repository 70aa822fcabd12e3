package analysisapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resumatch/resumatch/analysis"
	"github.com/resumatch/resumatch/analysis/analysissrv"
	"github.com/resumatch/resumatch/internal/ai/ner"
	"github.com/resumatch/resumatch/pkg/errx"
	"github.com/resumatch/resumatch/pkg/fsx/fsxlocal"
	"github.com/resumatch/resumatch/pkg/kernel"
	"github.com/resumatch/resumatch/vocabulary"
	"github.com/resumatch/resumatch/vocabulary/vocabinfra"
)

type stubEmbedder struct{}

func (stubEmbedder) GenerateEmbedding(context.Context, string) ([]float32, error) {
	return nil, errors.New("embeddings unavailable in tests")
}

func (stubEmbedder) GenerateBatchEmbeddings(context.Context, []string) ([][]float32, error) {
	return nil, errors.New("embeddings unavailable in tests")
}

type stubQueue struct{}

func (stubQueue) Enqueue(context.Context, kernel.JobID) error { return nil }
func (stubQueue) Dequeue(context.Context, time.Duration) (kernel.JobID, error) {
	return "", nil
}
func (stubQueue) EnqueueDelayed(context.Context, kernel.JobID, time.Time) error { return nil }
func (stubQueue) MoveDueJobs(context.Context, time.Time) (int, error)           { return 0, nil }

type stubStore struct{}

func (stubStore) Save(context.Context, *analysis.AnalysisJob) error { return nil }
func (stubStore) Get(_ context.Context, id kernel.JobID) (*analysis.AnalysisJob, error) {
	return nil, analysis.ErrJobNotFound(id.String())
}
func (stubStore) Update(context.Context, *analysis.AnalysisJob) error { return nil }

func testApp(t *testing.T) *fiber.App {
	t.Helper()

	vocab := &vocabulary.Vocabulary{
		Version: "test",
		Skills: []vocabulary.Skill{
			{Key: "python", Display: "Python"},
		},
	}
	idx := vocabinfra.NewMemoryVectorIndex(nil)

	svc := analysissrv.NewService(
		ner.NewLexiconRecognizer(vocab),
		vocabulary.NewNormalizer(vocab),
		analysissrv.NewMatcher(idx, nil, 0.80),
		analysissrv.NewRoleClassifier(idx, stubEmbedder{}),
	)
	async := analysissrv.NewAsyncService(svc, stubStore{}, stubQueue{}, fsxlocal.NewLocalFileSystem(t.TempDir()))

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var e *errx.Error
			if errors.As(err, &e) {
				return c.Status(e.HTTPStatus).JSON(e.ToHTTPResponse())
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})
	NewAnalysisHandlers(svc, async).RegisterRoutes(app)
	return app
}

func TestPredictRoleShortTextIsUnknown(t *testing.T) {
	app := testApp(t)

	body, _ := json.Marshal(analysis.PredictRoleRequest{Text: "some role description text"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis/predict-role", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var out analysis.PredictRoleResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "unknown", out.Role)
}

func TestPredictRoleMissingText(t *testing.T) {
	app := testApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis/predict-role", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCompareMissingFiles(t *testing.T) {
	app := testApp(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis/compare", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCompareRejectsUnsupportedUpload(t *testing.T) {
	app := testApp(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("resume_file", "resume.txt")
	require.NoError(t, err)
	_, _ = part.Write([]byte("plain text resume"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis/compare", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestJobStatusNotFound(t *testing.T) {
	app := testApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analysis/jobs/does-not-exist", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
