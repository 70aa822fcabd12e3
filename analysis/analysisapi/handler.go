package analysisapi

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/resumatch/resumatch/analysis"
	"github.com/resumatch/resumatch/analysis/analysissrv"
	"github.com/resumatch/resumatch/pkg/kernel"
)

// maxUploadSize caps a single document upload.
const maxUploadSize = int64(10 * 1024 * 1024) // 10MB

type AnalysisHandlers struct {
	service *analysissrv.Service
	async   *analysissrv.AsyncService
}

func NewAnalysisHandlers(service *analysissrv.Service, async *analysissrv.AsyncService) *AnalysisHandlers {
	return &AnalysisHandlers{
		service: service,
		async:   async,
	}
}

func (h *AnalysisHandlers) RegisterRoutes(app *fiber.App) {
	api := app.Group("/api/v1/analysis")

	api.Post("/compare", h.Compare)            // Synchronous comparison
	api.Post("/compare/async", h.CompareAsync) // Queued comparison
	api.Get("/jobs/:job_id", h.GetJobStatus)   // Poll a queued comparison
	api.Post("/extract", h.Extract)            // Document extraction only
	api.Post("/predict-role", h.PredictRole)   // Role classification only
}

// Compare runs the full pipeline inline and returns the scored result.
// POST /api/v1/analysis/compare (multipart: resume_file, jd_file)
func (h *AnalysisHandlers) Compare(c *fiber.Ctx) error {
	resumeData, resumeFormat, err := readUpload(c, "resume_file")
	if err != nil {
		return err
	}
	jdData, jdFormat, err := readUpload(c, "jd_file")
	if err != nil {
		return err
	}

	resp, err := h.service.Compare(c.Context(), resumeData, resumeFormat, jdData, jdFormat)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// CompareAsync queues the comparison and returns the job id.
// POST /api/v1/analysis/compare/async (multipart: resume_file, jd_file)
func (h *AnalysisHandlers) CompareAsync(c *fiber.Ctx) error {
	resumeData, resumeFormat, err := readUpload(c, "resume_file")
	if err != nil {
		return err
	}
	jdData, jdFormat, err := readUpload(c, "jd_file")
	if err != nil {
		return err
	}

	resp, err := h.async.Submit(c.Context(), resumeData, resumeFormat, jdData, jdFormat)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusAccepted).JSON(resp)
}

// GetJobStatus reports a queued comparison's state.
// GET /api/v1/analysis/jobs/:job_id
func (h *AnalysisHandlers) GetJobStatus(c *fiber.Ctx) error {
	jobID := c.Params("job_id")
	if jobID == "" {
		return analysis.ErrMissingInput("job_id")
	}

	resp, err := h.async.Status(c.Context(), kernel.NewJobID(jobID))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Extract parses one document without matching.
// POST /api/v1/analysis/extract (multipart: file)
func (h *AnalysisHandlers) Extract(c *fiber.Ctx) error {
	data, format, err := readUpload(c, "file")
	if err != nil {
		return err
	}

	resp, err := h.service.Extract(c.Context(), data, format)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// PredictRole classifies free text against the role vocabulary.
// POST /api/v1/analysis/predict-role (json: {"text": ...})
func (h *AnalysisHandlers) PredictRole(c *fiber.Ctx) error {
	var req analysis.PredictRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return analysis.ErrMissingInput("text")
	}
	if req.Text == "" {
		return analysis.ErrMissingInput("text")
	}

	role := h.service.PredictRole(c.Context(), req.Text)
	return c.JSON(analysis.PredictRoleResponse{
		Role:       role.Label.String(),
		Similarity: role.Similarity,
	})
}

// readUpload pulls one multipart file, enforcing the size limit and
// resolving its document format from filename and content type.
func readUpload(c *fiber.Ctx, field string) ([]byte, kernel.DocumentFormat, error) {
	file, err := c.FormFile(field)
	if err != nil {
		return nil, "", analysis.ErrMissingInput(field)
	}
	if file.Size > maxUploadSize {
		return nil, "", analysis.ErrFileTooLarge(maxUploadSize)
	}

	format := kernel.FormatFromFile(file.Filename, file.Header.Get("Content-Type"))
	if !format.IsSupported() {
		return nil, "", analysis.ErrUnsupportedFormat(string(format)).
			WithDetail("filename", file.Filename).
			WithDetail("content_type", file.Header.Get("Content-Type"))
	}

	f, err := file.Open()
	if err != nil {
		return nil, "", analysis.ErrStorageFailed(err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadSize+1))
	if err != nil {
		return nil, "", analysis.ErrStorageFailed(err)
	}
	if int64(len(data)) > maxUploadSize {
		return nil, "", analysis.ErrFileTooLarge(maxUploadSize)
	}
	return data, format, nil
}
