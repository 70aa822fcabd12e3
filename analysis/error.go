package analysis

import "github.com/resumatch/resumatch/pkg/errx"

var ErrRegistry = errx.NewRegistry("ANALYSIS")

var (
	CodeMissingInput      = ErrRegistry.Register("MISSING_INPUT", errx.TypeValidation, 400, "Required document is missing")
	CodeUnsupportedFormat = ErrRegistry.Register("UNSUPPORTED_FORMAT", errx.TypeValidation, 400, "Document format is not supported")
	CodeCorruptDocument   = ErrRegistry.Register("CORRUPT_DOCUMENT", errx.TypeValidation, 422, "Document cannot be decoded")
	CodeFileTooLarge      = ErrRegistry.Register("FILE_TOO_LARGE", errx.TypeValidation, 413, "Document exceeds the size limit")
	CodeRecognitionFailed = ErrRegistry.Register("RECOGNITION_FAILED", errx.TypeExternal, 502, "Entity recognition failed")
	CodeEmbeddingFailed   = ErrRegistry.Register("EMBEDDING_FAILED", errx.TypeExternal, 502, "Embedding generation failed")
	CodeJobNotFound       = ErrRegistry.Register("JOB_NOT_FOUND", errx.TypeNotFound, 404, "Analysis job not found")
	CodeJobEnqueueFailed  = ErrRegistry.Register("JOB_ENQUEUE_FAILED", errx.TypeInternal, 500, "Failed to enqueue analysis job")
	CodeJobUpdateFailed   = ErrRegistry.Register("JOB_UPDATE_FAILED", errx.TypeInternal, 500, "Failed to update analysis job")
	CodeInvalidTransition = ErrRegistry.Register("INVALID_TRANSITION", errx.TypeBusiness, 409, "Invalid job status transition")
	CodeStorageFailed     = ErrRegistry.Register("STORAGE_FAILED", errx.TypeInternal, 500, "Document storage operation failed")
)

func ErrMissingInput(field string) *errx.Error {
	return ErrRegistry.New(CodeMissingInput).WithDetail("field", field)
}

func ErrUnsupportedFormat(format string) *errx.Error {
	return ErrRegistry.New(CodeUnsupportedFormat).WithDetail("format", format)
}

func ErrCorruptDocument(cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeCorruptDocument, cause)
}

func ErrFileTooLarge(limit int64) *errx.Error {
	return ErrRegistry.New(CodeFileTooLarge).WithDetail("limit_bytes", limit)
}

func ErrRecognitionFailed(cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeRecognitionFailed, cause)
}

func ErrEmbeddingFailed(cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeEmbeddingFailed, cause)
}

func ErrJobNotFound(id string) *errx.Error {
	return ErrRegistry.New(CodeJobNotFound).WithDetail("job_id", id)
}

func ErrJobEnqueueFailed(cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeJobEnqueueFailed, cause)
}

func ErrJobUpdateFailed(cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeJobUpdateFailed, cause)
}

func ErrInvalidTransition(from, to string) *errx.Error {
	return ErrRegistry.New(CodeInvalidTransition).
		WithDetail("from", from).
		WithDetail("to", to)
}

func ErrStorageFailed(cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeStorageFailed, cause)
}
