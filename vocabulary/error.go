package vocabulary

import (
	"errors"
	"net/http"

	"github.com/resumatch/resumatch/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("VOCAB")

var (
	CodeVocabularyLoadFailed = ErrRegistry.Register("LOAD_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to load reference vocabulary")
	CodeInvalidVocabulary    = ErrRegistry.Register("INVALID", errx.TypeValidation, http.StatusInternalServerError, "Reference vocabulary is invalid")
	CodeEntryNotIndexed      = ErrRegistry.Register("NOT_INDEXED", errx.TypeNotFound, http.StatusNotFound, "Key is not present in the vector index")
	CodeIndexUnavailable     = ErrRegistry.Register("INDEX_UNAVAILABLE", errx.TypeInternal, http.StatusServiceUnavailable, "Vector index is unavailable")
	CodeIndexEmpty           = ErrRegistry.Register("INDEX_EMPTY", errx.TypeInternal, http.StatusServiceUnavailable, "Vector index contains no entries")
	CodeIndexBuildFailed     = ErrRegistry.Register("INDEX_BUILD_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to build vector index")
)

func ErrVocabularyLoadFailed() *errx.Error {
	return ErrRegistry.New(CodeVocabularyLoadFailed)
}

func ErrInvalidVocabulary() *errx.Error {
	return ErrRegistry.New(CodeInvalidVocabulary)
}

func ErrEntryNotIndexed() *errx.Error {
	return ErrRegistry.New(CodeEntryNotIndexed)
}

func ErrIndexUnavailable() *errx.Error {
	return ErrRegistry.New(CodeIndexUnavailable)
}

func ErrIndexEmpty() *errx.Error {
	return ErrRegistry.New(CodeIndexEmpty)
}

func ErrIndexBuildFailed() *errx.Error {
	return ErrRegistry.New(CodeIndexBuildFailed)
}

// IsNotIndexed reports whether err means the key is absent from the
// index, as opposed to an infrastructure failure.
func IsNotIndexed(err error) bool {
	var e *errx.Error
	if errors.As(err, &e) {
		return e.Code == CodeEntryNotIndexed
	}
	return false
}
