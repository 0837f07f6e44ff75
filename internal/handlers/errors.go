package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/balance_ledger/internal/apperrors"
	"github.com/gin-gonic/gin"
)

// statusForError maps application error kinds onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrPolicy):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrDuplicate), errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondWithError writes the error response for a failed service call. Client errors
// echo the message; server errors log it and return fallback instead.
func respondWithError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": fallback})
		return
	}
	logger.Warn(fallback, slog.String("error", err.Error()), slog.Int("status", status))
	c.JSON(status, gin.H{"error": err.Error()})
}

func respondBadRequest(c *gin.Context, logger *slog.Logger, prefix string, err error) {
	logger.Warn(prefix, slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, gin.H{"error": prefix + ": " + err.Error()})
}
