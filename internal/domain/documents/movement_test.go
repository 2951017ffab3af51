package documents

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HuyKhos/lamanh-shop-app/internal/core/apperror"
)

func TestNormalizeIdempotencyKey(t *testing.T) {
	key, err := NormalizeIdempotencyKey("  abc-123 ")
	require.NoError(t, err)
	assert.Equal(t, "abc-123", key)

	_, err = NormalizeIdempotencyKey("   ")
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))

	_, err = NormalizeIdempotencyKey(strings.Repeat("k", 200))
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
}

func TestRejectionReason(t *testing.T) {
	assert.Equal(t, "insufficient_stock", RejectionReason(apperror.NewInsufficientStock("p", "P", 2, 1)))
	assert.Equal(t, "insufficient_points", RejectionReason(apperror.NewInsufficientPoints("c", 1, -2)))
	assert.Equal(t, "duplicate", RejectionReason(apperror.NewDuplicateSubmission("k")))
	assert.Equal(t, "not_found", RejectionReason(apperror.NewNotFound("partner", "x")))
	assert.Equal(t, "internal", RejectionReason(errors.New("boom")))
}
