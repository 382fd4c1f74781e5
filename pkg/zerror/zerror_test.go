package zerror_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/medical-inventory/pkg/zerror"
)

func TestZError(t *testing.T) {
	base := zerror.NewInternalServerError("MEDICINE_LIST_FAILED", "An error occurred while fetching medicines.")

	t.Run("Should format without parent", func(t *testing.T) {
		assert.Equal(t, "Code=MEDICINE_LIST_FAILED, Msg=An error occurred while fetching medicines.", base.Error())
	})

	t.Run("Should keep parent reachable through errors.Is", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := fmt.Errorf("list medicines: %w", base.WrapParent(cause))

		assert.ErrorIs(t, err, cause)
		assert.ErrorIs(t, err, base)

		var zErr zerror.ZError
		require.ErrorAs(t, err, &zErr)
		assert.Equal(t, zerror.StatusInternalServerError, zErr.Status())
		assert.Equal(t, cause, zErr.Parent())
	})

	t.Run("Should not replace parent with nil", func(t *testing.T) {
		cause := errors.New("boom")
		wrapped := base.WrapParent(cause).WrapParent(nil)
		assert.Equal(t, cause, wrapped.Parent())
	})

	t.Run("Should override message and keep code", func(t *testing.T) {
		other := base.WithMsg("Database connection failed.")
		assert.Equal(t, "Database connection failed.", other.Msg())
		assert.ErrorIs(t, other, base)
	})

	t.Run("Should not match a different code", func(t *testing.T) {
		other := zerror.NewBadRequest("INVALID_ID", "invalid id")
		assert.NotErrorIs(t, other, base)
	})
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "VALIDATION_FAILED", zerror.StatusValidationFailed.String())
	assert.Equal(t, "UNKNOWN", zerror.Status(200).String())
}
