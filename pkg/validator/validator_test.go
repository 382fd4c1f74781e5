package validator_test

import (
	"errors"
	"testing"

	govalidator "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/medical-inventory/pkg/validator"
)

type medicineBody struct {
	Name       *string `json:"name" validate:"required"`
	ExpiryDate *string `json:"expiry_date" validate:"required,isodate"`
	Quantity   *int32  `json:"quantity" validate:"required"`
}

func TestDefaultValidator(t *testing.T) {
	v, err := validator.NewDefaultValidator()
	require.NoError(t, err)

	name := "Aspirin"
	date := "2026-11-01"
	zero := int32(0)

	t.Run("Should accept a complete body with zero quantity", func(t *testing.T) {
		err := v.Validate(medicineBody{Name: &name, ExpiryDate: &date, Quantity: &zero})
		assert.NoError(t, err)
	})

	t.Run("Should report missing fields by json name", func(t *testing.T) {
		err := v.Validate(medicineBody{Name: &name})
		require.Error(t, err)

		var verrs govalidator.ValidationErrors
		require.True(t, errors.As(err, &verrs))

		fields := map[string]string{}
		for _, fe := range verrs {
			fields[fe.Field()] = validator.ValidationErrorMessage(fe)
		}
		assert.Equal(t, map[string]string{
			"expiry_date": "field is required",
			"quantity":    "field is required",
		}, fields)
	})

	t.Run("Should reject malformed dates", func(t *testing.T) {
		bad := "01/11/2026"
		err := v.Validate(medicineBody{Name: &name, ExpiryDate: &bad, Quantity: &zero})
		require.Error(t, err)

		var verrs govalidator.ValidationErrors
		require.True(t, errors.As(err, &verrs))
		require.Len(t, verrs, 1)
		assert.Equal(t, "must be a date in YYYY-MM-DD format", validator.ValidationErrorMessage(verrs[0]))
	})
}
