package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/tuanvumaihuynh/medical-inventory/internal/apperr"
	"github.com/tuanvumaihuynh/medical-inventory/pkg/validator"
	"github.com/tuanvumaihuynh/medical-inventory/pkg/zerror"
)

const maxBodyBytes = 1 << 20

// bindPathID binds the {id} path parameter as a simple-style int64.
func bindPathID(r *http.Request) (int64, error) {
	var id int64
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		return 0, apperr.InvalidParamErr.
			WithMsg(fmt.Sprintf("Invalid format for parameter id: %s", err)).
			WrapParent(err)
	}
	return id, nil
}

// bindOptionalQuery binds an optional form-style string query parameter.
func bindOptionalQuery(r *http.Request, name string) (*string, error) {
	var value *string
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &value); err != nil {
		return nil, apperr.InvalidParamErr.
			WithMsg(fmt.Sprintf("Invalid format for parameter %s: %s", name, err)).
			WrapParent(err)
	}
	return value, nil
}

// decodeAndValidate reports every body failure as opErr, the same error the
// operation returns for a storage failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v validator.Validator, dst any, opErr zerror.ZError) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return opErr.WrapParent(fmt.Errorf("decode request body: %w", err))
	}

	if err := v.Validate(dst); err != nil {
		return opErr.WrapParent(fmt.Errorf("validate request body: %w", err))
	}

	return nil
}
