package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/tuanvumaihuynh/medical-inventory/internal/apperr"
	"github.com/tuanvumaihuynh/medical-inventory/internal/service"
	"github.com/tuanvumaihuynh/medical-inventory/internal/storage/db"
	"github.com/tuanvumaihuynh/medical-inventory/pkg/ptr"
	"github.com/tuanvumaihuynh/medical-inventory/pkg/validator"
)

type medicineHandler struct {
	medicineSvc service.MedicineService
	validator   validator.Validator
}

func newMedicineHandler(medicineSvc service.MedicineService, v validator.Validator) *medicineHandler {
	return &medicineHandler{
		medicineSvc: medicineSvc,
		validator:   v,
	}
}

func (h *medicineHandler) ListMedicines(w http.ResponseWriter, r *http.Request) error {
	medicines, err := h.medicineSvc.ListMedicines(r.Context())
	if err != nil {
		if errors.Is(err, db.ErrConnAcquire) {
			return apperr.DatabaseConnectionErr.WrapParent(err)
		}
		return apperr.ListMedicinesErr.WrapParent(fmt.Errorf("medicine service list medicines: %w", err))
	}

	return writeJSON(w, http.StatusOK, toMedicineResponses(medicines))
}

func (h *medicineHandler) CreateMedicine(w http.ResponseWriter, r *http.Request) error {
	var req medicineRequest
	if err := decodeAndValidate(w, r, h.validator, &req, apperr.CreateMedicineErr); err != nil {
		return err
	}

	params, err := req.toParams()
	if err != nil {
		return apperr.CreateMedicineErr.WrapParent(err)
	}

	id, err := h.medicineSvc.CreateMedicine(r.Context(), params)
	if err != nil {
		return apperr.CreateMedicineErr.WrapParent(fmt.Errorf("medicine service create medicine: %w", err))
	}

	return writeJSON(w, http.StatusCreated, createMedicineResponse{
		Message:    "Medicine added successfully",
		MedicineID: id,
	})
}

func (h *medicineHandler) UpdateMedicine(w http.ResponseWriter, r *http.Request) error {
	id, err := bindPathID(r)
	if err != nil {
		return err
	}

	var req medicineRequest
	if err := decodeAndValidate(w, r, h.validator, &req, apperr.UpdateMedicineErr); err != nil {
		return err
	}

	params, err := req.toParams()
	if err != nil {
		return apperr.UpdateMedicineErr.WrapParent(err)
	}

	if err := h.medicineSvc.UpdateMedicine(r.Context(), id, params); err != nil {
		return apperr.UpdateMedicineErr.WrapParent(fmt.Errorf("medicine service update medicine: %w", err))
	}

	return writeJSON(w, http.StatusOK, messageResponse{Message: "Medicine updated successfully"})
}

func (h *medicineHandler) DeleteMedicine(w http.ResponseWriter, r *http.Request) error {
	id, err := bindPathID(r)
	if err != nil {
		return err
	}

	if err := h.medicineSvc.DeleteMedicine(r.Context(), id); err != nil {
		return apperr.DeleteMedicineErr.WrapParent(fmt.Errorf("medicine service delete medicine: %w", err))
	}

	return writeJSON(w, http.StatusOK, messageResponse{Message: "Medicine deleted successfully"})
}

func (h *medicineHandler) SearchMedicines(w http.ResponseWriter, r *http.Request) error {
	q, err := bindOptionalQuery(r, "q")
	if err != nil {
		return err
	}

	medicines, err := h.medicineSvc.SearchMedicines(r.Context(), ptr.ValueOr(q, ""))
	if err != nil {
		return apperr.SearchMedicinesErr.WrapParent(fmt.Errorf("medicine service search medicines: %w", err))
	}

	return writeJSON(w, http.StatusOK, toMedicineResponses(medicines))
}

func (h *medicineHandler) GetAlerts(w http.ResponseWriter, r *http.Request) error {
	alerts, err := h.medicineSvc.GetStockAlerts(r.Context())
	if err != nil {
		return apperr.FetchAlertsErr.WrapParent(fmt.Errorf("medicine service get stock alerts: %w", err))
	}

	return writeJSON(w, http.StatusOK, toAlertsResponse(alerts))
}
