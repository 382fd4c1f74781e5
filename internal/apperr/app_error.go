package apperr

import "github.com/tuanvumaihuynh/medical-inventory/pkg/zerror"

const (
	InvalidParamCode        = "INVALID_PARAM"
	DatabaseUnavailableCode = "DATABASE_UNAVAILABLE"
	ServiceUnhealthyCode    = "SERVICE_UNHEALTHY"

	ListMedicinesFailedCode   = "MEDICINE_LIST_FAILED"
	CreateMedicineFailedCode  = "MEDICINE_CREATE_FAILED"
	UpdateMedicineFailedCode  = "MEDICINE_UPDATE_FAILED"
	DeleteMedicineFailedCode  = "MEDICINE_DELETE_FAILED"
	SearchMedicinesFailedCode = "MEDICINE_SEARCH_FAILED"
	FetchAlertsFailedCode     = "ALERT_FETCH_FAILED"
	ListUsersFailedCode       = "USER_LIST_FAILED"
)

var (
	InvalidParamErr       = zerror.NewBadRequest(InvalidParamCode, "invalid parameter")
	DatabaseConnectionErr = zerror.NewInternalServerError(DatabaseUnavailableCode, "Database connection failed.")
	ServiceUnhealthyErr   = zerror.NewServiceUnavailable(ServiceUnhealthyCode, "service unhealthy")

	ListMedicinesErr   = zerror.NewInternalServerError(ListMedicinesFailedCode, "An error occurred while fetching medicines.")
	CreateMedicineErr  = zerror.NewInternalServerError(CreateMedicineFailedCode, "Error adding medicine")
	UpdateMedicineErr  = zerror.NewInternalServerError(UpdateMedicineFailedCode, "Error updating medicine")
	DeleteMedicineErr  = zerror.NewInternalServerError(DeleteMedicineFailedCode, "Error deleting medicine")
	SearchMedicinesErr = zerror.NewInternalServerError(SearchMedicinesFailedCode, "Error searching medicines")
	FetchAlertsErr     = zerror.NewInternalServerError(FetchAlertsFailedCode, "Error fetching alerts")
	ListUsersErr       = zerror.NewInternalServerError(ListUsersFailedCode, "Error fetching users")
)
