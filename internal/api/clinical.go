package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/clinichq/clinic-management/internal/clinical"
)

func createDiagnosticHandler(svc *clinical.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req DiagnosticRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		d, err := svc.CreateDiagnostic(r.Context(), requester(r), clinical.DiagnosticInput{
			Report:         req.Report,
			ConsultationID: req.ConsultationID,
			ConditionID:    req.ConditionID,
			SurgeryID:      req.SurgeryID,
			OperationDate:  req.OperationDate,
		})
		if err != nil {
			handleClinicalError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, DiagnosticResponse{
			ID:             d.ID,
			Report:         d.Report,
			ConsultationID: d.ConsultationID,
			ConditionID:    d.ConditionID,
			SurgeryID:      d.SurgeryID,
			OperationDate:  d.OperationDate,
		})
	}
}

func createPrescriptionHandler(svc *clinical.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PrescriptionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		p, err := svc.CreatePrescription(r.Context(), requester(r), clinical.PrescriptionInput{
			ExpiresOn:             req.ExpiresOn,
			MedicineAmount:        req.MedicineAmount,
			MedicineFrequency:     req.MedicineFrequency,
			MedicineFrequencyUnit: clinical.FrequencyUnit(req.MedicineFrequencyUnit),
			MedicineID:            req.MedicineID,
			DiagnosticID:          req.DiagnosticID,
		})
		if err != nil {
			handleClinicalError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toPrescriptionResponse(p))
	}
}

func createReferralHandler(svc *clinical.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ReferralRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		ref, err := svc.CreateReferral(r.Context(), requester(r), req.ConsultationID, req.SpecialtyID)
		if err != nil {
			handleClinicalError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toReferralResponse(ref))
	}
}

func updateReferralHandler(svc *clinical.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_referral_id", "id must be a valid UUID")
			return
		}

		var req ReferralRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		ref, err := svc.UpdateReferral(r.Context(), requester(r), id, req.SpecialtyID)
		if err != nil {
			handleClinicalError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toReferralResponse(ref))
	}
}

func deleteReferralHandler(svc *clinical.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_referral_id", "id must be a valid UUID")
			return
		}

		if err := svc.DeleteReferral(r.Context(), requester(r), id); err != nil {
			handleClinicalError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func syncExamsHandler(svc *clinical.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		consultationID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_consultation_id", "id must be a valid UUID")
			return
		}

		var req SyncExamsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		added, removed, err := svc.SyncExams(r.Context(), requester(r), consultationID, req.Exams)
		if err != nil {
			handleClinicalError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, SyncExamsResponse{Added: added, Removed: removed})
	}
}

func createExamResultHandler(svc *clinical.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ExamResultRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		res, err := svc.CreateExamResult(r.Context(), requester(r), clinical.ExamResultInput{
			ShortReport:   req.ShortReport,
			ExamRequestID: req.ExamRequestID,
			ReportFileID:  req.ReportFileID,
		})
		if err != nil {
			handleClinicalError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toExamResultResponse(res))
	}
}

func updateExamResultHandler(svc *clinical.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_exam_result_id", "id must be a valid UUID")
			return
		}

		var req ExamResultRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		res, err := svc.UpdateExamResult(r.Context(), requester(r), id, clinical.ExamResultInput{
			ShortReport:   req.ShortReport,
			ExamRequestID: req.ExamRequestID,
			ReportFileID:  req.ReportFileID,
		})
		if err != nil {
			handleClinicalError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toExamResultResponse(res))
	}
}

func deleteExamResultHandler(svc *clinical.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_exam_result_id", "id must be a valid UUID")
			return
		}

		if err := svc.DeleteExamResult(r.Context(), requester(r), id); err != nil {
			handleClinicalError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func handleClinicalError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, clinical.ErrNotConsultationDoctor):
		writeError(w, http.StatusUnauthorized, "not_consultation_doctor", err.Error())
	case errors.Is(err, clinical.ErrConsultationNotFound):
		writeError(w, http.StatusNotFound, "consultation_not_found", err.Error())
	case errors.Is(err, clinical.ErrDiagnosticNotFound):
		writeError(w, http.StatusNotFound, "diagnostic_not_found", err.Error())
	case errors.Is(err, clinical.ErrConditionNotFound):
		writeError(w, http.StatusNotFound, "condition_not_found", err.Error())
	case errors.Is(err, clinical.ErrSurgeryNotFound):
		writeError(w, http.StatusNotFound, "surgery_not_found", err.Error())
	case errors.Is(err, clinical.ErrMedicineNotFound):
		writeError(w, http.StatusNotFound, "medicine_not_found", err.Error())
	case errors.Is(err, clinical.ErrSpecialtyNotFound):
		writeError(w, http.StatusNotFound, "specialty_not_found", err.Error())
	case errors.Is(err, clinical.ErrExamNotFound):
		writeError(w, http.StatusNotFound, "exam_not_found", err.Error())
	case errors.Is(err, clinical.ErrReferralNotFound):
		writeError(w, http.StatusNotFound, "referral_not_found", err.Error())
	case errors.Is(err, clinical.ErrExamRequestNotFound):
		writeError(w, http.StatusNotFound, "exam_request_not_found", err.Error())
	case errors.Is(err, clinical.ErrExamResultNotFound):
		writeError(w, http.StatusNotFound, "exam_result_not_found", err.Error())
	case errors.Is(err, clinical.ErrReportFileNotFound):
		writeError(w, http.StatusNotFound, "report_file_not_found", err.Error())
	case errors.Is(err, clinical.ErrDiagnosticExists),
		errors.Is(err, clinical.ErrOperationDateRequired),
		errors.Is(err, clinical.ErrExpiresInPast),
		errors.Is(err, clinical.ErrInvalidAmount),
		errors.Is(err, clinical.ErrInvalidFrequency),
		errors.Is(err, clinical.ErrInvalidFrequencyUnit),
		errors.Is(err, clinical.ErrExamsRequired):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func toPrescriptionResponse(p *clinical.Prescription) PrescriptionResponse {
	return PrescriptionResponse{
		ID:                    p.ID,
		IssuedOn:              p.IssuedOn,
		ExpiresOn:             p.ExpiresOn,
		MedicineAmount:        p.MedicineAmount,
		MedicineFrequency:     p.MedicineFrequency,
		MedicineFrequencyUnit: string(p.MedicineFrequencyUnit),
		MedicineID:            p.MedicineID,
		DiagnosticID:          p.DiagnosticID,
	}
}

func toReferralResponse(ref *clinical.Referral) ReferralResponse {
	return ReferralResponse{
		ID:             ref.ID,
		Date:           ref.Date,
		SpecialtyID:    ref.SpecialtyID,
		ConsultationID: ref.ConsultationID,
	}
}

func toExamResultResponse(res *clinical.ExamResult) ExamResultResponse {
	return ExamResultResponse{
		ID:            res.ID,
		ShortReport:   res.ShortReport,
		Date:          res.Date,
		ExamRequestID: res.ExamRequestID,
		ReportFileID:  res.ReportFileID,
	}
}
