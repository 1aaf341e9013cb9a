package api

import (
	"time"

	"github.com/google/uuid"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type RegisterRequest struct {
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Password    string     `json:"password"`
	ClinicID    *uuid.UUID `json:"clinic_id,omitempty"`
	SpecialtyID *uuid.UUID `json:"specialty_id,omitempty"`
	Roles       []string   `json:"roles,omitempty"`
}

type UpdateUserRequest struct {
	Name         *string    `json:"name,omitempty"`
	Email        *string    `json:"email,omitempty"`
	Password     *string    `json:"password,omitempty"`
	ClinicID     *uuid.UUID `json:"clinic_id,omitempty"`
	SpecialtyID  *uuid.UUID `json:"specialty_id,omitempty"`
	AvatarFileID *uuid.UUID `json:"avatar_file_id,omitempty"`
}

type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	ClinicID    *uuid.UUID `json:"clinic_id,omitempty"`
	SpecialtyID *uuid.UUID `json:"specialty_id,omitempty"`
	Roles       []string   `json:"roles,omitempty"`
}

type RolesRequest struct {
	Roles []string `json:"roles"`
}

type RolesResponse struct {
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
}

type AddressPayload struct {
	Street   string `json:"street"`
	Number   string `json:"number"`
	District string `json:"district"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zip_code"`
}

type ClinicRequest struct {
	Name    string          `json:"name"`
	Address *AddressPayload `json:"address,omitempty"`
}

type ClinicResponse struct {
	ID      uuid.UUID       `json:"id"`
	Name    string          `json:"name"`
	OwnerID uuid.UUID       `json:"owner_id"`
	Address *AddressPayload `json:"address,omitempty"`
}

type CreateSlotRequest struct {
	DoctorID  *uuid.UUID `json:"doctor_id,omitempty"`
	ClinicID  uuid.UUID  `json:"clinic_id"`
	StartTime time.Time  `json:"datetime"`
}

type UpdateSlotRequest struct {
	StartTime time.Time `json:"datetime"`
}

type SlotResponse struct {
	ID        uuid.UUID `json:"id"`
	DoctorID  uuid.UUID `json:"doctor_id"`
	ClinicID  uuid.UUID `json:"clinic_id"`
	StartTime time.Time `json:"datetime"`
	Scheduled bool      `json:"scheduled"`
}

type BookConsultationRequest struct {
	ClinicID  uuid.UUID  `json:"clinic_id"`
	DoctorID  uuid.UUID  `json:"doctor_id"`
	PatientID *uuid.UUID `json:"patient_id,omitempty"`
	StartTime time.Time  `json:"datetime"`
	IsReturn  bool       `json:"is_return"`
}

type ConsultationResponse struct {
	ID        uuid.UUID `json:"id"`
	StartTime time.Time `json:"datetime"`
	IsReturn  bool      `json:"is_return"`
	Confirmed bool      `json:"confirmed"`
	ClinicID  uuid.UUID `json:"clinic_id"`
	DoctorID  uuid.UUID `json:"doctor_id"`
	PatientID uuid.UUID `json:"patient_id"`
}

type DiagnosticRequest struct {
	Report         string     `json:"report"`
	ConsultationID uuid.UUID  `json:"consultation_id"`
	ConditionID    uuid.UUID  `json:"condition_id"`
	SurgeryID      *uuid.UUID `json:"surgery_id,omitempty"`
	OperationDate  *time.Time `json:"operation_date,omitempty"`
}

type DiagnosticResponse struct {
	ID             uuid.UUID  `json:"id"`
	Report         string     `json:"report"`
	ConsultationID uuid.UUID  `json:"consultation_id"`
	ConditionID    uuid.UUID  `json:"condition_id"`
	SurgeryID      *uuid.UUID `json:"surgery_id,omitempty"`
	OperationDate  *time.Time `json:"operation_date,omitempty"`
}

type PrescriptionRequest struct {
	ExpiresOn             time.Time `json:"expires_on"`
	MedicineAmount        int       `json:"medicine_amount"`
	MedicineFrequency     int       `json:"medicine_frequency"`
	MedicineFrequencyUnit string    `json:"medicine_frequency_unit"`
	MedicineID            uuid.UUID `json:"medicine_id"`
	DiagnosticID          uuid.UUID `json:"diagnostic_id"`
}

type PrescriptionResponse struct {
	ID                    uuid.UUID `json:"id"`
	IssuedOn              time.Time `json:"issued_on"`
	ExpiresOn             time.Time `json:"expires_on"`
	MedicineAmount        int       `json:"medicine_amount"`
	MedicineFrequency     int       `json:"medicine_frequency"`
	MedicineFrequencyUnit string    `json:"medicine_frequency_unit"`
	MedicineID            uuid.UUID `json:"medicine_id"`
	DiagnosticID          uuid.UUID `json:"diagnostic_id"`
}

type ReferralRequest struct {
	SpecialtyID    uuid.UUID `json:"specialty_id"`
	ConsultationID uuid.UUID `json:"consultation_id"`
}

type ReferralResponse struct {
	ID             uuid.UUID `json:"id"`
	Date           time.Time `json:"date"`
	SpecialtyID    uuid.UUID `json:"specialty_id"`
	ConsultationID uuid.UUID `json:"consultation_id"`
}

type SyncExamsRequest struct {
	Exams []uuid.UUID `json:"exams"`
}

type SyncExamsResponse struct {
	Added   []uuid.UUID `json:"added"`
	Removed []uuid.UUID `json:"removed"`
}

type ExamResultRequest struct {
	ShortReport   string     `json:"short_report"`
	ExamRequestID uuid.UUID  `json:"exam_request_id"`
	ReportFileID  *uuid.UUID `json:"report_id,omitempty"`
}

type ExamResultResponse struct {
	ID            uuid.UUID  `json:"id"`
	ShortReport   string     `json:"short_report"`
	Date          time.Time  `json:"date"`
	ExamRequestID uuid.UUID  `json:"exam_request_id"`
	ReportFileID  *uuid.UUID `json:"report_id,omitempty"`
}

type FileResponse struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Type    string    `json:"type"`
	Subtype string    `json:"subtype"`
}
