package clinical

import (
	"time"

	"github.com/google/uuid"
)

// FrequencyUnit is the unit of a prescription's dosage frequency.
type FrequencyUnit string

const (
	UnitWeek  FrequencyUnit = "WEEK"
	UnitMonth FrequencyUnit = "MONTH"
	UnitDay   FrequencyUnit = "DAY"
	UnitHour  FrequencyUnit = "HOUR"
)

func (u FrequencyUnit) Valid() bool {
	switch u {
	case UnitWeek, UnitMonth, UnitDay, UnitHour:
		return true
	}
	return false
}

// Diagnostic is the doctor's finding for a consultation, at most one
// per consultation, immutable once recorded.
type Diagnostic struct {
	ID             uuid.UUID
	Report         string
	ConsultationID uuid.UUID
	ConditionID    uuid.UUID
	SurgeryID      *uuid.UUID
	OperationDate  *time.Time
	CreatedAt      time.Time
}

type Prescription struct {
	ID                    uuid.UUID
	IssuedOn              time.Time
	ExpiresOn             time.Time
	MedicineAmount        int
	MedicineFrequency     int
	MedicineFrequencyUnit FrequencyUnit
	MedicineID            uuid.UUID
	DiagnosticID          uuid.UUID
}

type Referral struct {
	ID             uuid.UUID
	Date           time.Time
	SpecialtyID    uuid.UUID
	ConsultationID uuid.UUID
}

type ExamRequest struct {
	ID             uuid.UUID
	Date           time.Time
	ExamID         uuid.UUID
	ConsultationID uuid.UUID
}

type ExamResult struct {
	ID            uuid.UUID
	ShortReport   string
	Date          time.Time
	ExamRequestID uuid.UUID
	ReportFileID  *uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ConsultationRef is the slice of a consultation the record chain
// needs for its ownership guard.
type ConsultationRef struct {
	ID       uuid.UUID
	DoctorID uuid.UUID
}
