package models

import "time"

// Report is a single post-therapy medical report filed by a user.
// Field names mirror the reports table columns.
type Report struct {
	ID                   string    `json:"id"`
	OwnerID              string    `json:"userId"`
	Brand                string    `json:"brand"`
	PatientFirstName     string    `json:"patient_first_name"`
	PatientLastName      string    `json:"patient_last_name"`
	PatientGender        string    `json:"patient_gender"`
	PatientAge           string    `json:"patient_age"`
	TherapyStartDate     string    `json:"therapy_start_date"`
	TherapyEndDate       string    `json:"therapy_end_date"`
	IndicationCommon     string    `json:"indication_common"`
	IndicationOther      string    `json:"indication_other,omitempty"`
	TotalDosingPerCycle  string    `json:"total_dosing_per_cycle"`
	ClinicalResult       string    `json:"clinical_result"`
	SideEffectsMild      string    `json:"s_effects_mild,omitempty"`
	SideEffectsMildDesc  string    `json:"s_effects_mild_desc,omitempty"`
	SideEffectsModerate  string    `json:"s_effects_moderate,omitempty"`
	SideEffectsModDesc   string    `json:"s_effects_moderate_desc,omitempty"`
	SideEffectsSevere    string    `json:"s_effects_severe,omitempty"`
	SideEffectsSevDesc   string    `json:"s_effects_severe_desc,omitempty"`
	PhysicianName        string    `json:"md_name"`
	PhysicianClinic      string    `json:"md_clinic"`
	PhysicianPhone       string    `json:"md_phone"`
	PhysicianEmail       string    `json:"md_email"`
	CreatedAt            time.Time `json:"created_at"`

	// Owner carries the joined owner summary on reads; nil on writes.
	Owner *OwnerSummary `json:"user,omitempty"`
}

// OwnerSummary is the subset of the owning user exposed alongside a report.
type OwnerSummary struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}
