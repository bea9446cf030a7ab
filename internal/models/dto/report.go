package dto

import "github.com/pharmvigil/medreport-be/internal/models"

// ReportRequest is the create/update payload for a report. UserID is only
// honored for admin callers; everyone else gets their own id forced in.
type ReportRequest struct {
	UserID              string `json:"userId"`
	Brand               string `json:"brand"`
	PatientFirstName    string `json:"patient_first_name"`
	PatientLastName     string `json:"patient_last_name"`
	PatientGender       string `json:"patient_gender"`
	PatientAge          string `json:"patient_age"`
	TherapyStartDate    string `json:"therapy_start_date"`
	TherapyEndDate      string `json:"therapy_end_date"`
	IndicationCommon    string `json:"indication_common"`
	IndicationOther     string `json:"indication_other"`
	TotalDosingPerCycle string `json:"total_dosing_per_cycle"`
	ClinicalResult      string `json:"clinical_result"`
	SideEffectsMild     string `json:"s_effects_mild"`
	SideEffectsMildDesc string `json:"s_effects_mild_desc"`
	SideEffectsModerate string `json:"s_effects_moderate"`
	SideEffectsModDesc  string `json:"s_effects_moderate_desc"`
	SideEffectsSevere   string `json:"s_effects_severe"`
	SideEffectsSevDesc  string `json:"s_effects_severe_desc"`
	PhysicianName       string `json:"md_name"`
	PhysicianClinic     string `json:"md_clinic"`
	PhysicianPhone      string `json:"md_phone"`
	PhysicianEmail      string `json:"md_email"`
}

type ReportResponse struct {
	Success bool          `json:"success"`
	Report  models.Report `json:"report"`
}

type ReportsResponse struct {
	Success bool            `json:"success"`
	Count   int             `json:"count"`
	Reports []models.Report `json:"reports"`
}

// DeletedReportResponse mirrors the delete contract: an empty report object.
type DeletedReportResponse struct {
	Success bool     `json:"success"`
	Report  struct{} `json:"report"`
}
