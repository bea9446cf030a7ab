package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/pharmvigil/medreport-be/internal/http/respond"
	"github.com/pharmvigil/medreport-be/internal/middleware"
	"github.com/pharmvigil/medreport-be/internal/models"
	"github.com/pharmvigil/medreport-be/internal/models/dto"
	"github.com/pharmvigil/medreport-be/internal/storage"
)

// requiredReportFields drive presence validation on create, in the order
// they are reported back to the client.
var requiredReportFields = []string{
	"brand",
	"patient_first_name", "patient_last_name", "patient_gender", "patient_age",
	"therapy_start_date", "therapy_end_date",
	"indication_common", "total_dosing_per_cycle", "clinical_result",
	"md_name", "md_clinic", "md_phone", "md_email",
}

// ReportHandler owns report CRUD. Every operation is ownership-scoped: a
// non-admin caller only ever sees rows they own, and anything outside that
// scope answers 404.
type ReportHandler struct {
	store storage.ReportStore
}

// NewReportHandler constructs the handler.
func NewReportHandler(store storage.ReportStore) *ReportHandler {
	return &ReportHandler{store: store}
}

// Register attaches report routes behind authentication.
func (h *ReportHandler) Register(mux *http.ServeMux, gate *middleware.Gate) {
	guard := func(fn http.HandlerFunc) http.Handler {
		return gate.Authenticate(fn)
	}
	mux.Handle("GET /api/v1/reports", guard(h.handleList))
	mux.Handle("POST /api/v1/reports", guard(h.handleCreate))
	mux.Handle("GET /api/v1/reports/{id}", guard(h.handleGet))
	mux.Handle("PUT /api/v1/reports/{id}", guard(h.handleUpdate))
	mux.Handle("DELETE /api/v1/reports/{id}", guard(h.handleDelete))
}

// scope computes the effective filter for a caller: admins query by id alone,
// everyone else is pinned to their own rows.
func scope(caller models.User, id string) storage.ReportFilter {
	filter := storage.ReportFilter{ID: id}
	if caller.Role != models.RoleAdmin {
		filter.OwnerID = caller.ID
	}
	return filter
}

func (h *ReportHandler) handleList(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.CallerFrom(r.Context())
	filter := scope(caller, "")
	filter.Brand = r.URL.Query().Get("search")

	reports, err := h.store.ListReports(r.Context(), filter)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, dto.ReportsResponse{Success: true, Count: len(reports), Reports: reports})
}

func (h *ReportHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.CallerFrom(r.Context())
	report, err := h.store.GetReport(r.Context(), scope(caller, r.PathValue("id")))
	if err != nil {
		respond.Error(w, notFoundAs(err, "Report not found"))
		return
	}
	respond.JSON(w, http.StatusOK, dto.ReportResponse{Success: true, Report: report})
}

func (h *ReportHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.CallerFrom(r.Context())
	var req dto.ReportRequest
	if err := decodeJSON(r, &req); err != nil {
		respond.Error(w, err)
		return
	}
	if err := requireFields(reportFields(req), requiredReportFields); err != nil {
		respond.Error(w, err)
		return
	}

	report := reportFromRequest(req)
	report.ID = uuid.NewString()
	report.OwnerID = caller.ID
	if caller.Role == models.RoleAdmin && req.UserID != "" {
		report.OwnerID = req.UserID
	}

	created, err := h.store.CreateReport(r.Context(), report)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, dto.ReportResponse{Success: true, Report: created})
}

func (h *ReportHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.CallerFrom(r.Context())
	filter := scope(caller, r.PathValue("id"))

	existing, err := h.store.GetReport(r.Context(), filter)
	if err != nil {
		respond.Error(w, notFoundAs(err, "Report not found"))
		return
	}
	var req dto.ReportRequest
	if err := decodeJSON(r, &req); err != nil {
		respond.Error(w, err)
		return
	}

	merged := mergeReport(existing, req)
	if caller.Role == models.RoleAdmin && req.UserID != "" {
		merged.OwnerID = req.UserID
	}

	updated, err := h.store.UpdateReport(r.Context(), filter, merged)
	if err != nil {
		respond.Error(w, notFoundAs(err, "Report not found"))
		return
	}
	respond.JSON(w, http.StatusOK, dto.ReportResponse{Success: true, Report: updated})
}

func (h *ReportHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.CallerFrom(r.Context())
	if err := h.store.DeleteReport(r.Context(), scope(caller, r.PathValue("id"))); err != nil {
		respond.Error(w, notFoundAs(err, "Report not found"))
		return
	}
	respond.JSON(w, http.StatusOK, dto.DeletedReportResponse{Success: true})
}

func reportFields(req dto.ReportRequest) map[string]string {
	return map[string]string{
		"brand":                  req.Brand,
		"patient_first_name":     req.PatientFirstName,
		"patient_last_name":      req.PatientLastName,
		"patient_gender":         req.PatientGender,
		"patient_age":            req.PatientAge,
		"therapy_start_date":     req.TherapyStartDate,
		"therapy_end_date":       req.TherapyEndDate,
		"indication_common":      req.IndicationCommon,
		"total_dosing_per_cycle": req.TotalDosingPerCycle,
		"clinical_result":        req.ClinicalResult,
		"md_name":                req.PhysicianName,
		"md_clinic":              req.PhysicianClinic,
		"md_phone":               req.PhysicianPhone,
		"md_email":               req.PhysicianEmail,
	}
}

func reportFromRequest(req dto.ReportRequest) models.Report {
	return models.Report{
		Brand:               req.Brand,
		PatientFirstName:    req.PatientFirstName,
		PatientLastName:     req.PatientLastName,
		PatientGender:       req.PatientGender,
		PatientAge:          req.PatientAge,
		TherapyStartDate:    req.TherapyStartDate,
		TherapyEndDate:      req.TherapyEndDate,
		IndicationCommon:    req.IndicationCommon,
		IndicationOther:     req.IndicationOther,
		TotalDosingPerCycle: req.TotalDosingPerCycle,
		ClinicalResult:      req.ClinicalResult,
		SideEffectsMild:     req.SideEffectsMild,
		SideEffectsMildDesc: req.SideEffectsMildDesc,
		SideEffectsModerate: req.SideEffectsModerate,
		SideEffectsModDesc:  req.SideEffectsModDesc,
		SideEffectsSevere:   req.SideEffectsSevere,
		SideEffectsSevDesc:  req.SideEffectsSevDesc,
		PhysicianName:       req.PhysicianName,
		PhysicianClinic:     req.PhysicianClinic,
		PhysicianPhone:      req.PhysicianPhone,
		PhysicianEmail:      req.PhysicianEmail,
	}
}

// mergeReport lays the request's non-empty fields over the stored report.
// Empty strings leave the stored value unchanged, so a PUT may carry only the
// fields it means to change.
func mergeReport(existing models.Report, req dto.ReportRequest) models.Report {
	incoming := reportFromRequest(req)
	merged := existing
	merged.Owner = nil

	set := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}
	set(&merged.Brand, incoming.Brand)
	set(&merged.PatientFirstName, incoming.PatientFirstName)
	set(&merged.PatientLastName, incoming.PatientLastName)
	set(&merged.PatientGender, incoming.PatientGender)
	set(&merged.PatientAge, incoming.PatientAge)
	set(&merged.TherapyStartDate, incoming.TherapyStartDate)
	set(&merged.TherapyEndDate, incoming.TherapyEndDate)
	set(&merged.IndicationCommon, incoming.IndicationCommon)
	set(&merged.IndicationOther, incoming.IndicationOther)
	set(&merged.TotalDosingPerCycle, incoming.TotalDosingPerCycle)
	set(&merged.ClinicalResult, incoming.ClinicalResult)
	set(&merged.SideEffectsMild, incoming.SideEffectsMild)
	set(&merged.SideEffectsMildDesc, incoming.SideEffectsMildDesc)
	set(&merged.SideEffectsModerate, incoming.SideEffectsModerate)
	set(&merged.SideEffectsModDesc, incoming.SideEffectsModDesc)
	set(&merged.SideEffectsSevere, incoming.SideEffectsSevere)
	set(&merged.SideEffectsSevDesc, incoming.SideEffectsSevDesc)
	set(&merged.PhysicianName, incoming.PhysicianName)
	set(&merged.PhysicianClinic, incoming.PhysicianClinic)
	set(&merged.PhysicianPhone, incoming.PhysicianPhone)
	set(&merged.PhysicianEmail, incoming.PhysicianEmail)
	return merged
}
