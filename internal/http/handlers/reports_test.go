package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pharmvigil/medreport-be/internal/models"
	"github.com/pharmvigil/medreport-be/internal/models/dto"
)

func reportBody(brand string) map[string]string {
	return map[string]string{
		"brand":                  brand,
		"patient_first_name":     "John",
		"patient_last_name":      "Doe",
		"patient_gender":         "male",
		"patient_age":            "45",
		"therapy_start_date":     "2024-01-01",
		"therapy_end_date":       "2024-03-01",
		"indication_common":      "Brain",
		"total_dosing_per_cycle": "20mg",
		"clinical_result":        "improved",
		"md_name":                "Dr. Smith",
		"md_clinic":              "General Clinic",
		"md_phone":               "+15550001111",
		"md_email":               "smith@clinic.com",
	}
}

func (e *testEnv) createReport(t *testing.T, token, brand string) models.Report {
	t.Helper()
	status, data := e.do(t, http.MethodPost, "/api/v1/reports", token, reportBody(brand))
	require.Equal(t, http.StatusCreated, status)
	var resp dto.ReportResponse
	decodeInto(t, data, &resp)
	return resp.Report
}

func TestCreateReport_ForcesOwner(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	user := env.seedUser(t, "User A", "a@demo.com", "demodemo", models.RoleUser)
	other := env.seedUser(t, "User B", "b@demo.com", "demodemo", models.RoleUser)

	body := reportBody("Drugmax")
	body["userId"] = other.ID

	status, data := env.do(t, http.MethodPost, "/api/v1/reports", env.tokenFor(t, user.ID), body)
	require.Equal(t, http.StatusCreated, status)

	var resp dto.ReportResponse
	decodeInto(t, data, &resp)
	require.Equal(t, user.ID, resp.Report.OwnerID, "non-admin must not assign ownership")
	require.NotNil(t, resp.Report.Owner)
	require.Equal(t, "User A", resp.Report.Owner.Name)
}

func TestCreateReport_AdminAssignsOwner(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	admin := env.seedUser(t, "Admin", "admin@demo.com", "adminadmin", models.RoleAdmin)
	user := env.seedUser(t, "User A", "a@demo.com", "demodemo", models.RoleUser)

	body := reportBody("Drugmax")
	body["userId"] = user.ID

	status, data := env.do(t, http.MethodPost, "/api/v1/reports", env.tokenFor(t, admin.ID), body)
	require.Equal(t, http.StatusCreated, status)

	var resp dto.ReportResponse
	decodeInto(t, data, &resp)
	require.Equal(t, user.ID, resp.Report.OwnerID)

	// A userId that resolves to nobody is a validation failure, not a 500.
	body["userId"] = "no-such-user"
	status, data = env.do(t, http.MethodPost, "/api/v1/reports", env.tokenFor(t, admin.ID), body)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "Please provide a valid userId", errorMessage(t, data))
}

func TestCreateReport_Validation(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	user := env.seedUser(t, "User A", "a@demo.com", "demodemo", models.RoleUser)

	body := reportBody("Drugmax")
	delete(body, "brand")
	delete(body, "clinical_result")

	status, data := env.do(t, http.MethodPost, "/api/v1/reports", env.tokenFor(t, user.ID), body)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "Please provide brand & clinical_result", errorMessage(t, data))
}

// TestOwnershipIsolation checks that one user's reports are invisible to
// another: every cross-user access answers 404, never 403 or data.
func TestOwnershipIsolation(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	userA := env.seedUser(t, "User A", "a@demo.com", "demodemo", models.RoleUser)
	userB := env.seedUser(t, "User B", "b@demo.com", "demodemo", models.RoleUser)
	tokenA := env.tokenFor(t, userA.ID)
	tokenB := env.tokenFor(t, userB.ID)

	reportA := env.createReport(t, tokenA, "Alphadrug")
	reportB := env.createReport(t, tokenB, "Betadrug")

	status, data := env.do(t, http.MethodGet, "/api/v1/reports", tokenA, nil)
	require.Equal(t, http.StatusOK, status)
	var list dto.ReportsResponse
	decodeInto(t, data, &list)
	require.Equal(t, 1, list.Count)
	require.Equal(t, reportA.ID, list.Reports[0].ID)

	status, data = env.do(t, http.MethodGet, "/api/v1/reports/"+reportB.ID, tokenA, nil)
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, "Report not found", errorMessage(t, data))

	status, _ = env.do(t, http.MethodPut, "/api/v1/reports/"+reportB.ID, tokenA,
		map[string]string{"brand": "Hijacked"})
	require.Equal(t, http.StatusNotFound, status)

	status, _ = env.do(t, http.MethodDelete, "/api/v1/reports/"+reportB.ID, tokenA, nil)
	require.Equal(t, http.StatusNotFound, status)

	// B's report is untouched.
	status, data = env.do(t, http.MethodGet, "/api/v1/reports/"+reportB.ID, tokenB, nil)
	require.Equal(t, http.StatusOK, status)
	var got dto.ReportResponse
	decodeInto(t, data, &got)
	require.Equal(t, "Betadrug", got.Report.Brand)
}

func TestAdminOverride(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	admin := env.seedUser(t, "Admin", "admin@demo.com", "adminadmin", models.RoleAdmin)
	userA := env.seedUser(t, "User A", "a@demo.com", "demodemo", models.RoleUser)
	userB := env.seedUser(t, "User B", "b@demo.com", "demodemo", models.RoleUser)
	adminToken := env.tokenFor(t, admin.ID)

	env.createReport(t, env.tokenFor(t, userA.ID), "Alphadrug")
	reportB := env.createReport(t, env.tokenFor(t, userB.ID), "Betadrug")

	status, data := env.do(t, http.MethodGet, "/api/v1/reports", adminToken, nil)
	require.Equal(t, http.StatusOK, status)
	var list dto.ReportsResponse
	decodeInto(t, data, &list)
	require.Equal(t, 2, list.Count)

	status, _ = env.do(t, http.MethodGet, "/api/v1/reports/"+reportB.ID, adminToken, nil)
	require.Equal(t, http.StatusOK, status)

	// Admin reassigns ownership on update.
	status, data = env.do(t, http.MethodPut, "/api/v1/reports/"+reportB.ID, adminToken,
		map[string]string{"userId": userA.ID})
	require.Equal(t, http.StatusOK, status)
	var updated dto.ReportResponse
	decodeInto(t, data, &updated)
	require.Equal(t, userA.ID, updated.Report.OwnerID)
	require.Equal(t, "User A", updated.Report.Owner.Name)

	status, _ = env.do(t, http.MethodDelete, "/api/v1/reports/"+reportB.ID, adminToken, nil)
	require.Equal(t, http.StatusOK, status)
}

func TestUpdateReport_MergesFields(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	user := env.seedUser(t, "User A", "a@demo.com", "demodemo", models.RoleUser)
	token := env.tokenFor(t, user.ID)

	report := env.createReport(t, token, "Alphadrug")

	status, data := env.do(t, http.MethodPut, "/api/v1/reports/"+report.ID, token,
		map[string]string{"clinical_result": "no change", "s_effects_mild": "nausea"})
	require.Equal(t, http.StatusOK, status)

	var updated dto.ReportResponse
	decodeInto(t, data, &updated)
	require.Equal(t, "no change", updated.Report.ClinicalResult)
	require.Equal(t, "nausea", updated.Report.SideEffectsMild)
	require.Equal(t, "Alphadrug", updated.Report.Brand, "untouched fields keep their values")
	require.Equal(t, user.ID, updated.Report.OwnerID)
}

func TestListReports_SearchByBrand(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	user := env.seedUser(t, "User A", "a@demo.com", "demodemo", models.RoleUser)
	token := env.tokenFor(t, user.ID)

	env.createReport(t, token, "Alphadrug")
	env.createReport(t, token, "Betadrug")
	env.createReport(t, token, "Alphamax")

	status, data := env.do(t, http.MethodGet, "/api/v1/reports?search=alpha", token, nil)
	require.Equal(t, http.StatusOK, status)

	var list dto.ReportsResponse
	decodeInto(t, data, &list)
	require.Equal(t, 2, list.Count)
	for _, report := range list.Reports {
		require.Contains(t, report.Brand, "Alpha")
	}
}

func TestDeleteReport(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	user := env.seedUser(t, "User A", "a@demo.com", "demodemo", models.RoleUser)
	token := env.tokenFor(t, user.ID)

	report := env.createReport(t, token, "Alphadrug")

	status, data := env.do(t, http.MethodDelete, "/api/v1/reports/"+report.ID, token, nil)
	require.Equal(t, http.StatusOK, status)
	var deleted dto.DeletedReportResponse
	decodeInto(t, data, &deleted)
	require.True(t, deleted.Success)

	status, _ = env.do(t, http.MethodGet, "/api/v1/reports/"+report.ID, token, nil)
	require.Equal(t, http.StatusNotFound, status)
}
