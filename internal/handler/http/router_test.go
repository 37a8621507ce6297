package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stclare-edu/dtr-backend-go/internal/config"
	"github.com/stclare-edu/dtr-backend-go/internal/domain/employee"
	"github.com/stclare-edu/dtr-backend-go/internal/domain/payroll"
	"github.com/stclare-edu/dtr-backend-go/internal/domain/timerecord"
	"github.com/stclare-edu/dtr-backend-go/internal/pkg/clock"
	"github.com/stclare-edu/dtr-backend-go/internal/repository/memory"
	auditService "github.com/stclare-edu/dtr-backend-go/internal/service/audit"
	payrollService "github.com/stclare-edu/dtr-backend-go/internal/service/payroll"
	timerecordService "github.com/stclare-edu/dtr-backend-go/internal/service/timerecord"
)

const testEmployeeID = "0188d0f2-7b8c-4b4a-8a2b-6b8b8b8b8b8b"

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func newTestRouter(t *testing.T) (http.Handler, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	store.AddEmployee(employee.Employee{ID: testEmployeeID, FullName: "Maria Santos", IsActive: true})

	clk := clock.Fixed(time.Date(2024, 1, 20, 9, 0, 0, 0, time.UTC))
	cfg := &config.Config{App: config.AppConfig{Env: "test"}}

	timeRecordSvc := timerecordService.NewTimeRecordService(store.TimeRecords(), clk)
	payrollSvc := payrollService.NewPayrollService(
		store.Payrolls(), store.TimeRecords(), store.Employees(),
		payroll.FlatRate(payroll.DefaultTaxRate), clk,
	)
	auditSvc := auditService.NewAuditService(store.TimeRecords())

	router := NewRouter(cfg,
		NewTimeRecordHandler(timeRecordSvc),
		NewPayrollHandler(payrollSvc),
		NewAuditHandler(auditSvc),
	)
	return router, store
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestTimeRecordEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)

	t.Run("UpsertComputesHours", func(t *testing.T) {
		rec, env := doJSON(t, router, http.MethodPost, "/api/v1/time-records", map[string]interface{}{
			"employee_id": testEmployeeID,
			"date":        "2024-01-15",
			"time_in":     "2024-01-15T08:00:00Z",
			"time_out":    "2024-01-15T17:00:00Z",
			"lunch_start": "2024-01-15T12:00:00Z",
			"lunch_end":   "2024-01-15T13:00:00Z",
			"status":      "Present",
		})
		require.Equal(t, http.StatusCreated, rec.Code)
		require.True(t, env.Success)

		var result timerecord.TimeRecordResponse
		require.NoError(t, json.Unmarshal(env.Data, &result))
		assert.Equal(t, 8.00, result.HoursWorked)
		assert.False(t, result.IsPaid)
	})

	t.Run("UpsertValidationFailure", func(t *testing.T) {
		rec, env := doJSON(t, router, http.MethodPost, "/api/v1/time-records", map[string]interface{}{
			"employee_id": "not-a-uuid",
			"date":        "2024-01-15",
			"status":      "teleporting",
		})
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
		assert.Contains(t, env.Error.Details, "employee_id")
		assert.Contains(t, env.Error.Details, "status")
	})

	t.Run("GetUnknownRecord", func(t *testing.T) {
		rec, env := doJSON(t, router, http.MethodGet, "/api/v1/time-records/missing-id", nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "NOT_FOUND", env.Error.Code)
	})

	t.Run("ListWithFilter", func(t *testing.T) {
		rec, env := doJSON(t, router, http.MethodGet,
			"/api/v1/time-records?employee_id="+testEmployeeID+"&start_date=2024-01-01&end_date=2024-01-31", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var results []timerecord.TimeRecordResponse
		require.NoError(t, json.Unmarshal(env.Data, &results))
		require.Len(t, results, 1)
		assert.Equal(t, "2024-01-15", results[0].Date)
	})
}

func TestPayrollEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)

	// one attendance day to aggregate
	rec, _ := doJSON(t, router, http.MethodPost, "/api/v1/time-records", map[string]interface{}{
		"employee_id": testEmployeeID,
		"date":        "2024-01-15",
		"time_in":     "2024-01-15T08:00:00Z",
		"time_out":    "2024-01-15T17:00:00Z",
		"lunch_start": "2024-01-15T12:00:00Z",
		"lunch_end":   "2024-01-15T13:00:00Z",
		"status":      "Present",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var payrollID string

	t.Run("Generate", func(t *testing.T) {
		rec, env := doJSON(t, router, http.MethodPost, "/api/v1/payroll", map[string]interface{}{
			"employee_id":   testEmployeeID,
			"period_start":  "2024-01-01",
			"period_end":    "2024-01-31",
			"hourly_rate":   "100",
			"overtime_rate": "150",
			"allowances":    "200",
			"deductions":    "100",
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		var result payroll.PayrollResponse
		require.NoError(t, json.Unmarshal(env.Data, &result))
		assert.Equal(t, "800", result.BasicSalary.String())
		assert.Equal(t, "1000", result.GrossPay.String())
		assert.Equal(t, "100", result.Tax.String())
		assert.Equal(t, "800", result.NetSalary.String())
		assert.Equal(t, 1, result.CoveredCount)
		payrollID = result.ID
	})

	t.Run("GenerateUnknownEmployee", func(t *testing.T) {
		rec, env := doJSON(t, router, http.MethodPost, "/api/v1/payroll", map[string]interface{}{
			"employee_id":   "0188d0f2-7b8c-4b4a-8a2b-999999999999",
			"period_start":  "2024-01-01",
			"period_end":    "2024-01-31",
			"hourly_rate":   "100",
			"overtime_rate": "150",
		})
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "NOT_FOUND", env.Error.Code)
	})

	t.Run("CoveredRecordIsLocked", func(t *testing.T) {
		rec, env := doJSON(t, router, http.MethodPost, "/api/v1/time-records", map[string]interface{}{
			"employee_id": testEmployeeID,
			"date":        "2024-01-15",
			"time_in":     "2024-01-15T09:00:00Z",
			"time_out":    "2024-01-15T18:00:00Z",
			"status":      "Present",
		})
		require.Equal(t, http.StatusConflict, rec.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "CONFLICT", env.Error.Code)
	})

	t.Run("MarkPaidThenCancelConflicts", func(t *testing.T) {
		require.NotEmpty(t, payrollID)

		rec, env := doJSON(t, router, http.MethodPost, "/api/v1/payroll/"+payrollID+"/mark-paid", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var result payroll.PayrollResponse
		require.NoError(t, json.Unmarshal(env.Data, &result))
		assert.Equal(t, string(payroll.StatusPaid), result.Status)

		rec, env = doJSON(t, router, http.MethodPost, "/api/v1/payroll/"+payrollID+"/cancel", nil)
		require.Equal(t, http.StatusConflict, rec.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "CONFLICT", env.Error.Code)
	})
}

func TestAuditEndpoints(t *testing.T) {
	router, store := newTestRouter(t)

	rec, _ := doJSON(t, router, http.MethodPost, "/api/v1/time-records", map[string]interface{}{
		"employee_id": testEmployeeID,
		"date":        "2024-01-15",
		"time_in":     "2024-01-15T08:00:00Z",
		"time_out":    "2024-01-15T17:00:00Z",
		"status":      "Present",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	store.RemoveEmployee(testEmployeeID)

	rec, env := doJSON(t, router, http.MethodGet, "/api/v1/audit/orphans", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var orphans []auditService.OrphanedRecord
	require.NoError(t, json.Unmarshal(env.Data, &orphans))
	require.Len(t, orphans, 1)
	assert.Equal(t, testEmployeeID, orphans[0].EmployeeID)

	rec, env = doJSON(t, router, http.MethodPost, "/api/v1/audit/orphans/repair", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var result auditService.RepairResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, 1, result.Repaired)

	rec, env = doJSON(t, router, http.MethodGet, "/api/v1/audit/orphans", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &orphans))
	assert.Empty(t, orphans)
}
