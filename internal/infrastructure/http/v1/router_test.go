package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appctx "billing/internal/core/context"
	"billing/internal/core/numerator"
	"billing/internal/core/tx"
	"billing/internal/domain/auth"
	"billing/internal/domain/catalogs/activity"
	"billing/internal/domain/catalogs/client"
	"billing/internal/domain/catalogs/salesarea"
	"billing/internal/domain/catalogs/status"
	"billing/internal/domain/catalogtest"
	"billing/internal/domain/documents"
	"billing/internal/domain/documents/invoice"
	"billing/internal/domain/documents/offer"
	"billing/internal/domain/reports"
)

type activityRepo struct {
	*catalogtest.MemoryRepo[*activity.Activity]
}

func (r activityRepo) FindByCode(_ context.Context, code string) (*activity.Activity, error) {
	return r.Find(func(a *activity.Activity) bool { return a.Code == code })
}

type clientRepo struct {
	*catalogtest.MemoryRepo[*client.Client]
}

func (r clientRepo) CountActive(context.Context) (int64, error) {
	var n int64
	for _, c := range r.All() {
		if c.IsActive() {
			n++
		}
	}
	return n, nil
}

type areaRepo struct {
	*catalogtest.MemoryRepo[*salesarea.SalesArea]
}

func (r areaRepo) ListAll(context.Context) ([]*salesarea.SalesArea, error) {
	out := r.All()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type statusRepo struct {
	*catalogtest.MemoryRepo[*status.Status]
}

func (r statusRepo) FindByName(_ context.Context, name string) (*status.Status, error) {
	return r.Find(func(s *status.Status) bool { return status.Equal(s.Name, name) })
}

type emptyReports struct{}

func (emptyReports) PlanAmounts(context.Context, int) ([]reports.PlanAmount, error) { return nil, nil }
func (emptyReports) InvoiceTotals(context.Context, int) ([]reports.InvoiceTotal, error) {
	return nil, nil
}
func (emptyReports) StatusTotals(context.Context) ([]reports.StatusTotal, error) { return nil, nil }

type noAreas struct{}

func (noAreas) ListAreas(context.Context) ([]reports.Area, error) { return nil, nil }

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

type fakeValidator struct {
	user *appctx.UserContext
}

func (v fakeValidator) ValidateToken(token string) (*appctx.UserContext, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return v.user, nil
}

func testServices(t *testing.T, now func() time.Time) Services {
	t.Helper()
	txm := tx.NoopManager{}

	activities := activity.NewService(activityRepo{catalogtest.NewMemoryRepo[*activity.Activity]()}, txm, nil)
	clients := client.NewService(clientRepo{catalogtest.NewMemoryRepo[*client.Client]()}, txm, nil)
	areas := salesarea.NewService(areaRepo{catalogtest.NewMemoryRepo[*salesarea.SalesArea]()}, txm, nil)
	statuses := status.NewService(statusRepo{catalogtest.NewMemoryRepo[*status.Status]()}, txm, nil)
	_, err := statuses.Seed(context.Background())
	require.NoError(t, err)

	refs := documents.NewReferenceResolver(clients, areas, statuses)
	gen := &numerator.MockGenerator{}

	invoices := invoice.NewService(invoice.Config{
		Repo:          invoice.NewMemoryRepo(),
		Refs:          refs,
		Activities:    activities,
		Numerator:     gen,
		TxManager:     txm,
		DefaultStatus: status.Unsigned,
	})
	offers := offer.NewService(offer.Config{
		Repo:       offer.NewMemoryRepo(),
		Refs:       refs,
		Activities: activities,
		Numerator:  gen,
		TxManager:  txm,
		Invoices:   invoices,
	})

	return Services{
		Activities: activities,
		Clients:    clients,
		Areas:      areas,
		Statuses:   statuses,
		Offers:     offers,
		Invoices:   invoices,
		Reports:    reports.NewService(emptyReports{}, noAreas{}, clients, nil, now),
	}
}

func newTestRouter(t *testing.T) (http.Handler, Services) {
	svc := testServices(t, nil)
	return NewRouter(RouterConfig{DB: fakePinger{}, Services: svc}), svc
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func createRef(t *testing.T, h http.Handler, path string, body any) string {
	t.Helper()
	w := doJSON(t, h, http.MethodPost, path, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode(t, w)["id"].(string)
}

func TestRouter_InvoiceLifecycleAndExport(t *testing.T) {
	h, _ := newTestRouter(t)

	areaID := createRef(t, h, "/api/v1/sales-areas", map[string]any{"name": "Norte", "costCenter": "CC-01"})
	clientID := createRef(t, h, "/api/v1/clients", map[string]any{
		"name": "ACME", "contractNumber": "C-1", "externalCode": "CL01", "externalAccount": 1351,
	})
	activityID := createRef(t, h, "/api/v1/activities", map[string]any{
		"code": "A1", "description": "Consulting", "unitPrice": "10.50",
	})

	w := doJSON(t, h, http.MethodPost, "/api/v1/invoices", map[string]any{
		"salesAreaId": areaID,
		"clientId":    clientID,
		"items":       []map[string]any{{"activityId": activityID, "quantity": 3}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	inv := decode(t, w)

	year, err := strconv.Atoi(inv["date"].(string)[:4])
	require.NoError(t, err)
	number := numerator.InvoiceConfig().Format(year, 1)
	assert.Equal(t, number, inv["number"])
	assert.Len(t, inv["items"], 1)

	w = doJSON(t, h, http.MethodGet, "/api/v1/invoices/"+inv["id"].(string)+"/export.obl", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="`+number+`.obl"`, w.Header().Get("Content-Disposition"))

	body := w.Body.String()
	assert.Contains(t, body, "Numero="+number+"\n")
	assert.Contains(t, body, "Unidad=CC-01\n")
	assert.Contains(t, body, "Entidad=CL01\n")
	assert.Contains(t, body, "ImporteMC=31.50\n")
	assert.Contains(t, body, "CuentaMC=1351\n")

	w = doJSON(t, h, http.MethodDelete, "/api/v1/invoices/"+inv["id"].(string), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, h, http.MethodGet, "/api/v1/invoices/"+inv["id"].(string), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_PromoteOfferListsDerivedInvoices(t *testing.T) {
	h, _ := newTestRouter(t)

	areaID := createRef(t, h, "/api/v1/sales-areas", map[string]any{"name": "Sur"})
	clientID := createRef(t, h, "/api/v1/clients", map[string]any{"name": "ACME", "contractNumber": "C-1"})
	activityID := createRef(t, h, "/api/v1/activities", map[string]any{
		"code": "A1", "description": "Consulting", "unitPrice": "5",
	})
	offerID := createRef(t, h, "/api/v1/offers", map[string]any{
		"salesAreaId": areaID,
		"clientId":    clientID,
		"items":       []map[string]any{{"activityId": activityID, "quantity": 2}},
	})

	for i := 0; i < 2; i++ {
		w := doJSON(t, h, http.MethodPost, "/api/v1/offers/"+offerID+"/promote", nil)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Equal(t, offerID, decode(t, w)["sourceOfferId"])
	}

	w := doJSON(t, h, http.MethodGet, "/api/v1/offers/"+offerID+"/invoices", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, decode(t, w)["items"], 2)
}

func TestRouter_ValidationErrorNamesJSONFields(t *testing.T) {
	h, _ := newTestRouter(t)

	w := doJSON(t, h, http.MethodPost, "/api/v1/activities", map[string]any{"description": "x"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	resp := decode(t, w)
	assert.Equal(t, "VALIDATION_ERROR", resp["code"])
	fields := resp["details"].(map[string]any)["fields"].(map[string]any)
	assert.Contains(t, fields, "code")
	assert.Contains(t, fields, "unitPrice")
}

func TestRouter_InvalidIDIsValidationError(t *testing.T) {
	h, _ := newTestRouter(t)

	w := doJSON(t, h, http.MethodGet, "/api/v1/invoices/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_DeleteActivityDeactivates(t *testing.T) {
	h, _ := newTestRouter(t)

	activityID := createRef(t, h, "/api/v1/activities", map[string]any{
		"code": "A1", "description": "Consulting", "unitPrice": 1,
	})

	w := doJSON(t, h, http.MethodDelete, "/api/v1/activities/"+activityID, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, h, http.MethodGet, "/api/v1/activities/"+activityID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["active"])
}

func TestRouter_ComplianceFallsBackToCurrentMonth(t *testing.T) {
	now := func() time.Time { return time.Date(2025, time.June, 15, 9, 0, 0, 0, time.UTC) }
	h := NewRouter(RouterConfig{DB: fakePinger{}, Services: testServices(t, now)})

	w := doJSON(t, h, http.MethodGet, "/api/v1/reports/compliance?month=abc&year=2024", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode(t, w)
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, float64(6), resp["month"])
	assert.Equal(t, "Junio", resp["month_name"])
	assert.Equal(t, float64(2024), resp["year"])

	areas := resp["areas"].([]any)
	require.Len(t, areas, 1)
	total := areas[0].(map[string]any)
	assert.Equal(t, reports.TotalLabel, total["area"])
	assert.Equal(t, true, total["is_total"])
}

func TestRouter_DashboardUsesSnakeCaseKeys(t *testing.T) {
	now := func() time.Time { return time.Date(2025, time.June, 15, 9, 0, 0, 0, time.UTC) }
	h := NewRouter(RouterConfig{DB: fakePinger{}, Services: testServices(t, now)})

	w := doJSON(t, h, http.MethodGet, "/api/v1/reports/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode(t, w)
	assert.Equal(t, "Junio", resp["month_name"])
	assert.Equal(t, float64(0), resp["active_clients"])
	assert.Len(t, resp["amount_by_month"], 12)

	cycle := resp["collection_cycle"].(map[string]any)
	assert.Equal(t, float64(165), cycle["days_elapsed"])
	assert.Equal(t, float64(0), cycle["collection_cycle_days"])

	rows := resp["compliance"].([]any)
	require.Len(t, rows, 1)
	assert.Equal(t, true, rows[0].(map[string]any)["is_total"])

	var walk func(v any)
	walk = func(v any) {
		switch x := v.(type) {
		case map[string]any:
			for k, child := range x {
				assert.Equal(t, strings.ToLower(k), k, "key %q", k)
				walk(child)
			}
		case []any:
			for _, child := range x {
				walk(child)
			}
		}
	}
	walk(resp)
}

func TestRouter_AuthAndPermissions(t *testing.T) {
	viewer := &appctx.UserContext{UserID: "u1", Permissions: []string{auth.PermInvoicesView}}
	h := NewRouter(RouterConfig{
		DB:           fakePinger{},
		JWTValidator: fakeValidator{user: viewer},
		AuthEnabled:  true,
		Services:     testServices(t, nil),
	})

	w := doJSON(t, h, http.MethodGet, "/api/v1/invoices", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, h, http.MethodGet, "/api/v1/invoices", nil, "Authorization", "Bearer bad")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, h, http.MethodGet, "/api/v1/invoices", nil, "Authorization", "Bearer good")
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, h, http.MethodPost, "/api/v1/invoices", map[string]any{}, "Authorization", "Bearer good")
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", decode(t, w)["code"])
}

func TestRouter_Health(t *testing.T) {
	h := NewRouter(RouterConfig{DB: fakePinger{err: errors.New("down")}, Services: testServices(t, nil)})

	w := doJSON(t, h, http.MethodGet, "/health/live", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, h, http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
