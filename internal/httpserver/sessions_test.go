package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cluborder/internal/barcode"
	"cluborder/internal/catalog"
	"cluborder/internal/config"
	"cluborder/internal/notify"
	"cluborder/internal/wizard"
)

type nopNotifier struct{}

func (nopNotifier) Send(context.Context, notify.Order) error { return nil }

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		ClubName:        "KK Dinamo Zagreb",
		IBAN:            "HR5823600001101579632",
		PaymentModel:    "HR00",
		ReferencePrefix: "DINAMO-OPREMA-",
		Currency:        "EUR",
		SessionTTL:      time.Hour,
	}
	cat := catalog.Default()
	svc := wizard.New(cat, cfg, nopNotifier{}, zap.NewNop())
	router, err := buildRouter(Deps{
		Wizard:         svc,
		Catalog:        cat,
		Renderer:       barcode.NewRenderer(zap.NewNop()),
		Logger:         zap.NewNop(),
		AllowedOrigins: []string{"*"},
	})
	require.NoError(t, err)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeSnapshot(t *testing.T, rec *httptest.ResponseRecorder) wizard.Snapshot {
	t.Helper()
	var snap wizard.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	return snap
}

func createSession(t *testing.T, router *gin.Engine) wizard.Snapshot {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	return decodeSnapshot(t, rec)
}

func driveToPayment(t *testing.T, router *gin.Engine, id string) wizard.Snapshot {
	t.Helper()
	rec := doJSON(t, router, http.MethodPut, "/sessions/"+id+"/buyer",
		map[string]string{"firstName": "Luka", "lastName": "Horvat", "coach": "Marko"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, router, http.MethodPost, "/sessions/"+id+"/advance", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPut, "/sessions/"+id+"/package",
		map[string]string{"packageId": "A", "jerseySize": "134cm", "shirtSize": "M", "hoodieSize": "L"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, router, http.MethodPost, "/sessions/"+id+"/advance", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/sessions/"+id+"/advance", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, router, http.MethodPost, "/sessions/"+id+"/advance", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	return decodeSnapshot(t, rec)
}

func TestHealth(t *testing.T) {
	router := testRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCatalogEndpoint(t *testing.T) {
	router := testRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/catalog", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var cat catalog.Catalog
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cat))
	assert.Len(t, cat.Packages, 2)
	assert.Len(t, cat.Extras, 5)
	assert.NotEmpty(t, cat.JerseySizes)
}

func TestCreateAndGetSession(t *testing.T) {
	router := testRouter(t)
	snap := createSession(t, router)
	assert.Equal(t, "login", snap.Step)
	assert.NotEmpty(t, snap.ID)
	assert.True(t, strings.HasPrefix(snap.OrderID, "DINAMO-OPREMA-"))

	rec := doJSON(t, router, http.MethodGet, "/sessions/"+snap.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, snap.OrderID, decodeSnapshot(t, rec).OrderID)
}

func TestGetUnknownSession(t *testing.T) {
	router := testRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/sessions/does-not-exist", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdvanceBlockedIsConflict(t *testing.T) {
	router := testRouter(t)
	snap := createSession(t, router)

	rec := doJSON(t, router, http.MethodPost, "/sessions/"+snap.ID+"/advance", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "required")

	// state unchanged
	rec = doJSON(t, router, http.MethodGet, "/sessions/"+snap.ID, nil)
	assert.Equal(t, "login", decodeSnapshot(t, rec).Step)
}

func TestBadPackagePayloads(t *testing.T) {
	router := testRouter(t)
	snap := createSession(t, router)

	rec := doJSON(t, router, http.MethodPut, "/sessions/"+snap.ID+"/package",
		map[string]string{"packageId": "Z"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPut, "/sessions/"+snap.ID+"/package",
		map[string]string{"shirtSize": "4XL"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPut, "/sessions/"+snap.ID+"/package",
		strings.NewReader("{not json"))
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req)
	assert.Equal(t, http.StatusBadRequest, rec2.Code)
}

func TestExtrasEndpoint(t *testing.T) {
	router := testRouter(t)
	snap := createSession(t, router)
	id := snap.ID

	rec := doJSON(t, router, http.MethodPut, "/sessions/"+id+"/extras",
		map[string]any{"extraId": "E_SHIRTS", "toggle": true})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"E_SHIRTS"}, decodeSnapshot(t, rec).SelectedExtras)

	rec = doJSON(t, router, http.MethodPut, "/sessions/"+id+"/extras",
		map[string]any{"extraId": "E_SHIRTS", "size": "M"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "M", decodeSnapshot(t, rec).ExtraSizes["E_SHIRTS"])

	rec = doJSON(t, router, http.MethodPut, "/sessions/"+id+"/extras",
		map[string]any{"extraId": "E_NOPE", "toggle": true})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPut, "/sessions/"+id+"/extras",
		map[string]any{"extraId": "E_SHIRTS"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFullFlowToPayment(t *testing.T) {
	router := testRouter(t)
	snap := createSession(t, router)
	final := driveToPayment(t, router, snap.ID)
	assert.Equal(t, "payment", final.Step)
	assert.Len(t, final.Reference, 4)

	rec := doJSON(t, router, http.MethodGet, "/sessions/"+snap.ID+"/payment", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var info wizard.PaymentInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.True(t, strings.HasPrefix(info.Payload, "HRVHUB30"))
	assert.Equal(t, int64(11000), info.TotalCents)
	assert.Equal(t, "HR5823600001101579632", info.IBAN)
}

func TestPaymentBeforePaymentStep(t *testing.T) {
	router := testRouter(t)
	snap := createSession(t, router)
	rec := doJSON(t, router, http.MethodGet, "/sessions/"+snap.ID+"/payment", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestBackNavigation(t *testing.T) {
	router := testRouter(t)
	snap := createSession(t, router)
	driveToPayment(t, router, snap.ID)

	rec := doJSON(t, router, http.MethodPost, "/sessions/"+snap.ID+"/back", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "review", decodeSnapshot(t, rec).Step)
}

func TestBarcodePNG(t *testing.T) {
	router := testRouter(t)
	snap := createSession(t, router)
	driveToPayment(t, router, snap.ID)

	rec := doJSON(t, router, http.MethodGet, "/sessions/"+snap.ID+"/barcode.png", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG\r\n\x1a\n")))
}

func TestBarcodeBeforePaymentStep(t *testing.T) {
	router := testRouter(t)
	snap := createSession(t, router)
	rec := doJSON(t, router, http.MethodGet, "/sessions/"+snap.ID+"/barcode.png", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}
