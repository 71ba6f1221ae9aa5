package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/balenascatcher/bilge-simulasyon/internal/attemptlog"
	"github.com/balenascatcher/bilge-simulasyon/internal/config"
	"github.com/balenascatcher/bilge-simulasyon/internal/dataset"
	"github.com/balenascatcher/bilge-simulasyon/internal/model"
	"github.com/balenascatcher/bilge-simulasyon/internal/session"
	"github.com/balenascatcher/bilge-simulasyon/internal/storage"
)

const (
	testLiveKey  = "beyanname/odevler.xlsx"
	testPassword = "gumruk2024"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fixture struct {
	router   *gin.Engine
	handler  *Handler
	attempts attemptlog.Store
}

type fixtureRow struct {
	studentNo string
	name      string
	invoiceNo string
	deadline  string
}

func newFixture(t *testing.T, rows ...fixtureRow) *fixture {
	t.Helper()

	st, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", "Odev-1"))
	header := []interface{}{
		"Öğrenci_Numarası", "Öğrenci_Ad_Soyad", "Fatura_Numarası", "Son_Teslim",
		"Rejim_Kodu", "Döviz", "Toplam_Fatura_Değeri", "GTIP_Kodu_1", "Kalem_Fiyatı_1",
	}
	require.NoError(t, f.SetSheetRow("Odev-1", "A1", &header))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		data := []interface{}{row.studentNo, row.name, row.invoiceNo, row.deadline,
			"1000", "EUR", 1250.75, "8471.30", 333.33}
		require.NoError(t, f.SetSheetRow("Odev-1", cell, &data))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, st.Upload(context.Background(), testLiveKey, bytes.NewReader(buf.Bytes())))

	cfg := &config.Config{
		App:     config.AppConfig{Name: "bilge-simulasyon", Version: "test"},
		Admin:   config.AdminConfig{Password: testPassword},
		Dataset: config.DatasetConfig{LiveKey: testLiveKey},
	}

	handler := &Handler{
		store:    dataset.NewStore(st, testLiveKey),
		sessions: session.NewManager(time.Hour),
		attempts: attemptlog.NewFileStore(filepath.Join(t.TempDir(), "student_logs.json")),
		cfg:      cfg,
		log:      zerolog.Nop(),
		now:      time.Now,
	}

	router := gin.New()
	SetupRoutes(router, handler, cfg)

	return &fixture{router: router, handler: handler, attempts: handler.attempts}
}

func (fx *fixture) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(sessionHeader, token)
	}

	w := httptest.NewRecorder()
	fx.router.ServeHTTP(w, req)
	return w
}

func (fx *fixture) login(t *testing.T, req model.LoginRequest) model.LoginResponse {
	t.Helper()

	w := fx.do(t, http.MethodPost, "/api/v1/login", "", req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp model.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// matchingSubmission fills every form field from the reference record,
// so the engine reports zero mismatches.
func matchingSubmission(rec *model.Declaration) model.Submission {
	num := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

	sub := model.Submission{
		CustomsOffice:       rec.CustomsOffice,
		DeclarationType:     rec.DeclarationType,
		RegimeCode:          rec.RegimeCode,
		ReferenceNo:         rec.ReferenceNo,
		Consignor:           rec.Consignor,
		Consignee:           rec.Consignee,
		Declarant:           rec.Declarant,
		DeclarationPlace:    rec.DeclarationPlace,
		DeclarationDate:     rec.DeclarationDate,
		DispatchCountry:     rec.DispatchCountry,
		TradingCountry:      rec.TradingCountry,
		DestinationCountry:  rec.DestinationCountry,
		FirstArrivalCountry: rec.FirstArrivalCountry,
		TransportID:         rec.TransportID,
		ContainerCode:       rec.ContainerCode,
		DeliveryTerms:       rec.DeliveryTerms,
		TransportModeBorder: rec.TransportModeBorder,
		TransportModeInland: rec.TransportModeInland,
		LoadingPlace:        rec.LoadingPlace,
		Currency:            rec.Currency,
		TotalInvoiceValue:   num(rec.TotalInvoiceValue),
		TotalNetWeight:      num(rec.TotalNetWeight),
		TotalGrossWeight:    num(rec.TotalGrossWeight),
		PaymentMethod:       rec.PaymentMethod,
		BankInfo:            rec.BankInfo,
		IBAN:                rec.IBAN,
		SwiftCode:           rec.SwiftCode,
	}
	for i := range rec.Items {
		item := &rec.Items[i]
		sub.Items[i] = model.SubmissionItem{
			HSCode:            item.HSCode,
			Description:       item.Description,
			OriginCountry:     item.OriginCountry,
			SupplementaryUnit: item.SupplementaryUnit,
			DocumentCode:      item.DocumentCode,
			DocumentRef:       item.DocumentRef,
			PackageType:       item.PackageType,
			PackageCount:      num(item.PackageCount),
			NetWeight:         num(item.NetWeight),
			GrossWeight:       num(item.GrossWeight),
			UnitPrice:         num(item.UnitPrice),
			StatisticalValue:  num(item.StatisticalValue),
			Freight:           num(item.Freight),
			Insurance:         num(item.Insurance),
			CIFValue:          num(item.CIFValue),
			CustomsDuty:       num(item.CustomsDuty),
			ExciseTax:         num(item.ExciseTax),
			VAT:               num(item.VAT),
			TaxTotal:          num(item.TaxTotal),
		}
	}
	return sub
}

func TestLoginAndSubmitSuccess(t *testing.T) {
	fx := newFixture(t, fixtureRow{studentNo: "2021123456", name: "Ayşe Yılmaz", invoiceNo: "INV-001", deadline: "---"})

	resp := fx.login(t, model.LoginRequest{StudentNo: "2021123456", Assignment: "Odev-1"})
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, "Ayşe Yılmaz", resp.StudentName)
	assert.Equal(t, "INV-001", resp.InvoiceNo)

	s, err := fx.handler.sessions.Get(resp.Token)
	require.NoError(t, err)

	w := fx.do(t, http.MethodPost, "/api/v1/declaration", resp.Token, matchingSubmission(s.Record))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var decl model.DeclarationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decl))
	assert.True(t, decl.Success)
	assert.Zero(t, decl.ErrorCount)
	assert.Contains(t, decl.Message, "TESCİL BAŞARILI")

	attempts, err := fx.attempts.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	assert.True(t, attempts[0].Success)
	assert.Equal(t, "2021123456", attempts[0].StudentNo)
}

func TestSubmitWithMismatches(t *testing.T) {
	fx := newFixture(t, fixtureRow{studentNo: "2021123456", name: "Ayşe Yılmaz", invoiceNo: "INV-001", deadline: "---"})

	resp := fx.login(t, model.LoginRequest{StudentNo: "2021123456", Assignment: "Odev-1"})
	s, err := fx.handler.sessions.Get(resp.Token)
	require.NoError(t, err)

	sub := matchingSubmission(s.Record)
	sub.Currency = "USD"
	sub.Items[0].UnitPrice = "999"

	w := fx.do(t, http.MethodPost, "/api/v1/declaration", resp.Token, sub)
	require.Equal(t, http.StatusOK, w.Code)

	var decl model.DeclarationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decl))
	assert.False(t, decl.Success)
	assert.Equal(t, 2, decl.ErrorCount)
	assert.Contains(t, decl.Errors, "Döviz hatalı.")
	assert.Contains(t, decl.Errors, "Kalem 1: Kalem Fiyatı hatalı veya eksik hesaplanmış.")

	attempts, err := fx.attempts.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	assert.False(t, attempts[0].Success)
	assert.Len(t, attempts[0].Errors, 2)
}

func TestLoginUnknownStudent(t *testing.T) {
	fx := newFixture(t, fixtureRow{studentNo: "2021123456", name: "Ayşe Yılmaz", invoiceNo: "INV-001", deadline: "---"})

	w := fx.do(t, http.MethodPost, "/api/v1/login", "", model.LoginRequest{StudentNo: "999", Assignment: "Odev-1"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLoginUnknownAssignment(t *testing.T) {
	fx := newFixture(t, fixtureRow{studentNo: "2021123456", name: "Ayşe Yılmaz", invoiceNo: "INV-001", deadline: "---"})

	w := fx.do(t, http.MethodPost, "/api/v1/login", "", model.LoginRequest{StudentNo: "2021123456", Assignment: "Odev-9"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLoginMultipleInvoices(t *testing.T) {
	fx := newFixture(t,
		fixtureRow{studentNo: "2021123456", name: "Ayşe Yılmaz", invoiceNo: "INV-001", deadline: "---"},
		fixtureRow{studentNo: "2021123456", name: "Ayşe Yılmaz", invoiceNo: "INV-002", deadline: "---"},
	)

	resp := fx.login(t, model.LoginRequest{StudentNo: "2021123456", Assignment: "Odev-1"})
	assert.Empty(t, resp.Token)
	assert.Equal(t, []string{"INV-001", "INV-002"}, resp.Invoices)

	resp = fx.login(t, model.LoginRequest{StudentNo: "2021123456", Assignment: "Odev-1", InvoiceNo: "INV-002"})
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, "INV-002", resp.InvoiceNo)
}

func TestLoginAfterDeadline(t *testing.T) {
	fx := newFixture(t, fixtureRow{studentNo: "2021123456", name: "Ayşe Yılmaz", invoiceNo: "INV-001", deadline: "2020-01-01 12:00"})

	w := fx.do(t, http.MethodPost, "/api/v1/login", "", model.LoginRequest{StudentNo: "2021123456", Assignment: "Odev-1"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "süresi dolmuştur")
}

func TestSubmitAfterDeadlineNotLogged(t *testing.T) {
	fx := newFixture(t, fixtureRow{studentNo: "2021123456", name: "Ayşe Yılmaz", invoiceNo: "INV-001", deadline: "2030-01-01 12:00"})

	resp := fx.login(t, model.LoginRequest{StudentNo: "2021123456", Assignment: "Odev-1"})
	require.NotEmpty(t, resp.Token)

	// Deadline passes while the session is open.
	fx.handler.now = func() time.Time {
		return time.Date(2031, 1, 1, 0, 0, 0, 0, time.Local)
	}

	w := fx.do(t, http.MethodPost, "/api/v1/declaration", resp.Token, model.Submission{})
	assert.Equal(t, http.StatusForbidden, w.Code)

	attempts, err := fx.attempts.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, attempts)
}

func TestSubmitWithoutSession(t *testing.T) {
	fx := newFixture(t, fixtureRow{studentNo: "2021123456", name: "Ayşe Yılmaz", invoiceNo: "INV-001", deadline: "---"})

	w := fx.do(t, http.MethodPost, "/api/v1/declaration", "", model.Submission{})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutEndsSession(t *testing.T) {
	fx := newFixture(t, fixtureRow{studentNo: "2021123456", name: "Ayşe Yılmaz", invoiceNo: "INV-001", deadline: "---"})

	resp := fx.login(t, model.LoginRequest{StudentNo: "2021123456", Assignment: "Odev-1"})

	w := fx.do(t, http.MethodPost, "/api/v1/logout", resp.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = fx.do(t, http.MethodPost, "/api/v1/declaration", resp.Token, model.Submission{})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestInvoicePage(t *testing.T) {
	fx := newFixture(t, fixtureRow{studentNo: "2021123456", name: "Ayşe Yılmaz", invoiceNo: "INV-001", deadline: "---"})

	resp := fx.login(t, model.LoginRequest{StudentNo: "2021123456", Assignment: "Odev-1"})

	w := fx.do(t, http.MethodGet, "/api/v1/invoice", resp.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "TİCARİ FATURA")
	assert.Contains(t, w.Body.String(), "INV-001")
}

func TestListAssignments(t *testing.T) {
	fx := newFixture(t, fixtureRow{studentNo: "2021123456", name: "Ayşe Yılmaz", invoiceNo: "INV-001", deadline: "---"})

	w := fx.do(t, http.MethodGet, "/api/v1/assignments", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Odev-1")
}

func TestPanelRequiresPassword(t *testing.T) {
	fx := newFixture(t, fixtureRow{studentNo: "2021123456", name: "Ayşe Yılmaz", invoiceNo: "INV-001", deadline: "---"})

	w := fx.do(t, http.MethodGet, "/api/v1/panel/attempts", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/panel/attempts", nil)
	req.Header.Set("X-Admin-Password", "wrong")
	rec := httptest.NewRecorder()
	fx.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPanelStatsAndReport(t *testing.T) {
	fx := newFixture(t, fixtureRow{studentNo: "2021123456", name: "Ayşe Yılmaz", invoiceNo: "INV-001", deadline: "---"})

	resp := fx.login(t, model.LoginRequest{StudentNo: "2021123456", Assignment: "Odev-1"})
	s, err := fx.handler.sessions.Get(resp.Token)
	require.NoError(t, err)

	sub := matchingSubmission(s.Record)
	sub.Currency = "USD"
	fx.do(t, http.MethodPost, "/api/v1/declaration", resp.Token, sub)
	fx.do(t, http.MethodPost, "/api/v1/declaration", resp.Token, matchingSubmission(s.Record))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/panel/stats", nil)
	req.Header.Set("X-Admin-Password", testPassword)
	rec := httptest.NewRecorder()
	fx.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats model.PanelStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Succeeded)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/panel/report", nil)
	req.Header.Set("X-Admin-Password", testPassword)
	rec = httptest.NewRecorder()
	fx.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Döviz hatalı.")
}
