package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jwalitptl/dental-admin/internal/config"
	"github.com/jwalitptl/dental-admin/internal/model"
	"github.com/jwalitptl/dental-admin/internal/repository/memory"
	"github.com/jwalitptl/dental-admin/internal/session"
	"github.com/jwalitptl/dental-admin/pkg/httputil"
)

const adminPassword = "admin123"

func init() {
	gin.SetMode(gin.TestMode)
}

type page struct {
	Page   string            `json:"page"`
	Data   json.RawMessage   `json:"data"`
	Form   map[string]string `json:"form"`
	Errors map[string]string `json:"errors"`
	Flash  *session.Flash    `json:"flash"`
	User   *model.Identity   `json:"user"`
	Error  *httputil.Error   `json:"error"`
}

type testClient struct {
	t      *testing.T
	server *httptest.Server
	http   *http.Client
	store  *memory.Store
}

func testConfig(policy string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{WriteTimeout: 5 * time.Second},
		Session: config.SessionConfig{
			Secret:     "test-secret",
			TTL:        time.Hour,
			CookieName: "dental_session",
		},
		Patients: config.PatientsConfig{DeletePolicy: policy},
	}
}

func newTestClient(t *testing.T, cfg *config.Config) *testClient {
	t.Helper()

	store := memory.NewStore()
	a := New(cfg, store, Options{BcryptCost: bcrypt.MinCost})

	created, err := a.Auth.EnsureAdmin(context.Background(), adminPassword)
	require.NoError(t, err)
	require.True(t, created)

	server := httptest.NewServer(a.Handler())
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testClient{
		t:      t,
		server: server,
		store:  store,
		http: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (c *testClient) get(path string) *http.Response {
	c.t.Helper()
	resp, err := c.http.Get(c.server.URL + path)
	require.NoError(c.t, err)
	return resp
}

func (c *testClient) post(path string, form url.Values) *http.Response {
	c.t.Helper()
	resp, err := c.http.PostForm(c.server.URL+path, form)
	require.NoError(c.t, err)
	return resp
}

func (c *testClient) login() {
	c.t.Helper()
	resp := c.post("/login", url.Values{"username": {"admin"}, "password": {adminPassword}})
	resp.Body.Close()
	require.Equal(c.t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(c.t, "/dashboard", resp.Header.Get("Location"))
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func decodePage(t *testing.T, resp *http.Response) page {
	t.Helper()
	var p page
	require.NoError(t, json.Unmarshal([]byte(readBody(t, resp)), &p))
	return p
}

func TestProtectedPagesRedirectToLogin(t *testing.T) {
	c := newTestClient(t, testConfig(config.DeletePolicyRestrict))

	for _, path := range []string{"/dashboard", "/patients", "/appointments/new", "/treatments", "/invoices"} {
		resp := c.get(path)
		resp.Body.Close()
		assert.Equal(t, http.StatusFound, resp.StatusCode, path)
		assert.Equal(t, "/login", resp.Header.Get("Location"), path)
	}
}

func TestPublicPages(t *testing.T) {
	c := newTestClient(t, testConfig(config.DeletePolicyRestrict))

	home := decodePage(t, c.get("/"))
	assert.Equal(t, "home", home.Page)
	assert.Nil(t, home.User)

	resp := c.get("/health/live")
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = c.get("/health/ready")
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLoginFailureDoesNotRevealWhichFieldWasWrong(t *testing.T) {
	c := newTestClient(t, testConfig(config.DeletePolicyRestrict))

	for _, form := range []url.Values{
		{"username": {"admin"}, "password": {"wrong-password"}},
		{"username": {"nobody"}, "password": {"wrong-password"}},
	} {
		resp := c.post("/login", form)
		body := readBody(t, resp)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.NotContains(t, body, "wrong-password")

		var p page
		require.NoError(t, json.Unmarshal([]byte(body), &p))
		assert.Equal(t, "login", p.Page)
		require.NotNil(t, p.Flash)
		assert.Equal(t, session.Flash{Category: session.FlashDanger, Message: "Invalid credentials"}, *p.Flash)
		assert.Empty(t, p.Errors)
	}

	resp := c.get("/dashboard")
	resp.Body.Close()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
}

func TestLoginValidation(t *testing.T) {
	c := newTestClient(t, testConfig(config.DeletePolicyRestrict))

	resp := c.post("/login", url.Values{"username": {"  "}, "password": {""}})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	p := decodePage(t, resp)
	assert.Contains(t, p.Errors, "username")
	assert.Contains(t, p.Errors, "password")
}

func TestLoginAndLogout(t *testing.T) {
	c := newTestClient(t, testConfig(config.DeletePolicyRestrict))
	c.login()

	dash := decodePage(t, c.get("/dashboard"))
	assert.Equal(t, "dashboard", dash.Page)
	require.NotNil(t, dash.Flash)
	assert.Equal(t, "Logged in successfully.", dash.Flash.Message)
	require.NotNil(t, dash.User)
	assert.Equal(t, "admin", dash.User.Username)

	// The flash is shown once.
	dash = decodePage(t, c.get("/dashboard"))
	assert.Nil(t, dash.Flash)

	// Logged-in users skip the login form.
	resp := c.get("/login")
	resp.Body.Close()
	assert.Equal(t, http.StatusFound, resp.StatusCode)

	u, err := url.Parse(c.server.URL)
	require.NoError(t, err)
	var token string
	for _, ck := range c.http.Jar.Cookies(u) {
		if ck.Name == "dental_session" {
			token = ck.Value
		}
	}
	require.NotEmpty(t, token)

	resp = c.get("/logout")
	resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	home := decodePage(t, c.get("/"))
	require.NotNil(t, home.Flash)
	assert.Equal(t, "Logged out", home.Flash.Message)

	// Replaying the old cookie is rejected once the session is revoked.
	req, err := http.NewRequest(http.MethodGet, c.server.URL+"/dashboard", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: "dental_session", Value: token})
	resp, err = (&http.Client{CheckRedirect: c.http.CheckRedirect}).Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
}

func TestLoginRateLimit(t *testing.T) {
	cfg := testConfig(config.DeletePolicyRestrict)
	cfg.RateLimit = config.RateLimitConfig{LoginRPS: 0.001, LoginBurst: 2}
	c := newTestClient(t, cfg)

	bad := url.Values{"username": {"admin"}, "password": {"wrong-password"}}
	for i := 0; i < 2; i++ {
		resp := c.post("/login", bad)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}

	resp := c.post("/login", bad)
	resp.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))

	body := readBody(t, c.get("/metrics"))
	assert.Contains(t, body, `dental_login_attempts_total{outcome="failure"} 2`)
	assert.Contains(t, body, `dental_login_attempts_total{outcome="rate_limited"} 1`)
}

func TestLoginRateLimitIgnoresForwardedFor(t *testing.T) {
	cfg := testConfig(config.DeletePolicyRestrict)
	cfg.RateLimit = config.RateLimitConfig{LoginRPS: 0.001, LoginBurst: 2}
	c := newTestClient(t, cfg)

	bad := url.Values{"username": {"admin"}, "password": {"wrong-password"}}.Encode()
	var codes []int
	for i := 0; i < 5; i++ {
		req, err := http.NewRequest(http.MethodPost, c.server.URL+"/login", strings.NewReader(bad))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i+1))
		req.Header.Set("X-Real-IP", fmt.Sprintf("198.51.100.%d", i+1))

		resp, err := c.http.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		codes = append(codes, resp.StatusCode)
	}

	assert.Equal(t, []int{
		http.StatusUnauthorized,
		http.StatusUnauthorized,
		http.StatusTooManyRequests,
		http.StatusTooManyRequests,
		http.StatusTooManyRequests,
	}, codes)
}

func TestCreatePatientThenSearch(t *testing.T) {
	c := newTestClient(t, testConfig(config.DeletePolicyRestrict))
	c.login()

	resp := c.post("/patients/new", url.Values{"name": {"Jane Doe"}, "email": {"jane@example.com"}})
	resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/patients", resp.Header.Get("Location"))

	resp = c.post("/patients/new", url.Values{"name": {"John Smith"}, "email": {"john@example.com"}})
	resp.Body.Close()

	p := decodePage(t, c.get("/patients?q=jane"))
	assert.Equal(t, "patients/list", p.Page)

	var data struct {
		Patients []model.Patient `json:"patients"`
		Q        string          `json:"q"`
	}
	require.NoError(t, json.Unmarshal(p.Data, &data))
	require.Len(t, data.Patients, 1)
	assert.Equal(t, "Jane Doe", data.Patients[0].Name)
	assert.Equal(t, "jane@example.com", data.Patients[0].Email)
	assert.Equal(t, "jane", data.Q)
}

func TestInvalidPatientRerendersForm(t *testing.T) {
	c := newTestClient(t, testConfig(config.DeletePolicyRestrict))
	c.login()

	resp := c.post("/patients/new", url.Values{"name": {" "}, "email": {"not-an-email"}, "phone": {"555"}})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	p := decodePage(t, resp)
	assert.Equal(t, "patients/form", p.Page)
	assert.Contains(t, p.Errors, "name")
	assert.Contains(t, p.Errors, "email")
	assert.Equal(t, "555", p.Form["phone"])

	count, err := c.store.Patients().Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestUnknownOrMalformedIDIs404(t *testing.T) {
	c := newTestClient(t, testConfig(config.DeletePolicyRestrict))
	c.login()

	for _, path := range []string{"/patients/abc", "/patients/999", "/patients/0/edit", "/treatments/999/edit"} {
		resp := c.get(path)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
		p := decodePage(t, resp)
		assert.Equal(t, "error", p.Page, path)
	}

	resp := c.post("/appointments/999/delete", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestBookingCreatesPatient(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t, testConfig(config.DeletePolicyRestrict))
	c.login()

	form := decodePage(t, c.get("/appointments/new"))
	assert.Equal(t, "appointments/form", form.Page)
	assert.Contains(t, string(form.Data), "Whitening")

	resp := c.post("/appointments/new", url.Values{
		"name":    {"New Pat"},
		"email":   {"new@example.com"},
		"date":    {"2024-05-01 10:00"},
		"service": {"Cleaning"},
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/appointments", resp.Header.Get("Location"))

	patients, err := c.store.Patients().List(ctx, &model.PatientFilter{})
	require.NoError(t, err)
	require.Len(t, patients, 1)

	appointments, err := c.store.Appointments().List(ctx)
	require.NoError(t, err)
	require.Len(t, appointments, 1)
	assert.Equal(t, patients[0].ID, appointments[0].PatientID)

	list := decodePage(t, c.get("/appointments"))
	require.NotNil(t, list.Flash)
	assert.Equal(t, "Appointment created", list.Flash.Message)
	assert.Contains(t, string(list.Data), "New Pat")
}

func TestInvalidBookingKeepsInput(t *testing.T) {
	c := newTestClient(t, testConfig(config.DeletePolicyRestrict))
	c.login()

	resp := c.post("/appointments/new", url.Values{
		"name":    {"New Pat"},
		"email":   {"new@example.com"},
		"service": {"Surgery"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	p := decodePage(t, resp)
	assert.Contains(t, p.Errors, "service")
	assert.Contains(t, p.Errors, "date")
	assert.Equal(t, "New Pat", p.Form["name"])
	assert.Contains(t, string(p.Data), "Cleaning")
}

func TestInvoiceAndDashboard(t *testing.T) {
	c := newTestClient(t, testConfig(config.DeletePolicyRestrict))
	c.login()

	var dash model.Dashboard
	require.NoError(t, json.Unmarshal(decodePage(t, c.get("/dashboard")).Data, &dash))
	assert.Zero(t, dash.UnpaidInvoices)

	for _, desc := range []string{"Checkup", "Cleaning"} {
		resp := c.post("/invoices/new", url.Values{
			"patient_name": {"Jane Doe"},
			"amount":       {"120.00"},
			"description":  {desc},
			"status":       {"Unpaid"},
		})
		resp.Body.Close()
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/invoices", resp.Header.Get("Location"))
	}

	var list struct {
		Invoices []model.Invoice `json:"invoices"`
	}
	require.NoError(t, json.Unmarshal(decodePage(t, c.get("/invoices")).Data, &list))
	require.Len(t, list.Invoices, 2)
	assert.Equal(t, "Cleaning", list.Invoices[0].Description)
	assert.Equal(t, 120.0, list.Invoices[0].Amount)

	require.NoError(t, json.Unmarshal(decodePage(t, c.get("/dashboard")).Data, &dash))
	assert.Equal(t, int64(2), dash.UnpaidInvoices)
}

func TestTreatmentCreateAndEdit(t *testing.T) {
	c := newTestClient(t, testConfig(config.DeletePolicyRestrict))
	c.login()

	resp := c.post("/treatments/new", url.Values{"name": {"Filling"}, "price": {"80"}, "patient_id": {"42"}})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	p := decodePage(t, resp)
	assert.Contains(t, p.Errors, "patient_id")

	resp = c.post("/treatments/new", url.Values{"name": {"Filling"}, "price": {"80"}})
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	edit := decodePage(t, c.get("/treatments/1/edit"))
	assert.Equal(t, "80.00", edit.Form["price"])

	resp = c.post("/treatments/1/edit", url.Values{"name": {"Filling"}, "price": {"95.5"}})
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	var list struct {
		Treatments []model.Treatment `json:"treatments"`
	}
	require.NoError(t, json.Unmarshal(decodePage(t, c.get("/treatments")).Data, &list))
	require.Len(t, list.Treatments, 1)
	assert.Equal(t, 95.5, list.Treatments[0].Price)
}

func bookFor(t *testing.T, c *testClient, email string) {
	t.Helper()
	resp := c.post("/appointments/new", url.Values{
		"name":    {"Jane Doe"},
		"email":   {email},
		"date":    {"2024-05-01 10:00"},
		"service": {"Filling"},
	})
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
}

func TestDeletePatientRestrict(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t, testConfig(config.DeletePolicyRestrict))
	c.login()
	bookFor(t, c, "jane@example.com")

	resp := c.post("/patients/1/delete", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/patients/1", resp.Header.Get("Location"))

	p := decodePage(t, c.get("/patients/1"))
	assert.Equal(t, "patients/view", p.Page)
	require.NotNil(t, p.Flash)
	assert.Equal(t, session.FlashDanger, p.Flash.Category)
	assert.True(t, strings.Contains(p.Flash.Message, "appointment"))

	_, err := c.store.Patients().Get(ctx, 1)
	assert.NoError(t, err)
}

func TestDeletePatientCascade(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t, testConfig(config.DeletePolicyCascade))
	c.login()
	bookFor(t, c, "jane@example.com")

	resp := c.post("/patients/1/delete", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/patients", resp.Header.Get("Location"))

	appointments, err := c.store.Appointments().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, appointments)

	resp = c.get("/patients/1")
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
