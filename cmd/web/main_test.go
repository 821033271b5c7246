package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"

	"comforttech.in/ac-web/internal/config"
	"comforttech.in/ac-web/internal/gate"
	"comforttech.in/ac-web/internal/lead"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func testConfig(t *testing.T, overrides map[string]string) config.Config {
	t.Helper()
	env := map[string]string{
		"WEB_TEMPLATES_DIR":     "../../templates",
		"WEB_PUBLIC_DIR":        "../../public",
		"WEB_CONTENT_DIR":       "../../content",
		"WEB_BASE_URL":          "https://comforttech.example",
		"WEB_GATE_MIN_DURATION": "20ms",
		"WEB_GATE_EXIT_DELAY":   "5ms",
		"WEB_DEV":               "true",
	}
	for k, v := range overrides {
		env[k] = v
	}
	cfg, err := config.Load(config.WithoutSystemEnv(), config.WithEnvFile(t.TempDir()+"/missing.env"), config.WithEnvMap(env))
	require.NoError(t, err)
	return cfg
}

func newTestServer(t *testing.T, opts ...serverOption) (*httptest.Server, *testClock) {
	t.Helper()
	return newTestServerWithEnv(t, nil, opts...)
}

func newTestServerWithEnv(t *testing.T, env map[string]string, opts ...serverOption) (*httptest.Server, *testClock) {
	t.Helper()
	clock := &testClock{now: time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC)}
	srv, err := newServer(testConfig(t, env), nil, nil, append([]serverOption{withClock(clock.Now)}, opts...)...)
	require.NoError(t, err)
	ts := httptest.NewServer(srv.routes())
	t.Cleanup(ts.Close)
	return ts, clock
}

type browser struct {
	t      *testing.T
	base   string
	client *http.Client
}

func newBrowser(t *testing.T, base string) *browser {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{
		t:    t,
		base: base,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (b *browser) csrf() string {
	u, _ := url.Parse(b.base)
	for _, c := range b.client.Jar.Cookies(u) {
		if c.Name == "csrf_token" {
			return c.Value
		}
	}
	return ""
}

func (b *browser) do(method, path string, form url.Values, htmx bool) (*http.Response, string) {
	b.t.Helper()
	return b.doWithHeader(method, path, form, htmx, nil)
}

func (b *browser) doWithHeader(method, path string, form url.Values, htmx bool, header http.Header) (*http.Response, string) {
	b.t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequest(method, b.base+path, body)
	require.NoError(b.t, err)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	if method != http.MethodGet {
		req.Header.Set("X-CSRF-Token", b.csrf())
	}
	for k, v := range header {
		req.Header[k] = v
	}
	res, err := b.client.Do(req)
	require.NoError(b.t, err)
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	require.NoError(b.t, err)
	return res, string(data)
}

func parseDoc(t *testing.T, body string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	require.NoError(t, err)
	return doc
}

func TestHealthzOK(t *testing.T) {
	ts, _ := newTestServer(t)
	res, body := newBrowser(t, ts.URL).do(http.MethodGet, "/healthz", nil, false)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "ok", strings.TrimSpace(body))
}

func TestHomeRendersLanding(t *testing.T) {
	ts, _ := newTestServer(t)
	res, body := newBrowser(t, ts.URL).do(http.MethodGet, "/", nil, false)
	require.Equal(t, http.StatusOK, res.StatusCode)

	doc := parseDoc(t, body)
	require.Equal(t, 6, doc.Find("article.service-card").Length())
	require.Equal(t, 6, doc.Find("[data-section-nav] a").Length())
	require.Equal(t, "home", doc.Find("[data-section-nav] a.active").AttrOr("data-section", ""))
	require.Equal(t, "/loading/ws", doc.Find("#loading-gate").AttrOr("data-socket", ""))
	require.Equal(t, "1", doc.Find("#booking form").AttrOr("data-booking-step", ""))
	require.Equal(t, 10, doc.Find("details.faq").Length())

	href := doc.Find("article.service-card a.btn-whatsapp").First().AttrOr("href", "")
	require.True(t, strings.HasPrefix(href, "https://wa.me/917745046520?text=Hi%20Comfort%20Technical%20Services!"), href)

	var types []string
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		var payload map[string]any
		require.NoError(t, json.Unmarshal([]byte(s.Text()), &payload))
		types = append(types, payload["@type"].(string))
	})
	require.Contains(t, types, "HVACBusiness")
	require.Contains(t, types, "FAQPage")
}

func TestHomeSectionQuery(t *testing.T) {
	ts, _ := newTestServer(t)
	b := newBrowser(t, ts.URL)

	_, body := b.do(http.MethodGet, "/?section=amc", nil, false)
	require.Equal(t, "amc", parseDoc(t, body).Find("[data-section-nav] a.active").AttrOr("data-section", ""))

	_, body = b.do(http.MethodGet, "/?section=unknown", nil, false)
	require.Equal(t, "home", parseDoc(t, body).Find("[data-section-nav] a.active").AttrOr("data-section", ""))
}

func TestServicesAndAreasPages(t *testing.T) {
	ts, _ := newTestServer(t)
	b := newBrowser(t, ts.URL)

	res, body := b.do(http.MethodGet, "/services", nil, false)
	require.Equal(t, http.StatusOK, res.StatusCode)
	doc := parseDoc(t, body)
	require.Equal(t, 4, doc.Find("section.price-table").Length())
	doc.Find("section.price-table tbody a").Each(func(_ int, s *goquery.Selection) {
		require.Contains(t, s.AttrOr("href", ""), "https://wa.me/917745046520?text=")
	})
	require.Equal(t, "Services & Pricing", doc.Find(".site-nav a.active").Text())

	res, body = b.do(http.MethodGet, "/areas", nil, false)
	require.Equal(t, http.StatusOK, res.StatusCode)
	doc = parseDoc(t, body)
	require.Equal(t, 2, doc.Find(".area-group").Length())
	require.Equal(t, 27, doc.Find(".area-group .chips li").Length())
}

func TestContentPages(t *testing.T) {
	ts, _ := newTestServer(t)
	b := newBrowser(t, ts.URL)

	res, body := b.do(http.MethodGet, "/pages/amc", nil, false)
	require.Equal(t, http.StatusOK, res.StatusCode)
	doc := parseDoc(t, body)
	require.NotEmpty(t, strings.TrimSpace(doc.Find("article.content-page .prose").Text()))
	require.Equal(t, 1, doc.Find("article.content-page aside.alert").Length())
	require.Equal(t, 2, doc.Find(".breadcrumbs li").Length())

	res, _ = b.do(http.MethodGet, "/pages/missing", nil, false)
	require.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestBookingFlowHTMX(t *testing.T) {
	ts, clock := newTestServer(t)
	b := newBrowser(t, ts.URL)

	res, body := b.do(http.MethodGet, "/booking", nil, true)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "1", parseDoc(t, body).Find("form").AttrOr("data-booking-step", ""))
	require.NotEmpty(t, b.csrf())

	res, body = b.do(http.MethodPost, "/booking/next", url.Values{"name": {"Ra"}}, true)
	require.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	require.Contains(t, body, "Name must be at least 3 characters")

	res, body = b.do(http.MethodPost, "/booking/next", url.Values{"name": {"Rahul Shah"}}, true)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "2", parseDoc(t, body).Find("form").AttrOr("data-booking-step", ""))

	res, body = b.do(http.MethodPost, "/booking/next", url.Values{"phone": {"12345"}}, true)
	require.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	doc := parseDoc(t, body)
	require.Equal(t, "Please enter a valid 10-digit Indian phone number", doc.Find(".field-error").Text())
	require.Equal(t, "12345", doc.Find("#booking-phone").AttrOr("value", ""))

	res, body = b.do(http.MethodPost, "/booking/back", url.Values{"phone": {"98765"}}, true)
	require.Equal(t, http.StatusOK, res.StatusCode)
	doc = parseDoc(t, body)
	require.Equal(t, "1", doc.Find("form").AttrOr("data-booking-step", ""))
	require.Equal(t, "Rahul Shah", doc.Find("#booking-name").AttrOr("value", ""))

	for _, step := range []url.Values{
		{"name": {"Rahul Shah"}},
		{"phone": {"9876543210"}},
		{"service": {"AC Servicing"}},
		{"date": {""}},
	} {
		res, body = b.do(http.MethodPost, "/booking/next", step, true)
		require.Equal(t, http.StatusOK, res.StatusCode, body)
	}
	doc = parseDoc(t, body)
	require.Equal(t, "5", doc.Find("form").AttrOr("data-booking-step", ""))
	require.Equal(t, 1, doc.Find("#booking-message").Length())

	res, body = b.do(http.MethodPost, "/booking/submit", url.Values{"message": {""}}, true)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var trigger map[string]map[string]string
	require.NoError(t, json.Unmarshal([]byte(res.Header.Get("HX-Trigger")), &trigger))
	want := lead.Linker{Number: "917745046520"}.Link(lead.ComposeMessage(lead.State{
		Name:    "Rahul Shah",
		Phone:   "9876543210",
		Service: "AC Servicing",
	}))
	require.Equal(t, want, trigger["booking:open"]["url"])
	require.NotEmpty(t, trigger["booking:open"]["reference"])
	require.Equal(t, want, parseDoc(t, body).Find("[data-booking-link]").AttrOr("href", ""))

	res, _ = b.do(http.MethodPost, "/booking/submit", url.Values{}, true)
	require.Equal(t, http.StatusConflict, res.StatusCode)
	require.Empty(t, res.Header.Get("HX-Trigger"))

	clock.Advance(1500 * time.Millisecond)
	res, body = b.do(http.MethodGet, "/booking", nil, true)
	require.Equal(t, http.StatusOK, res.StatusCode)
	doc = parseDoc(t, body)
	require.Equal(t, "1", doc.Find("form").AttrOr("data-booking-step", ""))
	require.Empty(t, doc.Find("#booking-name").AttrOr("value", ""))
}

func TestBookingSubmitMissingInformation(t *testing.T) {
	ts, _ := newTestServer(t)
	b := newBrowser(t, ts.URL)
	b.do(http.MethodGet, "/booking", nil, true)

	res, body := b.do(http.MethodPost, "/booking/submit", url.Values{"message": {"hello"}}, true)
	require.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	require.Empty(t, res.Header.Get("HX-Trigger"))
	require.Contains(t, body, "Please select a service")
}

func TestBookingMessageTooLong(t *testing.T) {
	ts, _ := newTestServer(t)
	b := newBrowser(t, ts.URL)
	b.do(http.MethodGet, "/booking", nil, true)
	for _, step := range []url.Values{
		{"name": {"Rahul Shah"}},
		{"phone": {"9876543210"}},
		{"service": {"Gas Refill"}},
		{"date": {"2026-03-06"}},
	} {
		res, body := b.do(http.MethodPost, "/booking/next", step, true)
		require.Equal(t, http.StatusOK, res.StatusCode, body)
	}
	res, body := b.do(http.MethodPost, "/booking/submit", url.Values{"message": {strings.Repeat("a", 501)}}, true)
	require.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	require.Contains(t, body, "Message must be less than 500 characters")
}

func TestBookingPastDateRejected(t *testing.T) {
	ts, _ := newTestServer(t)
	b := newBrowser(t, ts.URL)
	b.do(http.MethodGet, "/booking", nil, true)
	for _, step := range []url.Values{
		{"name": {"Rahul Shah"}},
		{"phone": {"+919876543210"}},
		{"service": {"AC Repair"}},
	} {
		res, body := b.do(http.MethodPost, "/booking/next", step, true)
		require.Equal(t, http.StatusOK, res.StatusCode, body)
	}
	res, body := b.do(http.MethodPost, "/booking/next", url.Values{"date": {"2026-03-04"}}, true)
	require.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	require.Contains(t, body, "Date must be today or in the future")

	res, body = b.do(http.MethodPost, "/booking/next", url.Values{"date": {"05/03/2026"}}, true)
	require.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	require.Contains(t, body, "Please pick a valid date")
}

func TestBookingPlainFormRedirects(t *testing.T) {
	ts, _ := newTestServer(t)
	b := newBrowser(t, ts.URL)
	b.do(http.MethodGet, "/", nil, false)

	post := func(path string, form url.Values) *http.Response {
		form.Set("csrf_token", b.csrf())
		req, err := http.NewRequest(http.MethodPost, ts.URL+path, strings.NewReader(form.Encode()))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		res, err := b.client.Do(req)
		require.NoError(t, err)
		_ = res.Body.Close()
		return res
	}

	res := post("/booking/next", url.Values{"name": {"Rahul Shah"}})
	require.Equal(t, http.StatusSeeOther, res.StatusCode)
	require.Equal(t, "/booking", res.Header.Get("Location"))

	res = post("/booking/next", url.Values{"phone": {"123"}})
	require.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)

	for _, form := range []url.Values{
		{"phone": {"9876543210"}},
		{"service": {"AC Installation"}},
		{"date": {""}},
	} {
		require.Equal(t, http.StatusSeeOther, post("/booking/next", form).StatusCode)
	}
	res = post("/booking/submit", url.Values{"message": {"2 split units"}})
	require.Equal(t, http.StatusSeeOther, res.StatusCode)
	require.True(t, strings.HasPrefix(res.Header.Get("Location"), "https://wa.me/917745046520?text="))
	require.Contains(t, res.Header.Get("Location"), "Service%3A%20AC%20Installation")
}

func TestBookingSubmitRateLimited(t *testing.T) {
	ts, _ := newTestServerWithEnv(t, map[string]string{"WEB_BOOKING_SUBMIT_LIMIT": "1"})
	b := newBrowser(t, ts.URL)
	b.do(http.MethodGet, "/booking", nil, true)

	res, _ := b.do(http.MethodPost, "/booking/submit", url.Values{}, true)
	require.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	res, _ = b.do(http.MethodPost, "/booking/submit", url.Values{}, true)
	require.Equal(t, http.StatusTooManyRequests, res.StatusCode)
	require.NotEmpty(t, res.Header.Get("Retry-After"))

	res, _ = b.do(http.MethodPost, "/booking/next", url.Values{"name": {"Rahul Shah"}}, true)
	require.Equal(t, http.StatusOK, res.StatusCode)
}

func TestBookingSubmitLimitIgnoresForwardedFor(t *testing.T) {
	ts, _ := newTestServerWithEnv(t, map[string]string{"WEB_BOOKING_SUBMIT_LIMIT": "1"})
	b := newBrowser(t, ts.URL)
	b.do(http.MethodGet, "/booking", nil, true)

	res, _ := b.doWithHeader(http.MethodPost, "/booking/submit", url.Values{}, true,
		http.Header{"X-Forwarded-For": {"203.0.113.7"}})
	require.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	res, _ = b.doWithHeader(http.MethodPost, "/booking/submit", url.Values{}, true,
		http.Header{"X-Forwarded-For": {"198.51.100.9"}})
	require.Equal(t, http.StatusTooManyRequests, res.StatusCode)
}

func TestBookingSubmitLimitBehindTrustedProxy(t *testing.T) {
	ts, _ := newTestServerWithEnv(t, map[string]string{
		"WEB_BOOKING_SUBMIT_LIMIT": "1",
		"WEB_TRUST_PROXY":          "true",
	})
	b := newBrowser(t, ts.URL)
	b.do(http.MethodGet, "/booking", nil, true)

	for _, ip := range []string{"203.0.113.7", "198.51.100.9"} {
		res, _ := b.doWithHeader(http.MethodPost, "/booking/submit", url.Values{}, true,
			http.Header{"X-Forwarded-For": {ip}})
		require.Equal(t, http.StatusUnprocessableEntity, res.StatusCode, ip)
	}
	res, _ := b.doWithHeader(http.MethodPost, "/booking/submit", url.Values{}, true,
		http.Header{"X-Forwarded-For": {"203.0.113.7"}})
	require.Equal(t, http.StatusTooManyRequests, res.StatusCode)
}

func TestBookingRejectsMarkup(t *testing.T) {
	ts, _ := newTestServer(t)
	b := newBrowser(t, ts.URL)
	b.do(http.MethodGet, "/booking", nil, true)

	res, body := b.do(http.MethodPost, "/booking/next", url.Values{"name": {"<b>Sagar</b>"}}, true)
	require.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	require.Contains(t, body, "Please remove HTML tags or special markup")
	require.NotContains(t, body, "<b>Sagar</b>")

	for _, step := range []url.Values{
		{"name": {"Sagar Shinde"}},
		{"phone": {"9876543210"}},
		{"service": {"AC Repair"}},
		{"date": {""}},
	} {
		res, body := b.do(http.MethodPost, "/booking/next", step, true)
		require.Equal(t, http.StatusOK, res.StatusCode, body)
	}
	res, body = b.do(http.MethodPost, "/booking/submit", url.Values{"message": {"<script>alert(1)</script>"}}, true)
	require.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	require.Empty(t, res.Header.Get("HX-Trigger"))
	require.Contains(t, body, "Please remove HTML tags or special markup")
}

func TestBookingRequiresCSRF(t *testing.T) {
	ts, _ := newTestServer(t)
	b := newBrowser(t, ts.URL)
	b.do(http.MethodGet, "/booking", nil, true)

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/booking/next", strings.NewReader("name=Rahul+Shah"))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")
	res, err := b.client.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusForbidden, res.StatusCode)
	require.Equal(t, "#flash", res.Header.Get("HX-Retarget"))
}

func TestMetricsCountSubmissions(t *testing.T) {
	ts, _ := newTestServer(t)
	b := newBrowser(t, ts.URL)
	b.do(http.MethodGet, "/booking", nil, true)
	b.do(http.MethodPost, "/booking/submit", url.Values{}, true)

	res, body := b.do(http.MethodGet, "/metrics", nil, false)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Contains(t, body, `acweb_booking_submissions_total{result="missing"} 1`)
}

func TestAssetsServedWithETag(t *testing.T) {
	ts, _ := newTestServer(t)
	b := newBrowser(t, ts.URL)
	res, body := b.do(http.MethodGet, "/assets/js/site.js", nil, false)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Contains(t, body, "booking:open")
	require.NotEmpty(t, res.Header.Get("ETag"))
}

func TestSiteScriptOpensBookingLinkOnce(t *testing.T) {
	ts, _ := newTestServer(t)
	b := newBrowser(t, ts.URL)
	res, body := b.do(http.MethodGet, "/assets/js/site.js", nil, false)
	require.Equal(t, http.StatusOK, res.StatusCode)
	// window.open with "noopener" always returns null, which would also trigger the fallback navigation.
	require.NotContains(t, body, `"noopener")`)
	require.Contains(t, body, `window.open(url, "_blank")`)
	require.Contains(t, body, "win.opener = null")
}

func dialGate(t *testing.T, ts *httptest.Server, origin string) (*websocket.Conn, error) {
	t.Helper()
	cfg, err := websocket.NewConfig("ws"+strings.TrimPrefix(ts.URL, "http")+"/loading/ws", origin)
	require.NoError(t, err)
	return websocket.DialConfig(cfg)
}

func TestGateSocketStreamsUntilReveal(t *testing.T) {
	ts, _ := newTestServer(t)
	conn, err := dialGate(t, ts, ts.URL)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetDeadline(time.Now().Add(5*time.Second)))

	var frames []gateMessage
	for {
		var msg gateMessage
		require.NoError(t, websocket.JSON.Receive(conn, &msg))
		frames = append(frames, msg)
		if msg.Type == "reveal" {
			break
		}
	}
	last := frames[len(frames)-1]
	require.Equal(t, 100, last.Progress)
	require.False(t, last.Visible)
	require.Equal(t, 2, last.Loaded)
	require.True(t, last.AssetsLoaded)
	require.True(t, last.MinTimeElapsed)
	for _, f := range frames[:len(frames)-1] {
		require.Equal(t, "progress", f.Type)
		require.True(t, f.Visible)
	}

	var extra gateMessage
	require.Error(t, websocket.JSON.Receive(conn, &extra))
}

func TestGateSocketCountsFailedAssets(t *testing.T) {
	failing := gate.LoaderFunc(func(context.Context, string) error { return errors.New("404") })
	ts, _ := newTestServer(t, withAssetLoader(failing), withGateOptions(gate.WithTick(time.Millisecond)))
	conn, err := dialGate(t, ts, ts.URL)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetDeadline(time.Now().Add(5*time.Second)))

	var msg gateMessage
	for msg.Type != "reveal" {
		require.NoError(t, websocket.JSON.Receive(conn, &msg))
	}
	require.Equal(t, 2, msg.Loaded)
	require.Equal(t, 100, msg.Progress)
}

func TestGateSocketRejectsForeignOrigin(t *testing.T) {
	ts, _ := newTestServer(t)
	_, err := dialGate(t, ts, "https://elsewhere.example")
	require.Error(t, err)
}

func TestPrintLink(t *testing.T) {
	cfg := testConfig(t, nil)
	var out bytes.Buffer
	err := printLink(context.Background(), &out, cfg, map[lead.Field]string{
		lead.FieldName:    "Rahul Shah",
		lead.FieldPhone:   "9876543210",
		lead.FieldService: "AC Servicing",
	})
	require.NoError(t, err)
	require.Contains(t, out.String(), "Name: Rahul Shah\nPhone: 9876543210\nService: AC Servicing")
	require.Contains(t, out.String(), "https://wa.me/917745046520?text=")

	err = printLink(context.Background(), &out, cfg, map[lead.Field]string{
		lead.FieldName:    "Rahul Shah",
		lead.FieldPhone:   "12345",
		lead.FieldService: "AC Servicing",
	})
	var verr *lead.ValidationError
	require.ErrorAs(t, err, &verr)
	require.NotEmpty(t, verr.Message(lead.FieldPhone))
}

func TestCatalogCommand(t *testing.T) {
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"catalog"})
	require.NoError(t, cmd.Execute())
	require.Contains(t, out.String(), "AC Servicing")
	require.Contains(t, out.String(), "gstin: 27HEKPS5234F1Z4")
}
