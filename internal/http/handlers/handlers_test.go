package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"docmind/internal/domain"
	"docmind/internal/middleware"
	"docmind/internal/pricing"
	"docmind/internal/sqlinline"
)

type fakeUsers struct {
	user        *domain.User
	adjusted    int
	incremented int
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	if f.user == nil || f.user.ID != id {
		return nil, domain.ErrNotFound
	}
	copied := *f.user
	return &copied, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if f.user == nil || f.user.Email != email {
		return nil, domain.ErrNotFound
	}
	copied := *f.user
	return &copied, nil
}

func (f *fakeUsers) SetPlan(_ context.Context, _, plan string) error {
	f.user.Plan = plan
	return nil
}

func (f *fakeUsers) AdjustDocumentsCount(_ context.Context, _ string, delta int) error {
	f.adjusted += delta
	return nil
}

func (f *fakeUsers) IncrementAnalysesUsed(_ context.Context, _ string) error {
	f.incremented++
	return nil
}

type fakeDocs struct {
	docs     map[string]*domain.Document
	analyses []domain.Analysis
	created  *domain.Document
	deleted  []string
}

func (f *fakeDocs) Create(_ context.Context, doc *domain.Document) error {
	f.created = doc
	return nil
}

func (f *fakeDocs) GetByID(_ context.Context, id string) (*domain.Document, error) {
	doc, ok := f.docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *doc
	return &copied, nil
}

func (f *fakeDocs) ListByUser(_ context.Context, userID string) ([]domain.Document, error) {
	var out []domain.Document
	for _, doc := range f.docs {
		if doc.UserID == userID {
			out = append(out, *doc)
		}
	}
	return out, nil
}

func (f *fakeDocs) Delete(_ context.Context, id, _ string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeDocs) SaveAnalysis(_ context.Context, a *domain.Analysis) error {
	f.analyses = append(f.analyses, *a)
	return nil
}

func (f *fakeDocs) ListAnalyses(_ context.Context, documentID string) ([]domain.Analysis, error) {
	var out []domain.Analysis
	for _, a := range f.analyses {
		if a.DocumentID == documentID {
			out = append(out, a)
		}
	}
	return out, nil
}

func authedRequest(method, target, body, userID, plan string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return req.WithContext(middleware.ContextWithUser(req.Context(), userID, plan))
}

func withChiParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestPricingQuotesPlansInContextCurrency(t *testing.T) {
	app := &App{Log: zerolog.Nop()}

	eur, ok := pricing.CurrencyByCode("EUR")
	if !ok {
		t.Fatal("EUR missing from currency table")
	}
	req := httptest.NewRequest("GET", "/v1/pricing", nil)
	req = req.WithContext(context.WithValue(req.Context(), middleware.CurrencyKey, eur))
	rr := httptest.NewRecorder()

	app.Pricing(rr, req)

	if rr.Code != 200 {
		t.Fatalf("status = %d", rr.Code)
	}
	var payload struct {
		Currency string           `json:"currency"`
		Plans    []planPricingDTO `json:"plans"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Currency != "EUR" {
		t.Errorf("currency = %q", payload.Currency)
	}
	if len(payload.Plans) != 3 {
		t.Fatalf("plan count = %d", len(payload.Plans))
	}
	displays := map[string]string{}
	for _, p := range payload.Plans {
		displays[p.ID] = p.Price.Display
	}
	if displays["free"] != "€ 0" {
		t.Errorf("free display = %q", displays["free"])
	}
	if displays["pro"] != "€ 22.23" {
		t.Errorf("pro display = %q", displays["pro"])
	}
}

func TestPricingCurrencyQueryOverride(t *testing.T) {
	app := &App{Log: zerolog.Nop()}

	rr := httptest.NewRecorder()
	app.Pricing(rr, httptest.NewRequest("GET", "/v1/pricing?currency=mzn", nil))
	if rr.Code != 200 {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"currency":"MZN"`) {
		t.Errorf("body = %s", rr.Body.String())
	}

	rr = httptest.NewRecorder()
	app.Pricing(rr, httptest.NewRequest("GET", "/v1/pricing?currency=DOGE", nil))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestMeFallsBackToFreeForUnknownPlan(t *testing.T) {
	users := &fakeUsers{user: &domain.User{ID: "u1", Email: "a@b.c", Plan: "legacy_gold"}}
	app := &App{Users: users, Log: zerolog.Nop()}

	rr := httptest.NewRecorder()
	app.Me(rr, authedRequest("GET", "/v1/me", "", "u1", "legacy_gold"))

	if rr.Code != 200 {
		t.Fatalf("status = %d", rr.Code)
	}
	var profile userProfileDTO
	if err := json.NewDecoder(rr.Body).Decode(&profile); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if profile.Plan != "free" {
		t.Errorf("plan = %q, want free", profile.Plan)
	}
	if profile.DocumentLimit != 1 {
		t.Errorf("document limit = %d, want 1", profile.DocumentLimit)
	}
}

func TestDocumentsCreatePlanLimitReached(t *testing.T) {
	users := &fakeUsers{user: &domain.User{ID: "u1", Plan: "free", DocumentsCount: 1}}
	app := &App{Users: users, Documents: &fakeDocs{}, Log: zerolog.Nop()}

	rr := httptest.NewRecorder()
	body := `{"title":"Notes","content":"text"}`
	app.DocumentsCreate(rr, authedRequest("POST", "/v1/documents", body, "u1", "free"))

	if rr.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "plan_limit") {
		t.Errorf("body = %s", rr.Body.String())
	}
}

func TestDocumentsCreatePageLimit(t *testing.T) {
	users := &fakeUsers{user: &domain.User{ID: "u1", Plan: "free"}}
	app := &App{Users: users, Documents: &fakeDocs{}, Log: zerolog.Nop()}

	rr := httptest.NewRecorder()
	body := `{"title":"Thesis","content":"text","page_count":6}`
	app.DocumentsCreate(rr, authedRequest("POST", "/v1/documents", body, "u1", "free"))

	if rr.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rr.Code)
	}
}

func TestDocumentsCreateSuccess(t *testing.T) {
	users := &fakeUsers{user: &domain.User{ID: "u1", Plan: "standard"}}
	docs := &fakeDocs{}
	app := &App{Users: users, Documents: docs, Log: zerolog.Nop()}

	rr := httptest.NewRecorder()
	body := `{"title":"Notes","content":"some text","page_count":10}`
	app.DocumentsCreate(rr, authedRequest("POST", "/v1/documents", body, "u1", "standard"))

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	if docs.created == nil || docs.created.Title != "Notes" {
		t.Fatalf("created = %+v", docs.created)
	}
	if users.adjusted != 1 {
		t.Errorf("documents count delta = %d, want 1", users.adjusted)
	}
}

func TestDocumentsGetHidesOtherUsers(t *testing.T) {
	docs := &fakeDocs{docs: map[string]*domain.Document{
		"d1": {ID: "d1", UserID: "owner", Title: "secret"},
	}}
	app := &App{Documents: docs, Log: zerolog.Nop()}

	req := authedRequest("GET", "/v1/documents/d1", "", "intruder", "free")
	req = withChiParam(req, "id", "d1")
	rr := httptest.NewRecorder()
	app.DocumentsGet(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestAnalysesCreateFeatureGate(t *testing.T) {
	users := &fakeUsers{user: &domain.User{ID: "u1", Plan: "free"}}
	docs := &fakeDocs{docs: map[string]*domain.Document{
		"d1": {ID: "d1", UserID: "u1", Content: "text"},
	}}
	app := &App{Users: users, Documents: docs, Log: zerolog.Nop()}

	req := authedRequest("POST", "/v1/documents/d1/analyses", `{"type":"suggestions"}`, "u1", "free")
	req = withChiParam(req, "id", "d1")
	rr := httptest.NewRecorder()
	app.AnalysesCreate(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "feature_not_enabled") {
		t.Errorf("body = %s", rr.Body.String())
	}
}

func TestAnalysesCreateAsyncEnqueues(t *testing.T) {
	users := &fakeUsers{user: &domain.User{ID: "u1", Plan: "standard"}}
	docs := &fakeDocs{docs: map[string]*domain.Document{
		"d1": {ID: "d1", UserID: "u1", Content: "text"},
	}}
	sqlStub := &StubSQL{Row: NewSimpleRow(func(dest ...any) error {
		*(dest[0].(*time.Time)) = time.Now()
		return nil
	})}
	app := &App{Users: users, Documents: docs, SQL: sqlStub, Log: zerolog.Nop()}

	req := authedRequest("POST", "/v1/documents/d1/analyses", `{"type":"summary","async":true}`, "u1", "standard")
	req = withChiParam(req, "id", "d1")
	rr := httptest.NewRecorder()
	app.AnalysesCreate(rr, req)

	if rr.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	if len(sqlStub.Queries) != 1 || sqlStub.Queries[0] != sqlinline.QEnqueueAnalysisJob {
		t.Errorf("queries = %v", sqlStub.Queries)
	}
}

func TestQuizzesGenerateRequiresPro(t *testing.T) {
	users := &fakeUsers{user: &domain.User{ID: "u1", Plan: "standard"}}
	docs := &fakeDocs{docs: map[string]*domain.Document{
		"d1": {ID: "d1", UserID: "u1", Content: "text"},
	}}
	app := &App{Users: users, Documents: docs, Log: zerolog.Nop()}

	req := authedRequest("POST", "/v1/documents/d1/quiz", "", "u1", "standard")
	req = withChiParam(req, "id", "d1")
	rr := httptest.NewRecorder()
	app.QuizzesGenerate(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rr.Code)
	}
}

func TestQuizSubmissionGradesObjectiveQuestions(t *testing.T) {
	questions := `[
		{"id":1,"type":"multiple_choice","question":"2+2?","options":["3","4"],"correct_answer":"4","points":5},
		{"id":2,"type":"true_false","question":"Go has generics.","correct_answer":"true","points":5}
	]`
	sqlStub := &StubSQL{}
	sqlStub.RowFunc = func(query string, _ ...any) pgx.Row {
		if query == sqlinline.QSelectQuizByID {
			return NewSimpleRow(func(dest ...any) error {
				*(dest[0].(*string)) = "q1"
				*(dest[1].(*string)) = "d1"
				*(dest[2].(*string)) = "u1"
				*(dest[3].(*string)) = "Prova"
				*(dest[4].(*string)) = ""
				*(dest[5].(*json.RawMessage)) = json.RawMessage(questions)
				*(dest[6].(*int)) = 10
				*(dest[7].(*int)) = 15
				*(dest[8].(*time.Time)) = time.Now()
				return nil
			})
		}
		return NewSimpleRow(func(dest ...any) error {
			*(dest[0].(*time.Time)) = time.Now()
			return nil
		})
	}
	app := &App{SQL: sqlStub, Log: zerolog.Nop()}

	body := `{"answers":{"1":"4","2":"FALSE"}}`
	req := authedRequest("POST", "/v1/quizzes/q1/submissions", body, "u1", "pro")
	req = withChiParam(req, "id", "q1")
	rr := httptest.NewRecorder()
	app.QuizSubmissionsCreate(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	var result submissionDTO
	if err := json.NewDecoder(rr.Body).Decode(&result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Score != 5 || result.MaxScore != 10 {
		t.Errorf("score = %d/%d, want 5/10", result.Score, result.MaxScore)
	}
	if result.Percentage != 50 {
		t.Errorf("percentage = %v", result.Percentage)
	}
}

func TestPaymentsMobileMoneyCallback(t *testing.T) {
	sqlStub := &StubSQL{ExecTag: pgconn.NewCommandTag("UPDATE 1")}
	app := &App{SQL: sqlStub, Log: zerolog.Nop()}

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/v1/payments/mobile-money/callback",
		strings.NewReader(`{"reference":"MM-9","status":"paid"}`))
	app.PaymentsMobileMoneyCallback(rr, req)
	if rr.Code != 200 {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	if len(sqlStub.Queries) != 1 || sqlStub.Queries[0] != sqlinline.QUpdatePaymentStatus {
		t.Errorf("queries = %v", sqlStub.Queries)
	}

	// Unknown references answer 404 so the aggregator retries.
	missing := &StubSQL{}
	app = &App{SQL: missing, Log: zerolog.Nop()}
	rr = httptest.NewRecorder()
	req = httptest.NewRequest("POST", "/v1/payments/mobile-money/callback",
		strings.NewReader(`{"reference":"MM-404","status":"paid"}`))
	app.PaymentsMobileMoneyCallback(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestPaymentsCheckoutValidation(t *testing.T) {
	users := &fakeUsers{user: &domain.User{ID: "u1", Email: "a@b.c", Plan: "free"}}
	app := &App{Users: users, Stripe: nil, Log: zerolog.Nop()}

	rr := httptest.NewRecorder()
	app.PaymentsStripeCheckout(rr, authedRequest("POST", "/v1/payments/checkout", `{"plan":"pro"}`, "u1", "free"))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status without provider = %d, want 503", rr.Code)
	}
}
