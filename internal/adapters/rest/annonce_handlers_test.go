package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"listing-service/internal/core/domain"
	"listing-service/internal/core/port/usecases_port"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type fakeSearchUC struct {
	fn func(params domain.SearchParams, requester domain.RequesterContext) (*domain.PaginatedAnnonces, error)
}

func (f *fakeSearchUC) Execute(_ context.Context, params domain.SearchParams, requester domain.RequesterContext) (*domain.PaginatedAnnonces, error) {
	return f.fn(params, requester)
}

type fakeGetUC struct {
	fn func(id uuid.UUID, requester domain.RequesterContext) (*domain.AnnonceCard, error)
}

func (f *fakeGetUC) Execute(_ context.Context, id uuid.UUID, requester domain.RequesterContext) (*domain.AnnonceCard, error) {
	return f.fn(id, requester)
}

type fakeCreateUC struct {
	fn func(input domain.AnnonceInput, requester domain.RequesterContext) (*domain.Annonce, error)
}

func (f *fakeCreateUC) Execute(_ context.Context, input domain.AnnonceInput, requester domain.RequesterContext) (*domain.Annonce, error) {
	return f.fn(input, requester)
}

type fakeUpdateUC struct {
	fn func(id uuid.UUID, input domain.AnnonceInput, requester domain.RequesterContext) (*domain.Annonce, error)
}

func (f *fakeUpdateUC) Execute(_ context.Context, id uuid.UUID, input domain.AnnonceInput, requester domain.RequesterContext) (*domain.Annonce, error) {
	return f.fn(id, input, requester)
}

type fakeDeleteUC struct {
	fn func(id uuid.UUID, requester domain.RequesterContext) error
}

func (f *fakeDeleteUC) Execute(_ context.Context, id uuid.UUID, requester domain.RequesterContext) error {
	return f.fn(id, requester)
}

type fakeMyUC struct {
	fn func(params usecases_port.MyAnnoncesParams, requester domain.RequesterContext) (*domain.PaginatedAnnonces, error)
}

func (f *fakeMyUC) Execute(_ context.Context, params usecases_port.MyAnnoncesParams, requester domain.RequesterContext) (*domain.PaginatedAnnonces, error) {
	return f.fn(params, requester)
}

// newTestRouter mounts the handler the way the server does, minus logging.
func newTestRouter(h *AnnonceHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(RequesterMiddleware)
	r.Route("/api/v1/annonces", func(r chi.Router) {
		r.Get("/", h.SearchAnnonces)
		r.Post("/", h.CreateAnnonce)
		r.Get("/mes-annonces", h.MyAnnonces)
		r.Get("/{annonceID}", h.GetAnnonce)
		r.Put("/{annonceID}", h.UpdateAnnonce)
		r.Delete("/{annonceID}", h.DeleteAnnonce)
	})
	return r
}

func emptyPage() *domain.PaginatedAnnonces {
	return &domain.PaginatedAnnonces{Annonces: []domain.AnnonceCard{}}
}

func TestSearchAnnonces_QueryParamsParsed(t *testing.T) {
	catID := uuid.New()
	var got domain.SearchParams
	handler := NewAnnonceHandler(&fakeSearchUC{fn: func(params domain.SearchParams, _ domain.RequesterContext) (*domain.PaginatedAnnonces, error) {
		got = params
		return emptyPage(), nil
	}}, nil, nil, nil, nil, nil)

	url := fmt.Sprintf("/api/v1/annonces?page=2&limit=20&categorieId=%s&ville=Douala&motCle=plombier&remunerationMin=1000&remunerationMax=9000&longitude=11.5&latitude=3.8&distanceMaxKm=25&triPar=remuneration&ordreTri=asc", catID)
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	newTestRouter(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if got.Page != 2 || got.Limit != 20 {
		t.Errorf("pagination not parsed: %+v", got)
	}
	if got.CategorieID == nil || *got.CategorieID != catID {
		t.Errorf("categorieId not parsed: %v", got.CategorieID)
	}
	if got.Ville != "Douala" || got.MotCle != "plombier" {
		t.Errorf("text filters not parsed: %+v", got)
	}
	if got.RemunerationMin == nil || *got.RemunerationMin != 1000 || got.RemunerationMax == nil || *got.RemunerationMax != 9000 {
		t.Errorf("remuneration range not parsed: %+v", got)
	}
	if got.Longitude == nil || got.Latitude == nil || got.DistanceMaxKm == nil || *got.DistanceMaxKm != 25 {
		t.Errorf("geo params not parsed: %+v", got)
	}
	if got.TriPar != "remuneration" || got.OrdreTri != "asc" {
		t.Errorf("sort params not parsed: %+v", got)
	}
}

func TestSearchAnnonces_RadiusParamAlias(t *testing.T) {
	var got domain.SearchParams
	handler := NewAnnonceHandler(&fakeSearchUC{fn: func(params domain.SearchParams, _ domain.RequesterContext) (*domain.PaginatedAnnonces, error) {
		got = params
		return emptyPage(), nil
	}}, nil, nil, nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/annonces?longitude=11.5&latitude=3.8&maxDistanceKm=25", nil)
	rec := httptest.NewRecorder()
	newTestRouter(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if got.DistanceMaxKm == nil || *got.DistanceMaxKm != 25 {
		t.Errorf("maxDistanceKm alias not parsed: %+v", got.DistanceMaxKm)
	}
}

func TestSearchAnnonces_BadCategorieID(t *testing.T) {
	handler := NewAnnonceHandler(&fakeSearchUC{fn: func(domain.SearchParams, domain.RequesterContext) (*domain.PaginatedAnnonces, error) {
		t.Error("use case must not run on a malformed categorieId")
		return nil, nil
	}}, nil, nil, nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/annonces?categorieId=not-a-uuid", nil)
	rec := httptest.NewRecorder()
	newTestRouter(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSearchAnnonces_RequesterFromHeaders(t *testing.T) {
	userID := uuid.New()
	handler := NewAnnonceHandler(&fakeSearchUC{fn: func(_ domain.SearchParams, requester domain.RequesterContext) (*domain.PaginatedAnnonces, error) {
		if requester.UserID == nil || *requester.UserID != userID {
			t.Errorf("requester id not derived from headers: %+v", requester)
		}
		if requester.Role != "travailleur" || requester.TypeAbonnement != "premium_travailleur" {
			t.Errorf("requester tier not derived: %+v", requester)
		}
		return emptyPage(), nil
	}}, nil, nil, nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/annonces", nil)
	req.Header.Set("X-User-Id", userID.String())
	req.Header.Set("X-User-Role", "travailleur")
	req.Header.Set("X-Abonnement", "premium_travailleur")
	rec := httptest.NewRecorder()
	newTestRouter(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestSearchAnnonces_ResponseEnvelope(t *testing.T) {
	handler := NewAnnonceHandler(&fakeSearchUC{fn: func(domain.SearchParams, domain.RequesterContext) (*domain.PaginatedAnnonces, error) {
		return &domain.PaginatedAnnonces{Annonces: nil, TotalAnnonces: 0, TotalPages: 0, CurrentPage: 1}, nil
	}}, nil, nil, nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/annonces", nil)
	rec := httptest.NewRecorder()
	newTestRouter(handler).ServeHTTP(rec, req)

	var body map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if string(body["success"]) != "true" {
		t.Errorf("success = %s", body["success"])
	}
	if string(body["annonces"]) != "[]" {
		t.Errorf("annonces must serialize as [], got %s", body["annonces"])
	}
}

func TestGetAnnonce_ErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", domain.ErrAnnonceNotFound, http.StatusNotFound},
		{"forbidden", domain.NewForbiddenError("réservée aux membres premium"), http.StatusForbidden},
		{"internal", errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		handler := NewAnnonceHandler(nil, &fakeGetUC{fn: func(uuid.UUID, domain.RequesterContext) (*domain.AnnonceCard, error) {
			return nil, c.err
		}}, nil, nil, nil, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/annonces/"+uuid.NewString(), nil)
		rec := httptest.NewRecorder()
		newTestRouter(handler).ServeHTTP(rec, req)

		if rec.Code != c.want {
			t.Errorf("%s: status = %d, want %d", c.name, rec.Code, c.want)
		}
		var body MessageResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("%s: %v", c.name, err)
		}
		if body.Success {
			t.Errorf("%s: success must be false", c.name)
		}
		if c.want == http.StatusInternalServerError && strings.Contains(body.Message, "connection reset") {
			t.Errorf("%s: internal details leaked: %q", c.name, body.Message)
		}
	}
}

func TestGetAnnonce_BadID(t *testing.T) {
	handler := NewAnnonceHandler(nil, &fakeGetUC{fn: func(uuid.UUID, domain.RequesterContext) (*domain.AnnonceCard, error) {
		t.Error("use case must not run on a malformed id")
		return nil, nil
	}}, nil, nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/annonces/12345", nil)
	rec := httptest.NewRecorder()
	newTestRouter(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func validPayload() string {
	return fmt.Sprintf(`{
		"titre": "Plombier pour fuite urgente",
		"description": "Réparation d'une fuite sous évier dans la cuisine.",
		"categorieId": %q,
		"localisation": {"ville": "Yaoundé", "quartier": "Bastos"},
		"remuneration": {"montant": 15000, "periode": "prestation"}
	}`, uuid.NewString())
}

func TestCreateAnnonce_Created(t *testing.T) {
	handler := NewAnnonceHandler(nil, nil, &fakeCreateUC{fn: func(input domain.AnnonceInput, _ domain.RequesterContext) (*domain.Annonce, error) {
		if input.Titre != "Plombier pour fuite urgente" {
			t.Errorf("input not decoded: %+v", input)
		}
		return &domain.Annonce{ID: uuid.New(), Titre: input.Titre}, nil
	}}, nil, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/annonces", strings.NewReader(validPayload()))
	req.Header.Set("X-User-Id", uuid.NewString())
	req.Header.Set("X-User-Role", "employeur")
	rec := httptest.NewRecorder()
	newTestRouter(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestCreateAnnonce_SchemaViolations(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"not json", "{{{"},
		{"missing titre", `{"description": "Une description suffisamment longue ici.", "categorieId": "` + uuid.NewString() + `", "localisation": {"ville": "Yaoundé"}}`},
		{"titre too short", `{"titre": "Abc", "description": "Une description suffisamment longue ici.", "categorieId": "` + uuid.NewString() + `", "localisation": {"ville": "Yaoundé"}}`},
		{"bad periode", strings.Replace(validPayload(), `"prestation"`, `"quinzaine"`, 1)},
		{"out of range point", `{"titre": "Plombier urgent", "description": "Une description suffisamment longue ici.", "categorieId": "` + uuid.NewString() + `", "localisation": {"ville": "Yaoundé", "point": {"longitude": 400, "latitude": 3.8}}}`},
	}
	for _, c := range cases {
		handler := NewAnnonceHandler(nil, nil, &fakeCreateUC{fn: func(domain.AnnonceInput, domain.RequesterContext) (*domain.Annonce, error) {
			t.Errorf("%s: use case must not run on an invalid payload", c.name)
			return nil, nil
		}}, nil, nil, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/annonces", strings.NewReader(c.body))
		rec := httptest.NewRecorder()
		newTestRouter(handler).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", c.name, rec.Code)
		}
	}
}

func TestUpdateAnnonce_OK(t *testing.T) {
	id := uuid.New()
	handler := NewAnnonceHandler(nil, nil, nil, &fakeUpdateUC{fn: func(gotID uuid.UUID, input domain.AnnonceInput, _ domain.RequesterContext) (*domain.Annonce, error) {
		if gotID != id {
			t.Errorf("id = %v, want %v", gotID, id)
		}
		return &domain.Annonce{ID: gotID, Titre: input.Titre}, nil
	}}, nil, nil)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/annonces/"+id.String(), strings.NewReader(validPayload()))
	rec := httptest.NewRecorder()
	newTestRouter(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestDeleteAnnonce_OK(t *testing.T) {
	handler := NewAnnonceHandler(nil, nil, nil, nil, &fakeDeleteUC{fn: func(uuid.UUID, domain.RequesterContext) error {
		return nil
	}}, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/annonces/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	newTestRouter(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestMyAnnonces_RouteNotShadowed(t *testing.T) {
	// /mes-annonces must hit the list-own handler, not GET /{annonceID}.
	called := false
	handler := NewAnnonceHandler(nil, &fakeGetUC{fn: func(uuid.UUID, domain.RequesterContext) (*domain.AnnonceCard, error) {
		t.Error("mes-annonces was routed to GetAnnonce")
		return nil, nil
	}}, nil, nil, nil, &fakeMyUC{fn: func(usecases_port.MyAnnoncesParams, domain.RequesterContext) (*domain.PaginatedAnnonces, error) {
		called = true
		return emptyPage(), nil
	}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/annonces/mes-annonces?statut=active", nil)
	rec := httptest.NewRecorder()
	newTestRouter(handler).ServeHTTP(rec, req)

	if !called {
		t.Error("MyAnnonces handler not reached")
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}
