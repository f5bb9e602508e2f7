package usecase

import (
	"context"
	"errors"
	"testing"

	"listing-service/internal/core/domain"

	"github.com/google/uuid"
)

func visibleCard(montant float64) *domain.AnnonceCard {
	return &domain.AnnonceCard{
		Annonce: domain.Annonce{
			ID:           uuid.New(),
			Statut:       domain.StatutActive,
			Remuneration: domain.Remuneration{Montant: montant, Devise: domain.DeviseParDefaut},
			NombreVues:   7,
		},
	}
}

func TestGetAnnonce_NotFound(t *testing.T) {
	uc := NewGetAnnonceUseCase(&fakeStorage{}, domain.DefaultSearchConfig())
	_, err := uc.Execute(context.Background(), uuid.New(), domain.RequesterContext{})
	if !errors.Is(err, domain.ErrAnnonceNotFound) {
		t.Errorf("got %v, want ErrAnnonceNotFound", err)
	}
}

func TestGetAnnonce_FreeWorkerBlockedAboveCap(t *testing.T) {
	storage := &fakeStorage{
		getVisibleByID: func(uuid.UUID) (*domain.AnnonceCard, error) { return visibleCard(20000), nil },
		incrementVues: func(uuid.UUID) error {
			t.Error("views must not be counted on a refused read")
			return nil
		},
	}
	uc := NewGetAnnonceUseCase(storage, domain.DefaultSearchConfig())

	_, err := uc.Execute(context.Background(), uuid.New(), freeWorker())
	if !domain.IsForbidden(err) {
		t.Errorf("got %v, want a ForbiddenError", err)
	}
}

func TestGetAnnonce_FreeWorkerAllowedBelowCap(t *testing.T) {
	storage := &fakeStorage{
		getVisibleByID: func(uuid.UUID) (*domain.AnnonceCard, error) { return visibleCard(4000), nil },
	}
	uc := NewGetAnnonceUseCase(storage, domain.DefaultSearchConfig())

	card, err := uc.Execute(context.Background(), uuid.New(), freeWorker())
	if err != nil {
		t.Fatal(err)
	}
	if card.NombreVues != 8 {
		t.Errorf("NombreVues = %d, want 8 (incremented view reflected)", card.NombreVues)
	}
}

func TestGetAnnonce_PremiumWorkerNotBlocked(t *testing.T) {
	storage := &fakeStorage{
		getVisibleByID: func(uuid.UUID) (*domain.AnnonceCard, error) { return visibleCard(20000), nil },
	}
	uc := NewGetAnnonceUseCase(storage, domain.DefaultSearchConfig())

	if _, err := uc.Execute(context.Background(), uuid.New(), premiumWorker()); err != nil {
		t.Errorf("premium worker must read any visible annonce, got %v", err)
	}
}

func TestGetAnnonce_AnonymousNotBlocked(t *testing.T) {
	storage := &fakeStorage{
		getVisibleByID: func(uuid.UUID) (*domain.AnnonceCard, error) { return visibleCard(20000), nil },
	}
	uc := NewGetAnnonceUseCase(storage, domain.DefaultSearchConfig())

	if _, err := uc.Execute(context.Background(), uuid.New(), domain.RequesterContext{}); err != nil {
		t.Errorf("anonymous requester must not be price-gated, got %v", err)
	}
}

func TestGetAnnonce_ViewCounterFailureIgnored(t *testing.T) {
	storage := &fakeStorage{
		getVisibleByID: func(uuid.UUID) (*domain.AnnonceCard, error) { return visibleCard(4000), nil },
		incrementVues:  func(uuid.UUID) error { return errors.New("deadlock") },
	}
	uc := NewGetAnnonceUseCase(storage, domain.DefaultSearchConfig())

	card, err := uc.Execute(context.Background(), uuid.New(), domain.RequesterContext{})
	if err != nil {
		t.Fatalf("counter failure must not fail the read: %v", err)
	}
	if card.NombreVues != 7 {
		t.Errorf("NombreVues = %d, want the stored 7 when the increment failed", card.NombreVues)
	}
}
