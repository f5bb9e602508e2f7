package usecase

import (
	"context"
	"errors"
	"testing"

	"listing-service/internal/core/domain"

	"github.com/google/uuid"
)

type fakeReferenceStorage struct {
	upsertedCategories []domain.Categorie
	deletedCategories  []uuid.UUID
	upsertedEmployeurs []domain.Employeur
	err                error
}

func (f *fakeReferenceStorage) UpsertCategorie(_ context.Context, c domain.Categorie) error {
	if f.err != nil {
		return f.err
	}
	f.upsertedCategories = append(f.upsertedCategories, c)
	return nil
}

func (f *fakeReferenceStorage) DeleteCategorie(_ context.Context, id uuid.UUID) error {
	if f.err != nil {
		return f.err
	}
	f.deletedCategories = append(f.deletedCategories, id)
	return nil
}

func (f *fakeReferenceStorage) UpsertEmployeur(_ context.Context, e domain.Employeur) error {
	if f.err != nil {
		return f.err
	}
	f.upsertedEmployeurs = append(f.upsertedEmployeurs, e)
	return nil
}

func TestSyncReference_CategorieUpserted(t *testing.T) {
	storage := &fakeReferenceStorage{}
	uc := NewSyncReferenceUseCase(storage)

	cat := domain.Categorie{ID: uuid.New(), Nom: "Plomberie"}
	if err := uc.ApplyCategorieUpserted(context.Background(), cat); err != nil {
		t.Fatal(err)
	}
	if len(storage.upsertedCategories) != 1 || storage.upsertedCategories[0] != cat {
		t.Errorf("upserted = %+v", storage.upsertedCategories)
	}
}

func TestSyncReference_CategorieWithoutNomRejected(t *testing.T) {
	uc := NewSyncReferenceUseCase(&fakeReferenceStorage{})
	err := uc.ApplyCategorieUpserted(context.Background(), domain.Categorie{ID: uuid.New()})
	if !domain.IsValidation(err) {
		t.Errorf("got %v, want ValidationError", err)
	}
}

func TestSyncReference_StorageErrorPropagates(t *testing.T) {
	uc := NewSyncReferenceUseCase(&fakeReferenceStorage{err: errors.New("disk full")})
	if err := uc.ApplyCategorieDeleted(context.Background(), uuid.New()); err == nil {
		t.Error("storage error must propagate so the message is retried")
	}
	if err := uc.ApplyEmployeurUpserted(context.Background(), domain.Employeur{ID: uuid.New()}); err == nil {
		t.Error("storage error must propagate so the message is retried")
	}
}
