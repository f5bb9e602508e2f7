package postgres

import (
	"context"
	"fmt"

	"listing-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReferenceStorageAdapter maintains the replicated users and categories
// tables.
type ReferenceStorageAdapter struct {
	pool *pgxpool.Pool
}

func NewReferenceStorageAdapter(pool *pgxpool.Pool) (*ReferenceStorageAdapter, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &ReferenceStorageAdapter{pool: pool}, nil
}

func (a *ReferenceStorageAdapter) UpsertCategorie(ctx context.Context, categorie domain.Categorie) error {
	_, err := a.pool.Exec(ctx, `
		INSERT INTO categories (id, nom) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET nom = EXCLUDED.nom`,
		categorie.ID, categorie.Nom,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert categorie: %w", err)
	}
	return nil
}

func (a *ReferenceStorageAdapter) DeleteCategorie(ctx context.Context, id uuid.UUID) error {
	_, err := a.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete categorie: %w", err)
	}
	return nil
}

func (a *ReferenceStorageAdapter) UpsertEmployeur(ctx context.Context, employeur domain.Employeur) error {
	_, err := a.pool.Exec(ctx, `
		INSERT INTO users (id, nom, prenom, nom_entreprise) VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			nom = EXCLUDED.nom,
			prenom = EXCLUDED.prenom,
			nom_entreprise = EXCLUDED.nom_entreprise`,
		employeur.ID, employeur.Nom, nullableText(employeur.Prenom), nullableText(employeur.NomEntreprise),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert employeur: %w", err)
	}
	return nil
}
