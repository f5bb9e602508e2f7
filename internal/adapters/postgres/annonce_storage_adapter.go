package postgres

import (
	"context"
	"fmt"
	"time"

	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mmcloughlin/geohash"
)

// AnnonceStorageAdapter implements AnnonceStoragePort for PostgreSQL.
type AnnonceStorageAdapter struct {
	pool *pgxpool.Pool
}

func NewAnnonceStorageAdapter(pool *pgxpool.Pool) (*AnnonceStorageAdapter, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &AnnonceStorageAdapter{pool: pool}, nil
}

// annonceCardColumns is the shared projection for card queries. It expects
// the aliases a (annonces), c (categories) and u (users).
const annonceCardColumns = `
	a.id, a.titre, a.description, a.categorie_id, a.employeur_id, a.type_contrat,
	a.adresse_textuelle, a.ville, a.quartier, a.longitude, a.latitude, COALESCE(a.geohash, ''),
	a.remuneration_montant, a.remuneration_devise, a.remuneration_periode,
	a.date_debut_souhaitee, a.duree_valeur, a.duree_unite, a.date_fin_prestation_estimee,
	a.competences_requises, a.est_urgent, a.est_premium, a.statut, a.date_expiration,
	a.nombre_vues, a.created_at, a.updated_at,
	c.nom, u.nom, COALESCE(u.prenom, ''), COALESCE(u.nom_entreprise, '')`

const annonceCardJoins = `
	JOIN categories c ON c.id = a.categorie_id
	JOIN users u ON u.id = a.employeur_id`

func scanAnnonceCard(row pgx.Row) (*domain.AnnonceCard, error) {
	var card domain.AnnonceCard
	var (
		longitude, latitude *float64
		dureeValeur         *int
		dureeUnite          *string
	)
	err := row.Scan(
		&card.ID, &card.Titre, &card.Description, &card.CategorieID, &card.EmployeurID, &card.TypeContrat,
		&card.Localisation.AdresseTextuelle, &card.Localisation.Ville, &card.Localisation.Quartier,
		&longitude, &latitude, &card.Localisation.Geohash,
		&card.Remuneration.Montant, &card.Remuneration.Devise, &card.Remuneration.Periode,
		&card.DateDebutSouhaitee, &dureeValeur, &dureeUnite, &card.DateFinPrestationEstimee,
		&card.CompetencesRequises, &card.EstUrgent, &card.EstPremiumAnnonce, &card.Statut, &card.DateExpiration,
		&card.NombreVues, &card.CreatedAt, &card.UpdatedAt,
		&card.CategorieNom, &card.EmployeurNom, &card.EmployeurPrenom, &card.EmployeurEntreprise,
	)
	if err != nil {
		return nil, err
	}
	if longitude != nil && latitude != nil {
		card.Localisation.Point = &domain.GeoPoint{Longitude: *longitude, Latitude: *latitude}
	}
	if dureeValeur != nil && dureeUnite != nil {
		card.DureeMission = &domain.DureeMission{Valeur: *dureeValeur, Unite: *dureeUnite}
	}
	return &card, nil
}

// pointColumns splits the optional geo point into nullable columns and the
// geohash derived from it.
func pointColumns(p *domain.GeoPoint) (longitude, latitude *float64, hash string) {
	if p == nil {
		return nil, nil, ""
	}
	return &p.Longitude, &p.Latitude, geohash.Encode(p.Latitude, p.Longitude)
}

func dureeColumns(d *domain.DureeMission) (valeur *int, unite *string) {
	if d == nil {
		return nil, nil
	}
	return &d.Valeur, &d.Unite
}

func (a *AnnonceStorageAdapter) Save(ctx context.Context, annonce *domain.Annonce) error {
	longitude, latitude, hash := pointColumns(annonce.Localisation.Point)
	annonce.Localisation.Geohash = hash
	dureeValeur, dureeUnite := dureeColumns(annonce.DureeMission)

	query := `
		INSERT INTO annonces (
			id, titre, description, categorie_id, employeur_id, type_contrat,
			adresse_textuelle, ville, quartier, longitude, latitude, geohash,
			remuneration_montant, remuneration_devise, remuneration_periode,
			date_debut_souhaitee, duree_valeur, duree_unite, date_fin_prestation_estimee,
			competences_requises, est_urgent, est_premium, statut, date_expiration,
			nombre_vues, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27
		)`

	_, err := a.pool.Exec(ctx, query,
		annonce.ID, annonce.Titre, annonce.Description, annonce.CategorieID, annonce.EmployeurID, annonce.TypeContrat,
		annonce.Localisation.AdresseTextuelle, annonce.Localisation.Ville, annonce.Localisation.Quartier,
		longitude, latitude, nullableText(hash),
		annonce.Remuneration.Montant, annonce.Remuneration.Devise, annonce.Remuneration.Periode,
		annonce.DateDebutSouhaitee, dureeValeur, dureeUnite, annonce.DateFinPrestationEstimee,
		annonce.CompetencesRequises, annonce.EstUrgent, annonce.EstPremiumAnnonce, annonce.Statut, annonce.DateExpiration,
		annonce.NombreVues, annonce.CreatedAt, annonce.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert annonce: %w", err)
	}
	return nil
}

func (a *AnnonceStorageAdapter) Update(ctx context.Context, annonce *domain.Annonce) error {
	longitude, latitude, hash := pointColumns(annonce.Localisation.Point)
	annonce.Localisation.Geohash = hash
	dureeValeur, dureeUnite := dureeColumns(annonce.DureeMission)

	query := `
		UPDATE annonces SET
			titre = $2, description = $3, categorie_id = $4, type_contrat = $5,
			adresse_textuelle = $6, ville = $7, quartier = $8,
			longitude = $9, latitude = $10, geohash = $11,
			remuneration_montant = $12, remuneration_devise = $13, remuneration_periode = $14,
			date_debut_souhaitee = $15, duree_valeur = $16, duree_unite = $17,
			date_fin_prestation_estimee = $18, competences_requises = $19,
			est_urgent = $20, updated_at = $21
		WHERE id = $1`

	tag, err := a.pool.Exec(ctx, query,
		annonce.ID, annonce.Titre, annonce.Description, annonce.CategorieID, annonce.TypeContrat,
		annonce.Localisation.AdresseTextuelle, annonce.Localisation.Ville, annonce.Localisation.Quartier,
		longitude, latitude, nullableText(hash),
		annonce.Remuneration.Montant, annonce.Remuneration.Devise, annonce.Remuneration.Periode,
		annonce.DateDebutSouhaitee, dureeValeur, dureeUnite,
		annonce.DateFinPrestationEstimee, annonce.CompetencesRequises,
		annonce.EstUrgent, annonce.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update annonce: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAnnonceNotFound
	}
	return nil
}

func (a *AnnonceStorageAdapter) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := a.pool.Exec(ctx,
		`UPDATE annonces SET statut = $2, updated_at = now() WHERE id = $1 AND statut != $2`,
		id, domain.StatutSupprimee,
	)
	if err != nil {
		return fmt.Errorf("failed to soft-delete annonce: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAnnonceNotFound
	}
	return nil
}

func (a *AnnonceStorageAdapter) IncrementVues(ctx context.Context, id uuid.UUID) error {
	_, err := a.pool.Exec(ctx, `UPDATE annonces SET nombre_vues = nombre_vues + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to increment view counter: %w", err)
	}
	return nil
}

func (a *AnnonceStorageAdapter) GetVisibleByID(ctx context.Context, id uuid.UUID, now time.Time) (*domain.AnnonceCard, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM annonces a %s
		WHERE a.id = $1 AND a.statut = 'active' AND a.date_expiration > $2`,
		annonceCardColumns, annonceCardJoins,
	)
	card, err := scanAnnonceCard(a.pool.QueryRow(ctx, query, id, now))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrAnnonceNotFound
		}
		return nil, fmt.Errorf("failed to get annonce: %w", err)
	}
	return card, nil
}

func (a *AnnonceStorageAdapter) GetByIDForOwner(ctx context.Context, id uuid.UUID) (*domain.Annonce, error) {
	query := `
		SELECT id, titre, description, categorie_id, employeur_id, type_contrat,
			adresse_textuelle, ville, quartier, longitude, latitude, COALESCE(geohash, ''),
			remuneration_montant, remuneration_devise, remuneration_periode,
			date_debut_souhaitee, duree_valeur, duree_unite, date_fin_prestation_estimee,
			competences_requises, est_urgent, est_premium, statut, date_expiration,
			nombre_vues, created_at, updated_at
		FROM annonces WHERE id = $1`

	var annonce domain.Annonce
	var (
		longitude, latitude *float64
		dureeValeur         *int
		dureeUnite          *string
	)
	err := a.pool.QueryRow(ctx, query, id).Scan(
		&annonce.ID, &annonce.Titre, &annonce.Description, &annonce.CategorieID, &annonce.EmployeurID, &annonce.TypeContrat,
		&annonce.Localisation.AdresseTextuelle, &annonce.Localisation.Ville, &annonce.Localisation.Quartier,
		&longitude, &latitude, &annonce.Localisation.Geohash,
		&annonce.Remuneration.Montant, &annonce.Remuneration.Devise, &annonce.Remuneration.Periode,
		&annonce.DateDebutSouhaitee, &dureeValeur, &dureeUnite, &annonce.DateFinPrestationEstimee,
		&annonce.CompetencesRequises, &annonce.EstUrgent, &annonce.EstPremiumAnnonce, &annonce.Statut, &annonce.DateExpiration,
		&annonce.NombreVues, &annonce.CreatedAt, &annonce.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrAnnonceNotFound
		}
		return nil, fmt.Errorf("failed to get annonce for owner: %w", err)
	}
	if longitude != nil && latitude != nil {
		annonce.Localisation.Point = &domain.GeoPoint{Longitude: *longitude, Latitude: *latitude}
	}
	if dureeValeur != nil && dureeUnite != nil {
		annonce.DureeMission = &domain.DureeMission{Valeur: *dureeValeur, Unite: *dureeUnite}
	}
	return &annonce, nil
}

func (a *AnnonceStorageAdapter) CountActivesByEmployeur(ctx context.Context, employeurID uuid.UUID, now time.Time) (int, error) {
	var count int
	err := a.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM annonces WHERE employeur_id = $1 AND statut = 'active' AND date_expiration > $2`,
		employeurID, now,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active annonces: %w", err)
	}
	return count, nil
}

func (a *AnnonceStorageAdapter) FindByEmployeur(ctx context.Context, filter port.MyAnnoncesFilter, limit, offset int) ([]domain.AnnonceCard, int, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "AnnonceStorageAdapter",
		"method":    "FindByEmployeur",
	})

	whereClause, args := employeurListConditions(filter)

	tx, err := a.pool.Begin(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM annonces a %s", whereClause)
	var total int
	if err := tx.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		repoLogger.Error("Failed to count employer annonces", err, nil)
		return nil, 0, fmt.Errorf("failed to count employer annonces: %w", err)
	}
	if total == 0 {
		return []domain.AnnonceCard{}, 0, nil
	}

	dataQuery := fmt.Sprintf(`
		SELECT %s
		FROM annonces a %s
		%s
		ORDER BY a.created_at DESC, a.id ASC
		LIMIT $%d OFFSET $%d`,
		annonceCardColumns, annonceCardJoins, whereClause, len(args)+1, len(args)+2,
	)
	rows, err := tx.Query(ctx, dataQuery, append(args, limit, offset)...)
	if err != nil {
		repoLogger.Error("Failed to query employer annonces", err, nil)
		return nil, 0, fmt.Errorf("failed to query employer annonces: %w", err)
	}
	defer rows.Close()

	cards := make([]domain.AnnonceCard, 0, limit)
	for rows.Next() {
		card, err := scanAnnonceCard(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan annonce: %w", err)
		}
		cards = append(cards, *card)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return cards, total, nil
}

func (a *AnnonceStorageAdapter) MarkExpired(ctx context.Context, now time.Time) ([]port.ExpiredAnnonce, error) {
	rows, err := a.pool.Query(ctx, `
		UPDATE annonces
		SET statut = $1, updated_at = $2
		WHERE statut = 'active' AND date_expiration <= $2
		RETURNING id, titre, employeur_id`,
		domain.StatutExpiree, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to mark expired annonces: %w", err)
	}
	defer rows.Close()

	expired := make([]port.ExpiredAnnonce, 0)
	for rows.Next() {
		var e port.ExpiredAnnonce
		if err := rows.Scan(&e.ID, &e.Titre, &e.EmployeurID); err != nil {
			return nil, fmt.Errorf("failed to scan expired annonce: %w", err)
		}
		expired = append(expired, e)
	}
	return expired, rows.Err()
}

func (a *AnnonceStorageAdapter) CategorieExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := a.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM categories WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check category: %w", err)
	}
	return exists, nil
}

// nullableText maps "" to NULL so partial indexes on geohash stay small.
func nullableText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
