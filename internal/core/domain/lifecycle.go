package domain

import "time"

// PublicationConfig carries the listing publication tunables, passed
// explicitly like SearchConfig.
type PublicationConfig struct {
	// Validity in days of a newly published annonce, free vs premium
	// employer.
	DureeValiditeJours        int
	DureeValiditePremiumJours int
	// LimiteAnnoncesGratuit caps concurrently active listings for free
	// employers.
	LimiteAnnoncesGratuit int
}

func DefaultPublicationConfig() PublicationConfig {
	return PublicationConfig{
		DureeValiditeJours:        30,
		DureeValiditePremiumJours: 60,
		LimiteAnnoncesGratuit:     3,
	}
}

// joursSurplusFinPrestation is the extra day the legacy system always added
// after the duration arithmetic when estimating the end of a mission. The
// intent (buffer vs off-by-one) was never documented; the behavior is kept
// as-is so estimated dates stay stable across migrations.
const joursSurplusFinPrestation = 1

// ComputeDateExpiration returns the expiration timestamp for a new annonce:
// validityDays after now.
func ComputeDateExpiration(now time.Time, validityDays int) time.Time {
	return now.Add(time.Duration(validityDays) * 24 * time.Hour)
}

// ComputeDateFinPrestation estimates the end date of the mission from its
// requested start date and duration. Returns nil when either input is
// missing or the duration unit is unknown.
func ComputeDateFinPrestation(debut *time.Time, duree *DureeMission) *time.Time {
	if debut == nil || duree == nil || duree.Valeur < 1 {
		return nil
	}

	fin := *debut
	switch duree.Unite {
	case "jours":
		fin = fin.AddDate(0, 0, duree.Valeur)
	case "semaines":
		fin = fin.AddDate(0, 0, duree.Valeur*7)
	case "mois":
		fin = fin.AddDate(0, duree.Valeur, 0)
	case "annees":
		fin = fin.AddDate(duree.Valeur, 0, 0)
	default:
		return nil
	}
	fin = fin.AddDate(0, 0, joursSurplusFinPrestation)
	return &fin
}
