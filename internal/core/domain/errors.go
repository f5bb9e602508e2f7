package domain

import "errors"

// ErrAnnonceNotFound covers both "does not exist" and "exists but is not
// active/unexpired" so callers cannot probe for hidden listings.
var ErrAnnonceNotFound = errors.New("annonce non trouvée ou plus active")

var ErrCategorieInconnue = errors.New("la catégorie spécifiée n'existe pas")

// ValidationError marks malformed client input (400-equivalent).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

// ForbiddenError marks a tier-gating refusal (403-equivalent). It is always
// explicit: the engine never silently redacts a listing instead.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string { return e.Message }

func NewForbiddenError(msg string) *ForbiddenError {
	return &ForbiddenError{Message: msg}
}

// IsValidation reports whether err is a client input error.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsForbidden reports whether err is a tier-gating refusal.
func IsForbidden(err error) bool {
	var fe *ForbiddenError
	return errors.As(err, &fe)
}
