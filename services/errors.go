package services

import (
	"errors"
	"fmt"

	"insan-mission-system/models"
)

// Sentinels for errors.Is checks at the call site.
var (
	ErrValidation            = errors.New("validation failed")
	ErrNotFound              = errors.New("not found")
	ErrLockedCategory        = errors.New("category locked")
	ErrIntentionNotConfirmed = errors.New("intention not confirmed")
)

// ValidationError reports bad caller input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NotFoundError reports an unknown id.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// LockedCategoryError is returned when a category needs a higher level.
type LockedCategoryError struct {
	Category      models.Category
	RequiredLevel int
	UserLevel     int
}

func (e *LockedCategoryError) Error() string {
	return fmt.Sprintf("category %s locked: requires level %d, user is level %d",
		e.Category, e.RequiredLevel, e.UserLevel)
}

func (e *LockedCategoryError) Is(target error) bool { return target == ErrLockedCategory }

// IntentionNotConfirmedError is returned when a mission is completed before
// the daily niat hold has finished.
type IntentionNotConfirmedError struct {
	UserID string
}

func (e *IntentionNotConfirmedError) Error() string {
	return fmt.Sprintf("user %s has not confirmed today's intention", e.UserID)
}

func (e *IntentionNotConfirmedError) Is(target error) bool { return target == ErrIntentionNotConfirmed }
