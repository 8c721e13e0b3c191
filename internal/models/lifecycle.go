package models

import (
	"errors"
	"fmt"
	"time"
)

type LifecycleState string

const (
	LifecycleActive   LifecycleState = "active"
	LifecycleArchived LifecycleState = "archived"
	LifecycleDeleted  LifecycleState = "deleted"
)

var (
	ErrAlreadyArchived  = errors.New("already archived")
	ErrNotArchived      = errors.New("not archived")
	ErrAlreadyDeleted   = errors.New("already deleted")
	ErrInvalidLifecycle = errors.New("invalid lifecycle")
)

// Lifecycle is a user's account state. Its fields are only written through
// the transition methods, which keep ArchivedAt non-nil exactly when State is
// archived.
type Lifecycle struct {
	State        LifecycleState `gorm:"type:varchar(20);not null;default:'active'" json:"state"`
	ArchivedByID *uint64        `json:"archived_by_id"`
	ArchivedAt   *time.Time     `json:"archived_at"`
}

// ActiveLifecycle is the initial state of every account.
func ActiveLifecycle() Lifecycle {
	return Lifecycle{State: LifecycleActive}
}

// Archive moves an active account to archived, recording who did it and when.
func (l Lifecycle) Archive(by uint64, at time.Time) (Lifecycle, error) {
	switch l.State {
	case LifecycleActive:
		return Lifecycle{State: LifecycleArchived, ArchivedByID: &by, ArchivedAt: &at}, nil
	case LifecycleArchived:
		return l, ErrAlreadyArchived
	case LifecycleDeleted:
		return l, ErrAlreadyDeleted
	default:
		return l, fmt.Errorf("%w: state %q", ErrInvalidLifecycle, l.State)
	}
}

// Unarchive moves an archived account back to active.
func (l Lifecycle) Unarchive() (Lifecycle, error) {
	switch l.State {
	case LifecycleArchived:
		return ActiveLifecycle(), nil
	case LifecycleActive:
		return l, ErrNotArchived
	case LifecycleDeleted:
		return l, ErrAlreadyDeleted
	default:
		return l, fmt.Errorf("%w: state %q", ErrInvalidLifecycle, l.State)
	}
}

// Delete is the terminal transition, allowed from active and archived.
func (l Lifecycle) Delete() (Lifecycle, error) {
	switch l.State {
	case LifecycleActive, LifecycleArchived:
		return Lifecycle{State: LifecycleDeleted}, nil
	case LifecycleDeleted:
		return l, ErrAlreadyDeleted
	default:
		return l, fmt.Errorf("%w: state %q", ErrInvalidLifecycle, l.State)
	}
}

// IsActive reports whether the account may authenticate.
func (l Lifecycle) IsActive() bool {
	return l.State == LifecycleActive
}

// Validate checks the archived_at iff archived invariant on loaded rows.
func (l Lifecycle) Validate() error {
	switch l.State {
	case LifecycleActive:
		if l.ArchivedAt != nil || l.ArchivedByID != nil {
			return fmt.Errorf("%w: active account carries archive data", ErrInvalidLifecycle)
		}
	case LifecycleArchived:
		if l.ArchivedAt == nil {
			return fmt.Errorf("%w: archived account without archived_at", ErrInvalidLifecycle)
		}
	case LifecycleDeleted:
		if l.ArchivedAt != nil || l.ArchivedByID != nil {
			return fmt.Errorf("%w: deleted account carries archive data", ErrInvalidLifecycle)
		}
	default:
		return fmt.Errorf("%w: state %q", ErrInvalidLifecycle, l.State)
	}
	return nil
}
