package adminauth

import (
	"errors"
	"fmt"

	"github.com/ieclub/adminauth/permission"
)

// ErrPermissionDenied rejects an operation the operator is not granted.
var ErrPermissionDenied = errors.New("permission denied")

// PermissionError is an ErrPermissionDenied naming the first missing
// permission.
type PermissionError struct {
	Missing permission.Permission
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: missing %s", e.Missing)
}

func (e *PermissionError) Is(target error) bool { return target == ErrPermissionDenied }

// Authorize checks that the operator holds every wanted permission.
// Disabled operators are always denied.
func (a *Authority) Authorize(op *Operator, wanted ...permission.Permission) error {
	if op == nil || op.Status != StatusActive {
		return ErrPermissionDenied
	}

	granted := op.EffectivePermissions()
	for _, p := range wanted {
		if !permission.Has(granted, p) {
			return &PermissionError{Missing: p}
		}
	}
	return nil
}

// AuthorizeAny checks that the operator holds at least one of the wanted
// permissions.
func (a *Authority) AuthorizeAny(op *Operator, wanted ...permission.Permission) error {
	if op == nil || op.Status != StatusActive {
		return ErrPermissionDenied
	}
	if len(wanted) == 0 {
		return nil
	}
	if !permission.HasAny(op.EffectivePermissions(), wanted...) {
		return &PermissionError{Missing: wanted[0]}
	}
	return nil
}

// AuthorizeAdminister checks that actor outranks target, for operations
// that manage other admin accounts. Rank ties are denied so peers cannot
// manage each other.
func (a *Authority) AuthorizeAdminister(actor, target *Operator) error {
	if actor == nil || target == nil || actor.Status != StatusActive {
		return ErrPermissionDenied
	}
	if !permission.CanAdminister(actor.Role, target.Role) {
		return ErrPermissionDenied
	}
	return nil
}
