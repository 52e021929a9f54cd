package auth

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/frahmantamala/pos-platform/internal"
)

// WarehouseSet is the resolved set of warehouses an employee may act upon.
type WarehouseSet map[int64]struct{}

func NewWarehouseSet(ids ...int64) WarehouseSet {
	set := make(WarehouseSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func (s WarehouseSet) Contains(id int64) bool {
	_, ok := s[id]
	return ok
}

func (s WarehouseSet) Len() int {
	return len(s)
}

// IDs returns the members in ascending order.
func (s WarehouseSet) IDs() []int64 {
	ids := make([]int64, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Scope is the warehouse reach of one actor for one request.
type Scope struct {
	Unrestricted bool
	Warehouses   WarehouseSet
}

func (s Scope) Allows(warehouseID int64) bool {
	return s.Unrestricted || s.Warehouses.Contains(warehouseID)
}

// AllowsAll is all-or-nothing: one id outside the scope fails the whole set.
func (s Scope) AllowsAll(warehouseIDs []int64) bool {
	_, outside := s.FirstOutside(warehouseIDs)
	return !outside
}

func (s Scope) FirstOutside(warehouseIDs []int64) (int64, bool) {
	if s.Unrestricted {
		return 0, false
	}
	for _, id := range warehouseIDs {
		if !s.Warehouses.Contains(id) {
			return id, true
		}
	}
	return 0, false
}

// Require returns a Forbidden error when the warehouse is outside the scope.
func (s Scope) Require(warehouseID int64) error {
	if s.Allows(warehouseID) {
		return nil
	}
	return internal.NewForbiddenError(
		fmt.Sprintf("You do not have access to warehouse %d", warehouseID),
		internal.ErrCodeWarehouseScope,
	)
}

// WarehouseIDs returns the restricted set, or nil when unrestricted.
func (s Scope) WarehouseIDs() []int64 {
	if s.Unrestricted {
		return nil
	}
	return s.Warehouses.IDs()
}

type AssignmentRepository interface {
	GetWarehouseAssignments(ctx context.Context, employeeID int64) (primary *int64, assigned []int64, err error)
}

// ScopeResolver computes warehouse scopes from current assignment rows.
// Nothing is cached; every call reads fresh state.
type ScopeResolver struct {
	repo   AssignmentRepository
	logger *slog.Logger
}

func NewScopeResolver(repo AssignmentRepository, logger *slog.Logger) *ScopeResolver {
	return &ScopeResolver{repo: repo, logger: logger}
}

// ResolveManagerWarehouses returns the primary warehouse plus every assigned
// warehouse. No assignment yields an empty set, never "all".
func (r *ScopeResolver) ResolveManagerWarehouses(ctx context.Context, employeeID int64) (WarehouseSet, error) {
	primary, assigned, err := r.repo.GetWarehouseAssignments(ctx, employeeID)
	if err != nil {
		r.logger.Error("failed to load warehouse assignments", "employee_id", employeeID, "error", err)
		return nil, internal.NewInternalError("failed to resolve warehouse scope", err)
	}

	set := NewWarehouseSet(assigned...)
	if primary != nil {
		set[*primary] = struct{}{}
	}
	return set, nil
}

func (r *ScopeResolver) ResolveScope(ctx context.Context, actor Actor) (Scope, error) {
	if actor.Role.IsAdmin() {
		return Scope{Unrestricted: true}, nil
	}
	set, err := r.ResolveManagerWarehouses(ctx, actor.EmployeeID)
	if err != nil {
		return Scope{}, err
	}
	return Scope{Warehouses: set}, nil
}
