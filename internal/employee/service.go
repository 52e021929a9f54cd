package employee

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/frahmantamala/pos-platform/internal"
	"github.com/frahmantamala/pos-platform/internal/auth"
	"github.com/frahmantamala/pos-platform/internal/core/database"
	employeeDatamodel "github.com/frahmantamala/pos-platform/internal/core/datamodel/employee"
	"github.com/frahmantamala/pos-platform/internal/core/events"
	"github.com/frahmantamala/pos-platform/pkg/pagination"
)

type RepositoryAPI interface {
	List(ctx context.Context, visibility Visibility, filter ListFilter, offset, limit int) ([]*employeeDatamodel.Employee, int64, error)
	GetByID(ctx context.Context, id int64) (*employeeDatamodel.Employee, error)
	GetByPhone(ctx context.Context, phone string) (*employeeDatamodel.Employee, error)
	GetRoleByName(ctx context.Context, name string) (*employeeDatamodel.Role, error)
	Create(ctx context.Context, e *employeeDatamodel.Employee, warehouseIDs []int64) error
	Update(ctx context.Context, e *employeeDatamodel.Employee) error
	ReplaceWarehouses(ctx context.Context, employeeID int64, warehouseIDs []int64) error
	UpdatePIN(ctx context.Context, employeeID int64, pinHash string) error
}

type ScopeResolver interface {
	ResolveScope(ctx context.Context, actor auth.Actor) (auth.Scope, error)
}

type WarehouseChecker interface {
	EnsureExist(ctx context.Context, ids []int64) error
}

// Service applies the role hierarchy and warehouse scope to every employee
// operation. Scope is resolved fresh on each call.
type Service struct {
	repo       RepositoryAPI
	tx         database.TxManager
	scopes     ScopeResolver
	warehouses WarehouseChecker
	publisher  events.Publisher
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, tx database.TxManager, scopes ScopeResolver, warehouses WarehouseChecker, publisher events.Publisher, bcryptCost int, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		tx:         tx,
		scopes:     scopes,
		warehouses: warehouses,
		publisher:  publisher,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

func (s *Service) List(ctx context.Context, actor auth.Actor, filter ListFilter, page pagination.Params) (pagination.Page[*Employee], error) {
	visibility, err := s.visibility(ctx, actor)
	if err != nil {
		return pagination.Page[*Employee]{}, err
	}

	rows, total, err := s.repo.List(ctx, visibility, filter, page.Offset, page.Limit)
	if err != nil {
		s.logger.Error("failed to list employees", "actor_id", actor.EmployeeID, "error", err)
		return pagination.Page[*Employee]{}, internal.NewInternalError("failed to list employees", err)
	}

	items := make([]*Employee, 0, len(rows))
	for _, row := range rows {
		items = append(items, FromDataModel(row))
	}
	return pagination.NewPage(items, page, total), nil
}

func (s *Service) visibility(ctx context.Context, actor auth.Actor) (Visibility, error) {
	v := Visibility{SelfID: actor.EmployeeID}
	switch {
	case actor.Role.IsAdmin():
		v.Others = true
	case actor.Role.IsManager():
		scope, err := s.scopes.ResolveScope(ctx, actor)
		if err != nil {
			return Visibility{}, err
		}
		v.Warehouses = scope.WarehouseIDs()
		v.Others = len(v.Warehouses) > 0
		v.OtherRoles = []string{auth.RoleCashier.String()}
	}
	return v, nil
}

func (s *Service) Get(ctx context.Context, actor auth.Actor, id int64) (*Employee, error) {
	target, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.IsSelf(id) {
		return target, nil
	}
	if err := s.authorizeTarget(ctx, actor, target); err != nil {
		return nil, err
	}
	return target, nil
}

func (s *Service) Create(ctx context.Context, actor auth.Actor, dto CreateEmployeeDTO) (*Employee, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	role := auth.ParseRole(dto.Role)
	if !auth.CanActOn(actor.Role, role) {
		s.logger.Warn("employee create denied", "actor_id", actor.EmployeeID, "role", role)
		return nil, internal.NewForbiddenError(
			fmt.Sprintf("You cannot create employees with role %s", role),
			internal.ErrCodeRoleHierarchy,
		)
	}

	roleRow, err := s.repo.GetRoleByName(ctx, role.String())
	if err != nil {
		s.logger.Error("failed to get role", "role", role, "error", err)
		return nil, internal.NewInternalError("failed to create employee", err)
	}
	if roleRow == nil {
		return nil, internal.NewNotFoundError(fmt.Sprintf("Role %s not found", role), internal.ErrCodeRoleNotFound)
	}

	if role.RequiresWarehouse() && dto.WarehouseID == nil {
		return nil, internal.NewValidationFieldError("warehouseId",
			fmt.Sprintf("A warehouse is required for role %s", role),
			internal.ErrCodeWarehouseRequired)
	}

	requested := auth.NewWarehouseSet(dto.Requested()...).IDs()
	if !actor.Role.IsAdmin() {
		scope, err := s.scopes.ResolveScope(ctx, actor)
		if err != nil {
			return nil, err
		}
		if scope.Warehouses.Len() == 0 {
			s.logger.Warn("employee create denied: actor has no warehouse", "actor_id", actor.EmployeeID)
			return nil, internal.NewForbiddenError("You must be assigned to a warehouse to create employees", internal.ErrCodeWarehouseScope)
		}
		if err := s.requireAllInScope(scope, requested); err != nil {
			s.logger.Warn("employee create denied: warehouse outside scope", "actor_id", actor.EmployeeID)
			return nil, err
		}
	}
	if err := s.warehouses.EnsureExist(ctx, requested); err != nil {
		return nil, err
	}

	if err := s.ensurePhoneFree(ctx, dto.Phone); err != nil {
		return nil, err
	}

	passwordHash, err := auth.HashSecret(dto.Password, s.bcryptCost)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, internal.NewInternalError("failed to create employee", err)
	}
	row := &employeeDatamodel.Employee{
		Phone:        dto.Phone,
		PasswordHash: passwordHash,
		FullName:     dto.FullName,
		RoleID:       roleRow.ID,
		WarehouseID:  dto.WarehouseID,
		IsActive:     true,
	}
	if dto.PIN != "" {
		pinHash, err := auth.HashSecret(dto.PIN, s.bcryptCost)
		if err != nil {
			s.logger.Error("failed to hash pin", "error", err)
			return nil, internal.NewInternalError("failed to create employee", err)
		}
		row.PinHash = &pinHash
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		return s.repo.Create(txCtx, row, assignmentsOnly(dto.WarehouseID, requested))
	})
	if err != nil {
		s.logger.Error("failed to create employee", "phone", dto.Phone, "error", err)
		return nil, internal.NewInternalError("failed to create employee", err)
	}

	s.logger.Info("employee created", "employee_id", row.ID, "role", role, "actor_id", actor.EmployeeID)

	event := events.NewEmployeeCreatedEvent(row.ID, row.FullName, role.String(), row.WarehouseID, actor.EmployeeID, actor.Name)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish employee created event", "employee_id", row.ID, "error", err)
	}

	return s.load(ctx, row.ID)
}

// Update applies the set fields. Admins and managers editing themselves may
// only touch their name, phone and password; everyone else is read-only.
func (s *Service) Update(ctx context.Context, actor auth.Actor, id int64, dto UpdateEmployeeDTO) (*Employee, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	target, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	self := actor.IsSelf(id)
	if self && !actor.Role.ManagesOthers() {
		return nil, internal.NewForbiddenError("Your employee record is read-only; ask a manager to change it", internal.ErrCodeRoleHierarchy)
	}
	if self && dto.privileged() {
		return nil, internal.NewForbiddenError("You cannot change your own role, warehouses or status", internal.ErrCodeRoleHierarchy)
	}
	if !self {
		if err := s.authorizeTarget(ctx, actor, target); err != nil {
			return nil, err
		}
	}

	row, err := s.repo.GetByID(ctx, id)
	if err != nil || row == nil {
		return nil, internal.NewInternalError("failed to update employee", err)
	}

	role := target.Role
	if dto.Role != nil {
		next := auth.ParseRole(*dto.Role)
		if !auth.CanChangeRole(actor.Role, target.Role, next) {
			s.logger.Warn("employee role change denied", "actor_id", actor.EmployeeID, "employee_id", id, "from", target.Role, "to", next)
			return nil, internal.NewForbiddenError(
				fmt.Sprintf("You cannot change this employee's role to %s", next),
				internal.ErrCodeRoleHierarchy,
			)
		}
		if next != target.Role {
			roleRow, err := s.repo.GetRoleByName(ctx, next.String())
			if err != nil {
				return nil, internal.NewInternalError("failed to update employee", err)
			}
			if roleRow == nil {
				return nil, internal.NewNotFoundError(fmt.Sprintf("Role %s not found", next), internal.ErrCodeRoleNotFound)
			}
			row.RoleID = roleRow.ID
			row.Role = *roleRow
			role = next
		}
	}

	var assignments []int64
	reassign := dto.WarehouseID != nil || dto.WarehouseIDs != nil
	if reassign {
		primary := row.WarehouseID
		if dto.WarehouseID != nil {
			primary = dto.WarehouseID
		}
		assigned := target.WarehouseIDs
		if dto.WarehouseIDs != nil {
			assigned = dto.WarehouseIDs
		}
		requested := auth.NewWarehouseSet(assigned...)
		if primary != nil {
			requested[*primary] = struct{}{}
		}

		if !actor.Role.IsAdmin() {
			scope, err := s.scopes.ResolveScope(ctx, actor)
			if err != nil {
				return nil, err
			}
			if err := s.requireAllInScope(scope, requested.IDs()); err != nil {
				return nil, err
			}
		}
		if err := s.warehouses.EnsureExist(ctx, requested.IDs()); err != nil {
			return nil, err
		}
		row.WarehouseID = primary
		assignments = assignmentsOnly(primary, requested.IDs())
	}
	if role.RequiresWarehouse() && row.WarehouseID == nil {
		return nil, internal.NewValidationFieldError("warehouseId",
			fmt.Sprintf("A warehouse is required for role %s", role),
			internal.ErrCodeWarehouseRequired)
	}

	if dto.Phone != nil && *dto.Phone != row.Phone {
		if err := s.ensurePhoneFree(ctx, *dto.Phone); err != nil {
			return nil, err
		}
		row.Phone = *dto.Phone
	}
	if dto.FullName != nil {
		row.FullName = *dto.FullName
	}
	if dto.Password != nil {
		hash, err := auth.HashSecret(*dto.Password, s.bcryptCost)
		if err != nil {
			return nil, internal.NewInternalError("failed to update employee", err)
		}
		row.PasswordHash = hash
	}
	if dto.IsActive != nil {
		row.IsActive = *dto.IsActive
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Update(txCtx, row); err != nil {
			return err
		}
		if reassign {
			return s.repo.ReplaceWarehouses(txCtx, id, assignments)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("failed to update employee", "employee_id", id, "error", err)
		return nil, internal.NewInternalError("failed to update employee", err)
	}

	s.logger.Info("employee updated", "employee_id", id, "actor_id", actor.EmployeeID)
	return s.load(ctx, id)
}

// Deactivate is a soft delete.
func (s *Service) Deactivate(ctx context.Context, actor auth.Actor, id int64) error {
	if actor.IsSelf(id) {
		return internal.NewForbiddenError("You cannot deactivate your own account", internal.ErrCodeRoleHierarchy)
	}

	target, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorizeTarget(ctx, actor, target); err != nil {
		return err
	}

	row, err := s.repo.GetByID(ctx, id)
	if err != nil || row == nil {
		return internal.NewInternalError("failed to deactivate employee", err)
	}
	row.IsActive = false
	if err := s.repo.Update(ctx, row); err != nil {
		s.logger.Error("failed to deactivate employee", "employee_id", id, "error", err)
		return internal.NewInternalError("failed to deactivate employee", err)
	}

	s.logger.Info("employee deactivated", "employee_id", id, "actor_id", actor.EmployeeID)
	return nil
}

func (s *Service) SetPIN(ctx context.Context, actor auth.Actor, id int64, dto SetPINDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	target, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !actor.IsSelf(id) {
		if err := s.authorizeTarget(ctx, actor, target); err != nil {
			return err
		}
	}

	hash, err := auth.HashSecret(dto.PIN, s.bcryptCost)
	if err != nil {
		s.logger.Error("failed to hash pin", "error", err)
		return internal.NewInternalError("failed to set pin", err)
	}
	if err := s.repo.UpdatePIN(ctx, id, hash); err != nil {
		s.logger.Error("failed to set pin", "employee_id", id, "error", err)
		return internal.NewInternalError("failed to set pin", err)
	}
	return nil
}

// authorizeTarget applies the hierarchy table, then for non-admins requires
// the target to share at least one warehouse with the actor's scope.
func (s *Service) authorizeTarget(ctx context.Context, actor auth.Actor, target *Employee) error {
	if !auth.CanActOn(actor.Role, target.Role) {
		s.logger.Warn("employee access denied", "actor_id", actor.EmployeeID, "employee_id", target.ID, "target_role", target.Role)
		return internal.NewForbiddenError(
			fmt.Sprintf("You cannot manage employees with role %s", target.Role),
			internal.ErrCodeRoleHierarchy,
		)
	}
	if actor.Role.IsAdmin() {
		return nil
	}

	scope, err := s.scopes.ResolveScope(ctx, actor)
	if err != nil {
		return err
	}
	if !slices.ContainsFunc(target.Warehouses().IDs(), scope.Allows) {
		s.logger.Warn("employee access denied: outside warehouses", "actor_id", actor.EmployeeID, "employee_id", target.ID)
		return internal.NewForbiddenError("You can only modify employees assigned to your warehouses", internal.ErrCodeWarehouseScope)
	}
	return nil
}

// requireAllInScope is all-or-nothing over the requested warehouses.
func (s *Service) requireAllInScope(scope auth.Scope, requested []int64) error {
	if id, outside := scope.FirstOutside(requested); outside {
		return internal.NewForbiddenError(
			fmt.Sprintf("You can only assign employees to your warehouses: warehouse %d is not assigned to you", id),
			internal.ErrCodeWarehouseScope,
		)
	}
	return nil
}

func (s *Service) ensurePhoneFree(ctx context.Context, phone string) error {
	existing, err := s.repo.GetByPhone(ctx, phone)
	if err != nil {
		s.logger.Error("failed to check phone", "error", err)
		return internal.NewInternalError("failed to check phone", err)
	}
	if existing != nil {
		return internal.NewConflictError(fmt.Sprintf("Phone %s is already registered", phone), internal.ErrCodeDuplicatePhone)
	}
	return nil
}

func (s *Service) load(ctx context.Context, id int64) (*Employee, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get employee", "employee_id", id, "error", err)
		return nil, internal.NewInternalError("failed to get employee", err)
	}
	if row == nil {
		return nil, internal.NewNotFoundError(fmt.Sprintf("Employee %d not found", id), internal.ErrCodeEmployeeNotFound)
	}
	return FromDataModel(row), nil
}

// assignmentsOnly drops the primary warehouse from the join rows.
func assignmentsOnly(primary *int64, ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if primary != nil && id == *primary {
			continue
		}
		out = append(out, id)
	}
	return out
}
