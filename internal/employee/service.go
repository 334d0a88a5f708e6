package employee

import (
	"log/slog"
	"time"

	errors "github.com/albaledger/portal/internal"
	"github.com/albaledger/portal/internal/auth"
)

// Repository defines the data access methods for employees
type Repository interface {
	Create(e *Employee) error
	GetByID(id int64) (*Employee, error)
	GetByUsername(username string) (*Employee, error)
	List() ([]*Employee, error)
	Update(e *Employee) error
	Delete(id int64) error
}

// Service manages the office roster. Every mutation is admin only; listing is
// open to staff.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Create(actor *auth.User, dto CreateEmployeeDTO) (*Employee, error) {
	if !actor.IsAdmin() {
		return nil, errors.ErrRoleNotAllowed
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if existing, err := s.repo.GetByUsername(dto.Username); err == nil && existing != nil {
		return nil, errors.NewConflictError("username already in use", errors.ErrCodeValidationFailed)
	}

	now := time.Now()
	emp := &Employee{
		Name:            dto.Name,
		Username:        dto.Username,
		Email:           dto.Email,
		Phone:           dto.Phone,
		AssignedClients: []int64{},
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.Create(emp); err != nil {
		s.logger.Error("failed to create employee", "error", err, "username", dto.Username)
		return nil, err
	}

	s.logger.Info("employee created", "employee_id", emp.ID, "username", emp.Username)
	return emp, nil
}

func (s *Service) GetByID(actor *auth.User, id int64) (*Employee, error) {
	if !actor.IsStaff() {
		return nil, errors.ErrRoleNotAllowed
	}
	emp, err := s.repo.GetByID(id)
	if err != nil {
		return nil, errors.ErrEmployeeNotFound
	}
	return emp, nil
}

func (s *Service) List(actor *auth.User) ([]*Employee, error) {
	if !actor.IsStaff() {
		return nil, errors.ErrRoleNotAllowed
	}
	employees, err := s.repo.List()
	if err != nil {
		s.logger.Error("failed to list employees", "error", err)
		return nil, err
	}
	return employees, nil
}

func (s *Service) Update(actor *auth.User, id int64, dto UpdateEmployeeDTO) (*Employee, error) {
	if !actor.IsAdmin() {
		return nil, errors.ErrRoleNotAllowed
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	emp, err := s.repo.GetByID(id)
	if err != nil {
		return nil, errors.ErrEmployeeNotFound
	}

	if dto.Name != nil {
		emp.Name = *dto.Name
	}
	if dto.Email != nil {
		emp.Email = *dto.Email
	}
	if dto.Phone != nil {
		emp.Phone = dto.Phone
	}
	if dto.IsActive != nil {
		emp.IsActive = *dto.IsActive
	}
	emp.UpdatedAt = time.Now()

	if err := s.repo.Update(emp); err != nil {
		s.logger.Error("failed to update employee", "error", err, "employee_id", id)
		return nil, err
	}
	return emp, nil
}

// Delete removes an employee record permanently. Assigned clients are not
// reassigned; the portfolio simply disappears with the record.
func (s *Service) Delete(actor *auth.User, id int64) error {
	if !actor.IsAdmin() {
		return errors.ErrRoleNotAllowed
	}

	if _, err := s.repo.GetByID(id); err != nil {
		return errors.ErrEmployeeNotFound
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete employee", "error", err, "employee_id", id)
		return err
	}

	s.logger.Info("employee deleted", "employee_id", id)
	return nil
}

// AssignClients replaces the employee's portfolio with the given client set.
// Duplicates collapse to one entry; an empty set clears the portfolio.
func (s *Service) AssignClients(actor *auth.User, id int64, dto AssignClientsDTO) (*Employee, error) {
	if !actor.IsAdmin() {
		return nil, errors.ErrRoleNotAllowed
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	emp, err := s.repo.GetByID(id)
	if err != nil {
		return nil, errors.ErrEmployeeNotFound
	}

	emp.AssignedClients = dedupClients(dto.ClientIDs)
	emp.UpdatedAt = time.Now()

	if err := s.repo.Update(emp); err != nil {
		s.logger.Error("failed to assign clients", "error", err, "employee_id", id)
		return nil, err
	}

	s.logger.Info("employee portfolio updated",
		"employee_id", id,
		"assigned_clients", len(emp.AssignedClients))
	return emp, nil
}
