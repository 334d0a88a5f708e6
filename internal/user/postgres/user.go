package postgres

import (
	"encoding/json"

	"github.com/albaledger/portal/internal/auth"
	employeeDatamodel "github.com/albaledger/portal/internal/core/datamodel/employee"
	userDatamodel "github.com/albaledger/portal/internal/core/datamodel/user"
	"github.com/albaledger/portal/internal/user"
	"gorm.io/gorm"
)

// UserRepository backs both the user service and the auth service.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(userID int64) (*user.User, error) {
	var u userDatamodel.User
	err := r.db.Where("id = ?", userID).First(&u).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	return user.FromDataModel(&u), nil
}

func (r *UserRepository) GetByUsername(username string) (*user.User, error) {
	var u userDatamodel.User
	err := r.db.Where("username = ?", username).First(&u).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	return user.FromDataModel(&u), nil
}

func (r *UserRepository) ListClients() ([]*user.User, error) {
	var rows []*userDatamodel.User
	err := r.db.Where("role = ?", auth.RoleClient).
		Order("name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	clients := make([]*user.User, len(rows))
	for i, row := range rows {
		clients[i] = user.FromDataModel(row)
	}
	return clients, nil
}

// ListClientIDs feeds the deadline evaluator; it only needs identifiers.
func (r *UserRepository) ListClientIDs() ([]int64, error) {
	var ids []int64
	err := r.db.Model(&userDatamodel.User{}).
		Where("role = ? AND is_active = ?", auth.RoleClient, true).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// GetCredentials implements auth.RepositoryAPI.
func (r *UserRepository) GetCredentials(username string) (string, int64, error) {
	var u userDatamodel.User
	err := r.db.Select("id", "password_hash").Where("username = ?", username).First(&u).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", 0, user.ErrNotFound
		}
		return "", 0, err
	}
	return u.PasswordHash, u.ID, nil
}

// GetUserByID implements auth.RepositoryAPI: it returns the session principal,
// including the assigned-client set for employee users.
func (r *UserRepository) GetUserByID(userID int64) (*auth.User, error) {
	var u userDatamodel.User
	err := r.db.Where("id = ?", userID).First(&u).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, user.ErrNotFound
		}
		return nil, err
	}

	sessionUser := &auth.User{
		ID:           u.ID,
		Username:     u.Username,
		Name:         u.Name,
		Role:         u.Role,
		BusinessName: u.BusinessName,
		IsActive:     u.IsActive,
	}

	if u.Role == auth.RoleEmployee {
		assigned, err := r.assignedClientsForUsername(u.Username)
		if err != nil {
			return nil, err
		}
		sessionUser.AssignedClients = assigned
	}

	return sessionUser, nil
}

func (r *UserRepository) assignedClientsForUsername(username string) ([]int64, error) {
	var emp employeeDatamodel.Employee
	err := r.db.Where("username = ?", username).First(&emp).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	var assigned []int64
	if emp.AssignedClients != "" {
		if err := json.Unmarshal([]byte(emp.AssignedClients), &assigned); err != nil {
			return nil, err
		}
	}
	return assigned, nil
}
