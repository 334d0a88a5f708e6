package employee

import (
	"strings"

	errors "github.com/albaledger/portal/internal"
)

// CreateEmployeeDTO is the request payload for adding a staff member.
type CreateEmployeeDTO struct {
	Name     string  `json:"name"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Phone    *string `json:"phone,omitempty"`
}

func (dto CreateEmployeeDTO) Validate() error {
	if strings.TrimSpace(dto.Name) == "" {
		return errors.NewValidationFieldError("name", "name is required", errors.ErrCodeValidationFailed)
	}
	if strings.TrimSpace(dto.Username) == "" {
		return errors.NewValidationFieldError("username", "username is required", errors.ErrCodeValidationFailed)
	}
	if strings.TrimSpace(dto.Email) == "" {
		return errors.NewValidationFieldError("email", "email is required", errors.ErrCodeValidationFailed)
	}
	if !strings.Contains(dto.Email, "@") {
		return errors.NewValidationFieldError("email", "email is not valid", errors.ErrCodeValidationFailed)
	}
	return nil
}

// UpdateEmployeeDTO carries a partial update; nil fields stay unchanged.
type UpdateEmployeeDTO struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

func (dto UpdateEmployeeDTO) Validate() error {
	if dto.Name != nil && strings.TrimSpace(*dto.Name) == "" {
		return errors.NewValidationFieldError("name", "name cannot be empty", errors.ErrCodeValidationFailed)
	}
	if dto.Email != nil {
		if strings.TrimSpace(*dto.Email) == "" || !strings.Contains(*dto.Email, "@") {
			return errors.NewValidationFieldError("email", "email is not valid", errors.ErrCodeValidationFailed)
		}
	}
	return nil
}

// AssignClientsDTO replaces the employee's client portfolio with the given set.
type AssignClientsDTO struct {
	ClientIDs []int64 `json:"client_ids"`
}

func (dto AssignClientsDTO) Validate() error {
	for _, id := range dto.ClientIDs {
		if id <= 0 {
			return errors.NewValidationFieldError("client_ids", "client ids must be positive", errors.ErrCodeValidationFailed)
		}
	}
	return nil
}
