package employee

import (
	"encoding/json"
	"errors"
	"time"

	employeeDatamodel "github.com/albaledger/portal/internal/core/datamodel/employee"
)

// Employee is a staff member of the accounting office. AssignedClients holds the
// IDs of the client accounts the employee is responsible for.
type Employee struct {
	ID                 int64    `json:"id"`
	Name               string   `json:"name"`
	Username           string   `json:"username"`
	Email              string   `json:"email"`
	Phone              *string  `json:"phone,omitempty"`
	AssignedClients    []int64  `json:"assigned_clients"`
	IsActive           bool     `json:"is_active"`
	DocumentsProcessed *int     `json:"documents_processed,omitempty"`
	AvgProcessingHours *float64 `json:"avg_processing_hours,omitempty"`
	SatisfactionScore  *float64 `json:"satisfaction_score,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// ManagesClient reports whether clientID is in the employee's portfolio.
func (e *Employee) ManagesClient(clientID int64) bool {
	for _, id := range e.AssignedClients {
		if id == clientID {
			return true
		}
	}
	return false
}

// Domain errors
var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrUsernameTaken    = errors.New("username already in use")
)

func ToDataModel(e *Employee) (*employeeDatamodel.Employee, error) {
	assigned, err := json.Marshal(dedupClients(e.AssignedClients))
	if err != nil {
		return nil, err
	}
	return &employeeDatamodel.Employee{
		ID:                 e.ID,
		Name:               e.Name,
		Username:           e.Username,
		Email:              e.Email,
		Phone:              e.Phone,
		AssignedClients:    string(assigned),
		IsActive:           e.IsActive,
		DocumentsProcessed: e.DocumentsProcessed,
		AvgProcessingHours: e.AvgProcessingHours,
		SatisfactionScore:  e.SatisfactionScore,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}, nil
}

func FromDataModel(e *employeeDatamodel.Employee) (*Employee, error) {
	assigned := []int64{}
	if e.AssignedClients != "" {
		if err := json.Unmarshal([]byte(e.AssignedClients), &assigned); err != nil {
			return nil, err
		}
	}
	return &Employee{
		ID:                 e.ID,
		Name:               e.Name,
		Username:           e.Username,
		Email:              e.Email,
		Phone:              e.Phone,
		AssignedClients:    assigned,
		IsActive:           e.IsActive,
		DocumentsProcessed: e.DocumentsProcessed,
		AvgProcessingHours: e.AvgProcessingHours,
		SatisfactionScore:  e.SatisfactionScore,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}, nil
}

func FromDataModelSlice(items []*employeeDatamodel.Employee) ([]*Employee, error) {
	result := make([]*Employee, len(items))
	for i, e := range items {
		converted, err := FromDataModel(e)
		if err != nil {
			return nil, err
		}
		result[i] = converted
	}
	return result, nil
}

// dedupClients removes duplicate IDs while preserving order.
func dedupClients(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	result := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 || seen[id] {
			continue
		}
		seen[id] = true
		result = append(result, id)
	}
	return result
}
