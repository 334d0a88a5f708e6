package postgres

import (
	"time"

	employeeDatamodel "github.com/albaledger/portal/internal/core/datamodel/employee"
	"github.com/albaledger/portal/internal/employee"
	"gorm.io/gorm"
)

// EmployeeRepository implements the employee.Repository interface using GORM
type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) employee.Repository {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) Create(e *employee.Employee) error {
	model, err := employee.ToDataModel(e)
	if err != nil {
		return err
	}
	if err := r.db.Create(model).Error; err != nil {
		return err
	}
	e.ID = model.ID
	return nil
}

func (r *EmployeeRepository) GetByID(id int64) (*employee.Employee, error) {
	var model employeeDatamodel.Employee
	err := r.db.Where("id = ?", id).First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, err
	}
	return employee.FromDataModel(&model)
}

func (r *EmployeeRepository) GetByUsername(username string) (*employee.Employee, error) {
	var model employeeDatamodel.Employee
	err := r.db.Where("username = ?", username).First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, err
	}
	return employee.FromDataModel(&model)
}

func (r *EmployeeRepository) List() ([]*employee.Employee, error) {
	var models []*employeeDatamodel.Employee
	if err := r.db.Order("name ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	return employee.FromDataModelSlice(models)
}

func (r *EmployeeRepository) Delete(id int64) error {
	result := r.db.Where("id = ?", id).Delete(&employeeDatamodel.Employee{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

func (r *EmployeeRepository) Update(e *employee.Employee) error {
	e.UpdatedAt = time.Now()
	model, err := employee.ToDataModel(e)
	if err != nil {
		return err
	}
	return r.db.Save(model).Error
}
