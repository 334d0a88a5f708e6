package postgres

import (
	"time"

	documentDatamodel "github.com/albaledger/portal/internal/core/datamodel/document"
	"github.com/albaledger/portal/internal/document"
	"gorm.io/gorm"
)

// DocumentRepository implements the document.Repository interface using GORM
type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) document.Repository {
	return &DocumentRepository{db: db}
}

// CreateBatch stores all accepted documents of a submission in one transaction.
func (r *DocumentRepository) CreateBatch(docs []*document.Document) error {
	if len(docs) == 0 {
		return nil
	}
	models := make([]*documentDatamodel.Document, len(docs))
	for i, d := range docs {
		models[i] = document.ToDataModel(d)
	}
	return r.db.Create(&models).Error
}

func (r *DocumentRepository) GetByID(id string) (*document.Document, error) {
	var model documentDatamodel.Document
	err := r.db.Where("id = ?", id).First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, document.ErrDocumentNotFound
		}
		return nil, err
	}
	return document.FromDataModel(&model), nil
}

// List applies the service-built query. Month and year filter on uploaded_at
// using half-open ranges so the indexes stay usable.
func (r *DocumentRepository) List(q document.ListQuery) ([]*document.Document, error) {
	tx := r.db.Model(&documentDatamodel.Document{})

	if q.ClientID != 0 {
		tx = tx.Where("client_id = ?", q.ClientID)
	} else if len(q.ClientIDs) > 0 {
		tx = tx.Where("client_id IN ?", q.ClientIDs)
	}
	if q.Category != "" {
		tx = tx.Where("category = ?", q.Category)
	}

	if q.Year != 0 {
		var from, to time.Time
		if q.Month != 0 {
			from = time.Date(q.Year, time.Month(q.Month), 1, 0, 0, 0, 0, time.UTC)
			to = from.AddDate(0, 1, 0)
		} else {
			from = time.Date(q.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
			to = from.AddDate(1, 0, 0)
		}
		tx = tx.Where("uploaded_at >= ? AND uploaded_at < ?", from, to)
	}

	var models []*documentDatamodel.Document
	if err := tx.Order("uploaded_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	return document.FromDataModelSlice(models), nil
}

func (r *DocumentRepository) Update(doc *document.Document) error {
	doc.UpdatedAt = time.Now()
	return r.db.Save(document.ToDataModel(doc)).Error
}
