package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/petstore-contract-tests/internal/domains/pets/domain"
	"github.com/Apurer/petstore-contract-tests/internal/domains/pets/ports"
	"github.com/Apurer/petstore-contract-tests/internal/platform/migrations"
	"github.com/Apurer/petstore-contract-tests/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists pets in PostgreSQL using GORM-mapped columns.
// The schema is owned by the migrations package.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. The caller owns the DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type petRecord = migrations.PetRecord

func newPetRecord(p *domain.Pet) petRecord {
	rec := petRecord{
		ID:        p.ID,
		Name:      p.Name,
		Status:    string(p.Status),
		PhotoURLs: pq.StringArray(append([]string{}, p.PhotoURLs...)),
		TagIDs:    extractTagIDs(p.Tags),
		TagNames:  extractTagNames(p.Tags),
	}
	if p.Category != nil {
		id := p.Category.ID
		rec.CategoryID = &id
		rec.CategoryName = p.Category.Name
	}
	return rec
}

// Save inserts or updates a pet aggregate.
func (r *Repository) Save(ctx context.Context, pet *domain.Pet) (*projection.Projection[*domain.Pet], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if pet == nil {
		return nil, errors.New("cannot save nil pet")
	}
	record := newPetRecord(pet)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"category_id":   record.CategoryID,
				"category_name": record.CategoryName,
				"name":          record.Name,
				"photo_urls":    record.PhotoURLs,
				"status":        record.Status,
				"tag_ids":       record.TagIDs,
				"tag_names":     record.TagNames,
				"updated_at":    gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, pet.ID)
}

// GetByID fetches a pet by identifier.
func (r *Repository) GetByID(ctx context.Context, id int64) (*projection.Projection[*domain.Pet], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record petRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return toProjection(&record), nil
}

// Delete removes a pet by identifier.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&petRecord{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// FindByStatus returns pets matching any provided status.
func (r *Repository) FindByStatus(ctx context.Context, statuses []domain.Status) ([]*projection.Projection[*domain.Pet], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if len(statuses) == 0 {
		return []*projection.Projection[*domain.Pet]{}, nil
	}
	args := make([]string, 0, len(statuses))
	for _, s := range statuses {
		args = append(args, string(s))
	}
	var records []petRecord
	if err := r.db.WithContext(ctx).
		Where("status IN ?", args).
		Order("id").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return recordsToProjections(records), nil
}

// FindByTags returns pets that contain any of the provided tag names (case insensitive).
func (r *Repository) FindByTags(ctx context.Context, tags []string) ([]*projection.Projection[*domain.Pet], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if len(tags) == 0 {
		return []*projection.Projection[*domain.Pet]{}, nil
	}
	lowered := make([]string, 0, len(tags))
	for _, tag := range tags {
		lowered = append(lowered, strings.ToLower(tag))
	}
	var records []petRecord
	if err := r.db.WithContext(ctx).
		Where("EXISTS (SELECT 1 FROM unnest(tag_names) AS tag WHERE lower(tag) = ANY(?))", pq.Array(lowered)).
		Order("id").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return recordsToProjections(records), nil
}

// List returns every persisted pet.
func (r *Repository) List(ctx context.Context) ([]*projection.Projection[*domain.Pet], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []petRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	return recordsToProjections(records), nil
}

func recordsToProjections(records []petRecord) []*projection.Projection[*domain.Pet] {
	list := make([]*projection.Projection[*domain.Pet], 0, len(records))
	for i := range records {
		list = append(list, toProjection(&records[i]))
	}
	return list
}

func toProjection(record *petRecord) *projection.Projection[*domain.Pet] {
	return projection.New(toDomain(record), record.CreatedAt, record.UpdatedAt)
}

func toDomain(r *petRecord) *domain.Pet {
	pet := &domain.Pet{
		ID:     r.ID,
		Name:   r.Name,
		Status: domain.Status(r.Status),
	}
	pet.ReplacePhotos(r.PhotoURLs)
	if r.CategoryID != nil || r.CategoryName != "" {
		cat := domain.Category{Name: r.CategoryName}
		if r.CategoryID != nil {
			cat.ID = *r.CategoryID
		}
		pet.UpdateCategory(&cat)
	}
	n := max(len(r.TagIDs), len(r.TagNames))
	tags := make([]domain.Tag, 0, n)
	for i := 0; i < n; i++ {
		var tag domain.Tag
		if i < len(r.TagIDs) {
			tag.ID = r.TagIDs[i]
		}
		if i < len(r.TagNames) {
			tag.Name = r.TagNames[i]
		}
		tags = append(tags, tag)
	}
	pet.ReplaceTags(tags)
	return pet
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres repository not configured")
	}
	return nil
}

// Tag ids and names are stored as parallel arrays; both keep one entry per tag.
func extractTagNames(tags []domain.Tag) pq.StringArray {
	arr := make(pq.StringArray, 0, len(tags))
	for _, tag := range tags {
		arr = append(arr, tag.Name)
	}
	return arr
}

func extractTagIDs(tags []domain.Tag) pq.Int64Array {
	arr := make(pq.Int64Array, 0, len(tags))
	for _, tag := range tags {
		arr = append(arr, tag.ID)
	}
	return arr
}
