package devapi

import (
	"context"
	"time"

	"gorm.io/gorm"

	"ownerdesk/internal/domain"
)

type Repository struct {
	db       *gorm.DB
	filesURL string
}

// NewRepository serves attachment URLs under filesURL.
func NewRepository(db *gorm.DB, filesURL string) *Repository {
	return &Repository{db: db, filesURL: filesURL}
}

func (r *Repository) Migrate() error {
	return r.db.AutoMigrate(Models()...)
}

// Merchants

func (r *Repository) MerchantByEmail(ctx context.Context, email string) (*merchantModel, error) {
	var m merchantModel
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	return &m, nil
}

func (r *Repository) CreateMerchant(ctx context.Context, m *merchantModel) error {
	return uniqueViolation(r.db.WithContext(ctx).Create(m).Error)
}

func (r *Repository) UpdateMerchant(ctx context.Context, id int64, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	tx := r.db.WithContext(ctx).Model(&merchantModel{}).Where("id = ?", id).Updates(updates)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Businesses

func (r *Repository) BusinessByOwner(ctx context.Context, ownerID int64) (*businessModel, error) {
	var m businessModel
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("id").First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	return &m, nil
}

func (r *Repository) Business(ctx context.Context, id int64) (*businessModel, error) {
	var m businessModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &m, nil
}

func (r *Repository) CreateBusiness(ctx context.Context, m *businessModel) error {
	return uniqueViolation(r.db.WithContext(ctx).Create(m).Error)
}

func (r *Repository) UpdateBusiness(ctx context.Context, id int64, updates map[string]any) error {
	tx := r.db.WithContext(ctx).Model(&businessModel{}).Where("id = ?", id).Updates(updates)
	if tx.Error != nil {
		return uniqueViolation(tx.Error)
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Offers

func (r *Repository) Offers(ctx context.Context, businessID int64) ([]*domain.Offer, error) {
	var rows []offerModel
	if err := r.db.WithContext(ctx).Where("business_id = ?", businessID).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.Offer, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.toDomain())
	}
	return out, nil
}

func (r *Repository) Offer(ctx context.Context, id int64) (*offerModel, error) {
	var m offerModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &m, nil
}

func (r *Repository) CreateOffer(ctx context.Context, m *offerModel) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *Repository) UpdateOffer(ctx context.Context, m *offerModel) error {
	return r.db.WithContext(ctx).
		Model(&offerModel{}).
		Where("id = ?", m.ID).
		Updates(map[string]any{
			"name":        m.Name,
			"price":       m.Price,
			"duration":    m.Duration,
			"allow_photo": m.AllowPhoto,
			"updated_at":  time.Now(),
		}).Error
}

func (r *Repository) DeleteOffer(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).Delete(&offerModel{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Bookings

func (r *Repository) Bookings(ctx context.Context, businessID int64) ([]*domain.Booking, error) {
	var rows []bookingModel
	if err := r.db.WithContext(ctx).Where("business_id = ?", businessID).Order("start_time, id").Find(&rows).Error; err != nil {
		return nil, err
	}

	var ids []string
	for _, m := range rows {
		ids = append(ids, m.attachmentIDs()...)
	}
	attachments, err := r.attachments(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.Booking, 0, len(rows))
	for _, m := range rows {
		b, err := m.toDomain(attachments)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func (r *Repository) Booking(ctx context.Context, id int64) (*bookingModel, error) {
	var m bookingModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &m, nil
}

func (r *Repository) BookingView(ctx context.Context, m *bookingModel) (*domain.Booking, error) {
	attachments, err := r.attachments(ctx, m.attachmentIDs())
	if err != nil {
		return nil, err
	}
	return m.toDomain(attachments)
}

func (r *Repository) CreateBooking(ctx context.Context, m *bookingModel) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// TransitionBooking moves a booking to status `to` when the current status allows it.
// The check and the write happen in one transaction.
func (r *Repository) TransitionBooking(ctx context.Context, id int64, to domain.BookingStatus, action string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m bookingModel
		if err := tx.First(&m, id).Error; err != nil {
			return notFound(err)
		}
		if !domain.CanTransition(domain.BookingStatus(m.Status), to) {
			return &StatusError{Action: action, Status: m.Status}
		}

		updates := map[string]any{"status": string(to), "updated_at": time.Now()}
		if to == domain.BookingCancelled {
			updates["cancelled_at"] = time.Now()
		}
		res := tx.Model(&bookingModel{}).Where("id = ? AND status = ?", id, m.Status).Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &StatusError{Action: action, Status: m.Status}
		}
		return nil
	})
}

func (r *Repository) RescheduleBooking(ctx context.Context, id int64, start, end time.Time, comment *string) error {
	updates := map[string]any{
		"start_time": start.UTC(),
		"end_time":   end.UTC(),
		"updated_at": time.Now(),
	}
	if comment != nil {
		updates["comment"] = *comment
	}
	return r.db.WithContext(ctx).Model(&bookingModel{}).Where("id = ?", id).Updates(updates).Error
}

// Working hours

func (r *Repository) WorkingHours(ctx context.Context, businessID int64) ([]*domain.WorkingHourInterval, error) {
	var rows []workingHourModel
	if err := r.db.WithContext(ctx).Where("business_id = ?", businessID).Order("date_from").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*domain.WorkingHourInterval, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.toDomain())
	}
	return out, nil
}

// CreateWorkingHours inserts a batch atomically. A duplicate start rejects the whole batch.
func (r *Repository) CreateWorkingHours(ctx context.Context, rows []workingHourModel) ([]*domain.WorkingHourInterval, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&rows).Error
	})
	if err != nil {
		return nil, uniqueViolation(err)
	}
	out := make([]*domain.WorkingHourInterval, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.toDomain())
	}
	return out, nil
}

func (r *Repository) DeleteWorkingHour(ctx context.Context, businessID, id int64) error {
	tx := r.db.WithContext(ctx).Where("business_id = ?", businessID).Delete(&workingHourModel{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Attachments

func (r *Repository) SaveAttachment(ctx context.Context, m *attachmentModel) (domain.Attachment, error) {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return domain.Attachment{}, err
	}
	return r.attachmentView(m.ID), nil
}

func (r *Repository) Attachment(ctx context.Context, id string) (*attachmentModel, error) {
	var m attachmentModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	return &m, nil
}

func (r *Repository) AttachmentsExist(ctx context.Context, ids []string) (bool, error) {
	if len(ids) == 0 {
		return true, nil
	}
	var n int64
	if err := r.db.WithContext(ctx).Model(&attachmentModel{}).Where("id IN ?", ids).Count(&n).Error; err != nil {
		return false, err
	}
	return int(n) == len(unique(ids)), nil
}

func (r *Repository) attachments(ctx context.Context, ids []string) (map[string]domain.Attachment, error) {
	out := make(map[string]domain.Attachment, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var found []string
	if err := r.db.WithContext(ctx).Model(&attachmentModel{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, err
	}
	for _, id := range found {
		out[id] = r.attachmentView(id)
	}
	return out, nil
}

func (r *Repository) attachmentView(id string) domain.Attachment {
	return domain.Attachment{ID: id, URL: r.filesURL + "/" + id}
}

func unique(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
