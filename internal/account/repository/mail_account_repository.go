package repository

import (
	"errors"
	"time"

	accountdomain "automail-backend/internal/account/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// mailAccountRepository implements MailAccountRepository interface
type mailAccountRepository struct {
	db *gorm.DB
}

// NewMailAccountRepository creates a new instance of mailAccountRepository
func NewMailAccountRepository(db *gorm.DB) MailAccountRepository {
	return &mailAccountRepository{
		db: db,
	}
}

func (r *mailAccountRepository) Create(account *accountdomain.MailAccount) error {
	account.ID = uuid.New().String()
	account.CreatedAt = time.Now()
	account.UpdatedAt = time.Now()
	return r.db.Create(account).Error
}

func (r *mailAccountRepository) FindAll() ([]*accountdomain.MailAccount, error) {
	var accounts []*accountdomain.MailAccount
	if err := r.db.Order("created_at ASC").Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *mailAccountRepository) FindByID(id string) (*accountdomain.MailAccount, error) {
	var account accountdomain.MailAccount
	err := r.db.Where("id = ?", id).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func (r *mailAccountRepository) FindByEmailAndType(email, accountType string) (*accountdomain.MailAccount, error) {
	var account accountdomain.MailAccount
	err := r.db.Where("email = ? AND type = ?", email, accountType).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func (r *mailAccountRepository) Update(account *accountdomain.MailAccount) error {
	account.UpdatedAt = time.Now()
	return r.db.Save(account).Error
}

func (r *mailAccountRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&accountdomain.MailAccount{}).Error
}

func (r *mailAccountRepository) UpdateTokens(id, accessToken, refreshToken string, expiry *time.Time) error {
	return r.db.Model(&accountdomain.MailAccount{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"access_token":  accessToken,
			"refresh_token": refreshToken,
			"token_expiry":  expiry,
			"updated_at":    time.Now(),
		}).Error
}
