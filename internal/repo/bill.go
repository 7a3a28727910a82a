package repo

import (
	"context"
	"errors"

	"github.com/Skotchmaster/billing/internal/domain"
	"github.com/Skotchmaster/billing/internal/models"
	pkgdb "github.com/Skotchmaster/billing/pkg/db"
	"gorm.io/gorm"
)

type GormRepo struct {
	DB *gorm.DB
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Bill{}, &models.BillItem{})
}

func (r *GormRepo) Save(ctx context.Context, bill domain.Bill) (domain.Bill, error) {
	m := toModel(bill)
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&m).Error
	})
	if err != nil {
		return domain.Bill{}, err
	}
	return toDomain(m), nil
}

func (r *GormRepo) FindByID(ctx context.Context, id int64) (domain.Bill, bool, error) {
	var m models.Bill
	err := r.DB.WithContext(ctx).
		Preload("Items", orderedItems).
		Where("id = ?", id).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Bill{}, false, nil
	}
	if err != nil {
		return domain.Bill{}, false, err
	}
	return toDomain(m), true, nil
}

func (r *GormRepo) FindByCustomerID(ctx context.Context, customerID int64) ([]domain.Bill, error) {
	var ms []models.Bill
	if err := r.DB.WithContext(ctx).
		Preload("Items", orderedItems).
		Where("customer_id = ?", customerID).
		Order("id ASC").
		Find(&ms).Error; err != nil {
		return nil, err
	}

	bills := make([]domain.Bill, 0, len(ms))
	for _, m := range ms {
		bills = append(bills, toDomain(m))
	}
	return bills, nil
}

func (r *GormRepo) Ping(ctx context.Context) error {
	return pkgdb.Ping(ctx, r.DB)
}

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func toModel(b domain.Bill) models.Bill {
	items := b.Items()
	m := models.Bill{
		CustomerID: b.CustomerID(),
		Total:      b.Total(),
		CreatedAt:  b.CreatedAt(),
		Items:      make([]models.BillItem, len(items)),
	}
	for i, it := range items {
		m.Items[i] = models.BillItem{
			Position:    i,
			ProductID:   it.ProductID(),
			Quantity:    it.Quantity(),
			UnitPrice:   it.UnitPrice(),
			Total:       it.Total(),
			ProductName: it.ProductName(),
		}
	}
	return m
}

func toDomain(m models.Bill) domain.Bill {
	items := make([]domain.LineItem, len(m.Items))
	for i, it := range m.Items {
		items[i] = domain.RestoreLineItem(it.ProductID, it.Quantity, it.UnitPrice, it.Total, it.ProductName)
	}
	return domain.RestoreBill(m.ID, m.CustomerID, items, m.Total, m.CreatedAt)
}
