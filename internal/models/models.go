package models

import "time"

type Bill struct {
	ID         int64      `gorm:"primaryKey;autoIncrement"                   json:"id"`
	CustomerID int64      `gorm:"index;not null"                             json:"customer_id"`
	Total      float64    `gorm:"not null"                                   json:"total"`
	CreatedAt  time.Time  `gorm:"not null"                                   json:"created_at"`
	Items      []BillItem `gorm:"foreignKey:BillID;constraint:OnDelete:CASCADE" json:"items"`
}

type BillItem struct {
	ID          int64   `gorm:"primaryKey;autoIncrement"    json:"id"`
	BillID      int64   `gorm:"index;not null"              json:"bill_id"`
	Position    int     `gorm:"not null"                    json:"position"`
	ProductID   string  `gorm:"not null"                    json:"product_id"`
	Quantity    int     `gorm:"not null;check:quantity>0"   json:"quantity"`
	UnitPrice   float64 `gorm:"not null"                    json:"unit_price"`
	Total       float64 `gorm:"not null"                    json:"total"`
	ProductName string  `                                   json:"product_name"`
}

func (Bill) TableName() string {
	return "bills"
}

func (BillItem) TableName() string {
	return "bill_items"
}
