package models

import (
	"gorm.io/gorm"
)

type Service struct {
	gorm.Model
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	Category        string  `json:"category"`
	Cost            float64 `json:"cost"`
	ProviderID      uint    `json:"provider_id"`
	Provider        User    `json:"provider" gorm:"foreignKey:ProviderID"`
	Discount        float64 `json:"discount"` // Discount percentage
	DiscountedPrice float64 `json:"discounted_price" gorm:"-"`
}

func (s *Service) AfterFind(tx *gorm.DB) (err error) {
	s.DiscountedPrice = s.Cost - (s.Cost * s.Discount / 100)
	return
}
