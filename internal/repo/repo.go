package repo

import (
	"errors"

	"gorm.io/gorm"
)

var ErrNoLines = errors.New("cart has no lines")

type GormRepo struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db}
}
