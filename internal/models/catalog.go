package models

import "time"

type Condition string

const (
	ConditionNew    Condition = "NEW"
	ConditionUsed   Condition = "USED"
	ConditionRefurb Condition = "REFURB"
)

func (c Condition) Valid() bool {
	switch c {
	case ConditionNew, ConditionUsed, ConditionRefurb:
		return true
	}
	return false
}

type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
)

func (g Grade) Valid() bool {
	switch g {
	case GradeA, GradeB, GradeC:
		return true
	}
	return false
}

type Brand struct {
	ID        uint      `gorm:"primaryKey"                   json:"id"`
	Name      string    `gorm:"size:120;uniqueIndex;not null" json:"name"`
	Slug      string    `gorm:"size:140;uniqueIndex;not null" json:"slug"`
	Site      string    `gorm:"size:200"                     json:"site"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Category struct {
	ID        uint      `gorm:"primaryKey"                   json:"id"`
	Name      string    `gorm:"size:120;uniqueIndex;not null" json:"name"`
	Slug      string    `gorm:"size:140;uniqueIndex;not null" json:"slug"`
	ParentID  *uint     `gorm:"index"                        json:"parent_id"`
	Parent    *Category `gorm:"constraint:OnDelete:CASCADE"  json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Product struct {
	ID         uint      `gorm:"primaryKey"                  json:"id"`
	SKURoot    string    `gorm:"size:50;uniqueIndex;not null" json:"sku_root"`
	Title      string    `gorm:"size:200;not null"           json:"title"`
	BrandID    uint      `gorm:"index;not null"              json:"brand_id"`
	Brand      *Brand    `gorm:"constraint:OnDelete:RESTRICT" json:"brand,omitempty"`
	CategoryID uint      `gorm:"index;not null"              json:"category_id"`
	Category   *Category `gorm:"constraint:OnDelete:RESTRICT" json:"category,omitempty"`
	ShortDesc  string    `gorm:"size:500"                    json:"short_desc"`
	LongDesc   string    `gorm:"type:text"                   json:"long_desc"`
	Condition  Condition `gorm:"size:6;not null"             json:"condition"`
	Grade      Grade     `gorm:"size:1;not null"             json:"grade"`
	Publish    bool      `gorm:"not null;index"              json:"publish"`

	Variants []Variant      `gorm:"constraint:OnDelete:CASCADE" json:"variants"`
	Images   []ProductImage `gorm:"constraint:OnDelete:CASCADE" json:"images"`
	Models3D []Model3DAsset `gorm:"constraint:OnDelete:CASCADE" json:"models3d"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Variant struct {
	ID         uint           `gorm:"primaryKey"                  json:"id"`
	ProductID  uint           `gorm:"index;not null"              json:"product_id"`
	SKU        string         `gorm:"size:60;uniqueIndex;not null" json:"sku"`
	Attributes map[string]any `gorm:"serializer:json;type:text"   json:"attributes"`
	PriceCLP   int64          `gorm:"not null;check:chk_variants_price,price_clp >= 0" json:"price_clp"`
	Stock      int            `gorm:"not null"                    json:"stock"`
	WeightG    int            `gorm:"not null"                    json:"weight_g"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

type ProductImage struct {
	ID        uint      `gorm:"primaryKey"          json:"id"`
	ProductID uint      `gorm:"index;not null"      json:"-"`
	URL       string    `gorm:"size:500;not null"   json:"image"`
	Alt       string    `gorm:"size:200"            json:"alt"`
	Sort      int       `gorm:"not null"            json:"sort"`
	CreatedAt time.Time `json:"-"`
}

type Model3DAsset struct {
	ID           uint      `gorm:"primaryKey"        json:"id"`
	ProductID    uint      `gorm:"index;not null"    json:"-"`
	FileURL      string    `gorm:"size:500;not null" json:"file"`
	PreviewImage string    `gorm:"size:500"          json:"preview_image"`
	Notes        string    `gorm:"size:200"          json:"notes"`
	CreatedAt    time.Time `json:"-"`
}

func (Model3DAsset) TableName() string { return "model3d_assets" }
