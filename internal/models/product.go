package models

// Product represents a catalog entry. Column names follow the legacy
// ProductsOnWebsite table; the Quantity column actually holds the brand
// label, so the field is named for what it contains.
type Product struct {
	ProductName   string  `json:"product_name" gorm:"column:ProductName;index" validate:"required,max=200"`
	Brand         string  `json:"brand" gorm:"column:Quantity" validate:"required"`
	Price         float64 `json:"price" gorm:"column:Price" validate:"gte=0"`
	DiscountPrice float64 `json:"discount_price" gorm:"column:DiscountPrice" validate:"gte=0"`
	Category      string  `json:"category" gorm:"column:Category" validate:"required"`
	SubCategory   string  `json:"sub_category" gorm:"column:SubCategory" validate:"required"`
	ImageURL      string  `json:"image_url" gorm:"column:Image_Url" validate:"required,startswith=http"`
	AbsoluteURL   string  `json:"absolute_url" gorm:"column:Absolute_Url" validate:"required,startswith=http"`
}

// TableName keeps the legacy table name.
func (Product) TableName() string { return "ProductsOnWebsite" }
