package converter

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductModel представляет запись таблицы products вместе с присоединённой категорией.
type ProductModel struct {
	ID                uuid.UUID  `db:"id"`
	Name              string     `db:"name"`
	Brand             string     `db:"brand"`
	Description       string     `db:"description"`
	ImageURL          string     `db:"image_url"`
	ProductCategoryID uuid.UUID  `db:"product_category_id"`
	IsDeleted         bool       `db:"is_deleted"`
	CreatedAt         time.Time  `db:"created_at"`
	UpdatedAt         *time.Time `db:"updated_at"`

	Category *CategoryModel
}

// CategoryModel представляет запись таблицы product_categories в PostgreSQL.
type CategoryModel struct {
	ID        uuid.UUID  `db:"id"`
	Name      string     `db:"name"`
	IsDeleted bool       `db:"is_deleted"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt *time.Time `db:"updated_at"`
}

// ProductDetailModel представляет запись таблицы product_details.
type ProductDetailModel struct {
	ID        uuid.UUID `db:"id"`
	ProductID uuid.UUID `db:"product_id"`
	Name      string    `db:"name"`
}

// ProductPriceModel представляет запись таблицы product_prices.
type ProductPriceModel struct {
	ID              uuid.UUID       `db:"id"`
	ProductDetailID uuid.UUID       `db:"product_detail_id"`
	Quantity        decimal.Decimal `db:"quantity"`
	Price           decimal.Decimal `db:"price"`
	MonetaryUnit    string          `db:"monetary_unit"`
}

// OutboxEventModel представляет запись таблицы outbox_events.
type OutboxEventModel struct {
	ID          int64      `db:"id"`
	EventID     string     `db:"event_id"`
	EventType   string     `db:"event_type"`
	ProductID   uuid.UUID  `db:"product_id"`
	Payload     []byte     `db:"payload"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	ProcessedAt *time.Time `db:"processed_at"`
}
