package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PRODUCT USECASE

// ActionResult - единый конверт результата операций сервиса.
// Ошибки передаются через error, Success всегда true при err == nil.
type ActionResult struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

// CreateProductReq - запрос на создание продукта.
type CreateProductReq struct {
	ProductCategoryID uuid.UUID
	Name              string
	Brand             string
	Description       string
	ImageURL          string
}

// UpdateProductReq - запрос на обновление продукта.
// nil-поля не изменяют сущность, категория обязательна и проверяется заново.
type UpdateProductReq struct {
	ProductCategoryID uuid.UUID
	Name              *string
	Brand             *string
	Description       *string
	ImageURL          *string
}

// PaginatedReq - любой запрос, несущий размер и номер страницы.
type PaginatedReq interface {
	GetPageSize() int
	GetPageIndex() int
}

// BasePaginatedReq - базовая реализация PaginatedReq. PageIndex считается с нуля.
type BasePaginatedReq struct {
	PageSize  int
	PageIndex int
}

func (r BasePaginatedReq) GetPageSize() int  { return r.PageSize }
func (r BasePaginatedReq) GetPageIndex() int { return r.PageIndex }

// DTO

// DtoProductCategory - категория в составе DtoProduct.
type DtoProductCategory struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// DtoProductPrice - цена варианта продукта.
type DtoProductPrice struct {
	ID           uuid.UUID       `json:"id"`
	Quantity     decimal.Decimal `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	MonetaryUnit string          `json:"monetaryUnit"`
}

// DtoProductDetail - вариант продукта с ценами.
type DtoProductDetail struct {
	ID            uuid.UUID         `json:"id"`
	Name          string            `json:"name"`
	ProductPrices []DtoProductPrice `json:"productPrices"`
}

// DtoProduct - продукт для списков, вместе с категорией.
// TotalQuantity не хранится и пересчитывается при каждом чтении.
type DtoProduct struct {
	ID              uuid.UUID          `json:"id"`
	Name            string             `json:"name"`
	Brand           string             `json:"brand"`
	Description     string             `json:"description"`
	ImageURL        string             `json:"imageUrl"`
	ProductCategory DtoProductCategory `json:"productCategory"`
	ProductDetails  []DtoProductDetail `json:"productDetails"`
	TotalQuantity   int                `json:"totalQuantity"`
}

// DtoProductWithoutCategory - продукт для карточки, без вложенной категории.
type DtoProductWithoutCategory struct {
	ID                uuid.UUID          `json:"id"`
	Name              string             `json:"name"`
	Brand             string             `json:"brand"`
	Description       string             `json:"description"`
	ImageURL          string             `json:"imageUrl"`
	ProductCategoryID uuid.UUID          `json:"productCategoryId"`
	ProductDetails    []DtoProductDetail `json:"productDetails"`
	TotalQuantity     int                `json:"totalQuantity"`
}

// CATALOG EXPORT

// CatalogSnapshot - содержимое выгрузки каталога в объектное хранилище.
type CatalogSnapshot struct {
	GeneratedAt time.Time    `json:"generatedAt"`
	Count       int          `json:"count"`
	Products    []DtoProduct `json:"products"`
}

// SnapshotInfo - результат выгрузки.
type SnapshotInfo struct {
	Key         string    `json:"key"`
	Count       int       `json:"count"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// OUTBOX

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
	// Failed - брокер отклонил событие без шанса на повтор, ReleaseStale его не трогает.
	Failed OutboxStatus = "failed"
)

type OutboxEventType string

const (
	ProductCreated OutboxEventType = "product.created"
	ProductUpdated OutboxEventType = "product.updated"
	ProductDeleted OutboxEventType = "product.deleted"
)

// OutboxEvent - событие изменения продукта, сохраняемое в той же транзакции, что и продукт.
type OutboxEvent struct {
	ID          int64
	EventID     string
	EventType   OutboxEventType
	ProductID   uuid.UUID
	Payload     []byte
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// INFRASTRUCTURE

// WriteRawMessageReq - запрос на публикацию сериализованного события.
type WriteRawMessageReq struct {
	ProductID uuid.UUID
	EventType OutboxEventType
	Payload   []byte
}

// MAPPERS

func NewActionResult(data any) *ActionResult {
	return &ActionResult{
		Success: true,
		Data:    data,
	}
}

func NewOutboxEvent(eventID string, eventType OutboxEventType, productID uuid.UUID, payload []byte, createdAt time.Time) *OutboxEvent {
	return &OutboxEvent{
		EventID:   eventID,
		EventType: eventType,
		ProductID: productID,
		Payload:   payload,
		Status:    Pending,
		CreatedAt: createdAt,
	}
}

func NewWriteRawMessageReq(productID uuid.UUID, eventType OutboxEventType, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		ProductID: productID,
		EventType: eventType,
		Payload:   payload,
	}
}
