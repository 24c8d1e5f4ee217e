package usecase

import (
	"time"

	"github.com/DRSN-tech/product-catalog/internal/domain"
	"github.com/google/uuid"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// ProductEvent - содержимое события изменения продукта.
type ProductEvent struct {
	EventID    string
	EventType  OutboxEventType
	ProductID  uuid.UUID
	CategoryID uuid.UUID
	Name       string
	OccurredAt time.Time
}

// NewProductOutboxEvent собирает outbox-событие по продукту. Payload кодируется как protobuf Struct.
func NewProductOutboxEvent(eventType OutboxEventType, product *domain.Product, now time.Time) (*OutboxEvent, error) {
	eventID := uuid.NewString()

	st, err := structpb.NewStruct(map[string]any{
		"event_id":    eventID,
		"event_type":  string(eventType),
		"product_id":  product.ID.String(),
		"category_id": product.ProductCategoryID.String(),
		"name":        product.Name,
		"occurred_at": now.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return nil, err
	}

	payload, err := proto.Marshal(st)
	if err != nil {
		return nil, err
	}

	return NewOutboxEvent(eventID, eventType, product.ID, payload, now), nil
}

// DecodeProductEvent разбирает payload, записанный NewProductOutboxEvent.
func DecodeProductEvent(payload []byte) (*ProductEvent, error) {
	var st structpb.Struct
	if err := proto.Unmarshal(payload, &st); err != nil {
		return nil, err
	}

	fields := st.GetFields()
	str := func(key string) string {
		return fields[key].GetStringValue()
	}

	productID, err := uuid.Parse(str("product_id"))
	if err != nil {
		return nil, err
	}

	categoryID, err := uuid.Parse(str("category_id"))
	if err != nil {
		return nil, err
	}

	occurredAt, err := time.Parse(time.RFC3339Nano, str("occurred_at"))
	if err != nil {
		return nil, err
	}

	return &ProductEvent{
		EventID:    str("event_id"),
		EventType:  OutboxEventType(str("event_type")),
		ProductID:  productID,
		CategoryID: categoryID,
		Name:       str("name"),
		OccurredAt: occurredAt,
	}, nil
}
