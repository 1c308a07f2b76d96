/*
Package order Order subdomain

An order captures the unit price of every line at creation time; the total is
fixed from then on and later catalog price changes never affect it.
The order moves pending -> paid only through a successful payment, and is
then shipped, delivered or cancelled by administrative transitions.
*/
package order

import (
	"fmt"
	"time"

	"ecommerce/domain/shared"

	"github.com/google/uuid"
)

// Order Order aggregate root
// All modifications to Order and OrderItem must go through the Order aggregate root
type Order struct {
	id              string
	userID          string
	items           []OrderItem
	totalAmount     shared.Money
	status          Status
	shippingAddress ShippingAddress
	paymentID       string
	trackingNumber  string
	version         int // Optimistic lock version number
	createdAt       time.Time
	updatedAt       time.Time
	isNew           bool

	events []shared.DomainEvent
}

// OrderItem line snapshot, has no identity outside its order
type OrderItem struct {
	id          string
	productID   string
	productName string
	quantity    int
	unitPrice   shared.Money
	subtotal    shared.Money
}

// Status Order status enum
type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// ParseStatus validates a raw status string
func ParseStatus(raw string) (Status, error) {
	switch s := Status(raw); s {
	case StatusPending, StatusPaid, StatusShipped, StatusDelivered, StatusCancelled:
		return s, nil
	}
	return "", NewUnknownStatusError(raw)
}

// ItemRequest priced line used to create an order
type ItemRequest struct {
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   shared.Money
}

// NewOrder Create new Order aggregate root
// Each line's subtotal is unitPrice*quantity and the total is their sum.
func NewOrder(userID string, requests []ItemRequest, address ShippingAddress) (*Order, error) {
	if userID == "" {
		return nil, shared.NewValidationError("order", "user_id", "user id is required")
	}

	if len(requests) == 0 {
		return nil, NewEmptyOrderItemsError()
	}

	currency := requests[0].UnitPrice.Currency()
	totalAmount := shared.ZeroMoney(currency)
	items := make([]OrderItem, len(requests))
	for i, req := range requests {
		if req.Quantity <= 0 {
			return nil, NewInvalidQuantityError(req.ProductID, req.Quantity)
		}
		if req.UnitPrice.IsNegative() {
			return nil, shared.NewValidationError("order", "unit_price", "unit price must not be negative")
		}

		subtotal, err := req.UnitPrice.Multiply(req.Quantity)
		if err != nil {
			return nil, err
		}
		totalAmount, err = totalAmount.Add(subtotal)
		if err != nil {
			return nil, shared.NewValidationError("order", "items", "all items must share one currency")
		}

		id, err := uuid.NewV7()
		if err != nil {
			return nil, fmt.Errorf("failed to generate order item ID: %w", err)
		}

		items[i] = OrderItem{
			id:          id.String(),
			productID:   req.ProductID,
			productName: req.ProductName,
			quantity:    req.Quantity,
			unitPrice:   req.UnitPrice,
			subtotal:    subtotal,
		}
	}

	orderID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate order ID: %w", err)
	}

	now := time.Now()
	order := &Order{
		id:              orderID.String(),
		userID:          userID,
		items:           items,
		totalAmount:     totalAmount,
		status:          StatusPending,
		shippingAddress: address,
		createdAt:       now,
		updatedAt:       now,
		isNew:           true,
	}

	order.events = append(order.events, NewOrderPlacedEvent(order.id, userID, order.totalAmount))

	return order, nil
}

// ReconstructionDTO Order reconstruction data transfer object
// ⚠️ Note: only repository implementations may use it
type ReconstructionDTO struct {
	ID              string
	UserID          string
	Items           []OrderItem
	TotalAmount     shared.Money
	Status          Status
	ShippingAddress ShippingAddress
	PaymentID       string
	TrackingNumber  string
	Version         int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// RebuildFromDTO Reconstruct Order aggregate root from DTO
func RebuildFromDTO(dto ReconstructionDTO) *Order {
	items := make([]OrderItem, len(dto.Items))
	copy(items, dto.Items)
	return &Order{
		id:              dto.ID,
		userID:          dto.UserID,
		items:           items,
		totalAmount:     dto.TotalAmount,
		status:          dto.Status,
		shippingAddress: dto.ShippingAddress,
		paymentID:       dto.PaymentID,
		trackingNumber:  dto.TrackingNumber,
		version:         dto.Version,
		createdAt:       dto.CreatedAt,
		updatedAt:       dto.UpdatedAt,
	}
}

// ToDTO snapshot for repositories
func (o *Order) ToDTO() ReconstructionDTO {
	return ReconstructionDTO{
		ID:              o.id,
		UserID:          o.userID,
		Items:           o.Items(),
		TotalAmount:     o.totalAmount,
		Status:          o.status,
		ShippingAddress: o.shippingAddress,
		PaymentID:       o.paymentID,
		TrackingNumber:  o.trackingNumber,
		Version:         o.version,
		CreatedAt:       o.createdAt,
		UpdatedAt:       o.updatedAt,
	}
}

// ItemReconstructionDTO Order item reconstruction data transfer object
type ItemReconstructionDTO struct {
	ID          string
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   shared.Money
	Subtotal    shared.Money
}

// RebuildItemFromDTO Rebuild OrderItem from DTO
func RebuildItemFromDTO(dto ItemReconstructionDTO) OrderItem {
	return OrderItem{
		id:          dto.ID,
		productID:   dto.ProductID,
		productName: dto.ProductName,
		quantity:    dto.Quantity,
		unitPrice:   dto.UnitPrice,
		subtotal:    dto.Subtotal,
	}
}

// ============================================================================
// State Change Methods
// ============================================================================
//
// Version is not incremented here; repositories bump it after a successful save
// so the optimistic lock compares against the version that was loaded.

// MarkPaid pending -> paid
// Business rule: only the payment flow calls this, after a payment succeeded
func (o *Order) MarkPaid(paymentID string) error {
	if o.status != StatusPending {
		return NewInvalidOrderStateError(string(o.status), string(StatusPaid))
	}

	o.status = StatusPaid
	o.paymentID = paymentID
	o.updatedAt = time.Now()
	o.events = append(o.events, NewOrderPaidEvent(o.id, paymentID, o.totalAmount))

	return nil
}

// Ship paid -> shipped
func (o *Order) Ship(trackingNumber string) error {
	if o.status != StatusPaid {
		return NewInvalidOrderStateError(string(o.status), string(StatusShipped))
	}

	o.status = StatusShipped
	o.trackingNumber = trackingNumber
	o.updatedAt = time.Now()
	o.events = append(o.events, NewOrderShippedEvent(o.id, trackingNumber))

	return nil
}

// Deliver shipped -> delivered
func (o *Order) Deliver() error {
	if o.status != StatusShipped {
		return NewInvalidOrderStateError(string(o.status), string(StatusDelivered))
	}

	o.status = StatusDelivered
	o.updatedAt = time.Now()
	o.events = append(o.events, NewOrderDeliveredEvent(o.id))

	return nil
}

// Cancel pending|paid -> cancelled
func (o *Order) Cancel(reason string) error {
	if o.status != StatusPending && o.status != StatusPaid {
		return NewInvalidOrderStateError(string(o.status), string(StatusCancelled))
	}

	o.status = StatusCancelled
	o.updatedAt = time.Now()
	o.events = append(o.events, NewOrderCancelledEvent(o.id, reason))

	return nil
}

// IncrementVersionForSave Increments the version after successful persistence
func (o *Order) IncrementVersionForSave() {
	o.version++
}

// ClearNewFlag marks the order as persisted
func (o *Order) ClearNewFlag() {
	o.isNew = false
}

func (o *Order) ID() string     { return o.id }
func (o *Order) UserID() string { return o.userID }

// Items Return copy of order items
func (o *Order) Items() []OrderItem {
	items := make([]OrderItem, len(o.items))
	copy(items, o.items)
	return items
}
func (o *Order) TotalAmount() shared.Money        { return o.totalAmount }
func (o *Order) Status() Status                   { return o.status }
func (o *Order) ShippingAddress() ShippingAddress { return o.shippingAddress }
func (o *Order) PaymentID() string                { return o.paymentID }
func (o *Order) TrackingNumber() string           { return o.trackingNumber }
func (o *Order) Version() int                     { return o.version }
func (o *Order) CreatedAt() time.Time             { return o.createdAt }
func (o *Order) UpdatedAt() time.Time             { return o.updatedAt }
func (o *Order) IsNew() bool                      { return o.isNew }

// IsOwnedBy reports whether userID placed this order
func (o *Order) IsOwnedBy(userID string) bool { return o.userID == userID }

// PullEvents Get and clear aggregate root's event list
func (o *Order) PullEvents() []shared.DomainEvent {
	events := make([]shared.DomainEvent, len(o.events))
	copy(events, o.events)
	o.events = nil
	return events
}

func (item OrderItem) ID() string              { return item.id }
func (item OrderItem) ProductID() string       { return item.productID }
func (item OrderItem) ProductName() string     { return item.productName }
func (item OrderItem) Quantity() int           { return item.quantity }
func (item OrderItem) UnitPrice() shared.Money { return item.unitPrice }
func (item OrderItem) Subtotal() shared.Money  { return item.subtotal }

// Compile-time check that Order implements AggregateRoot interface
var _ shared.AggregateRoot = (*Order)(nil)
