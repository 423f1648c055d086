package store

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/propwire/propwire/convert"
)

var (
	ErrInvalidEmail  = errors.New("invalid email address")
	ErrInvalidStatus = errors.New("invalid status transition")
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusPaid      OrderStatus = "PAID"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusCancelled OrderStatus = "CANCELLED"
)

func (s OrderStatus) String() string {
	return string(s)
}

func init() {
	convert.RegisterEnum(StatusPending, StatusPaid, StatusShipped, StatusCancelled)
}

// Address is a postal address.
type Address struct {
	Street     string
	City       string
	State      string
	PostalCode string
	Country    string
	IsDefault  bool `prop:"default"`
}

// Customer places orders. The email is only reachable through its
// accessor methods, which normalize and validate it.
type Customer struct {
	ID         uuid.UUID `prop:"id"`
	Name       string
	Active     bool
	Website    *url.URL
	Tags       []string
	Attributes map[string]string
	Addresses  []Address

	email string
}

func (c *Customer) Email() string {
	return c.email
}

func (c *Customer) SetEmail(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if strings.Count(email, "@") != 1 || strings.HasPrefix(email, "@") || strings.HasSuffix(email, "@") {
		return fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}

	c.email = email

	return nil
}

// Product is a sellable item.
type Product struct {
	SKU       string `prop:"sku"`
	Name      string
	Price     Money
	Inventory int
	Weight    float64
	CreatedAt time.Time
}

// OrderItem is a line of an order. It snapshots the unit price at the time
// of purchase.
type OrderItem struct {
	SKU       string `prop:"sku"`
	Name      string
	Quantity  int
	UnitPrice Money
}

// GetTotal returns UnitPrice times Quantity.
func (i *OrderItem) GetTotal() Money {
	return i.UnitPrice * Money(i.Quantity)
}

// Order is a purchase made by a customer.
type Order struct {
	ID       uuid.UUID `prop:"id"`
	Number   string
	Customer *Customer
	Items    []OrderItem
	Shipping *Address
	Billing  Address
	PlacedAt time.Time
	Notes    map[string]string
	Priority int8

	status OrderStatus
}

// Status returns the current status; a new order is pending.
func (o *Order) Status() OrderStatus {
	if o.status == "" {
		return StatusPending
	}

	return o.status
}

// SetStatus moves the order to s. Cancelled and shipped orders are final.
func (o *Order) SetStatus(s OrderStatus) error {
	switch current := o.Status(); {
	case s == current:
		return nil
	case current == StatusCancelled, current == StatusShipped:
		return fmt.Errorf("%w: %s to %s", ErrInvalidStatus, current, s)
	}

	o.status = s

	return nil
}

// GetTotal sums the totals of all items.
func (o *Order) GetTotal() Money {
	var total Money
	for i := range o.Items {
		total += o.Items[i].GetTotal()
	}

	return total
}

// Settings configures a storefront.
type Settings struct {
	Currency   string
	Timeout    time.Duration
	Retries    uint8
	Endpoint   *url.URL
	AllowedIPs []net.IP
	Features   map[string]bool
	Levels     [3]int
	OpenSince  time.Time
	Extra      any
}
