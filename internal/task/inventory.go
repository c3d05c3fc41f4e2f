package task

import (
	"strings"
	"time"
)

// InstrumentStatus represents where an instrument is in the workshop flow.
type InstrumentStatus string

const (
	InstrumentInWorkshop InstrumentStatus = "in_workshop"
	InstrumentReady      InstrumentStatus = "ready"
	InstrumentDelivered  InstrumentStatus = "delivered"
)

// ParseInstrumentStatus validates and normalizes an instrument status string.
func ParseInstrumentStatus(s string) (InstrumentStatus, error) {
	switch InstrumentStatus(strings.ToLower(strings.TrimSpace(s))) {
	case InstrumentInWorkshop:
		return InstrumentInWorkshop, nil
	case InstrumentReady:
		return InstrumentReady, nil
	case InstrumentDelivered:
		return InstrumentDelivered, nil
	default:
		return "", ErrInvalidStatus
	}
}

// Instrument is a piece of inventory held for maintenance.
type Instrument struct {
	ID        int64
	Name      string
	Serial    string
	Status    InstrumentStatus
	ClientID  *int64
	Notes     string
	CreatedAt time.Time
}

// NewInstrument creates an Instrument with validation.
func NewInstrument(name, serial, notes string, clientID *int64) (*Instrument, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyTitle
	}
	return &Instrument{
		Name:      name,
		Serial:    strings.TrimSpace(serial),
		Status:    InstrumentInWorkshop,
		ClientID:  clientID,
		Notes:     notes,
		CreatedAt: time.Now(),
	}, nil
}

// Client owns instruments and receives scheduled work.
type Client struct {
	ID        int64
	Name      string
	Email     string
	Phone     string
	CreatedAt time.Time
}

// NewClient creates a Client with validation.
func NewClient(name, email, phone string) (*Client, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyTitle
	}
	return &Client{
		Name:      name,
		Email:     strings.TrimSpace(email),
		Phone:     strings.TrimSpace(phone),
		CreatedAt: time.Now(),
	}, nil
}
