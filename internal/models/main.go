// Package models defines the core data structures for secrets and devices.
package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound is returned by stores when no record exists for the given key.
var ErrNotFound = errors.New("not found")

// SecretType discriminates the secret variants.
type SecretType string

const (
	// PasswordSecret is a username/password credential for a domain.
	PasswordSecret SecretType = "password"
	// CreditCardSecret is a stored credit card for a domain.
	CreditCardSecret SecretType = "creditcard"
)

// PasswordData holds the password-variant fields.
type PasswordData struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CardData holds the creditcard-variant fields.
type CardData struct {
	Number   string `json:"number"`
	CVC      string `json:"cvc"`
	FullName string `json:"fullname"`
	Year     int    `json:"year"`
	Month    int    `json:"month"`
}

// Secret is one credential record keyed by domain. Exactly one of the
// variant pointers is set, selected by Type. The wire format is flat:
//
//	{"domain":"example.com","type":"password","username":"u","password":"p"}
//	{"domain":"shop.com","type":"creditcard","number":"4111111111111111",
//	 "cvc":"123","fullname":"J Doe","year":2027,"month":4}
type Secret struct {
	Domain   string
	Type     SecretType
	Password *PasswordData
	Card     *CardData
}

// secretWire is the flat JSON representation covering both variants.
type secretWire struct {
	Domain   string     `json:"domain"`
	Type     SecretType `json:"type"`
	Username string     `json:"username,omitempty"`
	Password string     `json:"password,omitempty"`
	Number   string     `json:"number,omitempty"`
	CVC      string     `json:"cvc,omitempty"`
	FullName string     `json:"fullname,omitempty"`
	Year     int        `json:"year,omitempty"`
	Month    int        `json:"month,omitempty"`
}

// MarshalJSON flattens the active variant into the wire shape.
func (s Secret) MarshalJSON() ([]byte, error) {
	w := secretWire{Domain: s.Domain, Type: s.Type}
	switch s.Type {
	case PasswordSecret:
		if s.Password == nil {
			return nil, fmt.Errorf("password secret for %q has no password data", s.Domain)
		}
		w.Username = s.Password.Username
		w.Password = s.Password.Password
	case CreditCardSecret:
		if s.Card == nil {
			return nil, fmt.Errorf("creditcard secret for %q has no card data", s.Domain)
		}
		w.Number = s.Card.Number
		w.CVC = s.Card.CVC
		w.FullName = s.Card.FullName
		w.Year = s.Card.Year
		w.Month = s.Card.Month
	default:
		return nil, fmt.Errorf("unknown secret type %q", s.Type)
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes the flat wire shape and selects the variant by the
// type discriminant. Unknown discriminants are rejected here; field-level
// checks live in Validate.
func (s *Secret) UnmarshalJSON(data []byte) error {
	var w secretWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	s.Domain = w.Domain
	s.Type = w.Type
	s.Password = nil
	s.Card = nil
	switch w.Type {
	case PasswordSecret:
		s.Password = &PasswordData{Username: w.Username, Password: w.Password}
	case CreditCardSecret:
		s.Card = &CardData{Number: w.Number, CVC: w.CVC, FullName: w.FullName, Year: w.Year, Month: w.Month}
	default:
		return fmt.Errorf("unknown secret type %q", w.Type)
	}
	return nil
}

// Validate checks that the record matches its variant shape: all variant
// fields present, card number digits-only, month within 1-12.
func (s *Secret) Validate() error {
	if s.Domain == "" {
		return errors.New("domain is required")
	}
	switch s.Type {
	case PasswordSecret:
		if s.Password == nil || s.Password.Username == "" || s.Password.Password == "" {
			return errors.New("password secret requires username and password")
		}
	case CreditCardSecret:
		c := s.Card
		if c == nil || c.Number == "" || c.CVC == "" || c.FullName == "" {
			return errors.New("creditcard secret requires number, cvc and fullname")
		}
		for _, r := range c.Number {
			if r < '0' || r > '9' {
				return errors.New("card number must contain only digits")
			}
		}
		if c.Month < 1 || c.Month > 12 {
			return errors.New("card month must be between 1 and 12")
		}
		if c.Year <= 0 {
			return errors.New("card year must be positive")
		}
	default:
		return fmt.Errorf("unknown secret type %q", s.Type)
	}
	return nil
}

// Device associates a device identity with every IP address it has been
// observed from. IPAddrs is a set: duplicates are collapsed and entries are
// never removed.
type Device struct {
	// DeviceID is the registry key: the caller-declared id, or the source
	// IP when no id was declared.
	DeviceID string `json:"device_id"`
	// IPAddrs holds the accumulated addresses, order not significant.
	IPAddrs []string `json:"ip_addrs"`
}
