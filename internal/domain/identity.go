package domain

import "strings"

// Address mirrors the remote customer address shape.
type Address struct {
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string
}

// ContactDetails is a billing or shipping contact block.
type ContactDetails struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Address   Address
}

// FullName joins first and last name, trimming when either is missing.
func (c ContactDetails) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Identity is a local user or guest. UserID 0 means guest.
type Identity struct {
	UserID   int64
	Username string
	Email    string
	Locale   string
	Billing  ContactDetails
	Shipping ContactDetails
}

func (i Identity) IsGuest() bool {
	return i.UserID == 0
}
