// Package client provides the Client catalog: contracted customers and their legal representatives.
package client

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"billing/internal/core/apperror"
	"billing/internal/core/entity"
)

var emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// MaxSignatories is the number of optional authorized signatories per client.
const MaxSignatories = 3

// Signatory is a person authorized to sign documents for the client.
type Signatory struct {
	Name     string `json:"name"`
	IDNumber string `json:"idNumber"`
}

// Client is a customer bound by a service contract.
type Client struct {
	entity.Catalog
	entity.Activatable

	Name           string     `db:"name" json:"name"`
	ContractNumber string     `db:"contract_number" json:"contractNumber"`
	ContractDate   *time.Time `db:"contract_date" json:"contractDate,omitempty"`

	ReeupCode     *string `db:"reeup_code" json:"reeupCode,omitempty"`
	NitCode       *string `db:"nit_code" json:"nitCode,omitempty"`
	BankAccount   *string `db:"bank_account" json:"bankAccount,omitempty"`
	PostalAddress *string `db:"postal_address" json:"postalAddress,omitempty"`
	Email         *string `db:"email" json:"email,omitempty"`
	Phones        *string `db:"phones" json:"phones,omitempty"`

	DirectorName *string `db:"director_name" json:"directorName,omitempty"`
	DirectorID   *string `db:"director_id" json:"directorId,omitempty"`
	EconomicName *string `db:"economic_name" json:"economicName,omitempty"`
	EconomicID   *string `db:"economic_id" json:"economicId,omitempty"`

	// Signatories are stored as three fixed column pairs
	Signatory1Name *string `db:"signatory1_name" json:"-"`
	Signatory1ID   *string `db:"signatory1_id" json:"-"`
	Signatory2Name *string `db:"signatory2_name" json:"-"`
	Signatory2ID   *string `db:"signatory2_id" json:"-"`
	Signatory3Name *string `db:"signatory3_name" json:"-"`
	Signatory3ID   *string `db:"signatory3_id" json:"-"`

	ContractExpiry   *time.Time `db:"contract_expiry" json:"contractExpiry,omitempty"`
	ContractDocument *string    `db:"contract_document" json:"contractDocument,omitempty"`

	// External accounting system references, used by the .obl export
	ExternalCode    *string `db:"external_code" json:"externalCode,omitempty"`
	ExternalAccount *int    `db:"external_account" json:"externalAccount,omitempty"`
}

// NewClient creates a new active Client.
func NewClient(name, contractNumber string) *Client {
	return &Client{
		Catalog:        entity.NewCatalog(),
		Activatable:    entity.Activatable{Active: true},
		Name:           strings.TrimSpace(name),
		ContractNumber: strings.TrimSpace(contractNumber),
	}
}

// Signatories returns the filled signatory slots in order.
func (c *Client) Signatories() []Signatory {
	pairs := [MaxSignatories][2]*string{
		{c.Signatory1Name, c.Signatory1ID},
		{c.Signatory2Name, c.Signatory2ID},
		{c.Signatory3Name, c.Signatory3ID},
	}
	var out []Signatory
	for _, p := range pairs {
		if deref(p[0]) == "" && deref(p[1]) == "" {
			continue
		}
		out = append(out, Signatory{Name: deref(p[0]), IDNumber: deref(p[1])})
	}
	return out
}

// SetSignatories fills the signatory slots. Extra entries are rejected.
func (c *Client) SetSignatories(list []Signatory) error {
	if len(list) > MaxSignatories {
		return apperror.NewValidation("too many signatories").
			WithDetail("field", "signatories").
			WithDetail("max", MaxSignatories)
	}
	slots := [MaxSignatories][2]**string{
		{&c.Signatory1Name, &c.Signatory1ID},
		{&c.Signatory2Name, &c.Signatory2ID},
		{&c.Signatory3Name, &c.Signatory3ID},
	}
	for i, slot := range slots {
		*slot[0], *slot[1] = nil, nil
		if i < len(list) {
			*slot[0] = ptr(list[i].Name)
			*slot[1] = ptr(list[i].IDNumber)
		}
	}
	return nil
}

// ExternalCodeValue returns the accounting client code or "".
func (c *Client) ExternalCodeValue() string {
	return deref(c.ExternalCode)
}

// ExternalAccountValue returns the accounting account number or "".
func (c *Client) ExternalAccountValue() string {
	if c.ExternalAccount == nil {
		return ""
	}
	return strconv.Itoa(*c.ExternalAccount)
}

// Validate implements entity.Validatable interface.
func (c *Client) Validate(ctx context.Context) error {
	if c.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if c.ContractNumber == "" {
		return apperror.NewValidation("contract number is required").
			WithDetail("field", "contractNumber")
	}
	if e := deref(c.Email); e != "" && !emailRE.MatchString(e) {
		return apperror.NewValidation("invalid email format").
			WithDetail("field", "email")
	}
	if c.ContractDate != nil && c.ContractExpiry != nil && c.ContractExpiry.Before(*c.ContractDate) {
		return apperror.NewValidation("contract expiry precedes contract date").
			WithDetail("field", "contractExpiry")
	}
	for i, s := range c.Signatories() {
		if s.Name == "" || s.IDNumber == "" {
			return apperror.NewValidation("signatory needs both name and id number").
				WithDetail("field", "signatories").
				WithDetail("index", i)
		}
	}
	if c.ExternalAccount != nil && *c.ExternalAccount < 0 {
		return apperror.NewValidation("external account must be positive").
			WithDetail("field", "externalAccount")
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func ptr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
