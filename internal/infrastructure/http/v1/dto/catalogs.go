package dto

import (
	"billing/internal/core/types"
	"billing/internal/domain/catalogs/activity"
	"billing/internal/domain/catalogs/client"
	"billing/internal/domain/catalogs/company"
	"billing/internal/domain/catalogs/salesarea"
	"billing/internal/domain/catalogs/status"
)

// --- Activity ---

// ActivityRequest creates or replaces an activity.
type ActivityRequest struct {
	Code        string       `json:"code" binding:"required,max=50"`
	Description string       `json:"description" binding:"required,max=255"`
	UnitPrice   *types.Money `json:"unitPrice" binding:"required"`
	Active      *bool        `json:"active"`
}

// ToActivity builds a new activity.
func (r ActivityRequest) ToActivity() *activity.Activity {
	a := activity.NewActivity(r.Code, r.Description, *r.UnitPrice)
	if r.Active != nil {
		a.Active = *r.Active
	}
	return a
}

// ApplyTo overwrites the editable fields of existing.
func (r ActivityRequest) ApplyTo(existing *activity.Activity) *activity.Activity {
	fresh := r.ToActivity()
	existing.Code = fresh.Code
	existing.Description = fresh.Description
	existing.UnitPrice = fresh.UnitPrice
	if r.Active != nil {
		existing.Active = *r.Active
	}
	return existing
}

// --- Client ---

// SignatoryDTO is one authorized signatory.
type SignatoryDTO struct {
	Name     string `json:"name" binding:"required,max=100"`
	IDNumber string `json:"idNumber" binding:"required,max=20"`
}

// ClientRequest creates or replaces a client.
type ClientRequest struct {
	Name           string  `json:"name" binding:"required,max=200"`
	ContractNumber string  `json:"contractNumber" binding:"required,max=50"`
	ContractDate   *string `json:"contractDate" binding:"omitempty,datetime=2006-01-02"`
	ContractExpiry *string `json:"contractExpiry" binding:"omitempty,datetime=2006-01-02"`

	ReeupCode     *string `json:"reeupCode" binding:"omitempty,max=20"`
	NitCode       *string `json:"nitCode" binding:"omitempty,max=20"`
	BankAccount   *string `json:"bankAccount" binding:"omitempty,max=50"`
	PostalAddress *string `json:"postalAddress" binding:"omitempty,max=255"`
	Email         *string `json:"email" binding:"omitempty,email"`
	Phones        *string `json:"phones" binding:"omitempty,max=100"`

	DirectorName *string `json:"directorName" binding:"omitempty,max=100"`
	DirectorID   *string `json:"directorId" binding:"omitempty,max=20"`
	EconomicName *string `json:"economicName" binding:"omitempty,max=100"`
	EconomicID   *string `json:"economicId" binding:"omitempty,max=20"`

	Signatories      []SignatoryDTO `json:"signatories" binding:"omitempty,max=3,dive"`
	ContractDocument *string        `json:"contractDocument" binding:"omitempty,max=255"`

	ExternalCode    *string `json:"externalCode" binding:"omitempty,max=50"`
	ExternalAccount *int    `json:"externalAccount" binding:"omitempty,gte=0"`

	Active *bool `json:"active"`
}

// ApplyTo copies the request onto c. A nil c starts a new client.
func (r ClientRequest) ApplyTo(c *client.Client) (*client.Client, error) {
	fresh := client.NewClient(r.Name, r.ContractNumber)
	if c == nil {
		c = fresh
	} else {
		c.Name = fresh.Name
		c.ContractNumber = fresh.ContractNumber
	}

	var err error
	if c.ContractDate, err = ParseDate("contractDate", r.ContractDate); err != nil {
		return nil, err
	}
	if c.ContractExpiry, err = ParseDate("contractExpiry", r.ContractExpiry); err != nil {
		return nil, err
	}

	c.ReeupCode = r.ReeupCode
	c.NitCode = r.NitCode
	c.BankAccount = r.BankAccount
	c.PostalAddress = r.PostalAddress
	c.Email = r.Email
	c.Phones = r.Phones
	c.DirectorName = r.DirectorName
	c.DirectorID = r.DirectorID
	c.EconomicName = r.EconomicName
	c.EconomicID = r.EconomicID
	c.ContractDocument = r.ContractDocument
	c.ExternalCode = r.ExternalCode
	c.ExternalAccount = r.ExternalAccount
	if r.Active != nil {
		c.Active = *r.Active
	}

	sigs := make([]client.Signatory, len(r.Signatories))
	for i, s := range r.Signatories {
		sigs[i] = client.Signatory{Name: s.Name, IDNumber: s.IDNumber}
	}
	if err := c.SetSignatories(sigs); err != nil {
		return nil, err
	}
	return c, nil
}

// ClientResponse adds the signatory list to the stored client.
type ClientResponse struct {
	*client.Client
	ContractDate   *string            `json:"contractDate,omitempty"`
	ContractExpiry *string            `json:"contractExpiry,omitempty"`
	Signatories    []client.Signatory `json:"signatories"`
}

// FromClient creates the response of c.
func FromClient(c *client.Client) ClientResponse {
	sigs := c.Signatories()
	if sigs == nil {
		sigs = []client.Signatory{}
	}
	return ClientResponse{
		Client:         c,
		ContractDate:   FormatDate(c.ContractDate),
		ContractExpiry: FormatDate(c.ContractExpiry),
		Signatories:    sigs,
	}
}

// --- Sales area ---

// SalesAreaRequest creates or replaces a sales area.
type SalesAreaRequest struct {
	Name       string  `json:"name" binding:"required,max=100"`
	CostCenter *string `json:"costCenter" binding:"omitempty,max=20"`
}

// ToSalesArea builds a new area.
func (r SalesAreaRequest) ToSalesArea() *salesarea.SalesArea {
	a := salesarea.NewSalesArea(r.Name)
	a.CostCenter = r.CostCenter
	return a
}

// ApplyTo overwrites the editable fields of existing.
func (r SalesAreaRequest) ApplyTo(existing *salesarea.SalesArea) *salesarea.SalesArea {
	existing.Name = r.ToSalesArea().Name
	existing.CostCenter = r.CostCenter
	return existing
}

// --- Status ---

// StatusRequest creates or renames a status.
type StatusRequest struct {
	Name string `json:"name" binding:"required,max=50"`
}

// ToStatus builds a new status.
func (r StatusRequest) ToStatus() *status.Status {
	return status.NewStatus(r.Name)
}

// ApplyTo renames existing.
func (r StatusRequest) ApplyTo(existing *status.Status) *status.Status {
	existing.Name = r.ToStatus().Name
	return existing
}

// --- Company ---

// CompanyRequest replaces the company profile.
type CompanyRequest struct {
	Name          string  `json:"name" binding:"required,max=200"`
	ReeupCode     *string `json:"reeupCode" binding:"omitempty,max=20"`
	NitCode       *string `json:"nitCode" binding:"omitempty,max=20"`
	BankAccount   *string `json:"bankAccount" binding:"omitempty,max=50"`
	AccountHolder *string `json:"accountHolder" binding:"omitempty,max=200"`
	PostalAddress *string `json:"postalAddress" binding:"omitempty,max=255"`
	Email         *string `json:"email" binding:"omitempty,email"`
	Phones        *string `json:"phones" binding:"omitempty,max=100"`
	WebPortal     *string `json:"webPortal" binding:"omitempty,max=255"`
	LogoRef       *string `json:"logoRef" binding:"omitempty,max=255"`
}

// ToCompany builds the profile to save.
func (r CompanyRequest) ToCompany() *company.Company {
	return &company.Company{
		Name:          r.Name,
		ReeupCode:     r.ReeupCode,
		NitCode:       r.NitCode,
		BankAccount:   r.BankAccount,
		AccountHolder: r.AccountHolder,
		PostalAddress: r.PostalAddress,
		Email:         r.Email,
		Phones:        r.Phones,
		WebPortal:     r.WebPortal,
		LogoRef:       r.LogoRef,
	}
}
