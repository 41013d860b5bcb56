package service

import (
	"slices"

	"github.com/orgdesk/directory-api/internal/domain"
	"github.com/orgdesk/directory-api/internal/mapper"
	"github.com/orgdesk/directory-api/internal/repository"
	"go.uber.org/zap"
)

type (
	ContactService    = DirectoryService[domain.Contact, domain.ContactView]
	CustomerService   = DirectoryService[domain.Customer, domain.CustomerView]
	VendorService     = DirectoryService[domain.Vendor, domain.VendorView]
	ContractorService = DirectoryService[domain.Contractor, domain.ContractorView]
)

// NewContactService creates a new contact service instance
func NewContactService(repo *repository.ContactRepository, logger *zap.Logger) *ContactService {
	return &ContactService{
		entity: domain.EntityContacts,
		repo:   repo,
		toView: mapper.ToContactView,
		copyOf: func(c domain.Contact) domain.Contact {
			c.BaseModel = resetBase(c.BaseModel)
			c.FirstName = withCopySuffix(c.FirstName)
			return c
		},
		schema: ContactSchema(),
		logger: logger,
	}
}

// NewCustomerService creates a new customer service instance
func NewCustomerService(repo *repository.CustomerRepository, logger *zap.Logger) *CustomerService {
	return &CustomerService{
		entity: domain.EntityCustomers,
		repo:   repo,
		toView: mapper.ToCustomerView,
		copyOf: func(c domain.Customer) domain.Customer {
			c.BaseModel = resetBase(c.BaseModel)
			c.CompanyName = withCopySuffix(c.CompanyName)
			return c
		},
		schema: CustomerSchema(),
		logger: logger,
	}
}

// NewVendorService creates a new vendor service instance
func NewVendorService(repo *repository.VendorRepository, logger *zap.Logger) *VendorService {
	return &VendorService{
		entity: domain.EntityVendors,
		repo:   repo,
		toView: mapper.ToVendorView,
		copyOf: func(v domain.Vendor) domain.Vendor {
			v.BaseModel = resetBase(v.BaseModel)
			v.VendorName = withCopySuffix(v.VendorName)
			return v
		},
		schema: VendorSchema(),
		logger: logger,
	}
}

// NewContractorService creates a new contractor service instance
func NewContractorService(repo *repository.ContractorRepository, logger *zap.Logger) *ContractorService {
	return &ContractorService{
		entity: domain.EntityContractors,
		repo:   repo,
		toView: mapper.ToContractorView,
		copyOf: func(c domain.Contractor) domain.Contractor {
			c.BaseModel = resetBase(c.BaseModel)
			c.Name = withCopySuffix(c.Name)
			c.LicensesApplied = slices.Clone(c.LicensesApplied)
			return c
		},
		schema: ContractorSchema(),
		logger: logger,
	}
}
