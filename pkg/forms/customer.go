package forms

import (
	"context"

	"github.com/gasline/gasline-api/pkg/client"
)

// RequiredCustomerDocuments are the uploads a customer application
// cannot be submitted without.
var RequiredCustomerDocuments = []string{
	"AadharDocument",
	"AddressProofDocument",
	"BankDocument",
	"ProfilePic",
	"Signature",
}

// CustomerPersonal is step 0 of the customer wizard.
type CustomerPersonal struct {
	CustomerName string `validate:"required,min=2"`
	Email        string `validate:"required,email"`
	MobileNo     string `validate:"required,min=10,max=15"`
	Address      string `validate:"required"`
}

// CustomerAgencyChoice is step 1.
type CustomerAgencyChoice struct {
	AgencyID string `validate:"required,uuid4"`
}

// CustomerBank is step 2.
type CustomerBank struct {
	AccountHolder string `validate:"required"`
	AccountNumber string `validate:"required,numeric"`
	IFSC          string `validate:"required,alphanum,len=11"`
	BankName      string `validate:"required"`
}

// submitter is the network dependency of a wizard, satisfied by
// *store.Store and by test doubles.
type customerSubmitter interface {
	ApplyCustomer(ctx context.Context, req client.CustomerApplyRequest) (*client.Customer, error)
}

// CustomerForm is the four-step customer connection wizard:
// personal details, agency choice, bank details, documents.
type CustomerForm struct {
	wizard

	Personal CustomerPersonal
	Agency   CustomerAgencyChoice
	Bank     CustomerBank

	documents map[string]client.Upload
	result    *client.Customer

	submit customerSubmitter
}

// NewCustomerForm creates a wizard that submits through the given
// backend.
func NewCustomerForm(submit customerSubmitter) *CustomerForm {
	return &CustomerForm{
		documents: make(map[string]client.Upload),
		submit:    submit,
	}
}

// Next validates the current step and advances on success.
func (f *CustomerForm) Next() error {
	switch f.step {
	case 0:
		return f.advance(f.Personal)
	case 1:
		return f.advance(f.Agency)
	case 2:
		return f.advance(f.Bank)
	default:
		return nil
	}
}

// AttachDocument stores an upload under its required field name.
func (f *CustomerForm) AttachDocument(field string, upload client.Upload) {
	f.documents[field] = upload
}

// MissingDocuments lists every required document not yet attached.
func (f *CustomerForm) MissingDocuments() []string {
	attached := make(map[string]bool, len(f.documents))
	for field := range f.documents {
		attached[field] = true
	}
	return missingFrom(RequiredCustomerDocuments, attached)
}

// Result returns the server echo after a successful submission.
func (f *CustomerForm) Result() *client.Customer {
	return f.result
}

// Submit files the application. All mandatory documents must be
// attached; otherwise one aggregated error names every missing one and
// nothing is sent.
func (f *CustomerForm) Submit(ctx context.Context) (*client.Customer, error) {
	if err := f.checkSubmittable(); err != nil {
		return nil, err
	}
	if missing := f.MissingDocuments(); len(missing) > 0 {
		return nil, &MissingDocumentsError{Missing: missing}
	}

	f.state = StateSubmitting
	created, err := f.submit.ApplyCustomer(ctx, client.CustomerApplyRequest{
		CustomerName:  f.Personal.CustomerName,
		Email:         f.Personal.Email,
		MobileNo:      f.Personal.MobileNo,
		Address:       f.Personal.Address,
		AgencyID:      f.Agency.AgencyID,
		AccountHolder: f.Bank.AccountHolder,
		AccountNumber: f.Bank.AccountNumber,
		IFSC:          f.Bank.IFSC,
		BankName:      f.Bank.BankName,
		Documents:     f.documents,
	})
	if err != nil {
		f.state = StateEditing
		return nil, err
	}

	f.state = StateSucceeded
	f.result = created
	return created, nil
}
