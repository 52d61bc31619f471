package forms

import (
	"context"

	"github.com/gasline/gasline-api/pkg/client"
)

// AgencyIdentity is step 0 of the agency wizard.
type AgencyIdentity struct {
	AgencyName string `validate:"required,min=2"`
	Email      string `validate:"required,email"`
}

// AgencyContact is step 1.
type AgencyContact struct {
	MobileNo string `validate:"required,min=10,max=15"`
}

// AgencyRegistration is step 2.
type AgencyRegistration struct {
	GSTNumber string `validate:"required,len=15"`
	Address   string `validate:"required"`
}

type agencySubmitter interface {
	ApplyAgency(ctx context.Context, req client.AgencyApplyRequest) (*client.Agency, error)
}

// AgencyForm is the agency onboarding wizard: identity, contact,
// registration, review. No documents are required; the application body
// is plain JSON.
type AgencyForm struct {
	wizard

	Identity     AgencyIdentity
	Contact      AgencyContact
	Registration AgencyRegistration

	result *client.Agency
	submit agencySubmitter
}

func NewAgencyForm(submit agencySubmitter) *AgencyForm {
	return &AgencyForm{submit: submit}
}

// Next validates the current step and advances on success.
func (f *AgencyForm) Next() error {
	switch f.step {
	case 0:
		return f.advance(f.Identity)
	case 1:
		return f.advance(f.Contact)
	case 2:
		return f.advance(f.Registration)
	default:
		return nil
	}
}

// Result returns the server echo after a successful submission.
func (f *AgencyForm) Result() *client.Agency {
	return f.result
}

// Submit files the application from the review step.
func (f *AgencyForm) Submit(ctx context.Context) (*client.Agency, error) {
	if err := f.checkSubmittable(); err != nil {
		return nil, err
	}

	f.state = StateSubmitting
	created, err := f.submit.ApplyAgency(ctx, client.AgencyApplyRequest{
		AgencyName: f.Identity.AgencyName,
		Email:      f.Identity.Email,
		MobileNo:   f.Contact.MobileNo,
		GSTNumber:  f.Registration.GSTNumber,
		Address:    f.Registration.Address,
	})
	if err != nil {
		f.state = StateEditing
		return nil, err
	}

	f.state = StateSucceeded
	f.result = created
	return created, nil
}
