package forms

import (
	"context"

	"github.com/gasline/gasline-api/pkg/client"
)

// RequiredDeliveryStaffDocuments are the uploads a delivery staff
// application cannot be submitted without.
var RequiredDeliveryStaffDocuments = []string{
	"AadharDocument",
	"StaffPhoto",
	"Signature",
}

// StaffIdentity is step 0 of the delivery staff wizard.
type StaffIdentity struct {
	StaffName    string `validate:"required,min=2"`
	Email        string `validate:"required,email"`
	MobileNo     string `validate:"required,min=10,max=15"`
	StaffAddress string `validate:"required"`
}

// StaffCredentials is step 1.
type StaffCredentials struct {
	AadharNumber string `validate:"required,numeric,len=12"`
	Salary       uint64 `validate:"required,gt=0"`
}

// StaffAssignment is step 2.
type StaffAssignment struct {
	AgencyID     string   `validate:"required,uuid4"`
	AssignedArea []string `validate:"required,min=1,dive,required"`
}

type staffSubmitter interface {
	ApplyDeliveryStaff(ctx context.Context, req client.DeliveryStaffApplyRequest) (*client.DeliveryStaff, error)
}

// DeliveryStaffForm is the four-step delivery staff wizard: identity,
// credentials, assignment, documents.
type DeliveryStaffForm struct {
	wizard

	Identity    StaffIdentity
	Credentials StaffCredentials
	Assignment  StaffAssignment

	documents map[string]client.Upload
	result    *client.DeliveryStaff

	submit staffSubmitter
}

func NewDeliveryStaffForm(submit staffSubmitter) *DeliveryStaffForm {
	return &DeliveryStaffForm{
		documents: make(map[string]client.Upload),
		submit:    submit,
	}
}

// Next validates the current step and advances on success.
func (f *DeliveryStaffForm) Next() error {
	switch f.step {
	case 0:
		return f.advance(f.Identity)
	case 1:
		return f.advance(f.Credentials)
	case 2:
		return f.advance(f.Assignment)
	default:
		return nil
	}
}

// AttachDocument stores an upload under its required field name.
func (f *DeliveryStaffForm) AttachDocument(field string, upload client.Upload) {
	f.documents[field] = upload
}

// MissingDocuments lists every required document not yet attached.
func (f *DeliveryStaffForm) MissingDocuments() []string {
	attached := make(map[string]bool, len(f.documents))
	for field := range f.documents {
		attached[field] = true
	}
	return missingFrom(RequiredDeliveryStaffDocuments, attached)
}

// Result returns the server echo after a successful submission.
func (f *DeliveryStaffForm) Result() *client.DeliveryStaff {
	return f.result
}

// Submit files the application. All mandatory documents must be
// attached; otherwise one aggregated error names every missing one and
// nothing is sent.
func (f *DeliveryStaffForm) Submit(ctx context.Context) (*client.DeliveryStaff, error) {
	if err := f.checkSubmittable(); err != nil {
		return nil, err
	}
	if missing := f.MissingDocuments(); len(missing) > 0 {
		return nil, &MissingDocumentsError{Missing: missing}
	}

	f.state = StateSubmitting
	created, err := f.submit.ApplyDeliveryStaff(ctx, client.DeliveryStaffApplyRequest{
		StaffName:    f.Identity.StaffName,
		Email:        f.Identity.Email,
		MobileNo:     f.Identity.MobileNo,
		StaffAddress: f.Identity.StaffAddress,
		AadharNumber: f.Credentials.AadharNumber,
		Salary:       f.Credentials.Salary,
		AssignedArea: f.Assignment.AssignedArea,
		AgencyID:     f.Assignment.AgencyID,
		Documents:    f.documents,
	})
	if err != nil {
		f.state = StateEditing
		return nil, err
	}

	f.state = StateSucceeded
	f.result = created
	return created, nil
}
