package inquiry

import (
	"context"
	"proptax-robot/lib/address"
	"proptax-robot/lib/getorganized"
	"proptax-robot/lib/graphmail"
)

type Property struct {
	PropertyNumber string
	Location       string
}

type Owner struct {
	Cpr  string
	Name string
}

type FrozenDebt struct {
	Cpr    string
	Name   string
	Date   string
	Amount string
	Status string
}

// PropertyRegister is the property register client. The production
// implementation drives the register's desktop application, tests use
// a fake.
type PropertyRegister interface {
	FindProperties(ctx context.Context, addr address.Address) ([]Property, error)
	Owners(ctx context.Context, propertyNumber string) ([]Owner, error)
	FrozenDebt(ctx context.Context, propertyNumber string, ownerCprs []string) ([]FrozenDebt, error)
}

// DebtLedger answers what a person still owes on a property, backed
// by the accounting system.
type DebtLedger interface {
	PropertyDebt(ctx context.Context, cpr, name, propertyNumber string) (MissingPaymentPerson, error)
}

type Mailbox interface {
	Messages(ctx context.Context, mailbox, folderPath string) ([]graphmail.Message, error)
	Delete(ctx context.Context, mailbox, messageId string) error
}

type CaseFiler interface {
	FindCase(ctx context.Context, title string) (string, error)
	CreateCase(ctx context.Context, title string) (string, error)
	UploadDocument(ctx context.Context, params getorganized.UploadDocumentParams) error
}

type Mailer interface {
	Send(ctx context.Context, to []string, subject, htmlBody string) error
}
