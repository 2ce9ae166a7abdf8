package cmd

import (
	"context"
	"time"

	"proptax-robot/lib/address"
	"proptax-robot/lib/agent"
	"proptax-robot/services/harvester"
	"proptax-robot/services/inquiry"
)

// adapters from the automation agent's api to the collaborator
// interfaces of the services

type archiveBridge struct {
	agent *agent.Client
}

func (b archiveBridge) Search(ctx context.Context, since time.Time) ([]harvester.Document, error) {
	docs, err := b.agent.Documents(ctx, since)
	if err != nil {
		return nil, err
	}
	out := make([]harvester.Document, len(docs))
	for i, doc := range docs {
		out[i] = harvester.Document{
			Type:       doc.Type,
			ReportDate: doc.ReportDate,
			TaxYear:    doc.TaxYear,
		}
	}
	return out, nil
}

func (b archiveBridge) FetchTable(ctx context.Context, doc harvester.Document) (string, error) {
	return b.agent.DocumentTable(ctx, agent.Document{
		Type:       doc.Type,
		ReportDate: doc.ReportDate,
		TaxYear:    doc.TaxYear,
	})
}

type registerBridge struct {
	agent *agent.Client
}

func (b registerBridge) FindProperties(ctx context.Context, addr address.Address) ([]inquiry.Property, error) {
	properties, err := b.agent.Properties(ctx, addr)
	if err != nil {
		return nil, err
	}
	out := make([]inquiry.Property, len(properties))
	for i, p := range properties {
		out[i] = inquiry.Property{
			PropertyNumber: p.PropertyNumber,
			Location:       p.Location,
		}
	}
	return out, nil
}

func (b registerBridge) Owners(ctx context.Context, propertyNumber string) ([]inquiry.Owner, error) {
	owners, err := b.agent.Owners(ctx, propertyNumber)
	if err != nil {
		return nil, err
	}
	out := make([]inquiry.Owner, len(owners))
	for i, o := range owners {
		out[i] = inquiry.Owner{Cpr: o.Cpr, Name: o.Name}
	}
	return out, nil
}

func (b registerBridge) FrozenDebt(ctx context.Context, propertyNumber string, ownerCprs []string) ([]inquiry.FrozenDebt, error) {
	rows, err := b.agent.FrozenDebt(ctx, propertyNumber, ownerCprs)
	if err != nil {
		return nil, err
	}
	out := make([]inquiry.FrozenDebt, len(rows))
	for i, row := range rows {
		out[i] = inquiry.FrozenDebt{
			Cpr:    row.Cpr,
			Name:   row.Name,
			Date:   row.Date,
			Amount: row.Amount,
			Status: row.Status,
		}
	}
	return out, nil
}

type ledgerBridge struct {
	agent *agent.Client
}

func (b ledgerBridge) PropertyDebt(ctx context.Context, cpr, name, propertyNumber string) (inquiry.MissingPaymentPerson, error) {
	cases, err := b.agent.PropertyDebt(ctx, cpr, propertyNumber)
	if err != nil {
		return inquiry.MissingPaymentPerson{}, err
	}

	person := inquiry.MissingPaymentPerson{Name: name, Cpr: cpr}
	for _, c := range cases {
		merged := inquiry.MissingPaymentCase{Title: c.Title}
		for _, entry := range c.Entries {
			amount, err := inquiry.ParseAmount(entry.Amount)
			if err != nil {
				return inquiry.MissingPaymentPerson{}, err
			}
			merged.AppendEntry(inquiry.MissingPaymentEntry{
				Title:  entry.Title,
				Status: entry.Status,
				Amount: amount,
			})
		}
		person.Cases = append(person.Cases, merged)
	}
	return person, nil
}
