package inquiry

import (
	"context"
	"fmt"
	"log/slog"
	"proptax-robot/lib/address"
	"proptax-robot/lib/getorganized"
	"proptax-robot/lib/reportstore"
	"proptax-robot/lib/timezone"

	"github.com/mazen160/go-random"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/inquiry")

type Config struct {
	Mailbox    string   `json:"mailbox"`
	TaskFolder string   `json:"task_folder"`
	Receivers  []string `json:"receivers"`
}

// Service answers citizen inquiries about property tax. It reads task
// mails from a shared mailbox, collects property, owner and debt
// information, mails a reply to the tax office and files a copy of it
// on the property's case.
type Service struct {
	store    reportstore.Store
	register PropertyRegister
	ledger   DebtLedger
	mailbox  Mailbox
	cases    CaseFiler
	mailer   Mailer
	config   Config
}

func NewService(
	store reportstore.Store,
	register PropertyRegister,
	ledger DebtLedger,
	mailbox Mailbox,
	cases CaseFiler,
	mailer Mailer,
	config Config,
) Service {
	return Service{
		store:    store,
		register: register,
		ledger:   ledger,
		mailbox:  mailbox,
		cases:    cases,
		mailer:   mailer,
		config:   config,
	}
}

// Run handles every task currently in the task folder. Task mails are
// only deleted after their reply has been sent and filed, so a crash
// mid-run leaves the unhandled tasks in place for the next run.
func (s Service) Run(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	messages, err := s.mailbox.Messages(ctx, s.config.Mailbox, s.config.TaskFolder)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch task mails")
		return err
	}

	tasks := ParseTasks(messages)
	slog.InfoContext(ctx, "handling inquiry tasks", "count", len(tasks))

	for _, task := range tasks {
		err := s.handleTask(ctx, task)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to handle task")
			return fmt.Errorf("task %s: %w", task.MessageId, err)
		}
		err = s.mailbox.Delete(ctx, s.config.Mailbox, task.MessageId)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to delete task mail")
			return err
		}
	}
	return nil
}

func (s Service) handleTask(ctx context.Context, task Task) error {
	ctx, span := tracer.Start(ctx, "handleTask")
	defer span.End()

	span.SetAttributes(attribute.String("address", task.Address))

	addr, err := address.Deconstruct(task.Address)
	if err != nil {
		return err
	}

	properties, err := s.register.FindProperties(ctx, addr)
	if err != nil {
		return err
	}

	handled := 0
	for _, property := range properties {
		if !addr.Matches(property.Location) {
			continue
		}
		err := s.handleProperty(ctx, task, property)
		if err != nil {
			return fmt.Errorf("property %s: %w", property.PropertyNumber, err)
		}
		handled++
	}

	if handled == 0 {
		slog.WarnContext(ctx, "no property matched inquiry address", "address", task.Address)
	}
	return nil
}

func (s Service) handleProperty(ctx context.Context, task Task, property Property) error {
	ctx, span := tracer.Start(ctx, "handleProperty")
	defer span.End()

	span.SetAttributes(attribute.String("property_number", property.PropertyNumber))

	owners, err := s.register.Owners(ctx, property.PropertyNumber)
	if err != nil {
		return err
	}
	matched := MatchOwners(owners, task.SearchWords)

	cprs := make([]string, len(matched))
	for i, owner := range matched {
		cprs[i] = owner.Cpr
	}

	frozen, err := s.register.FrozenDebt(ctx, property.PropertyNumber, cprs)
	if err != nil {
		return err
	}

	var payments []MissingPaymentPerson
	for _, owner := range matched {
		person, err := s.ledger.PropertyDebt(ctx, owner.Cpr, owner.Name, property.PropertyNumber)
		if err != nil {
			return err
		}
		if len(person.Cases) > 0 {
			payments = append(payments, person)
		}
	}

	adjustments, err := s.store.Lookup(ctx, property.PropertyNumber)
	if err != nil {
		return err
	}

	body, err := FormatReply(Reply{
		Location:       property.Location,
		PropertyNumber: property.PropertyNumber,
		Owners:         matched,
		FrozenDebt:     frozen,
		Payments:       payments,
		Adjustments:    adjustments,
	})
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Svar på forespørgsel vedr. ejd. %s", property.PropertyNumber)
	err = s.mailer.Send(ctx, s.config.Receivers, subject, body)
	if err != nil {
		return err
	}

	return s.fileReply(ctx, property, subject, body)
}

// fileReply stores the sent mail on the property's GetOrganized case,
// creating the case when it doesn't exist yet.
func (s Service) fileReply(ctx context.Context, property Property, title, body string) error {
	ctx, span := tracer.Start(ctx, "fileReply")
	defer span.End()

	caseTitle := fmt.Sprintf("Ejendomsbeskatning, ejd. %s", property.PropertyNumber)

	caseId, err := s.cases.FindCase(ctx, caseTitle)
	if err != nil {
		return err
	}
	if caseId == "" {
		caseId, err = s.cases.CreateCase(ctx, caseTitle)
		if err != nil {
			return err
		}
		slog.InfoContext(ctx, "created case", "case_id", caseId, "title", caseTitle)
	}

	// the case may already hold a reply from an earlier inquiry and
	// the API refuses duplicate filenames
	nonce, err := random.String(8)
	if err != nil {
		return err
	}

	return s.cases.UploadDocument(ctx, getorganized.UploadDocumentParams{
		CaseId:     caseId,
		Filename:   fmt.Sprintf("Svar_på_forespørgsel_%s.html", nonce),
		File:       []byte(body),
		DateString: timezone.Now().Format("2006-01-02"),
		Category:   "Svar på henvendelse",
	})
}
