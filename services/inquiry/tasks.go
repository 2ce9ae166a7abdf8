package inquiry

import (
	"fmt"
	"log/slog"
	"proptax-robot/lib/graphmail"
	"proptax-robot/lib/htmlutil"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// only mails produced by the self-service form are work orders,
// everything else in the folder is left alone
const taskSender = "noreply@aarhus.dk"
const taskSubject = "Forespørgsler til Ejendomsbeskatning (fra Selvbetjening.aarhuskommune.dk)"

type Task struct {
	Address     string
	SearchWords []string
	MessageId   string
}

// ParseTasks turns self-service emails into tasks. Messages from
// other senders are ignored, matching messages with a body the parser
// doesn't understand are skipped with a warning so one malformed
// submission can't wedge the whole inbox.
func ParseTasks(messages []graphmail.Message) []Task {
	var tasks []Task
	for _, m := range messages {
		if m.Sender != taskSender || m.Subject != taskSubject {
			continue
		}

		task, err := parseTaskBody(m.Body)
		if err != nil {
			slog.Warn("skipping unparsable task mail", "message_id", m.Id, "err", err)
			continue
		}
		task.MessageId = m.Id
		tasks = append(tasks, task)
	}
	return tasks
}

// the form body is a sequence of <p> blocks, each with a label line
// followed by the submitted value: address in the second block, the
// two owner name fields in the fourth and fifth
func parseTaskBody(body string) (Task, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return Task{}, err
	}

	blocks := doc.Find("p")
	if blocks.Length() < 5 {
		return Task{}, fmt.Errorf("expected at least 5 paragraph blocks, got %d", blocks.Length())
	}

	addr := blockValue(blocks, 1)
	if addr == "" {
		return Task{}, fmt.Errorf("no address in task mail")
	}

	searchWords := strings.Fields(blockValue(blocks, 3))
	searchWords = append(searchWords, strings.Fields(blockValue(blocks, 4))...)

	return Task{
		Address:     addr,
		SearchWords: searchWords,
	}, nil
}

func blockValue(blocks *goquery.Selection, index int) string {
	lines := htmlutil.Lines(blocks.Get(index))
	if len(lines) < 2 {
		return ""
	}
	return lines[1]
}
