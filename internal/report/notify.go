package report

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"github.com/mgarrido/repograder/internal/engine"
	"github.com/mgarrido/repograder/internal/hosting"
)

// IssueTitle is the fixed title of every result notification.
const IssueTitle = "Resultado Evaluación Oficial"

// issueBody is the notification body. Estado is bolded; Motivo may be a
// single code or a "; "-joined list of slot-level codes.
var issueBody = template.Must(template.New("issue").Parse(`
### Resultado Evaluación Oficial

Estado: **{{.Status}}**

Motivo:
{{.Reason}}

Si considera que existe un error, puede solicitar revisión.
`))

// RenderIssueBody builds the notification body for one record.
func RenderIssueBody(record engine.Record) (string, error) {
	var buf bytes.Buffer
	if err := issueBody.Execute(&buf, record); err != nil {
		return "", fmt.Errorf("failed to render issue body: %w", err)
	}
	return buf.String(), nil
}

// IssueNotifier posts one result issue per evaluated repository through
// the hosting service. It implements engine.Notifier.
type IssueNotifier struct {
	Host hosting.Service
	Org  string
}

// Notify opens the result issue on the record's repository.
func (n *IssueNotifier) Notify(ctx context.Context, record engine.Record) error {
	body, err := RenderIssueBody(record)
	if err != nil {
		return err
	}
	return n.Host.CreateIssue(ctx, n.Org, record.Repo, IssueTitle, body)
}
