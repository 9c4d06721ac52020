package report

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mgarrido/repograder/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []engine.Record {
	return []engine.Record{
		{Repo: "Course-Prefix-bob", Login: "bob", Group: "A", Status: "APROBADO", Reason: "OK"},
		{Repo: "", Login: "carol", Group: "B", Status: "REPROBADO", Reason: "REPO_NO_SUBIDO"},
		{Repo: "Course-Prefix-dave", Login: "dave", Group: "A", Status: "REPROBADO", Reason: "RESPUESTA_1_MUY_CORTA; RESPUESTA_3_TIPO_INCORRECTO"},
	}
}

func TestRenderCSV(t *testing.T) {
	data, err := RenderCSV(sampleRecords())
	require.NoError(t, err)

	want := "repo,login,grupo,estado,motivo\n" +
		"Course-Prefix-bob,bob,A,APROBADO,OK\n" +
		",carol,B,REPROBADO,REPO_NO_SUBIDO\n" +
		"Course-Prefix-dave,dave,A,REPROBADO,RESPUESTA_1_MUY_CORTA; RESPUESTA_3_TIPO_INCORRECTO\n"
	assert.Equal(t, want, string(data))
}

func TestRenderCSVEmptyRun(t *testing.T) {
	data, err := RenderCSV(nil)
	require.NoError(t, err)
	assert.Equal(t, "repo,login,grupo,estado,motivo\n", string(data))
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resumen_final.csv")

	require.NoError(t, WriteCSV(path, sampleRecords()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Course-Prefix-bob,bob,A,APROBADO,OK")
}

func TestRenderIssueBody(t *testing.T) {
	body, err := RenderIssueBody(engine.Record{
		Repo:   "Course-Prefix-bob",
		Status: "REPROBADO",
		Reason: "RESPUESTA_2_MUY_CORTA",
	})
	require.NoError(t, err)

	assert.Contains(t, body, "### Resultado Evaluación Oficial")
	assert.Contains(t, body, "Estado: **REPROBADO**")
	assert.Contains(t, body, "Motivo:\nRESPUESTA_2_MUY_CORTA")
	assert.Contains(t, body, "puede solicitar revisión")
}

// capturingHost records CreateIssue calls.
type capturingHost struct {
	org, repo, title, body string
	err                    error
}

func (c *capturingHost) ListRepos(ctx context.Context, org string) ([]string, error) {
	return nil, nil
}

func (c *capturingHost) Clone(ctx context.Context, org, repo, destDir string) error {
	return nil
}

func (c *capturingHost) CreateIssue(ctx context.Context, org, repo, title, body string) error {
	c.org, c.repo, c.title, c.body = org, repo, title, body
	return c.err
}

func TestIssueNotifier(t *testing.T) {
	host := &capturingHost{}
	n := &IssueNotifier{Host: host, Org: "some-org"}

	err := n.Notify(context.Background(), engine.Record{
		Repo:   "Course-Prefix-bob",
		Status: "APROBADO",
		Reason: "OK",
	})
	require.NoError(t, err)

	assert.Equal(t, "some-org", host.org)
	assert.Equal(t, "Course-Prefix-bob", host.repo)
	assert.Equal(t, IssueTitle, host.title)
	assert.Contains(t, host.body, "Estado: **APROBADO**")
}
