package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mgarrido/repograder/internal/config"
)

const testRosterCSV = `NOMBRE;RUN;GRUPO;USUARIO GITHUB
Alice Andersson;11111111-1;A;alice
Bob Brown;22222222-2;B;Bob
`

const testAnswerKeyJSON = `{
  "A": [
    {"tipo": "clave-valor", "keywords": ["redis"]},
    {"tipo": "documental", "keywords": ["mongo"]},
    {"tipo": "grafo", "keywords": ["neo4j"]}
  ],
  "B": [
    {"tipo": "columnar", "keywords": ["cassandra"]},
    {"tipo": "documental", "keywords": ["couch"]},
    {"tipo": "clave-valor", "keywords": ["dynamo"]}
  ]
}`

// writeTempFile writes content into a fresh temp dir and returns the path.
func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadRosterFromFile(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.RosterFile = writeTempFile(t, "roster.csv", testRosterCSV)

	r, skipped, err := loadRoster(cfg, nil)
	if err != nil {
		t.Fatalf("loadRoster() error = %v", err)
	}
	if r.Len() != 2 {
		t.Errorf("Expected 2 students, got %d", r.Len())
	}
	if len(skipped) != 0 {
		t.Errorf("Expected no skipped records, got %d", len(skipped))
	}
	if _, ok := r.Lookup("bob"); !ok {
		t.Error("Expected lowercased login bob in roster")
	}
}

func TestLoadRosterFromEnv(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.RosterFile = ""
	t.Setenv(rosterEnvVar, testRosterCSV)

	r, _, err := loadRoster(cfg, nil)
	if err != nil {
		t.Fatalf("loadRoster() error = %v", err)
	}
	if r.Len() != 2 {
		t.Errorf("Expected 2 students, got %d", r.Len())
	}
}

func TestLoadRosterNoSource(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.RosterFile = ""
	t.Setenv(rosterEnvVar, "")

	_, _, err := loadRoster(cfg, nil)
	if err == nil {
		t.Fatal("Expected error when no roster source is configured")
	}
	if !strings.Contains(err.Error(), rosterEnvVar) {
		t.Errorf("Error should name the env var fallback, got: %v", err)
	}
}

func TestLoadRosterMissingFile(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.RosterFile = filepath.Join(t.TempDir(), "missing.csv")

	_, _, err := loadRoster(cfg, nil)
	if err == nil {
		t.Fatal("Expected error for missing roster file")
	}
}

func TestLoadAnswerKeyFromFile(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.AnswerKeyFile = writeTempFile(t, "key.json", testAnswerKeyJSON)

	key, err := loadAnswerKey(cfg)
	if err != nil {
		t.Fatalf("loadAnswerKey() error = %v", err)
	}
	if got := len(key.Groups()); got != 2 {
		t.Errorf("Expected 2 groups, got %d", got)
	}
}

func TestLoadAnswerKeyFromEnv(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.AnswerKeyFile = ""
	t.Setenv(answerKeyEnvVar, testAnswerKeyJSON)

	key, err := loadAnswerKey(cfg)
	if err != nil {
		t.Fatalf("loadAnswerKey() error = %v", err)
	}
	if _, ok := key.Lookup("a"); !ok {
		t.Error("Expected case-insensitive lookup of group A")
	}
}

func TestLoadAnswerKeyNoSource(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.AnswerKeyFile = ""
	t.Setenv(answerKeyEnvVar, "")

	_, err := loadAnswerKey(cfg)
	if err == nil {
		t.Fatal("Expected error when no answer key source is configured")
	}
}

func TestNewExtractorDefault(t *testing.T) {
	cfg := config.DefaultConfig()

	e, err := newExtractor(cfg)
	if err != nil {
		t.Fatalf("newExtractor() error = %v", err)
	}
	if got := e.Extract("Course-NoSQL-alice"); got != "alice" {
		t.Errorf("Extract() = %q, want %q", got, "alice")
	}
}

func TestNewExtractorPattern(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.IdentifierPattern = `^proyecto_(\w+)$`

	e, err := newExtractor(cfg)
	if err != nil {
		t.Fatalf("newExtractor() error = %v", err)
	}
	if got := e.Extract("proyecto_carol"); got != "carol" {
		t.Errorf("Extract() = %q, want %q", got, "carol")
	}
}

func TestNewExtractorInvalidPattern(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.IdentifierPattern = `([unclosed`

	if _, err := newExtractor(cfg); err == nil {
		t.Fatal("Expected error for invalid identifier pattern")
	}
}
