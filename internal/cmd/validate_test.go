package cmd

import (
	"strings"
	"testing"
)

func TestValidateCommandValidInputs(t *testing.T) {
	rosterPath := writeTempFile(t, "roster.csv", testRosterCSV)
	keyPath := writeTempFile(t, "key.json", testAnswerKeyJSON)

	output, err := executeCommand(t, []string{
		"validate",
		"--config", missingConfigPath(t),
		"--org", "course-org",
		"--roster", rosterPath,
		"--answer-key", keyPath,
	})
	if err != nil {
		t.Fatalf("validate error = %v\noutput:\n%s", err, output)
	}

	if !strings.Contains(output, "Roster: 2 students loaded") {
		t.Errorf("Output should report the roster size, got:\n%s", output)
	}
	if !strings.Contains(output, "Answer key: 2 groups") {
		t.Errorf("Output should report the answer key groups, got:\n%s", output)
	}
	if !strings.Contains(output, "All inputs are valid") {
		t.Errorf("Output should report success, got:\n%s", output)
	}
}

func TestValidateCommandSkippedRecords(t *testing.T) {
	roster := testRosterCSV + "Carol Chen;33333333-3;;carol\n"
	rosterPath := writeTempFile(t, "roster.csv", roster)
	keyPath := writeTempFile(t, "key.json", testAnswerKeyJSON)

	output, err := executeCommand(t, []string{
		"validate",
		"--config", missingConfigPath(t),
		"--org", "course-org",
		"--roster", rosterPath,
		"--answer-key", keyPath,
	})
	if err == nil {
		t.Fatal("Expected validation failure for skipped roster records")
	}
	if !strings.Contains(output, "Roster: 1 records skipped") {
		t.Errorf("Output should report the skipped record, got:\n%s", output)
	}
}

func TestValidateCommandGroupWithoutKey(t *testing.T) {
	roster := testRosterCSV + "Carol Chen;33333333-3;Z;carol\n"
	rosterPath := writeTempFile(t, "roster.csv", roster)
	keyPath := writeTempFile(t, "key.json", testAnswerKeyJSON)

	output, err := executeCommand(t, []string{
		"validate",
		"--config", missingConfigPath(t),
		"--org", "course-org",
		"--roster", rosterPath,
		"--answer-key", keyPath,
	})
	if err == nil {
		t.Fatal("Expected validation failure for group without answer key")
	}
	if !strings.Contains(output, "Group Z appears in the roster but has no answer key entry") {
		t.Errorf("Output should name the uncovered group, got:\n%s", output)
	}
}

func TestValidateCommandMalformedAnswerKey(t *testing.T) {
	rosterPath := writeTempFile(t, "roster.csv", testRosterCSV)
	keyPath := writeTempFile(t, "key.json", `{"A": [{"tipo": "clave-valor", "keywords": ["redis"]}]}`)

	output, err := executeCommand(t, []string{
		"validate",
		"--config", missingConfigPath(t),
		"--org", "course-org",
		"--roster", rosterPath,
		"--answer-key", keyPath,
	})
	if err == nil {
		t.Fatal("Expected validation failure for a short answer key")
	}
	if !strings.Contains(output, "expected 3 answers, got 1") {
		t.Errorf("Output should report the slot count problem, got:\n%s", output)
	}
}

func TestValidateCommandMissingOrg(t *testing.T) {
	_, err := executeCommand(t, []string{"validate", "--config", missingConfigPath(t)})
	if err == nil {
		t.Fatal("Expected error when org is not configured")
	}
}
