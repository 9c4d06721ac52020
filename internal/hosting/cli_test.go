package hosting

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGh writes an executable shell script that prints the given stdout
// and exits with the given code, and returns its path.
func fakeGh(t *testing.T, stdout string, exitCode int) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake gh script requires a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "gh")
	script := "#!/bin/sh\nprintf '%s' '" + stdout + "'\nexit " + strconv.Itoa(exitCode) + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0755))
	return path
}

func TestListRepos(t *testing.T) {
	cli := NewCLI()
	cli.GhPath = fakeGh(t, `[{"name":"Course-Prefix-alice"},{"name":"Course-Prefix-bob"}]`, 0)

	names, err := cli.ListRepos(context.Background(), "some-org")
	require.NoError(t, err)
	assert.Equal(t, []string{"Course-Prefix-alice", "Course-Prefix-bob"}, names)
}

func TestListReposEmpty(t *testing.T) {
	cli := NewCLI()
	cli.GhPath = fakeGh(t, `[]`, 0)

	names, err := cli.ListRepos(context.Background(), "some-org")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestListReposCommandFailure(t *testing.T) {
	cli := NewCLI()
	cli.GhPath = fakeGh(t, "not logged in", 1)

	_, err := cli.ListRepos(context.Background(), "some-org")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not logged in", "captured output is carried in the error")
}

func TestListReposMalformedJSON(t *testing.T) {
	cli := NewCLI()
	cli.GhPath = fakeGh(t, `{"oops": true}`, 0)

	_, err := cli.ListRepos(context.Background(), "some-org")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse repository list")
}

func TestCloneFailure(t *testing.T) {
	cli := NewCLI()
	cli.GhPath = fakeGh(t, "repository not found", 1)

	err := cli.Clone(context.Background(), "some-org", "missing-repo", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "some-org/missing-repo")
}

func TestCreateIssueFailure(t *testing.T) {
	cli := NewCLI()
	cli.GhPath = fakeGh(t, "issues disabled", 1)

	err := cli.CreateIssue(context.Background(), "some-org", "repo", "title", "body")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create issue")
}

func TestSetCleanEnv(t *testing.T) {
	cmd := exec.Command("true")
	SetCleanEnv(cmd)

	var tmpdir string
	for _, env := range cmd.Env {
		if strings.HasPrefix(env, "TMPDIR=") {
			tmpdir = strings.TrimPrefix(env, "TMPDIR=")
		}
	}
	assert.Equal(t, TmpDir(), tmpdir)
}
