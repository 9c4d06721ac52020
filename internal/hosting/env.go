package hosting

import (
	"os"
	"os/exec"
	"path/filepath"
)

// graderTmpDir is a dedicated temp directory for gh invocations, keeping
// the grader's scratch files out of the shared system temp directory.
var graderTmpDir string

func init() {
	graderTmpDir = filepath.Join(os.TempDir(), "repograder-gh")
	os.MkdirAll(graderTmpDir, 0755)
}

// SetCleanEnv configures a command to use the grader's dedicated TMPDIR.
func SetCleanEnv(cmd *exec.Cmd) {
	cmd.Env = os.Environ()

	found := false
	for i, env := range cmd.Env {
		if len(env) > 7 && env[:7] == "TMPDIR=" {
			cmd.Env[i] = "TMPDIR=" + graderTmpDir
			found = true
			break
		}
	}
	if !found {
		cmd.Env = append(cmd.Env, "TMPDIR="+graderTmpDir)
	}
}

// TmpDir returns the grader's dedicated temp directory path.
func TmpDir() string {
	return graderTmpDir
}
