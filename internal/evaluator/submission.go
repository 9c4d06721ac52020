package evaluator

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mgarrido/repograder/internal/fileutil"
)

// AnswersDirName is the directory inside each repository that holds the
// answer files.
const AnswersDirName = "respuestas"

// DirSubmission is the filesystem-backed Submission over a cloned
// repository. Answer files are respuestas/respuesta<i>.txt.
type DirSubmission struct {
	answersDir string
}

// NewDirSubmission returns a Submission reading from the repository
// checked out at repoPath.
func NewDirSubmission(repoPath string) *DirSubmission {
	return &DirSubmission{answersDir: filepath.Join(repoPath, AnswersDirName)}
}

// HasAnswersDir reports whether the answers directory exists.
func (d *DirSubmission) HasAnswersDir() bool {
	info, err := os.Stat(d.answersDir)
	return err == nil && info.IsDir()
}

// AnswerCount returns the number of .txt files directly inside the
// answers directory. Any file that cannot be listed counts as zero: a
// broken answers directory fails the count precondition rather than
// crashing the run.
func (d *DirSubmission) AnswerCount() int {
	result, err := fileutil.ScanDirectory(d.answersDir, fileutil.ScanOptions{
		Extensions: []string{".txt"},
	})
	if err != nil {
		return 0
	}
	return len(result.Files)
}

// ReadSlot returns the contents of respuesta<slot>.txt. The second return
// is false when the file does not exist or cannot be read.
func (d *DirSubmission) ReadSlot(slot int) (string, bool) {
	path := filepath.Join(d.answersDir, fmt.Sprintf("respuesta%d.txt", slot))
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	return string(data), true
}
