// Package report writes analysis outputs: timestamped output sessions holding
// charts, summary tables, and chart-data CSVs.
package report

import (
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Session is one timestamped output directory, output/<name>/<timestamp>/.
type Session struct {
	Dir string
}

// NewSession creates the directory for a named analysis run.
func NewSession(outputRoot, name string, now time.Time) (*Session, error) {
	dir := filepath.Join(outputRoot, name, now.Format("2006-01-02_150405"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "report: create session dir %s", dir)
	}
	zap.L().Info("created report session", zap.String("dir", dir))
	return &Session{Dir: dir}, nil
}

// Path resolves a file name inside the session directory.
func (s *Session) Path(name string) string {
	return filepath.Join(s.Dir, name)
}
