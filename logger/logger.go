package logger

import (
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sirupsen/logrus"
)

// output modes
const (
	Verbose = "verbose"
	Quiet   = "quiet"
	Table   = "table"
)

// New returns a run logger. verbose prints info and up, quiet only warnings and
// errors, table prints info without timestamps for piping into reports.
func New(mode string, w io.Writer) *logrus.Logger {
	if w == nil {
		w = os.Stderr
	}
	l := logrus.New()
	l.SetOutput(w)
	switch mode {
	case Quiet:
		l.SetLevel(logrus.WarnLevel)
		l.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	case Table:
		l.SetLevel(logrus.InfoLevel)
		l.SetFormatter(&logrus.TextFormatter{DisableColors: true, DisableTimestamp: true})
	default:
		l.SetLevel(logrus.InfoLevel)
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return l
}

// Discard returns a logger that drops everything; used by tests and ensemble members.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.PanicLevel)
	return l
}

// RunFile opens (appending) the per-seed run log, hydrotrend.<seed>.log.
func RunFile(dir string, seed int64) (*os.File, error) {
	fp := filepath.Join(dir, "hydrotrend."+strconv.FormatInt(seed, 10)+".log")
	return os.OpenFile(fp, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
}
