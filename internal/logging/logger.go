package logging

import (
	"io"
	"log"
	"os"
)

// Logger is a two-level logger: info goes to stdout, errors go to
// stdout and an append-only file so failed runs leave a trace.
type Logger struct {
	info *log.Logger
	err  *log.Logger
	file io.WriteCloser
}

func New(errorsPath string) (*Logger, error) {
	f, err := os.OpenFile(errorsPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return &Logger{
		info: log.New(os.Stdout, "INFO ", log.LstdFlags),
		err:  log.New(io.MultiWriter(os.Stdout, f), "ERROR ", log.LstdFlags|log.Lshortfile),
		file: f,
	}, nil
}

func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

func (l *Logger) Infof(format string, args ...any) {
	l.info.Printf(format, args...)
}

func (l *Logger) Errorf(format string, args ...any) {
	l.err.Printf(format, args...)
}
