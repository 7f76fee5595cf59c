package quadvk

import (
	"io"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

//Logs groups the info, warning and error loggers shared by every component.
//With a log directory the three streams go to separate append-only files,
//otherwise they all share stderr.
type Logs struct {
	Info  *log.Logger
	Warn  *log.Logger
	Error *log.Logger

	files []*os.File
}

const logFlags = log.Ldate | log.Ltime | log.Lshortfile

func NewLogs(dir string) (*Logs, error) {
	if dir == "" {
		return newLogs(os.Stderr, os.Stderr, os.Stderr), nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(err, "create log directory")
	}

	var files []*os.File
	open := func(name string) (*os.File, error) {
		file, err := os.OpenFile(filepath.Join(dir, name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
		if err != nil {
			return nil, errors.Wrapf(err, "open %s", name)
		}
		files = append(files, file)
		return file, nil
	}

	info_file, err := open("info_log.txt")
	if err != nil {
		return nil, err
	}
	warn_file, err := open("warn_log.txt")
	if err != nil {
		closeAll(files)
		return nil, err
	}
	error_file, err := open("error_log.txt")
	if err != nil {
		closeAll(files)
		return nil, err
	}

	logs := newLogs(info_file, warn_file, error_file)
	logs.files = files
	return logs, nil
}

//DiscardLogs drops every message.
func DiscardLogs() *Logs {
	return newLogs(ioutil.Discard, ioutil.Discard, ioutil.Discard)
}

func newLogs(info, warn, error_w io.Writer) *Logs {
	return &Logs{
		Info:  log.New(info, "INFO: ", logFlags),
		Warn:  log.New(warn, "WARNING: ", logFlags),
		Error: log.New(error_w, "ERROR: ", logFlags),
	}
}

//ToFiles reports whether the loggers write to files rather than stderr.
func (l *Logs) ToFiles() bool {
	return len(l.files) > 0
}

func (l *Logs) Close() error {
	err := closeAll(l.files)
	l.files = nil
	return err
}

func closeAll(files []*os.File) error {
	var first error
	for _, f := range files {
		if err := f.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
