// Package logger builds the logrus logger used by the CLI.
package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New creates a logger at levelStr writing to out and, when filePath is
// set, appending to that file as well. Unknown levels fall back to info.
// The returned close func releases the file.
func New(levelStr, filePath string, out io.Writer) (*logrus.Logger, func() error, error) {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if out == nil {
		out = os.Stderr
	}
	closer := func() error { return nil }
	writers := []io.Writer{out}
	if filePath != "" {
		file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, nil, err
		}
		writers = append(writers, file)
		closer = file.Close
	}
	log.SetOutput(io.MultiWriter(writers...))

	return log, closer, nil
}
