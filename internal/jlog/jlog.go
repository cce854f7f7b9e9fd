// Package jlog provides the one structured logger used across cmd/jcodec,
// grounded on grafana-k6's internal/cmd logrus.Logger usage.
package jlog

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New returns a logrus.Logger writing to stderr with the text formatter,
// matching the teacher corpus's CLI-facing logging shape.
func New() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return l
}

// WithTrace attaches a rendered decode-error trace as a log field, the
// shape every jcodec.DecodeError carries.
func WithTrace(l *logrus.Logger, trace string) *logrus.Entry {
	return l.WithField("trace", trace)
}
