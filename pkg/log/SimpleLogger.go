// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package log

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

const (
	FormatJSONL = "jsonl"
	FormatText  = "text"
)

// SimpleLogger writes one message with its fields per line.
type SimpleLogger struct {
	logger *logrus.Logger
}

// Log writes the message with the union of the given fields.
// Later fields override earlier fields with the same key.
func (s *SimpleLogger) Log(msg string, fields ...map[string]interface{}) error {
	f := logrus.Fields{}
	for _, m := range fields {
		for k, v := range m {
			f[k] = v
		}
	}
	s.logger.WithFields(f).Info(msg)
	return nil
}

// NewSimpleLoggerWithFormat returns a logger writing in the given format, either jsonl or text.
func NewSimpleLoggerWithFormat(w io.Writer, format string) (*SimpleLogger, error) {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(logrus.InfoLevel)
	switch format {
	case FormatJSONL:
		logger.SetFormatter(&logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime: "ts",
			},
		})
	case FormatText:
		logger.SetFormatter(&logrus.TextFormatter{
			DisableColors: true,
			FullTimestamp: true,
		})
	default:
		return nil, fmt.Errorf("unknown log format %q, expecting %q or %q", format, FormatJSONL, FormatText)
	}
	return &SimpleLogger{logger: logger}, nil
}
