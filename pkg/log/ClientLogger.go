// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package log

import (
	"fmt"
	"strings"

	"github.com/aws/smithy-go/logging"
)

// ClientLogger routes the events of an AWS client to a SimpleLogger.
type ClientLogger struct {
	logger *SimpleLogger
}

func (c ClientLogger) Logf(classification logging.Classification, format string, v ...interface{}) {
	event := fmt.Sprintf(format, v...)
	msg := "Client Event"
	details := event
	for _, prefix := range []string{"Request Signature", "Request", "Response"} {
		if strings.HasPrefix(event, prefix+"\n") || strings.HasPrefix(event, prefix+":\n") {
			msg = prefix
			details = strings.TrimPrefix(strings.TrimPrefix(event, prefix), ":")[1:]
			break
		}
	}
	_ = c.logger.Log(msg, map[string]interface{}{
		"classification": string(classification),
		"details":        details,
	})
}

func NewClientLogger(logger *SimpleLogger) *ClientLogger {
	return &ClientLogger{logger: logger}
}
