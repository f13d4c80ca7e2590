package publishers

// Logger is the structured logging surface of internal/logger.
type Logger interface {
	InfoObj(msg, key string, obj interface{})
	DebugObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

type noopLogger struct{}

func (noopLogger) InfoObj(string, string, interface{})  {}
func (noopLogger) DebugObj(string, string, interface{}) {}
func (noopLogger) WarnObj(string, string, interface{})  {}
func (noopLogger) ErrorObj(string, string, interface{}) {}

func ensureLogger(log Logger) Logger {
	if log == nil {
		return noopLogger{}
	}
	return log
}

// deliveryFields describes one exchange event for sink logs. extra holds
// key/value pairs; a trailing key without a value is ignored.
func deliveryFields(publisherID string, evt Event, extra ...any) map[string]any {
	fields := map[string]any{
		"method":  evt.Method,
		"url":     evt.URL,
		"outcome": evt.Outcome,
	}
	if publisherID != "" {
		fields["publisher_id"] = publisherID
	}
	if evt.StatusCode != 0 {
		fields["status_code"] = evt.StatusCode
	}
	for i := 0; i+1 < len(extra); i += 2 {
		if key, ok := extra[i].(string); ok && key != "" {
			fields[key] = extra[i+1]
		}
	}
	return fields
}
