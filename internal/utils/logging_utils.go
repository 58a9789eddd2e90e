package utils

import (
	"context"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var serviceName = "code-atlas"

// SetServiceName sets the service field attached to every log line.
func SetServiceName(name string) {
	if name != "" {
		serviceName = name
	}
}

func ExtractServiceName() string {
	return serviceName
}

func GenerateTraceId() string {
	return uuid.New().String()
}

func LogEntry(entry *log.Entry, level, message string) {
	switch level {
	case "debug":
		entry.Debug(message)
	case "info":
		entry.Info(message)
	case "warn":
		entry.Warn(message)
	case "error":
		entry.Error(message)
	case "fatal":
		entry.Fatal(message)
	case "panic":
		entry.Panic(message)
	default:
		entry.Info(message)
	}
}

func LogMessage(level, message string) {
	entry := log.WithFields(log.Fields{
		"service": serviceName,
	})

	LogEntry(entry, level, message)
}

func fieldsFromContext(ctx context.Context) log.Fields {
	fields := log.Fields{"service": serviceName}
	if traceId, ok := ctx.Value(TraceIdKey.String()).(string); ok {
		fields["traceId"] = traceId
	}
	return fields
}

func LogMessageWithFields(ctx context.Context, level, message string) {
	LogEntry(log.WithFields(fieldsFromContext(ctx)), level, message)
}

func LogMessageWithFieldsAndError(ctx context.Context, level, message string, err error) {
	LogEntry(log.WithFields(fieldsFromContext(ctx)).WithError(err), level, message)
}
