package logger

import (
	"go.uber.org/zap/zapcore"
)

// DBCore wraps a core and copies every entry to the database writer.
type DBCore struct {
	zapcore.Core
	writer  *DBLogWriter
	context []zapcore.Field
}

func NewDBCore(baseCore zapcore.Core, writer *DBLogWriter) zapcore.Core {
	return &DBCore{
		Core:   baseCore,
		writer: writer,
	}
}

// With keeps the database sink on derived loggers.
func (c *DBCore) With(fields []zapcore.Field) zapcore.Core {
	return &DBCore{
		Core:    c.Core.With(fields),
		writer:  c.writer,
		context: append(append([]zapcore.Field(nil), c.context...), fields...),
	}
}

func (c *DBCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	var ip, userID string
	for _, f := range append(append([]zapcore.Field(nil), c.context...), fields...) {
		switch f.Key {
		case "ip":
			ip = f.String
		case "userId":
			userID = f.String
		}
	}

	// Caller.Function is only set when the logger is built with AddCaller.
	c.writer.AddLog(LogEntry{
		Level:     entry.Level,
		Message:   entry.Message,
		IpAddress: ip,
		UserId:    userID,
		Caller:    entry.Caller.Function,
	})

	return c.Core.Write(entry, fields)
}

func (c *DBCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}
