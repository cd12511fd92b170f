package logger

import (
	"context"
	"fmt"
	"time"

	common_models "go-analytics/internal/common/models"
	"go-analytics/internal/config"
	"go-analytics/internal/database"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap/zapcore"
)

// LogEntry holds the data passed from Zap to the worker
type LogEntry struct {
	Level     zapcore.Level
	Message   string
	IpAddress string
	UserId    string
	Caller    string
}

// LogInserter is the part of a collection the writer needs.
type LogInserter interface {
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
}

// DBLogWriter persists log entries from a buffered channel on a background goroutine.
type DBLogWriter struct {
	collection LogInserter
	logChan    chan LogEntry
	appId      string
}

func NewDBLogWriter(mongodb *database.MongodbDB, cfg *config.Config) *DBLogWriter {
	return newDBLogWriter(mongodb.DB.Collection("logs"), cfg.AppId, 1000)
}

func newDBLogWriter(collection LogInserter, appId string, buffer int) *DBLogWriter {
	writer := &DBLogWriter{
		collection: collection,
		logChan:    make(chan LogEntry, buffer),
		appId:      appId,
	}
	go writer.processLogs()
	return writer
}

// AddLog never blocks; entries are dropped when the buffer is full.
func (w *DBLogWriter) AddLog(entry LogEntry) {
	select {
	case w.logChan <- entry:
	default:
		fmt.Println("DB Log Channel Full! Dropping log:", entry.Message)
	}
}

func (w *DBLogWriter) processLogs() {
	for entry := range w.logChan {
		record := common_models.Log{
			ApplicationId: w.appId,
			Message:       entry.Message,
			IpAddress:     entry.IpAddress,
			UserId:        entry.UserId,
			Caller:        entry.Caller,
			LogLevelId:    mapLevelToInt(entry.Level),
			CreatedOnUtc:  time.Now().UTC(),
		}

		// Errors are ignored so logging never takes the service down.
		_, _ = w.collection.InsertOne(context.Background(), record)
	}
}

func mapLevelToInt(l zapcore.Level) int {
	switch l {
	case zapcore.DebugLevel:
		return 10
	case zapcore.InfoLevel:
		return 20
	case zapcore.WarnLevel:
		return 30
	case zapcore.ErrorLevel:
		return 40
	case zapcore.FatalLevel:
		return 50
	default:
		return 20
	}
}
