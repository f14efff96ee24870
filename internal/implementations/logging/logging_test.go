package logging

import (
	"accounts/internal/core/domain/logging"
	"context"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestEntriesBecomeFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapLoggerFromCore(zap.New(core))
	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-1")

	log.Info(ctx, "User created.", logging.Entry("userID", "u-1"))
	log.Error(context.Background(), "Failed.", logging.Entry("attempt", 2))

	records := logs.AllUntimed()
	require.Len(t, records, 2)

	require.Equal(t, zapcore.InfoLevel, records[0].Level)
	require.Equal(t, "User created.", records[0].Message)
	fields := records[0].ContextMap()
	require.Equal(t, "req-1", fields["requestID"])
	require.Equal(t, "u-1", fields["userID"])

	require.Equal(t, zapcore.ErrorLevel, records[1].Level)
	require.NotContains(t, records[1].ContextMap(), "requestID")
	require.Equal(t, int64(2), records[1].ContextMap()["attempt"])
}

func TestInvalidLevelRejected(t *testing.T) {
	_, err := NewZapLogger(Config{Level: "loud"})
	require.Error(t, err)
}

func TestRotatedFile(t *testing.T) {
	path := t.TempDir() + "/accounts.log"
	log, err := NewZapLogger(Config{Level: "debug", File: path})
	require.NoError(t, err)

	log.Debug(context.Background(), "Hello.")
	log.Sync()

	require.FileExists(t, path)
}

func TestErrorsReportedToSentry(t *testing.T) {
	var reported []string
	err := sentry.Init(sentry.ClientOptions{
		BeforeSend: func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
			reported = append(reported, event.Message)
			return nil
		},
	})
	require.NoError(t, err)
	t.Cleanup(func() { sentry.CurrentHub().BindClient(nil) })

	log, err := NewZapLogger(Config{Level: "debug", ReportErrors: true})
	require.NoError(t, err)

	log.Warning(context.Background(), "Slow.")
	log.Error(context.Background(), "Could not send email.")

	require.Equal(t, []string{"Could not send email."}, reported)
}
