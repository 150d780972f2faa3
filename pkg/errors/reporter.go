package errors

import (
	"os"

	"github.com/certifi/gocertifi"
	"github.com/getsentry/sentry-go"

	"questline.io/questline/pkg/log"
)

var (
	reporters []Reporter
)

func init() {
	reporters = make([]Reporter, 0)
	if os.Getenv(debugMode) == "" {
		log.Info("Env DEBUG not set, report errors enabled.")
	} else {
		log.Info("Env DEBUG set, report errors disabled.")
	}
}

func report(err error) {
	if reporters == nil || err == nil {
		return
	}
	if os.Getenv(debugMode) != "" {
		return
	}
	for _, r := range reporters {
		r.Report(err)
	}
}

// Reporter ships an error to an external sink.
type Reporter interface {
	Report(error)
}

type sentryReporter struct {
}

func (s *sentryReporter) Report(err error) {
	sentry.CaptureException(err)
}

// Reporting is suppressed whenever this env var is set.
const debugMode = "DEBUG"

// NewSentryReporter registers a sentry reporter so that WrapAndReport and
// friends forward errors to the configured DSN. A blank DSN is a no-op.
func NewSentryReporter(sentryDSN string) error {
	if sentryDSN == "" {
		log.Warn("empty DSN found, skipping sentry reporter initialization.")
		return nil
	}
	options := sentry.ClientOptions{
		Dsn: sentryDSN,
	}
	rootCAs, err := gocertifi.CACerts()
	if err != nil {
		return Wrap(err, "init sentry CA")
	}
	options.CaCerts = rootCAs
	if err := sentry.Init(options); err != nil {
		return Wrap(err, "init sentry")
	}
	log.Info("sentry error reporter initialized.")
	reporters = append(reporters, &sentryReporter{})
	return nil
}
