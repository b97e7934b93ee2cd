package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/glabrego/epgi/internal/xmltv"
)

type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Loader runs fetch and parse for one URL. Load never returns an error: any
// failure is logged and yields an empty snapshot.
type Loader struct {
	fetcher Fetcher
	logger  *zap.Logger
	nowFn   func() time.Time
}

func NewLoader(fetcher Fetcher, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{fetcher: fetcher, logger: logger, nowFn: time.Now}
}

func (l *Loader) Load(ctx context.Context, url string) (snap xmltv.Snapshot) {
	snap = xmltv.Snapshot{URL: url}
	log := l.logger.With(zap.String("url", url))

	defer func() {
		if r := recover(); r != nil {
			log.Error("Unexpected failure while loading EPG", zap.Any("panic", r), zap.Stack("stack"))
			snap = xmltv.Snapshot{URL: url}
		}
	}()

	log.Info("Fetching EPG data")
	started := l.nowFn()

	data, err := l.fetcher.Fetch(ctx, url)
	if err != nil {
		log.Error(fetchFailureMessage(err), zap.Error(err))
		return snap
	}

	parser := &xmltv.Parser{OnError: func(err error) {
		log.Warn("Skipping entry due to parse error", zap.Error(err))
	}}
	channels, err := parser.Parse(data)
	if err != nil {
		log.Error("Failed to parse XML", zap.Error(err))
		return snap
	}

	snap.Channels = channels
	log.Info("Parsed EPG data",
		zap.Int("channels", len(channels)),
		zap.Duration("duration", l.nowFn().Sub(started)),
	)
	return snap
}

func fetchFailureMessage(err error) string {
	switch {
	case errors.Is(err, xmltv.ErrDecompression):
		return "Failed to decompress EPG data"
	case errors.Is(err, xmltv.ErrTransport):
		return "Failed to download EPG data"
	default:
		return fmt.Sprintf("Unexpected error while fetching EPG data (%T)", err)
	}
}
