package cli

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/deckhand"
	"github.com/aretw0/deckhand/internal/config"
	"github.com/aretw0/deckhand/internal/logging"
	"github.com/aretw0/deckhand/pkg/adapters/file"
	"github.com/aretw0/deckhand/pkg/adapters/memory"
	"github.com/aretw0/deckhand/pkg/adapters/redis"
	"github.com/aretw0/deckhand/pkg/observability"
	"github.com/aretw0/deckhand/pkg/persistence/middleware"
	"github.com/aretw0/deckhand/pkg/ports"
	"github.com/aretw0/deckhand/pkg/provider"
)

// CreateLogger configures the application logger.
// In debug mode, it writes to Stderr at debug level (to separate from Stdout chat UI);
// otherwise level comes from log.level and anything below it is dropped.
func CreateLogger(debug bool, level string) *slog.Logger {
	if debug {
		return logging.New(slog.LevelDebug)
	}
	if level == "" {
		return logging.NewNop()
	}
	return logging.New(logging.ParseLevel(level))
}

// NewAssistant wires an assistant with standard CLI conventions.
// metrics may be nil.
func NewAssistant(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *deckhand.Assistant {
	opts := []deckhand.Option{
		deckhand.WithLogger(logger),
		deckhand.WithCommandTimeout(cfg.Actions.CommandTimeout),
		deckhand.WithShell(cfg.Actions.Shell),
		deckhand.WithCollisionPolicy(cfg.CollisionPolicy()),
		deckhand.WithProviderOptions(
			provider.WithBaseURL(cfg.Provider.BaseURL),
			provider.WithModel(cfg.Provider.Model),
			provider.WithAppIdentity(cfg.Provider.Referer, cfg.Provider.Title),
			provider.WithTimeout(cfg.Provider.Timeout),
		),
	}
	if metrics != nil {
		opts = append(opts, deckhand.WithMetrics(metrics))
	}
	return deckhand.New(cfg.Provider.APIKey, opts...)
}

// nopCloser is returned for journals that hold no resources.
func nopCloser() error { return nil }

// OpenJournal builds the journal selected by journal.driver, wrapped with redaction and,
// when a key is configured, encryption. The returned function releases its resources.
// The "none" driver yields a nil journal.
func OpenJournal(cfg *config.Config) (ports.Journal, func() error, error) {
	var (
		journal ports.Journal
		closeFn = nopCloser
	)
	switch cfg.Journal.Driver {
	case config.JournalNone:
		return nil, nopCloser, nil
	case config.JournalFile:
		journal = file.NewJournal(cfg.Journal.Path)
	case config.JournalRedis:
		j, err := redis.New(cfg.Journal.RedisURL, redis.WithPrefix(cfg.Journal.Prefix), redis.WithLimit(cfg.Journal.Limit))
		if err != nil {
			return nil, nil, err
		}
		journal, closeFn = j, j.Close
	default:
		return nil, nil, fmt.Errorf("unknown journal driver %q", cfg.Journal.Driver)
	}

	mws, err := journalMiddleware(cfg)
	if err != nil {
		_ = closeFn()
		return nil, nil, err
	}
	return middleware.Chain(journal, mws...), closeFn, nil
}

func journalMiddleware(cfg *config.Config) ([]middleware.Middleware, error) {
	var mws []middleware.Middleware
	if len(cfg.Journal.Redact) > 0 {
		if err := middleware.CompilePatterns(cfg.Journal.Redact); err != nil {
			return nil, fmt.Errorf("journal.redact: %w", err)
		}
		mws = append(mws, middleware.NewPIIMiddleware(cfg.Journal.Redact))
	}
	enc, err := cfg.JournalEncryption()
	if err != nil {
		return nil, err
	}
	if enc != nil {
		mw, err := middleware.NewEncryptionMiddleware(*enc)
		if err != nil {
			return nil, err
		}
		mws = append(mws, mw)
	}
	return mws, nil
}

// OpenServerJournal is OpenJournal, falling back to an in-memory journal so that
// GET /history is always available on the API.
func OpenServerJournal(cfg *config.Config) (ports.Journal, func() error, error) {
	j, closeFn, err := OpenJournal(cfg)
	if err != nil {
		return nil, nil, err
	}
	if j == nil {
		mws, err := journalMiddleware(cfg)
		if err != nil {
			return nil, nil, err
		}
		return middleware.Chain(memory.NewJournal(), mws...), nopCloser, nil
	}
	return j, closeFn, nil
}
