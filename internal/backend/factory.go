package backend

import (
	"context"
	"errors"
	"fmt"

	"budgetbuddy/internal/amqp"
	"budgetbuddy/internal/log"
	"budgetbuddy/internal/services"
	"budgetbuddy/internal/storage"
	"budgetbuddy/internal/storage/file"
	"budgetbuddy/internal/storage/memory"
	"budgetbuddy/internal/storage/postgres"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Discard()
	}
	return &DefaultFactory{logger: logger.WithComponent(log.ComponentBackend)}
}

// CreateBackend opens the configured repository, attaches the optional AMQP
// publisher and returns a ready ledger service.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	repo, closeRepo, err := f.openRepository(ctx, config)
	if err != nil {
		return nil, err
	}

	opts := []services.Option{services.WithLogger(f.logger)}
	var amqpClient *amqp.Client
	if config.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without events", log.FieldError, err)
		} else {
			f.logger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
			opts = append(opts, services.WithEvents(amqpClient))
		}
	}

	cleanup := func() error {
		var errs []error
		if amqpClient != nil {
			if err := amqpClient.Close(); err != nil {
				errs = append(errs, fmt.Errorf("amqp: %w", err))
			}
		}
		if closeRepo != nil {
			if err := closeRepo(); err != nil {
				errs = append(errs, fmt.Errorf("storage: %w", err))
			}
		}
		return errors.Join(errs...)
	}

	f.logger.Info("Initialized backend",
		"type", config.Type.String(),
		"events_enabled", amqpClient != nil)

	return &BackendResult{
		Repository:    repo,
		Service:       services.NewLedgerService(repo, opts...),
		EventsEnabled: amqpClient != nil,
		Cleanup:       cleanup,
	}, nil
}

func (f *DefaultFactory) openRepository(ctx context.Context, config Config) (storage.Repository, CleanupFunc, error) {
	switch config.Type {
	case FileBackend:
		s, err := file.New(config.DataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize file store: %w", err)
		}
		f.logger.Info("Using file storage", "data_dir", config.DataDir)
		return s, nil, nil
	case MemoryBackend:
		f.logger.Info("Using in-memory storage, data is lost on exit")
		return memory.New(), nil, nil
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		f.logger.Info("Using SQLite storage", "db_path", config.SQLiteDBPath)
		return repo, repo.Close, nil
	case PostgresBackend:
		s, err := postgres.New(ctx, config.PostgresURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize Postgres store: %w", err)
		}
		f.logger.Info("Using Postgres storage")
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}
