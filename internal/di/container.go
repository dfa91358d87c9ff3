package di

import (
	"fmt"
	"strconv"
	"time"

	"github.com/avelinsk/txmon/internal/config"
	"github.com/avelinsk/txmon/internal/generator"
	"github.com/avelinsk/txmon/internal/infrastructure/api/handlers"
	"github.com/avelinsk/txmon/internal/infrastructure/database/repositories"
	"github.com/avelinsk/txmon/internal/rates"
	"github.com/avelinsk/txmon/internal/usecases/interactor"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Container struct {
	TransactionHandler *handlers.TransactionHandler
	AnalyticsHandler   *handlers.AnalyticsHandler
	ExportHandler      *handlers.ExportHandler
	GeneratorHandler   *handlers.GeneratorHandler
	UserHandler        *handlers.UserHandler
	HealthHandler      *handlers.HealthHandler
	UserInteractor     *interactor.UserInteractor
	Generator          *generator.Generator
}

// NewContainer wires repositories, interactors and handlers.
func NewContainer(db *pgxpool.Pool, cfg *config.Config) (*Container, error) {
	ratesTimeout, err := durationFrom(cfg.Rates.TimeoutSeconds, time.Second, "RATES_TIMEOUT_SECONDS")
	if err != nil {
		return nil, err
	}
	generatorInterval, err := durationFrom(cfg.Generator.IntervalSeconds, time.Second, "GENERATOR_INTERVAL_SECONDS")
	if err != nil {
		return nil, err
	}
	window, err := durationFrom(cfg.Aggregation.WindowHours, time.Hour, "AGGREGATION_WINDOW_HOURS")
	if err != nil {
		return nil, err
	}
	bucket, err := durationFrom(cfg.Aggregation.BucketMinutes, time.Minute, "AGGREGATION_BUCKET_MINUTES")
	if err != nil {
		return nil, err
	}

	transactionRepository := repositories.NewTransactionRepositoryImpl(db)
	userRepository := repositories.NewUserRepositoryImpl(db)

	converter := rates.NewConverter(rates.NewHTTPSource(cfg.Rates.BaseURL, ratesTimeout))

	transactionInteractor := interactor.NewTransactionInteractor(transactionRepository)
	analyticsInteractor := interactor.NewAnalyticsInteractor(transactionRepository, converter)
	userInteractor := interactor.NewUserInteractor(userRepository)

	gen := generator.New(transactionRepository, generatorInterval)

	return &Container{
		TransactionHandler: handlers.NewTransactionHandler(transactionInteractor),
		AnalyticsHandler:   handlers.NewAnalyticsHandler(analyticsInteractor, window, bucket),
		ExportHandler:      handlers.NewExportHandler(transactionInteractor, analyticsInteractor, window, bucket),
		GeneratorHandler:   handlers.NewGeneratorHandler(gen),
		UserHandler:        handlers.NewUserHandler(),
		HealthHandler:      handlers.NewHealthHandler(db.Ping),
		UserInteractor:     userInteractor,
		Generator:          gen,
	}, nil
}

func durationFrom(value string, unit time.Duration, name string) (time.Duration, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid %s value %q", name, value)
	}
	return time.Duration(n) * unit, nil
}
