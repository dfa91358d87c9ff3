package generator

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/avelinsk/txmon/internal/domain/models"
	"github.com/avelinsk/txmon/internal/domain/repositories"
	"github.com/avelinsk/txmon/pkg/log"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Generator periodically synthesises random transactions and persists them.
// It is an owned task handle: Start on a running generator and Stop on an
// idle one are no-ops, so at most one loop ever runs.
type Generator struct {
	transactionRepository repositories.TransactionRepository
	interval              time.Duration
	logger                *zerolog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func New(transactionRepository repositories.TransactionRepository, interval time.Duration) *Generator {
	l := log.GetLogger()
	return &Generator{
		transactionRepository: transactionRepository,
		interval:              interval,
		logger:                &l,
	}
}

// Start launches the periodic loop. Returns false when already running.
func (g *Generator) Start() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.cancel != nil {
		return false
	}

	ctx, cancel := context.WithCancel(context.Background())
	g.cancel = cancel
	g.done = make(chan struct{})
	go g.run(ctx, g.done)

	g.logger.Info().Dur("interval", g.interval).Msg("transaction generator started")
	return true
}

// Stop cancels the loop and waits for it to exit. Returns false when the
// generator was not running.
func (g *Generator) Stop() bool {
	g.mu.Lock()
	if g.cancel == nil {
		g.mu.Unlock()
		return false
	}
	cancel := g.cancel
	done := g.done
	g.cancel = nil
	g.done = nil
	g.mu.Unlock()

	cancel()
	<-done

	g.logger.Info().Msg("transaction generator stopped")
	return true
}

// Running reports whether the loop is active.
func (g *Generator) Running() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cancel != nil
}

func (g *Generator) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tx := Synthesize(rnd, time.Now())
			insertCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err := g.transactionRepository.Insert(insertCtx, tx)
			cancel()
			if err != nil {
				g.logger.Error().Err(err).Msg("failed to persist generated transaction")
				continue
			}
			g.logger.Debug().Str("transactionId", tx.TransactionID).Msg("generated transaction")
		}
	}
}

// --- synthesis pools ---

var (
	generatedTags = [][]models.Tag{
		{{Key: "generated", Value: "true"}},
		{{Key: "test", Value: "true"}},
		{{Key: "sample", Value: "true"}},
		{{Key: "auto", Value: "true"}},
		{{Key: "cron", Value: "true"}},
	}

	generatedDescriptions = []string{
		"Automatically generated transaction",
		"Test transaction",
		"Sample transaction",
		"Cron job transaction",
		"Random transaction",
	}

	generatedCurrencies = []models.Currency{
		models.CurrencyUSD,
		models.CurrencyINR,
		models.CurrencyJPY,
		models.CurrencyEUR,
		models.CurrencyCHF,
	}

	// currencyCountry pairs each generated currency with its home country.
	currencyCountry = map[models.Currency]models.Country{
		models.CurrencyUSD: models.CountryUS,
		models.CurrencyINR: models.CountryIN,
		models.CurrencyJPY: models.CountryJP,
		models.CurrencyEUR: models.CountryDE,
		models.CurrencyCHF: models.CountryCH,
	}

	generatedTypes = []models.TransactionType{
		models.TypeDeposit,
		models.TypeWithdrawal,
		models.TypeTransfer,
		models.TypeRefund,
		models.TypeOther,
	}

	generatedStates = []models.TransactionState{
		models.StateCreated,
		models.StateSuccessful,
		models.StateDeclined,
	}

	osPool     = []string{"iOS", "Android", "Windows", "Linux"}
	makerPool  = []string{"Apple", "Samsung", "Google", "OnePlus"}
	modelPool  = []string{"iPhone 12", "Galaxy S21", "Pixel 6", "Nord 2"}
	yearPool   = []string{"2019", "2020", "2021", "2022"}
	appVersion = "1.0.0"
)

// Synthesize produces one random transaction timestamped at now.
func Synthesize(rnd *rand.Rand, now time.Time) *models.Transaction {
	currency := generatedCurrencies[rnd.Intn(len(generatedCurrencies))]
	amount := decimal.NewFromFloat(10 + rnd.Float64()*4990).Round(2)

	details := models.AmountDetails{
		Amount:   amount,
		Currency: currency,
		Country:  currencyCountry[currency],
	}

	return &models.Transaction{
		TransactionID:            uuid.New().String(),
		Type:                     generatedTypes[rnd.Intn(len(generatedTypes))],
		Timestamp:                now.UnixMilli(),
		OriginUserID:             fmt.Sprintf("user%d", rnd.Intn(1000)),
		DestinationUserID:        fmt.Sprintf("user%d", rnd.Intn(1000)),
		State:                    generatedStates[rnd.Intn(len(generatedStates))],
		OriginAmountDetails:      details,
		DestinationAmountDetails: details,
		OriginDeviceData:         synthesizeDevice(rnd),
		DestinationDeviceData:    synthesizeDevice(rnd),
		Tags:                     generatedTags[rnd.Intn(len(generatedTags))],
		PromotionCodeUsed:        rnd.Intn(2) == 0,
		Reference:                "generator",
		Description:              generatedDescriptions[rnd.Intn(len(generatedDescriptions))],
	}
}

func synthesizeDevice(rnd *rand.Rand) models.DeviceData {
	return models.DeviceData{
		BatteryLevel:     float64(rnd.Intn(101)),
		DeviceLatitude:   -90 + rnd.Float64()*180,
		DeviceLongitude:  -180 + rnd.Float64()*360,
		IPAddress:        fmt.Sprintf("%d.%d.%d.%d", rnd.Intn(223)+1, rnd.Intn(256), rnd.Intn(256), rnd.Intn(256)),
		DeviceIdentifier: fmt.Sprintf("device-%06d", rnd.Intn(999999)),
		VPNUsed:          rnd.Intn(4) == 0,
		OperatingSystem:  osPool[rnd.Intn(len(osPool))],
		DeviceMaker:      makerPool[rnd.Intn(len(makerPool))],
		DeviceModel:      modelPool[rnd.Intn(len(modelPool))],
		DeviceYear:       yearPool[rnd.Intn(len(yearPool))],
		AppVersion:       appVersion,
	}
}
