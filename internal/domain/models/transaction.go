package models

import (
	"time"

	apperrors "github.com/avelinsk/txmon/internal/errors"
	"github.com/shopspring/decimal"
)

// AmountDetails describes one side of a transaction.
type AmountDetails struct {
	Amount   decimal.Decimal
	Currency Currency
	Country  Country
}

// DeviceData is a fixed-shape device/telemetry snapshot captured at creation.
type DeviceData struct {
	BatteryLevel     float64
	DeviceLatitude   float64
	DeviceLongitude  float64
	IPAddress        string
	DeviceIdentifier string
	VPNUsed          bool
	OperatingSystem  string
	DeviceMaker      string
	DeviceModel      string
	DeviceYear       string
	AppVersion       string
}

// Tag is a key/value pair. Keys are not unique within a transaction.
type Tag struct {
	Key   string
	Value string
}

// Transaction is the central entity. It is immutable after creation: the
// subsystem exposes create and read only, no update.
type Transaction struct {
	TransactionID            string
	Type                     TransactionType
	Timestamp                int64 // epoch milliseconds
	OriginUserID             string
	DestinationUserID        string
	State                    TransactionState
	OriginAmountDetails      AmountDetails
	DestinationAmountDetails AmountDetails
	OriginDeviceData         DeviceData
	DestinationDeviceData    DeviceData
	Tags                     []Tag
	PromotionCodeUsed        bool
	Reference                string
	Description              string
	CreatedAt                time.Time
}

// Validate checks the schema shape. Business rules are deliberately not
// enforced here; the state is a free-form lifecycle label.
func (t *Transaction) Validate() error {
	if t.TransactionID == "" {
		return apperrors.NewValidationError("transactionId is required")
	}
	if !t.Type.Valid() {
		return apperrors.NewValidationErrorf("invalid type %q", t.Type)
	}
	if t.Timestamp <= 0 {
		return apperrors.NewValidationError("timestamp must be a positive epoch millisecond value")
	}
	if t.OriginUserID == "" {
		return apperrors.NewValidationError("originUserId is required")
	}
	if t.DestinationUserID == "" {
		return apperrors.NewValidationError("destinationUserId is required")
	}
	if !t.State.Valid() {
		return apperrors.NewValidationErrorf("invalid transactionState %q", t.State)
	}
	if err := t.OriginAmountDetails.validate("originAmountDetails"); err != nil {
		return err
	}
	if err := t.DestinationAmountDetails.validate("destinationAmountDetails"); err != nil {
		return err
	}
	for _, tag := range t.Tags {
		if tag.Key == "" {
			return apperrors.NewValidationError("tag key is required")
		}
	}
	return nil
}

func (a AmountDetails) validate(field string) error {
	if a.Amount.IsNegative() {
		return apperrors.NewValidationErrorf("%s.transactionAmount must not be negative", field)
	}
	if !a.Currency.Valid() {
		return apperrors.NewValidationErrorf("%s.transactionCurrency %q is not supported", field, a.Currency)
	}
	if !a.Country.Valid() {
		return apperrors.NewValidationErrorf("%s.country %q is not supported", field, a.Country)
	}
	return nil
}

// TagKeys returns the transaction's tag keys in order, duplicates included.
func (t *Transaction) TagKeys() []string {
	keys := make([]string, 0, len(t.Tags))
	for _, tag := range t.Tags {
		keys = append(keys, tag.Key)
	}
	return keys
}
