package dtos

import (
	"github.com/avelinsk/txmon/internal/domain/models"
	"github.com/shopspring/decimal"
)

// TransactionDTO is the wire shape of a transaction, both for create
// requests and read responses.
type TransactionDTO struct {
	TransactionID            string           `json:"transactionId"`
	Type                     string           `json:"type"`
	Timestamp                int64            `json:"timestamp"`
	OriginUserID             string           `json:"originUserId"`
	DestinationUserID        string           `json:"destinationUserId"`
	TransactionState         string           `json:"transactionState"`
	OriginAmountDetails      AmountDetailsDTO `json:"originAmountDetails"`
	DestinationAmountDetails AmountDetailsDTO `json:"destinationAmountDetails"`
	OriginDeviceData         DeviceDataDTO    `json:"originDeviceData"`
	DestinationDeviceData    DeviceDataDTO    `json:"destinationDeviceData"`
	Tags                     []TagDTO         `json:"tags"`
	PromotionCodeUsed        bool             `json:"promotionCodeUsed"`
	Reference                string           `json:"reference"`
	Description              string           `json:"description"`
}

type AmountDetailsDTO struct {
	TransactionAmount   float64 `json:"transactionAmount"`
	TransactionCurrency string  `json:"transactionCurrency"`
	Country             string  `json:"country"`
}

type DeviceDataDTO struct {
	BatteryLevel     float64 `json:"batteryLevel"`
	DeviceLatitude   float64 `json:"deviceLatitude"`
	DeviceLongitude  float64 `json:"deviceLongitude"`
	IPAddress        string  `json:"ipAddress"`
	DeviceIdentifier string  `json:"deviceIdentifier"`
	VPNUsed          bool    `json:"vpnUsed"`
	OperatingSystem  string  `json:"operatingSystem"`
	DeviceMaker      string  `json:"deviceMaker"`
	DeviceModel      string  `json:"deviceModel"`
	DeviceYear       string  `json:"deviceYear"`
	AppVersion       string  `json:"appVersion"`
}

type TagDTO struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ToModel converts the wire shape into the domain model. Validation happens
// on the model, not here.
func (d *TransactionDTO) ToModel() *models.Transaction {
	return &models.Transaction{
		TransactionID:            d.TransactionID,
		Type:                     models.TransactionType(d.Type),
		Timestamp:                d.Timestamp,
		OriginUserID:             d.OriginUserID,
		DestinationUserID:        d.DestinationUserID,
		State:                    models.TransactionState(d.TransactionState),
		OriginAmountDetails:      d.OriginAmountDetails.toModel(),
		DestinationAmountDetails: d.DestinationAmountDetails.toModel(),
		OriginDeviceData:         models.DeviceData(d.OriginDeviceData),
		DestinationDeviceData:    models.DeviceData(d.DestinationDeviceData),
		Tags:                     toTagModels(d.Tags),
		PromotionCodeUsed:        d.PromotionCodeUsed,
		Reference:                d.Reference,
		Description:              d.Description,
	}
}

func (a AmountDetailsDTO) toModel() models.AmountDetails {
	return models.AmountDetails{
		Amount:   decimal.NewFromFloat(a.TransactionAmount),
		Currency: models.Currency(a.TransactionCurrency),
		Country:  models.Country(a.Country),
	}
}

func toTagModels(tags []TagDTO) []models.Tag {
	out := make([]models.Tag, 0, len(tags))
	for _, t := range tags {
		out = append(out, models.Tag(t))
	}
	return out
}

// FromTransaction converts a domain transaction back into the wire shape.
func FromTransaction(tx *models.Transaction) TransactionDTO {
	return TransactionDTO{
		TransactionID:            tx.TransactionID,
		Type:                     string(tx.Type),
		Timestamp:                tx.Timestamp,
		OriginUserID:             tx.OriginUserID,
		DestinationUserID:        tx.DestinationUserID,
		TransactionState:         string(tx.State),
		OriginAmountDetails:      fromAmountDetails(tx.OriginAmountDetails),
		DestinationAmountDetails: fromAmountDetails(tx.DestinationAmountDetails),
		OriginDeviceData:         DeviceDataDTO(tx.OriginDeviceData),
		DestinationDeviceData:    DeviceDataDTO(tx.DestinationDeviceData),
		Tags:                     fromTags(tx.Tags),
		PromotionCodeUsed:        tx.PromotionCodeUsed,
		Reference:                tx.Reference,
		Description:              tx.Description,
	}
}

func fromAmountDetails(a models.AmountDetails) AmountDetailsDTO {
	return AmountDetailsDTO{
		TransactionAmount:   a.Amount.InexactFloat64(),
		TransactionCurrency: string(a.Currency),
		Country:             string(a.Country),
	}
}

func fromTags(tags []models.Tag) []TagDTO {
	out := make([]TagDTO, 0, len(tags))
	for _, t := range tags {
		out = append(out, TagDTO(t))
	}
	return out
}

func FromTransactions(txs []models.Transaction) []TransactionDTO {
	out := make([]TransactionDTO, 0, len(txs))
	for i := range txs {
		out = append(out, FromTransaction(&txs[i]))
	}
	return out
}
