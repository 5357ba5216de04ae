package cfd

import (
	"time"

	"TradeEngine/internal/config"
	"TradeEngine/internal/domain/models"

	"github.com/shopspring/decimal"
)

// Service binds the contract math to the configured fee rate, network and
// trade constraints. It is stateless; every method is a pure calculation.
type Service struct {
	network     string
	feeRate     decimal.Decimal
	constraints models.TradeConstraints
}

func NewService(contractCfg config.ContractConfig, constraintsCfg config.ConstraintsConfig) *Service {
	return &Service{
		network: contractCfg.Network,
		feeRate: decimal.NewFromFloat(contractCfg.OrderMatchingFeeRate),
		constraints: models.TradeConstraints{
			MaxLocalMarginSats:        constraintsCfg.MaxLocalMarginSats,
			MaxCounterpartyMarginSats: constraintsCfg.MaxCounterpartyMarginSats,
			CoordinatorLeverage:       decimal.NewFromFloat(constraintsCfg.CoordinatorLeverage),
			MinQuantity:               decimal.NewFromInt(constraintsCfg.MinQuantity),
			IsChannelBalance:          constraintsCfg.IsChannelBalance,
			OnChainFeeEstimateSats:    constraintsCfg.OnChainFeeEstimateSats,
		},
	}
}

func (s *Service) Margin(price, quantity, leverage decimal.Decimal) decimal.Decimal {
	return Margin(price, quantity, leverage)
}

func (s *Service) Quantity(price, marginSats, leverage decimal.Decimal) decimal.Decimal {
	return Quantity(price, marginSats, leverage)
}

func (s *Service) LiquidationPrice(price, leverage decimal.Decimal, direction models.Direction) decimal.Decimal {
	return LiquidationPrice(price, leverage, direction)
}

func (s *Service) OrderMatchingFee(quantity, price decimal.Decimal) decimal.Decimal {
	return OrderMatchingFee(quantity, price, s.feeRate)
}

func (s *Service) MaxQuantity(price, leverage decimal.Decimal, openQuantity decimal.Decimal) decimal.Decimal {
	onChainFee := s.constraints.OnChainFeeEstimateSats
	if s.constraints.IsChannelBalance {
		onChainFee = 0
	}

	return MaxQuantity(MaxQuantityParams{
		Price:                    price,
		MaxCoordinatorMarginSats: s.constraints.MaxCounterpartyMarginSats,
		MaxTraderMarginSats:      s.constraints.MaxLocalMarginSats,
		OnChainFeeEstimateSats:   onChainFee,
		CoordinatorLeverage:      s.constraints.CoordinatorLeverage,
		TraderLeverage:           leverage,
		OrderMatchingFeeRate:     s.feeRate,
		OpenQuantity:             openQuantity,
	})
}

func (s *Service) ExpiryTimestamp(now time.Time) time.Time {
	return NextExpiry(now, s.network)
}

func (s *Service) Constraints() models.TradeConstraints {
	return s.constraints
}
