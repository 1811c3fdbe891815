package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"assetrail/internal/database"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type Ledger interface {
	GetHolding(ctx context.Context, userAddress, assetSymbol string) (*database.HoldingEntry, error)
	TransferToCustody(ctx context.Context, p database.TransferParams) error
}

type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "invalid deposit request: " + strings.Join(keys, ", ")
}

type DepositRequest struct {
	UserAddress string
	AssetSymbol string
	AssetName   string
	Quantity    decimal.Decimal
	ValueInINR  decimal.Decimal
}

type Receipt struct {
	TransactionID    string
	DepositedAmount  decimal.Decimal
	AssetSymbol      string
	QuantityDeducted decimal.Decimal
}

// Coordinator is the only component allowed to move value from user holdings
// into company custody.
type Coordinator struct {
	ledger Ledger
	log    *logrus.Logger
}

func NewCoordinator(ledger Ledger, log *logrus.Logger) *Coordinator {
	return &Coordinator{ledger: ledger, log: log}
}

// QuantityToMove is quantity * requested/available, floored to whole units:
// never move more units than the value justifies. Residual dust stays with
// the user.
func QuantityToMove(quantity, available, requested decimal.Decimal) decimal.Decimal {
	ratio := requested.Div(available)
	return quantity.Mul(ratio).Floor()
}

// DepositCollateral applies the debit/credit pair atomically; the bridge
// signal rides in the same transaction and is delivered asynchronously.
func (c *Coordinator) DepositCollateral(ctx context.Context, req DepositRequest) (*Receipt, error) {
	if err := validateDeposit(req); err != nil {
		return nil, err
	}

	holding, err := c.ledger.GetHolding(ctx, req.UserAddress, req.AssetSymbol)
	if err != nil {
		return nil, err
	}

	// The request is value-denominated: sufficiency is checked against the
	// holding's INR value, not its quantity.
	if holding.ValueInINR.LessThan(req.ValueInINR) {
		return nil, &database.InsufficientFundsError{
			AssetSymbol: req.AssetSymbol,
			Available:   holding.ValueInINR,
			Requested:   req.ValueInINR,
		}
	}

	quantityToMove := QuantityToMove(holding.Quantity, holding.ValueInINR, req.ValueInINR)
	transactionID := fmt.Sprintf("TXN_%d", time.Now().UnixMilli())

	err = c.ledger.TransferToCustody(ctx, database.TransferParams{
		UserAddress:   req.UserAddress,
		AssetSymbol:   req.AssetSymbol,
		AssetName:     req.AssetName,
		Quantity:      quantityToMove,
		ValueInINR:    req.ValueInINR,
		TransactionID: transactionID,
	})
	if err != nil {
		return nil, err
	}

	c.log.Infof("deposited %s INR of %s for %s (%s units, %s)",
		req.ValueInINR.String(), req.AssetSymbol, req.UserAddress, quantityToMove.String(), transactionID)

	return &Receipt{
		TransactionID:    transactionID,
		DepositedAmount:  req.ValueInINR,
		AssetSymbol:      req.AssetSymbol,
		QuantityDeducted: quantityToMove,
	}, nil
}

func validateDeposit(req DepositRequest) error {
	fields := map[string]string{}
	if req.UserAddress == "" {
		fields["userAddress"] = "user address is required"
	}
	if req.AssetSymbol == "" {
		fields["assetSymbol"] = "asset symbol is required"
	}
	if req.AssetName == "" {
		fields["assetName"] = "asset name is required"
	}
	if !req.Quantity.IsPositive() {
		fields["quantity"] = "quantity must be greater than 0"
	}
	if !req.ValueInINR.IsPositive() {
		fields["valueInINR"] = "valueInINR must be greater than 0"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
