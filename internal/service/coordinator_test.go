package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"assetrail/internal/database"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLedger struct {
	holdings    map[string]map[string]*database.HoldingEntry
	transfers   []database.TransferParams
	transferErr error
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{holdings: map[string]map[string]*database.HoldingEntry{}}
}

func (f *fakeLedger) seed(user, symbol, name string, quantity, valueINR int64) {
	if f.holdings[user] == nil {
		f.holdings[user] = map[string]*database.HoldingEntry{}
	}
	f.holdings[user][symbol] = &database.HoldingEntry{
		AssetSymbol: symbol,
		AssetName:   name,
		Quantity:    decimal.NewFromInt(quantity),
		ValueInINR:  decimal.NewFromInt(valueINR),
		Status:      database.HoldingStatusActive,
		LastUpdated: time.Now().UTC(),
	}
}

func (f *fakeLedger) GetHolding(ctx context.Context, user, symbol string) (*database.HoldingEntry, error) {
	byAsset, ok := f.holdings[user]
	if !ok {
		return nil, database.ErrAccountNotFound
	}
	h, ok := byAsset[symbol]
	if !ok {
		return nil, database.ErrAssetNotFound
	}
	return h, nil
}

func (f *fakeLedger) TransferToCustody(ctx context.Context, p database.TransferParams) error {
	if f.transferErr != nil {
		return f.transferErr
	}
	f.transfers = append(f.transfers, p)
	h := f.holdings[p.UserAddress][p.AssetSymbol]
	h.Quantity = h.Quantity.Sub(p.Quantity)
	h.ValueInINR = h.ValueInINR.Sub(p.ValueInINR)
	return nil
}

func newTestCoordinator(ledger Ledger) *Coordinator {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return NewCoordinator(ledger, log)
}

func depositReq(valueINR int64) DepositRequest {
	return DepositRequest{
		UserAddress: "0x47C51d53D8B03062a308887a5f49ad9Ab0eA9688",
		AssetSymbol: "INR-SGB",
		AssetName:   "Sovereign Gold Bonds",
		Quantity:    decimal.NewFromInt(1000),
		ValueInINR:  decimal.NewFromInt(valueINR),
	}
}

func TestDepositCollateral_ProportionalQuantity(t *testing.T) {
	ledger := newFakeLedger()
	ledger.seed("0x47C51d53D8B03062a308887a5f49ad9Ab0eA9688", "INR-SGB", "Sovereign Gold Bonds", 1000, 1000000)
	c := newTestCoordinator(ledger)

	receipt, err := c.DepositCollateral(context.Background(), depositReq(250000))
	require.NoError(t, err)

	assert.True(t, receipt.QuantityDeducted.Equal(decimal.NewFromInt(250)), "got %s", receipt.QuantityDeducted)
	assert.True(t, receipt.DepositedAmount.Equal(decimal.NewFromInt(250000)))
	assert.Equal(t, "INR-SGB", receipt.AssetSymbol)
	assert.True(t, strings.HasPrefix(receipt.TransactionID, "TXN_"), "got %s", receipt.TransactionID)

	require.Len(t, ledger.transfers, 1)
	p := ledger.transfers[0]
	assert.True(t, p.Quantity.Equal(decimal.NewFromInt(250)))
	assert.True(t, p.ValueInINR.Equal(decimal.NewFromInt(250000)))

	// Both sides of the holding moved by the same ratio.
	h := ledger.holdings[p.UserAddress]["INR-SGB"]
	assert.True(t, h.Quantity.Equal(decimal.NewFromInt(750)))
	assert.True(t, h.ValueInINR.Equal(decimal.NewFromInt(750000)))
}

func TestDepositCollateral_FullValueMovesEverything(t *testing.T) {
	ledger := newFakeLedger()
	ledger.seed("0x47C51d53D8B03062a308887a5f49ad9Ab0eA9688", "INR-SGB", "Sovereign Gold Bonds", 1000, 1000000)
	c := newTestCoordinator(ledger)

	receipt, err := c.DepositCollateral(context.Background(), depositReq(1000000))
	require.NoError(t, err)
	assert.True(t, receipt.QuantityDeducted.Equal(decimal.NewFromInt(1000)))
}

func TestDepositCollateral_Insufficient(t *testing.T) {
	ledger := newFakeLedger()
	ledger.seed("0x47C51d53D8B03062a308887a5f49ad9Ab0eA9688", "INR-SGB", "Sovereign Gold Bonds", 1000, 1000000)
	c := newTestCoordinator(ledger)

	_, err := c.DepositCollateral(context.Background(), depositReq(1500000))
	var insErr *database.InsufficientFundsError
	require.ErrorAs(t, err, &insErr)
	assert.True(t, insErr.Available.Equal(decimal.NewFromInt(1000000)))
	assert.True(t, insErr.Requested.Equal(decimal.NewFromInt(1500000)))
	assert.Equal(t, "INR-SGB", insErr.AssetSymbol)

	// Nothing moved.
	assert.Empty(t, ledger.transfers)
	h := ledger.holdings["0x47C51d53D8B03062a308887a5f49ad9Ab0eA9688"]["INR-SGB"]
	assert.True(t, h.Quantity.Equal(decimal.NewFromInt(1000)))
	assert.True(t, h.ValueInINR.Equal(decimal.NewFromInt(1000000)))
}

func TestDepositCollateral_AssetNotFound(t *testing.T) {
	ledger := newFakeLedger()
	ledger.seed("0x47C51d53D8B03062a308887a5f49ad9Ab0eA9688", "INR-CORP", "Corporate Bonds", 500, 500000)
	c := newTestCoordinator(ledger)

	_, err := c.DepositCollateral(context.Background(), depositReq(100))
	require.ErrorIs(t, err, database.ErrAssetNotFound)
	assert.Empty(t, ledger.transfers)
}

func TestDepositCollateral_AccountNotFound(t *testing.T) {
	c := newTestCoordinator(newFakeLedger())

	_, err := c.DepositCollateral(context.Background(), depositReq(100))
	require.ErrorIs(t, err, database.ErrAccountNotFound)
}

func TestDepositCollateral_Validation(t *testing.T) {
	c := newTestCoordinator(newFakeLedger())

	_, err := c.DepositCollateral(context.Background(), DepositRequest{
		UserAddress: "",
		AssetSymbol: "INR-SGB",
		AssetName:   "",
		Quantity:    decimal.Zero,
		ValueInINR:  decimal.NewFromInt(-5),
	})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "userAddress")
	assert.Contains(t, vErr.Fields, "assetName")
	assert.Contains(t, vErr.Fields, "quantity")
	assert.Contains(t, vErr.Fields, "valueInINR")
	assert.NotContains(t, vErr.Fields, "assetSymbol")
}

func TestDepositCollateral_TransferFailurePropagates(t *testing.T) {
	ledger := newFakeLedger()
	ledger.seed("0x47C51d53D8B03062a308887a5f49ad9Ab0eA9688", "INR-SGB", "Sovereign Gold Bonds", 1000, 1000000)
	ledger.transferErr = errors.New("store unreachable")
	c := newTestCoordinator(ledger)

	_, err := c.DepositCollateral(context.Background(), depositReq(250000))
	require.Error(t, err)
	assert.EqualError(t, err, "store unreachable")
}

func TestQuantityToMove(t *testing.T) {
	cases := []struct {
		name      string
		quantity  int64
		available int64
		requested int64
		want      int64
	}{
		{"quarter", 1000, 1000000, 250000, 250},
		{"full", 1000, 1000000, 1000000, 1000},
		{"floors down", 333, 1000, 100, 33},
		{"floors to zero", 999, 1000000, 1, 0},
		{"uneven ratio", 7, 100, 50, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := QuantityToMove(decimal.NewFromInt(tc.quantity), decimal.NewFromInt(tc.available), decimal.NewFromInt(tc.requested))
			assert.True(t, got.Equal(decimal.NewFromInt(tc.want)), "got %s want %d", got, tc.want)
			assert.True(t, got.LessThanOrEqual(decimal.NewFromInt(tc.quantity)))
		})
	}
}
