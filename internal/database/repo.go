package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type Company struct {
	Address       string
	AccountNumber string
}

type Repo struct {
	db      *sqlx.DB
	log     *logrus.Logger
	company Company
}

func New(db *sqlx.DB, log *logrus.Logger, company Company) *Repo {
	return &Repo{db: db, log: log, company: company}
}

func (r *Repo) GetUserHoldings(ctx context.Context, userAddress string) (*UserHoldings, error) {
	var uh UserHoldings
	err := r.db.GetContext(ctx, &uh,
		`SELECT user_address, demat_account_number, total_value, updated_at FROM demat_accounts WHERE user_address = $1`,
		userAddress)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	rows, err := r.db.QueryxContext(ctx,
		`SELECT asset_symbol, asset_name, quantity, value_inr, status, last_updated FROM demat_holdings WHERE user_address = $1 ORDER BY asset_symbol ASC`,
		userAddress)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	uh.Holdings = []HoldingEntry{}
	for rows.Next() {
		var h HoldingEntry
		if err := rows.StructScan(&h); err != nil {
			r.log.Warnf("scan holding failed: %v", err)
			continue
		}
		uh.Holdings = append(uh.Holdings, h)
	}
	return &uh, nil
}

// GetHolding distinguishes a missing account from a missing asset.
func (r *Repo) GetHolding(ctx context.Context, userAddress, assetSymbol string) (*HoldingEntry, error) {
	var h HoldingEntry
	err := r.db.GetContext(ctx, &h,
		`SELECT asset_symbol, asset_name, quantity, value_inr, status, last_updated FROM demat_holdings WHERE user_address = $1 AND asset_symbol = $2`,
		userAddress, assetSymbol)
	if err == nil {
		return &h, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	var exists bool
	if err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM demat_accounts WHERE user_address = $1)`, userAddress); err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrAccountNotFound
	}
	return nil, ErrAssetNotFound
}

// DebitHolding floors at zero and does not re-check sufficiency; that is the
// caller's job.
func (r *Repo) DebitHolding(ctx context.Context, userAddress, assetSymbol string, quantity, valueInINR decimal.Decimal) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := debitHoldingTx(ctx, tx, userAddress, assetSymbol, quantity, valueInINR); err != nil {
		return err
	}
	return tx.Commit()
}

func debitHoldingTx(ctx context.Context, tx *sqlx.Tx, userAddress, assetSymbol string, quantity, valueInINR decimal.Decimal) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE demat_holdings SET quantity = GREATEST(0, quantity - $3::numeric), value_inr = GREATEST(0, value_inr - $4::numeric), last_updated = now() WHERE user_address = $1 AND asset_symbol = $2`,
		userAddress, assetSymbol, quantity.String(), valueInINR.String())
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrAssetNotFound
	}
	return recomputeTotalTx(ctx, tx, userAddress)
}

// CreditHolding is the additive counterpart of DebitHolding, used when assets
// come back out of custody or get topped up.
func (r *Repo) CreditHolding(ctx context.Context, userAddress, assetSymbol string, quantity, valueInINR decimal.Decimal) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE demat_holdings SET quantity = quantity + $3::numeric, value_inr = value_inr + $4::numeric, last_updated = now() WHERE user_address = $1 AND asset_symbol = $2`,
		userAddress, assetSymbol, quantity.String(), valueInINR.String())
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrAssetNotFound
	}
	if err := recomputeTotalTx(ctx, tx, userAddress); err != nil {
		return err
	}
	return tx.Commit()
}

func recomputeTotalTx(ctx context.Context, tx *sqlx.Tx, userAddress string) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE demat_accounts SET total_value = (SELECT COALESCE(SUM(value_inr), 0) FROM demat_holdings WHERE user_address = $1), updated_at = now() WHERE user_address = $1`,
		userAddress)
	return err
}

// CreditCustody is purely additive: calling it twice with the same arguments
// counts twice.
func (r *Repo) CreditCustody(ctx context.Context, userAddress, assetSymbol, assetName string, quantity, valueInINR decimal.Decimal) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := r.creditCustodyTx(ctx, tx, userAddress, assetSymbol, assetName, quantity, valueInINR); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *Repo) creditCustodyTx(ctx context.Context, tx *sqlx.Tx, userAddress, assetSymbol, assetName string, quantity, valueInINR decimal.Decimal) error {
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO custody_accounts (company_address, custody_account_number) VALUES ($1, $2) ON CONFLICT (company_address) DO NOTHING`,
		r.company.Address, r.company.AccountNumber); err != nil {
		return err
	}

	upsert := `INSERT INTO custody_assets (company_address, user_address, asset_symbol, asset_name, quantity, value_inr, status, deposited_at)
		VALUES ($1, $2, $3, $4, $5::numeric, $6::numeric, $7, now())
		ON CONFLICT (company_address, user_address, asset_symbol) DO UPDATE
		SET quantity = custody_assets.quantity + EXCLUDED.quantity,
		    value_inr = custody_assets.value_inr + EXCLUDED.value_inr,
		    deposited_at = now(),
		    status = EXCLUDED.status`
	if _, err := tx.ExecContext(ctx, upsert,
		r.company.Address, userAddress, assetSymbol, assetName, quantity.String(), valueInINR.String(), CustodyStatusUnderCustody); err != nil {
		return err
	}

	_, err := tx.ExecContext(ctx,
		`UPDATE custody_accounts SET total_assets_under_custody = total_assets_under_custody + $2::numeric, updated_at = now() WHERE company_address = $1`,
		r.company.Address, valueInINR.String())
	return err
}

type TransferParams struct {
	UserAddress   string
	AssetSymbol   string
	AssetName     string
	Quantity      decimal.Decimal
	ValueInINR    decimal.Decimal
	TransactionID string
}

// TransferToCustody commits the debit, the custody credit, and the bridge
// outbox record in one transaction; sufficiency is re-verified with the
// holding row locked, so racing deposits cannot over-withdraw.
func (r *Repo) TransferToCustody(ctx context.Context, p TransferParams) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var available decimal.Decimal
	err = tx.QueryRowContext(ctx,
		`SELECT value_inr FROM demat_holdings WHERE user_address = $1 AND asset_symbol = $2 FOR UPDATE`,
		p.UserAddress, p.AssetSymbol).Scan(&available)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrAssetNotFound
		}
		return err
	}
	if available.LessThan(p.ValueInINR) {
		return &InsufficientFundsError{AssetSymbol: p.AssetSymbol, Available: available, Requested: p.ValueInINR}
	}

	if err := debitHoldingTx(ctx, tx, p.UserAddress, p.AssetSymbol, p.Quantity, p.ValueInINR); err != nil {
		return err
	}
	if err := r.creditCustodyTx(ctx, tx, p.UserAddress, p.AssetSymbol, p.AssetName, p.Quantity, p.ValueInINR); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO custody_outbox (id, user_address, asset_symbol, quantity, value_inr, transaction_id, status) VALUES ($1, $2, $3, $4::numeric, $5::numeric, $6, $7)`,
		uuid.NewString(), p.UserAddress, p.AssetSymbol, p.Quantity.String(), p.ValueInINR.String(), p.TransactionID, OutboxPending); err != nil {
		return err
	}

	return tx.Commit()
}

// GetCompanyCustody reports a company with no deposits yet as an empty record.
func (r *Repo) GetCompanyCustody(ctx context.Context) (*CompanyCustody, error) {
	var cc CompanyCustody
	err := r.db.GetContext(ctx, &cc,
		`SELECT company_address, custody_account_number, total_assets_under_custody, updated_at FROM custody_accounts WHERE company_address = $1`,
		r.company.Address)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return &CompanyCustody{
			CompanyAddress:          r.company.Address,
			CustodyAccountNumber:    r.company.AccountNumber,
			TotalAssetsUnderCustody: decimal.Zero,
			Assets:                  []CustodyAssetEntry{},
			UpdatedAt:               time.Now().UTC(),
		}, nil
	}

	rows, err := r.db.QueryxContext(ctx,
		`SELECT user_address, asset_symbol, asset_name, quantity, value_inr, status, deposited_at FROM custody_assets WHERE company_address = $1 ORDER BY user_address, asset_symbol`,
		r.company.Address)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	cc.Assets = []CustodyAssetEntry{}
	for rows.Next() {
		var a CustodyAssetEntry
		if err := rows.StructScan(&a); err != nil {
			r.log.Warnf("scan custody asset failed: %v", err)
			continue
		}
		cc.Assets = append(cc.Assets, a)
	}
	return &cc, nil
}

func (r *Repo) EnsureUserAccount(ctx context.Context, userAddress, dematAccountNumber string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO demat_accounts (user_address, demat_account_number) VALUES ($1, $2) ON CONFLICT (user_address) DO NOTHING`,
		userAddress, dematAccountNumber)
	return err
}

// SeedHolding overwrites; live mutation goes through the coordinator.
func (r *Repo) SeedHolding(ctx context.Context, userAddress string, h HoldingEntry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO demat_holdings (user_address, asset_symbol, asset_name, quantity, value_inr, status, last_updated)
		 VALUES ($1, $2, $3, $4::numeric, $5::numeric, $6, now())
		 ON CONFLICT (user_address, asset_symbol) DO UPDATE
		 SET asset_name = EXCLUDED.asset_name, quantity = EXCLUDED.quantity, value_inr = EXCLUDED.value_inr, status = EXCLUDED.status, last_updated = now()`,
		userAddress, h.AssetSymbol, h.AssetName, h.Quantity.String(), h.ValueInINR.String(), h.Status); err != nil {
		return err
	}
	if err := recomputeTotalTx(ctx, tx, userAddress); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *Repo) EnsureCustodyAccount(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO custody_accounts (company_address, custody_account_number) VALUES ($1, $2) ON CONFLICT (company_address) DO NOTHING`,
		r.company.Address, r.company.AccountNumber)
	return err
}

func (r *Repo) FetchPendingOutbox(ctx context.Context, limit int) ([]OutboxEvent, error) {
	rows, err := r.db.QueryxContext(ctx,
		`SELECT id, user_address, asset_symbol, quantity, value_inr, transaction_id, status, attempts, created_at FROM custody_outbox WHERE status = $1 ORDER BY created_at ASC LIMIT $2`,
		OutboxPending, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []OutboxEvent{}
	for rows.Next() {
		var ev OutboxEvent
		if err := rows.StructScan(&ev); err != nil {
			r.log.Warnf("scan outbox event failed: %v", err)
			continue
		}
		res = append(res, ev)
	}
	return res, nil
}

func (r *Repo) MarkOutboxDelivered(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE custody_outbox SET status = $2, attempts = attempts + 1, delivered_at = now() WHERE id = $1`,
		id, OutboxDelivered)
	return err
}

func (r *Repo) BumpOutboxAttempts(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE custody_outbox SET attempts = attempts + 1 WHERE id = $1`, id)
	return err
}
