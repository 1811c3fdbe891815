package database

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Holding statuses as stored in demat_holdings.status.
const (
	HoldingStatusActive  = "active"
	HoldingStatusPending = "pending"
	HoldingStatusFrozen  = "frozen"
)

const CustodyStatusUnderCustody = "under_custody"

// Outbox event statuses.
const (
	OutboxPending   = "PENDING"
	OutboxDelivered = "DELIVERED"
)

type HoldingEntry struct {
	AssetSymbol string          `db:"asset_symbol" json:"assetSymbol"`
	AssetName   string          `db:"asset_name" json:"assetName"`
	Quantity    decimal.Decimal `db:"quantity" json:"quantity"`
	ValueInINR  decimal.Decimal `db:"value_inr" json:"valueInINR"`
	Status      string          `db:"status" json:"status"`
	LastUpdated time.Time       `db:"last_updated" json:"lastUpdated"`
}

type UserHoldings struct {
	UserAddress        string          `db:"user_address" json:"userAddress"`
	DematAccountNumber string          `db:"demat_account_number" json:"dematAccountNumber"`
	TotalValue         decimal.Decimal `db:"total_value" json:"totalValue"`
	Holdings           []HoldingEntry  `json:"holdings"`
	UpdatedAt          time.Time       `db:"updated_at" json:"updatedAt"`
}

type CustodyAssetEntry struct {
	UserAddress string          `db:"user_address" json:"userAddress"`
	AssetSymbol string          `db:"asset_symbol" json:"assetSymbol"`
	AssetName   string          `db:"asset_name" json:"assetName"`
	Quantity    decimal.Decimal `db:"quantity" json:"quantity"`
	ValueInINR  decimal.Decimal `db:"value_inr" json:"valueInINR"`
	Status      string          `db:"status" json:"status"`
	DepositedAt time.Time       `db:"deposited_at" json:"depositedAt"`
}

type CompanyCustody struct {
	CompanyAddress          string              `db:"company_address" json:"companyAddress"`
	CustodyAccountNumber    string              `db:"custody_account_number" json:"custodyAccountNumber"`
	TotalAssetsUnderCustody decimal.Decimal     `db:"total_assets_under_custody" json:"totalAssetsUnderCustody"`
	Assets                  []CustodyAssetEntry `json:"assets"`
	UpdatedAt               time.Time           `db:"updated_at" json:"updatedAt"`
}

type OutboxEvent struct {
	ID            string          `db:"id" json:"id"`
	UserAddress   string          `db:"user_address" json:"userAddress"`
	AssetSymbol   string          `db:"asset_symbol" json:"assetSymbol"`
	Quantity      decimal.Decimal `db:"quantity" json:"quantity"`
	ValueInINR    decimal.Decimal `db:"value_inr" json:"valueInINR"`
	TransactionID string          `db:"transaction_id" json:"transactionId"`
	Status        string          `db:"status" json:"status"`
	Attempts      int             `db:"attempts" json:"attempts"`
	CreatedAt     time.Time       `db:"created_at" json:"createdAt"`
}

// Institution request phases, matching the onboarding flow.
const (
	PhaseRequested = 0
	PhaseVerified  = 1
	PhaseCancelled = 2
)

type Institution struct {
	Participant                   string          `db:"participant" json:"participant"`
	Delegetee                     string          `db:"delegetee" json:"delegetee"`
	Name                          string          `db:"name" json:"name"`
	InstitutionType               string          `db:"institution_type" json:"institutionType"`
	PrimaryJurisdiction           string          `db:"primary_jurisdiction" json:"primaryJurisdiction"`
	SelectedAssets                pq.StringArray  `db:"selected_assets" json:"selectedAssets"`
	RegistrationTimestamp         int64           `db:"registration_timestamp" json:"registrationTimestamp"`
	ContractRegistrationTimestamp decimal.Decimal `db:"contract_registration_timestamp" json:"contractRegistrationTimestamp"`
	Signature                     string          `db:"signature" json:"signature"`
	IsApproved                    bool            `db:"is_approved" json:"isApproved"`
	RequestPhase                  int             `db:"request_phase" json:"requestPhase"`
	CreatedAt                     time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt                     time.Time       `db:"updated_at" json:"updatedAt"`
}
