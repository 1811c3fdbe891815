package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"assetrail/internal/database"
	"assetrail/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Store covers everything outside the deposit path, which goes through the
// coordinator.
type Store interface {
	GetUserHoldings(ctx context.Context, userAddress string) (*database.UserHoldings, error)
	GetCompanyCustody(ctx context.Context) (*database.CompanyCustody, error)
	CreateInstitution(ctx context.Context, inst *database.Institution) error
	ListInstitutions(ctx context.Context) ([]database.Institution, error)
	GetInstitution(ctx context.Context, participant string) (*database.Institution, error)
	UpdateInstitution(ctx context.Context, participant string, isApproved *bool, requestPhase *int) error
}

type Handler struct {
	store Store
	svc   *service.Coordinator
	log   *logrus.Logger
}

func NewHandler(store Store, svc *service.Coordinator, log *logrus.Logger) *Handler {
	return &Handler{store: store, svc: svc, log: log}
}

type DepositRequest struct {
	UserAddress string          `json:"userAddress"`
	AssetSymbol string          `json:"assetSymbol"`
	AssetName   string          `json:"assetName"`
	Quantity    decimal.Decimal `json:"quantity"`
	ValueInINR  decimal.Decimal `json:"valueInINR"`
}

func (h *Handler) DepositCollateral(c *gin.Context) {
	var req DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("invalid deposit body: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	receipt, err := h.svc.DepositCollateral(c.Request.Context(), service.DepositRequest{
		UserAddress: req.UserAddress,
		AssetSymbol: req.AssetSymbol,
		AssetName:   req.AssetName,
		Quantity:    req.Quantity,
		ValueInINR:  req.ValueInINR,
	})
	if err != nil {
		h.renderDepositError(c, req, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"message":          "Asset deposited successfully",
		"transactionId":    receipt.TransactionID,
		"depositedAmount":  receipt.DepositedAmount,
		"assetSymbol":      receipt.AssetSymbol,
		"quantityDeducted": receipt.QuantityDeducted,
	})
}

func (h *Handler) renderDepositError(c *gin.Context, req DepositRequest, err error) {
	var vErr *service.ValidationError
	var insErr *database.InsufficientFundsError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields", "fields": vErr.Fields})
	case errors.As(err, &insErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":       "Insufficient holdings",
			"available":   insErr.Available,
			"requested":   insErr.Requested,
			"assetSymbol": insErr.AssetSymbol,
		})
	case errors.Is(err, database.ErrAccountNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User holdings not found"})
	case errors.Is(err, database.ErrAssetNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Asset %s not found in user holdings", req.AssetSymbol)})
	default:
		h.log.Errorf("deposit collateral failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func (h *Handler) GetUserDematHoldings(c *gin.Context) {
	address := c.Query("address")
	if address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Address parameter is required"})
		return
	}

	holdings, err := h.store.GetUserHoldings(c.Request.Context(), address)
	if err != nil {
		if errors.Is(err, database.ErrAccountNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User demat holdings not found"})
			return
		}
		h.log.Errorf("get user demat holdings failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, holdings)
}

func (h *Handler) GetCompanyCustody(c *gin.Context) {
	custody, err := h.store.GetCompanyCustody(c.Request.Context())
	if err != nil {
		h.log.Errorf("get company custody failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, custody)
}

func (h *Handler) GetAvailableCountries(c *gin.Context) {
	c.JSON(http.StatusOK, service.AvailableCountries())
}

func (h *Handler) GetAssetsByCountry(c *gin.Context) {
	code := c.Query("country")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Country parameter is required"})
		return
	}
	assets, ok := service.AssetsByCountry(code)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Country %s is not supported", code)})
		return
	}
	c.JSON(http.StatusOK, assets)
}

type CreateInstitutionRequest struct {
	Participant                   string          `json:"participant" binding:"required"`
	Delegetee                     string          `json:"delegetee" binding:"required"`
	Name                          string          `json:"name" binding:"required"`
	InstitutionType               string          `json:"institutionType" binding:"required"`
	PrimaryJurisdiction           string          `json:"primaryJurisdiction" binding:"required"`
	SelectedAssets                []string        `json:"selectedAssets" binding:"required"`
	RegistrationTimestamp         int64           `json:"registrationTimestamp" binding:"required"`
	ContractRegistrationTimestamp decimal.Decimal `json:"contractRegistrationTimestamp"`
	Signature                     string          `json:"signature" binding:"required"`
}

func (h *Handler) CreateInstitution(c *gin.Context) {
	var req CreateInstitutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("invalid institution body: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	inst := &database.Institution{
		Participant:                   req.Participant,
		Delegetee:                     req.Delegetee,
		Name:                          req.Name,
		InstitutionType:               req.InstitutionType,
		PrimaryJurisdiction:           req.PrimaryJurisdiction,
		SelectedAssets:                pq.StringArray(req.SelectedAssets),
		RegistrationTimestamp:         req.RegistrationTimestamp,
		ContractRegistrationTimestamp: req.ContractRegistrationTimestamp,
		Signature:                     req.Signature,
	}
	if err := h.store.CreateInstitution(c.Request.Context(), inst); err != nil {
		if errors.Is(err, database.ErrInstitutionExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "Institution already registered"})
			return
		}
		h.log.Errorf("create institution failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create institution"})
		return
	}
	c.JSON(http.StatusCreated, inst)
}

func (h *Handler) ListInstitutions(c *gin.Context) {
	institutions, err := h.store.ListInstitutions(c.Request.Context())
	if err != nil {
		h.log.Errorf("list institutions failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch institutions"})
		return
	}
	c.JSON(http.StatusOK, institutions)
}

func (h *Handler) GetInstitution(c *gin.Context) {
	participant := c.Param("participant")
	inst, err := h.store.GetInstitution(c.Request.Context(), participant)
	if err != nil {
		if errors.Is(err, database.ErrInstitutionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Institution not found"})
			return
		}
		h.log.Errorf("get institution failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, inst)
}

type UpdateInstitutionRequest struct {
	IsApproved   *bool `json:"isApproved"`
	RequestPhase *int  `json:"requestPhase"`
}

func (h *Handler) UpdateInstitution(c *gin.Context) {
	participant := c.Param("participant")
	var req UpdateInstitutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.IsApproved == nil && req.RequestPhase == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
		return
	}

	if err := h.store.UpdateInstitution(c.Request.Context(), participant, req.IsApproved, req.RequestPhase); err != nil {
		if errors.Is(err, database.ErrInstitutionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Institution not found"})
			return
		}
		h.log.Errorf("update institution failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
