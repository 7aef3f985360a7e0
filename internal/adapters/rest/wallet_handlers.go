package rest

import (
	"ReferralHub/internal/core/domain"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (s *Server) getMyLedger(c *gin.Context) {
	ledger, err := s.wallet.GetMyLedger(c.Request.Context(), mustActor(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newLedgerResponse(ledger))
}

func (s *Server) requestWithdrawal(c *gin.Context) {
	var req withdrawRequest
	if !s.bindJSON(c, &req) {
		return
	}

	currency, err := domain.ParseCurrency(req.Currency)
	if err != nil {
		s.writeError(c, err)
		return
	}

	w, err := s.wallet.RequestWithdrawal(c.Request.Context(), mustActor(c), domain.WithdrawalRequest{
		Amount:   req.Amount.Decimal,
		Currency: currency,
		BankDetails: domain.BankDetails{
			AccountHolderName: req.BankDetails.AccountHolderName,
			BankName:          req.BankDetails.BankName,
			AccountNumber:     req.BankDetails.AccountNumber,
			RoutingNumber:     req.BankDetails.RoutingNumber,
			IBAN:              req.BankDetails.IBAN,
			SwiftCode:         req.BankDetails.SwiftCode,
		},
	})
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Withdrawal request submitted successfully",
		"withdrawal": newWithdrawalResponse(w),
	})
}

func (s *Server) listMyWithdrawals(c *gin.Context) {
	list, err := s.wallet.ListMyWithdrawals(c.Request.Context(), mustActor(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newWithdrawalList(list))
}

func (s *Server) getWithdrawal(c *gin.Context) {
	id, ok := s.pathID(c)
	if !ok {
		return
	}
	w, err := s.wallet.GetWithdrawal(c.Request.Context(), mustActor(c), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newWithdrawalResponse(w))
}

func (s *Server) listAllWithdrawals(c *gin.Context) {
	var filter domain.WithdrawalFilter

	if raw := c.Query("status"); raw != "" {
		status, err := domain.ParseWithdrawalStatus(raw)
		if err != nil {
			s.writeError(c, err)
			return
		}
		filter.Status = &status
	}
	if raw := c.Query("userId"); raw != "" {
		userID, err := uuid.Parse(raw)
		if err != nil {
			s.writeError(c, domain.NewValidationError("userId", "Must be a valid ID"))
			return
		}
		filter.UserID = &userID
	}

	list, err := s.wallet.ListAllWithdrawals(c.Request.Context(), mustActor(c), filter)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newWithdrawalList(list))
}

func (s *Server) reviewWithdrawal(c *gin.Context) {
	id, ok := s.pathID(c)
	if !ok {
		return
	}
	var req reviewRequest
	if !s.bindJSON(c, &req) {
		return
	}
	status, err := domain.ParseWithdrawalStatus(req.Status)
	if err != nil {
		s.writeError(c, err)
		return
	}

	w, err := s.wallet.ReviewWithdrawal(c.Request.Context(), mustActor(c), domain.Review{
		WithdrawalID: id,
		Status:       status,
		AdminNotes:   req.AdminNotes,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Withdrawal " + string(w.Status) + " successfully",
		"withdrawal": newWithdrawalResponse(w),
	})
}

func (s *Server) adjustBalance(c *gin.Context) {
	var req adjustBalanceRequest
	if !s.bindJSON(c, &req) {
		return
	}

	verr := &domain.ValidationError{}
	currency, err := domain.ParseCurrency(req.Currency)
	if err != nil {
		verr.Add("currency", "Invalid currency")
	}
	op, err := domain.ParseBalanceOperation(req.Operation)
	if err != nil {
		verr.Add("operation", "Invalid operation")
	}
	if err := verr.OrNil(); err != nil {
		s.writeError(c, err)
		return
	}

	ledger, err := s.wallet.AdjustBalance(c.Request.Context(), mustActor(c), domain.BalanceAdjustment{
		UserID:    uuid.MustParse(req.UserID),
		Currency:  currency,
		Amount:    req.Amount.Decimal,
		Operation: op,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Balance updated successfully",
		"wallet":  newLedgerResponse(ledger),
	})
}

func (s *Server) getUserLedger(c *gin.Context) {
	id, ok := s.pathID(c)
	if !ok {
		return
	}
	ledger, err := s.wallet.GetUserLedger(c.Request.Context(), mustActor(c), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newLedgerResponse(ledger))
}

// pathID parses :id, answering 404 for anything that is not a UUID.
func (s *Server) pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		s.writeError(c, domain.ErrNotFound)
		return uuid.Nil, false
	}
	return id, true
}
