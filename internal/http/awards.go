package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"questline.io/questline/internal/claim"
	"questline.io/questline/pkg/log"
)

// sessionIdentity resolves the authenticated player from the session
// cookie. Returns false after writing the response when absent or mangled.
func (s *Server) sessionIdentity(ctx *gin.Context) (claim.Identity, bool) {
	cookie, err := ctx.Cookie(s.sessionCookie)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Not authenticated"})
		return claim.Identity{}, false
	}
	identity, err := claim.ParseIdentity(cookie)
	if err != nil {
		log.Errorf("parse session cookie:%v", err)
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "Not authenticated"})
		return claim.Identity{}, false
	}
	return identity, true
}

// awardStatus reports whether the session's player has redeemed the award.
// Polled by the claim flow while its verification overlay is open.
func (s *Server) awardStatus(ctx *gin.Context) {
	identity, ok := s.sessionIdentity(ctx)
	if !ok {
		return
	}
	completed, err := s.store.HasRedeemedAward(identity.Email, ctx.Param("id"))
	if err != nil {
		log.Errorf("award status:%v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to check award status"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"isCompleted": completed})
}

// awardDetail serves the award definition a claim client renders.
func (s *Server) awardDetail(ctx *gin.Context) {
	award, err := s.store.FindAward(ctx.Param("id"))
	if err != nil {
		log.Errorf("award detail:%v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load award"})
		return
	}
	if award == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"message": "Award not found"})
		return
	}
	ctx.JSON(http.StatusOK, award)
}

type redeemAwardRequest struct {
	AwardID string `json:"awardId"`
}

// redeemAward is the self-service claim. Supervised awards never redeem
// here; they go through the verify-award scan.
func (s *Server) redeemAward(ctx *gin.Context) {
	identity, ok := s.sessionIdentity(ctx)
	if !ok {
		return
	}
	var req redeemAwardRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || req.AwardID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Missing required fields"})
		return
	}

	award, err := s.store.FindAward(ctx.Param("id"))
	if err != nil {
		s.redeemFailed(ctx, err)
		return
	}
	if award == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"message": "Award not found"})
		return
	}
	if award.IsSupervised {
		ctx.JSON(http.StatusForbidden, gin.H{"message": "Award requires supervisor verification"})
		return
	}

	player, err := s.store.FindAwardEligiblePlayer(identity.Email, award.ID)
	if err != nil {
		s.redeemFailed(ctx, err)
		return
	}
	if player == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"message": "Player not found or award already redeemed"})
		return
	}

	if err := s.store.RedeemAward(player, award, ""); err != nil {
		s.redeemFailed(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"message": "Award redeemed successfully",
		"success": true,
	})
}

// verifyAward is the supervisor scan target embedded in claim QR codes.
func (s *Server) verifyAward(ctx *gin.Context) {
	awardID := ctx.Query("awardId")
	email := ctx.Query("email")
	if awardID == "" || email == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Missing required fields"})
		return
	}

	award, err := s.store.FindAward(awardID)
	if err != nil {
		s.redeemFailed(ctx, err)
		return
	}
	if award == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"message": "Award not found"})
		return
	}

	player, err := s.store.FindAwardEligiblePlayer(email, awardID)
	if err != nil {
		s.redeemFailed(ctx, err)
		return
	}
	if player == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"message": "Player not found or award already redeemed"})
		return
	}

	// The attester is the scanning supervisor when a session is present.
	verifiedBy := ""
	if cookie, err := ctx.Cookie(s.sessionCookie); err == nil {
		if identity, err := claim.ParseIdentity(cookie); err == nil {
			verifiedBy = identity.Email
		}
	}

	if err := s.store.RedeemAward(player, award, verifiedBy); err != nil {
		s.redeemFailed(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"message": "Award verified successfully",
		"success": true,
	})
}

func (s *Server) redeemFailed(ctx *gin.Context, err error) {
	log.Errorf("award redemption:%v", err)
	ctx.JSON(http.StatusInternalServerError, gin.H{
		"message": "Failed to process award redemption",
		"success": false,
	})
}
