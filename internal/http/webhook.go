package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"questline.io/questline/internal/notify"
	"questline.io/questline/pkg/log"
)

type completeChallengeRequest struct {
	ChallengeID string `json:"challengeId"`
	UserEmail   string `json:"userEmail"`
}

// completeChallenge is the form webhook: an external caller (supervisor
// scan, automation) credits a challenge to a player identified by email.
// Validation → challenge lookup → eligibility lookup → one atomic commit;
// any unexpected failure collapses to a generic 500 with the cause logged
// server-side only.
func (s *Server) completeChallenge(ctx *gin.Context) {
	var req completeChallengeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Missing required fields"})
		return
	}
	if req.ChallengeID == "" || req.UserEmail == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Missing required fields"})
		return
	}

	challenge, err := s.store.FindChallenge(req.ChallengeID)
	if err != nil {
		s.webhookFailed(ctx, err)
		return
	}
	if challenge == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"message": "Challenge not found"})
		return
	}

	// Covers both an unknown email and a challenge already credited; the
	// caller is told neither.
	player, err := s.store.FindEligiblePlayer(req.UserEmail, req.ChallengeID)
	if err != nil {
		s.webhookFailed(ctx, err)
		return
	}
	if player == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"message": "Player not found or challenge already completed"})
		return
	}

	if err := s.store.CompleteChallenge(player, req.ChallengeID, nil); err != nil {
		s.webhookFailed(ctx, err)
		return
	}

	notify.ChallengeCompletedAsync(challenge.WebhookURL, notify.CompletionNotice{
		ChallengeID: challenge.ID,
		PlayerEmail: player.Email,
		CompletedAt: time.Now(),
	})

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Challenge completed successfully",
		"success": true,
	})
}

func (s *Server) webhookFailed(ctx *gin.Context, err error) {
	log.Errorf("form webhook:%v", err)
	ctx.JSON(http.StatusInternalServerError, gin.H{
		"message": "Failed to process form submission",
		"success": false,
	})
}
