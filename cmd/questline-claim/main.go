package main

import (
	"context"
	"flag"
	"io/ioutil"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"questline.io/questline/internal/claim"
	"questline.io/questline/internal/config"
	"questline.io/questline/pkg/log"
)

const qrFileName = "verification_qr.png"

// questline-claim drives one award claim from a terminal: self-service
// awards redeem directly, supervised awards drop a QR image for a
// supervisor to scan while the session polls for confirmation.
func main() {
	awardID := flag.String("award", "", "The award id to claim")
	sessionValue := flag.String("session", "", "The session cookie value (url-encoded json with an email field)")
	config.Read()
	if *awardID == "" || *sessionValue == "" {
		log.Fatal("both -award and -session are required")
	}

	identity, err := claim.ParseIdentity(*sessionValue)
	if err != nil {
		log.Fatal(err)
	}
	baseURL := config.Global.HTTP.PublicBaseURL

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	award, err := claim.FetchAward(ctx, baseURL, *awardID)
	if err != nil {
		log.Fatal(err)
	}
	client := claim.NewStatusClient(baseURL, &http.Cookie{
		Name:  config.Global.HTTP.SessionCookie,
		Value: *sessionValue,
	})

	completed, err := client.AwardStatus(ctx, award.ID)
	if err != nil {
		log.Fatal(err)
	}
	if completed {
		log.Infof("Congratulations! You've already earned the %v award and %v points!", award.Name, award.Points)
		return
	}

	session := claim.NewSession(award, identity, baseURL, client,
		claim.WithPollInterval(config.Global.Claim.PollInterval()),
		claim.WithCelebration(func() {
			log.Infof("Congratulations! You've earned the %v award and %v points!", award.Name, award.Points)
		}),
	)
	defer session.Close()

	switch session.Activate(ctx) {
	case claim.StateCompleted:
		return
	case claim.StateIdle:
		log.Warn("Claim did not go through, try again later.")
		return
	case claim.StateAwaitingVerification:
		png, err := session.VerificationQR()
		if err != nil {
			log.Fatal(err)
		}
		if err := ioutil.WriteFile(qrFileName, png, 0644); err != nil {
			log.Fatalf("write qr image:%v", err)
		}
		log.Infof("Show %v to a supervisor to verify your award claim.", qrFileName)
		log.Infof("Verification link: %v", session.VerificationURL())
		waitForVerification(session)
	}
}

func waitForVerification(session *claim.Session) {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-interrupt:
			session.CloseOverlay()
			log.Info("Claim cancelled.")
			return
		case <-ticker.C:
			if session.State() == claim.StateCompleted {
				return
			}
		}
	}
}
