package notify

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"time"

	"questline.io/questline/pkg/errors"
	"questline.io/questline/pkg/log"
)

// CompletionNotice is the payload posted to a challenge's configured
// webhook after a player is credited.
type CompletionNotice struct {
	ChallengeID string    `json:"challenge_id"`
	PlayerEmail string    `json:"player_email"`
	CompletedAt time.Time `json:"completed_at"`
}

// ChallengeCompleted posts the notice to webhookURL. Callers treat delivery
// as best-effort; the completion itself is already committed.
func ChallengeCompleted(webhookURL string, notice CompletionNotice) error {
	body, err := json.Marshal(notice)
	if err != nil {
		return errors.Wrap(err, "marshal completion notice")
	}
	resp, err := http.Post(webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return errors.WrapAndReport(err, "post completion notice")
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := ioutil.ReadAll(resp.Body)
		return errors.ErrorfAndReport("completion webhook responded %v: %s", resp.StatusCode, respBody)
	}
	return nil
}

// ChallengeCompletedAsync fires ChallengeCompleted on its own goroutine and
// only logs failures.
func ChallengeCompletedAsync(webhookURL string, notice CompletionNotice) {
	if webhookURL == "" {
		return
	}
	go func() {
		if err := ChallengeCompleted(webhookURL, notice); err != nil {
			log.Errorf("notify challenge webhook:%v", err)
		}
	}()
}
