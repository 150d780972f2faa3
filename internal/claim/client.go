package claim

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"

	"github.com/tidwall/gjson"

	"questline.io/questline/internal/database"
	"questline.io/questline/pkg/errors"
)

// FetchAward loads an award definition from the detail endpoint.
func FetchAward(ctx context.Context, baseURL, awardID string) (*database.Award, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/api/awards/%s/detail", baseURL, awardID), nil)
	if err != nil {
		return nil, errors.Wrap(err, "build award detail request")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "request award detail")
	}
	defer resp.Body.Close()
	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read award detail response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("award detail responded %v: %s", resp.StatusCode, body)
	}
	var award database.Award
	if err := json.Unmarshal(body, &award); err != nil {
		return nil, errors.Wrap(err, "decode award detail")
	}
	return &award, nil
}

// httpStatusClient implements StatusClient against the award endpoints,
// authenticating with the caller's session cookie.
type httpStatusClient struct {
	baseURL       string
	sessionCookie *http.Cookie
	httpClient    *http.Client
}

func NewStatusClient(baseURL string, sessionCookie *http.Cookie) StatusClient {
	return &httpStatusClient{
		baseURL:       baseURL,
		sessionCookie: sessionCookie,
		httpClient:    http.DefaultClient,
	}
}

func (c *httpStatusClient) AwardStatus(ctx context.Context, awardID string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/api/awards/%s", c.baseURL, awardID), nil)
	if err != nil {
		return false, errors.Wrap(err, "build award status request")
	}
	if c.sessionCookie != nil {
		req.AddCookie(c.sessionCookie)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, errors.Wrap(err, "request award status")
	}
	defer resp.Body.Close()
	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return false, errors.Wrap(err, "read award status response")
	}
	if resp.StatusCode != http.StatusOK {
		return false, errors.Errorf("award status responded %v: %s", resp.StatusCode, body)
	}
	return gjson.GetBytes(body, "isCompleted").Bool(), nil
}

func (c *httpStatusClient) Redeem(ctx context.Context, awardID string) error {
	payload, err := json.Marshal(map[string]string{"awardId": awardID})
	if err != nil {
		return errors.Wrap(err, "marshal redeem request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/api/awards/%s", c.baseURL, awardID), bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "build redeem request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.sessionCookie != nil {
		req.AddCookie(c.sessionCookie)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "request award redeem")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := ioutil.ReadAll(resp.Body)
		return errors.Errorf("award redeem responded %v: %s", resp.StatusCode, body)
	}
	return nil
}
