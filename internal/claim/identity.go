package claim

import (
	"net/url"

	"github.com/tidwall/gjson"

	"questline.io/questline/pkg/errors"
)

// Identity is the authenticated player behind a claim flow. It is passed
// into sessions explicitly; nothing in this package reads ambient state.
type Identity struct {
	Email string
}

// ParseIdentity decodes a session cookie value: URL-encoded JSON carrying at
// least an email field.
func ParseIdentity(cookieValue string) (Identity, error) {
	decoded, err := url.QueryUnescape(cookieValue)
	if err != nil {
		return Identity{}, errors.Wrap(err, "decode session cookie")
	}
	email := gjson.Get(decoded, "email")
	if !email.Exists() || email.String() == "" {
		return Identity{}, errors.New("session cookie missing email")
	}
	return Identity{Email: email.String()}, nil
}
