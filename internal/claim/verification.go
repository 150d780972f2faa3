package claim

import (
	"fmt"
	"net/url"

	qrcode "github.com/skip2/go-qrcode"

	"questline.io/questline/pkg/errors"
)

const qrImageSize = 256

// VerificationURL builds the link a supervisor's device opens to confirm an
// award claim for the given player.
func VerificationURL(baseURL, awardID, email string) string {
	params := url.Values{}
	params.Set("awardId", awardID)
	params.Set("email", email)
	return fmt.Sprintf("%s/api/admin/verify-award?%s", baseURL, params.Encode())
}

// VerificationQRCode renders the verification URL as a PNG. High recovery
// level so a battered conference-badge screen still scans.
func VerificationQRCode(verificationURL string) ([]byte, error) {
	png, err := qrcode.Encode(verificationURL, qrcode.High, qrImageSize)
	if err != nil {
		return nil, errors.WrapAndReport(err, "encode verification qr code")
	}
	return png, nil
}
