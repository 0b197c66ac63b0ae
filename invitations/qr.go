package invitations

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"os"
	"strings"
)

var qrSecret = []byte(qrSecretFromEnv())

func qrSecretFromEnv() string {
	if s := os.Getenv("CHECKIN_QR_SECRET"); s != "" {
		return s
	}
	return "change_me_checkin_secret"
}

// CheckInPayload returns the signed string embedded in an invitation's
// check-in QR code: invitationID|bookingID|signature.
func CheckInPayload(invitationID, bookingID string) string {
	data := fmt.Sprintf("%s|%s", invitationID, bookingID)
	h := hmac.New(sha256.New, qrSecret)
	h.Write([]byte(data))
	sig := base64.StdEncoding.EncodeToString(h.Sum(nil))
	return fmt.Sprintf("%s|%s", data, sig)
}

// VerifyCheckInPayload validates the signature and returns the invitation and
// booking ids.
func VerifyCheckInPayload(payload string) (invitationID, bookingID string, err error) {
	parts := strings.Split(payload, "|")
	if len(parts) != 3 {
		return "", "", fmt.Errorf("malformed check-in code")
	}
	data := parts[0] + "|" + parts[1]
	h := hmac.New(sha256.New, qrSecret)
	h.Write([]byte(data))
	want := base64.StdEncoding.EncodeToString(h.Sum(nil))
	if !hmac.Equal([]byte(want), []byte(parts[2])) {
		return "", "", fmt.Errorf("invalid check-in code signature")
	}
	return parts[0], parts[1], nil
}
