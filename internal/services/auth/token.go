package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/mcoot/roulettegame/internal/model"
)

// IssueToken returns a signed token for the admin of the form
// adminId:timestampMillis:hexSignature
func (s *Service) IssueToken(adminID model.AdminID) string {
	payload := string(adminID) + ":" + strconv.FormatInt(s.clock.Now().UnixMilli(), 10)
	return payload + ":" + s.sign(payload)
}

// VerifyToken checks a token's signature and age. It never errors: any
// malformed, tampered or expired token simply reports false.
func (s *Service) VerifyToken(token string) (model.AdminID, bool) {
	parts := strings.Split(token, ":")
	if len(parts) != 3 {
		return "", false
	}
	adminID, timestamp, signature := parts[0], parts[1], parts[2]
	if adminID == "" || signature == "" {
		return "", false
	}

	millis, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return "", false
	}

	expected := s.sign(adminID + ":" + timestamp)
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return "", false
	}

	issuedAt := time.UnixMilli(millis)
	if s.clock.Now().Sub(issuedAt) > s.cfg.TokenTTL {
		return "", false
	}

	return model.AdminID(adminID), true
}

func (s *Service) sign(payload string) string {
	h := hmac.New(sha256.New, s.secret)
	h.Write([]byte(payload))
	return hex.EncodeToString(h.Sum(nil))
}
