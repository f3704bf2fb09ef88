package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"bazaar/internal/errors"
)

// The signature header carries a unix timestamp and one or more HMAC-SHA256
// signatures over "<timestamp>.<raw body>", e.g.
//
//	t=1719830400,v1=5257a869e7ecebeda32affa62cdca3fa51cad7e77a0e56ff536d0ce8e108d8bd
//
// The body must be the exact bytes received on the wire; any re-serialization
// before verification invalidates the check.
const (
	timestampPrefix = "t="
	signaturePrefix = "v1="
)

func verifySignature(payload []byte, header, secret string, tolerance time.Duration, now time.Time) error {
	if header == "" {
		return errors.New("missing signature header")
	}

	var timestamp int64
	var signatures [][]byte

	for part := range strings.SplitSeq(header, ",") {
		part = strings.TrimSpace(part)
		switch {
		case strings.HasPrefix(part, timestampPrefix):
			parsed, err := strconv.ParseInt(strings.TrimPrefix(part, timestampPrefix), 10, 64)
			if err != nil {
				return errors.New("malformed signature timestamp")
			}
			timestamp = parsed
		case strings.HasPrefix(part, signaturePrefix):
			decoded, err := hex.DecodeString(strings.TrimPrefix(part, signaturePrefix))
			if err != nil {
				return errors.New("malformed signature value")
			}
			signatures = append(signatures, decoded)
		}
	}

	if timestamp == 0 || len(signatures) == 0 {
		return errors.New("signature header is incomplete")
	}

	if tolerance > 0 {
		age := now.Sub(time.Unix(timestamp, 0))
		if age > tolerance || age < -tolerance {
			return errors.New("signature timestamp outside tolerance")
		}
	}

	expected := computeSignature(payload, timestamp, secret)
	for _, signature := range signatures {
		if subtle.ConstantTimeCompare(expected, signature) == 1 {
			return nil
		}
	}

	return errors.New("no signature matched")
}

func computeSignature(payload []byte, timestamp int64, secret string) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)

	return mac.Sum(nil)
}
