package line

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"

	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
)

// SignatureHeader carries the webhook HMAC computed by LINE.
const SignatureHeader = "X-Line-Signature"

// ComputeSignature returns base64(HMAC-SHA256(channelSecret, body)), the
// value LINE puts in SignatureHeader.
func ComputeSignature(channelSecret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(channelSecret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks signature against the raw, undecoded request body.
// The header must be canonical base64: the SDK decoder ignores the unused
// trailing bits, which would let some single-bit changes through.
func VerifySignature(channelSecret string, body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	if _, err := base64.StdEncoding.Strict().DecodeString(signature); err != nil {
		return false
	}
	return webhook.ValidateSignature(channelSecret, signature, body)
}
