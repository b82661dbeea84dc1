package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/feral-file/ff-provenance/internal/adapter"
)

const signaturePrefix = "sha256="

// SignedPayload is a webhook body together with its signature headers
type SignedPayload struct {
	Body      []byte
	Signature string
	Timestamp int64
}

// Signer produces HMAC-SHA256 signatures over canonical webhook bodies
type Signer struct {
	jcs adapter.JCS
}

// NewSigner creates a signer canonicalizing bodies with the given JCS implementation
func NewSigner(jcs adapter.JCS) *Signer {
	return &Signer{jcs: jcs}
}

// Sign serializes the event as RFC 8785 canonical JSON and signs
// "{timestamp}.{event_id}.{body}" with the client's hex-encoded secret.
func (s *Signer) Sign(secret string, event WebhookEvent, timestamp int64) (*SignedPayload, error) {
	key, err := hex.DecodeString(secret)
	if err != nil {
		return nil, fmt.Errorf("failed to decode hex secret: %w", err)
	}

	raw, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}
	body, err := s.jcs.Transform(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to canonicalize event: %w", err)
	}

	return &SignedPayload{
		Body:      body,
		Signature: computeSignature(key, timestamp, event.EventID, body),
		Timestamp: timestamp,
	}, nil
}

// VerifySignature checks a signature header the way a receiving client would
func VerifySignature(secret string, timestamp int64, eventID string, body []byte, signature string) bool {
	key, err := hex.DecodeString(secret)
	if err != nil {
		return false
	}
	if !strings.HasPrefix(signature, signaturePrefix) {
		return false
	}
	expected := computeSignature(key, timestamp, eventID, body)
	return hmac.Equal([]byte(expected), []byte(signature))
}

func computeSignature(key []byte, timestamp int64, eventID string, body []byte) string {
	h := hmac.New(sha256.New, key)
	fmt.Fprintf(h, "%d.%s.", timestamp, eventID)
	h.Write(body)
	return signaturePrefix + hex.EncodeToString(h.Sum(nil))
}
