package types

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

type fingerprintInput struct {
	Policy  string        `json:"policy"`
	Profile *ProfileInput `json:"profile"`
	Job     *JobContext   `json:"job"`
}

// Fingerprint returns a hex SHA-256 digest identifying an analysis request.
// Any change to a profile field, a job field, or the policy fingerprint yields a different value.
func Fingerprint(policyFingerprint string, profile *ProfileInput, job *JobContext) (string, error) {
	data, err := json.Marshal(fingerprintInput{
		Policy:  policyFingerprint,
		Profile: profile,
		Job:     job,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode fingerprint input: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
