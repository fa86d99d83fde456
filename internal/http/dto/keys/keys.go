// Package keys contiene los DTOs de la API de provisioning de claves.
package keys

// CreateKeyRequest is the optional body for key provisioning. When
// keyId is empty a random one is generated.
type CreateKeyRequest struct {
	KeyID string `json:"keyId"`
}

// CreateKeyResponse describes a freshly provisioned key. Only public
// material is ever returned.
type CreateKeyResponse struct {
	KeyID     string `json:"keyId"`
	Algorithm string `json:"algorithm"`
	PublicKey string `json:"publicKey"`
}
