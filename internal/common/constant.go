package common

const (
	// EncryptedAPIKeySetting is the settings key holding the encrypted API key blob.
	EncryptedAPIKeySetting = "encryptedApiKey"

	// SessionTokenKey is the session cache key holding the decrypted API key.
	SessionTokenKey = "duread-session-token"

	// DirectionSetting is the settings key holding the preferred translation direction.
	DirectionSetting = "direction"

	// MinPassphraseLength is the shortest passphrase accepted when saving a key.
	MinPassphraseLength = 6
)
