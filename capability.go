package fieldmap

// HashAlgo names a fingerprint algorithm.
type HashAlgo string

const (
	// HashBLAKE2b uses BLAKE2b-256.
	HashBLAKE2b HashAlgo = "blake2b"

	// HashSHA256 uses SHA-256.
	HashSHA256 HashAlgo = "sha256"

	// HashSHA512 uses SHA-512.
	HashSHA512 HashAlgo = "sha512"
)

// validHashAlgos contains all algorithms Fingerprint accepts.
var validHashAlgos = map[HashAlgo]bool{
	HashBLAKE2b: true,
	HashSHA256:  true,
	HashSHA512:  true,
}

// validMaskTypes contains all valid mask types for tag validation.
var validMaskTypes = map[MaskType]bool{
	MaskSSN:   true,
	MaskEmail: true,
	MaskPhone: true,
	MaskCard:  true,
	MaskIP:    true,
	MaskName:  true,
}

// IsValidHashAlgo returns true if the algorithm is a known hash algorithm.
func IsValidHashAlgo(algo HashAlgo) bool {
	return validHashAlgos[algo]
}

// IsValidMaskType returns true if the type is a known mask type.
func IsValidMaskType(mt MaskType) bool {
	return validMaskTypes[mt]
}
