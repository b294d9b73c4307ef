package sui

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcutil/bech32"
	"golang.org/x/crypto/blake2b"
)

// SchemeEd25519 is the signature scheme flag Sui prefixes to Ed25519 keys,
// signatures and address preimages.
const SchemeEd25519 byte = 0x00

// PrivateKeyHRP is the Bech32 prefix of keys exported by `sui keytool`.
const PrivateKeyHRP = "suiprivkey"

// ErrInvalidSecret is returned for secrets that decode to anything other than
// a 32-byte Ed25519 seed.
var ErrInvalidSecret = errors.New("sui: invalid secret key")

// Keypair is an Ed25519 signing key with its derived Sui address.
type Keypair struct {
	priv    ed25519.PrivateKey
	pub     ed25519.PublicKey
	address string
}

// KeypairFromSeed builds a keypair from a 32-byte seed.
func KeypairFromSeed(seed []byte) (*Keypair, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("%w: want %d bytes, got %d", ErrInvalidSecret, ed25519.SeedSize, len(seed))
	}
	priv := ed25519.NewKeyFromSeed(seed)
	pub := priv.Public().(ed25519.PublicKey)
	return &Keypair{priv: priv, pub: pub, address: AddressFromPublicKey(pub)}, nil
}

// ParseSecret accepts the encodings in circulation for a Sui Ed25519 key:
//   - Bech32 "suiprivkey1..." (flag byte + 32-byte seed)
//   - base64 of the raw 32-byte seed
//   - base64 of flag byte 0x00 + 32-byte seed (keystore form)
func ParseSecret(secret string) (*Keypair, error) {
	s := strings.TrimSpace(secret)
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidSecret)
	}

	if strings.HasPrefix(strings.ToLower(s), PrivateKeyHRP+"1") {
		hrp, data, err := bech32.Decode(s)
		if err != nil {
			return nil, fmt.Errorf("%w: bech32: %v", ErrInvalidSecret, err)
		}
		if hrp != PrivateKeyHRP {
			return nil, fmt.Errorf("%w: unexpected prefix %q", ErrInvalidSecret, hrp)
		}
		raw, err := bech32.ConvertBits(data, 5, 8, false)
		if err != nil {
			return nil, fmt.Errorf("%w: bech32 bits: %v", ErrInvalidSecret, err)
		}
		return fromFlagged(raw)
	}

	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: base64: %v", ErrInvalidSecret, err)
	}
	switch len(raw) {
	case ed25519.SeedSize:
		return KeypairFromSeed(raw)
	case ed25519.SeedSize + 1:
		return fromFlagged(raw)
	default:
		return nil, fmt.Errorf("%w: want 32 or 33 bytes, got %d", ErrInvalidSecret, len(raw))
	}
}

func fromFlagged(raw []byte) (*Keypair, error) {
	if len(raw) != ed25519.SeedSize+1 {
		return nil, fmt.Errorf("%w: want 33 bytes, got %d", ErrInvalidSecret, len(raw))
	}
	if raw[0] != SchemeEd25519 {
		return nil, fmt.Errorf("%w: unsupported scheme flag 0x%02x", ErrInvalidSecret, raw[0])
	}
	return KeypairFromSeed(raw[1:])
}

// EncodePrivateKey renders a 32-byte seed in the Bech32 "suiprivkey" form.
func EncodePrivateKey(seed []byte) (string, error) {
	if len(seed) != ed25519.SeedSize {
		return "", fmt.Errorf("%w: want %d bytes, got %d", ErrInvalidSecret, ed25519.SeedSize, len(seed))
	}
	conv, err := bech32.ConvertBits(append([]byte{SchemeEd25519}, seed...), 8, 5, true)
	if err != nil {
		return "", err
	}
	return bech32.Encode(PrivateKeyHRP, conv)
}

// Address returns the 0x-prefixed Sui address of the key.
func (k *Keypair) Address() string { return k.address }

// PublicKey returns the Ed25519 public key.
func (k *Keypair) PublicKey() ed25519.PublicKey { return k.pub }

// AddressFromPublicKey derives a Sui address: blake2b-256(flag || pubkey).
func AddressFromPublicKey(pub ed25519.PublicKey) string {
	h := blake2b.Sum256(append([]byte{SchemeEd25519}, pub...))
	return "0x" + hex.EncodeToString(h[:])
}

// NormalizeAddress validates a 0x-prefixed hex address of at most 32 bytes
// and returns it lower-cased and left-padded to 64 hex digits.
func NormalizeAddress(addr string) (string, error) {
	a := strings.ToLower(strings.TrimSpace(addr))
	if !strings.HasPrefix(a, "0x") {
		return "", fmt.Errorf("sui: address %q: missing 0x prefix", addr)
	}
	h := a[2:]
	if h == "" || len(h) > 64 {
		return "", fmt.Errorf("sui: address %q: want 1..64 hex digits", addr)
	}
	for _, r := range h {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'f') {
			return "", fmt.Errorf("sui: address %q: non-hex character", addr)
		}
	}
	return "0x" + strings.Repeat("0", 64-len(h)) + h, nil
}
