package sui

import (
	"crypto/ed25519"
	"encoding/base64"

	"golang.org/x/crypto/blake2b"
)

// intentTransaction is the intent prefix for a transaction signed in the Sui
// app context: scope TransactionData, version V0, app Sui.
var intentTransaction = [3]byte{0, 0, 0}

// TransactionDigestToSign returns blake2b-256(intent || txBytes).
func TransactionDigestToSign(txBytes []byte) [32]byte {
	msg := make([]byte, 0, len(intentTransaction)+len(txBytes))
	msg = append(msg, intentTransaction[:]...)
	msg = append(msg, txBytes...)
	return blake2b.Sum256(msg)
}

// SignTransaction signs BCS transaction bytes and returns the serialized
// signature (base64 of flag || sig || pubkey) expected by
// sui_executeTransactionBlock.
func (k *Keypair) SignTransaction(txBytes []byte) string {
	digest := TransactionDigestToSign(txBytes)
	sig := ed25519.Sign(k.priv, digest[:])

	out := make([]byte, 0, 1+ed25519.SignatureSize+ed25519.PublicKeySize)
	out = append(out, SchemeEd25519)
	out = append(out, sig...)
	out = append(out, k.pub...)
	return base64.StdEncoding.EncodeToString(out)
}
