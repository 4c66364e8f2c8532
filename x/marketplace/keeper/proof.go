package keeper

import (
	"context"
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/lattice-network/lattice/x/marketplace/types"
)

// VerificationProof is the envelope for the default completion proof format.
// The signature covers sha256(jobID || resultRef || prover).
type VerificationProof struct {
	PublicKey []byte `json:"public_key"`
	Signature []byte `json:"signature"`
	Nonce     uint64 `json:"nonce"`
	Timestamp int64  `json:"timestamp"`
}

// Ed25519Verifier is the default ProofVerifier. It checks an Ed25519
// signature over the job settlement digest and consumes a per-provider
// nonce so a captured proof cannot be replayed.
type Ed25519Verifier struct {
	keeper *Keeper
}

// NewEd25519Verifier creates the default proof verifier bound to the keeper's
// nonce store.
func NewEd25519Verifier(k *Keeper) *Ed25519Verifier {
	return &Ed25519Verifier{keeper: k}
}

var _ types.ProofVerifier = (*Ed25519Verifier)(nil)

// Verify implements types.ProofVerifier. The nonce is consumed before the
// signature check so a rejected proof still burns its nonce.
func (v *Ed25519Verifier) Verify(ctx context.Context, jobID uint64, prover sdk.AccAddress, resultRef string, proof []byte) (bool, error) {
	if err := types.ValidateProofBytes(proof); err != nil {
		return false, types.ErrInvalidProof.Wrap(err.Error())
	}

	var envelope VerificationProof
	if err := json.Unmarshal(proof, &envelope); err != nil {
		return false, types.ErrInvalidProof.Wrapf("decode: %v", err)
	}
	if len(envelope.PublicKey) != ed25519.PublicKeySize {
		return false, types.ErrInvalidProof.Wrapf("public key must be %d bytes", ed25519.PublicKeySize)
	}
	if len(envelope.Signature) != ed25519.SignatureSize {
		return false, types.ErrInvalidProof.Wrapf("signature must be %d bytes", ed25519.SignatureSize)
	}

	if !v.keeper.consumeNonce(ctx, prover, envelope.Nonce) {
		return false, types.ErrNonceReused.Wrapf("nonce %d for %s", envelope.Nonce, prover)
	}

	message := ProofDigest(jobID, resultRef, prover)
	return ed25519.Verify(ed25519.PublicKey(envelope.PublicKey), message, envelope.Signature), nil
}

// ProofDigest computes the message a completion proof must sign.
func ProofDigest(jobID uint64, resultRef string, prover sdk.AccAddress) []byte {
	hasher := sha256.New()
	idBz := make([]byte, 8)
	binary.BigEndian.PutUint64(idBz, jobID)
	hasher.Write(idBz)
	hasher.Write([]byte(resultRef))
	hasher.Write(prover.Bytes())
	digest := hasher.Sum(nil)
	return digest
}

// consumeNonce marks a per-provider nonce as used. Returns false when the
// nonce was seen before.
func (k Keeper) consumeNonce(ctx context.Context, prover sdk.AccAddress, nonce uint64) bool {
	nonceBz := make([]byte, 8)
	binary.BigEndian.PutUint64(nonceBz, nonce)
	key := NonceKey(prover, nonceBz)

	store := k.getStore(ctx)
	if store.Has(key) {
		return false
	}
	store.Set(key, []byte{1})
	return true
}

// IsNonceUsed reports whether a proof nonce has already been consumed.
func (k Keeper) IsNonceUsed(ctx context.Context, prover sdk.AccAddress, nonce uint64) bool {
	nonceBz := make([]byte, 8)
	binary.BigEndian.PutUint64(nonceBz, nonce)
	return k.getStore(ctx).Has(NonceKey(prover, nonceBz))
}
