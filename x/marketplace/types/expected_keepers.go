package types

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// AccountKeeper defines the expected account keeper used for simulations (and module)
type AccountKeeper interface {
	GetAccount(ctx context.Context, addr sdk.AccAddress) sdk.AccountI
	GetModuleAddress(name string) sdk.AccAddress
}

// BankKeeper defines the expected bank keeper used for simulations (and module)
type BankKeeper interface {
	GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin
	SpendableCoins(ctx context.Context, addr sdk.AccAddress) sdk.Coins
	SendCoinsFromAccountToModule(ctx context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error
	SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error
}

// ProofVerifier checks a completion proof for a job. Implementations decide
// the proof format; the keeper treats the payload as opaque bytes.
type ProofVerifier interface {
	// Verify reports whether proof attests that prover produced resultRef
	// for the given job. A false return with nil error is a clean rejection;
	// a non-nil error means the proof could not be evaluated at all.
	Verify(ctx context.Context, jobID uint64, prover sdk.AccAddress, resultRef string, proof []byte) (bool, error)
}
