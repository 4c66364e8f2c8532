package keeper

import (
	"context"
	"encoding/binary"
	"encoding/json"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/lattice-network/lattice/x/marketplace/types"
)

// Keeper of the marketplace store. The module account is the escrow vault;
// all locked payments and node stakes live on its balance.
type Keeper struct {
	storeKey      storetypes.StoreKey
	bankKeeper    types.BankKeeper
	accountKeeper types.AccountKeeper
	authority     string

	// verifier checks completion proofs for jobs that require one.
	// Nil disables proof checking entirely.
	verifier types.ProofVerifier

	hooks   types.MarketplaceHooks
	metrics *MarketplaceMetrics
}

type kvStoreProvider interface {
	KVStore(key storetypes.StoreKey) storetypes.KVStore
}

// NewKeeper creates a new marketplace Keeper instance
func NewKeeper(
	key storetypes.StoreKey,
	bankKeeper types.BankKeeper,
	accountKeeper types.AccountKeeper,
	authority string,
	verifier types.ProofVerifier,
) *Keeper {
	return &Keeper{
		storeKey:      key,
		bankKeeper:    bankKeeper,
		accountKeeper: accountKeeper,
		authority:     authority,
		verifier:      verifier,
		metrics:       NewMarketplaceMetrics(),
	}
}

// GetAuthority returns the module's authority address
func (k Keeper) GetAuthority() string {
	return k.authority
}

// SetHooks sets the marketplace hooks. Panics on double registration,
// matching the SDK staking keeper convention.
func (k *Keeper) SetHooks(h types.MarketplaceHooks) {
	if k.hooks != nil {
		panic("cannot set marketplace hooks twice")
	}
	k.hooks = h
}

// SetVerifier replaces the proof verifier. Intended for wiring at app
// construction and for test stubs.
func (k *Keeper) SetVerifier(v types.ProofVerifier) {
	k.verifier = v
}

// getStore returns the KVStore for the marketplace module
func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	if provider, ok := ctx.(kvStoreProvider); ok {
		return provider.KVStore(k.storeKey)
	}

	unwrapped := sdk.UnwrapSDKContext(ctx)
	return unwrapped.KVStore(k.storeKey)
}

// setJSON marshals value and writes it under key.
func (k Keeper) setJSON(ctx context.Context, key []byte, value interface{}) error {
	bz, err := json.Marshal(value)
	if err != nil {
		return types.ErrStorageFailed.Wrapf("marshal: %v", err)
	}
	k.getStore(ctx).Set(key, bz)
	return nil
}

// getJSON reads key and unmarshals it into out. Returns false when the key
// is absent.
func (k Keeper) getJSON(ctx context.Context, key []byte, out interface{}) (bool, error) {
	bz := k.getStore(ctx).Get(key)
	if bz == nil {
		return false, nil
	}
	if err := json.Unmarshal(bz, out); err != nil {
		return false, types.ErrStorageFailed.Wrapf("unmarshal: %v", err)
	}
	return true, nil
}

// unmarshalRecord decodes a stored JSON record during iteration.
func unmarshalRecord(bz []byte, out interface{}) error {
	if err := json.Unmarshal(bz, out); err != nil {
		return types.ErrStorageFailed.Wrapf("unmarshal: %v", err)
	}
	return nil
}

// getCounter reads a big-endian uint64 counter, defaulting to fallback when unset.
func (k Keeper) getCounter(ctx context.Context, key []byte, fallback uint64) uint64 {
	bz := k.getStore(ctx).Get(key)
	if bz == nil {
		return fallback
	}
	return binary.BigEndian.Uint64(bz)
}

// setCounter writes a big-endian uint64 counter.
func (k Keeper) setCounter(ctx context.Context, key []byte, value uint64) {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, value)
	k.getStore(ctx).Set(key, bz)
}
