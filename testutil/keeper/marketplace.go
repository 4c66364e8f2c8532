package keeper

import (
	"testing"
	"time"

	"cosmossdk.io/log"
	sdkmath "cosmossdk.io/math"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/codec"
	"github.com/cosmos/cosmos-sdk/codec/address"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	"github.com/cosmos/cosmos-sdk/runtime"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authkeeper "github.com/cosmos/cosmos-sdk/x/auth/keeper"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	bankkeeper "github.com/cosmos/cosmos-sdk/x/bank/keeper"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	govtypes "github.com/cosmos/cosmos-sdk/x/gov/types"
	minttypes "github.com/cosmos/cosmos-sdk/x/mint/types"
	"github.com/stretchr/testify/require"

	"github.com/lattice-network/lattice/x/marketplace/keeper"
	"github.com/lattice-network/lattice/x/marketplace/types"
)

// MarketplaceFixture bundles the marketplace keeper with the real bank and
// auth keepers backing it, so tests can fund accounts and check balances.
type MarketplaceFixture struct {
	Keeper        *keeper.Keeper
	Ctx           sdk.Context
	BankKeeper    bankkeeper.BaseKeeper
	AccountKeeper authkeeper.AccountKeeper
	Authority     string
}

// MarketplaceKeeper creates a test keeper for the Marketplace module backed
// by an in-memory multistore and real auth/bank keepers.
func MarketplaceKeeper(t testing.TB) MarketplaceFixture {
	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	authStoreKey := storetypes.NewKVStoreKey(authtypes.StoreKey)
	bankStoreKey := storetypes.NewKVStoreKey(banktypes.StoreKey)

	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(authStoreKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(bankStoreKey, storetypes.StoreTypeIAVL, db)
	require.NoError(t, stateStore.LoadLatestVersion())

	registry := codectypes.NewInterfaceRegistry()
	authtypes.RegisterInterfaces(registry)
	banktypes.RegisterInterfaces(registry)
	cdc := codec.NewProtoCodec(registry)
	authority := authtypes.NewModuleAddress(govtypes.ModuleName)

	maccPerms := map[string][]string{
		authtypes.FeeCollectorName: nil,
		minttypes.ModuleName:       {authtypes.Minter},
		types.ModuleName:           nil,
	}

	accountKeeper := authkeeper.NewAccountKeeper(
		cdc,
		runtime.NewKVStoreService(authStoreKey),
		authtypes.ProtoBaseAccount,
		maccPerms,
		address.NewBech32Codec(sdk.GetConfig().GetBech32AccountAddrPrefix()),
		sdk.GetConfig().GetBech32AccountAddrPrefix(),
		authority.String(),
	)

	bankKeeper := bankkeeper.NewBaseKeeper(
		cdc,
		runtime.NewKVStoreService(bankStoreKey),
		accountKeeper,
		map[string]bool{},
		authority.String(),
		log.NewNopLogger(),
	)

	k := keeper.NewKeeper(
		storeKey,
		bankKeeper,
		accountKeeper,
		authority.String(),
		nil,
	)

	ctx := sdk.NewContext(stateStore, cmtproto.Header{}, false, log.NewNopLogger()).
		WithBlockHeight(1).
		WithBlockTime(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	require.NoError(t, k.SetParams(ctx, types.DefaultParams()))

	return MarketplaceFixture{
		Keeper:        k,
		Ctx:           ctx,
		BankKeeper:    bankKeeper,
		AccountKeeper: accountKeeper,
		Authority:     authority.String(),
	}
}

// FundAccount mints coins and sends them to addr.
func (f MarketplaceFixture) FundAccount(t testing.TB, addr sdk.AccAddress, coins sdk.Coins) {
	require.NoError(t, f.BankKeeper.MintCoins(f.Ctx, minttypes.ModuleName, coins))
	require.NoError(t, f.BankKeeper.SendCoinsFromModuleToAccount(f.Ctx, minttypes.ModuleName, addr, coins))
}

// ModuleBalance returns the marketplace module account balance in denom.
func (f MarketplaceFixture) ModuleBalance(denom string) sdkmath.Int {
	moduleAddr := f.AccountKeeper.GetModuleAddress(types.ModuleName)
	return f.BankKeeper.GetBalance(f.Ctx, moduleAddr, denom).Amount
}
