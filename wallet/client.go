package wallet

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"github.com/tangleline/tangleline-go-sdk/types"
	"github.com/tangleline/tangleline-go-sdk/util"
	"github.com/tangleline/tangleline-go-sdk/wallet/storage"
	"github.com/tangleline/tangleline-go-sdk/wallet/stronghold"
)

// ErrEmptyBurn is returned when a transaction is requested for a Burn
// which names nothing to destroy.
var ErrEmptyBurn = errors.New("burn request is empty")

// DefaultLedgerParameters is used when the client is constructed
// without explicit ledger parameters.
var DefaultLedgerParameters = LedgerParameters{
	NetworkID:         1,
	Bech32HRP:         "tgl",
	RentParameters:    types.RentParameters{StorageCost: 100, StorageOffset: 10},
	SlotParameters:    types.SlotParameters{GenesisTimestamp: 1696845480, SlotDuration: 10},
	MinCommittableAge: 10,
	MaxCommittableAge: 20,
}

type (
	// Client is the wallet handle built from a Config. Construction
	// performs no network or disk I/O, the local store and the secret
	// snapshot are touched on first use.
	Client struct {
		cfg    *Config
		params LedgerParameters
		log    *zap.Logger

		mu      sync.Mutex
		store   *storage.Store
		secrets *stronghold.SecretManager
	}

	Option func(*Client)

	// PreparedBurn is the validated transaction intent for a Burn: the
	// wallet outputs the transaction will consume. Signing and
	// submission are separate steps.
	PreparedBurn struct {
		Burn   *Burn            `json:"burn"`
		Inputs []types.OutputID `json:"inputs"`
	}
)

func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

func WithLedgerParameters(params LedgerParameters) Option {
	return func(c *Client) { c.params = params }
}

// NewClient validates the configuration record and returns the wallet
// handle.
func NewClient(cfg *Config, opts ...Option) (*Client, error) {
	if err := cfg.IsValid(); err != nil {
		return nil, err
	}
	c := &Client{cfg: cfg, params: DefaultLedgerParameters, log: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewClientFromEnv is the bootstrap helper: it validates the presence
// of the required environment keys and constructs the client from
// them. The first missing key fails the bootstrap with a ConfigError
// naming it, before any construction is attempted.
func NewClientFromEnv(opts ...Option) (*Client, error) {
	cfg, err := ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	return NewClient(cfg, opts...)
}

func (c *Client) Config() *Config { return c.cfg }

func (c *Client) NodeURL() string { return c.cfg.NodeURL }

// Store returns the local wallet store, opening it on first use.
func (c *Client) Store() (*storage.Store, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		store, err := storage.Open(c.cfg.StoragePath, c.log)
		if err != nil {
			return nil, err
		}
		c.store = store
	}
	return c.store, nil
}

// SecretManager unseals the stronghold snapshot, creating it from the
// configured mnemonic when no snapshot exists yet.
func (c *Client) SecretManager() (*stronghold.SecretManager, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.secrets != nil {
		return c.secrets, nil
	}
	path := c.cfg.StrongholdSnapshotPath
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		c.log.Info("creating stronghold snapshot", zap.String("path", path))
		if err := stronghold.Write(path, c.cfg.StrongholdPassword, c.cfg.Mnemonic); err != nil {
			return nil, err
		}
	}
	secrets, err := stronghold.Open(path, c.cfg.StrongholdPassword)
	if err != nil {
		return nil, err
	}
	c.secrets = secrets
	return secrets, nil
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.secrets != nil {
		c.secrets.Zero()
		c.secrets = nil
	}
	if c.store != nil {
		err := c.store.Close()
		c.store = nil
		return err
	}
	return nil
}

func accountKey(alias string) []byte {
	return []byte("account/" + alias)
}

// Account loads the named account from the local store.
func (c *Client) Account(alias string) (*Account, error) {
	store, err := c.Store()
	if err != nil {
		return nil, err
	}
	details := &AccountDetails{}
	if err := store.Get(accountKey(alias), details); err != nil {
		return nil, fmt.Errorf("loading account %q: %w", alias, err)
	}
	return NewAccount(details, c.params, c.log)
}

// SaveAccount persists the account details into the local store.
func (c *Client) SaveAccount(details *AccountDetails) error {
	store, err := c.Store()
	if err != nil {
		return err
	}
	return store.Set(accountKey(details.Alias), details)
}

/*
PrepareBurn validates the burn request against the account's unspent
outputs and returns the transaction intent consuming the outputs that
hold the objects to destroy. It fails when a referenced account, NFT
or foundry is not held by the wallet, or when a requested token amount
exceeds the available balance.
*/
func (c *Client) PrepareBurn(account *Account, burn *Burn) (*PreparedBurn, error) {
	if burn.IsEmpty() {
		return nil, ErrEmptyBurn
	}
	c.log.Debug("preparing burn transaction",
		zap.Int("accounts", len(burn.Accounts)),
		zap.Int("nfts", len(burn.NFTs)),
		zap.Int("foundries", len(burn.Foundries)),
		zap.Int("nativeTokens", len(burn.NativeTokens)),
	)

	inputs := map[types.OutputID]bool{}

	for _, id := range burn.Accounts {
		outputID, err := account.findAccountOutput(id)
		if err != nil {
			return nil, err
		}
		inputs[outputID] = true
	}
	for _, id := range burn.NFTs {
		outputID, err := account.findNFTOutput(id)
		if err != nil {
			return nil, err
		}
		inputs[outputID] = true
	}
	for _, id := range burn.Foundries {
		outputID, err := account.findFoundryOutput(id)
		if err != nil {
			return nil, err
		}
		inputs[outputID] = true
	}

	if len(burn.NativeTokens) > 0 {
		balance, err := account.Balance()
		if err != nil {
			return nil, err
		}
		for _, tokenID := range sortedBurnTokenIDs(burn) {
			amount := burn.NativeTokens[tokenID]
			if amount == nil || amount.IsZero() {
				return nil, fmt.Errorf("burn amount for token %s must not be zero", tokenID)
			}
			available := balance.availableTokens(tokenID)
			if available.Lt(amount) {
				return nil, fmt.Errorf("burn amount %s of token %s exceeds available balance %s", amount, tokenID, available)
			}
			for _, outputID := range account.outputsHoldingToken(tokenID) {
				inputs[outputID] = true
			}
		}
	}

	ids := make([]types.OutputID, 0, len(inputs))
	for id := range inputs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Compare(ids[j]) < 0 })
	return &PreparedBurn{Burn: burn, Inputs: ids}, nil
}

func (b *Balance) availableTokens(id types.NativeTokenID) *uint256.Int {
	for i := range b.NativeTokens {
		if b.NativeTokens[i].TokenID.Eq(id) {
			return b.NativeTokens[i].Available
		}
	}
	return uint256.NewInt(0)
}

func sortedBurnTokenIDs(burn *Burn) []types.NativeTokenID {
	ids := make([]types.NativeTokenID, 0, len(burn.NativeTokens))
	for id := range burn.NativeTokens {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return string(ids[i][:]) < string(ids[j][:]) })
	return ids
}

func (a *Account) findAccountOutput(id types.AccountID) (types.OutputID, error) {
	for outputID, rec := range a.details.UnspentOutputs {
		if out, ok := rec.Output.(*types.AccountOutput); ok && out.AccountIDNonEmpty(outputID).Eq(id) {
			return outputID, nil
		}
	}
	return types.OutputID{}, fmt.Errorf("account %s is not held by the wallet", id)
}

func (a *Account) findNFTOutput(id types.NFTID) (types.OutputID, error) {
	for outputID, rec := range a.details.UnspentOutputs {
		if out, ok := rec.Output.(*types.NFTOutput); ok && out.NFTIDNonEmpty(outputID).Eq(id) {
			return outputID, nil
		}
	}
	return types.OutputID{}, fmt.Errorf("NFT %s is not held by the wallet", id)
}

func (a *Account) findFoundryOutput(id types.FoundryID) (types.OutputID, error) {
	for outputID, rec := range a.details.UnspentOutputs {
		out, ok := rec.Output.(*types.FoundryOutput)
		if !ok {
			continue
		}
		foundryID, err := out.ID()
		if err != nil {
			continue
		}
		if foundryID.Eq(id) {
			return outputID, nil
		}
	}
	return types.OutputID{}, fmt.Errorf("foundry %s is not held by the wallet", id)
}

// outputsHoldingToken returns the IDs of unspent outputs carrying the
// given native token class.
func (a *Account) outputsHoldingToken(id types.NativeTokenID) []types.OutputID {
	var recs []OutputRecord
	for _, rec := range a.details.UnspentOutputs {
		for _, token := range rec.Output.Tokens() {
			if token.ID.Eq(id) {
				recs = append(recs, rec)
				break
			}
		}
	}
	return util.TransformSlice(recs, func(r OutputRecord) types.OutputID { return r.OutputID })
}
