package test

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github/chapool/web3-hd/internal/wallet/chain"
	"github/chapool/web3-hd/internal/wallet/errs"
	"github/chapool/web3-hd/internal/wallet/provider"
)

// Defaults used by MockProvider fee queries.
var (
	MockChainID = big.NewInt(1)
	MockBaseFee = big.NewInt(10_000_000_000)
	MockTip     = big.NewInt(1_000_000_000)
)

// MockProvider is an in-memory provider.ChainProvider. Balances are keyed by the
// 20 byte account, token balances by token then owner. It counts every call so
// tests can assert that no request reached the network.
type MockProvider struct {
	mu sync.Mutex

	balances      map[common.Address]*big.Int
	tokenBalances map[common.Address]map[common.Address]*big.Int
	delays        map[common.Address]time.Duration
	failures      map[common.Address]error
	nonces        map[common.Address]uint64

	sent          []*types.Transaction
	receiptStatus uint64
	afterBaseFee  func()
	calls         int
	closed        bool
}

var _ provider.ChainProvider = (*MockProvider)(nil)

func NewMockProvider() *MockProvider {
	return &MockProvider{
		balances:      make(map[common.Address]*big.Int),
		tokenBalances: make(map[common.Address]map[common.Address]*big.Int),
		delays:        make(map[common.Address]time.Duration),
		failures:      make(map[common.Address]error),
		nonces:        make(map[common.Address]uint64),
		receiptStatus: types.ReceiptStatusSuccessful,
	}
}

func (m *MockProvider) SetBalance(account common.Address, amount *big.Int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[account] = new(big.Int).Set(amount)
}

func (m *MockProvider) SetTokenBalance(token common.Address, owner common.Address, amount *big.Int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tokenBalances[token] == nil {
		m.tokenBalances[token] = make(map[common.Address]*big.Int)
	}
	m.tokenBalances[token][owner] = new(big.Int).Set(amount)
}

// SetDelay makes balance queries for account block for d or until ctx is done.
func (m *MockProvider) SetDelay(account common.Address, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delays[account] = d
}

// SetFailure makes balance queries for account fail with err marked as a
// provider error.
func (m *MockProvider) SetFailure(account common.Address, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[account] = err
}

// SetReceiptStatus changes the status of receipts returned by SendTransaction.
func (m *MockProvider) SetReceiptStatus(status uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.receiptStatus = status
}

// AfterBaseFee runs fn after every BaseFee query, outside the provider lock.
func (m *MockProvider) AfterBaseFee(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.afterBaseFee = fn
}

// Calls returns the number of provider methods invoked so far.
func (m *MockProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Sent returns the transactions broadcast so far.
func (m *MockProvider) Sent() []*types.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*types.Transaction(nil), m.sent...)
}

func (m *MockProvider) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func (m *MockProvider) NativeBalance(ctx context.Context, account common.Address) (*big.Int, error) {
	if err := m.enter(ctx, account); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if balance, ok := m.balances[account]; ok {
		return new(big.Int).Set(balance), nil
	}
	return big.NewInt(0), nil
}

func (m *MockProvider) TokenBalance(ctx context.Context, token common.Address, owner common.Address) (*big.Int, error) {
	if err := m.enter(ctx, owner); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if balance, ok := m.tokenBalances[token][owner]; ok {
		return new(big.Int).Set(balance), nil
	}
	return big.NewInt(0), nil
}

// SendTransaction records tx and debits value plus the maximum fee from the
// sender, so a following balance query observes the spend.
func (m *MockProvider) SendTransaction(_ context.Context, tx *types.Transaction) (*types.Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	from, err := types.Sender(types.LatestSignerForChainID(tx.ChainId()), tx)
	if err != nil {
		return nil, errs.Mark(errs.ErrProvider, errors.Wrap(err, "invalid sender"))
	}

	cost := tx.Cost()
	balance, ok := m.balances[from]
	if !ok || balance.Cmp(cost) < 0 {
		return nil, errs.Mark(errs.ErrProvider, errors.New("insufficient funds for gas * price + value"))
	}

	m.balances[from] = new(big.Int).Sub(balance, cost)
	m.nonces[from]++
	m.sent = append(m.sent, tx)

	return &types.Receipt{
		Type:              tx.Type(),
		Status:            m.receiptStatus,
		TxHash:            tx.Hash(),
		GasUsed:           tx.Gas(),
		CumulativeGasUsed: tx.Gas(),
		BlockNumber:       big.NewInt(int64(len(m.sent))),
	}, nil
}

func (m *MockProvider) ChainID(context.Context) (*big.Int, error) {
	m.count()
	return new(big.Int).Set(MockChainID), nil
}

func (m *MockProvider) PendingNonceAt(_ context.Context, account common.Address) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.nonces[account], nil
}

func (m *MockProvider) SuggestGasTipCap(context.Context) (*big.Int, error) {
	m.count()
	return new(big.Int).Set(MockTip), nil
}

func (m *MockProvider) BaseFee(context.Context) (*big.Int, error) {
	m.count()

	m.mu.Lock()
	hook := m.afterBaseFee
	m.mu.Unlock()
	if hook != nil {
		hook()
	}

	return new(big.Int).Set(MockBaseFee), nil
}

func (m *MockProvider) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
}

func (m *MockProvider) count() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
}

func (m *MockProvider) enter(ctx context.Context, account common.Address) error {
	m.mu.Lock()
	m.calls++
	delay := m.delays[account]
	failure := m.failures[account]
	m.mu.Unlock()

	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return errs.Mark(errs.ErrProvider, ctx.Err())
		case <-timer.C:
		}
	}

	if failure != nil {
		return errs.Mark(errs.ErrProvider, failure)
	}

	return nil
}

// MockDialer hands out one MockProvider per chain.
type MockDialer struct {
	mu        sync.Mutex
	providers map[chain.Chain]*MockProvider
	urls      map[chain.Chain][]string
	dials     int
	err       error
}

var _ provider.Dialer = (*MockDialer)(nil)

func NewMockDialer() *MockDialer {
	return &MockDialer{
		providers: make(map[chain.Chain]*MockProvider),
		urls:      make(map[chain.Chain][]string),
	}
}

// Provider returns the mock used for c, creating it on first use.
func (d *MockDialer) Provider(c chain.Chain) *MockProvider {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, ok := d.providers[c]
	if !ok {
		p = NewMockProvider()
		d.providers[c] = p
	}
	return p
}

// FailWith makes every following Dial fail with err.
func (d *MockDialer) FailWith(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.err = err
}

func (d *MockDialer) Dials() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dials
}

// URLs returns the endpoint list of the last Dial for c.
func (d *MockDialer) URLs(c chain.Chain) []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.urls[c]
}

//nolint:ireturn
func (d *MockDialer) Dial(_ context.Context, c chain.Chain, urls []string) (provider.ChainProvider, error) {
	d.mu.Lock()
	d.dials++
	d.urls[c] = urls
	err := d.err
	d.mu.Unlock()

	if err != nil {
		return nil, errs.Mark(errs.ErrProvider, err)
	}

	return d.Provider(c), nil
}
