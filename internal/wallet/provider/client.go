package provider

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github/chapool/web3-hd/internal/wallet/chain"
	"github/chapool/web3-hd/internal/wallet/errs"
)

const (
	abiPaddedAddressLength = 32
	abiWordLength          = 32

	defaultReceiptPollInterval = 3 * time.Second
	defaultReceiptWaitTimeout  = 2 * time.Minute
)

var balanceOfMethodID = common.Hex2Bytes("70a08231")

// Option configures an RPCClient.
type Option func(*RPCClient)

// WithMetrics reports every request to m.
func WithMetrics(m *Metrics) Option {
	return func(c *RPCClient) { c.metrics = m }
}

// WithReceiptPolling changes how SendTransaction waits for the receipt.
func WithReceiptPolling(interval time.Duration, timeout time.Duration) Option {
	return func(c *RPCClient) {
		c.pollInterval = interval
		c.waitTimeout = timeout
	}
}

// RPCClient wraps go-ethereum JSON-RPC clients for one chain and fails over
// between several endpoint URLs when a node is unreachable.
type RPCClient struct {
	chain   chain.Chain
	urls    []string
	clients []*ethclient.Client
	metrics *Metrics

	pollInterval time.Duration
	waitTimeout  time.Duration

	mu      sync.Mutex
	current int // index of the client that answered last
}

var _ ChainProvider = (*RPCClient)(nil)

// NewRPCClient connects to every URL. Unreachable nodes are skipped as long as
// at least one connection succeeds.
func NewRPCClient(ctx context.Context, c chain.Chain, urls []string, opts ...Option) (*RPCClient, error) {
	if len(urls) == 0 {
		return nil, errors.Wrapf(errs.ErrValidation, "at least one RPC URL is required for %s", c)
	}

	clients := make([]*ethclient.Client, 0, len(urls))
	for _, url := range urls {
		client, err := ethclient.DialContext(ctx, url)
		if err != nil {
			log.Warn().
				Str("chain", c.String()).
				Str("url", url).
				Err(err).
				Msg("Failed to connect to RPC node, skipping")
			clients = append(clients, nil)
			continue
		}
		clients = append(clients, client)
	}

	if allClientsNil(clients) {
		return nil, errors.Wrapf(errs.ErrProvider, "failed to connect to any RPC node for %s", c)
	}

	client := &RPCClient{
		chain:        c,
		urls:         urls,
		clients:      clients,
		pollInterval: defaultReceiptPollInterval,
		waitTimeout:  defaultReceiptWaitTimeout,
	}
	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

func allClientsNil(clients []*ethclient.Client) bool {
	for _, client := range clients {
		if client != nil {
			return false
		}
	}
	return true
}

// Close closes all client connections.
func (c *RPCClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, client := range c.clients {
		if client != nil {
			client.Close()
		}
	}
}

// NativeBalance returns the balance of an address at the latest known block.
func (c *RPCClient) NativeBalance(ctx context.Context, account common.Address) (*big.Int, error) {
	var balance *big.Int
	err := c.do(ctx, "eth_getBalance", func(client *ethclient.Client) (err error) {
		balance, err = client.BalanceAt(ctx, account, nil)
		return err
	})
	if err != nil {
		return nil, err
	}

	return balance, nil
}

// TokenBalance calls balanceOf(owner) on an ERC20 style token contract.
func (c *RPCClient) TokenBalance(ctx context.Context, token common.Address, owner common.Address) (*big.Int, error) {
	data := make([]byte, 0, len(balanceOfMethodID)+abiPaddedAddressLength)
	data = append(data, balanceOfMethodID...)
	data = append(data, common.LeftPadBytes(owner.Bytes(), abiPaddedAddressLength)...)

	callMsg := ethereum.CallMsg{
		To:   &token,
		Data: data,
	}

	var resp []byte
	err := c.do(ctx, "eth_call", func(client *ethclient.Client) (err error) {
		resp, err = client.CallContract(ctx, callMsg, nil)
		return err
	})
	if err != nil {
		return nil, err
	}

	if len(resp) != abiWordLength {
		return nil, errors.Wrapf(errs.ErrProvider, "malformed balanceOf response from %s: %d bytes", token.Hex(), len(resp))
	}

	return new(big.Int).SetBytes(resp), nil
}

// SendTransaction broadcasts tx and polls for its receipt.
func (c *RPCClient) SendTransaction(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	err := c.do(ctx, "eth_sendRawTransaction", func(client *ethclient.Client) error {
		return client.SendTransaction(ctx, tx)
	})
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("chain", c.chain.String()).
		Str("tx_hash", tx.Hash().Hex()).
		Msg("Transaction broadcast, waiting for receipt")

	return c.waitForReceipt(ctx, tx.Hash())
}

func (c *RPCClient) waitForReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	localCtx, cancel := context.WithTimeout(ctx, c.waitTimeout)
	defer cancel()

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		var receipt *types.Receipt
		err := c.do(localCtx, "eth_getTransactionReceipt", func(client *ethclient.Client) (err error) {
			receipt, err = client.TransactionReceipt(localCtx, txHash)
			return err
		})
		if err == nil {
			return receipt, nil
		}

		if !errors.Is(err, ethereum.NotFound) {
			return nil, err
		}

		select {
		case <-localCtx.Done():
			return nil, errs.Mark(errs.ErrProvider, errors.Wrapf(localCtx.Err(), "waiting for receipt of %s", txHash.Hex()))
		case <-ticker.C:
			continue
		}
	}
}

// ChainID returns the chain ID reported by the node.
func (c *RPCClient) ChainID(ctx context.Context) (*big.Int, error) {
	var chainID *big.Int
	err := c.do(ctx, "eth_chainId", func(client *ethclient.Client) (err error) {
		chainID, err = client.ChainID(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	return chainID, nil
}

// PendingNonceAt returns the pending nonce for the given address.
func (c *RPCClient) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	var nonce uint64
	err := c.do(ctx, "eth_getTransactionCount", func(client *ethclient.Client) (err error) {
		nonce, err = client.PendingNonceAt(ctx, account)
		return err
	})
	if err != nil {
		return 0, err
	}

	return nonce, nil
}

// SuggestGasTipCap suggests a priority fee (EIP-1559).
func (c *RPCClient) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	var tipCap *big.Int
	err := c.do(ctx, "eth_maxPriorityFeePerGas", func(client *ethclient.Client) (err error) {
		tipCap, err = client.SuggestGasTipCap(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	return tipCap, nil
}

// BaseFee returns the base fee of the latest block header.
func (c *RPCClient) BaseFee(ctx context.Context) (*big.Int, error) {
	var header *types.Header
	err := c.do(ctx, "eth_getBlockByNumber", func(client *ethclient.Client) (err error) {
		header, err = client.HeaderByNumber(ctx, nil)
		return err
	})
	if err != nil {
		return nil, err
	}

	if header.BaseFee == nil {
		return big.NewInt(0), nil
	}
	return header.BaseFee, nil
}

// do runs call against the current client and moves on to the next endpoint when
// the node cannot be reached. Errors answered by a node are returned as is.
func (c *RPCClient) do(ctx context.Context, method string, call func(*ethclient.Client) error) error {
	start := time.Now()

	c.mu.Lock()
	first := c.current
	c.mu.Unlock()

	var err error
	for i := 0; i < len(c.clients); i++ {
		idx := (first + i) % len(c.clients)
		client := c.clients[idx]
		if client == nil {
			continue
		}

		err = call(client)
		if err == nil {
			c.mu.Lock()
			c.current = idx
			c.mu.Unlock()
			break
		}

		if ctx.Err() != nil || answeredByNode(err) {
			break
		}

		log.Warn().
			Str("chain", c.chain.String()).
			Str("url", c.urls[idx]).
			Str("method", method).
			Err(err).
			Msg("RPC node unavailable, trying next")
	}

	c.metrics.observe(c.chain, method, start, err)

	if err == nil {
		return nil
	}
	if errors.Is(err, ethereum.NotFound) {
		return err
	}
	return errs.Mark(errs.ErrProvider, errors.Wrap(err, method))
}

func answeredByNode(err error) bool {
	if errors.Is(err, ethereum.NotFound) {
		return true
	}

	var rpcErr rpc.Error
	return errors.As(err, &rpcErr)
}
