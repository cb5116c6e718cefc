package signer

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github/chapool/web3-hd/internal/wallet/derivation"
)

// Service provides transaction signing functionality
type Service interface {
	// SignEVMTransaction signs an EVM transaction (EIP-1559)
	SignEVMTransaction(ctx context.Context, req *SignEVMRequest) (*SignEVMResponse, error)
}

// SignEVMRequest represents a request to sign an EVM transaction
type SignEVMRequest struct {
	ChainID              *big.Int        // Chain ID (1 for Ethereum mainnet, 137 for Polygon, 56 for BSC)
	To                   common.Address  // Recipient or contract address
	Value                *big.Int        // Amount in wei
	GasLimit             uint64          // Gas limit
	MaxFeePerGas         *big.Int        // Max fee per gas (EIP-1559, in wei)
	MaxPriorityFeePerGas *big.Int        // Max priority fee per gas (EIP-1559, in wei)
	Nonce                uint64          // Transaction nonce
	Data                 []byte          // Transaction data (for contract calls)
	From                 common.Address  // Address expected to sign
	DerivationPath       derivation.Path // BIP44 derivation path of the signing key
}

// SignEVMResponse represents a signed EVM transaction
type SignEVMResponse struct {
	Transaction    *types.Transaction
	RawTransaction []byte // RLP-encoded signed transaction
	TxHash         common.Hash
}
