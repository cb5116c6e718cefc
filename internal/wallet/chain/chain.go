// Package chain enumerates the chains the wallet can derive keys for.
//
// The set is closed: every switch over Chain is expected to be exhaustive,
// and adding a chain means touching this package first.
package chain

import (
	"strings"

	"github.com/pkg/errors"
	"github/chapool/web3-hd/internal/wallet/errs"
)

// Chain selects a blockchain network.
type Chain int

const (
	// None is the zero value and means no chain was selected.
	None Chain = iota
	Ethereum
	Polygon
	BSC
	Tron
)

// Family groups chains that share key derivation and address encoding.
type Family int

const (
	FamilyUnknown Family = iota
	FamilyEVM
	FamilyTron
)

// BIP-44 coin types.
const (
	CoinTypeEthereum uint32 = 60
	CoinTypeTron     uint32 = 195
)

// All returns every selectable chain in a stable order.
func All() []Chain {
	return []Chain{Ethereum, Polygon, BSC, Tron}
}

// Parse resolves a user supplied chain name. An empty name yields
// errs.ErrMissingChainSelection; it never falls back to a default chain.
func Parse(s string) (Chain, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return None, errs.ErrMissingChainSelection
	case "eth", "ethereum":
		return Ethereum, nil
	case "plg", "polygon", "matic":
		return Polygon, nil
	case "bsc", "bnb":
		return BSC, nil
	case "tron", "trx":
		return Tron, nil
	default:
		return None, errors.Wrapf(errs.ErrUnknownChain, "%q", s)
	}
}

func (c Chain) String() string {
	switch c {
	case Ethereum:
		return "eth"
	case Polygon:
		return "polygon"
	case BSC:
		return "bsc"
	case Tron:
		return "tron"
	case None:
		return "none"
	}
	return "unknown"
}

// Key is the prefix used for the chain's configuration entries.
func (c Chain) Key() string {
	switch c {
	case Ethereum:
		return "eth"
	case Polygon:
		return "plg"
	case BSC:
		return "bsc"
	case Tron:
		return "tron"
	case None:
	}
	return ""
}

// Valid reports whether c is one of the selectable chains.
func (c Chain) Valid() bool {
	return c.Family() != FamilyUnknown
}

func (c Chain) Family() Family {
	switch c {
	case Ethereum, Polygon, BSC:
		return FamilyEVM
	case Tron:
		return FamilyTron
	case None:
	}
	return FamilyUnknown
}

// CoinType returns the BIP-44 coin type. EVM chains share coin type 60 and
// therefore derive identical keys for the same account index.
func (c Chain) CoinType() (uint32, error) {
	switch c.Family() {
	case FamilyEVM:
		return CoinTypeEthereum, nil
	case FamilyTron:
		return CoinTypeTron, nil
	case FamilyUnknown:
	}
	return 0, errs.ErrMissingChainSelection
}

// NativeSymbol returns the ticker of the chain's native currency.
func (c Chain) NativeSymbol() string {
	switch c {
	case Ethereum:
		return "ETH"
	case Polygon:
		return "POL"
	case BSC:
		return "BNB"
	case Tron:
		return "TRX"
	case None:
	}
	return ""
}

// NativeDecimals returns the number of decimals of the native currency's
// smallest unit (wei for EVM chains, sun for Tron).
func (c Chain) NativeDecimals() int32 {
	if c == Tron {
		return 6
	}
	return 18
}

func (f Family) String() string {
	switch f {
	case FamilyEVM:
		return "evm"
	case FamilyTron:
		return "tron"
	case FamilyUnknown:
	}
	return "unknown"
}

// ParseRPCURLs splits a comma separated URL list, dropping empty entries.
func ParseRPCURLs(rpcURL string) []string {
	if rpcURL == "" {
		return nil
	}

	urls := strings.Split(rpcURL, ",")
	result := make([]string, 0, len(urls))

	for _, url := range urls {
		url = strings.TrimSpace(url)
		if url != "" {
			result = append(result, url)
		}
	}

	return result
}
