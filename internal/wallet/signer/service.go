package signer

import (
	"context"

	"github.com/pkg/errors"
	"github/chapool/web3-hd/internal/wallet/derivation"
	"github/chapool/web3-hd/internal/wallet/errs"
	"github/chapool/web3-hd/internal/wallet/seed"
)

type service struct {
	seed *seed.Seed
}

// NewService creates a new SignerService
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewService(s *seed.Seed) Service {
	return &service{seed: s}
}

// SignEVMTransaction signs an EVM transaction (EIP-1559)
func (s *service) SignEVMTransaction(ctx context.Context, req *SignEVMRequest) (*SignEVMResponse, error) {
	if s.seed == nil {
		return nil, errors.Wrap(errs.ErrDerivation, "seed not initialized")
	}
	if req == nil || req.ChainID == nil || req.Value == nil || req.MaxFeePerGas == nil || req.MaxPriorityFeePerGas == nil {
		return nil, errors.Wrap(errs.ErrValidation, "incomplete sign request")
	}

	seedBytes := s.seed.Bytes()
	defer wipe(seedBytes)

	// Derive private key from seed and derivation path
	keyPair, err := derivation.Derive(seedBytes, req.DerivationPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive private key")
	}

	// Clear private key after use
	defer keyPair.Wipe()

	return s.signEIP1559Transaction(ctx, req, keyPair.PrivateKey)
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
