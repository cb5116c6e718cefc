package signer

import (
	"context"
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github/chapool/web3-hd/internal/wallet/errs"
)

// signEIP1559Transaction signs an EIP-1559 transaction
func (s *service) signEIP1559Transaction(_ context.Context, req *SignEVMRequest, privateKey []byte) (*SignEVMResponse, error) {
	// Convert private key to ECDSA
	ecdsaPrivateKey, err := crypto.ToECDSA(privateKey)
	if err != nil {
		return nil, errs.Mark(errs.ErrDerivation, errors.Wrap(err, "failed to convert private key to ECDSA"))
	}

	// Verify from address matches private key
	publicKeyECDSA, ok := ecdsaPrivateKey.Public().(*ecdsa.PublicKey)
	if !ok {
		return nil, errors.Wrap(errs.ErrDerivation, "failed to cast public key to ECDSA")
	}

	derivedAddress := crypto.PubkeyToAddress(*publicKeyECDSA)
	if derivedAddress != req.From {
		return nil, errors.Wrapf(errs.ErrValidation, "from address %s does not match derived key", req.From.Hex())
	}

	if req.Value.Sign() < 0 {
		return nil, errors.Wrap(errs.ErrInvalidAmount, "negative value")
	}

	to := req.To

	//nolint:varnamelen // tx is a common abbreviation for transaction
	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   req.ChainID,
		Nonce:     req.Nonce,
		GasTipCap: req.MaxPriorityFeePerGas,
		GasFeeCap: req.MaxFeePerGas,
		Gas:       req.GasLimit,
		To:        &to,
		Value:     req.Value,
		Data:      req.Data,
	})

	signer := types.NewLondonSigner(req.ChainID)
	signedTx, err := types.SignTx(tx, signer, ecdsaPrivateKey)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign transaction")
	}

	// Encode transaction to RLP
	txBytes, err := signedTx.MarshalBinary()
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal transaction")
	}

	return &SignEVMResponse{
		Transaction:    signedTx,
		RawTransaction: txBytes,
		TxHash:         signedTx.Hash(),
	}, nil
}
