// Package derivation builds BIP-44 paths and derives BIP-32 key pairs from a seed.
package derivation

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip32"
	"github/chapool/web3-hd/internal/wallet/chain"
	"github/chapool/web3-hd/internal/wallet/errs"
)

// HardenedOffset is added once to every hardened path segment.
const HardenedOffset = bip32.FirstHardenedChild

const bip44Purpose = 44

// Path is an ordered list of child indices, hardened ones already offset.
type Path []uint32

// ValidateIndex checks that index is a usable non-hardened account index,
// i.e. 0 <= index < 2^31.
func ValidateIndex(index int) error {
	if index < 0 {
		return errors.Wrapf(errs.ErrInvalidIndex, "index %d is negative", index)
	}
	if int64(index) >= int64(HardenedOffset) {
		return errors.Wrapf(errs.ErrInvalidIndex, "index %d exceeds %d", index, HardenedOffset-1)
	}
	return nil
}

// BuildPath returns m/44'/<coin_type>'/0'/0/<index> for the chain.
func BuildPath(c chain.Chain, index int) (Path, error) {
	coinType, err := c.CoinType()
	if err != nil {
		return nil, err
	}
	if err := ValidateIndex(index); err != nil {
		return nil, err
	}

	return Path{
		bip44Purpose + HardenedOffset,
		coinType + HardenedOffset,
		0 + HardenedOffset,
		0,
		uint32(index),
	}, nil
}

// ParsePath parses a path string such as "m/44'/60'/0'/0/0".
// Hardened segments may be marked with ' or h.
// Example: "m/44'/60'/0'/0/0" -> [2147483692, 2147483708, 2147483648, 0, 0]
func ParsePath(path string) (Path, error) {
	path = strings.TrimSpace(path)
	if path != "m" && !strings.HasPrefix(path, "m/") {
		return nil, errors.Wrapf(errs.ErrValidation, "invalid BIP44 path: %q", path)
	}

	rest := strings.TrimPrefix(strings.TrimPrefix(path, "m"), "/")
	if rest == "" {
		return Path{}, nil
	}

	segments := strings.Split(rest, "/")
	indices := make(Path, 0, len(segments))
	for _, segment := range segments {
		hardened := false
		if strings.HasSuffix(segment, "'") || strings.HasSuffix(segment, "h") {
			hardened = true
			segment = segment[:len(segment)-1]
		}

		val, err := strconv.ParseUint(segment, 10, 32)
		if err != nil {
			return nil, errors.Wrapf(errs.ErrValidation, "invalid path segment: %q", segment)
		}
		if val >= uint64(HardenedOffset) {
			return nil, errors.Wrapf(errs.ErrValidation, "path segment %d out of range", val)
		}

		index := uint32(val)
		if hardened {
			index += HardenedOffset
		}

		indices = append(indices, index)
	}

	return indices, nil
}

func (p Path) String() string {
	var b strings.Builder
	b.WriteString("m")
	for _, index := range p {
		b.WriteString("/")
		if index >= HardenedOffset {
			b.WriteString(strconv.FormatUint(uint64(index-HardenedOffset), 10))
			b.WriteString("'")
			continue
		}
		b.WriteString(strconv.FormatUint(uint64(index), 10))
	}
	return b.String()
}
