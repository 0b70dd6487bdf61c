package cipher

import "math/big"

// DeriveSeed turns a label into the integer seed of its soup.
//
// Each character contributes (position in Alphabet + 1) * (offset in label + 1);
// the sum of all contributions is raised to the power len(label). The result
// outgrows 64 bits for most real package names, hence *big.Int.
//
// Empty labels are rejected: they would degenerate to seed 1 for every
// caller that forgot to configure one.
func DeriveSeed(label string) (*big.Int, error) {
	if label == "" {
		return nil, invalidLabel("label is empty")
	}

	sum := int64(0)
	for i := 0; i < len(label); i++ {
		pos := IndexOf(label[i])
		if pos < 0 {
			return nil, invalidLabel("character %q at offset %d is not in the alphabet", label[i], i)
		}
		sum += int64(pos+1) * int64(i+1)
	}

	seed := big.NewInt(sum)
	return seed.Exp(seed, big.NewInt(int64(len(label))), nil), nil
}
