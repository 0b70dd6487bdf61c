package cipher

// Alphabet is the ordered key space of the codec: ASCII letters, digits and
// punctuation. Both ends of a round trip must agree on this order.
const Alphabet = "abcdefghijklmnopqrstuvwxyz" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"0123456789" +
	"!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// AlphabetSize is the number of symbols in Alphabet.
const AlphabetSize = len(Alphabet)

// alphabetIndex maps a byte to its position in Alphabet, or -1.
var alphabetIndex = buildIndex(Alphabet)

func buildIndex(seq string) [256]int {
	var idx [256]int
	for i := range idx {
		idx[i] = -1
	}
	for i := 0; i < len(seq); i++ {
		idx[seq[i]] = i
	}
	return idx
}

// IndexOf returns the position of c in Alphabet, or -1 if c is not part of it.
func IndexOf(c byte) int {
	return alphabetIndex[c]
}
