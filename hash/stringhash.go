package hash

// StringHash hashes a whole string under the salt s, one byte at a time.
// The result spans the full uint32 range.
func StringHash(s uint32, str string) uint32 {
	var h = Hash(s, 0x9e3779b9, 0xFFFFFFFF)
	for i := 0; i < len(str); i++ {
		h = Hash(h^uint32(str[i]), uint32(i)+s, 0xFFFFFFFF) ^ (h << 7) ^ uint32(str[i])
	}
	return h ^ uint32(len(str))
}

// Token maps a word into the hashing vocabulary of size n. Ids lie in 1 to n-1,
// id 0 is left free for padding. Vocabularies smaller than 2 always yield 0.
func Token(word string, n uint32) uint32 {
	if n < 2 {
		return 0
	}
	return Hash(StringHash(0, word), 0, n-1) + 1
}
