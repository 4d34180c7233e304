package codec

// Mask applies the repeating-key XOR obfuscation to buf in place, skipping
// the header bytes so the magic string and version stay readable regardless
// of the secret. The operation is symmetric: applying it a second time with
// the same secret restores the original bytes. An empty secret is a no-op.
//
// This is obfuscation, not encryption. It keeps the persisted blob from
// being casually readable and nothing more.
func Mask(buf []byte, secret string) {
	if secret == "" || len(buf) <= headerSize {
		return
	}
	key := []byte(secret)
	for i := headerSize; i < len(buf); i++ {
		buf[i] ^= key[(i-headerSize)%len(key)]
	}
}
