// Package codec implements the fixed-size binary blob format used by mconf
// to persist string key-value configuration data.
//
// # Blob Format
//
// Every blob is exactly 8192 bytes:
//
//	offset 0-4   : magic bytes "MCONF"
//	offset 5     : version byte (only 0 is valid)
//	offset 6..   : obfuscated region —
//	               records: [keyLen:u8][keyBytes][valLen:u8][valBytes?]
//	               terminated by a keyLen byte of 0
//	               remainder: random padding
//
// Keys and values are UTF-8 and limited to 255 bytes each by the one-byte
// length prefixes. A record may carry a key with no value at all (valLen 0
// and no value bytes); such a key decodes to a nil value, which is distinct
// from the key being absent. Because the on-disk representation of "no value"
// and "empty string value" is the same valLen 0, an empty string value
// decodes back as nil.
//
// # Obfuscation
//
// The region after the 6-byte header is XORed with the UTF-8 bytes of a
// repeating secret. The pass is symmetric, so the same operation both
// obfuscates and restores. The header is never touched: magic and version
// validation work regardless of whether the caller supplies the right
// secret. Decoding with a wrong secret fails record parsing or yields
// garbage keys; it never silently reproduces the original content.
//
// XOR with a repeating key is not encryption and must not be relied on for
// confidentiality.
//
// # Error Handling
//
// Structural problems (bad magic, unsupported version, truncated lengths,
// oversized fields, capacity overflow) are reported as *FormatError. A
// buffer shorter than the header is not an error: it decodes to an empty
// map, which is how a freshly created backing file presents itself.
package codec
