/*
Package hex provides 0x-prefixed hexadecimal encoding helpers.

It's a thin wrapper for github.com/ethereum/go-ethereum/common/hexutil,
the reason for having it is to make sure every byte identifier uses the
same textual form in JSON and log output.
*/
package hex

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Bytes is a byte slice which encodes as a 0x-prefixed hex string in
// textual formats (JSON included).
type Bytes []byte

func Encode(src []byte) []byte {
	return []byte(hexutil.Encode(src))
}

func Decode(src []byte) ([]byte, error) {
	return hexutil.Decode(string(src))
}

func (b Bytes) String() string {
	return hexutil.Encode(b)
}

func (b Bytes) MarshalText() ([]byte, error) {
	return Encode(b), nil
}

func (b *Bytes) UnmarshalText(src []byte) error {
	res, err := Decode(src)
	if err == nil {
		*b = res
	}
	return err
}
