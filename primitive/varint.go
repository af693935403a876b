// Copyright 2020 DataStax
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package primitive

import "math/big"

var oneBigInt = big.NewInt(1)

// EncodeVarint encodes a big.Int using CQL's VARINT wire format: minimal-length big-endian
// two's complement, with a leading 0x00 or 0xFF byte prepended when needed to keep the sign
// bit correct. A nil value encodes as a single zero byte, matching Java's
// BigInteger.ZERO.toByteArray().
func EncodeVarint(n *big.Int) []byte {
	if n == nil {
		return []byte{0}
	}
	switch n.Sign() {
	case 1:
		b := n.Bytes()
		if b[0]&0x80 > 0 {
			b = append([]byte{0x00}, b...)
		}
		return b
	case -1:
		// two's complement of (-n-1), widened to a byte boundary that preserves the sign bit
		length := uint(n.BitLen()/8+1) * 8
		b := new(big.Int).Add(n, new(big.Int).Lsh(oneBigInt, length)).Bytes()
		if len(b) >= 2 && b[0] == 0xFF && b[1]&0x80 != 0 {
			b = b[1:]
		}
		return b
	default:
		return []byte{0}
	}
}

// DecodeVarint decodes CQL's VARINT wire format into a big.Int. An empty slice decodes as nil
// (the CQL null representation at this layer).
func DecodeVarint(source []byte) *big.Int {
	if len(source) == 0 {
		return nil
	}
	val := new(big.Int).SetBytes(source)
	if source[0]&0x80 > 0 {
		val.Sub(val, new(big.Int).Lsh(oneBigInt, uint(len(source))*8))
	}
	return val
}
