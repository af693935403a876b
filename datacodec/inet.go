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

package datacodec

import (
	"net"
	"reflect"

	"github.com/mbrt/cqlnative/datatype"
	"github.com/mbrt/cqlnative/primitive"
)

// Inet is the codec for the CQL inet type; its preferred Go type is net.IP. Unlike the [inet]
// primitive used in protocol messages, column values carry no port.
var Inet Codec = &inetCodec{}

type inetCodec struct{}

func (c *inetCodec) DataType() datatype.DataType { return datatype.Inet }
func (c *inetCodec) GoType() reflect.Type         { return reflect.TypeOf(net.IP(nil)) }

func (c *inetCodec) Encode(source interface{}, _ primitive.ProtocolVersion) ([]byte, error) {
	if source == nil {
		return nil, nil
	}
	ip, ok := source.(net.IP)
	if !ok {
		return nil, errWrongSourceType(c.DataType(), net.IP(nil), source)
	}
	if ip == nil {
		return nil, nil
	}
	if v4 := ip.To4(); v4 != nil {
		return v4, nil
	}
	return ip.To16(), nil
}

func (c *inetCodec) Decode(source []byte, dest interface{}, _ primitive.ProtocolVersion) (bool, error) {
	ptr, ok := dest.(*net.IP)
	if !ok {
		if dest == nil {
			return false, ErrNilDestination
		}
		return false, errWrongDestinationType(c.DataType(), net.IP(nil), dest)
	}
	if len(source) == 0 {
		*ptr = nil
		return true, nil
	}
	if len(source) != 4 && len(source) != 16 {
		return false, errWrongFixedLength(16, len(source))
	}
	ip := make(net.IP, len(source))
	copy(ip, source)
	*ptr = ip
	return false, nil
}
