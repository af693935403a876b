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

package frame

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/mbrt/cqlnative/compression"
	"github.com/mbrt/cqlnative/message"
	"github.com/mbrt/cqlnative/primitive"
)

// Codec encodes and decodes whole frames, negotiating compression transparently.
type Codec interface {
	EncodeFrame(frame *Frame, dest io.Writer) error
	DecodeFrame(source io.Reader) (*Frame, error)
}

type codec struct {
	compressor compression.BodyCompressor
}

// NewCodec creates a Codec. A nil compressor means the connection never compresses bodies;
// EncodeFrame rejects any frame whose header requests compression in that case.
func NewCodec(compressor compression.BodyCompressor) Codec {
	return &codec{compressor: compressor}
}

func (c *codec) EncodeFrame(frame *Frame, dest io.Writer) error {
	encodedBody := &bytes.Buffer{}
	if err := encodeBody(frame.Header, frame.Body, encodedBody); err != nil {
		return fmt.Errorf("cannot encode frame body: %w", err)
	}
	var wireBody *bytes.Buffer
	if frame.Header.Flags.Contains(primitive.HeaderFlagCompressed) {
		if c.compressor == nil {
			return errors.New("cannot encode a compressed frame: no compressor negotiated")
		}
		compressed := &bytes.Buffer{}
		if err := c.compressor.Compress(encodedBody, compressed); err != nil {
			return fmt.Errorf("cannot compress frame body: %w", err)
		}
		// only keep the compressed form if it is strictly smaller; otherwise sending the
		// compression flag with no size benefit just burdens the peer with decompression.
		if compressed.Len() < encodedBody.Len() {
			wireBody = compressed
		} else {
			frame.Header.Flags = frame.Header.Flags.Remove(primitive.HeaderFlagCompressed)
			wireBody = encodedBody
		}
	} else {
		wireBody = encodedBody
	}
	frame.Header.BodyLength = int32(wireBody.Len())
	if err := encodeHeader(frame.Header, dest); err != nil {
		return fmt.Errorf("cannot encode frame header: %w", err)
	}
	if _, err := wireBody.WriteTo(dest); err != nil {
		return fmt.Errorf("cannot write frame body: %w", err)
	}
	return nil
}

func (c *codec) DecodeFrame(source io.Reader) (*Frame, error) {
	header, err := decodeHeader(source)
	if err != nil {
		return nil, fmt.Errorf("cannot decode frame header: %w", err)
	}
	rawBody := make([]byte, header.BodyLength)
	if _, err := io.ReadFull(source, rawBody); err != nil {
		return nil, fmt.Errorf("cannot read frame body: %w", err)
	}
	var bodySource io.Reader = bytes.NewReader(rawBody)
	if header.Flags.Contains(primitive.HeaderFlagCompressed) {
		if c.compressor == nil {
			return nil, errors.New("cannot decode a compressed frame: no compressor negotiated")
		}
		decompressed := &bytes.Buffer{}
		if err := c.compressor.Decompress(bytes.NewReader(rawBody), decompressed); err != nil {
			return nil, fmt.Errorf("cannot decompress frame body: %w", err)
		}
		bodySource = decompressed
	}
	body, err := decodeBody(header, bodySource)
	if err != nil {
		return nil, fmt.Errorf("cannot decode frame body: %w", err)
	}
	return &Frame{Header: header, Body: body}, nil
}

func encodeHeader(header *Header, dest io.Writer) error {
	if !header.Version.IsSupported() {
		return fmt.Errorf("unsupported protocol version: %v", header.Version)
	}
	versionByte := uint8(header.Version)
	if header.IsResponse {
		versionByte |= 0x80
	}
	if err := primitive.WriteByte(versionByte, dest); err != nil {
		return fmt.Errorf("cannot write version/direction byte: %w", err)
	}
	if err := primitive.WriteByte(uint8(header.Flags), dest); err != nil {
		return fmt.Errorf("cannot write flags byte: %w", err)
	}
	if err := primitive.WriteByte(uint8(header.StreamId), dest); err != nil {
		return fmt.Errorf("cannot write stream id: %w", err)
	}
	if err := primitive.WriteByte(uint8(header.OpCode), dest); err != nil {
		return fmt.Errorf("cannot write opcode: %w", err)
	}
	return primitive.WriteInt(header.BodyLength, dest)
}

func decodeHeader(source io.Reader) (*Header, error) {
	versionByte, err := primitive.ReadByte(source)
	if err != nil {
		return nil, fmt.Errorf("cannot read version/direction byte: %w", err)
	}
	header := &Header{
		IsResponse: versionByte&0x80 != 0,
		Version:    primitive.ProtocolVersion(versionByte &^ 0x80),
	}
	if !header.Version.IsSupported() {
		return nil, fmt.Errorf("unsupported protocol version: %v", header.Version)
	}
	flagByte, err := primitive.ReadByte(source)
	if err != nil {
		return nil, fmt.Errorf("cannot read flags byte: %w", err)
	}
	header.Flags = primitive.HeaderFlag(flagByte)
	streamIdByte, err := primitive.ReadByte(source)
	if err != nil {
		return nil, fmt.Errorf("cannot read stream id: %w", err)
	}
	header.StreamId = int8(streamIdByte)
	opCodeByte, err := primitive.ReadByte(source)
	if err != nil {
		return nil, fmt.Errorf("cannot read opcode: %w", err)
	}
	header.OpCode = primitive.OpCode(opCodeByte)
	if header.BodyLength, err = primitive.ReadInt(source); err != nil {
		return nil, fmt.Errorf("cannot read body length: %w", err)
	}
	return header, nil
}

func encodeBody(header *Header, body *Body, dest io.Writer) error {
	if header.OpCode != body.Message.OpCode() {
		return fmt.Errorf("opcode mismatch between header and body: %v != %v", header.OpCode, body.Message.OpCode())
	}
	if header.Flags.Contains(primitive.HeaderFlagTracing) && body.Message.IsResponse() {
		if body.TracingId == nil {
			return errors.New("cannot encode a tracing response with no tracing id")
		}
		if err := primitive.WriteUuid(*body.TracingId, dest); err != nil {
			return fmt.Errorf("cannot write tracing id: %w", err)
		}
	}
	return message.EncodeMessage(body.Message, dest, header.Version)
}

func decodeBody(header *Header, source io.Reader) (*Body, error) {
	body := &Body{}
	if header.Flags.Contains(primitive.HeaderFlagTracing) && header.IsResponse {
		tracingId, err := primitive.ReadUuid(source)
		if err != nil {
			return nil, fmt.Errorf("cannot read tracing id: %w", err)
		}
		body.TracingId = &tracingId
	}
	msg, err := message.DecodeMessage(header.OpCode, source, header.Version)
	if err != nil {
		return nil, fmt.Errorf("cannot read body message: %w", err)
	}
	body.Message = msg
	return body, nil
}
