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

package message

import (
	"fmt"
	"io"

	"github.com/mbrt/cqlnative/primitive"
)

// Event is a server-initiated push notification, always carried on the reserved event stream
// id. Exactly one of TopologyChange/StatusChange/SchemaChange is populated,
// selected by EventType.
type Event struct {
	EventType primitive.EventType

	// TOPOLOGY_CHANGE fields
	TopologyChangeType primitive.TopologyChangeType
	Node               *primitive.Inet

	// STATUS_CHANGE fields
	StatusChangeType primitive.StatusChangeType

	// SCHEMA_CHANGE fields
	SchemaChangeType primitive.SchemaChangeType
	Keyspace         string
	Table            string
}

func (m *Event) IsResponse() bool         { return true }
func (m *Event) OpCode() primitive.OpCode { return primitive.OpCodeEvent }

func (m *Event) String() string {
	switch m.EventType {
	case primitive.EventTypeTopologyChange:
		return fmt.Sprintf("EVENT TOPOLOGY_CHANGE %v %v", m.TopologyChangeType, m.Node)
	case primitive.EventTypeStatusChange:
		return fmt.Sprintf("EVENT STATUS_CHANGE %v %v", m.StatusChangeType, m.Node)
	case primitive.EventTypeSchemaChange:
		return fmt.Sprintf("EVENT SCHEMA_CHANGE %v %s %s", m.SchemaChangeType, m.Keyspace, m.Table)
	}
	return "EVENT ?"
}

type eventCodec struct{}

func init() { RegisterCodec(&eventCodec{}) }

func (c *eventCodec) OpCode() primitive.OpCode { return primitive.OpCodeEvent }

func (c *eventCodec) Encode(msg Message, dest io.Writer, _ primitive.ProtocolVersion) error {
	event, ok := msg.(*Event)
	if !ok {
		return fmt.Errorf("expected *message.Event, got %T", msg)
	}
	if err := primitive.WriteString(string(event.EventType), dest); err != nil {
		return err
	}
	switch event.EventType {
	case primitive.EventTypeTopologyChange:
		if err := primitive.WriteString(string(event.TopologyChangeType), dest); err != nil {
			return err
		}
		return primitive.WriteInet(event.Node, dest)
	case primitive.EventTypeStatusChange:
		if err := primitive.WriteString(string(event.StatusChangeType), dest); err != nil {
			return err
		}
		return primitive.WriteInet(event.Node, dest)
	case primitive.EventTypeSchemaChange:
		if err := primitive.WriteString(string(event.SchemaChangeType), dest); err != nil {
			return err
		}
		if err := primitive.WriteString(event.Keyspace, dest); err != nil {
			return err
		}
		return primitive.WriteString(event.Table, dest)
	}
	return fmt.Errorf("unknown event type: %v", event.EventType)
}

func (c *eventCodec) Decode(source io.Reader, _ primitive.ProtocolVersion) (Message, error) {
	eventType, err := primitive.ReadString(source)
	if err != nil {
		return nil, fmt.Errorf("cannot decode EVENT type: %w", err)
	}
	event := &Event{EventType: primitive.EventType(eventType)}
	switch event.EventType {
	case primitive.EventTypeTopologyChange:
		changeType, err := primitive.ReadString(source)
		if err != nil {
			return nil, fmt.Errorf("cannot decode TOPOLOGY_CHANGE type: %w", err)
		}
		node, err := primitive.ReadInet(source)
		if err != nil {
			return nil, fmt.Errorf("cannot decode TOPOLOGY_CHANGE node: %w", err)
		}
		event.TopologyChangeType = primitive.TopologyChangeType(changeType)
		event.Node = node
	case primitive.EventTypeStatusChange:
		changeType, err := primitive.ReadString(source)
		if err != nil {
			return nil, fmt.Errorf("cannot decode STATUS_CHANGE type: %w", err)
		}
		node, err := primitive.ReadInet(source)
		if err != nil {
			return nil, fmt.Errorf("cannot decode STATUS_CHANGE node: %w", err)
		}
		event.StatusChangeType = primitive.StatusChangeType(changeType)
		event.Node = node
	case primitive.EventTypeSchemaChange:
		changeType, err := primitive.ReadString(source)
		if err != nil {
			return nil, fmt.Errorf("cannot decode SCHEMA_CHANGE type: %w", err)
		}
		keyspace, err := primitive.ReadString(source)
		if err != nil {
			return nil, fmt.Errorf("cannot decode SCHEMA_CHANGE keyspace: %w", err)
		}
		table, err := primitive.ReadString(source)
		if err != nil {
			return nil, fmt.Errorf("cannot decode SCHEMA_CHANGE table: %w", err)
		}
		event.SchemaChangeType = primitive.SchemaChangeType(changeType)
		event.Keyspace = keyspace
		event.Table = table
	default:
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}
	return event, nil
}
