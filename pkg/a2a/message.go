package a2a

import (
	"encoding/json"
	"fmt"
)

// Role identifies who produced a Message.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// Message is a unit of communication between client and agent. Parts is
// never empty for a valid message; callers construct one via NewTextMessage
// and friends rather than the zero value.
type Message struct {
	Role       Role           `json:"role"`
	Parts      []MessagePart  `json:"parts"`
	MessageID  *string        `json:"messageId,omitempty"`
	TaskID     *string        `json:"taskId,omitempty"`
	ContextID  *string        `json:"contextId,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// NewTextMessage builds a single-part text message from the given role.
func NewTextMessage(role Role, text string) Message {
	return Message{Role: role, Parts: []MessagePart{NewTextPart(text)}}
}

// UserMessage is shorthand for NewTextMessage(RoleUser, text).
func UserMessage(text string) Message {
	return NewTextMessage(RoleUser, text)
}

// AgentMessage is shorthand for NewTextMessage(RoleAgent, text).
func AgentMessage(text string) Message {
	return NewTextMessage(RoleAgent, text)
}

// Text concatenates the text of every text part, in order, ignoring file and
// data parts.
func (m Message) Text() string {
	out := ""
	for _, p := range m.Parts {
		if p.Kind() == PartKindText {
			out += p.Text
		}
	}
	return out
}

// FilePart describes a file reference carried by a MessagePart. Exactly one
// of URI or Bytes is populated.
type FilePart struct {
	Name      string  `json:"name"`
	MediaType *string `json:"mediaType,omitempty"`
	URI       *string `json:"fileWithUri,omitempty"`
	Bytes     *string `json:"fileWithBytes,omitempty"`
}

// PartKind discriminates the populated variant of a MessagePart.
type PartKind int

const (
	PartKindText PartKind = iota
	PartKindFile
	PartKindData
)

// MessagePart is an untagged union over Text, File and Data shapes. On the
// wire the discriminator is whichever of "text", "file", "data" is present —
// there is no explicit "type" field. Exactly one must be populated; decoding
// more than one is a Protocol error.
type MessagePart struct {
	Text *string        `json:"-"`
	File *FilePart      `json:"-"`
	Data map[string]any `json:"-"`
}

// NewTextPart builds a text MessagePart.
func NewTextPart(text string) MessagePart {
	return MessagePart{Text: &text}
}

// NewFilePartFromURI builds a file MessagePart referencing a URI.
func NewFilePartFromURI(name, uri string) MessagePart {
	return MessagePart{File: &FilePart{Name: name, URI: &uri}}
}

// NewFilePartFromBytes builds a file MessagePart carrying inline base64 bytes.
func NewFilePartFromBytes(name, base64Bytes string) MessagePart {
	return MessagePart{File: &FilePart{Name: name, Bytes: &base64Bytes}}
}

// NewDataPart builds a data MessagePart from arbitrary JSON-compatible data.
func NewDataPart(data map[string]any) MessagePart {
	return MessagePart{Data: data}
}

// Kind reports which of the three shapes is populated.
func (p MessagePart) Kind() PartKind {
	switch {
	case p.Text != nil:
		return PartKindText
	case p.File != nil:
		return PartKindFile
	default:
		return PartKindData
	}
}

type wirePart struct {
	Text *string        `json:"text,omitempty"`
	File *FilePart      `json:"file,omitempty"`
	Data map[string]any `json:"data,omitempty"`
}

// MarshalJSON emits the untagged wire shape: only the populated key appears.
func (p MessagePart) MarshalJSON() ([]byte, error) {
	return json.Marshal(wirePart{Text: p.Text, File: p.File, Data: p.Data})
}

// UnmarshalJSON dispatches on which key is present, trying text, then file,
// then data in order. More than one populated key is an ambiguity error.
func (p *MessagePart) UnmarshalJSON(data []byte) error {
	var w wirePart
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("a2a: decode message part: %w", err)
	}

	populated := 0
	if w.Text != nil {
		populated++
	}
	if w.File != nil {
		populated++
	}
	if w.Data != nil {
		populated++
	}
	if populated > 1 {
		return NewError(KindProtocol, "message part has more than one of text/file/data populated")
	}

	p.Text, p.File, p.Data = w.Text, w.File, w.Data
	return nil
}
