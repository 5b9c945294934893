// Package message defines the closed set of messages the browser extension
// sends to the host and dispatches each to a Handler method.
package message

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/Tiliavir/focus-streak-tracker/internal/model"
)

// ErrUnknownType is returned when an envelope names no known message.
var ErrUnknownType = errors.New("unknown message type")

// Type tags a message variant on the wire.
type Type string

const (
	TypeActivitySlot Type = "activity_slot"
	TypeGetState     Type = "get_state"
	TypeGetSettings  Type = "get_settings"
	TypeSaveSettings Type = "save_settings"
	TypeQuietStatus  Type = "quiet_status"
	TypeCheckStreaks Type = "check_streaks"
	TypeStartFocus   Type = "start_focus"
	TypeCancelFocus  Type = "cancel_focus"
)

// Types lists every message type.
var Types = []Type{
	TypeActivitySlot, TypeGetState, TypeGetSettings, TypeSaveSettings,
	TypeQuietStatus, TypeCheckStreaks, TypeStartFocus, TypeCancelFocus,
}

// Envelope is the wire form of a message.
type Envelope struct {
	Type    Type            `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Message is implemented only by the variants in this package.
type Message interface {
	Type() Type
	sealed()
}

type ActivitySlot struct{ Slot model.ActivitySlot }

type GetState struct {
	Date string `json:"date"`
}

type GetSettings struct{}

// SaveSettings carries a partial settings object. Keys it names replace the
// stored values; the rest are kept.
type SaveSettings struct{ Patch json.RawMessage }

// Apply returns base with the patch merged on top.
func (m SaveSettings) Apply(base model.Settings) (model.Settings, error) {
	base.QuietHours = slices.Clone(base.QuietHours)
	if len(m.Patch) == 0 || string(m.Patch) == "null" {
		return base, nil
	}
	if err := json.Unmarshal(m.Patch, &base); err != nil {
		return model.Settings{}, fmt.Errorf("decoding %s payload: %w", TypeSaveSettings, err)
	}
	return base, nil
}

type QuietStatus struct{}

type CheckStreaks struct{}

type StartFocus struct {
	Minutes int `json:"minutes"`
}

type CancelFocus struct{}

func (ActivitySlot) Type() Type { return TypeActivitySlot }
func (GetState) Type() Type     { return TypeGetState }
func (GetSettings) Type() Type  { return TypeGetSettings }
func (SaveSettings) Type() Type { return TypeSaveSettings }
func (QuietStatus) Type() Type  { return TypeQuietStatus }
func (CheckStreaks) Type() Type { return TypeCheckStreaks }
func (StartFocus) Type() Type   { return TypeStartFocus }
func (CancelFocus) Type() Type  { return TypeCancelFocus }

func (ActivitySlot) sealed() {}
func (GetState) sealed()     {}
func (GetSettings) sealed()  {}
func (SaveSettings) sealed() {}
func (QuietStatus) sealed()  {}
func (CheckStreaks) sealed() {}
func (StartFocus) sealed()   {}
func (CancelFocus) sealed()  {}

// Decode parses an envelope into its message variant.
func Decode(data []byte) (Message, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decoding envelope: %w", err)
	}
	return env.Message()
}

// Message decodes the envelope's payload into its variant.
func (e Envelope) Message() (Message, error) {
	var (
		m   Message
		err error
	)
	switch e.Type {
	case TypeActivitySlot:
		var v ActivitySlot
		err = decodePayload(e, &v.Slot)
		m = v
	case TypeGetState:
		var v GetState
		err = decodePayload(e, &v)
		m = v
	case TypeGetSettings:
		m = GetSettings{}
	case TypeSaveSettings:
		v := SaveSettings{Patch: e.Payload}
		_, err = v.Apply(model.DefaultSettings())
		m = v
	case TypeQuietStatus:
		m = QuietStatus{}
	case TypeCheckStreaks:
		m = CheckStreaks{}
	case TypeStartFocus:
		var v StartFocus
		err = decodePayload(e, &v)
		m = v
	case TypeCancelFocus:
		m = CancelFocus{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, e.Type)
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func decodePayload(e Envelope, v any) error {
	if len(e.Payload) == 0 || string(e.Payload) == "null" {
		return nil
	}
	if err := json.Unmarshal(e.Payload, v); err != nil {
		return fmt.Errorf("decoding %s payload: %w", e.Type, err)
	}
	return nil
}

// Handler has one method per message variant.
type Handler interface {
	ActivitySlot(ctx context.Context, m ActivitySlot) (any, error)
	GetState(ctx context.Context, m GetState) (any, error)
	GetSettings(ctx context.Context, m GetSettings) (any, error)
	SaveSettings(ctx context.Context, m SaveSettings) (any, error)
	QuietStatus(ctx context.Context, m QuietStatus) (any, error)
	CheckStreaks(ctx context.Context, m CheckStreaks) (any, error)
	StartFocus(ctx context.Context, m StartFocus) (any, error)
	CancelFocus(ctx context.Context, m CancelFocus) (any, error)
}

// Dispatch routes m to the matching Handler method.
func Dispatch(ctx context.Context, h Handler, m Message) (any, error) {
	switch m := m.(type) {
	case ActivitySlot:
		return h.ActivitySlot(ctx, m)
	case GetState:
		return h.GetState(ctx, m)
	case GetSettings:
		return h.GetSettings(ctx, m)
	case SaveSettings:
		return h.SaveSettings(ctx, m)
	case QuietStatus:
		return h.QuietStatus(ctx, m)
	case CheckStreaks:
		return h.CheckStreaks(ctx, m)
	case StartFocus:
		return h.StartFocus(ctx, m)
	case CancelFocus:
		return h.CancelFocus(ctx, m)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownType, m)
	}
}
