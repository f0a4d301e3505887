package pb

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"

	"github.com/lao-tseu-is-alive/go-flock-arena/pkg/flocking"
	"github.com/lao-tseu-is-alive/go-flock-arena/pkg/geometry"
)

// ErrUnexpectedMessage is returned when a conversion receives a message of another type.
var ErrUnexpectedMessage = errors.New("pb: unexpected message type")

// Name returns the full name of m, or "" for nil.
func Name(m proto.Message) protoreflect.FullName {
	if m == nil {
		return ""
	}
	return m.ProtoReflect().Descriptor().FullName()
}

func expect(m proto.Message, want protoreflect.FullName) (protoreflect.Message, error) {
	if got := Name(m); got != want {
		return nil, fmt.Errorf("%w: want %s, got %q", ErrUnexpectedMessage, want, got)
	}
	return m.ProtoReflect(), nil
}

func get(m protoreflect.Message, name protoreflect.Name) protoreflect.Value {
	return m.Get(m.Descriptor().Fields().ByName(name))
}

func setFloat(m protoreflect.Message, name protoreflect.Name, v float64) {
	m.Set(m.Descriptor().Fields().ByName(name), protoreflect.ValueOfFloat64(v))
}

func setMessage(m protoreflect.Message, name protoreflect.Name, v protoreflect.Message) {
	m.Set(m.Descriptor().Fields().ByName(name), protoreflect.ValueOfMessage(v))
}

func vec2(v geometry.Vector2D) *dynamicpb.Message {
	m := dynamicpb.NewMessage(vec2Desc)
	setFloat(m, "x", v.X)
	setFloat(m, "y", v.Y)
	return m
}

func readVec2(m protoreflect.Message) geometry.Vector2D {
	return geometry.Vector2D{X: get(m, "x").Float(), Y: get(m, "y").Float()}
}

func extent(e flocking.Extent) *dynamicpb.Message {
	m := dynamicpb.NewMessage(extentDesc)
	setFloat(m, "width", e.Width)
	setFloat(m, "height", e.Height)
	return m
}

func readExtent(m protoreflect.Message) flocking.Extent {
	return flocking.Extent{Width: get(m, "width").Float(), Height: get(m, "height").Float()}
}

// Tick asks the world to advance the flock by Dt seconds.
type Tick struct {
	Dt      float64
	Pointer geometry.Vector2D // flocking.PointerAway when the pointer is not over the arena
	Arena   flocking.Extent
	Border  float64
}

// Message encodes t as a flock.v1.Tick.
func (t Tick) Message() *dynamicpb.Message {
	m := dynamicpb.NewMessage(tickDesc)
	setFloat(m, "dt", t.Dt)
	if t.Pointer.IsFinite() {
		setMessage(m, "pointer", vec2(t.Pointer))
	}
	setMessage(m, "arena", extent(t.Arena))
	setFloat(m, "border", t.Border)
	return m
}

// TickFromMessage decodes a flock.v1.Tick.
func TickFromMessage(msg proto.Message) (Tick, error) {
	m, err := expect(msg, TickName)
	if err != nil {
		return Tick{}, err
	}
	t := Tick{
		Dt:      get(m, "dt").Float(),
		Pointer: flocking.PointerAway,
		Arena:   readExtent(get(m, "arena").Message()),
		Border:  get(m, "border").Float(),
	}
	if fd := m.Descriptor().Fields().ByName("pointer"); m.Has(fd) {
		t.Pointer = readVec2(m.Get(fd).Message())
	}
	return t, nil
}

var tuningFields = []struct {
	name protoreflect.Name
	ref  func(*flocking.Tuning) *float64
}{
	{"perception_radius", func(t *flocking.Tuning) *float64 { return &t.PerceptionRadius }},
	{"separation_radius", func(t *flocking.Tuning) *float64 { return &t.SeparationRadius }},
	{"separation_weight", func(t *flocking.Tuning) *float64 { return &t.SeparationWeight }},
	{"alignment_weight", func(t *flocking.Tuning) *float64 { return &t.AlignmentWeight }},
	{"cohesion_weight", func(t *flocking.Tuning) *float64 { return &t.CohesionWeight }},
	{"border_weight", func(t *flocking.Tuning) *float64 { return &t.BorderWeight }},
	{"pointer_weight", func(t *flocking.Tuning) *float64 { return &t.PointerWeight }},
	{"border_margin", func(t *flocking.Tuning) *float64 { return &t.BorderMargin }},
	{"pointer_radius", func(t *flocking.Tuning) *float64 { return &t.PointerRadius }},
	{"max_speed", func(t *flocking.Tuning) *float64 { return &t.MaxSpeed }},
	{"min_speed", func(t *flocking.Tuning) *float64 { return &t.MinSpeed }},
	{"max_force", func(t *flocking.Tuning) *float64 { return &t.MaxForce }},
}

// TuningMessage encodes t as a flock.v1.Tuning.
func TuningMessage(t flocking.Tuning) *dynamicpb.Message {
	m := dynamicpb.NewMessage(tuningDesc)
	for _, f := range tuningFields {
		setFloat(m, f.name, *f.ref(&t))
	}
	return m
}

// TuningFromMessage decodes a flock.v1.Tuning. The result is not validated.
func TuningFromMessage(msg proto.Message) (flocking.Tuning, error) {
	m, err := expect(msg, TuningName)
	if err != nil {
		return flocking.Tuning{}, err
	}
	var t flocking.Tuning
	for _, f := range tuningFields {
		*f.ref(&t) = get(m, f.name).Float()
	}
	return t, nil
}

// SnapshotMessage encodes s as a flock.v1.Snapshot.
func SnapshotMessage(s flocking.Snapshot) *dynamicpb.Message {
	m := dynamicpb.NewMessage(snapshotDesc)
	m.Set(snapshotDesc.Fields().ByName("frame"), protoreflect.ValueOfUint64(s.Frame))
	setMessage(m, "arena", extent(s.Arena))

	agents := m.Mutable(snapshotDesc.Fields().ByName("agents")).List()
	for _, a := range s.Agents {
		el := agents.NewElement()
		am := el.Message()
		setMessage(am, "position", vec2(a.Position))
		setMessage(am, "velocity", vec2(a.Velocity))
		setMessage(am, "force", vec2(a.Force))
		agents.Append(el)
	}
	return m
}

// SnapshotFromMessage decodes a flock.v1.Snapshot.
func SnapshotFromMessage(msg proto.Message) (flocking.Snapshot, error) {
	m, err := expect(msg, SnapshotName)
	if err != nil {
		return flocking.Snapshot{}, err
	}
	s := flocking.Snapshot{
		Frame: get(m, "frame").Uint(),
		Arena: readExtent(get(m, "arena").Message()),
	}
	list := get(m, "agents").List()
	s.Agents = make([]flocking.Agent, list.Len())
	for i := range s.Agents {
		am := list.Get(i).Message()
		s.Agents[i] = flocking.Agent{
			Position: readVec2(get(am, "position").Message()),
			Velocity: readVec2(get(am, "velocity").Message()),
			Force:    readVec2(get(am, "force").Message()),
		}
	}
	return s, nil
}

// Format selects a snapshot file encoding.
type Format int

const (
	Binary Format = iota
	JSON
)

func (f Format) String() string {
	if f == JSON {
		return "json"
	}
	return "binary"
}

// FormatFor picks JSON for .json files and Binary for anything else.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return JSON
	}
	return Binary
}

// MarshalSnapshot encodes s in the given format.
func MarshalSnapshot(s flocking.Snapshot, f Format) ([]byte, error) {
	m := SnapshotMessage(s)
	if f == JSON {
		return protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(m)
	}
	return proto.Marshal(m)
}

// UnmarshalSnapshot decodes data written by MarshalSnapshot.
func UnmarshalSnapshot(data []byte, f Format) (flocking.Snapshot, error) {
	m := dynamicpb.NewMessage(snapshotDesc)
	var err error
	if f == JSON {
		err = protojson.Unmarshal(data, m)
	} else {
		err = proto.Unmarshal(data, m)
	}
	if err != nil {
		return flocking.Snapshot{}, fmt.Errorf("pb: cannot decode %s snapshot: %w", f, err)
	}
	return SnapshotFromMessage(m)
}
