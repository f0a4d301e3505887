// Package pb holds the flock.v1 wire messages exchanged with the world actor and written to
// snapshot files.
//
// The messages are described at startup from descriptor protos and instantiated with dynamicpb,
// so the package needs no protoc step. Conversions to and from the flocking types live in
// convert.go.
package pb

import (
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
)

// Package is the protobuf package of every message below.
const Package = "flock.v1"

// Full names, usable to route a proto.Message without converting it.
const (
	Vec2Name     protoreflect.FullName = Package + ".Vec2"
	ExtentName   protoreflect.FullName = Package + ".Extent"
	TickName     protoreflect.FullName = Package + ".Tick"
	TuningName   protoreflect.FullName = Package + ".Tuning"
	AgentName    protoreflect.FullName = Package + ".Agent"
	SnapshotName protoreflect.FullName = Package + ".Snapshot"
)

var (
	file = mustBuildFile()

	vec2Desc     = file.Messages().ByName("Vec2")
	extentDesc   = file.Messages().ByName("Extent")
	tickDesc     = file.Messages().ByName("Tick")
	tuningDesc   = file.Messages().ByName("Tuning")
	agentDesc    = file.Messages().ByName("Agent")
	snapshotDesc = file.Messages().ByName("Snapshot")
)

// File is the descriptor of flock/v1/flock.proto.
func File() protoreflect.FileDescriptor { return file }

func double(name string, number int32) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:   proto.String(name),
		Number: proto.Int32(number),
		Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		Type:   descriptorpb.FieldDescriptorProto_TYPE_DOUBLE.Enum(),
	}
}

func uint64Field(name string, number int32) *descriptorpb.FieldDescriptorProto {
	f := double(name, number)
	f.Type = descriptorpb.FieldDescriptorProto_TYPE_UINT64.Enum()
	return f
}

func messageField(name string, number int32, typeName string) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:     proto.String(name),
		Number:   proto.Int32(number),
		Label:    descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		Type:     descriptorpb.FieldDescriptorProto_TYPE_MESSAGE.Enum(),
		TypeName: proto.String("." + Package + "." + typeName),
	}
}

func repeated(f *descriptorpb.FieldDescriptorProto) *descriptorpb.FieldDescriptorProto {
	f.Label = descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum()
	return f
}

func messageType(name string, fields ...*descriptorpb.FieldDescriptorProto) *descriptorpb.DescriptorProto {
	return &descriptorpb.DescriptorProto{Name: proto.String(name), Field: fields}
}

// fileProto is the equivalent of:
//
//	syntax = "proto3";
//	package flock.v1;
//
//	message Vec2     { double x = 1; double y = 2; }
//	message Extent   { double width = 1; double height = 2; }
//	message Tick     { double dt = 1; Vec2 pointer = 2; Extent arena = 3; double border = 4; }
//	message Tuning   { double perception_radius = 1; ... double max_force = 12; }
//	message Agent    { Vec2 position = 1; Vec2 velocity = 2; Vec2 force = 3; }
//	message Snapshot { uint64 frame = 1; Extent arena = 2; repeated Agent agents = 3; }
//
// An unset Tick.pointer means the pointer is away.
func fileProto() *descriptorpb.FileDescriptorProto {
	return &descriptorpb.FileDescriptorProto{
		Name:    proto.String("flock/v1/flock.proto"),
		Package: proto.String(Package),
		Syntax:  proto.String("proto3"),
		MessageType: []*descriptorpb.DescriptorProto{
			messageType("Vec2", double("x", 1), double("y", 2)),
			messageType("Extent", double("width", 1), double("height", 2)),
			messageType("Tick",
				double("dt", 1),
				messageField("pointer", 2, "Vec2"),
				messageField("arena", 3, "Extent"),
				double("border", 4),
			),
			messageType("Tuning",
				double("perception_radius", 1),
				double("separation_radius", 2),
				double("separation_weight", 3),
				double("alignment_weight", 4),
				double("cohesion_weight", 5),
				double("border_weight", 6),
				double("pointer_weight", 7),
				double("border_margin", 8),
				double("pointer_radius", 9),
				double("max_speed", 10),
				double("min_speed", 11),
				double("max_force", 12),
			),
			messageType("Agent",
				messageField("position", 1, "Vec2"),
				messageField("velocity", 2, "Vec2"),
				messageField("force", 3, "Vec2"),
			),
			messageType("Snapshot",
				uint64Field("frame", 1),
				messageField("arena", 2, "Extent"),
				repeated(messageField("agents", 3, "Agent")),
			),
		},
	}
}

func mustBuildFile() protoreflect.FileDescriptor {
	fd, err := protodesc.NewFile(fileProto(), new(protoregistry.Files))
	if err != nil {
		panic("pb: invalid flock.v1 descriptor: " + err.Error())
	}
	return fd
}
