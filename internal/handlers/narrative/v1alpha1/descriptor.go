package v1alpha1

import (
	"strings"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/known/structpb"
)

// File describes ProtoFile. It is registered in protoregistry.GlobalFiles so
// server reflection can resolve the service.
var File protoreflect.FileDescriptor

func init() {
	fd, err := buildFile()
	if err != nil {
		panic("v1alpha1: invalid service descriptor: " + err.Error())
	}
	if err := protoregistry.GlobalFiles.RegisterFile(fd); err != nil {
		panic("v1alpha1: register service descriptor: " + err.Error())
	}
	File = fd
}

func buildFile() (protoreflect.FileDescriptor, error) {
	structFile := structpb.File_google_protobuf_struct_proto
	structType := "." + string((&structpb.Struct{}).ProtoReflect().Descriptor().FullName())

	svc := &descriptorpb.ServiceDescriptorProto{
		Name: proto.String(strings.TrimPrefix(ServiceName, Package+".")),
	}
	for _, m := range methods {
		svc.Method = append(svc.Method, &descriptorpb.MethodDescriptorProto{
			Name:       proto.String(m.name),
			InputType:  proto.String(structType),
			OutputType: proto.String(structType),
		})
	}

	return protodesc.NewFile(&descriptorpb.FileDescriptorProto{
		Name:       proto.String(ProtoFile),
		Package:    proto.String(Package),
		Dependency: []string{structFile.Path()},
		Service:    []*descriptorpb.ServiceDescriptorProto{svc},
		Syntax:     proto.String("proto3"),
	}, protoregistry.GlobalFiles)
}
