package errors

import (
	"fmt"

	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// metaCodeKey names the detail field carrying our own code, which is finer
// than the gRPC code for a few values.
const metaCodeKey = "error_code"

// ToGRPCError converts an error to a gRPC status error. Metadata travels as a
// google.protobuf.Struct detail.
func ToGRPCError(err error) error {
	if err == nil {
		return nil
	}

	if _, ok := status.FromError(err); ok {
		return err
	}

	var customErr *Error
	if As(err, &customErr) {
		st := status.New(customErr.Code.GRPCCode(), customErr.Message)

		if len(customErr.Meta) > 0 {
			if withDetails, detailErr := st.WithDetails(metaToStruct(customErr.Code, customErr.Meta)); detailErr == nil {
				st = withDetails
			}
		}

		return st.Err()
	}

	return status.Error(codeOf(err).GRPCCode(), err.Error())
}

// FromGRPCError converts a gRPC error to our custom error
func FromGRPCError(err error) error {
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	customErr := &Error{
		Code:    grpcCodeToCode(st.Code()),
		Message: st.Message(),
	}

	for _, detail := range st.Details() {
		details, ok := detail.(*structpb.Struct)
		if !ok {
			continue
		}
		meta := details.AsMap()
		delete(meta, metaCodeKey)
		if len(meta) > 0 {
			customErr.Meta = meta
		}
		break
	}

	return customErr
}

// metaToStruct converts error metadata to a Struct. Values structpb cannot
// represent are rendered with fmt.
func metaToStruct(code Code, meta map[string]interface{}) *structpb.Struct {
	fields := make(map[string]*structpb.Value, len(meta)+1)
	fields[metaCodeKey] = structpb.NewStringValue(code.String())
	for k, v := range meta {
		val, err := structpb.NewValue(v)
		if err != nil {
			val = structpb.NewStringValue(fmt.Sprint(v))
		}
		fields[k] = val
	}
	return &structpb.Struct{Fields: fields}
}
