package grpc

import (
	"context"
	"errors"

	"github.com/DRSN-tech/product-catalog/pkg/e"
	"github.com/DRSN-tech/product-catalog/pkg/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func GRPCErrorResponse(err error) error {
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, e.ErrProductNotFound):
		return status.Error(codes.NotFound, e.ErrProductNotFound.Error())
	case errors.Is(err, e.ErrProductCategoryNotFound):
		return status.Error(codes.FailedPrecondition, e.ErrProductCategoryNotFound.Error())
	case errors.Is(err, e.ErrInvalidID), errors.Is(err, e.ErrInvalidPage), errors.Is(err, e.ErrInvalidBody):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, e.ErrInternalServerError.Error())
	}
}

// errorInterceptor логирует ошибки обработчиков и переводит их в статусы gRPC.
func errorInterceptor(log logger.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		resp, err := handler(ctx, req)
		if err != nil {
			log.Errorf(err, "grpc %s", info.FullMethod)
			return nil, GRPCErrorResponse(err)
		}

		return resp, nil
	}
}
