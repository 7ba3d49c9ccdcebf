package ledger

import (
	"context"
	"errors"
	"io"
	"net"
	"os"
	"syscall"

	model "github.com/glkeru/loyalty/ledgersync/internal/models"
	codes "google.golang.org/grpc/codes"
	status "google.golang.org/grpc/status"
)

// Классификация причины ошибки
func Classify(err error) (model.ErrorKind, model.ValidationKind) {
	var ce *model.ClassifiedError
	if errors.As(err, &ce) {
		return ce.Kind, ce.Validation
	}

	switch {
	case err == nil:
		return model.KindGeneric, model.ValidationNone
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, os.ErrDeadlineExceeded), errors.Is(err, model.ErrTimeout):
		return model.KindTimeout, model.ValidationNone
	case errors.Is(err, model.ErrInsufficientBalance):
		return model.KindValidation, model.ValidationInsufficientBalance
	case errors.Is(err, model.ErrOptionUnavailable):
		return model.KindValidation, model.ValidationOptionUnavailable
	case errors.Is(err, model.ErrOptionExpired):
		return model.KindValidation, model.ValidationOptionExpired
	case errors.Is(err, model.ErrQuantityExceeded):
		return model.KindValidation, model.ValidationQuantityExceeded
	case errors.Is(err, model.ErrValidation):
		return model.KindValidation, model.ValidationNone
	case errors.Is(err, model.ErrAccess):
		return model.KindPermission, model.ValidationNone
	case errors.Is(err, model.ErrConflict):
		return model.KindConflict, model.ValidationNone
	case errors.Is(err, model.ErrServer):
		return model.KindServer, model.ValidationNone
	case errors.Is(err, model.ErrNetwork):
		return model.KindNetwork, model.ValidationNone
	}

	// gRPC
	if s, ok := status.FromError(err); ok {
		switch s.Code() {
		case codes.Unavailable:
			return model.KindNetwork, model.ValidationNone
		case codes.DeadlineExceeded:
			return model.KindTimeout, model.ValidationNone
		case codes.PermissionDenied, codes.Unauthenticated:
			return model.KindPermission, model.ValidationNone
		case codes.AlreadyExists, codes.Aborted:
			return model.KindConflict, model.ValidationNone
		case codes.InvalidArgument, codes.FailedPrecondition:
			return model.KindValidation, model.ValidationNone
		case codes.OutOfRange, codes.ResourceExhausted:
			return model.KindValidation, model.ValidationQuantityExceeded
		case codes.Internal, codes.DataLoss, codes.Unimplemented:
			return model.KindServer, model.ValidationNone
		}
	}

	// сеть
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return model.KindTimeout, model.ValidationNone
		}
		return model.KindNetwork, model.ValidationNone
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) || errors.Is(err, io.ErrUnexpectedEOF) {
		return model.KindNetwork, model.ValidationNone
	}

	return model.KindGeneric, model.ValidationNone
}

// Ошибка для потребителя снапшота
func classifyError(err error, op model.OpKind, cmd model.Command, target string) *model.ClassifiedError {
	var ce *model.ClassifiedError
	if errors.As(err, &ce) {
		// копия: исходная ошибка может храниться в другом снапшоте
		c := *ce
		if c.Command == nil {
			c.Op = op
			c.Command = cmd
		}
		if c.TargetID == "" {
			c.TargetID = target
		}
		return &c
	}
	kind, validation := Classify(err)
	return &model.ClassifiedError{
		Kind:       kind,
		Validation: validation,
		Message:    errorMessage(kind, validation),
		Op:         op,
		TargetID:   target,
		Command:    cmd,
		Cause:      err,
	}
}

// Нарушение локального инварианта: generic, без повтора
func localError(err error, op model.OpKind, cmd model.Command, target string) *model.ClassifiedError {
	ce := classifyError(err, op, cmd, target)
	ce.Kind = model.KindGeneric
	ce.Validation = model.ValidationNone
	ce.Message = errorMessage(model.KindGeneric, model.ValidationNone)
	ce.Local = true
	return ce
}

func errorMessage(kind model.ErrorKind, validation model.ValidationKind) string {
	switch kind {
	case model.KindNetwork:
		return "No connection. Check your network and try again."
	case model.KindTimeout:
		return "The request took too long. Please try again."
	case model.KindValidation:
		switch validation {
		case model.ValidationInsufficientBalance:
			return "You don't have enough points for this redemption."
		case model.ValidationOptionUnavailable:
			return "This reward is currently unavailable."
		case model.ValidationOptionExpired:
			return "This reward has expired."
		case model.ValidationQuantityExceeded:
			return "The requested quantity is not available."
		}
		return "Some of the data is invalid."
	case model.KindPermission:
		return "You don't have permission to do this."
	case model.KindConflict:
		return "This item is being changed elsewhere. Wait for the current change to finish."
	case model.KindServer:
		return "The server failed to process the request. Please try again later."
	}
	return "Something went wrong. Please try again."
}
