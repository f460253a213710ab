package pipecodec

import "errors"

var (
	// ErrReadCanceled reports that a pending read observed a cancellation
	// signal. The pipe position is unchanged from before the read began.
	ErrReadCanceled = errors.New("pipecodec: read canceled")

	// ErrWriteCanceled reports that a flush observed a cancellation signal.
	ErrWriteCanceled = errors.New("pipecodec: write canceled")

	// ErrTruncated reports that the pipe completed while a bounded parser
	// still required bytes.
	ErrTruncated = errors.New("pipecodec: unexpected end of stream")

	// ErrVarIntTooLong reports a varint whose continuation bit was still set
	// after the maximum number of groups.
	ErrVarIntTooLong = errors.New("pipecodec: varint exceeds 5 bytes")

	// ErrNegativeLength reports a length prefix that decoded below zero.
	ErrNegativeLength = errors.New("pipecodec: negative length prefix")

	// ErrUnknownLengthFormat reports an unsupported LengthFormat argument.
	ErrUnknownLengthFormat = errors.New("pipecodec: unknown length format")

	// ErrNegativeCount reports a negative byte count argument.
	ErrNegativeCount = errors.New("pipecodec: negative byte count")

	// ErrDigestSize reports a digest destination smaller than the hash size.
	ErrDigestSize = errors.New("pipecodec: digest buffer too small")

	// ErrIncomplete reports Complete called on a parser that still
	// requires bytes.
	ErrIncomplete = errors.New("pipecodec: parser incomplete")

	// ErrPipeClosed reports a write against a pipe whose reader is gone.
	ErrPipeClosed = errors.New("pipecodec: pipe closed")
)
