package format

type (
	CompressionType    uint8
	TransportErrorCode uint8
	DocumentShape      uint8
)

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents an uncompressed source.
	CompressionGzip CompressionType = 0x2 // CompressionGzip represents a gzip-compressed source.
	CompressionZstd CompressionType = 0x3 // CompressionZstd represents a Zstandard-compressed source.
	CompressionS2   CompressionType = 0x4 // CompressionS2 represents an S2/Snappy framed source.
	CompressionLZ4  CompressionType = 0x5 // CompressionLZ4 represents an LZ4 framed source.

	TransportErrNotFound    TransportErrorCode = 0x1 // TransportErrNotFound means the source does not exist.
	TransportErrNotReadable TransportErrorCode = 0x2 // TransportErrNotReadable means the source cannot be read.
	TransportErrAborted     TransportErrorCode = 0x3 // TransportErrAborted means the user cancelled the transfer.
	TransportErrOther       TransportErrorCode = 0x4 // TransportErrOther covers all remaining read failures.

	ShapeArray  DocumentShape = 0x1 // ShapeArray is a document that is a bare top-level array.
	ShapeObject DocumentShape = 0x2 // ShapeObject is a document with the array nested under a wrapper key.
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionGzip:
		return "Gzip"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

func (c TransportErrorCode) String() string {
	switch c {
	case TransportErrNotFound:
		return "NotFound"
	case TransportErrNotReadable:
		return "NotReadable"
	case TransportErrAborted:
		return "Aborted"
	case TransportErrOther:
		return "Other"
	default:
		return "Unknown"
	}
}

func (s DocumentShape) String() string {
	switch s {
	case ShapeArray:
		return "Array"
	case ShapeObject:
		return "Object"
	default:
		return "Unknown"
	}
}
