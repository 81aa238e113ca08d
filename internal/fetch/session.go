package fetch

import (
	"time"

	"go.uber.org/zap"

	"github.com/zulfikawr/quickget/internal/decompress"
	ferrors "github.com/zulfikawr/quickget/internal/errors"
	"github.com/zulfikawr/quickget/internal/metrics"
	"github.com/zulfikawr/quickget/internal/netconn"
	"github.com/zulfikawr/quickget/internal/response"
)

// Session is one in-flight request. It is single-use and owned by one
// goroutine.
type Session struct {
	ID   string
	Host string

	sock        *netconn.Socket
	task        *netconn.Task
	compression bool
	capability  *decompress.Capability
	timeout     time.Duration
	bufferSize  int
	log         *zap.Logger
}

// Compression reports whether gzip was negotiated for this session.
func (s *Session) Compression() bool {
	return s.compression
}

// Async reports whether a background connect task is still attached.
func (s *Session) Async() bool {
	return s.task != nil
}

// Receive reads and validates the response, inflating a gzip body when
// compression was negotiated. A second call returns PriorSendFailed.
func (s *Session) Receive() (*Response, error) {
	start := time.Now()

	res, err := response.Receive(s.sock, s.task, response.Options{
		Timeout:    s.timeout,
		BufferSize: s.bufferSize,
		Logger:     s.log,
	})
	s.task = nil
	if err != nil {
		if ferrors.KindOf(err) == ferrors.JoinTimeout {
			// The abandoned task owns the socket now
			s.sock = nil
		}
		metrics.RecordOutcome(err)
		return nil, err
	}
	metrics.ObserveStage(metrics.StageReceive, time.Since(start))

	decompressed := false
	if s.compression && s.capability != nil {
		start = time.Now()
		decompressed, err = decompress.New(s.capability, s.log).Apply(res)
		if err != nil {
			s.log.Debug("Decompression failed or invalid compression format", zap.Error(err))
			metrics.RecordOutcome(err)
			return nil, err
		}
		if decompressed {
			metrics.ObserveStage(metrics.StageDecompress, time.Since(start))
		}
	}

	metrics.RecordOutcome(nil)
	return newResponse(res, decompressed), nil
}
