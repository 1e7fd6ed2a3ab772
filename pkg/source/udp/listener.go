package udp

import (
	"context"
	"errors"
	"net"
	"strconv"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go"
	"github.com/influxdata/influxdb-client-go/api"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/norasector/rtplot/pkg/util"
)

const readBufferSize = headerSize + MaxMessageSize

type Listener struct {
	conn    *net.UDPConn
	logger  zerolog.Logger
	metrics api.WriteAPI
}

type ListenerOption func(*Listener)

func WithLogger(logger zerolog.Logger) ListenerOption {
	return func(l *Listener) {
		l.logger = logger
	}
}

func WithMetrics(writeAPI api.WriteAPI) ListenerOption {
	return func(l *Listener) {
		if writeAPI != nil {
			l.metrics = writeAPI
		}
	}
}

// Listen binds a UDP socket. Port 0 picks a free port.
func Listen(addr string, opts ...ListenerOption) (*Listener, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, err
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return nil, err
	}

	l := &Listener{
		conn:    conn,
		logger:  log.Logger,
		metrics: &util.MockWriteAPI{},
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger.Info().Str("addr", conn.LocalAddr().String()).Msg("udp listener starting")
	return l, nil
}

func (l *Listener) Addr() net.Addr {
	return l.conn.LocalAddr()
}

// Run decodes datagrams into out until ctx is done. Malformed datagrams are
// logged and dropped. The socket is closed when Run returns.
func (l *Listener) Run(ctx context.Context, out chan<- Batch) error {
	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		<-ctx.Done()
		return l.conn.Close()
	})

	eg.Go(func() error {
		buf := make([]byte, readBufferSize)
		for {
			n, from, err := l.conn.ReadFromUDP(buf)
			if err != nil {
				if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
					return ctx.Err()
				}
				return err
			}

			batch, err := Decode(buf[:n])
			if err != nil {
				l.logger.Warn().Err(err).Str("from", from.String()).Msg("dropping malformed datagram")
				continue
			}

			l.metrics.WritePoint(influxdb2.NewPoint("udp.recv_batch",
				map[string]string{
					"port": strconv.Itoa(l.conn.LocalAddr().(*net.UDPAddr).Port),
				},
				map[string]interface{}{
					"bytes":   n,
					"reals":   len(batch.Reals),
					"complex": len(batch.Complex),
				},
				time.Now()))

			select {
			case <-ctx.Done():
				return ctx.Err()
			case out <- batch:
			}
		}
	})

	return eg.Wait()
}

// Send encodes b and writes it to addr from an ephemeral socket.
func Send(addr string, b Batch) error {
	msg, err := Encode(b)
	if err != nil {
		return err
	}
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return err
	}
	conn, err := net.DialUDP("udp", nil, udpAddr)
	if err != nil {
		return err
	}
	defer conn.Close()

	_, err = conn.Write(msg)
	return err
}
