package zeebe

import (
	"log/slog"

	"github.com/nwittstruck/zeebe-client-go/gateway"
	"github.com/nwittstruck/zeebe-client-go/gateway/wire"
)

// newWireTransport builds the default WebSocket transport for an address.
func newWireTransport(address string, useTLS bool, logger *slog.Logger) gateway.Transport {
	opts := []wire.Option{wire.WithLogger(logger)}
	if useTLS {
		opts = append(opts, wire.WithTLS())
	}
	return wire.New(address, opts...)
}
