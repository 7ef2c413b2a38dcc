package gateway

import (
	"net"
	"strconv"
)

// GatewayConfig holds HTTP server settings.
type GatewayConfig struct {
	Host string `json:"host" yaml:"host"`
	Port int    `json:"port" yaml:"port"`
}

func DefaultGatewayConfig() GatewayConfig {
	return GatewayConfig{Host: "127.0.0.1", Port: 8790}
}

// Addr returns the host:port listen address.
func (g GatewayConfig) Addr() string {
	return net.JoinHostPort(g.Host, strconv.Itoa(g.Port))
}
