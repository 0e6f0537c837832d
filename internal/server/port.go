package server

import (
	"fmt"
	"net"
)

// FindAvailablePort returns the first free TCP port at or after startPort,
// trying up to 100 ports. It falls back to startPort.
func FindAvailablePort(startPort int) int {
	for port := startPort; port < startPort+100 && port <= 65535; port++ {
		if isPortAvailable(port) {
			return port
		}
	}
	return startPort
}

func isPortAvailable(port int) bool {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return false
	}
	ln.Close()
	return true
}
