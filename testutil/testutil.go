package testutil

import (
	"fmt"
	"net"
)

// GetFreePort returns an available TCP port by listening on localhost:0.
func GetFreePort() int {
	l, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		panic(fmt.Sprintf("failed to get free port: %v", err))
	}
	defer func() {
		if err := l.Close(); err != nil {
			fmt.Printf("Failed to close listener: %v\n", err)
		}
	}()
	return l.Addr().(*net.TCPAddr).Port
}

// GetFreeListenAddress returns a localhost address for servers started by tests, such as metrics
// reporters.
func GetFreeListenAddress() string {
	return fmt.Sprintf("localhost:%d", GetFreePort())
}
