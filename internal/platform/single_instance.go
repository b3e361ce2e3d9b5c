package platform

import (
	"bufio"
	"errors"
	"fmt"
	"hash/fnv"
	"net"
	"strings"
	"time"
)

// ErrAlreadyRunning indicates another instance already holds the lock.
var ErrAlreadyRunning = errors.New("instance already running")

const (
	activateRequest = "show\n"
	activateReply   = "ok\n"
	activateTimeout = 2 * time.Second
)

// InstanceGuard holds the single-instance lock. The lock is a listener on a
// loopback port derived from the application name; a second instance that
// fails to bind may ask the holder to come to the foreground.
type InstanceGuard struct {
	listener net.Listener
	address  string
}

// AcquireSingleInstance binds the lock for appName.
func AcquireSingleInstance(appName string) (*InstanceGuard, error) {
	address := instanceAddress(appName)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, ErrAlreadyRunning
	}
	return &InstanceGuard{listener: listener, address: address}, nil
}

// Serve answers activation requests from later instances by calling
// onActivate. It returns when the guard is released.
func (guard *InstanceGuard) Serve(onActivate func()) {
	for {
		conn, err := guard.listener.Accept()
		if err != nil {
			return
		}
		go guard.handle(conn, onActivate)
	}
}

func (guard *InstanceGuard) handle(conn net.Conn, onActivate func()) {
	defer func() {
		_ = conn.Close()
	}()
	_ = conn.SetDeadline(time.Now().Add(activateTimeout))

	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil || line != activateRequest {
		return
	}
	if onActivate != nil {
		onActivate()
	}
	_, _ = conn.Write([]byte(activateReply))
}

// Activate asks the instance holding the lock for appName to show itself.
func Activate(appName string) error {
	conn, err := net.DialTimeout("tcp", instanceAddress(appName), activateTimeout)
	if err != nil {
		return fmt.Errorf("dial running instance: %w", err)
	}
	defer func() {
		_ = conn.Close()
	}()
	_ = conn.SetDeadline(time.Now().Add(activateTimeout))

	if _, err := conn.Write([]byte(activateRequest)); err != nil {
		return fmt.Errorf("send activation: %w", err)
	}
	reply, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		return fmt.Errorf("read activation reply: %w", err)
	}
	if reply != activateReply {
		return fmt.Errorf("unexpected activation reply %q", strings.TrimSpace(reply))
	}
	return nil
}

// Release frees the single instance lock.
func (guard *InstanceGuard) Release() error {
	if guard == nil || guard.listener == nil {
		return nil
	}
	return guard.listener.Close()
}

// Address returns the bound address.
func (guard *InstanceGuard) Address() string {
	if guard == nil {
		return ""
	}
	return guard.address
}

func instanceAddress(appName string) string {
	return fmt.Sprintf("127.0.0.1:%d", portFromName(appName))
}

func portFromName(appName string) int {
	const (
		minPort = 20000
		maxPort = 39999
	)
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(appName))
	rangeSize := maxPort - minPort + 1
	return minPort + int(hash.Sum32()%uint32(rangeSize))
}
