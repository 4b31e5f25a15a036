package cec

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os/exec"
	"strings"
	"sync"
	"time"
)

const (
	// CommandCooldown is the anti-loop window between accepted power or
	// custom commands.
	CommandCooldown = 2 * time.Second

	// responseTimeout bounds how long a single command waits for
	// cec-client output before returning what has arrived so far.
	responseTimeout = 8 * time.Second

	// startupWait gives a freshly spawned cec-client time to open the
	// adapter before the first command is written.
	startupWait = 2 * time.Second
)

// Client is the real Controller. It keeps one long-lived cec-client
// process and restarts it when the pipe breaks. Safe for concurrent use;
// commands are serialized on the process.
type Client struct {
	binary string
	args   []string

	mu          sync.Mutex
	cmd         *exec.Cmd
	stdin       io.WriteCloser
	lines       chan string
	lastCommand time.Time

	cooldown    time.Duration
	respTimeout time.Duration
	spawnWait   time.Duration
	now         func() time.Time
}

// NewClient creates a Client that runs "cec-client -d 1". The process is
// spawned lazily on the first command.
func NewClient() *Client {
	return newClientCommand("cec-client", "-d", "1")
}

func newClientCommand(binary string, args ...string) *Client {
	return &Client{
		binary:      binary,
		args:        args,
		cooldown:    CommandCooldown,
		respTimeout: responseTimeout,
		spawnWait:   startupWait,
		now:         time.Now,
	}
}

// PowerOn sends the power on command. Subject to the cooldown.
func (c *Client) PowerOn() (string, error) {
	return c.limited(cmdPowerOn)
}

// PowerOff sends the standby command. Subject to the cooldown.
func (c *Client) PowerOff() (string, error) {
	return c.limited(cmdStandby)
}

// PowerStatus queries the TV power state. Not rate limited.
func (c *Client) PowerStatus() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.execute(cmdPowerStatus)
}

// Scan queries the CEC bus for devices. Not rate limited.
func (c *Client) Scan() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.execute(cmdScan)
}

// Transmit sends a raw console command. Subject to the cooldown.
func (c *Client) Transmit(command string) (string, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return "", errors.New("cec: empty command")
	}
	return c.limited(command)
}

// Close terminates the cec-client process.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
	return nil
}

// limited runs a command behind the anti-loop cooldown.
func (c *Client) limited(command string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if !c.lastCommand.IsZero() && now.Sub(c.lastCommand) < c.cooldown {
		return "", ErrRateLimited
	}
	c.lastCommand = now

	return c.execute(command)
}

// execute writes one command to cec-client and collects output until a
// completion marker or the response timeout. Caller holds c.mu.
func (c *Client) execute(command string) (string, error) {
	if err := c.ensureStarted(); err != nil {
		return "", err
	}
	c.drainStale()
	// The process can die between commands; drainStale notices via the
	// closed line channel. Respawn before writing.
	if err := c.ensureStarted(); err != nil {
		return "", err
	}

	if _, err := io.WriteString(c.stdin, command+"\n"); err != nil {
		// Broken pipe: drop the process so the next command respawns it.
		c.stopLocked()
		return "", fmt.Errorf("write %q to cec-client: %w", command, err)
	}

	var out strings.Builder
	deadline := time.NewTimer(c.respTimeout)
	defer deadline.Stop()

	for {
		select {
		case line, ok := <-c.lines:
			if !ok {
				c.stopLocked()
				return out.String(), errors.New("cec-client exited")
			}
			out.WriteString(line)
			out.WriteByte('\n')
			if responseComplete(line) {
				return out.String(), nil
			}
		case <-deadline.C:
			// cec-client output is chatty and unframed; whatever
			// arrived by now is the answer.
			return out.String(), nil
		}
	}
}

// responseComplete reports whether a line marks the end of a cec-client
// response.
func responseComplete(line string) bool {
	return strings.Contains(line, "CEC bus information") ||
		strings.Contains(line, "TRAFFIC:")
}

// ensureStarted spawns cec-client if it is not running. Caller holds c.mu.
func (c *Client) ensureStarted() error {
	if c.cmd != nil {
		return nil
	}

	cmd := exec.Command(c.binary, c.args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("cec-client stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("cec-client stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", c.binary, err)
	}

	lines := make(chan string, 64)
	go func() {
		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
		cmd.Wait()
	}()

	c.cmd = cmd
	c.stdin = stdin
	c.lines = lines

	log.Printf("cec: started %s (pid %d)", c.binary, cmd.Process.Pid)
	if c.spawnWait > 0 {
		time.Sleep(c.spawnWait)
	}
	return nil
}

// drainStale discards output that arrived between commands (status
// notifications, traffic from the TV) so it is not mistaken for the next
// response. Caller holds c.mu.
func (c *Client) drainStale() {
	for {
		select {
		case _, ok := <-c.lines:
			if !ok {
				c.stopLocked()
				return
			}
		default:
			return
		}
	}
}

// stopLocked kills the process and forgets it. Caller holds c.mu.
func (c *Client) stopLocked() {
	if c.cmd == nil {
		return
	}
	c.stdin.Close()
	if c.cmd.Process != nil {
		c.cmd.Process.Kill()
	}
	c.cmd = nil
	c.stdin = nil
	c.lines = nil
}
