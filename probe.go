package mailscout

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// Outcome classifies a single mailbox probe.
type Outcome int

const (
	// OutcomeIndeterminate means neither acceptance nor rejection could be
	// established: timeout, connection failure, or an ambiguous SMTP code.
	OutcomeIndeterminate Outcome = iota

	// OutcomeAccepted means the server accepted RCPT TO for the address.
	OutcomeAccepted

	// OutcomeRejected means the server returned a permanent failure for the
	// address.
	OutcomeRejected
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeRejected:
		return "rejected"
	default:
		return "indeterminate"
	}
}

// ProbeResult is the verdict for one (address, domain) probe.
type ProbeResult struct {
	Outcome Outcome
	Code    int    // SMTP code of the deciding response, 0 if none
	Reason  string // human-readable detail, mainly for logs
}

// SMTPError represents an SMTP protocol error response.
type SMTPError struct {
	Code         int
	EnhancedCode string
	Message      string
}

func (e *SMTPError) Error() string {
	if e.EnhancedCode != "" {
		return fmt.Sprintf("SMTP %d %s: %s", e.Code, e.EnhancedCode, e.Message)
	}
	return fmt.Sprintf("SMTP %d: %s", e.Code, e.Message)
}

// IsPermanent returns true if this is a permanent failure (5xx).
func (e *SMTPError) IsPermanent() bool {
	return e.Code >= 500 && e.Code < 600
}

// IsTransient returns true if this is a transient failure (4xx).
func (e *SMTPError) IsTransient() bool {
	return e.Code >= 400 && e.Code < 500
}

// probeResponse is a parsed SMTP server response.
type probeResponse struct {
	Code         int
	Message      string
	Lines        []string
	EnhancedCode string
}

// IsSuccess returns true if the response indicates success (2xx).
func (r *probeResponse) IsSuccess() bool {
	return r.Code >= 200 && r.Code < 300
}

// IsTransientError returns true if the response indicates a transient error (4xx).
func (r *probeResponse) IsTransientError() bool {
	return r.Code >= 400 && r.Code < 500
}

// IsPermanentError returns true if the response indicates a permanent error (5xx).
func (r *probeResponse) IsPermanentError() bool {
	return r.Code >= 500 && r.Code < 600
}

// probeConn is a minimal SMTP connection used only for the EHLO/MAIL/RCPT
// handshake. Every network operation is bounded by the configured timeout.
type probeConn struct {
	conn    net.Conn
	reader  *bufio.Reader
	writer  *bufio.Writer
	timeout time.Duration
}

func dialProbe(ctx context.Context, address string, timeout time.Duration) (*probeConn, error) {
	dialer := &net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("dial failed: %w", err)
	}

	return &probeConn{
		conn:    conn,
		reader:  bufio.NewReader(conn),
		writer:  bufio.NewWriter(conn),
		timeout: timeout,
	}, nil
}

// quit sends QUIT and closes the connection. Called on every exit path; the
// QUIT response is read best-effort so a dead peer cannot block the close.
func (c *probeConn) quit() {
	if c.conn == nil {
		return
	}
	if err := c.writeCommand("QUIT"); err == nil {
		c.readResponse()
	}
	c.conn.Close()
	c.conn = nil
}

// writeCommand sends a command to the server.
func (c *probeConn) writeCommand(format string, args ...any) error {
	cmd := fmt.Sprintf(format, args...)

	if c.timeout > 0 {
		c.conn.SetWriteDeadline(time.Now().Add(c.timeout))
	}

	if _, err := c.writer.WriteString(cmd + "\r\n"); err != nil {
		return err
	}
	return c.writer.Flush()
}

// readResponse reads and parses a (possibly multiline) server response.
func (c *probeConn) readResponse() (*probeResponse, error) {
	if c.timeout > 0 {
		c.conn.SetReadDeadline(time.Now().Add(c.timeout))
	}

	var lines []string
	var code int

	for {
		line, err := c.reader.ReadString('\n')
		if err != nil {
			return nil, err
		}

		line = strings.TrimRight(line, "\r\n")

		if len(line) < 3 {
			return nil, fmt.Errorf("%w: line too short: %q", ErrUnexpectedResponse, line)
		}

		lineCode, err := strconv.Atoi(line[:3])
		if err != nil {
			return nil, fmt.Errorf("%w: invalid code: %q", ErrUnexpectedResponse, line)
		}

		if code == 0 {
			code = lineCode
		} else if lineCode != code {
			return nil, fmt.Errorf("%w: inconsistent codes", ErrUnexpectedResponse)
		}

		message := ""
		if len(line) > 4 {
			message = line[4:]
		}
		lines = append(lines, message)

		// Space after the code marks the final line; a dash means continuation.
		if len(line) == 3 || line[3] == ' ' {
			break
		}
	}

	resp := &probeResponse{
		Code:    code,
		Message: strings.Join(lines, "\n"),
		Lines:   lines,
	}
	if len(lines) > 0 {
		resp.EnhancedCode = parseEnhancedCode(lines[0])
	}
	return resp, nil
}

// parseEnhancedCode extracts an enhanced status code from a response message.
func parseEnhancedCode(msg string) string {
	parts := strings.SplitN(msg, " ", 2)
	if len(parts) == 0 {
		return ""
	}

	code := parts[0]
	subparts := strings.Split(code, ".")
	if len(subparts) != 3 {
		return ""
	}

	for _, p := range subparts {
		if _, err := strconv.Atoi(p); err != nil {
			return ""
		}
	}

	return code
}

// probe classifies one address against the domain's mail hosts, in priority
// order. A permanent rejection is definitive and stops the host walk; an
// indeterminate verdict advances to the next host. With all hosts exhausted
// the address stays indeterminate, which callers treat as "not found".
func (s *Scout) probe(ctx context.Context, email string, hosts []MXHost) ProbeResult {
	if len(hosts) == 0 {
		return ProbeResult{Outcome: OutcomeIndeterminate, Reason: "no mail hosts"}
	}

	result := ProbeResult{Outcome: OutcomeIndeterminate, Reason: "all hosts exhausted"}

	for _, host := range hosts {
		if ctx.Err() != nil {
			return ProbeResult{Outcome: OutcomeIndeterminate, Reason: "cancelled"}
		}

		res := s.probeHost(ctx, host.Host, email)

		s.logger.Debug("probe",
			"email", email,
			"host", host.Host,
			"outcome", res.Outcome.String(),
			"code", res.Code,
		)

		if res.Outcome != OutcomeIndeterminate {
			return res
		}
		result = res
	}

	return result
}

// probeHost runs the RCPT TO handshake against a single mail host.
func (s *Scout) probeHost(ctx context.Context, host, email string) ProbeResult {
	address := net.JoinHostPort(host, strconv.Itoa(s.config.Port))

	conn, err := dialProbe(ctx, address, s.config.SMTPTimeout)
	if err != nil {
		return ProbeResult{Outcome: OutcomeIndeterminate, Reason: err.Error()}
	}
	defer conn.quit()

	// Greeting
	resp, err := conn.readResponse()
	if err != nil {
		return ProbeResult{Outcome: OutcomeIndeterminate, Reason: "greeting: " + err.Error()}
	}
	if !resp.IsSuccess() {
		return ProbeResult{Outcome: OutcomeIndeterminate, Code: resp.Code, Reason: "greeting refused"}
	}

	// EHLO, falling back to HELO for non-ESMTP servers
	if err := conn.writeCommand("EHLO %s", s.config.HelloName); err != nil {
		return ProbeResult{Outcome: OutcomeIndeterminate, Reason: "EHLO: " + err.Error()}
	}
	resp, err = conn.readResponse()
	if err != nil {
		return ProbeResult{Outcome: OutcomeIndeterminate, Reason: "EHLO: " + err.Error()}
	}
	if !resp.IsSuccess() {
		if err := conn.writeCommand("HELO %s", s.config.HelloName); err != nil {
			return ProbeResult{Outcome: OutcomeIndeterminate, Reason: "HELO: " + err.Error()}
		}
		resp, err = conn.readResponse()
		if err != nil {
			return ProbeResult{Outcome: OutcomeIndeterminate, Reason: "HELO: " + err.Error()}
		}
		if !resp.IsSuccess() {
			return ProbeResult{Outcome: OutcomeIndeterminate, Code: resp.Code, Reason: "HELO refused"}
		}
	}

	// MAIL FROM. A rejection here says nothing about the recipient.
	if err := conn.writeCommand("MAIL FROM:<%s>", s.config.FromEmail); err != nil {
		return ProbeResult{Outcome: OutcomeIndeterminate, Reason: "MAIL FROM: " + err.Error()}
	}
	resp, err = conn.readResponse()
	if err != nil {
		return ProbeResult{Outcome: OutcomeIndeterminate, Reason: "MAIL FROM: " + err.Error()}
	}
	if !resp.IsSuccess() {
		return ProbeResult{Outcome: OutcomeIndeterminate, Code: resp.Code, Reason: "sender refused"}
	}

	// RCPT TO is the verdict.
	if err := conn.writeCommand("RCPT TO:<%s>", email); err != nil {
		return ProbeResult{Outcome: OutcomeIndeterminate, Reason: "RCPT TO: " + err.Error()}
	}
	resp, err = conn.readResponse()
	if err != nil {
		return ProbeResult{Outcome: OutcomeIndeterminate, Reason: "RCPT TO: " + err.Error()}
	}

	switch {
	case resp.Code == 250 || resp.Code == 251:
		return ProbeResult{Outcome: OutcomeAccepted, Code: resp.Code, Reason: "recipient accepted"}
	case resp.IsPermanentError():
		smtpErr := &SMTPError{Code: resp.Code, EnhancedCode: resp.EnhancedCode, Message: resp.Message}
		return ProbeResult{Outcome: OutcomeRejected, Code: resp.Code, Reason: smtpErr.Error()}
	default:
		return ProbeResult{Outcome: OutcomeIndeterminate, Code: resp.Code, Reason: "ambiguous response"}
	}
}
