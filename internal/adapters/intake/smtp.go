// Package intake runs the SMTP content-filter daemon: it accepts
// messages from the MTA, analyzes them and either tags or rejects.
package intake

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-smtp"
	"go.uber.org/zap"

	"github.com/mailguard/email-guard/internal/core"
	"github.com/mailguard/email-guard/internal/parser"
)

// Server is the SMTP intake daemon wrapping the analysis pipeline.
type Server struct {
	service       *core.AnalyzerService
	logger        *zap.Logger
	listenAddr    string
	server        *smtp.Server
	blockPhishing bool
	statusHeader  string
	scoreHeader   string
	reasonHeader  string
	relayAddr     string
}

// NewServer creates the intake daemon. An empty relayAddr disables
// re-injection; messages are then analyzed and tagged only.
func NewServer(
	service *core.AnalyzerService,
	logger *zap.Logger,
	listenAddr string,
	blockPhishing bool,
	statusHeader string,
	scoreHeader string,
	reasonHeader string,
	relayAddr string,
) *Server {
	return &Server{
		service:       service,
		logger:        logger,
		listenAddr:    listenAddr,
		blockPhishing: blockPhishing,
		statusHeader:  statusHeader,
		scoreHeader:   scoreHeader,
		reasonHeader:  reasonHeader,
		relayAddr:     relayAddr,
	}
}

// Start begins listening for SMTP connections.
func (s *Server) Start() error {
	s.server = smtp.NewServer(&backend{intake: s})

	s.server.Addr = s.listenAddr
	s.server.Domain = "localhost"
	s.server.ReadTimeout = 30 * time.Second
	s.server.WriteTimeout = 30 * time.Second
	s.server.MaxMessageBytes = 30 * 1024 * 1024
	s.server.MaxRecipients = 50
	s.server.AllowInsecureAuth = true

	s.logger.Info("intake server starting", zap.String("address", s.listenAddr))

	go func() {
		if err := s.server.ListenAndServe(); err != nil {
			if err != smtp.ErrServerClosed {
				s.logger.Error("SMTP server error", zap.Error(err))
			}
		}
	}()
	return nil
}

// Stop shuts the listener down.
func (s *Server) Stop() error {
	if s.server != nil {
		return s.server.Close()
	}
	return nil
}

// backend implements the go-smtp Backend interface
type backend struct {
	intake *Server
}

func (b *backend) NewSession(c *smtp.Conn) (smtp.Session, error) {
	return &session{
		intake:     b.intake,
		recipients: make([]string, 0),
	}, nil
}

// session implements the go-smtp Session interface
type session struct {
	intake     *Server
	sender     string
	recipients []string
}

func (s *session) Reset() {
	s.sender = ""
	s.recipients = make([]string, 0)
}

func (s *session) AuthPlain(_ []byte) error {
	return smtp.ErrAuthUnsupported
}

func (s *session) Mail(from string, _ *smtp.MailOptions) error {
	s.sender = from
	return nil
}

func (s *session) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.recipients = append(s.recipients, to)
	return nil
}

// Data receives the message, analyzes it and writes the verdict headers
// before handing the message on. A Phishing verdict rejects the message
// outright when blocking is enabled.
func (s *session) Data(r io.Reader) error {
	rawData, err := io.ReadAll(r)
	if err != nil {
		s.intake.logger.Error("failed to read message data", zap.Error(err))
		return err
	}

	email := parser.Normalize(rawData)
	if email.From == "" {
		email.From = s.sender
	}
	if len(email.To) == 0 {
		email.To = s.recipients
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	result, err := s.intake.service.Analyze(ctx, email)
	if err != nil {
		s.intake.logger.Error("analysis aborted", zap.Error(err), zap.String("from", email.From))
		return err
	}
	s.intake.service.RecordSender(ctx, email)

	if result.Classification == core.ClassPhishing && s.intake.blockPhishing {
		s.intake.logger.Info("rejecting phishing email",
			zap.String("from", email.From),
			zap.Float64("score", result.FinalScore))
		return fmt.Errorf("550 rejected as phishing (score: %.2f)", result.FinalScore)
	}

	tagged := s.tagMessage(rawData, result)
	if s.intake.relayAddr != "" {
		if err := s.intake.relay(s.sender, s.recipients, tagged); err != nil {
			s.intake.logger.Error("failed to relay message",
				zap.Error(err),
				zap.String("from", email.From))
			return err
		}
	}

	s.intake.logger.Info("processed email",
		zap.String("from", email.From),
		zap.String("classification", string(result.Classification)),
		zap.Float64("score", result.FinalScore),
		zap.Strings("actions", result.Actions))
	return nil
}

// relay re-injects the tagged message into the MTA on the configured
// address.
func (s *Server) relay(sender string, recipients []string, data []byte) error {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}

	conn, err := net.DialTimeout("tcp", s.relayAddr, 10*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to relay: %w", err)
	}
	if err := conn.SetDeadline(time.Now().Add(30 * time.Second)); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set connection deadline: %w", err)
	}

	c := smtp.NewClient(conn)
	defer c.Close()

	if err := c.Hello(hostname); err != nil {
		return fmt.Errorf("EHLO failed: %w", err)
	}
	if err := c.Mail(sender, nil); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}

	accepted := false
	for _, recipient := range recipients {
		if err := c.Rcpt(recipient, nil); err != nil {
			s.logger.Warn("RCPT TO failed for recipient",
				zap.String("recipient", recipient),
				zap.Error(err))
		} else {
			accepted = true
		}
	}
	if !accepted {
		return fmt.Errorf("all recipients were rejected")
	}

	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA command failed: %w", err)
	}
	if _, err := wc.Write(data); err != nil {
		wc.Close()
		return fmt.Errorf("failed to send message data: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	if err := c.Quit(); err != nil {
		s.logger.Warn("QUIT command failed", zap.Error(err))
	}
	return nil
}

// tagMessage prepends the verdict headers to the raw message, preserving
// every original header and MIME part.
func (s *session) tagMessage(rawData []byte, result *core.AnalysisResult) []byte {
	var tagged bytes.Buffer

	fmt.Fprintf(&tagged, "%s: %s\r\n", s.intake.statusHeader, result.Classification)
	fmt.Fprintf(&tagged, "%s: %.4f\r\n", s.intake.scoreHeader, result.FinalScore)
	fmt.Fprintf(&tagged, "%s: %s\r\n", s.intake.reasonHeader, strings.Join(result.Actions, ", "))
	tagged.Write(rawData)
	return tagged.Bytes()
}

func (s *session) Logout() error {
	return nil
}
