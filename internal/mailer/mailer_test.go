package mailer

import (
	"bufio"
	"context"
	"io"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var envelope = Envelope{
	Name:    "Ada Lovelace",
	Email:   "ada@example.com",
	Subject: "Engines",
	Body:    "Shall we build one?\nTomorrow works.",
}

func TestCompose(t *testing.T) {
	at := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	msg := string(Compose("site@example.com", "owner@example.com", envelope, at))

	require.Contains(t, msg, "From: site@example.com\r\n")
	require.Contains(t, msg, "To: owner@example.com\r\n")
	require.Contains(t, msg, "Reply-To: ada@example.com\r\n")
	require.Contains(t, msg, "Subject: Portfolio Contact: Engines\r\n")
	require.Contains(t, msg, "Date: Tue, 04 Mar 2025 05:06:07 +0000\r\n")
	require.Contains(t, msg, "Name: Ada Lovelace\r\n")
	require.Contains(t, msg, "Shall we build one?\r\nTomorrow works.\r\n")
	require.NotContains(t, strings.ReplaceAll(msg, "\r\n", ""), "\n")
}

func TestComposeStripsHeaderInjection(t *testing.T) {
	env := envelope
	env.Subject = "hi\r\nBcc: victim@example.com"
	env.Email = "ada@example.com\nCc: other@example.com"

	msg := string(Compose("a@example.com", "b@example.com", env, time.Now()))
	require.NotContains(t, msg, "\r\nBcc:")
	require.NotContains(t, msg, "\r\nCc:")
	require.Contains(t, msg, "Subject: Portfolio Contact: hi Bcc: victim@example.com\r\n")
}

func TestSendNotConfigured(t *testing.T) {
	m := NewSMTPMailer(Options{Host: "127.0.0.1", Port: 25})
	require.False(t, m.Configured())
	require.ErrorIs(t, m.Send(context.Background(), envelope), ErrNotConfigured)
}

// fakeSMTP is a single-session SMTP server that accepts everything and
// records the DATA section.
func fakeSMTP(t *testing.T) (port int, data <-chan string) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	out := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		r := bufio.NewReader(conn)
		reply := func(s string) { _, _ = conn.Write([]byte(s + "\r\n")) }
		reply("220 fake ESMTP")

		for {
			line, err := r.ReadString('\n')
			if err != nil {
				return
			}
			cmd := strings.ToUpper(strings.TrimSpace(line))
			switch {
			case strings.HasPrefix(cmd, "EHLO"):
				reply("250-fake")
				reply("250 AUTH PLAIN")
			case strings.HasPrefix(cmd, "AUTH"):
				reply("235 ok")
			case strings.HasPrefix(cmd, "MAIL"), strings.HasPrefix(cmd, "RCPT"):
				reply("250 ok")
			case cmd == "DATA":
				reply("354 go ahead")
				var b strings.Builder
				for {
					l, err := r.ReadString('\n')
					if err != nil {
						return
					}
					if l == ".\r\n" {
						break
					}
					b.WriteString(l)
				}
				out <- b.String()
				reply("250 queued")
			case cmd == "QUIT":
				reply("221 bye")
				return
			default:
				reply("250 ok")
			}
		}
	}()

	return ln.Addr().(*net.TCPAddr).Port, out
}

func TestSendDelivers(t *testing.T) {
	port, data := fakeSMTP(t)
	m := NewSMTPMailer(Options{Host: "127.0.0.1", Port: port, User: "site@example.com", Pass: "pw"})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, m.Send(ctx, envelope))

	select {
	case got := <-data:
		require.Contains(t, got, "To: site@example.com\r\n")
		require.Contains(t, got, "Subject: Portfolio Contact: Engines")
	case <-time.After(time.Second):
		t.Fatal("no message received")
	}
}

func TestSendDialFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	m := NewSMTPMailer(Options{Host: "127.0.0.1", Port: port, User: "u", Pass: "p"})
	err = m.Send(context.Background(), envelope)
	require.Error(t, err)
	require.Contains(t, err.Error(), "dial")
	require.Contains(t, err.Error(), strconv.Itoa(port))
}

func TestSendTimesOutWithoutContextDeadline(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	// Accept and never send the greeting.
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		_, _ = io.Copy(io.Discard, conn)
	}()

	m := NewSMTPMailer(Options{
		Host:    "127.0.0.1",
		Port:    ln.Addr().(*net.TCPAddr).Port,
		User:    "u",
		Pass:    "p",
		Timeout: 100 * time.Millisecond,
	})

	done := make(chan error, 1)
	go func() { done <- m.Send(context.Background(), envelope) }()

	select {
	case err := <-done:
		require.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("send did not time out")
	}
}

func TestNewSMTPMailerDefaultTimeout(t *testing.T) {
	require.Equal(t, defaultTimeout, NewSMTPMailer(Options{}).opts.Timeout)
}
