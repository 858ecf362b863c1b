package main

import (
	"fmt"
	"net"

	"github.com/spf13/cobra"

	"github.com/ianmwanzi/portfolio/internal/config"
	"github.com/ianmwanzi/portfolio/internal/contact"
)

func contactCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Talks to the contact relay",
	}

	var (
		msg      contact.Message
		endpoint string
	)
	send := &cobra.Command{
		Use:   "send",
		Short: "Submits a message through the relay the way the contact page does",
		RunE: func(cmd *cobra.Command, args []string) error {
			if endpoint == "" {
				endpoint = cfg.Contact.Endpoint
			}
			if endpoint == "" {
				endpoint = "http://" + localAddr(cfg.HTTP.Addr)
			}

			out := cmd.OutOrStdout()
			form := contact.NewForm(
				contact.NewClient(nil, endpoint, cfg.Contact.Timeout),
				contact.NotifierFunc(func(n contact.Notification) {
					fmt.Fprintf(out, "[%s] %s\n%s\n", n.Kind, n.Title, n.Description)
				}),
			)
			form.Fill(msg)
			return form.Submit(cmd.Context())
		},
	}
	send.Flags().StringVar(&msg.Name, "name", "", "Sender name")
	send.Flags().StringVar(&msg.Email, "email", "", "Sender email")
	send.Flags().StringVar(&msg.Subject, "subject", "", "Message subject")
	send.Flags().StringVar(&msg.Message, "message", "", "Message body")
	send.Flags().StringVar(&endpoint, "endpoint", "", "Relay base URL (default: CONTACT_ENDPOINT or the local server)")

	cmd.AddCommand(send)

	return cmd
}

// localAddr turns a listen address into one reachable from this host.
func localAddr(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "127.0.0.1:8080"
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return net.JoinHostPort(host, port)
}
