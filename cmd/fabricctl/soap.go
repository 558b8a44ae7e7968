package main

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wsforge/fabric/soapmsg"
)

func newSoapCallCmd() *cobra.Command {
	var (
		endpoint  string
		namespace string
		action    string
		version   string
		user      string
		password  string
		params    []string
		dryRun    bool
	)

	cmd := &cobra.Command{
		Use:   "soap-call",
		Short: "Compose (and optionally send) a SOAP request",
		RunE: func(cmd *cobra.Command, args []string) error {
			if namespace == "" || action == "" {
				return fmt.Errorf("--ns and --action are required")
			}
			ver, err := parseVersion(version)
			if err != nil {
				return err
			}

			msg := soapmsg.NewOutgoing(namespace, action, ver)
			if ver != soapmsg.VersionPOS {
				msg.SetSoapBody(action)
			}
			for _, p := range params {
				name, value, ok := strings.Cut(p, "=")
				if !ok {
					return fmt.Errorf("invalid --data %q, want name=value", p)
				}
				msg.SetParameter(name, value)
			}
			if user != "" {
				msg.Token.Username = user
				msg.Token.Password = password
				if err := msg.SetSecurity(); err != nil {
					return err
				}
			}

			wire, err := msg.GetSoapMessage()
			if err != nil {
				return fmt.Errorf("compose soap message: %w", err)
			}

			if dryRun || endpoint == "" {
				cmd.OutOrStdout().Write(wire)
				fmt.Fprintln(cmd.OutOrStdout())
				return nil
			}

			return sendSoapRequest(cmd.OutOrStdout(), endpoint, namespace, action, ver, wire)
		},
	}

	cmd.Flags().StringVar(&endpoint, "url", "", "endpoint to POST the request to; omit to print only")
	cmd.Flags().StringVar(&namespace, "ns", "", "service contract namespace URI")
	cmd.Flags().StringVar(&action, "action", "", "SOAP action / operation name")
	cmd.Flags().StringVar(&version, "version", "1.2", "SOAP version: 1.0, 1.1, 1.2")
	cmd.Flags().StringVar(&user, "user", "", "UsernameToken username")
	cmd.Flags().StringVar(&password, "pass", "", "UsernameToken password")
	cmd.Flags().StringArrayVar(&params, "data", nil, "parameter name=value, repeatable")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the composed envelope instead of sending it")
	return cmd
}

func parseVersion(s string) (soapmsg.Version, error) {
	switch s {
	case "1.0", "pos", "POS":
		return soapmsg.VersionPOS, nil
	case "1.1":
		return soapmsg.Version11, nil
	case "1.2":
		return soapmsg.Version12, nil
	default:
		return soapmsg.VersionPOS, fmt.Errorf("unknown soap version %q", s)
	}
}

func sendSoapRequest(out io.Writer, endpoint, namespace, action string, ver soapmsg.Version, wire []byte) error {
	contentType := "text/xml; charset=utf-8"
	if ver == soapmsg.Version12 {
		contentType = "application/soap+xml; charset=utf-8"
	}

	req, err := http.NewRequest(http.MethodPost, endpoint, bytes.NewReader(wire))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	if ver != soapmsg.Version12 {
		req.Header.Set("SOAPAction", `"`+namespace+"/"+action+`"`)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	respMsg := soapmsg.FromXML(body)
	if respMsg.FaultState.IsSet() {
		fmt.Fprintf(out, "SOAP fault: %s / %s\n", respMsg.FaultState.Code, respMsg.FaultState.String)
	}
	out.Write(body)
	fmt.Fprintln(out)
	return nil
}
