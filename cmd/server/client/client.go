// Package client provides commands that call a running narrative gRPC server
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/rpg-narrative/internal/errors"
	"github.com/KirkDiggler/rpg-narrative/internal/handlers/narrative/v1alpha1"
)

var (
	// Connection flags
	serverAddr string
	timeout    time.Duration
)

// ClientCmd is the root command for all client commands
var ClientCmd = &cobra.Command{
	Use:   "client",
	Short: "Call a running narrative server",
	Long:  `Client commands make real gRPC requests against a narrative server and print the JSON reply.`,
}

func init() {
	ClientCmd.PersistentFlags().StringVar(&serverAddr, "server", "localhost:50051", "gRPC server address")
	ClientCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")

	// Solo commands
	ClientCmd.AddCommand(createCharacterCmd)
	ClientCmd.AddCommand(listCampaignsCmd)
	ClientCmd.AddCommand(selectCampaignCmd)
	ClientCmd.AddCommand(startCmd)
	ClientCmd.AddCommand(submitCmd)

	// Party commands
	ClientCmd.AddCommand(partyCmd)
}

// createConnection creates a gRPC connection to the server
func createConnection() (*grpc.ClientConn, error) {
	conn, err := grpc.NewClient(serverAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to server: %w", err)
	}

	return conn, nil
}

// call invokes method on the server and prints the reply as JSON
func call(cmd *cobra.Command, method string, fields map[string]any) error {
	conn, err := createConnection()
	if err != nil {
		return err
	}
	defer func() {
		_ = conn.Close() // nolint:errcheck // safe to ignore in cleanup
	}()

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	resp, err := v1alpha1.NewClient(conn).Call(ctx, method, fields)
	if err != nil {
		return describeError(method, err)
	}

	return printJSON(cmd.OutOrStdout(), resp)
}

// describeError surfaces the server's code and refusal reason
func describeError(method string, err error) error {
	converted := errors.FromGRPCError(err)
	msg := fmt.Sprintf("%s failed (%s): %s", method, errors.GetCode(converted), errors.GetMessage(converted))
	if reason := errors.GetReason(converted); reason != "" {
		msg += " [" + reason + "]"
	}
	if errors.IsRetryable(converted) {
		msg += " (safe to retry)"
	}
	return fmt.Errorf("%s", msg)
}

func printJSON(w io.Writer, resp *structpb.Struct) error {
	output, err := json.MarshalIndent(resp.AsMap(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	_, err = fmt.Fprintln(w, string(output))
	return err
}
