package client

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-narrative/internal/handlers/narrative/v1alpha1"
)

var partyName string

var partyCmd = &cobra.Command{
	Use:   "party",
	Short: "Party commands",
}

var partyCreateCmd = &cobra.Command{
	Use:   "create [leader-id] [campaign-id]",
	Short: "Create a party led by a player",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd, v1alpha1.MethodCreateParty, map[string]any{
			"leader_id":   args[0],
			"campaign_id": args[1],
			"name":        partyName,
		})
	},
}

var partyInviteCmd = &cobra.Command{
	Use:   "invite [party-id] [inviter-id] [invited-id]",
	Short: "Invite a player into a party",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd, v1alpha1.MethodInvite, map[string]any{
			"party_id":   args[0],
			"inviter_id": args[1],
			"invited_id": args[2],
		})
	},
}

func respondCmd(use string, accept bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [player-id] [party-id]",
		Short: strings.ToUpper(use[:1]) + use[1:] + " a party invitation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return call(cmd, v1alpha1.MethodRespondToInvitation, map[string]any{
				"player_id": args[0],
				"party_id":  args[1],
				"accept":    accept,
			})
		},
	}
}

var partyInvitationsCmd = &cobra.Command{
	Use:   "invitations [player-id]",
	Short: "List a player's pending invitations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd, v1alpha1.MethodListInvitations, map[string]any{"player_id": args[0]})
	},
}

var partyGetCmd = &cobra.Command{
	Use:   "get [party-id]",
	Short: "Show a party and its members",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd, v1alpha1.MethodGetParty, map[string]any{"party_id": args[0]})
	},
}

var partySubmitCmd = &cobra.Command{
	Use:   "submit [player-id] [input...]",
	Short: "Submit input for the party member whose turn it is",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd, v1alpha1.MethodSubmitPartyInput, map[string]any{
			"player_id": args[0],
			"input":     strings.Join(args[1:], " "),
		})
	},
}

func init() {
	partyCreateCmd.Flags().StringVar(&partyName, "name", "", "party name (default: \"<leader>'s party\")")

	partyCmd.AddCommand(partyCreateCmd)
	partyCmd.AddCommand(partyInviteCmd)
	partyCmd.AddCommand(respondCmd("accept", true))
	partyCmd.AddCommand(respondCmd("decline", false))
	partyCmd.AddCommand(partyInvitationsCmd)
	partyCmd.AddCommand(partyGetCmd)
	partyCmd.AddCommand(partySubmitCmd)
}
