package client

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-narrative/internal/handlers/narrative/v1alpha1"
)

var createCharacterCmd = &cobra.Command{
	Use:   "create-character [player-id] [display-name]",
	Short: "Create a character for a player",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		fields := map[string]any{"player_id": args[0]}
		if len(args) > 1 {
			fields["display_name"] = args[1]
		}
		return call(cmd, v1alpha1.MethodCreateCharacter, fields)
	},
}

var listCampaignsCmd = &cobra.Command{
	Use:   "campaigns",
	Short: "List selectable campaigns",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return call(cmd, v1alpha1.MethodListCampaigns, nil)
	},
}

var selectCampaignCmd = &cobra.Command{
	Use:   "select-campaign [player-id] [campaign-id]",
	Short: "Move a player's character to the start of a campaign",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd, v1alpha1.MethodSelectCampaign, map[string]any{
			"player_id":   args[0],
			"campaign_id": args[1],
		})
	},
}

var startCmd = &cobra.Command{
	Use:   "start [player-id]",
	Short: "Show a player's current scenario",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd, v1alpha1.MethodStartSession, map[string]any{"player_id": args[0]})
	},
}

var submitCmd = &cobra.Command{
	Use:   "submit [player-id] [input...]",
	Short: "Submit a choice number or command for a solo player",
	Long: `Submit sends raw input exactly as a player would type it. Examples:

  submit alice 2
  submit alice inventory`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd, v1alpha1.MethodSubmitInput, map[string]any{
			"player_id": args[0],
			"input":     strings.Join(args[1:], " "),
		})
	},
}
