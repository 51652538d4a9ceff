package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/KirkDiggler/rpg-narrative/internal/config"
	"github.com/KirkDiggler/rpg-narrative/internal/entities"
	"github.com/KirkDiggler/rpg-narrative/internal/errors"
	"github.com/KirkDiggler/rpg-narrative/internal/logging"
	"github.com/KirkDiggler/rpg-narrative/internal/orchestrators/party"
	"github.com/KirkDiggler/rpg-narrative/internal/orchestrators/traversal"
	characterrepo "github.com/KirkDiggler/rpg-narrative/internal/repositories/character"
)

const playWrapWidth = 72

var (
	playPlayer   string
	playName     string
	playCampaign string
	playMemory   bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in the console",
	Long: `Play runs one player through the story in this terminal. Type a choice
number, or one of help, status, inventory and exit.`,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&playPlayer, "player", "", "player ID")
	playCmd.Flags().StringVar(&playName, "name", "", "display name for a new character")
	playCmd.Flags().StringVar(&playCampaign, "campaign", "", "campaign to start (default: ask)")
	playCmd.Flags().BoolVar(&playMemory, "memory", false, "keep state in an embedded Redis instead of NARRATIVE_REDIS_ENDPOINTS")
	_ = playCmd.MarkFlagRequired("player")
}

var (
	scenarioStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	choiceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	endStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow
)

// displayName title-cases a player-supplied name
func displayName(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return traversal.DefaultDisplayName
	}
	return cases.Title(language.English).String(name)
}

// renderResponse formats a response for the terminal
func renderResponse(r entities.Response) string {
	var sb strings.Builder

	message := wordwrap.String(r.Message, playWrapWidth)
	switch r.Type {
	case entities.ResponseError:
		sb.WriteString(errorStyle.Render(message))
	case entities.ResponseEnd, entities.ResponseDead, entities.ResponseExit:
		sb.WriteString(endStyle.Render(message))
	default:
		sb.WriteString(scenarioStyle.Render(message))
	}
	sb.WriteString("\n")

	if len(r.Choices) > 0 {
		sb.WriteString("\n")
		for i, choice := range r.Choices {
			line := wordwrap.String(fmt.Sprintf("%d. %s", i+1, choice), playWrapWidth)
			sb.WriteString(choiceStyle.Render(line))
			sb.WriteString("\n")
		}
	}

	if r.PlayerStatus != "" {
		sb.WriteString("\n")
		sb.WriteString(statusStyle.Render(r.PlayerStatus))
		sb.WriteString("\n")
	}

	return sb.String()
}

func runPlay(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	// Keep the terminal for the story.
	slog.SetDefault(logging.New(os.Stderr, false, slog.LevelWarn))

	ctx := cmd.Context()
	narrative, err := newApp(ctx, cfg, playMemory)
	if err != nil {
		return err
	}
	defer narrative.Close()

	c := &console{
		app: narrative,
		in:  bufio.NewScanner(cmd.InOrStdin()),
		out: cmd.OutOrStdout(),
	}
	return c.run(ctx, playPlayer)
}

// console drives one player through the engine over a line-oriented terminal
type console struct {
	app *app
	in  *bufio.Scanner
	out io.Writer
}

func (c *console) print(r entities.Response) {
	fmt.Fprintln(c.out, renderResponse(r))
}

func (c *console) prompt() (string, bool) {
	fmt.Fprint(c.out, promptStyle.Render("> "))
	if !c.in.Scan() {
		return "", false
	}
	return c.in.Text(), true
}

func (c *console) run(ctx context.Context, playerID string) error {
	character, err := c.ensureCharacter(ctx, playerID)
	if err != nil {
		return err
	}

	inParty, err := c.inParty(ctx, character)
	if err != nil {
		return err
	}

	var campaignID string
	if !inParty {
		campaignID = playCampaign
		if campaignID == "" && character.CampaignID == "" {
			campaignID, err = c.chooseCampaign(ctx)
			if err != nil {
				return err
			}
		}
	}

	if campaignID != "" {
		out, err := c.app.Traversal.SelectCampaign(ctx, &traversal.SelectCampaignInput{
			PlayerID:   playerID,
			CampaignID: campaignID,
		})
		if err != nil {
			return err
		}
		c.print(out.Response)
	} else {
		out, err := c.app.Traversal.Start(ctx, &traversal.StartInput{PlayerID: playerID})
		if err != nil {
			return err
		}
		c.print(out.Response)
	}

	for {
		line, ok := c.prompt()
		if !ok {
			return nil
		}

		resp, err := c.submit(ctx, character, inParty, line)
		if err != nil {
			return err
		}
		c.print(resp)
		if resp.Type == entities.ResponseExit {
			return nil
		}
		if resp.ErrorKey == entities.ErrorKeyPartyNotActive {
			inParty = false
		}
	}
}

// inParty reports whether the character's party still accepts moves. A
// reference to an ended or missing party counts as no party.
func (c *console) inParty(ctx context.Context, character *entities.Character) (bool, error) {
	if character.PartyID == "" {
		return false, nil
	}

	out, err := c.app.Party.GetParty(ctx, &party.GetPartyInput{PartyID: character.PartyID})
	if err != nil {
		if errors.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return out.Party.IsActive(), nil
}

// submit routes members of an active party to the turn coordinator
func (c *console) submit(ctx context.Context, character *entities.Character, inParty bool, line string) (entities.Response, error) {
	if inParty {
		out, err := c.app.Party.Submit(ctx, &party.SubmitInput{PlayerID: character.ID, Input: line})
		if err != nil {
			return entities.Response{}, err
		}
		return out.Response, nil
	}

	out, err := c.app.Traversal.Submit(ctx, &traversal.SubmitInput{PlayerID: character.ID, Input: line})
	if err != nil {
		return entities.Response{}, err
	}
	return out.Response, nil
}

func (c *console) ensureCharacter(ctx context.Context, playerID string) (*entities.Character, error) {
	got, err := c.app.Characters.Get(ctx, characterrepo.GetInput{PlayerID: playerID})
	if err == nil {
		return got.Character, nil
	}
	if !errors.IsNotFound(err) {
		return nil, err
	}

	created, err := c.app.Traversal.CreateCharacter(ctx, &traversal.CreateCharacterInput{
		PlayerID:    playerID,
		DisplayName: displayName(playName),
	})
	if err != nil {
		return nil, err
	}
	fmt.Fprintln(c.out, statusStyle.Render("Welcome, "+created.Character.DisplayName+"."))
	return created.Character, nil
}

// chooseCampaign lists campaigns and reads a number. A blank line keeps the
// default start scenario.
func (c *console) chooseCampaign(ctx context.Context) (string, error) {
	out, err := c.app.Traversal.ListCampaigns(ctx, &traversal.ListCampaignsInput{})
	if err != nil {
		return "", err
	}
	if len(out.Campaigns) == 0 {
		return "", nil
	}

	fmt.Fprintln(c.out, scenarioStyle.Render("Choose a campaign:"))
	for i, campaign := range out.Campaigns {
		line := fmt.Sprintf("%d. %s", i+1, campaign.Name)
		if campaign.Description != "" {
			line += " - " + campaign.Description
		}
		fmt.Fprintln(c.out, choiceStyle.Render(wordwrap.String(line, playWrapWidth)))
	}

	for {
		line, ok := c.prompt()
		if !ok {
			return "", nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			return "", nil
		}

		var n int
		if _, err := fmt.Sscanf(line, "%d", &n); err == nil && n >= 1 && n <= len(out.Campaigns) {
			return out.Campaigns[n-1].ID, nil
		}
		fmt.Fprintln(c.out, errorStyle.Render("Pick a number from the list."))
	}
}
