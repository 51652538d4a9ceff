package session

import (
	"fmt"
	"strings"

	"github.com/KirkDiggler/rpg-narrative/internal/entities"
)

// Response messages
const (
	MessageHelp = "Commands:\n" +
		"• <number> - pick an option\n" +
		"• help - this help\n" +
		"• status - hero status\n" +
		"• inventory - your items\n" +
		"• exit - leave the game"
	MessageExit           = "Leaving..."
	MessageDead           = "You are dead. Game over."
	MessageDiedOfWounds   = "You died of your wounds..."
	MessagePartyDefeated  = "The whole party has fallen. The adventure is over."
	MessageEnd            = "The adventure is over. Type 'exit'."
	MessagePathEnds       = "The path ends here..."
	MessageInvalidChoice  = "Invalid choice."
	MessageInvalidInput   = "Enter the number of an option."
	MessagePlayerNotFound = "Player not found."
	MessagePartyNotActive = "This party is no longer active."
	MessageInParty        = "You are travelling with a party. Make your moves through the party."
	MessageEmptyInventory = "Your inventory is empty."
	MessageGameStarted    = "The game has begun!"
)

// Builder renders entities into Responses
type Builder struct {
	catalog *entities.Catalog
}

// NewBuilder creates a Builder that names items from catalog
func NewBuilder(catalog *entities.Catalog) *Builder {
	return &Builder{catalog: catalog}
}

// Catalog returns the item catalog used for rendering
func (b *Builder) Catalog() *entities.Catalog {
	return b.catalog
}

// StatusSummary joins the status line of every character
func (b *Builder) StatusSummary(chars ...*entities.Character) string {
	lines := make([]string, 0, len(chars))
	for _, c := range chars {
		lines = append(lines, c.StatusLine(b.catalog))
	}
	return strings.Join(lines, "\n")
}

// Scenario renders a scenario with its choices. An empty message uses the
// scenario description.
func (b *Builder) Scenario(sc *entities.Scenario, message string, chars ...*entities.Character) entities.Response {
	if message == "" {
		message = sc.Description
	}
	return entities.Response{
		Type:         entities.ResponseNormal,
		Message:      message,
		Choices:      sc.ChoiceTexts(),
		PlayerStatus: b.StatusSummary(chars...),
		ScenarioID:   sc.ID,
	}
}

// End renders a terminal outcome
func (b *Builder) End(scenarioID, message string, chars ...*entities.Character) entities.Response {
	if message == "" {
		message = MessageEnd
	}
	return entities.Response{
		Type:         entities.ResponseEnd,
		Message:      message,
		PlayerStatus: b.StatusSummary(chars...),
		ScenarioID:   scenarioID,
	}
}

// Dead renders a death outcome
func (b *Builder) Dead(message string, chars ...*entities.Character) entities.Response {
	return entities.Response{
		Type:         entities.ResponseDead,
		Message:      message,
		PlayerStatus: b.StatusSummary(chars...),
	}
}

// InputError renders invalid_input or invalid_choice, re-showing choices
func (b *Builder) InputError(key entities.ErrorKey, sc *entities.Scenario, chars ...*entities.Character) entities.Response {
	message := MessageInvalidChoice
	if key == entities.ErrorKeyInvalidInput {
		message = MessageInvalidInput
	}
	return entities.Response{
		Type:         entities.ResponseError,
		Message:      message,
		Choices:      sc.ChoiceTexts(),
		PlayerStatus: b.StatusSummary(chars...),
		ErrorKey:     key,
		ScenarioID:   sc.ID,
	}
}

// PlayerNotFound renders the player_not_found error
func (b *Builder) PlayerNotFound() entities.Response {
	return entities.Response{
		Type:     entities.ResponseError,
		Message:  MessagePlayerNotFound,
		ErrorKey: entities.ErrorKeyPlayerNotFound,
	}
}

// NotYourTurn renders the not_your_turn error naming whose turn it is
func (b *Builder) NotYourTurn(current string) entities.Response {
	return entities.Response{
		Type:     entities.ResponseError,
		Message:  fmt.Sprintf("It is not your turn. Waiting for %s.", current),
		ErrorKey: entities.ErrorKeyNotYourTurn,
	}
}

// PartyNotActive renders the party_not_active error
func (b *Builder) PartyNotActive() entities.Response {
	return entities.Response{
		Type:     entities.ResponseError,
		Message:  MessagePartyNotActive,
		ErrorKey: entities.ErrorKeyPartyNotActive,
	}
}

// InParty refuses solo moves from a member of an active party
func (b *Builder) InParty() entities.Response {
	return entities.Response{
		Type:     entities.ResponseError,
		Message:  MessageInParty,
		ErrorKey: entities.ErrorKeyInParty,
	}
}

// Command renders a reserved command. Status and inventory cover every
// character given, which is the whole party in party play.
func (b *Builder) Command(cmd Command, chars ...*entities.Character) entities.Response {
	switch cmd {
	case CommandHelp:
		return entities.Response{Type: entities.ResponseHelp, Message: MessageHelp}
	case CommandStatus:
		return entities.Response{
			Type:         entities.ResponseStatus,
			Message:      "Your status:\n" + b.StatusSummary(chars...),
			PlayerStatus: b.StatusSummary(chars...),
		}
	case CommandInventory:
		return entities.Response{
			Type:    entities.ResponseInventory,
			Message: b.inventory(chars),
		}
	default:
		return entities.Response{Type: entities.ResponseExit, Message: MessageExit}
	}
}

func (b *Builder) inventory(chars []*entities.Character) string {
	if len(chars) == 1 {
		return b.inventoryOf(chars[0])
	}

	sections := make([]string, 0, len(chars))
	for _, c := range chars {
		sections = append(sections, c.DisplayName+": "+b.inventoryOf(c))
	}
	return strings.Join(sections, "\n")
}

func (b *Builder) inventoryOf(c *entities.Character) string {
	if len(c.Inventory) == 0 {
		return MessageEmptyInventory
	}

	lines := make([]string, 0, len(c.Inventory)+1)
	lines = append(lines, "Your inventory:")
	for _, id := range c.Inventory {
		item, ok := b.catalog.Get(id)
		if !ok {
			lines = append(lines, "- "+id)
			continue
		}
		lines = append(lines, fmt.Sprintf("- %s - %s (%s)", item.Name, item.Description, item.Type))
	}
	return strings.Join(lines, "\n")
}
