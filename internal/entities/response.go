package entities

// ResponseType is the observable outcome of a submission
type ResponseType string

// Response types
const (
	ResponseNormal    ResponseType = "normal"
	ResponseHelp      ResponseType = "help"
	ResponseStatus    ResponseType = "status"
	ResponseInventory ResponseType = "inventory"
	ResponseEnd       ResponseType = "end"
	ResponseDead      ResponseType = "dead"
	ResponseError     ResponseType = "error"
	ResponseExit      ResponseType = "exit"
)

// ErrorKey identifies an Error response
type ErrorKey string

// Error keys
const (
	ErrorKeyNone           ErrorKey = ""
	ErrorKeyInvalidChoice  ErrorKey = "invalid_choice"
	ErrorKeyInvalidInput   ErrorKey = "invalid_input"
	ErrorKeyNotYourTurn    ErrorKey = "not_your_turn"
	ErrorKeyPartyNotActive ErrorKey = "party_not_active"
	ErrorKeyInParty        ErrorKey = "in_party"
	ErrorKeyPlayerNotFound ErrorKey = "player_not_found"
)

// Response is what the engines return to adapters for rendering. Choices is
// nil and PlayerStatus empty when absent.
type Response struct {
	Type         ResponseType `json:"type"`
	Message      string       `json:"message"`
	Choices      []string     `json:"choices,omitempty"`
	PlayerStatus string       `json:"player_status,omitempty"`
	ErrorKey     ErrorKey     `json:"error_key,omitempty"`
	ScenarioID   string       `json:"scenario_id,omitempty"`
}

// IsError reports whether the response is an Error variant
func (r Response) IsError() bool {
	return r.Type == ResponseError
}
