package party

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rpg-narrative/internal/entities"
	"github.com/KirkDiggler/rpg-narrative/internal/errors"
	"github.com/KirkDiggler/rpg-narrative/internal/pkg/clock"
	redisclient "github.com/KirkDiggler/rpg-narrative/internal/redis"
)

const (
	partyKeyPrefix            = "narrative:party:"
	invitationKeyPrefix       = "narrative:invitation:"
	invitationPlayerKeyPrefix = "narrative:player_invitations:"

	// Error messages
	errPartyNil      = "party cannot be nil"
	errPartyIDEmpty  = "party ID cannot be empty"
	errPlayerIDEmpty = "player ID cannot be empty"
)

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// RedisConfig contains configuration for the Redis party repository.
type RedisConfig struct {
	Client redisclient.Client
	Clock  clock.Clock
}

// Validate validates the RedisConfig.
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	return nil
}

// NewRedis creates a new Redis-backed party repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  c,
	}, nil
}

var _ Repository = (*redisRepository)(nil)

func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if input.Party == nil {
		return nil, errors.InvalidArgument(errPartyNil)
	}
	if err := validateParty(input.Party); err != nil {
		return nil, err
	}

	now := r.clock.Now().Unix()
	created := input.Party.Clone()
	created.Version = 1
	created.CreatedAt = now
	created.UpdatedAt = now

	data, err := json.Marshal(created)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal party data")
	}

	ok, err := r.client.SetNX(ctx, partyKeyPrefix+created.ID, data, 0).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create party")
	}
	if !ok {
		return nil, errors.AlreadyExistsf("party %s already exists", created.ID)
	}

	return &CreateOutput{Party: &created}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.PartyID == "" {
		return nil, errors.InvalidArgument(errPartyIDEmpty)
	}

	raw, err := r.client.Get(ctx, partyKeyPrefix+input.PartyID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("party %s not found", input.PartyID)
		}
		return nil, errors.Wrapf(err, "failed to get party")
	}

	var p entities.Party
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal party data")
	}

	return &GetOutput{Party: &p}, nil
}

func (r *redisRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	if input.Party == nil {
		return nil, errors.InvalidArgument(errPartyNil)
	}
	if err := validateParty(input.Party); err != nil {
		return nil, err
	}

	key := partyKeyPrefix + input.Party.ID
	saved := input.Party.Clone()

	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Result()
		if err == redis.Nil {
			return errors.NotFoundf("party %s not found", saved.ID)
		}
		if err != nil {
			return errors.Wrapf(err, "failed to get party")
		}

		var stored entities.Party
		if err := json.Unmarshal([]byte(raw), &stored); err != nil {
			return errors.Wrapf(err, "failed to unmarshal party data")
		}
		if stored.Version != input.Party.Version {
			return errors.Abortedf("party %s is at version %d, write was based on %d",
				saved.ID, stored.Version, input.Party.Version)
		}

		saved.Version = stored.Version + 1
		saved.CreatedAt = stored.CreatedAt
		saved.UpdatedAt = r.clock.Now().Unix()

		data, err := json.Marshal(saved)
		if err != nil {
			return errors.Wrapf(err, "failed to marshal party data")
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		return err
	}

	if err := r.watch(ctx, txf, key); err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "party updated",
		"party_id", saved.ID,
		"scenario_id", saved.SharedScenarioID,
		"turn", saved.CurrentTurnPlayerID,
		"version", saved.Version,
	)

	return &UpdateOutput{Party: &saved}, nil
}

func (r *redisRepository) CreateInvitation(ctx context.Context, input CreateInvitationInput) (*CreateInvitationOutput, error) {
	if input.PartyID == "" {
		return nil, errors.InvalidArgument(errPartyIDEmpty)
	}
	if input.InvitedPlayerID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}

	now := r.clock.Now().Unix()
	inv := &entities.Invitation{
		PartyID:         input.PartyID,
		InvitedPlayerID: input.InvitedPlayerID,
		InviterID:       input.InviterID,
		Status:          entities.InvitationPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	data, err := json.Marshal(inv)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal invitation")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, invitationKey(input.PartyID, input.InvitedPlayerID), data, 0)
	pipe.SAdd(ctx, invitationIndexKey(input.InvitedPlayerID), input.PartyID)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to create invitation")
	}

	return &CreateInvitationOutput{Invitation: inv}, nil
}

func (r *redisRepository) GetInvitation(ctx context.Context, input GetInvitationInput) (*GetInvitationOutput, error) {
	if input.PartyID == "" {
		return nil, errors.InvalidArgument(errPartyIDEmpty)
	}
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}

	raw, err := r.client.Get(ctx, invitationKey(input.PartyID, input.PlayerID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("no invitation to party %s for player %s", input.PartyID, input.PlayerID)
		}
		return nil, errors.Wrapf(err, "failed to get invitation")
	}

	inv, err := decodeInvitation(raw)
	if err != nil {
		return nil, err
	}

	return &GetInvitationOutput{Invitation: inv}, nil
}

func (r *redisRepository) ListPendingInvitations(
	ctx context.Context,
	input ListPendingInvitationsInput,
) (*ListPendingInvitationsOutput, error) {
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}

	partyIDs, err := r.client.SMembers(ctx, invitationIndexKey(input.PlayerID)).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list invitation index")
	}
	if len(partyIDs) == 0 {
		return &ListPendingInvitationsOutput{Invitations: []*entities.Invitation{}}, nil
	}

	keys := make([]string, 0, len(partyIDs))
	for _, partyID := range partyIDs {
		keys = append(keys, invitationKey(partyID, input.PlayerID))
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get invitations")
	}

	out := make([]*entities.Invitation, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			slog.WarnContext(ctx, "invitation index points at missing key", "key", keys[i])
			continue
		}
		inv, err := decodeInvitation(raw)
		if err != nil {
			slog.WarnContext(ctx, "skipping unreadable invitation", "key", keys[i], "error", err)
			continue
		}
		if inv.IsPending() {
			out = append(out, inv)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].UpdatedAt != out[j].UpdatedAt {
			return out[i].UpdatedAt > out[j].UpdatedAt
		}
		return out[i].PartyID < out[j].PartyID
	})

	return &ListPendingInvitationsOutput{Invitations: out}, nil
}

func (r *redisRepository) UpdateInvitationStatus(
	ctx context.Context,
	input UpdateInvitationStatusInput,
) (*UpdateInvitationStatusOutput, error) {
	if input.PartyID == "" {
		return nil, errors.InvalidArgument(errPartyIDEmpty)
	}
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}
	if input.Status != entities.InvitationAccepted && input.Status != entities.InvitationDeclined {
		return nil, errors.InvalidArgumentf("invitation cannot move to status %q", input.Status)
	}

	key := invitationKey(input.PartyID, input.PlayerID)
	var updated *entities.Invitation

	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Result()
		if err == redis.Nil {
			return errors.NotFoundf("no invitation to party %s for player %s", input.PartyID, input.PlayerID)
		}
		if err != nil {
			return errors.Wrapf(err, "failed to get invitation")
		}

		inv, err := decodeInvitation(raw)
		if err != nil {
			return err
		}
		if !inv.IsPending() {
			return errors.FailedPreconditionf("invitation to party %s is already %s", input.PartyID, inv.Status)
		}

		inv.Status = input.Status
		inv.UpdatedAt = r.clock.Now().Unix()

		data, err := json.Marshal(inv)
		if err != nil {
			return errors.Wrapf(err, "failed to marshal invitation")
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		if err != nil {
			return err
		}
		updated = inv
		return nil
	}

	if err := r.watch(ctx, txf, key); err != nil {
		return nil, err
	}

	return &UpdateInvitationStatusOutput{Invitation: updated}, nil
}

// watch runs txf under WATCH and maps a lost race to Aborted.
func (r *redisRepository) watch(ctx context.Context, txf func(tx *redis.Tx) error, key string) error {
	err := r.client.Watch(ctx, txf, key)
	if err == nil {
		return nil
	}
	if err == redis.TxFailedErr {
		return errors.Abortedf("%s was modified concurrently", key)
	}
	var coded *errors.Error
	if errors.As(err, &coded) {
		return err
	}
	return errors.Wrapf(err, "failed to write %s", key)
}

// Invitation keys hash-tag the player so a player's invitations and index
// share a cluster slot for MGET and MULTI.
func invitationKey(partyID, playerID string) string {
	return invitationKeyPrefix + "{" + playerID + "}:" + partyID
}

func invitationIndexKey(playerID string) string {
	return invitationPlayerKeyPrefix + "{" + playerID + "}"
}

func decodeInvitation(raw string) (*entities.Invitation, error) {
	var inv entities.Invitation
	if err := json.Unmarshal([]byte(raw), &inv); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal invitation")
	}
	return &inv, nil
}

func validateParty(p *entities.Party) error {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("id", p.ID, vb)
	errors.ValidateRequired("leader_id", p.LeaderID, vb)
	if !p.HasMember(p.LeaderID) {
		vb.Field("member_ids", "must contain the leader")
	}
	if !p.HasMember(p.CurrentTurnPlayerID) {
		vb.Field("current_turn_player_id", "must be a member")
	}
	return vb.Build()
}
