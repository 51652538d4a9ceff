package character

import (
	"context"
	"encoding/json"
	"log/slog"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rpg-narrative/internal/entities"
	"github.com/KirkDiggler/rpg-narrative/internal/errors"
	"github.com/KirkDiggler/rpg-narrative/internal/pkg/clock"
	redisclient "github.com/KirkDiggler/rpg-narrative/internal/redis"
)

const (
	// KeyPrefix prefixes every character key
	KeyPrefix = "narrative:character:"

	// Error messages
	errCharacterNil  = "character cannot be nil"
	errPlayerIDEmpty = "player ID cannot be empty"
)

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// RedisConfig contains configuration for the Redis character repository.
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

// NewRedis creates a new Redis-backed character repository
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
	if input.Character == nil {
		return nil, errors.InvalidArgument(errCharacterNil)
	}
	if input.Character.ID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}

	now := r.clock.Now().Unix()
	created := input.Character.Clone()
	created.Version = 1
	created.CreatedAt = now
	created.UpdatedAt = now

	data, err := json.Marshal(created)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal character data")
	}

	ok, err := r.client.SetNX(ctx, KeyPrefix+created.ID, data, 0).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create character")
	}
	if !ok {
		return nil, errors.AlreadyExistsf("character for player %s already exists", created.ID)
	}

	slog.DebugContext(ctx, "character created", "player_id", created.ID)

	return &CreateOutput{Character: &created}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.PlayerID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}

	result, err := r.client.Get(ctx, KeyPrefix+input.PlayerID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("character for player %s not found", input.PlayerID)
		}
		return nil, errors.Wrapf(err, "failed to get character")
	}

	var c entities.Character
	if err := json.Unmarshal([]byte(result), &c); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal character data")
	}

	return &GetOutput{Character: &c}, nil
}

func (r *redisRepository) Save(ctx context.Context, input SaveInput) (*SaveOutput, error) {
	if input.Character == nil {
		return nil, errors.InvalidArgument(errCharacterNil)
	}
	if input.Character.ID == "" {
		return nil, errors.InvalidArgument(errPlayerIDEmpty)
	}

	key := KeyPrefix + input.Character.ID
	saved := input.Character.Clone()
	if input.ScenarioID != "" {
		saved.CurrentScenarioID = input.ScenarioID
	}

	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Result()
		if err == redis.Nil {
			return errors.NotFoundf("character for player %s not found", saved.ID)
		}
		if err != nil {
			return errors.Wrapf(err, "failed to get character")
		}

		var stored entities.Character
		if err := json.Unmarshal([]byte(raw), &stored); err != nil {
			return errors.Wrapf(err, "failed to unmarshal character data")
		}
		if stored.Version != input.Character.Version {
			return errors.Abortedf("character %s is at version %d, write was based on %d",
				saved.ID, stored.Version, input.Character.Version)
		}

		saved.Version = stored.Version + 1
		saved.CreatedAt = stored.CreatedAt
		saved.UpdatedAt = r.clock.Now().Unix()

		data, err := json.Marshal(saved)
		if err != nil {
			return errors.Wrapf(err, "failed to marshal character data")
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		return err
	}

	if err := r.client.Watch(ctx, txf, key); err != nil {
		if err == redis.TxFailedErr {
			return nil, errors.Abortedf("character %s was modified concurrently", saved.ID)
		}
		var coded *errors.Error
		if errors.As(err, &coded) {
			return nil, err
		}
		return nil, errors.Wrapf(err, "failed to save character")
	}

	slog.DebugContext(ctx, "character saved",
		"player_id", saved.ID,
		"scenario_id", saved.CurrentScenarioID,
		"version", saved.Version,
	)

	return &SaveOutput{Character: &saved}, nil
}
